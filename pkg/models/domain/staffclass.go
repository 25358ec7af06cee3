package domain

import "time"

// StaffClass defines an experience-based tier used for rate setting. It is
// an eligibility interval on one experience axis: [MinExperience,
// MaxExperience], where a nil MaxExperience means open-ended.
type StaffClass struct {
	ID             string
	OrganizationID string
	Name           string
	ExperienceType ExperienceType
	MinExperience  int
	MaxExperience  *int
	PracticeArea   string
	IsActive       bool
}

// Contains reports whether years falls inside the class interval.
func (s StaffClass) Contains(years int) bool {
	if years < s.MinExperience {
		return false
	}
	return s.MaxExperience == nil || years <= *s.MaxExperience
}

// Attorney carries the dates experience is computed from. Read-only to the
// analytics core; any of the dates may be absent.
type Attorney struct {
	ID             string
	Name           string
	GraduationDate *time.Time
	BarDate        *time.Time
	PromotionDate  *time.Time
}
