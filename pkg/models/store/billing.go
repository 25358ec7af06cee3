package store

import "time"

// BillingRow is a billing record as read from persistence. Monetary values
// stay as strings until adapted to domain decimals so no float rounding
// happens on the way in.
type BillingRow struct {
	AttorneyID   string    `json:"attorney_id"`
	ClientID     string    `json:"client_id"`
	MatterID     string    `json:"matter_id"`
	Hours        string    `json:"hours"`
	Fees         string    `json:"fees"`
	BillingDate  time.Time `json:"billing_date"`
	IsAFA        bool      `json:"is_afa"`
	Currency     string    `json:"currency"`
	PracticeArea string    `json:"practice_area,omitempty"`
	OfficeID     string    `json:"office_id,omitempty"`
	StaffClassID string    `json:"staff_class_id,omitempty"`
}

// RateRow is a rate record as read from persistence.
type RateRow struct {
	AttorneyID     string     `json:"attorney_id"`
	ClientID       string     `json:"client_id"`
	FirmID         string     `json:"firm_id"`
	StaffClassID   string     `json:"staff_class_id,omitempty"`
	OfficeID       string     `json:"office_id,omitempty"`
	Amount         string     `json:"amount"`
	Currency       string     `json:"currency"`
	EffectiveDate  time.Time  `json:"effective_date"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	Type           string     `json:"type"`
	Status         string     `json:"status"`
}

// StaffClassRow is a staff-class definition as read from persistence.
type StaffClassRow struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	ExperienceType string `json:"experience_type"`
	MinExperience  int    `json:"min_experience"`
	MaxExperience  *int   `json:"max_experience,omitempty"`
	PracticeArea   string `json:"practice_area,omitempty"`
	IsActive       bool   `json:"is_active"`
}
