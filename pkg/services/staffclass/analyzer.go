// Package staffclass analyzes staff-class experience intervals: overlap
// and gap detection over a set of class definitions, and best-fit class
// assignment for an attorney.
package staffclass

import (
	"sort"
	"time"

	"github.com/counsel-tools/rate-lens/pkg/models/domain"
)

// Overlap is one unordered pair of overlapping classes, reported once.
type Overlap struct {
	A domain.StaffClass
	B domain.StaffClass
}

// Gap is an inclusive integer experience range covered by no class.
type Gap struct {
	Min int
	Max int
}

// Fit is a scored candidate class for an attorney.
type Fit struct {
	Class      domain.StaffClass
	Experience int
	Score      float64
}

type Analyzer struct {
	now func() time.Time
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{now: time.Now}
}

// NewAnalyzerAt pins the reference time experience is computed against.
func NewAnalyzerAt(now func() time.Time) *Analyzer {
	return &Analyzer{now: now}
}

// Overlaps reports every overlapping pair among the given classes. Two
// classes overlap iff A.min <= B.max and A.max >= B.min, treating an
// absent max as unbounded. Pairs are enumerated i<j so each is reported
// once.
func Overlaps(classes []domain.StaffClass) []Overlap {
	var overlaps []Overlap
	for i := 0; i < len(classes); i++ {
		for j := i + 1; j < len(classes); j++ {
			if intervalsOverlap(classes[i], classes[j]) {
				overlaps = append(overlaps, Overlap{A: classes[i], B: classes[j]})
			}
		}
	}
	return overlaps
}

func intervalsOverlap(a, b domain.StaffClass) bool {
	aBelowB := b.MaxExperience != nil && a.MinExperience > *b.MaxExperience
	bBelowA := a.MaxExperience != nil && b.MinExperience > *a.MaxExperience
	return !aBelowB && !bBelowA
}

// Gaps reports uncovered experience ranges between adjacent classes when
// sorted by minimum experience. A class with an open-ended max can never
// precede a gap.
func Gaps(classes []domain.StaffClass) []Gap {
	if len(classes) < 2 {
		return nil
	}

	sorted := make([]domain.StaffClass, len(classes))
	copy(sorted, classes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinExperience < sorted[j].MinExperience
	})

	var gaps []Gap
	for i := 0; i < len(sorted)-1; i++ {
		cur, next := sorted[i], sorted[i+1]
		if cur.MaxExperience == nil {
			continue
		}
		if next.MinExperience > *cur.MaxExperience+1 {
			gaps = append(gaps, Gap{Min: *cur.MaxExperience + 1, Max: next.MinExperience - 1})
		}
	}
	return gaps
}

// BestFit picks the eligible class whose range most tightly centers the
// attorney's experience. Bounded ranges score by closeness to the range
// midpoint; open-ended ranges score 1/(1+experience-min), favoring the
// most specific bound as experience grows. Exact score ties break to the
// lowest class ID so assignment is deterministic.
func (a *Analyzer) BestFit(attorney domain.Attorney, classes []domain.StaffClass) (*Fit, bool) {
	var best *Fit
	for _, class := range classes {
		if !class.IsActive {
			continue
		}
		experience := a.ComputeExperience(attorney, class.ExperienceType)
		if !class.Contains(experience) {
			continue
		}

		fit := Fit{Class: class, Experience: experience, Score: fitScore(class, experience)}
		if best == nil ||
			fit.Score > best.Score ||
			(fit.Score == best.Score && fit.Class.ID < best.Class.ID) {
			f := fit
			best = &f
		}
	}
	return best, best != nil
}

func fitScore(class domain.StaffClass, experience int) float64 {
	if class.MaxExperience == nil {
		return 1 / (1 + float64(experience-class.MinExperience))
	}
	width := float64(*class.MaxExperience - class.MinExperience)
	if width == 0 {
		return 1
	}
	midpoint := float64(class.MinExperience) + width/2
	distance := float64(experience) - midpoint
	if distance < 0 {
		distance = -distance
	}
	return 1 - distance/width
}

// ComputeExperience maps the class's experience axis to the matching
// attorney date and returns full years elapsed. A missing date yields 0
// so batch operations never abort on incomplete attorney data.
func (a *Analyzer) ComputeExperience(attorney domain.Attorney, expType domain.ExperienceType) int {
	var since *time.Time
	switch expType {
	case domain.GraduationYear:
		since = attorney.GraduationDate
	case domain.BarYear:
		since = attorney.BarDate
	case domain.YearsInRole:
		since = attorney.PromotionDate
	}
	if since == nil {
		return 0
	}
	return yearsBetween(*since, a.now())
}

func yearsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	years := to.Year() - from.Year()
	anniversary := from.AddDate(years, 0, 0)
	if anniversary.After(to) {
		years--
	}
	return years
}
