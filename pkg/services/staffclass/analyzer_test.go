package staffclass

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counsel-tools/rate-lens/pkg/models/domain"
)

func intPtr(v int) *int { return &v }

func class(id string, min int, max *int) domain.StaffClass {
	return domain.StaffClass{
		ID:             id,
		OrganizationID: "org-1",
		Name:           id,
		ExperienceType: domain.BarYear,
		MinExperience:  min,
		MaxExperience:  max,
		IsActive:       true,
	}
}

func TestOverlaps(t *testing.T) {
	t.Run("adjacent ranges overlap", func(t *testing.T) {
		a := class("A", 0, intPtr(5))
		b := class("B", 4, intPtr(10))

		overlaps := Overlaps([]domain.StaffClass{a, b})
		require.Len(t, overlaps, 1)
		assert.Equal(t, "A", overlaps[0].A.ID)
		assert.Equal(t, "B", overlaps[0].B.ID)
	})

	t.Run("disjoint ranges do not overlap", func(t *testing.T) {
		a := class("A", 0, intPtr(3))
		b := class("B", 4, intPtr(10))

		assert.Empty(t, Overlaps([]domain.StaffClass{a, b}))
	})

	t.Run("open-ended range overlaps everything above its min", func(t *testing.T) {
		a := class("A", 5, nil)
		b := class("B", 8, intPtr(12))
		c := class("C", 0, intPtr(4))

		overlaps := Overlaps([]domain.StaffClass{a, b, c})
		require.Len(t, overlaps, 1)
		assert.Equal(t, "A", overlaps[0].A.ID)
		assert.Equal(t, "B", overlaps[0].B.ID)
	})

	t.Run("each pair reported once", func(t *testing.T) {
		a := class("A", 0, intPtr(10))
		b := class("B", 2, intPtr(8))
		c := class("C", 5, intPtr(15))

		overlaps := Overlaps([]domain.StaffClass{a, b, c})
		assert.Len(t, overlaps, 3)
	})
}

func TestGaps(t *testing.T) {
	t.Run("gap between classes", func(t *testing.T) {
		a := class("A", 0, intPtr(3))
		b := class("B", 6, intPtr(10))

		gaps := Gaps([]domain.StaffClass{a, b})
		require.Len(t, gaps, 1)
		assert.Equal(t, Gap{Min: 4, Max: 5}, gaps[0])
	})

	t.Run("contiguous classes have no gap", func(t *testing.T) {
		a := class("A", 0, intPtr(3))
		b := class("B", 4, intPtr(10))

		assert.Empty(t, Gaps([]domain.StaffClass{a, b}))
	})

	t.Run("open-ended class never precedes a gap", func(t *testing.T) {
		a := class("A", 0, nil)
		b := class("B", 20, intPtr(30))

		assert.Empty(t, Gaps([]domain.StaffClass{a, b}))
	})

	t.Run("unsorted input", func(t *testing.T) {
		b := class("B", 8, intPtr(10))
		a := class("A", 0, intPtr(3))

		gaps := Gaps([]domain.StaffClass{b, a})
		require.Len(t, gaps, 1)
		assert.Equal(t, Gap{Min: 4, Max: 7}, gaps[0])
	})
}

func TestBestFit(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	analyzer := NewAnalyzerAt(func() time.Time { return now })

	barDate := time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC) // 6 full years
	attorney := domain.Attorney{ID: "att-1", BarDate: &barDate}

	t.Run("prefers the range centering the experience", func(t *testing.T) {
		wide := class("wide", 0, intPtr(20))     // midpoint 10
		tight := class("tight", 5, intPtr(7))    // midpoint 6
		junior := class("junior", 0, intPtr(3))  // does not contain 6

		fit, ok := analyzer.BestFit(attorney, []domain.StaffClass{wide, tight, junior})
		require.True(t, ok)
		assert.Equal(t, "tight", fit.Class.ID)
		assert.Equal(t, 6, fit.Experience)
	})

	t.Run("open-ended range favors lowest bound", func(t *testing.T) {
		seniorA := class("senior-a", 5, nil)
		seniorB := class("senior-b", 6, nil)

		fit, ok := analyzer.BestFit(attorney, []domain.StaffClass{seniorA, seniorB})
		require.True(t, ok)
		// 1/(1+6-6) = 1 beats 1/(1+6-5) = 0.5
		assert.Equal(t, "senior-b", fit.Class.ID)
	})

	t.Run("ties break to lowest class id", func(t *testing.T) {
		twinB := class("class-b", 5, intPtr(7))
		twinA := class("class-a", 5, intPtr(7))

		fit, ok := analyzer.BestFit(attorney, []domain.StaffClass{twinB, twinA})
		require.True(t, ok)
		assert.Equal(t, "class-a", fit.Class.ID)
	})

	t.Run("inactive classes ignored", func(t *testing.T) {
		inactive := class("inactive", 5, intPtr(7))
		inactive.IsActive = false

		_, ok := analyzer.BestFit(attorney, []domain.StaffClass{inactive})
		assert.False(t, ok)
	})

	t.Run("no containing range", func(t *testing.T) {
		junior := class("junior", 0, intPtr(3))
		_, ok := analyzer.BestFit(attorney, []domain.StaffClass{junior})
		assert.False(t, ok)
	})
}

func TestComputeExperience(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	analyzer := NewAnalyzerAt(func() time.Time { return now })

	grad := time.Date(2014, 5, 20, 0, 0, 0, 0, time.UTC)
	bar := time.Date(2015, 11, 1, 0, 0, 0, 0, time.UTC)
	promo := time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC)

	attorney := domain.Attorney{
		ID:             "att-1",
		GraduationDate: &grad,
		BarDate:        &bar,
		PromotionDate:  &promo,
	}

	assert.Equal(t, 10, analyzer.ComputeExperience(attorney, domain.GraduationYear))
	assert.Equal(t, 8, analyzer.ComputeExperience(attorney, domain.BarYear))
	// promotion anniversary not yet reached in 2024
	assert.Equal(t, 1, analyzer.ComputeExperience(attorney, domain.YearsInRole))
}

func TestComputeExperience_MissingDateYieldsZero(t *testing.T) {
	analyzer := NewAnalyzer()
	attorney := domain.Attorney{ID: "att-1"}

	assert.Equal(t, 0, analyzer.ComputeExperience(attorney, domain.GraduationYear))
	assert.Equal(t, 0, analyzer.ComputeExperience(attorney, domain.BarYear))
	assert.Equal(t, 0, analyzer.ComputeExperience(attorney, domain.YearsInRole))
}
