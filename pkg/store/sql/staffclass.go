package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/counsel-tools/rate-lens/pkg/adapters"
	"github.com/counsel-tools/rate-lens/pkg/models/domain"
	"github.com/counsel-tools/rate-lens/pkg/models/store"
)

type StaffClassStore struct {
	db *sql.DB
}

func NewStaffClassStore(db *sql.DB) (*StaffClassStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &StaffClassStore{db: db}, nil
}

const staffClassQuery = `
	SELECT
	  s.id,
	  s.organization_id,
	  s.name,
	  s.experience_type,
	  s.min_experience,
	  s.max_experience,
	  COALESCE(s.practice_area, ''),
	  s.is_active
	FROM staff_classes s
	WHERE s.organization_id = $1
	  AND s.experience_type = $2
	ORDER BY s.min_experience`

// ListByOrganization returns the staff classes sharing an organization
// and experience axis; overlap and gap analysis operates over this set.
func (s *StaffClassStore) ListByOrganization(ctx context.Context, organizationID string, expType domain.ExperienceType) ([]domain.StaffClass, error) {
	rows, err := s.db.QueryContext(ctx, staffClassQuery, organizationID, string(expType))
	if err != nil {
		return nil, fmt.Errorf("staff class query failed: %w", err)
	}
	defer rows.Close()

	var classes []domain.StaffClass
	for rows.Next() {
		var row store.StaffClassRow
		if err := rows.Scan(
			&row.ID,
			&row.OrganizationID,
			&row.Name,
			&row.ExperienceType,
			&row.MinExperience,
			&row.MaxExperience,
			&row.PracticeArea,
			&row.IsActive,
		); err != nil {
			return nil, err
		}

		class, err := adapters.MapStoreStaffClassToDomain(row)
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	return classes, rows.Err()
}
