package sql

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counsel-tools/rate-lens/pkg/models/domain"
)

func TestStaffClassStore_ListByOrganization(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{
		"id", "organization_id", "name", "experience_type",
		"min_experience", "max_experience", "practice_area", "is_active",
	}
	rows := sqlmock.NewRows(cols).
		AddRow("sc-1", "org-1", "Associate", "bar_year", 0, 5, "", true).
		AddRow("sc-2", "org-1", "Partner", "bar_year", 6, nil, "", true)

	mock.ExpectQuery(regexp.QuoteMeta(staffClassQuery)).
		WithArgs("org-1", "bar_year").
		WillReturnRows(rows)

	store, err := NewStaffClassStore(db)
	require.NoError(t, err)

	classes, err := store.ListByOrganization(context.Background(), "org-1", domain.BarYear)
	require.NoError(t, err)
	require.Len(t, classes, 2)

	assert.Equal(t, "Associate", classes[0].Name)
	require.NotNil(t, classes[0].MaxExperience)
	assert.Equal(t, 5, *classes[0].MaxExperience)
	assert.Nil(t, classes[1].MaxExperience, "open-ended class has no max")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffClassStore_UnknownExperienceType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{
		"id", "organization_id", "name", "experience_type",
		"min_experience", "max_experience", "practice_area", "is_active",
	}
	rows := sqlmock.NewRows(cols).
		AddRow("sc-1", "org-1", "Associate", "shoe_size", 0, 5, "", true)

	mock.ExpectQuery(regexp.QuoteMeta(staffClassQuery)).
		WillReturnRows(rows)

	store, err := NewStaffClassStore(db)
	require.NoError(t, err)

	_, err = store.ListByOrganization(context.Background(), "org-1", domain.BarYear)
	require.Error(t, err)
}
