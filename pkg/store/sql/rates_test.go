package sql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counsel-tools/rate-lens/pkg/models/domain"
)

var rateCols = []string{
	"attorney_id", "client_id", "firm_id", "staff_class_id", "office_id",
	"amount", "currency", "effective_date", "expiration_date", "type", "status",
}

func TestRateStore_CurrentRates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	effective := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	expires := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(rateCols).
		AddRow("att-1", "client-1", "firm-1", "sc-senior", "nyc", "500.00", "USD", effective, expires, "standard", "approved").
		AddRow("att-2", "client-1", "firm-1", "", "", "350.00", "USD", effective, nil, "standard", "approved")

	mock.ExpectQuery(regexp.QuoteMeta("r.status = 'approved'")).
		WithArgs("client-1", "firm-1").
		WillReturnRows(rows)

	store, err := NewRateStore(db)
	require.NoError(t, err)

	rates, err := store.CurrentRates(context.Background(), "client-1", "firm-1")
	require.NoError(t, err)
	require.Len(t, rates, 2)

	assert.Equal(t, "att-1", rates[0].AttorneyID)
	assert.Equal(t, "500", rates[0].Amount.String())
	assert.Equal(t, domain.RateApproved, rates[0].Status)
	require.NotNil(t, rates[0].ExpirationDate)
	assert.Nil(t, rates[1].ExpirationDate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateStore_ProposedRates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	effective := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(rateCols).
		AddRow("att-1", "client-1", "firm-1", "", "", "550.00", "USD", effective, nil, "standard", "submitted")

	mock.ExpectQuery(regexp.QuoteMeta("r.status = 'submitted'")).
		WithArgs("client-1", "firm-1").
		WillReturnRows(rows)

	store, err := NewRateStore(db)
	require.NoError(t, err)

	rates, err := store.ProposedRates(context.Background(), "client-1", "firm-1")
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, domain.RateSubmitted, rates[0].Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateStore_RatesByAttorney(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(rateCols).
		AddRow("att-1", "client-1", "firm-1", "", "", "500.00", "USD",
			time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), nil, "standard", "approved").
		AddRow("att-1", "client-1", "firm-1", "", "", "550.00", "USD",
			time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), nil, "standard", "approved")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.attorney_id = $1")).
		WithArgs("att-1").
		WillReturnRows(rows)

	store, err := NewRateStore(db)
	require.NoError(t, err)

	rates, err := store.RatesByAttorney(context.Background(), "att-1")
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.True(t, rates[0].EffectiveDate.Before(rates[1].EffectiveDate))

	assert.NoError(t, mock.ExpectationsWereMet())
}
