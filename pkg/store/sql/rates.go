package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/counsel-tools/rate-lens/pkg/adapters"
	"github.com/counsel-tools/rate-lens/pkg/models/domain"
	"github.com/counsel-tools/rate-lens/pkg/models/store"
)

type RateStore struct {
	db *sql.DB
}

func NewRateStore(db *sql.DB) (*RateStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &RateStore{db: db}, nil
}

const rateColumns = `
	  r.attorney_id,
	  r.client_id,
	  r.firm_id,
	  COALESCE(r.staff_class_id, ''),
	  COALESCE(r.office_id, ''),
	  r.amount,
	  r.currency,
	  r.effective_date,
	  r.expiration_date,
	  r.type,
	  r.status`

// CurrentRates returns approved rates for a client-firm pair.
func (s *RateStore) CurrentRates(ctx context.Context, clientID, firmID string) ([]domain.Rate, error) {
	query := `
	SELECT` + rateColumns + `
	FROM rates r
	WHERE r.client_id = $1
	  AND r.firm_id = $2
	  AND r.status = 'approved'
	ORDER BY r.effective_date`
	return s.queryRates(ctx, query, clientID, firmID)
}

// ProposedRates returns submitted (not yet approved) rates for a
// client-firm pair.
func (s *RateStore) ProposedRates(ctx context.Context, clientID, firmID string) ([]domain.Rate, error) {
	query := `
	SELECT` + rateColumns + `
	FROM rates r
	WHERE r.client_id = $1
	  AND r.firm_id = $2
	  AND r.status = 'submitted'
	ORDER BY r.effective_date`
	return s.queryRates(ctx, query, clientID, firmID)
}

// RatesByAttorney returns an attorney's full rate history, oldest first.
func (s *RateStore) RatesByAttorney(ctx context.Context, attorneyID string) ([]domain.Rate, error) {
	query := `
	SELECT` + rateColumns + `
	FROM rates r
	WHERE r.attorney_id = $1
	ORDER BY r.effective_date`
	return s.queryRates(ctx, query, attorneyID)
}

// RatesByClient returns all rates negotiated for a client, oldest first.
func (s *RateStore) RatesByClient(ctx context.Context, clientID string) ([]domain.Rate, error) {
	query := `
	SELECT` + rateColumns + `
	FROM rates r
	WHERE r.client_id = $1
	ORDER BY r.effective_date`
	return s.queryRates(ctx, query, clientID)
}

// RatesByFirm returns all rates submitted by a firm, oldest first.
func (s *RateStore) RatesByFirm(ctx context.Context, firmID string) ([]domain.Rate, error) {
	query := `
	SELECT` + rateColumns + `
	FROM rates r
	WHERE r.firm_id = $1
	ORDER BY r.effective_date`
	return s.queryRates(ctx, query, firmID)
}

// ApprovedRates returns an organization's approved rates for peer
// benchmarking. The organization may appear on either side of the
// negotiation.
func (s *RateStore) ApprovedRates(ctx context.Context, organizationID string) ([]domain.Rate, error) {
	query := `
	SELECT` + rateColumns + `
	FROM rates r
	WHERE (r.client_id = $1 OR r.firm_id = $1)
	  AND r.status = 'approved'
	ORDER BY r.effective_date`
	return s.queryRates(ctx, query, organizationID)
}

func (s *RateStore) queryRates(ctx context.Context, query string, args ...any) ([]domain.Rate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("rate query failed: %w", err)
	}
	defer rows.Close()

	var rates []domain.Rate
	for rows.Next() {
		var row store.RateRow
		if err := rows.Scan(
			&row.AttorneyID,
			&row.ClientID,
			&row.FirmID,
			&row.StaffClassID,
			&row.OfficeID,
			&row.Amount,
			&row.Currency,
			&row.EffectiveDate,
			&row.ExpirationDate,
			&row.Type,
			&row.Status,
		); err != nil {
			return nil, err
		}

		rate, err := adapters.MapStoreRateToDomain(row)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}
