// Package sql implements read-only stores over the platform database for
// billing records, rates and staff-class definitions.
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/counsel-tools/rate-lens/pkg/adapters"
	"github.com/counsel-tools/rate-lens/pkg/models/domain"
	"github.com/counsel-tools/rate-lens/pkg/models/store"
)

type BillingStore struct {
	db *sql.DB
}

func NewBillingStore(db *sql.DB) (*BillingStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &BillingStore{db: db}, nil
}

const billingQuery = `
	SELECT
	  b.attorney_id,
	  b.client_id,
	  b.matter_id,
	  b.hours,
	  b.fees,
	  b.billing_date,
	  b.is_afa,
	  b.currency,
	  COALESCE(b.practice_area, ''),
	  COALESCE(b.office_id, ''),
	  COALESCE(a.staff_class_id, '')
	FROM billing_records b
	JOIN attorneys a ON a.id = b.attorney_id
	WHERE b.client_id = $1
	  AND a.firm_id = $2
	  AND b.billing_date >= $3
	  AND b.billing_date <= $4
	ORDER BY b.billing_date`

// BillingRecords returns the billing history for a client-firm pair in
// the inclusive date range, oldest first.
func (s *BillingStore) BillingRecords(ctx context.Context, clientID, firmID string, from, to time.Time) ([]domain.BillingRecord, error) {
	rows, err := s.db.QueryContext(ctx, billingQuery, clientID, firmID, from, to)
	if err != nil {
		return nil, fmt.Errorf("billing query failed: %w", err)
	}
	defer rows.Close()

	var records []domain.BillingRecord
	for rows.Next() {
		var row store.BillingRow
		if err := rows.Scan(
			&row.AttorneyID,
			&row.ClientID,
			&row.MatterID,
			&row.Hours,
			&row.Fees,
			&row.BillingDate,
			&row.IsAFA,
			&row.Currency,
			&row.PracticeArea,
			&row.OfficeID,
			&row.StaffClassID,
		); err != nil {
			return nil, err
		}

		record, err := adapters.MapStoreBillingToDomain(row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
