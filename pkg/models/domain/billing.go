package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingRecord is one immutable historical billing entry. Hours and Fees
// are non-negative; Currency is the currency the fees were billed in.
type BillingRecord struct {
	AttorneyID   string
	ClientID     string
	MatterID     string
	Hours        decimal.Decimal
	Fees         decimal.Decimal
	BillingDate  time.Time
	IsAFA        bool
	Currency     string
	PracticeArea string
	OfficeID     string
	StaffClassID string
}

// Rate is a negotiated or proposed attorney rate. The analytics core treats
// rates as read-only input; Amount is non-negative and EffectiveDate never
// follows ExpirationDate when both are set.
type Rate struct {
	AttorneyID     string
	ClientID       string
	FirmID         string
	StaffClassID   string
	OfficeID       string
	Amount         decimal.Decimal
	Currency       string
	EffectiveDate  time.Time
	ExpirationDate *time.Time
	Type           RateType
	Status         RateStatus
}

// ActiveAt reports whether the rate is in effect at t.
func (r Rate) ActiveAt(t time.Time) bool {
	if t.Before(r.EffectiveDate) {
		return false
	}
	return r.ExpirationDate == nil || !t.After(*r.ExpirationDate)
}
