package adapters

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/counsel-tools/rate-lens/pkg/models/domain"
	"github.com/counsel-tools/rate-lens/pkg/models/store"
)

func MapStoreBillingToDomain(row store.BillingRow) (domain.BillingRecord, error) {
	hours, err := decimal.NewFromString(row.Hours)
	if err != nil {
		return domain.BillingRecord{}, fmt.Errorf("billing row for attorney %s: bad hours %q: %w", row.AttorneyID, row.Hours, err)
	}
	fees, err := decimal.NewFromString(row.Fees)
	if err != nil {
		return domain.BillingRecord{}, fmt.Errorf("billing row for attorney %s: bad fees %q: %w", row.AttorneyID, row.Fees, err)
	}
	return domain.BillingRecord{
		AttorneyID:   row.AttorneyID,
		ClientID:     row.ClientID,
		MatterID:     row.MatterID,
		Hours:        hours,
		Fees:         fees,
		BillingDate:  row.BillingDate,
		IsAFA:        row.IsAFA,
		Currency:     row.Currency,
		PracticeArea: row.PracticeArea,
		OfficeID:     row.OfficeID,
		StaffClassID: row.StaffClassID,
	}, nil
}

func MapStoreRateToDomain(row store.RateRow) (domain.Rate, error) {
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return domain.Rate{}, fmt.Errorf("rate row for attorney %s: bad amount %q: %w", row.AttorneyID, row.Amount, err)
	}
	return domain.Rate{
		AttorneyID:     row.AttorneyID,
		ClientID:       row.ClientID,
		FirmID:         row.FirmID,
		StaffClassID:   row.StaffClassID,
		OfficeID:       row.OfficeID,
		Amount:         amount,
		Currency:       row.Currency,
		EffectiveDate:  row.EffectiveDate,
		ExpirationDate: row.ExpirationDate,
		Type:           domain.RateType(row.Type),
		Status:         domain.RateStatus(row.Status),
	}, nil
}

func MapStoreStaffClassToDomain(row store.StaffClassRow) (domain.StaffClass, error) {
	expType, err := domain.ParseExperienceType(row.ExperienceType)
	if err != nil {
		return domain.StaffClass{}, fmt.Errorf("staff class %s: %w", row.ID, err)
	}
	return domain.StaffClass{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		Name:           row.Name,
		ExperienceType: expType,
		MinExperience:  row.MinExperience,
		MaxExperience:  row.MaxExperience,
		PracticeArea:   row.PracticeArea,
		IsActive:       row.IsActive,
	}, nil
}
