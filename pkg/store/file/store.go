// Package file loads billing, rate and staff-class data from JSON files.
// It backs the CLI, which analyzes exported datasets without a database.
package file

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/counsel-tools/rate-lens/pkg/adapters"
	"github.com/counsel-tools/rate-lens/pkg/models/domain"
	"github.com/counsel-tools/rate-lens/pkg/models/store"
)

func LoadBillingRecords(path string) ([]domain.BillingRecord, error) {
	var rows []store.BillingRow
	if err := readJSON(path, &rows); err != nil {
		return nil, err
	}

	records := make([]domain.BillingRecord, 0, len(rows))
	for _, row := range rows {
		record, err := adapters.MapStoreBillingToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func LoadRates(path string) ([]domain.Rate, error) {
	var rows []store.RateRow
	if err := readJSON(path, &rows); err != nil {
		return nil, err
	}

	rates := make([]domain.Rate, 0, len(rows))
	for _, row := range rows {
		rate, err := adapters.MapStoreRateToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rates = append(rates, rate)
	}
	return rates, nil
}

func LoadStaffClasses(path string) ([]domain.StaffClass, error) {
	var rows []store.StaffClassRow
	if err := readJSON(path, &rows); err != nil {
		return nil, err
	}

	classes := make([]domain.StaffClass, 0, len(rows))
	for _, row := range rows {
		class, err := adapters.MapStoreStaffClassToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		classes = append(classes, class)
	}
	return classes, nil
}

func readJSON(path string, target any) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
