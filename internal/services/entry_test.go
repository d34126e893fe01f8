package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mapleroad/mapleroad-backend/internal/apierr"
	"github.com/mapleroad/mapleroad-backend/internal/repos"
	"github.com/mapleroad/mapleroad-backend/internal/types"
)

func newEntryService(t *testing.T) (EntryService, repos.EntryRepo) {
	t.Helper()
	database := openTestDB(t)
	repo := repos.NewEntryRepo(database, testLogger())
	return NewEntryService(database, testLogger(), repo), repo
}

func createInput(date types.Date) EntryCreateInput {
	return EntryCreateInput{
		Date:     date,
		Type:     types.EntryTypeExpense,
		Name:     "Groceries",
		Category: "Food",
		Amount:   decimal.NewFromFloat(42.50),
	}
}

func TestEntryCreateDerivesYearMonth(t *testing.T) {
	svc, _ := newEntryService(t)
	ctx := context.Background()

	row, err := svc.Create(ctx, nil, createInput(types.NewDate(2024, time.December, 31)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if row.Year != 2024 || row.Month != 12 {
		t.Fatalf("got year=%d month=%d", row.Year, row.Month)
	}
	if row.Currency != "CAD" {
		t.Fatalf("expected CAD default, got %q", row.Currency)
	}
	if row.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}

	row, err = svc.Create(ctx, nil, createInput(types.NewDate(2025, time.January, 1)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if row.Year != 2025 || row.Month != 1 {
		t.Fatalf("got year=%d month=%d", row.Year, row.Month)
	}
}

func TestEntryPartialUpdateLeavesOtherFields(t *testing.T) {
	svc, _ := newEntryService(t)
	ctx := context.Background()

	row, err := svc.Create(ctx, nil, createInput(types.NewDate(2024, time.June, 10)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	amount := decimal.NewFromFloat(50.00)
	updated, err := svc.Update(ctx, nil, row.ID, EntryUpdateInput{Amount: &amount})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Amount.Equal(amount) {
		t.Fatalf("amount not updated: %s", updated.Amount)
	}
	if updated.Name != row.Name || updated.Category != row.Category {
		t.Fatalf("untouched fields changed: %q / %q", updated.Name, updated.Category)
	}
	if updated.Year != 2024 || updated.Month != 6 {
		t.Fatalf("year/month drifted: %d/%d", updated.Year, updated.Month)
	}
}

func TestEntryDatePatchRecomputesYearMonth(t *testing.T) {
	svc, _ := newEntryService(t)
	ctx := context.Background()

	row, err := svc.Create(ctx, nil, createInput(types.NewDate(2024, time.June, 10)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newDate := types.NewDate(2023, time.June, 15)
	updated, err := svc.Update(ctx, nil, row.ID, EntryUpdateInput{Date: &newDate})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Year != 2023 || updated.Month != 6 {
		t.Fatalf("got year=%d month=%d", updated.Year, updated.Month)
	}
}

func TestEntryReplaceOverwritesEverything(t *testing.T) {
	svc, _ := newEntryService(t)
	ctx := context.Background()

	notes := "old notes"
	input := createInput(types.NewDate(2024, time.June, 10))
	input.Notes = &notes
	row, err := svc.Create(ctx, nil, input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	replacement := EntryCreateInput{
		Date:     types.NewDate(2022, time.March, 5),
		Type:     types.EntryTypeIncome,
		Name:     "Paycheque",
		Category: "Salary",
		Amount:   decimal.NewFromInt(2500),
		Currency: "USD",
	}
	updated, err := svc.Replace(ctx, nil, row.ID, replacement)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if updated.Type != types.EntryTypeIncome || updated.Name != "Paycheque" || updated.Currency != "USD" {
		t.Fatalf("fields not overwritten: %+v", updated)
	}
	if updated.Year != 2022 || updated.Month != 3 {
		t.Fatalf("year/month not recomputed: %d/%d", updated.Year, updated.Month)
	}
	if updated.Notes != nil {
		t.Fatalf("expected notes cleared, got %q", *updated.Notes)
	}
}

func TestEntryUpdateSkipsSoftDeletedRows(t *testing.T) {
	svc, repo := newEntryService(t)
	ctx := context.Background()

	row, err := svc.Create(ctx, nil, createInput(types.NewDate(2024, time.June, 10)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.UpdateFields(ctx, nil, row.ID, map[string]interface{}{"is_deleted": true}); err != nil {
		t.Fatalf("flag: %v", err)
	}

	name := "changed"
	_, err = svc.Update(ctx, nil, row.ID, EntryUpdateInput{Name: &name})
	assertStatus(t, err, 404)
	_, err = svc.Replace(ctx, nil, row.ID, createInput(types.NewDate(2024, time.June, 11)))
	assertStatus(t, err, 404)
}

func TestEntryListFiltersAndSort(t *testing.T) {
	svc, _ := newEntryService(t)
	ctx := context.Background()

	for _, d := range []types.Date{
		types.NewDate(2024, time.January, 5),
		types.NewDate(2024, time.March, 5),
		types.NewDate(2023, time.March, 5),
	} {
		if _, err := svc.Create(ctx, nil, createInput(d)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	year := 2024
	rows, err := svc.List(ctx, nil, repos.EntryListFilter{Year: &year})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Month != 3 || rows[1].Month != 1 {
		t.Fatalf("expected date-descending order, got months %d, %d", rows[0].Month, rows[1].Month)
	}

	month := 3
	rows, err = svc.List(ctx, nil, repos.EntryListFilter{Year: &year, Month: &month})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
}

func TestEntryDelete(t *testing.T) {
	svc, _ := newEntryService(t)
	ctx := context.Background()

	err := svc.Delete(ctx, nil, uuid.New())
	assertStatus(t, err, 404)

	row, err := svc.Create(ctx, nil, createInput(types.NewDate(2024, time.June, 10)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, nil, row.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rows, err := svc.List(ctx, nil, repos.EntryListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected permanent removal, got %d rows", len(rows))
	}
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", want)
	}
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected apierr, got %v", err)
	}
	if apiErr.Status != want {
		t.Fatalf("expected status %d, got %d", want, apiErr.Status)
	}
}
