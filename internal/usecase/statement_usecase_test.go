package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/domain"
	"github.com/etudesn/notacompta/internal/usecase"
	"github.com/etudesn/notacompta/internal/usecase/mocks"
)

func seedStatementEntries(t *testing.T, repo *mocks.MockEntryRepository) {
	t.Helper()
	ctx := context.Background()

	post := func(id string, day int, lines []domain.AccountEntry) {
		entry := &domain.JournalEntry{
			ID:        id,
			Reference: id,
			Date:      time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
			Entries:   lines,
		}
		if err := repo.Create(ctx, nil, entry); err != nil {
			t.Fatalf("seeding entry %s: %v", id, err)
		}
	}

	amount := func(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

	// opening capital, posted before the period
	post("e-open", -25, []domain.AccountEntry{
		{AccountCode: "521", AccountLabel: "Banque", Debit: amount(5_000_000)},
		{AccountCode: "101", AccountLabel: "Capital", Credit: amount(5_000_000)},
	})
	// fee receipt
	post("e-fee", 10, []domain.AccountEntry{
		{AccountCode: "411.0001", AccountLabel: "Client", Debit: amount(1_180_000)},
		{AccountCode: "7061", AccountLabel: "Honoraires", Credit: amount(1_000_000)},
		{AccountCode: "443", AccountLabel: "TVA collectée", Credit: amount(180_000)},
	})
	// client pays by bank
	post("e-pay", 15, []domain.AccountEntry{
		{AccountCode: "521", AccountLabel: "Banque", Debit: amount(1_180_000)},
		{AccountCode: "411.0001", AccountLabel: "Client", Credit: amount(1_180_000)},
	})
	// rent paid from bank
	post("e-rent", 20, []domain.AccountEntry{
		{AccountCode: "622", AccountLabel: "Loyers", Debit: amount(300_000)},
		{AccountCode: "445", AccountLabel: "TVA récupérable", Debit: amount(54_000)},
		{AccountCode: "521", AccountLabel: "Banque", Credit: amount(354_000)},
	})
}

func newTestStatements(t *testing.T) *usecase.StatementUseCase {
	t.Helper()
	repo := mocks.NewMockEntryRepository()
	seedStatementEntries(t, repo)
	return usecase.NewStatementUseCase(repo, nil)
}

func TestStatementUseCase_GenerateLedger(t *testing.T) {
	uc := newTestStatements(t)

	ledger, err := uc.GenerateLedger(context.Background(), "521",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !ledger.OpeningBalance.Equal(decimal.NewFromInt(5_000_000)) {
		t.Errorf("opening balance: got %s", ledger.OpeningBalance)
	}
	if len(ledger.Lines) != 2 {
		t.Fatalf("expected 2 in-period lines, got %d", len(ledger.Lines))
	}
	if !ledger.Lines[0].Balance.Equal(decimal.NewFromInt(6_180_000)) {
		t.Errorf("running balance after receipt: got %s", ledger.Lines[0].Balance)
	}
	if !ledger.ClosingBalance.Equal(decimal.NewFromInt(5_826_000)) {
		t.Errorf("closing balance: got %s", ledger.ClosingBalance)
	}
}

func TestStatementUseCase_GenerateBalance(t *testing.T) {
	uc := newTestStatements(t)

	balance, err := uc.GenerateBalance(context.Background(),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !balance.Totals.MovementDebit.Equal(balance.Totals.MovementCredit) {
		t.Errorf("movement columns must balance: %s vs %s",
			balance.Totals.MovementDebit, balance.Totals.MovementCredit)
	}
	if !balance.Totals.OpeningDebit.Equal(balance.Totals.OpeningCredit) {
		t.Errorf("opening columns must balance: %s vs %s",
			balance.Totals.OpeningDebit, balance.Totals.OpeningCredit)
	}
	if !balance.Totals.ClosingDebit.Equal(balance.Totals.ClosingCredit) {
		t.Errorf("closing columns must balance: %s vs %s",
			balance.Totals.ClosingDebit, balance.Totals.ClosingCredit)
	}

	for i := 1; i < len(balance.Lines); i++ {
		if balance.Lines[i-1].AccountCode >= balance.Lines[i].AccountCode {
			t.Fatalf("lines not sorted: %s before %s",
				balance.Lines[i-1].AccountCode, balance.Lines[i].AccountCode)
		}
	}
}

func TestStatementUseCase_GenerateBalanceUsesCache(t *testing.T) {
	repo := mocks.NewMockEntryRepository()
	seedStatementEntries(t, repo)
	cache := mocks.NewMockCache()
	uc := usecase.NewStatementUseCase(repo, cache)

	ctx := context.Background()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	if _, err := uc.GenerateBalance(ctx, start, end); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	listed := false
	repo.ListFunc = func(ctx context.Context) ([]*domain.JournalEntry, error) {
		listed = true
		return nil, nil
	}
	cached, err := uc.GenerateBalance(ctx, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listed {
		t.Error("second call must be served from the cache")
	}
	if len(cached.Lines) == 0 {
		t.Error("cached balance must carry the lines")
	}
}

func TestStatementUseCase_GenerateCompteResultat(t *testing.T) {
	uc := newTestStatements(t)

	cr, err := uc.GenerateCompteResultat(context.Background(),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cr.Produits.Equal(decimal.NewFromInt(1_000_000)) {
		t.Errorf("produits: got %s", cr.Produits)
	}
	if !cr.Charges.Equal(decimal.NewFromInt(300_000)) {
		t.Errorf("charges: got %s", cr.Charges)
	}
	if !cr.Resultat.Equal(decimal.NewFromInt(700_000)) {
		t.Errorf("resultat: got %s", cr.Resultat)
	}
}

func TestStatementUseCase_GenerateBilan(t *testing.T) {
	uc := newTestStatements(t)

	bilan, err := uc.GenerateBilan(context.Background(),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bilan.TresorerieActif.Equal(decimal.NewFromInt(5_826_000)) {
		t.Errorf("trésorerie actif: got %s", bilan.TresorerieActif)
	}
	if !bilan.CapitauxPropres.Equal(decimal.NewFromInt(5_000_000)) {
		t.Errorf("capitaux propres: got %s", bilan.CapitauxPropres)
	}
	if !bilan.ResultatExercice.Equal(decimal.NewFromInt(700_000)) {
		t.Errorf("résultat: got %s", bilan.ResultatExercice)
	}
	if !bilan.TotalActif.Equal(bilan.TotalPassif) {
		t.Errorf("bilan must balance: actif=%s passif=%s", bilan.TotalActif, bilan.TotalPassif)
	}
}

func TestStatementUseCase_GenerateTafire(t *testing.T) {
	uc := newTestStatements(t)

	tafire, err := uc.GenerateTafire(context.Background(),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !tafire.TresorerieOuverture.Equal(decimal.NewFromInt(5_000_000)) {
		t.Errorf("ouverture: got %s", tafire.TresorerieOuverture)
	}
	if !tafire.Encaissements.Equal(decimal.NewFromInt(1_180_000)) {
		t.Errorf("encaissements: got %s", tafire.Encaissements)
	}
	if !tafire.Decaissements.Equal(decimal.NewFromInt(354_000)) {
		t.Errorf("décaissements: got %s", tafire.Decaissements)
	}
	if !tafire.TresorerieCloture.Equal(decimal.NewFromInt(5_826_000)) {
		t.Errorf("clôture: got %s", tafire.TresorerieCloture)
	}
}
