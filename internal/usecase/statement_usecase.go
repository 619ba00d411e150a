package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const balanceCacheTTL = 5 * time.Minute

// StatementUseCase aggregates journal entries into ledgers, the trial
// balance and the simplified OHADA statements. The class-level groupings
// are a reporting approximation, not certified financial statements.
type StatementUseCase struct {
	entryRepo EntryRepository
	cache     Cache
}

// NewStatementUseCase creates a new StatementUseCase. cache may be nil.
func NewStatementUseCase(entryRepo EntryRepository, cache Cache) *StatementUseCase {
	return &StatementUseCase{entryRepo: entryRepo, cache: cache}
}

// LedgerLine is one movement of an account ledger with its running balance.
type LedgerLine struct {
	Date      time.Time       `json:"date"`
	Reference string          `json:"reference"`
	Label     string          `json:"label"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Balance   decimal.Decimal `json:"balance"`
}

// Ledger is the movement history of one account over a period.
type Ledger struct {
	AccountCode    string          `json:"accountCode"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Lines          []LedgerLine    `json:"lines"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// GenerateLedger walks the account's entries: the opening balance is the
// signed sum of everything dated strictly before startDate, then each
// in-period line accumulates into a running balance.
func (uc *StatementUseCase) GenerateLedger(ctx context.Context, accountCode string, startDate, endDate time.Time) (*Ledger, error) {
	entries, err := uc.entryRepo.ListByAccount(ctx, accountCode)
	if err != nil {
		return nil, err
	}

	ledger := &Ledger{
		AccountCode:    accountCode,
		StartDate:      startDate,
		EndDate:        endDate,
		OpeningBalance: decimal.Zero,
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
	}

	for _, entry := range entries {
		for _, line := range entry.Entries {
			if line.AccountCode != accountCode {
				continue
			}

			if entry.Date.Before(startDate) {
				ledger.OpeningBalance = ledger.OpeningBalance.Add(line.Debit).Sub(line.Credit)
				continue
			}
			if entry.Date.After(endDate) {
				continue
			}

			ledger.TotalDebit = ledger.TotalDebit.Add(line.Debit)
			ledger.TotalCredit = ledger.TotalCredit.Add(line.Credit)
			balance := ledger.OpeningBalance.Add(ledger.TotalDebit).Sub(ledger.TotalCredit)
			ledger.Lines = append(ledger.Lines, LedgerLine{
				Date:      entry.Date,
				Reference: entry.Reference,
				Label:     line.Label,
				Debit:     line.Debit,
				Credit:    line.Credit,
				Balance:   balance,
			})
		}
	}

	ledger.ClosingBalance = ledger.OpeningBalance.Add(ledger.TotalDebit).Sub(ledger.TotalCredit)
	return ledger, nil
}

// BalanceLine is one account row of the trial balance, with signed balances
// split into debit and credit columns.
type BalanceLine struct {
	AccountCode    string          `json:"accountCode"`
	AccountLabel   string          `json:"accountLabel"`
	OpeningDebit   decimal.Decimal `json:"openingDebit"`
	OpeningCredit  decimal.Decimal `json:"openingCredit"`
	MovementDebit  decimal.Decimal `json:"movementDebit"`
	MovementCredit decimal.Decimal `json:"movementCredit"`
	ClosingDebit   decimal.Decimal `json:"closingDebit"`
	ClosingCredit  decimal.Decimal `json:"closingCredit"`
}

// TrialBalance lists every account touched by any entry, sorted by code,
// with column totals.
type TrialBalance struct {
	StartDate time.Time     `json:"startDate"`
	EndDate   time.Time     `json:"endDate"`
	Lines     []BalanceLine `json:"lines"`
	Totals    BalanceLine   `json:"totals"`
}

// GenerateBalance computes the trial balance over a period.
func (uc *StatementUseCase) GenerateBalance(ctx context.Context, startDate, endDate time.Time) (*TrialBalance, error) {
	cacheKey := fmt.Sprintf("balance:%s:%s", startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, cacheKey); err == nil && data != nil {
			var cached TrialBalance
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	entries, err := uc.entryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	type accum struct {
		label          string
		opening        decimal.Decimal
		movementDebit  decimal.Decimal
		movementCredit decimal.Decimal
	}
	accounts := make(map[string]*accum)

	get := func(code, label string) *accum {
		a, ok := accounts[code]
		if !ok {
			a = &accum{
				label:          label,
				opening:        decimal.Zero,
				movementDebit:  decimal.Zero,
				movementCredit: decimal.Zero,
			}
			accounts[code] = a
		}
		return a
	}

	for _, entry := range entries {
		for _, line := range entry.Entries {
			a := get(line.AccountCode, line.AccountLabel)
			switch {
			case entry.Date.Before(startDate):
				a.opening = a.opening.Add(line.Debit).Sub(line.Credit)
			case !entry.Date.After(endDate):
				a.movementDebit = a.movementDebit.Add(line.Debit)
				a.movementCredit = a.movementCredit.Add(line.Credit)
			}
		}
	}

	codes := make([]string, 0, len(accounts))
	for code := range accounts {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	balance := &TrialBalance{StartDate: startDate, EndDate: endDate, Totals: zeroBalanceLine("", "TOTAUX")}
	for _, code := range codes {
		a := accounts[code]
		line := zeroBalanceLine(code, a.label)
		setColumns(&line.OpeningDebit, &line.OpeningCredit, a.opening)
		line.MovementDebit = a.movementDebit
		line.MovementCredit = a.movementCredit
		closing := a.opening.Add(a.movementDebit).Sub(a.movementCredit)
		setColumns(&line.ClosingDebit, &line.ClosingCredit, closing)

		balance.Lines = append(balance.Lines, line)
		balance.Totals.OpeningDebit = balance.Totals.OpeningDebit.Add(line.OpeningDebit)
		balance.Totals.OpeningCredit = balance.Totals.OpeningCredit.Add(line.OpeningCredit)
		balance.Totals.MovementDebit = balance.Totals.MovementDebit.Add(line.MovementDebit)
		balance.Totals.MovementCredit = balance.Totals.MovementCredit.Add(line.MovementCredit)
		balance.Totals.ClosingDebit = balance.Totals.ClosingDebit.Add(line.ClosingDebit)
		balance.Totals.ClosingCredit = balance.Totals.ClosingCredit.Add(line.ClosingCredit)
	}

	if uc.cache != nil {
		if data, err := json.Marshal(balance); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, data, balanceCacheTTL); err != nil {
				log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache trial balance")
			}
		}
	}

	return balance, nil
}

func zeroBalanceLine(code, label string) BalanceLine {
	return BalanceLine{
		AccountCode:    code,
		AccountLabel:   label,
		OpeningDebit:   decimal.Zero,
		OpeningCredit:  decimal.Zero,
		MovementDebit:  decimal.Zero,
		MovementCredit: decimal.Zero,
		ClosingDebit:   decimal.Zero,
		ClosingCredit:  decimal.Zero,
	}
}

// setColumns places a signed balance on its column: debit when positive,
// credit when negative.
func setColumns(debit, credit *decimal.Decimal, signed decimal.Decimal) {
	if signed.IsPositive() {
		*debit = signed
	} else if signed.IsNegative() {
		*credit = signed.Neg()
	}
}

// Bilan is the simplified balance sheet, grouped by OHADA class digit.
type Bilan struct {
	Date             time.Time       `json:"date"`
	Immobilisations  decimal.Decimal `json:"immobilisations"`
	Stocks           decimal.Decimal `json:"stocks"`
	Creances         decimal.Decimal `json:"creances"`
	TresorerieActif  decimal.Decimal `json:"tresorerieActif"`
	TotalActif       decimal.Decimal `json:"totalActif"`
	CapitauxPropres  decimal.Decimal `json:"capitauxPropres"`
	Dettes           decimal.Decimal `json:"dettes"`
	TresoreriePassif decimal.Decimal `json:"tresoreriePassif"`
	ResultatExercice decimal.Decimal `json:"resultatExercice"`
	TotalPassif      decimal.Decimal `json:"totalPassif"`
}

// GenerateBilan aggregates closing balances by class digit into a
// simplified balance sheet as of endDate.
func (uc *StatementUseCase) GenerateBilan(ctx context.Context, startDate, endDate time.Time) (*Bilan, error) {
	balance, err := uc.GenerateBalance(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	b := &Bilan{
		Date:             endDate,
		Immobilisations:  decimal.Zero,
		Stocks:           decimal.Zero,
		Creances:         decimal.Zero,
		TresorerieActif:  decimal.Zero,
		CapitauxPropres:  decimal.Zero,
		Dettes:           decimal.Zero,
		TresoreriePassif: decimal.Zero,
		ResultatExercice: decimal.Zero,
	}

	charges := decimal.Zero
	produits := decimal.Zero

	for _, line := range balance.Lines {
		net := line.ClosingDebit.Sub(line.ClosingCredit)
		switch line.AccountCode[0] {
		case '1':
			b.CapitauxPropres = b.CapitauxPropres.Add(net.Neg())
		case '2':
			b.Immobilisations = b.Immobilisations.Add(net)
		case '3':
			b.Stocks = b.Stocks.Add(net)
		case '4':
			if net.IsPositive() {
				b.Creances = b.Creances.Add(net)
			} else {
				b.Dettes = b.Dettes.Add(net.Neg())
			}
		case '5':
			if net.IsPositive() {
				b.TresorerieActif = b.TresorerieActif.Add(net)
			} else {
				b.TresoreriePassif = b.TresoreriePassif.Add(net.Neg())
			}
		case '6':
			charges = charges.Add(net)
		case '7':
			produits = produits.Add(net.Neg())
		}
	}

	b.ResultatExercice = produits.Sub(charges)
	b.TotalActif = b.Immobilisations.Add(b.Stocks).Add(b.Creances).Add(b.TresorerieActif)
	b.TotalPassif = b.CapitauxPropres.Add(b.Dettes).Add(b.TresoreriePassif).Add(b.ResultatExercice)
	return b, nil
}

// CompteResultat is the simplified income statement.
type CompteResultat struct {
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`
	Charges   decimal.Decimal `json:"charges"`
	Produits  decimal.Decimal `json:"produits"`
	Resultat  decimal.Decimal `json:"resultat"`
}

// GenerateCompteResultat totals class 6 against class 7 over the period.
func (uc *StatementUseCase) GenerateCompteResultat(ctx context.Context, startDate, endDate time.Time) (*CompteResultat, error) {
	balance, err := uc.GenerateBalance(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	cr := &CompteResultat{
		StartDate: startDate,
		EndDate:   endDate,
		Charges:   decimal.Zero,
		Produits:  decimal.Zero,
	}

	for _, line := range balance.Lines {
		net := line.MovementDebit.Sub(line.MovementCredit)
		switch line.AccountCode[0] {
		case '6':
			cr.Charges = cr.Charges.Add(net)
		case '7':
			cr.Produits = cr.Produits.Add(net.Neg())
		}
	}

	cr.Resultat = cr.Produits.Sub(cr.Charges)
	return cr, nil
}

// Tafire is the simplified cash-flow summary over a period.
type Tafire struct {
	StartDate           time.Time       `json:"startDate"`
	EndDate             time.Time       `json:"endDate"`
	TresorerieOuverture decimal.Decimal `json:"tresorerieOuverture"`
	Encaissements       decimal.Decimal `json:"encaissements"`
	Decaissements       decimal.Decimal `json:"decaissements"`
	TresorerieCloture   decimal.Decimal `json:"tresorerieCloture"`
	Variation           decimal.Decimal `json:"variation"`
}

// GenerateTafire summarizes class 5 movements into a cash-flow view.
func (uc *StatementUseCase) GenerateTafire(ctx context.Context, startDate, endDate time.Time) (*Tafire, error) {
	balance, err := uc.GenerateBalance(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	t := &Tafire{
		StartDate:           startDate,
		EndDate:             endDate,
		TresorerieOuverture: decimal.Zero,
		Encaissements:       decimal.Zero,
		Decaissements:       decimal.Zero,
	}

	for _, line := range balance.Lines {
		if line.AccountCode[0] != '5' {
			continue
		}
		t.TresorerieOuverture = t.TresorerieOuverture.Add(line.OpeningDebit).Sub(line.OpeningCredit)
		t.Encaissements = t.Encaissements.Add(line.MovementDebit)
		t.Decaissements = t.Decaissements.Add(line.MovementCredit)
	}

	t.Variation = t.Encaissements.Sub(t.Decaissements)
	t.TresorerieCloture = t.TresorerieOuverture.Add(t.Variation)
	return t, nil
}
