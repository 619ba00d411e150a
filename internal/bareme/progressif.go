// Package bareme implements the notarial fee schedule: a progressive-rate
// calculator and one provision formula per notarial act category. All
// functions are pure and never touch the ledger.
package bareme

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/domain"
)

// CalculerProgressif applies an ascending tranche schedule to montant and
// returns the tiered total with one detail per contributing tranche.
// Tranches must be pre-sorted ascending; iteration stops at the first
// tranche whose floor is not reached. No rounding is applied here.
func CalculerProgressif(montant decimal.Decimal, tranches []domain.Tranche) (domain.ResultatProgressif, error) {
	if montant.IsNegative() {
		return domain.ResultatProgressif{}, fmt.Errorf("%w: montant=%s", domain.ErrMontantInvalide, montant.String())
	}

	res := domain.ResultatProgressif{Total: decimal.Zero}
	for _, t := range tranches {
		if montant.LessThanOrEqual(t.Min) {
			break
		}

		plafond := montant
		if t.Max != nil && t.Max.LessThan(montant) {
			plafond = *t.Max
		}

		portion := plafond.Sub(t.Min)
		calcul := portion.Mul(t.Taux)
		res.Total = res.Total.Add(calcul)

		if calcul.IsZero() {
			continue
		}

		res.Details = append(res.Details, domain.DetailTranche{
			Description: t.Description,
			Montant:     portion,
			Taux:        t.Taux.Mul(cent),
			Calcul:      calcul,
		})
	}

	return res, nil
}
