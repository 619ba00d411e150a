package bareme

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/domain"
)

// Capital-gains parameters: 20% duty on the gross gain, after an inflation
// allowance of 10% per year of holding capped at 120% of the acquisition
// price.
var (
	tauxPlusValue     = decimal.RequireFromString("0.20")
	abattementAnnuel  = decimal.NewFromInt(10)
	abattementPlafond = decimal.NewFromInt(120)
)

// CalculerTaxePlusValue computes the real-estate capital-gains duty. This
// act has no honoraires, VAT or registration component: only the duty.
func CalculerTaxePlusValue(prixAcquisition decimal.Decimal, anneeAcquisition int, prixVente decimal.Decimal, anneeCession int, depensesTravaux decimal.Decimal) (*domain.CalculProvision, error) {
	if err := domain.ValidateMontantPositif("prixAcquisition", prixAcquisition); err != nil {
		return nil, err
	}
	if err := domain.ValidateMontantPositif("prixVente", prixVente); err != nil {
		return nil, err
	}
	if err := domain.ValidateMontantPositifOuNul("depensesTravaux", depensesTravaux); err != nil {
		return nil, err
	}
	if anneeAcquisition > anneeCession {
		return nil, fmt.Errorf("%w: acquisition=%d cession=%d", domain.ErrAnneeIncoherente, anneeAcquisition, anneeCession)
	}

	dureeDetention := int64(anneeCession - anneeAcquisition)
	tauxForfaitaire := abattementAnnuel.Mul(decimal.NewFromInt(dureeDetention))
	if tauxForfaitaire.GreaterThan(abattementPlafond) {
		tauxForfaitaire = abattementPlafond
	}

	valeurAcquisition := prixAcquisition.
		Mul(decimal.NewFromInt(1).Add(tauxForfaitaire.Div(cent))).
		Add(depensesTravaux)

	plusValueBrute := prixVente.Sub(valeurAcquisition)

	taxe := decimal.Zero
	if plusValueBrute.IsPositive() {
		taxe = plusValueBrute.Mul(tauxPlusValue)
	}

	p := &domain.CalculProvision{
		TypeActe:        "TAXE_PLUS_VALUE",
		Capital:         prixVente,
		TauxForfaitaire: tauxForfaitaire,
		PlusValueBrute:  plusValueBrute,
		TaxePlusValue:   taxe,
		TotalHT:         taxe,
		TotalTTC:        taxe,
	}
	return p, nil
}
