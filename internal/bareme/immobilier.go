package bareme

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/domain"
)

// venteImmobiliere is shared by built-property and bare-land sales: standard
// honoraires, 5% transfer duty and the land-registry duty above threshold.
func venteImmobiliere(typeActe string, prixVente decimal.Decimal) (*domain.CalculProvision, error) {
	if err := domain.ValidateMontantPositif("prixVente", prixVente); err != nil {
		return nil, err
	}

	p := &domain.CalculProvision{
		TypeActe:   typeActe,
		Capital:    prixVente,
		FraisFixes: fraisActes(),
	}

	if err := honorairesSur(p, prixVente); err != nil {
		return nil, err
	}
	if err := enregistrementSur(p, prixVente, TranchesMutation); err != nil {
		return nil, err
	}

	conservation, err := CalculerProgressif(prixVente, TranchesConservationFonciere)
	if err != nil {
		return nil, fmt.Errorf("conservation foncière: %w", err)
	}
	p.Conservation = conservation.Total
	p.Details.ConservationFonciere = conservation.Details

	return finaliser(p), nil
}

// CalculerVenteImmeuble computes the provision for the sale of a built
// property.
func CalculerVenteImmeuble(prixVente decimal.Decimal) (*domain.CalculProvision, error) {
	return venteImmobiliere("VENTE_IMMEUBLE", prixVente)
}

// CalculerVenteTerrain computes the provision for the sale of bare land.
func CalculerVenteTerrain(prixVente decimal.Decimal) (*domain.CalculProvision, error) {
	return venteImmobiliere("VENTE_TERRAIN", prixVente)
}

// CalculerEchangeImmeubles computes the provision for a property exchange.
// The taxable base is the higher of the two exchanged values.
func CalculerEchangeImmeubles(valeurPremier, valeurSecond decimal.Decimal) (*domain.CalculProvision, error) {
	if err := domain.ValidateMontantPositif("valeurPremier", valeurPremier); err != nil {
		return nil, err
	}
	if err := domain.ValidateMontantPositif("valeurSecond", valeurSecond); err != nil {
		return nil, err
	}

	base := valeurPremier
	if valeurSecond.GreaterThan(base) {
		base = valeurSecond
	}

	p, err := venteImmobiliere("ECHANGE_IMMEUBLES", base)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// bail is shared by the two lease categories; the base is the cumulated
// rent over the whole term.
func bail(typeActe string, loyerMensuel decimal.Decimal, dureeMois int, tranches []domain.Tranche) (*domain.CalculProvision, error) {
	if err := domain.ValidateMontantPositif("loyerMensuel", loyerMensuel); err != nil {
		return nil, err
	}
	if dureeMois <= 0 {
		return nil, fmt.Errorf("%w: dureeMois=%d", domain.ErrDureeInvalide, dureeMois)
	}

	base := loyerMensuel.Mul(decimal.NewFromInt(int64(dureeMois)))
	p := &domain.CalculProvision{
		TypeActe:   typeActe,
		Capital:    base,
		FraisFixes: fraisActes(),
	}

	if err := honorairesSur(p, base); err != nil {
		return nil, err
	}
	if err := enregistrementSur(p, base, tranches); err != nil {
		return nil, err
	}

	return finaliser(p), nil
}

// CalculerBailCommercial computes the provision for a commercial lease.
func CalculerBailCommercial(loyerMensuel decimal.Decimal, dureeMois int) (*domain.CalculProvision, error) {
	return bail("BAIL_COMMERCIAL", loyerMensuel, dureeMois, TranchesBailCommercial)
}

// CalculerBailHabitation computes the provision for a residential lease.
func CalculerBailHabitation(loyerMensuel decimal.Decimal, dureeMois int) (*domain.CalculProvision, error) {
	return bail("BAIL_HABITATION", loyerMensuel, dureeMois, TranchesBailHabitation)
}

// CalculerCessionFondsCommerce computes the provision for transferring a
// going concern.
func CalculerCessionFondsCommerce(prixCession decimal.Decimal) (*domain.CalculProvision, error) {
	if err := domain.ValidateMontantPositif("prixCession", prixCession); err != nil {
		return nil, err
	}

	p := &domain.CalculProvision{
		TypeActe:   "CESSION_FONDS_COMMERCE",
		Capital:    prixCession,
		FraisFixes: fraisActes(),
	}

	if err := honorairesSur(p, prixCession); err != nil {
		return nil, err
	}
	if err := enregistrementSur(p, prixCession, TranchesFondsCommerce); err != nil {
		return nil, err
	}

	return finaliser(p), nil
}

// CalculerHypotheque computes the provision for registering a mortgage over
// the secured claim, including the land-registry duty.
func CalculerHypotheque(montantCreance decimal.Decimal) (*domain.CalculProvision, error) {
	if err := domain.ValidateMontantPositif("montantCreance", montantCreance); err != nil {
		return nil, err
	}

	p := &domain.CalculProvision{
		TypeActe:   "HYPOTHEQUE",
		Capital:    montantCreance,
		FraisFixes: fraisActes(),
	}

	if err := honorairesSur(p, montantCreance); err != nil {
		return nil, err
	}
	if err := enregistrementSur(p, montantCreance, TranchesPret); err != nil {
		return nil, err
	}

	conservation, err := CalculerProgressif(montantCreance, TranchesConservationFonciere)
	if err != nil {
		return nil, fmt.Errorf("conservation foncière: %w", err)
	}
	p.Conservation = conservation.Total
	p.Details.ConservationFonciere = conservation.Details

	return finaliser(p), nil
}

// CalculerMainlevee computes the provision for releasing a mortgage.
// Flat fee, fixed duty.
func CalculerMainlevee(montantCreance decimal.Decimal) (*domain.CalculProvision, error) {
	if err := domain.ValidateMontantPositif("montantCreance", montantCreance); err != nil {
		return nil, err
	}

	p := &domain.CalculProvision{
		TypeActe:       "MAINLEVEE",
		Capital:        montantCreance,
		Honoraires:     honorairesMainlevee,
		Enregistrement: droitFixeTotal().Round(0),
		FraisFixes:     fraisActes(),
	}
	return finaliser(p), nil
}
