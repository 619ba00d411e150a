package bareme

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/domain"
)

// constitutionNumeraire covers every company form whose capital is
// contributed entirely in cash.
func constitutionNumeraire(typeActe string, capital decimal.Decimal) (*domain.CalculProvision, error) {
	if err := domain.ValidateMontantPositif("capital", capital); err != nil {
		return nil, err
	}

	p := &domain.CalculProvision{
		TypeActe:         typeActe,
		Capital:          capital,
		CapitalNumeraire: capital,
		FraisFixes:       fraisSocietes(),
	}

	if err := honorairesSur(p, capital); err != nil {
		return nil, err
	}
	if err := enregistrementSur(p, capital, TranchesApports); err != nil {
		return nil, err
	}

	return finaliser(p), nil
}

// constitutionMixte covers company forms with both in-kind and cash capital.
// The in-kind portion bears an additional property-transfer duty.
func constitutionMixte(typeActe string, capital, capitalNature, capitalNumeraire decimal.Decimal) (*domain.CalculProvision, error) {
	if err := domain.ValidateMontantPositif("capital", capital); err != nil {
		return nil, err
	}
	if err := domain.ValidateMontantPositif("capitalNature", capitalNature); err != nil {
		return nil, err
	}
	if err := domain.ValidateMontantPositifOuNul("capitalNumeraire", capitalNumeraire); err != nil {
		return nil, err
	}
	if !capitalNature.Add(capitalNumeraire).Equal(capital) {
		return nil, fmt.Errorf("%w: nature=%s + numéraire=%s ≠ capital=%s",
			domain.ErrCapitalIncoherent, capitalNature.String(), capitalNumeraire.String(), capital.String())
	}

	p := &domain.CalculProvision{
		TypeActe:         typeActe,
		Capital:          capital,
		CapitalNature:    capitalNature,
		CapitalNumeraire: capitalNumeraire,
		FraisFixes:       fraisSocietes(),
	}

	if err := honorairesSur(p, capital); err != nil {
		return nil, err
	}
	if err := enregistrementSur(p, capital, TranchesApports); err != nil {
		return nil, err
	}

	mutation, err := CalculerProgressif(capitalNature, TranchesMutation)
	if err != nil {
		return nil, fmt.Errorf("mutation: %w", err)
	}
	p.Mutation = mutation.Total
	p.Details.Mutation = mutation.Details

	return finaliser(p), nil
}

// CalculerSARLNumeraire computes the provision for a cash-only SARL formation.
func CalculerSARLNumeraire(capital decimal.Decimal) (*domain.CalculProvision, error) {
	return constitutionNumeraire("CONSTITUTION_SARL_NUMERAIRE", capital)
}

// CalculerSARLMixte computes the provision for a SARL formed with in-kind
// and cash contributions.
func CalculerSARLMixte(capital, capitalNature, capitalNumeraire decimal.Decimal) (*domain.CalculProvision, error) {
	return constitutionMixte("CONSTITUTION_SARL_MIXTE", capital, capitalNature, capitalNumeraire)
}

// CalculerSANumeraire computes the provision for a cash-only SA formation.
func CalculerSANumeraire(capital decimal.Decimal) (*domain.CalculProvision, error) {
	return constitutionNumeraire("CONSTITUTION_SA_NUMERAIRE", capital)
}

// CalculerSAMixte computes the provision for a SA formed with in-kind and
// cash contributions.
func CalculerSAMixte(capital, capitalNature, capitalNumeraire decimal.Decimal) (*domain.CalculProvision, error) {
	return constitutionMixte("CONSTITUTION_SA_MIXTE", capital, capitalNature, capitalNumeraire)
}

// CalculerSAS computes the provision for a SAS formation.
func CalculerSAS(capital decimal.Decimal) (*domain.CalculProvision, error) {
	return constitutionNumeraire("CONSTITUTION_SAS", capital)
}

// CalculerSUARL computes the provision for a single-member SARL formation.
func CalculerSUARL(capital decimal.Decimal) (*domain.CalculProvision, error) {
	return constitutionNumeraire("CONSTITUTION_SUARL", capital)
}

// CalculerSCI computes the provision for a civil real-estate company
// formation.
func CalculerSCI(capital decimal.Decimal) (*domain.CalculProvision, error) {
	return constitutionNumeraire("CONSTITUTION_SCI", capital)
}

// CalculerSNC computes the provision for a general partnership formation.
func CalculerSNC(capital decimal.Decimal) (*domain.CalculProvision, error) {
	return constitutionNumeraire("CONSTITUTION_SNC", capital)
}

// CalculerGIE computes the provision for an economic interest group.
// A GIE may be formed without capital, so the fee is flat.
func CalculerGIE() (*domain.CalculProvision, error) {
	p := &domain.CalculProvision{
		TypeActe:       "CONSTITUTION_GIE",
		Honoraires:     decimal.NewFromInt(200_000),
		Enregistrement: droitFixeTotal(),
		FraisFixes:     fraisSocietes(),
	}
	return finaliser(p), nil
}

// CalculerAugmentationCapital computes the provision for a capital increase.
// The taxable base is the increase, not the resulting capital.
func CalculerAugmentationCapital(ancienCapital, nouveauCapital decimal.Decimal) (*domain.CalculProvision, error) {
	if err := domain.ValidateMontantPositif("ancienCapital", ancienCapital); err != nil {
		return nil, err
	}
	if nouveauCapital.LessThanOrEqual(ancienCapital) {
		return nil, fmt.Errorf("%w: nouveauCapital=%s doit dépasser ancienCapital=%s",
			domain.ErrMontantInvalide, nouveauCapital.String(), ancienCapital.String())
	}

	base := nouveauCapital.Sub(ancienCapital)
	p := &domain.CalculProvision{
		TypeActe:   "AUGMENTATION_CAPITAL",
		Capital:    base,
		FraisFixes: fraisSocietes(),
	}

	if err := honorairesSur(p, base); err != nil {
		return nil, err
	}
	if err := enregistrementSur(p, base, TranchesApports); err != nil {
		return nil, err
	}

	return finaliser(p), nil
}

// CalculerAugmentationCapitalNature computes a capital increase partly made
// in kind; the in-kind portion bears the property-transfer duty.
func CalculerAugmentationCapitalNature(ancienCapital, nouveauCapital, partNature decimal.Decimal) (*domain.CalculProvision, error) {
	p, err := CalculerAugmentationCapital(ancienCapital, nouveauCapital)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateMontantPositif("partNature", partNature); err != nil {
		return nil, err
	}
	if partNature.GreaterThan(p.Capital) {
		return nil, fmt.Errorf("%w: partNature=%s dépasse l'augmentation=%s",
			domain.ErrCapitalIncoherent, partNature.String(), p.Capital.String())
	}

	p.TypeActe = "AUGMENTATION_CAPITAL_NATURE"
	p.CapitalNature = partNature
	p.CapitalNumeraire = p.Capital.Sub(partNature)

	mutation, err := CalculerProgressif(partNature, TranchesMutation)
	if err != nil {
		return nil, fmt.Errorf("mutation: %w", err)
	}
	p.Mutation = mutation.Total
	p.Details.Mutation = mutation.Details

	return finaliser(p), nil
}

// CalculerReductionCapital computes the provision for a capital reduction.
// The fee is flat regardless of the amounts involved, and the registration
// duty is the fixed triple, rounded to whole francs as the duty schedule
// requires.
func CalculerReductionCapital(montantReduction decimal.Decimal) (*domain.CalculProvision, error) {
	if err := domain.ValidateMontantPositif("montantReduction", montantReduction); err != nil {
		return nil, err
	}

	p := &domain.CalculProvision{
		TypeActe:       "REDUCTION_CAPITAL",
		Capital:        montantReduction,
		Honoraires:     honorairesReduction,
		Enregistrement: droitFixeTotal().Round(0),
		FraisFixes:     fraisSocietes(),
	}
	return finaliser(p), nil
}

// CalculerTransformationSociete computes the provision for changing a
// company's legal form. Flat fee, fixed duty.
func CalculerTransformationSociete() (*domain.CalculProvision, error) {
	p := &domain.CalculProvision{
		TypeActe:       "TRANSFORMATION_SOCIETE",
		Honoraires:     honorairesTransformation,
		Enregistrement: droitFixeTotal().Round(0),
		FraisFixes:     fraisSocietes(),
	}
	return finaliser(p), nil
}

// CalculerCessionParts computes the provision for a transfer of SARL shares.
func CalculerCessionParts(prixCession decimal.Decimal) (*domain.CalculProvision, error) {
	return cessionTitres("CESSION_PARTS", prixCession)
}

// CalculerCessionActions computes the provision for a transfer of SA shares.
func CalculerCessionActions(prixCession decimal.Decimal) (*domain.CalculProvision, error) {
	return cessionTitres("CESSION_ACTIONS", prixCession)
}

func cessionTitres(typeActe string, prixCession decimal.Decimal) (*domain.CalculProvision, error) {
	if err := domain.ValidateMontantPositif("prixCession", prixCession); err != nil {
		return nil, err
	}

	p := &domain.CalculProvision{
		TypeActe:   typeActe,
		Capital:    prixCession,
		FraisFixes: fraisActes(),
	}

	if err := honorairesSur(p, prixCession); err != nil {
		return nil, err
	}
	if err := enregistrementSur(p, prixCession, TranchesCessionParts); err != nil {
		return nil, err
	}

	return finaliser(p), nil
}

// CalculerDissolutionSociete computes the provision for winding up a company.
func CalculerDissolutionSociete(capital decimal.Decimal) (*domain.CalculProvision, error) {
	if err := domain.ValidateMontantPositif("capital", capital); err != nil {
		return nil, err
	}

	p := &domain.CalculProvision{
		TypeActe:       "DISSOLUTION_SOCIETE",
		Capital:        capital,
		Honoraires:     honorairesDissolution,
		Enregistrement: droitFixeTotal().Round(0),
		FraisFixes:     fraisSocietes(),
	}
	return finaliser(p), nil
}

// CalculerPVAssemblee computes the provision for notarizing general-meeting
// minutes. Flat fee, fixed duty.
func CalculerPVAssemblee() (*domain.CalculProvision, error) {
	p := &domain.CalculProvision{
		TypeActe:       "PV_ASSEMBLEE",
		Honoraires:     honorairesPVAssemblee,
		Enregistrement: droitFixeTotal().Round(0),
		FraisFixes:     fraisActes(),
	}
	return finaliser(p), nil
}
