package bareme

import (
	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/domain"
)

// CalculerDonation computes the provision for a notarized gift.
func CalculerDonation(valeurBien decimal.Decimal) (*domain.CalculProvision, error) {
	if err := domain.ValidateMontantPositif("valeurBien", valeurBien); err != nil {
		return nil, err
	}

	p := &domain.CalculProvision{
		TypeActe:   "DONATION",
		Capital:    valeurBien,
		FraisFixes: fraisActes(),
	}

	if err := honorairesSur(p, valeurBien); err != nil {
		return nil, err
	}
	if err := enregistrementSur(p, valeurBien, TranchesDonation); err != nil {
		return nil, err
	}

	return finaliser(p), nil
}

// CalculerPretNotarie computes the provision for a notarized loan.
func CalculerPretNotarie(montantPret decimal.Decimal) (*domain.CalculProvision, error) {
	if err := domain.ValidateMontantPositif("montantPret", montantPret); err != nil {
		return nil, err
	}

	p := &domain.CalculProvision{
		TypeActe:   "PRET_NOTARIE",
		Capital:    montantPret,
		FraisFixes: fraisActes(),
	}

	if err := honorairesSur(p, montantPret); err != nil {
		return nil, err
	}
	if err := enregistrementSur(p, montantPret, TranchesPret); err != nil {
		return nil, err
	}

	return finaliser(p), nil
}

// acteForfaitaire covers acts billed at a flat fee with the fixed duty.
func acteForfaitaire(typeActe string, honoraires decimal.Decimal) (*domain.CalculProvision, error) {
	p := &domain.CalculProvision{
		TypeActe:       typeActe,
		Honoraires:     honoraires,
		Enregistrement: droitFixeTotal().Round(0),
		FraisFixes:     fraisActes(),
	}
	return finaliser(p), nil
}

// CalculerTestament computes the provision for drawing up a will.
func CalculerTestament() (*domain.CalculProvision, error) {
	return acteForfaitaire("TESTAMENT", honorairesTestament)
}

// CalculerContratMariage computes the provision for a marriage contract.
func CalculerContratMariage() (*domain.CalculProvision, error) {
	return acteForfaitaire("CONTRAT_MARIAGE", honorairesMariage)
}

// CalculerProcuration computes the provision for a notarized power of
// attorney.
func CalculerProcuration() (*domain.CalculProvision, error) {
	return acteForfaitaire("PROCURATION", honorairesProcuration)
}

// CalculerNotoriete computes the provision for an acte de notoriété.
func CalculerNotoriete() (*domain.CalculProvision, error) {
	return acteForfaitaire("NOTORIETE", honorairesNotoriete)
}

// CalculerQuittance computes the provision for a notarized receipt.
func CalculerQuittance() (*domain.CalculProvision, error) {
	return acteForfaitaire("QUITTANCE", honorairesQuittance)
}
