package bareme

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/etudesn/notacompta/internal/domain"
)

// TauxTVA is the flat UEMOA value-added tax rate, applied to honoraires only.
var TauxTVA = decimal.RequireFromString("0.18")

var cent = decimal.NewFromInt(100)

func millions(n int64) decimal.Decimal {
	return decimal.NewFromInt(n * 1_000_000)
}

func taux(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tranche(min, max decimal.Decimal, rate, description string) domain.Tranche {
	return domain.Tranche{Min: min, Max: &max, Taux: taux(rate), Description: description}
}

func trancheOuverte(min decimal.Decimal, rate, description string) domain.Tranche {
	return domain.Tranche{Min: min, Taux: taux(rate), Description: description}
}

// TranchesHonoraires is the standard honoraires schedule applied to the
// base amount of rate-based acts.
var TranchesHonoraires = []domain.Tranche{
	tranche(decimal.Zero, millions(20), "0.045", "De 0 à 20 000 000"),
	tranche(millions(20), millions(40), "0.03", "De 20 000 001 à 40 000 000"),
	tranche(millions(40), millions(60), "0.02", "De 40 000 001 à 60 000 000"),
	tranche(millions(60), millions(80), "0.015", "De 60 000 001 à 80 000 000"),
	trancheOuverte(millions(80), "0.01", "Au-delà de 80 000 000"),
}

// TranchesApports is the registration duty schedule on capital contributions.
var TranchesApports = []domain.Tranche{
	tranche(decimal.Zero, millions(100), "0.01", "Apports jusqu'à 100 000 000"),
	trancheOuverte(millions(100), "0.0025", "Apports au-delà de 100 000 000"),
}

// TranchesMutation is the property-transfer duty on sales and in-kind
// contributions of real estate.
var TranchesMutation = []domain.Tranche{
	trancheOuverte(decimal.Zero, "0.05", "Droit de mutation immobilière"),
}

// TranchesConservationFonciere is the land-registry duty: exempt below the
// threshold, then 1% on the full excess.
var TranchesConservationFonciere = []domain.Tranche{
	tranche(decimal.Zero, millions(30), "0", "Valeur jusqu'à 30 000 000 (exonérée)"),
	trancheOuverte(millions(30), "0.01", "Valeur au-delà de 30 000 000"),
}

// TranchesBailCommercial taxes the cumulated rent of a commercial lease.
var TranchesBailCommercial = []domain.Tranche{
	trancheOuverte(decimal.Zero, "0.05", "Droit de bail commercial"),
}

// TranchesBailHabitation taxes the cumulated rent of a residential lease.
var TranchesBailHabitation = []domain.Tranche{
	trancheOuverte(decimal.Zero, "0.02", "Droit de bail d'habitation"),
}

// TranchesCessionParts taxes transfers of company shares.
var TranchesCessionParts = []domain.Tranche{
	trancheOuverte(decimal.Zero, "0.01", "Droit de cession de titres"),
}

// TranchesFondsCommerce taxes the transfer of a going concern.
var TranchesFondsCommerce = []domain.Tranche{
	trancheOuverte(decimal.Zero, "0.10", "Droit de mutation de fonds de commerce"),
}

// TranchesPret taxes notarized loans and mortgage registrations.
var TranchesPret = []domain.Tranche{
	trancheOuverte(decimal.Zero, "0.01", "Droit d'enregistrement de prêt"),
}

// TranchesDonation is the gratuitous-transfer duty schedule.
var TranchesDonation = []domain.Tranche{
	tranche(decimal.Zero, millions(50), "0.03", "Donation jusqu'à 50 000 000"),
	trancheOuverte(millions(50), "0.05", "Donation au-delà de 50 000 000"),
}

// Frais fixes, in francs, per act family. These are jurisdiction constants,
// not computed amounts.
var (
	fraisGreffe      = decimal.NewFromInt(25_000)
	fraisPublication = decimal.NewFromInt(30_000)
	fraisExpeditions = decimal.NewFromInt(20_000)
	fraisDivers      = decimal.NewFromInt(15_000)
	fraisTimbres     = decimal.NewFromInt(10_000)
)

// Flat honoraires for acts billed independently of the base amount.
var (
	honorairesReduction      = decimal.NewFromInt(250_000)
	honorairesTransformation = decimal.NewFromInt(300_000)
	honorairesDissolution    = decimal.NewFromInt(400_000)
	honorairesPVAssemblee    = decimal.NewFromInt(150_000)
	honorairesTestament      = decimal.NewFromInt(75_000)
	honorairesMariage        = decimal.NewFromInt(100_000)
	honorairesProcuration    = decimal.NewFromInt(25_000)
	honorairesNotoriete      = decimal.NewFromInt(50_000)
	honorairesQuittance      = decimal.NewFromInt(50_000)
	honorairesMainlevee      = decimal.NewFromInt(100_000)
)

// Fixed registration duty on acts taxed at the flat rate: droit de minute,
// its 10% annex duty, and the filing penalty buffer.
var (
	droitFixeMinute   = decimal.NewFromInt(6_000)
	droitFixeAnnexe   = decimal.NewFromInt(600)
	droitFixePenalite = decimal.NewFromInt(12_000)
)

// droitFixeTotal is the fixed duty triple applied as-is.
func droitFixeTotal() decimal.Decimal {
	return droitFixeMinute.Add(droitFixeAnnexe).Add(droitFixePenalite)
}

func fraisSocietes() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"greffe":      fraisGreffe,
		"publication": fraisPublication,
		"expéditions": fraisExpeditions,
		"divers":      fraisDivers,
	}
}

func fraisActes() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"expéditions": fraisExpeditions,
		"timbres":     fraisTimbres,
		"divers":      fraisDivers,
	}
}

// finaliser derives TVA and the two totals from the populated fields.
// TVA applies to honoraires only, never to duties or fixed charges.
func finaliser(p *domain.CalculProvision) *domain.CalculProvision {
	p.TVA = p.Honoraires.Mul(TauxTVA)
	p.TotalHT = p.Honoraires.
		Add(p.Enregistrement).
		Add(p.Mutation).
		Add(p.Conservation).
		Add(p.TotalFraisFixes())
	p.TotalTTC = p.TotalHT.Add(p.TVA)
	return p
}

// honorairesSur runs the standard honoraires schedule over base and fills
// the provision. Formulas with a non-standard schedule bypass this helper.
func honorairesSur(p *domain.CalculProvision, base decimal.Decimal) error {
	res, err := CalculerProgressif(base, TranchesHonoraires)
	if err != nil {
		return fmt.Errorf("honoraires: %w", err)
	}
	p.Honoraires = res.Total
	p.Details.Honoraires = res.Details
	return nil
}

// enregistrementSur runs a duty schedule over base and fills the provision.
func enregistrementSur(p *domain.CalculProvision, base decimal.Decimal, tranches []domain.Tranche) error {
	res, err := CalculerProgressif(base, tranches)
	if err != nil {
		return fmt.Errorf("enregistrement: %w", err)
	}
	p.Enregistrement = res.Total
	p.Details.Enregistrement = res.Details
	return nil
}
