package domain

import "github.com/shopspring/decimal"

// Tranche is one bracket of a progressive rate schedule.
// Max nil means the bracket is open-ended. A schedule is an ordered,
// non-overlapping sequence of tranches covering [0, ∞).
type Tranche struct {
	Min         decimal.Decimal  `json:"min"`
	Max         *decimal.Decimal `json:"max"`
	Taux        decimal.Decimal  `json:"taux"`
	Description string           `json:"description"`
}

// DetailTranche is the contribution of one tranche to a progressive total.
type DetailTranche struct {
	Description string          `json:"description"`
	Montant     decimal.Decimal `json:"montant"`
	Taux        decimal.Decimal `json:"taux"` // percentage, e.g. 4.5
	Calcul      decimal.Decimal `json:"calcul"`
}

// ResultatProgressif is the outcome of applying a progressive schedule.
type ResultatProgressif struct {
	Total   decimal.Decimal `json:"total"`
	Details []DetailTranche `json:"details"`
}

// DetailsProvision carries the per-tranche breakdowns of a provision.
type DetailsProvision struct {
	Honoraires           []DetailTranche `json:"honoraires,omitempty"`
	Enregistrement       []DetailTranche `json:"enregistrement,omitempty"`
	Mutation             []DetailTranche `json:"mutation,omitempty"`
	ConservationFonciere []DetailTranche `json:"conservationFonciere,omitempty"`
}

// CalculProvision is the structured estimate produced by a barème formula.
// It is a pure value: no identity, never persisted by this package.
type CalculProvision struct {
	TypeActe         string                     `json:"typeActe"`
	Capital          decimal.Decimal            `json:"capital"`
	CapitalNature    decimal.Decimal            `json:"capitalNature"`
	CapitalNumeraire decimal.Decimal            `json:"capitalNumeraire"`
	Honoraires       decimal.Decimal            `json:"honoraires"`
	TVA              decimal.Decimal            `json:"tva"`
	Enregistrement   decimal.Decimal            `json:"enregistrement"`
	Mutation         decimal.Decimal            `json:"mutation"`
	Conservation     decimal.Decimal            `json:"conservationFonciere"`
	FraisFixes       map[string]decimal.Decimal `json:"fraisFixes,omitempty"`
	TauxForfaitaire  decimal.Decimal            `json:"tauxForfaitaire"`
	PlusValueBrute   decimal.Decimal            `json:"plusValueBrute"`
	TaxePlusValue    decimal.Decimal            `json:"taxePlusValue"`
	TotalHT          decimal.Decimal            `json:"totalHT"`
	TotalTTC         decimal.Decimal            `json:"totalTTC"`
	Details          DetailsProvision           `json:"details"`
}

// TotalFraisFixes sums the named fixed charges.
func (c *CalculProvision) TotalFraisFixes() decimal.Decimal {
	total := decimal.Zero
	for _, v := range c.FraisFixes {
		total = total.Add(v)
	}
	return total
}
