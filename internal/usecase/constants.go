package usecase

// OHADA account codes used by the posting generators.
const (
	CompteClients       = "411"
	CompteFournisseurs  = "401"
	CompteTVACollectee  = "443"
	CompteTVADeductible = "445"
	CompteBanque        = "521"
	CompteCaisse        = "57"

	CompteHonoraires        = "7061"
	CompteDeboursRefactures = "7078"
	CompteDroitsRefactures  = "7088"

	CompteFournituresBureau = "6055"
	CompteLoyers            = "622"
	CompteAssurances        = "625"
	CompteHonorairesVerses  = "6325"
	CompteFraisBancaires    = "631"
	CompteRemunerations     = "661"
	CompteTransports        = "612"
	CompteEntretien         = "624"
	CompteAutresAchats      = "6088"
)

// PaymentMethod selects the treasury account of a payment posting.
type PaymentMethod string

const (
	PaymentBank PaymentMethod = "BANQUE"
	PaymentCash PaymentMethod = "CAISSE"
)

// TreasuryAccount maps a payment method to its account code.
func TreasuryAccount(method PaymentMethod) string {
	if method == PaymentCash {
		return CompteCaisse
	}
	return CompteBanque
}

// MovementType tags treasury movement entries in metadata.
type MovementType string

const (
	MovementIn       MovementType = "ENCAISSEMENT"
	MovementOut      MovementType = "DECAISSEMENT"
	MovementTransfer MovementType = "VIREMENT_INTERNE"
)
