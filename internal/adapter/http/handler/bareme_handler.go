package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/etudesn/notacompta/internal/adapter/http/dto"
	"github.com/etudesn/notacompta/internal/bareme"
	"github.com/etudesn/notacompta/internal/domain"
	"github.com/etudesn/notacompta/internal/infrastructure/metrics"
)

// BaremeHandler exposes the provision calculator.
type BaremeHandler struct {
	metrics *metrics.Metrics
}

// NewBaremeHandler creates a new BaremeHandler.
func NewBaremeHandler(m *metrics.Metrics) *BaremeHandler {
	return &BaremeHandler{metrics: m}
}

// Calculate computes a provision for the requested act type.
func (h *BaremeHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req dto.ProvisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	provision, err := calculate(req)
	if err != nil {
		if errors.Is(err, errUnknownTypeActe) {
			writeError(w, http.StatusBadRequest, "unknown act type", err.Error())
			return
		}
		writeDomainError(w, err, "failed to calculate provision")
		return
	}

	if h.metrics != nil {
		h.metrics.ProvisionsCalculated.WithLabelValues(provision.TypeActe).Inc()
		total, _ := provision.TotalTTC.Float64()
		h.metrics.ProvisionAmount.Observe(total)
	}

	writeJSON(w, http.StatusOK, provision)
}

var errUnknownTypeActe = errors.New("type d'acte inconnu")

// calculate dispatches on the act type.
func calculate(req dto.ProvisionRequest) (*domain.CalculProvision, error) {
	switch req.TypeActe {
	case "CONSTITUTION_SARL_NUMERAIRE":
		return bareme.CalculerSARLNumeraire(req.Capital)
	case "CONSTITUTION_SARL_MIXTE":
		return bareme.CalculerSARLMixte(req.Capital, req.CapitalNature, req.CapitalNumeraire)
	case "CONSTITUTION_SA_NUMERAIRE":
		return bareme.CalculerSANumeraire(req.Capital)
	case "CONSTITUTION_SA_MIXTE":
		return bareme.CalculerSAMixte(req.Capital, req.CapitalNature, req.CapitalNumeraire)
	case "CONSTITUTION_SAS":
		return bareme.CalculerSAS(req.Capital)
	case "CONSTITUTION_SUARL":
		return bareme.CalculerSUARL(req.Capital)
	case "CONSTITUTION_SCI":
		return bareme.CalculerSCI(req.Capital)
	case "CONSTITUTION_SNC":
		return bareme.CalculerSNC(req.Capital)
	case "CONSTITUTION_GIE":
		return bareme.CalculerGIE()
	case "AUGMENTATION_CAPITAL":
		return bareme.CalculerAugmentationCapital(req.AncienCapital, req.NouveauCapital)
	case "AUGMENTATION_CAPITAL_NATURE":
		return bareme.CalculerAugmentationCapitalNature(req.AncienCapital, req.NouveauCapital, req.PartNature)
	case "REDUCTION_CAPITAL":
		return bareme.CalculerReductionCapital(req.Capital)
	case "TRANSFORMATION_SOCIETE":
		return bareme.CalculerTransformationSociete()
	case "CESSION_PARTS":
		return bareme.CalculerCessionParts(req.Prix)
	case "CESSION_ACTIONS":
		return bareme.CalculerCessionActions(req.Prix)
	case "DISSOLUTION_SOCIETE":
		return bareme.CalculerDissolutionSociete(req.Capital)
	case "PV_ASSEMBLEE":
		return bareme.CalculerPVAssemblee()
	case "VENTE_IMMEUBLE":
		return bareme.CalculerVenteImmeuble(req.Prix)
	case "VENTE_TERRAIN":
		return bareme.CalculerVenteTerrain(req.Prix)
	case "ECHANGE_IMMEUBLES":
		return bareme.CalculerEchangeImmeubles(req.Prix, req.ValeurSecond)
	case "BAIL_COMMERCIAL":
		return bareme.CalculerBailCommercial(req.LoyerMensuel, req.DureeMois)
	case "BAIL_HABITATION":
		return bareme.CalculerBailHabitation(req.LoyerMensuel, req.DureeMois)
	case "CESSION_FONDS_COMMERCE":
		return bareme.CalculerCessionFondsCommerce(req.Prix)
	case "HYPOTHEQUE":
		return bareme.CalculerHypotheque(req.Prix)
	case "MAINLEVEE":
		return bareme.CalculerMainlevee(req.Prix)
	case "DONATION":
		return bareme.CalculerDonation(req.Prix)
	case "PRET_NOTARIE":
		return bareme.CalculerPretNotarie(req.Prix)
	case "TESTAMENT":
		return bareme.CalculerTestament()
	case "CONTRAT_MARIAGE":
		return bareme.CalculerContratMariage()
	case "PROCURATION":
		return bareme.CalculerProcuration()
	case "NOTORIETE":
		return bareme.CalculerNotoriete()
	case "QUITTANCE":
		return bareme.CalculerQuittance()
	case "TAXE_PLUS_VALUE":
		return bareme.CalculerTaxePlusValue(req.PrixAcquisition, req.AnneeAcquisition, req.PrixVente, req.AnneeCession, req.DepensesTravaux)
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownTypeActe, req.TypeActe)
	}
}
