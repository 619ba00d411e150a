package bareme

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etudesn/notacompta/internal/domain"
)

func assertMontant(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.NewFromInt(want)), "want %d, got %s", want, got)
}

func TestCalculerSARLNumeraire(t *testing.T) {
	t.Parallel()

	t.Run("capital of 15 millions", func(t *testing.T) {
		p, err := CalculerSARLNumeraire(millions(15))
		require.NoError(t, err)

		assertMontant(t, 675_000, p.Honoraires)
		assertMontant(t, 121_500, p.TVA)
		assertMontant(t, 150_000, p.Enregistrement)
		assertMontant(t, 90_000, p.TotalFraisFixes())
		assertMontant(t, 915_000, p.TotalHT)
		assertMontant(t, 1_036_500, p.TotalTTC)
		assert.Equal(t, "CONSTITUTION_SARL_NUMERAIRE", p.TypeActe)
	})

	t.Run("VAT applies to honoraires only", func(t *testing.T) {
		p, err := CalculerSARLNumeraire(millions(50))
		require.NoError(t, err)
		assert.True(t, p.TVA.Equal(p.Honoraires.Mul(TauxTVA)), "tva=%s honoraires=%s", p.TVA, p.Honoraires)
		assert.True(t, p.TotalTTC.Sub(p.TotalHT).Equal(p.TVA))
	})

	t.Run("zero capital rejected", func(t *testing.T) {
		_, err := CalculerSARLNumeraire(decimal.Zero)
		require.ErrorIs(t, err, domain.ErrMontantInvalide)
	})
}

func TestCalculerSARLMixte(t *testing.T) {
	t.Parallel()

	t.Run("in-kind portion bears the transfer duty", func(t *testing.T) {
		p, err := CalculerSARLMixte(millions(100), millions(30), millions(70))
		require.NoError(t, err)

		assertMontant(t, 2_400_000, p.Honoraires)
		assertMontant(t, 1_000_000, p.Enregistrement)
		assertMontant(t, 1_500_000, p.Mutation)
	})

	t.Run("portions must sum to the capital", func(t *testing.T) {
		_, err := CalculerSARLMixte(millions(100), millions(30), millions(60))
		require.ErrorIs(t, err, domain.ErrCapitalIncoherent)
	})
}

func TestCalculerAugmentationCapital(t *testing.T) {
	t.Parallel()

	t.Run("base is the increase", func(t *testing.T) {
		p, err := CalculerAugmentationCapital(millions(10), millions(25))
		require.NoError(t, err)
		assertMontant(t, 675_000, p.Honoraires)
		assertMontant(t, 150_000, p.Enregistrement)
		assert.True(t, p.Capital.Equal(millions(15)))
	})

	t.Run("new capital must exceed the old", func(t *testing.T) {
		_, err := CalculerAugmentationCapital(millions(25), millions(25))
		require.ErrorIs(t, err, domain.ErrMontantInvalide)
	})

	t.Run("in-kind part cannot exceed the increase", func(t *testing.T) {
		_, err := CalculerAugmentationCapitalNature(millions(10), millions(25), millions(20))
		require.ErrorIs(t, err, domain.ErrCapitalIncoherent)
	})
}

func TestCalculerBailCommercial(t *testing.T) {
	t.Parallel()

	t.Run("duty on the cumulated rent", func(t *testing.T) {
		p, err := CalculerBailCommercial(decimal.NewFromInt(500_000), 36)
		require.NoError(t, err)

		// base 18M, duty 5%
		assert.True(t, p.Capital.Equal(millions(18)))
		assertMontant(t, 900_000, p.Enregistrement)
		assertMontant(t, 810_000, p.Honoraires)
	})

	t.Run("residential lease taxed at 2 percent", func(t *testing.T) {
		p, err := CalculerBailHabitation(decimal.NewFromInt(500_000), 36)
		require.NoError(t, err)
		assertMontant(t, 360_000, p.Enregistrement)
	})

	t.Run("zero duration rejected", func(t *testing.T) {
		_, err := CalculerBailCommercial(decimal.NewFromInt(500_000), 0)
		require.ErrorIs(t, err, domain.ErrDureeInvalide)
	})
}

func TestCalculerVenteImmeuble(t *testing.T) {
	t.Parallel()

	t.Run("sale above the land-registry threshold", func(t *testing.T) {
		p, err := CalculerVenteImmeuble(millions(50))
		require.NoError(t, err)

		assertMontant(t, 1_700_000, p.Honoraires)
		assertMontant(t, 2_500_000, p.Enregistrement)
		assertMontant(t, 200_000, p.Conservation)
	})

	t.Run("sale below the threshold pays no registry duty", func(t *testing.T) {
		p, err := CalculerVenteImmeuble(millions(25))
		require.NoError(t, err)
		assert.True(t, p.Conservation.IsZero(), "got %s", p.Conservation)
	})

	t.Run("exchange taxed on the higher value", func(t *testing.T) {
		p, err := CalculerEchangeImmeubles(millions(20), millions(35))
		require.NoError(t, err)
		assert.True(t, p.Capital.Equal(millions(35)))
	})
}

func TestCalculerDonation(t *testing.T) {
	t.Parallel()

	p, err := CalculerDonation(millions(60))
	require.NoError(t, err)

	// 50M at 3% plus 10M at 5%
	assertMontant(t, 2_000_000, p.Enregistrement)
}

func TestCalculerTaxePlusValue(t *testing.T) {
	t.Parallel()

	t.Run("ten-year holding caps the allowance at 100 percent", func(t *testing.T) {
		p, err := CalculerTaxePlusValue(millions(10), 2015, millions(25), 2025, decimal.Zero)
		require.NoError(t, err)

		assertMontant(t, 100, p.TauxForfaitaire)
		assert.True(t, p.PlusValueBrute.Equal(millions(5)), "got %s", p.PlusValueBrute)
		assertMontant(t, 1_000_000, p.TaxePlusValue)
		assert.True(t, p.Honoraires.IsZero())
		assert.True(t, p.TVA.IsZero())
		assert.True(t, p.TotalTTC.Equal(p.TaxePlusValue))
	})

	t.Run("allowance is capped at 120 percent", func(t *testing.T) {
		p, err := CalculerTaxePlusValue(millions(10), 2000, millions(50), 2025, decimal.Zero)
		require.NoError(t, err)
		assertMontant(t, 120, p.TauxForfaitaire)
	})

	t.Run("no duty on a loss", func(t *testing.T) {
		p, err := CalculerTaxePlusValue(millions(20), 2020, millions(15), 2025, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, p.TaxePlusValue.IsZero())
		assert.True(t, p.PlusValueBrute.IsNegative())
	})

	t.Run("works expenses raise the acquisition value", func(t *testing.T) {
		base, err := CalculerTaxePlusValue(millions(10), 2020, millions(25), 2025, decimal.Zero)
		require.NoError(t, err)
		withWorks, err := CalculerTaxePlusValue(millions(10), 2020, millions(25), 2025, millions(2))
		require.NoError(t, err)
		assert.True(t, withWorks.TaxePlusValue.LessThan(base.TaxePlusValue))
	})

	t.Run("inverted years rejected", func(t *testing.T) {
		_, err := CalculerTaxePlusValue(millions(10), 2025, millions(25), 2015, decimal.Zero)
		require.ErrorIs(t, err, domain.ErrAnneeIncoherente)
	})
}

func TestActesForfaitaires(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		calcul     func() (*domain.CalculProvision, error)
		honoraires int64
	}{
		{"testament", CalculerTestament, 75_000},
		{"contrat de mariage", CalculerContratMariage, 100_000},
		{"procuration", CalculerProcuration, 25_000},
		{"notoriété", CalculerNotoriete, 50_000},
		{"quittance", CalculerQuittance, 50_000},
		{"transformation", CalculerTransformationSociete, 300_000},
		{"PV d'assemblée", CalculerPVAssemblee, 150_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.calcul()
			require.NoError(t, err)
			assertMontant(t, tt.honoraires, p.Honoraires)
			assertMontant(t, 18_600, p.Enregistrement)
			assert.True(t, p.TVA.Equal(p.Honoraires.Mul(TauxTVA)))
		})
	}
}
