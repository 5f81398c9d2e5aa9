package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCatalog(t *testing.T) {
	require.NoError(t, validateCatalog())

	t.Run("section without keywords is rejected", func(t *testing.T) {
		original := catalog[SectorRetail][OfferingLanding]
		defer func() { catalog[SectorRetail][OfferingLanding] = original }()

		catalog[SectorRetail][OfferingLanding] = append(append([]ExpectedSection{}, original...),
			ExpectedSection{"Sección Fantasma", "sin palabras", true})
		assert.Error(t, validateCatalog())
	})
}

func TestStructureScore_AllPairs(t *testing.T) {
	for sector, byOffering := range catalog {
		for offering := range byOffering {
			expected := Expected(string(sector), string(offering))
			require.NotEmpty(t, expected)

			all := make([]SectionAnalysis, 0, len(expected))
			for _, e := range expected {
				all = append(all, SectionAnalysis{Name: e.Name, Found: true})
			}

			name := string(sector) + "/" + string(offering)
			t.Run(name, func(t *testing.T) {
				assert.Equal(t, 100, StructureScore(all, expected))
				assert.Equal(t, 0, StructureScore(nil, expected))

				half := all[:len(all)/2]
				first := StructureScore(half, expected)
				assert.GreaterOrEqual(t, first, 0)
				assert.LessOrEqual(t, first, 100)
				assert.Equal(t, first, StructureScore(half, expected))
			})
		}
	}
}

func TestStructureScore_NoExpected(t *testing.T) {
	existing := []SectionAnalysis{{Name: "Inicio (Home)", Found: true}}
	assert.Equal(t, 0, StructureScore(existing, nil))
	assert.Nil(t, Expected("Salud", "Landing"))
}

func TestStructureScore_OnlyOptionalMissing(t *testing.T) {
	expected := []ExpectedSection{
		{"Inicio (Home)", "x", true},
		{"Blog", "x", false},
	}
	existing := []SectionAnalysis{{Name: "inicio", Found: true}}
	// 60·1/2 + 40·1/1
	assert.Equal(t, 70, StructureScore(existing, expected))
}

func TestExpected_ReturnsCopy(t *testing.T) {
	sections := Expected(string(SectorRetail), string(OfferingECommerce))
	sections[0].Name = "alterado"
	assert.NotEqual(t, "alterado", Expected(string(SectorRetail), string(OfferingECommerce))[0].Name)
}

func TestIsCritical(t *testing.T) {
	assert.True(t, isCritical("Catálogo de Productos", "Retail"))
	assert.True(t, isCritical("Contacto", "Financiero"))
	assert.False(t, isCritical("Wishlist", "Retail"))
	assert.False(t, isCritical("Contacto", "Salud"))
}
