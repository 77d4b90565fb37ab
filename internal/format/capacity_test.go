package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsContainerDescription(t *testing.T) {
	tests := []struct {
		desc string
		want bool
	}{
		{"CONTENANT ALUM 2.25LB RECT", true},
		{"COUVERCLE ALUM. 2.25LB", true},
		{"COUV DOME 16OZ", true},
		{"BOL SOUPE 16OZ KRAFT", true},
		{"ASSIETTE CARTON 9PO", true},
		{"PLASTIC CUP 12OZ CLEAR", true},
		{"FILET SAUMON 2/5LB", false},
		// Keyword must stand alone as a word.
		{"SAUCISSON BOLOGNE 1KG", false},
		{"CONCOMBRE ANGLAIS", false},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, IsContainerDescription(tt.desc))
		})
	}
}

func TestExtractContainerCapacity(t *testing.T) {
	t.Run("weight capacity on a lid", func(t *testing.T) {
		c := ExtractContainerCapacity("COUVERCLE ALUM. 2.25LB")
		require.NotNil(t, c)
		assert.Equal(t, 2.25, c.Capacity)
		assert.Equal(t, "lb", c.Unit)
		assert.True(t, c.IsCapacity)
		assert.Equal(t, "lid", c.ContainerType)
	})

	t.Run("recovers lost decimal before reading capacity", func(t *testing.T) {
		c := ExtractContainerCapacity("CONTENANT ALUM 2 25LB RECT")
		require.NotNil(t, c)
		assert.Equal(t, 2.25, c.Capacity)
		assert.Equal(t, "container", c.ContainerType)
	})

	t.Run("volume capacity on a bowl", func(t *testing.T) {
		c := ExtractContainerCapacity("BOL SOUPE 16OZ KRAFT")
		require.NotNil(t, c)
		assert.Equal(t, 16.0, c.Capacity)
		assert.Equal(t, "bowl", c.ContainerType)
	})

	t.Run("non-container description", func(t *testing.T) {
		assert.Nil(t, ExtractContainerCapacity("FILET SAUMON 2.25LB"))
	})

	t.Run("container without a stated capacity", func(t *testing.T) {
		assert.Nil(t, ExtractContainerCapacity("COUVERCLE PLAT NOIR"))
	})
}

func TestExtractDimensions(t *testing.T) {
	t.Run("sheet dimensions", func(t *testing.T) {
		d := ExtractDimensions("SAC POUBELLE 35X50 FORT")
		require.NotNil(t, d)
		assert.Equal(t, "35X50", d.Dimensions)
	})

	t.Run("width in inches", func(t *testing.T) {
		d := ExtractDimensions(`FILM ETIRABLE 18" X 2`)
		require.NotNil(t, d)
		assert.Equal(t, 18.0, d.Width)
		assert.Equal(t, "in", d.WidthUnit)
	})

	t.Run("material specs", func(t *testing.T) {
		d := ExtractDimensions("SERVIETTE BLANCHE 2PLY")
		require.NotNil(t, d)
		assert.Equal(t, "2PLY", d.Specs)
	})

	t.Run("compartments", func(t *testing.T) {
		d := ExtractDimensions("CONTENANT 3 COMP NOIR")
		require.NotNil(t, d)
		assert.Equal(t, "3COMP", d.Specs)
	})

	t.Run("nothing descriptive", func(t *testing.T) {
		assert.Nil(t, ExtractDimensions("FILET SAUMON FRAIS"))
	})
}
