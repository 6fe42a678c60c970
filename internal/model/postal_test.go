package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostalMapping_AugmentMatch(t *testing.T) {
	t.Parallel()

	m := NewPostalMapping([]PostalEntry{{Region: "信義區", Code: "110001"}})

	assert.Equal(t, "110 台北市信義區松仁路100號", m.Augment("台北市信義區松仁路100號"))
}

func TestPostalMapping_AugmentNoMatch(t *testing.T) {
	t.Parallel()

	m := NewPostalMapping([]PostalEntry{{Region: "信義區", Code: "110001"}})

	assert.Equal(t, "新竹市東區力行六路8號", m.Augment("新竹市東區力行六路8號"))
}

func TestPostalMapping_FirstMatchWins(t *testing.T) {
	t.Parallel()

	m := NewPostalMapping([]PostalEntry{
		{Region: "台北市", Code: "100"},
		{Region: "信義區", Code: "110"},
	})
	assert.Equal(t, "100 台北市信義區松仁路100號", m.Augment("台北市信義區松仁路100號"))

	reversed := NewPostalMapping([]PostalEntry{
		{Region: "信義區", Code: "110"},
		{Region: "台北市", Code: "100"},
	})
	assert.Equal(t, "110 台北市信義區松仁路100號", reversed.Augment("台北市信義區松仁路100號"))
}

func TestPostalMapping_SkipsEmptyRegion(t *testing.T) {
	t.Parallel()

	m := NewPostalMapping([]PostalEntry{
		{Region: "  ", Code: "999"},
		{Region: "東區", Code: "300"},
	})

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "300 新竹市東區", m.Augment("新竹市東區"))
	assert.Equal(t, "台南市", m.Augment("台南市"))
}

func TestPostalEntry_Prefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want string
	}{
		{"110001", "110"},
		{"300", "300"},
		{"82", "82"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PostalEntry{Code: tt.code}.Prefix())
	}
}

func TestPostalMapping_NilSafe(t *testing.T) {
	t.Parallel()

	var m *PostalMapping
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, "台北市", m.Augment("台北市"))
}
