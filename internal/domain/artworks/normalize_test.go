package artworks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		raw    string
		status string
		want   string
	}{
		{"1200", StatusAvailable, "1200.00"},
		{"1,200.5", StatusAvailable, "1200.50"},
		{"€ 300", StatusAvailable, "300.00"},
		{"", StatusAvailable, ""},
		{"900", StatusCollected, ""},
		{"900", "Collected", ""},
	}
	for _, tt := range tests {
		got, err := FormatPrice(tt.raw, tt.status)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}

	_, err := FormatPrice("twelve", StatusAvailable)
	assert.ErrorIs(t, err, ErrInvalidPrice)
	_, err = FormatPrice("-4", StatusAvailable)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestNormalizeMedium(t *testing.T) {
	m, c := NormalizeMedium("Oil", "ignored")
	assert.Equal(t, "oil", m)
	assert.Empty(t, c)

	m, c = NormalizeMedium("other", " gold leaf ")
	assert.Equal(t, MediumOther, m)
	assert.Equal(t, "gold leaf", c)
}
