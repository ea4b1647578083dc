package shared

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFitsScale(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"0", true},
		{"12", true},
		{"0.0001", true},
		{"1.50000", true},
		{"-3.1234", true},
		{"0.00001", false},
		{"0.00005", false},
		{"1.23456", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, FitsScale(decimal.RequireFromString(tt.value)))
		})
	}
}
