package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBMWModel(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"320d", true},
		{"118i", true},
		{"530D", true},
		{"M5", true},
		{"M340i", true},
		{"X3", true},
		{"x3", true},
		{"Z4", true},
		{"z4", true},
		{"A4", false},
		{"X", false},
		{"X35", false},
		{"m5", false},
		{"320x", false},
		{"", false},
		{"Corolla", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateBMWModel(tt.model))
		})
	}
}
