package engine

import (
	"testing"
)

func TestParseNumText(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1.234,56", 1234.56},
		{"1234,56", 1234.56},
		{"1234.56", 1234.56},
		{"2.000,00", 2000.00},
		{"0,00", 0.00},
		{"-1.000,50", -1000.50},
		{"  7,5  ", 7.5},
		{"42", 42},
		{"abc", 0.0},
		{"", 0.0},
		{"1.2.3,4", 123.4},
		{"prior balance", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseNum(tt.input)
			if got != tt.expected {
				t.Errorf("ParseNum(%q) = %f, want %f", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseNumTypes(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
	}{
		{"nil", nil, 0.0},
		{"float64", 1234.56, 1234.56},
		{"float32", float32(2.5), 2.5},
		{"int", 42, 42},
		{"int64", int64(-7), -7},
		{"unsupported type", struct{}{}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNum(tt.input)
			if got != tt.expected {
				t.Errorf("ParseNum(%v) = %f, want %f", tt.input, got, tt.expected)
			}
		})
	}
}

// Normalizing an already-normalized float must return the same float.
func TestParseNumIdempotent(t *testing.T) {
	for _, v := range []float64{0, 1234.56, -1000.5, 0.01} {
		if got := ParseNum(v); got != v {
			t.Errorf("ParseNum(%f) = %f, want identity", v, got)
		}
	}
}
