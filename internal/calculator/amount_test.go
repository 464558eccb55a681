package calculator

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    string
		wantErr bool
	}{
		{name: "float", in: 12.5, want: "12.5"},
		{name: "int", in: 40, want: "40"},
		{name: "int64", in: int64(7), want: "7"},
		{name: "numeric string", in: "19.99", want: "19.99"},
		{name: "padded string", in: "  3.10 ", want: "3.1"},
		{name: "json number", in: json.Number("250.75"), want: "250.75"},
		{name: "bytes", in: []byte("8.40"), want: "8.4"},
		{name: "decimal", in: decimal.RequireFromString("1.01"), want: "1.01"},
		{name: "empty string", in: "", wantErr: true},
		{name: "garbage", in: "ten", wantErr: true},
		{name: "nil", in: nil, wantErr: true},
		{name: "NaN", in: math.NaN(), wantErr: true},
		{name: "bool", in: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAmount(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRecord) {
					t.Errorf("expected ErrInvalidRecord, got %v", err)
				}
				return
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ParseAmount(%v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{100.0 / 3, 33.33},
		{200.0 / 3, 66.67},
		{0.004, 0},
		{-12.345, -12.35},
		{25, 25},
	}
	for _, tt := range tests {
		if got := Round(tt.in); got != tt.want {
			t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
