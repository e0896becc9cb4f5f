package flow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ojakoo/springbot/bot/domain"
)

func TestParseDistanceKilometers(t *testing.T) {
	rules := domain.SportBiking.InputRules()

	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr error
	}{
		{name: "decimal", input: "5.5", want: 5.5},
		{name: "integer", input: "12", want: 12},
		{name: "whitespace trimmed", input: "  3.2  ", want: 3.2},
		{name: "exactly at minimum", input: "1.0", want: 1.0},
		{name: "just below minimum", input: "0.99", wantErr: ErrBelowMinimum},
		{name: "zero", input: "0", wantErr: ErrBelowMinimum},
		{name: "negative", input: "-4", wantErr: ErrBelowMinimum},
		{name: "comma separator", input: "5,5", wantErr: ErrInvalidFormat},
		{name: "words", input: "five", wantErr: ErrInvalidFormat},
		{name: "empty", input: "", wantErr: ErrInvalidFormat},
		{name: "nan", input: "NaN", wantErr: ErrInvalidFormat},
		{name: "infinity", input: "Inf", wantErr: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDistance(tt.input, rules)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseDistanceSteps(t *testing.T) {
	rules := domain.SportActivity.InputRules()

	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr error
	}{
		{name: "converts to kilometers", input: "1000", want: 0.7},
		{name: "single step", input: "1", want: 0.0007},
		{name: "zero steps", input: "0", wantErr: ErrBelowMinimum},
		{name: "negative steps", input: "-100", wantErr: ErrBelowMinimum},
		{name: "decimal rejected", input: "1000.5", wantErr: ErrInvalidFormat},
		{name: "words", input: "many", wantErr: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDistance(tt.input, rules)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
