package flow

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/ojakoo/springbot/bot/domain"
)

var (
	// ErrInvalidFormat means the text did not parse under the sport's rules.
	ErrInvalidFormat = errors.New("flow: invalid distance format")
	// ErrBelowMinimum means the value parsed but is under the allowed floor.
	ErrBelowMinimum = errors.New("flow: distance below minimum")
)

// ParseDistance validates free-text distance input and returns the
// resulting kilometers. Step-count sports take a whole number of steps
// (at least one, checked before conversion) which is multiplied into
// kilometers; all other sports take a decimal kilometer value with a
// '.' separator, bounded below by the sport's minimum. Every failure
// is one of the typed errors above.
func ParseDistance(raw string, rules domain.InputRules) (float64, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, ErrInvalidFormat
	}

	if rules.Steps {
		steps, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return 0, ErrInvalidFormat
		}
		if steps < 1 {
			return 0, ErrBelowMinimum
		}
		return float64(steps) * rules.StepFactor, nil
	}

	km, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(km) || math.IsInf(km, 0) {
		return 0, ErrInvalidFormat
	}
	if km < rules.MinKm {
		return 0, ErrBelowMinimum
	}
	return km, nil
}
