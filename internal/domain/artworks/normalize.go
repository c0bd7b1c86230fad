package artworks

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidPrice = errors.New("price must be a non-negative number")

// FormatPrice turns user input such as "1200", "1,200.5" or "€ 300" into
// "1200.00". Collected works never carry a price.
func FormatPrice(raw, status string) (string, error) {
	if strings.EqualFold(strings.TrimSpace(status), StatusCollected) {
		return "", nil
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "€$£ ")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return "", nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return "", ErrInvalidPrice
	}
	return strconv.FormatFloat(v, 'f', 2, 64), nil
}

// NormalizeMedium keeps the custom medium only when medium is "other".
func NormalizeMedium(medium, custom string) (string, string) {
	medium = strings.ToLower(strings.TrimSpace(medium))
	if medium != MediumOther {
		return medium, ""
	}
	return medium, strings.TrimSpace(custom)
}

func NormalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return StatusAvailable
	}
	return s
}
