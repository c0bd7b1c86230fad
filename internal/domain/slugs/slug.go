package slugs

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var (
	nonSlug    = regexp.MustCompile(`[^a-z0-9\-\s]+`)
	whitespace = regexp.MustCompile(`\s+`)
	multiDash  = regexp.MustCompile(`-+`)
	valid      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Make generates a URL-safe base slug.
// Example: "Blue  Period (1901)" -> "blue-period-1901"
func Make(name, fallback string) string {
	base := strings.ToLower(strings.TrimSpace(name))
	base = nonSlug.ReplaceAllString(base, "")
	base = whitespace.ReplaceAllString(base, "-")
	base = multiDash.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if base == "" {
		base = fallback
	}
	return base
}

// Valid reports whether s is already in normalised slug form.
func Valid(s string) bool {
	return valid.MatchString(s)
}

// Unique probes base, base-1, base-2, ... against column of model and
// returns the first unused candidate. Scopes narrow the probe, e.g. to a
// single artist. column must be a constant from the caller.
func Unique(
	ctx context.Context,
	db *gorm.DB,
	model any,
	column string,
	base string,
	scopes ...func(*gorm.DB) *gorm.DB,
) (string, error) {
	if db == nil {
		return "", fmt.Errorf("db is nil")
	}

	candidate := base
	for i := 1; ; i++ {
		var n int64
		err := db.WithContext(ctx).
			Model(model).
			Scopes(scopes...).
			Where(column+" = ?", candidate).
			Count(&n).Error
		if err != nil {
			return "", err
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
