package domain

import (
	"regexp"
	"strconv"
	"time"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

// DefaultExpiry is the token lifetime used when the caller does not request one.
const DefaultExpiry = "1d"

// expiryPattern matches period expressions like "30m", "12h", "1d" or "2w".
var expiryPattern = regexp.MustCompile(`^([0-9]+)(y|mo|w|d|h|m|s)$`)

// expiryUnits maps period suffixes to their duration. Months and years are
// fixed-length approximations, matching how issued tokens have always behaved.
var expiryUnits = map[string]time.Duration{
	"y":  365 * 24 * time.Hour,
	"mo": 30 * 24 * time.Hour,
	"w":  7 * 24 * time.Hour,
	"d":  24 * time.Hour,
	"h":  time.Hour,
	"m":  time.Minute,
	"s":  time.Second,
}

// ParseExpiry converts a period expression such as "1d" or "12h" into a
// duration. Returns an AuthError for expressions that do not parse or that
// would produce a zero lifetime.
func ParseExpiry(expr string) (time.Duration, error) {
	match := expiryPattern.FindStringSubmatch(expr)
	if match == nil {
		return 0, apperrors.NewAuthError("invalid expiry time: "+expr, nil)
	}

	value, err := strconv.Atoi(match[1])
	if err != nil || value == 0 {
		return 0, apperrors.NewAuthError("invalid expiry time: "+expr, err)
	}

	return time.Duration(value) * expiryUnits[match[2]], nil
}
