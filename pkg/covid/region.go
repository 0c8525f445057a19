package covid

import (
	"errors"
	"fmt"
	"strings"
)

// Region selects which upstream endpoints are queried: the whole world or one country.
type Region string

// Global is the sentinel region for worldwide totals.
const Global Region = "global"

var ErrInvalidRegion = errors.New("invalid region")

var globalAliases = map[string]bool{
	"":       true,
	"all":    true,
	"global": true,
	"world":  true,
}

// ParseRegion accepts the global aliases or an ISO-3166 alpha-2 code in any case.
func ParseRegion(s string) (Region, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if globalAliases[s] {
		return Global, nil
	}
	if len(s) != 2 || !isASCIILetter(s[0]) || !isASCIILetter(s[1]) {
		return "", fmt.Errorf("%w: %q is neither global nor an ISO2 country code", ErrInvalidRegion, s)
	}
	return Region(strings.ToUpper(s)), nil
}

func isASCIILetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}

func (r Region) IsGlobal() bool {
	return r == Global
}

func (r Region) String() string {
	if r.IsGlobal() {
		return "Global"
	}
	return string(r)
}
