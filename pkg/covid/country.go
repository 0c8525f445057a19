package covid

import "strings"

type Country struct {
	ID   int
	Name string
	ISO2 string
	ISO3 string
}

// Selectable reports whether the country can be used as a region. Some upstream
// entries (cruise ships) come without an ISO2 code.
func (c Country) Selectable() bool {
	return len(c.ISO2) == 2
}

// CountryList keeps countries in upstream order.
type CountryList []Country

// Lookup finds a country by ISO2 code or by name, both case-insensitively.
func (l CountryList) Lookup(query string) (Country, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Country{}, false
	}
	for _, c := range l {
		if c.Selectable() && strings.EqualFold(c.ISO2, query) {
			return c, true
		}
	}
	for _, c := range l {
		if strings.EqualFold(c.Name, query) || (c.ISO3 != "" && strings.EqualFold(c.ISO3, query)) {
			return c, true
		}
	}
	return Country{}, false
}

func (l CountryList) Selectable() CountryList {
	result := make(CountryList, 0, len(l))
	for _, c := range l {
		if c.Selectable() {
			result = append(result, c)
		}
	}
	return result
}

// ResolveRegion turns free user input into a region: global aliases and ISO2 codes
// directly, anything else through the country names of the list.
func (l CountryList) ResolveRegion(input string) (Region, error) {
	r, err := ParseRegion(input)
	if err == nil {
		return r, nil
	}
	if c, found := l.Lookup(input); found && c.Selectable() {
		return Region(strings.ToUpper(c.ISO2)), nil
	}
	return "", err
}
