// Package region provides the region roster and region→sector emission
// multipliers used to spread facilities heterogeneously across the country.
package region

import "sort"

// Coefficients maps region → sector → emission multiplier. A nil or
// partially filled map is valid; missing entries default to 1.0.
type Coefficients map[string]map[string]float64

// For returns the multiplier for a region/sector pair, defaulting to 1.0.
func (c Coefficients) For(region, sector string) float64 {
	if c == nil {
		return 1.0
	}
	sectors, ok := c[region]
	if !ok {
		return 1.0
	}
	v, ok := sectors[sector]
	if !ok || v <= 0 {
		return 1.0
	}
	return v
}

// Regions returns the region names carried by the coefficient table, or the
// default roster when no table was loaded.
func (c Coefficients) Regions() []string {
	if len(c) == 0 {
		return DefaultRegions()
	}
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	// Map iteration order is random; region picks must be reproducible per seed.
	sort.Strings(names)
	return names
}

// DefaultRegions returns the built-in region roster used when no
// coefficient table is available.
func DefaultRegions() []string {
	return []string{
		"Istanbul", "Ankara", "Izmir", "Bursa", "Kocaeli", "Adana",
		"Gaziantep", "Konya", "Antalya", "Mersin", "Kayseri", "Eskisehir",
		"Sakarya", "Denizli", "Manisa", "Zonguldak", "Hatay", "Samsun",
	}
}
