package config

import (
	"strings"
)

// Favourites is an ordered list of saved location lists, e.g. "DE, FR, IT"
type Favourites []string

// Contains reports whether locations is already saved
func (f Favourites) Contains(locations string) bool {
	return f.index(locations) >= 0
}

// Add appends locations unless it is blank or already present. It reports
// whether the list changed.
func (f Favourites) Add(locations string) (Favourites, bool) {
	locations = strings.TrimSpace(locations)
	if locations == "" || f.Contains(locations) {
		return f, false
	}
	out := make(Favourites, len(f), len(f)+1)
	copy(out, f)
	return append(out, locations), true
}

// Remove deletes locations from the list. It reports whether the list changed.
func (f Favourites) Remove(locations string) (Favourites, bool) {
	i := f.index(strings.TrimSpace(locations))
	if i < 0 {
		return f, false
	}
	out := make(Favourites, 0, len(f)-1)
	out = append(out, f[:i]...)
	return append(out, f[i+1:]...), true
}

func (f Favourites) index(locations string) int {
	for i, fav := range f {
		if fav == locations {
			return i
		}
	}
	return -1
}
