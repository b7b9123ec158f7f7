package geo

import "strings"

// ResolutionKind enumerates the outcomes of resolving a city name.
type ResolutionKind int

// Resolution kinds.
const (
	// Absent means no city name was given.
	Absent ResolutionKind = iota
	// Unresolved means the geocoder found nothing or failed.
	Unresolved
	// Domestic means the city lies in the home country.
	Domestic
	// Foreign means the city lies outside the home country.
	Foreign
)

func (k ResolutionKind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Unresolved:
		return "unresolved"
	case Domestic:
		return "domestic"
	case Foreign:
		return "foreign"
	default:
		return "unknown"
	}
}

// Resolution is the classified outcome of a city lookup.
// Point is set only for Domestic; Country is set for Domestic and Foreign.
type Resolution struct {
	kind    ResolutionKind
	point   Point
	country string
}

// AbsentCity returns the resolution for a missing city name.
func AbsentCity() Resolution { return Resolution{kind: Absent} }

// UnresolvedCity returns the resolution for a lookup that found nothing.
func UnresolvedCity() Resolution { return Resolution{kind: Unresolved} }

// DomesticCity returns a resolution inside the home country.
func DomesticCity(p Point, country string) Resolution {
	return Resolution{kind: Domestic, point: p, country: strings.ToUpper(country)}
}

// ForeignCity returns a resolution outside the home country.
func ForeignCity(country string) Resolution {
	return Resolution{kind: Foreign, country: strings.ToUpper(country)}
}

// Kind returns the resolution kind.
func (r Resolution) Kind() ResolutionKind { return r.kind }

// Country returns the ISO 3166-1 alpha-2 code, empty unless resolved.
func (r Resolution) Country() string { return r.country }

// Point returns the coordinates usable for geo search.
// ok is false for every kind except Domestic.
func (r Resolution) Point() (Point, bool) {
	if r.kind != Domestic {
		return Point{}, false
	}
	return r.point, true
}

// IsForeign reports whether the city was confirmed outside the home country.
func (r Resolution) IsForeign() bool { return r.kind == Foreign }
