package geo

// Place is a geocoder hit: where a name resolved and in which country.
type Place struct {
	Point       Point
	CountryCode string
}
