package country

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cabswale/raahi/internal/domain/geo"
)

// DefaultHomeCountry is used when no home country is configured.
const DefaultHomeCountry = "IN"

// Validator classifies a city name as domestic, foreign or unresolved
// relative to one home country.
type Validator struct {
	geocoder Geocoder
	home     string
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates a Validator. timeout bounds each geocoder call; zero disables it.
func New(g Geocoder, homeCountry string, timeout time.Duration, logger *zap.Logger) *Validator {
	home := strings.ToUpper(strings.TrimSpace(homeCountry))
	if home == "" {
		home = DefaultHomeCountry
	}
	return &Validator{geocoder: g, home: home, timeout: timeout, logger: logger}
}

// HomeCountry returns the configured ISO 3166-1 alpha-2 code.
func (v *Validator) HomeCountry() string { return v.home }

// Resolve never fails: geocoder errors, timeouts and incomplete answers all
// come back as Unresolved so callers fall back to text matching.
func (v *Validator) Resolve(ctx context.Context, city string) geo.Resolution {
	name := strings.TrimSpace(city)
	if name == "" {
		return geo.AbsentCity()
	}

	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	place, err := v.geocoder.Geocode(ctx, name)
	if err != nil {
		v.logger.Warn("Geocoding failed, treating city as unresolved",
			zap.String("city", name),
			zap.Error(err),
		)
		return geo.UnresolvedCity()
	}
	if place == nil || place.CountryCode == "" {
		return geo.UnresolvedCity()
	}

	if !strings.EqualFold(place.CountryCode, v.home) {
		v.logger.Info("City resolved outside home country",
			zap.String("city", name),
			zap.String("country", place.CountryCode),
		)
		return geo.ForeignCity(place.CountryCode)
	}
	return geo.DomesticCity(place.Point, place.CountryCode)
}
