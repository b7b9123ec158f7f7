package collection

import (
	"fmt"
	"regexp"

	"github.com/cabswale/raahi/internal/domain/search/filter"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Collection names.
const (
	NameTrips = "trips"
	NameLeads = "leads"
)

// Schema describes how one record collection is searched: which fields hold
// the pickup and drop city names, which field holds the pickup point, and the
// hard filter every query against it carries.
type Schema struct {
	name        string
	pickupField string
	dropField   string
	geoField    string
	hardFilter  filter.Expression
}

// New validates and creates a Schema.
func New(name, pickupField, dropField, geoField string, hardFilter filter.Expression) (Schema, error) {
	if name == "" {
		return Schema{}, fmt.Errorf("collection name is required")
	}
	if len(name) > 64 || !nameRegex.MatchString(name) {
		return Schema{}, fmt.Errorf("collection name must be alphanumeric with underscores and hyphens")
	}
	if pickupField == "" || dropField == "" {
		return Schema{}, fmt.Errorf("pickup and drop city fields are required")
	}
	if pickupField == dropField {
		return Schema{}, fmt.Errorf("pickup and drop city fields must differ")
	}
	if geoField == "" {
		return Schema{}, fmt.Errorf("geo field is required")
	}
	return Schema{
		name:        name,
		pickupField: pickupField,
		dropField:   dropField,
		geoField:    geoField,
		hardFilter:  hardFilter,
	}, nil
}

// Trips excludes postings from customers already onboarded as partners.
func Trips() Schema {
	notPartner := mustCondition(filter.NewMatch("customerIsOnboardedAsPartner", "false"))
	return mustSchema(New(NameTrips,
		"customerPickupLocationCity", "customerDropLocationCity",
		"customerPickupLocationCoordinates",
		mustExpression(filter.NewExpression([]filter.Condition{notPartner}, nil, nil)),
	))
}

// Leads excludes leads still pending approval.
func Leads() Schema {
	pending := mustCondition(filter.NewMatch("status", "pending"))
	return mustSchema(New(NameLeads,
		"fromTxt", "toTxt",
		"location",
		mustExpression(filter.NewExpression(nil, nil, []filter.Condition{pending})),
	))
}

// Name returns the collection name.
func (s Schema) Name() string { return s.name }

// PickupField returns the text field holding the pickup city.
func (s Schema) PickupField() string { return s.pickupField }

// DropField returns the text field holding the drop city.
func (s Schema) DropField() string { return s.dropField }

// CityFields returns the fields the text stage queries.
func (s Schema) CityFields() []string { return []string{s.pickupField, s.dropField} }

// GeoField returns the geo point field used by the geo stage.
func (s Schema) GeoField() string { return s.geoField }

// HardFilter returns the filter applied to every query on this collection.
func (s Schema) HardFilter() filter.Expression { return s.hardFilter }

func mustCondition(c filter.Condition, err error) filter.Condition {
	if err != nil {
		panic(err)
	}
	return c
}

func mustExpression(e filter.Expression, err error) filter.Expression {
	if err != nil {
		panic(err)
	}
	return e
}

func mustSchema(s Schema, err error) Schema {
	if err != nil {
		panic(err)
	}
	return s
}
