package filter

import (
	"fmt"

	"github.com/cabswale/raahi/internal/domain/geo"
)

// MaxConditionsPerGroup is the maximum number of conditions per filter group.
const MaxConditionsPerGroup = 32

// Expression is a structured filter with must/should/must_not boolean semantics.
type Expression struct {
	must    []Condition
	should  []Condition
	mustNot []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must, should, mustNot []Condition) (Expression, error) {
	if len(must) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(should) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many should conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(mustNot) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must_not conditions (max %d)", MaxConditionsPerGroup)
	}
	return Expression{must: must, should: should, mustNot: mustNot}, nil
}

// Must returns the must conditions.
func (e Expression) Must() []Condition { return e.must }

// Should returns the should conditions.
func (e Expression) Should() []Condition { return e.should }

// MustNot returns the must-not conditions.
func (e Expression) MustNot() []Condition { return e.mustNot }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.should) == 0 && len(e.mustNot) == 0
}

// And returns a copy of e with extra must conditions appended.
func (e Expression) And(conds ...Condition) (Expression, error) {
	must := make([]Condition, 0, len(e.must)+len(conds))
	must = append(must, e.must...)
	must = append(must, conds...)
	return NewExpression(must, e.should, e.mustNot)
}

// Kind discriminates condition types.
type Kind int

// Condition kinds.
const (
	// Exact is whole-value equality on a tag/keyword field.
	Exact Kind = iota
	// Loose is token-level containment on a text field.
	Loose
	// Radius restricts a geo field to a circle.
	Radius
)

// Condition is a single filter clause.
type Condition struct {
	kind   Kind
	key    string
	match  string
	circle Circle
}

// Circle is a geo radius around a center point.
type Circle struct {
	Center   geo.Point
	RadiusKm float64
}

// NewMatch creates an exact match condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{kind: Exact, key: key, match: match}, nil
}

// NewLooseMatch creates a token-level match: the field must contain the
// value's tokens, not equal it.
func NewLooseMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{kind: Loose, key: key, match: match}, nil
}

// NewRadius creates a geo radius condition.
func NewRadius(key string, center geo.Point, radiusKm float64) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if radiusKm <= 0 {
		return Condition{}, fmt.Errorf("radius must be positive for key %q", key)
	}
	return Condition{kind: Radius, key: key, circle: Circle{Center: center, RadiusKm: radiusKm}}, nil
}

// Kind returns the condition kind.
func (c Condition) Kind() Kind { return c.kind }

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the match value for Exact and Loose conditions.
func (c Condition) Match() string { return c.match }

// Circle returns the radius for Radius conditions.
func (c Condition) Circle() Circle { return c.circle }

// IsMatch reports whether this is an exact match condition.
func (c Condition) IsMatch() bool { return c.kind == Exact }

// IsLoose reports whether this is a loose match condition.
func (c Condition) IsLoose() bool { return c.kind == Loose }

// IsRadius reports whether this is a geo radius condition.
func (c Condition) IsRadius() bool { return c.kind == Radius }
