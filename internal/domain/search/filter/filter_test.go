package filter

import (
	"strings"
	"testing"

	"github.com/cabswale/raahi/internal/domain/geo"
)

func TestNewMatch(t *testing.T) {
	c, err := NewMatch("status", "pending")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsMatch() || c.IsLoose() || c.IsRadius() {
		t.Errorf("kind = %v, want Exact", c.Kind())
	}
	if c.Key() != "status" || c.Match() != "pending" {
		t.Errorf("got key=%q match=%q", c.Key(), c.Match())
	}
}

func TestNewMatch_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		key, match string
		wantErr    string
	}{
		{"empty key", "", "x", "key is required"},
		{"empty match", "status", "", "match value is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMatch(tt.key, tt.match)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
			_, err = NewLooseMatch(tt.key, tt.match)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("loose error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewLooseMatch(t *testing.T) {
	c, err := NewLooseMatch("fromTxt", "Mumbai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsLoose() {
		t.Errorf("kind = %v, want Loose", c.Kind())
	}
}

func TestNewRadius(t *testing.T) {
	p, _ := geo.NewPoint(19.07, 72.87)

	c, err := NewRadius("location", p, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsRadius() {
		t.Errorf("kind = %v, want Radius", c.Kind())
	}
	if c.Circle().RadiusKm != 50 || c.Circle().Center != p {
		t.Errorf("circle = %+v", c.Circle())
	}

	if _, err := NewRadius("location", p, 0); err == nil {
		t.Error("expected error for zero radius")
	}
	if _, err := NewRadius("", p, 10); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestNewExpression_TooMany(t *testing.T) {
	c, _ := NewMatch("k", "v")
	many := make([]Condition, MaxConditionsPerGroup+1)
	for i := range many {
		many[i] = c
	}

	if _, err := NewExpression(many, nil, nil); err == nil {
		t.Error("expected error for too many must")
	}
	if _, err := NewExpression(nil, many, nil); err == nil {
		t.Error("expected error for too many should")
	}
	if _, err := NewExpression(nil, nil, many); err == nil {
		t.Error("expected error for too many must_not")
	}
}

func TestExpression_IsEmpty(t *testing.T) {
	e, _ := NewExpression(nil, nil, nil)
	if !e.IsEmpty() {
		t.Error("expected empty")
	}

	c, _ := NewMatch("status", "pending")
	e, _ = NewExpression(nil, nil, []Condition{c})
	if e.IsEmpty() {
		t.Error("expected non-empty")
	}
}

func TestExpression_And(t *testing.T) {
	hard, _ := NewMatch("status", "pending")
	base, _ := NewExpression(nil, nil, []Condition{hard})

	loose, _ := NewLooseMatch("fromTxt", "Pune")
	got, err := base.And(loose)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Must()) != 1 || len(got.MustNot()) != 1 {
		t.Errorf("must=%d mustNot=%d", len(got.Must()), len(got.MustNot()))
	}
	if len(base.Must()) != 0 {
		t.Error("And mutated the receiver")
	}
}
