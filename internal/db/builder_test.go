package db

import (
	"errors"
	"strings"
	"testing"
)

func TestIndexBuilder_Simple(t *testing.T) {
	idx := NewIndex("test-idx").
		Prefix("doc:").
		Tag("status").
		Numeric("createdAt").
		MustBuild()

	if err := idx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Name != "test-idx" {
		t.Errorf("name = %q, want test-idx", idx.Name)
	}
	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	if idx.Fields[0].Name != "status" || idx.Fields[0].Type != IndexFieldTag {
		t.Errorf("field[0] = %+v, want status TAG", idx.Fields[0])
	}
	if idx.Fields[1].Name != "createdAt" || idx.Fields[1].Type != IndexFieldNumeric {
		t.Errorf("field[1] = %+v, want createdAt NUMERIC", idx.Fields[1])
	}
}

func TestIndexBuilder_JSONAliases(t *testing.T) {
	idx := NewIndex("leads").
		OnJSON().
		Prefix("lead:").
		Text("fromTxt").
		Geo("location").
		Numeric("createdAt").Sortable().
		Tag("$.meta.status").
		MustBuild()

	if idx.StorageType != StorageJSON {
		t.Fatalf("storage = %q, want JSON", idx.StorageType)
	}
	f := idx.Fields[0]
	if f.Name != "$.fromTxt" || f.Alias != "fromTxt" || f.Key() != "fromTxt" {
		t.Errorf("field[0] = %+v", f)
	}
	if idx.Fields[1].Type != IndexFieldGeo {
		t.Errorf("field[1] type = %v, want GEO", idx.Fields[1].Type)
	}
	if !idx.Fields[2].Sortable {
		t.Error("createdAt should be sortable")
	}
	// explicit JSON paths are left alone
	if idx.Fields[3].Name != "$.meta.status" || idx.Fields[3].Alias != "" {
		t.Errorf("field[3] = %+v", idx.Fields[3])
	}
}

func TestIndexBuilder_BuildDoesNotMutateBuilder(t *testing.T) {
	b := NewIndex("trips").OnJSON().Text("city")
	first := b.MustBuild()
	second := b.MustBuild()
	if first.Fields[0].Name != "$.city" || second.Fields[0].Name != "$.city" {
		t.Errorf("repeated Build changed names: %q, %q", first.Fields[0].Name, second.Fields[0].Name)
	}
}

func TestIndexBuilder_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		b       *IndexBuilder
		wantErr string
	}{
		{"no name", NewIndex("").Tag("a"), "name is required"},
		{"bad name", NewIndex("bad name").Tag("a"), "invalid characters"},
		{"no fields", NewIndex("idx"), "at least one field"},
		{"duplicate", NewIndex("idx").Tag("a").Text("a"), "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b.Build()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("trips").
		OnJSON().
		Prefix("trip:").
		Text("city").
		Geo("loc").
		Numeric("createdAt").Sortable().
		MustBuild()

	want := "FT.CREATE trips ON JSON PREFIX trip: SCHEMA $.city AS city TEXT $.loc AS loc GEO $.createdAt AS createdAt NUMERIC SORTABLE"
	if got := idx.String(); got != want {
		t.Errorf("String():\ngot:  %s\nwant: %s", got, want)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	for _, s := range []string{"trips", "raahi:leads", "a-b_c"} {
		if !IsValidIdentifier(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []string{"", "a b", "a/b", "a*"} {
		if IsValidIdentifier(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestRecordQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		q       RecordQuery
		wantErr bool
	}{
		{"ok", RecordQuery{Index: "trips", Text: "Delhi", Fields: []string{"city"}, Limit: 10}, false},
		{"no text ok", RecordQuery{Index: "trips", Limit: 10}, false},
		{"no index", RecordQuery{Limit: 10}, true},
		{"text without fields", RecordQuery{Index: "trips", Text: "Delhi", Limit: 10}, true},
		{"zero limit", RecordQuery{Index: "trips"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidQuery) {
				t.Errorf("error %v should wrap ErrInvalidQuery", err)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	err := &Error{Op: OpGet, Err: ErrKeyNotFound}
	if !errors.Is(err, ErrKeyNotFound) {
		t.Error("errors.Is should see through db.Error")
	}
	if err.Error() != "GET: db: key not found" {
		t.Errorf("Error() = %q", err.Error())
	}
}
