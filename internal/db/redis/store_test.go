package redis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/cabswale/raahi/internal/db"
	"github.com/cabswale/raahi/internal/domain/geo"
	"github.com/cabswale/raahi/internal/domain/search/filter"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.Ping(context.Background())
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestWaitForReady_Timeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(errors.New("connection refused"))).
		AnyTimes()

	s := NewStoreForTest(c)
	if err := s.WaitForReady(context.Background(), 250*time.Millisecond); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestIsRedisErr(t *testing.T) {
	if !isRedisErr(mock.Result(mock.RedisError("Index already exists")).Error(), "index ALREADY exists") {
		t.Error("expected case-insensitive match")
	}
	if isRedisErr(errors.New("Index already exists"), "index already exists") {
		t.Error("plain errors are not server errors")
	}
}

// --- kv.go tests ---

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "raahi:geo:pune")).
		Return(mock.Result(mock.RedisString(`{"lat":18.52}`)))

	s := NewStoreForTest(c)
	data, err := s.Get(context.Background(), "raahi:geo:pune")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"lat":18.52}` {
		t.Errorf("data = %q", data)
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "missing")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestGet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "k")).
		Return(mock.ErrorResult(errors.New("boom")))

	s := NewStoreForTest(c)
	if _, err := s.Get(context.Background(), "k"); !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestSetWithTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v", "EX", "60")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.SetWithTTL(context.Background(), "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetWithTTL_ZeroMeansNoExpiry(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.SetWithTTL(context.Background(), "k", []byte("v"), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "k", "v")).
		Return(mock.ErrorResult(errors.New("READONLY")))

	s := NewStoreForTest(c)
	if err := s.Set(context.Background(), "k", []byte("v")); !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

// --- index.go tests ---

func tripsIndex() *db.IndexDefinition {
	return db.NewIndex("trips").
		OnJSON().
		Prefix("trip:").
		Text("fromCity").
		Text("toCity").
		Geo("pickupLocation").
		Numeric("createdAt").Sortable().
		MustBuild()
}

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE" && cmd[1] == "trips"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.CreateIndex(context.Background(), tripsIndex()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	err := s.CreateIndex(context.Background(), tripsIndex())
	if !errors.Is(err, db.ErrIndexExists) {
		t.Fatalf("expected ErrIndexExists, got %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	tests := []struct {
		name    string
		reply   rueidis.RedisMessage
		want    bool
		wantErr bool
	}{
		{"exists", mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("trips")), true, false},
		{"unknown", mock.RedisError("Unknown Index name"), false, false},
		{"no such index", mock.RedisError("trips: no such index"), false, false},
		{"other error", mock.RedisError("ERR something"), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)
			c.EXPECT().
				Do(gomock.Any(), mock.Match("FT.INFO", "trips")).
				Return(mock.Result(tt.reply))

			s := NewStoreForTest(c)
			got, err := s.IndexExists(context.Background(), "trips")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("exists = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildCreateArgs(t *testing.T) {
	args, err := buildCreateArgs(tripsIndex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "trips ON JSON PREFIX 1 trip: SCHEMA " +
		"$.fromCity AS fromCity TEXT $.toCity AS toCity TEXT " +
		"$.pickupLocation AS pickupLocation GEO $.createdAt AS createdAt NUMERIC SORTABLE"
	if got := strings.Join(args, " "); got != want {
		t.Errorf("args:\ngot:  %s\nwant: %s", got, want)
	}
}

func TestBuildCreateArgs_Validation(t *testing.T) {
	if _, err := buildCreateArgs(&db.IndexDefinition{Fields: []db.IndexField{{Name: "f"}}}); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := buildCreateArgs(&db.IndexDefinition{Name: "trips"}); err == nil {
		t.Error("expected error for empty fields")
	}
}

func TestBuildFieldArgs_Tag(t *testing.T) {
	args, err := buildFieldArgs(&db.IndexField{
		Name: "status", Type: db.IndexFieldTag, TagSeparator: ",", TagCaseSensitive: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(args, " "); got != "status TAG SEPARATOR , CASESENSITIVE" {
		t.Errorf("args = %q", got)
	}
}

func TestBuildFieldArgs_UnknownType(t *testing.T) {
	if _, err := buildFieldArgs(&db.IndexField{Name: "f", Type: db.IndexFieldType(99)}); err == nil {
		t.Error("expected error for unknown type")
	}
}

// --- search.go tests ---

func mustPoint(t *testing.T, lat, lon float64) geo.Point {
	t.Helper()
	p, err := geo.NewPoint(lat, lon)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestSearchRecords_Text(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var got []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			got = cmd
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("trip:1"),
			mock.RedisArray(mock.RedisString("$"), mock.RedisString(`{"id":"t1","createdAt":1700000000}`)),
			mock.RedisString("trip:2"),
			mock.RedisArray(mock.RedisString("$"), mock.RedisString(`{"id":"t2","createdAt":1600000000}`)),
		)))

	s := NewStoreForTest(c)
	res, err := s.SearchRecords(context.Background(), &db.RecordQuery{
		Index:  "trips",
		Text:   "Delhi Agra",
		Fields: []string{"fromCity", "toCity"},
		Sort:   []db.SortKey{db.ByField("createdAt", true)},
		Limit:  50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 || len(res.Records) != 2 {
		t.Fatalf("total=%d records=%d", res.Total, len(res.Records))
	}
	if res.Records[0].ID() != "t1" {
		t.Errorf("first id = %q, want t1", res.Records[0].ID())
	}

	want := []string{
		"FT.SEARCH", "trips", "@(fromCity|toCity):(%Delhi% %Agra%)",
		"SORTBY", "createdAt", "DESC", "LIMIT", "0", "50", "DIALECT", "2",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("cmd:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestSearchRecords_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "FT.SEARCH" })).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	res, err := s.SearchRecords(context.Background(), &db.RecordQuery{Index: "leads", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 0 {
		t.Errorf("expected no records, got %d", len(res.Records))
	}
}

func TestSearchRecords_GeoUsesAggregate(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var got []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			got = cmd
			return cmd[0] == "FT.AGGREGATE"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisArray(
				mock.RedisString("$"), mock.RedisString(`[{"id":"l1","createdAt":1700000000000}]`),
				mock.RedisString("__dist"), mock.RedisString("1234.5"),
			),
		)))

	center := mustPoint(t, 28.61, 77.2)
	radius, err := filter.NewRadius("location", center, 50)
	if err != nil {
		t.Fatal(err)
	}
	expr, err := filter.NewExpression([]filter.Condition{radius}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	s := NewStoreForTest(c)
	res, err := s.SearchRecords(context.Background(), &db.RecordQuery{
		Index:   "leads",
		Filters: expr,
		Sort: []db.SortKey{
			db.ByDistance("location", center),
			db.ByField("createdAt", true),
		},
		Limit: 50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 1 || res.Records[0].ID() != "l1" {
		t.Fatalf("records = %+v", res.Records)
	}
	if _, ok := res.Records[0]["__dist"]; ok {
		t.Error("distance column should not leak into records")
	}

	joined := strings.Join(got, " ")
	for _, part := range []string{
		"leads @location:[77.2 28.61 50 km]",
		"LOAD 3 $ @location @createdAt",
		"APPLY geodistance(@location, 77.2, 28.61) AS __dist",
		"SORTBY 4 @__dist ASC @createdAt DESC",
		"LIMIT 0 50",
	} {
		if !strings.Contains(joined, part) {
			t.Errorf("command %q missing %q", joined, part)
		}
	}
}

func TestSearchRecords_Invalid(t *testing.T) {
	s := &Store{}
	_, err := s.SearchRecords(context.Background(), &db.RecordQuery{Index: "trips"})
	if !errors.Is(err, db.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestSearchRecords_UnknownIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "FT.SEARCH" })).
		Return(mock.Result(mock.RedisError("trips: no such index")))

	s := NewStoreForTest(c)
	_, err := s.SearchRecords(context.Background(), &db.RecordQuery{Index: "trips", Limit: 5})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestBuildFilter(t *testing.T) {
	exact, _ := filter.NewMatch("status", "open-now")
	loose, _ := filter.NewLooseMatch("toCity", "New Delhi")
	other, _ := filter.NewMatch("status", "closed")

	tests := []struct {
		name string
		expr func() filter.Expression
		want string
	}{
		{"empty", func() filter.Expression { return filter.Expression{} }, ""},
		{"exact", func() filter.Expression {
			e, _ := filter.NewExpression([]filter.Condition{exact}, nil, nil)
			return e
		}, `@status:{open\-now}`},
		{"loose", func() filter.Expression {
			e, _ := filter.NewExpression([]filter.Condition{loose}, nil, nil)
			return e
		}, `@toCity:(New Delhi)`},
		{"should and must not", func() filter.Expression {
			e, _ := filter.NewExpression(nil, []filter.Condition{exact, loose}, []filter.Condition{other})
			return e
		}, `(@status:{open\-now} | @toCity:(New Delhi)) -@status:{closed}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildFilter(tt.expr()); got != tt.want {
				t.Errorf("buildFilter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildFuzzyText_Escapes(t *testing.T) {
	got := buildFuzzyText("St. Mary's", []string{"fromTxt"})
	want := `@fromTxt:(%St\.% %Mary\'s%)`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if buildFuzzyText("   ", []string{"f"}) != "" {
		t.Error("blank text should produce no clause")
	}
}

func TestToRecord_HashFields(t *testing.T) {
	rec, ok := toRecord(map[string]string{"id": "x", "city": "Pune"})
	if !ok || rec["city"] != "Pune" {
		t.Fatalf("rec = %+v, ok = %v", rec, ok)
	}
	if _, ok := toRecord(map[string]string{"$": "not json"}); ok {
		t.Error("malformed JSON should be skipped")
	}
}

func TestToRecord_LargeNumericIDs(t *testing.T) {
	a, ok := toRecord(map[string]string{"$": `{"id":9007199254740993,"createdAt":1700000000}`})
	if !ok {
		t.Fatal("expected record")
	}
	b, _ := toRecord(map[string]string{"$": `[{"id":9007199254740992}]`})
	if a.ID() != "9007199254740993" || b.ID() != "9007199254740992" {
		t.Errorf("ids = %q, %q", a.ID(), b.ID())
	}
	if ts, ok := a.CreatedAt(); !ok || ts != 1700000000 {
		t.Errorf("createdAt = %v, %v", ts, ok)
	}
}

func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
