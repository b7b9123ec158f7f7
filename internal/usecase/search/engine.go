package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cabswale/raahi/internal/domain/collection"
	"github.com/cabswale/raahi/internal/domain/geo"
	"github.com/cabswale/raahi/internal/domain/record"
	"github.com/cabswale/raahi/internal/domain/search/filter"
	"github.com/cabswale/raahi/internal/domain/search/request"
	"github.com/cabswale/raahi/internal/domain/search/result"
	"github.com/cabswale/raahi/internal/metrics"
)

// Engine runs the text, geocode and geo stages for one collection and
// merges their records. It holds no per-request state.
type Engine struct {
	repo         Repository
	resolver     Resolver
	stageTimeout time.Duration
	logger       *zap.Logger
}

// New creates a search engine. stageTimeout bounds each backend query; zero disables it.
func New(repo Repository, resolver Resolver, stageTimeout time.Duration, logger *zap.Logger) *Engine {
	return &Engine{repo: repo, resolver: resolver, stageTimeout: stageTimeout, logger: logger}
}

// Search never fails: a failing stage is reported as degraded and
// contributes no records.
func (e *Engine) Search(ctx context.Context, schema collection.Schema, req request.Request) result.Outcome {
	out := result.Outcome{
		Text:    result.Skipped(result.StageText),
		Geocode: result.Skipped(result.StageGeocode),
		Geo:     result.Skipped(result.StageGeo),
		Pickup:  geo.AbsentCity(),
	}
	if !req.HasCity() && req.Pickup() == nil {
		e.observe(schema, out.Text, 0)
		e.observe(schema, out.Geocode, 0)
		e.observe(schema, out.Geo, 0)
		return out
	}

	center := req.Pickup()

	// Stage 1 and stage 2 share no data; stage 3 needs stage 2's point.
	var g errgroup.Group
	if req.HasCity() {
		g.Go(func() error {
			out.Text = e.runStage(ctx, schema, result.StageText, func(ctx context.Context) ([]record.Record, error) {
				return e.repo.SearchText(ctx, schema, req.TextQuery(), schema.HardFilter(), req.Limit())
			})
			return nil
		})
	} else {
		e.observe(schema, out.Text, 0)
	}

	if center == nil && req.PickupCity() != "" {
		g.Go(func() error {
			out.Geocode, out.Pickup = e.geocode(ctx, schema, req.PickupCity())
			return nil
		})
	} else {
		e.observe(schema, out.Geocode, 0)
	}
	_ = g.Wait()

	if center == nil {
		if p, ok := out.Pickup.Point(); ok {
			center = &p
		}
	}

	if center != nil {
		pt := *center
		out.Geo = e.runStage(ctx, schema, result.StageGeo, func(ctx context.Context) ([]record.Record, error) {
			filters, err := geoFilters(schema, req, pt)
			if err != nil {
				return nil, err
			}
			return e.repo.SearchNear(ctx, schema, pt, filters, req.Limit())
		})
	} else {
		e.observe(schema, out.Geo, 0)
	}

	merged := result.NewMergedSet()
	fromText := merged.Add(out.Text.Records())
	fromGeo := merged.Add(out.Geo.Records())
	out.Records = merged.Sorted()

	e.logger.Debug("Search merged",
		zap.String("collection", schema.Name()),
		zap.Int("text", fromText),
		zap.Int("geo_new", fromGeo),
		zap.String("geocode", string(out.Geocode.Status())),
	)
	return out
}

// geocode runs stage 2. Only a domestic resolution produces a point; the
// raw resolution is returned for callers that care about foreign cities.
func (e *Engine) geocode(ctx context.Context, schema collection.Schema, city string) (stage result.StageResult, res geo.Resolution) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			stage, res = result.Degraded(result.StageGeocode, fmt.Errorf("panic: %v", r)), geo.UnresolvedCity()
		}
		e.observe(schema, stage, time.Since(start))
	}()

	res = e.resolver.Resolve(ctx, city)
	switch res.Kind() {
	case geo.Domestic:
		return result.OK(result.StageGeocode, nil), res
	case geo.Foreign:
		e.logger.Info("Pickup city outside home country, skipping geo stage",
			zap.String("collection", schema.Name()),
			zap.String("city", city),
			zap.String("country", res.Country()),
		)
		return result.Degraded(result.StageGeocode, fmt.Errorf("city %q is in %s", city, res.Country())), res
	default:
		return result.Degraded(result.StageGeocode, fmt.Errorf("city %q not resolved", city)), res
	}
}

// runStage bounds a backend query with the stage timeout and turns any
// error or panic into a degraded result.
func (e *Engine) runStage(
	ctx context.Context, schema collection.Schema, stage result.Stage,
	query func(ctx context.Context) ([]record.Record, error),
) (res result.StageResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = result.Degraded(stage, fmt.Errorf("panic: %v", r))
		}
		if res.IsDegraded() {
			e.logger.Warn("Search stage degraded",
				zap.String("collection", schema.Name()),
				zap.String("stage", string(stage)),
				zap.Error(res.Reason()),
			)
		}
		e.observe(schema, res, time.Since(start))
	}()

	if e.stageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.stageTimeout)
		defer cancel()
	}

	records, err := query(ctx)
	if err != nil {
		return result.Degraded(stage, err)
	}
	return result.OK(stage, records)
}

func (e *Engine) observe(schema collection.Schema, r result.StageResult, d time.Duration) {
	metrics.SearchStageTotal.WithLabelValues(schema.Name(), string(r.Stage()), string(r.Status())).Inc()
	if r.Status() != result.StatusSkipped {
		metrics.SearchStageDuration.WithLabelValues(schema.Name(), string(r.Stage())).Observe(d.Seconds())
	}
}

// geoFilters combines the hard filter, the radius and loose city filters.
func geoFilters(schema collection.Schema, req request.Request, center geo.Point) (filter.Expression, error) {
	radius, err := filter.NewRadius(schema.GeoField(), center, req.RadiusKm())
	if err != nil {
		return filter.Expression{}, err
	}
	conds := []filter.Condition{radius}
	if city := req.PickupCity(); city != "" {
		c, err := filter.NewLooseMatch(schema.PickupField(), city)
		if err != nil {
			return filter.Expression{}, err
		}
		conds = append(conds, c)
	}
	if city := req.DropCity(); city != "" {
		c, err := filter.NewLooseMatch(schema.DropField(), city)
		if err != nil {
			return filter.Expression{}, err
		}
		conds = append(conds, c)
	}
	return schema.HardFilter().And(conds...)
}
