package assistant

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cabswale/raahi/internal/domain"
	domassistant "github.com/cabswale/raahi/internal/domain/assistant"
	"github.com/cabswale/raahi/internal/domain/collection"
	"github.com/cabswale/raahi/internal/domain/geo"
	"github.com/cabswale/raahi/internal/domain/intent"
	"github.com/cabswale/raahi/internal/domain/record"
	"github.com/cabswale/raahi/internal/domain/search/request"
	"github.com/cabswale/raahi/internal/logger"
	"github.com/cabswale/raahi/internal/metrics"
)

// Search log outcomes.
const (
	outcomeOK         = "ok"
	outcomeNoResults  = "no_results"
	outcomeOutOfArea  = "out_of_area"
	defaultEventLimit = 5 * time.Second
)

// Service runs one assistant turn: entry handling, classification,
// country validation, duty search and response assembly.
type Service struct {
	classifier Classifier
	resolver   Resolver
	searcher   Searcher
	audio      AudioCatalog
	fraud      FraudLookup
	analytics  AnalyticsLogger

	trips    collection.Schema
	leads    collection.Schema
	radiusKm float64
	limit    int

	eventTimeout time.Duration
	events       sync.WaitGroup
	newID        func() string
	now          func() time.Time
	logger       *zap.Logger
}

// New creates a Service with the trips and leads schemas and default search limits.
func New(classifier Classifier, resolver Resolver, searcher Searcher, catalog AudioCatalog, logger *zap.Logger) *Service {
	return &Service{
		classifier:   classifier,
		resolver:     resolver,
		searcher:     searcher,
		audio:        catalog,
		trips:        collection.Trips(),
		leads:        collection.Leads(),
		radiusKm:     request.DefaultRadius,
		limit:        request.DefaultLimit,
		eventTimeout: defaultEventLimit,
		newID:        uuid.NewString,
		now:          time.Now,
		logger:       logger,
	}
}

// WithFraudLookup enables phone number rating for fraud questions.
func (s *Service) WithFraudLookup(f FraudLookup) *Service {
	s.fraud = f
	return s
}

// WithAnalytics enables fire-and-forget event logging. timeout bounds each event.
func (s *Service) WithAnalytics(a AnalyticsLogger, timeout time.Duration) *Service {
	s.analytics = a
	if timeout > 0 {
		s.eventTimeout = timeout
	}
	return s
}

// WithSearchLimits overrides the geo radius and per-stage result cap.
func (s *Service) WithSearchLimits(radiusKm float64, limit int) *Service {
	if radiusKm > 0 {
		s.radiusKm = radiusKm
	}
	if limit > 0 {
		s.limit = limit
	}
	return s
}

// Handle processes one turn. The only error it returns wraps domain.ErrInternal;
// degraded collaborators (geocoder, one search stage, fraud, analytics) never fail a turn.
func (s *Service) Handle(ctx context.Context, q domassistant.Query) (out domassistant.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error("Assistant pipeline panicked",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			out, err = domassistant.Outcome{}, fmt.Errorf("assistant: panic: %v: %w", r, domain.ErrInternal)
		}
		if err == nil {
			metrics.AssistantOutcomesTotal.WithLabelValues(string(out.Response.Intent)).Inc()
		}
	}()

	sessionID := q.SessionID
	if sessionID == "" {
		sessionID = s.newID()
	}

	switch q.ChipClick {
	case domassistant.ChipFind:
		return s.chip(sessionID, domassistant.AudioFindChip), nil
	case domassistant.ChipTools:
		return s.chip(sessionID, domassistant.AudioToolsChip), nil
	}

	if strings.TrimSpace(q.Text) == "" {
		return s.entry(sessionID, q.InteractionCount, q.IsHome, q.RequestCount), nil
	}

	res := s.classifier.Classify(ctx, intent.Utterance{
		Text:      q.Text,
		Profile:   q.Profile,
		Location:  q.Location,
		SessionID: sessionID,
	})
	s.logIntent(ctx, q, sessionID, res)

	switch res.Intent() {
	case intent.GetDuties:
		return s.duties(ctx, q, sessionID, res)
	case intent.Fraud:
		return s.fraudCheck(ctx, q, sessionID, res), nil
	default:
		return domassistant.Outcome{
			Response: domassistant.Response{
				SessionID: sessionID,
				Intent:    res.Intent(),
				UIAction:  res.UIAction(),
				Data:      emptyPayload(res.Intent()),
				AudioURL:  s.audio.URL(res.Intent(), q.InteractionCount, q.IsHome, 0),
			},
			SpeechText: res.ResponseText(),
		}, nil
	}
}

// Answer classifies an utterance without running the duty pipeline.
func (s *Service) Answer(ctx context.Context, u intent.Utterance) intent.Result {
	return s.classifier.Classify(ctx, u)
}

// ClearSession drops a session's conversation history.
func (s *Service) ClearSession(id string) {
	s.classifier.ClearSession(id)
}

// Wait blocks until pending analytics events are delivered or time out.
func (s *Service) Wait() {
	s.events.Wait()
}

func (s *Service) chip(sessionID, key string) domassistant.Outcome {
	return domassistant.Outcome{Response: domassistant.Response{
		SessionID: sessionID,
		Intent:    intent.Generic,
		UIAction:  intent.ActionNone,
		AudioURL:  s.audio.Direct(key),
	}}
}

func (s *Service) entry(sessionID string, interactionCount int, isHome bool, requestCount int) domassistant.Outcome {
	return domassistant.Outcome{Response: domassistant.Response{
		SessionID: sessionID,
		Intent:    intent.Entry,
		UIAction:  intent.ActionEntry,
		AudioURL:  s.audio.URL(intent.Entry, interactionCount, isHome, requestCount),
	}}
}

func (s *Service) ended(sessionID, audioKey string, data map[string]any) domassistant.Outcome {
	return domassistant.Outcome{Response: domassistant.Response{
		SessionID: sessionID,
		Intent:    intent.End,
		UIAction:  intent.ActionShowEnd,
		Data:      data,
		AudioURL:  s.audio.Direct(audioKey),
	}}
}

func (s *Service) duties(
	ctx context.Context, q domassistant.Query, sessionID string, res intent.Result,
) (domassistant.Outcome, error) {
	pickupCity, dropCity := clampCity(res.Params().FromCity), clampCity(res.Params().ToCity)
	if pickupCity == "" && dropCity == "" {
		s.logger.Info("Duty search without cities, returning entry",
			zap.String("driver_id", q.Profile.ID),
		)
		return s.entry(sessionID, q.InteractionCount, q.IsHome, 0), nil
	}

	pickup, drop, err := s.validate(ctx, pickupCity, dropCity)
	if err != nil {
		return domassistant.Outcome{}, err
	}

	pickupPoint, usedGeo := pickup.Point()
	event := domassistant.SearchEvent{
		DriverID:   q.Profile.ID,
		SessionID:  sessionID,
		PickupCity: pickupCity,
		DropCity:   dropCity,
		UsedGeo:    usedGeo,
	}

	if pickup.IsForeign() || drop.IsForeign() {
		s.logger.Info("Duty search outside home country",
			zap.String("pickup_city", pickupCity),
			zap.String("pickup_country", pickup.Country()),
			zap.String("drop_city", dropCity),
			zap.String("drop_country", drop.Country()),
		)
		event.Outcome = outcomeOutOfArea
		s.logSearch(ctx, event)
		return s.ended(sessionID, domassistant.AudioIndiaOnly, nil), nil
	}

	var center *geo.Point
	if usedGeo {
		center = &pickupPoint
	}
	req, err := request.New(pickupCity, dropCity, center, s.radiusKm, s.limit)
	if err != nil {
		return domassistant.Outcome{}, fmt.Errorf("assistant: build search request: %v: %w", err, domain.ErrInternal)
	}

	trips, leads := s.searchBoth(ctx, req)
	event.TripsCount, event.LeadsCount = len(trips), len(leads)

	s.logger.Info("Duty search finished",
		zap.String("pickup_city", pickupCity),
		zap.String("drop_city", dropCity),
		zap.Bool("used_geo", usedGeo),
		zap.Int("trips", len(trips)),
		zap.Int("leads", len(leads)),
	)

	if len(trips) == 0 && len(leads) == 0 {
		event.Outcome = outcomeNoResults
		s.logSearch(ctx, event)
		return s.ended(sessionID, domassistant.AudioNoDuty, map[string]any{
			"query": map[string]any{"pickup_city": nullable(pickupCity), "drop_city": nullable(dropCity)},
		}), nil
	}

	event.Outcome = outcomeOK
	s.logSearch(ctx, event)

	audioURL := s.audio.URL(intent.GetDuties, q.InteractionCount, q.IsHome, 0)
	// Exactly one city given.
	if (pickupCity == "") != (dropCity == "") {
		if u := s.audio.Direct(domassistant.AudioDutiesNoPickupDrop); u != "" {
			audioURL = u
		}
	}

	return domassistant.Outcome{
		Response: domassistant.Response{
			SessionID: sessionID,
			Intent:    intent.GetDuties,
			UIAction:  res.UIAction(),
			Query:     &domassistant.DutyQuery{PickupCity: pickupCity, DropCity: dropCity, UsedGeo: usedGeo},
			Counts:    &domassistant.Counts{Trips: len(trips), Leads: len(leads)},
			Data:      map[string]any{"trips": trips, "leads": leads},
			AudioURL:  audioURL,
		},
		SpeechText: res.ResponseText(),
	}, nil
}

// validate resolves both cities concurrently. A drop city of "any" is not a place.
func (s *Service) validate(ctx context.Context, pickupCity, dropCity string) (pickup, drop geo.Resolution, err error) {
	pickup, drop = geo.AbsentCity(), geo.AbsentCity()
	if strings.EqualFold(dropCity, request.AnyDropCity) {
		dropCity = ""
	}

	var g errgroup.Group
	g.Go(func() error {
		return guard("validate pickup", func() { pickup = s.resolver.Resolve(ctx, pickupCity) })
	})
	g.Go(func() error {
		return guard("validate drop", func() { drop = s.resolver.Resolve(ctx, dropCity) })
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("City validation failed", zap.Error(err))
		return pickup, drop, err
	}
	return pickup, drop, nil
}

// searchBoth queries trips and leads concurrently. A failing collection contributes nothing.
func (s *Service) searchBoth(ctx context.Context, req request.Request) (trips, leads []record.Record) {
	trips, leads = []record.Record{}, []record.Record{}

	var wg sync.WaitGroup
	run := func(schema collection.Schema, dst *[]record.Record) {
		defer wg.Done()
		err := guard("search "+schema.Name(), func() {
			if recs := s.searcher.Search(ctx, schema, req).Records; recs != nil {
				*dst = recs
			}
		})
		if err != nil {
			s.logger.Error("Collection search failed, treating as empty",
				zap.String("collection", schema.Name()),
				zap.Error(err),
			)
		}
	}

	wg.Add(2)
	go run(s.trips, &trips)
	go run(s.leads, &leads)
	wg.Wait()
	return trips, leads
}

func (s *Service) fraudCheck(ctx context.Context, q domassistant.Query, sessionID string, res intent.Result) domassistant.Outcome {
	out := domassistant.Outcome{
		Response: domassistant.Response{
			SessionID: sessionID,
			Intent:    intent.Fraud,
			UIAction:  res.UIAction(),
			Data:      map[string]any{},
			AudioURL:  s.audio.URL(intent.Fraud, q.InteractionCount, q.IsHome, 0),
		},
		SpeechText: res.ResponseText(),
	}
	if q.PhoneNo == "" || s.fraud == nil {
		return out
	}

	rating, data := s.fraud.Lookup(ctx, q.PhoneNo)
	if rating == "" || data == nil {
		s.logger.Warn("Fraud check returned nothing", zap.String("driver_id", q.Profile.ID))
		return out
	}

	out.Response.Intent = intent.FraudCheckFound
	out.Response.UIAction = intent.ActionShowFraudResult
	out.Response.Data = data
	out.Response.AudioURL = s.audio.URL(intent.FraudCheckFound, q.InteractionCount, q.IsHome, 0)
	if u := s.audio.Direct(rating); u != "" {
		out.Response.AudioURL = u
	}
	s.logger.Info("Fraud check answered", zap.String("rating", rating))
	return out
}

func (s *Service) logIntent(ctx context.Context, q domassistant.Query, sessionID string, res intent.Result) {
	if s.analytics == nil {
		return
	}
	e := domassistant.IntentEvent{
		DriverID:         q.Profile.ID,
		Intent:           string(res.Intent()),
		InteractionCount: q.InteractionCount,
		SessionID:        sessionID,
		QueryText:        q.Text,
		CreatedAt:        s.now(),
	}
	if res.Intent() == intent.GetDuties {
		if pickup := res.Params().FromCity; pickup != "" {
			e.PickupCity = &pickup
		}
		if drop := res.Params().ToCity; drop != "" {
			e.DropCity = &drop
		}
	}
	s.emit(ctx, func(ctx context.Context) { s.analytics.LogIntent(ctx, e) })
}

func (s *Service) logSearch(ctx context.Context, e domassistant.SearchEvent) {
	if s.analytics == nil {
		return
	}
	e.CreatedAt = s.now()
	s.emit(ctx, func(ctx context.Context) { s.analytics.LogSearch(ctx, e) })
}

// emit runs fn in the background, detached from the request's cancellation.
func (s *Service) emit(ctx context.Context, fn func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.eventTimeout)
	s.events.Add(1)
	go func() {
		defer s.events.Done()
		defer cancel()
		if err := guard("analytics", func() { fn(ctx) }); err != nil {
			s.logger.Warn("Analytics event dropped", zap.Error(err))
		}
	}()
}

// guard converts a panic in fn into an error wrapping domain.ErrInternal.
func guard(op string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v: %w", op, r, domain.ErrInternal)
		}
	}()
	fn()
	return nil
}

// clampCity cuts an extracted city to request.MaxCityLength bytes on a rune boundary.
func clampCity(city string) string {
	if len(city) <= request.MaxCityLength {
		return city
	}
	cut := request.MaxCityLength
	for cut > 0 && !utf8.RuneStart(city[cut]) {
		cut--
	}
	return strings.TrimSpace(city[:cut])
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
