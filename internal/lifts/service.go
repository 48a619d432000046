package lifts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/2beens/gymdash/internal/telemetry/metrics"
	"github.com/2beens/gymdash/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type SettingsStore interface {
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, settings Settings) error
}

type NewServiceParams struct {
	Repo                  Repo
	Settings              SettingsStore
	MetricsManager        *metrics.Manager
	PredictionCacheSizeMB int
	// seconds; 0 means no expiration
	PredictionCacheExpire int
	// defaults to time.Now
	Now func() time.Time
}

// Service is the workout log as seen by the API: it answers the dashboard
// queries over whatever Repo holds the entries.
type Service struct {
	repo           Repo
	settings       SettingsStore
	metricsManager *metrics.Manager
	cache          *freecache.Cache
	cacheExpire    int
	writes         atomic.Uint64
	now            func() time.Time
}

func NewService(params NewServiceParams) *Service {
	megabyte := 1024 * 1024
	cacheSize := params.PredictionCacheSizeMB * megabyte
	if cacheSize <= 0 {
		cacheSize = 10 * megabyte
	}

	now := params.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		repo:           params.Repo,
		settings:       params.Settings,
		metricsManager: params.MetricsManager,
		cache:          freecache.NewCache(cacheSize),
		cacheExpire:    params.PredictionCacheExpire,
		now:            now,
	}
}

func (s *Service) Exercises(ctx context.Context) ([]string, error) {
	entries, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("get entries: %w", err)
	}
	s.metricsManager.GaugeLogEntries.Set(float64(len(entries)))
	return ExerciseNames(entries), nil
}

// Anatomy returns ErrNoData when the log is empty.
func (s *Service) Anatomy(ctx context.Context) (Anatomy, error) {
	entries, err := s.repo.All(ctx)
	if err != nil {
		return Anatomy{}, fmt.Errorf("get entries: %w", err)
	}
	if len(entries) == 0 {
		return Anatomy{}, ErrNoData
	}
	return AnatomyOf(entries), nil
}

func (s *Service) Settings(ctx context.Context) (Settings, error) {
	return s.settings.Get(ctx)
}

func (s *Service) SaveSettings(ctx context.Context, settings Settings) error {
	if settings.Bodyweight <= 0 {
		return ErrInvalidSettings
	}
	if err := s.settings.Save(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *Service) Predict(ctx context.Context, exercise string) (_ *Prediction, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.lifts.predict")
	span.SetAttributes(attribute.String("exercise", exercise))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	today := s.now()
	cacheKey := []byte(s.predictionCacheKey(exercise, settings.Bodyweight, today))
	if cached, err := s.cache.Get(cacheKey); err == nil {
		var prediction Prediction
		if err := json.Unmarshal(cached, &prediction); err == nil {
			s.metricsManager.CounterPredictions.WithLabelValues("hit").Inc()
			return &prediction, nil
		} else {
			log.Errorf("unmarshal cached prediction for %s: %s", exercise, err)
		}
	}
	s.metricsManager.CounterPredictions.WithLabelValues("miss").Inc()

	entries, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("get entries: %w", err)
	}

	prediction, err := Predict(entries, exercise, settings.Bodyweight, today)
	if err != nil {
		return nil, err
	}

	if predictionBytes, err := json.Marshal(prediction); err == nil {
		if err := s.cache.Set(cacheKey, predictionBytes, s.cacheExpire); err != nil {
			log.Errorf("set prediction cache for %s: %s", exercise, err)
		}
	}

	return prediction, nil
}

// a prediction is only valid for the log it was made from, on the day it
// was made, with the bodyweight used for the rank
func (s *Service) predictionCacheKey(exercise string, bodyweight float64, today time.Time) string {
	var repoVersion uint64
	if v, ok := s.repo.(versioned); ok {
		repoVersion = v.Version()
	}
	return fmt.Sprintf(
		"predict::%s::%d::%d::%s::%g",
		exercise, repoVersion, s.writes.Load(), today.Format(seriesDateFmt), bodyweight,
	)
}

// AddEntry logs one set and returns it with the derived fields filled in.
func (s *Service) AddEntry(ctx context.Context, date time.Time, exercise string, weight float64, reps int) (Entry, error) {
	exercise = strings.TrimSpace(exercise)
	if exercise == "" || date.IsZero() || weight <= 0 || reps <= 0 {
		return Entry{}, ErrInvalidEntry
	}

	entry := NewEntry(date, exercise, weight, reps)
	if err := s.repo.Add(ctx, entry); err != nil {
		return Entry{}, fmt.Errorf("add entry: %w", err)
	}
	s.writes.Add(1)
	s.metricsManager.CounterEntriesAdded.Inc()

	log.Debugf("entry added: %s %gx%d", entry.Exercise, entry.Weight, entry.Reps)
	return entry, nil
}

// ImportCSV replaces the whole log with the clean form of the uploaded CSV.
// It returns ErrInvalidCSV when nothing usable is left after cleaning.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (_ int, err error) {
	defer func() {
		result := "ok"
		if errors.Is(err, ErrInvalidCSV) {
			result = "invalid"
		} else if err != nil {
			result = "error"
		}
		s.metricsManager.CounterUploads.WithLabelValues(result).Inc()
	}()

	entries, err := ParseCSV(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCSV, err)
	}
	if len(entries) == 0 {
		return 0, ErrInvalidCSV
	}

	if err := s.repo.Replace(ctx, entries); err != nil {
		return 0, fmt.Errorf("replace entries: %w", err)
	}
	s.writes.Add(1)
	s.metricsManager.GaugeLogEntries.Set(float64(len(entries)))

	log.Infof("workout log replaced with %d entries", len(entries))
	return len(entries), nil
}
