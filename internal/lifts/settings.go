package lifts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/2beens/gymdash/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultBodyweight  = 65.0
	settingsRedisKey   = "gymdash::settings"
	settingsFileFormat = "  "
)

type Settings struct {
	Bodyweight float64 `json:"bodyweight"`
}

func DefaultSettings() Settings {
	return Settings{Bodyweight: DefaultBodyweight}
}

// FileSettingsStore keeps the settings as a small JSON file.
type FileSettingsStore struct {
	mu   sync.RWMutex
	path string
}

func NewFileSettingsStore(path string) *FileSettingsStore {
	return &FileSettingsStore{path: path}
}

func (s *FileSettingsStore) Get(ctx context.Context) (_ Settings, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "settings.file.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	settingsBytes, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(settingsBytes, &settings); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return settings, nil
}

func (s *FileSettingsStore) Save(ctx context.Context, settings Settings) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "settings.file.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	settingsBytes, err := json.MarshalIndent(settings, "", settingsFileFormat)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := os.WriteFile(s.path, settingsBytes, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// RedisSettingsStore keeps the settings in a single redis key.
type RedisSettingsStore struct {
	rdb redis.Cmdable
}

func NewRedisSettingsStore(rdb redis.Cmdable) *RedisSettingsStore {
	return &RedisSettingsStore{rdb: rdb}
}

func (s *RedisSettingsStore) Get(ctx context.Context) (_ Settings, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "settings.redis.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	val, err := s.rdb.Get(ctx, settingsRedisKey).Result()
	if errors.Is(err, redis.Nil) {
		log.Tracef("settings not found in redis, using defaults")
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("redis get settings: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal([]byte(val), &settings); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return settings, nil
}

func (s *RedisSettingsStore) Save(ctx context.Context, settings Settings) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "settings.redis.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	settingsBytes, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.rdb.Set(ctx, settingsRedisKey, string(settingsBytes), 0).Err(); err != nil {
		return fmt.Errorf("redis set settings: %w", err)
	}
	return nil
}
