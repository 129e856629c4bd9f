package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/repository"
	"github.com/pfotenwerk/backoffice/pkg/logger"
	"github.com/pfotenwerk/backoffice/pkg/redis"
)

const settingCachePrefix = "settings:"

// SettingsService fronts the settings table with a redis cache. Reads hit
// the cache first; writes invalidate exactly the written key, never the
// whole cache.
type SettingsService struct {
	settings *repository.SettingRepository
	cache    redis.RedisAdapter
	ttl      time.Duration
}

func NewSettingsService(settings *repository.SettingRepository, cache redis.RedisAdapter, ttl time.Duration) *SettingsService {
	return &SettingsService{settings: settings, cache: cache, ttl: ttl}
}

func (s *SettingsService) Get(ctx context.Context, key string) (*model.Setting, error) {
	if cached, err := s.cache.Get(settingCachePrefix + key); err == nil {
		var setting model.Setting
		if err := json.Unmarshal(cached, &setting); err == nil {
			return &setting, nil
		}
	}

	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(setting); err == nil {
		if err := s.cache.Set(settingCachePrefix+key, payload, s.ttl); err != nil {
			logger.Warn("[settings] cache write failed", "key", key, "error", err)
		}
	}
	return setting, nil
}

func (s *SettingsService) Set(ctx context.Context, req model.SettingSetRequest) (*model.Setting, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	setting, err := s.settings.Set(ctx, &model.Setting{
		Key:       req.Key,
		Value:     req.Value,
		ValueType: req.ValueType,
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Del(settingCachePrefix + req.Key); err != nil {
		logger.Warn("[settings] cache invalidation failed", "key", req.Key, "error", err)
	}
	return setting, nil
}

func (s *SettingsService) Delete(ctx context.Context, key string) error {
	if err := s.settings.Delete(ctx, key); err != nil {
		return err
	}
	if err := s.cache.Del(settingCachePrefix + key); err != nil {
		logger.Warn("[settings] cache invalidation failed", "key", key, "error", err)
	}
	return nil
}

func (s *SettingsService) List(ctx context.Context) ([]*model.Setting, error) {
	return s.settings.List(ctx)
}

// Int returns a typed setting value with a fallback default.
func (s *SettingsService) Int(ctx context.Context, key string, def int64) int64 {
	setting, err := s.Get(ctx, key)
	if err != nil || setting.ValueType != model.SettingTypeInt {
		return def
	}
	return setting.Int()
}

func (s *SettingsService) Bool(ctx context.Context, key string, def bool) bool {
	setting, err := s.Get(ctx, key)
	if err != nil || setting.ValueType != model.SettingTypeBool {
		return def
	}
	return setting.Bool()
}
