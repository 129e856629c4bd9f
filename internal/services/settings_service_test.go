package services

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/pfotenwerk/backoffice/internal/repository"
	"github.com/pfotenwerk/backoffice/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingsService(t *testing.T) (*SettingsService, *miniredis.Miniredis) {
	t.Helper()

	env := newTestEnv(t)
	mr := miniredis.RunT(t)
	client := goredis.NewUniversalClient(&goredis.UniversalOptions{Addrs: []string{mr.Addr()}})
	t.Cleanup(func() { _ = client.Close() })

	cache := redis.NewFromClient(client, "backoffice")
	return NewSettingsService(repository.NewSettingRepository(env.db), cache, time.Minute), mr
}

func TestSettingsService_CachesReads(t *testing.T) {
	svc, mr := newSettingsService(t)

	_, err := svc.Set(t.Context(), model.SettingSetRequest{
		Key:       "school.name",
		Value:     "Pfotenwerk",
		ValueType: model.SettingTypeString,
	})
	require.NoError(t, err)

	got, err := svc.Get(t.Context(), "school.name")
	require.NoError(t, err)
	assert.Equal(t, "Pfotenwerk", got.Value)

	// Second read is served from the cache.
	assert.True(t, mr.Exists("backoffice:settings:school.name"))
}

func TestSettingsService_WriteInvalidatesOnlyItsKey(t *testing.T) {
	svc, mr := newSettingsService(t)

	for _, req := range []model.SettingSetRequest{
		{Key: "booking.cancellation_hours", Value: "24", ValueType: model.SettingTypeInt},
		{Key: "school.name", Value: "Pfotenwerk", ValueType: model.SettingTypeString},
	} {
		_, err := svc.Set(t.Context(), req)
		require.NoError(t, err)
		_, err = svc.Get(t.Context(), req.Key)
		require.NoError(t, err)
	}
	require.True(t, mr.Exists("backoffice:settings:school.name"))

	_, err := svc.Set(t.Context(), model.SettingSetRequest{
		Key:       "booking.cancellation_hours",
		Value:     "48",
		ValueType: model.SettingTypeInt,
	})
	require.NoError(t, err)

	// The untouched key keeps its cache entry; the written key is dropped.
	assert.True(t, mr.Exists("backoffice:settings:school.name"))
	assert.False(t, mr.Exists("backoffice:settings:booking.cancellation_hours"))

	assert.Equal(t, int64(48), svc.Int(t.Context(), "booking.cancellation_hours", 0))
}

func TestSettingsService_TypeCoercion(t *testing.T) {
	svc, _ := newSettingsService(t)

	_, err := svc.Set(t.Context(), model.SettingSetRequest{
		Key:       "notify.enabled",
		Value:     "not-a-bool",
		ValueType: model.SettingTypeBool,
	})
	assert.Error(t, err)

	_, err = svc.Set(t.Context(), model.SettingSetRequest{
		Key:       "notify.enabled",
		Value:     "true",
		ValueType: model.SettingTypeBool,
	})
	require.NoError(t, err)
	assert.True(t, svc.Bool(t.Context(), "notify.enabled", false))

	// Unknown keys fall back to the caller's default.
	assert.Equal(t, int64(15), svc.Int(t.Context(), "missing.key", 15))
}
