package repository

import (
	"testing"

	"github.com/pfotenwerk/backoffice/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingRepository_SetUpserts(t *testing.T) {
	db := newTestDB(t)
	repo := NewSettingRepository(db)

	_, err := repo.Set(t.Context(), &model.Setting{
		Key:       "booking.cancellation_hours",
		Value:     "24",
		ValueType: model.SettingTypeInt,
	})
	require.NoError(t, err)

	_, err = repo.Set(t.Context(), &model.Setting{
		Key:       "booking.cancellation_hours",
		Value:     "48",
		ValueType: model.SettingTypeInt,
	})
	require.NoError(t, err)

	got, err := repo.Get(t.Context(), "booking.cancellation_hours")
	require.NoError(t, err)
	assert.Equal(t, "48", got.Value)
	assert.Equal(t, int64(48), got.Int())

	all, err := repo.List(t.Context())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSettingRepository_GetMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewSettingRepository(db)

	_, err := repo.Get(t.Context(), "does.not.exist")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}
