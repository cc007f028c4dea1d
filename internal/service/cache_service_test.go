package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/edu-admin-api/pkg/errors"
)

type mockCacheRepo struct {
	store map[string][]byte
	ttls  map[string]time.Duration
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{store: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = raw
	m.ttls[key] = ttl
	return nil
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMockCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	require.NoError(t, svc.Set(context.Background(), "k1", map[string]string{"name": "Databases"}, 0))
	assert.Equal(t, time.Minute, repo.ttls["k1"])

	var out map[string]string
	hit, err := svc.Get(context.Background(), "k1", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Databases", out["name"])
}

func TestCacheServiceMissIsNotAnError(t *testing.T) {
	svc := NewCacheService(newMockCacheRepo(), nil, time.Minute, nil, true)

	var out map[string]string
	hit, err := svc.Get(context.Background(), "absent", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServiceDisabledSkipsRepo(t *testing.T) {
	repo := newMockCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, nil, false)

	require.NoError(t, svc.Set(context.Background(), "k1", "value", time.Minute))
	assert.Empty(t, repo.store)

	var out string
	hit, err := svc.Get(context.Background(), "k1", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, svc.Enabled())
}
