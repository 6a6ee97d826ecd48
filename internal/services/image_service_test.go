package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/mroshb/sweatcheck/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	objects map[string][]byte
	signed  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (m *memoryStore) Put(ctx context.Context, key string, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = b
	return nil
}

func (m *memoryStore) SignedURL(ctx context.Context, key string) (string, error) {
	m.signed++
	return fmt.Sprintf("https://img.test/%s?sig=%d", key, m.signed), nil
}

type memoryCache struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *memoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.values[key] = value
	c.ttls[key] = ttl
	return nil
}

func TestImageService_Save(t *testing.T) {
	store := newMemoryStore()
	svc := NewImageService(store, nil, time.Minute)
	ctx := context.Background()

	key, err := svc.Save(ctx, 7, ImageKindWorkout, bytes.NewReader([]byte("jpeg")))
	require.NoError(t, err)

	parts := strings.Split(key, "/")
	require.Len(t, parts, 3)
	assert.Equal(t, "7", parts[0])
	assert.Equal(t, ImageKindWorkout, parts[1])
	assert.Len(t, parts[2], 32)
	assert.Equal(t, []byte("jpeg"), store.objects[key])

	other, err := svc.Save(ctx, 7, ImageKindWorkout, bytes.NewReader(nil))
	require.NoError(t, err)
	assert.NotEqual(t, key, other)

	_, err = svc.Save(ctx, 7, "banner", bytes.NewReader(nil))
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))
}

func TestImageService_SignedURLIsCached(t *testing.T) {
	store := newMemoryStore()
	cache := newMemoryCache()
	svc := NewImageService(store, cache, 10*time.Minute)
	ctx := context.Background()

	first, err := svc.SignedURL(ctx, "7/avatar/abc")
	require.NoError(t, err)
	second, err := svc.SignedURL(ctx, "7/avatar/abc")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.signed)
	assert.Equal(t, 10*time.Minute, cache.ttls["7/avatar/abc"])
}

func TestImageService_Disabled(t *testing.T) {
	svc := NewImageService(nil, nil, time.Minute)
	ctx := context.Background()

	assert.False(t, svc.Enabled())

	link, err := svc.SignedURL(ctx, "7/avatar/abc")
	require.NoError(t, err)
	assert.Empty(t, link)

	_, err = svc.Save(ctx, 7, ImageKindAvatar, bytes.NewReader(nil))
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))

	key := "7/avatar/abc"
	assert.Empty(t, svc.SignedURLPtr(ctx, &key))
	assert.Empty(t, svc.SignedURLPtr(ctx, nil))
}
