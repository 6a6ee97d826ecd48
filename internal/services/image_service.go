package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mroshb/sweatcheck/pkg/errors"
	"github.com/mroshb/sweatcheck/pkg/logger"
	"github.com/mroshb/sweatcheck/pkg/storage"
)

// Image kinds, used as the middle segment of object keys
const (
	ImageKindAvatar  = "avatar"
	ImageKindWorkout = "workout"
)

// ImageService stores user images privately and hands out short-lived links.
type ImageService struct {
	store    storage.ObjectStore
	cache    storage.URLCache // nil disables caching
	cacheTTL time.Duration
}

func NewImageService(store storage.ObjectStore, cache storage.URLCache, cacheTTL time.Duration) *ImageService {
	return &ImageService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Enabled reports whether an object store is configured.
func (s *ImageService) Enabled() bool {
	return s != nil && s.store != nil
}

// Save uploads an image under "{user}/{kind}/{random}" and returns that key.
func (s *ImageService) Save(ctx context.Context, userID uint, kind string, r io.Reader) (string, error) {
	if !s.Enabled() {
		return "", errors.New(errors.ErrCodeValidation, "Image uploads are disabled.")
	}
	if kind != ImageKindAvatar && kind != ImageKindWorkout {
		return "", errors.New(errors.ErrCodeValidation, "Unknown image kind.")
	}

	key := fmt.Sprintf("%d/%s/%s", userID, kind, strings.ReplaceAll(uuid.NewString(), "-", ""))
	if err := s.store.Put(ctx, key, r); err != nil {
		logger.Error("Image upload failed", "user_id", userID, "kind", kind, "error", err)
		return "", errors.Wrap(err, errors.ErrCodeInternalError, "failed to store image")
	}
	return key, nil
}

// SignedURL returns a readable link for key. Links are cached for less than
// their validity so a cached link is never already expired.
func (s *ImageService) SignedURL(ctx context.Context, key string) (string, error) {
	if !s.Enabled() || key == "" {
		return "", nil
	}

	if s.cache != nil {
		if link, ok, err := s.cache.Get(ctx, key); err != nil {
			logger.Warn("Signed url cache read failed", "error", err)
		} else if ok {
			return link, nil
		}
	}

	link, err := s.store.SignedURL(ctx, key)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternalError, "failed to sign image url")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, link, s.cacheTTL); err != nil {
			logger.Warn("Signed url cache write failed", "error", err)
		}
	}
	return link, nil
}

// SignedURLPtr is SignedURL for optional keys. Failures yield an empty link.
func (s *ImageService) SignedURLPtr(ctx context.Context, key *string) string {
	if key == nil {
		return ""
	}
	link, err := s.SignedURL(ctx, *key)
	if err != nil {
		logger.Warn("Could not sign image url", "key", *key, "error", err)
		return ""
	}
	return link
}
