package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Siddarth2230/kiters/internal/models"
	"github.com/Siddarth2230/kiters/internal/repository"
	"github.com/Siddarth2230/kiters/pkg/cache"
	"github.com/Siddarth2230/kiters/pkg/eid"
	"github.com/Siddarth2230/kiters/pkg/metrics"
)

var (
	ErrInvalidPrefix = errors.New("invalid prefix")
	ErrInvalidID     = errors.New("invalid external id")
	ErrNotFound      = errors.New("external id not found")
	ErrStoreDisabled = errors.New("external id store is not configured")
	ErrGenExhausted  = errors.New("failed to generate unique external id after retries")
)

// ExternalIDKeyPrefix namespaces external ID records in Redis.
const ExternalIDKeyPrefix = "kiters:eid:"

const (
	maxCreateAttempts = 3
	defaultListLimit  = 50
	maxListLimit      = 500
)

// Store persists external IDs. *repository.ExternalIDRepository is the
// production implementation.
type Store interface {
	Save(ctx context.Context, rec *models.ExternalIDRecord) error
	FindByEID(ctx context.Context, eid string) (*models.ExternalIDRecord, error)
	ExistsByEID(ctx context.Context, eid string) (bool, error)
	ListByPrefix(ctx context.Context, prefix string, limit int) ([]models.ExternalIDRecord, error)
	DeleteByEID(ctx context.Context, eid string) error
}

// ExternalIDService creates and resolves external IDs. Lookups go through
// an in-process LRU (l1), then Redis (l2) when configured, then the store.
// Without a store, created IDs live only in the LRU.
type ExternalIDService struct {
	store  Store
	l1     *cache.LRU[models.ExternalIDRecord]
	l2     *cache.RedisCache
	logger *slog.Logger
	now    func() time.Time
}

// NewExternalIDService wires the service. store and l2 may be nil.
func NewExternalIDService(store Store, l2 *cache.RedisCache, cacheSize int, logger *slog.Logger) *ExternalIDService {
	return &ExternalIDService{
		store:  store,
		l1:     cache.NewLRU[models.ExternalIDRecord](cacheSize),
		l2:     l2,
		logger: logger,
		now:    time.Now,
	}
}

// Persistent reports whether created IDs are written to a store.
func (s *ExternalIDService) Persistent() bool {
	return s.store != nil
}

// Create generates a new ID under prefix and stores it.
func (s *ExternalIDService) Create(ctx context.Context, prefix string) (*models.ExternalIDRecord, error) {
	if err := eid.ValidatePrefix(prefix); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrefix, err)
	}

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		id := eid.New(prefix)
		rec := &models.ExternalIDRecord{
			EID:       id.String(),
			Prefix:    prefix,
			UUID:      id.UUID().String(),
			CreatedAt: s.now().UTC().Truncate(time.Second),
		}

		if s.store != nil {
			if err := s.store.Save(ctx, rec); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					s.logger.WarnContext(ctx, "external id collision, retrying", "eid", rec.EID, "attempt", attempt)
					continue
				}
				return nil, err
			}
		}

		s.remember(rec)
		metrics.ExternalIDsCreated.WithLabelValues(strconv.FormatBool(s.store != nil)).Inc()
		s.logger.InfoContext(ctx, "external id created", "eid", rec.EID)
		return rec, nil
	}
	return nil, ErrGenExhausted
}

// Lookup resolves an ID previously returned by Create.
func (s *ExternalIDService) Lookup(ctx context.Context, key string) (*models.ExternalIDRecord, error) {
	if _, err := eid.Parse(key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}

	if rec, ok := s.l1.Get(key); ok {
		metrics.CacheHits.WithLabelValues("l1").Inc()
		return &rec, nil
	}
	metrics.CacheMisses.WithLabelValues("l1").Inc()

	if s.l2 != nil {
		var rec models.ExternalIDRecord
		switch err := s.l2.Get(ctx, key, &rec); {
		case err == nil:
			metrics.CacheHits.WithLabelValues("l2").Inc()
			s.l1.Put(key, rec)
			return &rec, nil
		case errors.Is(err, cache.ErrCacheMiss):
			metrics.CacheMisses.WithLabelValues("l2").Inc()
		default:
			// a broken cache must not fail the lookup
			s.logger.WarnContext(ctx, "redis get failed", "eid", key, "error", err)
		}
	}

	if s.store == nil {
		return nil, ErrNotFound
	}
	rec, err := s.store.FindByEID(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	s.remember(rec)
	if s.l2 != nil {
		if err := s.l2.Set(ctx, key, rec); err != nil {
			s.logger.WarnContext(ctx, "redis set failed", "eid", key, "error", err)
		}
	}
	return rec, nil
}

// Exists reports whether key is known without promoting it in the caches.
func (s *ExternalIDService) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := eid.Parse(key); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	if _, ok := s.l1.Peek(key); ok {
		return true, nil
	}
	if s.l2 != nil {
		ok, err := s.l2.Exists(ctx, key)
		if err != nil {
			s.logger.WarnContext(ctx, "redis exists failed", "eid", key, "error", err)
		} else if ok {
			return true, nil
		}
	}
	if s.store == nil {
		return false, nil
	}
	return s.store.ExistsByEID(ctx, key)
}

// List returns the newest IDs for prefix. limit <= 0 selects the default.
func (s *ExternalIDService) List(ctx context.Context, prefix string, limit int) ([]models.ExternalIDRecord, error) {
	if s.store == nil {
		return nil, ErrStoreDisabled
	}
	if err := eid.ValidatePrefix(prefix); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrefix, err)
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.store.ListByPrefix(ctx, prefix, limit)
}

// Delete removes key from the store and both caches.
func (s *ExternalIDService) Delete(ctx context.Context, key string) error {
	if _, err := eid.Parse(key); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	if s.store == nil {
		return ErrStoreDisabled
	}
	if err := s.store.DeleteByEID(ctx, key); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.l1.Delete(key)
	metrics.CacheSize.WithLabelValues("l1").Set(float64(s.l1.Len()))
	if s.l2 != nil {
		if err := s.l2.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "redis delete failed", "eid", key, "error", err)
		}
	}
	return nil
}

func (s *ExternalIDService) remember(rec *models.ExternalIDRecord) {
	s.l1.Put(rec.EID, *rec)
	metrics.CacheSize.WithLabelValues("l1").Set(float64(s.l1.Len()))
}
