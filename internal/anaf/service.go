package anaf

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"metalshop/internal/metrics"
)

// Lookuper fetches a company by validated CUI.
type Lookuper interface {
	Lookup(ctx context.Context, cui string) (Company, error)
}

// Service validates CUIs and caches upstream answers, including "not found".
// Errors are never cached.
type Service struct {
	upstream Lookuper
	cache    *expirable.LRU[string, Company]
	logger   zerolog.Logger
}

func NewService(upstream Lookuper, size int, ttl time.Duration, logger zerolog.Logger) *Service {
	if size <= 0 {
		size = 1024
	}
	return &Service{
		upstream: upstream,
		cache:    expirable.NewLRU[string, Company](size, nil, ttl),
		logger:   logger.With().Str("component", "anaf").Logger(),
	}
}

func (s *Service) Lookup(ctx context.Context, raw string) (Company, error) {
	cui, err := ValidateCUI(raw)
	if err != nil {
		metrics.RecordAnafLookup("invalid")
		return Company{}, err
	}
	if c, ok := s.cache.Get(cui); ok {
		metrics.RecordAnafLookup("cache_hit")
		return c, nil
	}

	c, err := s.upstream.Lookup(ctx, cui)
	if err != nil {
		metrics.RecordAnafLookup("error")
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn().Err(err).Str("cui", cui).Msg("anaf lookup failed")
		}
		return Company{}, err
	}
	s.cache.Add(cui, c)
	if c.Found {
		metrics.RecordAnafLookup("upstream")
	} else {
		metrics.RecordAnafLookup("not_found")
	}
	return c, nil
}
