package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/job-board/internal/repository"
)

const (
	statsCacheKey = "admin:stats"
	statsCacheTTL = 30 * time.Second
)

// Stats holds the admin dashboard counters.
type Stats struct {
	Jobs  int64 `json:"jobs"`
	Users int64 `json:"users"`
	Apps  int64 `json:"apps"`
}

// StatsService aggregates store counts for the admin dashboard, with a
// short-lived Redis cache in front of the counting queries.
type StatsService struct {
	users  repository.UserRepository
	jobs   repository.JobRepository
	apps   repository.ApplicationRepository
	cache  *redis.Client
	logger *zap.Logger
}

// NewStatsService builds the service; cache may be nil.
func NewStatsService(users repository.UserRepository, jobs repository.JobRepository, apps repository.ApplicationRepository, cache *redis.Client, logger *zap.Logger) *StatsService {
	return &StatsService{users: users, jobs: jobs, apps: apps, cache: cache, logger: logger}
}

// Collect returns current counters, served from cache when fresh.
func (s *StatsService) Collect(ctx context.Context) (Stats, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var cached Stats
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var stats Stats
	var err error
	if stats.Users, err = s.users.Count(ctx); err != nil {
		return Stats{}, err
	}
	if stats.Jobs, err = s.jobs.Count(ctx); err != nil {
		return Stats{}, err
	}
	if stats.Apps, err = s.apps.Count(ctx); err != nil {
		return Stats{}, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, raw, statsCacheTTL).Err(); err != nil {
				s.logger.Debug("stats cache write failed", zap.Error(err))
			}
		}
	}
	return stats, nil
}
