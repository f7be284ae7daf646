package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/mike-rowan/fieldserve-api/config"
)

// ScheduleHoldService reserves a job's slot on the dispatch calendar while
// the job is scheduled, and releases it on cancellation. Holds are advisory;
// both operations are best-effort at their call sites.
type ScheduleHoldService interface {
	PlaceHold(contractorID uint, jobID string, date time.Time) error
	ReleaseHold(contractorID uint, jobID string) error
}

// RedisScheduleHoldService stores holds as Redis keys with a TTL so stale
// holds expire on their own.
type RedisScheduleHoldService struct {
	client *redis.Client
}

var scheduleHoldServiceInstance ScheduleHoldService = &NoopScheduleHoldService{}

// InitScheduleHoldService connects the Redis-backed hold store
func InitScheduleHoldService(cfg *config.Config) (ScheduleHoldService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	scheduleHoldServiceInstance = &RedisScheduleHoldService{client: client}
	return scheduleHoldServiceInstance, nil
}

// GetScheduleHoldService returns the schedule hold service instance
func GetScheduleHoldService() ScheduleHoldService {
	return scheduleHoldServiceInstance
}

// SetScheduleHoldService sets the schedule hold service instance (primarily
// for testing)
func SetScheduleHoldService(service ScheduleHoldService) {
	scheduleHoldServiceInstance = service
}

func holdKey(contractorID uint, jobID string) string {
	return fmt.Sprintf("schedule_hold:%d:%s", contractorID, jobID)
}

// PlaceHold reserves the slot. The hold expires 30 days out as a safety net
// against jobs that are never worked or cancelled.
func (s *RedisScheduleHoldService) PlaceHold(contractorID uint, jobID string, date time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	value := date.Format("2006-01-02")
	if err := s.client.Set(ctx, holdKey(contractorID, jobID), value, 30*24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to place schedule hold: %w", err)
	}
	return nil
}

// ReleaseHold frees the slot
func (s *RedisScheduleHoldService) ReleaseHold(contractorID uint, jobID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.client.Del(ctx, holdKey(contractorID, jobID)).Err(); err != nil {
		return fmt.Errorf("failed to release schedule hold: %w", err)
	}
	return nil
}

// NoopScheduleHoldService ignores holds. Used until Redis is initialized.
type NoopScheduleHoldService struct{}

// PlaceHold does nothing
func (s *NoopScheduleHoldService) PlaceHold(contractorID uint, jobID string, date time.Time) error {
	return nil
}

// ReleaseHold does nothing
func (s *NoopScheduleHoldService) ReleaseHold(contractorID uint, jobID string) error {
	return nil
}
