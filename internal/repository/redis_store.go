package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/TWRT/teamwork-tasks/internal/models"
)

// RedisStore keeps the snapshot as two JSON documents. Both keys are written
// in a single MULTI/EXEC so readers never see tasks and members from
// different saves.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

func NewRedisStore(client *redis.Client, prefix string, logger zerolog.Logger) *RedisStore {
	if client == nil {
		panic("repository.NewRedisStore: client is nil")
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		logger: logger.With().Str("store", "redis").Logger(),
	}
}

func (s *RedisStore) tasksKey() string   { return s.prefix + ":tasks" }
func (s *RedisStore) membersKey() string { return s.prefix + ":members" }

func (s *RedisStore) Load(ctx context.Context) ([]models.Task, []models.TeamMember, error) {
	var taskRecords []models.TaskRecord
	if err := s.get(ctx, s.tasksKey(), &taskRecords); err != nil {
		return nil, nil, fmt.Errorf("load tasks: %w", err)
	}
	var memberRecords []models.MemberRecord
	if err := s.get(ctx, s.membersKey(), &memberRecords); err != nil {
		return nil, nil, fmt.Errorf("load team members: %w", err)
	}

	tasks := make([]models.Task, 0, len(taskRecords))
	for _, r := range taskRecords {
		task, err := r.Task()
		if err != nil {
			return nil, nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, task)
	}
	members := make([]models.TeamMember, 0, len(memberRecords))
	for _, r := range memberRecords {
		members = append(members, r.Member())
	}

	s.logger.Debug().
		Int("tasks", len(tasks)).
		Int("members", len(members)).
		Msg("loaded snapshot")
	return tasks, members, nil
}

func (s *RedisStore) get(ctx context.Context, key string, v any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	return sonic.Unmarshal(data, v)
}

func (s *RedisStore) Save(ctx context.Context, tasks []models.Task, members []models.TeamMember) error {
	taskData, err := sonic.Marshal(models.TaskRecords(tasks))
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	memberData, err := sonic.Marshal(models.MemberRecords(members))
	if err != nil {
		return fmt.Errorf("encode team members: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.tasksKey(), taskData, 0)
		pipe.Set(ctx, s.membersKey(), memberData, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	s.logger.Debug().
		Int("tasks", len(tasks)).
		Int("members", len(members)).
		Msg("saved snapshot")
	return nil
}
