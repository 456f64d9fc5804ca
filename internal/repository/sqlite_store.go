package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/TWRT/teamwork-tasks/internal/models"
)

// SQLiteStore keeps the full task and member snapshot in two tables. Every
// Save replaces both tables inside one transaction.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSQLiteStore(db *sql.DB, logger zerolog.Logger) *SQLiteStore {
	return &SQLiteStore{
		db:     db,
		logger: logger.With().Str("store", "sqlite").Logger(),
	}
}

func (s *SQLiteStore) Load(ctx context.Context) ([]models.Task, []models.TeamMember, error) {
	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return nil, nil, err
	}
	members, err := s.loadMembers(ctx)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Debug().
		Int("tasks", len(tasks)).
		Int("members", len(members)).
		Msg("loaded snapshot")
	return tasks, members, nil
}

func (s *SQLiteStore) loadTasks(ctx context.Context) ([]models.Task, error) {
	const query = `
	SELECT id, title, description, deadline, priority, assigned_to, status, created_at
	FROM tasks
	ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var r models.TaskRecord
		err := rows.Scan(
			&r.ID,
			&r.Title,
			&r.Description,
			&r.Deadline,
			&r.Priority,
			&r.AssignedTo,
			&r.Status,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		task, err := r.Task()
		if err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (s *SQLiteStore) loadMembers(ctx context.Context) ([]models.TeamMember, error) {
	const query = `
	SELECT name, email, workload
	FROM team_members
	ORDER BY position
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select team members: %w", err)
	}
	defer rows.Close()

	var members []models.TeamMember
	for rows.Next() {
		var r models.MemberRecord
		if err := rows.Scan(&r.Name, &r.Email, &r.Workload); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		members = append(members, r.Member())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team members: %w", err)
	}
	return members, nil
}

func (s *SQLiteStore) Save(ctx context.Context, tasks []models.Task, members []models.TeamMember) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM team_members`); err != nil {
		return fmt.Errorf("clear team members: %w", err)
	}

	const insertTask = `
	INSERT INTO tasks (id, title, description, deadline, priority, assigned_to, status, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, t := range tasks {
		r := t.Record()
		_, err := tx.ExecContext(ctx, insertTask,
			r.ID,
			r.Title,
			r.Description,
			r.Deadline,
			r.Priority,
			r.AssignedTo,
			r.Status,
			r.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert task %d: %w", r.ID, err)
		}
	}

	const insertMember = `
	INSERT INTO team_members (position, name, email, workload)
	VALUES (?, ?, ?, ?)
	`
	for i, m := range members {
		r := m.Record()
		if _, err := tx.ExecContext(ctx, insertMember, i, r.Name, r.Email, r.Workload); err != nil {
			return fmt.Errorf("insert team member %s: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	s.logger.Debug().
		Int("tasks", len(tasks)).
		Int("members", len(members)).
		Msg("saved snapshot")
	return nil
}
