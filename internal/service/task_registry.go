package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/TWRT/teamwork-tasks/internal/models"
)

var (
	ErrMemberNotFound      = errors.New("team member not found")
	ErrMemberAlreadyExists = errors.New("team member already exists")
	ErrTaskNotFound        = errors.New("task not found")
	ErrNoTeamMembers       = errors.New("no team members registered")
	ErrInvalidMember       = errors.New("invalid team member")
)

// Store persists the complete registry state. Save always receives the full
// snapshot; there is no incremental write.
type Store interface {
	Load(ctx context.Context) ([]models.Task, []models.TeamMember, error)
	Save(ctx context.Context, tasks []models.Task, members []models.TeamMember) error
}

// TaskRegistry owns the task list and the team. It is not safe for
// concurrent use; callers that share one must serialize access.
//
// Every mutating method writes the full snapshot through the Store before
// returning. A failed write is returned to the caller but the in-memory
// change is kept.
type TaskRegistry struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time

	tasks   []*models.Task
	members map[string]*models.TeamMember
	// registration order, used for listing and least-workload ties
	order []string
}

type Option func(*TaskRegistry)

// WithClock replaces time.Now for creation timestamps and "today".
func WithClock(now func() time.Time) Option {
	return func(r *TaskRegistry) {
		r.now = now
	}
}

type AddTaskParams struct {
	Title       string
	Description string
	Deadline    time.Time
	Priority    models.Priority
	AssignedTo  string
}

// NewTaskRegistry loads the current snapshot from store.
func NewTaskRegistry(ctx context.Context, store Store, logger zerolog.Logger, opts ...Option) (*TaskRegistry, error) {
	r := &TaskRegistry{
		store:   store,
		logger:  logger,
		now:     time.Now,
		members: make(map[string]*models.TeamMember),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.load(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *TaskRegistry) load(ctx context.Context) error {
	tasks, members, err := r.store.Load(ctx)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to load snapshot")
		return fmt.Errorf("load snapshot: %w", err)
	}

	stored := make(map[string]int, len(members))
	for i := range members {
		m := members[i]
		if _, ok := r.members[m.Name]; ok {
			r.logger.Warn().
				Str("member", m.Name).
				Msg("duplicate team member in snapshot, keeping first")
			continue
		}
		stored[m.Name] = m.Workload
		m.Tasks = nil
		m.Workload = 0
		r.members[m.Name] = &m
		r.order = append(r.order, m.Name)
	}

	for i := range tasks {
		t := tasks[i]
		r.tasks = append(r.tasks, &t)

		member, ok := r.members[t.AssignedTo]
		if !ok {
			r.logger.Warn().
				Int("task_id", t.ID).
				Str("member", t.AssignedTo).
				Msg("task assigned to unknown team member")
			continue
		}
		member.Tasks = append(member.Tasks, &t)
		member.Workload += t.Priority.Weight()
	}

	for _, name := range r.order {
		if m := r.members[name]; m.Workload != stored[name] {
			r.logger.Warn().
				Str("member", name).
				Int("stored_workload", stored[name]).
				Int("workload", m.Workload).
				Msg("stored workload differs from assigned tasks, using recomputed value")
		}
	}

	r.logger.Info().
		Int("tasks", len(r.tasks)).
		Int("members", len(r.order)).
		Msg("loaded task registry")
	return nil
}

func (r *TaskRegistry) persist(ctx context.Context) error {
	tasks := make([]models.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		tasks = append(tasks, *t)
	}
	members := make([]models.TeamMember, 0, len(r.order))
	for _, name := range r.order {
		m := r.members[name]
		members = append(members, models.TeamMember{
			Name:     m.Name,
			Email:    m.Email,
			Workload: m.Workload,
		})
	}

	if err := r.store.Save(ctx, tasks, members); err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to save snapshot")
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *TaskRegistry) nextID() int {
	id := 0
	for _, t := range r.tasks {
		id = max(id, t.ID)
	}
	return id + 1
}

func (r *TaskRegistry) findTask(id int) *models.Task {
	for _, t := range r.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (r *TaskRegistry) today() time.Time {
	return models.DateOf(r.now())
}

func (r *TaskRegistry) attach(m *models.TeamMember, t *models.Task) {
	t.AssignedTo = m.Name
	m.Tasks = append(m.Tasks, t)
	m.Workload += t.Priority.Weight()
}

func (r *TaskRegistry) detach(t *models.Task) {
	m, ok := r.members[t.AssignedTo]
	if !ok {
		return
	}
	i := slices.Index(m.Tasks, t)
	if i < 0 {
		return
	}
	m.Tasks = slices.Delete(m.Tasks, i, i+1)
	m.Workload -= t.Priority.Weight()
}

// AddTask creates a task for an existing team member. It fails with
// ErrMemberNotFound, leaving the registry untouched, when the member is not
// registered.
func (r *TaskRegistry) AddTask(ctx context.Context, params AddTaskParams) (models.Task, error) {
	if !params.Priority.Valid() {
		return models.Task{}, fmt.Errorf("%w: %d", models.ErrInvalidPriority, int(params.Priority))
	}
	member, ok := r.members[params.AssignedTo]
	if !ok {
		r.logger.Error().
			Str("member", params.AssignedTo).
			Msg("team member not found")
		return models.Task{}, fmt.Errorf("%w: %s", ErrMemberNotFound, params.AssignedTo)
	}

	task := &models.Task{
		ID:          r.nextID(),
		Title:       params.Title,
		Description: params.Description,
		Deadline:    models.DateOf(params.Deadline),
		Priority:    params.Priority,
		Status:      models.StatusNotStarted,
		CreatedAt:   r.now(),
	}
	r.tasks = append(r.tasks, task)
	r.attach(member, task)

	r.logger.Info().
		Int("task_id", task.ID).
		Str("member", member.Name).
		Stringer("priority", task.Priority).
		Int("workload", member.Workload).
		Msg("created task")

	if err := r.persist(ctx); err != nil {
		return *task, err
	}
	return *task, nil
}

// UpdateTaskStatus overwrites the status of the task with the given id.
// Unknown ids yield ErrTaskNotFound and nothing is written.
func (r *TaskRegistry) UpdateTaskStatus(ctx context.Context, taskID int, status string) error {
	task := r.findTask(taskID)
	if task == nil {
		r.logger.Error().
			Int("task_id", taskID).
			Msg("task not found")
		return fmt.Errorf("%w: %d", ErrTaskNotFound, taskID)
	}

	task.Status = status
	r.logger.Info().
		Int("task_id", taskID).
		Str("status", status).
		Msg("updated task status")
	return r.persist(ctx)
}

// ReassignTask moves a task to another registered member, moving its
// priority weight between the two workloads.
func (r *TaskRegistry) ReassignTask(ctx context.Context, taskID int, memberName string) (models.Task, error) {
	task := r.findTask(taskID)
	if task == nil {
		return models.Task{}, fmt.Errorf("%w: %d", ErrTaskNotFound, taskID)
	}
	member, ok := r.members[memberName]
	if !ok {
		r.logger.Error().
			Str("member", memberName).
			Msg("team member not found")
		return models.Task{}, fmt.Errorf("%w: %s", ErrMemberNotFound, memberName)
	}
	if task.AssignedTo == memberName {
		return *task, nil
	}

	from := task.AssignedTo
	r.detach(task)
	r.attach(member, task)

	r.logger.Info().
		Int("task_id", taskID).
		Str("from", from).
		Str("to", memberName).
		Msg("reassigned task")

	if err := r.persist(ctx); err != nil {
		return *task, err
	}
	return *task, nil
}

// TasksByPriority keeps creation order.
func (r *TaskRegistry) TasksByPriority(p models.Priority) []models.Task {
	out := []models.Task{}
	for _, t := range r.tasks {
		if t.Priority == p {
			out = append(out, *t)
		}
	}
	return out
}

// UpcomingDeadlines returns tasks due between today and today+days, both
// ends included. A negative days value yields no tasks.
func (r *TaskRegistry) UpcomingDeadlines(days int) []models.Task {
	out := []models.Task{}
	if days < 0 {
		return out
	}

	today := r.today()
	last := today.AddDate(0, 0, days)
	for _, t := range r.tasks {
		if !t.Deadline.Before(today) && !t.Deadline.After(last) {
			out = append(out, *t)
		}
	}
	return out
}

// TasksDueWithin returns open tasks due at most days from today, including
// overdue ones.
func (r *TaskRegistry) TasksDueWithin(days int) []models.Task {
	today := r.today()
	out := []models.Task{}
	for _, t := range r.tasks {
		if t.Completed() {
			continue
		}
		if models.DaysBetween(today, t.Deadline) <= days {
			out = append(out, *t)
		}
	}
	return out
}

// ToDoList orders a member's tasks by priority, then deadline, both
// descending. Unknown members get an empty list.
func (r *TaskRegistry) ToDoList(memberName string) []models.Task {
	member, ok := r.members[memberName]
	if !ok {
		return []models.Task{}
	}

	out := make([]models.Task, 0, len(member.Tasks))
	for _, t := range member.Tasks {
		out = append(out, *t)
	}
	slices.SortStableFunc(out, func(a, b models.Task) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return b.Deadline.Compare(a.Deadline)
	})
	return out
}

// AllocateTask hands the task to the member with the lowest workload,
// earliest registered first on ties, and writes the result back into task.
//
// A task with ID 0 is new: it gets the next id and is added to the task
// list. A task that is already registered is taken off its current member
// before the least loaded member is picked.
func (r *TaskRegistry) AllocateTask(ctx context.Context, task *models.Task) error {
	if task == nil {
		return errors.New("allocate task: nil task")
	}
	if len(r.order) == 0 {
		return ErrNoTeamMembers
	}
	if !task.Priority.Valid() {
		return fmt.Errorf("%w: %d", models.ErrInvalidPriority, int(task.Priority))
	}

	var target *models.Task
	if task.ID == 0 {
		t := *task
		t.ID = r.nextID()
		t.Deadline = models.DateOf(t.Deadline)
		if t.Status == "" {
			t.Status = models.StatusNotStarted
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = r.now()
		}
		target = &t
		r.tasks = append(r.tasks, target)
	} else {
		target = r.findTask(task.ID)
		if target == nil {
			return fmt.Errorf("%w: %d", ErrTaskNotFound, task.ID)
		}
		r.detach(target)
	}

	member := r.leastLoaded()
	r.attach(member, target)
	*task = *target

	r.logger.Info().
		Int("task_id", target.ID).
		Str("member", member.Name).
		Int("workload", member.Workload).
		Msg("allocated task")
	return r.persist(ctx)
}

func (r *TaskRegistry) leastLoaded() *models.TeamMember {
	var best *models.TeamMember
	for _, name := range r.order {
		m := r.members[name]
		if best == nil || m.Workload < best.Workload {
			best = m
		}
	}
	return best
}

// AddTeamMember registers a member with no tasks. The name must be unique.
func (r *TaskRegistry) AddTeamMember(ctx context.Context, name, email string) (models.TeamMember, error) {
	if strings.TrimSpace(name) == "" {
		return models.TeamMember{}, fmt.Errorf("%w: empty name", ErrInvalidMember)
	}
	if _, ok := r.members[name]; ok {
		r.logger.Error().
			Str("member", name).
			Msg("team member already exists")
		return models.TeamMember{}, fmt.Errorf("%w: %s", ErrMemberAlreadyExists, name)
	}

	m := &models.TeamMember{Name: name, Email: email}
	r.members[name] = m
	r.order = append(r.order, name)

	r.logger.Info().
		Str("member", name).
		Msg("added team member")

	if err := r.persist(ctx); err != nil {
		return *m, err
	}
	return *m, nil
}

// ProductivityReport reports stored workloads as they are; they are not
// recomputed here.
func (r *TaskRegistry) ProductivityReport() map[string]models.ProductivityStats {
	report := make(map[string]models.ProductivityStats, len(r.order))
	for _, name := range r.order {
		m := r.members[name]
		completed := 0
		for _, t := range m.Tasks {
			if t.Completed() {
				completed++
			}
		}
		total := len(m.Tasks)
		rate := 0.0
		if total > 0 {
			rate = float64(completed) / float64(total)
		}
		report[name] = models.ProductivityStats{
			CompletedTasks: completed,
			TotalTasks:     total,
			CompletionRate: rate,
			Workload:       m.Workload,
		}
	}
	return report
}

func (r *TaskRegistry) Task(id int) (models.Task, bool) {
	t := r.findTask(id)
	if t == nil {
		return models.Task{}, false
	}
	return *t, true
}

// Tasks lists every task in creation order.
func (r *TaskRegistry) Tasks() []models.Task {
	out := make([]models.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, *t)
	}
	return out
}

func (r *TaskRegistry) Member(name string) (models.TeamMember, bool) {
	m, ok := r.members[name]
	if !ok {
		return models.TeamMember{}, false
	}
	return copyMember(m), true
}

// Members lists the team in registration order.
func (r *TaskRegistry) Members() []models.TeamMember {
	out := make([]models.TeamMember, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, copyMember(r.members[name]))
	}
	return out
}

func copyMember(m *models.TeamMember) models.TeamMember {
	c := *m
	c.Tasks = make([]*models.Task, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		tc := *t
		c.Tasks = append(c.Tasks, &tc)
	}
	return c
}
