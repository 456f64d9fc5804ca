package models

import (
	"fmt"
	"strconv"
	"time"
)

const (
	StatusNotStarted = "Not Started"
	StatusCompleted  = "Completed"
)

// Task is a unit of work assigned to a single team member. Deadline holds a
// calendar date (see DateOf); CreatedAt is set once when the task is created.
type Task struct {
	ID          int
	Title       string
	Description string
	Deadline    time.Time
	Priority    Priority
	AssignedTo  string
	Status      string
	CreatedAt   time.Time
}

func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

// TeamMember references the tasks assigned to it; it does not own them.
type TeamMember struct {
	Name     string
	Email    string
	Tasks    []*Task
	Workload int
}

// TaskRecord is the flat, text-only form of a Task used by stores and
// displays. Priority is its symbolic name, dates are ISO-8601.
type TaskRecord struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Priority    string `json:"priority"`
	AssignedTo  string `json:"assigned_to"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type MemberRecord struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Workload int    `json:"workload"`
}

func (t Task) Record() TaskRecord {
	return TaskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Deadline:    FormatDate(t.Deadline),
		Priority:    t.Priority.String(),
		AssignedTo:  t.AssignedTo,
		Status:      t.Status,
		CreatedAt:   FormatTimestamp(t.CreatedAt),
	}
}

func (r TaskRecord) Task() (Task, error) {
	deadline, err := ParseDate(r.Deadline)
	if err != nil {
		return Task{}, fmt.Errorf("task %d deadline: %w", r.ID, err)
	}
	priority, err := ParsePriority(r.Priority)
	if err != nil {
		return Task{}, fmt.Errorf("task %d priority: %w", r.ID, err)
	}
	createdAt, err := ParseTimestamp(r.CreatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("task %d created_at: %w", r.ID, err)
	}
	return Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Deadline:    deadline,
		Priority:    priority,
		AssignedTo:  r.AssignedTo,
		Status:      r.Status,
		CreatedAt:   createdAt,
	}, nil
}

// Fields renders the record as the plain key-value map used for display.
func (r TaskRecord) Fields() map[string]string {
	return map[string]string{
		"id":          strconv.Itoa(r.ID),
		"title":       r.Title,
		"description": r.Description,
		"deadline":    r.Deadline,
		"priority":    r.Priority,
		"assigned_to": r.AssignedTo,
		"status":      r.Status,
		"created_at":  r.CreatedAt,
	}
}

func (m TeamMember) Record() MemberRecord {
	return MemberRecord{
		Name:     m.Name,
		Email:    m.Email,
		Workload: m.Workload,
	}
}

// Member builds a TeamMember with an empty task list; the registry reattaches
// tasks after a load.
func (r MemberRecord) Member() TeamMember {
	return TeamMember{
		Name:     r.Name,
		Email:    r.Email,
		Workload: r.Workload,
	}
}

func TaskRecords(tasks []Task) []TaskRecord {
	records := make([]TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, t.Record())
	}
	return records
}

func MemberRecords(members []TeamMember) []MemberRecord {
	records := make([]MemberRecord, 0, len(members))
	for _, m := range members {
		records = append(records, m.Record())
	}
	return records
}

// ProductivityStats summarizes one member's progress.
type ProductivityStats struct {
	CompletedTasks int     `json:"completed_tasks"`
	TotalTasks     int     `json:"total_tasks"`
	CompletionRate float64 `json:"completion_rate"`
	Workload       int     `json:"workload"`
}
