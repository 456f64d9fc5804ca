package repository

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/TWRT/teamwork-tasks/internal/models"
)

type snapshotStore interface {
	Load(ctx context.Context) ([]models.Task, []models.TeamMember, error)
	Save(ctx context.Context, tasks []models.Task, members []models.TeamMember) error
}

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db, zerolog.Nop())
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test", zerolog.Nop()), mr
}

func sampleSnapshot() ([]models.Task, []models.TeamMember) {
	created := time.Date(2024, 1, 3, 14, 5, 9, 123456789, time.FixedZone("CET", 3600))
	tasks := []models.Task{
		{
			ID:          1,
			Title:       "Write report",
			Description: "Quarterly numbers",
			Deadline:    time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			Priority:    models.PriorityHigh,
			AssignedTo:  "Bob",
			Status:      models.StatusNotStarted,
			CreatedAt:   created,
		},
		{
			ID:          2,
			Title:       "Review PR",
			Description: "",
			Deadline:    time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			Priority:    models.PriorityLow,
			AssignedTo:  "Alice",
			Status:      models.StatusCompleted,
			CreatedAt:   created.Add(time.Minute).UTC(),
		},
	}
	members := []models.TeamMember{
		{Name: "Bob", Email: "bob@example.com", Workload: 3},
		{Name: "Alice", Email: "alice@example.com", Workload: 1},
	}
	return tasks, members
}

func assertSnapshot(t *testing.T, store snapshotStore, wantTasks []models.Task, wantMembers []models.TeamMember) {
	t.Helper()
	gotTasks, gotMembers, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, want := models.TaskRecords(gotTasks), models.TaskRecords(wantTasks); !reflect.DeepEqual(got, want) {
		t.Fatalf("task records mismatch:\n got %#v\nwant %#v", got, want)
	}
	for i := range gotTasks {
		if !gotTasks[i].CreatedAt.Equal(wantTasks[i].CreatedAt) {
			t.Fatalf("task %d created_at %v, want %v", gotTasks[i].ID, gotTasks[i].CreatedAt, wantTasks[i].CreatedAt)
		}
		if !gotTasks[i].Deadline.Equal(wantTasks[i].Deadline) {
			t.Fatalf("task %d deadline %v, want %v", gotTasks[i].ID, gotTasks[i].Deadline, wantTasks[i].Deadline)
		}
	}
	if got, want := models.MemberRecords(gotMembers), models.MemberRecords(wantMembers); !reflect.DeepEqual(got, want) {
		t.Fatalf("member records mismatch:\n got %#v\nwant %#v", got, want)
	}
}

func TestStoresRoundTrip(t *testing.T) {
	redisStore, _ := newRedisStore(t)
	stores := map[string]snapshotStore{
		"sqlite": newSQLiteStore(t),
		"redis":  redisStore,
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			tasks, members := sampleSnapshot()
			if err := store.Save(context.Background(), tasks, members); err != nil {
				t.Fatalf("save: %v", err)
			}
			assertSnapshot(t, store, tasks, members)
		})
	}
}

func TestStoresLoadEmpty(t *testing.T) {
	redisStore, _ := newRedisStore(t)
	stores := map[string]snapshotStore{
		"sqlite": newSQLiteStore(t),
		"redis":  redisStore,
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			tasks, members, err := store.Load(context.Background())
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if len(tasks) != 0 || len(members) != 0 {
				t.Fatalf("expected empty snapshot, got %d tasks %d members", len(tasks), len(members))
			}
		})
	}
}

func TestStoresSaveReplacesSnapshot(t *testing.T) {
	redisStore, _ := newRedisStore(t)
	stores := map[string]snapshotStore{
		"sqlite": newSQLiteStore(t),
		"redis":  redisStore,
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			tasks, members := sampleSnapshot()
			if err := store.Save(context.Background(), tasks, members); err != nil {
				t.Fatalf("first save: %v", err)
			}

			tasks = tasks[1:]
			tasks[0].Status = "In Progress"
			members = []models.TeamMember{
				{Name: "Carol", Email: "carol@example.com"},
				members[1],
				{Name: "Bob", Email: "bob@example.com", Workload: 0},
			}
			if err := store.Save(context.Background(), tasks, members); err != nil {
				t.Fatalf("second save: %v", err)
			}
			assertSnapshot(t, store, tasks, members)
		})
	}
}

func TestSQLiteStoreRejectsCorruptRows(t *testing.T) {
	store := newSQLiteStore(t)
	_, err := store.db.Exec(`
	INSERT INTO tasks (id, title, description, deadline, priority, assigned_to, status, created_at)
	VALUES (1, 't', 'd', '2024-01-10', 'URGENT', 'Bob', 'Not Started', '2024-01-01T00:00:00Z')
	`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected decode error for unknown priority")
	}
}

func TestRedisStoreWritesJSONRecords(t *testing.T) {
	store, mr := newRedisStore(t)
	tasks, members := sampleSnapshot()
	if err := store.Save(context.Background(), tasks[:1], members[:1]); err != nil {
		t.Fatalf("save: %v", err)
	}

	raw, err := mr.Get("test:tasks")
	if err != nil {
		t.Fatalf("get tasks key: %v", err)
	}
	want := `[{"id":1,"title":"Write report","description":"Quarterly numbers","deadline":"2024-01-10","priority":"HIGH","assigned_to":"Bob","status":"Not Started","created_at":"2024-01-03T14:05:09.123456789+01:00"}]`
	if raw != want {
		t.Fatalf("unexpected tasks payload:\n got %s\nwant %s", raw, want)
	}
	if !mr.Exists("test:members") {
		t.Fatal("expected members key to be written")
	}
}
