package repository

import (
	"context"
	"testing"
	"time"

	"taskpad/internal/model"
)

func newTestRepo(t *testing.T) *TaskRepository {
	t.Helper()
	db, err := NewDB("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return NewTaskRepository(db)
}

func seedTask(t *testing.T, repo *TaskRepository, task model.Task) model.Task {
	t.Helper()
	if task.Title == "" {
		task.Title = "Buy milk"
	}
	if task.Description == "" {
		task.Description = "Get 2% milk from the store"
	}
	if task.Date == "" {
		task.Date = "2024-01-01"
	}
	if err := repo.Create(context.Background(), &task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	repo := newTestRepo(t)

	first := seedTask(t, repo, model.Task{UserID: "user-1"})
	second := seedTask(t, repo, model.Task{UserID: "user-1"})

	if first.ID == "" || second.ID == "" {
		t.Fatal("expected non-empty ids")
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct ids, both %q", first.ID)
	}
	if first.IsCompleted || first.IsImportant {
		t.Error("expected flags to default to false")
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		task := seedTask(t, repo, model.Task{
			UserID:    "user-1",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		ids = append(ids, task.ID)
	}

	tasks, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if tasks[i].ID != want {
			t.Errorf("position %d: expected %q, got %q", i, want, tasks[i].ID)
		}
	}
}

func TestFindByIDMissing(t *testing.T) {
	repo := newTestRepo(t)

	if _, err := repo.FindByID(context.Background(), "does-not-exist"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateReplacesFields(t *testing.T) {
	repo := newTestRepo(t)
	task := seedTask(t, repo, model.Task{UserID: "user-1"})

	task.Title = "Buy oat milk"
	task.IsImportant = true
	if err := repo.Update(context.Background(), &task); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.FindByID(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Title != "Buy oat milk" || !got.IsImportant {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestSetCompletedTwiceRestores(t *testing.T) {
	repo := newTestRepo(t)
	task := seedTask(t, repo, model.Task{UserID: "user-1"})

	if _, err := repo.SetCompleted(context.Background(), task.ID, true); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if _, err := repo.SetCompleted(context.Background(), task.ID, false); err != nil {
		t.Fatalf("second toggle: %v", err)
	}

	got, err := repo.FindByID(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.IsCompleted {
		t.Error("expected flag restored to false after double toggle")
	}
}

func TestDeleteReturnsPriorState(t *testing.T) {
	repo := newTestRepo(t)
	task := seedTask(t, repo, model.Task{UserID: "user-1"})

	prior, err := repo.Delete(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if prior.Title != task.Title {
		t.Errorf("expected prior title %q, got %q", task.Title, prior.Title)
	}

	tasks, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, remaining := range tasks {
		if remaining.ID == task.ID {
			t.Error("deleted task still present in list")
		}
	}

	if _, err := repo.Delete(context.Background(), task.ID); err == nil {
		t.Error("expected error deleting nonexistent task")
	}
}
