package client

import (
	"context"
	"sort"
	"sync"

	"taskpad/internal/forms"
	"taskpad/internal/model"
)

// Notifier surfaces transient user-facing notifications, the Go
// equivalent of a toast.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// Session holds the authoritative-for-the-session snapshot of the task
// collection. It is refreshed wholesale: mutations are never patched
// into the cached slice. When two mutations overlap, whichever refetch
// finishes last determines the final snapshot.
type Session struct {
	api    API
	notify Notifier

	mu      sync.Mutex
	tasks   []model.Task
	loading bool
	subs    map[int]func()
	nextSub int
}

func NewSession(api API, notify Notifier) *Session {
	if notify == nil {
		notify = NopNotifier{}
	}
	return &Session{
		api:    api,
		notify: notify,
		subs:   make(map[int]func()),
	}
}

// Refresh replaces the snapshot with the server's collection, sorted
// newest first. Callers run it once on startup and it runs again after
// every successful mutation.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	tasks, err := s.api.ListTasks(ctx)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.mu.Unlock()
		return err
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	s.tasks = tasks
	s.mu.Unlock()

	s.publish()
	return nil
}

// Loading reports whether a refresh is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Tasks returns a copy of the current snapshot.
func (s *Session) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Completed returns the completed tasks, preserving snapshot order.
func (s *Session) Completed() []model.Task {
	return s.filter(func(t model.Task) bool { return t.IsCompleted })
}

// Incomplete returns the open tasks, preserving snapshot order.
func (s *Session) Incomplete() []model.Task {
	return s.filter(func(t model.Task) bool { return !t.IsCompleted })
}

// Important returns the important tasks, preserving snapshot order.
func (s *Session) Important() []model.Task {
	return s.filter(func(t model.Task) bool { return t.IsImportant })
}

func (s *Session) filter(keep func(model.Task) bool) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Task
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Subscribe registers an update callback fired after every snapshot
// replacement and returns an unsubscribe func.
func (s *Session) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) publish() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Create validates the form and submits it. A failing validation blocks
// the network call entirely.
func (s *Session) Create(ctx context.Context, form forms.CreateTaskForm) error {
	if errs := forms.Validate(form); errs != nil {
		return errs
	}
	_, err := s.api.CreateTask(ctx, form)
	return s.settle(ctx, err, "Task created", "Failed to create task")
}

// Edit validates the form and submits a full-field replacement.
func (s *Session) Edit(ctx context.Context, form forms.EditTaskForm) error {
	if errs := forms.Validate(form); errs != nil {
		return errs
	}
	_, err := s.api.UpdateTask(ctx, form)
	return s.settle(ctx, err, "Task updated", "Failed to update task")
}

// SetCompleted toggles the completion flag of a single task.
func (s *Session) SetCompleted(ctx context.Context, id string, completed bool) error {
	_, err := s.api.SetCompleted(ctx, id, completed)
	return s.settle(ctx, err, "Task updated", "Failed to update task")
}

// Delete removes a task.
func (s *Session) Delete(ctx context.Context, id string) error {
	_, err := s.api.DeleteTask(ctx, id)
	return s.settle(ctx, err, "Task deleted", "Failed to delete task")
}

// settle finishes a mutation: on success the whole collection is
// refetched and a success notification surfaced; on failure the cache is
// left untouched. No optimistic update, no rollback.
func (s *Session) settle(ctx context.Context, err error, okMsg, failMsg string) error {
	if err != nil {
		s.notify.Error(failMsg + ": " + err.Error())
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		s.notify.Error("Failed to refetch tasks: " + err.Error())
		return err
	}
	s.notify.Success(okMsg)
	return nil
}
