package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"taskpad/internal/model"
	"taskpad/internal/repository"
)

// DigestService builds human-readable summaries of open tasks for
// periodic delivery.
type DigestService struct {
	repo *repository.TaskRepository
}

func NewDigestService(repo *repository.TaskRepository) *DigestService {
	return &DigestService{repo: repo}
}

// Summary reports, per owner, how many tasks are open, overdue and
// important, listing the ones due within two days.
func (s *DigestService) Summary(ctx context.Context, now time.Time) (string, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return "", err
	}

	byOwner := make(map[string][]model.Task)
	for _, task := range tasks {
		if task.IsCompleted {
			continue
		}
		byOwner[task.UserID] = append(byOwner[task.UserID], task)
	}

	owners := make([]string, 0, len(byOwner))
	for owner := range byOwner {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Task digest for %s\n", now.Format("2006-01-02")))

	if len(owners) == 0 {
		builder.WriteString("no open tasks\n")
		return strings.TrimSpace(builder.String()), nil
	}

	for _, owner := range owners {
		open := byOwner[owner]
		var overdue, important int
		var dueSoon []model.Task
		for _, task := range open {
			due, err := model.ParseDate(task.Date)
			if err == nil {
				switch {
				case due.Before(now.Truncate(24 * time.Hour)):
					overdue++
				case due.Sub(now) <= 48*time.Hour:
					dueSoon = append(dueSoon, task)
				}
			}
			if task.IsImportant {
				important++
			}
		}

		builder.WriteString(fmt.Sprintf("%s: %d open, %d overdue, %d important\n",
			owner, len(open), overdue, important))
		for _, task := range dueSoon {
			builder.WriteString(fmt.Sprintf("  due soon: %s (%s)\n", task.Title, task.Date))
		}
	}

	return strings.TrimSpace(builder.String()), nil
}
