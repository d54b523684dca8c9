package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Dan9191/task-tracker/internal/models"
	"github.com/Dan9191/task-tracker/internal/repository"
)

// MaxTitleLength bounds task titles in characters
const MaxTitleLength = 120

// TaskRepository persists tasks scoped by owner
type TaskRepository interface {
	ListTasks(ctx context.Context, ownerID int64) ([]models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) error
	UpdateTask(ctx context.Context, ownerID, taskID int64, patch models.TaskPatch) (*models.Task, error)
	ToggleTask(ctx context.Context, ownerID, taskID int64) (*models.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID int64) error
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return invalid("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return invalid(fmt.Sprintf("title must be at most %d characters", MaxTitleLength))
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// ListTasks returns the caller's tasks, newest first
func (s *Service) ListTasks(ctx context.Context, ownerID int64) ([]models.Task, error) {
	tasks, err := s.tasks.ListTasks(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// CreateTask creates a task owned by ownerID
func (s *Service) CreateTask(ctx context.Context, ownerID int64, title string, description *string) (*models.Task, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	task := &models.Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
	}
	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	s.log.Infof("Task %d created for user %d", task.ID, ownerID)
	return task, nil
}

// UpdateTask applies a partial update to one of the caller's tasks
func (s *Service) UpdateTask(ctx context.Context, ownerID, taskID int64, patch models.TaskPatch) (*models.Task, error) {
	if patch.Empty() {
		return nil, invalid("nothing to update")
	}
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
	}

	task, err := s.tasks.UpdateTask(ctx, ownerID, taskID, patch)
	if err != nil {
		return nil, notFound(err)
	}

	s.log.Infof("Task %d updated by user %d", taskID, ownerID)
	return task, nil
}

// ToggleTask flips the completed flag of one of the caller's tasks
func (s *Service) ToggleTask(ctx context.Context, ownerID, taskID int64) (*models.Task, error) {
	task, err := s.tasks.ToggleTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, notFound(err)
	}

	s.log.Infof("Task %d toggled by user %d: completed=%t", taskID, ownerID, task.Completed)
	return task, nil
}

// DeleteTask removes one of the caller's tasks
func (s *Service) DeleteTask(ctx context.Context, ownerID, taskID int64) error {
	if err := s.tasks.DeleteTask(ctx, ownerID, taskID); err != nil {
		return notFound(err)
	}

	s.log.Infof("Task %d deleted by user %d", taskID, ownerID)
	return nil
}
