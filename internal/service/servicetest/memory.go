// Package servicetest provides an in-memory store for exercising the service and HTTP layers in tests.
package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/task-tracker/internal/models"
	"github.com/Dan9191/task-tracker/internal/repository"
)

// MemoryStore implements the user, task and token repositories with maps.
// It reports the same sentinel errors as the SQL repository.
type MemoryStore struct {
	mu       sync.Mutex
	nextUser int64
	nextTask int64
	users    map[string]*models.User
	tasks    map[int64]*models.Task
	revoked  map[string]time.Time
	now      func() time.Time
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*models.User),
		tasks:   make(map[int64]*models.Task),
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; ok {
		return repository.ErrDuplicate
	}
	m.nextUser++
	user.ID = m.nextUser
	user.CreatedAt = m.now().UTC()
	stored := *user
	m.users[user.Username] = &stored
	return nil
}

func (m *MemoryStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *user
	return &found, nil
}

func (m *MemoryStore) ListTasks(_ context.Context, ownerID int64) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := make([]models.Task, 0)
	for _, t := range m.tasks {
		if t.OwnerID == ownerID {
			tasks = append(tasks, *t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})
	return tasks, nil
}

func (m *MemoryStore) CreateTask(_ context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextTask++
	task.ID = m.nextTask
	task.Completed = false
	task.CreatedAt = m.now().UTC()
	stored := *task
	m.tasks[task.ID] = &stored
	return nil
}

func (m *MemoryStore) owned(ownerID, taskID int64) (*models.Task, error) {
	t, ok := m.tasks[taskID]
	if !ok || t.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (m *MemoryStore) UpdateTask(_ context.Context, ownerID, taskID int64, patch models.TaskPatch) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.owned(ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.DescriptionSet {
		t.Description = patch.Description
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	updated := *t
	return &updated, nil
}

func (m *MemoryStore) ToggleTask(_ context.Context, ownerID, taskID int64) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.owned(ownerID, taskID)
	if err != nil {
		return nil, err
	}
	t.Completed = !t.Completed
	updated := *t
	return &updated, nil
}

func (m *MemoryStore) DeleteTask(_ context.Context, ownerID, taskID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.owned(ownerID, taskID); err != nil {
		return err
	}
	delete(m.tasks, taskID)
	return nil
}

func (m *MemoryStore) RevokeToken(_ context.Context, token models.RevokedToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[token.JTI] = token.ExpiresAt
	return nil
}

func (m *MemoryStore) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

func (m *MemoryStore) PruneRevokedTokens(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for jti, exp := range m.revoked {
		if exp.Before(now) {
			delete(m.revoked, jti)
			n++
		}
	}
	return n, nil
}

// PasswordHash exposes the stored hash for assertions
func (m *MemoryStore) PasswordHash(username string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[username]; ok {
		return u.PasswordHash
	}
	return ""
}
