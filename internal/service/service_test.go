package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/task-tracker/internal/auth"
	"github.com/Dan9191/task-tracker/internal/models"
	"github.com/Dan9191/task-tracker/internal/service/servicetest"
	"github.com/Dan9191/task-tracker/internal/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*Service, *servicetest.MemoryStore) {
	t.Helper()
	hasher, err := utils.NewPasswordHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewPasswordHasher: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)

	store := servicetest.NewMemoryStore()
	svc := NewService(Deps{
		Users:   store,
		Tasks:   store,
		Revoked: store,
		Hasher:  hasher,
		Tokens:  auth.NewTokenManager("test-secret", time.Hour),
		Log:     log,
	})
	return svc, store
}

func strPtr(s string) *string { return &s }

func TestRegisterTwiceConflicts(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw123"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "other"); !errors.Is(err, ErrConflict) {
		t.Fatalf("second Register error = %v, want ErrConflict", err)
	}
	if hash := store.PasswordHash("alice"); hash == "" || hash == "pw123" {
		t.Fatalf("password stored unhashed: %q", hash)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name, username, password string
	}{
		{"empty username", "  ", "pw"},
		{"empty password", "bob", ""},
		{"long username", strings.Repeat("u", MaxUsernameLength+1), "pw"},
		{"long password", "bob", strings.Repeat("p", utils.MaxPasswordBytes+1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.username, tc.password)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Register error = %v, want ValidationError", err)
			}
		})
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, "alice", "pw123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, unknownErr := svc.Login(ctx, "nobody", "pw123")
	_, wrongErr := svc.Login(ctx, "alice", "wrong")
	if !errors.Is(unknownErr, ErrInvalidCredentials) || !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("login errors = %v / %v, want ErrInvalidCredentials", unknownErr, wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("messages differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	user, _ := svc.Register(ctx, "alice", "pw123")

	token, err := svc.Login(ctx, "alice", "pw123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("claims.UserID = %d, want %d", claims.UserID, user.ID)
	}
}

func TestLogoutRevokesOnlyThatToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	svc.Register(ctx, "alice", "pw123")

	first, _ := svc.Login(ctx, "alice", "pw123")
	second, _ := svc.Login(ctx, "alice", "pw123")

	claims, err := svc.Authenticate(ctx, first)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, first); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("revoked token error = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.Authenticate(ctx, second); err != nil {
		t.Fatalf("other token rejected: %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, title := range []string{"T1", "T2", "T3"} {
		if _, err := svc.CreateTask(ctx, 1, title, nil); err != nil {
			t.Fatalf("CreateTask(%s): %v", title, err)
		}
	}
	tasks, err := svc.ListTasks(ctx, 1)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	var titles []string
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	if strings.Join(titles, ",") != "T3,T2,T1" {
		t.Fatalf("order = %v, want [T3 T2 T1]", titles)
	}
}

func TestListEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	tasks, err := svc.ListTasks(context.Background(), 99)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty slice, got %#v", tasks)
	}
}

func TestCreateTaskDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	before := time.Now().UTC().Add(-time.Millisecond)

	task, err := svc.CreateTask(context.Background(), 1, "Buy milk", nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Title != "Buy milk" || task.Completed || task.Description != nil {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.CreatedAt.Before(before) {
		t.Fatalf("created_at %v earlier than call time %v", task.CreatedAt, before)
	}
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	svc, _ := newTestService(t)

	for _, title := range []string{"", "   ", strings.Repeat("t", MaxTitleLength+1)} {
		_, err := svc.CreateTask(context.Background(), 1, title, nil)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("CreateTask(%q) error = %v, want ValidationError", title, err)
		}
	}
}

func TestCrossTenantAccessIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	const alice, bob = int64(1), int64(2)

	task, _ := svc.CreateTask(ctx, bob, "bob's", nil)

	if _, err := svc.UpdateTask(ctx, alice, task.ID, models.TaskPatch{Title: strPtr("mine")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateTask error = %v, want ErrNotFound", err)
	}
	if _, err := svc.ToggleTask(ctx, alice, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ToggleTask error = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteTask(ctx, alice, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteTask error = %v, want ErrNotFound", err)
	}

	tasks, _ := svc.ListTasks(ctx, bob)
	if len(tasks) != 1 || tasks[0].Title != "bob's" || tasks[0].Completed {
		t.Fatalf("bob's task changed: %+v", tasks)
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	task, _ := svc.CreateTask(ctx, 1, "X", nil)

	once, err := svc.ToggleTask(ctx, 1, task.ID)
	if err != nil || !once.Completed {
		t.Fatalf("first toggle = %+v, %v", once, err)
	}
	twice, err := svc.ToggleTask(ctx, 1, task.ID)
	if err != nil || twice.Completed != task.Completed {
		t.Fatalf("second toggle = %+v, %v", twice, err)
	}
}

func TestUpdatePartial(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	task, _ := svc.CreateTask(ctx, 1, "X", strPtr("desc"))

	done := true
	updated, err := svc.UpdateTask(ctx, 1, task.ID, models.TaskPatch{Completed: &done})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if updated.Title != "X" || updated.Description == nil || *updated.Description != "desc" || !updated.Completed {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	cleared, err := svc.UpdateTask(ctx, 1, task.ID, models.TaskPatch{DescriptionSet: true})
	if err != nil {
		t.Fatalf("UpdateTask clear: %v", err)
	}
	if cleared.Description != nil {
		t.Fatalf("description not cleared: %q", *cleared.Description)
	}
}

func TestUpdateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	task, _ := svc.CreateTask(ctx, 1, "X", nil)

	var vErr *ValidationError
	if _, err := svc.UpdateTask(ctx, 1, task.ID, models.TaskPatch{}); !errors.As(err, &vErr) {
		t.Fatalf("empty patch error = %v, want ValidationError", err)
	}
	if _, err := svc.UpdateTask(ctx, 1, task.ID, models.TaskPatch{Title: strPtr("")}); !errors.As(err, &vErr) {
		t.Fatalf("empty title error = %v, want ValidationError", err)
	}
}

func TestDeleteThenNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	task, _ := svc.CreateTask(ctx, 1, "X", nil)

	if err := svc.DeleteTask(ctx, 1, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := svc.DeleteTask(ctx, 1, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second DeleteTask error = %v, want ErrNotFound", err)
	}
}
