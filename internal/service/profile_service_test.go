package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ze-news/internal/authguard"
	"github.com/ze-news/internal/cache"
	"github.com/ze-news/internal/constants"
	"github.com/ze-news/internal/models"
	"github.com/ze-news/internal/repository"
)

func TestChangeRole(t *testing.T) {
	db := setupServiceTestDB(t)
	repo := repository.NewProfileRepository(db)
	states := newMemoryAuthStates()
	svc := NewProfileService(repo, states, nopLogger())
	ctx := context.Background()

	admin := &models.Profile{Email: "admin@example.com", Role: constants.RoleAdmin, PasswordHash: "x"}
	target := &models.Profile{Email: "writer@example.com", Role: constants.RoleUser, PasswordHash: "x"}
	for _, p := range []*models.Profile{admin, target} {
		if err := repo.Create(p); err != nil {
			t.Fatalf("create profile failed: %v", err)
		}
	}
	states.items[target.ID] = &cache.ProfileAuthState{ProfileID: target.ID, Role: constants.RoleUser}
	operator := authguard.Identity{Authenticated: true, ProfileID: admin.ID, Role: constants.RoleAdmin}

	if _, err := svc.ChangeRole(ctx, operator, target.ID, "owner", "req-1"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.ChangeRole(ctx, operator, admin.ID, constants.RoleUser, "req-1"); !errors.Is(err, ErrCannotDemoteSelf) {
		t.Fatalf("expected ErrCannotDemoteSelf, got %v", err)
	}
	if _, err := svc.ChangeRole(ctx, operator, "missing", constants.RoleEditor, "req-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	updated, err := svc.ChangeRole(ctx, operator, target.ID, " Editor ", "req-2")
	if err != nil {
		t.Fatalf("change role failed: %v", err)
	}
	if updated.Role != constants.RoleEditor || updated.TokenVersion != 1 {
		t.Fatalf("unexpected profile: role=%s version=%d", updated.Role, updated.TokenVersion)
	}
	if _, ok := states.items[target.ID]; ok {
		t.Fatalf("expected auth state to be dropped")
	}

	var audits []models.RoleAuditLog
	if err := db.Find(&audits).Error; err != nil {
		t.Fatalf("load audits failed: %v", err)
	}
	if len(audits) != 1 || audits[0].FromRole != constants.RoleUser || audits[0].RequestID != "req-2" {
		t.Fatalf("unexpected audits: %+v", audits)
	}

	editors, total, err := svc.List(ProfileQuery{Role: constants.RoleEditor})
	if err != nil || total != 1 || editors[0].ID != target.ID {
		t.Fatalf("unexpected editor list: total=%d err=%v", total, err)
	}
}
