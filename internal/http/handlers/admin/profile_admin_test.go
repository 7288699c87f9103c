package admin

import (
	"net/http"
	"testing"

	"github.com/ze-news/internal/authguard"
	"github.com/ze-news/internal/config"
	"github.com/ze-news/internal/constants"
	"github.com/ze-news/internal/models"

	"github.com/gin-gonic/gin"
)

func TestChangeProfileRole(t *testing.T) {
	h, _ := setupAdminHandler(t, config.Default().Upload)
	admin := &models.Profile{Email: "admin@example.com", Role: constants.RoleAdmin, PasswordHash: "x"}
	writer := &models.Profile{Email: "writer@example.com", Role: constants.RoleUser, PasswordHash: "x"}
	for _, p := range []*models.Profile{admin, writer} {
		if err := h.ProfileRepo.Create(p); err != nil {
			t.Fatalf("create profile failed: %v", err)
		}
	}
	adminIdentity := authguard.Identity{Authenticated: true, ProfileID: admin.ID, Role: constants.RoleAdmin}

	editorEngine := newEngine(editorIdentity())
	editorEngine.GET("/api/admin/profiles", h.ListProfiles)
	editorEngine.PATCH("/api/admin/profiles/:id/role", h.ChangeProfileRole)
	if w, env := doJSON(t, editorEngine, http.MethodPatch, "/api/admin/profiles/"+writer.ID+"/role", gin.H{"role": "admin"}); w.Code != http.StatusForbidden || env.Error != "forbidden" {
		t.Fatalf("editor role change want 403 got %d %s", w.Code, w.Body.String())
	}
	if w, _ := doJSON(t, editorEngine, http.MethodGet, "/api/admin/profiles", nil); w.Code != http.StatusForbidden {
		t.Fatalf("editor profile list want 403 got %d %s", w.Code, w.Body.String())
	}

	r := newEngine(adminIdentity)
	r.GET("/api/admin/profiles", h.ListProfiles)
	r.PATCH("/api/admin/profiles/:id/role", h.ChangeProfileRole)

	w, env := doJSON(t, r, http.MethodPatch, "/api/admin/profiles/"+writer.ID+"/role", gin.H{"role": "editor"})
	if w.Code != http.StatusOK {
		t.Fatalf("role change want 200 got %d %s", w.Code, w.Body.String())
	}
	var updated models.Profile
	decodeData(t, env, &updated)
	if updated.Role != constants.RoleEditor {
		t.Fatalf("unexpected role: %s", updated.Role)
	}

	if w, env = doJSON(t, r, http.MethodPatch, "/api/admin/profiles/"+admin.ID+"/role", gin.H{"role": "user"}); w.Code != http.StatusBadRequest || env.Error != "role_change_self" {
		t.Fatalf("self demotion want 400 got %d %s", w.Code, w.Body.String())
	}
	if w, env = doJSON(t, r, http.MethodPatch, "/api/admin/profiles/missing/role", gin.H{"role": "editor"}); w.Code != http.StatusNotFound || env.Error != "profile_not_found" {
		t.Fatalf("missing profile want 404 got %d %s", w.Code, w.Body.String())
	}
	if w, env = doJSON(t, r, http.MethodPatch, "/api/admin/profiles/"+writer.ID+"/role", gin.H{}); w.Code != http.StatusBadRequest || env.Error != "bad_request" {
		t.Fatalf("missing role want 400 got %d %s", w.Code, w.Body.String())
	}

	w, env = doJSON(t, r, http.MethodGet, "/api/admin/profiles?role=editor", nil)
	var editors []models.Profile
	decodeData(t, env, &editors)
	if w.Code != http.StatusOK || len(editors) != 1 || editors[0].ID != writer.ID {
		t.Fatalf("unexpected editor list: %d %s", w.Code, w.Body.String())
	}
}
