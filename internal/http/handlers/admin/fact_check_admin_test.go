package admin

import (
	"net/http"
	"testing"

	"github.com/ze-news/internal/config"
	"github.com/ze-news/internal/constants"
	"github.com/ze-news/internal/models"
	"github.com/ze-news/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestReviewFactCheck(t *testing.T) {
	h, _ := setupAdminHandler(t, config.Default().Upload)
	jobs := &recordingJobs{}
	h.FactCheckService = service.NewFactCheckService(h.FactCheckRepo, h.ArticleRepo, jobs, false, zap.NewNop().Sugar())
	r := newEngine(editorIdentity())
	r.GET("/api/fact-checks", h.ListFactChecks)
	r.GET("/api/fact-checks/:id", h.GetFactCheck)
	r.PATCH("/api/fact-checks/:id", h.ReviewFactCheck)

	item := &models.FactCheck{Claim: "The bridge is closing", SubmitterEmail: "reader@example.com", Status: constants.FactCheckStatusPending}
	if err := h.FactCheckRepo.Create(item); err != nil {
		t.Fatalf("create fact check failed: %v", err)
	}
	path := "/api/fact-checks/" + item.ID

	w, env := doJSON(t, r, http.MethodPatch, path, gin.H{"status": "reviewing"})
	if w.Code != http.StatusOK {
		t.Fatalf("start review want 200 got %d %s", w.Code, w.Body.String())
	}
	var reviewed models.FactCheck
	decodeData(t, env, &reviewed)
	if reviewed.Status != constants.FactCheckStatusReviewing || reviewed.ReviewerID == nil || *reviewed.ReviewerID != "editor-1" || reviewed.ReviewedAt != nil {
		t.Fatalf("unexpected reviewing state: %+v", reviewed)
	}

	if w, env = doJSON(t, r, http.MethodPatch, path, gin.H{"status": "pending"}); w.Code != http.StatusConflict || env.Error != "fact_check_transition_invalid" {
		t.Fatalf("moving back to pending want 409 got %d %s", w.Code, w.Body.String())
	}
	if w, env = doJSON(t, r, http.MethodPatch, path, gin.H{"status": "maybe"}); w.Code != http.StatusBadRequest || env.Error != "fact_check_status_invalid" {
		t.Fatalf("unknown status want 400 got %d %s", w.Code, w.Body.String())
	}

	w, env = doJSON(t, r, http.MethodPatch, path, gin.H{"status": "verified", "verdict_note": "Confirmed by council minutes"})
	if w.Code != http.StatusOK {
		t.Fatalf("verdict want 200 got %d %s", w.Code, w.Body.String())
	}
	decodeData(t, env, &reviewed)
	if reviewed.Status != constants.FactCheckStatusVerified || reviewed.ReviewedAt == nil || reviewed.VerdictNote != "Confirmed by council minutes" {
		t.Fatalf("unexpected verdict state: %+v", reviewed)
	}
	if len(jobs.statusEmails) != 2 || jobs.statusEmails[1].Status != constants.FactCheckStatusVerified {
		t.Fatalf("expected one status email per transition, got %+v", jobs.statusEmails)
	}

	if w, env = doJSON(t, r, http.MethodPatch, path, gin.H{"status": "false"}); w.Code != http.StatusConflict || env.Error != "fact_check_finalized" {
		t.Fatalf("changing a verdict want 409 got %d %s", w.Code, w.Body.String())
	}

	w, env = doJSON(t, r, http.MethodGet, "/api/fact-checks?status=verified", nil)
	var items []models.FactCheck
	decodeData(t, env, &items)
	if w.Code != http.StatusOK || len(items) != 1 || items[0].ID != item.ID {
		t.Fatalf("unexpected list: %d %s", w.Code, w.Body.String())
	}
	if w, env = doJSON(t, r, http.MethodGet, "/api/fact-checks?created_from=yesterday", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad date want 400 got %d %s", w.Code, w.Body.String())
	}
	if w, env = doJSON(t, r, http.MethodGet, "/api/fact-checks/missing", nil); w.Code != http.StatusNotFound || env.Error != "fact_check_not_found" {
		t.Fatalf("missing fact check want 404 got %d %s", w.Code, w.Body.String())
	}
}
