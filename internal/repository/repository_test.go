package repository

import (
	"testing"
	"time"

	"github.com/ze-news/internal/constants"
	"github.com/ze-news/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func createArticle(t *testing.T, repo *GormArticleRepository, slug, status string, publishedAt *time.Time, categories ...string) *models.Article {
	t.Helper()
	article := &models.Article{
		Title:       slug,
		Slug:        slug,
		Status:      status,
		Categories:  categories,
		PublishedAt: publishedAt,
	}
	if err := repo.Create(article); err != nil {
		t.Fatalf("create article %s failed: %v", slug, err)
	}
	return article
}

func TestArticleListFiltersByCategoryAndStatus(t *testing.T) {
	repo := NewArticleRepository(setupRepositoryTestDB(t))
	now := time.Now()
	createArticle(t, repo, "a", constants.ArticleStatusPublished, &now, "politics", "world")
	createArticle(t, repo, "b", constants.ArticleStatusDraft, nil, "politics")
	createArticle(t, repo, "c", constants.ArticleStatusPublished, &now, "sport")

	items, total, err := repo.List(ArticleListFilter{Category: "politics", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 politics articles, got total=%d len=%d", total, len(items))
	}

	items, total, err = repo.List(ArticleListFilter{Category: "politics", OnlyPublished: true})
	if err != nil {
		t.Fatalf("list published failed: %v", err)
	}
	if total != 1 || items[0].Slug != "a" {
		t.Fatalf("expected only published article a, got %+v", items)
	}

	count, err := repo.CountByCategory("sport")
	if err != nil {
		t.Fatalf("count by category failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one sport article, got %d", count)
	}
}

func TestArticleLatestOrdersByPublishedAt(t *testing.T) {
	repo := NewArticleRepository(setupRepositoryTestDB(t))
	older := time.Now().Add(-2 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)
	createArticle(t, repo, "older", constants.ArticleStatusPublished, &older)
	createArticle(t, repo, "newer", constants.ArticleStatusPublished, &newer)
	createArticle(t, repo, "draft", constants.ArticleStatusDraft, nil)

	items, err := repo.Latest(10, 0)
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if len(items) != 2 || items[0].Slug != "newer" || items[1].Slug != "older" {
		t.Fatalf("unexpected latest order: %+v", items)
	}

	items, err = repo.Latest(1, 1)
	if err != nil {
		t.Fatalf("latest with offset failed: %v", err)
	}
	if len(items) != 1 || items[0].Slug != "older" {
		t.Fatalf("unexpected latest window: %+v", items)
	}
}

func TestArticleUpdateClearsPublishedAt(t *testing.T) {
	repo := NewArticleRepository(setupRepositoryTestDB(t))
	now := time.Now()
	article := createArticle(t, repo, "x", constants.ArticleStatusPublished, &now)

	article.Status = constants.ArticleStatusDraft
	article.PublishedAt = nil
	if err := repo.Update(article); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, err := repo.GetByID(article.ID)
	if err != nil || got == nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got.PublishedAt != nil {
		t.Fatalf("expected published_at cleared, got %v", got.PublishedAt)
	}

	missing, err := repo.GetByID("does-not-exist")
	if err != nil || missing != nil {
		t.Fatalf("expected nil,nil for missing article, got %v %v", missing, err)
	}

	excludeID := article.ID
	count, err := repo.CountBySlug("x", &excludeID)
	if err != nil || count != 0 {
		t.Fatalf("expected slug to be free when excluding self, got %d %v", count, err)
	}
}

func TestCourseDeleteCascades(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCourseRepository(db)

	course := &models.Course{Title: "Go", Slug: "go", Status: constants.CourseStatusDraft}
	if err := repo.Create(course); err != nil {
		t.Fatalf("create course failed: %v", err)
	}
	module := &models.CourseModule{CourseID: course.ID, Title: "intro"}
	if err := repo.CreateModule(module); err != nil {
		t.Fatalf("create module failed: %v", err)
	}
	if err := repo.CreateVideo(&models.Video{ModuleID: module.ID, Title: "v", VideoURL: "http://v"}); err != nil {
		t.Fatalf("create video failed: %v", err)
	}
	if err := repo.CreateMaterial(&models.Material{ModuleID: module.ID, Title: "m", FileURL: "http://m"}); err != nil {
		t.Fatalf("create material failed: %v", err)
	}

	tree, err := repo.GetByID(course.ID, true)
	if err != nil || tree == nil {
		t.Fatalf("get tree failed: %v", err)
	}
	if len(tree.Modules) != 1 || len(tree.Modules[0].Videos) != 1 || len(tree.Modules[0].Materials) != 1 {
		t.Fatalf("unexpected course tree: %+v", tree)
	}

	if err := repo.Delete(course.ID); err != nil {
		t.Fatalf("delete course failed: %v", err)
	}
	var videos, materials, modules int64
	db.Model(&models.Video{}).Count(&videos)
	db.Model(&models.Material{}).Count(&materials)
	db.Model(&models.CourseModule{}).Count(&modules)
	if videos+materials+modules != 0 {
		t.Fatalf("expected cascade delete, got videos=%d materials=%d modules=%d", videos, materials, modules)
	}
}

func TestProfileChangeRoleWritesAudit(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProfileRepository(db)

	profile := &models.Profile{Email: "e@example.com", Role: constants.RoleUser, PasswordHash: "x"}
	if err := repo.Create(profile); err != nil {
		t.Fatalf("create profile failed: %v", err)
	}
	audit := &models.RoleAuditLog{OperatorID: "op", TargetID: profile.ID, FromRole: constants.RoleUser, ToRole: constants.RoleEditor}
	if err := repo.ChangeRole(profile, constants.RoleEditor, audit); err != nil {
		t.Fatalf("change role failed: %v", err)
	}
	if profile.Role != constants.RoleEditor || profile.TokenVersion != 1 {
		t.Fatalf("expected reloaded profile with new role and bumped token version, got %+v", profile)
	}
	var audits int64
	db.Model(&models.RoleAuditLog{}).Count(&audits)
	if audits != 1 {
		t.Fatalf("expected one audit row, got %d", audits)
	}

	byEmail, err := repo.GetByEmail("  E@EXAMPLE.COM ")
	if err != nil || byEmail == nil || byEmail.ID != profile.ID {
		t.Fatalf("lookup by email failed: %v %v", byEmail, err)
	}
}
