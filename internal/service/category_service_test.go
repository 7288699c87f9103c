package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ze-news/internal/constants"
	"github.com/ze-news/internal/models"
	"github.com/ze-news/internal/repository"
)

func TestCategoryLifecycle(t *testing.T) {
	db := setupServiceTestDB(t)
	articles := repository.NewArticleRepository(db)
	cache := newFakeLatestCache()
	svc := NewCategoryService(repository.NewCategoryRepository(db), articles, cache)

	created, err := svc.Create(CategoryInput{Name: "Local News"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Slug != "local-news" {
		t.Fatalf("expected generated slug, got %s", created.Slug)
	}
	if _, err := svc.Create(CategoryInput{Name: "Other", Slug: "Local News"}); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
	if _, err := svc.Create(CategoryInput{Name: "  "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := articles.Create(&models.Article{
		Title:      "Council vote",
		Slug:       "council-vote",
		Content:    "<p>x</p>",
		Status:     constants.ArticleStatusDraft,
		Categories: models.StringArray{"local-news"},
	}); err != nil {
		t.Fatalf("create article failed: %v", err)
	}

	if _, err := svc.Update(created.ID, CategoryInput{Name: "Local", Slug: "local"}); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("renaming a referenced slug should fail, got %v", err)
	}
	updated, err := svc.Update(created.ID, CategoryInput{Name: "Local", Slug: "local-news", SortOrder: 3})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Local" || updated.SortOrder != 3 {
		t.Fatalf("unexpected category: %+v", updated)
	}

	ctx := context.Background()
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("expected ErrCategoryInUse, got %v", err)
	}
	if err := svc.Delete(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	spare, err := svc.Create(CategoryInput{Name: "Spare"})
	if err != nil {
		t.Fatalf("create spare failed: %v", err)
	}
	if err := svc.Delete(ctx, spare.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if cache.invalidated != 1 {
		t.Fatalf("expected latest cache invalidation, got %d", cache.invalidated)
	}
}
