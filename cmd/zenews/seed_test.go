package main

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ze-news/internal/config"
	"github.com/ze-news/internal/models"
	"github.com/ze-news/internal/provider"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupSeedContainer(t *testing.T) *provider.Container {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	testCfg := config.Default()
	testCfg.Storage.LocalDir = t.TempDir()
	c, err := provider.NewContainer(testCfg, db)
	if err != nil {
		t.Fatalf("new container failed: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestRunSeedIsRepeatable(t *testing.T) {
	c := setupSeedContainer(t)
	var lines []string
	report := func(format string, a ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, a...))
	}

	if err := runSeed(context.Background(), c, report); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	first := len(lines)
	if first != len(seedCategories)+len(seedArticles)+1 {
		t.Fatalf("unexpected seed report: %v", lines)
	}
	if err := runSeed(context.Background(), c, report); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if len(lines) != first {
		t.Fatalf("second run should not insert anything, got %v", lines[first:])
	}

	var articles int64
	if err := c.DB.Model(&models.Article{}).Count(&articles).Error; err != nil {
		t.Fatalf("count articles failed: %v", err)
	}
	if articles != int64(len(seedArticles)) {
		t.Fatalf("articles want %d got %d", len(seedArticles), articles)
	}
	welcome, err := c.ArticleRepo.GetBySlug("welcome-to-ze-news", true)
	if err != nil || welcome == nil || welcome.PublishedAt == nil {
		t.Fatalf("published seed article missing: %+v err=%v", welcome, err)
	}
	if !strings.Contains(welcome.Content, "<strong>verified</strong>") {
		t.Fatalf("markdown should be rendered, got %s", welcome.Content)
	}
}
