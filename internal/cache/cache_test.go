package cache

import (
	"context"
	"testing"
	"time"

	"github.com/ze-news/internal/config"
	"github.com/ze-news/internal/models"
)

func TestDisabledStoreIsNoop(t *testing.T) {
	store := New(&config.RedisConfig{Enabled: false})
	if store.Enabled() {
		t.Fatalf("expected disabled store")
	}
	ctx := context.Background()
	if err := store.SetJSON(ctx, "k", map[string]string{"a": "b"}, time.Minute); err != nil {
		t.Fatalf("set on disabled store failed: %v", err)
	}
	var dest map[string]string
	hit, err := store.GetJSON(ctx, "k", &dest)
	if err != nil || hit {
		t.Fatalf("expected miss without error, hit=%v err=%v", hit, err)
	}
	if n, err := store.Incr(ctx, "counter"); err != nil || n != 0 {
		t.Fatalf("expected zero incr, n=%d err=%v", n, err)
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping on disabled store failed: %v", err)
	}
}

func TestKeyPrefix(t *testing.T) {
	store := NewWithClient(nil, "  ")
	if got := store.Key("auth:profile:1"); got != "zenews:auth:profile:1" {
		t.Fatalf("unexpected key: %s", got)
	}
	store = NewWithClient(nil, "zn")
	if got := store.Key(""); got != "zn" {
		t.Fatalf("unexpected empty key: %s", got)
	}
}

func TestBuildProfileAuthState(t *testing.T) {
	if BuildProfileAuthState(nil) != nil {
		t.Fatalf("nil profile should produce nil state")
	}
	invalidBefore := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	state := BuildProfileAuthState(&models.Profile{
		ID:                 "p-1",
		Email:              "editor@zenews.local",
		Role:               "editor",
		TokenVersion:       3,
		TokenInvalidBefore: &invalidBefore,
	})
	if state.ProfileID != "p-1" || state.Role != "editor" || state.TokenVersion != 3 {
		t.Fatalf("unexpected state: %+v", state)
	}
	if state.TokenInvalidBefore != invalidBefore.Unix() {
		t.Fatalf("unexpected invalid before: %d", state.TokenInvalidBefore)
	}
}

func TestLatestArticlesDisabled(t *testing.T) {
	c := NewLatestArticles(NewWithClient(nil, ""))
	ctx := context.Background()
	if err := c.SetLatest(ctx, 10, 0, []models.Article{{Title: "a"}}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, hit, err := c.GetLatest(ctx, 10, 0); hit || err != nil {
		t.Fatalf("expected miss, hit=%v err=%v", hit, err)
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
}

func TestLatestPageKeyChangesWithGeneration(t *testing.T) {
	if latestPageKey(1, 10, 0) == latestPageKey(2, 10, 0) {
		t.Fatalf("generation must be part of the key")
	}
	if got := latestPageKey(0, 5, 10); got != "articles:latest:v0:5:10" {
		t.Fatalf("unexpected page key: %s", got)
	}
}
