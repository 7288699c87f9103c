package queue

import (
	"encoding/json"
	"testing"

	"github.com/ze-news/internal/config"
)

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("expected disabled client")
	}
	if err := client.EnqueueFactCheckStatusEmail(FactCheckStatusEmailPayload{FactCheckID: "fc-1", Status: "verified"}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestSourceSnapshotTaskPayload(t *testing.T) {
	task, err := NewFactCheckSourceSnapshotTask(FactCheckSourceSnapshotPayload{FactCheckID: "fc-2", SourceURL: "https://example.com/a"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != TaskFactCheckSourceSnapshot {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	var payload FactCheckSourceSnapshotPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("decode payload failed: %v", err)
	}
	if payload.SourceURL != "https://example.com/a" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Port: 6380, Concurrency: 4})
	if opt.Addr != "127.0.0.1:6380" {
		t.Fatalf("unexpected addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 4 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}
