package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ze-news/internal/models"
	"github.com/ze-news/internal/repository"
)

const snapshotPage = `<!doctype html>
<html><head><title>City council confirms bridge closure</title></head>
<body>
<nav>Home | Politics | World</nav>
<article>
<h1>City council confirms bridge closure</h1>
<p>The city council voted on Monday to close the old bridge for repairs starting next week.
Engineers found corrosion in several load-bearing beams during the spring inspection.</p>
<p>Traffic will be diverted through the northern ring road while the work is carried out,
and ferry services will run every twenty minutes during peak hours.</p>
<p>Officials expect the bridge to reopen before the end of the year if the weather allows.</p>
</article>
<footer>Copyright</footer>
</body></html>`

func TestSourceSnapshotCapture(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(snapshotPage))
	}))
	defer server.Close()

	db := setupServiceTestDB(t)
	repo := repository.NewFactCheckRepository(db)
	item := &models.FactCheck{Claim: "The bridge is closing", Status: "pending"}
	if err := repo.Create(item); err != nil {
		t.Fatalf("create fact check failed: %v", err)
	}

	svc := NewSourceSnapshotService(repo, 5*time.Second, 80, nopLogger()).WithPrivateNetworks(true)
	snapshot, err := svc.Capture(context.Background(), item.ID, server.URL+"/story")
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	if !strings.Contains(snapshot.Title, "bridge closure") {
		t.Fatalf("unexpected title: %q", snapshot.Title)
	}
	if snapshot.Excerpt == "" || len([]rune(snapshot.Excerpt)) > 81 {
		t.Fatalf("unexpected excerpt: %q", snapshot.Excerpt)
	}

	stored, err := repo.GetByID(item.ID)
	if err != nil || stored.SourceTitle == nil || *stored.SourceTitle != snapshot.Title {
		t.Fatalf("snapshot not stored: %+v err=%v", stored, err)
	}
}

func TestSourceSnapshotErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	db := setupServiceTestDB(t)
	repo := repository.NewFactCheckRepository(db)
	svc := NewSourceSnapshotService(repo, time.Second, 0, nopLogger()).WithPrivateNetworks(true)

	if _, err := svc.Capture(context.Background(), "missing", server.URL); err != ErrFactCheckNotFound {
		t.Fatalf("expected ErrFactCheckNotFound, got %v", err)
	}
	if _, err := svc.Fetch(context.Background(), server.URL); err == nil {
		t.Fatalf("expected error for 404 source")
	}
	if _, err := svc.Fetch(context.Background(), "mailto:a@example.com"); err != ErrInvalidSourceURL {
		t.Fatalf("expected ErrInvalidSourceURL, got %v", err)
	}
}

func TestSourceSnapshotRefusesInternalAddresses(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>internal-admin</title></head><body>db_password=secret</body></html>`))
	}))
	defer server.Close()

	svc := NewSourceSnapshotService(nil, time.Second, 0, nopLogger())
	snapshot, err := svc.Fetch(context.Background(), server.URL+"/admin")
	if !errors.Is(err, ErrSourceAddressBlocked) || !errors.Is(err, ErrInvalidSourceURL) {
		t.Fatalf("expected ErrSourceAddressBlocked, got snapshot=%+v err=%v", snapshot, err)
	}
	if hits != 0 {
		t.Fatalf("internal server must not be reached, hits=%d", hits)
	}

	redirector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://169.254.169.254/latest/meta-data/", http.StatusFound)
	}))
	defer redirector.Close()
	allowOrigin := NewSourceSnapshotService(nil, time.Second, 0, nopLogger())
	allowOrigin.client.CheckRedirect = newSnapshotClient(time.Second, false).CheckRedirect
	allowOrigin.client.Transport = newSnapshotClient(time.Second, true).Transport
	if _, err := allowOrigin.Fetch(context.Background(), redirector.URL); !errors.Is(err, ErrSourceAddressBlocked) {
		t.Fatalf("expected redirect to metadata address to be blocked, got %v", err)
	}
}

func TestCheckSourceIP(t *testing.T) {
	cases := []struct {
		ip      string
		blocked bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"172.16.0.9", true},
		{"192.168.1.1", true},
		{"169.254.169.254", true},
		{"100.64.0.1", true},
		{"0.0.0.0", true},
		{"::1", true},
		{"fe80::1", true},
		{"fd00::1", true},
		{"93.184.216.34", false},
		{"2606:4700:4700::1111", false},
	}
	for _, tc := range cases {
		err := checkSourceIP(net.ParseIP(tc.ip))
		if tc.blocked != (err != nil) {
			t.Fatalf("%s: blocked=%v err=%v", tc.ip, tc.blocked, err)
		}
	}
}
