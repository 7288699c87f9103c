package main

import "testing"

func TestChangePolicy(t *testing.T) {
	c := setupSeedContainer(t)
	svc := c.AuthzService

	if err := changePolicy(svc, true, []string{"user", "/fact-checks", "POST"}); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if allow, _ := svc.EnforceRole("user", "/api/fact-checks", "POST"); !allow {
		t.Fatalf("expected user to be allowed after grant")
	}
	if err := changePolicy(svc, false, []string{"user", "/fact-checks", "POST"}); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if allow, _ := svc.EnforceRole("user", "/api/fact-checks", "POST"); allow {
		t.Fatalf("expected user to be denied after revoke")
	}
	if err := changePolicy(svc, true, []string{"user", "/fact-checks"}); err == nil {
		t.Fatalf("expected error for missing action")
	}
}
