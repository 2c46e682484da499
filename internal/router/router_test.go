package router

import (
	"testing"

	"github.com/medportal/portal/internal/core/domain"
	"github.com/medportal/portal/internal/session"
)

func snapshotFor(role domain.Role) session.Snapshot {
	if role == "" {
		return session.Snapshot{State: session.StateAnonymous}
	}
	return session.Snapshot{
		Identity:   &domain.Identity{ID: "u1", Role: role},
		Credential: "tok",
		State:      session.StateAuthenticated,
	}
}

func TestSelectChrome_IgnoresRole(t *testing.T) {
	cases := []struct {
		path string
		want Chrome
	}{
		{"/login", ChromeNone},
		{"/register", ChromeNone},
		{"/login?next=/admin", ChromeNone},
		{"/admin/dashboard", ChromeAdmin},
		{"/admin", ChromeAdmin},
		{"/doctor/dashboard", ChromeDoctor},
		{"/doctor", ChromeDoctor},
		{"/dashboard", ChromeDefault},
		{"/appointments/42", ChromeDefault},
		{"/", ChromeDefault},
		{"", ChromeDefault},
	}
	roles := []domain.Role{"", domain.RolePatient, domain.RoleDoctor, domain.RoleAdmin}

	for _, tc := range cases {
		for _, role := range roles {
			if got := SelectChrome(tc.path, snapshotFor(role)); got != tc.want {
				t.Fatalf("SelectChrome(%q, %q) = %s, want %s", tc.path, role, got, tc.want)
			}
		}
	}
}

func TestSelectChrome_AuthPathsWinOverPrefixes(t *testing.T) {
	if got := SelectChrome("/login/", snapshotFor(domain.RoleAdmin)); got != ChromeNone {
		t.Fatalf("expected no chrome on /login/, got %s", got)
	}
}

func TestChromeLinks(t *testing.T) {
	if ChromeNone.Links() != nil {
		t.Fatalf("auth pages have no links")
	}
	for _, c := range []Chrome{ChromeAdmin, ChromeDoctor, ChromeDefault} {
		links := c.Links()
		if len(links) == 0 {
			t.Fatalf("%s chrome has no links", c)
		}
		seen := map[string]bool{}
		for _, l := range links {
			if seen[l.Path] {
				t.Fatalf("%s chrome repeats %s", c, l.Path)
			}
			seen[l.Path] = true
		}
	}
	if ChromeAdmin.Links()[0].Path != "/admin/dashboard" {
		t.Fatalf("admin chrome must lead with its dashboard")
	}
}

func TestGuard(t *testing.T) {
	cases := []struct {
		name string
		snap session.Snapshot
		want Decision
	}{
		{"uninitialized", session.Snapshot{}, Decision{Outcome: OutcomeLoading}},
		{"loading", session.Snapshot{State: session.StateLoading}, Decision{Outcome: OutcomeLoading}},
		{"anonymous", snapshotFor(""), Decision{Outcome: OutcomeRedirect, Redirect: "/login"}},
		{"patient", snapshotFor(domain.RolePatient), Decision{Outcome: OutcomeRender}},
		{"doctor", snapshotFor(domain.RoleDoctor), Decision{Outcome: OutcomeRender}},
		{"admin", snapshotFor(domain.RoleAdmin), Decision{Outcome: OutcomeRender}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Guard(tc.snap); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}
