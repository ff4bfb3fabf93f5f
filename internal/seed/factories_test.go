package seed

import (
	"strings"
	"testing"
	"time"

	"bloghub/internal/models"
	"bloghub/internal/richtext"
)

func TestBuildPost_ContentIsValidDelta(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true, MaxDays: 30})
	user := &models.User{ID: 1}

	p := f.BuildPost(user)

	doc, err := richtext.Parse(p.Content)
	if err != nil {
		t.Fatalf("seeded content is not a valid delta: %v", err)
	}
	if doc.IsEmpty() {
		t.Fatalf("seeded content is empty")
	}
	if p.Slug == "" || strings.ContainsAny(p.Slug, " .") {
		t.Fatalf("unexpected slug: %q", p.Slug)
	}

	// timestamp should be within MaxDays
	if time.Since(p.CreatedAt) > 31*24*time.Hour {
		t.Fatalf("created_at too old: %v", p.CreatedAt)
	}
}

func TestBuildUser_Defaults(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true})

	u := f.BuildUser()
	if u.Username == "" || u.Email == "" {
		t.Fatalf("expected username and email, got %+v", u)
	}
	if u.Role != models.RoleAuthor {
		t.Fatalf("expected author role, got %q", u.Role)
	}
	if u.Username != strings.ToLower(u.Username) {
		t.Fatalf("username not lowercased: %q", u.Username)
	}
}
