package notes

import (
	"reflect"
	"testing"
)

func TestExtractHandles(t *testing.T) {
	tests := []struct {
		body string
		want []string
	}{
		{"ping @marie about this", []string{"marie"}},
		{"@marie @paul please review", []string{"marie", "paul"}},
		{"@marie then @marie again", []string{"marie"}},
		{"no mentions here", nil},
		{"mail me at x@acme.fr", []string{"acme"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := ExtractHandles(tt.body)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ExtractHandles(%q) = %v, want %v", tt.body, got, tt.want)
		}
	}
}

func TestResolveMentions(t *testing.T) {
	team := []Mentionable{
		{UserID: "u1", DisplayName: "Marie Dupont", Email: "marie@acme.fr"},
		{UserID: "u2", DisplayName: "Paul Martin", Email: "paul@acme.fr"},
		{UserID: "u3", DisplayName: "Jean-Marie Roche", Email: "jm@acme.fr"},
	}

	// Display name match, case-insensitive
	got := ResolveMentions("ask @PAUL", team)
	if len(got) != 1 || got[0].UserID != "u2" {
		t.Errorf("ResolveMentions(@PAUL) = %v", got)
	}

	// "marie" is contained in two display names; first match wins and
	// each user appears once
	got = ResolveMentions("@marie should see this, @marie", team)
	if len(got) != 1 || got[0].UserID != "u1" {
		t.Errorf("ResolveMentions(@marie x2) = %v", got)
	}

	// Email match
	got = ResolveMentions("cc @jm", team)
	if len(got) != 1 || got[0].UserID != "u3" {
		t.Errorf("ResolveMentions(@jm) = %v", got)
	}

	// Unmatched handles are dropped
	if got := ResolveMentions("hello @ghost", team); len(got) != 0 {
		t.Errorf("ResolveMentions(@ghost) = %v", got)
	}

	// Multiple distinct mentions keep body order
	got = ResolveMentions("@paul then @jm", team)
	if len(got) != 2 || got[0].UserID != "u2" || got[1].UserID != "u3" {
		t.Errorf("ResolveMentions(two handles) = %v", got)
	}
}
