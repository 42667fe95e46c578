// Package notes provides the secondary contact-touch entities
// (interactions, reminders, internal team notes) and the @mention
// extraction feeding the notification fan-out.
package notes

import (
	"regexp"
	"strings"
)

var mentionRegex = regexp.MustCompile(`@(\w+)`)

// Mentionable is anyone an @mention can resolve to.
type Mentionable struct {
	UserID      string
	DisplayName string
	Email       string
}

// ExtractHandles returns the raw @handle tokens in a note body, in
// order of appearance, duplicates removed.
func ExtractHandles(body string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range mentionRegex.FindAllStringSubmatch(body, -1) {
		h := m[1]
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	return out
}

// ResolveMentions matches the handles in a body against the tenant's
// members: a handle matches a user whose display name or email
// contains it, case-insensitively. Each user is reported at most once.
// Handles matching nobody are dropped silently.
func ResolveMentions(body string, users []Mentionable) []Mentionable {
	var out []Mentionable
	matched := make(map[string]bool)
	for _, h := range ExtractHandles(body) {
		needle := strings.ToLower(h)
		for _, u := range users {
			if matched[u.UserID] {
				continue
			}
			if strings.Contains(strings.ToLower(u.DisplayName), needle) ||
				strings.Contains(strings.ToLower(u.Email), needle) {
				matched[u.UserID] = true
				out = append(out, u)
				break
			}
		}
	}
	return out
}
