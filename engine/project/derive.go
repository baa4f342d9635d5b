package project

import (
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeriveSlug returns the directory-safe form of a project name,
// e.g. "Agent Backend" -> "agent-backend".
func DeriveSlug(name string) string {
	return slug.Make(name)
}

// DeriveTitle converts a slug back into a display name,
// e.g. "agent-backend" -> "Agent Backend". Used when a generation starts
// from a directory argument instead of a project name.
func DeriveTitle(s string) string {
	spaced := strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return cases.Title(language.English).String(spaced)
}
