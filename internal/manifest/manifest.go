// Package manifest parses skill dependency declarations from a skill
// document's header block.
//
// The header is the text between two "---" delimiter lines at the top of the
// document. Within it, a top-level "dependencies:" key holds "clawhub:" and
// "github:" lists of flat key/value records. The supported dialect is
// deliberately narrow: list items are matched by fixed four-space
// indentation, and keys nested deeper than one level inside a list item are
// treated as additional flat fields of that item rather than parsed
// recursively.
package manifest

import "strings"

// SkillFilename is the standard filename for skill documents.
const SkillFilename = "SKILL.md"

// Manifest is the parsed dependency declaration from a skill document.
type Manifest struct {
	// Name is the skill's declared name, empty if absent.
	Name string
	// ClawHub holds registry-backed dependencies in declaration order.
	ClawHub []ClawHubDependency
	// GitHub holds repository-backed dependencies in declaration order.
	GitHub []GitHubDependency
}

// Total returns the total number of declared dependencies.
func (m *Manifest) Total() int {
	return len(m.ClawHub) + len(m.GitHub)
}

// ClawHubDependency is a dependency installed via the clawhub registry.
type ClawHubDependency struct {
	// Slug is the canonical registry identifier. Never empty in parsed output.
	Slug string
	// Aliases are alternate identifiers that also satisfy this dependency.
	Aliases []string
	// Version is an optional version constraint passed to the registry tool.
	Version string
	// Required marks the dependency as mandatory. Defaults to true; false
	// only when the declared value is the literal string "false".
	Required bool
	// Description is free-form text shown in list mode.
	Description string
}

// Identifiers returns the full identity set for presence checks:
// the slug plus all aliases.
func (d ClawHubDependency) Identifiers() []string {
	ids := make([]string, 0, 1+len(d.Aliases))
	ids = append(ids, d.Slug)
	ids = append(ids, d.Aliases...)
	return ids
}

// GitHubDependency is a dependency installed via a git sparse checkout.
type GitHubDependency struct {
	// Repo is the "owner/name" repository reference. Never empty in parsed output.
	Repo string
	// Path is the subdirectory within the repository to install.
	Path string
	// Required marks the dependency as mandatory, same default rule as
	// ClawHubDependency.
	Required bool
	// Description is free-form text shown in list mode.
	Description string
}

// LocalSlug derives the installed-state identifier from the final segment of
// the declared path. Empty when no usable segment exists.
func (d GitHubDependency) LocalSlug() string {
	p := strings.Trim(d.Path, "/")
	if p == "" {
		return ""
	}
	if idx := strings.LastIndex(p, "/"); idx >= 0 {
		return p[idx+1:]
	}
	return p
}
