package manifest

import (
	"regexp"
	"strings"
)

// listItemMarker matches the fixed indentation for list entries: a newline,
// four spaces, a dash, and a space.
const listItemMarker = "\n    - "

var (
	namePattern        = regexp.MustCompile(`(?m)^name:[ \t]*(.+)$`)
	topLevelKeyPattern = regexp.MustCompile(`\n[a-z][a-z0-9_]*:`)
)

// Parse extracts a Manifest from raw skill document text.
// It never fails: malformed or absent structure degrades to a manifest with
// empty dependency lists.
func Parse(content string) *Manifest {
	m := &Manifest{}

	header, ok := extractHeader(content)
	if !ok {
		return m
	}

	if match := namePattern.FindStringSubmatch(header); match != nil {
		m.Name = trimQuotes(strings.TrimSpace(match[1]))
	}

	deps, ok := dependenciesBlock(header)
	if !ok {
		return m
	}

	clawText, gitText := sourceBlocks(deps)

	for _, fields := range listItems(clawText) {
		if fields["slug"] == "" {
			continue
		}
		m.ClawHub = append(m.ClawHub, ClawHubDependency{
			Slug:        fields["slug"],
			Aliases:     parseAliases(fields["aliases"]),
			Version:     fields["version"],
			Required:    fields["required"] != "false",
			Description: fields["description"],
		})
	}

	for _, fields := range listItems(gitText) {
		if fields["repo"] == "" {
			continue
		}
		m.GitHub = append(m.GitHub, GitHubDependency{
			Repo:        fields["repo"],
			Path:        fields["path"],
			Required:    fields["required"] != "false",
			Description: fields["description"],
		})
	}

	return m
}

// extractHeader returns the text between the opening "---" delimiter line
// and the next one. Returns ok=false when either delimiter is missing.
func extractHeader(content string) (string, bool) {
	if !strings.HasPrefix(strings.TrimSpace(content), "---") {
		return "", false
	}

	lines := strings.Split(content, "\n")
	startIdx := -1
	endIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			if startIdx == -1 {
				startIdx = i
			} else {
				endIdx = i
				break
			}
		}
	}
	if startIdx == -1 || endIdx == -1 {
		return "", false
	}

	return strings.Join(lines[startIdx+1:endIdx], "\n"), true
}

// dependenciesBlock slices the header from just after the top-level
// "dependencies:" key up to the next top-level key or end of header.
func dependenciesBlock(header string) (string, bool) {
	const key = "dependencies:"

	idx := -1
	if strings.HasPrefix(header, key) {
		idx = 0
	} else if i := strings.Index(header, "\n"+key); i >= 0 {
		idx = i + 1
	}
	if idx == -1 {
		return "", false
	}

	block := header[idx+len(key):]
	if loc := topLevelKeyPattern.FindStringIndex(block); loc != nil {
		block = block[:loc[0]]
	}
	return block, true
}

// sourceBlocks splits the dependencies block into the clawhub and github
// sub-blocks. Each spans from just after its own key line to the start of
// the other key (whichever comes next) or the end of the block.
func sourceBlocks(block string) (clawhub, github string) {
	clawIdx := strings.Index(block, "clawhub:")
	gitIdx := strings.Index(block, "github:")

	if clawIdx >= 0 {
		end := len(block)
		if gitIdx > clawIdx {
			end = gitIdx
		}
		clawhub = block[clawIdx+len("clawhub:") : end]
	}
	if gitIdx >= 0 {
		end := len(block)
		if clawIdx > gitIdx {
			end = clawIdx
		}
		github = block[gitIdx+len("github:") : end]
	}
	return clawhub, github
}

// listItems splits a sub-block on the fixed-indentation list-item marker and
// parses each fragment into a flat field mapping. Empty fragments are
// discarded.
func listItems(block string) []map[string]string {
	if block == "" {
		return nil
	}

	var items []map[string]string
	for _, fragment := range strings.Split(block, listItemMarker)[1:] {
		if strings.TrimSpace(fragment) == "" {
			continue
		}
		items = append(items, parseFields(fragment))
	}
	return items
}

// parseFields parses each line of a list-item fragment as "key: value".
// Lines nested deeper than the item itself still land here as flat fields;
// that is the documented one-level restriction of the dialect.
func parseFields(fragment string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(fragment, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		fields[key] = trimQuotes(strings.TrimSpace(value))
	}
	return fields
}

// parseAliases parses a bracketed, comma-separated list, stripping quote,
// bracket, and space characters from each element.
func parseAliases(raw string) []string {
	raw = strings.Trim(raw, "[]")
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var aliases []string
	for _, part := range strings.Split(raw, ",") {
		alias := strings.Trim(strings.TrimSpace(part), `"'`)
		if alias != "" {
			aliases = append(aliases, alias)
		}
	}
	return aliases
}

// trimQuotes strips surrounding quote characters from a value.
func trimQuotes(s string) string {
	return strings.Trim(s, `"'`)
}
