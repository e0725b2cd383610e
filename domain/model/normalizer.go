package model

import (
	"strconv"
	"strings"
)

// Replacement is a literal substring substitution applied while cleaning header labels
type Replacement struct {
	From string
	To   string
}

// DefaultReplacements is the substitution table applied, in order, before character cleanup.
var DefaultReplacements = []Replacement{
	{From: "(mm/dd/yyyy)", To: "date"},
	{From: "($)", To: "usd"},
	{From: "(#)", To: "number"},
	{From: "(type)", To: "type"},
	{From: "(current)", To: "current"},
	{From: "[current]", To: "current"},
	{From: "&", To: "and"},
	{From: "@", To: "at"},
}

// digitPrefix is prepended to names that would otherwise start with a digit
const digitPrefix = "col_"

// Normalizer turns raw header labels into unique identifiers matching [a-z0-9_]*.
type Normalizer struct {
	replacements []Replacement
}

// NewNormalizer creates a Normalizer with the given substitution table.
// A nil table means DefaultReplacements.
func NewNormalizer(replacements []Replacement) *Normalizer {
	if replacements == nil {
		replacements = DefaultReplacements
	}
	cp := make([]Replacement, len(replacements))
	copy(cp, replacements)
	return &Normalizer{replacements: cp}
}

// Normalize returns one clean, unique name per label, in input order.
func (n *Normalizer) Normalize(labels []HeaderLabel) []string {
	raw := make([]string, len(labels))
	for i, label := range labels {
		raw[i] = label.Raw()
	}
	return n.NormalizeStrings(raw)
}

// NormalizeStrings is Normalize for already flattened labels.
func (n *Normalizer) NormalizeStrings(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	names := make([]string, 0, len(labels))
	for _, label := range labels {
		name := n.Clean(label)
		if seen[name] {
			i := 1
			for seen[name+"_"+strconv.Itoa(i)] {
				i++
			}
			name = name + "_" + strconv.Itoa(i)
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Clean normalizes a single label without deduplication.
func (n *Normalizer) Clean(label string) string {
	name := strings.TrimSpace(strings.ToLower(label))
	for _, r := range n.replacements {
		name = strings.ReplaceAll(name, r.From, r.To)
	}

	var b strings.Builder
	b.Grow(len(name))
	lastUnderscore := false
	for _, r := range name {
		if !isIdentRune(r) {
			r = '_'
		}
		if r == '_' {
			if lastUnderscore {
				continue
			}
			lastUnderscore = true
		} else {
			lastUnderscore = false
		}
		b.WriteRune(r)
	}

	name = strings.Trim(b.String(), "_")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = digitPrefix + name
	}
	return name
}

// isIdentRune reports whether r may appear in a clean name
func isIdentRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}
