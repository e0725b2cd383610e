package sheetpipe

import (
	"strconv"
	"strings"
	"unicode"
)

// defaultArtifactName is used for sheets whose name has no safe characters
const defaultArtifactName = "sheet"

// ArtifactName derives the artifact base name from a sheet name:
// lowercase, spaces and other unsafe characters replaced by underscores,
// underscore runs collapsed and trimmed.
//
//   - "Sales Data" becomes "sales_data"
//   - "Q1 (Current)" becomes "q1_current"
func ArtifactName(sheetName string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(sheetName)) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
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

	name := strings.Trim(b.String(), "_")
	if name == "" {
		return defaultArtifactName
	}
	return name
}

// artifactNamer hands out unique artifact names within one run
type artifactNamer struct {
	seen map[string]bool
}

// newArtifactNamer creates an artifactNamer
func newArtifactNamer() *artifactNamer {
	return &artifactNamer{seen: make(map[string]bool)}
}

// next returns the artifact name of a sheet, suffixed with _1, _2, ... on collision
func (n *artifactNamer) next(sheetName string) string {
	name := ArtifactName(sheetName)
	if n.seen[name] {
		i := 1
		for n.seen[name+"_"+strconv.Itoa(i)] {
			i++
		}
		name = name + "_" + strconv.Itoa(i)
	}
	n.seen[name] = true
	return name
}
