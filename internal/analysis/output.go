package analysis

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Success lines printed by the report scripts; artifacts are always PNG.
// The single-repo phrase is tried first, whatever mode ran.
var artifactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`Grafico generato con successo: (.*\.png)`),
	regexp.MustCompile(`Report multi-progetto .* generato con successo: (.*\.png)`),
}

// ParseArtifact scans script output for a success line and returns the
// artifact path as printed.
func ParseArtifact(stdout string) (string, bool) {
	for _, re := range artifactPatterns {
		m := re.FindStringSubmatch(stdout)
		if m == nil {
			continue
		}
		if name := strings.TrimSpace(m[1]); name != "" {
			return name, true
		}
	}
	return "", false
}

// ResolveArtifact makes a printed artifact path absolute. Relative paths
// are resolved against baseDir, the first requested repository.
func ResolveArtifact(name, baseDir string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(baseDir, name)
}
