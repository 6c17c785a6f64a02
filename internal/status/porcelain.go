package status

import (
	"strings"

	"github.com/jackchuka/gitactivity/internal/model"
)

func parsePorcelainV2(output string) *model.RepoSummary {
	summary := &model.RepoSummary{}

	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}

		// Header lines start with #
		if strings.HasPrefix(line, "# ") {
			parseHeaderLine(line, summary)
			continue
		}

		// Ignored files don't make a tree dirty
		if strings.HasPrefix(line, "! ") {
			continue
		}

		// Changed, renamed, unmerged or untracked entries
		summary.Dirty = true
	}

	return summary
}

func parseHeaderLine(line string, summary *model.RepoSummary) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 3 {
		return
	}

	key := parts[1]
	value := parts[2]

	switch key {
	case "branch.oid":
		if len(value) >= 7 && value != "(initial)" {
			summary.CommitHash = value[:7]
		}
	case "branch.head":
		if value == "(detached)" {
			summary.DetachedHead = true
		} else {
			summary.Branch = value
		}
	}
}
