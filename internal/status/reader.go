package status

import (
	"context"

	"github.com/jackchuka/gitactivity/internal/model"
)

type Reader interface {
	GetSummary(ctx context.Context, repoPath string) (*model.RepoSummary, error)
	GetSummaryBatch(ctx context.Context, paths []string) (map[string]*model.RepoSummary, map[string]error)
}
