package watcher

import "context"

// RepoWatcher delivers an Event each time new commits land in one of the
// watched repositories. Poller is the only implementation.
type RepoWatcher interface {
	Watch(repoPath string) error
	Unwatch(repoPath string)
	Events() <-chan Event
	Run(ctx context.Context)
	Close() error
}
