package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// BinaryFileSentinel is returned in place of file content that cannot be
// decoded as text.
const BinaryFileSentinel = "[binary file — content not displayable]"

var (
	// ErrNotFound means the repository (or a requested path inside it)
	// does not exist or is not accessible.
	ErrNotFound = errors.New("repository not found")

	// ErrRateLimited means the upstream host rejected a request due to
	// quota exhaustion.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// ID identifies a repository on a host.
type ID struct {
	Owner string
	Name  string
}

func (id ID) String() string { return id.Owner + "/" + id.Name }

// Source is the repository-source capability: it yields a skip-filtered,
// depth- and call-count-bounded tree listing and individual file contents.
// Implementations must map upstream failures onto ErrNotFound and
// ErrRateLimited via error wrapping; any other error is a transport or
// protocol failure.
type Source interface {
	// FetchTree returns the filtered tree, expanded level by level up to
	// maxDepth directory levels and at most maxCalls upstream requests.
	// The listing may therefore be partial; callers must tolerate that.
	FetchTree(ctx context.Context, id ID, maxDepth, maxCalls int) ([]Entry, error)

	// FetchFile returns the decoded text of one file. Content that is not
	// valid text yields BinaryFileSentinel, not an error.
	FetchFile(ctx context.Context, id ID, path string) (string, error)

	Close() error
}

// SourceFactory constructs a Source for a given provider.
type SourceFactory func(ctx context.Context) (Source, error)

var (
	sourceMu        sync.RWMutex
	sourceFactories = map[string]SourceFactory{}
)

// RegisterSource makes a provider constructible by name. Later
// registrations under the same name replace earlier ones.
func RegisterSource(name string, f SourceFactory) {
	sourceMu.Lock()
	defer sourceMu.Unlock()
	sourceFactories[name] = f
}

// NewSource constructs the Source registered under name.
func NewSource(ctx context.Context, name string) (Source, error) {
	sourceMu.RLock()
	f, ok := sourceFactories[name]
	sourceMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("repo: unknown source provider %q (have %v)", name, sourceNames())
	}
	return f(ctx)
}

func sourceNames() []string {
	names := make([]string, 0, len(sourceFactories))
	for n := range sourceFactories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
