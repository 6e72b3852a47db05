package testhelpers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5/plumbing"
)

// CommandCall records one invocation of FakeCommandRunner
type CommandCall struct {
	Dir  string
	Name string
	Args []string
}

// String renders the call the way it would be typed in a shell
func (c CommandCall) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// FakeCommandRunner records commands instead of executing them
type FakeCommandRunner struct {
	// Errors maps a command name to the error its invocation returns
	Errors map[string]error

	mu    sync.Mutex
	calls []CommandCall
}

// NewFakeCommandRunner creates a runner where every command succeeds
func NewFakeCommandRunner() *FakeCommandRunner {
	return &FakeCommandRunner{Errors: make(map[string]error)}
}

// Run records the call and returns the configured error for name, if any
func (f *FakeCommandRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	f.mu.Lock()
	f.calls = append(f.calls, CommandCall{Dir: dir, Name: name, Args: append([]string(nil), args...)})
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return f.Errors[name]
}

// Calls returns the recorded invocations in order
func (f *FakeCommandRunner) Calls() []CommandCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CommandCall(nil), f.calls...)
}

// FakeRemote answers tag listings from memory
type FakeRemote struct {
	// Tags maps a repository URL to its tag names, in the order the remote lists them
	Tags map[string][]string
	// Errors maps a repository URL to the error its listing returns
	Errors map[string]error

	mu    sync.Mutex
	calls map[string]int
}

// NewFakeRemote creates an empty fake remote
func NewFakeRemote() *FakeRemote {
	return &FakeRemote{
		Tags:   make(map[string][]string),
		Errors: make(map[string]error),
		calls:  make(map[string]int),
	}
}

// List returns the references of url; it matches git.RefLister
func (f *FakeRemote) List(_ context.Context, url string) ([]*plumbing.Reference, error) {
	f.mu.Lock()
	f.calls[url]++
	f.mu.Unlock()

	if err := f.Errors[url]; err != nil {
		return nil, err
	}
	tags, ok := f.Tags[url]
	if !ok {
		return nil, fmt.Errorf("repository not found: %s", url)
	}

	hash := plumbing.NewHash("0123456789abcdef0123456789abcdef01234567")
	refs := []*plumbing.Reference{
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("master"), hash),
	}
	for _, tag := range tags {
		refs = append(refs, plumbing.NewHashReference(plumbing.NewTagReferenceName(tag), hash))
	}
	return refs, nil
}

// Calls returns how many times url was listed
func (f *FakeRemote) Calls(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}
