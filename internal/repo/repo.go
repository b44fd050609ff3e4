// Package repo resolves repository URLs into the raw-content, archive, and
// browsable URLs of a single branch. Only GitHub repositories are recognized.
package repo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/wcms-labs/wcms-modules/internal/logging"
)

const (
	defaultGitHubBase = "https://github.com"
	defaultRawBase    = "https://raw.githubusercontent.com"
)

// DefaultBranches are probed in order when a URL has no branch segment.
var DefaultBranches = []string{"master", "main"}

var (
	// ErrUnsupportedRepo is returned for URLs outside the recognized host pattern.
	ErrUnsupportedRepo = errors.New("unsupported repository")
	// ErrBranchNotFound is returned when no default branch guess responds.
	ErrBranchNotFound = errors.New("could not determine default branch")
)

var githubPattern = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+)(?:/tree/([^/]+))?`)

// Reference is a parsed repository URL. Branch is empty when the URL did not
// name one.
type Reference struct {
	URL    string
	Owner  string
	Name   string
	Branch string
}

// Resolved holds the URLs derived from a repository and branch.
type Resolved struct {
	Owner     string `json:"owner"`
	Name      string `json:"name"`
	Branch    string `json:"branch"`
	RawPrefix string `json:"rawPrefix"`
	ZipURL    string `json:"zipUrl"`
	HTMLURL   string `json:"htmlUrl"`
}

// Prober reports whether a URL answers a HEAD request with a 2xx status.
type Prober interface {
	Exists(ctx context.Context, url string) (bool, error)
}

// Parse matches url against https://github.com/<owner>/<repo>[/tree/<branch>].
// Anything after the branch segment is ignored.
func Parse(url string) (Reference, error) {
	m := githubPattern.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return Reference{}, fmt.Errorf("%w %s", ErrUnsupportedRepo, url)
	}
	return Reference{URL: url, Owner: m[1], Name: m[2], Branch: m[3]}, nil
}

// Resolver turns repository URLs into Resolved values.
type Resolver struct {
	prober     Prober
	githubBase string
	rawBase    string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithGitHubBase overrides https://github.com (useful for testing).
func WithGitHubBase(base string) Option {
	return func(r *Resolver) {
		r.githubBase = strings.TrimRight(base, "/")
	}
}

// WithRawBase overrides https://raw.githubusercontent.com (useful for testing).
func WithRawBase(base string) Option {
	return func(r *Resolver) {
		r.rawBase = strings.TrimRight(base, "/")
	}
}

// NewResolver creates a Resolver that probes branches through p.
func NewResolver(p Prober, opts ...Option) *Resolver {
	r := &Resolver{
		prober:     p,
		githubBase: defaultGitHubBase,
		rawBase:    defaultRawBase,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve parses url and, when it has no branch, picks the first entry of
// DefaultBranches whose tree page exists.
func (r *Resolver) Resolve(ctx context.Context, url string) (Resolved, error) {
	ref, err := Parse(url)
	if err != nil {
		return Resolved{}, err
	}

	if ref.Branch == "" {
		branch, err := r.guessBranch(ctx, ref)
		if err != nil {
			return Resolved{}, err
		}
		ref.Branch = branch
	}

	return r.ForBranch(ref), nil
}

// ForBranch builds the URLs for a reference whose branch is known. It does
// no network I/O.
func (r *Resolver) ForBranch(ref Reference) Resolved {
	return Resolved{
		Owner:     ref.Owner,
		Name:      ref.Name,
		Branch:    ref.Branch,
		RawPrefix: fmt.Sprintf("%s/%s/%s/%s", r.rawBase, ref.Owner, ref.Name, ref.Branch),
		ZipURL:    fmt.Sprintf("%s/%s/%s/archive/%s.zip", r.githubBase, ref.Owner, ref.Name, ref.Branch),
		HTMLURL:   r.treeURL(ref.Owner, ref.Name, ref.Branch),
	}
}

func (r *Resolver) treeURL(owner, name, branch string) string {
	return fmt.Sprintf("%s/%s/%s/tree/%s", r.githubBase, owner, name, branch)
}

func (r *Resolver) guessBranch(ctx context.Context, ref Reference) (string, error) {
	for _, guess := range DefaultBranches {
		ok, err := r.prober.Exists(ctx, r.treeURL(ref.Owner, ref.Name, guess))
		if err != nil {
			return "", fmt.Errorf("probing branch %s of %s: %w", guess, ref.URL, err)
		}
		if ok {
			logging.FromContext(ctx).Debug("guessed default branch", "repo", ref.URL, "branch", guess)
			return guess, nil
		}
	}
	return "", fmt.Errorf("%w for %s", ErrBranchNotFound, ref.URL)
}
