package aggregate

import (
	"context"
	"fmt"

	"github.com/wcms-labs/wcms-modules/internal/logging"
	"github.com/wcms-labs/wcms-modules/internal/manifest"
	"github.com/wcms-labs/wcms-modules/internal/metadata"
	"github.com/wcms-labs/wcms-modules/internal/repo"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency keeps fetches within one list sequential.
const DefaultConcurrency = 1

// Resolver turns a repository URL into its branch URLs.
type Resolver interface {
	Resolve(ctx context.Context, url string) (repo.Resolved, error)
}

// Fetcher retrieves the metadata of a resolved repository.
type Fetcher interface {
	Fetch(ctx context.Context, repoURL string, r repo.Resolved, category manifest.Category) (*metadata.Result, error)
}

// Aggregator collects metadata for lists of repositories.
type Aggregator struct {
	resolver    Resolver
	fetcher     Fetcher
	concurrency int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithConcurrency sets how many repositories of one list are fetched at
// once. Values below one are treated as one.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n < 1 {
			n = 1
		}
		a.concurrency = n
	}
}

// New creates an Aggregator.
func New(resolver Resolver, fetcher Fetcher, opts ...Option) *Aggregator {
	a := &Aggregator{
		resolver:    resolver,
		fetcher:     fetcher,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AggregateList reads the list at path and aggregates it.
func (a *Aggregator) AggregateList(ctx context.Context, path string, category manifest.Category) (*manifest.Manifest, error) {
	urls, err := ReadList(path)
	if err != nil {
		return nil, err
	}
	return a.Aggregate(ctx, urls, category)
}

// Aggregate fetches metadata for every URL and merges the results in list
// order, so a later entry wins over an earlier one with the same directory
// name. The first failure cancels the remaining fetches and is returned.
func (a *Aggregator) Aggregate(ctx context.Context, urls []string, category manifest.Category) (*manifest.Manifest, error) {
	results := make([]*manifest.Manifest, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, url := range urls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := a.fetchOne(gctx, url, category)
			if err != nil {
				return err
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregating %s: %w", category, err)
	}

	out := manifest.New()
	for _, m := range results {
		out.Merge(m)
	}
	return out, nil
}

func (a *Aggregator) fetchOne(ctx context.Context, url string, category manifest.Category) (*manifest.Manifest, error) {
	resolved, err := a.resolver.Resolve(ctx, url)
	if err != nil {
		return nil, err
	}

	res, err := a.fetcher.Fetch(ctx, url, resolved, category)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	logger.Info("metadata fetched", "repo", url, "branch", resolved.Branch, "source", res.Kind.String())
	for _, c := range manifest.Categories {
		mods := res.Manifest.Modules(c)
		for _, dir := range mods.Names() {
			logger.Info(fmt.Sprintf("%s %s @ v%s", c.Label(), dir, mods[dir].Version))
		}
	}
	return res.Manifest, nil
}
