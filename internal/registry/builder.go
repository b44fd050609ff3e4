package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/wcms-labs/wcms-modules/internal/logging"
	"github.com/wcms-labs/wcms-modules/internal/manifest"
	"golang.org/x/sync/errgroup"
)

// ListAggregator collects the metadata of one repository list.
type ListAggregator interface {
	AggregateList(ctx context.Context, path string, category manifest.Category) (*manifest.Manifest, error)
}

// Sources names the plugin and theme repository lists.
type Sources struct {
	Plugins string
	Themes  string
}

// Builder produces a Registry from two repository lists.
type Builder struct {
	agg ListAggregator
	now func() time.Time
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithClock overrides the timestamp source (useful for testing).
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates a Builder on top of agg.
func NewBuilder(agg ListAggregator, opts ...BuilderOption) *Builder {
	b := &Builder{agg: agg, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build aggregates both lists concurrently and merges the plugin list's
// output before the theme list's. Either failure fails the build.
func (b *Builder) Build(ctx context.Context, src Sources) (*Registry, error) {
	var plugins, themes *manifest.Manifest

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := b.agg.AggregateList(gctx, src.Plugins, manifest.CategoryPlugins)
		if err != nil {
			return fmt.Errorf("plugin list %s: %w", src.Plugins, err)
		}
		plugins = m
		return nil
	})
	g.Go(func() error {
		m, err := b.agg.AggregateList(gctx, src.Themes, manifest.CategoryThemes)
		if err != nil {
			return fmt.Errorf("theme list %s: %w", src.Themes, err)
		}
		themes = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := manifest.New()
	merged.Merge(plugins)
	merged.Merge(themes)

	r := FromManifest(merged, b.now())
	logging.FromContext(ctx).Info("registry built", "plugins", len(r.Plugins), "themes", len(r.Themes))
	return r, nil
}
