// Package metadata fetches the module metadata of one resolved repository,
// either from its wcms-modules.json manifest or, for repositories predating
// the manifest format, from the legacy summary/version/preview files.
package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/wcms-labs/wcms-modules/internal/branding"
	"github.com/wcms-labs/wcms-modules/internal/logging"
	"github.com/wcms-labs/wcms-modules/internal/manifest"
	"github.com/wcms-labs/wcms-modules/internal/repo"
)

// Legacy convention file names at the repository root.
const (
	summaryFile = "summary"
	versionFile = "version"
)

// PreviewFiles are probed in order; the first that exists becomes the image.
var PreviewFiles = []string{"preview.png", "preview.jpg"}

// Source is the HTTP surface the fetcher needs.
type Source interface {
	Get(ctx context.Context, url string) ([]byte, error)
	Exists(ctx context.Context, url string) (bool, error)
}

// Kind tells where a Result came from.
type Kind int

const (
	// KindManifest means the repository shipped a manifest, used as-is.
	KindManifest Kind = iota
	// KindLegacy means the manifest was synthesized from convention files.
	KindLegacy
)

func (k Kind) String() string {
	switch k {
	case KindManifest:
		return "manifest"
	case KindLegacy:
		return "legacy"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Result is the metadata of one repository.
type Result struct {
	Kind     Kind
	Manifest *manifest.Manifest
}

// Fetcher retrieves module metadata.
type Fetcher struct {
	src Source
}

// NewFetcher creates a Fetcher that reads through src.
func NewFetcher(src Source) *Fetcher {
	return &Fetcher{src: src}
}

// Fetch returns the metadata of r. category is where a legacy module is
// filed; manifests carry their own sections. Every error names repoURL.
func (f *Fetcher) Fetch(ctx context.Context, repoURL string, r repo.Resolved, category manifest.Category) (*Result, error) {
	manifestURL := r.RawPrefix + "/" + branding.ManifestFile()
	ok, err := f.src.Exists(ctx, manifestURL)
	if err != nil {
		return nil, fmt.Errorf("%s: checking for manifest: %w", repoURL, err)
	}

	if ok {
		m, err := f.fetchManifest(ctx, manifestURL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", repoURL, err)
		}
		return &Result{Kind: KindManifest, Manifest: m}, nil
	}

	m, err := f.synthesize(ctx, r, category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", repoURL, err)
	}
	return &Result{Kind: KindLegacy, Manifest: m}, nil
}

func (f *Fetcher) fetchManifest(ctx context.Context, url string) (*manifest.Manifest, error) {
	data, err := f.src.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching manifest: %w", err)
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	return m, nil
}

func (f *Fetcher) synthesize(ctx context.Context, r repo.Resolved, category manifest.Category) (*manifest.Manifest, error) {
	mod := manifest.Module{
		Name: manifest.HumanizeName(r.Name),
		Repo: r.HTMLURL,
		Zip:  r.ZipURL,
	}

	summary, err := f.text(ctx, r.RawPrefix+"/"+summaryFile)
	if err != nil {
		return nil, fmt.Errorf("fetching summary: %w", err)
	}
	mod.Summary = summary

	version, err := f.text(ctx, r.RawPrefix+"/"+versionFile)
	if err != nil {
		return nil, fmt.Errorf("fetching version: %w", err)
	}
	mod.Version = version
	if err := manifest.CheckVersion(version); err != nil {
		logging.FromContext(ctx).Warn("legacy module has a non-semver version", "module", r.Name, "error", err)
	}

	for _, guess := range PreviewFiles {
		image := r.RawPrefix + "/" + guess
		ok, err := f.src.Exists(ctx, image)
		if err != nil {
			return nil, fmt.Errorf("probing %s: %w", guess, err)
		}
		if ok {
			mod.Image = image
			break
		}
	}

	m := manifest.New()
	m.Set(category, r.Name, mod)
	return m, nil
}

func (f *Fetcher) text(ctx context.Context, url string) (string, error) {
	data, err := f.src.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
