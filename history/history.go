package history

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/erraggy/apichangelog/catalog"
	"github.com/erraggy/apichangelog/internal/pathutil"
	"github.com/erraggy/apichangelog/parser"
)

// DefaultMaxVersions is the number of versions kept per API.
const DefaultMaxVersions = 5

// documentExtensions are the blob extensions tried as API documents.
var documentExtensions = []string{".yaml", ".yml", ".json"}

// Entry is one collected version.
type Entry struct {
	// API is the sanitized API title.
	API string
	// Version is the sanitized info.version.
	Version string
	// Path is the written document.
	Path string
	// Source is the document's path in the repository.
	Source string
	// Commit is the hash of the commit the version was taken from.
	Commit string
	// Date is the commit's committer time.
	Date time.Time
}

// Result lists the collected versions, ordered by API then version.
type Result struct {
	Entries []Entry
	// Commits is the number of commits walked.
	Commits int
}

// Collector walks a repository's commit history and writes each distinct
// API version it finds into a catalog layout.
type Collector struct {
	// MaxVersions caps the versions collected per API.
	// Default: DefaultMaxVersions
	MaxVersions int
	// Progress receives clone progress. If nil, progress is discarded.
	Progress io.Writer
	// Logger is the structured logger for progress
	// If nil, logging is disabled (default)
	Logger parser.Logger
}

// New creates a Collector with default settings.
func New() *Collector {
	return &Collector{MaxVersions: DefaultMaxVersions}
}

func (c *Collector) log() parser.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return parser.NopLogger{}
}

func (c *Collector) maxVersions() int {
	if c.MaxVersions > 0 {
		return c.MaxVersions
	}
	return DefaultMaxVersions
}

// CollectURL clones url into a temporary directory, collects its history
// into outDir and removes the clone.
func (c *Collector) CollectURL(ctx context.Context, url, outDir string) (*Result, error) {
	tmp, err := os.MkdirTemp("", "apichangelog-clone-")
	if err != nil {
		return nil, fmt.Errorf("history: create clone directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	c.log().Info("cloning repository", "url", url)
	repo, err := git.PlainCloneContext(ctx, tmp, false, &git.CloneOptions{
		URL:      url,
		Progress: c.Progress,
	})
	if err != nil {
		return nil, fmt.Errorf("history: clone %s: %w", url, err)
	}
	return c.Collect(ctx, repo, outDir)
}

// CollectPath opens the repository at path and collects its history into
// outDir.
func (c *Collector) CollectPath(ctx context.Context, path, outDir string) (*Result, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	return c.Collect(ctx, repo, outDir)
}

// Collect walks every commit reachable from any reference, newest first, and
// writes each (API, version) seen for the first time to
// <outDir>/<api>/<version>/<file> with an info.json holding the date of the
// newest commit that contains it.
// Files that do not decode as OpenAPI documents with a title and a version
// are skipped. An API stops collecting once it has MaxVersions versions.
func (c *Collector) Collect(ctx context.Context, repo *git.Repository, outDir string) (*Result, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("history: create %s: %w", outDir, err)
	}

	commits, err := repo.Log(&git.LogOptions{All: true, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("history: read log: %w", err)
	}
	defer commits.Close()

	w := &walk{
		c:         c,
		outDir:    outDir,
		collected: make(map[string][]string),
		seen:      make(map[plumbing.Hash]bool),
		result:    &Result{},
	}
	err = commits.ForEach(func(commit *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.result.Commits++
		return w.commit(commit)
	})
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	slices.SortFunc(w.result.Entries, func(a, b Entry) int {
		if c := strings.Compare(a.API, b.API); c != 0 {
			return c
		}
		return catalog.CompareVersions(a.Version, b.Version)
	})
	c.log().Info("collected versions",
		"commits", w.result.Commits,
		"versions", len(w.result.Entries))
	return w.result, nil
}

// walk carries state across commits.
type walk struct {
	c      *Collector
	outDir string
	// collected maps an API to the versions written so far.
	collected map[string][]string
	// seen holds blobs already tried, so unchanged files parse once.
	seen   map[plumbing.Hash]bool
	result *Result
}

func (w *walk) commit(commit *object.Commit) error {
	tree, err := commit.Tree()
	if err != nil {
		return fmt.Errorf("tree of commit %s: %w", commit.Hash, err)
	}
	return tree.Files().ForEach(func(f *object.File) error {
		if !slices.Contains(documentExtensions, strings.ToLower(filepath.Ext(f.Name))) {
			return nil
		}
		if w.seen[f.Hash] {
			return nil
		}
		w.seen[f.Hash] = true
		return w.file(commit, f)
	})
}

func (w *walk) file(commit *object.Commit, f *object.File) error {
	content, err := f.Contents()
	if err != nil {
		return fmt.Errorf("read %s at %s: %w", f.Name, commit.Hash, err)
	}

	res, err := parser.New().ParseBytes([]byte(content))
	if err != nil {
		w.c.log().Debug("skipping file", "file", f.Name, "commit", commit.Hash.String(), "error", err)
		return nil
	}
	info := res.Spec.Info
	if info.Title == "" || info.Version == "" {
		return nil
	}

	api := SanitizePathSegment(info.Title)
	version := SanitizePathSegment(info.Version)
	if len(w.collected[api]) >= w.c.maxVersions() || slices.Contains(w.collected[api], version) {
		return nil
	}
	w.collected[api] = append(w.collected[api], version)

	dir := filepath.Join(w.outDir, api, version)
	target, err := pathutil.WriteFile(filepath.Join(dir, filepath.Base(f.Name)), []byte(content), 0o644)
	if err != nil {
		return err
	}
	date := commit.Committer.When
	if err := catalog.WriteInfo(filepath.Join(dir, catalog.InfoFile), catalog.Info{Date: date}); err != nil {
		return err
	}

	w.result.Entries = append(w.result.Entries, Entry{
		API:     api,
		Version: version,
		Path:    target,
		Source:  f.Name,
		Commit:  commit.Hash.String(),
		Date:    date,
	})
	w.c.log().Info("collected version",
		"api", info.Title,
		"version", info.Version,
		"commit", commit.Hash.String()[:7])
	return nil
}

var pathReplacer = strings.NewReplacer(
	" ", "_",
	"/", "-", "\\", "-", ":", "-", "*", "-", "?", "-",
	"\"", "-", "<", "-", ">", "-", "|", "-",
)

// SanitizePathSegment makes s usable as a single directory name: spaces
// become underscores and path or shell-reserved characters become hyphens.
// Empty, "." and ".." become "_" so the segment never leaves its parent.
func SanitizePathSegment(s string) string {
	switch out := pathReplacer.Replace(s); out {
	case "", ".", "..":
		return "_"
	default:
		return out
	}
}
