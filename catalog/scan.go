package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/erraggy/apichangelog/internal/pathutil"
	"github.com/erraggy/apichangelog/parser"
)

// InfoFile is the name of the metadata file in each version directory.
const InfoFile = "info.json"

// documentExtensions are the file extensions treated as API documents.
var documentExtensions = []string{".yaml", ".yml", ".json"}

// scanEntry is one version directory found by Scan.
type scanEntry struct {
	api, version, dir, document string
}

// Scan loads every version under root. The layout is
// <root>/<api>/<version>/<document> with an optional info.json beside the
// document. A version directory holding several documents uses the first in
// name order. Hidden directories and directories without a document are
// skipped. Documents are parsed concurrently, bounded by Workers.
func (c *Catalog) Scan(ctx context.Context, root string) error {
	entries, err := findVersions(root)
	if err != nil {
		return err
	}

	loaded := make([]*Version, len(entries))
	tasks := make([]task, len(entries))
	for i, e := range entries {
		tasks[i] = func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := c.load(e)
			if err != nil {
				return err
			}
			loaded[i] = v
			return nil
		}
	}
	if err := runParallel(ctx, c.workers(), tasks); err != nil {
		return fmt.Errorf("catalog: scan %s: %w", root, err)
	}

	for _, v := range loaded {
		if err := c.Add(v); err != nil {
			return err
		}
	}
	c.log().Info("scanned catalog", "root", root, "versions", len(loaded))
	return nil
}

// findVersions lists the version directories under root in sorted order.
func findVersions(root string) ([]scanEntry, error) {
	apiDirs, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", root, err)
	}

	var out []scanEntry
	for _, apiDir := range apiDirs {
		if !apiDir.IsDir() || hidden(apiDir.Name()) {
			continue
		}
		apiPath := filepath.Join(root, apiDir.Name())
		versionDirs, err := os.ReadDir(apiPath)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", apiPath, err)
		}
		for _, versionDir := range versionDirs {
			if !versionDir.IsDir() || hidden(versionDir.Name()) {
				continue
			}
			dir := filepath.Join(apiPath, versionDir.Name())
			document, err := findDocument(dir)
			if err != nil {
				return nil, err
			}
			if document == "" {
				continue
			}
			out = append(out, scanEntry{
				api:      apiDir.Name(),
				version:  versionDir.Name(),
				dir:      dir,
				document: document,
			})
		}
	}
	return out, nil
}

// findDocument returns the first document file in dir, or "" if none.
func findDocument(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("catalog: read %s: %w", dir, err)
	}
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || hidden(name) || strings.EqualFold(name, InfoFile) {
			continue
		}
		if slices.Contains(documentExtensions, strings.ToLower(filepath.Ext(name))) {
			return filepath.Join(dir, name), nil
		}
	}
	return "", nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// load parses one version directory.
func (c *Catalog) load(e scanEntry) (*Version, error) {
	p := parser.New()
	p.Strict = c.Strict
	p.Logger = c.Logger
	res, err := p.Parse(e.document)
	if err != nil {
		return nil, fmt.Errorf("load %s/%s: %w", e.api, e.version, err)
	}

	info, err := ReadInfo(filepath.Join(e.dir, InfoFile))
	if err != nil {
		return nil, fmt.Errorf("load %s/%s: %w", e.api, e.version, err)
	}

	return &Version{
		API:        e.api,
		Version:    e.version,
		Info:       info,
		SourcePath: res.SourcePath,
		Spec:       res.Spec,
		Raw:        res.Data,
		Warnings:   res.Warnings,
	}, nil
}

// ReadInfo reads a version's metadata file. A missing file yields a zero Info.
func ReadInfo(path string) (Info, error) {
	var info Info
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return info, nil
	}
	if err != nil {
		return info, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("decode %s: %w", path, err)
	}
	return info, nil
}

// WriteInfo writes a version's metadata file.
func WriteInfo(path string, info Info) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if _, err := pathutil.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return err
	}
	return nil
}
