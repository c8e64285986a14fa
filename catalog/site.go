package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/erraggy/apichangelog/differ"
	"github.com/erraggy/apichangelog/internal/pathutil"
)

// SiteDataPath is the location of the persisted catalog relative to the
// output directory.
const SiteDataPath = "data/api-data.json"

// SiteData is the persisted form of a catalog consumed by the changelog site.
type SiteData struct {
	APIs []SiteAPI `json:"apis"`
}

// SiteAPI lists the versions of one API, oldest first.
type SiteAPI struct {
	Name     string        `json:"name"`
	Versions []SiteVersion `json:"versions"`
}

// SiteVersion is one version with its raw document and the changes from
// every other version of the same API, keyed by the old version.
type SiteVersion struct {
	Version string         `json:"version"`
	Info    Info           `json:"info"`
	Spec    map[string]any `json:"spec"`
	Diffs   differ.Diff    `json:"diffs"`
}

// Site assembles the persisted form. Pairs not yet built are computed.
func (c *Catalog) Site() *SiteData {
	site := &SiteData{APIs: []SiteAPI{}}
	for _, api := range c.APIs() {
		entry := SiteAPI{Name: api, Versions: []SiteVersion{}}
		for _, version := range c.Versions(api) {
			v, ok := c.Version(api, version)
			if !ok {
				continue
			}
			entry.Versions = append(entry.Versions, SiteVersion{
				Version: version,
				Info:    v.Info,
				Spec:    v.Raw,
				Diffs:   c.Diffs(api, version),
			})
		}
		site.APIs = append(site.APIs, entry)
	}
	return site
}

// WriteSiteData writes the persisted form of c to w as indented JSON.
func WriteSiteData(w io.Writer, c *Catalog) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.Site()); err != nil {
		return fmt.Errorf("catalog: encode site data: %w", err)
	}
	return nil
}

// WriteSite writes the persisted form of c under outDir and returns the
// absolute path of the written file.
func WriteSite(c *Catalog, outDir string) (string, error) {
	target, err := pathutil.PrepareOutputFile(filepath.Join(outDir, filepath.FromSlash(SiteDataPath)))
	if err != nil {
		return "", fmt.Errorf("catalog: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("catalog: create %s: %w", target, err)
	}
	if err := WriteSiteData(f, c); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("catalog: close %s: %w", target, err)
	}
	c.log().Info("wrote site data", "path", target)
	return target, nil
}
