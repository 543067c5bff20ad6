package output

import (
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// ArtifactInfo describes one file in the output directory
type ArtifactInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// ListArtifacts returns the non-hidden Markdown and JSON files in dir,
// sorted by name
func ListArtifacts(dir string) ([]ArtifactInfo, error) {
	fsys := os.DirFS(dir)

	matches, err := doublestar.Glob(fsys, "*.{md,json}")
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	artifacts := make([]ArtifactInfo, 0, len(matches))
	for _, name := range matches {
		if strings.HasPrefix(name, ".") {
			continue
		}
		info, err := fs.Stat(fsys, name)
		if err != nil || info.IsDir() {
			continue
		}
		artifacts = append(artifacts, ArtifactInfo{
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return artifacts, nil
}
