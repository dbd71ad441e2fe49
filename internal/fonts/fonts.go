// Package fonts finds TTF/OTF files on disk by family name and lists the codepoints the planner
// needs from them.
package fonts

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Extensions we consider as font files.
var Exts = []string{".ttf", ".otf"}

// ScanDir returns relative paths of all font files under dir (e.g. "Inter/Inter-Regular.ttf").
// Paths use forward slashes. A missing dir yields no paths and no error.
func ScanDir(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !slices.Contains(Exts, strings.ToLower(filepath.Ext(path))) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

// normalizeForMatch lowercases and removes spaces, dashes, and underscores for fuzzy matching.
func normalizeForMatch(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

// Find returns the full path of the font under dir whose relative path contains search
// ("Inter", "open sans", "Inter-Regular.ttf"). When several files match, one with "regular" in
// its path wins.
func Find(dir, search string) (string, error) {
	norm := normalizeForMatch(strings.TrimSuffix(strings.TrimSuffix(search, ".ttf"), ".otf"))
	if norm == "" {
		return "", os.ErrNotExist
	}
	list, err := ScanDir(dir)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, rel := range list {
		if strings.Contains(normalizeForMatch(rel), norm) {
			matches = append(matches, rel)
		}
	}
	if len(matches) == 0 {
		return "", os.ErrNotExist
	}
	pick := matches[0]
	for _, rel := range matches {
		if strings.Contains(strings.ToLower(rel), "regular") {
			pick = rel
			break
		}
	}
	return filepath.Join(dir, filepath.FromSlash(pick)), nil
}

// Codepoints returns printable ASCII plus every rune of extra, without duplicates. Raylib only
// rasterizes the glyphs it is given, so panel text outside ASCII (ñ, á, €) has to be listed.
func Codepoints(extra ...string) []rune {
	seen := make(map[rune]bool)
	var out []rune
	add := func(r rune) {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	for r := rune(32); r < 127; r++ {
		add(r)
	}
	for _, s := range extra {
		for _, r := range s {
			if r >= 32 {
				add(r)
			}
		}
	}
	return out
}
