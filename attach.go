package main

import (
	"errors"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// ── Attachment Rules ──────────────────────────────────────────────

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrTooManyFiles    = errors.New("only one file can be attached")
	ErrNoFile          = errors.New("no file given")
)

var acceptedImageTypes = []string{"image/jpeg", "image/jpg", "image/png"}

// attachmentType resolves a MIME type from the file extension. The file
// itself is never opened.
func attachmentType(path string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	t, _, _ = strings.Cut(t, ";")
	return strings.TrimSpace(t)
}

func acceptedAttachment(path string) bool {
	return slices.Contains(acceptedImageTypes, attachmentType(path))
}

// validateAttachment checks a candidate path by type and existence.
func validateAttachment(path string) error {
	if !acceptedAttachment(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(path))
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("attach %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrUnsupportedFile, filepath.Base(path))
	}
	return nil
}

// ── Dropped Paths ─────────────────────────────────────────────────

// splitDroppedPaths parses what a terminal pastes when files are dropped
// on it: paths separated by spaces, either quoted or with escaped spaces,
// sometimes as file:// URLs.
func splitDroppedPaths(s string) []string {
	var (
		paths []string
		cur   strings.Builder
		quote rune
		esc   bool
		has   bool
	)
	flush := func() {
		if has {
			paths = append(paths, normalizeDroppedPath(cur.String()))
		}
		cur.Reset()
		has = false
	}
	for _, r := range strings.TrimSpace(s) {
		switch {
		case esc:
			cur.WriteRune(r)
			esc = false
		case r == '\\' && quote != '\'':
			esc = true
			has = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			has = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
			has = true
		}
	}
	flush()
	return paths
}

func normalizeDroppedPath(p string) string {
	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil {
			return u.Path
		}
	}
	return p
}

// ── File Browser ──────────────────────────────────────────────────

type browserEntry struct {
	Name string
	Dir  bool
}

// fileBrowser walks directories and lists only attachable images.
type fileBrowser struct {
	Dir     string
	Entries []browserEntry
	Cursor  int
}

func newFileBrowser(dir string) *fileBrowser {
	b := &fileBrowser{}
	b.open(dir)
	return b
}

func (b *fileBrowser) open(dir string) {
	b.Dir = dir
	b.Entries = scanDirEntries(dir)
	b.Cursor = 0
}

// parent moves up one directory. It reports false at the filesystem root.
func (b *fileBrowser) parent() bool {
	up := filepath.Dir(b.Dir)
	if up == b.Dir {
		return false
	}
	b.open(up)
	return true
}

// selected returns the entry under the cursor. The first row is always the
// parent directory, so the index is offset by one.
func (b *fileBrowser) selected() (browserEntry, bool) {
	i := b.Cursor - 1
	if i < 0 || i >= len(b.Entries) {
		return browserEntry{}, false
	}
	return b.Entries[i], true
}

func (b *fileBrowser) rows() int { return len(b.Entries) + 1 }

func (b *fileBrowser) move(delta int) {
	b.Cursor += delta
	if b.Cursor < 0 {
		b.Cursor = 0
	}
	if b.Cursor > b.rows()-1 {
		b.Cursor = b.rows() - 1
	}
}

// scanDirEntries returns sorted subdirectories followed by sorted
// attachable images. Hidden entries are skipped.
func scanDirEntries(path string) []browserEntry {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil
	}
	var dirs, files []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if e.IsDir() {
			dirs = append(dirs, e.Name())
			continue
		}
		if e.Type().IsRegular() && acceptedAttachment(e.Name()) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(dirs)
	sort.Strings(files)

	out := make([]browserEntry, 0, len(dirs)+len(files))
	for _, d := range dirs {
		out = append(out, browserEntry{Name: d, Dir: true})
	}
	for _, f := range files {
		out = append(out, browserEntry{Name: f})
	}
	return out
}
