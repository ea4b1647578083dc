package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const versionWidth = 6

// File is one versioned migration with its up and down scripts
type File struct {
	Version uint
	Name    string
	HasUp   bool
	HasDown bool
}

// BaseName is the file name without the direction suffix
func (f File) BaseName() string {
	return fmt.Sprintf("%0*d_%s", versionWidth, f.Version, f.Name)
}

// List returns the migrations in fsys ordered by version. Files that do not
// follow NNNNNN_name.{up,down}.sql are ignored.
func List(fsys fs.FS) ([]File, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	byVersion := map[uint]*File{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version, name, up, ok := parseFileName(entry.Name())
		if !ok {
			continue
		}
		f, found := byVersion[version]
		if !found {
			f = &File{Version: version, Name: name}
			byVersion[version] = f
		}
		if up {
			f.HasUp = true
		} else {
			f.HasDown = true
		}
	}

	files := make([]File, 0, len(byVersion))
	for _, f := range byVersion {
		files = append(files, *f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

func parseFileName(name string) (version uint, base string, up bool, ok bool) {
	switch {
	case strings.HasSuffix(name, ".up.sql"):
		name, up = strings.TrimSuffix(name, ".up.sql"), true
	case strings.HasSuffix(name, ".down.sql"):
		name = strings.TrimSuffix(name, ".down.sql")
	default:
		return 0, "", false, false
	}
	prefix, base, found := strings.Cut(name, "_")
	if !found || base == "" {
		return 0, "", false, false
	}
	v, err := strconv.ParseUint(prefix, 10, 32)
	if err != nil {
		return 0, "", false, false
	}
	return uint(v), base, up, true
}

// Create writes an empty up/down pair in dir numbered after the highest
// existing version.
func Create(dir, name string) (*File, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, errors.New("migration name is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := List(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	next := uint(1)
	if len(existing) > 0 {
		next = existing[len(existing)-1].Version + 1
	}

	f := &File{Version: next, Name: slug, HasUp: true, HasDown: true}
	upPath := filepath.Join(dir, f.BaseName()+".up.sql")
	downPath := filepath.Join(dir, f.BaseName()+".down.sql")

	if err := os.WriteFile(upPath, []byte("-- "+name+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", upPath, err)
	}
	if err := os.WriteFile(downPath, []byte("-- rollback: "+name+"\n"), 0o644); err != nil {
		_ = os.Remove(upPath)
		return nil, fmt.Errorf("failed to write %s: %w", downPath, err)
	}
	return f, nil
}

// sanitizeName lowercases name and joins its words with underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}
