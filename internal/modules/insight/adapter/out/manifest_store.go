package out

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fivepillars/internal/modules/insight/domain"
	insightout "fivepillars/internal/modules/insight/port/out"
	apperrors "fivepillars/internal/platform/errors"
)

// FileManifestStore reads the provider list from a single JSON array.
type FileManifestStore struct {
	path string
	home func() (string, error)
}

// NewFileManifestStore reads manifests from path. Binaries may be absolute,
// start with "~/", or be relative to the manifest's directory.
func NewFileManifestStore(path string) insightout.ManifestStore {
	return &FileManifestStore{path: path, home: os.UserHomeDir}
}

// Load returns an empty list when the file does not exist yet. Provider names
// are trimmed and must be unique ignoring case, since they key insight ids.
func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read provider manifests: %w", err)
	}

	var manifests []domain.Manifest
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode provider manifests %s: %w", s.path, err)
	}

	owners := make(map[string]int, len(manifests))
	for i := range manifests {
		m := &manifests[i]
		m.Name = strings.TrimSpace(m.Name)
		key := strings.ToLower(m.Name)
		if first, dup := owners[key]; dup {
			return nil, fmt.Errorf("%w: provider %q listed at entries %d and %d of %s",
				apperrors.ErrInvalidInput, m.Name, first+1, i+1, s.path)
		}
		owners[key] = i

		binary, err := s.resolveBinary(m.Binary)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", m.Name, err)
		}
		m.Binary = binary
	}
	return manifests, nil
}

func (s *FileManifestStore) resolveBinary(binary string) (string, error) {
	binary = strings.TrimSpace(binary)
	switch {
	case binary == "", filepath.IsAbs(binary):
		return binary, nil
	case strings.HasPrefix(binary, "~/"):
		home, err := s.home()
		if err != nil {
			return "", fmt.Errorf("resolve home for %s: %w", binary, err)
		}
		return filepath.Join(home, binary[2:]), nil
	default:
		return filepath.Clean(filepath.Join(filepath.Dir(s.path), binary)), nil
	}
}
