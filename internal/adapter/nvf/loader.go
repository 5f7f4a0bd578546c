package nvf

import (
	"fmt"
	"os"
	"path/filepath"

	"go.ngs.io/satstress/internal/domain"
)

// ReadFile parses the name/value file at path. Parse errors carry the file
// name and line number.
func ReadFile(path string) (map[string]string, error) {
	//nolint:gosec // G304: Path comes from the command line or configuration.
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open name/value file: %w", err)
	}
	defer func() { _ = file.Close() }()

	params, err := parse(file, path)
	if err != nil {
		return nil, err
	}
	return params, nil
}

// SatelliteStore loads satellite definitions from files.
type SatelliteStore struct {
	dataDir string
}

// NewSatelliteStore creates a store resolving relative names against dataDir.
// An empty dataDir uses paths as given.
func NewSatelliteStore(dataDir string) *SatelliteStore {
	return &SatelliteStore{
		dataDir: dataDir,
	}
}

// LoadBody reads and validates a satellite definition.
func (s *SatelliteStore) LoadBody(name string) (domain.Body, error) {
	path := s.resolve(name)

	params, err := ReadFile(path)
	if err != nil {
		return domain.Body{}, err
	}

	body, err := domain.NewBody(params)
	if err != nil {
		return domain.Body{}, fmt.Errorf("invalid satellite %s: %w", path, err)
	}
	return body, nil
}

func (s *SatelliteStore) resolve(name string) string {
	if s.dataDir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dataDir, name)
}
