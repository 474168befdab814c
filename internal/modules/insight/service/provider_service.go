package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fivepillars/internal/modules/insight/domain"
	"fivepillars/internal/modules/insight/dto"
	insightout "fivepillars/internal/modules/insight/port/out"
	apperrors "fivepillars/internal/platform/errors"
	"fivepillars/internal/platform/logger"
	"fivepillars/internal/platform/metrics"
)

const module = "insight"

type ProviderService struct {
	store   insightout.ManifestStore
	host    insightout.Host
	log     logger.Logger
	metrics *metrics.Collector
}

func NewProviderService(store insightout.ManifestStore, host insightout.Host, log logger.Logger, m *metrics.Collector) *ProviderService {
	return &ProviderService{store: store, host: host, log: log, metrics: m}
}

func (s *ProviderService) List(ctx context.Context) ([]dto.ProviderInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProviderInfo, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, dto.ProviderInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary})
	}
	return out, nil
}

// Enabled returns the names of enabled providers in manifest order.
func (s *ProviderService) Enabled(ctx context.Context) ([]string, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, m := range manifests {
		if m.Enabled {
			names = append(names, m.Name)
		}
	}
	return names, nil
}

func (s *ProviderService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

// Generate runs one provider against snapshot. Suggestions are returned as
// the provider produced them; validation happens where they are stored.
func (s *ProviderService) Generate(ctx context.Context, name string, snapshot domain.Snapshot) ([]domain.Suggestion, error) {
	manifest, err := s.runnableManifest(ctx, name)
	if err != nil {
		return nil, err
	}
	suggestions, err := s.host.Generate(ctx, manifest, snapshot)
	s.metrics.RecordProviderCall(name, err)
	if err != nil {
		s.log.Warn(module, "provider call failed", map[string]any{"provider": name, "error": err.Error()})
		return nil, err
	}
	s.log.Info(module, "provider returned insights", map[string]any{"provider": name, "count": len(suggestions)})
	return suggestions, nil
}

func (s *ProviderService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate provider name: %s", manifest.Name)
		}
		seen[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func (s *ProviderService) runnableManifest(ctx context.Context, name string) (domain.Manifest, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	for _, manifest := range manifests {
		if manifest.Name != name {
			continue
		}
		if !manifest.Enabled {
			return domain.Manifest{}, fmt.Errorf("%w: %s", apperrors.ErrProviderDisabled, name)
		}
		if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
			return domain.Manifest{}, err
		}
		if s.host == nil {
			return domain.Manifest{}, errors.New("no provider host configured")
		}
		return manifest, nil
	}
	return domain.Manifest{}, fmt.Errorf("%w: provider %q", apperrors.ErrNotFound, name)
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read provider binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	if hex.EncodeToString(hash[:]) != expected {
		return fmt.Errorf("%w: %s", apperrors.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
