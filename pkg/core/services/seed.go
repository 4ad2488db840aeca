package services

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/logistica/presencas/pkg/core/model"
	"github.com/logistica/presencas/pkg/db"
)

// SeedFile maps a sector name to the worker names to create in it
type SeedFile map[string][]string

// LoadSeedFile reads a YAML seed file
func LoadSeedFile(path string) (SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return seed, nil
}

// SeedResult counts seeded workers
type SeedResult struct {
	Added    int
	Existing int
}

// SeedWorkers adds every name of the seed with the given shift unless a worker with the
// same name, sector and shift already exists (active or not)
func SeedWorkers(ctx context.Context, database db.WorkerStore, logger *zap.Logger, seed SeedFile, shift string) (*SeedResult, error) {
	shift = model.NormalizeShift(shift)

	sectors := make([]string, 0, len(seed))
	for s := range seed {
		sectors = append(sectors, s)
	}
	sort.Strings(sectors)

	result := &SeedResult{}
	for _, raw := range sectors {
		sector := raw
		if !model.IsValidSector(sector) {
			mapped, ok := model.NormalizeSector(raw)
			if !ok {
				return result, fmt.Errorf("%w: unknown sector %q in seed file", ErrInvalidInput, raw)
			}
			sector = mapped
		}

		existing, err := database.ListWorkers(ctx, db.WorkerQuery{Sector: sector, Shift: shift})
		if err != nil {
			return result, fmt.Errorf("failed to list workers for %s: %w", sector, err)
		}
		known := make(map[string]bool, len(existing))
		for _, w := range existing {
			known[w.Name] = true
		}

		for _, name := range seed[raw] {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if known[name] {
				result.Existing++
				continue
			}
			if _, err := database.AddWorker(ctx, name, sector, shift); err != nil {
				return result, fmt.Errorf("failed to add %s to %s: %w", name, sector, err)
			}
			known[name] = true
			result.Added++
		}
		logger.Debug("Seeded sector", zap.String("sector", sector), zap.Int("names", len(seed[raw])))
	}

	logger.Info("Seed complete", zap.Int("added", result.Added), zap.Int("existing", result.Existing))
	return result, nil
}
