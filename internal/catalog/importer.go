package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"pewarnaan/internal/domain"
)

// MotifPrefix is the storage prefix holding one directory of motif images per
// fabric type.
const MotifPrefix = "img/motifs"

// Lister enumerates object keys under a prefix.
type Lister interface {
	List(ctx context.Context, prefix string) ([]string, error)
}

// MotifWriter stores imported motif metadata.
type MotifWriter interface {
	InsertMotif(ctx context.Context, motif domain.Motif) (bool, error)
}

// ImportStats summarizes an import run.
type ImportStats struct {
	Imported int
	Skipped  int
}

// ImportMotifs registers every image under img/motifs/{type}/ as a motif. The
// file name without extension becomes the motif id; ids that already exist
// are skipped.
func ImportMotifs(ctx context.Context, store Lister, writer MotifWriter, types []string, logger zerolog.Logger) (ImportStats, error) {
	var stats ImportStats
	for _, ulosType := range types {
		keys, err := store.List(ctx, path.Join(MotifPrefix, ulosType))
		if err != nil {
			return stats, fmt.Errorf("list motifs for %s: %w", ulosType, err)
		}
		if len(keys) == 0 {
			logger.Warn().Str("ulos_type", ulosType).Msg("no motif images found")
			continue
		}
		for _, key := range keys {
			format := strings.TrimPrefix(strings.ToLower(path.Ext(key)), ".")
			if !isImageFormat(format) {
				continue
			}
			name := strings.TrimSuffix(path.Base(key), path.Ext(key))
			inserted, err := writer.InsertMotif(ctx, domain.Motif{
				ID:         name,
				UlosType:   ulosType,
				Name:       name,
				StorageKey: key,
				Format:     format,
			})
			if err != nil {
				return stats, fmt.Errorf("insert motif %s: %w", name, err)
			}
			if !inserted {
				stats.Skipped++
				logger.Debug().Str("motif_id", name).Msg("skipping existing motif")
				continue
			}
			stats.Imported++
			logger.Info().Str("motif_id", name).Str("ulos_type", ulosType).Msg("motif imported")
		}
	}
	return stats, nil
}

func isImageFormat(format string) bool {
	switch format {
	case "png", "jpg", "jpeg", "gif":
		return true
	default:
		return false
	}
}
