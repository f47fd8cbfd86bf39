package labeling

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/visualscout/visualscout/internal/frame"
	"github.com/visualscout/visualscout/internal/grid"
)

// LabelManifest labels every grid listed in a source's manifest. Each grid
// gets a visual_content_<start>_<end>.json file in outDir, and the combined
// results land in <source>.json keyed by time range. Per-grid failures are
// recorded as warning labels so one bad request doesn't lose the rest.
func (l *Labeler) LabelManifest(ctx context.Context, m grid.Manifest, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create label directory: %w", err)
	}

	combined := make(map[string][]string, len(m.Grids))

	for _, entry := range m.Grids {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		key := timeKey(entry)
		labels, err := l.LabelImage(ctx, entry.Path)
		if err != nil {
			l.logger.Error("labeling failed for grid",
				"grid", entry.Path, "error", err)
			labels = Labels{Labels: []string{fmt.Sprintf("Error: %v", err)}}
		}

		path := filepath.Join(outDir, fmt.Sprintf("visual_content_%s.json", key))
		if err := writeJSON(path, labels); err != nil {
			return "", err
		}
		combined[key] = labels.Labels
		l.logger.Info("grid labeled", "grid", entry.Path, "labels", len(labels.Labels))
	}

	combinedPath := filepath.Join(outDir, sourceStem(m.Source)+".json")
	if err := writeJSON(combinedPath, combined); err != nil {
		return "", err
	}
	return combinedPath, nil
}

func timeKey(entry grid.ManifestEntry) string {
	if len(entry.Timestamps) == 0 {
		return fmt.Sprintf("grid-%d", entry.Index)
	}
	start := frame.FormatTimestamp(entry.Timestamps[0])
	end := frame.FormatTimestamp(entry.Timestamps[len(entry.Timestamps)-1])
	return start + "_" + end
}

func sourceStem(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal labels: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
