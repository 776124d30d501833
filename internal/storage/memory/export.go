package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/nestorcad/viewercore/pkg/core"
)

// SceneExport is the root JSON structure of an exported or seed file.
type SceneExport struct {
	ExportedAt time.Time    `json:"exportedAt"`
	Scenes     []core.Scene `json:"scenes"`
}

// exportJSON writes every scene to a (gzipped) JSON file in OutputDir.
// Callers hold b.mu.
func (b *Backend) exportJSON() error {
	export := b.buildExport()

	timestamp := export.ExportedAt.Format("20060102_150405")
	filename := fmt.Sprintf("scenes_%s.json", timestamp)
	if b.cfg.CompressOutput {
		filename += ".gz"
	}
	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeExport(outputPath, export, b.cfg.CompressOutput); err != nil {
		return err
	}

	b.lastExportPath = outputPath
	b.log.Info("Exported scenes", "path", outputPath, "levels", len(export.Scenes))
	return nil
}

func (b *Backend) buildExport() SceneExport {
	ids := make([]string, 0, len(b.scenes))
	for id := range b.scenes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	export := SceneExport{ExportedAt: time.Now().UTC(), Scenes: make([]core.Scene, 0, len(ids))}
	for _, id := range ids {
		export.Scenes = append(export.Scenes, b.scenes[id])
	}
	return export
}

func writeExport(path string, data SceneExport, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	if compress {
		gzWriter := gzip.NewWriter(f)
		defer gzWriter.Close()
		w = gzWriter
	}
	return json.NewEncoder(w).Encode(data)
}

// ReadSceneFile reads an export file, gzipped or plain.
func ReadSceneFile(path string) ([]core.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if filepath.Ext(path) == ".gz" {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	var export SceneExport
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return export.Scenes, nil
}
