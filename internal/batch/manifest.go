package batch

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"paintbrush/internal/pipeline"

	"github.com/google/uuid"
)

// Manifest records one batch run.
type Manifest struct {
	RunID   string          `json:"run_id"`
	Created time.Time       `json:"created"`
	Alpha   float64         `json:"alpha"`
	Radius  int             `json:"radius"`
	Entries []ManifestEntry `json:"entries"`
}

// ManifestEntry represents one image in the output manifest.
type ManifestEntry struct {
	Input     string `json:"input"`
	Output    string `json:"output,omitempty"`
	Size      string `json:"size,omitempty"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Error     string `json:"error,omitempty"`
}

// NewManifest builds a manifest with a fresh run id.
func NewManifest(params pipeline.Params, results []Result) Manifest {
	m := Manifest{
		RunID:   uuid.NewString(),
		Created: time.Now().UTC(),
		Alpha:   params.Alpha,
		Radius:  params.Radius,
		Entries: make([]ManifestEntry, len(results)),
	}
	for i, r := range results {
		e := ManifestEntry{
			Input:     r.Input,
			ElapsedMS: r.Elapsed.Milliseconds(),
			Error:     r.Error,
		}
		if r.Success {
			e.Output = r.Output
		}
		if r.Width > 0 {
			e.Size = formatSize(r.Width, r.Height)
		}
		m.Entries[i] = e
	}
	return m
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func formatSize(w, h int) string {
	return strconv.Itoa(w) + "x" + strconv.Itoa(h)
}
