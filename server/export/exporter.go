package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/pawscan/server/scan"
	"github.com/cyclopcam/pawscan/server/timeline"
)

// Exporter writes every finished session to a Storage as a JSON report plus a
// timeline chart. It satisfies scan.Sink.
type Exporter struct {
	Log      logs.Log
	Store    Storage
	Timeline bool // Also write <id>.png
	Chart    timeline.Options
}

func NewExporter(log logs.Log, store Storage) *Exporter {
	return &Exporter{
		Log:      logs.NewPrefixLogger(log, "Export:"),
		Store:    store,
		Timeline: true,
		Chart:    timeline.DefaultOptions(),
	}
}

// ReportName is the blob name of a session's JSON report, eg sessions/2026-10/18/<id>.json
func ReportName(r *scan.Result) string {
	return dir(r) + r.ID + ".json"
}

// TimelineName is the blob name of a session's timeline chart
func TimelineName(r *scan.Result) string {
	return dir(r) + r.ID + ".png"
}

func dir(r *scan.Result) string {
	t := r.Started.UTC()
	return fmt.Sprintf("sessions/%04d-%02d/%02d/", t.Year(), int(t.Month()), t.Day())
}

func (e *Exporter) SaveResult(ctx context.Context, r *scan.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := WriteFile(e.Store, ReportName(r), bytes.NewReader(j)); err != nil {
		return fmt.Errorf("Failed to write report: %w", err)
	}
	if e.Timeline {
		buf := bytes.Buffer{}
		if err := timeline.WritePNG(&buf, r, e.Chart); err != nil {
			return err
		}
		if err := WriteFile(e.Store, TimelineName(r), &buf); err != nil {
			return fmt.Errorf("Failed to write timeline: %w", err)
		}
	}
	e.Log.Infof("Exported %v (%v frames)", r.ID, r.Frames)
	return nil
}

// Load reads a report that was previously exported, by its blob name
func (e *Exporter) Load(name string) (*scan.Result, error) {
	raw, err := ReadFile(e.Store, name)
	if err != nil {
		return nil, err
	}
	out := &scan.Result{}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}
