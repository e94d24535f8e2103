// Package anomaly collects the per-record data issues a stage runs
// into, like unmapped countries or unmatched override keys.
// anomalies never abort a run, but they must never vanish
// silently either, so each one is logged when recorded and the full
// set is rendered as a summary table at the end of the stage.
package anomaly

import (
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

type Anomaly struct {
	Kind   string `json:"kind"`
	Key    string `json:"key"`
	Detail string `json:"detail"`
}

type Report struct {
	stage string
	items []Anomaly
}

func NewReport(stage string) *Report {
	return &Report{stage: stage}
}

// Add records an anomaly and logs it immediately.
func (r *Report) Add(kind, key, detail string) {
	r.items = append(r.items, Anomaly{Kind: kind, Key: key, Detail: detail})
	slog.Warn("anomaly",
		"stage", r.stage,
		"kind", kind,
		"key", key,
		"detail", detail,
	)
}

func (r *Report) Items() []Anomaly {
	return r.items
}

func (r *Report) Empty() bool {
	return len(r.items) == 0
}

// Render writes the end-of-run summary table. a human reads this to
// decide what to fix in the overrides file or the source data.
func (r *Report) Render(w io.Writer) {
	if r.Empty() {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("anomalies: %s", r.stage)
	t.AppendHeader(table.Row{"Kind", "Key", "Detail"})

	for _, a := range r.items {
		t.AppendRow(table.Row{a.Kind, a.Key, a.Detail})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
