// Package overrides runs the last pipeline stage: merge the
// hand-maintained corrections file into the canonical artifact. the
// merge is an explicit field-by-field left join keyed by entity id,
// override values win, absent fields leave the canonical value alone.
// overrides amend existing entities only, a key with no canonical
// match is reported, never appended.
package overrides

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"leavex-backend/internal/anomaly"
	"leavex-backend/internal/records"
	"leavex-backend/lib/osutil"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("leavex.services.overrides")

type Options struct {
	CanonicalPath string
	OverridesPath string
	// if empty, no artifact is written (the records are still returned)
	OutputPath string
}

type Result struct {
	Records   []records.EnrichedRecord
	Anomalies *anomaly.Report
}

func Run(ctx context.Context, opts Options) (Result, error) {
	ctx, span := tracer.Start(ctx, "overrides.Run")
	defer span.End()

	canonical, err := readCanonical(opts.CanonicalPath)
	if err != nil {
		return Result{}, err
	}
	overrideSet, err := readOverrides(opts.OverridesPath)
	if err != nil {
		return Result{}, err
	}

	report := anomaly.NewReport("overrides")
	enriched := Apply(canonical, overrideSet, report)

	if opts.OutputPath != "" {
		out, err := json.MarshalIndent(enriched, "", "  ")
		if err != nil {
			return Result{}, err
		}
		err = osutil.WriteFileAtomic(opts.OutputPath, append(out, '\n'))
		if err != nil {
			return Result{}, fmt.Errorf("write artifact: %w", err)
		}
		slog.Info("wrote enriched artifact", "path", opts.OutputPath, "records", len(enriched))
	}

	return Result{Records: enriched, Anomalies: report}, nil
}

func readCanonical(path string) ([]records.CanonicalRecord, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var canonical []records.CanonicalRecord
	err = json.Unmarshal(contents, &canonical)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return canonical, nil
}

func readOverrides(path string) (map[string]records.Override, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var overrideSet map[string]records.Override
	err = json.Unmarshal(contents, &overrideSet)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return overrideSet, nil
}

// Apply merges the override set into the canonical records, keeping
// the canonical ordering. override keys are visited in sorted order so
// the anomaly report is stable across runs.
func Apply(
	canonical []records.CanonicalRecord,
	overrideSet map[string]records.Override,
	report *anomaly.Report,
) []records.EnrichedRecord {
	index := make(map[string]int, len(canonical))
	for i, c := range canonical {
		if c.Id == "" {
			continue
		}
		if _, dup := index[c.Id]; dup {
			report.Add("duplicate_id", c.Id, "duplicate id in canonical data, overrides apply to the first occurrence")
			continue
		}
		index[c.Id] = i
	}

	enriched := make([]records.EnrichedRecord, len(canonical))
	for i, c := range canonical {
		enriched[i] = records.EnrichedRecord{CanonicalRecord: c}
	}

	ids := make([]string, 0, len(overrideSet))
	for id := range overrideSet {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		pos, ok := index[id]
		if !ok {
			report.Add("unmatched_override", id, suggestMatch(id, canonical))
			continue
		}
		applyOverride(&enriched[pos], overrideSet[id], report)
	}

	return enriched
}

func applyOverride(target *records.EnrichedRecord, o records.Override, report *anomaly.Report) {
	if o.Status != nil {
		if o.Status.Valid() {
			target.Status = *o.Status
		} else {
			report.Add("invalid_status", target.Id, fmt.Sprintf("unknown status %q, field ignored", *o.Status))
		}
	}
	if o.ArchiveUrl != nil {
		target.ArchiveUrl = *o.ArchiveUrl
	}
	if o.Note != nil {
		target.Note = *o.Note
	}
	if o.UpdatedAt != nil {
		target.UpdatedAt = *o.UpdatedAt
	}

	if o.XHandle == nil {
		return
	}
	// an explicit empty handle retracts the scraped/inferred one
	if *o.XHandle == "" {
		target.XHandle = ""
		target.UsesX = false
		return
	}
	handle, ok := records.ExtractHandle(*o.XHandle)
	if !ok {
		report.Add("malformed_override", target.Id, fmt.Sprintf("cannot extract a handle from %q, field ignored", *o.XHandle))
		return
	}
	target.XHandle = handle
	target.UsesX = true
}

// suggestMatch names the canonical id closest to an unmatched
// override key, which is usually enough to spot a typo.
func suggestMatch(id string, canonical []records.CanonicalRecord) string {
	best := ""
	bestDistance := -1
	for _, c := range canonical {
		if c.Id == "" {
			continue
		}
		d := matchr.Levenshtein(id, c.Id)
		if bestDistance < 0 || d < bestDistance {
			best = c.Id
			bestDistance = d
		}
	}
	if best == "" || bestDistance > 3 {
		return "no canonical record with this id"
	}
	return fmt.Sprintf("no canonical record with this id, closest is %q", best)
}
