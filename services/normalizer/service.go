// Package normalizer runs the second pipeline stage: clean the raw
// CSV rows into canonical records with stable ids, ISO country codes
// and a derived X usage flag. the stage is a pure function of its
// input plus the static lookup tables, so re-runs over the same
// artifact produce byte-identical output.
package normalizer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"leavex-backend/internal/anomaly"
	"leavex-backend/internal/records"
	"leavex-backend/lib/osutil"
	"leavex-backend/lib/textutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("leavex.services.normalizer")

type Options struct {
	InputPath string
	// if empty, no artifact is written (the records are still returned)
	OutputPath string
}

type Result struct {
	Records   []records.CanonicalRecord
	Anomalies *anomaly.Report
}

func Run(ctx context.Context, opts Options) (Result, error) {
	ctx, span := tracer.Start(ctx, "normalizer.Run")
	defer span.End()

	rows, err := records.ReadCsv(opts.InputPath)
	if err != nil {
		return Result{}, err
	}

	report := anomaly.NewReport("normalizer")
	canonical := Normalize(rows, report)

	if opts.OutputPath != "" {
		out, err := json.MarshalIndent(canonical, "", "  ")
		if err != nil {
			return Result{}, err
		}
		err = osutil.WriteFileAtomic(opts.OutputPath, append(out, '\n'))
		if err != nil {
			return Result{}, fmt.Errorf("write artifact: %w", err)
		}
		slog.Info("wrote canonical artifact", "path", opts.OutputPath, "records", len(canonical))
	}

	return Result{Records: canonical, Anomalies: report}, nil
}

func Normalize(rows []records.RawRecord, report *anomaly.Report) []records.CanonicalRecord {
	out := make([]records.CanonicalRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, normalizeRecord(row, report))
	}
	return out
}

func normalizeRecord(raw records.RawRecord, report *anomaly.Report) records.CanonicalRecord {
	id := ""
	if raw.MepId != "" {
		id = fmt.Sprintf("mep_%s", raw.MepId)
	} else {
		report.Add("missing_id", raw.Name, "row has no mep_id, overrides cannot target it")
	}

	country := textutil.CollapseWhitespace(raw.Country)
	iso := lookupCountryIso(country)
	if country != "" && iso == "" {
		report.Add("unmapped_country", id, fmt.Sprintf("no ISO code for %q", country))
	}

	group := textutil.CollapseWhitespace(raw.Group)
	if short, ok := euGroupShortNames[group]; ok {
		group = short
	}

	handle := deriveHandle(id, raw.XUrl, report)

	return records.CanonicalRecord{
		Id:         id,
		Name:       cleanName(raw.Name),
		Country:    country,
		CountryIso: iso,
		Group:      group,
		Party:      textutil.CollapseWhitespace(raw.Party),
		UsesX:      handle != "",
		XHandle:    handle,
	}
}

// the scraped name occasionally drags the site's breadcrumb prefix
// along
func cleanName(name string) string {
	name = textutil.CollapseWhitespace(name)
	name = strings.TrimPrefix(name, "Home ")
	return name
}

// path segments that can show up in shared X links but never name a
// profile
var placeholderSegments = map[string]bool{
	"home":    true,
	"share":   true,
	"search":  true,
	"hashtag": true,
	"i":       true,
}

// deriveHandle pulls the account handle out of a profile URL: the
// path segment of a well-formed profile link, with query strings,
// placeholder paths and malformed values rejected.
func deriveHandle(id string, rawUrl string, report *anomaly.Report) string {
	rawUrl = strings.TrimSpace(rawUrl)
	if rawUrl == "" {
		return ""
	}

	link, err := url.Parse(rawUrl)
	if err != nil {
		report.Add("malformed_handle", id, fmt.Sprintf("unparseable profile url %q", rawUrl))
		return ""
	}
	if !records.IsXHost(link.Hostname()) {
		report.Add("malformed_handle", id, fmt.Sprintf("profile url %q is not an X profile link", rawUrl))
		return ""
	}

	segments := strings.Split(strings.Trim(link.Path, "/"), "/")
	candidate := segments[0]

	// intent links carry the handle in the query instead
	if strings.EqualFold(candidate, "intent") {
		candidate = link.Query().Get("screen_name")
	}

	candidate = strings.TrimPrefix(candidate, "@")
	if candidate == "" || placeholderSegments[strings.ToLower(candidate)] {
		report.Add("malformed_handle", id, fmt.Sprintf("profile url %q names no account", rawUrl))
		return ""
	}
	if !records.HandleRegex.MatchString(candidate) {
		report.Add("malformed_handle", id, fmt.Sprintf("implausible handle %q", candidate))
		return ""
	}
	return candidate
}
