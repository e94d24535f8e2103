// Package collector runs the first pipeline stage: walk the MEP
// directory, visit each member's profile page and write one raw CSV
// row per member. collection is best-effort per member, only a failed
// directory fetch aborts the run.
package collector

import (
	"context"
	"fmt"
	"log/slog"

	"leavex-backend/internal/anomaly"
	"leavex-backend/internal/records"
	"leavex-backend/internal/scrapers/europarl"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("leavex.services.collector")

// Scraper is the slice of the europarl client this stage needs.
type Scraper interface {
	FetchDirectory(ctx context.Context) ([]europarl.MemberRef, error)
	FetchMember(ctx context.Context, ref europarl.MemberRef) (europarl.MemberDetail, error)
}

type Options struct {
	// if empty, no artifact is written (the records are still returned)
	OutputPath string
}

type Result struct {
	Records   []records.RawRecord
	Anomalies *anomaly.Report
}

func Run(ctx context.Context, scraper Scraper, opts Options) (Result, error) {
	ctx, span := tracer.Start(ctx, "collector.Run")
	defer span.End()

	report := anomaly.NewReport("collector")

	refs, err := scraper.FetchDirectory(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(refs) == 0 {
		return Result{}, fmt.Errorf("member directory parsed to zero entries")
	}
	slog.Info("fetched member directory", "members", len(refs))

	rows := make([]records.RawRecord, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		detail, err := scraper.FetchMember(ctx, ref)
		if err != nil {
			report.Add("member_fetch_failed", ref.Id, err.Error())
			continue
		}

		rows = append(rows, records.RawRecord{
			MepId:   ref.Id,
			Name:    ref.Name,
			Country: ref.Country,
			Email:   detail.Email,
			Group:   ref.Group,
			Party:   ref.Party,
			XUrl:    detail.XUrl,
		})
	}

	if opts.OutputPath != "" {
		err = records.WriteCsv(opts.OutputPath, rows)
		if err != nil {
			return Result{}, fmt.Errorf("write artifact: %w", err)
		}
		slog.Info("wrote collector artifact", "path", opts.OutputPath, "records", len(rows))
	}

	return Result{Records: rows, Anomalies: report}, nil
}
