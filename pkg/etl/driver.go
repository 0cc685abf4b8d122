package etl

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	pdserrors "github.com/pdssp/pds-crawler/pkg/errors"
	"github.com/pdssp/pds-crawler/pkg/fingerprint"
	"github.com/pdssp/pds-crawler/pkg/model"
	"github.com/pdssp/pds-crawler/pkg/observability"
	"github.com/pdssp/pds-crawler/pkg/ode"
	"github.com/pdssp/pds-crawler/pkg/stac"
	"github.com/pdssp/pds-crawler/pkg/status"
	"github.com/pdssp/pds-crawler/pkg/store/filestore"
	"github.com/pdssp/pds-crawler/pkg/store/registry"
	"github.com/pdssp/pds-crawler/pkg/website"
)

// CollectionFailure records one collection's phase failure; the driver
// continues to the next collection rather than aborting the phase.
type CollectionFailure struct {
	Fingerprint string `json:"fingerprint"`
	Err         string `json:"error"`
}

// PhaseSummary is the machine-readable report written at the root of
// the storage tree after each phase, tagged with a run id so repeated
// runs of the same phase don't clobber each other's summaries.
type PhaseSummary struct {
	RunID      string               `json:"run_id"`
	Phase      string               `json:"phase"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Processed  int                  `json:"collections_processed"`
	Failures   []CollectionFailure  `json:"failures,omitempty"`
}

// Driver coordinates the discover -> extract_records -> extract_pds3 ->
// transform_pds3 -> transform_records phases. It keeps no state of its
// own; every method is safe to call repeatedly, in any order, against
// the same storage tree.
type Driver struct {
	registry    registry.Store
	files       *filestore.Store
	ode         *ode.Extractor
	website     *website.Extractor
	transformer *stac.Transformer
	status      *status.Server
	concurrency int
	log         *log.Logger
}

// New constructs a Driver. status may be nil, in which case phase
// progress is only logged, not served over HTTP. concurrency bounds how
// many collections are processed in parallel within a phase; values <1
// are treated as 1.
func New(reg registry.Store, files *filestore.Store, odeExtractor *ode.Extractor, websiteExtractor *website.Extractor, transformer *stac.Transformer, statusServer *status.Server, concurrency int, logger *log.Logger) *Driver {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Driver{
		registry:    reg,
		files:       files,
		ode:         odeExtractor,
		website:     websiteExtractor,
		transformer: transformer,
		status:      statusServer,
		concurrency: concurrency,
		log:         logger,
	}
}

// Discover runs the discover phase for the given planet (empty means
// every body) and returns its summary.
func (d *Driver) Discover(ctx context.Context, planet string) (PhaseSummary, error) {
	start := time.Now()
	observability.ETL().OnDiscoverStart(ctx, planet)
	summary := d.newSummary("discover")

	seq, err := d.ode.Discover(ctx, planet)
	if err != nil {
		observability.ETL().OnDiscoverComplete(ctx, planet, 0, time.Since(start), err)
		return summary, pdserrors.Wrap(pdserrors.ErrCodeTransientIO, err, "discover phase")
	}
	for item, err := range seq {
		if err != nil {
			summary.Failures = append(summary.Failures, CollectionFailure{Err: err.Error()})
			continue
		}
		summary.Processed++
		d.reportProgress("discover", item.Fingerprint.String(), summary.Processed, 0, len(summary.Failures))
	}
	d.finish(&summary)
	observability.ETL().OnDiscoverComplete(ctx, planet, summary.Processed, time.Since(start), nil)
	return summary, nil
}

// ExtractRecords runs the extract_records phase over sel, extracting at
// most pageLimit pages per collection (0 means no limit, the "sample"
// CLI flag).
func (d *Driver) ExtractRecords(ctx context.Context, sel Selector, pageLimit int) (PhaseSummary, error) {
	return d.forEachCollection(ctx, "extract_records", sel, func(ctx context.Context, fp fingerprint.Fingerprint, _ model.CollectionDescriptor) error {
		start := time.Now()
		observability.ETL().OnExtractStart(ctx, fp.String(), pageLimit)
		result, err := d.ode.ExtractRecords(ctx, fp, pageLimit)
		if err != nil {
			observability.ETL().OnExtractComplete(ctx, fp.String(), 0, time.Since(start), err)
			return err
		}
		if len(result.Failures) > 0 {
			err := fmt.Errorf("%d page(s) failed, first: %w", len(result.Failures), result.Failures[0].Err)
			observability.ETL().OnExtractComplete(ctx, fp.String(), len(result.PagesWritten), time.Since(start), err)
			return err
		}
		observability.ETL().OnExtractComplete(ctx, fp.String(), len(result.PagesWritten), time.Since(start), nil)
		return nil
	})
}

// ExtractPDS3 runs the extract_pds3 phase over sel: scraping each
// collection's volume-index page and downloading the matched PDS3
// catalog files.
func (d *Driver) ExtractPDS3(ctx context.Context, sel Selector) (PhaseSummary, error) {
	return d.forEachCollection(ctx, "extract_pds3", sel, func(ctx context.Context, fp fingerprint.Fingerprint, descriptor model.CollectionDescriptor) error {
		records, err := loadRecords(d.files, fp)
		if err != nil {
			return err
		}
		_, err = d.website.Extract(ctx, fp, descriptor, records)
		return err
	})
}

// TransformPDS3 runs the transform_pds3 phase over sel.
func (d *Driver) TransformPDS3(ctx context.Context, sel Selector) (PhaseSummary, error) {
	return d.forEachCollection(ctx, "transform_pds3", sel, func(ctx context.Context, fp fingerprint.Fingerprint, _ model.CollectionDescriptor) error {
		start := time.Now()
		observability.ETL().OnTransformStart(ctx, fp.String())
		report, err := d.transformer.TransformPDS3(ctx, fp)
		if err != nil {
			observability.ETL().OnTransformComplete(ctx, fp.String(), 0, time.Since(start), err)
			return err
		}
		err = reportErr(report)
		observability.ETL().OnTransformComplete(ctx, fp.String(), len(report.Failures), time.Since(start), err)
		return err
	})
}

// TransformRecords runs the transform_records phase over sel.
func (d *Driver) TransformRecords(ctx context.Context, sel Selector) (PhaseSummary, error) {
	return d.forEachCollection(ctx, "transform_records", sel, func(ctx context.Context, fp fingerprint.Fingerprint, _ model.CollectionDescriptor) error {
		start := time.Now()
		observability.ETL().OnTransformStart(ctx, fp.String())
		report, err := d.transformer.TransformRecords(ctx, fp)
		if err != nil {
			observability.ETL().OnTransformComplete(ctx, fp.String(), 0, time.Since(start), err)
			return err
		}
		err = reportErr(report)
		observability.ETL().OnTransformComplete(ctx, fp.String(), len(report.Failures), time.Since(start), err)
		return err
	})
}

// CheckReport is one collection's check_extract result.
type CheckReport struct {
	Fingerprint   string `json:"fingerprint"`
	MissingPages  []int  `json:"missing_pages,omitempty"`
	MissingPDS3   bool   `json:"missing_pds3"`
}

// CheckExtract reports, per selected collection, which record pages are
// missing against the descriptor's declared product count and whether
// any PDS3 catalog file has been downloaded at all.
func (d *Driver) CheckExtract(ctx context.Context, sel Selector) ([]CheckReport, error) {
	var reports []CheckReport
	accepted := 0
	for fp, descriptor := range d.registry.All(ctx, "") {
		if !sel.matches(fp, accepted) {
			continue
		}
		accepted++

		missing := d.files.ListMissingPages(fp, descriptor.PageCount(ode.DefaultPageSize))

		pds3Files, err := d.files.ListPDS3(fp)
		if err != nil {
			return reports, err
		}

		reports = append(reports, CheckReport{
			Fingerprint:  fp.String(),
			MissingPages: missing,
			MissingPDS3:  len(pds3Files) == 0,
		})
	}
	return reports, nil
}

// forEachCollection is the shared fan-out used by every collection-level
// phase: it iterates the registry filtered by sel, runs work for each
// surviving collection with bounded concurrency, and records failures
// without aborting the phase.
func (d *Driver) forEachCollection(ctx context.Context, phase string, sel Selector, work func(context.Context, fingerprint.Fingerprint, model.CollectionDescriptor) error) (PhaseSummary, error) {
	summary := d.newSummary(phase)

	type job struct {
		fp         fingerprint.Fingerprint
		descriptor model.CollectionDescriptor
	}
	var jobs []job
	accepted := 0
	for fp, descriptor := range d.registry.All(ctx, "") {
		if !sel.matches(fp, accepted) {
			continue
		}
		accepted++
		jobs = append(jobs, job{fp: fp, descriptor: descriptor})
	}

	var failures []CollectionFailure

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	results := make(chan CollectionFailure, len(jobs))
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := work(gctx, j.fp, j.descriptor); err != nil {
				results <- CollectionFailure{Fingerprint: j.fp.String(), Err: err.Error()}
				d.log.With("phase", phase, "fingerprint", j.fp.String()).Warn("collection failed", "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	close(results)
	for f := range results {
		failures = append(failures, f)
	}

	summary.Processed = len(jobs)
	summary.Failures = failures
	d.finish(&summary)
	d.reportProgress(phase, "", summary.Processed, len(jobs), len(failures))
	return summary, nil
}

func (d *Driver) newSummary(phase string) PhaseSummary {
	return PhaseSummary{RunID: uuid.New().String(), Phase: phase, StartedAt: time.Now()}
}

func (d *Driver) finish(summary *PhaseSummary) {
	summary.FinishedAt = time.Now()
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		d.log.Warn("marshaling phase summary", "err", err)
		return
	}
	name := fmt.Sprintf("summary_%s_%s.json", summary.Phase, summary.RunID)
	if err := d.files.WriteSummary(name, data); err != nil {
		d.log.Warn("writing phase summary", "err", err)
	}
}

func (d *Driver) reportProgress(phase, collection string, done, total, failures int) {
	d.log.With("phase", phase).Info("phase progress", "done", done, "total", total, "failures", failures)
	if d.status == nil {
		return
	}
	d.status.Update(status.Snapshot{
		Phase:            phase,
		Collection:       collection,
		CollectionsDone:  done,
		CollectionsTotal: total,
		Failures:         failures,
	})
}

// reportErr turns a stac.Report with failures into an error summarizing
// the first one, so forEachCollection's failure bookkeeping covers
// transform phases the same way it covers extract phases.
func reportErr(report stac.Report) error {
	if len(report.Failures) == 0 {
		return nil
	}
	first := report.Failures[0]
	return fmt.Errorf("%d failure(s), first on %s: %v", len(report.Failures), first.Subject, first.Err)
}

// loadRecords reads every written record page for fp and decodes it, in
// page-index order, for consumers that need the full record set (the
// website extractor's volume-id fallback).
func loadRecords(files *filestore.Store, fp fingerprint.Fingerprint) ([]model.Record, error) {
	indices, err := files.ListPages(fp)
	if err != nil {
		return nil, err
	}
	var records []model.Record
	for _, idx := range indices {
		raw, err := files.ReadPage(fp, idx)
		if err != nil {
			return nil, err
		}
		page, err := model.DecodePage(raw, idx)
		if err != nil {
			return nil, err
		}
		records = append(records, page.Records...)
	}
	return records, nil
}
