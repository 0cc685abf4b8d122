package ode

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	pdserrors "github.com/pdssp/pds-crawler/pkg/errors"
	"github.com/pdssp/pds-crawler/pkg/fingerprint"
	"github.com/pdssp/pds-crawler/pkg/httpfetch"
	"github.com/pdssp/pds-crawler/pkg/integrations"
	"github.com/pdssp/pds-crawler/pkg/model"
	"github.com/pdssp/pds-crawler/pkg/store/filestore"
	"github.com/pdssp/pds-crawler/pkg/store/registry"
)

// DefaultPageSize is the records page size requested from the ODE
// endpoint when none is configured; ODE caps larger requests server-side.
const DefaultPageSize = 100

// Extractor discovers collections and extracts their records from the
// ODE service, per the ODE extractor design.
type Extractor struct {
	client   *integrations.Client
	fetcher  *httpfetch.Fetcher
	registry registry.Store
	files    *filestore.Store
	host     string
	pageSize int
	log      *log.Logger
}

// New constructs an Extractor. host is the ODE discovery/records host
// (scheme + authority, no path), e.g. "https://oderest.rsl.wustl.edu".
func New(client *integrations.Client, fetcher *httpfetch.Fetcher, reg registry.Store, files *filestore.Store, host string, pageSize int, logger *log.Logger) *Extractor {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Extractor{
		client:   client,
		fetcher:  fetcher,
		registry: reg,
		files:    files,
		host:     host,
		pageSize: pageSize,
		log:      logger,
	}
}

// DiscoveryItem pairs a fetched descriptor's fingerprint with the
// descriptor itself. A layer entry that cannot be turned into a valid
// fingerprint is reported through the error value of Discover's
// sequence, not through this struct.
type DiscoveryItem struct {
	Fingerprint fingerprint.Fingerprint
	Descriptor  model.CollectionDescriptor
}

// Discover queries the discovery endpoint for planet (empty means all
// bodies), applies the georeferenced filter, writes every surviving
// descriptor through to the registry store, and returns a lazy sequence
// over them.
func (e *Extractor) Discover(ctx context.Context, planet string) (iter.Seq2[DiscoveryItem, error], error) {
	var env discoveryEnvelope
	if err := e.client.Get(ctx, discoveryURL(e.host, planet), &env); err != nil {
		return nil, pdserrors.Wrap(pdserrors.ErrCodeTransientIO, err, "querying ode discovery endpoint")
	}

	layers := env.ODEResults.ODEResult.Layers.Layer
	seq := func(yield func(DiscoveryItem, error) bool) {
		for _, l := range layers {
			descriptor := descriptorFromLayer(l)
			if !descriptor.Georeferenced() {
				continue
			}
			fp, err := fingerprint.New(descriptor.Target, l.MissionID, descriptor.InstrumentHostID, descriptor.InstrumentID, descriptor.DatasetID)
			if err != nil {
				if !yield(DiscoveryItem{}, pdserrors.Wrap(pdserrors.ErrCodeInvalidFingerprint, err, "layer %q", l.DataSetID)) {
					return
				}
				continue
			}
			if err := e.registry.Put(ctx, fp, descriptor); err != nil {
				if !yield(DiscoveryItem{}, pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "writing descriptor to registry")) {
					return
				}
				continue
			}
			if !yield(DiscoveryItem{Fingerprint: fp, Descriptor: descriptor}, nil) {
				return
			}
		}
	}
	return seq, nil
}

// PageFailure records one page's fetch failure during ExtractRecords;
// it does not abort extraction of the remaining pages.
type PageFailure struct {
	Index int
	Err   error
}

// ExtractResult summarizes one ExtractRecords run.
type ExtractResult struct {
	Fingerprint  fingerprint.Fingerprint
	PagesWritten []int
	Failures     []PageFailure
}

// ExtractRecords enumerates the record pages missing from the file
// store for fp's descriptor and fetches each. pageLimit, when positive,
// bounds extraction to the first pageLimit pages ("sample" mode);
// rerunning with a larger limit extracts only the newly-in-scope pages,
// never rewriting pages already on disk.
func (e *Extractor) ExtractRecords(ctx context.Context, fp fingerprint.Fingerprint, pageLimit int) (ExtractResult, error) {
	descriptor, ok, err := e.registry.Get(ctx, fp)
	if err != nil {
		return ExtractResult{}, pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "reading descriptor from registry")
	}
	if !ok {
		return ExtractResult{}, pdserrors.New(pdserrors.ErrCodeInvariant, "no descriptor registered for %s", fp.String())
	}

	totalPages := descriptor.PageCount(e.pageSize)
	if pageLimit > 0 && pageLimit < totalPages {
		totalPages = pageLimit
	}

	missing := e.files.ListMissingPages(fp, totalPages)
	if len(missing) == 0 {
		return ExtractResult{Fingerprint: fp}, nil
	}

	jobs := make([]httpfetch.Job, 0, len(missing))
	for _, idx := range missing {
		jobs = append(jobs, httpfetch.Job{
			URL:                recordsURL(e.host, descriptor.DatasetID, idx, e.pageSize),
			Path:               e.files.PagePath(fp, idx),
			AllowedContentType: []string{"application/json"},
			Host:               e.host,
		})
	}

	completed, events := e.fetcher.Fetch(ctx, jobs)
	result := ExtractResult{Fingerprint: fp}
	for ev := range events {
		switch ev.Kind {
		case httpfetch.EventFailed:
			result.Failures = append(result.Failures, PageFailure{Index: pageIndexFromPath(ev.Job.Path), Err: ev.Err})
			e.log.With("fingerprint", fp.String(), "path", ev.Job.Path).Warn("page fetch failed", "err", ev.Err)
		case httpfetch.EventCompleted:
			if ev.Suspect {
				e.log.With("fingerprint", fp.String(), "path", ev.Job.Path).Warn("page fetch returned unexpected content-type")
			}
		}
	}
	for _, path := range completed {
		result.PagesWritten = append(result.PagesWritten, pageIndexFromPath(path))
	}
	return result, nil
}

func discoveryURL(host, planet string) string {
	v := url.Values{}
	v.Set("query", "iipt")
	v.Set("output", "json")
	if planet != "" {
		v.Set("odemetadb", planet)
	}
	return fmt.Sprintf("%s/live2/?%s", strings.TrimRight(host, "/"), v.Encode())
}

func recordsURL(host, datasetID string, pageIndex, pageSize int) string {
	v := url.Values{}
	v.Set("query", "product")
	v.Set("output", "JSON")
	v.Set("datasetid", datasetID)
	v.Set("page", fmt.Sprintf("%d", pageIndex))
	v.Set("pagesize", fmt.Sprintf("%d", pageSize))
	return fmt.Sprintf("%s/live2/?%s", strings.TrimRight(host, "/"), v.Encode())
}

func descriptorFromLayer(l layerEntry) model.CollectionDescriptor {
	return model.CollectionDescriptor{
		Target:           strings.ToUpper(l.Target),
		Mission:          l.MissionID,
		InstrumentHostID: l.IHID,
		InstrumentID:     l.IID,
		DatasetID:        l.DataSetID,
		VolumeID:         l.VolumeID,
		ProductCount:     parseODEInt(l.NumberProducts),
		FootprintValid:   parseODEBool(l.FootprintValid),
		StartTime:        parseLooseTime(l.TimebandStart),
		StopTime:         parseLooseTime(l.TimebandStop),
		RecordsURL:       l.RecordsURL,
		VolumeURL:        l.VolumeURL,
	}
}

var looseTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseLooseTime(s string) time.Time {
	for _, layout := range looseTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// pageIndexFromPath recovers the page index encoded in a page file's
// name (page_NNN.json), for reporting purposes only.
func pageIndexFromPath(path string) int {
	var idx int
	_, err := fmt.Sscanf(lastPathSegment(path), "page_%d.json", &idx)
	if err != nil {
		return -1
	}
	return idx
}

func lastPathSegment(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}
