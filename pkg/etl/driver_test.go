package etl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pdssp/pds-crawler/pkg/fingerprint"
	"github.com/pdssp/pds-crawler/pkg/httpfetch"
	"github.com/pdssp/pds-crawler/pkg/httputil"
	"github.com/pdssp/pds-crawler/pkg/integrations"
	"github.com/pdssp/pds-crawler/pkg/model"
	"github.com/pdssp/pds-crawler/pkg/ode"
	"github.com/pdssp/pds-crawler/pkg/stac"
	"github.com/pdssp/pds-crawler/pkg/store/filestore"
	"github.com/pdssp/pds-crawler/pkg/store/registry"
	"github.com/pdssp/pds-crawler/pkg/website"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
}

func samplePage() []byte {
	return []byte(`{
  "ODEResults": {
    "ODEResult": {
      "Count": "1",
      "Products": {
        "Product": [{
          "pdsid": "MOLA-0001",
          "volume_id": "MGSL_2001",
          "UTC_start_time": "1999-03-01T00:00:00",
          "UTC_stop_time": "1999-03-01T00:10:00",
          "Footprint_C0_geometry": "POLYGON((10 10, 20 10, 20 20, 10 20, 10 10))",
          "Product_files": [{"URL": "http://example.com/MOLA-0001.IMG", "FileSize": "2048", "Type": "IMAGE"}]
        }]
      }
    }
  }
}`)
}

func newHarness(t *testing.T, host string) (*Driver, registry.Store, *filestore.Store) {
	t.Helper()
	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	client := integrations.NewClient(cache, time.Hour, nil)
	fetchOpts := httpfetch.DefaultOptions()
	fetchOpts.MaxAttempts = 1
	fetchOpts.BaseBackoff = time.Millisecond
	fetcher := httpfetch.New(fetchOpts, nil)

	reg, err := registry.NewFileStore(t.TempDir() + "/registry.jsonl")
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	t.Cleanup(func() { reg.Close() })
	files := filestore.New(t.TempDir())

	odeExtractor := ode.New(client, fetcher, reg, files, host, 100, testLogger())
	websiteExtractor := website.New(client, fetcher, files, host, testLogger())
	transformer := stac.New(files, reg, testLogger())

	return New(reg, files, odeExtractor, websiteExtractor, transformer, nil, 2, testLogger()), reg, files
}

func TestExtractRecordsReportsCollectionFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d, reg, _ := newHarness(t, srv.URL)
	fp, err := fingerprint.New("mars", "mgs", "mgs", "mola", "MGS-M-MOLA-3-PEDR-L1A-V1.0")
	if err != nil {
		t.Fatalf("fingerprint.New() error: %v", err)
	}
	descriptor := model.CollectionDescriptor{DatasetID: fp.DatasetID, ProductCount: 100, FootprintValid: true}
	if err := reg.Put(context.Background(), fp, descriptor); err != nil {
		t.Fatalf("registry.Put() error: %v", err)
	}

	summary, err := d.ExtractRecords(context.Background(), SelectAll(), 1)
	if err != nil {
		t.Fatalf("ExtractRecords() error: %v", err)
	}
	if summary.Processed != 1 {
		t.Errorf("Processed = %d, want 1", summary.Processed)
	}
	if len(summary.Failures) != 1 {
		t.Errorf("len(Failures) = %d, want 1 (upstream always 500s)", len(summary.Failures))
	}
}

func TestSelectorDatasetIDFiltersCollections(t *testing.T) {
	d, reg, files := newHarness(t, "http://unused.invalid")
	fpA, _ := fingerprint.New("mars", "mgs", "mgs", "mola", "DATASET-A")
	fpB, _ := fingerprint.New("mars", "mgs", "mgs", "mola", "DATASET-B")
	ctx := context.Background()

	for _, fp := range []fingerprint.Fingerprint{fpA, fpB} {
		if err := reg.Put(ctx, fp, model.CollectionDescriptor{DatasetID: fp.DatasetID, ProductCount: 1, FootprintValid: true}); err != nil {
			t.Fatalf("registry.Put() error: %v", err)
		}
		if err := files.WritePage(fp, 0, samplePage()); err != nil {
			t.Fatalf("WritePage() error: %v", err)
		}
	}

	summary, err := d.TransformRecords(ctx, SelectDatasetID("DATASET-A"))
	if err != nil {
		t.Fatalf("TransformRecords() error: %v", err)
	}
	if summary.Processed != 1 {
		t.Errorf("Processed = %d, want 1 (selector should filter to DATASET-A only)", summary.Processed)
	}
	if _, err := files.ReadSTAC(fpA, "collection.json"); err != nil {
		t.Errorf("collection A should have been transformed: %v", err)
	}
	if _, err := files.ReadSTAC(fpB, "collection.json"); err == nil {
		t.Errorf("collection B should not have been transformed")
	}
}

func TestCheckExtractReportsMissingPages(t *testing.T) {
	d, reg, files := newHarness(t, "http://unused.invalid")
	fp, _ := fingerprint.New("mars", "mgs", "mgs", "mola", "MGS-M-MOLA-3-PEDR-L1A-V1.0")
	ctx := context.Background()
	if err := reg.Put(ctx, fp, model.CollectionDescriptor{DatasetID: fp.DatasetID, ProductCount: 250, FootprintValid: true}); err != nil {
		t.Fatalf("registry.Put() error: %v", err)
	}
	if err := files.WritePage(fp, 0, samplePage()); err != nil {
		t.Fatalf("WritePage() error: %v", err)
	}

	reports, err := d.CheckExtract(ctx, SelectAll())
	if err != nil {
		t.Fatalf("CheckExtract() error: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("len(reports) = %d, want 1", len(reports))
	}
	if len(reports[0].MissingPages) == 0 {
		t.Error("expected missing pages to be reported (only page 0 written of 3)")
	}
	if !reports[0].MissingPDS3 {
		t.Error("expected MissingPDS3 = true, no pds3 files written")
	}
}

func TestSelectSampleLimitsCollections(t *testing.T) {
	d, reg, files := newHarness(t, "http://unused.invalid")
	ctx := context.Background()
	for _, id := range []string{"DATASET-A", "DATASET-B", "DATASET-C"} {
		fp, _ := fingerprint.New("mars", "mgs", "mgs", "mola", id)
		if err := reg.Put(ctx, fp, model.CollectionDescriptor{DatasetID: id, ProductCount: 1, FootprintValid: true}); err != nil {
			t.Fatalf("registry.Put() error: %v", err)
		}
		if err := files.WritePage(fp, 0, samplePage()); err != nil {
			t.Fatalf("WritePage() error: %v", err)
		}
	}

	summary, err := d.TransformRecords(ctx, SelectSample(2))
	if err != nil {
		t.Fatalf("TransformRecords() error: %v", err)
	}
	if summary.Processed != 2 {
		t.Errorf("Processed = %d, want 2 (SelectSample(2) should cap collections)", summary.Processed)
	}
}
