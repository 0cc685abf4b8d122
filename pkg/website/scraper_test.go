package website

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pdssp/pds-crawler/pkg/fingerprint"
	"github.com/pdssp/pds-crawler/pkg/httpfetch"
	"github.com/pdssp/pds-crawler/pkg/httputil"
	"github.com/pdssp/pds-crawler/pkg/integrations"
	"github.com/pdssp/pds-crawler/pkg/model"
	"github.com/pdssp/pds-crawler/pkg/store/filestore"
)

func TestMatchRosterCaseInsensitive(t *testing.T) {
	tests := []struct {
		text     string
		wantKind string
		wantOK   bool
	}{
		{"MISSION.CAT", "mission", true},
		{"personnel info", "personnel", true},
		{"Data Set Map Projection Catalog", "data_set_map_projection", true},
		{"Instrument Host Catalog", "instrument_host", true},
		{"Instrument Catalog", "instrument", true},
		{"readme.txt", "", false},
	}
	for _, tt := range tests {
		kind, ok := matchRoster(tt.text)
		if ok != tt.wantOK || kind != tt.wantKind {
			t.Errorf("matchRoster(%q) = (%q, %v), want (%q, %v)", tt.text, kind, ok, tt.wantKind, tt.wantOK)
		}
	}
}

func TestFirstMatchPerKind(t *testing.T) {
	anchors := []Anchor{
		{Kind: "mission", Href: "/a/MISSION.CAT"},
		{Kind: "mission", Href: "/b/MISSION2.CAT"},
		{Kind: "personnel", Href: "/c/PERSONNEL.CAT"},
	}
	got := firstMatchPerKind(anchors)
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].Href != "/a/MISSION.CAT" {
		t.Errorf("first mission anchor = %q, want the first-seen one", got[0].Href)
	}
}

func TestExtractDownloadsMatchedAnchors(t *testing.T) {
	var mu sync.Mutex
	var downloaded []string

	mux := http.NewServeMux()
	mux.HandleFunc("/mars/mgsl_2001/volume", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="MISSION.CAT">Mission Catalog</a>
			<a href="PERSONNEL.CAT">Personnel Catalog</a>
			<a href="README.TXT">read me</a>
		</body></html>`))
	})
	mux.HandleFunc("/mars/mgsl_2001/MISSION.CAT", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		downloaded = append(downloaded, "MISSION.CAT")
		mu.Unlock()
		w.Write([]byte("mission data"))
	})
	mux.HandleFunc("/mars/mgsl_2001/PERSONNEL.CAT", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		downloaded = append(downloaded, "PERSONNEL.CAT")
		mu.Unlock()
		w.Write([]byte("personnel data"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	client := integrations.NewClient(cache, time.Hour, nil)
	fetcher := httpfetch.New(httpfetch.DefaultOptions(), nil)
	files := filestore.New(t.TempDir())
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})

	e := New(client, fetcher, files, srv.URL, logger)

	fp, err := fingerprint.New("mars", "mgs", "mgs", "mola", "MGS-M-MOLA-3-PEDR-L1A-V1.0")
	if err != nil {
		t.Fatalf("fingerprint.New() error: %v", err)
	}
	descriptor := model.CollectionDescriptor{VolumeID: "mgsl_2001"}

	matched, err := e.Extract(context.Background(), fp, descriptor, nil)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if len(matched) != 2 {
		t.Fatalf("len(matched) = %d, want 2", len(matched))
	}

	mu.Lock()
	defer mu.Unlock()
	if len(downloaded) != 2 {
		t.Errorf("downloaded = %v, want 2 files", downloaded)
	}
}

func TestResolveVolumeIDFallsBackToRecord(t *testing.T) {
	descriptor := model.CollectionDescriptor{}
	records := []model.Record{{VolumeID: "MGSL_2001"}}
	if got := resolveVolumeID(descriptor, records); got != "MGSL_2001" {
		t.Errorf("resolveVolumeID() = %q, want MGSL_2001", got)
	}
}
