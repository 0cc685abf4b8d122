package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	pdserrors "github.com/pdssp/pds-crawler/pkg/errors"
)

// recordPageEnvelope mirrors the ODE records endpoint's response shape:
// a product list plus the total count used to validate page completeness.
type recordPageEnvelope struct {
	ODEResults struct {
		ODEResult struct {
			Count    string          `json:"Count"`
			Products productsWrapper `json:"Products"`
		} `json:"ODEResult"`
	} `json:"ODEResults"`
}

// productsWrapper accepts the ODE quirk of a single product being
// returned as a bare object instead of a one-element array.
type productsWrapper struct {
	Product []productEntry
}

func (w *productsWrapper) UnmarshalJSON(data []byte) error {
	var list []productEntry
	if err := json.Unmarshal(data, &struct {
		Product *[]productEntry `json:"Product"`
	}{Product: &list}); err == nil && list != nil {
		w.Product = list
		return nil
	}
	var single struct {
		Product productEntry `json:"Product"`
	}
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	w.Product = []productEntry{single.Product}
	return nil
}

type productEntry struct {
	PDSID        string            `json:"pdsid"`
	VolumeID     string            `json:"volume_id"`
	UTCStartTime string            `json:"UTC_start_time"`
	UTCStopTime  string            `json:"UTC_stop_time"`
	Footprint    string            `json:"Footprint_C0_geometry"` // WKT POLYGON(...)
	ProductFiles []productFileWire `json:"Product_files"`
}

type productFileWire struct {
	URL      string `json:"URL"`
	FileSize string `json:"FileSize"`
	Type     string `json:"Type"`
	Checksum string `json:"Checksum"`
}

// DecodePage decodes a raw ODE records page (persisted verbatim by
// ExtractRecords) into typed records. index is the page's on-disk index,
// supplied by the caller since the upstream payload doesn't carry it.
func DecodePage(raw []byte, index int) (Page, error) {
	var env recordPageEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Page{}, pdserrors.Wrap(pdserrors.ErrCodeMalformedUpstream, err, "decoding record page")
	}

	result := env.ODEResults.ODEResult
	total, _ := strconv.Atoi(result.Count)

	records := make([]Record, 0, len(result.Products.Product))
	for _, p := range result.Products.Product {
		records = append(records, recordFromEntry(p))
	}

	return Page{Index: index, TotalRecords: total, Records: records}, nil
}

func recordFromEntry(p productEntry) Record {
	files := make([]ProductFile, 0, len(p.ProductFiles))
	for _, f := range p.ProductFiles {
		size, _ := strconv.ParseInt(f.FileSize, 10, 64)
		files = append(files, ProductFile{URL: f.URL, Size: size, Type: f.Type, Checksum: f.Checksum})
	}
	return Record{
		ID:        p.PDSID,
		VolumeID:  p.VolumeID,
		StartTime: parseODETime(p.UTCStartTime),
		StopTime:  parseODETime(p.UTCStopTime),
		Footprint: footprintFromWKT(p.Footprint),
		Files:     files,
	}
}

var odeTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseODETime(s string) time.Time {
	for _, layout := range odeTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// footprintFromWKT parses a minimal "POLYGON((lon lat, lon lat, ...))"
// WKT string, the shape ODE emits for Footprint_C0_geometry. Returns nil
// for anything else rather than erroring; a missing footprint does not
// invalidate the record.
func footprintFromWKT(wkt string) *Footprint {
	wkt = strings.TrimSpace(wkt)
	upper := strings.ToUpper(wkt)
	if !strings.HasPrefix(upper, "POLYGON") {
		return nil
	}
	open := strings.Index(wkt, "((")
	close := strings.LastIndex(wkt, "))")
	if open < 0 || close < 0 || close <= open {
		return nil
	}
	ring := wkt[open+2 : close]
	pairs := strings.Split(ring, ",")
	coords := make([][]float64, 0, len(pairs))
	for _, pair := range pairs {
		fields := strings.Fields(strings.TrimSpace(pair))
		if len(fields) != 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(fields[0], 64)
		lat, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		coords = append(coords, []float64{lon, lat})
	}
	if len(coords) == 0 {
		return nil
	}
	return &Footprint{Type: "Polygon", Coordinates: [][][]float64{coords}}
}
