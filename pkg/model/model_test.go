package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCollectionDescriptorGeoreferenced(t *testing.T) {
	tests := []struct {
		name           string
		footprintValid bool
		productCount   int
		want           bool
	}{
		{"valid and positive", true, 10, true},
		{"valid and zero", true, 0, false},
		{"invalid and positive", false, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CollectionDescriptor{FootprintValid: tt.footprintValid, ProductCount: tt.productCount}
			if got := d.Georeferenced(); got != tt.want {
				t.Errorf("Georeferenced() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollectionDescriptorPageCount(t *testing.T) {
	d := CollectionDescriptor{ProductCount: 1000}
	if got := d.PageCount(100); got != 10 {
		t.Errorf("PageCount(100) = %d, want 10", got)
	}
	d = CollectionDescriptor{ProductCount: 1001}
	if got := d.PageCount(100); got != 11 {
		t.Errorf("PageCount(100) = %d, want 11", got)
	}
}

func TestPageComplete(t *testing.T) {
	p := Page{TotalRecords: 2, Records: []Record{{ID: "a"}, {ID: "b"}}}
	if !p.Complete() {
		t.Error("Complete() should be true when counts match")
	}
	p.Records = p.Records[:1]
	if p.Complete() {
		t.Error("Complete() should be false for a partial page")
	}
}

func TestExtentUnion(t *testing.T) {
	a := Extent{Bbox: [4]float64{0, 0, 10, 10}, StartTime: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), StopTime: time.Date(2000, 6, 1, 0, 0, 0, 0, time.UTC)}
	b := Extent{Bbox: [4]float64{-5, -5, 5, 5}, StartTime: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), StopTime: time.Date(2000, 3, 1, 0, 0, 0, 0, time.UTC)}
	u := a.Union(b)
	if u.Bbox != [4]float64{-5, -5, 10, 10} {
		t.Errorf("Union bbox = %v", u.Bbox)
	}
	if !u.StartTime.Equal(b.StartTime) {
		t.Errorf("Union start = %v, want %v", u.StartTime, b.StartTime)
	}
	if !u.StopTime.Equal(a.StopTime) {
		t.Errorf("Union stop = %v, want %v", u.StopTime, a.StopTime)
	}
}

func TestExtentCovers(t *testing.T) {
	parent := Extent{StartTime: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), StopTime: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)}
	child := Extent{StartTime: time.Date(2000, 6, 1, 0, 0, 0, 0, time.UTC), StopTime: time.Date(2000, 7, 1, 0, 0, 0, 0, time.UTC)}
	if !parent.Covers(child) {
		t.Error("Covers() should be true when child is within parent")
	}
	outside := Extent{StartTime: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), StopTime: time.Date(2000, 7, 1, 0, 0, 0, 0, time.UTC)}
	if parent.Covers(outside) {
		t.Error("Covers() should be false when child starts before parent")
	}
}

func TestCatalogJSONRoundTrip(t *testing.T) {
	c := Catalog{
		ID:    "mars-global-surveyor",
		Kind:  NodeKindCatalog,
		Title: "Mars Global Surveyor",
		Links: []Link{{Rel: "child", Href: "./mgs/catalog.json"}},
	}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var got Catalog
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got.ID != c.ID || got.Title != c.Title || len(got.Links) != 1 {
		t.Errorf("round-trip mismatch: got %+v", got)
	}
}
