package model

import "time"

// CollectionDescriptor is metadata about a PDS data set, sourced from the
// ODE discovery endpoint. A descriptor is "georeferenced" iff FootprintValid
// is true and ProductCount is positive; only georeferenced descriptors are
// retained by discover.
type CollectionDescriptor struct {
	Target           string    `json:"target"`
	Mission          string    `json:"mission_name"`
	InstrumentHostID string    `json:"instrument_host_id"`
	InstrumentID     string    `json:"instrument_id"`
	DatasetID        string    `json:"data_set_id"`
	VolumeID         string    `json:"volume_id"`
	ProductCount     int       `json:"product_count"`
	FootprintValid   bool      `json:"footprint_valid"`
	StartTime        time.Time `json:"start_time"`
	StopTime         time.Time `json:"stop_time"`
	RecordsURL       string    `json:"records_url_template"`
	VolumeURL        string    `json:"volume_url"`
}

// Georeferenced reports whether the descriptor passes the discover filter:
// a valid footprint and at least one product.
func (d CollectionDescriptor) Georeferenced() bool {
	return d.FootprintValid && d.ProductCount > 0
}

// PageCount returns the number of record pages needed to cover ProductCount
// products at the given page size, per ceil(product_count / page_size).
func (d CollectionDescriptor) PageCount(pageSize int) int {
	if pageSize <= 0 || d.ProductCount <= 0 {
		return 0
	}
	return (d.ProductCount + pageSize - 1) / pageSize
}
