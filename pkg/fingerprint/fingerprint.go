// Package fingerprint defines the collection fingerprint: the minimal tuple
// that uniquely identifies a PDS data set across the storage layer, the
// registry store, and the STAC tree.
package fingerprint

import (
	"fmt"
	"strings"

	pdserrors "github.com/pdssp/pds-crawler/pkg/errors"
)

// Fingerprint is the immutable (target, mission, host, instrument, dataset_id)
// tuple that identifies a PDS data set. Every storage key derives from it.
// The zero value is not usable; construct with [New].
type Fingerprint struct {
	Target     string
	Mission    string
	Host       string
	Instrument string
	DatasetID  string
}

// New validates and constructs a Fingerprint. Each component must be a
// non-empty string usable as a filesystem path segment.
func New(target, mission, host, instrument, datasetID string) (Fingerprint, error) {
	fp := Fingerprint{
		Target:     strings.ToUpper(strings.TrimSpace(target)),
		Mission:    strings.ToUpper(strings.TrimSpace(mission)),
		Host:       strings.ToUpper(strings.TrimSpace(host)),
		Instrument: strings.ToUpper(strings.TrimSpace(instrument)),
		DatasetID:  strings.TrimSpace(datasetID),
	}
	for _, c := range []string{fp.Target, fp.Mission, fp.Host, fp.Instrument, fp.DatasetID} {
		if err := pdserrors.ValidateFingerprintComponent(c); err != nil {
			return Fingerprint{}, pdserrors.Wrap(pdserrors.ErrCodeInvalidFingerprint, err, "invalid fingerprint component")
		}
	}
	return fp, nil
}

// String renders the fingerprint as a single human-readable key, used in
// logs and report files.
func (fp Fingerprint) String() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", fp.Target, fp.Mission, fp.Host, fp.Instrument, fp.DatasetID)
}

// Path returns the fingerprint's on-disk path segments, matching the
// target/mission/host/instrument/dataset_id layout of the file store.
func (fp Fingerprint) Path() []string {
	return []string{fp.Target, fp.Mission, fp.Host, fp.Instrument, fp.DatasetID}
}

// Equal reports whether two fingerprints identify the same data set.
func (fp Fingerprint) Equal(other Fingerprint) bool {
	return fp == other
}
