package stac

import (
	"fmt"
	"path"
	"strings"

	"github.com/pdssp/pds-crawler/pkg/model"
)

// assetMediaType infers a STAC media type from a product file's URL
// extension, falling back to the upstream-declared Type when the
// extension is unrecognized.
func assetMediaType(f model.ProductFile) string {
	switch strings.ToLower(path.Ext(f.URL)) {
	case ".img", ".imq":
		return "application/octet-stream"
	case ".lbl":
		return "text/plain"
	case ".tab":
		return "text/csv"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".xml":
		return "application/xml"
	default:
		return f.Type
	}
}

// assetRole infers the STAC asset role from the file extension: data,
// metadata, or thumbnail.
func assetRole(f model.ProductFile) string {
	switch strings.ToLower(path.Ext(f.URL)) {
	case ".lbl", ".xml":
		return "metadata"
	case ".jpg", ".jpeg", ".png":
		return "thumbnail"
	default:
		return "data"
	}
}

// assetKey names an item's asset dictionary entry: the file's base name
// when present, otherwise a positional fallback so two extensionless
// files in the same record don't collide.
func assetKey(f model.ProductFile, index int) string {
	base := path.Base(f.URL)
	if base != "" && base != "." && base != "/" {
		return base
	}
	return fmt.Sprintf("asset-%d", index)
}
