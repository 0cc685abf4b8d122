package stac

import (
	"github.com/pdssp/pds-crawler/pkg/model"
)

// childLink describes one child catalog to be linked from its parent.
type childLink struct {
	id   string
	href string
}

// buildCatalog assembles a non-leaf catalog node (root, mission, host, or
// instrument) from scratch: links are always regenerated, never patched,
// per the merge rule that a node's link set reflects only what the
// transformer itself currently knows about.
func buildCatalog(id string, kind model.NodeKind, title, selfHref, rootHref, parentHref string, children []childLink, extent model.Extent) model.Catalog {
	cat := model.Catalog{
		ID:    id,
		Kind:  kind,
		Title: title,
	}
	if extent != (model.Extent{}) {
		e := extent
		cat.Extent = &e
	}
	cat.Links = append(cat.Links, model.Link{Rel: "self", Href: selfHref})
	cat.Links = append(cat.Links, model.Link{Rel: "root", Href: rootHref})
	if parentHref != "" {
		cat.Links = append(cat.Links, model.Link{Rel: "parent", Href: parentHref})
	}
	for _, c := range children {
		cat.Links = append(cat.Links, model.Link{Rel: "child", Href: c.href, Type: c.id})
	}
	return cat
}

// mergeTitle applies the PDS3-wins-over-ODE-descriptor field conflict
// rule: a non-empty incoming title always overrides whatever the node
// already carries, since the transformer that supplies a non-empty title
// necessarily has richer data than a bare fingerprint-derived fallback.
func mergeTitle(existingTitle, fallback, pds3Title string) string {
	if pds3Title != "" {
		return pds3Title
	}
	if existingTitle != "" {
		return existingTitle
	}
	return fallback
}

// mergeKeywords unions two keyword lists, preserving a's order and
// appending b's keywords not already present.
func mergeKeywords(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := append([]string(nil), a...)
	for _, k := range a {
		seen[k] = true
	}
	for _, k := range b {
		if k != "" && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// itemFromRecord projects one ODE record into a STAC item belonging to
// collectionID, per the domain model's record-to-item projection: the
// footprint becomes geometry, the product files become one asset per
// file with role/type inferred from extension.
func itemFromRecord(collectionID string, r model.Record) model.Item {
	item := model.Item{
		ID:         r.ID,
		Collection: collectionID,
		Geometry:   r.Footprint,
		DateTime:   r.StartTime,
		Assets:     make(map[string]model.Asset, len(r.Files)),
		Links: []model.Link{
			{Rel: "collection", Href: collectionID},
			{Rel: "parent", Href: collectionID},
		},
	}
	if r.Footprint != nil {
		item.Bbox = bboxFromFootprint(r.Footprint)
	}
	for i, f := range r.Files {
		item.Assets[assetKey(f, i)] = model.Asset{
			Href: f.URL,
			Type: assetMediaType(f),
			Role: assetRole(f),
		}
	}
	return item
}

// itemExtent derives the spatial/temporal extent a single item
// contributes toward its collection's union, per the parent-extent
// merge rule.
func itemExtent(r model.Record) model.Extent {
	e := model.Extent{StartTime: r.StartTime, StopTime: r.StopTime}
	if r.Footprint != nil {
		e.Bbox = bboxFromFootprint(r.Footprint)
	}
	return e
}

func bboxFromFootprint(fp *model.Footprint) [4]float64 {
	var west, south, east, north float64
	first := true
	for _, ring := range fp.Coordinates {
		for _, pt := range ring {
			if len(pt) < 2 {
				continue
			}
			lon, lat := pt[0], pt[1]
			if first {
				west, east = lon, lon
				south, north = lat, lat
				first = false
				continue
			}
			if lon < west {
				west = lon
			}
			if lon > east {
				east = lon
			}
			if lat < south {
				south = lat
			}
			if lat > north {
				north = lat
			}
		}
	}
	return [4]float64{west, south, east, north}
}
