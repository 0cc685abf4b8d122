package stac

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	pdserrors "github.com/pdssp/pds-crawler/pkg/errors"
	"github.com/pdssp/pds-crawler/pkg/fingerprint"
	"github.com/pdssp/pds-crawler/pkg/model"
	"github.com/pdssp/pds-crawler/pkg/pds3"
	"github.com/pdssp/pds-crawler/pkg/store/filestore"
	"github.com/pdssp/pds-crawler/pkg/store/registry"
)

// Transformer builds and maintains the STAC tree for one file store from
// the registry's descriptors, the extracted record pages, and the
// downloaded PDS3 catalog objects.
type Transformer struct {
	files    *filestore.Store
	registry registry.Store
	factory  *pds3.Factory
	log      *log.Logger
}

// New constructs a Transformer.
func New(files *filestore.Store, reg registry.Store, logger *log.Logger) *Transformer {
	return &Transformer{files: files, registry: reg, factory: pds3.NewFactory(), log: logger}
}

// Failure is one item, or catalog object, that could not be transformed;
// the cause is recorded and the transform continues with the rest.
type Failure struct {
	Subject string
	Err     error
}

// Report is the outcome of one transform call: individual failures don't
// abort the run, but are returned for the per-collection report file.
type Report struct {
	Fingerprint string
	Failures    []Failure
}

func (r *Report) fail(subject string, err error) {
	r.Failures = append(r.Failures, Failure{Subject: subject, Err: err})
}

// TransformRecords streams every record page stored for fp, emits one
// STAC item per record, and creates-or-merges the collection and its
// parent catalogs from the ODE descriptor. Per spec, a missing
// collection document is created from the descriptor (earliest/latest
// record time as the temporal extent, accumulated as items are
// written); an existing one is merged, never replaced wholesale.
func (t *Transformer) TransformRecords(ctx context.Context, fp fingerprint.Fingerprint) (Report, error) {
	report := Report{Fingerprint: fp.String()}

	descriptor, ok, err := t.registry.Get(ctx, fp)
	if err != nil {
		return report, pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "reading descriptor for %s", fp.String())
	}
	if !ok {
		return report, pdserrors.New(pdserrors.ErrCodeCollectionNotFound, "no descriptor registered for %s", fp.String())
	}

	indices, err := t.files.ListPages(fp)
	if err != nil {
		return report, err
	}

	extent := model.Extent{StartTime: descriptor.StartTime, StopTime: descriptor.StopTime}
	var items []model.Item

	for _, idx := range indices {
		subject := fmt.Sprintf("page_%03d", idx)
		raw, err := t.files.ReadPage(fp, idx)
		if err != nil {
			report.fail(subject, err)
			continue
		}
		page, err := model.DecodePage(raw, idx)
		if err != nil {
			report.fail(subject, err)
			continue
		}
		for _, rec := range page.Records {
			item := itemFromRecord(collectionID(fp.DatasetID), rec)
			data, err := json.MarshalIndent(item, "", "  ")
			if err != nil {
				report.fail(rec.ID, err)
				continue
			}
			if err := t.files.WriteSTAC(fp, path.Join("items", item.ID+".json"), data); err != nil {
				report.fail(rec.ID, err)
				continue
			}
			items = append(items, item)
			extent = extent.Union(itemExtent(rec))
		}
	}

	existing, _ := t.readCollection(fp)
	collection := t.buildCollection(fp, existing, descriptor, pds3Enrichment{}, extent)
	if err := t.writeCollection(fp, collection); err != nil {
		report.fail("collection.json", err)
	} else if err := ValidateItems(collection.ID, extent, items); err != nil {
		report.fail("collection.json", err)
	}

	if err := t.writeParents(ctx, fp, pds3Enrichment{}, pds3Enrichment{}, pds3Enrichment{}, extent); err != nil {
		report.fail("parent catalogs", err)
	}

	t.writeReport(fp, report)
	return report, nil
}

// TransformPDS3 parses every catalog object downloaded for fp and folds
// the richer metadata into the collection and its parent catalogs. A
// per-file parse failure is recorded and does not prevent the other
// catalog objects, or the extent/link recomputation, from completing.
func (t *Transformer) TransformPDS3(ctx context.Context, fp fingerprint.Fingerprint) (Report, error) {
	report := Report{Fingerprint: fp.String()}

	descriptor, ok, err := t.registry.Get(ctx, fp)
	if err != nil {
		return report, pdserrors.Wrap(pdserrors.ErrCodeStorage, err, "reading descriptor for %s", fp.String())
	}
	if !ok {
		return report, pdserrors.New(pdserrors.ErrCodeCollectionNotFound, "no descriptor registered for %s", fp.String())
	}

	objects, err := t.files.ListPDS3(fp)
	if err != nil {
		return report, err
	}

	var missionEnrich, hostEnrich, instEnrich, collectionEnrich pds3Enrichment
	for _, obj := range objects {
		data, err := os.ReadFile(obj.Path)
		if err != nil {
			report.fail(filepath.Base(obj.Path), err)
			continue
		}
		parsed, err := t.factory.Parse(filepath.Base(obj.Path), data)
		if err != nil {
			report.fail(filepath.Base(obj.Path), err)
			continue
		}
		switch parsed.Kind {
		case pds3.KindMission:
			missionEnrich.title = parsed.Mission.Name
			missionEnrich.keywords = append(missionEnrich.keywords, parsed.Mission.Targets...)
		case pds3.KindInstrumentHost:
			hostEnrich.title = parsed.InstrumentHost.Name
		case pds3.KindInstrument:
			instEnrich.title = parsed.Instrument.Name
		case pds3.KindDataSet:
			collectionEnrich.title = parsed.DataSet.Name
			collectionEnrich.keywords = append(collectionEnrich.keywords, parsed.DataSet.Targets...)
		case pds3.KindPersonnel:
			for _, p := range parsed.Personnel {
				if p.UserID != "" {
					collectionEnrich.providers = append(collectionEnrich.providers, p.UserID)
				}
			}
		case pds3.KindReference:
			for _, r := range parsed.Reference {
				if r.Key != "" {
					collectionEnrich.providers = append(collectionEnrich.providers, r.Key)
				}
			}
		}
	}

	existing, _ := t.readCollection(fp)
	extent := existingExtent(existing)
	collection := t.buildCollection(fp, existing, descriptor, collectionEnrich, extent)
	if err := t.writeCollection(fp, collection); err != nil {
		report.fail("collection.json", err)
	}

	if err := t.writeParents(ctx, fp, missionEnrich, hostEnrich, instEnrich, extent); err != nil {
		report.fail("parent catalogs", err)
	}

	t.writeReport(fp, report)
	return report, nil
}

func existingExtent(existing *model.Catalog) model.Extent {
	if existing == nil || existing.Extent == nil {
		return model.Extent{}
	}
	return *existing.Extent
}

func (t *Transformer) readCollection(fp fingerprint.Fingerprint) (*model.Catalog, error) {
	raw, err := t.files.ReadSTAC(fp, "collection.json")
	if err != nil {
		return nil, err
	}
	var cat model.Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, pdserrors.Wrap(pdserrors.ErrCodeMalformedUpstream, err, "decoding existing collection.json")
	}
	return &cat, nil
}

func (t *Transformer) writeCollection(fp fingerprint.Fingerprint, cat model.Catalog) error {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return pdserrors.Wrap(pdserrors.ErrCodeInternal, err, "encoding collection.json")
	}
	return t.files.WriteSTAC(fp, "collection.json", data)
}

// buildCollection merges the leaf collection catalog from its current
// state, the ODE descriptor, and any PDS3 enrichment, with the
// instrument catalog as its declared parent.
func (t *Transformer) buildCollection(fp fingerprint.Fingerprint, existing *model.Catalog, descriptor model.CollectionDescriptor, enrich pds3Enrichment, extent model.Extent) model.Catalog {
	id := collectionID(fp.DatasetID)
	parentHref := t.files.GlobalStacPath(instrumentRelPath(missionID(fp.Mission), hostID(fp.Host), instrumentID(fp.Instrument)))
	rootHref := t.files.GlobalStacPath(rootRelPath())
	selfHref := t.files.StacPath(fp, "collection.json")
	cat := mergeCatalog(existing, id, model.NodeKindCollection, descriptor.DatasetID, enrich, selfHref, rootHref, parentHref, nil, extent)
	return cat
}

// writeParents recomputes the mission/host/instrument catalogs fp
// belongs to and the shared root catalog, by enumerating every sibling
// collection the registry knows about under the same target. Extents
// and child links are rebuilt from every sibling's own current
// collection.json, so the parents stay correct regardless of the order
// transform_records/transform_pds3 ran in across collections.
func (t *Transformer) writeParents(ctx context.Context, fp fingerprint.Fingerprint, missionEnrich, hostEnrich, instEnrich pds3Enrichment, selfExtent model.Extent) error {
	mID := missionID(fp.Mission)
	hID := hostID(fp.Host)
	iID := instrumentID(fp.Instrument)

	type sibling struct {
		fp     fingerprint.Fingerprint
		extent model.Extent
	}
	var underInstrument []sibling
	for sfp := range t.registry.All(ctx, fp.Target) {
		if missionID(sfp.Mission) != mID || hostID(sfp.Host) != hID || instrumentID(sfp.Instrument) != iID {
			continue
		}
		e := selfExtent
		if sfp != fp {
			if cat, err := t.readCollection(sfp); err == nil {
				e = existingExtent(cat)
			}
		}
		underInstrument = append(underInstrument, sibling{fp: sfp, extent: e})
	}

	rootHref := t.files.GlobalStacPath(rootRelPath())
	missionHref := t.files.GlobalStacPath(missionRelPath(mID))
	hostHref := t.files.GlobalStacPath(hostRelPath(mID, hID))
	instrumentHref := t.files.GlobalStacPath(instrumentRelPath(mID, hID, iID))

	var instrumentExtent model.Extent
	var children []childLink
	for _, s := range underInstrument {
		instrumentExtent = instrumentExtent.Union(s.extent)
		children = append(children, childLink{id: collectionID(s.fp.DatasetID), href: t.files.StacPath(s.fp, "collection.json")})
	}

	existingInstrument, _ := t.readGlobal(instrumentRelPath(mID, hID, iID))
	instrumentCat := mergeCatalog(existingInstrument, iID, model.NodeKindCatalog, fp.Instrument, instEnrich, instrumentHref, rootHref, hostHref, children, instrumentExtent)
	if err := t.writeGlobal(instrumentRelPath(mID, hID, iID), instrumentCat); err != nil {
		return err
	}

	existingHost, _ := t.readGlobal(hostRelPath(mID, hID))
	hostExtent := existingExtent(existingHost).Union(instrumentExtent)
	hostChildren := mergeChildLinks(existingHost, childLink{id: iID, href: instrumentHref})
	hostCat := mergeCatalog(existingHost, hID, model.NodeKindCatalog, fp.Host, hostEnrich, hostHref, rootHref, missionHref, hostChildren, hostExtent)
	if err := t.writeGlobal(hostRelPath(mID, hID), hostCat); err != nil {
		return err
	}

	existingMission, _ := t.readGlobal(missionRelPath(mID))
	missionExtent := existingExtent(existingMission).Union(hostExtent)
	missionChildren := mergeChildLinks(existingMission, childLink{id: hID, href: hostHref})
	missionCat := mergeCatalog(existingMission, mID, model.NodeKindCatalog, fp.Mission, missionEnrich, missionHref, rootHref, "", missionChildren, missionExtent)
	if err := t.writeGlobal(missionRelPath(mID), missionCat); err != nil {
		return err
	}

	existingRoot, _ := t.readGlobal(rootRelPath())
	rootExtent := existingExtent(existingRoot).Union(missionExtent)
	rootChildren := mergeChildLinks(existingRoot, childLink{id: mID, href: missionHref})
	rootCat := mergeCatalog(existingRoot, RootID, model.NodeKindRoot, "root", pds3Enrichment{}, rootHref, rootHref, "", rootChildren, rootExtent)
	return t.writeGlobal(rootRelPath(), rootCat)
}

// mergeChildLinks carries forward an existing node's child links,
// deduplicated against the one being added, per the create-or-merge
// rule for parent catalogs shared across collections.
func mergeChildLinks(existing *model.Catalog, add childLink) []childLink {
	var out []childLink
	seen := map[string]bool{}
	if existing != nil {
		for _, l := range existing.Links {
			if l.Rel != "child" || seen[l.Type] {
				continue
			}
			seen[l.Type] = true
			out = append(out, childLink{id: l.Type, href: l.Href})
		}
	}
	if !seen[add.id] {
		out = append(out, add)
	}
	return out
}

func (t *Transformer) readGlobal(relPath string) (*model.Catalog, error) {
	raw, err := t.files.ReadGlobalSTAC(relPath)
	if err != nil {
		return nil, err
	}
	var cat model.Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, pdserrors.Wrap(pdserrors.ErrCodeMalformedUpstream, err, "decoding %s", relPath)
	}
	return &cat, nil
}

func (t *Transformer) writeGlobal(relPath string, cat model.Catalog) error {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return pdserrors.Wrap(pdserrors.ErrCodeInternal, err, "encoding %s", relPath)
	}
	return t.files.WriteGlobalSTAC(relPath, data)
}

// writeReport persists a human-readable failure report under the
// collection's stac/ directory; an empty report writes nothing and logs
// nothing.
func (t *Transformer) writeReport(fp fingerprint.Fingerprint, report Report) {
	if len(report.Failures) == 0 {
		return
	}
	var sb strings.Builder
	for _, f := range report.Failures {
		fmt.Fprintf(&sb, "%s: %v\n", f.Subject, f.Err)
	}
	if err := t.files.WriteSTAC(fp, "report.txt", []byte(sb.String())); err != nil {
		t.log.With("fingerprint", fp.String()).Warn("failed to write stac report", "err", err)
	}
}
