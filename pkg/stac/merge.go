package stac

import "github.com/pdssp/pds-crawler/pkg/model"

// pds3Enrichment carries the richer-metadata fields a parsed PDS3
// catalog object contributes to a parent node, keyed by the level it
// targets. Any field left zero leaves the existing catalog's value
// untouched (create-or-merge).
type pds3Enrichment struct {
	title     string
	keywords  []string
	providers []string
}

// mergeCatalog folds enrichment into an existing (possibly absent)
// catalog, regenerating links from scratch per the merge rule. fallback
// is the fingerprint-derived title used when neither the existing node
// nor the enrichment supplies one.
func mergeCatalog(existing *model.Catalog, id string, kind model.NodeKind, fallback string, enrich pds3Enrichment, selfHref, rootHref, parentHref string, children []childLink, extent model.Extent) model.Catalog {
	var existingTitle string
	var existingKeywords, existingProviders []string
	if existing != nil {
		existingTitle = existing.Title
		existingKeywords = existing.Keywords
		existingProviders = existing.Providers
	}

	cat := buildCatalog(id, kind, mergeTitle(existingTitle, fallback, enrich.title), selfHref, rootHref, parentHref, children, extent)
	cat.Keywords = mergeKeywords(existingKeywords, enrich.keywords)
	cat.Providers = mergeKeywords(existingProviders, enrich.providers)
	return cat
}
