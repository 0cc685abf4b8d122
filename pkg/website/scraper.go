package website

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	pdserrors "github.com/pdssp/pds-crawler/pkg/errors"
	"github.com/pdssp/pds-crawler/pkg/fingerprint"
	"github.com/pdssp/pds-crawler/pkg/httpfetch"
	"github.com/pdssp/pds-crawler/pkg/integrations"
	"github.com/pdssp/pds-crawler/pkg/model"
	"github.com/pdssp/pds-crawler/pkg/store/filestore"
)

// Extractor scrapes a collection's volume-index page for PDS3 catalog
// object links and downloads the matched files.
type Extractor struct {
	client  *integrations.Client
	fetcher *httpfetch.Fetcher
	files   *filestore.Store
	host    string
	log     *log.Logger
}

// New constructs an Extractor. host is the PDS3 archive host (scheme +
// authority).
func New(client *integrations.Client, fetcher *httpfetch.Fetcher, files *filestore.Store, host string, logger *log.Logger) *Extractor {
	return &Extractor{client: client, fetcher: fetcher, files: files, host: host, log: logger}
}

// Anchor is one matched catalog-object link found on a volume-index page.
type Anchor struct {
	Kind string
	Text string
	Href string
}

// Extract fetches fp's volume-index page and downloads every matched
// anchor into the collection's pds3/ directory. volumeID is taken from
// descriptor.VolumeID, falling back to the first non-empty VolumeID
// among records when the descriptor carries none.
func (e *Extractor) Extract(ctx context.Context, fp fingerprint.Fingerprint, descriptor model.CollectionDescriptor, records []model.Record) ([]Anchor, error) {
	volumeID := resolveVolumeID(descriptor, records)
	if volumeID == "" {
		return nil, pdserrors.New(pdserrors.ErrCodeInvariant, "no volume identifier available for %s", fp.String())
	}

	indexURL := volumeIndexURL(e.host, descriptor.VolumeURL, fp.Target, volumeID)

	body, err := e.client.GetText(ctx, indexURL)
	if err != nil {
		return nil, pdserrors.Wrap(pdserrors.ErrCodeTransientIO, err, "fetching volume index page")
	}

	anchors, err := parseAnchors(body, indexURL)
	if err != nil {
		if qerr := e.files.Quarantine(fp, "volume_index.html", []byte(body)); qerr != nil {
			e.log.With("fingerprint", fp.String()).Warn("failed to quarantine unparseable volume index page", "err", qerr)
		}
		return nil, pdserrors.Wrap(pdserrors.ErrCodeMalformedUpstream, err, "parsing volume index page")
	}

	matched := firstMatchPerKind(anchors)
	if len(matched) == 0 {
		return nil, nil
	}

	jobs := make([]httpfetch.Job, 0, len(matched))
	for _, a := range matched {
		jobs = append(jobs, httpfetch.Job{
			URL:  a.Href,
			Path: e.files.PDS3Path(fp, path.Base(a.Href)),
			Host: e.host,
		})
	}
	_, events := e.fetcher.Fetch(ctx, jobs)
	for ev := range events {
		switch {
		case ev.Kind == httpfetch.EventFailed:
			e.log.With("fingerprint", fp.String(), "url", ev.Job.URL).Warn("pds3 file download failed", "err", ev.Err)
		case ev.Kind == httpfetch.EventCompleted && ev.Suspect:
			e.log.With("fingerprint", fp.String(), "url", ev.Job.URL).Warn("pds3 file download returned unexpected content-type")
		}
	}

	return matched, nil
}

func resolveVolumeID(descriptor model.CollectionDescriptor, records []model.Record) string {
	if descriptor.VolumeID != "" {
		return descriptor.VolumeID
	}
	for _, r := range records {
		if r.VolumeID != "" {
			return r.VolumeID
		}
	}
	return ""
}

// volumeIndexURL prefers the descriptor's own volume URL when present;
// otherwise it composes the archive's conventional layout.
func volumeIndexURL(host, descriptorVolumeURL, target, volumeID string) string {
	if descriptorVolumeURL != "" {
		return descriptorVolumeURL
	}
	return fmt.Sprintf("%s/%s/%s/volume", strings.TrimRight(host, "/"), strings.ToLower(target), volumeID)
}

// parseAnchors walks the HTML document's anchor tags and returns those
// whose link text matches the catalog object roster, with relative
// hrefs resolved against base.
func parseAnchors(body, base string) ([]Anchor, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	var anchors []Anchor
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := attr(n, "href")
			text := strings.TrimSpace(textOf(n))
			if href != "" {
				if kind, ok := matchRoster(text); ok {
					resolved := resolveHref(baseURL, href)
					anchors = append(anchors, Anchor{Kind: kind, Text: text, Href: resolved})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return anchors, nil
}

// firstMatchPerKind keeps only the first anchor seen for each catalog
// kind, per the scraper's first-match-wins rule.
func firstMatchPerKind(anchors []Anchor) []Anchor {
	seen := make(map[string]bool, len(anchors))
	out := make([]Anchor, 0, len(anchors))
	for _, a := range anchors {
		if seen[a.Kind] {
			continue
		}
		seen[a.Kind] = true
		out = append(out, a)
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textOf(c))
	}
	return sb.String()
}

func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
