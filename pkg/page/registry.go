// Package page tracks the held page document per browser tab. Each page
// event replaces the tab's document; the injection scheduler and the
// extraction path read from here. The page DOM is treated as read-only
// except for appending the single trigger control.
package page

import (
	"errors"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TriggerID is the DOM id of the injected trigger control; its presence is
// the injection idempotence marker.
const TriggerID = "cartscope-trigger"

// Retryable injection failures: the tab has no snapshot yet, or the page
// body has not rendered. Both clear up as later page events arrive.
var (
	ErrNoPage    = errors.New("no page tracked for tab")
	ErrPageEmpty = errors.New("page body not rendered yet")
)

// trackedPage is the mutable per-tab record, guarded by the registry mutex.
type trackedPage struct {
	url       string
	host      string
	adapterID string
	doc       *goquery.Document
	injected  bool
	anchor    string
	updatedAt time.Time
}

// View is the read-only projection of a tracked page.
type View struct {
	URL       string    `json:"url"`
	Host      string    `json:"host"`
	AdapterID string    `json:"retailer"`
	Injected  bool      `json:"injected"`
	Anchor    string    `json:"anchor,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Registry holds the pages for all tabs. All access goes through the mutex;
// documents handed out for extraction are clones.
type Registry struct {
	mu    sync.Mutex
	pages map[string]*trackedPage
}

// NewRegistry creates an empty page registry.
func NewRegistry() *Registry {
	return &Registry{pages: make(map[string]*trackedPage)}
}

// Set replaces the tab's page with a fresh snapshot. Trigger placement state
// resets because a new page load starts clean.
func (r *Registry) Set(tabID, rawURL, adapterID string, doc *goquery.Document) {
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Hostname()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[tabID] = &trackedPage{
		url:       rawURL,
		host:      host,
		adapterID: adapterID,
		doc:       doc,
		updatedAt: time.Now(),
	}
}

// View returns the tab's page projection.
func (r *Registry) View(tabID string) (View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[tabID]
	if !ok {
		return View{}, false
	}
	return View{
		URL:       p.url,
		Host:      p.host,
		AdapterID: p.adapterID,
		Injected:  p.injected,
		Anchor:    p.anchor,
		UpdatedAt: p.updatedAt,
	}, true
}

// Doc returns a clone of the tab's document, safe to read outside the lock.
func (r *Registry) Doc(tabID string) (*goquery.Document, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pages[tabID]
	if !ok || p.doc == nil {
		return nil, false
	}
	return goquery.CloneDocument(p.doc), true
}

// Remove drops the tab's page, e.g. when the tab closes.
func (r *Registry) Remove(tabID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pages, tabID)
}

// Len returns the number of tracked tabs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// Inject places the trigger control into the tab's page and returns the
// anchor selector that received it. A trigger already present makes this a
// no-op returning the existing anchor. The first anchor candidate found in
// the document wins; when none matches, the body is the fallback. Returns
// ErrNoPage or ErrPageEmpty while the page is not usable yet; both are
// retryable.
func (r *Registry) Inject(tabID string, candidates []string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pages[tabID]
	if !ok || p.doc == nil {
		return "", ErrNoPage
	}
	if p.injected || p.doc.Find("#"+TriggerID).Length() > 0 {
		return p.anchor, nil
	}

	body := p.doc.Find("body").First()
	if body.Length() == 0 || (body.Children().Length() == 0 && strings.TrimSpace(body.Text()) == "") {
		return "", ErrPageEmpty
	}

	target := body
	anchor := "body"
	for _, c := range candidates {
		if sel := p.doc.Find(c).First(); sel.Length() > 0 {
			target = sel
			anchor = c
			break
		}
	}

	target.AppendNodes(triggerNode())
	p.injected = true
	p.anchor = anchor
	log.Printf("[INFO] trigger injected for tab %s at %q", tabID, anchor)
	return anchor, nil
}

// triggerNode builds the single appended element.
func triggerNode() *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr: []html.Attribute{
			{Key: "id", Val: TriggerID},
			{Key: "class", Val: "cartscope-trigger"},
		},
	}
}
