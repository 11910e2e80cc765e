// Package extract turns a loaded page plus a matched platform adapter into a
// normalized, page-ordered list of cart items.
package extract

import (
	"html"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/cartscope/cartscope/pkg/domain"
	"github.com/cartscope/cartscope/pkg/metrics"
	"github.com/cartscope/cartscope/pkg/platform"
)

// Extractor applies an adapter's extraction ruleset to a page document.
type Extractor struct {
	sanitizer *bluemonday.Policy
	metrics   *metrics.Metrics
}

// New creates an extractor. metrics may be nil.
func New(m *metrics.Metrics) *Extractor {
	return &Extractor{
		sanitizer: bluemonday.StrictPolicy(),
		metrics:   m,
	}
}

// Extract enumerates the adapter's container rows in document order and
// builds one CartItem per well-formed row. Rows with a missing title or
// price element, an empty trimmed title, or a non-positive/unparseable price
// are skipped and logged, never fatal. No deduplication or merging happens
// even when identical titles repeat; quantity is always 1. The currency is
// the caller's source-domain inference, not read from the page.
func (e *Extractor) Extract(adapter *platform.Adapter, doc *goquery.Document, currency string) []domain.CartItem {
	if adapter == nil || doc == nil {
		return nil
	}

	items := make([]domain.CartItem, 0)
	doc.Find(adapter.Ruleset.Container).Each(func(i int, row *goquery.Selection) {
		item, ok := e.extractRow(adapter, row, currency, i)
		if !ok {
			return
		}
		items = append(items, item)
		e.metrics.IncRowExtracted()
	})

	log.Printf("[DEBUG] extracted %d items from %s page", len(items), adapter.ID)
	return items
}

// extractRow builds one item from a single cart row. Failures are isolated
// per row: a panic while walking one malformed row skips that row only.
func (e *Extractor) extractRow(adapter *platform.Adapter, row *goquery.Selection, currency string, idx int) (item domain.CartItem, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WARN] extraction panic on %s row %d: %v", adapter.ID, idx, r)
			e.metrics.IncRowSkipped("panic")
			ok = false
		}
	}()

	titleSel := row.Find(adapter.Ruleset.Title).First()
	if titleSel.Length() == 0 {
		log.Printf("[DEBUG] skip %s row %d: no title element", adapter.ID, idx)
		e.metrics.IncRowSkipped("no_title_element")
		return item, false
	}
	priceSel := row.Find(adapter.Ruleset.Price).First()
	if priceSel.Length() == 0 {
		log.Printf("[DEBUG] skip %s row %d: no price element", adapter.ID, idx)
		e.metrics.IncRowSkipped("no_price_element")
		return item, false
	}

	title := e.cleanTitle(titleSel.Text())
	if title == "" {
		log.Printf("[DEBUG] skip %s row %d: empty title", adapter.ID, idx)
		e.metrics.IncRowSkipped("empty_title")
		return item, false
	}

	price, err := parsePrice(priceSel.Text())
	if err != nil || !price.IsPositive() {
		log.Printf("[DEBUG] skip %s row %d: bad price %q", adapter.ID, idx, strings.TrimSpace(priceSel.Text()))
		e.metrics.IncRowSkipped("bad_price")
		return item, false
	}

	priceVal, _ := price.Float64()
	item = domain.CartItem{
		ProductTitle: title,
		Quantity:     1,
		Price:        priceVal,
		Currency:     currency,
	}
	if href, exists := titleSel.Attr("href"); exists {
		item.URL = strings.TrimSpace(href)
	}
	return item, true
}

// cleanTitle strips any markup from page-derived text and collapses
// whitespace. Retailer titles never legitimately contain tags.
func (e *Extractor) cleanTitle(raw string) string {
	s := e.sanitizer.Sanitize(raw)
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
