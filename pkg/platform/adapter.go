// Package platform holds the declarative catalog of supported retailers:
// a matching rule plus an extraction ruleset per retailer, and the locale
// table used to infer currency and request-context defaults from the
// session's source domain.
package platform

import (
	"fmt"
	"net/url"
	"strings"
)

// Ruleset describes where cart rows, titles and prices live in a retailer's
// markup. Selectors may carry comma-separated alternates to survive versioned
// markup across retailer deployments.
type Ruleset struct {
	Container string
	Title     string
	Price     string
}

// Adapter is a single retailer record: identity plus match rule plus
// extraction ruleset. Immutable after registration.
type Adapter struct {
	ID         string
	Name       string
	HostToken  string
	PathTokens []string
	Ruleset    Ruleset
}

// Match reports whether the adapter recognizes the given hostname and
// path+query. The hostname must contain the host token and the path+query
// must contain at least one path token, so multiple cart-page variants of
// the same retailer route to one adapter.
func (a *Adapter) Match(hostname, pathQuery string) bool {
	if !strings.Contains(hostname, a.HostToken) {
		return false
	}
	for _, t := range a.PathTokens {
		if strings.Contains(pathQuery, t) {
			return true
		}
	}
	return false
}

// Registry is the ordered, immutable adapter catalog. Registration order
// decides precedence; the catalog is a config invariant and no two adapters
// are expected to match the same page.
type Registry struct {
	adapters []Adapter
}

// NewRegistry builds the built-in retailer catalog.
func NewRegistry() *Registry {
	return &Registry{adapters: builtinAdapters()}
}

// Identify returns the first adapter matching the given URL, or false when
// no supported retailer cart page is recognized. Pure function over the
// static catalog and the page identity.
func (r *Registry) Identify(rawURL string) (*Adapter, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return nil, false
	}
	pathQuery := u.Path
	if u.RawQuery != "" {
		pathQuery += "?" + u.RawQuery
	}
	hostname := strings.ToLower(u.Hostname())
	pathQuery = strings.ToLower(pathQuery)

	for i := range r.adapters {
		if r.adapters[i].Match(hostname, pathQuery) {
			return &r.adapters[i], true
		}
	}
	return nil, false
}

// ByID returns the adapter with the given ID.
func (r *Registry) ByID(id string) (*Adapter, bool) {
	for i := range r.adapters {
		if r.adapters[i].ID == id {
			return &r.adapters[i], true
		}
	}
	return nil, false
}

// Adapters returns the catalog in registration order.
func (r *Registry) Adapters() []Adapter {
	res := make([]Adapter, len(r.adapters))
	copy(res, r.adapters)
	return res
}

// String implements fmt.Stringer for log output.
func (a *Adapter) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.ID)
}

// builtinAdapters is the closed compile-time set of retailer variants.
// New retailers are added by appending records here, never by subclassing.
func builtinAdapters() []Adapter {
	return []Adapter{
		{
			ID:         "amazon",
			Name:       "Amazon",
			HostToken:  "amazon.",
			PathTokens: []string{"/gp/cart", "/cart"},
			Ruleset: Ruleset{
				Container: "div.sc-list-item-content, div[data-itemtype='active'] .sc-list-item",
				Title:     "span.sc-product-title, .a-truncate-full",
				Price:     "span.sc-product-price, .sc-item-price-block .a-offscreen",
			},
		},
		{
			ID:         "flipkart",
			Name:       "Flipkart",
			HostToken:  "flipkart.",
			PathTokens: []string{"/viewcart"},
			Ruleset: Ruleset{
				Container: "div[class*='cart-item'], div._1AtVbE div._3dsJAO",
				Title:     "a[class*='product-title'], a._2Kn22P",
				Price:     "span[class*='final-price'], div._30jeq3",
			},
		},
		{
			ID:         "myntra",
			Name:       "Myntra",
			HostToken:  "myntra.",
			PathTokens: []string{"/checkout/cart"},
			Ruleset: Ruleset{
				Container: "div.itemContainer-base-item",
				Title:     "div.itemContainer-base-brand + div, div.itemContainer-base-description",
				Price:     "span.itemContainer-base-discountedPrice, div.itemContainer-base-itemPrice",
			},
		},
		{
			ID:         "ajio",
			Name:       "AJIO",
			HostToken:  "ajio.",
			PathTokens: []string{"/cart"},
			Ruleset: Ruleset{
				Container: "div.cart-item-container, div[class*='prod-list'] .item",
				Title:     "div.item-brand-desc .name, a.item-link",
				Price:     "span.price-value, .prod-sp",
			},
		},
		{
			ID:         "ebay",
			Name:       "eBay",
			HostToken:  "ebay.",
			PathTokens: []string{"/cart", "/rgc/"},
			Ruleset: Ruleset{
				Container: "div.cart-bucket .line-item, div[data-test-id='cart-item']",
				Title:     "h3.item-title a, .line-item--title",
				Price:     "div.item-price .text-display, .line-item--price",
			},
		},
		{
			ID:         "walmart",
			Name:       "Walmart",
			HostToken:  "walmart.",
			PathTokens: []string{"/cart"},
			Ruleset: Ruleset{
				Container: "div[data-testid='cart-item'], div[data-automation-id='cart-item']",
				Title:     "span[data-automation-id='productName'], a[link-identifier='itemClick'] span",
				Price:     "div[data-testid='line-price'] span, span[data-automation-id='linePrice']",
			},
		},
		{
			ID:         "target",
			Name:       "Target",
			HostToken:  "target.",
			PathTokens: []string{"/cart"},
			Ruleset: Ruleset{
				Container: "div[data-test='cartItem']",
				Title:     "div[data-test='cartItem-title'], a[data-test='cartItem-titleLink']",
				Price:     "span[data-test='cartItem-price'], p[data-test='cartItem-unitPrice']",
			},
		},
		{
			ID:         "bestbuy",
			Name:       "Best Buy",
			HostToken:  "bestbuy.",
			PathTokens: []string{"/cart"},
			Ruleset: Ruleset{
				Container: "section.card li.item, div.item-list .cart-item",
				Title:     "div.item-title a, .cart-item__title",
				Price:     "div.price-block .priceView-customer-price span, .cart-item__price",
			},
		},
		{
			ID:         "croma",
			Name:       "Croma",
			HostToken:  "croma.",
			PathTokens: []string{"/cart", "/basket"},
			Ruleset: Ruleset{
				Container: "li.cart-item, div.cart-prod-list .prod-item",
				Title:     "h3.product-title a, .prod-name",
				Price:     "span.amount, .new-price",
			},
		},
	}
}
