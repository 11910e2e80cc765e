package platform

import "strings"

// Locale carries the currency and request-context defaults inferred from a
// source domain. Currency is not read from the page; a ccTLD suffix maps to
// that country's bucket and everything else falls back to the baseline. This
// is a deliberate heuristic, not page-derived ground truth.
type Locale struct {
	Currency   string
	Country    string
	PostalCode string
}

// localeBucket ties a hostname suffix to its locale defaults. Order matters:
// longer suffixes are listed before their shorter overlaps.
type localeBucket struct {
	suffix string
	locale Locale
}

var localeBuckets = []localeBucket{
	{".co.uk", Locale{Currency: "GBP", Country: "GB", PostalCode: "EC1A 1BB"}},
	{".com.au", Locale{Currency: "AUD", Country: "AU", PostalCode: "2000"}},
	{".co.jp", Locale{Currency: "JPY", Country: "JP", PostalCode: "100-0001"}},
	{".in", Locale{Currency: "INR", Country: "IN", PostalCode: "560001"}},
	{".de", Locale{Currency: "EUR", Country: "DE", PostalCode: "10115"}},
	{".fr", Locale{Currency: "EUR", Country: "FR", PostalCode: "75001"}},
	{".ca", Locale{Currency: "CAD", Country: "CA", PostalCode: "M5V 2T6"}},
}

// baselineLocale is the default for every domain outside the known buckets.
var baselineLocale = Locale{Currency: "USD", Country: "US", PostalCode: "10001"}

// LocaleFor maps a source domain (e.g. "amazon.in", "www.walmart.com") to
// its locale defaults.
func LocaleFor(host string) Locale {
	host = strings.ToLower(strings.TrimSpace(host))
	// tolerate full URLs and hosts with ports
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/:"); i >= 0 {
		host = host[:i]
	}
	for _, b := range localeBuckets {
		if strings.HasSuffix(host, b.suffix) {
			return b.locale
		}
	}
	return baselineLocale
}
