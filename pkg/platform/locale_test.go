package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocaleFor(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		currency string
		country  string
		postal   string
	}{
		{"indian domain", "amazon.in", "INR", "IN", "560001"},
		{"indian subdomain", "www.flipkart.in", "INR", "IN", "560001"},
		{"uk domain", "amazon.co.uk", "GBP", "GB", "EC1A 1BB"},
		{"german domain", "amazon.de", "EUR", "DE", "10115"},
		{"french domain", "amazon.fr", "EUR", "FR", "75001"},
		{"canadian domain", "walmart.ca", "CAD", "CA", "M5V 2T6"},
		{"australian domain", "ebay.com.au", "AUD", "AU", "2000"},
		{"japanese domain", "amazon.co.jp", "JPY", "JP", "100-0001"},
		{"us domain", "www.target.com", "USD", "US", "10001"},
		{"unknown tld", "shop.example.xyz", "USD", "US", "10001"},
		{"full url tolerated", "https://www.amazon.in/gp/cart/view.html", "INR", "IN", "560001"},
		{"host with port", "amazon.in:443", "INR", "IN", "560001"},
		{"empty host", "", "USD", "US", "10001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := LocaleFor(tt.host)
			assert.Equal(t, tt.currency, loc.Currency)
			assert.Equal(t, tt.country, loc.Country)
			assert.Equal(t, tt.postal, loc.PostalCode)
		})
	}
}
