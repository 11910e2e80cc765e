package page

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestRegistry_SetAndView(t *testing.T) {
	r := NewRegistry()

	_, ok := r.View("1")
	assert.False(t, ok)

	r.Set("1", "https://www.amazon.in/gp/cart/view.html", "amazon", docFromHTML(t, "<html><body><p>cart</p></body></html>"))

	view, ok := r.View("1")
	require.True(t, ok)
	assert.Equal(t, "https://www.amazon.in/gp/cart/view.html", view.URL)
	assert.Equal(t, "www.amazon.in", view.Host)
	assert.Equal(t, "amazon", view.AdapterID)
	assert.False(t, view.Injected)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_DocReturnsClone(t *testing.T) {
	r := NewRegistry()
	r.Set("1", "https://www.target.com/cart", "target", docFromHTML(t, "<html><body><div id='cart'>x</div></body></html>"))

	doc, ok := r.Doc("1")
	require.True(t, ok)

	// mutating the clone must not leak into the held page
	doc.Find("#cart").Remove()
	doc2, ok := r.Doc("1")
	require.True(t, ok)
	assert.Equal(t, 1, doc2.Find("#cart").Length())
}

func TestRegistry_Inject(t *testing.T) {
	r := NewRegistry()
	r.Set("1", "https://www.target.com/cart", "target",
		docFromHTML(t, `<html><body><div class="cart-container">rows</div></body></html>`))

	anchor, err := r.Inject("1", []string{"#cart-root", ".cart-container"})
	require.NoError(t, err)
	assert.Equal(t, ".cart-container", anchor)

	doc, ok := r.Doc("1")
	require.True(t, ok)
	assert.Equal(t, 1, doc.Find("#"+TriggerID).Length())
	assert.Equal(t, 1, doc.Find(".cart-container #"+TriggerID).Length())

	view, ok := r.View("1")
	require.True(t, ok)
	assert.True(t, view.Injected)
	assert.Equal(t, ".cart-container", view.Anchor)
}

func TestRegistry_InjectIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Set("1", "https://www.target.com/cart", "target",
		docFromHTML(t, `<html><body><div class="cart-container">rows</div></body></html>`))

	_, err := r.Inject("1", []string{".cart-container"})
	require.NoError(t, err)
	anchor, err := r.Inject("1", []string{".cart-container"})
	require.NoError(t, err)
	assert.Equal(t, ".cart-container", anchor)

	doc, ok := r.Doc("1")
	require.True(t, ok)
	assert.Equal(t, 1, doc.Find("#"+TriggerID).Length(), "second injection must not add a second trigger")
}

func TestRegistry_InjectBodyFallback(t *testing.T) {
	r := NewRegistry()
	r.Set("1", "https://www.target.com/cart", "target",
		docFromHTML(t, "<html><body><p>nothing recognizable</p></body></html>"))

	anchor, err := r.Inject("1", []string{"#cart-root", ".cart-container"})
	require.NoError(t, err)
	assert.Equal(t, "body", anchor)

	doc, ok := r.Doc("1")
	require.True(t, ok)
	assert.Equal(t, 1, doc.Find("body > #"+TriggerID).Length())
}

func TestRegistry_InjectRetryableFailures(t *testing.T) {
	r := NewRegistry()

	_, err := r.Inject("missing", []string{"body"})
	assert.ErrorIs(t, err, ErrNoPage)

	r.Set("1", "https://www.target.com/cart", "target", docFromHTML(t, "<html><body></body></html>"))
	_, err = r.Inject("1", []string{".cart-container"})
	assert.ErrorIs(t, err, ErrPageEmpty)
}

func TestRegistry_SetResetsInjection(t *testing.T) {
	r := NewRegistry()
	r.Set("1", "https://www.target.com/cart", "target",
		docFromHTML(t, `<html><body><div class="cart-container">a</div></body></html>`))
	_, err := r.Inject("1", []string{".cart-container"})
	require.NoError(t, err)

	// new page load for the same tab starts clean
	r.Set("1", "https://www.target.com/cart?page=2", "target",
		docFromHTML(t, `<html><body><div class="cart-container">b</div></body></html>`))
	view, ok := r.View("1")
	require.True(t, ok)
	assert.False(t, view.Injected)
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	r.Set("1", "https://www.target.com/cart", "target", docFromHTML(t, "<html><body><p>x</p></body></html>"))
	require.Equal(t, 1, r.Len())

	r.Remove("1")
	assert.Equal(t, 0, r.Len())
	_, ok := r.View("1")
	assert.False(t, ok)
}
