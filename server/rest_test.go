package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartscope/cartscope/pkg/domain"
	"github.com/cartscope/cartscope/pkg/extract"
	"github.com/cartscope/cartscope/pkg/inject"
	"github.com/cartscope/cartscope/pkg/optimize"
	"github.com/cartscope/cartscope/pkg/orchestrator"
	"github.com/cartscope/cartscope/pkg/page"
	"github.com/cartscope/cartscope/pkg/platform"
	"github.com/cartscope/cartscope/pkg/session"
	"github.com/cartscope/cartscope/server/mocks"
)

const amazonCartURL = "https://www.amazon.in/gp/cart/view.html?ref_=nav_cart"

const amazonCartHTML = `<html><body>
	<div id="cart-root">
		<div class="sc-list-item-content">
			<span class="sc-product-title">Sony WH-1000XM5</span>
			<span class="sc-product-price">₹29,990.00</span>
		</div>
	</div>
</body></html>`

const emptyCartHTML = `<html><body><div id="cart-root"><p>Your cart is empty</p></div></body></html>`

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestServer_PageEventHandler(t *testing.T) {
	injector := &mocks.InjectorMock{ScheduleFunc: func(tabID string) {}}
	srv := testServer(&mocks.AnalyzerMock{}, injector)
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/v1/page/event",
		map[string]interface{}{"tabID": 7, "url": amazonCartURL, "html": amazonCartHTML})
	var res struct {
		Matched  bool   `json:"matched"`
		Retailer string `json:"retailer"`
	}
	decodeBody(t, resp, &res)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, res.Matched)
	assert.Equal(t, "amazon", res.Retailer)

	// numeric tab id became the page key and injection was scheduled
	require.Len(t, injector.ScheduleCalls(), 1)
	assert.Equal(t, "7", injector.ScheduleCalls()[0].TabID)

	view, err := http.Get(ts.URL + "/api/v1/page/7")
	require.NoError(t, err)
	var v page.View
	decodeBody(t, view, &v)
	assert.Equal(t, "amazon", v.AdapterID)
	assert.Equal(t, "www.amazon.in", v.Host)
}

func TestServer_PageEventHandlerUnmatched(t *testing.T) {
	injector := &mocks.InjectorMock{ScheduleFunc: func(tabID string) {}}
	srv := testServer(&mocks.AnalyzerMock{}, injector)
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/v1/page/event",
		map[string]interface{}{"tabID": "1", "url": "https://www.example.com/cart", "html": "<html></html>"})
	var res struct {
		Matched bool `json:"matched"`
	}
	decodeBody(t, resp, &res)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, res.Matched)

	// nothing tracked, nothing scheduled
	assert.Empty(t, injector.ScheduleCalls())
	view, err := http.Get(ts.URL + "/api/v1/page/1")
	require.NoError(t, err)
	defer view.Body.Close()
	assert.Equal(t, http.StatusNotFound, view.StatusCode)
}

func TestServer_PageEventHandlerBadRequest(t *testing.T) {
	srv := testServer(&mocks.AnalyzerMock{}, &mocks.InjectorMock{})
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/page/event", "application/json", bytes.NewReader([]byte("{bad")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp2 := postJSON(t, ts.URL+"/api/v1/page/event", map[string]interface{}{"url": amazonCartURL})
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestServer_AnalyzeHandlerExplicitItems(t *testing.T) {
	analyzer := &mocks.AnalyzerMock{
		RequestFunc: func(tabID, sourceRetailer string, items []domain.CartItem) bool { return true },
	}
	srv := testServer(analyzer, &mocks.InjectorMock{})
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/v1/analyze", map[string]interface{}{
		"tabID":          "1",
		"sourceRetailer": "amazon.in",
		"items": []domain.CartItem{
			{ProductTitle: "Sony WH-1000XM5", Quantity: 1, Price: 29990.0, Currency: "INR"},
		},
	})
	var res struct {
		Accepted bool `json:"accepted"`
		Items    int  `json:"items"`
	}
	decodeBody(t, resp, &res)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.True(t, res.Accepted)
	assert.Equal(t, 1, res.Items)

	require.Len(t, analyzer.RequestCalls(), 1)
	assert.Equal(t, "amazon.in", analyzer.RequestCalls()[0].SourceRetailer)
}

func TestServer_AnalyzeHandlerDuplicate(t *testing.T) {
	analyzer := &mocks.AnalyzerMock{
		RequestFunc: func(tabID, sourceRetailer string, items []domain.CartItem) bool { return false },
	}
	srv := testServer(analyzer, &mocks.InjectorMock{})
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/v1/analyze", map[string]interface{}{
		"tabID":          "1",
		"sourceRetailer": "amazon.in",
		"items":          []domain.CartItem{{ProductTitle: "X", Quantity: 1, Price: 10, Currency: "INR"}},
	})
	var res struct {
		Accepted bool `json:"accepted"`
	}
	decodeBody(t, resp, &res)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.False(t, res.Accepted, "duplicate reported to the caller, not swallowed")
}

func TestServer_AnalyzeHandlerNoItemsOnPage(t *testing.T) {
	analyzer := &mocks.AnalyzerMock{
		RequestFunc: func(tabID, sourceRetailer string, items []domain.CartItem) bool { return true },
	}
	injector := &mocks.InjectorMock{ScheduleFunc: func(tabID string) {}}
	srv := testServer(analyzer, injector)
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/v1/page/event",
		map[string]interface{}{"tabID": "1", "url": amazonCartURL, "html": emptyCartHTML})
	resp.Body.Close()

	// extraction finds nothing: informational failure, no analysis started
	resp = postJSON(t, ts.URL+"/api/v1/analyze", map[string]interface{}{"tabID": "1"})
	var res struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &res)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, analyzer.RequestCalls())
}

func TestServer_AnalyzeHandlerNoPage(t *testing.T) {
	srv := testServer(&mocks.AnalyzerMock{}, &mocks.InjectorMock{})
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/v1/analyze", map[string]interface{}{"tabID": "99"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_SessionAndBadgeHandlers(t *testing.T) {
	analyzer := &mocks.AnalyzerMock{
		QueryFunc: func(tabID string) domain.SessionSnapshot {
			if tabID == "1" {
				return domain.SessionSnapshot{Result: &domain.OptimizationResult{TotalSavings: 4000}}
			}
			return domain.SessionSnapshot{}
		},
		SignalFunc: func(tabID string) domain.Signal { return domain.SignalSuccess },
	}
	srv := testServer(analyzer, &mocks.InjectorMock{})
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/session/1")
	require.NoError(t, err)
	var snap domain.SessionSnapshot
	decodeBody(t, resp, &snap)
	require.NotNil(t, snap.Result)
	assert.InDelta(t, 4000.0, snap.Result.TotalSavings, 0.001)

	// unknown tab serves the zero snapshot, not an error
	resp, err = http.Get(ts.URL + "/api/v1/session/other")
	require.NoError(t, err)
	var zero domain.SessionSnapshot
	decodeBody(t, resp, &zero)
	assert.False(t, zero.IsLoading)
	assert.Nil(t, zero.Result)

	resp, err = http.Get(ts.URL + "/api/v1/badge/1")
	require.NoError(t, err)
	var badge struct {
		Signal string `json:"signal"`
	}
	decodeBody(t, resp, &badge)
	assert.Equal(t, "success", badge.Signal)
}

func TestServer_PageNavigatedHandler(t *testing.T) {
	analyzer := &mocks.AnalyzerMock{NavigationCompletedFunc: func(tabID string) {}}
	srv := testServer(analyzer, &mocks.InjectorMock{})
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/v1/page/navigated", map[string]interface{}{"tabID": 3})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, analyzer.NavigationCompletedCalls(), 1)
	assert.Equal(t, "3", analyzer.NavigationCompletedCalls()[0].TabID)
}

// TestServer_EndToEnd drives the whole engine through the HTTP API: page
// event, injection, analysis against a stub boundary, snapshot polling and
// the badge lifecycle.
func TestServer_EndToEnd(t *testing.T) {
	boundary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.OptimizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "IN", req.UserContext.Country)
		require.Len(t, req.Items, 1)
		assert.Equal(t, "Sony WH-1000XM5", req.Items[0].ProductTitle)
		assert.InDelta(t, 29990.0, req.Items[0].Price, 0.001)
		assert.Equal(t, "INR", req.Items[0].Currency)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"originalTotal":29990.0,"optimizedTotal":25990.0,"currency":"INR","totalSavings":4000.0,
			"recommendations":[{"originalItem":{"productTitle":"Sony WH-1000XM5","quantity":1,"price":29990.0,"currency":"INR"},
			"cheapestAlternative":{"productTitle":"Sony WH-1000XM5","price":25990.0,"currency":"INR","retailer":"flipkart.com","url":"https://www.flipkart.com/p/x"}}]}`)
	}))
	defer boundary.Close()

	pages := page.NewRegistry()
	store := session.NewStore(16, 0)
	injector := inject.New(pages, 3, 10*time.Millisecond, nil)
	orch := orchestrator.New(store, optimize.New(boundary.URL, "Cartscope/1.0"), 0, nil)
	srv := New(testConfig(), platform.NewRegistry(), pages, extract.New(nil), injector, orch, nil, "test", false)
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	// page event: identified, tracked, injection scheduled
	resp := postJSON(t, ts.URL+"/api/v1/page/event",
		map[string]interface{}{"tabID": "1", "url": amazonCartURL, "html": amazonCartHTML})
	var evt struct {
		Matched  bool   `json:"matched"`
		Retailer string `json:"retailer"`
	}
	decodeBody(t, resp, &evt)
	require.True(t, evt.Matched)
	require.Equal(t, "amazon", evt.Retailer)

	injector.Wait()
	viewResp, err := http.Get(ts.URL + "/api/v1/page/1")
	require.NoError(t, err)
	var view page.View
	decodeBody(t, viewResp, &view)
	assert.True(t, view.Injected)
	assert.Equal(t, "#cart-root", view.Anchor)

	// analysis: items extracted server-side from the held page
	resp = postJSON(t, ts.URL+"/api/v1/analyze", map[string]interface{}{"tabID": "1"})
	var analyzeRes struct {
		Accepted bool `json:"accepted"`
		Items    int  `json:"items"`
	}
	decodeBody(t, resp, &analyzeRes)
	require.True(t, analyzeRes.Accepted)
	require.Equal(t, 1, analyzeRes.Items)

	orch.Wait()
	sessResp, err := http.Get(ts.URL + "/api/v1/session/1")
	require.NoError(t, err)
	var snap domain.SessionSnapshot
	decodeBody(t, sessResp, &snap)
	assert.False(t, snap.IsLoading)
	assert.Empty(t, snap.Error)
	require.NotNil(t, snap.Result)
	assert.InDelta(t, 4000.0, snap.Result.TotalSavings, 0.001)

	// badge shows success until navigation clears it; the result stays
	badgeResp, err := http.Get(ts.URL + "/api/v1/badge/1")
	require.NoError(t, err)
	var badge struct {
		Signal string `json:"signal"`
	}
	decodeBody(t, badgeResp, &badge)
	assert.Equal(t, "success", badge.Signal)

	resp = postJSON(t, ts.URL+"/api/v1/page/navigated", map[string]interface{}{"tabID": "1"})
	resp.Body.Close()

	badgeResp, err = http.Get(ts.URL + "/api/v1/badge/1")
	require.NoError(t, err)
	decodeBody(t, badgeResp, &badge)
	assert.Equal(t, "none", badge.Signal)

	sessResp, err = http.Get(ts.URL + "/api/v1/session/1")
	require.NoError(t, err)
	decodeBody(t, sessResp, &snap)
	require.NotNil(t, snap.Result, "stored result unchanged after badge reset")
	assert.InDelta(t, 4000.0, snap.Result.TotalSavings, 0.001)
}

// TestServer_EndToEndFailure covers the failure path: the boundary returns
// HTTP 500 and the session lands in Failed with a human-readable error.
func TestServer_EndToEndFailure(t *testing.T) {
	boundary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": "agent crew failed"}`)
	}))
	defer boundary.Close()

	pages := page.NewRegistry()
	store := session.NewStore(16, 0)
	injector := inject.New(pages, 3, 10*time.Millisecond, nil)
	orch := orchestrator.New(store, optimize.New(boundary.URL, "Cartscope/1.0"), 0, nil)
	srv := New(testConfig(), platform.NewRegistry(), pages, extract.New(nil), injector, orch, nil, "test", false)
	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/v1/page/event",
		map[string]interface{}{"tabID": "1", "url": amazonCartURL, "html": amazonCartHTML})
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/v1/analyze", map[string]interface{}{"tabID": "1"})
	resp.Body.Close()

	orch.Wait()
	sessResp, err := http.Get(ts.URL + "/api/v1/session/1")
	require.NoError(t, err)
	var snap domain.SessionSnapshot
	decodeBody(t, sessResp, &snap)
	assert.False(t, snap.IsLoading)
	assert.Nil(t, snap.Result)
	assert.Contains(t, snap.Error, "agent crew failed")

	badgeResp, err := http.Get(ts.URL + "/api/v1/badge/1")
	require.NoError(t, err)
	var badge struct {
		Signal string `json:"signal"`
	}
	decodeBody(t, badgeResp, &badge)
	assert.Equal(t, "error", badge.Signal)

	injector.Wait()
}
