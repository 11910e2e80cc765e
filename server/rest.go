package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cartscope/cartscope/pkg/domain"
	"github.com/cartscope/cartscope/pkg/platform"
)

// tabKey is a browser-tab identity. It accepts both a JSON string and a
// JSON number because tab IDs are opaque integers on some browsers.
type tabKey string

// UnmarshalJSON implements flexible decoding for tabKey.
func (t *tabKey) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = tabKey(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = tabKey(n.String())
	return nil
}

// pageEventHandler receives a page snapshot from the browser shim,
// identifies the retailer and starts the injection loop. An unmatched page
// is a no-op, not an error: nothing is tracked, injected or extracted.
func (s *Server) pageEventHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TabID tabKey `json:"tabID"`
		URL   string `json:"url"`
		HTML  string `json:"html"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}
	if req.TabID == "" || req.URL == "" {
		renderError(w, r, fmt.Errorf("tabID and url are required"), http.StatusBadRequest)
		return
	}

	adapter, ok := s.platforms.Identify(req.URL)
	if !ok {
		renderJSON(w, r, http.StatusOK, map[string]interface{}{"matched": false})
		return
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(req.HTML))
	if err != nil {
		renderError(w, r, fmt.Errorf("parse page html: %w", err), http.StatusBadRequest)
		return
	}

	s.pages.Set(string(req.TabID), req.URL, adapter.ID, doc)
	s.injector.Schedule(string(req.TabID))
	s.metrics.IncPageMatched(adapter.ID)
	log.Printf("[INFO] page event for tab %s matched %s", req.TabID, adapter)

	renderJSON(w, r, http.StatusOK, map[string]interface{}{"matched": true, "retailer": adapter.ID})
}

// pageViewHandler returns the tracked page state for a tab so the shim can
// materialize the injected trigger control.
func (s *Server) pageViewHandler(w http.ResponseWriter, r *http.Request) {
	tab := r.PathValue("tab")
	view, ok := s.pages.View(tab)
	if !ok {
		renderError(w, r, fmt.Errorf("no page tracked for tab %s", tab), http.StatusNotFound)
		return
	}
	renderJSON(w, r, http.StatusOK, view)
}

// pageNavigatedHandler clears only the badge signal for the tab. Stored
// session state stays queryable.
func (s *Server) pageNavigatedHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TabID tabKey `json:"tabID"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TabID == "" {
		renderError(w, r, fmt.Errorf("tabID is required"), http.StatusBadRequest)
		return
	}
	s.analyzer.NavigationCompleted(string(req.TabID))
	renderJSON(w, r, http.StatusOK, map[string]bool{"cleared": true})
}

// analyzeHandler triggers an analysis for a tab. Items may be supplied
// explicitly by the display layer; otherwise they are extracted from the
// held page. Zero extracted items is an informational failure: no network
// call, session untouched. A duplicate request while one is in flight is
// reported as accepted:false.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TabID          tabKey            `json:"tabID"`
		SourceRetailer string            `json:"sourceRetailer"`
		Items          []domain.CartItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TabID == "" {
		renderError(w, r, fmt.Errorf("tabID is required"), http.StatusBadRequest)
		return
	}
	tab := string(req.TabID)

	items := req.Items
	retailer := req.SourceRetailer
	if len(items) == 0 {
		view, ok := s.pages.View(tab)
		if !ok {
			renderError(w, r, fmt.Errorf("no page tracked for tab %s", tab), http.StatusNotFound)
			return
		}
		adapter, ok := s.platforms.ByID(view.AdapterID)
		if !ok {
			renderError(w, r, fmt.Errorf("no adapter for tab %s", tab), http.StatusNotFound)
			return
		}
		doc, ok := s.pages.Doc(tab)
		if !ok {
			renderError(w, r, fmt.Errorf("no page document for tab %s", tab), http.StatusNotFound)
			return
		}
		if retailer == "" {
			retailer = view.Host
		}
		items = s.extractor.Extract(adapter, doc, platform.LocaleFor(view.Host).Currency)
		if len(items) == 0 {
			renderError(w, r, fmt.Errorf("no cart items found on page"), http.StatusUnprocessableEntity)
			return
		}
	}
	if retailer == "" {
		renderError(w, r, fmt.Errorf("sourceRetailer is required with explicit items"), http.StatusBadRequest)
		return
	}

	accepted := s.analyzer.Request(tab, retailer, items)
	renderJSON(w, r, http.StatusAccepted, map[string]interface{}{"accepted": accepted, "items": len(items)})
}

// sessionHandler serves the read-only session snapshot for a tab. Unknown
// tabs get the zero snapshot, never an error.
func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request) {
	tab := r.PathValue("tab")
	renderJSON(w, r, http.StatusOK, s.analyzer.Query(tab))
}

// badgeHandler serves the current badge signal for a tab.
func (s *Server) badgeHandler(w http.ResponseWriter, r *http.Request) {
	tab := r.PathValue("tab")
	renderJSON(w, r, http.StatusOK, map[string]string{"signal": string(s.analyzer.Signal(tab))})
}
