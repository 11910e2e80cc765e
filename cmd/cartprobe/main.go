// Command cartprobe fetches a live retailer cart URL, runs adapter
// identification and extraction against it, and prints what the engine
// would capture. Useful when a retailer's markup drifts and a ruleset needs
// checking without driving the whole service.
package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-pkgz/lgr"
	"github.com/gocolly/colly/v2"
	"github.com/jessevdk/go-flags"

	"github.com/cartscope/cartscope/pkg/extract"
	"github.com/cartscope/cartscope/pkg/platform"
)

// Opts with all CLI options
type Opts struct {
	URL       string        `short:"u" long:"url" required:"true" description:"cart page URL to probe"`
	UserAgent string        `long:"user-agent" default:"Mozilla/5.0 (compatible; Cartscope/1.0)" description:"user agent for the fetch"`
	Timeout   time.Duration `long:"timeout" default:"30s" description:"fetch timeout"`
	Debug     bool          `long:"dbg" description:"debug mode"`
}

func main() {
	var opts Opts
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	setupLog(opts.Debug)

	registry := platform.NewRegistry()
	adapter, ok := registry.Identify(opts.URL)
	if !ok {
		log.Printf("[ERROR] no adapter matches %s", opts.URL)
		os.Exit(1)
	}
	fmt.Printf("matched adapter: %s\n", adapter)

	body, err := fetch(opts.URL, opts.UserAgent, opts.Timeout)
	if err != nil {
		log.Printf("[ERROR] fetch failed: %v", err)
		os.Exit(1)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Printf("[ERROR] parse page: %v", err)
		os.Exit(1)
	}

	host := ""
	if u, err := url.Parse(opts.URL); err == nil {
		host = u.Hostname()
	}
	loc := platform.LocaleFor(host)

	items := extract.New(nil).Extract(adapter, doc, loc.Currency)
	fmt.Printf("extracted %d items (currency %s):\n", len(items), loc.Currency)
	for i, item := range items {
		fmt.Printf("%3d. %-60.60s %10.2f %s\n", i+1, item.ProductTitle, item.Price, item.Currency)
	}
}

// fetch retrieves the page body with a single colly collector.
func fetch(rawURL, userAgent string, timeout time.Duration) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(userAgent),
	)
	collector.SetRequestTimeout(timeout)

	var body []byte
	var fetchErr error
	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := collector.Visit(rawURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", rawURL, err)
	}
	collector.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response from %s", rawURL)
	}
	return body, nil
}

func setupLog(dbg bool) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces}
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
