package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wrenfield/curator/internal/logger"
)

var testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Forest Policy Watch</title>
    <item>
      <title>New biomass rules proposed</title>
      <link>https://example.com/posts/1</link>
      <guid>post-1</guid>
      <description><![CDATA[<p>Regulators <b>proposed</b> new rules today.</p>]]></description>
      <pubDate>Wed, 12 Mar 2025 10:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Long read on carbon accounting</title>
      <link>https://example.com/posts/2</link>
      <description>` + strings.Repeat("carbon ", 40) + `</description>
      <pubDate>Tue, 11 Mar 2025 10:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Undated note</title>
      <link>https://example.com/posts/3</link>
      <guid>post-3</guid>
      <description>short</description>
    </item>
  </channel>
</rss>`

func newRSSTestAdapter(t *testing.T, body string) (*RSSAdapter, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	adapter := NewRSSAdapter(NewClient(srv.Client(), nil, 0, logger.Nop()))
	return adapter, srv
}

func TestRSSAdapterFetch(t *testing.T) {
	adapter, srv := newRSSTestAdapter(t, testRSS)

	resources, err := adapter.Fetch(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(resources) != 3 {
		t.Fatalf("Fetch() returned %d resources, want 3", len(resources))
	}

	first := resources[0]
	if first.ExternalID != "post-1" {
		t.Errorf("ExternalID = %s, want post-1 (guid preferred over link)", first.ExternalID)
	}
	if strings.Contains(first.Summary, "<") {
		t.Errorf("Summary still contains markup: %q", first.Summary)
	}
	if !strings.Contains(first.Summary, "proposed new rules") {
		t.Errorf("Summary lost text content: %q", first.Summary)
	}
	want := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", first.PublishedAt, want)
	}
	if first.Status != "new" {
		t.Errorf("Status = %s, want new", first.Status)
	}
	if first.NativeData["channel"] != "Forest Policy Watch" {
		t.Errorf("NativeData channel = %v", first.NativeData["channel"])
	}
}

func TestRSSAdapterSummaryTruncated(t *testing.T) {
	adapter, srv := newRSSTestAdapter(t, testRSS)

	resources, err := adapter.Fetch(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	long := resources[1]
	if got := len([]rune(long.Summary)); got > summaryLimit+3 {
		t.Errorf("Summary length = %d runes, want <= %d", got, summaryLimit+3)
	}
	if !strings.HasSuffix(long.Summary, "...") {
		t.Errorf("truncated summary should end with ellipsis, got %q", long.Summary)
	}
}

func TestRSSAdapterMissingFields(t *testing.T) {
	adapter, srv := newRSSTestAdapter(t, testRSS)

	resources, err := adapter.Fetch(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	// Second item has no guid: external id falls back to the link.
	if resources[1].ExternalID != "https://example.com/posts/2" {
		t.Errorf("ExternalID = %s, want link fallback", resources[1].ExternalID)
	}

	// Third item has no pubDate: published falls back to ingestion time,
	// never a zero instant.
	undated := resources[2]
	if undated.PublishedAt.IsZero() {
		t.Error("PublishedAt is zero, want ingestion-time fallback")
	}
	if !undated.PublishedAt.Equal(undated.IngestedAt) {
		t.Errorf("PublishedAt = %v, want IngestedAt %v", undated.PublishedAt, undated.IngestedAt)
	}
}

func TestRSSAdapterUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	adapter := NewRSSAdapter(NewClient(srv.Client(), nil, 0, logger.Nop()))
	if _, err := adapter.Fetch(context.Background(), srv.URL, nil); err == nil {
		t.Error("Fetch() should fail on non-success upstream status")
	}
}
