package feed

import "testing"

func newTestDispatcher() *Dispatcher {
	client := NewClient(nil, nil, 0, nil)
	return NewDispatcher(
		NewNewsAdapter(client, "k", "k"),
		NewGovNoticeAdapter(client),
		NewCongressAdapter(client, "k"),
		NewRSSAdapter(client),
	)
}

func TestDispatcherResolve(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "nyt", url: "https://www.nytimes.com/section/climate", want: "news"},
		{name: "guardian", url: "https://www.theguardian.com/environment", want: "news"},
		{name: "federal register", url: "https://www.federalregister.gov/documents/search?conditions[term]=biomass", want: "gov-notice"},
		{name: "congress", url: "https://www.congress.gov/", want: "congress"},
		{name: "plain blog", url: "https://example.com/feed.xml", want: "rss"},
		{name: "atom feed", url: "https://blog.example.org/atom", want: "rss"},
	}

	d := newTestDispatcher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Resolve(tt.url)
			if got.Name() != tt.want {
				t.Errorf("Resolve(%s) = %s, want %s", tt.url, got.Name(), tt.want)
			}
		})
	}
}

func TestDispatcherPriorityOrder(t *testing.T) {
	// A URL matching several predicates must resolve to the highest
	// priority adapter, with no fallback chaining.
	d := newTestDispatcher()
	got := d.Resolve("https://www.nytimes.com/redirect?to=congress.gov")
	if got.Name() != "news" {
		t.Errorf("Resolve() = %s, want news (first match wins)", got.Name())
	}
}
