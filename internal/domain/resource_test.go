package domain

import (
	"testing"
	"time"
)

func TestSortByPublishedNewestFirst(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rs := []Resource{
		{ExternalID: "a", PublishedAt: base.AddDate(0, 0, -2)},
		{ExternalID: "b", PublishedAt: base},
		{ExternalID: "c", PublishedAt: base.AddDate(0, 0, -1)},
	}

	SortByPublished(rs)

	want := []string{"b", "c", "a"}
	for i, id := range want {
		if rs[i].ExternalID != id {
			t.Errorf("position %d = %s, want %s", i, rs[i].ExternalID, id)
		}
	}
}

func TestSortByPublishedZeroDatesSortLast(t *testing.T) {
	rs := []Resource{
		{ExternalID: "undated"},
		{ExternalID: "dated", PublishedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ExternalID: "undated2"},
	}

	SortByPublished(rs)

	if rs[0].ExternalID != "dated" {
		t.Errorf("first = %s, want dated", rs[0].ExternalID)
	}
	// Stable sort keeps the relative order of equal (epoch) items.
	if rs[1].ExternalID != "undated" || rs[2].ExternalID != "undated2" {
		t.Errorf("undated items reordered: %s, %s", rs[1].ExternalID, rs[2].ExternalID)
	}
}

func TestSortByPublishedDeterministic(t *testing.T) {
	ts := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	mk := func() []Resource {
		return []Resource{
			{ExternalID: "x", PublishedAt: ts},
			{ExternalID: "y", PublishedAt: ts},
			{ExternalID: "z", PublishedAt: ts.Add(time.Hour)},
		}
	}

	a, b := mk(), mk()
	SortByPublished(a)
	SortByPublished(b)

	for i := range a {
		if a[i].ExternalID != b[i].ExternalID {
			t.Fatalf("sort not deterministic at %d: %s vs %s", i, a[i].ExternalID, b[i].ExternalID)
		}
	}
}

func TestActiveSubscriptions(t *testing.T) {
	subs := []Subscription{
		{URL: "http://a.com", IsActive: true},
		{URL: "http://b.com", IsActive: false},
		{URL: "http://c.com", IsActive: true},
	}

	active := ActiveSubscriptions(subs)
	if len(active) != 2 {
		t.Fatalf("ActiveSubscriptions() returned %d, want 2", len(active))
	}
	for _, s := range active {
		if !s.IsActive {
			t.Errorf("inactive subscription %s leaked through", s.URL)
		}
	}
}

func TestFindSubscription(t *testing.T) {
	subs := []Subscription{
		{URL: "http://a.com"},
		{URL: "http://b.com"},
	}

	if _, ok := FindSubscription(subs, "http://b.com"); !ok {
		t.Error("FindSubscription() did not find http://b.com")
	}
	if _, ok := FindSubscription(subs, "http://missing.com"); ok {
		t.Error("FindSubscription() found a subscription that does not exist")
	}
}
