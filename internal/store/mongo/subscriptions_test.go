package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestFeedListMigratesLegacyStrings(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"_id":   "user-1",
		"feeds": bson.A{"http://a.com", "http://b.com"},
	})
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	var doc userDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(doc.Feeds) != 2 {
		t.Fatalf("got %d subscriptions, want 2", len(doc.Feeds))
	}
	wantURLs := []string{"http://a.com", "http://b.com"}
	for i, sub := range doc.Feeds {
		if sub.URL != wantURLs[i] {
			t.Errorf("feed %d URL = %q, want %q", i, sub.URL, wantURLs[i])
		}
		if !sub.IsActive {
			t.Errorf("feed %d should be active after migration", i)
		}
		if sub.AddedAt.IsZero() {
			t.Errorf("feed %d AddedAt should be set after migration", i)
		}
	}
}

func TestFeedListDecodesMixedArray(t *testing.T) {
	added := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	raw, err := bson.Marshal(bson.M{
		"_id": "user-1",
		"feeds": bson.A{
			"http://legacy.com/feed",
			bson.M{
				"url":      "http://new.com/feed",
				"name":     "New Source",
				"isActive": false,
				"addedAt":  added,
				"keywords": bson.A{"forest", "timber"},
			},
		},
	})
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	var doc userDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(doc.Feeds) != 2 {
		t.Fatalf("got %d subscriptions, want 2", len(doc.Feeds))
	}

	legacy := doc.Feeds[0]
	if legacy.URL != "http://legacy.com/feed" || !legacy.IsActive {
		t.Errorf("legacy entry = %+v, want active subscription for legacy URL", legacy)
	}

	full := doc.Feeds[1]
	if full.URL != "http://new.com/feed" || full.Name != "New Source" {
		t.Errorf("full entry = %+v, want decoded record", full)
	}
	if full.IsActive {
		t.Error("full entry should keep its stored isActive=false")
	}
	if !full.AddedAt.Equal(added) {
		t.Errorf("full entry AddedAt = %v, want %v", full.AddedAt, added)
	}
	if len(full.Keywords) != 2 || full.Keywords[0] != "forest" {
		t.Errorf("full entry Keywords = %v, want [forest timber]", full.Keywords)
	}
}

func TestFeedListDecodesNullAndEmpty(t *testing.T) {
	for name, fixture := range map[string]bson.M{
		"null":    {"_id": "u", "feeds": nil},
		"empty":   {"_id": "u", "feeds": bson.A{}},
		"missing": {"_id": "u"},
	} {
		raw, err := bson.Marshal(fixture)
		if err != nil {
			t.Fatalf("%s: marshal fixture: %v", name, err)
		}

		var doc userDocument
		if err := bson.Unmarshal(raw, &doc); err != nil {
			t.Fatalf("%s: unmarshal: %v", name, err)
		}
		if len(doc.Feeds) != 0 {
			t.Errorf("%s: got %d subscriptions, want 0", name, len(doc.Feeds))
		}
	}
}

func TestFeedListRejectsUnexpectedTypes(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"_id":   "u",
		"feeds": bson.A{int32(42)},
	})
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	var doc userDocument
	if err := bson.Unmarshal(raw, &doc); err == nil {
		t.Error("expected decode error for numeric feeds element")
	}
}
