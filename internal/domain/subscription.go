package domain

import "time"

// Subscription is one external source a user has asked to poll.
type Subscription struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// URL is the unique key within a user's subscription set.
	// Adding a URL that is already present is a no-op.
	URL string `bson:"url" json:"url"`

	// Name is an optional display label.
	Name string `bson:"name,omitempty" json:"name,omitempty"`

	// ─────────────────────────────
	// State
	// ─────────────────────────────

	// IsActive controls inclusion in aggregation passes. Toggling it off
	// keeps the subscription but excludes its items from the merged feed.
	IsActive bool `bson:"isActive" json:"isActive"`

	// AddedAt is when the user subscribed.
	AddedAt time.Time `bson:"addedAt" json:"addedAt"`

	// Keywords are optional filter terms forwarded to adapters that
	// support server-side filtering (currently the legislative source).
	Keywords []string `bson:"keywords,omitempty" json:"keywords,omitempty"`
}

// ActiveSubscriptions filters subs down to the ones included in a pass.
func ActiveSubscriptions(subs []Subscription) []Subscription {
	active := make([]Subscription, 0, len(subs))
	for _, s := range subs {
		if s.IsActive {
			active = append(active, s)
		}
	}
	return active
}

// FindSubscription returns the subscription with the given URL, if any.
func FindSubscription(subs []Subscription, url string) (Subscription, bool) {
	for _, s := range subs {
		if s.URL == url {
			return s, true
		}
	}
	return Subscription{}, false
}
