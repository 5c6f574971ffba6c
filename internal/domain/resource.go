package domain

import (
	"sort"
	"time"
)

// PluginID tags every resource produced by the aggregator subsystem.
// Downstream consumers use it to route items back to their owning plugin.
const PluginID = "feed-aggregator"

// StatusNew is the only status the aggregator ever assigns.
// Later lifecycle states (saved, archived) belong to the item collections,
// not to this subsystem.
const StatusNew = "new"

// Resource is the canonical representation of one external item,
// independent of the source it came from. Every adapter must produce
// this shape and nothing else.
type Resource struct {
	// PluginID identifies the aggregator as origin. Always PluginID.
	PluginID string `json:"pluginId"`

	// ExternalID is the source-native identifier (guid, bill number,
	// document URL). Unique within one source, not across sources.
	ExternalID string `json:"externalId"`

	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Summary string `json:"summary,omitempty"`

	// Origin is the subscription URL this item was fetched for. The
	// orchestrator stamps it during fan-in so the view can drop a removed
	// source's items without waiting for the next pass.
	Origin string `json:"origin,omitempty"`

	// PublishedAt is the source-reported publication time. Adapters fall
	// back to the ingestion time when the source reports none, so a zero
	// value only appears for items whose date could not be parsed at all.
	PublishedAt time.Time `json:"publishedAt"`

	// IngestedAt is the time the current aggregation pass fetched the item.
	IngestedAt time.Time `json:"ingestedAt"`

	Status string `json:"status"`

	// NativeData preserves source-specific fields (agency, origin chamber,
	// comment deadline, channel name) for display without widening the
	// canonical shape.
	NativeData map[string]any `json:"nativeData,omitempty"`
}

// SortByPublished orders resources newest first. Items with a zero
// PublishedAt compare as the Unix epoch, so unparsable dates sink to the
// bottom instead of breaking the sort. The sort is stable so that repeated
// passes over identical inputs produce identical output.
func SortByPublished(rs []Resource) {
	sort.SliceStable(rs, func(i, j int) bool {
		return publishedOrEpoch(rs[i]).After(publishedOrEpoch(rs[j]))
	})
}

func publishedOrEpoch(r Resource) time.Time {
	if r.PublishedAt.IsZero() {
		return time.Unix(0, 0)
	}
	return r.PublishedAt
}
