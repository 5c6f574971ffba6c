package rediscache

import (
	"strings"
	"testing"
)

func TestUpstreamKey(t *testing.T) {
	key := UpstreamKey("https://api.nytimes.com/svc/search/v2/articlesearch.json?api-key=secret")

	if !strings.HasPrefix(key, KeyPrefixUpstream) {
		t.Errorf("key %q missing prefix %q", key, KeyPrefixUpstream)
	}
	if strings.Contains(key, "secret") {
		t.Error("key must not embed the raw URL")
	}
	if key != UpstreamKey("https://api.nytimes.com/svc/search/v2/articlesearch.json?api-key=secret") {
		t.Error("key derivation must be deterministic")
	}
	if key == UpstreamKey("https://other.example/feed") {
		t.Error("different URLs must map to different keys")
	}
}
