package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wrenfield/curator/internal/domain"
)

const (
	blueskyAuthHost   = "https://bsky.social"
	blueskyAPIHost    = "https://api.bsky.app"
	blueskyPublicHost = "https://public.api.bsky.app"

	searchLimit = 25
)

// Post is a normalized Bluesky post.
type Post struct {
	// ID is the at:// URI; together with CID it identifies the record for
	// reposting.
	ID      string `json:"id"`
	CID     string `json:"cid"`
	Image   string `json:"image,omitempty"`
	Author  Author `json:"author"`
	Content string `json:"content"`

	CreatedAt time.Time `json:"createdAt"`
	URL       string    `json:"url"`
	Likes     int       `json:"likes"`
	Reposts   int       `json:"reposts"`
}

type Author struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar,omitempty"`
}

// Client talks to the Bluesky XRPC API. With an app password it
// authenticates for elevated search rate limits and gains the ability to
// repost; without one it falls back to the public search host.
type Client struct {
	http        *http.Client
	handle      string
	appPassword string

	authHost   string
	apiHost    string
	publicHost string
}

func NewClient(httpClient *http.Client, handle, appPassword string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		http:        httpClient,
		handle:      handle,
		appPassword: appPassword,
		authHost:    blueskyAuthHost,
		apiHost:     blueskyAPIHost,
		publicHost:  blueskyPublicHost,
	}
}

func (c *Client) hasAuth() bool {
	return c.handle != "" && c.appPassword != ""
}

type session struct {
	AccessJWT string `json:"accessJwt"`
	DID       string `json:"did"`
}

func (c *Client) createSession(ctx context.Context) (*session, error) {
	body, _ := json.Marshal(map[string]string{
		"identifier": c.handle,
		"password":   c.appPassword,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.authHost+"/xrpc/com.atproto.server.createSession", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bluesky auth failed: %s %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var s session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

type searchResponse struct {
	Posts []struct {
		URI         string `json:"uri"`
		CID         string `json:"cid"`
		LikeCount   int    `json:"likeCount"`
		RepostCount int    `json:"repostCount"`
		Author      struct {
			Handle      string `json:"handle"`
			DisplayName string `json:"displayName"`
			Avatar      string `json:"avatar"`
		} `json:"author"`
		Record struct {
			Text      string `json:"text"`
			CreatedAt string `json:"createdAt"`
		} `json:"record"`
		Embed struct {
			Images []struct {
				Thumb string `json:"thumb"`
			} `json:"images"`
			Media struct {
				Images []struct {
					Thumb string `json:"thumb"`
				} `json:"images"`
			} `json:"media"`
		} `json:"embed"`
	} `json:"posts"`
}

// Search runs a keyword search and normalizes the results.
func (c *Client) Search(ctx context.Context, query string) ([]Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query")
	}

	host := c.publicHost
	var token string
	if c.hasAuth() {
		s, err := c.createSession(ctx)
		if err != nil {
			return nil, err
		}
		token = s.AccessJWT
		host = c.apiHost
	}

	endpoint := fmt.Sprintf("%s/xrpc/app.bsky.feed.searchPosts?q=%s&limit=%d",
		host, url.QueryEscape(query), searchLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden && !c.hasAuth() {
		return nil, fmt.Errorf("bluesky public search is rate-limited; configure BLUESKY_HANDLE and BLUESKY_APP_PASSWORD")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bluesky returned %s", resp.Status)
	}

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	posts := make([]Post, 0, len(data.Posts))
	for _, p := range data.Posts {
		// Image priority: direct embed first, then media nested inside a
		// quoted/reposted record, otherwise none.
		var image string
		if len(p.Embed.Images) > 0 {
			image = p.Embed.Images[0].Thumb
		} else if len(p.Embed.Media.Images) > 0 {
			image = p.Embed.Media.Images[0].Thumb
		}

		displayName := p.Author.DisplayName
		if displayName == "" {
			displayName = p.Author.Handle
		}

		posts = append(posts, Post{
			ID:      p.URI,
			CID:     p.CID,
			Image:   image,
			Content: p.Record.Text,
			Author: Author{
				Handle:      p.Author.Handle,
				DisplayName: displayName,
				Avatar:      p.Author.Avatar,
			},
			CreatedAt: parseCreatedAt(p.Record.CreatedAt),
			URL:       postWebURL(p.Author.Handle, p.URI),
			Likes:     p.LikeCount,
			Reposts:   p.RepostCount,
		})
	}

	return posts, nil
}

// Repost creates an app.bsky.feed.repost record. Credentials are
// mandatory: there is no public write API.
func (c *Client) Repost(ctx context.Context, uri, cid string) error {
	if uri == "" || cid == "" {
		return fmt.Errorf("missing uri or cid")
	}
	if !c.hasAuth() {
		return fmt.Errorf("repost: %w", domain.ErrUnauthenticated)
	}

	s, err := c.createSession(ctx)
	if err != nil {
		return err
	}

	record := map[string]any{
		"$type":     "app.bsky.feed.repost",
		"subject":   map[string]string{"uri": uri, "cid": cid},
		"createdAt": time.Now().UTC().Format(time.RFC3339),
	}
	body, _ := json.Marshal(map[string]any{
		"repo":       s.DID,
		"collection": "app.bsky.feed.repost",
		"record":     record,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.authHost+"/xrpc/com.atproto.repo.createRecord", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.AccessJWT)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("create repost record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("repost failed: %s %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	return nil
}

func parseCreatedAt(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

// postWebURL builds the bsky.app permalink from the author handle and the
// record key at the end of the at:// URI.
func postWebURL(handle, uri string) string {
	rkey := uri
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		rkey = uri[i+1:]
	}
	return fmt.Sprintf("https://bsky.app/profile/%s/post/%s", handle, rkey)
}
