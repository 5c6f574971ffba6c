package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wrenfield/curator/internal/domain"
)

const (
	nytSearchAPI    = "https://api.nytimes.com/svc/search/v2/articlesearch.json"
	guardianContent = "https://content.guardianapis.com/search"

	// The editorial query is fixed server-side; subscription keywords are
	// deliberately not forwarded to either news source.
	nytQuery  = `forest endangered bioenergy logging "climate change"`
	nytFilter = `(desk:("Environment" "Science" "Climate" "U.S." "World" "Foreign" "Politics" "Washington" "Business" "Magazine" "Opinion") OR section.name:("Climate" "Environment" "Science" "U.S." "World")) AND NOT section.name:("Arts" "Music" "Movies" "Theater" "Style")`
)

// NewsAdapter covers the two curated news sources. The subscription URL
// only selects which upstream to hit; each upstream holds a fixed
// editorial query.
type NewsAdapter struct {
	client       *Client
	nytKey       string
	guardianKey  string
	nytBase      string
	guardianBase string
	now          func() time.Time
}

func NewNewsAdapter(client *Client, nytKey, guardianKey string) *NewsAdapter {
	return &NewsAdapter{
		client:       client,
		nytKey:       nytKey,
		guardianKey:  guardianKey,
		nytBase:      nytSearchAPI,
		guardianBase: guardianContent,
		now:          time.Now,
	}
}

func (a *NewsAdapter) Name() string { return "news" }

func (a *NewsAdapter) Match(u string) bool {
	return strings.Contains(u, "nytimes.com") || strings.Contains(u, "theguardian.com")
}

func (a *NewsAdapter) Fetch(ctx context.Context, sourceURL string, _ []string) ([]domain.Resource, error) {
	switch {
	case strings.Contains(sourceURL, "nytimes.com"):
		return a.fetchNYT(ctx)
	case strings.Contains(sourceURL, "theguardian.com"):
		return a.fetchGuardian(ctx)
	default:
		return nil, nil
	}
}

type nytResponse struct {
	Response struct {
		Docs []struct {
			ID       string `json:"_id"`
			URI      string `json:"uri"`
			WebURL   string `json:"web_url"`
			Snippet  string `json:"snippet"`
			PubDate  string `json:"pub_date"`
			Headline struct {
				Main string `json:"main"`
			} `json:"headline"`
			Byline struct {
				Original string `json:"original"`
			} `json:"byline"`
		} `json:"docs"`
	} `json:"response"`
}

func (a *NewsAdapter) fetchNYT(ctx context.Context) ([]domain.Resource, error) {
	if a.nytKey == "" {
		return nil, fmt.Errorf("missing NYT_API_KEY")
	}

	endpoint := fmt.Sprintf("%s?q=%s&fq=%s&sort=newest&api-key=%s",
		a.nytBase,
		url.QueryEscape(nytQuery),
		url.QueryEscape(nytFilter),
		url.QueryEscape(a.nytKey),
	)

	raw, err := a.client.GetBytes(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var resp nytResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode nyt response: %w", err)
	}

	ingested := a.now()
	resources := make([]domain.Resource, 0, len(resp.Response.Docs))
	for _, doc := range resp.Response.Docs {
		externalID := doc.ID
		if externalID == "" {
			externalID = doc.URI
		}

		title := doc.Headline.Main
		if title == "" {
			title = "Untitled Article"
		}

		resources = append(resources, domain.Resource{
			PluginID:    domain.PluginID,
			ExternalID:  externalID,
			Title:       title,
			URL:         doc.WebURL,
			Summary:     doc.Snippet,
			PublishedAt: parseWhen(doc.PubDate, ingested),
			IngestedAt:  ingested,
			Status:      domain.StatusNew,
			NativeData: map[string]any{
				"source": "New York Times",
				"author": strings.TrimPrefix(doc.Byline.Original, "By "),
			},
		})
	}

	return resources, nil
}

type guardianResponse struct {
	Response struct {
		Results []struct {
			ID                 string `json:"id"`
			WebTitle           string `json:"webTitle"`
			WebURL             string `json:"webUrl"`
			WebPublicationDate string `json:"webPublicationDate"`
			Fields             struct {
				TrailText string `json:"trailText"`
				Byline    string `json:"byline"`
				Thumbnail string `json:"thumbnail"`
			} `json:"fields"`
		} `json:"results"`
	} `json:"response"`
}

func (a *NewsAdapter) fetchGuardian(ctx context.Context) ([]domain.Resource, error) {
	if a.guardianKey == "" {
		return nil, fmt.Errorf("missing GUARDIAN_API_KEY")
	}

	endpoint := fmt.Sprintf("%s?section=environment&show-fields=trailText,thumbnail,byline&page-size=20&api-key=%s",
		a.guardianBase, url.QueryEscape(a.guardianKey))

	raw, err := a.client.GetBytes(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var resp guardianResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode guardian response: %w", err)
	}

	ingested := a.now()
	resources := make([]domain.Resource, 0, len(resp.Response.Results))
	for _, article := range resp.Response.Results {
		resources = append(resources, domain.Resource{
			PluginID:    domain.PluginID,
			ExternalID:  article.ID,
			Title:       article.WebTitle,
			URL:         article.WebURL,
			Summary:     article.Fields.TrailText,
			PublishedAt: parseWhen(article.WebPublicationDate, ingested),
			IngestedAt:  ingested,
			Status:      domain.StatusNew,
			NativeData: map[string]any{
				"source": "The Guardian",
				"author": article.Fields.Byline,
				"image":  article.Fields.Thumbnail,
			},
		})
	}

	return resources, nil
}
