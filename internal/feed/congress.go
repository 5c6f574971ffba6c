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

const congressBillAPI = "https://api.congress.gov/v3/bill"

// defaultBillKeywords is the built-in filter applied when a subscription
// carries no keywords of its own.
var defaultBillKeywords = []string{
	"biomass", "bioenergy", "forest", "logging", "timber", "wood",
	"carbon", "climate", "renewable", "energy", "pollution",
	"environment", "emissions",
}

// CongressAdapter surfaces recently updated bills from the Congress.gov
// API, filtered by keyword against each bill's title and latest action.
// Whatever the filter returns is passed through unchanged; there is no
// second client-side re-filtering stage.
type CongressAdapter struct {
	client  *Client
	apiKey  string
	apiBase string
	now     func() time.Time
}

func NewCongressAdapter(client *Client, apiKey string) *CongressAdapter {
	return &CongressAdapter{
		client:  client,
		apiKey:  apiKey,
		apiBase: congressBillAPI,
		now:     time.Now,
	}
}

func (a *CongressAdapter) Name() string { return "congress" }

func (a *CongressAdapter) Match(u string) bool {
	return strings.Contains(u, "congress.gov")
}

type congressBill struct {
	Type          string `json:"type"`
	Number        string `json:"number"`
	Title         string `json:"title"`
	Congress      int    `json:"congress"`
	UpdateDate    string `json:"updateDate"`
	OriginChamber string `json:"originChamber"`
	LatestAction  struct {
		Text       string `json:"text"`
		ActionDate string `json:"actionDate"`
	} `json:"latestAction"`
}

type congressResponse struct {
	Bills []congressBill `json:"bills"`
}

func (a *CongressAdapter) Fetch(ctx context.Context, _ string, keywords []string) ([]domain.Resource, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("missing CONGRESS_API_KEY")
	}

	filter := normalizeKeywords(keywords)
	if len(filter) == 0 {
		filter = defaultBillKeywords
	}

	endpoint := fmt.Sprintf("%s?api_key=%s&format=json&limit=100&sort=%s",
		a.apiBase, url.QueryEscape(a.apiKey), url.QueryEscape("updateDate desc"))

	raw, err := a.client.GetBytes(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var resp congressResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode congress response: %w", err)
	}

	ingested := a.now()
	resources := make([]domain.Resource, 0, len(resp.Bills))
	for _, bill := range resp.Bills {
		if !billMatches(bill, filter) {
			continue
		}

		action := bill.LatestAction.Text
		if action == "" {
			action = "No recent action"
		}

		published := bill.UpdateDate
		if published == "" {
			published = bill.LatestAction.ActionDate
		}

		resources = append(resources, domain.Resource{
			PluginID:   domain.PluginID,
			ExternalID: fmt.Sprintf("congress-%s%s", bill.Type, bill.Number),
			Title:      fmt.Sprintf("%s%s: %s", bill.Type, bill.Number, bill.Title),
			URL: fmt.Sprintf("https://www.congress.gov/bill/%dth-congress/%s/%s",
				bill.Congress, billSlug(bill.Type), bill.Number),
			Summary:     "Latest Action: " + action,
			PublishedAt: parseWhen(published, ingested),
			IngestedAt:  ingested,
			Status:      domain.StatusNew,
			NativeData: map[string]any{
				"source":     "US Congress",
				"origin":     bill.OriginChamber,
				"isOfficial": true,
			},
		})
	}

	return resources, nil
}

// billMatches checks a bill's title plus latest action text against the
// keyword filter, case-insensitively.
func billMatches(bill congressBill, keywords []string) bool {
	text := strings.ToLower(bill.Title + " " + bill.LatestAction.Text)
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// billSlug maps a bill type code to its congress.gov URL path segment.
// Unrecognized codes fall back to house-bill.
func billSlug(billType string) string {
	switch billType {
	case "S":
		return "senate-bill"
	case "HRES":
		return "house-resolution"
	case "SRES":
		return "senate-resolution"
	case "HJRES":
		return "house-joint-resolution"
	case "SJRES":
		return "senate-joint-resolution"
	default:
		return "house-bill"
	}
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
