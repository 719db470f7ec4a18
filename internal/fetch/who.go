package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/abelbrown/epiwatch/internal/logging"
	"github.com/abelbrown/epiwatch/internal/model"
)

// WHO Disease Outbreak News endpoints.
const (
	whoAPIURL   = "https://www.who.int/api/news/diseaseoutbreaknews"
	whoBaseURL  = "https://www.who.int"
	whoIndexURL = whoBaseURL + "/emergencies/disease-outbreak-news"
)

// Candidate JSON keys per logical field, first present wins. This is a
// compatibility shim against upstream schema drift across API versions.
var (
	envelopeKeys = []string{"value", "items", "data"}
	idKeys       = []string{"Id", "id"}
	urlKeys      = []string{"Url", "link", "OData__ItemUrl", "ItemDefaultUrl"}
	titleKeys    = []string{"Title", "title"}
	summaryKeys  = []string{"Summary", "summary"}
	dateKeys     = []string{"PublicationDate", "date"}
)

// itemClassRe and itemHrefRe identify outbreak anchors on the HTML index
// page; markup varies by deployment so both a class and an href pattern are
// tried.
var (
	itemClassRe = regexp.MustCompile(`list-vertical__item|list-view--item`)
	itemHrefRe  = regexp.MustCompile(`/emergencies/disease-outbreak-news/item/`)
	htmlDateRe  = regexp.MustCompile(`\d{1,2}\s+[A-Z][a-z]+\s+\d{4}`)
)

// WHOFetcher retrieves Disease Outbreak News bulletins. The structured API
// is the primary path; any transport, status, or parse failure triggers
// exactly one fallback to scraping the HTML index page.
type WHOFetcher struct {
	client   *Client
	apiURL   string
	baseURL  string
	indexURL string
}

// NewWHOFetcher creates a fetcher against the production WHO endpoints.
func NewWHOFetcher(client *Client) *WHOFetcher {
	return &WHOFetcher{
		client:   client,
		apiURL:   whoAPIURL,
		baseURL:  whoBaseURL,
		indexURL: whoIndexURL,
	}
}

func (f *WHOFetcher) Name() string { return "WHO Disease Outbreak News" }

// FetchLatest returns the latest batch of bulletins. On API failure it falls
// back to the HTML index once; the fallback's output (possibly empty) is the
// only result, never a merge of both paths.
func (f *WHOFetcher) FetchLatest(ctx context.Context) ([]model.RawEvent, error) {
	events, err := f.fetchAPI(ctx)
	if err != nil {
		logging.Warn("DON API fetch failed, falling back to HTML index", "error", err)
		return f.fetchHTML(ctx)
	}
	return events, nil
}

func (f *WHOFetcher) fetchAPI(ctx context.Context) ([]model.RawEvent, error) {
	resp, err := f.client.Get(ctx, f.apiURL, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read API response: %w", err)
	}

	items, err := decodeItemList(body)
	if err != nil {
		return nil, err
	}

	events := make([]model.RawEvent, 0, len(items))
	for _, item := range items {
		rawURL := f.resolveURL(firstString(item, urlKeys))
		title := firstString(item, titleKeys)
		content := firstString(item, summaryKeys)
		if content == "" {
			content = title
		}
		externalID := firstString(item, idKeys)
		if externalID == "" {
			externalID = rawURL
		}

		events = append(events, model.RawEvent{
			ExternalID:  externalID,
			Title:       title,
			Content:     content,
			RawURL:      rawURL,
			PublishedAt: firstString(item, dateKeys),
		})
	}
	return events, nil
}

// decodeItemList accepts either a direct JSON list or an envelope object
// whose payload field holds the list.
func decodeItemList(body []byte) ([]map[string]any, error) {
	var direct []map[string]any
	if err := json.Unmarshal(body, &direct); err == nil {
		return direct, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("API response is neither list nor object: %w", err)
	}
	for _, key := range envelopeKeys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		var items []map[string]any
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("envelope field %q is not a list: %w", key, err)
		}
		return items, nil
	}
	return nil, fmt.Errorf("no item list found in API envelope")
}

// firstString returns the first present candidate field, stringified.
func firstString(item map[string]any, keys []string) string {
	for _, key := range keys {
		v, ok := item[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			if val != "" {
				return val
			}
		case float64:
			return strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(val)
		}
	}
	return ""
}

// resolveURL rewrites site-relative paths to absolute URLs against the WHO
// origin. Already-absolute URLs pass through unchanged.
func (f *WHOFetcher) resolveURL(raw string) string {
	if raw == "" || strings.HasPrefix(raw, "http") {
		return raw
	}
	base, err := url.Parse(f.baseURL)
	if err != nil {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return base.ResolveReference(ref).String()
}

func (f *WHOFetcher) fetchHTML(ctx context.Context) ([]model.RawEvent, error) {
	resp, err := f.client.Get(ctx, f.indexURL, "text/html")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("index page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse index page: %w", err)
	}

	anchors := doc.Find("a").FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		return itemClassRe.MatchString(class)
	})
	if anchors.Length() == 0 {
		anchors = doc.Find("a").FilterFunction(func(_ int, s *goquery.Selection) bool {
			href, _ := s.Attr("href")
			return itemHrefRe.MatchString(href)
		})
	}

	var events []model.RawEvent
	anchors.Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		rawURL := f.resolveURL(href)

		title := strings.TrimSpace(s.Find("span.full-title").First().Text())
		if title == "" {
			title = strings.TrimSpace(s.Find("h4").First().Text())
		}
		if title == "" {
			title = strings.TrimSpace(s.Text())
		}

		// No separate body text on the index page; content mirrors the title.
		events = append(events, model.RawEvent{
			ExternalID:  rawURL,
			Title:       title,
			Content:     title,
			RawURL:      rawURL,
			PublishedAt: htmlDateRe.FindString(s.Text()),
		})
	})

	logging.Info("fetched DON bulletins via HTML fallback", "count", len(events))
	return events, nil
}
