package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spacesedan/marketpulse/internal/models"
)

const (
	VALOR_BASE_URL = "https://valor.globo.com"
	VALOR_SOURCE   = "Valor Econômico"
)

type ValorFetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewValorFetcher(client *http.Client) *ValorFetcher {
	return &ValorFetcher{BaseURL: VALOR_BASE_URL, Client: defaultHTTPClient(client)}
}

func (f *ValorFetcher) Name() string { return "valor" }

// Fetch reads the search results page. Valor does not expose a publication
// time in its result widgets, so PublishedAt is always nil.
func (f *ValorFetcher) Fetch(ctx context.Context, ticker string) ([]models.RawNewsItem, error) {
	searchURL := fmt.Sprintf("%s/busca/?q=%s", strings.TrimRight(f.BaseURL, "/"), url.QueryEscape(ticker))

	body, err := getPage(ctx, f.Client, searchURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Valor page: %w", err)
	}

	titles := doc.Find(".widget--info__title")
	var items []models.RawNewsItem
	titles.Slice(0, min(ScrapeLimit, titles.Length())).Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Text())
		href, ok := s.Attr("href")
		if !ok {
			href, _ = s.Closest("a[href]").Attr("href")
		}
		link := resolveLink(f.BaseURL, href)
		if title == "" || link == "" {
			return
		}

		items = append(items, models.RawNewsItem{
			Title:  title,
			URL:    link,
			Source: VALOR_SOURCE,
		})
	})

	return items, nil
}
