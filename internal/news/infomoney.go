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
	INFOMONEY_BASE_URL = "https://www.infomoney.com.br"
	INFOMONEY_SOURCE   = "InfoMoney"
)

type InfoMoneyFetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewInfoMoneyFetcher(client *http.Client) *InfoMoneyFetcher {
	return &InfoMoneyFetcher{BaseURL: INFOMONEY_BASE_URL, Client: defaultHTTPClient(client)}
}

func (f *InfoMoneyFetcher) Name() string { return "infomoney" }

func (f *InfoMoneyFetcher) Fetch(ctx context.Context, ticker string) ([]models.RawNewsItem, error) {
	searchURL := fmt.Sprintf("%s/?s=%s", strings.TrimRight(f.BaseURL, "/"), url.QueryEscape(ticker))

	body, err := getPage(ctx, f.Client, searchURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse InfoMoney page: %w", err)
	}

	articles := doc.Find("article")
	var items []models.RawNewsItem
	articles.Slice(0, min(ScrapeLimit, articles.Length())).Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find("h3").First().Text())
		href, _ := s.Find("a[href]").First().Attr("href")
		link := resolveLink(f.BaseURL, href)
		if title == "" || link == "" {
			return
		}
		datetime, _ := s.Find("time[datetime]").First().Attr("datetime")

		items = append(items, models.RawNewsItem{
			Title:       title,
			URL:         link,
			Source:      INFOMONEY_SOURCE,
			PublishedAt: parseTimestamp(datetime),
		})
	})

	return items, nil
}
