package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"newsalpha/internal/domain"
	"newsalpha/pkg/finnhub"
)

// chunkDays bounds each finnhub request - the API truncates long ranges,
// so a year of history has to be walked in slices.
const chunkDays = 30

type NewsRepository interface {
	// GetNews returns articles related to the symbol whose headline or
	// summary mentions the company, newest first, deduplicated by title,
	// capped at maxArticles.
	GetNews(ctx context.Context, symbol, companyName string, from, to time.Time, maxArticles int) ([]domain.Article, error)
}

func NewNewsRepository(client *finnhub.Client) NewsRepository {
	return newsRepositoryHandler{
		Client: client,
	}
}

type newsRepositoryHandler struct {
	Client *finnhub.Client
}

func (h newsRepositoryHandler) GetNews(ctx context.Context, symbol, companyName string, from, to time.Time, maxArticles int) ([]domain.Article, error) {
	items := []finnhub.NewsItem{}
	for chunkStart := from; chunkStart.Before(to); chunkStart = chunkStart.AddDate(0, 0, chunkDays) {
		chunkEnd := chunkStart.AddDate(0, 0, chunkDays-1)
		if chunkEnd.After(to) {
			chunkEnd = to
		}

		chunk, err := h.Client.CompanyNews(ctx, symbol, chunkStart, chunkEnd)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to fetch news for %s: %s", domain.ErrTransientProvider, symbol, err)
		}
		items = append(items, chunk...)
	}

	articles := filterRelevant(items, symbol, companyName)

	sort.Slice(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	articles = dedupeByTitle(articles)

	if len(articles) > maxArticles {
		articles = articles[:maxArticles]
	}

	return articles, nil
}

// filterRelevant keeps articles finnhub relates to the symbol and whose
// headline or summary mentions the company by name. Ticker-only matches
// are mostly market-roundup noise.
func filterRelevant(items []finnhub.NewsItem, symbol, companyName string) []domain.Article {
	symbol = strings.ToUpper(symbol)
	nameLower := strings.ToLower(companyName)

	articles := []domain.Article{}
	for _, item := range items {
		related := false
		for _, t := range strings.Split(strings.ToUpper(item.Related), ",") {
			if strings.TrimSpace(t) == symbol {
				related = true
				break
			}
		}
		if !related {
			continue
		}

		if !strings.Contains(strings.ToLower(item.Headline), nameLower) &&
			!strings.Contains(strings.ToLower(item.Summary), nameLower) {
			continue
		}

		articles = append(articles, domain.Article{
			Title:       item.Headline,
			Description: item.Summary,
			PublishedAt: time.Unix(item.Datetime, 0).UTC(),
		})
	}
	return articles
}

func dedupeByTitle(articles []domain.Article) []domain.Article {
	seen := map[string]bool{}
	out := []domain.Article{}
	for _, a := range articles {
		if seen[a.Title] {
			continue
		}
		seen[a.Title] = true
		out = append(out, a)
	}
	return out
}
