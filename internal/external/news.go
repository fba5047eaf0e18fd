// Package external provides clients for third-party feeds outside the
// scoreboard provider (currently school news via Google News RSS).
package external

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// ---------------------------------------------------------------------------
// Constants
// ---------------------------------------------------------------------------

const (
	newsDefaultLimit = 10
	newsMaxLimit     = 50
	newsRSSTimeout   = 15 * time.Second
	newsCacheTTL     = 10 * time.Minute
)

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// ---------------------------------------------------------------------------
// Article — normalized article shape
// ---------------------------------------------------------------------------

// Article is a normalized news article.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
}

// ---------------------------------------------------------------------------
// NewsService — Google News RSS search for the tracked school
// ---------------------------------------------------------------------------

// NewsService fetches school news from Google News RSS, with an in-memory
// feed cache so repeated requests inside the TTL hit the wire once.
type NewsService struct {
	school     string
	httpClient *http.Client

	mu        sync.RWMutex
	cached    []Article
	cachedAt  time.Time
	lastError string
}

// NewNewsService creates a news service for the given school.
func NewNewsService(school string) *NewsService {
	return &NewsService{
		school:     school,
		httpClient: &http.Client{Timeout: newsRSSTimeout},
	}
}

// Status returns service configuration status.
func (s *NewsService) Status() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"source":     "google_news_rss",
		"school":     s.school,
		"cached":     len(s.cached),
		"cached_at":  s.cachedAt,
		"last_error": s.lastError,
	}
}

// SchoolNews returns up to limit recent articles about the school, newest
// first. Served from cache when fresh.
func (s *NewsService) SchoolNews(limit int) ([]Article, error) {
	if limit < 1 {
		limit = newsDefaultLimit
	}
	if limit > newsMaxLimit {
		limit = newsMaxLimit
	}

	s.mu.RLock()
	if time.Since(s.cachedAt) < newsCacheTTL && len(s.cached) > 0 {
		cached := s.cached
		s.mu.RUnlock()
		return clip(cached, limit), nil
	}
	s.mu.RUnlock()

	articles, err := s.fetchRSS(s.school + " athletics")
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastError = err.Error()
		// Serve stale cache over an error when we have one.
		if len(s.cached) > 0 {
			return clip(s.cached, limit), nil
		}
		return nil, err
	}
	s.lastError = ""
	s.cached = articles
	s.cachedAt = time.Now()
	return clip(articles, limit), nil
}

func clip(articles []Article, limit int) []Article {
	if len(articles) > limit {
		return articles[:limit]
	}
	return articles
}

// ---------------------------------------------------------------------------
// RSS implementation
// ---------------------------------------------------------------------------

// rssResponse is the minimal XML structure for Google News RSS.
type rssResponse struct {
	XMLName xml.Name  `xml:"rss"`
	Items   []rssItem `xml:"channel>item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

func (s *NewsService) fetchRSS(query string) ([]Article, error) {
	u := fmt.Sprintf(
		"https://news.google.com/rss/search?q=%s+when:7d&hl=en-US&gl=US&ceid=US:en",
		url.QueryEscape(query),
	)

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; GamedayBot/1.0)")
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("RSS fetch error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("RSS HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("RSS read error: %w", err)
	}

	return parseRSS(body)
}

func parseRSS(body []byte) ([]Article, error) {
	var rss rssResponse
	if err := xml.Unmarshal(body, &rss); err != nil {
		return nil, fmt.Errorf("RSS parse error: %w", err)
	}

	articles := make([]Article, 0, len(rss.Items))
	for _, item := range rss.Items {
		title := item.Title
		source := "Google News"

		// Extract source from "Title - Source" format.
		if idx := strings.LastIndex(title, " - "); idx != -1 {
			source = strings.TrimSpace(title[idx+3:])
			title = strings.TrimSpace(title[:idx])
		}

		desc := htmlTagRe.ReplaceAllString(item.Description, "")
		if len(desc) > 300 {
			desc = desc[:300] + "..."
		}

		articles = append(articles, Article{
			Title:       title,
			Description: desc,
			URL:         item.Link,
			Source:      source,
			PublishedAt: item.PubDate,
		})
	}

	sortArticlesByDate(articles)
	return articles, nil
}

// sortArticlesByDate orders newest first; unparsable dates sink to the end.
func sortArticlesByDate(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		ti, erri := time.Parse(time.RFC1123, articles[i].PublishedAt)
		tj, errj := time.Parse(time.RFC1123, articles[j].PublishedAt)
		if erri != nil {
			return false
		}
		if errj != nil {
			return true
		}
		return ti.After(tj)
	})
}
