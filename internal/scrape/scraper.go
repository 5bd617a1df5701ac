// Package scrape parses the website's listing pages into summary records,
// used when the id-list API cannot provide site-ranked ordering.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"hnserve/internal/model"
)

// ErrParse means the fetched page did not match the expected listing markup.
var ErrParse = errors.New("listing parse failure")

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Scraper struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Scraper {
	return &Scraper{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		logger:     logger.With("component", "scrape"),
	}
}

// Listing fetches and parses one page of a listing section (news, newest,
// jobs, ...). Rows come back in page order.
func (s *Scraper) Listing(ctx context.Context, section string, page int) ([]model.ListingSummary, error) {
	url := fmt.Sprintf("%s/%s?p=%d", s.baseURL, section, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("scraping listing page", "url", url)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return parseListing(doc, s.baseURL)
}

// parseListing walks the story rows. Each row's metadata lives in the
// sibling row's subtext cell; a row whose subtext carries exactly one link
// is a job posting (jobs have no vote, user or comment links).
func parseListing(doc *goquery.Document, base string) ([]model.ListingSummary, error) {
	rows := doc.Find("tr.athing")
	if rows.Length() == 0 {
		return nil, fmt.Errorf("%w: no story rows found", ErrParse)
	}

	summaries := make([]model.ListingSummary, 0, rows.Length())
	var parseErr error
	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		id, err := strconv.Atoi(row.AttrOr("id", ""))
		if err != nil {
			parseErr = fmt.Errorf("%w: story row without numeric id", ErrParse)
			return false
		}

		title := row.Find("span.titleline > a").First()
		href := title.AttrOr("href", "")
		if href != "" && !strings.Contains(href, "://") {
			href = base + "/" + href
		}

		sub := row.Next().Find("td.subtext")
		links := sub.Find("a").Length()
		kind := "story"
		if links == 1 {
			kind = "job"
		}

		summaries = append(summaries, model.ListingSummary{
			ID:           id,
			Title:        strings.TrimSpace(title.Text()),
			By:           strings.TrimSpace(sub.Find("a.hnuser").First().Text()),
			Time:         parseAge(sub.Find("span.age").AttrOr("title", "")),
			Score:        leadingInt(sub.Find("span.score").First().Text()),
			CommentCount: commentCount(sub),
			URL:          model.EscapeURL(href),
			Type:         kind,
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return summaries, nil
}

// parseAge reads the age span's title attribute, which carries an ISO
// timestamp optionally followed by the epoch seconds.
func parseAge(attr string) int64 {
	fields := strings.Fields(attr)
	if len(fields) == 0 {
		return 0
	}
	if len(fields) > 1 {
		if epoch, err := strconv.ParseInt(fields[len(fields)-1], 10, 64); err == nil {
			return epoch
		}
	}
	if t, err := time.Parse("2006-01-02T15:04:05", fields[0]); err == nil {
		return t.Unix()
	}
	return 0
}

// commentCount finds the trailing comments link ("55 comments", or
// "discuss" for a story nobody commented on yet).
func commentCount(sub *goquery.Selection) *int {
	var count *int
	sub.Find("a").Each(func(_ int, a *goquery.Selection) {
		label := strings.TrimSpace(a.Text())
		if label == "discuss" {
			zero := 0
			count = &zero
			return
		}
		if strings.Contains(label, "comment") {
			count = leadingInt(label)
		}
	})
	return count
}

// leadingInt parses the integer prefix of strings like "128 points".
// Nil when there is no parseable number, so the field stays absent.
func leadingInt(s string) *int {
	s = strings.TrimSpace(strings.ReplaceAll(s, " ", " "))
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return nil
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return nil
	}
	return &n
}
