package scraper

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"pageinsights-api/internal/model"
	"pageinsights-api/pkg/uid"
)

// LinkedInScraper acquires profile data from public company pages over
// plain HTTP. Public pages expose the profile summary in meta tags and an
// embedded JSON blob; posts and followers are best-effort extractions
// from the same markup and frequently come back empty when the source
// gates them behind authentication.
type LinkedInScraper struct {
	client    *http.Client
	baseURL   string
	userAgent string
	log       *zap.Logger
}

// Config holds scraper settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// NewLinkedInScraper creates a scraper for public company pages.
func NewLinkedInScraper(cfg Config, log *zap.Logger) *LinkedInScraper {
	return &LinkedInScraper{
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		log:       log,
	}
}

var (
	metaRe      = regexp.MustCompile(`<meta[^>]+(?:property|name)="([^"]+)"[^>]+content="([^"]*)"`)
	followersRe = regexp.MustCompile(`([\d.,]+[KM+]?)\s+followers`)
	industryRe  = regexp.MustCompile(`"industry"\s*:\s*"([^"]+)"`)
	websiteRe   = regexp.MustCompile(`"(?:website|sameAs)"\s*:\s*"(https?://[^"]+)"`)
	headcountRe = regexp.MustCompile(`([\d,]+-[\d,]+|[\d,]+\+)\s+employees`)
	postTextRe  = regexp.MustCompile(`"commentary"\s*:\s*\{\s*"text"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

func (s *LinkedInScraper) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept-Language", "en-US,en")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}

// ScrapeProfile fetches and parses a public company page.
func (s *LinkedInScraper) ScrapeProfile(ctx context.Context, profileID string) (*model.Profile, error) {
	url := fmt.Sprintf("%s/%s/", s.baseURL, profileID)
	s.log.Info("scraping profile", zap.String("profile_id", profileID), zap.String("url", url))

	body, err := s.fetch(ctx, url)
	if err != nil {
		return nil, &AcquisitionError{ProfileID: profileID, Kind: "profile", Err: err}
	}

	page := string(body)
	meta := parseMeta(page)

	name := firstNonEmpty(meta["og:title"], meta["twitter:title"])
	if name == "" {
		// A page without a title is a login wall or an error page, not a
		// company profile.
		return nil, &AcquisitionError{ProfileID: profileID, Kind: "profile",
			Err: fmt.Errorf("no profile markup found")}
	}
	// Titles render as "Name | LinkedIn".
	if i := strings.Index(name, " | "); i > 0 {
		name = name[:i]
	}

	p := &model.Profile{
		ProfileID:       profileID,
		Name:            name,
		URL:             url,
		Description:     firstNonEmpty(meta["og:description"], meta["description"]),
		ProfileImageURL: meta["og:image"],
	}

	if m := followersRe.FindStringSubmatch(page); m != nil {
		p.FollowersCount = parseFollowerCount(m[1])
	}
	if m := industryRe.FindStringSubmatch(page); m != nil {
		p.Industry = html.UnescapeString(m[1])
	}
	if m := websiteRe.FindStringSubmatch(page); m != nil {
		p.Website = m[1]
	}
	if m := headcountRe.FindStringSubmatch(page); m != nil {
		p.Headcount = m[1]
	}

	return p, nil
}

// ScrapePosts extracts up to limit post bodies from the public posts page.
func (s *LinkedInScraper) ScrapePosts(ctx context.Context, profileID string, limit int) ([]model.Post, error) {
	url := fmt.Sprintf("%s/%s/posts/", s.baseURL, profileID)
	s.log.Info("scraping posts", zap.String("profile_id", profileID), zap.Int("limit", limit))

	body, err := s.fetch(ctx, url)
	if err != nil {
		return nil, &AcquisitionError{ProfileID: profileID, Kind: "posts", Err: err}
	}

	matches := postTextRe.FindAllStringSubmatch(string(body), limit)
	posts := make([]model.Post, 0, len(matches))
	for _, m := range matches {
		text, err := strconv.Unquote(`"` + m[1] + `"`)
		if err != nil {
			continue
		}
		posts = append(posts, model.Post{
			PostID:    uid.New(),
			ProfileID: profileID,
			Content:   text,
		})
	}

	s.log.Info("scraped posts", zap.String("profile_id", profileID), zap.Int("count", len(posts)))
	return posts, nil
}

// ScrapeFollowers extracts followers from the public page. The source only
// exposes these behind authentication, so this usually yields nothing.
func (s *LinkedInScraper) ScrapeFollowers(ctx context.Context, profileID string, limit int) ([]model.Follower, error) {
	url := fmt.Sprintf("%s/%s/", s.baseURL, profileID)
	s.log.Info("scraping followers", zap.String("profile_id", profileID), zap.Int("limit", limit))

	if _, err := s.fetch(ctx, url); err != nil {
		return nil, &AcquisitionError{ProfileID: profileID, Kind: "followers", Err: err}
	}

	return []model.Follower{}, nil
}

func parseMeta(page string) map[string]string {
	meta := make(map[string]string)
	for _, m := range metaRe.FindAllStringSubmatch(page, -1) {
		if _, ok := meta[m[1]]; !ok {
			meta[m[1]] = html.UnescapeString(m[2])
		}
	}
	return meta
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseFollowerCount converts rendered counts like "12,345", "1.2K" or
// "3M+" into an integer.
func parseFollowerCount(text string) int64 {
	text = strings.ToUpper(strings.TrimSpace(text))
	text = strings.ReplaceAll(text, ",", "")
	text = strings.TrimSuffix(text, "+")

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(text, "K"):
		multiplier = 1_000
		text = strings.TrimSuffix(text, "K")
	case strings.HasSuffix(text, "M"):
		multiplier = 1_000_000
		text = strings.TrimSuffix(text, "M")
	}

	val, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return int64(val * float64(multiplier))
}
