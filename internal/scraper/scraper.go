package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/posipaka-trade/listingsms/internal/announcement"
	"github.com/posipaka-trade/listingsms/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// ErrBadStatus is returned when the announcements page answers with a non-2xx status.
var ErrBadStatus = errors.New("unexpected status code")

// Config holds what the scraper needs to reach and read the announcements page.
type Config struct {
	PageUrl   string
	UserAgent string
	Timeout   time.Duration
	Rule      announcement.Rule
}

type ScrapHandler struct {
	config Config
	client *http.Client
	logger *zap.Logger
}

func New(config Config, logger *zap.Logger) *ScrapHandler {
	defer logger.Info("[scraper] -> New scraper instance created.",
		zap.String("url", config.PageUrl), zap.String("rule", config.Rule.Version))

	return &ScrapHandler{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// Fetch downloads the announcements page and returns the listing announcements
// found on it, deduplicated by link and sorted by date.
func (handler *ScrapHandler) Fetch(ctx context.Context) ([]announcement.Announcement, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, handler.config.PageUrl, nil)
	if err != nil {
		return nil, fmt.Errorf("[scraper] build request: %w", err)
	}
	request.Header.Set("User-Agent", handler.config.UserAgent)

	response, err := handler.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("[scraper] get %s: %w", handler.config.PageUrl, err)
	}
	defer handler.closeBody(response)

	if response.StatusCode/100 != 2 {
		return nil, fmt.Errorf("[scraper] get %s: %w: %s", handler.config.PageUrl, ErrBadStatus, response.Status)
	}

	body, err := charset.NewReader(response.Body, response.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("[scraper] decode body: %w", err)
	}

	page, err := parseHtml(body, handler.config.Rule)
	if err != nil {
		return nil, err
	}

	if page.links != 0 && len(page.announcements) == 0 {
		handler.logger.Warn("[scraper] -> No link matched the announcement rule, page markup may have changed.",
			zap.String("rule", handler.config.Rule.Version), zap.Int("links", page.links))
		metrics.RecordRuleMiss(handler.config.Rule.Version)
	}

	handler.logger.Debug("[scraper] -> Page parsed.",
		zap.Int("links", page.links), zap.Int("matched", page.matched),
		zap.Int("announcements", len(page.announcements)))
	return page.announcements, nil
}

func (handler *ScrapHandler) closeBody(response *http.Response) {
	if err := response.Body.Close(); err != nil {
		handler.logger.Warn("[scraper] -> Response body close failed.", zap.Error(err))
	}
}
