package scraper

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/posipaka-trade/listingsms/internal/announcement"
)

type parsedPage struct {
	announcements []announcement.Announcement
	// links is the number of anchors on the page, matched the number accepted by the rule.
	links, matched int
}

func parseHtml(body io.Reader, rule announcement.Rule) (parsedPage, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return parsedPage{}, fmt.Errorf("[scraper] parse html: %w", err)
	}

	page := parsedPage{announcements: make([]announcement.Announcement, 0)}
	positions := make(map[string]int)

	anchors := doc.Find("a")
	page.links = anchors.Length()
	anchors.Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		title := strings.TrimSpace(anchor.Text())
		if !rule.Match(href, title) {
			return
		}
		page.matched++

		item := announcement.Announcement{
			Title:   title,
			Link:    rule.AbsoluteLink(href),
			DateStr: announcement.UnknownDate,
		}
		if dateElement := anchor.NextAllFiltered(rule.DateSelector).First(); dateElement.Length() != 0 {
			item.DateStr = strings.TrimSpace(dateElement.Text())
			if date, err := time.Parse(rule.DateLayout, item.DateStr); err == nil {
				item.Date = date
			}
		}

		// last occurrence wins, first occurrence keeps its position
		if idx, isOkay := positions[item.Link]; isOkay {
			page.announcements[idx] = item
			return
		}
		positions[item.Link] = len(page.announcements)
		page.announcements = append(page.announcements, item)
	})

	sort.SliceStable(page.announcements, func(i, j int) bool {
		return page.announcements[i].Before(page.announcements[j])
	})
	return page, nil
}
