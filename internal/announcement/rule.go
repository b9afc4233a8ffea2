package announcement

import (
	"errors"
	"strings"
)

// Rule describes how listing announcements are recognised on the page.
// Bump Version whenever the matchers change so log lines about markup drift
// point at the rule that stopped matching.
type Rule struct {
	Version       string
	Origin        string
	LinkContains  string
	TitleContains string
	DateSelector  string
	DateLayout    string
}

// DefaultRule matches the french new-cryptocurrency-listing page.
var DefaultRule = Rule{
	Version:       "fr-2024.1",
	Origin:        "https://www.binance.com",
	LinkContains:  "support/announcement",
	TitleContains: "Binance listera",
	DateSelector:  "div",
	DateLayout:    "2006-01-02",
}

// Validate checks that every matcher of the rule is set.
func (r Rule) Validate() error {
	switch {
	case r.Version == "":
		return errors.New("[rule] version is empty")
	case r.Origin == "":
		return errors.New("[rule] origin is empty")
	case r.LinkContains == "":
		return errors.New("[rule] link matcher is empty")
	case r.TitleContains == "":
		return errors.New("[rule] title matcher is empty")
	case r.DateSelector == "":
		return errors.New("[rule] date selector is empty")
	case r.DateLayout == "":
		return errors.New("[rule] date layout is empty")
	}
	return nil
}

// Match reports whether a link with the given href and visible text is a listing announcement.
func (r Rule) Match(href, text string) bool {
	return href != "" &&
		strings.Contains(href, r.LinkContains) &&
		strings.Contains(text, r.TitleContains)
}

// AbsoluteLink prefixes relative hrefs with the rule origin.
func (r Rule) AbsoluteLink(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimSuffix(r.Origin, "/") + "/" + strings.TrimPrefix(href, "/")
}
