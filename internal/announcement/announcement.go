package announcement

import (
	"strings"
	"time"

	"github.com/posipaka-trade/listingsms/internal/announcement/analyzer"
)

// UnknownDate is stored in DateStr when no date element was found next to the link.
const UnknownDate = "unknown"

// Announcement is one listing entry parsed from the announcements page.
// Link is the only field that outlives a fetch cycle.
type Announcement struct {
	Title   string
	Link    string
	DateStr string
	Date    time.Time
}

// Dated reports whether DateStr was parsed successfully.
func (a Announcement) Dated() bool {
	return !a.Date.IsZero()
}

// Before orders dated announcements ascending and undated ones last.
func (a Announcement) Before(other Announcement) bool {
	switch {
	case a.Dated() && other.Dated():
		return a.Date.Before(other.Date)
	case a.Dated():
		return true
	default:
		return false
	}
}

// FormatMessage builds the SMS text sent for a new announcement.
func FormatMessage(a Announcement) string {
	var b strings.Builder
	b.WriteString("📌 Nouvelle annonce Binance\n")
	b.WriteString("📅 Date : " + a.DateStr + "\n")
	b.WriteString("💠 Titre : " + a.Title + "\n")
	b.WriteString("🔗 Lien : " + a.Link)

	if tickers := analyzer.Tickers(a.Title); len(tickers) != 0 {
		b.WriteString("\n🪙 Tokens : " + strings.Join(tickers, ", "))
	}
	return b.String()
}
