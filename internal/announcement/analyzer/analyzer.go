// Package analyzer extracts coin tickers from listing announcement titles.
package analyzer

import "strings"

// Tickers returns the symbols written in parentheses in the title, e.g. "(GNO)",
// in title order and without duplicates.
func Tickers(title string) []string {
	tickers := make([]string, 0)
	for _, word := range strings.Fields(title) {
		ticker, isOkay := parenthesized(word)
		if !isOkay || contains(tickers, ticker) {
			continue
		}
		tickers = append(tickers, ticker)
	}

	return tickers
}

func parenthesized(word string) (string, bool) {
	word = strings.TrimRight(word, ",.;:!")
	if !strings.HasPrefix(word, "(") || !strings.HasSuffix(word, ")") {
		return "", false
	}

	inner := word[1 : len(word)-1]
	if inner == "" || strings.ToUpper(inner) != inner {
		return "", false
	}
	return inner, true
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
