package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// Plausible price band. Values outside it are discarded by the generic scan:
// tiny numbers are usually quantities or ratings, huge ones are ids or views.
const (
	minPlausiblePrice = 10
	maxPlausiblePrice = 100_000_000
)

var (
	// A number directly anchored to an explicit currency marker. This match
	// is trusted over the generic scan because the marker disambiguates it.
	currencyAnchoredPattern = regexp.MustCompile(`(?i)(?:₹|Rs\.?|INR|USD|EUR|GBP|\$|€|£)\s*(\d[\d.,\s]*\d|\d)`)

	// Any numeric substring, possibly with thousands separators and a
	// decimal part in either convention.
	numberPattern = regexp.MustCompile(`\d[\d.,]*\d|\d`)

	nonNumeric = regexp.MustCompile(`[^\d.,]`)
)

// ParsePrice recovers a single positive price from noisy text: currency
// markers, thousands separators and unrelated prose are all tolerated. It
// returns false when no plausible price is present; it never errors.
func ParsePrice(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}

	// Currency-anchored match first.
	if match := currencyAnchoredPattern.FindStringSubmatch(text); match != nil {
		if price, err := strconv.ParseFloat(normalizeNumber(match[1]), 64); err == nil && price > 0 {
			return price, true
		}
	}

	// Generic scan: collect every numeric substring and keep the largest
	// plausible one. The real price is usually the most prominent number in
	// a price-labeled fragment; smaller ones tend to be discounts, ratings
	// or quantities.
	cleaned := nonNumeric.ReplaceAllString(text, " ")

	var best float64
	found := false
	for _, candidate := range numberPattern.FindAllString(cleaned, -1) {
		price, err := strconv.ParseFloat(normalizeNumber(candidate), 64)
		if err != nil {
			continue
		}
		if price < minPlausiblePrice || price > maxPlausiblePrice {
			continue
		}
		if !found || price > best {
			best = price
			found = true
		}
	}

	return best, found
}

// normalizeNumber converts a locale-formatted number to standard decimal
// notation: "1,234.56" and "1.234,56" both become "1234.56".
func normalizeNumber(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Both separators present: the rightmost one is the decimal point.
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		// A single comma followed by exactly two digits is a decimal comma;
		// anything else groups thousands.
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 == 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		// Dots grouping thousands ("1.234.567") vs a decimal point.
		if strings.Count(s, ".") > 1 || len(s)-lastDot-1 == 3 && len(s) > 4 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	return s
}
