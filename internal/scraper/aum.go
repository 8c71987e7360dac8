// internal/scraper/aum.go
package scraper

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// The two anchors an AUM figure can hide behind. The captured group is the
// magnitude expression: optional currency symbol, digits with either
// separator convention, optional "+", optional T/B/M/K suffix (possibly
// spelled out), optional currency code.
var aumPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)AUM[:\s]*([€$£¥]?\s*[0-9][0-9.,]*\+?\s*(?:[TBMK](?:rillion|illion)?)?\s*(?:EUR|USD|GBP)?)`),
	regexp.MustCompile(`(?i)Assets\s*Under\s*Management[:\s]*([€$£¥]?\s*[0-9][0-9.,]*\+?\s*(?:[TBMK](?:rillion|illion)?)?\s*(?:EUR|USD|GBP)?)`),
}

var (
	currencyCodes  = regexp.MustCompile(`(?i)EUR|USD|GBP`)
	trillionSuffix = regexp.MustCompile(`(?i)t(?:rillion)?`)
	billionSuffix  = regexp.MustCompile(`(?i)b(?:illion)?`)
	millionSuffix  = regexp.MustCompile(`(?i)m(?:illion)?`)
	thousandSuffix = regexp.MustCompile(`(?i)k`)
)

// NormalizeAUM scans text for an assets-under-management figure and returns
// it as an integer count of the base currency unit, in decimal string form.
// It returns "" when no figure is found or the magnitude does not parse.
// The conversion is lossy on purpose: "€3,8B" and "$3.8 Billion" both come
// back as "3800000000".
func NormalizeAUM(text string) string {
	for _, pattern := range aumPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil || match[1] == "" {
			continue
		}
		if value := normalizeMagnitude(match[1]); value != "" {
			return value
		}
	}
	return ""
}

// normalizeMagnitude reduces one captured magnitude expression to an integer
// string, or "" if it cannot be parsed.
func normalizeMagnitude(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.ReplaceAll(value, "+", "")

	// Drop currency symbols and codes before sniffing for suffix letters, so
	// the B in "GBP" can never read as billions.
	value = strings.Map(func(r rune) rune {
		switch r {
		case '€', '$', '£', '¥':
			return -1
		}
		return r
	}, value)
	value = strings.TrimSpace(currencyCodes.ReplaceAllString(value, ""))

	multiplier := 1.0
	lower := strings.ToLower(value)
	switch {
	case strings.Contains(lower, "t"):
		multiplier = 1e12
		value = trillionSuffix.ReplaceAllString(value, "")
	case strings.Contains(lower, "b"):
		multiplier = 1e9
		value = billionSuffix.ReplaceAllString(value, "")
	case strings.Contains(lower, "m"):
		multiplier = 1e6
		value = millionSuffix.ReplaceAllString(value, "")
	case strings.Contains(lower, "k"):
		multiplier = 1e3
		value = thousandSuffix.ReplaceAllString(value, "")
	}
	value = strings.TrimSpace(value)

	value = normalizeSeparators(value)

	num, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatInt(int64(math.RoundToEven(num*multiplier)), 10)
}

// normalizeSeparators rewrites a locale-ambiguous number into US decimal
// notation. When both separators appear, whichever occurs later is the
// decimal mark. A lone comma is decimal when at most three characters
// follow it, a thousands mark otherwise.
func normalizeSeparators(value string) string {
	hasComma := strings.Contains(value, ",")
	hasPeriod := strings.Contains(value, ".")

	switch {
	case hasComma && hasPeriod:
		if strings.LastIndex(value, ",") > strings.LastIndex(value, ".") {
			// European grouping: 1.000.000,50
			value = strings.ReplaceAll(value, ".", "")
			value = strings.Replace(value, ",", ".", 1)
		} else {
			// US grouping: 1,000,000.50
			value = strings.ReplaceAll(value, ",", "")
		}
	case hasComma:
		parts := strings.Split(value, ",")
		if len(parts) == 2 && len(parts[1]) <= 3 {
			// European decimal: 3,8 or 100,5
			value = strings.Replace(value, ",", ".", 1)
		} else {
			value = strings.ReplaceAll(value, ",", "")
		}
	}
	return value
}
