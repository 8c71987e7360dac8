// internal/scraper/extractor.go
package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/fundscope/lpcrawler/internal/config"
)

// boilerplateDisclaimer is the legal paragraph vestbee appends to fund
// descriptions; it is stripped before length checks so a page that only
// carries the disclaimer yields an empty description.
const boilerplateDisclaimer = "The material presented via this website is for informational purposes only. Nothing in this website constitutes a solicitation for the purchase or sale of any financial product or service. Material presented on this website does not constitute a public offering of securities or investment management services in any jurisdiction. Investing in startup and early stage companies involves risks, including loss of capital, illiquidity, lack of dividends and dilution, and it should be done only as part of a diversified portfolio. The Investments presented in this website are suitable only for investors who are sufficiently sophisticated to understand these risks and make their own investment decisions."

// boilerplateOpening is the opening phrase used for prefix truncation when
// the disclaimer appears with minor wording drift.
const boilerplateOpening = "The material presented via this website"

var (
	nameSelectors        = []string{"h1", ".fund-name", ".company-name", ".title", `[class*="name"]`}
	descriptionSelectors = []string{".description", ".about", ".overview", `[class*="description"]`, `[class*="about"]`}

	geographyLabels = []string{"Investment geography", "Geography", "Regions"}

	whitespaceRun  = regexp.MustCompile(`\s+`)
	portfolioAfter = regexp.MustCompile(`(?i)Portfolio[:\s]+([^;]*(?:;[^;]*)*)`)
)

// FieldExtractors runs the per-field heuristics against a rendered detail
// page. Every extractor is best-effort: a panic or a miss yields the empty
// string for that field and never disturbs the others.
type FieldExtractors struct {
	geographies []string
	keywords    []string
	noise       []string
}

// NewFieldExtractors builds extractors around the configured vocabulary
func NewFieldExtractors(cfg config.ExtractionConfig) *FieldExtractors {
	return &FieldExtractors{
		geographies: cfg.GeographyAllowlist,
		keywords:    cfg.PortfolioKeywords,
		noise:       cfg.PortfolioNoise,
	}
}

// Extract populates a record from the rendered page. The record starts empty
// with the detail URL pinned; each field is filled independently.
func (fe *FieldExtractors) Extract(doc *goquery.Document, url string) *FundRecord {
	rec := &FundRecord{FundURL: url}
	rec.FundName = safeExtract("name", func() string { return extractName(doc) })
	rec.Geographies = safeExtract("geographies", func() string { return fe.extractGeographies(doc) })
	rec.AUM = safeExtract("aum", func() string { return extractAUM(doc) })
	rec.LinkedInURL = safeExtract("linkedin", func() string { return extractLinkedIn(doc) })
	rec.Description = safeExtract("description", func() string { return extractDescription(doc) })
	rec.Portfolio = safeExtract("portfolio", func() string { return fe.extractPortfolio(doc) })
	return rec
}

// safeExtract converts a panicking extractor into an empty field so one bad
// heuristic cannot abort the whole record.
func safeExtract(field string, fn func() string) (value string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Str("field", field).Interface("panic", r).Msg("extractor fault, field left empty")
			value = ""
		}
	}()
	return fn()
}

// extractName tries the ranked name selectors and returns the first
// non-empty trimmed text.
func extractName(doc *goquery.Document) string {
	for _, selector := range nameSelectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// extractGeographies collects region tokens from labeled geography sections
// and from short standalone text nodes, matched exactly (case-insensitive)
// against the allow-list.
func (fe *FieldExtractors) extractGeographies(doc *goquery.Document) string {
	seen := make(map[string]struct{})
	var found []string
	add := func(geo string) {
		if _, ok := seen[geo]; !ok {
			seen[geo] = struct{}{}
			found = append(found, geo)
		}
	}

	isDelimiter := func(r rune) bool {
		return r == ',' || r == ';' || r == ':' || r == '/' || r == '\n'
	}

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())

		// Long prose blocks and anything URL-like are never geography labels.
		if len(text) > 200 || strings.Contains(text, "http") || strings.Contains(text, "www.") {
			return
		}

		labeled := false
		for _, label := range geographyLabels {
			if strings.Contains(text, label) {
				labeled = true
				break
			}
		}
		if !labeled {
			return
		}

		for _, part := range strings.FieldsFunc(text, isDelimiter) {
			cleaned := strings.TrimSpace(part)
			for _, geo := range fe.geographies {
				if strings.EqualFold(cleaned, geo) {
					add(geo)
				}
			}
		}
	})

	// Standalone mentions: short text-only nodes that are exactly one region.
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) > 50 || strings.Contains(text, "http") {
			return
		}
		for _, geo := range fe.geographies {
			if strings.EqualFold(text, geo) {
				add(geo)
			}
		}
	})

	var kept []string
	for _, geo := range found {
		if strings.Contains(geo, "/") || strings.Contains(geo, ".") || strings.Contains(geo, "Type") {
			continue
		}
		kept = append(kept, geo)
	}
	return strings.Join(kept, ", ")
}

// extractAUM scans element texts in document order for the first
// normalizable AUM figure.
func extractAUM(doc *goquery.Document) string {
	result := ""
	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if value := NormalizeAUM(s.Text()); value != "" {
			result = value
			return false
		}
		return true
	})
	return result
}

// extractLinkedIn finds a LinkedIn URL using a ranked strategy: explicit
// company/profile links, then links inside social or footer containers,
// then icon links labeled LinkedIn.
func extractLinkedIn(doc *goquery.Document) string {
	result := ""

	doc.Find(`a[href*="linkedin.com"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if strings.Contains(href, "linkedin.com/company/") || strings.Contains(href, "linkedin.com/in/") {
			result = href
			return false
		}
		return true
	})
	if result != "" {
		return result
	}

	doc.Find(`[class*="social"] a, [class*="Social"] a, footer a`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if strings.Contains(href, "linkedin.com") {
			result = href
			return false
		}
		return true
	})
	if result != "" {
		return result
	}

	doc.Find(`a[aria-label*="LinkedIn"], a[title*="LinkedIn"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if href != "" {
			result = href
			return false
		}
		return true
	})
	return result
}

// extractDescription tries the ranked description selectors, stripping the
// boilerplate disclaimer, and falls back to concatenating long paragraphs.
func extractDescription(doc *goquery.Document) string {
	for _, selector := range descriptionSelectors {
		sel := doc.Find(selector).First()
		raw := sel.Text()
		if len(raw) <= 50 {
			continue
		}
		text := collapseWhitespace(strings.TrimSpace(raw))
		text = strings.TrimSpace(strings.ReplaceAll(text, boilerplateDisclaimer, ""))
		if idx := strings.Index(text, boilerplateOpening); idx >= 0 {
			text = strings.TrimSpace(text[:idx])
		}
		if len(text) > 20 {
			return text
		}
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if len(text) > 100 && !strings.Contains(text, boilerplateOpening) {
			paragraphs = append(paragraphs, strings.TrimSpace(text))
		}
	})
	if len(paragraphs) == 0 {
		return ""
	}

	joined := strings.Join(paragraphs, " ")
	if runes := []rune(joined); len(runes) > 1000 {
		joined = string(runes[:1000])
	}
	joined = collapseWhitespace(joined)
	if idx := strings.Index(joined, boilerplateOpening); idx >= 0 {
		joined = strings.TrimSpace(joined[:idx])
	}
	return joined
}

// extractPortfolio unions two sources: comma/semicolon lists captured after
// the word "Portfolio", and list/link/span items under a portfolio heading.
// Candidates must carry a company-type keyword and survive the noise filter.
func (fe *FieldExtractors) extractPortfolio(doc *goquery.Document) string {
	seen := make(map[string]struct{})
	var companies []string
	add := func(name string) {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			companies = append(companies, name)
		}
	}

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if !strings.Contains(text, "Portfolio") || strings.Contains(text, "portfolio management") {
			return
		}
		match := portfolioAfter.FindStringSubmatch(text)
		if match == nil {
			return
		}
		for _, segment := range strings.FieldsFunc(match[1], func(r rune) bool { return r == ',' || r == ';' }) {
			candidate := strings.TrimSpace(segment)
			if len(candidate) > 2 && len(candidate) < 100 && !fe.isNoise(candidate) && fe.hasKeyword(candidate) {
				add(candidate)
			}
		}
	})

	// A "Portfolio" heading followed by item lists is the structured variant.
	heading := doc.Find("h2, h3, h4").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(s.Text()), "portfolio")
	}).First()
	if heading.Length() > 0 {
		heading.NextAll().EachWithBreak(func(i int, sibling *goquery.Selection) bool {
			if i >= 5 {
				return false
			}
			sibling.Find("li, a, span").Each(func(_ int, item *goquery.Selection) {
				text := strings.TrimSpace(item.Text())
				if len(text) > 2 && len(text) < 100 && fe.hasKeyword(text) {
					add(text)
				}
			})
			return true
		})
	}

	var kept []string
	for _, company := range companies {
		if !fe.isNoise(company) {
			kept = append(kept, company)
		}
	}
	return strings.Join(kept, "; ")
}

func (fe *FieldExtractors) hasKeyword(text string) bool {
	for _, keyword := range fe.keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func (fe *FieldExtractors) isNoise(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range fe.noise {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func collapseWhitespace(text string) string {
	return whitespaceRun.ReplaceAllString(text, " ")
}
