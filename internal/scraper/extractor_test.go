// internal/scraper/extractor_test.go
package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundscope/lpcrawler/internal/config"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func defaultExtractors() *FieldExtractors {
	return NewFieldExtractors(config.Default().Extraction)
}

func TestExtractNameRankedSelectors(t *testing.T) {
	doc := parseHTML(t, `<html><body><h1> Alpha Ventures Fund </h1><div class="fund-name">Wrong</div></body></html>`)
	assert.Equal(t, "Alpha Ventures Fund", extractName(doc))

	doc = parseHTML(t, `<html><body><div class="company-name">Beta Capital</div></body></html>`)
	assert.Equal(t, "Beta Capital", extractName(doc))

	doc = parseHTML(t, `<html><body><p>nothing here</p></body></html>`)
	assert.Equal(t, "", extractName(doc))
}

func TestExtractGeographiesFromLabeledSection(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<span>Investment geography: Europe, DACH / Nordics</span>
		<span>Poland</span>
		<span>Type: Growth/Buyout</span>
	</body></html>`)

	assert.Equal(t, "Europe, DACH, Nordics, Poland", defaultExtractors().extractGeographies(doc))
}

func TestExtractGeographiesIgnoresLongAndURLText(t *testing.T) {
	long := strings.Repeat("Europe is a big market for growth equity. ", 10)
	doc := parseHTML(t, `<html><body>
		<p>Geography: `+long+`</p>
		<span>Regions listed at http://example.com: Europe</span>
	</body></html>`)

	assert.Equal(t, "", defaultExtractors().extractGeographies(doc))
}

func TestExtractLinkedInRankedStrategy(t *testing.T) {
	// A company link wins outright.
	doc := parseHTML(t, `<html><body>
		<footer><a href="https://www.linkedin.com/school/somewhere">social</a></footer>
		<a href="https://www.linkedin.com/company/alpha-ventures">LinkedIn</a>
	</body></html>`)
	assert.Equal(t, "https://www.linkedin.com/company/alpha-ventures", extractLinkedIn(doc))

	// Otherwise any LinkedIn link inside a social/footer container.
	doc = parseHTML(t, `<html><body>
		<footer><a href="https://www.linkedin.com/school/somewhere">social</a></footer>
	</body></html>`)
	assert.Equal(t, "https://www.linkedin.com/school/somewhere", extractLinkedIn(doc))

	// Otherwise an icon link labeled LinkedIn.
	doc = parseHTML(t, `<html><body>
		<a aria-label="LinkedIn profile" href="https://lnkd.in/abc"></a>
	</body></html>`)
	assert.Equal(t, "https://lnkd.in/abc", extractLinkedIn(doc))

	doc = parseHTML(t, `<html><body><a href="https://twitter.com/x">x</a></body></html>`)
	assert.Equal(t, "", extractLinkedIn(doc))
}

func TestExtractDescriptionStripsBoilerplate(t *testing.T) {
	body := "Alpha Ventures backs early stage infrastructure companies across Europe and the Nordics."
	doc := parseHTML(t, `<html><body>
		<div class="description">`+body+` `+boilerplateDisclaimer+`</div>
	</body></html>`)

	assert.Equal(t, body, extractDescription(doc))
}

func TestExtractDescriptionPrefixTruncation(t *testing.T) {
	body := "Beta Capital is a growth investor focused on climate technology."
	// Drifted disclaimer wording: only the opening phrase matches.
	doc := parseHTML(t, `<html><body>
		<div class="about">`+body+` The material presented via this website is provided as-is.</div>
	</body></html>`)

	assert.Equal(t, body, extractDescription(doc))
}

func TestExtractDescriptionParagraphFallback(t *testing.T) {
	para := strings.Repeat("Gamma Partners invests across the DACH region. ", 4)
	doc := parseHTML(t, `<html><body>
		<p>short</p>
		<p>`+para+`</p>
		<p>`+boilerplateOpening+` and should be skipped entirely even though it is long enough to qualify.</p>
	</body></html>`)

	got := extractDescription(doc)
	assert.Equal(t, collapseWhitespace(strings.TrimSpace(para)), got)
	assert.NotContains(t, got, boilerplateOpening)
}

func TestExtractDescriptionTruncatesLongFallback(t *testing.T) {
	para := strings.Repeat("Delta Fund writes first checks into developer tooling companies. ", 30)
	doc := parseHTML(t, `<html><body><p>`+para+`</p></body></html>`)

	got := extractDescription(doc)
	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len([]rune(got)), 1000)
}

func TestExtractPortfolioFromInlineList(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<div>Portfolio: Alpha Ventures, Beta Capital, cookies Capital, Gamma Industrial</div>
	</body></html>`)

	// "cookies Capital" is noise, "Gamma Industrial" lacks a company keyword.
	assert.Equal(t, "Alpha Ventures; Beta Capital", defaultExtractors().extractPortfolio(doc))
}

func TestExtractPortfolioSkipsPortfolioManagement(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<div>Our portfolio management team oversees Zeta Capital</div>
	</body></html>`)

	assert.Equal(t, "", defaultExtractors().extractPortfolio(doc))
}

func TestExtractPortfolioFromHeadingSiblings(t *testing.T) {
	// Lowercase heading keeps the inline (capital-P) pass out of the way so
	// only the sibling scan can find the items.
	doc := parseHTML(t, `<html><body>
		<h3>portfolio</h3>
		<ul><li>Gamma Fund</li><li>Delta Labs</li><li>Plain Company</li></ul>
	</body></html>`)

	assert.Equal(t, "Gamma Fund; Delta Labs", defaultExtractors().extractPortfolio(doc))
}

func TestExtractRecordFieldsAreIndependent(t *testing.T) {
	doc := parseHTML(t, `<html><body>
		<h1>Alpha Ventures Fund</h1>
		<span>AUM: €1.5B</span>
	</body></html>`)

	rec := defaultExtractors().Extract(doc, "https://www.vestbee.com/lp/alpha")

	assert.Equal(t, "https://www.vestbee.com/lp/alpha", rec.FundURL)
	assert.Equal(t, "Alpha Ventures Fund", rec.FundName)
	assert.Equal(t, "1500000000", rec.AUM)
	assert.Equal(t, "", rec.LinkedInURL)
	assert.Equal(t, "", rec.Geographies)
	assert.Equal(t, "", rec.Description)
	assert.Equal(t, "", rec.Portfolio)
}

func TestSafeExtractRecoversPanics(t *testing.T) {
	value := safeExtract("boom", func() string {
		panic("selector exploded")
	})
	assert.Equal(t, "", value)
}

func TestExtractGeographiesInjectableAllowlist(t *testing.T) {
	fe := NewFieldExtractors(config.ExtractionConfig{
		GeographyAllowlist: []string{"Atlantis"},
		PortfolioKeywords:  config.DefaultPortfolioKeywords,
		PortfolioNoise:     config.DefaultPortfolioNoise,
	})
	doc := parseHTML(t, `<html><body>
		<span>Geography: Atlantis, Europe</span>
	</body></html>`)

	assert.Equal(t, "Atlantis", fe.extractGeographies(doc))
}
