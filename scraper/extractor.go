package scraper

import (
	"github.com/PuerkitoBio/goquery"
)

// genericSelectors is the fixed cascade tried when no custom selector yields a
// price. Order matters: specific, structured markup comes before loose
// class-name matches so ratings and review counts don't win over the price.
var genericSelectors = []string{
	// Amazon
	"#priceblock_dealprice", "#priceblock_ourprice", "#priceblock_saleprice",
	".a-price .a-offscreen", ".a-price-whole", "[data-asin-price]",
	"span.a-price-whole", "span#priceblock_dealprice",

	// Flipkart
	"._30jeq3", "._16Jk6d", ".dyC4hf", "[class*='_30jeq3']",
	"div._30jeq3", "span._30jeq3",

	// Structured/machine-readable markup
	"[data-price]", "[itemprop='price']",

	// Generic price-labeled elements
	".price", "#price", ".product-price", ".current-price",
	".price-current", ".price-now", ".final-price",
	"[class*='selling-price']", "[class*='offer-price']",
	"span.price", "div.price", "p.price",
	"[data-testid*='price']", "[data-testid*='Price']",
	"[class*='price']", "span[class*='Price']", "div[class*='price']",
	"[id*='price']", "[id*='Price']",
}

// priceAttributes are tried on a matched element before its text content;
// attribute values carry the bare number more often than the rendered text.
var priceAttributes = []string{"content", "data-price"}

// ExtractPrice runs the selector cascade over a fetched document and returns
// the first plausible price. A non-empty custom selector is authoritative
// when it matches and parses; otherwise the generic cascade, a metadata tag
// and finally the whole document text are tried in order. Returns false when
// every stage comes up empty.
func ExtractPrice(doc *goquery.Document, customSelector string) (float64, bool) {
	if customSelector != "" {
		// goquery returns an empty selection for a selector it cannot
		// compile, so a broken custom selector just falls through.
		if sel := doc.Find(customSelector).First(); sel.Length() > 0 {
			if price, ok := ParsePrice(sel.Text()); ok && price > 0 {
				return price, true
			}
		}
	}

	for _, selector := range genericSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}

		text := ""
		for _, attr := range priceAttributes {
			if v := sel.AttrOr(attr, ""); v != "" {
				text = v
				break
			}
		}
		if text == "" {
			text = sel.Text()
		}
		if text == "" {
			continue
		}

		if price, ok := ParsePrice(text); ok && price > 0 {
			return price, true
		}
	}

	// Metadata fallback.
	if meta := doc.Find("meta[property='product:price:amount']").First(); meta.Length() > 0 {
		if price, ok := ParsePrice(meta.AttrOr("content", "")); ok && price > 0 {
			return price, true
		}
	}

	// Last resort: scan the visible text of the whole document.
	if price, ok := ParsePrice(doc.Find("body").Text()); ok && price > 0 {
		return price, true
	}

	return 0, false
}
