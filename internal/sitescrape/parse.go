package sitescrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tablescout/profiler-cli/internal/model"
	"github.com/tablescout/profiler-cli/internal/resilience"
)

// orderingKeywords mark links or text that indicate online ordering.
var orderingKeywords = []string{
	"order online", "order now", "start order", "online ordering",
	"toasttab.com", "chownow.com", "square.site", "doordash.com",
	"ubereats.com", "grubhub.com", "seamless.com", "slicelife.com",
}

// ParseSite extracts a best-effort SiteRecord from raw HTML. It never
// returns a partially useful record together with an error: parse failures
// are typed, everything else is filled on a best-effort basis.
func ParseSite(pageURL, rawHTML string) (*model.SiteRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, resilience.Parse("sitescrape: parse "+pageURL, err)
	}

	rec := &model.SiteRecord{URL: pageURL}

	rec.SEOTitle = strings.TrimSpace(doc.Find("title").First().Text())
	rec.MetaDescription = metaContent(doc, `meta[name="description"]`)
	rec.Name = extractName(doc, rec.SEOTitle)

	text := doc.Find("body").Text()
	rec.Email = ExtractEmail(text)
	rec.Phone = ExtractPhone(text)
	rec.Address = ExtractAddress(text)

	rec.SocialLinks = extractSocialLinks(doc)
	rec.MenuItems = extractMenuItems(doc)

	lower := strings.ToLower(rawHTML)
	rec.HasOnlineMenu = len(rec.MenuItems) > 0 || hasMenuLink(doc)
	rec.HasOrdering = containsAny(lower, orderingKeywords)
	rec.HasEmailCapture = doc.Find(`input[type="email"]`).Length() > 0 ||
		strings.Contains(lower, "newsletter") || strings.Contains(lower, "subscribe")

	return rec, nil
}

// extractName picks the business name: first <h1>, then the cleaned page
// title, then social metadata (og:site_name, og:title).
func extractName(doc *goquery.Document, title string) string {
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return CleanBusinessName(h1)
	}
	if cleaned := CleanBusinessName(title); cleaned != "" {
		return cleaned
	}
	if siteName := metaContent(doc, `meta[property="og:site_name"]`); siteName != "" {
		return CleanBusinessName(siteName)
	}
	return CleanBusinessName(metaContent(doc, `meta[property="og:title"]`))
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

func extractSocialLinks(doc *goquery.Document) map[string]string {
	links := make(map[string]string)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if platform := SocialPlatform(href); platform != "" {
			if _, seen := links[platform]; !seen {
				links[platform] = href
			}
		}
	})
	if len(links) == 0 {
		return nil
	}
	return links
}

func hasMenuLink(doc *goquery.Document) bool {
	found := false
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		if strings.Contains(strings.ToLower(href), "menu") || strings.Contains(text, "menu") {
			found = true
			return false
		}
		return true
	})
	return found
}

// extractMenuItems pulls menu entries from common menu-item markup. Items
// without a name are dropped.
func extractMenuItems(doc *goquery.Document) []model.MenuItem {
	var items []model.MenuItem
	doc.Find(`[class*="menu-item"], [itemtype*="MenuItem"]`).Each(func(_ int, sel *goquery.Selection) {
		name := firstText(sel, `[class*="name"], [class*="title"], h3, h4`)
		if name == "" {
			return
		}
		item := model.NewMenuItem(
			name,
			firstText(sel, `[class*="description"], p`),
			firstText(sel, `[class*="price"]`),
			firstText(sel.Closest(`[class*="menu-section"], [class*="menu-category"]`), "h2, h3"),
		)
		items = append(items, item)
	})
	return items
}

func firstText(sel *goquery.Selection, selector string) string {
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
