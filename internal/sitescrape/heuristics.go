package sitescrape

import (
	"net/url"
	"regexp"
	"strings"
)

// Text heuristics for contact and identity extraction. Kept as standalone
// pure functions so their behavior is pinned by unit tests rather than
// embedded in fetch control flow.

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// North-American phone: optional +1, 3-3-4 with common separators.
	phoneRe = regexp.MustCompile(`(?:\+?1[\s.\-]?)?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}`)

	// Street number + name + street type, optionally followed by
	// city, state, and zip.
	addressRe = regexp.MustCompile(`\d{1,5}\s+[A-Za-z0-9'.\- ]+?\s(?:Street|St|Avenue|Ave|Boulevard|Blvd|Road|Rd|Drive|Dr|Lane|Ln|Way|Place|Pl|Court|Ct|Parkway|Pkwy)\b\.?(?:,?\s+[A-Za-z .'\-]+,?\s+[A-Z]{2}\s+\d{5}(?:-\d{4})?)?`)

	titleSuffixRe = regexp.MustCompile(`(?i)\s*[|\x{2013}\x{2014}-]\s*(home|homepage|welcome|official site|official website|restaurant|menu)\s*$`)
)

// ExtractEmail returns the first email address in the text, or "".
func ExtractEmail(text string) string {
	return emailRe.FindString(text)
}

// ExtractPhone returns the first North-American phone number in the text, or "".
func ExtractPhone(text string) string {
	return strings.TrimSpace(phoneRe.FindString(text))
}

// ExtractAddress returns the first street-address-looking string, or "".
func ExtractAddress(text string) string {
	return strings.TrimSpace(addressRe.FindString(text))
}

// CleanBusinessName strips common page-title suffixes such as "| Home" or
// "- Official Site" and trims whitespace.
func CleanBusinessName(title string) string {
	name := strings.TrimSpace(title)
	for {
		stripped := titleSuffixRe.ReplaceAllString(name, "")
		stripped = strings.TrimSpace(stripped)
		if stripped == name {
			return name
		}
		name = stripped
	}
}

// socialPlatforms maps known social hostname fragments to platform labels.
var socialPlatforms = map[string]string{
	"facebook.com":  "facebook",
	"instagram.com": "instagram",
	"twitter.com":   "twitter",
	"x.com":         "twitter",
	"tiktok.com":    "tiktok",
	"youtube.com":   "youtube",
	"linkedin.com":  "linkedin",
	"pinterest.com": "pinterest",
}

// SocialPlatform returns the platform label for a link whose host belongs to
// a known social network, or "" for any other host.
func SocialPlatform(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	for domain, platform := range socialPlatforms {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return platform
		}
	}
	return ""
}
