// Package digital assesses a business's online maturity from its scraped
// website. Pure functions only: no I/O, no side effects.
package digital

import "github.com/tablescout/profiler-cli/internal/model"

// Quality tiers for the website assessment.
const (
	QualityBasic = "basic"
	QualityHigh  = "high"
)

// Maturity tiers for the overall digital assessment.
const (
	MaturityDeveloping = "developing"
	MaturityAdvanced   = "advanced"
)

// Analyze maps a scraped-site record to a digital-strategy assessment.
// A nil record yields the empty assessment.
func Analyze(rec *model.SiteRecord) model.DigitalStrategy {
	if rec == nil {
		return model.DigitalStrategy{}
	}

	ds := model.DigitalStrategy{
		HasEmailCapture:   rec.HasEmailCapture,
		SocialLinkCount:   len(rec.SocialLinks),
		HasOnlineMenu:     rec.HasOnlineMenu,
		HasOnlineOrdering: rec.HasOrdering,
	}

	ds.WebsiteQuality = QualityBasic
	if rec.SEOTitle != "" && rec.MetaDescription != "" {
		ds.WebsiteQuality = QualityHigh
	}

	ds.DigitalMaturity = MaturityDeveloping
	if ds.HasOnlineOrdering && ds.HasEmailCapture && ds.SocialLinkCount > 2 {
		ds.DigitalMaturity = MaturityAdvanced
	}

	return ds
}
