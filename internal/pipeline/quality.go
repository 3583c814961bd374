package pipeline

import "github.com/tablescout/profiler-cli/internal/model"

// QualityScore is the fraction of tracked profile fields that ended up
// populated, in [0, 1]. Recomputed from the assembled profile, never stored
// incrementally.
func QualityScore(p *model.BusinessProfile) float64 {
	if p == nil {
		return 0
	}

	checks := []bool{
		p.Name != "",
		p.URL != "",
		p.Address != "",
		p.Coordinate != nil,
		p.Contact.Email != "",
		p.Contact.Phone != "",
		len(p.SocialLinks) > 0,
		len(p.MenuItems) > 0,
		len(p.Competitors) > 0,
		p.Reviews.Rating > 0,
		p.Reviews.TotalReviews > 0,
		len(p.Reviews.Reviews) > 0,
		len(p.Reviews.OpeningHours) > 0,
		p.Metadata.Analysis != nil,
	}

	populated := 0
	for _, ok := range checks {
		if ok {
			populated++
		}
	}
	return float64(populated) / float64(len(checks))
}
