// Package sentiment scores review text with a lexical polarity model.
package sentiment

import (
	"strings"

	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"

	"github.com/tablescout/profiler-cli/internal/model"
)

// Score returns the compound polarity of the text in [-1, 1]. Empty or
// whitespace-only text scores 0.
func Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	parsed := sentitext.Parse(text, lexicon.DefaultLexicon)
	return model.ClampSentiment(sentitext.PolarityScore(parsed).Compound)
}

// Average scores each text and returns the mean polarity. Texts that are
// empty are skipped entirely, not counted as zero; when every text is empty
// the average is 0.
func Average(texts []string) float64 {
	var sum float64
	var n int
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		sum += Score(t)
		n++
	}
	if n == 0 {
		return 0
	}
	return model.ClampSentiment(sum / float64(n))
}
