package tokenest

import (
	"sort"

	"github.com/standardbeagle/repomap-engine/internal/astparse"
	"github.com/standardbeagle/repomap-engine/internal/semantic"
)

// lineWeights implements spec §4.12's pattern-category weights.
var lineWeights = map[astparse.LineKind]float64{
	astparse.LineReturn:      0.9,
	astparse.LineThrow:       0.85,
	astparse.LineConditional: 0.8,
	astparse.LineCall:        0.7,
	astparse.LineLoop:        0.5,
	astparse.LineAssignment:  0.4,
	astparse.LineDocstring:   0.2,
}

// categoryBoost is added when a line's text matches a domain category
// present in the search intent, per §4.12.
const categoryBoost = 0.3

// ExtractorConfig configures CriticalLines.
type ExtractorConfig struct {
	Threshold float64 // default 0.5
	TopN      int     // default 3
}

// DefaultExtractorConfig returns spec §4.12's defaults.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{Threshold: 0.5, TopN: 3}
}

// CriticalLine is one emitted annotation for a symbol's body.
type CriticalLine struct {
	Line  int
	Text  string
	Score float64
}

// CriticalLines scores every classified line in relPath's body between
// [fromLine, toLine] (inclusive, 1-based; toLine<=0 means "to end of
// file"), boosts lines matching a domain category present in intent, and
// returns those above cfg.Threshold sorted by score desc, capped at
// cfg.TopN.
func CriticalLines(ex *astparse.Extractor, relPath string, content []byte, fromLine, toLine int, intent string, cfg ExtractorConfig) []CriticalLine {
	if cfg.Threshold <= 0 {
		cfg = DefaultExtractorConfig()
	}
	signals := ex.CriticalLines(relPath, content)
	if len(signals) == 0 {
		return nil
	}

	intentCategories := make(map[string]bool)
	for _, c := range semantic.Categories(intent, 5) {
		intentCategories[c] = true
	}

	var out []CriticalLine
	for _, sig := range signals {
		if sig.Line < fromLine {
			continue
		}
		if toLine > 0 && sig.Line > toLine {
			continue
		}
		score := lineWeights[sig.Kind]
		if score == 0 {
			continue
		}
		for _, c := range semantic.Categories(sig.Text, 3) {
			if intentCategories[c] {
				score += categoryBoost
				break
			}
		}
		if score > 1 {
			score = 1
		}
		if score < cfg.Threshold {
			continue
		}
		out = append(out, CriticalLine{Line: sig.Line, Text: sig.Text, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Line < out[j].Line
	})

	n := cfg.TopN
	if n <= 0 {
		n = 3
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}
