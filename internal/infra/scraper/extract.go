package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"model-tracker/internal/domain/entity"
)

// MaxComparisons caps the comparisons mined from search results.
const MaxComparisons = 5

var benchmarkPatterns = []struct {
	key   string
	regex *regexp.Regexp
}{
	{"mmlu", regexp.MustCompile(`(?i)\bmmlu[:\s]+(\d+\.?\d*)`)},
	{"humaneval", regexp.MustCompile(`(?i)\bhuman\s?eval[:\s]+(\d+\.?\d*)`)},
	{"gpqa", regexp.MustCompile(`(?i)\bgpqa[:\s]+(\d+\.?\d*)`)},
	{"math", regexp.MustCompile(`(?i)\bmath[:\s]+(\d+\.?\d*)`)},
	{"hellaswag", regexp.MustCompile(`(?i)\bhellaswag[:\s]+(\d+\.?\d*)`)},
	{"arc", regexp.MustCompile(`(?i)\barc[:\s]+(\d+\.?\d*)`)},
	{"winogrande", regexp.MustCompile(`(?i)\bwinogrande[:\s]+(\d+\.?\d*)`)},
	{"truthfulqa", regexp.MustCompile(`(?i)\btruthfulqa[:\s]+(\d+\.?\d*)`)},
}

// Competitors searched for in comparison sentences.
var Competitors = []string{"GPT-4", "GPT-4o", "Claude", "Gemini", "Llama", "Mistral"}

// ExtractBenchmarks reads "<benchmark>: <score>" mentions from search
// results. The first match of each benchmark wins.
func ExtractBenchmarks(results []SearchResult) entity.Benchmarks {
	out := entity.Benchmarks{}
	for _, r := range results {
		for _, p := range benchmarkPatterns {
			if _, seen := out[p.key]; seen {
				continue
			}
			m := p.regex.FindStringSubmatch(r.Content)
			if m == nil {
				continue
			}
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				out[p.key] = v
			}
		}
	}
	return out
}

// ExtractComparisons finds sentences naming both modelName and a known
// competitor, at most MaxComparisons. Competitors contained in the model's
// own name are skipped.
func ExtractComparisons(results []SearchResult, modelName string) []entity.Comparison {
	out := []entity.Comparison{}
	name := strings.TrimSpace(modelName)
	if name == "" {
		return out
	}
	quotedName := regexp.QuoteMeta(name)
	lowerName := strings.ToLower(name)
	seen := map[string]bool{}

	for _, r := range results {
		lowerContent := strings.ToLower(r.Content)
		for _, competitor := range Competitors {
			lowerComp := strings.ToLower(competitor)
			if strings.Contains(lowerName, lowerComp) || !strings.Contains(lowerContent, lowerComp) {
				continue
			}
			qc := regexp.QuoteMeta(competitor)
			re := regexp.MustCompile(`(?i)[^.]*` + qc + `[^.]*` + quotedName + `[^.]*\.|[^.]*` + quotedName + `[^.]*` + qc + `[^.]*\.`)
			match := strings.TrimSpace(re.FindString(r.Content))
			if match == "" || seen[competitor+"|"+match] {
				continue
			}
			seen[competitor+"|"+match] = true
			out = append(out, entity.Comparison{Model: competitor, Comparison: match})
			if len(out) == MaxComparisons {
				return out
			}
		}
	}
	return out
}
