package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"model-tracker/internal/domain/entity"
)

// extractArray returns the text from the first '[' to the last ']'.
// Models often wrap JSON in prose or code fences; the greedy span is what
// gets decoded.
func extractArray(s string) (string, bool) {
	return extractSpan(s, '[', ']')
}

// extractObject returns the text from the first '{' to the last '}'.
func extractObject(s string) (string, bool) {
	return extractSpan(s, '{', '}')
}

func extractSpan(s string, open, closing byte) (string, bool) {
	i := strings.IndexByte(s, open)
	j := strings.LastIndexByte(s, closing)
	if i < 0 || j < i {
		return "", false
	}
	return s[i : j+1], true
}

// decodeArray extracts and decodes a JSON array of T. A response without an
// array yields an empty slice.
func decodeArray[T any](content string) ([]T, error) {
	raw, ok := extractArray(content)
	if !ok {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode JSON array: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// decodeObject extracts and decodes a JSON object into T.
func decodeObject[T any](content string) (*T, error) {
	raw, ok := extractObject(content)
	if !ok {
		return nil, ErrNoJSON
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode JSON object: %w", err)
	}
	return &out, nil
}

var leadingNumber = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// flexFloat accepts 88.7, "88.7", "88.7%" or "$2.50 / 1M tokens".
// Anything else decodes as invalid instead of failing the whole object.
type flexFloat struct {
	value float64
	valid bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := unquoteLoose(b)
	if s == "" {
		return nil
	}
	m := leadingNumber.FindString(strings.ReplaceAll(s, ",", ""))
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	f.value, f.valid = v, true
	return nil
}

var sizedNumber = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(k|m|million|thousand)?\b`)

// flexInt accepts 128000, "128000", "128,000", "128K" or "1M tokens".
type flexInt struct {
	value int
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := unquoteLoose(b)
	if s == "" {
		return nil
	}
	m := sizedNumber.FindStringSubmatch(strings.ReplaceAll(s, ",", ""))
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	switch strings.ToLower(m[2]) {
	case "k", "thousand":
		v *= 1_000
	case "m", "million":
		v *= 1_000_000
	}
	if v < 0 || v > math.MaxInt32 {
		return nil
	}
	f.value = int(v)
	return nil
}

// flexString accepts a string or a bare number ("70B" or 70000000000).
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	*f = flexString(unquoteLoose(b))
	return nil
}

func unquoteLoose(b []byte) string {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return ""
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	return strings.TrimSpace(s)
}

// flexComparisons accepts [{"model","comparison"}] or a list of sentences.
type flexComparisons []entity.Comparison

func (f *flexComparisons) UnmarshalJSON(b []byte) error {
	var structured []entity.Comparison
	if err := json.Unmarshal(b, &structured); err == nil {
		*f = structured
		return nil
	}
	var sentences []string
	if err := json.Unmarshal(b, &sentences); err == nil {
		out := make([]entity.Comparison, 0, len(sentences))
		for _, s := range sentences {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, entity.Comparison{Comparison: s})
			}
		}
		*f = out
	}
	return nil
}

type wirePricing struct {
	Input  flexFloat `json:"input"`
	Output flexFloat `json:"output"`
}

// wireDetails is the details object as providers actually return it.
type wireDetails struct {
	Description      string               `json:"description"`
	ModelType        string               `json:"modelType"`
	Parameters       flexString           `json:"parameters"`
	ContextWindow    flexInt              `json:"contextWindow"`
	Benchmarks       map[string]flexFloat `json:"benchmarks"`
	DocumentationURL string               `json:"documentationUrl"`
	AnnouncementURL  string               `json:"announcementUrl"`
	PaperURL         string               `json:"paperUrl"`
	PricingInfo      *wirePricing         `json:"pricingInfo"`
	Highlights       []string             `json:"highlights"`
	Comparisons      flexComparisons      `json:"comparisons"`
}

func (w *wireDetails) toEntity() *entity.ModelDetails {
	d := &entity.ModelDetails{
		Description:      strings.TrimSpace(w.Description),
		ModelType:        strings.TrimSpace(w.ModelType),
		Parameters:       string(w.Parameters),
		ContextWindow:    w.ContextWindow.value,
		DocumentationURL: cleanURL(w.DocumentationURL),
		AnnouncementURL:  cleanURL(w.AnnouncementURL),
		PaperURL:         cleanURL(w.PaperURL),
		Comparisons:      []entity.Comparison(w.Comparisons),
	}
	if len(w.Benchmarks) > 0 {
		d.Benchmarks = make(entity.Benchmarks, len(w.Benchmarks))
		for k, v := range w.Benchmarks {
			if v.valid {
				d.Benchmarks[strings.ToLower(strings.TrimSpace(k))] = v.value
			}
		}
	}
	if w.PricingInfo != nil && (w.PricingInfo.Input.valid || w.PricingInfo.Output.valid) {
		d.PricingInfo = &entity.Pricing{Input: w.PricingInfo.Input.value, Output: w.PricingInfo.Output.value}
	}
	for _, h := range w.Highlights {
		if h = strings.TrimSpace(h); h != "" {
			d.Highlights = append(d.Highlights, h)
		}
	}
	return d
}

// cleanURL drops values that are not absolute http(s) links, such as
// "N/A" or "not available".
func cleanURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if entity.ValidateURL(raw) != nil {
		return ""
	}
	return raw
}

// parseDetails decodes a details response.
func parseDetails(content string) (*entity.ModelDetails, error) {
	w, err := decodeObject[wireDetails](content)
	if err != nil {
		return nil, err
	}
	return w.toEntity(), nil
}

// parseDiscovered decodes a discovery response and drops entries without a
// name.
func parseDiscovered(content string) ([]entity.DiscoveredModel, error) {
	items, err := decodeArray[entity.DiscoveredModel](content)
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, it := range items {
		it.Name = strings.TrimSpace(it.Name)
		it.Provider = strings.TrimSpace(it.Provider)
		if it.Name == "" {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// parseSocialPosts decodes a social posts response and drops entries
// without content.
func parseSocialPosts(content string) ([]entity.SocialPost, error) {
	posts, err := decodeArray[entity.SocialPost](content)
	if err != nil {
		return nil, err
	}
	out := posts[:0]
	for _, p := range posts {
		if strings.TrimSpace(p.Content) == "" {
			continue
		}
		p.Platform = strings.ToLower(strings.TrimSpace(p.Platform))
		out = append(out, p)
	}
	return out, nil
}
