// Package entity defines the core domain entities and validation logic for the application.
// It contains the tracked AI model releases, the news feed entries generated from them
// and the cron execution log, along with their validation rules and domain-specific errors.
package entity

import (
	"regexp"
	"strings"
	"time"
)

// Model types reported by the research providers.
const (
	ModelTypeLLM        = "LLM"
	ModelTypeVLM        = "VLM"
	ModelTypeImage      = "Image"
	ModelTypeAudio      = "Audio"
	ModelTypeVideo      = "Video"
	ModelTypeMultimodal = "Multimodal"
)

// UnknownProvider is stored when a release could not be attributed to a vendor.
const UnknownProvider = "Unknown"

// Model represents a tracked AI model release.
// Slug is the unique business key; a model is never updated once stored.
type Model struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Slug             string       `json:"slug"`
	Provider         string       `json:"provider"`
	ReleaseDate      time.Time    `json:"releaseDate"`
	AnnouncementDate *time.Time   `json:"announcementDate,omitempty"`
	Description      string       `json:"description,omitempty"`
	ModelType        string       `json:"modelType,omitempty"`
	Parameters       string       `json:"parameters,omitempty"`
	ContextWindow    int          `json:"contextWindow,omitempty"`
	IsAvailable      bool         `json:"isAvailable"`
	APIEndpoint      string       `json:"apiEndpoint,omitempty"`
	PricingInfo      *Pricing     `json:"pricingInfo,omitempty"`
	DocumentationURL string       `json:"documentationUrl,omitempty"`
	AnnouncementURL  string       `json:"announcementUrl,omitempty"`
	PaperURL         string       `json:"paperUrl,omitempty"`
	HuggingFaceURL   string       `json:"huggingfaceUrl,omitempty"`
	GitHubURL        string       `json:"githubUrl,omitempty"`
	Benchmarks       Benchmarks   `json:"benchmarks"`
	SocialPosts      []SocialPost `json:"socialPosts"`
	Comparisons      []Comparison `json:"comparisons"`
	FullContent      string       `json:"fullContent,omitempty"`
	ImageURL         string       `json:"imageUrl,omitempty"`
	Tags             []string     `json:"tags"`
	Highlights       []string     `json:"highlights"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
	FetchedAt        *time.Time   `json:"fetchedAt,omitempty"`
}

// Pricing is the per-million-token price in USD.
type Pricing struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// Benchmarks maps a lower-case benchmark key (mmlu, humaneval, ...) to its score.
type Benchmarks map[string]float64

// SocialPost is a notable post about a release on a social platform.
type SocialPost struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Content  string `json:"content"`
}

// Comparison describes how a release relates to a competitor model.
type Comparison struct {
	Model      string `json:"model"`
	Comparison string `json:"comparison"`
}

// DiscoveredModel is a candidate release returned by a discovery pass,
// before enrichment.
type DiscoveredModel struct {
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	ReleaseDate string `json:"releaseDate"`
	Description string `json:"description"`
	SourceURL   string `json:"sourceUrl"`
}

// Key returns the cross-window deduplication key of the candidate.
func (d DiscoveredModel) Key() string {
	return DedupKey(d.Name, d.Provider)
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a model name into its URL slug.
// Runs of characters outside [a-z0-9] collapse into a single dash and
// leading or trailing dashes are trimmed.
//
// Example:
//
//	Slugify("GPT-4.5 Turbo") // "gpt-4-5-turbo"
func Slugify(name string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// DedupKey identifies the same release reported by different discovery windows.
func DedupKey(name, provider string) string {
	return strings.ToLower(name) + "|" + strings.ToLower(provider)
}

// Validate checks the fields required to persist a model.
func (m *Model) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if m.Slug == "" {
		return &ValidationError{Field: "slug", Message: "slug is required"}
	}
	if m.Provider == "" {
		return &ValidationError{Field: "provider", Message: "provider is required"}
	}
	if m.ContextWindow < 0 {
		return &ValidationError{Field: "contextWindow", Message: "context window must not be negative"}
	}
	links := map[string]string{
		"documentationUrl": m.DocumentationURL,
		"announcementUrl":  m.AnnouncementURL,
		"paperUrl":         m.PaperURL,
		"huggingfaceUrl":   m.HuggingFaceURL,
		"githubUrl":        m.GitHubURL,
		"imageUrl":         m.ImageURL,
	}
	for field, link := range links {
		if link == "" {
			continue
		}
		if err := ValidateURL(link); err != nil {
			return &ValidationError{Field: field, Message: err.Error()}
		}
	}
	return nil
}
