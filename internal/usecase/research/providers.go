package research

import (
	"context"
	"time"

	"model-tracker/internal/domain/entity"
)

// Discoverer runs discovery passes against a search-capable LLM.
type Discoverer interface {
	Name() string
	// DiscoverLatest looks for releases from today or the past 24 hours.
	DiscoverLatest(ctx context.Context, today time.Time) ([]entity.DiscoveredModel, error)
	// DiscoverWindow looks for releases inside an inclusive date window.
	DiscoverWindow(ctx context.Context, w entity.DateWindow) ([]entity.DiscoveredModel, error)
}

// DetailsProvider returns structured details for a model.
type DetailsProvider interface {
	Name() string
	Details(ctx context.Context, name, provider string) (*entity.ModelDetails, error)
}

// SocialProvider finds social media posts about a model.
type SocialProvider interface {
	Name() string
	SocialPosts(ctx context.Context, name, provider string) ([]entity.SocialPost, error)
}

// ContentGenerator writes the long-form markdown article for a model.
// reference is optional page text used as extra context.
type ContentGenerator interface {
	Name() string
	GenerateContent(ctx context.Context, name, provider string, details *entity.ModelDetails, reference string) (string, error)
}

// Scraper gathers supporting material from the web.
type Scraper interface {
	// Announcement returns the page's preview image and a text excerpt.
	Announcement(ctx context.Context, pageURL string) (imageURL, excerpt string, err error)
	Benchmarks(ctx context.Context, name, provider string) (entity.Benchmarks, error)
	Comparisons(ctx context.Context, name, provider string) ([]entity.Comparison, error)
}

// Providers are the LLM chains used by research. Each chain is tried in
// order; the first non-empty result wins.
type Providers struct {
	Discoverer Discoverer
	Details    []DetailsProvider
	Social     []SocialProvider
	Content    []ContentGenerator
}
