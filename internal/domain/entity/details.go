package entity

import "time"

// ModelDetails is the structured enrichment returned by a details provider
// for one discovered release. Zero values mean the provider did not know.
type ModelDetails struct {
	Description      string       `json:"description,omitempty"`
	ModelType        string       `json:"modelType,omitempty"`
	Parameters       string       `json:"parameters,omitempty"`
	ContextWindow    int          `json:"contextWindow,omitempty"`
	Benchmarks       Benchmarks   `json:"benchmarks,omitempty"`
	DocumentationURL string       `json:"documentationUrl,omitempty"`
	AnnouncementURL  string       `json:"announcementUrl,omitempty"`
	PaperURL         string       `json:"paperUrl,omitempty"`
	PricingInfo      *Pricing     `json:"pricingInfo,omitempty"`
	Highlights       []string     `json:"highlights,omitempty"`
	Comparisons      []Comparison `json:"comparisons,omitempty"`
}

// IsEmpty reports whether the provider returned nothing usable.
func (d *ModelDetails) IsEmpty() bool {
	if d == nil {
		return true
	}
	return d.Description == "" &&
		d.ModelType == "" &&
		d.Parameters == "" &&
		d.ContextWindow == 0 &&
		len(d.Benchmarks) == 0 &&
		d.DocumentationURL == "" &&
		d.AnnouncementURL == "" &&
		d.PaperURL == "" &&
		d.PricingInfo == nil &&
		len(d.Highlights) == 0 &&
		len(d.Comparisons) == 0
}

// DateWindow is an inclusive range of calendar days searched by one
// discovery pass.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// String renders the window as "2006-01-02 to 2006-01-02".
func (w DateWindow) String() string {
	return w.Start.Format(DateLayout) + " to " + w.End.Format(DateLayout)
}

// DateLayout is the calendar date format used across the API and prompts.
const DateLayout = "2006-01-02"
