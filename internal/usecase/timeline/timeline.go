// Package timeline shapes stored models into the release timeline: search
// and facet filtering, grouping by release day and sidebar statistics.
package timeline

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"model-tracker/internal/domain/entity"
)

// dayLabelLayout renders days older than yesterday, e.g. "Monday, January 2, 2006".
const dayLabelLayout = "Monday, January 2, 2006"

// Criteria selects models for the timeline. Empty fields match everything.
type Criteria struct {
	// Query is a case-insensitive substring of name, provider or description.
	Query     string
	Providers []string
	Types     []string
}

// Group holds the models released on one day.
type Group struct {
	Date   string          `json:"date"`
	Label  string          `json:"label"`
	Models []*entity.Model `json:"models"`
}

// Count is a facet value and the number of models carrying it.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats summarises the whole model set for the sidebar.
type Stats struct {
	TotalModels   int     `json:"totalModels"`
	TodayReleases int     `json:"todayReleases"`
	Providers     []Count `json:"providers"`
	Types         []Count `json:"types"`
}

// Filter returns the models matching c, keeping their order.
func Filter(models []*entity.Model, c Criteria) []*entity.Model {
	query := strings.ToLower(strings.TrimSpace(c.Query))
	out := make([]*entity.Model, 0, len(models))
	for _, m := range models {
		if query != "" &&
			!strings.Contains(strings.ToLower(m.Name), query) &&
			!strings.Contains(strings.ToLower(m.Provider), query) &&
			!strings.Contains(strings.ToLower(m.Description), query) {
			continue
		}
		if len(c.Providers) > 0 && !slices.Contains(c.Providers, m.Provider) {
			continue
		}
		if len(c.Types) > 0 && (m.ModelType == "" || !slices.Contains(c.Types, m.ModelType)) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// GroupByDay groups models by release day, newest day first. Models keep
// their relative order inside a day.
func GroupByDay(models []*entity.Model, now time.Time) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, m := range models {
		day := m.ReleaseDate.UTC().Format(entity.DateLayout)
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, Group{Date: day, Label: DayLabel(m.ReleaseDate, now)})
		}
		groups[i].Models = append(groups[i].Models, m)
	}
	slices.SortStableFunc(groups, func(a, b Group) int { return strings.Compare(b.Date, a.Date) })
	return groups
}

// DayLabel renders "Today", "Yesterday" or the full date of day relative
// to now. Both are compared as UTC calendar days.
func DayLabel(day, now time.Time) string {
	d := day.UTC().Format(entity.DateLayout)
	switch d {
	case now.UTC().Format(entity.DateLayout):
		return "Today"
	case now.UTC().AddDate(0, 0, -1).Format(entity.DateLayout):
		return "Yesterday"
	}
	return day.UTC().Format(dayLabelLayout)
}

// ComputeStats counts models, today's releases and the provider and type
// facets. Facets are ordered by count descending, then name.
func ComputeStats(models []*entity.Model, now time.Time) Stats {
	providers := make(map[string]int)
	types := make(map[string]int)
	today := now.UTC().Format(entity.DateLayout)

	stats := Stats{TotalModels: len(models)}
	for _, m := range models {
		providers[m.Provider]++
		if m.ModelType != "" {
			types[m.ModelType]++
		}
		if m.ReleaseDate.UTC().Format(entity.DateLayout) == today {
			stats.TodayReleases++
		}
	}
	stats.Providers = sortedCounts(providers)
	stats.Types = sortedCounts(types)
	return stats
}

func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for name, n := range m {
		out = append(out, Count{Name: name, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// View is the timeline response: grouped filtered models plus statistics
// over the unfiltered set.
type View struct {
	Groups []Group `json:"groups"`
	Total  int     `json:"total"`
	Stats  Stats   `json:"stats"`
}

// Build filters models, groups the result and computes stats over all of
// them.
func Build(models []*entity.Model, c Criteria, now time.Time) View {
	filtered := Filter(models, c)
	groups := GroupByDay(filtered, now)
	if groups == nil {
		groups = []Group{}
	}
	return View{
		Groups: groups,
		Total:  len(filtered),
		Stats:  ComputeStats(models, now),
	}
}
