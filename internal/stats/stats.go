// Package stats computes aggregate statistics over the commits included
// in a changelog run.
package stats

import (
	"sort"

	"github.com/logchange/logchange-go/internal/git"
)

// topContributorLimit caps the contributor leaderboard.
const topContributorLimit = 5

// ContributorCount pairs an author with their commit count.
type ContributorCount struct {
	Name    string `json:"name"`
	Commits int    `json:"commits"`
}

// Summary holds aggregate statistics for a changelog.
type Summary struct {
	TotalCommits    int                `json:"total_commits"`
	Contributors    int                `json:"contributors"`
	DateRange       string             `json:"date_range"`
	Model           string             `json:"model"`
	TopContributors []ContributorCount `json:"top_contributors,omitempty"`
	CommitsByDate   map[string]int     `json:"commits_by_date,omitempty"`
}

// Calculate computes statistics from the commits in a run.
func Calculate(records []git.CommitRecord, model string) *Summary {
	if len(records) == 0 {
		return &Summary{DateRange: "N/A", Model: model}
	}

	authorCounts := make(map[string]int)
	byDate := make(map[string]int)
	minDate, maxDate := records[0].Date(), records[0].Date()

	for _, rec := range records {
		name := rec.Author.Name
		if name == "" {
			name = "Unknown"
		}
		authorCounts[name]++

		date := rec.Date()
		byDate[date]++
		if date < minDate {
			minDate = date
		}
		if date > maxDate {
			maxDate = date
		}
	}

	return &Summary{
		TotalCommits:    len(records),
		Contributors:    len(authorCounts),
		DateRange:       minDate + " to " + maxDate,
		Model:           model,
		TopContributors: topContributors(authorCounts),
		CommitsByDate:   byDate,
	}
}

// topContributors ranks authors by commit count, breaking ties by name
// for deterministic output.
func topContributors(counts map[string]int) []ContributorCount {
	ranked := make([]ContributorCount, 0, len(counts))
	for name, n := range counts {
		ranked = append(ranked, ContributorCount{Name: name, Commits: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Commits != ranked[j].Commits {
			return ranked[i].Commits > ranked[j].Commits
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > topContributorLimit {
		ranked = ranked[:topContributorLimit]
	}
	return ranked
}
