package helpers

import (
	"sort"
	"strings"

	"github.com/doeshing/raix/internal/domain"
)

// PromptStatistic counts how often a prompt was submitted.
type PromptStatistic struct {
	Prompt string
	Count  int
}

// HistoryStatistics summarizes archived generation actions.
type HistoryStatistics struct {
	Total          int
	Succeeded      int
	RetriesByCount map[int]int
	TopPrompts     []PromptStatistic
}

// AnalyzeHistory computes statistics over records, keeping the top n prompts.
func AnalyzeHistory(records []domain.ArchivedRecord, top int) HistoryStatistics {
	stats := HistoryStatistics{Total: len(records), RetriesByCount: make(map[int]int)}
	frequency := make(map[string]int)

	for _, rec := range records {
		if rec.Succeeded() {
			stats.Succeeded++
		}
		stats.RetriesByCount[rec.Retries]++
		frequency[normalizePrompt(rec.Prompt)]++
	}

	stats.TopPrompts = CalculateTopPrompts(frequency, top)
	return stats
}

// SuccessRate returns the share of succeeded actions as a percentage.
func (s HistoryStatistics) SuccessRate() float64 {
	return CalculateSuccessRate(s.Succeeded, s.Total)
}

// AverageRetries returns the mean attempt count per action.
func (s HistoryStatistics) AverageRetries() float64 {
	if s.Total == 0 {
		return 0
	}
	var sum int
	for retries, count := range s.RetriesByCount {
		sum += retries * count
	}
	return float64(sum) / float64(s.Total)
}

// CalculateTopPrompts returns the top N most frequent prompts.
// If limit is 0 or negative, returns all prompts
func CalculateTopPrompts(frequency map[string]int, limit int) []PromptStatistic {
	stats := make([]PromptStatistic, 0, len(frequency))
	for prompt, count := range frequency {
		stats = append(stats, PromptStatistic{Prompt: prompt, Count: count})
	}

	// count descending, then prompt ascending
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Prompt < stats[j].Prompt
		}
		return stats[i].Count > stats[j].Count
	})

	if limit > 0 && len(stats) > limit {
		return stats[:limit]
	}
	return stats
}

// CalculateSuccessRate calculates the success rate as a percentage
func CalculateSuccessRate(successfulCount int, totalCount int) float64 {
	if totalCount == 0 {
		return 0.0
	}
	return float64(successfulCount) / float64(totalCount) * 100.0
}

func normalizePrompt(prompt string) string {
	return strings.Join(strings.Fields(prompt), " ")
}
