package domain

import "sort"

// RankAttempts orders attempts by score (highest first), then by who got there
// earlier, then by attempt id, and assigns dense ranks.
func RankAttempts(attempts []Attempt) []LeaderboardEntry {
	sorted := make([]Attempt, len(attempts))
	copy(sorted, attempts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ScorePercentage != sorted[j].ScorePercentage {
			return sorted[i].ScorePercentage > sorted[j].ScorePercentage
		}
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	entries := make([]LeaderboardEntry, 0, len(sorted))
	rank := 0
	for i, a := range sorted {
		if i == 0 || a.ScorePercentage != sorted[i-1].ScorePercentage {
			rank++
		}
		entries = append(entries, LeaderboardEntry{
			Rank:            rank,
			AttemptID:       a.ID,
			Username:        a.Username,
			Email:           a.Email,
			CorrectAnswers:  a.CorrectAnswers,
			TotalQuestions:  a.TotalQuestions,
			ScorePercentage: a.ScorePercentage,
			CreatedAt:       a.CreatedAt,
		})
	}
	return entries
}
