package repository

import (
	"encoding/json"
	"sort"

	"dota-review-tracker/internal/db"
	"dota-review-tracker/internal/domain"
)

// encodeNames stores a name set as a sorted JSON array.
func encodeNames(names []string) string {
	set := NormalizeNames(names)
	data, err := json.Marshal(set)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func decodeNames(raw string) []string {
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return []string{}
	}
	return NormalizeNames(names)
}

// NormalizeNames dedupes, drops empty entries and sorts.
func NormalizeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func toDomainPlayer(p db.Player) domain.Player {
	return domain.Player{
		AccountID:    p.AccountID,
		Name:         p.Name,
		NameHistory:  decodeNames(p.NameHistory),
		FirstSeen:    p.FirstSeen,
		LastSeen:     p.LastSeen,
		AverageScore: p.AverageScore,
		ReviewCount:  int(p.ReviewCount),
		LastScore:    int(p.LastScore),
		LastComment:  p.LastComment,
	}
}

func toDomainMatch(m db.Match) domain.Match {
	return domain.Match{
		MatchID:         m.MatchID,
		GameMode:        m.GameMode,
		StartedAt:       m.StartedAt,
		EndedAt:         m.EndedAt,
		DurationSeconds: int(m.DurationSeconds),
		Outcome:         m.Outcome,
		LocalTeam:       m.LocalTeam,
		CreatedAt:       m.CreatedAt,
	}
}

func toDomainParticipant(p db.MatchParticipant) domain.MatchParticipant {
	return domain.MatchParticipant{
		MatchID:   p.MatchID,
		AccountID: p.AccountID,
		Name:      p.Name,
		Hero:      p.Hero,
		Team:      p.Team,
		Kills:     int(p.Kills),
		Deaths:    int(p.Deaths),
		Assists:   int(p.Assists),
		Level:     int(p.Level),
	}
}

func toDomainReview(r db.Review) domain.Review {
	return domain.Review{
		ID:         r.ID,
		MatchID:    r.MatchID,
		SubjectID:  r.SubjectID,
		ReviewerID: r.ReviewerID,
		Score:      int(r.Score),
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func toDomainPlayers(rows []db.Player) []domain.Player {
	result := make([]domain.Player, len(rows))
	for i, p := range rows {
		result[i] = toDomainPlayer(p)
	}
	return result
}

func toDomainMatches(rows []db.Match) []domain.Match {
	result := make([]domain.Match, len(rows))
	for i, m := range rows {
		result[i] = toDomainMatch(m)
	}
	return result
}

func toDomainParticipants(rows []db.MatchParticipant) []domain.MatchParticipant {
	result := make([]domain.MatchParticipant, len(rows))
	for i, p := range rows {
		result[i] = toDomainParticipant(p)
	}
	return result
}

func toDomainReviews(rows []db.Review) []domain.Review {
	result := make([]domain.Review, len(rows))
	for i, r := range rows {
		result[i] = toDomainReview(r)
	}
	return result
}
