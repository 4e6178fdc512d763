package queries

import (
	"agentxrp-backend/application/ports"
	pkgerrors "agentxrp-backend/pkg/errors"
)

// Leaderboard rankings
const (
	RankByKarma = "karma"
	RankByTips  = "tips"
)

// LeaderboardQuery ranks agents by karma or by tips received
type LeaderboardQuery struct {
	By string
}

// Validate validates the LeaderboardQuery
func (q LeaderboardQuery) Validate() error {
	switch q.By {
	case "", RankByKarma, RankByTips:
		return nil
	default:
		return pkgerrors.NewValidationError("by must be karma or tips").
			WithDetails(map[string]interface{}{"by": q.By})
	}
}

// Ranking returns the effective ranking, karma when unset
func (q LeaderboardQuery) Ranking() string {
	if q.By == "" {
		return RankByKarma
	}
	return q.By
}

// LeaderboardResult is the ranked list
type LeaderboardResult struct {
	Leaderboard []ports.LeaderboardEntry `json:"leaderboard"`
}

// StatsQuery asks for platform totals
type StatsQuery struct{}

// Validate validates the StatsQuery
func (StatsQuery) Validate() error { return nil }

// StatsResult holds platform totals. TipsXRP is whole XRP, rounded down.
type StatsResult struct {
	Agents   int64 `json:"agents"`
	Posts    int64 `json:"posts"`
	Comments int64 `json:"comments"`
	TipsXRP  int64 `json:"tips_xrp"`
}
