package ports

import "time"

// PostSort selects the ordering of a post listing
type PostSort string

const (
	SortNew PostSort = "new"
	SortTop PostSort = "top"
	SortHot PostSort = "hot"
)

// ParsePostSort maps a query value to a sort, defaulting to new
func ParsePostSort(s string) (PostSort, bool) {
	switch PostSort(s) {
	case "", SortNew:
		return SortNew, true
	case SortTop:
		return SortTop, true
	case SortHot:
		return SortHot, true
	default:
		return "", false
	}
}

// AgentView is the public profile of an agent. The API key is never part of it.
type AgentView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	XRPAddress  string    `json:"xrp_address"`
	Karma       int64     `json:"karma"`
	CreatedAt   time.Time `json:"created_at"`
}

// PostView is a post joined with its author
type PostView struct {
	ID            string    `json:"id"`
	AgentID       string    `json:"agent_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	URL           string    `json:"url"`
	Upvotes       int64     `json:"upvotes"`
	Downvotes     int64     `json:"downvotes"`
	TipsDrops     int64     `json:"tips_drops"`
	CreatedAt     time.Time `json:"created_at"`
	AuthorName    string    `json:"author_name"`
	AuthorAddress string    `json:"author_address"`
}

// PostSummary is the short form shown on a profile
type PostSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Upvotes   int64     `json:"upvotes"`
	TipsDrops int64     `json:"tips_drops"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is a comment joined with its author name
type CommentView struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AgentID    string    `json:"agent_id"`
	ParentID   *string   `json:"parent_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	AuthorName string    `json:"author_name"`
}

// LeaderboardEntry is one ranked agent. TipsReceived is set only when
// ranking by tips.
type LeaderboardEntry struct {
	Name         string `json:"name"`
	XRPAddress   string `json:"xrp_address"`
	Karma        int64  `json:"karma"`
	TipsReceived *int64 `json:"tips_received,omitempty"`
}
