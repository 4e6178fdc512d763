package valueobjects

import "fmt"

// VoteDirection is the value stored on a vote row
type VoteDirection int

const (
	Up   VoteDirection = 1
	Down VoteDirection = -1
)

// ParseVoteDirection maps the route suffix to a direction
func ParseVoteDirection(s string) (VoteDirection, error) {
	switch s {
	case "upvote", "up":
		return Up, nil
	case "downvote", "down":
		return Down, nil
	default:
		return 0, fmt.Errorf("unknown vote direction %q", s)
	}
}

// IsValid reports whether d is +1 or -1
func (d VoteDirection) IsValid() bool {
	return d == Up || d == Down
}

func (d VoteDirection) Int() int { return int(d) }

func (d VoteDirection) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "invalid"
	}
}
