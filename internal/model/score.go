package model

// PlayerScore is a single leaderboard entry.
type PlayerScore struct {
	PlayerName string `json:"player_name"`
	Score      int64  `json:"score"`
	ID         string `json:"_id"`
}
