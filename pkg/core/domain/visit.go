package domain

import "time"

// Visit represents a click on a public link
type Visit struct {
	ID        int64     `json:"id"`
	LinkID    string    `json:"link_id"`
	Referer   string    `json:"referer"`
	UserAgent string    `json:"user_agent"`
	IPHash    string    `json:"ip_hash"` // Salted SHA-256, never the raw address
	CreatedAt time.Time `json:"created_at"`
}

// LinkStats represents aggregated statistics for a link
type LinkStats struct {
	TotalClicks int64            `json:"total_clicks"`
	Referrers   map[string]int64 `json:"referrers"`    // count by referer, top 10
	DailyClicks []DailyClick     `json:"daily_clicks"` // timeline
}

type DailyClick struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

// OwnerStats summarizes clicks across one owner's collection.
type OwnerStats struct {
	TotalClicks int64  `json:"total_clicks"`
	TopLinks    []Link `json:"top_links"`
}
