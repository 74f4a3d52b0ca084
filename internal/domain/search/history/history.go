package history

import "time"

// Item is one recorded search of a user.
type Item struct {
	UserID    string
	Query     string
	Timestamp time.Time
	CacheHit  bool
}

// Stats summarizes the recorded history of all users.
type Stats struct {
	TotalEntries int
	Users        int
	CacheHits    int
}
