package models

type JournalEntry struct {
	Time string `json:"time"` // HH:MM format
	Text string `json:"text"`
}

type Streak struct {
	Current     int    `json:"current"`
	Longest     int    `json:"longest"`
	LastCheckin string `json:"last_checkin,omitempty"` // YYYY-MM-DD format
	Total       int    `json:"total"`
}
