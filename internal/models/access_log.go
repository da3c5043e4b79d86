package models

import "time"

// Log actions
const (
	ActionAdd     = "ADD"
	ActionRemove  = "REMOVE"
	ActionGranted = "GRANTED"
	ActionDenied  = "DENIED"
)

var validActions = map[string]bool{
	ActionAdd:     true,
	ActionRemove:  true,
	ActionGranted: true,
	ActionDenied:  true,
}

func IsValidAction(action string) bool {
	return validActions[action]
}

// IsDeviceAction reports whether the action is one a reader device may report.
// ADD and REMOVE are produced only by the card registry.
func IsDeviceAction(action string) bool {
	return action == ActionGranted || action == ActionDenied
}

type LogEntry struct {
	ID        int64     `json:"id"`
	UID       string    `json:"uid"`
	Action    string    `json:"action"`
	Relays    *int      `json:"relays"`
	CreatedAt time.Time `json:"created_at"`
}

// LogView is a log entry joined with the card registry for display.
// Name and Division are empty when the card no longer exists.
type LogView struct {
	ID        int64      `json:"id"`
	UID       string     `json:"uid"`
	Name      string     `json:"name"`
	Division  string     `json:"division"`
	Action    string     `json:"action"`
	Relays    *int       `json:"relays"`
	CreatedAt *time.Time `json:"created_at"`
}
