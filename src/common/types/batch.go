package types

// EventBatch is the unit published to message brokers.
type EventBatch struct {
	ID        string  `json:"id"`
	Timetable string  `json:"timetable"`
	Part      int     `json:"part"`
	Parts     int     `json:"parts"`
	Events    []Event `json:"events"`
}
