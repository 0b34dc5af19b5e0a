package models

// MetricsOverview is the dashboard summary derived from catalog + history.
type MetricsOverview struct {
	Counts         CategoryCounts `json:"counts"`
	Accuracy       float64        `json:"accuracy"`
	TotalQuestions int            `json:"total_questions"`
	TotalSessions  int            `json:"total_sessions"`
}
