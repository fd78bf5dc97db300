// Package drill exercises a running scouting service the way a busy
// strategy meeting does: many clients dragging picklist entries at once,
// with flaky connections retrying the same request.
package drill

import "time"

// Config holds configuration for a drill run.
type Config struct {
	BaseURL   string        // Base URL of the service
	Key       string        // Competition key to drill on
	Lists     int           // Number of lists in the seeded group
	Teams     int           // Number of teams spread over the lists
	Moves     int           // Number of distinct moves to send
	Workers   int           // Number of concurrent clients
	RetryRate float64       // Fraction of moves re-sent with the same request id
	Timeout   time.Duration // HTTP request timeout
	Seed      uint64        // Seed for move generation
	Verbose   bool          // Log every failed request
}

// Move is one drag-and-drop request.
type Move struct {
	RequestID string `json:"request_id"`
	Entry     string `json:"entry"`
	After     string `json:"after,omitempty"`
	List      string `json:"list,omitempty"`
}

// Stats holds drill statistics.
type Stats struct {
	MovesGenerated int
	Retries        int
	Sent           int
	Succeeded      int
	Failed         int
	FinalRevision  int64
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
