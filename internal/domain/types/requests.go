package types

// ScheduleRequest asks for a scouting rotation.
type ScheduleRequest struct {
	QuantScouters      []string `json:"quant_scouters"`
	SubjectiveScouters []string `json:"subjective_scouters"`
	MatchCount         int      `json:"match_count"`
	RobotsPerMatch     int      `json:"robots_per_match"`
}

// AddListRequest creates an empty list at the end of a group.
type AddListRequest struct {
	RequestID string `json:"request_id,omitempty"`
	Name      string `json:"name"`
}

// AddEntryRequest creates an entry for Team in List. Without After the
// entry goes to the end of the list.
type AddEntryRequest struct {
	RequestID string `json:"request_id,omitempty"`
	List      string `json:"list"`
	Team      int    `json:"team"`
	After     string `json:"after,omitempty"`
}

// MoveRequest moves Entry to directly after the After entry, or to the head
// of List when After is empty.
type MoveRequest struct {
	RequestID string `json:"request_id,omitempty"`
	Entry     string `json:"entry"`
	After     string `json:"after,omitempty"`
	List      string `json:"list,omitempty"`
}

// StruckRequest sets or clears the struck mark of Team.
type StruckRequest struct {
	RequestID string `json:"request_id,omitempty"`
	Team      int    `json:"team"`
	Struck    bool   `json:"struck"`
}
