package model

// Match pairs a load with a compatible vehicle and carries the weighted
// score in [0,1] plus a human-readable explanation of the dominant factors.
type Match struct {
	LoadID    string
	VehicleID string
	Score     float64
	Reason    string
}

// SkippedRecord reports a load or vehicle that failed validation and was
// excluded from matching. The rest of the batch is unaffected.
type SkippedRecord struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}
