package entity

// Priority expresses urgency for notifications, support tickets and
// return requests.
type Priority string

const (
	// PriorityLow is the lowest urgency level.
	PriorityLow Priority = "low"
	// PriorityMedium is the default urgency level.
	PriorityMedium Priority = "medium"
	// PriorityHigh indicates the item needs prompt attention.
	PriorityHigh Priority = "high"
	// PriorityUrgent indicates the item needs immediate attention.
	PriorityUrgent Priority = "urgent"
)

// IsValid checks if the Priority is a valid value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// Rank returns the numeric ordering of the priority, higher means more urgent.
// Unknown values rank below low so malformed data sinks to the bottom.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}
