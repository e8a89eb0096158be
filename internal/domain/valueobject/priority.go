package valueobject

import "fmt"

// Priority orders the manual review queue.
type Priority struct {
	value string
}

var (
	PriorityLow    = Priority{value: "LOW"}
	PriorityMedium = Priority{value: "MEDIUM"}
	PriorityHigh   = Priority{value: "HIGH"}
	PriorityUrgent = Priority{value: "URGENT"}
)

// PriorityFromString reconstructs a Priority from its string representation.
func PriorityFromString(s string) (Priority, error) {
	switch s {
	case "LOW":
		return PriorityLow, nil
	case "MEDIUM":
		return PriorityMedium, nil
	case "HIGH":
		return PriorityHigh, nil
	case "URGENT":
		return PriorityUrgent, nil
	default:
		return Priority{}, fmt.Errorf("invalid priority: %s", s)
	}
}

func (p Priority) String() string { return p.value }

// Equal checks equality with another Priority.
func (p Priority) Equal(other Priority) bool { return p.value == other.value }
