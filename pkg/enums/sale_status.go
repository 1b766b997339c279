package enums

import "fmt"

// SaleStatus tracks the lifecycle of a customer order.
type SaleStatus string

const (
	SaleStatusPending    SaleStatus = "pending"
	SaleStatusAccepted   SaleStatus = "accepted"
	SaleStatusDelivering SaleStatus = "delivering"
	SaleStatusCompleted  SaleStatus = "completed"
	SaleStatusCancelled  SaleStatus = "cancelled"
)

var validSaleStatuses = []SaleStatus{
	SaleStatusPending,
	SaleStatusAccepted,
	SaleStatusDelivering,
	SaleStatusCompleted,
	SaleStatusCancelled,
}

// allowedSaleTransitions is the strict forward-only graph. Terminal states
// (completed, cancelled) have no outgoing edges.
var allowedSaleTransitions = map[SaleStatus][]SaleStatus{
	SaleStatusPending:    {SaleStatusAccepted, SaleStatusCancelled},
	SaleStatusAccepted:   {SaleStatusDelivering},
	SaleStatusDelivering: {SaleStatusCompleted},
}

// String implements fmt.Stringer.
func (s SaleStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SaleStatus.
func (s SaleStatus) IsValid() bool {
	for _, candidate := range validSaleStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s SaleStatus) IsTerminal() bool {
	return len(allowedSaleTransitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s SaleStatus) CanTransitionTo(next SaleStatus) bool {
	for _, candidate := range allowedSaleTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseSaleStatus converts raw input into a SaleStatus.
func ParseSaleStatus(value string) (SaleStatus, error) {
	for _, candidate := range validSaleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sale status %q", value)
}
