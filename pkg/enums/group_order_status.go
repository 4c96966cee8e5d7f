package enums

import "fmt"

// GroupOrderStatus tracks the lifecycle of a pooled group order.
type GroupOrderStatus string

const (
	GroupOrderStatusOpen       GroupOrderStatus = "open"
	GroupOrderStatusCompleted  GroupOrderStatus = "completed"
	GroupOrderStatusApproved   GroupOrderStatus = "approved"
	GroupOrderStatusProcessing GroupOrderStatus = "processing"
	GroupOrderStatusDelivered  GroupOrderStatus = "delivered"
	GroupOrderStatusCancelled  GroupOrderStatus = "cancelled"
	GroupOrderStatusRejected   GroupOrderStatus = "rejected"
)

var validGroupOrderStatuses = []GroupOrderStatus{
	GroupOrderStatusOpen,
	GroupOrderStatusCompleted,
	GroupOrderStatusApproved,
	GroupOrderStatusProcessing,
	GroupOrderStatusDelivered,
	GroupOrderStatusCancelled,
	GroupOrderStatusRejected,
}

// String implements fmt.Stringer.
func (s GroupOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known GroupOrderStatus.
func (s GroupOrderStatus) IsValid() bool {
	for _, candidate := range validGroupOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s GroupOrderStatus) IsTerminal() bool {
	switch s {
	case GroupOrderStatusDelivered, GroupOrderStatusCancelled, GroupOrderStatusRejected:
		return true
	}
	return false
}

// ParseGroupOrderStatus converts raw input into a GroupOrderStatus.
func ParseGroupOrderStatus(value string) (GroupOrderStatus, error) {
	for _, candidate := range validGroupOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid group order status %q", value)
}
