// internal/domain/models/approval.go
package models

// Approval status values for moderable resources (events and venues).
//
// Every moderable resource is created as "pending" and becomes publicly
// visible only once an admin approves it and the resource is active.
// Rejection always carries a reason; the reason is cleared on any
// transition away from "rejected".
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// ApprovalStatuses is the full set of allowed approval status values.
var ApprovalStatuses = []string{
	ApprovalPending,
	ApprovalApproved,
	ApprovalRejected,
}

// IsValidApprovalStatus reports whether s is a known approval status.
func IsValidApprovalStatus(s string) bool {
	for _, v := range ApprovalStatuses {
		if s == v {
			return true
		}
	}
	return false
}
