package constants

const (
	RMAStatusPending    = "pending"
	RMAStatusInProgress = "in-progress"
	RMAStatusCompleted  = "completed"
	RMAStatusCancelled  = "cancelled"

	// New RMAs start in progress, matching the intake form default.
	RMAStatusDefault = RMAStatusInProgress
)

var RMAStatuses = []string{
	RMAStatusPending,
	RMAStatusInProgress,
	RMAStatusCompleted,
	RMAStatusCancelled,
}

func IsValidRMAStatus(status string) bool {
	for _, s := range RMAStatuses {
		if s == status {
			return true
		}
	}
	return false
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
