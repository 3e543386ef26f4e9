package constants

const (
	ReviewStatusReview   = "review"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// Review event actions, one per state transition.
const (
	ReviewActionSubmitted = "submitted"
	ReviewActionApproved  = "approved"
	ReviewActionRejected  = "rejected"
)

func IsReviewStatus(s string) bool {
	switch s {
	case ReviewStatusReview, ReviewStatusApproved, ReviewStatusRejected:
		return true
	}
	return false
}
