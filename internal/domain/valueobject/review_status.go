package valueobject

import (
	"errors"
	"fmt"
)

// ErrInvalidReviewTransition is returned when a review moves backwards or
// out of a terminal state.
var ErrInvalidReviewTransition = errors.New("invalid review status transition")

// ReviewStatus tracks the analyst workflow on a scored transaction.
type ReviewStatus struct {
	value string
}

var (
	ReviewStatusPending  = ReviewStatus{value: "PENDING"}
	ReviewStatusReviewed = ReviewStatus{value: "REVIEWED"}
	ReviewStatusApproved = ReviewStatus{value: "APPROVED"}
	ReviewStatusRejected = ReviewStatus{value: "REJECTED"}
)

// ReviewStatusFromString reconstructs a ReviewStatus from its string representation.
func ReviewStatusFromString(s string) (ReviewStatus, error) {
	switch s {
	case "PENDING":
		return ReviewStatusPending, nil
	case "REVIEWED":
		return ReviewStatusReviewed, nil
	case "APPROVED":
		return ReviewStatusApproved, nil
	case "REJECTED":
		return ReviewStatusRejected, nil
	default:
		return ReviewStatus{}, fmt.Errorf("invalid review status: %s", s)
	}
}

// IsTerminal reports whether no further review is possible.
func (s ReviewStatus) IsTerminal() bool {
	return s == ReviewStatusApproved || s == ReviewStatusRejected
}

// CanTransitionTo enforces PENDING -> REVIEWED -> APPROVED|REJECTED, with
// PENDING allowed to jump straight to a decision.
func (s ReviewStatus) CanTransitionTo(next ReviewStatus) bool {
	switch s {
	case ReviewStatusPending:
		return next == ReviewStatusReviewed || next.IsTerminal()
	case ReviewStatusReviewed:
		return next.IsTerminal()
	default:
		return false
	}
}

// TransitionTo validates and returns the next status.
func (s ReviewStatus) TransitionTo(next ReviewStatus) (ReviewStatus, error) {
	if !s.CanTransitionTo(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidReviewTransition, s, next)
	}
	return next, nil
}

func (s ReviewStatus) String() string { return s.value }

// IsZero returns true if the status has not been set.
func (s ReviewStatus) IsZero() bool { return s.value == "" }
