package service

import "cmcs/internal/models"

// transition resolves the status a decision moves a claim to. Approved and
// Rejected are terminal; each illegal move has its own conflict.
func transition(current models.ClaimStatus, decision models.Decision) (models.ClaimStatus, error) {
	switch decision {
	case models.DecisionApprove:
		switch current {
		case models.ClaimStatusPending:
			return models.ClaimStatusApproved, nil
		case models.ClaimStatusApproved:
			return "", ErrClaimAlreadyApproved
		case models.ClaimStatusRejected:
			return "", ErrRejectedClaimCannotBeApproved
		}
	case models.DecisionReject:
		switch current {
		case models.ClaimStatusPending:
			return models.ClaimStatusRejected, nil
		case models.ClaimStatusApproved:
			return "", ErrApprovedClaimCannotBeRejected
		case models.ClaimStatusRejected:
			return "", ErrClaimAlreadyRejected
		}
	default:
		return "", ErrUnknownDecision
	}
	return "", ErrUnknownStatus
}
