package events

import (
	"fmt"

	"easyloan/internal/pkg/consts"
	"easyloan/internal/pkg/pubsub"
	"easyloan/internal/pkg/store/models"
)

// notificationFor renders the user-facing notification for event. Events
// without an applicant, like offers, notify nobody.
func notificationFor(event models.LoanEvent) (pubsub.UserNotification, bool) {
	if event.User == nil {
		return pubsub.UserNotification{}, false
	}

	n := pubsub.UserNotification{
		UserID:    event.User.Hex(),
		Type:      consts.NotificationTypeLoan,
		RefModel:  consts.NotificationRefLoan,
		RefID:     event.Loan.Hex(),
		EventType: event.EventType,
		CreatedAt: event.CreatedAt,
	}

	ref := event.ReferenceID
	switch event.EventType {
	case consts.EventLoanApplied:
		n.Message = fmt.Sprintf("Your loan application %s has been received", ref)
	case consts.EventLoanStatusChanged:
		n.Message = fmt.Sprintf("Your loan %s is now %v", ref, event.Payload["to"])
		if event.Payload["to"] == string(consts.LoanStatusDefaulted) {
			n.Type = consts.NotificationTypeWarning
		}
	case consts.EventLoanDisbursed:
		n.Message = fmt.Sprintf("Your loan %s has been disbursed", ref)
	case consts.EventLoanCompleted:
		n.Message = fmt.Sprintf("Congratulations, your loan %s is fully repaid", ref)
	case consts.EventRepaymentRecorded:
		n.Type = consts.NotificationTypeRepayment
		n.RefModel = consts.NotificationRefRepayment
		n.RefID = fmt.Sprint(event.Payload["repaymentId"])
		n.Message = fmt.Sprintf("Repayment of %v received for loan %s", event.Payload["amountPaid"], ref)
	case consts.EventRepaymentUpdated:
		n.Type = consts.NotificationTypeRepayment
		n.RefModel = consts.NotificationRefRepayment
		n.RefID = fmt.Sprint(event.Payload["repaymentId"])
		n.Message = fmt.Sprintf("A repayment on loan %s was updated", ref)
	case consts.EventRepaymentReversed:
		n.Type = consts.NotificationTypeWarning
		n.RefModel = consts.NotificationRefRepayment
		n.RefID = fmt.Sprint(event.Payload["repaymentId"])
		n.Message = fmt.Sprintf("A repayment of %v on loan %s was reversed", event.Payload["amountPaid"], ref)
	default:
		return pubsub.UserNotification{}, false
	}
	return n, true
}
