package lending

import (
	"time"

	"easyloan/internal/pkg/consts"
	"easyloan/internal/pkg/log_messages"
	custom "easyloan/internal/pkg/models"
	"easyloan/internal/pkg/store/models"
)

// Event is a lifecycle trigger. Every status change on a loan goes through Transition.
type Event string

const (
	EventApply    Event = "apply"
	EventApprove  Event = "approve"
	EventReject   Event = "reject"
	EventActivate Event = "activate"
	EventComplete Event = "complete"
	EventDefault  Event = "default"
	EventReopen   Event = "reopen"
)

type rule struct {
	from []consts.LoanStatus
	to   consts.LoanStatus
}

var transitions = map[Event]rule{
	EventApply:    {from: []consts.LoanStatus{""}, to: consts.LoanStatusPending},
	EventApprove:  {from: []consts.LoanStatus{consts.LoanStatusPending}, to: consts.LoanStatusApproved},
	EventReject:   {from: []consts.LoanStatus{consts.LoanStatusPending, consts.LoanStatusApproved}, to: consts.LoanStatusRejected},
	EventActivate: {from: []consts.LoanStatus{consts.LoanStatusPending, consts.LoanStatusApproved}, to: consts.LoanStatusActive},
	EventComplete: {from: []consts.LoanStatus{consts.LoanStatusActive}, to: consts.LoanStatusCompleted},
	EventDefault:  {from: []consts.LoanStatus{consts.LoanStatusActive}, to: consts.LoanStatusDefaulted},
	EventReopen:   {from: []consts.LoanStatus{consts.LoanStatusCompleted}, to: consts.LoanStatusActive},
}

// statusEvents maps an admin's requested status to the event that reaches it.
// Reopening is reserved for repayment reversal and has no entry.
var statusEvents = map[consts.LoanStatus]Event{
	consts.LoanStatusApproved:  EventApprove,
	consts.LoanStatusRejected:  EventReject,
	consts.LoanStatusActive:    EventActivate,
	consts.LoanStatusCompleted: EventComplete,
	consts.LoanStatusDefaulted: EventDefault,
}

// Transition returns the status reached by applying event to current, or a
// conflict error naming the current status.
func Transition(current consts.LoanStatus, event Event) (consts.LoanStatus, error) {
	r, ok := transitions[event]
	if !ok {
		return current, custom.NewConflictError(log_messages.InvalidTransition, current, event)
	}
	for _, from := range r.from {
		if from == current {
			return r.to, nil
		}
	}
	if current == r.to || (event == EventReject && current == consts.LoanStatusCompleted) {
		return current, custom.NewConflictError(log_messages.LoanAlreadyInStatus, current)
	}
	return current, custom.NewConflictError(log_messages.InvalidTransition, current, r.to)
}

// EventForStatus resolves an admin status update. Asking for the current status is a conflict.
func EventForStatus(current, target consts.LoanStatus) (Event, error) {
	if current == target {
		return "", custom.NewConflictError(log_messages.LoanAlreadyInStatus, current)
	}
	event, ok := statusEvents[target]
	if !ok {
		return "", custom.NewConflictError(log_messages.InvalidTransition, current, target)
	}
	return event, nil
}

// ApplyEvent moves the loan through Transition and stamps the dates the new status implies.
func ApplyEvent(loan *models.Loan, event Event, now time.Time) error {
	next, err := Transition(loan.Status, event)
	if err != nil {
		return err
	}
	loan.Status = next

	switch event {
	case EventActivate:
		loan.StartDate = &now
		loan.EndDate = nil
	case EventComplete:
		loan.EndDate = &now
	case EventDefault:
		loan.DefaultedAt = &now
	case EventReopen:
		loan.EndDate = nil
	}
	return nil
}
