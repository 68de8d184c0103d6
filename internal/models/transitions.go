package models

// TransitionValidator decides whether a package may move from one status to
// another. The ledger consults it before every status update.
type TransitionValidator interface {
	Allow(from, to PackageStatus) bool
}

// AnyTransition accepts every move between known statuses. It is the default:
// the acting admin or courier is trusted to pick the right next status.
type AnyTransition struct{}

func (AnyTransition) Allow(from, to PackageStatus) bool {
	return from.Valid() && to.Valid()
}

// ForwardOnlyTransitions follows the physical delivery flow. A failed
// package may be re-queued; a delivered one is terminal.
type ForwardOnlyTransitions struct{}

var forwardGraph = map[PackageStatus][]PackageStatus{
	StatusPending:        {StatusPickedUp, StatusFailed},
	StatusPickedUp:       {StatusInTransit, StatusFailed},
	StatusInTransit:      {StatusInTransit, StatusOutForDelivery, StatusFailed},
	StatusOutForDelivery: {StatusInTransit, StatusDelivered, StatusFailed},
	StatusFailed:         {StatusPending, StatusPickedUp, StatusInTransit},
	StatusDelivered:      nil,
}

func (ForwardOnlyTransitions) Allow(from, to PackageStatus) bool {
	for _, next := range forwardGraph[from] {
		if next == to {
			return true
		}
	}
	return false
}
