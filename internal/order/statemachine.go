package order

import (
	"time"

	"townbasket-be/internal/apperr"
	"townbasket-be/internal/user"
)

// Actor is the authenticated principal attempting a transition.
type Actor struct {
	UID  string
	Role string
}

// statusAny marks an edge usable from every non-terminal state.
const statusAny Status = "*"

// transition is one edge of the order status graph: who may take it and
// under what condition. The table below is the single source of truth; Apply
// is the only code that writes Status and the transition timestamps.
type transition struct {
	from  Status
	to    Status
	actor func(o *Order, a Actor) bool
	guard func(o *Order, note string) error
}

func isOwner(o *Order, a Actor) bool {
	return a.UID != "" && a.UID == o.ShopOwnerUID
}

func isAdmin(_ *Order, a Actor) bool {
	return a.Role == user.RoleAdmin
}

func isOwnerOrAssignedRider(o *Order, a Actor) bool {
	return isOwner(o, a) || (a.Role == user.RoleDelivery && o.AssignedTo(a.UID))
}

func requireReason(_ *Order, note string) error {
	if note == "" {
		return apperr.E(apperr.Validation, "a cancellation reason is required")
	}
	return nil
}

func requireRider(o *Order, _ string) error {
	if !o.Assigned() {
		return apperr.E(apperr.InvalidTransition, "no delivery partner assigned")
	}
	return nil
}

var transitions = []transition{
	{from: StatusPending, to: StatusConfirmed, actor: isOwner},
	{from: StatusPending, to: StatusCancelled, actor: isOwner, guard: requireReason},
	{from: StatusConfirmed, to: StatusPreparing, actor: isOwner},
	{from: StatusPreparing, to: StatusReady, actor: isOwner},
	{from: StatusPreparing, to: StatusOutForDelivery, actor: isOwner, guard: requireRider},
	{from: StatusReady, to: StatusOutForDelivery, actor: isOwner, guard: requireRider},
	// Self-delivered: the seller hands the order over without a rider.
	{from: StatusReady, to: StatusDelivered, actor: isOwner},
	{from: StatusOutForDelivery, to: StatusDelivered, actor: isOwnerOrAssignedRider},
	// Administrative cancellation from any live state.
	{from: statusAny, to: StatusCancelled, actor: isAdmin, guard: requireReason},
}

// Apply validates the requested transition against the table and, on success,
// mutates the order in place: status, the matching timestamp, and the seller
// note when one is given. Prior status is not retained; history is implicit
// in the timestamps.
func Apply(o *Order, to Status, a Actor, note string, now time.Time) error {
	if !ValidStatus(to) {
		return apperr.Ef(apperr.Validation, "unknown status %q", to)
	}

	var edges []transition
	for _, t := range transitions {
		if t.to != to {
			continue
		}
		if t.from == o.Status || (t.from == statusAny && !o.Status.Terminal()) {
			edges = append(edges, t)
		}
	}
	if len(edges) == 0 {
		return apperr.Ef(apperr.InvalidTransition,
			"cannot move order from %s to %s", o.Status, to)
	}

	var edge *transition
	for i := range edges {
		if edges[i].actor(o, a) {
			edge = &edges[i]
			break
		}
	}
	if edge == nil {
		return apperr.E(apperr.Forbidden, "not allowed to perform this transition")
	}

	if edge.guard != nil {
		if err := edge.guard(o, note); err != nil {
			return err
		}
	}

	o.Status = to
	if note != "" {
		o.SellerNote = &note
	}

	switch to {
	case StatusConfirmed:
		o.ConfirmedAt = &now
	case StatusPreparing:
		o.PreparingAt = &now
	case StatusReady:
		o.ReadyAt = &now
	case StatusOutForDelivery:
		o.DispatchedAt = &now
	case StatusDelivered:
		o.DeliveredAt = &now
		o.PaymentStatus = PaymentStatusPaid
	case StatusCancelled:
		o.CancelledAt = &now
	}

	return nil
}
