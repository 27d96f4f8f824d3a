package logistics

import (
	"fmt"

	"github.com/greenchainz/greenchainz-api/internal/errors"
	"github.com/greenchainz/greenchainz-api/internal/models"
)

// Shipment status transition table. The happy path is linear; exception,
// returned and cancelled are side exits from any non-terminal state, and an
// exception may resume toward delivery. delivered, returned and cancelled
// are terminal.
var transitions = map[models.ShipmentStatus][]models.ShipmentStatus{
	models.StatusDraft: {
		models.StatusBooked,
		models.StatusException, models.StatusReturned, models.StatusCancelled,
	},
	models.StatusBooked: {
		models.StatusPickedUp,
		models.StatusException, models.StatusReturned, models.StatusCancelled,
	},
	models.StatusPickedUp: {
		models.StatusInTransit,
		models.StatusException, models.StatusReturned, models.StatusCancelled,
	},
	models.StatusInTransit: {
		models.StatusOutForDelivery,
		models.StatusException, models.StatusReturned, models.StatusCancelled,
	},
	models.StatusOutForDelivery: {
		models.StatusDelivered,
		models.StatusException, models.StatusReturned, models.StatusCancelled,
	},
	models.StatusException: {
		models.StatusInTransit, models.StatusOutForDelivery, models.StatusDelivered,
		models.StatusReturned, models.StatusCancelled,
	},
	models.StatusDelivered: {},
	models.StatusReturned:  {},
	models.StatusCancelled: {},
}

// ValidStatus reports whether status is a known shipment status
func ValidStatus(status models.ShipmentStatus) bool {
	_, ok := transitions[status]
	return ok
}

// IsTerminal reports whether status permits no further transitions
func IsTerminal(status models.ShipmentStatus) bool {
	next, ok := transitions[status]
	return ok && len(next) == 0
}

// CanTransition reports whether from -> to is a legal status change
func CanTransition(from, to models.ShipmentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a typed error when from -> to is illegal
func ValidateTransition(from, to models.ShipmentStatus) error {
	if !ValidStatus(to) {
		return errors.ValidationError(fmt.Sprintf("unknown shipment status %q", to), nil)
	}
	if !CanTransition(from, to) {
		return errors.InvalidTransition(fmt.Sprintf("cannot transition shipment from %s to %s", from, to))
	}
	return nil
}
