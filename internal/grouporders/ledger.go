package grouporders

import (
	"time"

	"github.com/google/uuid"

	"github.com/mandilink/mandilink-backend/pkg/db/models"
	pkgerrors "github.com/mandilink/mandilink-backend/pkg/errors"
)

// Ledger maintains the ordered list of vendor contributions inside one group
// order. The aggregate total is always recomputed from the entries rather than
// kept as an independently mutated counter.
type Ledger struct {
	orderID uuid.UUID
	entries []models.GroupOrderParticipant
}

// NewLedger wraps the persisted participant rows of a single order.
func NewLedger(orderID uuid.UUID, entries []models.GroupOrderParticipant) *Ledger {
	copied := make([]models.GroupOrderParticipant, len(entries))
	copy(copied, entries)
	return &Ledger{orderID: orderID, entries: copied}
}

// AddOrIncrement adds quantity to an existing vendor entry, or appends a new
// entry when the vendor has not joined yet. It returns the touched entry and
// the recomputed total.
func (l *Ledger) AddOrIncrement(userID uuid.UUID, quantity int) (*models.GroupOrderParticipant, int, error) {
	if quantity <= 0 {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	for i := range l.entries {
		if l.entries[i].UserID == userID {
			l.entries[i].Quantity += quantity
			l.entries[i].UpdatedAt = time.Now().UTC()
			return &l.entries[i], l.Total(), nil
		}
	}

	entry := models.GroupOrderParticipant{
		ID:           uuid.New(),
		GroupOrderID: l.orderID,
		UserID:       userID,
		Quantity:     quantity,
	}
	l.entries = append(l.entries, entry)
	return &l.entries[len(l.entries)-1], l.Total(), nil
}

// SetQuantity overwrites one vendor's quantity with an absolute value. The
// vendor must already hold an entry.
func (l *Ledger) SetQuantity(userID uuid.UUID, quantity int) (*models.GroupOrderParticipant, int, error) {
	if quantity <= 0 {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	for i := range l.entries {
		if l.entries[i].UserID == userID {
			l.entries[i].Quantity = quantity
			l.entries[i].UpdatedAt = time.Now().UTC()
			return &l.entries[i], l.Total(), nil
		}
	}
	return nil, 0, pkgerrors.New(pkgerrors.CodeNotParticipant, "vendor has not joined this order")
}

// Total sums every entry. Recomputed on each call so the value can never
// drift from the entries themselves.
func (l *Ledger) Total() int {
	total := 0
	for _, entry := range l.entries {
		total += entry.Quantity
	}
	return total
}

// Contains reports whether the vendor holds an entry in this order.
func (l *Ledger) Contains(userID uuid.UUID) bool {
	for _, entry := range l.entries {
		if entry.UserID == userID {
			return true
		}
	}
	return false
}

// Entries returns the contribution list in join order.
func (l *Ledger) Entries() []models.GroupOrderParticipant {
	return l.entries
}
