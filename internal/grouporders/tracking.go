package grouporders

import (
	"sort"
	"time"

	"github.com/mandilink/mandilink-backend/pkg/db/models"
	"github.com/mandilink/mandilink-backend/pkg/enums"
)

const (
	eventPlaced     = "Order Placed"
	eventProcessing = "Order Confirmed & Processing"
	eventDelivered  = "Delivered"

	processingLeadBeforeDelivery = 24 * time.Hour
)

// Projector derives a delivery timeline from stored order state. Nothing is
// persisted per event; the timeline is a pure function of the order row.
type Projector struct {
	now func() time.Time
}

// NewProjector builds a projector using the wall clock.
func NewProjector() *Projector {
	return &Projector{now: func() time.Time { return time.Now().UTC() }}
}

// Project computes the tracking view for one order.
//
// Delivered orders anchor the processing event 24 hours before the recorded
// delivery timestamp so the timeline reads sensibly after the fact. Completed
// orders stamp the processing event with the current time, so that entry
// shifts on every read until delivery fixes it in place. Every other status
// shows only the placed event.
func (p *Projector) Project(order *models.GroupOrder, productName string) TrackingInfo {
	events := []TrackingEvent{
		{Label: eventPlaced, Timestamp: order.CreatedAt},
	}

	switch order.Status {
	case enums.GroupOrderStatusDelivered:
		if order.DeliveryDate != nil {
			events = append(events,
				TrackingEvent{Label: eventProcessing, Timestamp: order.DeliveryDate.Add(-processingLeadBeforeDelivery)},
				TrackingEvent{Label: eventDelivered, Timestamp: *order.DeliveryDate},
			)
		}
	case enums.GroupOrderStatusCompleted:
		events = append(events, TrackingEvent{Label: eventProcessing, Timestamp: p.now()})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	return TrackingInfo{
		OrderID:           order.ID,
		ProductName:       productName,
		Status:            order.Status,
		EstimatedDelivery: estimatedDelivery(order),
		SupplierLocation:  order.SupplierLocation,
		Events:            events,
	}
}

// estimatedDelivery prefers the actual delivery timestamp once one exists.
func estimatedDelivery(order *models.GroupOrder) *time.Time {
	if order.DeliveryDate != nil {
		return order.DeliveryDate
	}
	return order.ExpectedDeliveryAt
}
