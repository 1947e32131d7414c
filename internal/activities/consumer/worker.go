// Package consumer wires reservation lifecycle events into the workload
// ledger so that fairness reports reflect facility usage alongside chores.
package consumer

import (
	"context"
	"fmt"

	"paddock/internal/activities/service"
	"paddock/pkg/kafka"
	"paddock/pkg/logger"
	"paddock/pkg/model"
)

// NewReservationEventHandler returns a MessageHandler that credits (or, for
// cancellations, debits) workload points for each reservation event. Decode
// failures are returned so the consumer routes the message to the DLQ;
// crediting errors are likewise retried by the consumer before dead-lettering.
func NewReservationEventHandler(svc service.ActivityService, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event model.ReservationEvent
		if err := msg.DecodeValue(&event); err != nil {
			return fmt.Errorf("decoding reservation event: %w", err)
		}

		if err := svc.CreditReservation(ctx, &event); err != nil {
			log.Error("failed to credit reservation event",
				"reservation_id", event.ReservationID,
				"stable_id", event.StableID,
				"type", event.Type,
				"error", err)
			return err
		}

		log.Debug("credited reservation event",
			"reservation_id", event.ReservationID,
			"stable_id", event.StableID,
			"type", event.Type)
		return nil
	}
}
