package consumer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/laiysh/guestlist/internal/mailer"
	"github.com/laiysh/guestlist/internal/notify"
)

var errUnknownKind = errors.New("unknown notification kind")

type NotificationConsumer struct {
	sender mailer.Sender
	log    zerolog.Logger
}

func NewNotificationConsumer(sender mailer.Sender) *NotificationConsumer {
	return &NotificationConsumer{
		sender: sender,
		log:    zerolog.New(os.Stdout).With().Timestamp().Str("component", "consumer").Logger(),
	}
}

// Start drains notification jobs and sends the matching email. Send failures
// are requeued so a flaky SMTP hop does not drop the notification.
func (nc *NotificationConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			nc.handleMessage(msg)
		}
		nc.log.Info().Msg("channel closed, stopping consumer")
	}()
}

func (nc *NotificationConsumer) handleMessage(msg amqp.Delivery) {
	var job notify.Job
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		nc.log.Error().Err(err).Msg("failed to unmarshal job")
		msg.Nack(false, false)
		return
	}

	switch err := nc.deliver(job); {
	case errors.Is(err, errUnknownKind):
		nc.log.Error().Str("kind", string(job.Kind)).Msg("dropping job with unknown kind")
		msg.Nack(false, false)
		return
	case err != nil:
		nc.log.Error().Err(err).
			Str("kind", string(job.Kind)).
			Str("email", job.Email).
			Msg("failed to send notification")
		msg.Nack(false, true) // requeue
		return
	}

	nc.log.Info().
		Str("kind", string(job.Kind)).
		Str("email", job.Email).
		Msg("notification sent")
	msg.Ack(false)
}

func (nc *NotificationConsumer) deliver(job notify.Job) error {
	switch job.Kind {
	case notify.KindConfirmation:
		return nc.sender.SendConfirmation(job.Email, job.Name)
	case notify.KindApproval:
		return nc.sender.SendApproval(job.Email, job.Name, job.QRToken)
	case notify.KindRejection:
		return nc.sender.SendRejection(job.Email, job.Name)
	default:
		return fmt.Errorf("%w: %q", errUnknownKind, job.Kind)
	}
}
