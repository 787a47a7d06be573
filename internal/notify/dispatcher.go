package notify

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/laiysh/guestlist/internal/models"
)

type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindApproval     Kind = "approval"
	KindRejection    Kind = "rejection"
)

// Job is the payload queued for the notification consumer. The token rides
// along on approvals so the consumer can render the QR image.
type Job struct {
	Kind    Kind   `json:"kind"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	QRToken string `json:"qr_token,omitempty"`
}

func (k Kind) RoutingKey() string {
	return "notify." + string(k)
}

// Dispatcher hands notification jobs off for delivery. Implementations are
// best-effort: a failed dispatch never fails the lifecycle operation that
// triggered it.
type Dispatcher interface {
	Confirmation(guest *models.Guest)
	Approval(guest *models.Guest)
	Rejection(guest *models.Guest)
}

type publisher interface {
	Publish(routingKey string, payload any) error
}

type queueDispatcher struct {
	pub publisher
	log zerolog.Logger
}

// NewQueueDispatcher returns a Dispatcher that enqueues jobs on RabbitMQ.
// Delivery and retry are the consumer's problem.
func NewQueueDispatcher(pub publisher) Dispatcher {
	return &queueDispatcher{
		pub: pub,
		log: zerolog.New(os.Stdout).With().Timestamp().Str("component", "notify").Logger(),
	}
}

func (d *queueDispatcher) Confirmation(guest *models.Guest) {
	d.enqueue(Job{Kind: KindConfirmation, Email: guest.Email, Name: guest.Name})
}

func (d *queueDispatcher) Approval(guest *models.Guest) {
	d.enqueue(Job{Kind: KindApproval, Email: guest.Email, Name: guest.Name, QRToken: guest.QRToken})
}

func (d *queueDispatcher) Rejection(guest *models.Guest) {
	d.enqueue(Job{Kind: KindRejection, Email: guest.Email, Name: guest.Name})
}

func (d *queueDispatcher) enqueue(job Job) {
	if err := d.pub.Publish(job.Kind.RoutingKey(), job); err != nil {
		d.log.Error().Err(err).
			Str("kind", string(job.Kind)).
			Str("email", job.Email).
			Msg("failed to enqueue notification")
	}
}
