package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laiysh/guestlist/internal/models"
)

type fakePublisher struct {
	keys []string
	jobs []Job
	err  error
}

func (f *fakePublisher) Publish(routingKey string, payload any) error {
	f.keys = append(f.keys, routingKey)
	f.jobs = append(f.jobs, payload.(Job))
	return f.err
}

func TestDispatcher_RoutingKeys(t *testing.T) {
	pub := &fakePublisher{}
	d := NewQueueDispatcher(pub)
	guest := &models.Guest{Name: "Dana", Email: "dana@x.com", QRToken: "tok-123"}

	d.Confirmation(guest)
	d.Approval(guest)
	d.Rejection(guest)

	assert.Equal(t, []string{"notify.confirmation", "notify.approval", "notify.rejection"}, pub.keys)
}

func TestDispatcher_ApprovalCarriesToken(t *testing.T) {
	pub := &fakePublisher{}
	d := NewQueueDispatcher(pub)

	d.Approval(&models.Guest{Name: "Dana", Email: "dana@x.com", QRToken: "tok-123"})

	require.Len(t, pub.jobs, 1)
	assert.Equal(t, "tok-123", pub.jobs[0].QRToken)
	assert.Equal(t, "dana@x.com", pub.jobs[0].Email)
}

func TestDispatcher_ConfirmationOmitsToken(t *testing.T) {
	pub := &fakePublisher{}
	d := NewQueueDispatcher(pub)

	d.Confirmation(&models.Guest{Name: "Dana", Email: "dana@x.com", QRToken: "tok-123"})

	require.Len(t, pub.jobs, 1)
	assert.Empty(t, pub.jobs[0].QRToken)
}

// A failed publish must never surface to the lifecycle operation.
func TestDispatcher_PublishFailureIsSwallowed(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker gone")}
	d := NewQueueDispatcher(pub)

	assert.NotPanics(t, func() {
		d.Approval(&models.Guest{Name: "Dana", Email: "dana@x.com"})
	})
}
