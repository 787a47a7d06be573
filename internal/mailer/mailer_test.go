package mailer

import (
	"testing"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laiysh/guestlist/config"
)

func testMailer() *Mailer {
	return New(&config.Config{
		SMTPHost:      "smtp.example.com",
		SMTPPort:      "587",
		MailFrom:      "noreply@example.com",
		EventName:     "Purim Party",
		EventDate:     "Thursday, March 5, 2026",
		EventTime:     "19:30",
		EventVenue:    "HaKishor 14, Holon",
		EventParking:  "Sayarim Center parking lot",
		EventDressing: "Costumes only",
		ContactLine:   "Questions? Call Itzik",
	})
}

func TestConfirmationMessage(t *testing.T) {
	m := testMailer()

	subject, body := m.confirmationMessage("Dana")

	assert.Contains(t, subject, "Purim Party")
	assert.Contains(t, body, "Dana")
	assert.Contains(t, body, "waiting for approval")
	assert.NotContains(t, body, "cid:qrcode", "confirmation mail carries no QR")
}

func TestApprovalMessage(t *testing.T) {
	m := testMailer()

	subject, body := m.approvalMessage("Dana")

	assert.Contains(t, subject, "QR")
	assert.Contains(t, body, "Dana")
	assert.Contains(t, body, `src="cid:qrcode.png"`, "QR image must be referenced inline")
	assert.Contains(t, body, "Thursday, March 5, 2026")
	assert.Contains(t, body, "HaKishor 14, Holon")
	assert.Contains(t, body, "Costumes only")
}

func TestRejectionMessage(t *testing.T) {
	m := testMailer()

	subject, body := m.rejectionMessage("Dana")

	assert.Contains(t, subject, "Purim Party")
	assert.Contains(t, body, "Dana")
	assert.Contains(t, body, "could not approve")
	assert.NotContains(t, body, "cid:qrcode")
}

func TestQRTokenEncodes(t *testing.T) {
	png, err := qrcode.Encode("0b9fdb8a-9ac0-4a6f-8f51-0e4cb7f27681", qrcode.Medium, 300)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestBadSMTPPortFallsBack(t *testing.T) {
	m := New(&config.Config{SMTPPort: "not-a-port"})
	assert.Equal(t, 587, m.dialer.Port)
}
