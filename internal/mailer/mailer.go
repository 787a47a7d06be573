package mailer

import (
	"fmt"
	"io"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"
	"gopkg.in/gomail.v2"

	"github.com/laiysh/guestlist/config"
)

// Sender delivers the three lifecycle emails. The approval mail carries a
// scannable QR image of the guest's token; the other two are plain HTML.
type Sender interface {
	SendConfirmation(to, name string) error
	SendApproval(to, name, qrToken string) error
	SendRejection(to, name string) error
}

type Mailer struct {
	dialer *gomail.Dialer
	from   string
	cfg    *config.Config
}

func New(cfg *config.Config) *Mailer {
	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		port = 587
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, port, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.MailFrom,
		cfg:    cfg,
	}
}

const confirmationBody = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="font-weight: 300;">Hi %s!</h2>
  <p>We received your request to join %s.</p>
  <p>Your request is waiting for approval. We will send you another email with a QR code as soon as it is approved.</p>
  <p style="color: #9ca3af; font-size: 13px;">Full event details will be sent with the approval.</p>
  <p style="color: #9ca3af; font-size: 12px;">%s</p>
</div>`

const approvalBody = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; text-align: center;">
  <h2 style="color: #007272; font-weight: 400;">%s, you're in!</h2>
  <p>Your request was approved. See you at %s!</p>
  <div style="background: #f9fafb; padding: 24px; display: inline-block; border: 1px solid #e5e7eb;">
    <img src="cid:qrcode.png" alt="QR Code" style="width: 200px; height: 200px;" />
  </div>
  <p style="color: #b45309; font-weight: bold;">Keep this code! You will need to show it at the entrance.</p>
  <div style="background: #f9fafb; border: 1px solid #e5e7eb; padding: 20px; text-align: left;">
    <p style="margin: 0;">Date: %s</p>
    <p style="margin: 10px 0 0 0;">Time: %s</p>
    <p style="margin: 10px 0 0 0;">Venue: %s</p>
    <p style="margin: 10px 0 0 0;">Parking: %s</p>
    <p style="margin: 10px 0 0 0; color: #007272; font-weight: bold;">Dress code: %s</p>
  </div>
  <p style="color: #9ca3af; font-size: 12px;">%s</p>
</div>`

const rejectionBody = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="font-weight: 300;">Hi %s,</h2>
  <p>Unfortunately we could not approve your request for %s this time.</p>
  <p>Thank you for your interest, and we hope to see you at a future event.</p>
  <p style="color: #9ca3af; font-size: 12px;">%s</p>
</div>`

func (m *Mailer) SendConfirmation(to, name string) error {
	subject, body := m.confirmationMessage(name)
	return m.send(to, subject, body, nil)
}

func (m *Mailer) SendApproval(to, name, qrToken string) error {
	png, err := qrcode.Encode(qrToken, qrcode.Medium, 300)
	if err != nil {
		return fmt.Errorf("encode qr: %w", err)
	}

	subject, body := m.approvalMessage(name)
	return m.send(to, subject, body, png)
}

func (m *Mailer) SendRejection(to, name string) error {
	subject, body := m.rejectionMessage(name)
	return m.send(to, subject, body, nil)
}

func (m *Mailer) confirmationMessage(name string) (string, string) {
	subject := fmt.Sprintf("We got your request - %s", m.cfg.EventName)
	body := fmt.Sprintf(confirmationBody, name, m.cfg.EventName, m.cfg.ContactLine)
	return subject, body
}

func (m *Mailer) approvalMessage(name string) (string, string) {
	subject := fmt.Sprintf("You're approved! Here is your QR - %s", m.cfg.EventName)
	body := fmt.Sprintf(approvalBody,
		name, m.cfg.EventName,
		m.cfg.EventDate, m.cfg.EventTime, m.cfg.EventVenue,
		m.cfg.EventParking, m.cfg.EventDressing,
		m.cfg.ContactLine,
	)
	return subject, body
}

func (m *Mailer) rejectionMessage(name string) (string, string) {
	subject := fmt.Sprintf("About your request - %s", m.cfg.EventName)
	body := fmt.Sprintf(rejectionBody, name, m.cfg.EventName, m.cfg.ContactLine)
	return subject, body
}

func (m *Mailer) send(to, subject, body string, qrPNG []byte) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.cfg.EventName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if qrPNG != nil {
		msg.Embed("qrcode.png", gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(qrPNG)
			return err
		}))
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
