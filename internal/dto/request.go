package dto

import "strconv"

// IntakeRequest is the public RSVP form payload. GuestCount arrives as a
// string because that is what the form submits; a malformed or non-positive
// value falls back to 1 rather than rejecting the request.
type IntakeRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	GuestCount string `json:"guest_count"`
	Note       string `json:"note"`
	Relation   string `json:"relation"`
}

func (r *IntakeRequest) ParsedGuestCount() int {
	n, err := strconv.Atoi(r.GuestCount)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

type SetStatusRequest struct {
	Action string `json:"action"`
}

type LookupRequest struct {
	QRToken string `json:"qr_token"`
}

// CheckInRequest commits a check-in. GuestCount, when positive, overrides the
// default of admitting everyone remaining.
type CheckInRequest struct {
	QRToken    string `json:"qr_token"`
	GuestCount *int   `json:"guest_count"`
}
