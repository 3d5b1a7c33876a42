package entity

import (
	"database/sql"
	"time"
)

// SendEmailRequest is an outbox row. Unsent rows are retried by the mail
// worker until they either send or accumulate an error message.
type SendEmailRequest struct {
	Id        int            `db:"id"`
	From      string         `db:"from_email"`
	To        string         `db:"to_email"`
	Html      string         `db:"html"`
	Subject   string         `db:"subject"`
	ReplyTo   string         `db:"reply_to"`
	Sent      bool           `db:"sent"`
	SentAt    sql.NullTime   `db:"sent_at"`
	CreatedAt time.Time      `db:"created_at"`
	ErrMsg    sql.NullString `db:"error_msg"`
}

// JoinConfirmation is the template payload for the auto-response email.
type JoinConfirmation struct {
	WaitlistName string
	Position     int
	ReferralCode string
	Message      string
}

// OwnerNotification is the template payload for the owner notify email.
type OwnerNotification struct {
	WaitlistName string
	JoinerEmail  string
	Position     int
}
