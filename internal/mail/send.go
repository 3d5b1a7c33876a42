package mail

import (
	"context"
	"fmt"

	"github.com/waitline/waitline-manager/internal/dependency"
	"github.com/waitline/waitline-manager/internal/entity"
)

const (
	JoinConfirmation  templateName = "join_confirmation.gohtml"
	OwnerNotification templateName = "owner_notification.gohtml"
)

var templateSubjects = map[templateName]string{
	JoinConfirmation:  "You're on the waitlist",
	OwnerNotification: "New waitlist signup",
}

// SendJoinConfirmation sends the auto-response email to a fresh joiner.
func (m *Mailer) SendJoinConfirmation(ctx context.Context, rep dependency.Repository, to string, d *entity.JoinConfirmation) error {
	if d.WaitlistName == "" || d.Position == 0 {
		return fmt.Errorf("incomplete join details: %+v", d)
	}
	ser, err := m.buildSendMailRequest(to, JoinConfirmation, d)
	if err != nil {
		return err
	}
	return m.sendWithInsert(ctx, rep, ser)
}

// SendOwnerNotification notifies the configured address about a new signup.
func (m *Mailer) SendOwnerNotification(ctx context.Context, rep dependency.Repository, to string, d *entity.OwnerNotification) error {
	if d.WaitlistName == "" || d.JoinerEmail == "" {
		return fmt.Errorf("incomplete notification details: %+v", d)
	}
	ser, err := m.buildSendMailRequest(to, OwnerNotification, d)
	if err != nil {
		return err
	}
	return m.sendWithInsert(ctx, rep, ser)
}
