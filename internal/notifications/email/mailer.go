package email

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"stayindia/pkg/config"
	"stayindia/pkg/model"
)

// Mailer sends guest-facing notification emails.
type Mailer interface {
	SendBookingConfirmation(event *model.BookingConfirmedEvent) error
	SendCheckInReminder(task *model.ReminderTask) error
}

type smtpMailer struct {
	dialer     *gomail.Dialer
	from       string
	senderName string
}

func NewSMTPMailer(cfg *config.Config) Mailer {
	return &smtpMailer{
		dialer:     gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:       cfg.SMTPFrom,
		senderName: cfg.SenderName,
	}
}

func (m *smtpMailer) SendBookingConfirmation(event *model.BookingConfirmedEvent) error {
	subject := fmt.Sprintf("Booking confirmed: %s", event.ListingTitle)
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your booking is confirmed.\n\n"+
			"Listing: %s\n"+
			"Check-in: %s\n"+
			"Check-out: %s\n"+
			"Nights: %d\n"+
			"Total price: %d\n\n"+
			"We look forward to hosting you.\n",
		event.GuestName,
		event.ListingTitle,
		event.CheckIn.Format(model.BookingDateLayout),
		event.CheckOut.Format(model.BookingDateLayout),
		event.Nights,
		event.TotalPrice,
	)

	return m.send(event.GuestEmail, subject, body)
}

func (m *smtpMailer) SendCheckInReminder(task *model.ReminderTask) error {
	subject := fmt.Sprintf("Check-in today: %s", task.ListingTitle)
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"A reminder that your stay at %s starts today.\n\n"+
			"Check-in: %s\n"+
			"Check-out: %s\n\n"+
			"Have a great trip!\n",
		task.GuestName,
		task.ListingTitle,
		task.CheckIn.Format(model.BookingDateLayout),
		task.CheckOut.Format(model.BookingDateLayout),
	)

	return m.send(task.GuestEmail, subject, body)
}

func (m *smtpMailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.from, m.senderName))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
