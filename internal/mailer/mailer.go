package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"avtobot/internal/app/config"
	"avtobot/internal/domain/entity"
)

// Mailer notifies moderators about ads waiting for review.
type Mailer interface {
	SendAdPendingEmail(ad *entity.Ad) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) SendAdPendingEmail(ad *entity.Ad) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.Moderator)
	msg.SetHeader("Subject", fmt.Sprintf("Новое объявление #%d ожидает модерации", ad.ID))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Объявление #%d от %s\n%s, %d ₽, %d г., %d км\nVIN: %s\nРегион: %s",
		ad.ID, ad.Sender, ad.Title, ad.Price, ad.YearCar, ad.MileageKm, ad.VINNumber, ad.Region))

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send moderation email for ad %d: %w", ad.ID, err)
	}
	return nil
}

// NopMailer is used when SMTP is not configured.
type NopMailer struct{}

func (NopMailer) SendAdPendingEmail(*entity.Ad) error { return nil }
