package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// sendMail delivers an HTML email through the configured SMTP relay.
// Returns an error without sending when SMTP is not configured.
func sendMail(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return fmt.Errorf("SMTP not configured, skipping email to %s", to)
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_FROM"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(host, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendPurchaseConfirmation emails the buyer after a completed trade
func SendPurchaseConfirmation(to, itemName, orderNumber string, price float64) error {
	body := fmt.Sprintf(`
		<h2>Your CardNest purchase is complete!</h2>
		<p><strong>%s</strong> has been added to your collection.</p>
		<p>Order number: %s</p>
		<p>Amount paid: R%.2f</p>
		<p>You can view your order and download a receipt from your account.</p>
	`, itemName, orderNumber, price)
	return sendMail(to, "Your CardNest order "+orderNumber, body)
}
