package notify

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"
)

var templates = map[string]*template.Template{
	TemplateBookingCreated: template.Must(template.New("").Parse(
		"Hallo {{.customer_name}},\n\n" +
			"deine Buchung für {{.course_title}} am {{.session_date}} um {{.start_time}} Uhr ist eingegangen.\n" +
			"Wir melden uns, sobald sie bestätigt ist.\n\n" +
			"Deine Hundeschule")),
	TemplateBookingConfirmed: template.Must(template.New("").Parse(
		"Hallo {{.customer_name}},\n\n" +
			"deine Buchung für {{.course_title}} am {{.session_date}} um {{.start_time}} Uhr ist bestätigt.\n\n" +
			"Bis bald!\nDeine Hundeschule")),
	TemplateInvoiceCreated: template.Must(template.New("").Parse(
		"Hallo {{.customer_name}},\n\n" +
			"die Rechnung {{.invoice_number}} über {{.total_amount}} EUR wurde erstellt.\n" +
			"Zahlbar bis {{.due_date}}.\n\n" +
			"Deine Hundeschule")),
	TemplatePaymentReminder: template.Must(template.New("").Parse(
		"Hallo {{.customer_name}},\n\n" +
			"zur Rechnung {{.invoice_number}} über {{.total_amount}} EUR steht noch eine Zahlung aus.\n" +
			"Fällig war sie am {{.due_date}}.\n\n" +
			"Deine Hundeschule")),
}

var subjects = map[string]string{
	TemplateBookingCreated:   "Deine Buchung ist eingegangen",
	TemplateBookingConfirmed: "Deine Buchung ist bestätigt",
	TemplateInvoiceCreated:   "Neue Rechnung",
	TemplatePaymentReminder:  "Zahlungserinnerung",
}

// Mailer renders a job's template and delivers it over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *Mailer) Send(job EmailJob) error {
	body, subject, err := Render(job)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", job.Recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}

// Render produces the body and subject for a job without sending it.
func Render(job EmailJob) (body string, subject string, err error) {
	tmpl, ok := templates[job.Template]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", job.Template)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, job.Data); err != nil {
		return "", "", fmt.Errorf("render template %s: %w", job.Template, err)
	}

	return buf.String(), subjects[job.Template], nil
}
