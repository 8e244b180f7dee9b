// internal/mailer/mailer.go
//
// Contact form relay.
// Responsibilities:
//   - Validate and normalise a contact submission.
//   - Compose the notification mail (plain text + HTML, reply-to submitter).
//   - Hand the message to a Transport (SMTP in production).
//
// Error taxonomy:
//   - Validation failure: *ValidationError with per-field messages, nothing sent.
//   - Missing credentials: degraded success, Result.Sent=false with a note.
//   - Transport failure: ErrSendFailed wrapping the cause. No retries.

package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	ErrNotConfigured = errors.New("mailer: credentials not configured")
	ErrSendFailed    = errors.New("mailer: send failed")
)

// Submission is the contact form payload.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	Message string `json:"message"`
}

// ValidationError lists the offending fields and a message for each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return "mailer: invalid fields: " + strings.Join(names, ", ")
}

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Normalize trims every field.
func (s Submission) Normalize() Submission {
	return Submission{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Purpose: strings.TrimSpace(s.Purpose),
		Message: strings.TrimSpace(s.Message),
	}
}

// Validate checks a normalised submission.
func Validate(s Submission) error {
	fields := make(map[string]string)
	if s.Name == "" {
		fields["name"] = "Name is required"
	}
	switch {
	case s.Email == "":
		fields["email"] = "Email is required"
	case !emailRe.MatchString(s.Email):
		fields["email"] = "Please enter a valid email address"
	}
	if s.Purpose == "" {
		fields["purpose"] = "Please select a purpose"
	}
	if s.Message == "" {
		fields["message"] = "Message is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

var purposeLabels = map[string]string{
	"job":      "Job Opportunity",
	"project":  "Project Collaboration",
	"feedback": "Feedback",
	"other":    "Other Inquiry",
}

// PurposeLabel maps a purpose code to its display label.
func PurposeLabel(purpose string) string {
	if l, ok := purposeLabels[purpose]; ok {
		return l
	}
	return "Website Contact"
}

// Message is a composed mail ready for a Transport.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Compose renders the notification for s.
func Compose(s Submission, from, to string) Message {
	purpose := PurposeLabel(s.Purpose)

	text := fmt.Sprintf("Name: %s\nEmail: %s\nPurpose: %s\n\nMessage:\n%s\n",
		s.Name, s.Email, purpose, s.Message)

	body := strings.ReplaceAll(html.EscapeString(s.Message), "\n", "<br>")
	htmlBody := fmt.Sprintf(`<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Purpose:</strong> %s</p>
<h3>Message:</h3>
<p>%s</p>
`, html.EscapeString(s.Name), html.EscapeString(s.Email), html.EscapeString(purpose), body)

	return Message{
		From:    from,
		To:      to,
		ReplyTo: s.Email,
		Subject: fmt.Sprintf("Portfolio Contact: %s from %s", purpose, s.Name),
		Text:    text,
		HTML:    htmlBody,
	}
}

// Transport delivers a composed message.
type Transport interface {
	Send(ctx context.Context, m Message) error
}

// Config holds the relay's mail settings.
type Config struct {
	User string // sender account, also the From address
	Pass string
	To   string
	Host string
	Port int
}

// Result is reported back to the form.
type Result struct {
	Sent    bool   `json:"success"`
	Message string `json:"message"`
}

const notConfiguredNote = "Email configuration is incomplete. Please set up EMAIL_PASS environment variable."

// Relay validates submissions and forwards them by mail.
type Relay struct {
	cfg       Config
	transport Transport
}

// NewRelay builds a relay. A nil transport sends over SMTP using cfg.
func NewRelay(cfg Config, t Transport) *Relay {
	if t == nil {
		t = &SMTPTransport{Host: cfg.Host, Port: cfg.Port, Username: cfg.User, Password: cfg.Pass}
	}
	return &Relay{cfg: cfg, transport: t}
}

// Submit validates s and sends it once.
func (r *Relay) Submit(ctx context.Context, s Submission) (Result, error) {
	s = s.Normalize()
	if err := Validate(s); err != nil {
		return Result{}, err
	}
	msg := Compose(s, r.cfg.User, r.cfg.To)

	if r.cfg.Pass == "" {
		log.Warn().
			Str("subject", msg.Subject).
			Str("reply_to", msg.ReplyTo).
			Msg("EMAIL_PASS not set; contact message not sent")
		return Result{Sent: false, Message: notConfiguredNote}, nil
	}

	if err := r.transport.Send(ctx, msg); err != nil {
		log.Error().Err(err).Str("subject", msg.Subject).Msg("send contact email")
		return Result{}, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	log.Info().Str("subject", msg.Subject).Msg("contact email sent")
	return Result{Sent: true, Message: "Email sent successfully!"}, nil
}
