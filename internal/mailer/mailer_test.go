package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	sent []Message
	err  error
}

func (f *fakeTransport) Send(ctx context.Context, m Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

func validSubmission() Submission {
	return Submission{
		Name:    "Ada",
		Email:   "ada@example.com",
		Purpose: "job",
		Message: "Hello\nthere <b>friend</b>",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		in     Submission
		fields []string
	}{
		{"valid", validSubmission(), nil},
		{"all missing", Submission{}, []string{"name", "email", "purpose", "message"}},
		{"bad email", Submission{Name: "a", Email: "nope@x", Purpose: "job", Message: "m"}, []string{"email"}},
		{"whitespace only", Submission{Name: "  ", Email: "a@b.co", Purpose: "job", Message: "\n\t"}, []string{"name", "message"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in.Normalize())
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Fields, len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}
}

func TestPurposeLabel(t *testing.T) {
	assert.Equal(t, "Job Opportunity", PurposeLabel("job"))
	assert.Equal(t, "Project Collaboration", PurposeLabel("project"))
	assert.Equal(t, "Feedback", PurposeLabel("feedback"))
	assert.Equal(t, "Other Inquiry", PurposeLabel("other"))
	assert.Equal(t, "Website Contact", PurposeLabel("sponsorship"))
}

func TestCompose(t *testing.T) {
	m := Compose(validSubmission(), "site@example.com", "owner@example.com")

	assert.Equal(t, "Portfolio Contact: Job Opportunity from Ada", m.Subject)
	assert.Equal(t, "ada@example.com", m.ReplyTo)
	assert.Equal(t, "site@example.com", m.From)
	assert.Equal(t, "owner@example.com", m.To)
	assert.Contains(t, m.Text, "Purpose: Job Opportunity")
	assert.Contains(t, m.Text, "Hello\nthere <b>friend</b>")
	assert.Contains(t, m.HTML, "Hello<br>there &lt;b&gt;friend&lt;/b&gt;")
}

func TestRelaySubmit(t *testing.T) {
	ctx := context.Background()
	cfg := Config{User: "site@example.com", Pass: "secret", To: "owner@example.com"}

	t.Run("sends", func(t *testing.T) {
		tr := &fakeTransport{}
		res, err := NewRelay(cfg, tr).Submit(ctx, validSubmission())
		require.NoError(t, err)
		assert.True(t, res.Sent)
		assert.Equal(t, "Email sent successfully!", res.Message)
		require.Len(t, tr.sent, 1)
	})

	t.Run("invalid input sends nothing", func(t *testing.T) {
		tr := &fakeTransport{}
		_, err := NewRelay(cfg, tr).Submit(ctx, Submission{Name: "x"})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Empty(t, tr.sent)
	})

	t.Run("missing password degrades", func(t *testing.T) {
		tr := &fakeTransport{}
		noPass := cfg
		noPass.Pass = ""
		res, err := NewRelay(noPass, tr).Submit(ctx, validSubmission())
		require.NoError(t, err)
		assert.False(t, res.Sent)
		assert.Contains(t, res.Message, "EMAIL_PASS")
		assert.Empty(t, tr.sent)
	})

	t.Run("transport failure", func(t *testing.T) {
		tr := &fakeTransport{err: errors.New("connection refused")}
		_, err := NewRelay(cfg, tr).Submit(ctx, validSubmission())
		assert.ErrorIs(t, err, ErrSendFailed)
	})
}

func TestSMTPTransportRequiresPassword(t *testing.T) {
	err := (&SMTPTransport{Host: "localhost"}).Send(context.Background(), Compose(validSubmission(), "a@b.co", "c@d.co"))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSMTPTransportBuild(t *testing.T) {
	tr := &SMTPTransport{}
	_, err := tr.build(Compose(validSubmission(), "site@example.com", "owner@example.com"))
	assert.NoError(t, err)

	_, err = tr.build(Message{From: "not an address", To: "owner@example.com"})
	assert.Error(t, err)
}
