package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"

	"github.com/nhle/taskventure/internal/model"
)

// MailSink files fired reminders as messages in an IMAP mailbox, so they
// show up in any mail client synced with that account.
type MailSink struct {
	cfg      model.MailConfig
	password func() (string, error)
}

// NewMailSink returns a sink for cfg. password is called on every delivery
// so a rotated keyring entry is picked up without a restart.
func NewMailSink(cfg model.MailConfig, password func() (string, error)) *MailSink {
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	return &MailSink{cfg: cfg, password: password}
}

func (s *MailSink) Name() string { return "imap" }

// Deliver connects, appends the composed message and logs out.
func (s *MailSink) Deliver(ctx context.Context, n model.Notification) error {
	msg, err := ComposeMessage(s.cfg, n)
	if err != nil {
		return err
	}

	client, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Logout().Wait() }()

	// The mailbox may already exist; APPEND reports the real failure.
	_ = client.Create(s.cfg.Mailbox, nil).Wait()

	cmd := client.Append(s.cfg.Mailbox, int64(len(msg)), &imap.AppendOptions{
		Time: n.FireAt,
	})
	if _, err := cmd.Write(msg); err != nil {
		_ = cmd.Close()
		return fmt.Errorf("writing reminder %s: %w", n.ID, err)
	}
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("closing append for %s: %w", n.ID, err)
	}
	if _, err := cmd.Wait(); err != nil {
		return fmt.Errorf("appending reminder %s to %s: %w", n.ID, s.cfg.Mailbox, err)
	}
	return nil
}

func (s *MailSink) connect(_ context.Context) (*imapclient.Client, error) {
	addr := s.cfg.Host + ":" + s.cfg.Port

	var client *imapclient.Client
	var err error

	if s.cfg.TLS {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	password, err := s.password()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("reading IMAP password: %w", err)
	}

	if err := client.Login(s.cfg.Username, password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("authentication failed for %s: %w", s.cfg.Username, err)
	}

	return client, nil
}

// ComposeMessage renders n as a plain-text RFC 5322 message.
func ComposeMessage(cfg model.MailConfig, n model.Notification) ([]byte, error) {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	to := cfg.To
	if to == "" {
		to = from
	}

	var h mail.Header
	h.SetDate(n.FireAt)
	h.SetSubject(n.Title + ": " + n.Body)
	h.SetAddressList("From", []*mail.Address{{Name: "TaskVenture", Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	h.Set("X-TaskVenture-Reminder", n.ID)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generating message id: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating message writer: %w", err)
	}
	if _, err := io.WriteString(w, messageBody(n)); err != nil {
		return nil, fmt.Errorf("writing message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing message writer: %w", err)
	}
	return buf.Bytes(), nil
}

func messageBody(n model.Notification) string {
	var b strings.Builder
	b.WriteString(n.Title)
	b.WriteString("\n\n")
	if n.Subtitle != "" {
		b.WriteString(n.Subtitle)
		b.WriteString("\n")
	}
	b.WriteString(n.Body)
	b.WriteString("\n\nScheduled for ")
	b.WriteString(n.FireAt.Format(time.RFC1123))
	b.WriteString("\n")
	return b.String()
}
