package credential

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"

	"github.com/nhle/taskventure/internal/model"
)

func TestIMAPPasswordPerAccount(t *testing.T) {
	s := NewStoreWithKeyring(keyring.NewArrayKeyring(nil))
	work := model.MailConfig{Host: "imap.example.com", Port: "993", Username: "ana"}
	home := model.MailConfig{Host: "imap.example.org", Port: "993", Username: "ana"}

	if _, err := s.IMAPPassword(work); !errors.Is(err, ErrNoIMAPPassword) {
		t.Fatalf("expected ErrNoIMAPPassword, got %v", err)
	}
	if err := s.SetIMAPPassword(work, ""); err == nil {
		t.Fatal("empty password should be rejected")
	}

	if err := s.SetIMAPPassword(work, "s3cret"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.PasswordFunc(work)()
	if err != nil || got != "s3cret" {
		t.Fatalf("got %q, %v", got, err)
	}
	if _, err := s.IMAPPassword(home); !errors.Is(err, ErrNoIMAPPassword) {
		t.Fatalf("other account should have no password, got %v", err)
	}

	if err := s.DeleteIMAPPassword(work); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteIMAPPassword(work); err != nil {
		t.Fatalf("deleting twice: %v", err)
	}
	if _, err := s.IMAPPassword(work); !errors.Is(err, ErrNoIMAPPassword) {
		t.Fatalf("expected ErrNoIMAPPassword after delete, got %v", err)
	}
}

func TestIMAPKey(t *testing.T) {
	cfg := model.MailConfig{Host: "imap.example.com", Port: "993", Username: "ana"}
	if got := IMAPKey(cfg); got != "imap:ana@imap.example.com:993" {
		t.Fatalf("IMAPKey = %q", got)
	}
}
