package credential

import (
	"errors"
	"fmt"
	"sync"

	"github.com/99designs/keyring"

	"github.com/nhle/taskventure/internal/model"
)

const serviceName = "taskventure"

// ErrNoIMAPPassword is returned when no password is stored for the mailbox.
var ErrNoIMAPPassword = errors.New("no IMAP password stored; run `taskventure credential set-imap`")

// Store keeps the reminder mailbox password in the system keyring. Entries
// are keyed per account so switching mailboxes in the config does not reuse
// another account's secret.
type Store struct {
	open func() (keyring.Keyring, error)

	once sync.Once
	ring keyring.Keyring
	err  error
}

// NewStore returns a Store backed by the system keyring. The file backend,
// used when no OS keyring is available, keeps its items under fileDir.
// The keyring is opened on first use.
func NewStore(fileDir string) *Store {
	return &Store{open: func() (keyring.Keyring, error) {
		return keyring.Open(keyring.Config{
			ServiceName: serviceName,
			AllowedBackends: []keyring.BackendType{
				keyring.KeychainBackend,
				keyring.SecretServiceBackend,
				keyring.WinCredBackend,
				keyring.PassBackend,
				keyring.FileBackend,
			},
			FileDir:                  fileDir,
			FilePasswordFunc:         keyring.FixedStringPrompt("taskventure-file-key"),
			KeychainTrustApplication: true,
		})
	}}
}

// NewStoreWithKeyring returns a Store over an already opened keyring.
func NewStoreWithKeyring(ring keyring.Keyring) *Store {
	return &Store{open: func() (keyring.Keyring, error) { return ring, nil }}
}

func (s *Store) keyring() (keyring.Keyring, error) {
	s.once.Do(func() {
		s.ring, s.err = s.open()
		if s.err != nil {
			s.err = fmt.Errorf("opening keyring: %w", s.err)
		}
	})
	return s.ring, s.err
}

// IMAPKey names the keyring entry for the mailbox account in cfg.
func IMAPKey(cfg model.MailConfig) string {
	return fmt.Sprintf("imap:%s@%s:%s", cfg.Username, cfg.Host, cfg.Port)
}

// IMAPPassword returns the stored password for the account in cfg.
func (s *Store) IMAPPassword(cfg model.MailConfig) (string, error) {
	ring, err := s.keyring()
	if err != nil {
		return "", err
	}
	item, err := ring.Get(IMAPKey(cfg))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNoIMAPPassword
	}
	if err != nil {
		return "", fmt.Errorf("reading IMAP password: %w", err)
	}
	return string(item.Data), nil
}

// SetIMAPPassword stores password for the account in cfg, replacing any
// previous one.
func (s *Store) SetIMAPPassword(cfg model.MailConfig, password string) error {
	if password == "" {
		return errors.New("password is required")
	}
	ring, err := s.keyring()
	if err != nil {
		return err
	}
	err = ring.Set(keyring.Item{
		Key:         IMAPKey(cfg),
		Data:        []byte(password),
		Label:       "TaskVenture reminders (" + cfg.Username + ")",
		Description: "Password of the mailbox reminders are appended to",
	})
	if err != nil {
		return fmt.Errorf("saving IMAP password: %w", err)
	}
	return nil
}

// DeleteIMAPPassword removes the stored password for the account in cfg.
// Removing a password that was never stored is not an error.
func (s *Store) DeleteIMAPPassword(cfg model.MailConfig) error {
	ring, err := s.keyring()
	if err != nil {
		return err
	}
	if err := ring.Remove(IMAPKey(cfg)); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting IMAP password: %w", err)
	}
	return nil
}

// PasswordFunc binds the store to one account, in the shape MailSink
// expects.
func (s *Store) PasswordFunc(cfg model.MailConfig) func() (string, error) {
	return func() (string, error) { return s.IMAPPassword(cfg) }
}
