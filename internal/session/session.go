// Package session gates access to the vault behind the master password:
// first-run setup and the bounded verification flow.
package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mkravets/passvault/internal/hasher"
	"github.com/mkravets/passvault/internal/models"
)

// MaxAttempts is the number of master-password attempts allowed before the
// session locks.
const MaxAttempts = 3

// State describes where the session is in its lifecycle.
type State int

const (
	// Unauthenticated is the initial state: no successful verification yet.
	Unauthenticated State = iota
	// Authenticated means the master password was verified; vault
	// operations are allowed.
	Authenticated
	// Locked means the attempt budget was exhausted. The process should
	// exit without exposing the vault.
	Locked
)

// SecretReader reads a password from the user without echoing it.
type SecretReader interface {
	Secret(label string) (string, error)
}

// Store defines the persistence operation the setup flow needs.
type Store interface {
	Save(vf *models.VaultFile) error
}

// Session verifies the master password against a vault file's stored digest.
type Session struct {
	hash  hasher.Hasher
	store Store
	log   *zap.Logger
	state State
}

// New constructs an unauthenticated Session.
func New(h hasher.Hasher, store Store, log *zap.Logger) *Session {
	return &Session{hash: h, store: store, log: log, state: Unauthenticated}
}

// State returns the current session state.
func (s *Session) State() State {
	return s.state
}

// Setup runs the first-run flow: it keeps asking for a master password and
// its confirmation until the two match (the loop is deliberately unbounded;
// the retry cap applies to verification only), then creates an empty vault
// file with the password's digest, persists it and authenticates the session.
func (s *Session) Setup(read SecretReader) (*models.VaultFile, error) {
	fmt.Println("=== First Time Setup ===")

	var master string
	for {
		m, err := read.Secret("Create a master password: ")
		if err != nil {
			return nil, fmt.Errorf("read master password: %w", err)
		}
		confirm, err := read.Secret("Confirm master password: ")
		if err != nil {
			return nil, fmt.Errorf("read confirmation: %w", err)
		}
		if m == "" {
			fmt.Println("Master password must not be empty. Try again.")
			fmt.Println()
			continue
		}
		if m == confirm {
			master = m
			break
		}
		fmt.Println("Passwords do not match. Try again.")
		fmt.Println()
	}

	vf := models.NewVaultFile(s.hash.Digest(master))
	if err := s.store.Save(vf); err != nil {
		return nil, fmt.Errorf("save new vault: %w", err)
	}

	s.state = Authenticated
	s.log.Info("vault created")
	fmt.Println("Master password created successfully!")
	fmt.Println()
	return vf, nil
}

// Verify asks for the master password up to MaxAttempts times and compares
// each attempt's digest against the stored one. It returns true on the first
// match and authenticates the session; after MaxAttempts misses the session
// locks and Verify returns false.
//
// The comparison is plain string equality, not constant-time. That is
// faithful to the legacy behavior; for a local single-user vault the timing
// channel is a documented weakness rather than a practical one.
func (s *Session) Verify(vf *models.VaultFile, read SecretReader) bool {
	fmt.Println("=== Password Manager Login ===")

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		input, err := read.Secret("Enter master password: ")
		if err != nil {
			s.log.Error("cannot read master password", zap.Error(err))
			break
		}
		if s.hash.Digest(input) == vf.MasterHash {
			s.state = Authenticated
			fmt.Println("Access granted!")
			fmt.Println()
			return true
		}
		remaining := MaxAttempts - attempt
		s.log.Warn("master password attempt failed", zap.Int("remaining", remaining))
		fmt.Printf("Incorrect password. %d attempt(s) remaining.\n", remaining)
	}

	s.state = Locked
	fmt.Println("Too many failed attempts. Exiting.")
	return false
}
