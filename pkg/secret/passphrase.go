// Package secret resolves the passphrase used for encrypted checkpoints.
// Lookup order: environment variable, OS keyring (generating and storing a
// fresh passphrase on first use), and finally an interactive terminal
// prompt for CLI flows where no keyring is available.
package secret

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const (
	keyringService = "savepoint"
	keyringUser    = "checkpoint-passphrase"
	envVar         = "SAVEPOINT_PASSPHRASE"
)

// ErrNoTerminal is returned by Prompt when stdin is not a terminal
var ErrNoTerminal = errors.New("stdin is not a terminal")

// Resolve returns the checkpoint encryption passphrase. The environment
// variable wins; otherwise the OS keyring is consulted, and a new random
// passphrase is generated and stored there on first use.
func Resolve() (string, error) {
	if pass := os.Getenv(envVar); pass != "" {
		return pass, nil
	}

	pass, err := keyring.Get(keyringService, keyringUser)
	if err == nil && pass != "" {
		return pass, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("keyring not available: %w", err)
	}

	pass = generatePassphrase()
	if err := keyring.Set(keyringService, keyringUser, pass); err != nil {
		return "", fmt.Errorf("failed to store passphrase in keyring: %w", err)
	}

	return pass, nil
}

// Forget removes the stored passphrase from the keyring
func Forget() error {
	err := keyring.Delete(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Prompt reads a passphrase from the terminal without echoing it
func Prompt(message string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNoTerminal
	}

	fmt.Fprint(os.Stderr, message)
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	if len(pass) == 0 {
		return "", errors.New("empty passphrase")
	}

	return string(pass), nil
}

// generatePassphrase generates a secure random passphrase
func generatePassphrase() string {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		// Fallback to less secure method
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return base64.URLEncoding.EncodeToString(b)
}
