// Package keyring stores the notification bot token in the operating
// system's keyring, falling back to a 0600 file in the configuration
// directory when no keyring service is available.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// ErrNotFound is returned when no secret is stored.
var ErrNotFound = errors.New("keyring: secret not found")

// Store keeps a single secret.
type Store interface {
	Set(secret string) error
	Get() (string, error)
	Delete() error
}

// Keyring is a Store backed by the OS keyring.
type Keyring struct {
	Service string
	User    string
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
)

// NewKeyring returns the keyring entry holding the telegram bot token.
func NewKeyring() *Keyring {
	return &Keyring{
		Service: "autoattend",
		User:    "telegram-token",
	}
}

func (k *Keyring) Set(secret string) error {
	return keyringSet(k.Service, k.User, secret)
}

func (k *Keyring) Get() (string, error) {
	s, err := keyringGet(k.Service, k.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return s, err
}

func (k *Keyring) Delete() error {
	err := keyringDelete(k.Service, k.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Warner receives fallback warnings.
type Warner interface {
	Warning(format string, args ...interface{})
}

// Fallback tries the primary store and uses the secondary when the primary
// is unavailable. A secret missing from the primary is looked up in the
// secondary too, so a token written while the keyring was down stays readable.
type Fallback struct {
	primary   Store
	secondary Store
	warn      Warner
}

// NewFallback combines primary and secondary. warn may be nil.
func NewFallback(primary, secondary Store, warn Warner) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, warn: warn}
}

func (f *Fallback) Set(secret string) error {
	err := f.primary.Set(secret)
	if err == nil {
		return nil
	}
	f.warnf("system keyring unavailable (%v), storing token in file", err)
	if ferr := f.secondary.Set(secret); ferr != nil {
		return fmt.Errorf("keyring: %v; file: %w", err, ferr)
	}
	return nil
}

func (f *Fallback) Get() (string, error) {
	s, err := f.primary.Get()
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrNotFound) {
		f.warnf("system keyring unavailable (%v), reading token from file", err)
	}
	return f.secondary.Get()
}

// Delete removes the secret from both stores. Missing secrets are not an error.
func (f *Fallback) Delete() error {
	perr := f.primary.Delete()
	serr := f.secondary.Delete()
	if perr != nil && !errors.Is(perr, ErrNotFound) {
		f.warnf("system keyring unavailable: %v", perr)
	}
	if serr != nil && !errors.Is(serr, ErrNotFound) {
		return serr
	}
	return nil
}

func (f *Fallback) warnf(format string, args ...interface{}) {
	if f.warn != nil {
		f.warn.Warning(format, args...)
	}
}

var (
	_ Store = (*Keyring)(nil)
	_ Store = (*Fallback)(nil)
)
