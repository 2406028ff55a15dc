// Package credential stores API credentials for test runs in the system
// keyring, keyed by target host.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/99designs/keyring"
)

// ServiceName identifies this application to the system keyring.
const ServiceName = "schemathesis"

// Type is the kind of credential stored for a host.
type Type string

const (
	// TypeBearer is a bearer token sent as "Authorization: Bearer <token>".
	TypeBearer Type = "bearer"
	// TypeAPIKey is a raw API key sent in a configurable header.
	TypeAPIKey Type = "api_key"
	// TypeBasic is username/password basic authentication.
	TypeBasic Type = "basic"
)

// ErrNotFound is returned when no credential is stored for a host.
var ErrNotFound = errors.New("credential not found")

// Credential is one stored credential.
type Credential struct {
	Type     Type   `json:"type"`
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	// Header is the header name for API keys; defaults to "X-API-Key".
	Header string `json:"header,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Store persists credentials in a keyring.
type Store struct {
	ring keyring.Keyring
}

// Option configures a Store.
type Option func(*keyring.Config)

// WithFileBackend forces the encrypted file backend, storing entries under
// dir. Used in environments without a system keyring, and in tests.
func WithFileBackend(dir string, passwordFn func(string) (string, error)) Option {
	return func(cfg *keyring.Config) {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
		cfg.FileDir = dir
		cfg.FilePasswordFunc = passwordFn
	}
}

// NewStore opens the credential store.
func NewStore(opts ...Option) (*Store, error) {
	cfg := keyring.Config{
		ServiceName:              ServiceName,
		KeychainTrustApplication: true,
		LibSecretCollectionName:  ServiceName,
		KWalletAppID:             ServiceName,
		KWalletFolder:            ServiceName,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return &Store{ring: ring}, nil
}

// newStoreWithRing wires an arbitrary keyring, for tests.
func newStoreWithRing(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Set stores the credential for a host, replacing any previous one.
func (s *Store) Set(host string, cred Credential) error {
	if host == "" {
		return fmt.Errorf("host must not be empty")
	}
	now := time.Now()
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	if err := s.ring.Set(keyring.Item{Key: host, Data: data, Label: ServiceName + ": " + host}); err != nil {
		return fmt.Errorf("failed to store credential for %q: %w", host, err)
	}
	return nil
}

// Get retrieves the credential for a host.
func (s *Store) Get(host string) (*Credential, error) {
	item, err := s.ring.Get(host)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, fmt.Errorf("%q: %w", host, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read credential for %q: %w", host, err)
	}

	var cred Credential
	if err := json.Unmarshal(item.Data, &cred); err != nil {
		return nil, fmt.Errorf("failed to decode credential for %q: %w", host, err)
	}
	return &cred, nil
}

// Delete removes the credential for a host. Deleting a missing credential is
// not an error.
func (s *Store) Delete(host string) error {
	err := s.ring.Remove(host)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete credential for %q: %w", host, err)
	}
	return nil
}

// Hosts lists the hosts with stored credentials.
func (s *Store) Hosts() ([]string, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	return keys, nil
}

// Apply returns the header name and value implementing the credential.
func (c *Credential) Apply() (name, value string) {
	switch c.Type {
	case TypeBearer:
		return "Authorization", "Bearer " + c.Token
	case TypeAPIKey:
		header := c.Header
		if header == "" {
			header = "X-API-Key"
		}
		return header, c.Token
	case TypeBasic:
		return "Authorization", "Basic " + basicAuth(c.Username, c.Password)
	default:
		return "", ""
	}
}
