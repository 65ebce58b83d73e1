// Package credentials persists the login form's "remember me" state.
package credentials

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/segmentation-fault/forum/internal/core/domain"
	"github.com/segmentation-fault/forum/internal/core/ports"
)

const keySize = 32

var (
	ErrInvalidKey = errors.New("remember key must be 32 bytes, hex or base64 encoded")
	ErrSealed     = errors.New("remembered password cannot be opened with this key")
)

type record struct {
	Username string `json:"username"`
	Remember bool   `json:"remember"`
	// Password is the base64 secretbox output prefixed by its nonce.
	Password string `json:"password,omitempty"`
}

// FileStore keeps remembered credentials in a JSON file readable only by
// the owner. The password is stored only when a key is configured and then
// always sealed.
type FileStore struct {
	path string
	key  *[keySize]byte
}

var _ ports.CredentialStore = (*FileStore)(nil)

// NewFileStore returns a store at path. key may be empty, in which case
// passwords are never written.
func NewFileStore(path, key string) (*FileStore, error) {
	s := &FileStore{path: path}
	if key == "" {
		return s, nil
	}
	k, err := ParseKey(key)
	if err != nil {
		return nil, err
	}
	s.key = k
	return s, nil
}

// ParseKey decodes a 32-byte key given as hex or standard base64.
func ParseKey(s string) (*[keySize]byte, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		raw, err = base64.StdEncoding.DecodeString(s)
	}
	if err != nil || len(raw) != keySize {
		return nil, ErrInvalidKey
	}
	var k [keySize]byte
	copy(k[:], raw)
	return &k, nil
}

// Load returns the zero value when nothing was saved.
func (s *FileStore) Load(_ context.Context) (domain.RememberedCredentials, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.RememberedCredentials{}, nil
	}
	if err != nil {
		return domain.RememberedCredentials{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.RememberedCredentials{}, fmt.Errorf("decode %s: %w", s.path, err)
	}
	creds := domain.RememberedCredentials{Username: rec.Username, Remember: rec.Remember}
	if rec.Password != "" && s.key != nil {
		pw, err := s.open(rec.Password)
		if err != nil {
			return creds, err
		}
		creds.Password = pw
	}
	return creds, nil
}

func (s *FileStore) Save(_ context.Context, creds domain.RememberedCredentials) error {
	rec := record{Username: creds.Username, Remember: creds.Remember}
	if creds.Password != "" && s.key != nil {
		sealed, err := s.seal(creds.Password)
		if err != nil {
			return err
		}
		rec.Password = sealed
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(s.path), err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) seal(plain string) (string, error) {
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, s.key)
	return base64.StdEncoding.EncodeToString(box), nil
}

func (s *FileStore) open(sealed string) (string, error) {
	box, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(box) < 24+secretbox.Overhead {
		return "", ErrSealed
	}
	var nonce [24]byte
	copy(nonce[:], box[:24])
	plain, ok := secretbox.Open(nil, box[24:], &nonce, s.key)
	if !ok {
		return "", ErrSealed
	}
	return string(plain), nil
}
