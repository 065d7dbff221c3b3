package credentials

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	apperrors "github.com/jrsteele09/go-inventory-dashboard/internal/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

const sealedPrefix = "v1."

// Sealed wraps a Backend so values are encrypted with XChaCha20-Poly1305
// before they reach it. The namespace and key are bound as associated data,
// so a sealed value cannot be moved to another slot.
func Sealed(inner Backend, key []byte) (Backend, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidSealedKey, "chacha20poly1305: %v", err)
	}
	return &sealedBackend{inner: inner, aead: aead}, nil
}

type sealedBackend struct {
	inner Backend
	aead  cipher.AEAD
}

func (b *sealedBackend) Scope(namespace string) Storage {
	return &sealedStorage{inner: b.inner.Scope(namespace), aead: b.aead, namespace: namespace}
}

type sealedStorage struct {
	inner     Storage
	aead      cipher.AEAD
	namespace string
}

func (s *sealedStorage) additionalData(key string) []byte {
	return []byte(s.namespace + "/" + key)
}

func (s *sealedStorage) Get(ctx context.Context, key string) (string, bool, error) {
	sealed, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	if !strings.HasPrefix(sealed, sealedPrefix) {
		return "", false, fmt.Errorf("credential %q is not sealed", key)
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	if err != nil {
		return "", false, fmt.Errorf("decode sealed %q: %w", key, err)
	}
	nonceSize := s.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", false, fmt.Errorf("sealed %q too short", key)
	}
	plain, err := s.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], s.additionalData(key))
	if err != nil {
		return "", false, fmt.Errorf("open sealed %q: %w", key, err)
	}
	return string(plain), true, nil
}

func (s *sealedStorage) Set(ctx context.Context, items map[string]string) error {
	sealed := make(map[string]string, len(items))
	for k, v := range items {
		nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(v)+s.aead.Overhead())
		if _, err := rand.Read(nonce); err != nil {
			return fmt.Errorf("nonce: %w", err)
		}
		out := s.aead.Seal(nonce, nonce, []byte(v), s.additionalData(k))
		sealed[k] = sealedPrefix + base64.RawURLEncoding.EncodeToString(out)
	}
	return s.inner.Set(ctx, sealed)
}

func (s *sealedStorage) Delete(ctx context.Context, keys ...string) error {
	return s.inner.Delete(ctx, keys...)
}
