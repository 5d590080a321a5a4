package storage

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/Klingon-tech/hdvault/internal/log"
	"github.com/Klingon-tech/hdvault/internal/session"
)

// Encryption constants.
const (
	SaltSize = 32
	// Seal header: [salt(32)][memory(4)][iterations(4)][parallelism(1)][nonce(24)][ciphertext...]
	headerSize = SaltSize + 4 + 4 + 1

	// SealKey holds the key derivation header. It is never encrypted.
	SealKey = "seal"
)

// sealCheck is encrypted into the header to detect a wrong passphrase.
var sealCheck = []byte("hdvault seal v1")

// ErrWrongPassphrase is returned when the passphrase does not open the
// seal header.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// Params holds Argon2id parameters.
type Params struct {
	Memory      uint32 // in KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultParams returns recommended Argon2id parameters.
func DefaultParams() Params {
	return Params{
		Memory:      64 * 1024, // 64 MB
		Iterations:  3,
		Parallelism: 4,
	}
}

// deriveKey uses Argon2id to derive a 32-byte encryption key from passphrase and salt.
func deriveKey(passphrase, salt []byte, params Params) []byte {
	return argon2.IDKey(
		passphrase,
		salt,
		params.Iterations,
		params.Memory,
		params.Parallelism,
		chacha20poly1305.KeySize,
	)
}

// SealedPort encrypts every value before handing it to an inner
// persistence port. The key is derived once, when the port is opened.
// Values are bound to their key, so swapping two stored values fails to
// decrypt.
type SealedPort struct {
	inner session.Persistence
	aead  cipher.AEAD
}

// NewSealedPort opens the seal on inner with passphrase. The first open
// writes a new header using params; later opens read the parameters back
// from the header and return ErrWrongPassphrase if they do not match.
func NewSealedPort(inner session.Persistence, passphrase []byte, params Params) (*SealedPort, error) {
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("empty passphrase")
	}

	header, ok, err := inner.Get(SealKey)
	if err != nil {
		return nil, fmt.Errorf("read seal: %w", err)
	}
	if !ok {
		return createSeal(inner, passphrase, params)
	}
	return openSeal(inner, passphrase, header)
}

func createSeal(inner session.Persistence, passphrase []byte, params Params) (*SealedPort, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	aead, err := newAEAD(passphrase, salt, params)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	ciphertext := aead.Seal(nil, nonce, sealCheck, []byte(SealKey))

	out := make([]byte, 0, headerSize+len(nonce)+len(ciphertext))
	out = append(out, salt...)
	out = binary.LittleEndian.AppendUint32(out, params.Memory)
	out = binary.LittleEndian.AppendUint32(out, params.Iterations)
	out = append(out, params.Parallelism)
	out = append(out, nonce...)
	out = append(out, ciphertext...)

	if err := inner.Set(SealKey, base64.StdEncoding.EncodeToString(out)); err != nil {
		return nil, fmt.Errorf("write seal: %w", err)
	}
	log.Storage.Info().Msg("Created encrypted vault")
	return &SealedPort{inner: inner, aead: aead}, nil
}

func openSeal(inner session.Persistence, passphrase []byte, header string) (*SealedPort, error) {
	raw, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return nil, fmt.Errorf("decode seal: %w", err)
	}
	nonceSize := chacha20poly1305.NonceSizeX
	minSize := headerSize + nonceSize + chacha20poly1305.Overhead
	if len(raw) < minSize {
		return nil, fmt.Errorf("seal too short: %d bytes, need at least %d", len(raw), minSize)
	}

	salt := raw[:SaltSize]
	params := Params{
		Memory:      binary.LittleEndian.Uint32(raw[SaltSize:]),
		Iterations:  binary.LittleEndian.Uint32(raw[SaltSize+4:]),
		Parallelism: raw[SaltSize+8],
	}
	if params.Memory == 0 || params.Iterations == 0 || params.Parallelism == 0 {
		return nil, fmt.Errorf("seal has invalid parameters")
	}

	aead, err := newAEAD(passphrase, salt, params)
	if err != nil {
		return nil, err
	}
	nonce := raw[headerSize : headerSize+nonceSize]
	if _, err := aead.Open(nil, nonce, raw[headerSize+nonceSize:], []byte(SealKey)); err != nil {
		return nil, ErrWrongPassphrase
	}
	log.Storage.Debug().Msg("Opened encrypted vault")
	return &SealedPort{inner: inner, aead: aead}, nil
}

func newAEAD(passphrase, salt []byte, params Params) (cipher.AEAD, error) {
	key := deriveKey(passphrase, salt, params)
	aead, err := chacha20poly1305.NewX(key)

	// Zero the derived key; the AEAD keeps its own copy.
	for i := range key {
		key[i] = 0
	}

	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	return aead, nil
}

func (s *SealedPort) seal(key, value string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(value)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := s.aead.Seal(nonce, nonce, []byte(value), []byte(key))
	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *SealedPort) open(key, value string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", key, err)
	}
	n := s.aead.NonceSize()
	if len(raw) < n+s.aead.Overhead() {
		return "", fmt.Errorf("decrypt %s: value too short", key)
	}
	plain, err := s.aead.Open(nil, raw[:n], raw[n:], []byte(key))
	if err != nil {
		return "", fmt.Errorf("decrypt %s: %w", key, err)
	}
	return string(plain), nil
}

// Get decrypts the value stored at key.
func (s *SealedPort) Get(key string) (string, bool, error) {
	v, ok, err := s.inner.Get(key)
	if err != nil || !ok {
		return "", ok, err
	}
	plain, err := s.open(key, v)
	if err != nil {
		return "", false, err
	}
	return plain, true, nil
}

// Set encrypts value and stores it at key.
func (s *SealedPort) Set(key, value string) error {
	sealed, err := s.seal(key, value)
	if err != nil {
		return err
	}
	return s.inner.Set(key, sealed)
}

// Remove deletes key.
func (s *SealedPort) Remove(key string) error {
	return s.inner.Remove(key)
}

// WriteBatch encrypts every value and forwards the batch, atomically when
// the inner port supports it.
func (s *SealedPort) WriteBatch(ops []session.Op) error {
	sealed := make([]session.Op, len(ops))
	for i, op := range ops {
		sealed[i] = op
		if op.Remove {
			continue
		}
		v, err := s.seal(op.Key, op.Value)
		if err != nil {
			return err
		}
		sealed[i].Value = v
	}

	if bw, ok := s.inner.(session.BatchWriter); ok {
		return bw.WriteBatch(sealed)
	}
	for _, op := range sealed {
		var err error
		if op.Remove {
			err = s.inner.Remove(op.Key)
		} else {
			err = s.inner.Set(op.Key, op.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
