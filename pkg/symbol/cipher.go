package symbol

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/BlockPuppets/symbol-crypto-core/internal/eddsa"
	"github.com/BlockPuppets/symbol-crypto-core/pkg/keys"
)

const (
	// IVSize is the length of the AES-GCM nonce.
	IVSize = 12
	// TagSize is the length of the GCM authentication tag.
	TagSize = 16
)

// hkdfInfo is the fixed context string Symbol feeds to HKDF-Expand.
const hkdfInfo = "catapult"

var (
	// ErrEmptyMessage is returned by Decrypt for a zero-length envelope.
	ErrEmptyMessage = errors.New("symbol: encrypted message is empty")
	// ErrDecryptionFailed is returned when an envelope cannot be
	// authenticated and decrypted. No partial plaintext is ever returned
	// alongside it.
	ErrDecryptionFailed = errors.New("symbol: message decryption failed")
)

// Encrypt seals msg from the signer to the receiver with AES-256-GCM. The
// envelope layout is tag(16) ‖ iv(12) ‖ ciphertext. rand supplies the
// 96-bit IV; under a fixed key the IV must never repeat, so rand must be a
// cryptographically secure source outside of tests.
func Encrypt(rand io.Reader, signerSK keys.PrivateKey, receiverPK keys.PublicKey, msg []byte) ([]byte, error) {
	var iv [IVSize]byte
	if _, err := io.ReadFull(rand, iv[:]); err != nil {
		return nil, fmt.Errorf("symbol: reading random iv: %w", err)
	}

	key, err := deriveSessionKey(signerSK, receiverPK)
	if err != nil {
		return nil, err
	}
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	// Seal appends the tag to the ciphertext; the wire format wants it in
	// front.
	sealed := aead.Seal(nil, iv[:], msg, nil)
	ciphertext, tag := sealed[:len(msg)], sealed[len(msg):]

	envelope := make([]byte, 0, TagSize+IVSize+len(ciphertext))
	envelope = append(envelope, tag...)
	envelope = append(envelope, iv[:]...)
	envelope = append(envelope, ciphertext...)
	return envelope, nil
}

// Decrypt opens an envelope produced by Encrypt, using the receiver's
// private key and the signer's public key. Any authentication failure is
// reported as ErrDecryptionFailed.
func Decrypt(receiverSK keys.PrivateKey, signerPK keys.PublicKey, envelope []byte) ([]byte, error) {
	if len(envelope) == 0 {
		return nil, ErrEmptyMessage
	}
	if len(envelope) < TagSize+IVSize {
		return nil, fmt.Errorf("%w: truncated envelope", ErrDecryptionFailed)
	}

	tag := envelope[:TagSize]
	iv := envelope[TagSize : TagSize+IVSize]
	ciphertext := envelope[TagSize+IVSize:]

	key, err := deriveSessionKey(receiverSK, signerPK)
	if err != nil {
		return nil, err
	}
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(ciphertext)+TagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// deriveSessionKey turns the ECDH shared secret into the AES-256 key:
// HKDF-SHA256 with no salt and the fixed "catapult" context string.
func deriveSessionKey(sk keys.PrivateKey, pk keys.PublicKey) ([32]byte, error) {
	var key [32]byte

	seed := [eddsa.SeedSize]byte(sk)
	peer := [eddsa.PublicKeySize]byte(pk)
	shared, err := scheme.SharedSecret(&seed, &peer)
	if err != nil {
		return key, err
	}

	kdf := hkdf.New(sha256.New, shared[:], nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, key[:]); err != nil {
		return key, fmt.Errorf("symbol: hkdf expand: %w", err)
	}
	return key, nil
}

func newGCM(key [32]byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
