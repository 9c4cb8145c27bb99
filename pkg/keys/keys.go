// Package keys defines the fixed-size key material shared by the Symbol and
// NIS1 schemes: secret seeds, compressed public keys, signatures, and their
// strict hex text encodings.
//
// All values are immutable once constructed and safe to share across
// goroutines. Functions that need entropy take an explicit io.Reader so
// callers (and tests) control the random source.
package keys

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BlockPuppets/symbol-crypto-core/internal/eddsa"
)

const (
	// PrivateKeySize is the length of a secret seed in bytes.
	PrivateKeySize = 32
	// PublicKeySize is the length of a compressed public key in bytes.
	PublicKeySize = 32
	// SignatureSize is the length of a signature in bytes.
	SignatureSize = 64
	// KeypairSize is the length of a serialized keypair: the private key
	// followed by the public key.
	KeypairSize = PrivateKeySize + PublicKeySize
)

var (
	// ErrInvalidPrivateKey indicates a private key of the wrong length or
	// with non-hex text.
	ErrInvalidPrivateKey = errors.New("keys: invalid private key")
	// ErrInvalidPublicKey indicates a public key of the wrong length or
	// with non-hex text.
	ErrInvalidPublicKey = errors.New("keys: invalid public key")
	// ErrInvalidSignature indicates a signature of the wrong length or with
	// non-hex text.
	ErrInvalidSignature = errors.New("keys: invalid signature")
)

// Sentinel errors surfaced by Verify, re-exported from the engine so
// callers outside internal/ can test for them with errors.Is.
var (
	ErrInvalidPoint       = eddsa.ErrInvalidPoint
	ErrNonCanonicalScalar = eddsa.ErrNonCanonicalScalar
	ErrVerificationFailed = eddsa.ErrVerificationFailed
)

// PrivateKey is a 32-byte secret seed. It is opaque: no curve validity is
// required at rest.
type PrivateKey [PrivateKeySize]byte

// PublicKey is a 32-byte compressed Edwards point encoding.
type PublicKey [PublicKeySize]byte

// Signature is a 64-byte signature: R(32) followed by s(32).
type Signature [SignatureSize]byte

// Keypair is the capability surface common to the Symbol and NIS1 keypair
// types.
type Keypair interface {
	PrivateKey() PrivateKey
	PublicKey() PublicKey
	// Sign produces a deterministic signature over message.
	Sign(message []byte) Signature
	// Verify reports whether sig is a valid signature over message under
	// this keypair's public key.
	Verify(message []byte, sig Signature) error
	// ToBytes serializes the keypair as privateKey ‖ publicKey.
	ToBytes() [KeypairSize]byte
}

// GeneratePrivateKey draws a fresh seed from rand.
func GeneratePrivateKey(rand io.Reader) (PrivateKey, error) {
	var sk PrivateKey
	if _, err := io.ReadFull(rand, sk[:]); err != nil {
		return PrivateKey{}, fmt.Errorf("keys: reading random seed: %w", err)
	}
	return sk, nil
}

// PrivateKeyFromHex parses a private key from exactly 64 hex characters.
// The input is validated before any cryptographic operation runs.
func PrivateKeyFromHex(s string) (PrivateKey, error) {
	var sk PrivateKey
	if err := decodeHex(sk[:], s, ErrInvalidPrivateKey); err != nil {
		return PrivateKey{}, err
	}
	return sk, nil
}

// PublicKeyFromHex parses a public key from exactly 64 hex characters. The
// encoding is not checked against the curve here; decompression happens at
// point of use.
func PublicKeyFromHex(s string) (PublicKey, error) {
	var pk PublicKey
	if err := decodeHex(pk[:], s, ErrInvalidPublicKey); err != nil {
		return PublicKey{}, err
	}
	return pk, nil
}

// SignatureFromHex parses a signature from exactly 128 hex characters.
func SignatureFromHex(s string) (Signature, error) {
	var sig Signature
	if err := decodeHex(sig[:], s, ErrInvalidSignature); err != nil {
		return Signature{}, err
	}
	return sig, nil
}

// PrivateKeyFromBytes copies a 32-byte slice into a PrivateKey.
func PrivateKeyFromBytes(b []byte) (PrivateKey, error) {
	var sk PrivateKey
	if len(b) != PrivateKeySize {
		return PrivateKey{}, fmt.Errorf("%w: need %d bytes, have %d", ErrInvalidPrivateKey, PrivateKeySize, len(b))
	}
	copy(sk[:], b)
	return sk, nil
}

// PublicKeyFromBytes copies a 32-byte slice into a PublicKey.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != PublicKeySize {
		return PublicKey{}, fmt.Errorf("%w: need %d bytes, have %d", ErrInvalidPublicKey, PublicKeySize, len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

// Bytes returns a copy of the seed.
func (k PrivateKey) Bytes() []byte {
	buf := make([]byte, len(k))
	copy(buf, k[:])
	return buf
}

// Hex returns the lowercase hex encoding of the seed.
func (k PrivateKey) Hex() string { return hex.EncodeToString(k[:]) }

// Equal compares two private keys in constant time.
func (k PrivateKey) Equal(other PrivateKey) bool {
	return subtle.ConstantTimeCompare(k[:], other[:]) == 1
}

// String redacts the seed so it cannot leak through logging.
func (k PrivateKey) String() string { return "keys.PrivateKey(redacted)" }

// Bytes returns a copy of the compressed point encoding.
func (k PublicKey) Bytes() []byte {
	buf := make([]byte, len(k))
	copy(buf, k[:])
	return buf
}

// Hex returns the lowercase hex encoding of the public key.
func (k PublicKey) Hex() string { return hex.EncodeToString(k[:]) }

// HexUpper returns the uppercase hex encoding of the public key.
func (k PublicKey) HexUpper() string { return strings.ToUpper(k.Hex()) }

func (k PublicKey) String() string { return k.Hex() }

// Bytes returns a copy of the signature encoding.
func (s Signature) Bytes() []byte {
	buf := make([]byte, len(s))
	copy(buf, s[:])
	return buf
}

// Hex returns the lowercase hex encoding of the signature.
func (s Signature) Hex() string { return hex.EncodeToString(s[:]) }

// HexUpper returns the uppercase hex encoding of the signature.
func (s Signature) HexUpper() string { return strings.ToUpper(s.Hex()) }

// Equal compares two signatures in constant time.
func (s Signature) Equal(other Signature) bool {
	return subtle.ConstantTimeCompare(s[:], other[:]) == 1
}

func (s Signature) String() string { return s.Hex() }

// decodeHex fills dst from s, requiring exactly 2*len(dst) characters of
// strict hexadecimal. Upper- and lowercase digits are both accepted.
func decodeHex(dst []byte, s string, sentinel error) error {
	if len(s) != 2*len(dst) {
		return fmt.Errorf("%w: need %d hex characters, have %d", sentinel, 2*len(dst), len(s))
	}
	if !isHex(s) {
		return fmt.Errorf("%w: not strictly hexadecimal", sentinel)
	}
	if _, err := hex.Decode(dst, []byte(s)); err != nil {
		return fmt.Errorf("%w: %s", sentinel, err)
	}
	return nil
}

// isHex reports whether s is non-empty and matches [0-9a-fA-F]+.
func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case '0' <= c && c <= '9':
		case 'a' <= c && c <= 'f':
		case 'A' <= c && c <= 'F':
		default:
			return false
		}
	}
	return true
}
