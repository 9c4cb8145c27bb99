package nis1

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/BlockPuppets/symbol-crypto-core/internal/eddsa"
	"github.com/BlockPuppets/symbol-crypto-core/internal/pkcs7"
	"github.com/BlockPuppets/symbol-crypto-core/pkg/keys"
)

const (
	// SaltSize is the length of the KDF salt carried in the envelope.
	SaltSize = 32
	// IVSize is the length of the AES-CBC initialization vector.
	IVSize = 16
)

var (
	// ErrEmptyMessage is returned by Decrypt for a zero-length envelope.
	ErrEmptyMessage = errors.New("nis1: encrypted message is empty")
	// ErrDecryptionFailed is returned when an envelope cannot be decrypted
	// or its padding is malformed. No partial plaintext is ever returned
	// alongside it.
	ErrDecryptionFailed = errors.New("nis1: message decryption failed")
)

// Encrypt seals msg from the signer to the receiver with AES-256-CBC and
// PKCS#7 padding. The envelope layout is salt(32) ‖ iv(16) ‖ ciphertext.
// rand supplies the salt and then the IV; under a fixed key the pair must
// never repeat, so rand must be a cryptographically secure source outside
// of tests.
func Encrypt(rand io.Reader, signerSK keys.PrivateKey, receiverPK keys.PublicKey, msg []byte) ([]byte, error) {
	var salt [SaltSize]byte
	if _, err := io.ReadFull(rand, salt[:]); err != nil {
		return nil, fmt.Errorf("nis1: reading random salt: %w", err)
	}
	var iv [IVSize]byte
	if _, err := io.ReadFull(rand, iv[:]); err != nil {
		return nil, fmt.Errorf("nis1: reading random iv: %w", err)
	}

	key, err := deriveSessionKey(&salt, signerSK, receiverPK)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	padded := pkcs7.Pad(msg, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(ciphertext, padded)

	envelope := make([]byte, 0, SaltSize+IVSize+len(ciphertext))
	envelope = append(envelope, salt[:]...)
	envelope = append(envelope, iv[:]...)
	envelope = append(envelope, ciphertext...)
	return envelope, nil
}

// Decrypt opens an envelope produced by Encrypt, using the receiver's
// private key and the signer's public key. Cipher and padding failures are
// both reported as ErrDecryptionFailed.
func Decrypt(receiverSK keys.PrivateKey, signerPK keys.PublicKey, envelope []byte) ([]byte, error) {
	if len(envelope) == 0 {
		return nil, ErrEmptyMessage
	}
	if len(envelope) < SaltSize+IVSize+aes.BlockSize {
		return nil, fmt.Errorf("%w: malformed envelope", ErrDecryptionFailed)
	}
	ciphertext := envelope[SaltSize+IVSize:]
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: malformed envelope", ErrDecryptionFailed)
	}

	var salt [SaltSize]byte
	copy(salt[:], envelope[:SaltSize])
	iv := envelope[SaltSize : SaltSize+IVSize]

	key, err := deriveSessionKey(&salt, receiverSK, signerPK)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := pkcs7.Unpad(padded, aes.BlockSize)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// deriveSessionKey turns the ECDH shared secret into the AES-256 key:
// Keccak256(sharedSecret XOR salt). The seed reversal and Keccak-512
// digest of the DH step are part of the scheme.
func deriveSessionKey(salt *[SaltSize]byte, sk keys.PrivateKey, pk keys.PublicKey) ([32]byte, error) {
	var key [32]byte

	seed := [eddsa.SeedSize]byte(sk)
	peer := [eddsa.PublicKeySize]byte(pk)
	shared, err := scheme.SharedSecret(&seed, &peer)
	if err != nil {
		return key, err
	}

	for i := range shared {
		shared[i] ^= salt[i]
	}

	h := sha3.NewLegacyKeccak256()
	h.Write(shared[:])
	copy(key[:], h.Sum(nil))
	return key, nil
}
