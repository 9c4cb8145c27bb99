package keys

import (
	"errors"
	"fmt"
	"io"

	bip39 "github.com/tyler-smith/go-bip39"
)

// ErrInvalidMnemonic indicates a mnemonic phrase that fails BIP-39
// validation.
var ErrInvalidMnemonic = errors.New("keys: invalid mnemonic")

const mnemonicEntropyBytes = 32 // 256 bits -> 24 English words

// FromMnemonic reconstructs the private key encoded by a BIP-39 mnemonic
// and password. The key is the first 32 bytes of the BIP-39 seed.
func FromMnemonic(mnemonic, password string) (PrivateKey, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, password)
	if err != nil {
		return PrivateKey{}, fmt.Errorf("%w: %s", ErrInvalidMnemonic, err)
	}

	var sk PrivateKey
	copy(sk[:], seed[:PrivateKeySize])
	return sk, nil
}

// CreateWithMnemonic draws a fresh 24-word English mnemonic from rand and
// returns it together with the private key it derives under password.
func CreateWithMnemonic(rand io.Reader, password string) (PrivateKey, string, error) {
	entropy := make([]byte, mnemonicEntropyBytes)
	if _, err := io.ReadFull(rand, entropy); err != nil {
		return PrivateKey{}, "", fmt.Errorf("keys: reading mnemonic entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return PrivateKey{}, "", err
	}

	sk, err := FromMnemonic(mnemonic, password)
	if err != nil {
		return PrivateKey{}, "", err
	}
	return sk, mnemonic, nil
}
