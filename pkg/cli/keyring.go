package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/99designs/keyring"
	"golang.org/x/term"

	"github.com/BlockPuppets/symbol-crypto-core/pkg/keys"
)

const (
	keyringServiceName = "com.blockpuppets.symbol"
	keyringKeyService  = "symbolCryptoKey"
	keyringDirectory   = "~/.symbol_keys"
)

type backendType struct {
	config *Config
}

func (b backendType) String() string {
	if b.config == nil || len(b.config.Backend.AllowedBackends) == 0 {
		return string(keyring.InvalidBackend)
	}
	return string(b.config.Backend.AllowedBackends[0])
}

func (b backendType) Set(v string) error {
	value := keyring.BackendType(v)
	if b.config == nil {
		return fmt.Errorf("invalid backendType")
	}
	if v == "" {
		return nil
	}
	for _, name := range keyring.AvailableBackends() {
		if name == value {
			b.config.Backend.AllowedBackends = []keyring.BackendType{name}
			return nil
		}
	}
	return fmt.Errorf("unsupported credential storage")
}

func (c *Config) getPassword(prompt string) (string, error) {
	if c.password != nil && *c.password != "" {
		return *c.password, nil
	}

	var w io.Writer
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fd = int(os.Stderr.Fd())
		if !term.IsTerminal(fd) {
			return "", fmt.Errorf("no terminal output available for password prompt")
		} else {
			w = os.Stderr
		}
	} else {
		w = os.Stdout
	}

	fmt.Fprintf(w, "%s: ", prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	fmt.Fprintln(w)
	password := string(b)
	c.password = &password
	return password, nil
}

func (c *Config) openKeyring() (keyring.Keyring, error) {
	return keyring.Open(c.Backend)
}

func (c *Config) fullKeyName() string {
	return keyringKeyService + "." + c.KeyringKeyName
}

// LoadKeyFromKeyring reads a private key from the system keyring.
//
// The configured key name is an arbitrary string that identifies the key and
// must match the value provided when the key was saved.
func (c *Config) LoadKeyFromKeyring() (keys.PrivateKey, error) {
	kr, err := c.openKeyring()
	if err != nil {
		return keys.PrivateKey{}, err
	}
	item, err := kr.Get(c.fullKeyName())
	if err != nil {
		return keys.PrivateKey{}, fmt.Errorf("could not load key: %w", err)
	}
	sk, err := keys.PrivateKeyFromHex(string(item.Data))
	if err != nil {
		return keys.PrivateKey{}, fmt.Errorf("keyring entry is corrupted: %w", err)
	}
	return sk, nil
}

// saveKeyToKeyring writes a private key to the system keyring, hex encoded.
func (c *Config) saveKeyToKeyring(sk keys.PrivateKey) error {
	kr, err := c.openKeyring()
	if err != nil {
		return err
	}

	if err := kr.Set(keyring.Item{
		Key:  c.fullKeyName(),
		Data: []byte(sk.Hex()),
	}); err != nil {
		return fmt.Errorf("failed to enroll key in keyring: %s", err)
	}
	return nil
}

// DeletePrivateKey removes the private key from the system keyring.
func (c *Config) DeletePrivateKey() error {
	kr, err := c.openKeyring()
	if err != nil {
		return err
	}
	return kr.Remove(c.fullKeyName())
}
