/*
Package cli facilitates building command-line applications around Symbol and
NIS1 keys. It defines a [Config] type that can be used to register common
command-line flags (using the Golang flag package) and environment variable
equivalents.

The package uses [keyring]'s platform-agnostic interface for storing private
keys in an OS-dependent credential store.

# Examples

	import flag

	config, err := cli.NewConfig()
	if err != nil {
		panic(err)
	}
	config.RegisterCommandLineFlags() // Adds command-line flags for key name, scheme, etc.
	flag.Parse()
	config.ReadFromEnvironment()      // Fills in missing fields using environment variables

	kp, err := config.Keypair()       // Load the key and bind it to the selected scheme
	if err != nil {
		panic(err)
	}

Keys can live either in the system keyring (-key-name) or in a plaintext hex
file (-key-file). Loading prefers the key file when both are configured;
saving prefers the keyring.
*/
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/99designs/keyring"

	"github.com/BlockPuppets/symbol-crypto-core/internal/log"
	"github.com/BlockPuppets/symbol-crypto-core/pkg/keys"
	"github.com/BlockPuppets/symbol-crypto-core/pkg/nis1"
	"github.com/BlockPuppets/symbol-crypto-core/pkg/symbol"
)

// Scheme selects which network's cryptography a tool uses. The two schemes
// are not interoperable, even on identical key material.
type Scheme int

const (
	SchemeSymbol Scheme = iota
	SchemeNIS1
)

var SchemesByName = map[string]Scheme{
	"SYMBOL": SchemeSymbol,
	"NIS1":   SchemeNIS1,
}

var SchemeNames = map[Scheme]string{
	SchemeSymbol: "symbol",
	SchemeNIS1:   "nis1",
}

// Set updates a Scheme from a command-line argument.
func (s *Scheme) Set(value string) error {
	canonicalName := strings.ToUpper(value)
	scheme, ok := SchemesByName[canonicalName]
	if !ok {
		return fmt.Errorf("unknown scheme '%s'", value)
	}
	*s = scheme
	return nil
}

func (s *Scheme) String() string {
	return SchemeNames[*s]
}

// Keypair binds a private key to the scheme's signing and key-derivation
// rules.
func (s Scheme) Keypair(sk keys.PrivateKey) keys.Keypair {
	if s == SchemeNIS1 {
		return nis1.NewKeypair(sk)
	}
	return symbol.NewKeypair(sk)
}

// Verifier returns a verify-only keypair for the scheme.
func (s Scheme) Verifier(pk keys.PublicKey) keys.Keypair {
	if s == SchemeNIS1 {
		return nis1.VerifierFromPublicKey(pk)
	}
	return symbol.VerifierFromPublicKey(pk)
}

// Encrypt seals msg from sk to pk with the scheme's message cipher.
func (s Scheme) Encrypt(rand io.Reader, sk keys.PrivateKey, pk keys.PublicKey, msg []byte) ([]byte, error) {
	if s == SchemeNIS1 {
		return nis1.Encrypt(rand, sk, pk, msg)
	}
	return symbol.Encrypt(rand, sk, pk, msg)
}

// Decrypt opens an envelope sealed for sk by the holder of pk.
func (s Scheme) Decrypt(sk keys.PrivateKey, pk keys.PublicKey, envelope []byte) ([]byte, error) {
	if s == SchemeNIS1 {
		return nis1.Decrypt(sk, pk, envelope)
	}
	return symbol.Decrypt(sk, pk, envelope)
}

// Environment variable names used by [Config.ReadFromEnvironment] to set
// common parameters.
const (
	EnvKeyName      = "SYMBOL_KEY_NAME"
	EnvKeyFile      = "SYMBOL_KEY_FILE"
	EnvScheme       = "SYMBOL_SCHEME"
	EnvKeyringType  = "SYMBOL_KEYRING_TYPE"
	EnvKeyringPass  = "SYMBOL_KEYRING_PASSWORD"
	EnvKeyringPath  = "SYMBOL_KEYRING_PATH"
	EnvKeyringDebug = "SYMBOL_KEYRING_DEBUG"
)

var (
	ErrNoKeySpecified = errors.New("private key location not provided")
	ErrKeyNotFound    = keyring.ErrKeyNotFound
)

// Config fields determine where tools find private keys and which scheme
// they bind them to.
type Config struct {
	KeyringKeyName string // Username for private key in system keyring
	KeyFilename    string // Plaintext hex file holding a private key
	Scheme         Scheme
	Backend        keyring.Config
	BackendType    backendType
	Debug          bool // Enable keyring debug messages

	password *string
	sk       *keys.PrivateKey
}

func NewConfig() (*Config, error) {
	c := Config{
		Backend: keyring.Config{
			ServiceName:              keyringServiceName,
			KeychainTrustApplication: true,
			KeyCtlScope:              "user",
		},
	}
	c.BackendType = backendType{&c}
	c.Backend.KeychainPasswordFunc = c.getPassword
	c.Backend.FilePasswordFunc = c.getPassword

	return &c, nil
}

func (c *Config) RegisterCommandLineFlags() {
	flag.StringVar(&c.KeyringKeyName, "key-name", "", "System keyring `name` for private key. Defaults to $SYMBOL_KEY_NAME.")
	flag.StringVar(&c.KeyFilename, "key-file", "", "A `file` containing a hex private key. Defaults to $SYMBOL_KEY_FILE.")
	flag.Var(&c.Scheme, "scheme", "Key scheme (symbol|nis1). Defaults to $SYMBOL_SCHEME or symbol.")

	var names []string
	for _, name := range keyring.AvailableBackends() {
		names = append(names, string(name))
	}
	sort.Strings(names)
	flag.Var(&c.BackendType, "keyring-type", "Keyring `type` ("+strings.Join(names, "|")+"). Defaults to $SYMBOL_KEYRING_TYPE.")
	flag.StringVar(&c.Backend.FileDir, "keyring-file-dir", keyringDirectory, "keyring `directory` for file-backed keyring types")
	flag.BoolVar(&c.Debug, "keyring-debug", false, "Enable keyring debug logging")
}

// ReadFromEnvironment populates c using environment variables. Values that
// are already populated are not overwritten.
//
// Calling ReadFromEnvironment after flag.Parse() (or other initialization
// method) will prevent the environment from overriding explicit command-line
// parameters and avoid potentially misleading debug log messages.
func (c *Config) ReadFromEnvironment() {
	if c.KeyringKeyName == "" && c.KeyFilename == "" {
		c.KeyringKeyName = os.Getenv(EnvKeyName)
		log.Debug("Set key name to '%s'", c.KeyringKeyName)

		c.KeyFilename = os.Getenv(EnvKeyFile)
		log.Debug("Set key file to '%s'", c.KeyFilename)
	}
	if name := os.Getenv(EnvScheme); name != "" {
		if err := c.Scheme.Set(name); err == nil {
			log.Debug("Set scheme to '%s'", c.Scheme.String())
		} else {
			log.Warning("Ignoring $%s: %s", EnvScheme, err)
		}
	}
	if c.BackendType.String() == string(keyring.InvalidBackend) {
		if err := c.BackendType.Set(os.Getenv(EnvKeyringType)); err == nil {
			log.Debug("Set keyring type to '%s'", c.BackendType)
		}
	}
	if c.password == nil {
		password := os.Getenv(EnvKeyringPass)
		c.password = &password
		if len(password) > 0 {
			log.Debug("Set keyring File Password to %s", strings.Repeat("*", len("hunter2")))
		}
	}
	if c.Backend.FileDir == "" {
		c.Backend.FileDir = os.Getenv(EnvKeyringPath)
		log.Debug("Set keyring File Path to '%s'", c.Backend.FileDir)
	}
	if !c.Debug {
		_, c.Debug = os.LookupEnv(EnvKeyringDebug)
		log.Debug("Set keyring Debug Logging to '%v'", c.Debug)
	}
}

// PrivateKey loads a private key from the location specified in c.
//
// The key file takes precedence over the keyring when both are configured,
// matching the lookup order of the flags. The private key is cached after it
// is first loaded, and subsequent calls will always return the same key.
func (c *Config) PrivateKey() (keys.PrivateKey, error) {
	if c.sk != nil {
		return *c.sk, nil
	}
	if c.KeyFilename == "" && c.KeyringKeyName == "" {
		return keys.PrivateKey{}, ErrNoKeySpecified
	}

	var sk keys.PrivateKey
	var err error
	if c.KeyFilename != "" {
		sk, err = loadKeyFromFile(c.KeyFilename)
	} else {
		sk, err = c.LoadKeyFromKeyring()
	}
	if err != nil {
		return keys.PrivateKey{}, err
	}
	c.sk = &sk
	return sk, nil
}

// Keypair loads the configured private key and binds it to the configured
// scheme.
func (c *Config) Keypair() (keys.Keypair, error) {
	sk, err := c.PrivateKey()
	if err != nil {
		return nil, err
	}
	return c.Scheme.Keypair(sk), nil
}

// SavePrivateKey writes sk to the system keyring or file, depending on what
// options are configured. The method prefers the keyring if both options are
// available.
func (c *Config) SavePrivateKey(sk keys.PrivateKey) error {
	if c.KeyringKeyName != "" {
		return c.saveKeyToKeyring(sk)
	}
	if c.KeyFilename != "" {
		return saveKeyToFile(sk, c.KeyFilename)
	}
	return ErrNoKeySpecified
}

func loadKeyFromFile(filename string) (keys.PrivateKey, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return keys.PrivateKey{}, fmt.Errorf("could not read key file: %w", err)
	}
	sk, err := keys.PrivateKeyFromHex(strings.TrimSpace(string(data)))
	if err != nil {
		return keys.PrivateKey{}, fmt.Errorf("could not parse key file %s: %w", filename, err)
	}
	return sk, nil
}

func saveKeyToFile(sk keys.PrivateKey, filename string) error {
	return os.WriteFile(filename, []byte(sk.Hex()+"\n"), 0600)
}
