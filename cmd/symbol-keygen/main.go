// Utility for generating, saving, and migrating keys

package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BlockPuppets/symbol-crypto-core/internal/log"
	"github.com/BlockPuppets/symbol-crypto-core/pkg/cli"
	"github.com/BlockPuppets/symbol-crypto-core/pkg/keys"
)

func writeErr(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintf(os.Stderr, "\n")
}

const usageText = `
Creates or deletes a private key and saves it in the system keyring, or migrates a key from a
plaintext file into the system keyring.

The program writes the public key to stdout (except when deleting a key). When using the create
option, the program will not overwrite an existing key unless invoked with -f. With -mnemonic, the
new key is drawn from a fresh 24-word recovery phrase, which is written to stderr exactly once.

The type of keyring and name of the key inside that keyring are controlled by the command-line
options below, or through the corresponding environment variables.`

func cliUsage() {
	usage(flag.CommandLine.Output())
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s [OPTION...] create|delete|export|migrate\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(w, usageText)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "OPTIONS:")
	flag.PrintDefaults()
}

func printPublicKey(config *cli.Config, sk keys.PrivateKey) {
	kp := config.Scheme.Keypair(sk)
	fmt.Println(kp.PublicKey().Hex())
}

func main() {
	// Command-line variables
	var (
		overwrite bool
		mnemonic  bool
		sk        keys.PrivateKey
		err       error
	)
	status := 1
	defer func() {
		os.Exit(status)
	}()

	config, err := cli.NewConfig()
	config.RegisterCommandLineFlags()
	flag.Usage = cliUsage
	flag.BoolVar(&overwrite, "f", false, "Overwrite existing key if it exists")
	flag.BoolVar(&mnemonic, "mnemonic", false, "Derive the new key from a fresh BIP-39 recovery phrase")
	flag.Parse()
	if config.Debug {
		log.SetLevel(log.LevelDebug)
	}
	if err != nil {
		writeErr("Failed to load credential configuration: %s", err)
		return
	}
	config.ReadFromEnvironment()

	if flag.NArg() != 1 {
		usage(os.Stderr)
		return
	}

	switch flag.Arg(0) {
	case "migrate":
		if config.KeyFilename == "" || config.KeyringKeyName == "" {
			writeErr("Must provide path of existing key (-key-file) and name of new key (-key-name)")
			return
		}

		sk, err = config.PrivateKey()
		if err != nil {
			writeErr("Unable to read key: %s", err)
			return
		}
		config.KeyFilename = "" // Prevent key from being re-written to a file
	case "delete":
		if err := config.DeletePrivateKey(); err != nil {
			writeErr("Failed to delete key: %s", err)
		} else {
			status = 0
		}
		return
	case "create":
		if !overwrite {
			// Print key and exit if it already exists
			sk, err = config.PrivateKey()
			if err == nil {
				printPublicKey(config, sk)
				status = 0
				return
			}
		}
		if mnemonic {
			var phrase string
			sk, phrase, err = keys.CreateWithMnemonic(rand.Reader, "")
			if err == nil {
				writeErr("Recovery phrase (write it down, it is not stored anywhere):")
				writeErr("%s", phrase)
			}
		} else {
			sk, err = keys.GeneratePrivateKey(rand.Reader)
		}
		if err != nil {
			writeErr("Failed to generate private key: %s", err)
			return
		}
	case "export":
		sk, err = config.PrivateKey()
		if err != nil {
			writeErr("Failed to export private key: %s", err)
			return
		}
		fmt.Println(sk.Hex())
		status = 0
		return
	default:
		writeErr("Unrecognized command-line argument.")
		writeErr("")
		usage(os.Stderr)
		return
	}

	if err = config.SavePrivateKey(sk); err != nil {
		writeErr("Failed to save key to keyring: %s", err)
		return
	}

	printPublicKey(config, sk)
	status = 0
}
