package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/BlockPuppets/symbol-crypto-core/pkg/cli"
	"github.com/BlockPuppets/symbol-crypto-core/pkg/keys"
)

var (
	ErrCommandLineArgs    = errors.New("invalid command line arguments")
	ErrRequiresPrivateKey = errors.New("command requires a private key")
	ErrUnknownCommand     = errors.New("unrecognized command")
)

type Argument struct {
	name string
	help string
}

type Handler func(config *cli.Config, args map[string]string) error

type Command struct {
	help        string
	requiresKey bool // True if command needs a private key (-key-name or -key-file)
	args        []Argument
	optional    []Argument
	handler     Handler
}

func decodeHexArg(name, value string) ([]byte, error) {
	data, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%s must be hex encoded: %s", name, err)
	}
	return data, nil
}

func checkReadiness(commandName string, havePrivateKey bool) (*Command, error) {
	info, ok := commands[commandName]
	if !ok {
		return nil, ErrUnknownCommand
	}
	if info.requiresKey && !havePrivateKey {
		return nil, ErrRequiresPrivateKey
	}
	return info, nil
}

func execute(config *cli.Config, args []string) error {
	if len(args) == 0 {
		return errors.New("missing COMMAND")
	}

	havePrivateKey := config.KeyringKeyName != "" || config.KeyFilename != ""
	info, err := checkReadiness(args[0], havePrivateKey)
	if err != nil {
		return err
	}

	if len(args)-1 < len(info.args) || len(args)-1 > len(info.args)+len(info.optional) {
		writeErr("Invalid number of command line arguments: %d (%d required, %d optional).", len(args), len(info.args), len(info.optional))
		err = ErrCommandLineArgs
	} else {
		keywords := make(map[string]string)
		for i, argInfo := range info.args {
			keywords[argInfo.name] = args[i+1]
		}
		index := len(info.args) + 1
		for _, argInfo := range info.optional {
			if index >= len(args) {
				break
			}
			keywords[argInfo.name] = args[index]
			index++
		}
		err = info.handler(config, keywords)
	}

	// Print command-specific help
	if errors.Is(err, ErrCommandLineArgs) {
		info.Usage(args[0])
	}
	return err
}

func (c *Command) Usage(name string) {
	fmt.Printf("Usage: %s", name)
	maxLength := 0
	for _, arg := range c.args {
		fmt.Printf(" %s", arg.name)
		if len(arg.name) > maxLength {
			maxLength = len(arg.name)
		}
	}
	for _, arg := range c.optional {
		fmt.Printf(" [%s]", arg.name)
		if len(arg.name) > maxLength {
			maxLength = len(arg.name)
		}
	}
	fmt.Printf("\n%s\n", c.help)
	if len(c.args)+len(c.optional) > 0 {
		fmt.Println("Arguments (byte-string values are hex encoded):")
	}
	for _, arg := range c.args {
		fmt.Printf("  %s  %s\n", arg.name, arg.help)
	}
	for _, arg := range c.optional {
		fmt.Printf("  %s  %s (optional)\n", arg.name, arg.help)
	}
}

var commands = map[string]*Command{
	"public-key": {
		help:        "Print the public key for the configured private key",
		requiresKey: true,
		handler: func(config *cli.Config, args map[string]string) error {
			kp, err := config.Keypair()
			if err != nil {
				return err
			}
			fmt.Println(kp.PublicKey().Hex())
			return nil
		},
	},
	"sign": {
		help:        "Sign DATA with the configured private key",
		requiresKey: true,
		args: []Argument{
			{name: "DATA", help: "Message bytes to sign"},
		},
		handler: func(config *cli.Config, args map[string]string) error {
			data, err := decodeHexArg("DATA", args["DATA"])
			if err != nil {
				return err
			}
			kp, err := config.Keypair()
			if err != nil {
				return err
			}
			fmt.Println(kp.Sign(data).Hex())
			return nil
		},
	},
	"verify": {
		help: "Check that SIGNATURE is valid for DATA under PUBLIC_KEY",
		args: []Argument{
			{name: "PUBLIC_KEY", help: "Signer's public key"},
			{name: "DATA", help: "Message bytes that were signed"},
			{name: "SIGNATURE", help: "Detached signature to check"},
		},
		handler: func(config *cli.Config, args map[string]string) error {
			pk, err := keys.PublicKeyFromHex(args["PUBLIC_KEY"])
			if err != nil {
				return err
			}
			data, err := decodeHexArg("DATA", args["DATA"])
			if err != nil {
				return err
			}
			sig, err := keys.SignatureFromHex(args["SIGNATURE"])
			if err != nil {
				return err
			}
			if err := config.Scheme.Verifier(pk).Verify(data, sig); err != nil {
				return err
			}
			fmt.Println("OK")
			return nil
		},
	},
	"encrypt": {
		help:        "Encrypt DATA so only the holder of PUBLIC_KEY can read it",
		requiresKey: true,
		args: []Argument{
			{name: "PUBLIC_KEY", help: "Recipient's public key"},
			{name: "DATA", help: "Message bytes to encrypt"},
		},
		handler: func(config *cli.Config, args map[string]string) error {
			pk, err := keys.PublicKeyFromHex(args["PUBLIC_KEY"])
			if err != nil {
				return err
			}
			data, err := decodeHexArg("DATA", args["DATA"])
			if err != nil {
				return err
			}
			sk, err := config.PrivateKey()
			if err != nil {
				return err
			}
			envelope, err := config.Scheme.Encrypt(rand.Reader, sk, pk, data)
			if err != nil {
				return err
			}
			fmt.Println(hex.EncodeToString(envelope))
			return nil
		},
	},
	"decrypt": {
		help:        "Decrypt an ENVELOPE sealed for us by the holder of PUBLIC_KEY",
		requiresKey: true,
		args: []Argument{
			{name: "PUBLIC_KEY", help: "Sender's public key"},
			{name: "ENVELOPE", help: "Encrypted message"},
		},
		handler: func(config *cli.Config, args map[string]string) error {
			pk, err := keys.PublicKeyFromHex(args["PUBLIC_KEY"])
			if err != nil {
				return err
			}
			envelope, err := decodeHexArg("ENVELOPE", args["ENVELOPE"])
			if err != nil {
				return err
			}
			sk, err := config.PrivateKey()
			if err != nil {
				return err
			}
			plaintext, err := config.Scheme.Decrypt(sk, pk, envelope)
			if err != nil {
				return err
			}
			fmt.Println(hex.EncodeToString(plaintext))
			return nil
		},
	},
}
