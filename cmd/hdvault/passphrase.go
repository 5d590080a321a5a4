package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/Klingon-tech/hdvault/config"
	"github.com/Klingon-tech/hdvault/internal/storage"
)

// PassphraseEnv names the environment variable read before prompting.
const PassphraseEnv = "HDVAULT_PASSPHRASE"

// unlock opens the encrypted view of kv. A vault without a seal asks for
// the new passphrase twice.
func unlock(kv *storage.KVPort, cfg *config.Config, sio stdio) (*storage.SealedPort, error) {
	_, sealed, err := kv.Get(storage.SealKey)
	if err != nil {
		return nil, fmt.Errorf("read seal: %w", err)
	}

	pass, err := passphrase(sio, !sealed)
	if err != nil {
		return nil, err
	}
	defer clear(pass)

	port, err := storage.NewSealedPort(kv, pass, cfg.KDFParams())
	if errors.Is(err, storage.ErrWrongPassphrase) {
		return nil, errors.New("wrong passphrase")
	}
	if err != nil {
		return nil, fmt.Errorf("unlock vault: %w", err)
	}
	return port, nil
}

// passphrase returns the vault passphrase from the environment or, on a
// terminal, from a prompt.
func passphrase(sio stdio, confirm bool) ([]byte, error) {
	if env := os.Getenv(PassphraseEnv); env != "" {
		return []byte(env), nil
	}
	if !sio.interactive {
		return nil, fmt.Errorf("encrypted vault needs a passphrase: set %s or run from a terminal", PassphraseEnv)
	}

	prompt := "Vault passphrase: "
	if confirm {
		prompt = "New vault passphrase: "
	}
	pass, err := readPassword(sio, prompt)
	if err != nil {
		return nil, err
	}
	if len(pass) == 0 {
		return nil, errors.New("empty passphrase")
	}
	if confirm {
		again, err := readPassword(sio, "Confirm passphrase: ")
		if err != nil {
			return nil, err
		}
		defer clear(again)
		if !bytes.Equal(pass, again) {
			clear(pass)
			return nil, errors.New("passphrases do not match")
		}
	}
	return pass, nil
}

// readPassword prompts on stderr and reads without echo.
func readPassword(sio stdio, prompt string) ([]byte, error) {
	read := sio.password
	if read == nil {
		read = stdinPassword
	}
	fmt.Fprint(sio.errOut, prompt)
	pass, err := read()
	fmt.Fprintln(sio.errOut)
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	return pass, nil
}

func stdinPassword() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}
