package main

import (
	"fmt"
	"io"

	"github.com/Klingon-tech/hdvault/internal/session"
	"github.com/Klingon-tech/hdvault/internal/wallet"
)

const masked = "********"

// printWallet writes one numbered wallet. Hidden secrets are masked.
func printWallet(w io.Writer, n int, chain wallet.Chain, wl wallet.Wallet, showKey, showPhrase bool) {
	fmt.Fprintf(w, "#%d  %s  %s\n", n, chain, wl.Path)
	fmt.Fprintf(w, "    Public key:  %s\n", wl.PublicKey)
	fmt.Fprintf(w, "    Private key: %s\n", maskKey(wl.PrivateKey, showKey))
	fmt.Fprintf(w, "    Phrase:      %s\n", maskPhrase(wl.Mnemonic, showPhrase))
}

func maskKey(key string, show bool) string {
	if show {
		return key
	}
	return masked
}

// maskPhrase hides the phrase but keeps its word count visible.
func maskPhrase(phrase string, show bool) string {
	if show {
		return phrase
	}
	return fmt.Sprintf("%s (%d words)", masked, len(wallet.SplitMnemonic(phrase)))
}

// printStatus writes a one-line summary of the session.
func printStatus(w io.Writer, s *session.Store) {
	state := s.State()
	if state == session.StateEmpty {
		fmt.Fprintf(w, "State: %s\n", state)
		return
	}
	chain, _ := s.Chain()
	fmt.Fprintf(w, "State: %s  Chain: %s  Wallets: %d  Next account: %d",
		state, chain, len(s.ListWallets()), s.NextAccount())
	if fp := s.Fingerprint(); fp != "" {
		fmt.Fprintf(w, "  Phrase: %s", fp)
	}
	fmt.Fprintln(w)
}
