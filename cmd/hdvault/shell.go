package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Klingon-tech/hdvault/internal/wallet"
)

const shellHelp = `Commands:
  chain <chain>        Choose the chain for a new session
  generate [phrase]    Derive the first wallet from a fresh or given phrase
  add                  Derive the next account
  delete <n>           Delete wallet n
  clear                Delete every wallet and the phrase
  list                 Show wallets
  key <n>              Show or hide the private key of wallet n
  phrase <n>           Show or hide the phrase of wallet n
  status               Show the session state
  last                 Show the last notification
  chains               List supported chains
  help                 Show this help
  quit                 Leave the shell
`

// cmdShell runs an interactive session over the input stream. Errors are
// reported and the loop continues; it ends on quit or end of input.
func (a *app) cmdShell(args []string) error {
	if len(args) > 0 {
		return usagef("shell takes no arguments")
	}
	if a.interactive {
		fmt.Fprintf(a.out, "hdvault shell. Type 'help' for commands.\n")
		printStatus(a.out, a.store)
	}

	for {
		if a.interactive {
			fmt.Fprint(a.out, "hdvault> ")
		}
		line, err := a.reader.ReadString('\n')
		if fields := strings.Fields(line); len(fields) > 0 {
			if a.exec(fields) {
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			if a.interactive {
				fmt.Fprintln(a.out)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	}
}

// exec runs one shell line and reports whether the shell should exit.
func (a *app) exec(fields []string) bool {
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	var err error
	switch cmd {
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprint(a.out, shellHelp)
	case "status":
		printStatus(a.out, a.store)
	case "chains":
		cmdChains(a.out)
	case "chain":
		err = a.shellChain(args)
	case "generate", "gen":
		err = a.shellGenerate(args)
	case "add":
		err = a.add()
	case "delete", "del", "rm":
		err = a.cmdDelete(args)
	case "clear":
		err = a.shellClear()
	case "list", "ls":
		a.list(false, false)
	case "key":
		err = a.shellToggle(args, a.store.TogglePrivateKeyVisible)
	case "phrase":
		err = a.shellToggle(args, a.store.TogglePhraseVisible)
	case "last":
		if ev, ok := a.events.Last(); ok {
			fmt.Fprintf(a.out, "[%s] %s\n", ev.Level, ev.Message)
		} else {
			fmt.Fprintln(a.out, "No notifications yet")
		}
	default:
		fmt.Fprintf(a.errOut, "Unknown command %q; type 'help'\n", cmd)
	}

	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
	}
	return false
}

func (a *app) shellChain(args []string) error {
	if len(args) != 1 {
		return usagef("chain <chain>")
	}
	chain, err := wallet.ParseChain(args[0])
	if err != nil {
		return err
	}
	return a.check(a.store.ChooseChain(chain))
}

// shellGenerate derives the first wallet for the chain already chosen.
// Remaining words on the line form the phrase to restore.
func (a *app) shellGenerate(args []string) error {
	chain, ok := a.store.Chain()
	if !ok {
		return usagef("choose a chain first: chain <chain>")
	}
	return a.generate(chain, strings.Join(args, " "))
}

func (a *app) shellClear() error {
	if a.interactive {
		ok, err := a.confirm("Delete every wallet and the recovery phrase?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Aborted")
			return nil
		}
	}
	return a.clear(false)
}

// shellToggle flips a reveal flag and shows the wallet as it now looks.
func (a *app) shellToggle(args []string, toggle func(int) error) error {
	if len(args) != 1 {
		return usagef("key <n> or phrase <n>")
	}
	index, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	if err := a.check(toggle(index)); err != nil {
		return err
	}
	e := a.store.ListWallets()[index]
	printWallet(a.out, index+1, e.Chain, e.Wallet, e.PrivateKeyVisible, e.PhraseVisible)
	return nil
}
