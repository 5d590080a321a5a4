package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Klingon-tech/hdvault/config"
	"github.com/Klingon-tech/hdvault/internal/log"
	"github.com/Klingon-tech/hdvault/internal/wallet"
)

// errBadFlags marks a flag error the flag package has already printed.
var errBadFlags = fmt.Errorf("%w: bad flags", errUsage)

// maxPhraseInput bounds what --mnemonic-stdin reads.
const maxPhraseInput = 4096

func newFlagSet(name string, w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, flag.ErrHelp):
		return flag.ErrHelp
	default:
		return errBadFlags
	}
}

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// parsePosition converts a 1-based wallet number into a collection index.
// Range checks are left to the store so they surface as events.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil {
		return 0, usagef("wallet number must be an integer, got %q", s)
	}
	return n - 1, nil
}

// cmdGenerate chooses the chain and derives the first wallet.
func (a *app) cmdGenerate(args []string) error {
	fs := newFlagSet("generate", a.errOut)
	chainName := fs.String("chain", "", "Chain: solana, ethereum or a SLIP-44 coin type")
	phrase := fs.String("mnemonic", "", "Recovery phrase to restore from")
	fromStdin := fs.Bool("mnemonic-stdin", false, "Read the recovery phrase from stdin")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usagef("generate takes no arguments, got %q", fs.Args())
	}
	if *chainName == "" {
		return usagef("generate needs --chain (see 'hdvault chains')")
	}
	if *phrase != "" && *fromStdin {
		return usagef("use either --mnemonic or --mnemonic-stdin")
	}
	if *fromStdin {
		data, err := io.ReadAll(io.LimitReader(a.reader, maxPhraseInput))
		if err != nil {
			return fmt.Errorf("read phrase: %w", err)
		}
		*phrase = string(data)
		if strings.TrimSpace(*phrase) == "" {
			return errors.New("no recovery phrase on stdin")
		}
	}

	chain, err := wallet.ParseChain(*chainName)
	if err != nil {
		return err
	}
	return a.generate(chain, *phrase)
}

// generate runs the chain choice and first derivation shared by the
// command line and the shell.
func (a *app) generate(chain wallet.Chain, phrase string) error {
	if current, ok := a.store.Chain(); !ok || current != chain {
		if err := a.check(a.store.ChooseChain(chain)); err != nil {
			return err
		}
	}
	w, err := a.store.GenerateFirstWallet(phrase)
	if err := a.check(err); err != nil {
		return err
	}

	fmt.Fprintln(a.out)
	printWallet(a.out, 1, chain, w, false, false)
	if strings.TrimSpace(phrase) == "" {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Recovery phrase (write it down and keep it offline):")
		fmt.Fprintf(a.out, "  %s\n", w.Mnemonic)
	}
	return nil
}

// cmdAdd derives the next account.
func (a *app) cmdAdd(args []string) error {
	if len(args) > 0 {
		return usagef("add takes no arguments")
	}
	return a.add()
}

func (a *app) add() error {
	w, err := a.store.AddAccount()
	if err := a.check(err); err != nil {
		return err
	}
	chain, _ := a.store.Chain()
	fmt.Fprintln(a.out)
	printWallet(a.out, len(a.store.ListWallets()), chain, w, false, false)
	return nil
}

// cmdDelete removes one wallet by its list number.
func (a *app) cmdDelete(args []string) error {
	if len(args) != 1 {
		return usagef("delete <n>")
	}
	index, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	return a.check(a.store.DeleteWallet(index))
}

// cmdClear removes every wallet and the session phrase.
func (a *app) cmdClear(args []string) error {
	fs := newFlagSet("clear", a.errOut)
	yes := fs.Bool("yes", false, "Do not ask for confirmation")
	wipe := fs.Bool("wipe", false, "Also remove the encryption seal")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usagef("clear takes no arguments")
	}
	if !*yes {
		if !a.interactive {
			return usagef("clear needs --yes when not run from a terminal")
		}
		ok, err := a.confirm("Delete every wallet and the recovery phrase?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Aborted")
			return nil
		}
	}
	return a.clear(*wipe)
}

func (a *app) clear(wipe bool) error {
	if err := a.check(a.store.ClearAll()); err != nil {
		return err
	}
	if !wipe {
		return nil
	}
	if err := a.kv.Wipe(); err != nil {
		return fmt.Errorf("wipe vault: %w", err)
	}
	log.CLI.Info().Msg("Vault wiped")
	fmt.Fprintln(a.out, "Vault wiped")
	return nil
}

// confirm asks a yes/no question on the input stream.
func (a *app) confirm(question string) (bool, error) {
	fmt.Fprintf(a.out, "%s Type 'yes' to confirm: ", question)
	line, err := a.reader.ReadString('\n')
	if err != nil && line == "" {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, fmt.Errorf("read answer: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes"), nil
}

// cmdList prints the collection. Secrets stay masked unless asked for.
func (a *app) cmdList(args []string) error {
	fs := newFlagSet("list", a.errOut)
	showKeys := fs.Bool("show-keys", false, "Show private keys")
	showPhrase := fs.Bool("show-phrase", false, "Show the recovery phrase")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usagef("list takes no arguments")
	}
	a.list(*showKeys, *showPhrase)
	return nil
}

func (a *app) list(showKeys, showPhrase bool) {
	entries := a.store.ListWallets()
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No wallets. Run 'hdvault generate --chain <chain>' to create one.")
		return
	}
	printStatus(a.out, a.store)
	for i, e := range entries {
		fmt.Fprintln(a.out)
		printWallet(a.out, i+1, e.Chain, e.Wallet,
			showKeys || e.PrivateKeyVisible, showPhrase || e.PhraseVisible)
	}
}

func cmdChains(w io.Writer) {
	fmt.Fprintf(w, "%-10s %-6s %-10s %s\n", "CHAIN", "COIN", "CURVE", "PATH")
	for _, c := range wallet.SupportedChains() {
		fmt.Fprintf(w, "%-10s %-6d %-10s m/44'/%d'/0'/<account>\n",
			strings.ToLower(c.String()), c.CoinType(), c.Curve(), c.CoinType())
	}
}

func cmdVersion(w io.Writer) {
	fmt.Fprintf(w, "hdvault v%s\n", config.Version)
}
