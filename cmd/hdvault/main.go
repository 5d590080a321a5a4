// hdvault derives hierarchical deterministic wallets for Solana and
// Ethereum from a BIP-39 recovery phrase and keeps them in a local vault.
//
// Usage:
//
//	hdvault [options] <command> [arguments]
//	hdvault --help
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/Klingon-tech/hdvault/config"
	"github.com/Klingon-tech/hdvault/internal/log"
)

// errReported marks a failure whose message has already been shown.
var errReported = errors.New("reported")

// errUsage marks a command line mistake; usage help is printed.
var errUsage = errors.New("usage")

func main() {
	sio := stdio{
		in:          os.Stdin,
		out:         os.Stdout,
		errOut:      os.Stderr,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
		password:    stdinPassword,
	}
	os.Exit(run(os.Args[1:], sio))
}

// stdio bundles the streams commands read from and write to.
type stdio struct {
	in          io.Reader
	out         io.Writer
	errOut      io.Writer
	interactive bool
	// password reads a secret without echo; nil reads the terminal.
	password func() ([]byte, error)
}

// run executes one command line and returns the process exit code.
func run(args []string, sio stdio) int {
	flags, err := config.ParseFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		config.PrintUsage(sio.out)
		return 0
	}
	if err != nil {
		fmt.Fprintf(sio.errOut, "Error: %v\n\n", err)
		config.PrintUsage(sio.errOut)
		return 2
	}
	if flags.Help {
		config.PrintUsage(sio.out)
		return 0
	}
	if flags.Version {
		cmdVersion(sio.out)
		return 0
	}
	if len(flags.Args) == 0 {
		config.PrintUsage(sio.errOut)
		return 2
	}

	cmd, cmdArgs := flags.Args[0], flags.Args[1:]

	// Commands that need no vault run here; anything else must open it.
	switch cmd {
	case "help":
		config.PrintUsage(sio.out)
		return 0
	case "version":
		cmdVersion(sio.out)
		return 0
	case "chains":
		cmdChains(sio.out)
		return 0
	case "generate", "add", "delete", "clear", "list", "shell":
	default:
		fmt.Fprintf(sio.errOut, "Unknown command: %s\n\n", cmd)
		config.PrintUsage(sio.errOut)
		return 2
	}

	cfg, err := config.LoadWithFlags(flags)
	if err != nil {
		fmt.Fprintf(sio.errOut, "Error: %v\n", err)
		return 1
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fmt.Fprintf(sio.errOut, "Error: open log file: %v\n", err)
		return 1
	}

	a, err := openApp(cfg, sio)
	if err != nil {
		fmt.Fprintf(sio.errOut, "Error: %v\n", err)
		return 1
	}
	defer a.close()

	switch cmd {
	case "generate":
		err = a.cmdGenerate(cmdArgs)
	case "add":
		err = a.cmdAdd(cmdArgs)
	case "delete":
		err = a.cmdDelete(cmdArgs)
	case "clear":
		err = a.cmdClear(cmdArgs)
	case "list":
		err = a.cmdList(cmdArgs)
	case "shell":
		err = a.cmdShell(cmdArgs)
	}

	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errBadFlags):
		return 2
	case errors.Is(err, errReported):
		return 1
	case errors.Is(err, errUsage):
		fmt.Fprintf(sio.errOut, "Error: %v\n", err)
		return 2
	default:
		fmt.Fprintf(sio.errOut, "Error: %v\n", err)
		return 1
	}
}
