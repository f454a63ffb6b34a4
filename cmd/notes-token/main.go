// Command notes-token mints and inspects notes-server tokens and password credentials, and
// benchmarks the codec and the KDF.
//
//	notes-token mint   -secret S -sub USER [-expires 7d] [-claim k=v]...
//	notes-token verify -secret S -token T
//	notes-token hash   [-password P]
//	notes-token check  [-password P] -stored SALT:KEY
//	notes-token bench  [-ops N] [-concurrency N] [-kdf-ops N]
//
// -secret defaults to $JWT_SECRET. Without -password, hash and check prompt for it when
// stdin is a terminal.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MrEthical07/goNotes/jwt"
	"github.com/MrEthical07/goNotes/password"
	"golang.org/x/term"
)

const usage = "usage: notes-token <mint|verify|hash|check|bench> [flags]"

var errMismatch = errors.New("password does not match")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "mint":
		err = runMint(args[1:], stdout)
	case "verify":
		err = runVerify(args[1:], stdout)
	case "hash":
		err = runHash(args[1:], stdout, stderr)
	case "check":
		err = runCheck(args[1:], stdout, stderr)
	case "bench":
		err = runBench(args[1:], stdout)
	default:
		fmt.Fprintln(stderr, usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(stderr, err)
		return 2
	default:
		fmt.Fprintln(stderr, err)
		return 1
	}
}

var errUsage = errors.New("invalid arguments")

type claimFlags []string

func (c *claimFlags) String() string     { return strings.Join(*c, ",") }
func (c *claimFlags) Set(v string) error { *c = append(*c, v); return nil }

func runMint(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("mint", flag.ContinueOnError)
	secret := fs.String("secret", os.Getenv("JWT_SECRET"), "HS256 secret")
	sub := fs.String("sub", "", "subject (user id)")
	expires := fs.String("expires", "7d", "lifetime as <integer><s|m|h|d>; empty for no exp")
	var extra claimFlags
	fs.Var(&extra, "claim", "extra string claim as key=value, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *secret == "" || *sub == "" {
		return fmt.Errorf("%w: mint requires -secret and -sub", errUsage)
	}

	claims := jwt.Claims{jwt.ClaimSubject: *sub}
	for _, kv := range extra {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return fmt.Errorf("%w: claim %q is not key=value", errUsage, kv)
		}
		claims[k] = v
	}

	token, err := jwt.Mint(claims, []byte(*secret), jwt.WithExpiresIn(*expires))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, token)
	return err
}

func runVerify(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	secret := fs.String("secret", os.Getenv("JWT_SECRET"), "HS256 secret")
	token := fs.String("token", "", "token to verify")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *secret == "" || *token == "" {
		return fmt.Errorf("%w: verify requires -secret and -token", errUsage)
	}

	claims, err := jwt.Verify(strings.TrimSpace(*token), []byte(*secret))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(claims)
}

// Test seams for the terminal.
var (
	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	readPassword    = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }
)

// promptPassword returns flagValue, or reads a password without echo when the flag is empty
// and stdin is a terminal.
func promptPassword(flagValue string, prompt io.Writer) (string, error) {
	if flagValue != "" || !stdinIsTerminal() {
		return flagValue, nil
	}
	fmt.Fprint(prompt, "Password: ")
	pw, err := readPassword()
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

func runHash(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("hash", flag.ContinueOnError)
	pass := fs.String("password", "", "password to hash; prompted for when omitted")
	if err := fs.Parse(args); err != nil {
		return err
	}

	plain, err := promptPassword(*pass, stderr)
	if err != nil {
		return err
	}
	if plain == "" {
		return fmt.Errorf("%w: hash requires -password", errUsage)
	}

	stored, err := password.Hash(plain)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, stored)
	return err
}

func runCheck(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	pass := fs.String("password", "", "candidate password; prompted for when omitted")
	stored := fs.String("stored", "", "stored salt:key credential")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *stored == "" {
		return fmt.Errorf("%w: check requires -stored", errUsage)
	}
	plain, err := promptPassword(*pass, stderr)
	if err != nil {
		return err
	}
	if plain == "" {
		return fmt.Errorf("%w: check requires -password", errUsage)
	}

	if !password.Verify(plain, *stored) {
		return errMismatch
	}
	_, err = fmt.Fprintln(stdout, "ok")
	return err
}
