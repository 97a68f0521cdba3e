package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"xdao.co/nkeys/cidutil"
	"xdao.co/nkeys/nkeys"
	"xdao.co/nkeys/signer"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "gen":
		return cmdGen(args[1:], out, errOut)
	case "pub":
		return cmdPub(args[1:], in, out, errOut)
	case "inspect":
		return cmdInspect(args[1:], out, errOut)
	case "sign":
		return cmdSign(args[1:], in, out, errOut)
	case "verify":
		return cmdVerify(args[1:], in, out, errOut)
	case "derive":
		return cmdDerive(args[1:], out, errOut)
	case "fingerprint":
		return cmdFingerprint(args[1:], out, errOut)
	case "remote-pub":
		return cmdRemotePub(args[1:], out, errOut)
	case "remote-sign":
		return cmdRemoteSign(args[1:], in, out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "nk: role-tagged ed25519 key tool")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  nk gen --role <role>")
	fmt.Fprintln(w, "  nk pub [--seed-file <path>]")
	fmt.Fprintln(w, "  nk inspect <encoded>")
	fmt.Fprintln(w, "  nk sign --seed-file <path> [--in <file>]")
	fmt.Fprintln(w, "  nk verify --pub <encoded> --sig <base64> [--in <file>]")
	fmt.Fprintln(w, "  nk derive --root-seed-file <path> --role <role> [--label <s>]")
	fmt.Fprintln(w, "  nk fingerprint <encoded public key>")
	fmt.Fprintln(w, "  nk remote-pub --addr <host:port>")
	fmt.Fprintln(w, "  nk remote-sign --addr <host:port> [--in <file>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - roles: server, cluster, operator, account, user, module, service")
	fmt.Fprintln(w, "  - without --seed-file or --in, input is read from stdin")
	fmt.Fprintln(w, "  - signatures are printed and accepted as standard base64")
	fmt.Fprintln(w, "  - --root-seed-file holds an encoded seed; its raw bytes are the derivation root")
}

func cmdGen(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var roleName string
	fs.StringVar(&roleName, "role", "", "Key role")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if roleName == "" {
		fmt.Fprintln(errOut, "usage: nk gen --role <role>")
		return 2
	}
	role, err := nkeys.ParseRole(roleName)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --role: %v\n", err)
		return 2
	}
	kp, err := nkeys.CreatePair(role)
	if err != nil {
		fmt.Fprintf(errOut, "create key pair: %v\n", err)
		return 1
	}
	seed, err := kp.Seed()
	if err != nil {
		fmt.Fprintf(errOut, "encode seed: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, seed)
	_, _ = fmt.Fprintln(out, kp.PublicKey())
	return 0
}

func cmdPub(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("pub", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var seedFile string
	fs.StringVar(&seedFile, "seed-file", "", "File containing an encoded seed (default stdin)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	kp, err := loadSeed(seedFile, in)
	if err != nil {
		fmt.Fprintf(errOut, "load seed: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, kp.PublicKey())
	return 0
}

func cmdInspect(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: nk inspect <encoded>")
		return 2
	}
	info, err := nkeys.Inspect(strings.TrimSpace(fs.Arg(0)))
	if err != nil {
		fmt.Fprintf(errOut, "invalid: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(out, "type: %s\n", info.Type)
	if info.Role.Valid() {
		_, _ = fmt.Fprintf(out, "role: %s\n", info.Role)
	}
	if info.PublicKey != "" {
		_, _ = fmt.Fprintf(out, "public key: %s\n", info.PublicKey)
		if fp, err := cidutil.Fingerprint(info.PublicKey); err == nil {
			_, _ = fmt.Fprintf(out, "fingerprint: %s\n", fp)
		}
	}
	return 0
}

func cmdSign(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var seedFile string
	var inPath string
	fs.StringVar(&seedFile, "seed-file", "", "File containing an encoded seed")
	fs.StringVar(&inPath, "in", "", "Message file (default stdin)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if seedFile == "" {
		fmt.Fprintln(errOut, "usage: nk sign --seed-file <path> [--in <file>]")
		return 2
	}
	kp, err := loadSeed(seedFile, nil)
	if err != nil {
		fmt.Fprintf(errOut, "load seed: %v\n", err)
		return 1
	}
	msg, err := readInput(inPath, in)
	if err != nil {
		fmt.Fprintf(errOut, "read message: %v\n", err)
		return 1
	}
	sig, err := kp.Sign(msg)
	if err != nil {
		fmt.Fprintf(errOut, "sign: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, base64.StdEncoding.EncodeToString(sig))
	return 0
}

func cmdVerify(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var pub string
	var sigB64 string
	var inPath string
	fs.StringVar(&pub, "pub", "", "Encoded public key")
	fs.StringVar(&sigB64, "sig", "", "Base64 signature")
	fs.StringVar(&inPath, "in", "", "Message file (default stdin)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if pub == "" || sigB64 == "" {
		fmt.Fprintln(errOut, "usage: nk verify --pub <encoded> --sig <base64> [--in <file>]")
		return 2
	}
	kp, err := nkeys.FromPublicKey(pub)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --pub: %v\n", err)
		return 1
	}
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --sig base64: %v\n", err)
		return 1
	}
	msg, err := readInput(inPath, in)
	if err != nil {
		fmt.Fprintf(errOut, "read message: %v\n", err)
		return 1
	}
	if err := kp.Verify(msg, sig); err != nil {
		fmt.Fprintf(errOut, "invalid: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, "OK")
	return 0
}

func cmdDerive(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("derive", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var rootFile string
	var roleName string
	var label string
	fs.StringVar(&rootFile, "root-seed-file", "", "File containing the encoded root seed")
	fs.StringVar(&roleName, "role", "", "Role of the derived key")
	fs.StringVar(&label, "label", "", "Optional derivation label")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if rootFile == "" || roleName == "" {
		fmt.Fprintln(errOut, "usage: nk derive --root-seed-file <path> --role <role> [--label <s>]")
		return 2
	}
	role, err := nkeys.ParseRole(roleName)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --role: %v\n", err)
		return 2
	}
	text, err := readInput(rootFile, nil)
	if err != nil {
		fmt.Fprintf(errOut, "read --root-seed-file: %v\n", err)
		return 1
	}
	_, root, err := nkeys.DecodeSeed(string(bytes.TrimSpace(text)))
	if err != nil {
		fmt.Fprintf(errOut, "invalid root seed: %v\n", err)
		return 1
	}
	kp, err := nkeys.FromDerivedSeed(root, role, label)
	for i := range root {
		root[i] = 0
	}
	if err != nil {
		fmt.Fprintf(errOut, "derive: %v\n", err)
		return 1
	}
	seed, err := kp.Seed()
	if err != nil {
		fmt.Fprintf(errOut, "encode seed: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, seed)
	_, _ = fmt.Fprintln(out, kp.PublicKey())
	return 0
}

func cmdFingerprint(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("fingerprint", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: nk fingerprint <encoded public key>")
		return 2
	}
	fp, err := cidutil.Fingerprint(strings.TrimSpace(fs.Arg(0)))
	if err != nil {
		fmt.Fprintf(errOut, "invalid public key: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, fp)
	return 0
}

func dialRemote(fs *flag.FlagSet, args []string, errOut io.Writer, usage string) (*signer.Client, int) {
	var addr string
	var timeout time.Duration
	fs.StringVar(&addr, "addr", "127.0.0.1:7777", "nkeysd address")
	fs.DurationVar(&timeout, "timeout", 5*time.Second, "Per-call timeout")
	if err := fs.Parse(args); err != nil {
		return nil, 2
	}
	if addr == "" {
		fmt.Fprintln(errOut, usage)
		return nil, 2
	}
	client, err := signer.Dial(addr, signer.DialOptions{})
	if err != nil {
		fmt.Fprintf(errOut, "dial %s: %v\n", addr, err)
		return nil, 1
	}
	client.Timeout = timeout
	return client, 0
}

func cmdRemotePub(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("remote-pub", flag.ContinueOnError)
	fs.SetOutput(errOut)
	client, code := dialRemote(fs, args, errOut, "usage: nk remote-pub --addr <host:port>")
	if client == nil {
		return code
	}
	defer client.Close()
	kp, err := client.PublicKey(context.Background())
	if err != nil {
		fmt.Fprintf(errOut, "remote public key: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, kp.PublicKey())
	return 0
}

func cmdRemoteSign(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("remote-sign", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var inPath string
	fs.StringVar(&inPath, "in", "", "Message file (default stdin)")
	client, code := dialRemote(fs, args, errOut, "usage: nk remote-sign --addr <host:port> [--in <file>]")
	if client == nil {
		return code
	}
	defer client.Close()
	msg, err := readInput(inPath, in)
	if err != nil {
		fmt.Fprintf(errOut, "read message: %v\n", err)
		return 1
	}
	sig, err := client.Sign(context.Background(), msg)
	if err != nil {
		fmt.Fprintf(errOut, "remote sign: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, base64.StdEncoding.EncodeToString(sig))
	return 0
}

func readInput(path string, in io.Reader) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	if in == nil {
		return nil, fmt.Errorf("no input")
	}
	return io.ReadAll(in)
}

func loadSeed(path string, in io.Reader) (nkeys.KeyPair, error) {
	b, err := readInput(path, in)
	if err != nil {
		return nil, err
	}
	defer func() {
		for i := range b {
			b[i] = 0
		}
	}()
	return nkeys.FromSeed(string(bytes.TrimSpace(b)))
}
