// Package main provides the tensorwire CLI.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/born-ml/tensorwire"
	"github.com/born-ml/tensorwire/statestore"
)

const version = "v0.1.0-dev"

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: tensorwire [-v] <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  version    Show version")
	fmt.Fprintln(os.Stderr, "  encode     Encode values into a wire value file")
	fmt.Fprintln(os.Stderr, "  inspect    Decode and print a wire value file")
	fmt.Fprintln(os.Stderr, "  state      List or inspect saved program state")
}

func main() {
	verbose := flag.Bool("v", false, "Enable development logging")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = logger.Sync() }()
		tensorwire.SetLogger(logger)
	}

	if err := run(flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd string, args []string) error {
	out := newPrinter(os.Stdout)

	switch cmd {
	case "version":
		fmt.Printf("tensorwire %s\n", version)
		return nil
	case "encode":
		return runEncode(args)
	case "inspect":
		return runInspect(out, args)
	case "state":
		return runState(out, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	dtype := fs.String("dtype", "float32", "Element type (float32, int64, string, ...)")
	shape := fs.String("shape", "", "Comma separated dimensions; empty for a scalar")
	values := fs.String("values", "", "Comma separated elements in row-major order")
	output := fs.String("o", "", "Output file")
	_ = fs.Parse(args)

	if *output == "" {
		return fmt.Errorf("encode: -o is required")
	}

	dims, err := parseShape(*shape)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	host, err := buildArray(*dtype, dims, splitValues(*values))
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	v, err := tensorwire.SerializeTensorValue(host)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*output, v.Marshal(), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	fmt.Printf("Wrote %s (%s, %d payload bytes)\n", *output, v.DType, len(v.Payload))
	return nil
}

func runInspect(out *printer, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print JSON")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("inspect: expected one file")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	v, err := tensorwire.UnmarshalValue(data)
	if err != nil {
		return err
	}
	host, err := tensorwire.DeserializeTensorValue(v)
	if err != nil {
		return err
	}

	info := valueInfo{
		DType:        v.DType.String(),
		Shape:        host.Shape(),
		PayloadBytes: len(v.Payload),
		Fingerprint:  fmt.Sprintf("%016x", tensorwire.Fingerprint(v)),
		Elements:     formatElements(host.Buffer()),
	}
	if *asJSON {
		return out.json(info)
	}
	out.value(fs.Arg(0), info)
	return nil
}

func runState(out *printer, args []string) error {
	fs := flag.NewFlagSet("state", flag.ExitOnError)
	dir := fs.String("dir", "", "State directory")
	ver := fs.Int("version", -1, "Version to inspect; lists versions when negative")
	_ = fs.Parse(args)

	if *dir == "" {
		return fmt.Errorf("state: -dir is required")
	}
	if _, err := os.Stat(*dir); err != nil {
		return err
	}

	m, err := statestore.NewManager(*dir, tensorwire.Default(), statestore.WithKeepTotal(0))
	if err != nil {
		return err
	}

	if *ver < 0 {
		versions, err := m.Versions()
		if err != nil {
			return err
		}
		out.versions(*dir, versions)
		return nil
	}

	r, err := statestore.Open(m.Path(*ver))
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	if err := r.VerifyChecksum(); err != nil {
		return err
	}

	entries := make([]*statestore.EntryMeta, 0, len(r.Names()))
	for _, name := range r.Names() {
		e, err := r.EntryInfo(name)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}
	out.entries(*ver, r.Header().CreatedAt, entries)
	return nil
}
