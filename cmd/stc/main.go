package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

const usage = `stc - signature and extension method tool

Usage:
  stc [flags] encode <type>                 encode a type expression, e.g. "List<String>[]"
  stc [flags] decode <signature>            decode a signature
  stc [flags] methods [receiver]            list extension methods visible in the configured modules
  stc [flags] store put <unit> <decl> <type>
  stc [flags] store get <unit> <decl>
  stc [flags] store list [unit]
  stc [flags] store delete <unit>

Flags:
  -config <path>   settings file (default: stc.yaml in the current directory, if present)
  -v               verbose progress on stderr
  -dump            dump decoded descriptors structurally
  -lenient         decode corrupt signatures as the configured object type
`

// options are the global flags.
type options struct {
	configPath string
	verbose    bool
	dump       bool
	lenient    bool
}

// parseArgs separates global flags from the command and its arguments.
func parseArgs(args []string) (options, []string, error) {
	var opts options
	var rest []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-v", "--verbose":
			opts.verbose = true
		case "-dump", "--dump":
			opts.dump = true
		case "-lenient", "--lenient":
			opts.lenient = true
		case "-config", "--config":
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("%s requires a path", arg)
			}
			i++
			opts.configPath = args[i]
		default:
			if strings.HasPrefix(arg, "-config=") || strings.HasPrefix(arg, "--config=") {
				opts.configPath = arg[strings.Index(arg, "=")+1:]
				continue
			}
			rest = append(rest, arg)
		}
	}
	return opts, rest, nil
}

func main() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	opts, args, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if len(args) == 0 || args[0] == "help" || args[0] == "-help" || args[0] == "--help" {
		fmt.Print(usage)
		return
	}

	a, err := newApp(opts, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := a.run(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger returns a logger writing to w when verbose, else a silent one.
func newLogger(verbose bool, w io.Writer) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(w, "", 0)
}
