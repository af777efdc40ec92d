package util

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

import (
	"github.com/xyproto/env/v2"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

type Options struct {
	Name    string    // Name of the generated module.
	Out     string    // Path to output file, without file extension.
	Binary  bool      // Set true if the module should be persisted as bitcode instead of textual IR.
	Run     bool      // Set true if the module should be executed by the JIT after generation.
	Persist bool      // Set true if the module should be written to Out.
	Result  string    // Integer variable whose final value the entry routine returns. Empty for a void routine.
	Verbose bool      // Set true if the compiler should trace code generation.
	Trace   io.Writer // Destination of trace output. Defaults to stdout.
}

// ---------------------
// ----- Constants -----
// ---------------------

const appVersion = "while compiler 1.0"

// Environment variables that provide defaults for Options.
const (
	EnvOut     = "WHILEC_OUT"
	EnvName    = "WHILEC_NAME"
	EnvVerbose = "WHILEC_VERBOSE"
)

const (
	defaultOut  = "out"
	defaultName = "main"
)

// ---------------------
// ----- functions -----
// ---------------------

// DefaultOptions returns the Options used when no command line flags are given. Defaults can be overridden by
// environment variables, read fresh on every call.
func DefaultOptions() Options {
	env.Load()
	return Options{
		Name:    env.Str(EnvName, defaultName),
		Out:     env.Str(EnvOut, defaultOut),
		Verbose: env.Bool(EnvVerbose),
		Trace:   os.Stdout,
	}
}

// Writer returns the trace writer of opt, falling back to stdout.
func (opt Options) Writer() io.Writer {
	if opt.Trace == nil {
		return os.Stdout
	}
	return opt.Trace
}

// ParseArgs parses command line arguments, excluding the program name, on top of DefaultOptions.
func ParseArgs(args []string) (Options, error) {
	opt := DefaultOptions()
	for i1 := 0; i1 < len(args); i1++ {
		switch args[i1] {
		case "-h", "--h", "-help", "--help":
			// Help and usage.
			printHelp()
			os.Exit(0)
		case "-bc":
			// Write bitcode.
			opt.Binary = true
			opt.Persist = true
		case "-ll":
			// Write textual IR.
			opt.Binary = false
			opt.Persist = true
		case "-run":
			opt.Run = true
		case "-o", "-r", "-name":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			if strings.HasPrefix(args[i1+1], "-") {
				return opt, fmt.Errorf("expected argument to %s, got new flag %s", args[i1], args[i1+1])
			}
			switch args[i1] {
			case "-o":
				// Output file.
				opt.Out = args[i1+1]
				opt.Persist = true
			case "-r":
				// Result variable.
				opt.Result = args[i1+1]
			case "-name":
				opt.Name = args[i1+1]
			}
			i1++
		case "-v", "--v", "-version", "--version":
			// Application version.
			fmt.Println(appVersion)
			os.Exit(0)
		case "-vb":
			// Verbose mode.
			opt.Verbose = true
		default:
			return opt, fmt.Errorf("unexpected flag: %s", args[i1])
		}
	}
	if !opt.Run && !opt.Persist {
		// Nothing requested, write textual IR.
		opt.Persist = true
	}
	return opt, nil
}

// printHelp prints a helpful usage message to stdout.
func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "-h, -help\tPrints this help message and exits the application.")
	_, _ = fmt.Fprintln(w, "--h, --help")
	_, _ = fmt.Fprintln(w, "-bc\tWrite the module as LLVM bitcode to <out>.bc.")
	_, _ = fmt.Fprintln(w, "-ll\tWrite the module as textual LLVM IR to <out>.ll. This is the default.")
	_, _ = fmt.Fprintf(w, "-o\tPath and name of the output file without extension. Defaults to $%s or %q.\n", EnvOut, defaultOut)
	_, _ = fmt.Fprintf(w, "-name\tName of the generated module. Defaults to $%s or %q.\n", EnvName, defaultName)
	_, _ = fmt.Fprintln(w, "-r\tInteger variable whose final value the entry routine returns.")
	_, _ = fmt.Fprintln(w, "-run\tExecute the module with the LLVM JIT and print the result.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrints application version and exits the application.")
	_, _ = fmt.Fprintln(w, "--v, --version")
	_, _ = fmt.Fprintf(w, "-vb\tVerbose mode: trace code generation to stdout. Also enabled by $%s.\n", EnvVerbose)
	_ = w.Flush()
}
