package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"braces.dev/errtrace"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/peterbourgon/ff/v3"
	"go.abhg.dev/codefence/internal/codeblock"
	"go.abhg.dev/codefence/internal/flagvalue"
)

var (
	errHelp             = flag.ErrHelp
	errInvalidArguments = errors.New("invalid arguments")
)

// _envVarPrefix is the prefix for environment variables
// that set command line options.
const _envVarPrefix = "CODEFENCE"

// params holds all arguments for codefence.
type params struct {
	version bool
	help    Help

	Config string
	Debug  flagvalue.FileSwitch

	OutputDir string
	Title     string
	Drafts    bool
	Exclude   []string
	Sanitize  bool
	Pagefind  flagvalue.FileSwitch
	Watch     bool

	Style       string
	ClassPrefix string
	Aliases     []flagvalue.KeyValue
	Marker      string

	PostsDir string
}

// cliParser parses the command line arguments for codefence.
type cliParser struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (cmd *cliParser) newFlagSet() (*params, *flag.FlagSet) {
	flag := flag.NewFlagSet("codefence", flag.ContinueOnError)
	// Parse reports errors with more context.
	flag.SetOutput(io.Discard)
	flag.Usage = func() {
		_ = UsageHelp.Write(cmd.Stderr)
	}

	var p params

	// Site:
	flag.StringVar(&p.OutputDir, "out", "_site", "")
	flag.StringVar(&p.Title, "title", "", "")
	flag.BoolVar(&p.Drafts, "drafts", false, "")
	flag.Func("exclude", "", func(pat string) error {
		if !doublestar.ValidatePattern(pat) {
			return errtrace.Errorf("bad pattern %q", pat)
		}
		p.Exclude = append(p.Exclude, pat)
		return nil
	})
	flag.BoolVar(&p.Sanitize, "sanitize", false, "")
	flag.Var(&p.Pagefind, "pagefind", "")
	flag.BoolVar(&p.Watch, "watch", false, "")

	// Code blocks:
	flag.StringVar(&p.Style, "style", "plain", "")
	flag.StringVar(&p.ClassPrefix, "class-prefix", "", "")
	flag.Var(flagvalue.ListOf(&p.Aliases), "alias", "")
	flag.StringVar(&p.Marker, "marker", codeblock.DefaultMarker, "")

	// Program-level:
	flag.StringVar(&p.Config, "config", "", "")
	flag.Var(&p.Debug, "debug", "")
	flag.BoolVar(&p.version, "version", false, "")
	flag.Var(&p.help, "help", "")
	flag.Var(&p.help, "h", "")

	return &p, flag
}

func (cmd *cliParser) Parse(args []string) (*params, error) {
	p, flag := cmd.newFlagSet()
	if err := ff.Parse(flag, args,
		ff.WithEnvVarPrefix(_envVarPrefix),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		fmt.Fprintln(cmd.Stderr, err)
		return nil, err
	}
	args = flag.Args()

	if p.version {
		fmt.Fprintln(cmd.Stdout, "codefence", _version)
		return nil, errHelp
	}

	if p.help == DefaultHelp && len(args) > 0 {
		// The user might have done "-h foo"
		// instead of "-h=foo".
		// If the argument is a known help topic,
		// take it.
		var h Help
		if err := h.Set(args[0]); err == nil {
			if _, ok := _helpTopics[h]; ok {
				p.help = h
			}
		}
	}

	switch p.help {
	case NoHelp:
		// proceed as usual
	default:
		if err := p.help.Write(cmd.Stderr); err != nil {
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, errHelp
	}

	switch len(args) {
	case 0:
		fmt.Fprintln(cmd.Stderr, "Please provide the posts directory.")
		_ = UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	case 1:
		p.PostsDir = args[0]
	default:
		fmt.Fprintf(cmd.Stderr, "Unexpected arguments: %q\n", args[1:])
		_ = UsageHelp.Write(cmd.Stderr)
		return nil, errInvalidArguments
	}

	if p.Marker == "" {
		fmt.Fprintln(cmd.Stderr, "-marker must not be empty.")
		return nil, errInvalidArguments
	}

	return p, nil
}
