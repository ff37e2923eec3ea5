// codefence builds a static blog from a directory of Markdown posts.
// Code blocks in posts are syntax highlighted,
// and may use ::: directives to group their lines into scopes.
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"

	"braces.dev/errtrace"
	"go.abhg.dev/codefence/internal/codeblock"
	"go.abhg.dev/codefence/internal/flagvalue"
	"go.abhg.dev/codefence/internal/highlight"
	"go.abhg.dev/codefence/internal/markdown"
	"go.abhg.dev/codefence/internal/pagefind"
	"go.abhg.dev/codefence/internal/site"
	"go.abhg.dev/codefence/internal/watch"
)

func main() {
	cmd := mainCmd{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(cmd.Run(os.Args[1:]))
}

// mainCmd is the actual entry point to the program.
type mainCmd struct {
	Stdout io.Writer // == os.Stdout
	Stderr io.Writer // == os.Stderr

	log *log.Logger
}

func (cmd *mainCmd) Run(args []string) (exitCode int) {
	cmd.log = log.New(cmd.Stderr, "", 0)

	opts, err := (&cliParser{
		Stdout: cmd.Stdout,
		Stderr: cmd.Stderr,
	}).Parse(args)
	if err != nil {
		// '$cmd -h' should exit with zero.
		if errors.Is(err, errHelp) {
			return 0
		}
		// No need to print anything.
		// Parse prints messages.
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.run(ctx, opts); err != nil {
		cmd.log.Printf("codefence: %v", err)
		return 1
	}
	return 0
}

func (cmd *mainCmd) run(ctx context.Context, opts *params) (err error) {
	debugw, closeDebug, err := opts.Debug.Create(cmd.Stderr)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer func() {
		err = errors.Join(err, closeDebug())
	}()
	debugLog := log.New(debugw, "", 0)

	style, err := highlight.LookupStyle(opts.Style)
	if err != nil {
		return errtrace.Wrap(err)
	}
	hl := &highlight.Highlighter{
		Style:       style,
		ClassPrefix: opts.ClassPrefix,
		Aliases:     flagvalue.KeyValueMap(opts.Aliases),
	}

	renderer := &site.Renderer{
		Title:       opts.Title,
		Highlighter: hl,
		Search:      opts.Pagefind.Bool(),
	}
	if opts.Sanitize {
		renderer.Sanitizer = new(site.Sanitizer)
	}

	gen := Generator{
		Log:       debugLog,
		Converter: new(markdown.Converter),
		Transformer: codeblock.Pipeline{
			&codeblock.Highlight{
				Highlighter: hl,
				Log:         cmd.log,
				PreClass:    hl.WrapperClass(),
			},
			&codeblock.Directives{
				Marker: opts.Marker,
			},
		},
		Renderer: renderer,
		PostsDir: opts.PostsDir,
		OutDir:   opts.OutputDir,
		Drafts:   opts.Drafts,
		Exclude:  opts.Exclude,
	}
	if opts.Pagefind.Bool() {
		gen.Indexer = &pagefind.CLI{
			// Empty searches $PATH.
			Pagefind: opts.Pagefind.Path(""),
			Log:      debugLog,
		}
	}

	if err := gen.Generate(ctx); err != nil {
		return errtrace.Wrap(err)
	}
	cmd.log.Printf("Generated %v", opts.OutputDir)

	if !opts.Watch {
		return nil
	}

	cmd.log.Printf("Watching %v for changes. Press Ctrl-C to stop.", opts.PostsDir)
	watcher := watch.Watcher{
		Dir:    opts.PostsDir,
		Ignore: []string{opts.OutputDir},
		Log:    debugLog,
	}
	return errtrace.Wrap(watcher.Run(ctx, func(changed []string) {
		cmd.log.Printf("Rebuilding: %d files changed", len(changed))
		if err := gen.Generate(ctx); err != nil {
			cmd.log.Printf("warning: %v", err)
		}
	}))
}
