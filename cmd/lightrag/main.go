package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/josinaldojr/simple-lightrag/internal/app"
	"github.com/josinaldojr/simple-lightrag/internal/config"
	"github.com/josinaldojr/simple-lightrag/internal/loader"
	"github.com/josinaldojr/simple-lightrag/internal/rag"
)

type fileList []string

func (f *fileList) String() string { return strings.Join(*f, ",") }

func (f *fileList) Set(v string) error {
	*f = append(*f, v)
	return nil
}

type options struct {
	files []string
	dir   string
	query string
	mode  string
	check bool
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("lightrag", flag.ContinueOnError)
	var files fileList
	fs.Var(&files, "file", "document to insert (.txt/.md/.html/.pdf); repeatable")
	dir := fs.String("dir", "", "insert every supported file under this directory")
	query := fs.String("query", "", "question to ask over the inserted documents")
	mode := fs.String("mode", string(rag.ModeNaive), "query mode, passed through to the prompt")
	check := fs.Bool("check", false, "list models on the server before doing anything else")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &options{files: files, dir: *dir, query: *query, mode: *mode, check: *check}, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to init session", "error", err)
		os.Exit(1)
	}

	if err := run(context.Background(), a, opts, os.Stdout); err != nil {
		logger.Error("lightrag failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, opts *options, out io.Writer) error {
	if opts.check {
		if a.Models == nil {
			return errors.New("model listing not supported by this backend")
		}
		models, err := a.Models.ListModels(ctx)
		if err != nil {
			return fmt.Errorf("connection test: %w", err)
		}
		fmt.Fprintf(out, "Available models: %s\n", strings.Join(models, ", "))
	}

	fmt.Fprintln(out, "Inserting document...")
	for _, path := range opts.files {
		text, err := loader.ReadFile(path)
		if err != nil {
			return err
		}
		a.Session.Insert(ctx, text)
	}
	if opts.dir != "" {
		docs, err := loader.ReadDir(opts.dir)
		if err != nil {
			return fmt.Errorf("read dir %s: %w", opts.dir, err)
		}
		for _, d := range docs {
			a.Session.Insert(ctx, d.Text)
		}
	}

	fmt.Fprintln(out, "Sending query...")
	if opts.query == "" {
		return nil
	}
	answer, err := a.Session.Query(ctx, opts.query, rag.Mode(opts.mode))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Result: %s\n", answer)
	return nil
}
