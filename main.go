package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/hidetatz/cjkline/ansiterm"
	"github.com/hidetatz/cjkline/config"
	"github.com/hidetatz/cjkline/linebuf"
	"github.com/hidetatz/cjkline/readline"
	"github.com/hidetatz/cjkline/tcellterm"
)

type options struct {
	config  string
	prompt  string
	backend string
	debug   string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("cjkline", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.StringVar(&o.config, "config", "", "path to the config file (default ~/.config/cjkline/config.toml)")
	fs.StringVar(&o.prompt, "prompt", "", "prompt shown before the line")
	fs.StringVar(&o.backend, "backend", "", `terminal backend, "ansi" or "tcell"`)
	fs.StringVar(&o.debug, "debug", "", "append debug log to this file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return &o, nil
}

// flags win over the config file
func (o *options) apply(cfg *config.Config) error {
	if o.prompt != "" {
		cfg.Prompt = o.prompt
	}
	if o.backend != "" {
		cfg.Backend = o.backend
	}
	if o.debug != "" {
		cfg.Debug.Log = o.debug
	}
	return cfg.Validate()
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(o.config)
	if err != nil {
		return err
	}
	if err := o.apply(cfg); err != nil {
		return err
	}

	if cfg.Debug.Log != "" {
		f, err := os.OpenFile(cfg.Debug.Log, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
		readline.SetDebugOutput(f)
		defer readline.SetDebugOutput(nil)
	}

	var line string
	switch cfg.Backend {
	case config.BackendTcell:
		line, err = readTcell(cfg.Prompt, cfg.Classifier())
	default:
		line, err = readANSI(stdin, stdout, cfg.Prompt, cfg.Classifier())
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "result: %s\n", line)
	return nil
}

func readANSI(stdin io.Reader, stdout io.Writer, prompt string, class linebuf.Classifier) (string, error) {
	opts := []ansiterm.Option{ansiterm.WithClassifier(class)}
	if f, ok := stdin.(*os.File); ok {
		opts = append(opts, ansiterm.WithFd(int(f.Fd())))
	}
	if f, ok := stdout.(*os.File); ok {
		opts = append(opts, ansiterm.WithOutFd(int(f.Fd())))
	}
	term := ansiterm.New(stdin, stdout, opts...)

	/*
	 * Prepare terminal
	 */

	restore, err := term.MakeRaw()
	if err != nil {
		return "", err
	}
	defer restore()

	if err := term.SyncCursor(); err != nil {
		return "", err
	}

	return readline.ReadLine(term, term, prompt, readline.WithClassifier(class))
}

func readTcell(prompt string, class linebuf.Classifier) (string, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return "", fmt.Errorf("open screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return "", fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	s := tcellterm.New(screen, tcellterm.WithClassifier(class))
	return readline.ReadLine(s, s, prompt, readline.WithClassifier(class))
}

func main() {
	err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "cjkline: %v\n", err)
		os.Exit(1)
	}
}
