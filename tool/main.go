// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package tool implements the lazy command.
package tool

import (
	"context"
	"flag"
	"fmt"
	"io"
	golog "log"
	"net/http" // Global pprof handlers for all instantiations of the tool.
	_ "net/http/pprof"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/go-logr/logr/funcr"
	"github.com/grailbio/base/status"
	"github.com/grailbio/lazy/config"
	"github.com/grailbio/lazy/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Func is the type of a command function.
type Func func(*Cmd, context.Context, ...string)

// Cmd holds the configuration, flag definitions, and runtime objects
// required for tool invocations.
type Cmd struct {
	// Config is the active configuration. It is loaded from
	// ConfigFile by Main if it is not already set.
	Config *config.Config
	// ConfigFile stores the path of the active configuration file.
	// May be overriden by the -config flag.
	ConfigFile string
	Version    string

	// Commands contains the additional set of invocable commands.
	Commands map[string]Func

	// Intro is an additional introduction printed after the standard one.
	Intro string

	// The standard output and error as defined by this command;
	// these are wrapped through a status writer so that output is
	// properly interleaved.
	Stdout, Stderr io.Writer

	// Status object for the current cmd invocation. This is used to
	// continuously update the progress of evaluation.
	Status *status.Status

	Log *log.Logger

	httpFlag       string
	cpuProfileFlag string
	logFlag        string
	structuredFlag bool

	onexits []func()
	// exit is called by Exit; it is os.Exit unless overridden.
	exit func(int)

	flags *flag.FlagSet
}

var commands = map[string]Func{
	"digest":  (*Cmd).digest,
	"trace":   (*Cmd).trace,
	"eval":    (*Cmd).eval,
	"dot":     (*Cmd).dot,
	"tree":    (*Cmd).tree,
	"config":  (*Cmd).config,
	"version": (*Cmd).versionCmd,
}

var intro = `The lazy command constructs, inspects and evaluates lazy
expression graphs.

The command comprises a set of subcommands; the list of supported
commands can be obtained by running

	lazy -help

Each subcommand can in turn be invoked with -help, displaying its
usage and help text. For example, the following displays help for the
"trace" command.

	lazy trace -help

Subcommands take expressions as arguments. Expressions are written in
Go syntax over the inputs and bindings of the configuration:

	lazy -config example.yaml trace "f + x"

Global flags are supplied after the "lazy" command; command flags
after that command's name. For example, the following evaluates an
expression with debug logging, printing every statement as it is
evaluated:

	lazy -log debug eval "(1 + 2) * 3"

The configuration file is documented by the config command:

	lazy config -help`

var help = `Lazy is a tool for constructing and evaluating lazy expressions.

Usage of lazy:
	lazy [flags] <command> [args]`

func (c *Cmd) usage(flags *flag.FlagSet) {
	fmt.Fprintln(c.stderr(), help)
	fmt.Fprintln(c.stderr(), "Lazy commands:")
	cmds := maps.Keys(c.commands())
	slices.Sort(cmds)
	for _, name := range cmds {
		fmt.Fprintln(c.stderr(), "\t"+name)
	}
	fmt.Fprintln(c.stderr(), "Global flags:")
	flags.SetOutput(c.stderr())
	flags.PrintDefaults()
	c.Exit(2)
}

// Main parses command line flags and then invokes the requested
// command. The caller is expected to have parsed the flagset for us
// before calling Main.
//
// Main should only be called once.
func (c *Cmd) Main() {
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	flags := c.Flags()
	if flags.NArg() == 0 {
		fmt.Fprintln(c.Stderr, intro)
		if c.Intro != "" {
			fmt.Fprintln(c.Stderr)
			fmt.Fprintln(c.Stderr, c.Intro)
		}
		c.Exit(2)
	}
	cmd := flags.Arg(0)
	fn := c.commands()[cmd]
	if fn == nil {
		flags.Usage()
	}
	if c.Config == nil {
		c.Config = new(config.Config)
		if c.ConfigFile != "" {
			var err error
			if c.Config, err = config.Load(c.ConfigFile); err != nil {
				c.Fatal(err)
			}
		}
	}
	level, err := c.Config.Level()
	if err != nil {
		c.Fatal(err)
	}
	if c.logFlag != "" {
		if level, err = log.ParseLevel(c.logFlag); err != nil {
			c.Fatal(err)
		}
	}
	c.Status = new(status.Status)
	http.Handle("/debug/status", status.Handler(c.Status))
	if level < log.DebugLevel {
		reporter := make(status.Reporter)
		c.Stdout = reporter.Wrap(c.Stdout)
		c.Stderr = reporter.Wrap(c.Stderr)
		go reporter.Go(os.Stderr, c.Status)
		c.onexit(reporter.Stop)
	}
	c.Log = c.logger(level)
	// Set the system wide logger with the same level and output
	// as the one that's threaded through Cmd.
	log.Std = c.Log

	if c.httpFlag != "" {
		go func() {
			c.Fatal(http.ListenAndServe(c.httpFlag, nil))
		}()
	}
	if c.cpuProfileFlag != "" {
		file, err := os.Create(c.cpuProfileFlag)
		if err != nil {
			c.Fatal(err)
		}
		pprof.StartCPUProfile(file)
		c.onexit(pprof.StopCPUProfile)
	}
	c.Log.Debug("lazy version ", c.version())

	// Create a context and cancel it if we receive an interrupt.
	// The second interrupt we receive results in a hard exit.
	ctx, cancel := context.WithCancel(context.Background())
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	go func() {
		<-sigc
		cancel()
		c.Errorln("interrupted")
		<-sigc
		c.Exit(1)
	}()
	// Note that the flag package stops parsing flags after the first
	// non-flag argument (i.e., the first argument that does not begin
	// with "-"); thus flag.Args()[1:] contains all the flags and
	// arguments for the command in flags.Arg[0].
	fn(c, ctx, flags.Args()[1:]...)
	c.Exit(0)
}

// logger returns the command's logger at the provided level. With
// -structured, messages are rendered as logr key-value records.
func (c *Cmd) logger(level log.Level) *log.Logger {
	if c.structuredFlag {
		stderr := c.Stderr
		sink := funcr.New(func(prefix, args string) {
			fmt.Fprintln(stderr, prefix, args)
		}, funcr.Options{})
		return log.New(log.LogrOutputter(sink.WithName("lazy")), level)
	}
	var (
		logflags  int
		logprefix = "lazy: "
	)
	if level > log.InfoLevel {
		logflags = golog.LstdFlags
		logprefix = ""
	}
	return log.New(golog.New(c.Stderr, logprefix, logflags), level)
}

// Fatal formats a message in the manner of fmt.Print, prints it to
// stderr, and then exits the tool.
func (c *Cmd) Fatal(v ...interface{}) {
	fmt.Fprintln(c.stderr(), v...)
	c.Exit(1)
}

// Fatalf formats a message in the manner of fmt.Printf, prints it to
// stderr, and then exits the tool.
func (c *Cmd) Fatalf(format string, v ...interface{}) {
	fmt.Fprintf(c.stderr(), format, v...)
	fmt.Fprintln(c.stderr())
	c.Exit(1)
}

// Errorln formats a message in the manner of fmt.Println and prints it
// to stderr.
func (c *Cmd) Errorln(v ...interface{}) {
	fmt.Fprintln(c.stderr(), v...)
}

// Errorf formats a message in the manner of fmt.Printf and prints it
// to stderr.
func (c *Cmd) Errorf(format string, v ...interface{}) {
	fmt.Fprintf(c.stderr(), format, v...)
}

// Println formats a message in the manner of fmt.Println and prints
// it to stdout.
func (c *Cmd) Println(v ...interface{}) {
	fmt.Fprintln(c.Stdout, v...)
}

// Printf formats a message in the manner of fmt.Printf and prints it
// to stdout.
func (c *Cmd) Printf(format string, v ...interface{}) {
	fmt.Fprintf(c.Stdout, format, v...)
}

// Exit causes the command to exit with the provided status code.
// Exit ensures that command teardown is properly handled.
func (c *Cmd) Exit(code int) {
	for _, fn := range c.onexits {
		fn()
	}
	c.onexits = nil
	if c.exit != nil {
		c.exit(code)
		return
	}
	os.Exit(code)
}

// Flags initializes and returns the FlagSet used by this Cmd instance.
// The user should parse this flagset before invoking (*Cmd).Main, e.g.:
//
//	cmd.Flags().Parse(os.Args[1:])
func (c *Cmd) Flags() *flag.FlagSet {
	if c.flags == nil {
		c.flags = flag.NewFlagSet("lazy", flag.ExitOnError)
		c.flags.Usage = func() { c.usage(c.flags) }
		c.flags.StringVar(&c.ConfigFile, "config", c.ConfigFile, "path to configuration file; otherwise no inputs are defined")
		c.flags.StringVar(&c.httpFlag, "http", "", "run a diagnostic HTTP server on this port")
		c.flags.StringVar(&c.cpuProfileFlag, "cpuprofile", "", "capture a CPU profile and deposit it to the provided path")
		c.flags.StringVar(&c.logFlag, "log", "", "set the log level: off, error, info, debug; overrides the configuration")
		c.flags.BoolVar(&c.structuredFlag, "structured", false, "render log messages as structured key-value records")
	}
	return c.flags
}

func (c *Cmd) commands() map[string]Func {
	m := make(map[string]Func)
	for name, f := range commands {
		m[name] = f
	}
	for name, f := range c.Commands {
		m[name] = f
	}
	return m
}

func (c *Cmd) onexit(fn func()) {
	c.onexits = append(c.onexits, fn)
}

func (c *Cmd) stderr() io.Writer {
	if c.Stderr == nil {
		return os.Stderr
	}
	return c.Stderr
}
