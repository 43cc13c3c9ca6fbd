/*
Ncli runs an interactive session over a single grammar file.

It compiles the grammar given by -g/--grammar, binds it to the rule named by
-r/--root (default "root"), and starts reading commands from stdin. Calls
made from the grammar's binding blocks via `call name(...)` are dispatched to
a small demo Host that prints what was called; "exit" and "quit" stop the
session. This is the reference wiring for the framework, the way cmd/tqi is
for the tunaq game engine - it is not meant to be a complete application in
its own right.

Usage:

	ncli [flags]

The flags are:

	-v, --version
		Give the current version of gocli and then exit.

	-g, --grammar FILE
		Compile and run the given grammar source file.

	-r, --root NAME
		Name of the rule to match input against. Defaults to "root".

	-d, --direct
		Force reading directly from stdin instead of going through GNU
		readline based routines, even if launched in a tty.

	-c, --command COMMANDS
		Immediately run the given command(s) at start. Can be multiple
		commands separated by the ";" character.

	--config FILE
		Load prompt, history file, and console width preferences from the
		given TOML file.

	--cache FILE
		Compile -g/--grammar once and write the compiled grammar.Spec to
		FILE in its serialized binary form; on subsequent runs, if FILE
		already exists and is newer than -g/--grammar, load the spec
		from FILE instead of recompiling it.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/nessaid/gocli/action"
	"github.com/nessaid/gocli/cli"
	"github.com/nessaid/gocli/grammar"
	"github.com/nessaid/gocli/grammar/compile"
	"github.com/nessaid/gocli/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue loading or compiling the grammar.
	ExitInitError

	// ExitRunError indicates an unsuccessful program execution due to a
	// problem during the session itself.
	ExitRunError
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	grammarFile *string = pflag.StringP("grammar", "g", "", "The grammar source file to compile and run")
	rootRule    *string = pflag.StringP("root", "r", "root", "The name of the rule to match input against")
	forceDirect *bool   = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	startCmd    *string = pflag.StringP("command", "c", "", "Execute the given commands immediately at start and leave the session open")
	configFile  *string = pflag.String("config", "", "TOML file of prompt/history/width preferences")
	cacheFile   *string = pflag.String("cache", "", "Path to a serialized grammar.Spec cache; reused if newer than --grammar, otherwise (re)written")
)

// sessionConfig is the shape of the optional --config TOML file, following
// the preferences SPEC_FULL.md's Configuration section names: prompt
// string, history file path, console width.
type sessionConfig struct {
	Prompt  string `toml:"prompt"`
	History string `toml:"history_file"`
	Width   int    `toml:"width"`
}

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg := sessionConfig{Prompt: "> ", Width: 80}
	if *configFile != "" {
		if _, err := toml.DecodeFile(*configFile, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}

	if *grammarFile == "" {
		fmt.Fprintln(os.Stderr, "ERROR: -g/--grammar is required")
		returnCode = ExitInitError
		return
	}

	spec, err := loadSpec(*grammarFile, *cacheFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	host := newDemoHost()

	var startCommands []string
	if *startCmd != "" {
		startCommands = strings.Split(*startCmd, ";")
	}

	sess, err := cli.NewSession(spec, *rootRule, host, cli.NewDirectReader(os.Stdin), os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	sess.SetWidth(cfg.Width)
	host.session = sess

	if !*forceDirect {
		completer := cli.NewCompleter(sess)
		ir, err := cli.NewInteractiveReader(cfg.Prompt, completer, cfg.History)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		sess.SetReader(ir)
	}
	defer sess.Close()

	if err := sess.Run(context.Background(), startCommands); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitRunError
		return
	}
}

// loadSpec compiles grammarPath, unless cachePath names a cache file at
// least as new as grammarPath's own mtime, in which case it deserializes the
// spec from there instead. Either way, a freshly compiled spec is written
// back out to cachePath so the next run can skip recompiling. This is the
// compile(source).serialize().parse().compile() round trip put to actual
// use: the "parse" half is grammar.Spec.UnmarshalBinary, and the final
// "compile" half is every Session.Run call matching against the result
// exactly as it would against a freshly compiled spec.
func loadSpec(grammarPath, cachePath string) (*grammar.Spec, error) {
	grammarInfo, err := os.Stat(grammarPath)
	if err != nil {
		return nil, err
	}

	if cachePath != "" {
		if cacheInfo, err := os.Stat(cachePath); err == nil && !cacheInfo.ModTime().Before(grammarInfo.ModTime()) {
			data, err := os.ReadFile(cachePath)
			if err != nil {
				return nil, err
			}
			spec := grammar.New()
			if err := spec.UnmarshalBinary(data); err != nil {
				return nil, fmt.Errorf("load cache %s: %w", cachePath, err)
			}
			return spec, nil
		}
	}

	src, err := os.ReadFile(grammarPath)
	if err != nil {
		return nil, err
	}
	spec, err := compile.Compile(string(src))
	if err != nil {
		return nil, err
	}

	if cachePath != "" {
		data, err := spec.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("serialize cache %s: %w", cachePath, err)
		}
		if err := os.WriteFile(cachePath, data, 0o644); err != nil {
			return nil, fmt.Errorf("write cache %s: %w", cachePath, err)
		}
	}

	return spec, nil
}

// demoHost dispatches `call name(...)` bindings from an arbitrary grammar
// file to a generic printer, and recognizes "exit"/"quit" as a request to
// stop the owning Session. Grounded on engine.Engine's role as the
// action.Host a tunascript binding calls into, generalized here since ncli
// has no fixed command set of its own.
type demoHost struct {
	session *cli.Session
}

func newDemoHost() *demoHost {
	return &demoHost{}
}

func (h *demoHost) Print(args ...*action.Value) {
	var parts []string
	for _, a := range args {
		parts = append(parts, a.Repr())
	}
	fmt.Println(strings.Join(parts, " "))
}

func (h *demoHost) ReadInput(prompt string, echo bool) (string, error) {
	fmt.Print(prompt)
	var line string
	_, err := fmt.Scanln(&line)
	return line, err
}

func (h *demoHost) Call(name string, args []*action.Value) (*action.Value, error) {
	switch name {
	case "exit", "quit":
		if h.session != nil {
			h.session.Stop()
		}
		return action.Null(), nil
	default:
		var parts []string
		for _, a := range args {
			parts = append(parts, a.Repr())
		}
		fmt.Printf("%s(%s)\n", name, strings.Join(parts, ", "))
		return action.Null(), nil
	}
}
