/*
lalgc is a console utility running LALG compiler stages and the MEPA machine.
Usage is

	lalgc [--lang <file>] [--debug] <command> [flags] [<file>]

Commands are:

	lex <file>              print tokens and lexical diagnostics;
	parse [--tree] [--find <label>] <file>
	                        parse source, print diagnostics, optionally the syntax tree
	                        and nodes having given label;
	compile <file>          run all stages, print diagnostics and the symbol table;
	tables [-f json|cbor]   print First/Follow sets and the parse table;
	run [-l <n>] <file>     load MEPA program text and run it using standard input and output.

Source file "-" means standard input.
--lang sets JSON language definition file, default is built-in LALG definition.
--debug enables step narration on standard error.
*/
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava12/lalg/compiler"
	"github.com/ava12/lalg/langdef"
)

type options struct {
	lang  string
	debug bool
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	if !o.debug {
		return nil
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (o *options) definition() (*langdef.Definition, error) {
	if o.lang == "" {
		return langdef.Default(), nil
	}
	return langdef.LoadFile(o.lang)
}

func (o *options) compiler(cmd *cobra.Command) (*compiler.Compiler, error) {
	def, e := o.definition()
	if e != nil {
		return nil, e
	}
	return compiler.New(compiler.WithDefinition(def), compiler.WithLogger(o.logger(cmd)))
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "lalgc",
		Short:         "LALG compiler stages and MEPA machine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&o.lang, "lang", "", "language definition file (JSON)")
	root.PersistentFlags().BoolVar(&o.debug, "debug", false, "log step narration to stderr")

	root.AddCommand(
		newLexCmd(o),
		newParseCmd(o),
		newCompileCmd(o),
		newTablesCmd(o),
		newRunCmd(o),
	)
	return root
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}

func main() {
	if e := newRootCmd().Execute(); e != nil {
		fmt.Fprintln(os.Stderr, "Error:", e)
		os.Exit(1)
	}
}
