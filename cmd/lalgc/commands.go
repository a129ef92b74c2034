package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava12/lalg"
	"github.com/ava12/lalg/compiler"
	"github.com/ava12/lalg/grammar"
	"github.com/ava12/lalg/lexer"
	"github.com/ava12/lalg/ll1"
	"github.com/ava12/lalg/mepa"
	"github.com/ava12/lalg/source"
	"github.com/ava12/lalg/tree"
)

var errDiagnostics = errors.New("source has errors")

// printErrors prints messages prefixed with source name, followed by the offending line.
func printErrors(w io.Writer, src *source.Source, es []*lalg.Error) {
	for _, e := range es {
		if src.Name() != "" {
			fmt.Fprintf(w, "%s: %s\n", src.Name(), e.Message)
		} else {
			fmt.Fprintln(w, e.Message)
		}

		if e.StartRow < 0 {
			continue
		}
		endCol := e.EndCol
		if e.EndRow != e.StartRow {
			endCol = e.StartCol + 1
		}
		if line, marker, ok := src.Excerpt(e.StartRow, e.StartCol, endCol); ok {
			fmt.Fprintf(w, "\t%s\n\t%s\n", line, marker)
		}
	}
}

// printMatches prints position, label and terminal text of every node having given label.
func printMatches(w io.Writer, res *compiler.Result, label string) {
	tr := res.Tree
	words := tree.IsAll(tree.IsTerminal, tree.IsNot(tree.IsA(grammar.Epsilon)))
	for _, id := range tree.Search(tr, tr.Root(), tree.IsA(label), true) {
		pos := "-"
		var text []string
		for _, leaf := range tree.Search(tr, id, words, true) {
			n, _ := tr.Node(leaf)
			if pos == "-" && n.Token >= 0 && n.Token < len(res.Tokens) {
				t := res.Tokens[n.Token]
				pos = fmt.Sprintf("%d:%d", t.Row+1, t.Col+1)
			}
			text = append(text, n.Label)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", pos, label, strings.Join(text, " "))
	}
}

func newLexCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lex <file>",
		Short: "Print tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, e := readInput(cmd, args[0])
			if e != nil {
				return e
			}

			def, e := o.definition()
			if e != nil {
				return e
			}
			src := source.New(args[0], text)
			res := <-lexer.Start(cmd.Context(), lexer.NewRequest(def, src.Text()))
			if res.Err != nil {
				return res.Err
			}

			fmt.Fprint(cmd.OutOrStdout(), lexer.Dump(res.Tokens))
			printErrors(cmd.ErrOrStderr(), src, res.Errors)
			if len(res.Errors) > 0 {
				return errDiagnostics
			}
			return nil
		},
	}
}

func newParseCmd(o *options) *cobra.Command {
	var (
		showTree bool
		find     string
	)
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse source and print diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, res, e := compile(cmd, o, args[0])
			if e != nil {
				return e
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", res.Name, res.State)
			if showTree {
				fmt.Fprint(out, res.Tree.String())
			}
			if find != "" {
				printMatches(out, res, find)
			}
			printErrors(cmd.ErrOrStderr(), src, res.Errors.Sorted())
			if !res.Ok() {
				return errDiagnostics
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showTree, "tree", "t", false, "print syntax tree")
	cmd.Flags().StringVar(&find, "find", "", "print nodes having given label, e.g. \"<conditional_command>\"")
	return cmd
}

func newCompileCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <file>",
		Short: "Run all stages and print the symbol table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, res, e := compile(cmd, o, args[0])
			if e != nil {
				return e
			}

			if e = res.Symbols.Write(cmd.OutOrStdout()); e != nil {
				return e
			}
			printErrors(cmd.ErrOrStderr(), src, res.Errors.Sorted())
			if !res.Ok() {
				return errDiagnostics
			}
			return nil
		},
	}
}

func newTablesCmd(o *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print First/Follow sets and the parse table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, e := ll1.ParseFormat(format)
			if e != nil {
				return e
			}
			c, e := o.compiler(cmd)
			if e != nil {
				return e
			}
			return ll1.Encode(cmd.OutOrStdout(), c.Analysis().Export(), f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or cbor")
	return cmd
}

func newRunCmd(o *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run MEPA program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, e := readInput(cmd, args[0])
			if e != nil {
				return e
			}

			var in io.Reader = cmd.InOrStdin()
			if args[0] == "-" {
				in = strings.NewReader("")
			}
			m := mepa.New(mepa.Config{}, mepa.NewIOConsole(in, cmd.OutOrStdout()))
			m.SetLogger(o.logger(cmd))
			if e = m.LoadText(bytes.NewReader(text)); e != nil {
				return e
			}
			_, e = m.RunAll(limit)
			return e
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum number of executed instructions, 0 means no limit")
	return cmd
}

func compile(cmd *cobra.Command, o *options, name string) (*source.Source, *compiler.Result, error) {
	text, e := readInput(cmd, name)
	if e != nil {
		return nil, nil, e
	}
	c, e := o.compiler(cmd)
	if e != nil {
		return nil, nil, e
	}
	src := source.New(name, text)
	res, e := c.Compile(cmd.Context(), src)
	return src, res, e
}
