// Command goacorn parses or tokenizes ECMAScript source from files or
// stdin, mirroring the teacher's bin/acorn driver.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kindy/goacorn/pkg/parser"
	"github.com/kindy/goacorn/pkg/token"
)

var (
	ecmaVersion   int
	sourceType    string
	locations     bool
	allowHashBang bool
	compact       bool
	silent        bool
	logLevel      string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "goacorn [flags] [file...]",
		Short: "Parse or tokenize ECMAScript source",
		Long:  "goacorn parses ECMAScript source into an ESTree-shaped AST, or tokenizes it, reading from files or stdin.",
		RunE:  runParse,
	}
	root.PersistentFlags().IntVar(&ecmaVersion, "ecma", 0, "ECMAScript version (3,5,6..13 or 2015..2022); 0 means latest")
	root.PersistentFlags().StringVar(&sourceType, "source-type", "script", `"script" or "module"`)
	root.PersistentFlags().BoolVar(&locations, "locations", false, "attach {line,column} locations to nodes and tokens")
	root.PersistentFlags().BoolVar(&allowHashBang, "allow-hash-bang", false, "allow a leading #! hashbang line")
	root.PersistentFlags().BoolVar(&compact, "compact", false, "emit compact (non-indented) JSON")
	root.PersistentFlags().BoolVar(&silent, "silent", false, "suppress result output; only report errors")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "logrus level: trace,debug,info,warn,error")

	root.AddCommand(newTokenizeCmd())
	return root
}

func newTokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize [file...]",
		Short: "Tokenize source instead of parsing it",
		RunE:  runTokenize,
	}
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	if lvl, err := logrus.ParseLevel(logLevel); err == nil {
		l.SetLevel(lvl)
	}
	return l
}

func readInputs(args []string) ([]string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		return []string{string(data)}, nil
	}
	out := make([]string, len(args))
	for i, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		out[i] = string(data)
	}
	return out, nil
}

func encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func runParse(cmd *cobra.Command, args []string) error {
	sources, err := readInputs(args)
	if err != nil {
		return err
	}
	logger := newLogger()
	cfg := parser.Config{
		EcmaVersion:   ecmaVersion,
		SourceType:    sourceType,
		AllowHashBang: allowHashBang,
		Locations:     locations,
		Logger:        logger,
	}
	for _, src := range sources {
		prog, err := parser.Parse(src, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return err
		}
		if silent {
			continue
		}
		if err := encode(os.Stdout, prog); err != nil {
			return err
		}
	}
	return nil
}

func runTokenize(cmd *cobra.Command, args []string) error {
	sources, err := readInputs(args)
	if err != nil {
		return err
	}
	logger := newLogger()
	cfg := parser.Config{
		EcmaVersion:   ecmaVersion,
		SourceType:    sourceType,
		AllowHashBang: allowHashBang,
		Locations:     locations,
		Logger:        logger,
	}
	for _, src := range sources {
		var tokens []token.Token
		err := parser.Tokenize(src, cfg, func(t token.Token) bool {
			tokens = append(tokens, t)
			return true
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return err
		}
		if silent {
			continue
		}
		if err := encode(os.Stdout, tokens); err != nil {
			return err
		}
	}
	return nil
}
