// Command semtag infers the logical structure of a document.
//
// Usage:
//
//	semtag [flags] <input.json|input.pdf|->
//
// The input is a JSON content tree or a PDF file; "-" reads standard input.
// The re-typed tree is written as JSON, tagged HTML, or a stats summary.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tsawler/semtag"
	"github.com/tsawler/semtag/config"
	"github.com/tsawler/semtag/export"
	"github.com/tsawler/semtag/format"
	"github.com/tsawler/semtag/model"
)

const (
	exitOK    = 0
	exitCheck = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("semtag", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		flagConfig     string
		flagFormat     string
		flagOutput     string
		flagLogLevel   string
		flagScores     bool
		flagSkipTables bool
	)
	fs.StringVar(&flagConfig, "config", "", "YAML configuration file")
	fs.StringVar(&flagFormat, "format", "json", "output format: json, html, or stats")
	fs.StringVar(&flagOutput, "o", "", "output file (default standard output)")
	fs.StringVar(&flagLogLevel, "log-level", "", "log level, overrides the configuration")
	fs.BoolVar(&flagScores, "scores", false, "include scores in HTML output")
	fs.BoolVar(&flagSkipTables, "skip-tables", false, "disable table detection")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: semtag [flags] <input.json|input.pdf|->")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	if flagFormat != "stats" && !format.Parse(flagFormat).IsOutput() {
		fmt.Fprintf(stderr, "semtag: unknown output format %q\n", flagFormat)
		return exitUsage
	}

	cfg := config.Default()
	if flagConfig != "" {
		parsed, err := config.Parse(flagConfig)
		if err != nil {
			fmt.Fprintf(stderr, "semtag: config: %v\n", err)
			return exitUsage
		}
		cfg = parsed
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "semtag: %v\n", err)
			return exitUsage
		}
	}

	log := cfg.Logger(stderr)
	checker := cfg.Checker(log)
	if flagSkipTables {
		checker = checker.SkipTables()
	}

	input := fs.Arg(0)
	result, err := check(checker, input, stdin)
	if err != nil {
		log.Error("check failed", "input", input, "error", err)
		fmt.Fprintf(stderr, "semtag: %v\n", err)
		return exitCheck
	}

	if flagOutput == "" {
		err = write(stdout, result, flagFormat, flagScores)
	} else {
		err = writeFile(flagOutput, result, flagFormat, flagScores)
	}
	if err != nil {
		fmt.Fprintf(stderr, "semtag: write: %v\n", err)
		return exitCheck
	}
	return exitOK
}

// createOutput opens the -o file
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeFile writes the result to path and returns the close error when the
// write itself succeeded
func writeFile(path string, result *semtag.Result, view string, scores bool) (err error) {
	f, err := createOutput(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return write(f, result, view, scores)
}

func check(checker *semtag.Checker, input string, stdin io.Reader) (*semtag.Result, error) {
	var data []byte
	var err error
	if input == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return nil, err
	}

	in := format.DetectFromMagic(data)
	if in == format.Unknown {
		in = format.Detect(input)
	}

	switch in {
	case format.JSON:
		tree, err := model.DecodeTree(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return checker.Check(tree)
	case format.PDF:
		return checker.CheckPDFReader(bytes.NewReader(data), int64(len(data)))
	}
	return nil, errors.New("input must be a JSON tree or a PDF")
}

func write(w io.Writer, result *semtag.Result, view string, scores bool) error {
	switch view {
	case "html":
		return export.WriteHTML(w, result.Tree, export.HTMLOptions{Scores: scores})
	case "stats":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summarize(result))
	}
	return model.EncodeTree(w, result.Tree)
}

type summary struct {
	RunID    string         `json:"run_id"`
	Nodes    int            `json:"nodes"`
	Headings int            `json:"headings"`
	Captions int            `json:"captions"`
	Lists    int            `json:"lists"`
	Tables   int            `json:"tables"`
	Types    map[string]int `json:"types"`
}

func summarize(result *semtag.Result) summary {
	s := summary{
		RunID:    result.RunID,
		Nodes:    result.Tree.Len(),
		Headings: result.Stats.Headings,
		Captions: result.Stats.Captions,
		Lists:    result.Stats.Lists,
		Tables:   result.Stats.Tables,
		Types:    make(map[string]int),
	}
	for t, n := range result.Stats.Types {
		if t != model.TypeNone {
			s.Types[t.String()] = n
		}
	}
	return s
}
