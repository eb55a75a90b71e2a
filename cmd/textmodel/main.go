// Package main is the entry point for the textmodel command line tool.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/textmodel/internal/config"
	"github.com/dshills/textmodel/internal/engine"
	"github.com/dshills/textmodel/internal/engine/buffer"
	"github.com/dshills/textmodel/internal/engine/mirror"
	"github.com/dshills/textmodel/internal/logger"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	ConfigPath   string
	FilePath     string
	EditsPath    string
	SetEOL       string
	Find         string
	MatchCase    bool
	VerifyMirror bool
	LogLevel     string
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}
	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	if err := logger.Init(level, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	text, err := readInput(opts.FilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading input: %v\n", err)
		return 1
	}

	doc := engine.NewDocument(text, cfg)
	defer doc.Dispose()

	// A mirror fed only by change events, checked against the model
	// at the end.
	var mm *mirror.Model
	var mirrorErr error
	if opts.VerifyMirror {
		mm = mirror.ForModel(doc.Model())
		doc.OnContentChanged(func(e *engine.ContentChangedEvent) {
			if err := mm.Apply(e); err != nil && mirrorErr == nil {
				mirrorErr = err
			}
		})
	}

	var reverse []buffer.ReverseEdit
	if opts.EditsPath != "" {
		batch, err := readEdits(opts.EditsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: reading edits: %v\n", err)
			return 1
		}
		reverse, err = doc.ApplyEdits(batch)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: applying edits: %v\n", err)
			return 1
		}
	}

	if opts.SetEOL != "" {
		eol := buffer.LineEndingLF
		if opts.SetEOL == "crlf" {
			eol = buffer.LineEndingCRLF
		}
		if err := doc.SetEOL(eol); err != nil {
			fmt.Fprintf(os.Stderr, "Error: setting EOL: %v\n", err)
			return 1
		}
	}

	out, err := buildOutput(doc, reverse, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: building output: %v\n", err)
		return 1
	}

	if opts.VerifyMirror {
		if mirrorErr != nil {
			fmt.Fprintf(os.Stderr, "Error: mirror: %v\n", mirrorErr)
			return 1
		}
		value, err := doc.Value()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if mm.Value() != value || mm.VersionID() != doc.VersionID() {
			fmt.Fprintln(os.Stderr, "Error: mirror diverged from model")
			return 1
		}
	}

	fmt.Println(out)
	return 0
}

// readInput returns the document text, from a file or stdin.
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readEdits parses a JSON edit batch of the form:
//
//	{"edits": [{"id": "e1",
//	            "range": {"startLine": 1, "startColumn": 1,
//	                      "endLine": 1, "endColumn": 1},
//	            "text": "hello",
//	            "forceMoveMarkers": false,
//	            "autoWhitespace": false}]}
func readEdits(path string) ([]buffer.EditOperation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s: not valid JSON", path)
	}

	var batch []buffer.EditOperation
	edits := gjson.GetBytes(data, "edits")
	if !edits.IsArray() {
		return nil, fmt.Errorf("%s: missing \"edits\" array", path)
	}
	var parseErr error
	edits.ForEach(func(_, e gjson.Result) bool {
		r := e.Get("range")
		if !r.Exists() {
			parseErr = fmt.Errorf("edit %d: missing range", len(batch))
			return false
		}
		op := buffer.EditOperation{
			ID: e.Get("id").String(),
			Range: buffer.NewRange(
				int(r.Get("startLine").Int()),
				int(r.Get("startColumn").Int()),
				int(r.Get("endLine").Int()),
				int(r.Get("endColumn").Int()),
			),
			ForceMoveMarkers: e.Get("forceMoveMarkers").Bool(),
			IsAutoWhitespace: e.Get("autoWhitespace").Bool(),
		}
		if text := e.Get("text"); text.Exists() && text.String() != "" {
			op.Lines = buffer.SplitLines(text.String())
		}
		batch = append(batch, op)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return batch, nil
}

// buildOutput assembles the JSON result document.
func buildOutput(doc *engine.Document, reverse []buffer.ReverseEdit, opts options) (string, error) {
	value, err := doc.Value()
	if err != nil {
		return "", err
	}

	out := "{}"
	set := func(path string, v any) {
		if err == nil {
			out, err = sjson.Set(out, path, v)
		}
	}

	set("version", doc.VersionID())
	set("lineCount", doc.LineCount())
	set("eol", eolName(doc.EOL()))
	set("mightContainRTL", doc.Model().MightContainRTL())
	set("mightContainNonBasicASCII", doc.Model().MightContainNonBasicASCII())
	set("value", value)

	for i, r := range reverse {
		p := fmt.Sprintf("reverseEdits.%d", i)
		set(p+".id", r.ID)
		set(p+".range.startLine", r.Range.StartLine)
		set(p+".range.startColumn", r.Range.StartColumn)
		set(p+".range.endLine", r.Range.EndLine)
		set(p+".range.endColumn", r.Range.EndColumn)
		set(p+".text", r.Text)
	}

	if opts.Find != "" {
		matches := doc.FindMatches(opts.Find, opts.MatchCase)
		set("matches", []any{})
		for i, m := range matches {
			p := fmt.Sprintf("matches.%d", i)
			set(p+".startLine", m.StartLine)
			set(p+".startColumn", m.StartColumn)
			set(p+".endLine", m.EndLine)
			set(p+".endColumn", m.EndColumn)
		}
	}
	if err != nil {
		return "", err
	}
	return out, nil
}

func eolName(e buffer.LineEnding) string {
	if e == buffer.LineEndingCRLF {
		return "crlf"
	}
	return "lf"
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.FilePath, "file", "", "Input document (default: stdin)")
	flag.StringVar(&opts.FilePath, "f", "", "Input document (shorthand)")
	flag.StringVar(&opts.EditsPath, "edits", "", "JSON edit batch to apply")
	flag.StringVar(&opts.EditsPath, "e", "", "JSON edit batch to apply (shorthand)")
	flag.StringVar(&opts.SetEOL, "set-eol", "", "Rewrite line endings (lf or crlf)")
	flag.StringVar(&opts.Find, "find", "", "Report match ranges for a search term")
	flag.BoolVar(&opts.MatchCase, "match-case", false, "Case-sensitive search")
	flag.BoolVar(&opts.VerifyMirror, "verify-mirror", false, "Replay events into a mirror and compare")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "textmodel - apply edit batches to a text document\n\n")
		fmt.Fprintf(os.Stderr, "Usage: textmodel [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  textmodel -f doc.txt -e batch.json          Apply a batch, print result\n")
		fmt.Fprintf(os.Stderr, "  textmodel -f doc.txt -set-eol crlf          Rewrite line endings\n")
		fmt.Fprintf(os.Stderr, "  textmodel -f doc.txt -find TODO             Locate a term\n")
		fmt.Fprintf(os.Stderr, "  cat doc.txt | textmodel -e batch.json -verify-mirror\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("textmodel %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.LogLevel != "" {
		switch opts.LogLevel {
		case "debug", "info", "warn", "error":
		default:
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
			os.Exit(1)
		}
	}
	if opts.SetEOL != "" && opts.SetEOL != "lf" && opts.SetEOL != "crlf" {
		fmt.Fprintf(os.Stderr, "Error: invalid -set-eol %q (must be lf or crlf)\n", opts.SetEOL)
		os.Exit(1)
	}

	return opts
}
