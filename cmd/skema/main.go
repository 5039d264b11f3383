package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/dsl"
	"github.com/reoring/skema/i18n"
	"github.com/reoring/skema/schemafile"
)

// Exit codes.
const (
	exitValid   = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitUsage
	}
	switch args[0] {
	case "check":
		return checkCmd(args[1:], stdin, stdout, stderr)
	case "jsonschema":
		return jsonSchemaCmd(args[1:], stdout, stderr)
	default:
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "skema CLI\n\nUsage:\n  skema check -schema schema.yaml [-def name] [-input data.json|-] [-format json|yaml] [-dup error] [-max-depth N] [-lang en|ja] [-v]\n  skema jsonschema -schema schema.yaml [-def name]\n\nExit status: 0 valid, 1 invalid, 2 usage or load error.")
}

type report struct {
	Valid  bool          `json:"valid"`
	Data   any           `json:"data,omitempty"`
	Issues []skema.Issue `json:"issues,omitempty"`
}

func checkCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var schemaPath, def, input, format, dup, lang string
	var maxDepth int
	var verbose bool
	fs.StringVar(&schemaPath, "schema", "", "schema document (YAML or JSON)")
	fs.StringVar(&def, "def", "", "validate against this definition instead of the root schema")
	fs.StringVar(&input, "input", "-", "input document; - reads stdin")
	fs.StringVar(&format, "format", "", "input format: json or yaml (default: by extension, else json)")
	fs.StringVar(&dup, "dup", "ignore", "duplicate keys: ignore or error")
	fs.IntVar(&maxDepth, "max-depth", 0, "maximum input nesting (0 = unlimited)")
	fs.StringVar(&lang, "lang", "en", "message language: en or ja")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if schemaPath == "" {
		fs.Usage()
		return exitUsage
	}

	logf := func(format string, a ...any) {
		if verbose {
			fmt.Fprintf(stderr, format+"\n", a...)
		}
	}
	fatalf := func(format string, a ...any) int {
		fmt.Fprintf(stderr, format+"\n", a...)
		return exitUsage
	}

	s, err := loadSchema(schemaPath, def)
	if err != nil {
		return fatalf("load schema: %v", err)
	}
	logf("check: schema=%s def=%q input=%s", schemaPath, def, input)

	var r io.Reader = stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return fatalf("open input: %v", err)
		}
		defer f.Close()
		r = f
	}
	if format == "" {
		format = "json"
		if ext := strings.ToLower(filepath.Ext(input)); ext == ".yaml" || ext == ".yml" {
			format = "yaml"
		}
	}
	var src skema.Source
	switch format {
	case "json":
		src = skema.JSONReader(r)
	case "yaml":
		src = skema.YAMLReader(r)
	default:
		return fatalf("unknown format %q", format)
	}
	opt := skema.ParseOpt{MaxDepth: maxDepth}
	switch dup {
	case "ignore":
	case "error":
		opt.OnDuplicateKey = skema.Error
	default:
		return fatalf("unknown -dup value %q", dup)
	}
	i18n.SetLanguage(lang)
	logf("check: format=%s dup=%s max-depth=%d", format, dup, maxDepth)

	res := skema.SafeParseFrom(context.Background(), s, src, opt)
	rep := report{Valid: res.Success, Data: res.Data}
	if !res.Success {
		rep.Issues = res.Error.Issues()
		logf("check: %d issue(s)", len(rep.Issues))
	}
	if err := writeJSON(stdout, rep); err != nil {
		return fatalf("write report: %v", err)
	}
	if !res.Success {
		return exitInvalid
	}
	return exitValid
}

func jsonSchemaCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("jsonschema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var schemaPath, def string
	fs.StringVar(&schemaPath, "schema", "", "schema document (YAML or JSON)")
	fs.StringVar(&def, "def", "", "export this definition instead of the root schema")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if schemaPath == "" {
		fs.Usage()
		return exitUsage
	}
	s, err := loadSchema(schemaPath, def)
	if err != nil {
		fmt.Fprintf(stderr, "load schema: %v\n", err)
		return exitUsage
	}
	out, err := dsl.ToJSONSchema(s)
	if err != nil {
		fmt.Fprintf(stderr, "export: %v\n", err)
		return exitUsage
	}
	if err := writeJSON(stdout, out); err != nil {
		fmt.Fprintf(stderr, "write: %v\n", err)
		return exitUsage
	}
	return exitValid
}

func loadSchema(path, def string) (skema.Schema, error) {
	doc, err := schemafile.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if def == "" {
		return doc.Root, nil
	}
	s, ok := doc.Definition(def)
	if !ok {
		return nil, fmt.Errorf("no definition %q (have %s)", def, strings.Join(doc.Definitions(), ", "))
	}
	return s, nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}
