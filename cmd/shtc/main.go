// Command shtc is the shader translator CLI. It reads shader trees serialized
// as JSON, runs the rewrite passes of the chosen dialect, and prints the
// resulting trees.
//
// Usage:
//
//	shtc [options] <input.json>...
//
// Examples:
//
//	shtc shader.json                        # Translate for Metal
//	shtc -dialect vulkan a.json b.json      # Translate several shaders
//	shtc -trace -dump-after '*' shader.json # Dump the tree after every pass
//	shtc -watch shader.json                 # Translate again on every save
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/translator"
	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/astjson"
	"github.com/gogpu/translator/builtins"
	"github.com/gogpu/translator/pipeline"
	"github.com/gogpu/translator/target"
)

var (
	output       = flag.String("o", "", "output file (default: stdout)")
	dialect      = flag.String("dialect", "metal", "output dialect: metal or vulkan")
	validate     = flag.Bool("validate", true, "validate the input and output trees")
	validateEach = flag.Bool("validate-each", false, "validate the tree after every pass")
	rowMajor     = flag.Bool("row-major", false, "rewrite row-major block matrices")
	preRotation  = flag.Bool("pre-rotation", false, "rotate gl_Position for pre-rotated surfaces")
	depth        = flag.Bool("transform-depth", false, "map clip-space depth to [0, w]")
	pointSize    = flag.Bool("clamp-point-size", false, "clamp gl_PointSize to the device range")
	discard      = flag.Bool("rasterizer-discard", false, "emulate rasterizer discard")
	trace        = flag.Bool("trace", false, "trace passes to stderr")
	dumpBefore   = flag.String("dump-before", "", "dump the tree before the named pass (* for all)")
	dumpAfter    = flag.String("dump-after", "", "dump the tree after the named pass (* for all)")
	watch        = flag.Bool("watch", false, "translate again whenever an input changes")
	version      = flag.Bool("version", false, "print version")
)

const shtcVersion = "0.1.0-dev"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("shtc version %s (built-in tables %s)\n", shtcVersion, builtins.TablesVersion)
		return
	}

	inputs := flag.Args()
	if len(inputs) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}

	opts, err := options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, inputs, opts)
	if *watch {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		err = watchInputs(ctx, inputs, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func options() (translator.Options, error) {
	opts := translator.DefaultOptions()
	d, ok := target.ParseDialect(*dialect)
	if !ok {
		return opts, fmt.Errorf("unknown dialect %q", *dialect)
	}
	opts.Dialect = d

	flags := []struct {
		set  bool
		flag pipeline.Options
	}{
		{*validate, pipeline.ValidateAST},
		{*validateEach, pipeline.ValidateEachPass},
		{*rowMajor, pipeline.RewriteRowMajorMatrices},
		{*preRotation, pipeline.AddPreRotation},
		{*depth, pipeline.TransformDepth},
		{*pointSize, pipeline.ClampPointSize},
		{*discard, pipeline.EmulateRasterizerDiscard},
	}
	opts.Flags = 0
	for _, f := range flags {
		if f.set {
			opts.Flags |= f.flag
		}
	}

	if *trace || *dumpBefore != "" || *dumpAfter != "" {
		opts.Config = pipeline.Config{Trace: os.Stderr, DumpBefore: *dumpBefore, DumpAfter: *dumpAfter}
	}
	return opts, nil
}

// run translates every input concurrently and writes the trees in input
// order.
func run(ctx context.Context, inputs []string, opts translator.Options) error {
	units := make([]*astjson.Unit, len(inputs))
	for i, path := range inputs {
		u, err := decodeFile(path)
		if err != nil {
			return err
		}
		units[i] = u
	}

	cs, err := translator.TranslateAll(ctx, units, opts)
	if err != nil {
		return fmt.Errorf("translation error: %w", err)
	}

	w := io.Writer(os.Stdout)
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		defer f.Close()
		w = f
	}
	for i, c := range cs {
		if len(cs) > 1 {
			fmt.Fprintf(w, "// %s\n", inputs[i])
		}
		if err := ast.Dump(w, c.Tree, c.Tree.Root); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		for _, d := range c.Diag.Entries() {
			fmt.Fprintf(os.Stderr, "%s: %v\n", inputs[i], d)
		}
	}
	if *output != "" {
		fmt.Fprintf(os.Stderr, "Translated %d shader(s) to %s\n", len(cs), *output)
	}
	return nil
}

func decodeFile(path string) (*astjson.Unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	defer f.Close()
	u, err := astjson.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return u, nil
}

// watchedInputs maps the parent directories of the inputs to the inputs
// they hold. Watching directories keeps working when an editor saves by
// renaming a new file over the old one.
type watchedInputs struct {
	dirs  []string
	files map[string]bool
}

func newWatchedInputs(inputs []string) (*watchedInputs, error) {
	wi := &watchedInputs{files: make(map[string]bool, len(inputs))}
	seen := make(map[string]bool)
	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return nil, err
		}
		wi.files[abs] = true
		if dir := filepath.Dir(abs); !seen[dir] {
			seen[dir] = true
			wi.dirs = append(wi.dirs, dir)
		}
	}
	return wi, nil
}

// triggers reports whether ev changes the contents of one of the inputs.
func (wi *watchedInputs) triggers(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	return err == nil && wi.files[abs]
}

// watchInputs translates the inputs again each time one of them is written
// or replaced, until ctx is canceled.
func watchInputs(ctx context.Context, inputs []string, opts translator.Options) error {
	wi, err := newWatchedInputs(inputs)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	for _, dir := range wi.dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
	}
	fmt.Fprintf(os.Stderr, "Watching %s\n", strings.Join(inputs, ", "))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !wi.triggers(ev) {
				continue
			}
			if err := run(ctx, inputs, opts); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
		}
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: shtc [options] <input.json>...\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  shtc shader.json                    Translate for Metal to stdout\n")
	fmt.Fprintf(os.Stderr, "  shtc -dialect vulkan -o out.txt a.json  Translate for Vulkan to a file\n")
	fmt.Fprintf(os.Stderr, "  shtc -watch shader.json             Translate again on every save\n")
}
