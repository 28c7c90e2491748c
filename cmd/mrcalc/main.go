// Command mrcalc evaluates a postfix voxel expression: a mix of
// scalar literals, image paths, and operator names, the way the
// original mrcalc CLI lays out its arguments (operators are written
// with a leading dash, e.g. "-mult", interleaved freely with
// operands). Command-line parsing of the operator grammar itself is
// this command's concern, not pkg/calc's (pkg/calc only knows
// PushOperand/PushOperator); everything downstream of the parsed
// token stream is the engine.
package main

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rdpauw/mrtrix3/pkg/calc"
	"github.com/rdpauw/mrtrix3/pkg/config"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: mrcalc [options] operand [operand ...] operator [operator ...] [output]")
	fmt.Fprintln(os.Stderr, "options:")
	fmt.Fprintln(os.Stderr, "  -nthreads N     worker pool size (0 = single-threaded, default: hardware parallelism)")
	fmt.Fprintln(os.Stderr, "  -datatype NAME  output datatype: float32, float64, cfloat32, cfloat64, int16, int32, uint16, uint32")
	fmt.Fprintln(os.Stderr, "  -force          permit overwriting an existing output path")
	fmt.Fprintln(os.Stderr, "  -quiet          suppress progress output")
	fmt.Fprintln(os.Stderr, "  -info           report the output path once it has been written")
	fmt.Fprintln(os.Stderr, "  -config PATH    load defaults from a YAML config file before applying flags")
	fmt.Fprintln(os.Stderr, "  -help NAME      print the catalogue entry for operator NAME and exit")
	fmt.Fprintln(os.Stderr, "  -help, -h       list every operator in the catalogue and exit")
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	configPath := ""
	for i, arg := range args {
		if arg == "-config" && i+1 < len(args) {
			configPath = args[i+1]
			break
		}
	}

	var cfg *config.Config
	if configPath == "" {
		cfg = config.DefaultConfig()
	} else {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("mrcalc: -config: %v", err)
		}
	}

	numThreadsVal := cfg.Processing.NumThreads
	var (
		numThreads = &numThreadsVal
		datatype   = cfg.Processing.Datatype
		force      = cfg.Processing.Force
		quiet      = cfg.Output.Quiet || !cfg.Output.Verbose
		info       = false
	)

	b := calc.NewBuilder(calc.OpenImage)

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "-h":
			printOperatorCatalogue()
			return
		case arg == "-help" && i+1 < len(args):
			printOperatorHelp(args[i+1])
			return
		case arg == "-help":
			printOperatorCatalogue()
			return
		case arg == "-config" && i+1 < len(args):
			i++
			continue
		case arg == "-nthreads" && i+1 < len(args):
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				log.Fatalf("mrcalc: -nthreads: %v", err)
			}
			numThreads = &n
			i++
			continue
		case arg == "-datatype" && i+1 < len(args):
			datatype = config.Datatype(args[i+1])
			if !datatype.Valid() {
				log.Fatalf("mrcalc: unknown datatype %q", args[i+1])
			}
			i++
			continue
		case arg == "-force":
			force = true
			continue
		case arg == "-quiet":
			quiet = true
			continue
		case arg == "-info":
			info = true
			continue
		}

		if strings.HasPrefix(arg, "-") {
			if name, ok := resolveOperatorName(arg[1:]); ok {
				if err := b.PushOperator(name); err != nil {
					log.Fatalf("mrcalc: %v", err)
				}
				continue
			}
		}

		b.PushOperand(arg)
	}

	opts := calc.Options{Datatype: datatype, NumThreads: numThreads, Force: force}
	if !quiet {
		opts.Progress = func(completed, total int) {
			fmt.Fprintf(os.Stderr, "\revaluating: [%3d%%]", completed*100/total)
		}
	}

	result, err := calc.Run(b, opts)
	if err != nil {
		log.Fatalf("mrcalc: %v", err)
	}

	if !quiet && !result.CalculatorMode {
		fmt.Fprintln(os.Stderr)
	}

	if result.CalculatorMode {
		fmt.Println(formatResultScalar(result.Scalar))
		return
	}

	if info {
		fmt.Fprintf(os.Stderr, "mrcalc: wrote %s\n", result.OutputPath)
	}
}

// formatResultScalar prints a calculator-mode result the way the
// original tool echoes a bare number: drop the imaginary part's "+0i"
// when the result is real.
func formatResultScalar(v complex64) string {
	if imag(v) == 0 {
		return strconv.FormatFloat(float64(real(v)), 'g', -1, 32)
	}
	return strconv.FormatComplex(complex128(v), 'g', -1, 64)
}

// resolveOperatorName matches token against the catalogue the way the
// original mrcalc's option parser does: an exact name first, then an
// unambiguous prefix (e.g. "-mult" for "multiply"). ok is false for no
// match or an ambiguous one.
func resolveOperatorName(token string) (name string, ok bool) {
	if calc.Lookup(token) != nil {
		return token, true
	}

	match := ""
	count := 0
	for _, n := range calc.Names() {
		if strings.HasPrefix(n, token) {
			match = n
			count++
		}
	}
	if count == 1 {
		return match, true
	}
	return "", false
}

// printOperatorCatalogue lists every registered operator the way a
// bare "-help" lists the original tool's full option table.
func printOperatorCatalogue() {
	names := calc.Names()
	sort.Strings(names)
	for _, n := range names {
		op := calc.Lookup(n)
		fmt.Printf("%-12s %s\n", op.Name, op.Description)
	}
}

func printOperatorHelp(name string) {
	name = strings.TrimPrefix(name, "-")
	op := calc.Lookup(name)
	if op == nil {
		fmt.Fprintf(os.Stderr, "mrcalc: no such operator %q\n", name)
		os.Exit(1)
	}
	fmt.Printf("%-12s %s\n", op.Name, op.Description)
	fmt.Printf("  arity:  %d\n", op.Arity)
	fmt.Printf("  format: %s\n", op.Format)
	if op.R != nil {
		fmt.Println("  real-domain form: yes")
	}
	if op.Z != nil {
		fmt.Println("  complex-domain form: yes")
	}
}
