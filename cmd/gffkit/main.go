// Package main provides the gffkit command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tjparnell/gffkit/internal/gff"
	"github.com/tjparnell/gffkit/internal/output"
	"github.com/tjparnell/gffkit/internal/store"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Parse()

	if showVersion {
		fmt.Printf("gffkit version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	initConfig()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "parse":
		return runParse(args[1:])
	case "stats":
		return runStats(args[1:])
	case "export":
		return runExport(args[1:])
	case "config":
		return runConfig(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `gffkit - hierarchical GFF3/GTF annotation parser

Usage:
  gffkit [options] <command> [arguments]

Commands:
  parse       Parse an annotation file and print the feature table
  stats       Parse an annotation file and print summary statistics
  export      Parse an annotation file into a DuckDB database
  config      Manage gffkit configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Print the reconstructed feature hierarchy as a table
  gffkit parse annotation.gff3

  # Include CDS and UTR subfeatures, write to a file
  gffkit parse --cds --utr -o features.tsv annotation.gtf.gz

  # Summary only: top-level counts, duplicates, orphans
  gffkit stats annotation.gtf

  # Persist the flattened tree for SQL queries
  gffkit export -o features.duckdb annotation.gff3

For more information on a command, use:
  gffkit <command> --help
`)
}

// parseFlags holds the option flags shared by parse, stats, and export.
type parseFlags struct {
	dialect  string
	noGenes  bool
	noExons  bool
	cds      bool
	utr      bool
	codon    bool
	simplify bool
	verbose  bool
}

// register binds the shared option flags, with defaults drawn from the
// config file when present.
func (pf *parseFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&pf.dialect, "dialect", viper.GetString("parse.dialect"), "Dialect override: gff3, gtf, or gff (default: auto-detect)")
	fs.BoolVar(&pf.noGenes, "no-genes", viper.GetBool("parse.no_genes"), "Do not materialize gene-level features")
	fs.BoolVar(&pf.noExons, "no-exons", viper.GetBool("parse.no_exons"), "Do not materialize exon features")
	fs.BoolVar(&pf.cds, "cds", viper.GetBool("parse.cds"), "Materialize CDS subfeatures")
	fs.BoolVar(&pf.utr, "utr", viper.GetBool("parse.utr"), "Materialize UTR subfeatures")
	fs.BoolVar(&pf.codon, "codon", viper.GetBool("parse.codon"), "Materialize start/stop codon subfeatures")
	fs.BoolVar(&pf.simplify, "simplify", viper.GetBool("parse.simplify"), "Retain only identity, name, and parentage attributes")
	fs.BoolVar(&pf.verbose, "verbose", false, "Log recovered parse problems to stderr")
}

// options converts the flags into parser options.
func (pf *parseFlags) options() (gff.Options, error) {
	dialect, err := gff.ParseDialect(pf.dialect)
	if err != nil {
		return gff.Options{}, err
	}
	opts := gff.DefaultOptions()
	opts.Dialect = dialect
	opts.IncludeGene = !pf.noGenes
	opts.IncludeExon = !pf.noExons
	opts.IncludeCDS = pf.cds
	opts.IncludeUTR = pf.utr
	opts.IncludeCodon = pf.codon
	opts.Simplify = pf.simplify
	return opts, nil
}

// openParser builds a parser from flags and binds the input path, with "-"
// meaning stdin.
func openParser(pf *parseFlags, inputPath string) (*gff.Parser, error) {
	opts, err := pf.options()
	if err != nil {
		return nil, err
	}

	p := gff.New(opts)
	if pf.verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			p.SetLogger(logger)
		}
	}

	if inputPath == "-" {
		err = p.OpenReader(os.Stdin)
	} else {
		err = p.Open(inputPath)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func runParse(args []string) int {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)

	var pf parseFlags
	var outputFile string
	pf.register(fs)
	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Parse an annotation file and print the reconstructed feature hierarchy
as a tab-delimited table, children after their parents.

Usage:
  gffkit parse [options] <input-file>

Arguments:
  <input-file>  GFF3, GTF, or GFF file, optionally gzipped (use '-' for stdin)

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: input file argument required\n\n")
		fs.Usage()
		return ExitUsage
	}

	p, err := openParser(&pf, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer p.Close()

	summary, err := p.ParseAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	out := os.Stdout
	if outputFile != "" {
		out, err = os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return ExitError
		}
		defer out.Close()
	}

	if err := gff.WriteFeatures(output.NewTabWriter(out), p.TopFeatures()); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing features: %v\n", err)
		return ExitError
	}

	printSummary(p, summary)
	return ExitSuccess
}

func runStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)

	var pf parseFlags
	pf.register(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Parse an annotation file and print summary statistics only.

Usage:
  gffkit stats [options] <input-file>

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: input file argument required\n\n")
		fs.Usage()
		return ExitUsage
	}

	p, err := openParser(&pf, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer p.Close()

	summary, err := p.ParseAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	fmt.Printf("Dialect: %s\n", p.Dialect())
	fmt.Printf("Observed types: %v\n", p.Types())
	fmt.Printf("Top-level features: %d\n", summary.TopLevel)
	fmt.Printf("Duplicate identifiers: %d\n", len(summary.Duplicates))
	for id, n := range summary.Duplicates {
		fmt.Printf("  %s: %d extra registrations\n", id, n)
	}
	fmt.Printf("Unresolved orphans: %d\n", summary.Orphans)
	for _, o := range p.Orphans() {
		fmt.Printf("  %s (%s) waiting on %v\n", o.PrimaryID, o.Type, o.ParentIDs)
	}
	fmt.Printf("Maximum coordinates:\n")
	for seqID, maxCoord := range p.MaxCoordinates() {
		fmt.Printf("  %s: %d\n", seqID, maxCoord)
	}
	return ExitSuccess
}

func runExport(args []string) int {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	var pf parseFlags
	var outputFile string
	pf.register(fs)
	fs.StringVar(&outputFile, "o", "", "Output DuckDB file path (required)")
	fs.StringVar(&outputFile, "output", "", "Output DuckDB file path (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Parse an annotation file and persist the flattened feature tree into a
DuckDB database for SQL queries.

Usage:
  gffkit export [options] <input-file>

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: input file argument required\n\n")
		fs.Usage()
		return ExitUsage
	}
	if outputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: --output is required\n\n")
		fs.Usage()
		return ExitUsage
	}

	p, err := openParser(&pf, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	defer p.Close()

	summary, err := p.ParseAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	st, err := store.Open(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return ExitError
	}
	defer st.Close()

	if err := gff.WriteFeatures(st, p.TopFeatures()); err != nil {
		fmt.Fprintf(os.Stderr, "Error storing features: %v\n", err)
		return ExitError
	}

	n, err := st.Count()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error counting stored features: %v\n", err)
		return ExitError
	}
	fmt.Fprintf(os.Stderr, "Stored %d features in %s\n", n, outputFile)
	printSummary(p, summary)
	return ExitSuccess
}

func printSummary(p *gff.Parser, summary *gff.Summary) {
	fmt.Fprintf(os.Stderr, "Parsed %d top-level features (%s dialect)\n", summary.TopLevel, p.Dialect())
	if len(summary.Duplicates) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d duplicate identifiers\n", len(summary.Duplicates))
	}
	if summary.Orphans > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d features with unresolved parents\n", summary.Orphans)
	}
}
