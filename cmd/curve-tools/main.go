package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/curve-tools-mcp/internal/fit"
	"github.com/ironsheep/curve-tools-mcp/internal/loader"
	"github.com/ironsheep/curve-tools-mcp/internal/pipeline"
	"github.com/ironsheep/curve-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version, --help and the serve subcommand
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version":
			fmt.Printf("curve-tools %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage(os.Stdout)
			return
		case "serve":
			configureLogging()
			if err := serve(os.Args[2:]); err != nil {
				log.Fatalf("Error: %v", err)
			}
			return
		}
	}

	configureLogging()
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "curve-tools - close, symmetrize and smooth hand-drawn curves")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  curve-tools [options] input.csv    Run one pass and write SVG and PNG")
	fmt.Fprintln(w, "  curve-tools serve [-config file]   Start the MCP server on stdin/stdout")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -svg path       Output SVG file (default: input name with .svg)")
	fmt.Fprintln(w, "  -png path       Output PNG file (default: SVG name with .png)")
	fmt.Fprintf(w, "  -fit strategy   One of %s (default none)\n", strings.Join(fit.StrategyNames(), ", "))
	fmt.Fprintln(w, "  -order order    first-appearance or sorted (default first-appearance)")
	fmt.Fprintln(w, "  -config file    JSON pipeline configuration")
	fmt.Fprintln(w, "  -target pixels  Raster length of the smaller side (default 1024)")
	fmt.Fprintln(w, "  -v              Log every pipeline stage")
	fmt.Fprintln(w, "  --version       Print version information")
	fmt.Fprintln(w, "  --help, -h      Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  CURVE_TOOLS_LOG_LEVEL=debug    Enable debug logging")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input rows are groupId,subId,x,y.")
}

// configureLogging sends log output to stderr (stdout is for MCP protocol).
func configureLogging() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
}

func debugEnabled() bool {
	return os.Getenv("CURVE_TOOLS_LOG_LEVEL") == "debug"
}

func loadConfig(path string) (pipeline.Config, error) {
	if path == "" {
		return pipeline.DefaultConfig(), nil
	}
	return pipeline.LoadConfig(path)
}

// serve runs the MCP server on stdin/stdout until stdin closes.
func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "")
	if err := fs.Parse(args); err != nil {
		printUsage(os.Stderr)
		return err
	}
	if fs.NArg() != 0 {
		printUsage(os.Stderr)
		return fmt.Errorf("serve takes no arguments, got %q", fs.Args())
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	if debugEnabled() {
		log.Printf("Curve Tools MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		cfg.Logger = log.Default()
	}

	srv := server.NewWithConfig(cfg)
	srv.SetVersion(Version)
	if err := srv.Run(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// run executes one batch pass over the input named in args.
func run(args []string) error {
	fs := flag.NewFlagSet("curve-tools", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	svgPath := fs.String("svg", "", "")
	pngPath := fs.String("png", "", "")
	strategy := fs.String("fit", "", "")
	order := fs.String("order", "", "")
	configPath := fs.String("config", "", "")
	target := fs.Int("target", 0, "")
	verbose := fs.Bool("v", false, "")
	if err := fs.Parse(args); err != nil {
		printUsage(os.Stderr)
		return err
	}
	if fs.NArg() != 1 {
		printUsage(os.Stderr)
		return fmt.Errorf("expected one input file, got %d", fs.NArg())
	}
	input := fs.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *strategy != "" {
		if cfg.Fit.Strategy, err = fit.ParseStrategy(*strategy); err != nil {
			return err
		}
	}
	if *order != "" {
		if cfg.Order, err = loader.ParseOrder(*order); err != nil {
			return err
		}
	}
	if *target != 0 {
		cfg.TargetSize = *target
	}
	if *verbose || debugEnabled() {
		cfg.Logger = log.Default()
	}

	if *svgPath == "" {
		*svgPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
	}
	if *pngPath == "" {
		*pngPath = pipeline.PNGPathFor(*svgPath)
	}

	res, err := pipeline.ProcessFile(input, cfg)
	if err != nil {
		return err
	}
	if err := pipeline.WriteOutputs(res, cfg, *svgPath, *pngPath); err != nil {
		return err
	}

	log.Printf("Wrote %s and %s (%d shapes, fit %s)", *svgPath, *pngPath, len(res.Shapes), cfg.Fit.Strategy)
	return nil
}
