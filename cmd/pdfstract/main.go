// pdfstract converts PDF documents to text, markdown or JSON using a set
// of interchangeable extraction libraries, and compares those libraries
// against each other on the same document.
//
// Usage:
//
//	pdfstract list
//	pdfstract convert [options] <file.pdf>
//	pdfstract compare [options] <file.pdf>
//	pdfstract batch [options] <directory>
//	pdfstract chunk [options] <file.txt>
//	pdfstract serve [options]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/AKSarav/pdfstract"
	"github.com/AKSarav/pdfstract/chunk"
	"github.com/AKSarav/pdfstract/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = runList(os.Args[2:])
	case "convert":
		err = runConvert(os.Args[2:])
	case "compare":
		err = runCompare(os.Args[2:])
	case "batch":
		err = runBatch(os.Args[2:])
	case "chunk":
		err = runChunk(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`pdfstract - PDF extraction and library comparison tool

Usage:
  pdfstract list
  pdfstract convert [options] <file.pdf>
  pdfstract compare [options] <file.pdf>
  pdfstract batch [options] <directory>
  pdfstract chunk [options] <file.txt>
  pdfstract serve [options]

Commands:
  list      Show registered extraction libraries and chunkers
  convert   Extract one document with a single library
  compare   Run several libraries against one document and report each
  batch     Apply one library to every matching file in a directory
  chunk     Split a text file into chunks
  serve     Start the HTTP API

Convert options:
  -l <library>    Extraction library (default: native)
  -f <format>     Output format: text, markdown, json (default: text)
  -o <file>       Write output to file (default: stdout)
  -t <seconds>    Per-conversion timeout (default: 120)

Compare options:
  -l <libraries>  Comma-separated libraries (default: all available)
  -f <format>     Output format: text, markdown, json (default: text)
  -t <seconds>    Per-library timeout (default: 120)
  -w <n>          Parallel workers (default: 4)

Batch options:
  -l <library>    Extraction library (default: native)
  -p <pattern>    Filename glob within the directory (default: *.pdf)
  -f <format>     Output format: text, markdown, json (default: text)
  -w <n>          Parallel workers (default: 4)
  -k              Keep going after the first failure
  -c <chunker>    Also chunk each successful extraction

Chunk options:
  -c <chunker>    Chunking strategy (default: paragraph)
  -s <n>          Chunk size in characters (default: 1000)
  -v <n>          Chunk overlap in characters (default: 100)

Serve options:
  -a <addr>       Listen address (default: $PORT or :8000)

Examples:
  pdfstract convert -l fitz -f markdown document.pdf
  pdfstract compare -l native,ledongthuc,rsc document.pdf
  pdfstract batch -l native -w 8 -k ./docs
  pdfstract chunk -c recursive -s 500 notes.txt
`)
}

// runList implements the "list" command.
func runList(args []string) error {
	conv, err := pdfstract.New()
	if err != nil {
		return err
	}
	defer conv.Close()

	fmt.Println("Libraries:")
	for _, info := range conv.Libraries() {
		if info.Available {
			fmt.Printf("  %-12s available\n", info.Name)
		} else {
			fmt.Printf("  %-12s unavailable (%s)\n", info.Name, info.Error)
		}
	}
	fmt.Println()
	fmt.Println("Chunkers:")
	for _, name := range conv.Chunkers() {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

// runConvert implements the "convert" command.
func runConvert(args []string) error {
	var (
		library    = "native"
		format     string
		outputFile string
		timeout    = 120
		inputFile  string
	)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-l":
			if i++; i >= len(args) {
				return fmt.Errorf("-l requires an argument")
			}
			library = args[i]
		case "-f":
			if i++; i >= len(args) {
				return fmt.Errorf("-f requires an argument")
			}
			format = args[i]
		case "-o":
			if i++; i >= len(args) {
				return fmt.Errorf("-o requires an argument")
			}
			outputFile = args[i]
		case "-t":
			if i++; i >= len(args) {
				return fmt.Errorf("-t requires an argument")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return fmt.Errorf("invalid timeout: %s", args[i])
			}
			timeout = n
		default:
			if strings.HasPrefix(args[i], "-") {
				return fmt.Errorf("unknown option: %s", args[i])
			}
			inputFile = args[i]
		}
	}
	if inputFile == "" {
		return fmt.Errorf("no input file specified")
	}

	of, err := pdfstract.ParseFormat(format)
	if err != nil {
		return err
	}
	conv, err := pdfstract.New(pdfstract.WithTimeout(time.Duration(timeout) * time.Second))
	if err != nil {
		return err
	}
	defer conv.Close()

	res, err := conv.Convert(context.Background(), inputFile, library, of)
	if err != nil {
		return err
	}
	if res.Status != pdfstract.StatusSuccess {
		return fmt.Errorf("%s: %s", res.Library, res.Err)
	}

	out := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	fmt.Fprintln(out, res.Content)
	return nil
}

// runCompare implements the "compare" command.
func runCompare(args []string) error {
	var (
		libraries string
		format    string
		timeout   = 120
		workers   = 4
		inputFile string
	)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-l":
			if i++; i >= len(args) {
				return fmt.Errorf("-l requires an argument")
			}
			libraries = args[i]
		case "-f":
			if i++; i >= len(args) {
				return fmt.Errorf("-f requires an argument")
			}
			format = args[i]
		case "-t":
			if i++; i >= len(args) {
				return fmt.Errorf("-t requires an argument")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return fmt.Errorf("invalid timeout: %s", args[i])
			}
			timeout = n
		case "-w":
			if i++; i >= len(args) {
				return fmt.Errorf("-w requires an argument")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return fmt.Errorf("invalid worker count: %s", args[i])
			}
			workers = n
		default:
			if strings.HasPrefix(args[i], "-") {
				return fmt.Errorf("unknown option: %s", args[i])
			}
			inputFile = args[i]
		}
	}
	if inputFile == "" {
		return fmt.Errorf("no input file specified")
	}

	of, err := pdfstract.ParseFormat(format)
	if err != nil {
		return err
	}
	conv, err := pdfstract.New(
		pdfstract.WithTimeout(time.Duration(timeout)*time.Second),
		pdfstract.WithWorkers(workers),
	)
	if err != nil {
		return err
	}
	defer conv.Close()

	var names []string
	if libraries == "" {
		for _, info := range conv.Libraries() {
			if info.Available {
				names = append(names, info.Name)
			}
		}
	} else {
		for _, name := range strings.Split(libraries, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}

	report, err := conv.Compare(context.Background(), inputFile, names, of)
	if err != nil {
		return err
	}

	fmt.Printf("File:  %s\n", report.Filename)
	fmt.Printf("Total: %.3fs\n\n", report.Total.Seconds())
	for _, r := range report.Results {
		switch r.Status {
		case pdfstract.StatusSuccess:
			fmt.Printf("  %-12s %-8s %8.3fs  %d bytes\n", r.Library, r.Status, r.Duration.Seconds(), r.Size)
		default:
			fmt.Printf("  %-12s %-8s %8.3fs  %s\n", r.Library, r.Status, r.Duration.Seconds(), r.Err)
		}
	}
	return nil
}

// runBatch implements the "batch" command.
func runBatch(args []string) error {
	var (
		library = "native"
		pattern string
		format  string
		workers = 4
		keep    bool
		chunker string
		dir     string
	)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-l":
			if i++; i >= len(args) {
				return fmt.Errorf("-l requires an argument")
			}
			library = args[i]
		case "-p":
			if i++; i >= len(args) {
				return fmt.Errorf("-p requires an argument")
			}
			pattern = args[i]
		case "-f":
			if i++; i >= len(args) {
				return fmt.Errorf("-f requires an argument")
			}
			format = args[i]
		case "-w":
			if i++; i >= len(args) {
				return fmt.Errorf("-w requires an argument")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return fmt.Errorf("invalid worker count: %s", args[i])
			}
			workers = n
		case "-k":
			keep = true
		case "-c":
			if i++; i >= len(args) {
				return fmt.Errorf("-c requires an argument")
			}
			chunker = args[i]
		default:
			if strings.HasPrefix(args[i], "-") {
				return fmt.Errorf("unknown option: %s", args[i])
			}
			dir = args[i]
		}
	}
	if dir == "" {
		return fmt.Errorf("no directory specified")
	}

	of, err := pdfstract.ParseFormat(format)
	if err != nil {
		return err
	}
	conv, err := pdfstract.New()
	if err != nil {
		return err
	}
	defer conv.Close()

	report, err := conv.Batch(context.Background(), dir, library, pdfstract.BatchOptions{
		Pattern:         pattern,
		Workers:         workers,
		ContinueOnError: keep,
		Format:          of,
		Chunker:         chunker,
	})
	if err != nil {
		return err
	}

	for _, f := range report.Files {
		if f.Status == pdfstract.StatusSuccess {
			if f.Chunks > 0 {
				fmt.Printf("  ok    %s (%d chunks)\n", f.Path, f.Chunks)
			} else {
				fmt.Printf("  ok    %s\n", f.Path)
			}
		} else {
			fmt.Printf("  FAIL  %s: %s\n", f.Path, f.Err)
		}
	}
	fmt.Printf("\n%d succeeded, %d failed\n", report.Success, report.Failed)
	if report.Failed > 0 {
		os.Exit(1)
	}
	return nil
}

// runChunk implements the "chunk" command.
func runChunk(args []string) error {
	var (
		chunker   = "paragraph"
		size      int
		overlap   int
		inputFile string
	)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-c":
			if i++; i >= len(args) {
				return fmt.Errorf("-c requires an argument")
			}
			chunker = args[i]
		case "-s":
			if i++; i >= len(args) {
				return fmt.Errorf("-s requires an argument")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return fmt.Errorf("invalid chunk size: %s", args[i])
			}
			size = n
		case "-v":
			if i++; i >= len(args) {
				return fmt.Errorf("-v requires an argument")
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return fmt.Errorf("invalid overlap: %s", args[i])
			}
			overlap = n
		default:
			if strings.HasPrefix(args[i], "-") {
				return fmt.Errorf("unknown option: %s", args[i])
			}
			inputFile = args[i]
		}
	}
	if inputFile == "" {
		return fmt.Errorf("no input file specified")
	}

	data, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputFile, err)
	}

	conv, err := pdfstract.New()
	if err != nil {
		return err
	}
	defer conv.Close()

	res, err := conv.Chunk(string(data), chunker, chunk.Options{Size: size, Overlap: overlap})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// runServe implements the "serve" command.
func runServe(args []string) error {
	var addr string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-a":
			if i++; i >= len(args) {
				return fmt.Errorf("-a requires an argument")
			}
			addr = args[i]
		default:
			return fmt.Errorf("unknown option: %s", args[i])
		}
	}

	// .env is optional; environment variables win if both are set.
	_ = godotenv.Load()

	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8000"
		}
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	conv, err := pdfstract.New(
		pdfstract.WithLogger(log),
		pdfstract.WithTaskStore(pdfstract.NewTaskStore()),
	)
	if err != nil {
		return err
	}
	defer conv.Close()

	srv := &http.Server{
		Addr:         addr,
		Handler:      server.New(conv, log).Router(),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
