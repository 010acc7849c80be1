// csvdiff.go -- example command line driver for the csvdiff engine
//
// Modeled on the teacher's own example/mphdb.go: a single flat example
// program, flags parsed directly with pflag (no subcommand framework),
// the common case kept to a handful of lines.
//
// Usage:
//
//	csvdiff [options] LEFT.csv RIGHT.csv

package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/panjf2000/ants/v2"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	csvdiff "github.com/dardevelin/csv-diff"
)

var (
	headers     bool
	primaryKey  string
	delimiter   string
	useMmap     bool
	poolSize    int
	stream      bool
	sortColumns string
	outputFile  string
)

func main() {
	usage := fmt.Sprintf("%s [options] LEFT.csv RIGHT.csv", os.Args[0])

	flag.BoolVarP(&headers, "headers", "H", true, "Both inputs have a header row")
	flag.StringVarP(&primaryKey, "key", "k", "0", "Comma-separated primary key column indices")
	flag.StringVarP(&delimiter, "delimiter", "d", ",", "Field delimiter")
	flag.BoolVar(&useMmap, "mmap", false, "Memory-map inputs instead of using plain file reads")
	flag.IntVarP(&poolSize, "pool", "p", 0, "Goroutine pool size (0 = raw scoped goroutines)")
	flag.BoolVarP(&stream, "stream", "s", false, "Stream results instead of materializing them")
	flag.StringVar(&sortColumns, "sort-columns", "", "Sort output by these comma-separated column indices instead of by line")
	flag.StringVarP(&outputFile, "output", "o", "", "Write the report to this file instead of stdout")
	flag.Usage = func() {
		fmt.Printf("csvdiff - keyed CSV diff\nUsage: %s\n", usage)
		flag.PrintDefaults()
	}

	flag.Parse()
	args := flag.Args()

	if len(args) != 2 {
		die("expected LEFT.csv and RIGHT.csv\nUsage: %s\n", usage)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	key, err := parseColumns(primaryKey)
	if err != nil {
		die("bad --key: %s\n", err)
	}

	comma := rune(',')
	if len(delimiter) > 0 {
		comma = rune(delimiter[0])
	}

	left, right, err := openInputs(args[0], args[1], key, comma)
	if err != nil {
		die("%s\n", err)
	}
	defer left.Close()
	defer right.Close()

	logger.Info("opened inputs",
		zap.String("left", args[0]), zap.String("left_size", csvdiff.HumanSize(left.Size)),
		zap.String("right", args[1]), zap.String("right_size", csvdiff.HumanSize(right.Size)),
	)

	spawner, closePool, err := buildSpawner(poolSize)
	if err != nil {
		die("%s\n", err)
	}
	defer closePool()

	engine, err := csvdiff.NewEngine(left, right, spawner)
	if err != nil {
		die("%s\n", err)
	}

	var cols []int
	if sortColumns != "" {
		cols, err = parseColumns(sortColumns)
		if err != nil {
			die("bad --sort-columns: %s\n", err)
		}
	}

	var report bytes.Buffer
	if stream {
		err = runStream(engine, &report)
	} else {
		err = runMaterialized(engine, cols, &report)
	}
	if err != nil {
		die("diff failed: %s\n", err)
	}

	if outputFile != "" {
		if err := atomic.WriteFile(outputFile, &report); err != nil {
			die("writing %s: %s\n", outputFile, err)
		}
		return
	}
	os.Stdout.Write(report.Bytes())
}

func openInputs(leftFn, rightFn string, key []int, comma rune) (*csvdiff.CsvInput, *csvdiff.CsvInput, error) {
	open := csvdiff.NewFileInput
	if useMmap {
		open = csvdiff.NewMmapInput
	}

	left, err := open(leftFn, headers, key, comma)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", leftFn, err)
	}

	right, err := open(rightFn, headers, key, comma)
	if err != nil {
		left.Close()
		return nil, nil, fmt.Errorf("%s: %w", rightFn, err)
	}

	return left, right, nil
}

func buildSpawner(pool int) (csvdiff.Spawner, func(), error) {
	if pool <= 0 {
		return csvdiff.RawSpawner{}, func() {}, nil
	}

	p, err := ants.NewPool(pool)
	if err != nil {
		return nil, nil, fmt.Errorf("building pool: %w", err)
	}
	return csvdiff.NewPoolSpawner(p), func() { p.Release() }, nil
}

func runMaterialized(engine *csvdiff.Engine, cols []int, w *bytes.Buffer) error {
	result, err := engine.Run()
	if err != nil {
		return err
	}

	if len(cols) > 0 {
		if err := result.SortByColumns(cols); err != nil {
			return err
		}
	} else {
		result.SortByLine()
	}

	for _, rec := range result.Records() {
		writeRecord(w, rec)
	}
	return nil
}

func runStream(engine *csvdiff.Engine, w *bytes.Buffer) error {
	it := engine.Stream()
	for {
		rec, ok := it.Next()
		if !ok {
			return it.Err()
		}
		writeRecord(w, rec)
	}
}

func writeRecord(w *bytes.Buffer, rec csvdiff.DiffRecord) {
	switch rec.Kind {
	case csvdiff.KindAdd:
		fmt.Fprintf(w, "+ line %d: %s\n", rec.Line, rec.Record.Raw)
	case csvdiff.KindDelete:
		fmt.Fprintf(w, "- line %d: %s\n", rec.Line, rec.Record.Raw)
	case csvdiff.KindModify:
		fmt.Fprintf(w, "~ line %d/%d: fields %v\n  - %s  + %s\n",
			rec.LineLeft, rec.LineRight, rec.FieldIndices, rec.DeleteRecord.Raw, rec.AddRecord.Raw)
	}
}

func parseColumns(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	cols := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%q is not a column index", p)
		}
		cols = append(cols, n)
	}
	if len(cols) == 0 {
		cols = []int{0}
	}
	return cols, nil
}

func die(f string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, f, v...)
	os.Exit(1)
}
