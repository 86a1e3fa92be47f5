// Command search answers boolean queries against a built index.bin,
// reading one query per line from a file or stdin and printing paginated
// result rows.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/inkindex/ruindex/corpus"
	"github.com/inkindex/ruindex/index"
	"github.com/inkindex/ruindex/internal/apperr"
	"github.com/inkindex/ruindex/internal/applog"
	"github.com/inkindex/ruindex/internal/config"
	"github.com/inkindex/ruindex/internal/metrics"
	"github.com/inkindex/ruindex/query"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: search <index_bin> [--config ruidx.yaml] [--offset N] [--limit N] [--in queries.txt] [--metrics-addr :PORT]\n")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	if len(args) < 1 {
		usage()
		return 2
	}
	indexPath := args[0]
	rest := args[1:]

	configPath, rest := extractFlag(rest, "--config")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	applog.Setup(cfg.Logging.Level, cfg.Logging.Format)
	log := applog.WithStage("search")

	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	offset := fs.Int("offset", 0, "result offset")
	limit := fs.Int("limit", cfg.Search.DefaultLimit, "result limit")
	inPath := fs.String("in", "", "query file (default: stdin)")
	metricsAddrFlag := fs.String("metrics-addr", "", "address to serve /metrics on, e.g. :9090 (disabled if empty)")
	if err := fs.Parse(rest); err != nil {
		usage()
		return 2
	}

	view, err := index.Load(indexPath)
	if err != nil {
		log.Error("cannot load index", "path", indexPath, "error", err)
		return apperr.ExitCode(apperr.New(apperr.ErrMalformedIndex, 1, err.Error()))
	}

	effectiveLimit := *limit
	if cfg.Search.MaxLimit > 0 && effectiveLimit > cfg.Search.MaxLimit {
		effectiveLimit = cfg.Search.MaxLimit
	}

	metricsAddr := *metricsAddrFlag
	if metricsAddr == "" && cfg.Metrics.Enabled {
		metricsAddr = fmt.Sprintf(":%d", cfg.Metrics.Port)
	}

	var m *metrics.Metrics
	if metricsAddr != "" {
		m = metrics.New()
		shutdown := metrics.StartServer(mustPort(metricsAddr))
		defer shutdown(context.Background())
	}

	var in io.Reader = os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			log.Error("cannot open query file", "path", *inPath, "error", err)
			return apperr.ExitCode(apperr.New(apperr.ErrIO, 1, err.Error()))
		}
		defer f.Close()
		in = f
	}

	out := bufio.NewWriter(stdout)
	defer out.Flush()

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		q := sc.Text()
		if q == "" {
			continue
		}
		answerQuery(out, view, q, *offset, effectiveLimit, m)
	}
	if err := sc.Err(); err != nil {
		log.Error("reading queries failed", "error", err)
		return apperr.ExitCode(apperr.New(apperr.ErrIO, 1, err.Error()))
	}
	return 0
}

func answerQuery(out *bufio.Writer, view *index.View, q string, offset, limit int, m *metrics.Metrics) {
	t0 := time.Now()
	toks := query.Lex([]byte(q))
	postfix := query.ToPostfix(toks)
	list, _ := query.Eval(view, postfix)

	if m != nil {
		resultType := "hit"
		if len(list) == 0 {
			resultType = "empty"
		}
		m.QueriesTotal.WithLabelValues(resultType).Inc()
		m.QueryLatency.Observe(time.Since(t0).Seconds())
		m.QueryResultsCount.Observe(float64(len(list)))
	}

	total := len(list)
	page := paginate(list, offset, limit)

	fmt.Fprintf(out, "OK\ttotal=%d\toffset=%d\tlimit=%d\n", total, offset, limit)
	for _, docID := range page {
		meta, err := view.DocMeta(docID)
		if err != nil {
			continue
		}
		url := corpus.BaseURL(meta.SourceID)
		fmt.Fprintf(out, "%d\t%d\t%s\t%s%d\n", meta.DocID, meta.PageID, meta.Title, url, meta.PageID)
	}
}

func extractFlag(args []string, name string) (value string, rest []string) {
	for i := 0; i < len(args); i++ {
		if args[i] == name && i+1 < len(args) {
			value = args[i+1]
			rest = append(rest, args[:i]...)
			rest = append(rest, args[i+2:]...)
			return value, rest
		}
	}
	return "", args
}

func mustPort(addr string) int {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			var port int
			fmt.Sscanf(addr[i+1:], "%d", &port)
			return port
		}
	}
	return 0
}

func paginate(list query.List, offset, limit int) query.List {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if limit < 0 || end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
