// Command buildindex folds one or more tokenized batches into a single
// on-disk index.bin.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkindex/ruindex/index"
	"github.com/inkindex/ruindex/internal/apperr"
	"github.com/inkindex/ruindex/internal/applog"
	"github.com/inkindex/ruindex/internal/config"
	"github.com/inkindex/ruindex/internal/metrics"
)

type batch struct {
	tokDir  string
	metaTSV string
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: buildindex [--config ruidx.yaml] [--metrics-addr :PORT] --add <tok_dir> <meta_tsv> [--add <tok_dir> <meta_tsv> ...] <out_index_bin>\n")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	configPath, args := extractFlag(args, "--config")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	applog.Setup(cfg.Logging.Level, cfg.Logging.Format)
	log := applog.WithStage("buildindex")

	metricsAddr, rest := extractFlag(args, "--metrics-addr")
	if metricsAddr == "" && cfg.Metrics.Enabled {
		metricsAddr = fmt.Sprintf(":%d", cfg.Metrics.Port)
	}
	batches, outPath, err := parseArgs(rest)
	if err != nil {
		usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if metricsAddr != "" {
		m = metrics.New()
		shutdown := metrics.StartServer(mustPort(metricsAddr))
		defer shutdown(ctx)
	}

	w := index.NewWriter()
	t0 := time.Now()

	for _, b := range batches {
		if ctx.Err() != nil {
			log.Warn("interrupted before batch", "tok_dir", b.tokDir)
			return apperr.ExitCode(apperr.New(apperr.ErrIO, 1, "interrupted"))
		}
		progress := func(docsCount, termsCount int) {
			if m != nil {
				m.DocsIndexedTotal.Inc()
				m.TermsIndexedTotal.Set(float64(termsCount))
			}
			if cfg.Index.ProgressEvery > 0 && docsCount%cfg.Index.ProgressEvery == 0 {
				log.Info("progress", "docs", docsCount, "terms", termsCount)
			}
		}
		if err := w.AddBatch(b.tokDir, b.metaTSV, progress); err != nil {
			log.Error("add batch failed", "tok_dir", b.tokDir, "meta_tsv", b.metaTSV, "error", err)
			return apperr.ExitCode(apperr.New(apperr.ErrIO, 1, err.Error()))
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		log.Error("cannot create output index", "path", outPath, "error", err)
		return apperr.ExitCode(apperr.New(apperr.ErrIO, 1, err.Error()))
	}
	defer out.Close()

	n, err := w.WriteTo(out)
	if err != nil {
		log.Error("write index failed", "error", err)
		return apperr.ExitCode(apperr.New(apperr.ErrMalformedIndex, 1, err.Error()))
	}

	elapsed := time.Since(t0)
	if m != nil {
		m.BuildDuration.Observe(elapsed.Seconds())
	}

	log.Info("done",
		"docs", w.DocsCount(),
		"terms", w.TermsCount(),
		"bytes", n,
		"elapsed", elapsed,
	)
	return 0
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

func parseArgs(args []string) (batches []batch, outPath string, err error) {
	i := 0
	for i < len(args) {
		if args[i] != "--add" {
			break
		}
		if i+2 >= len(args) {
			return nil, "", apperr.New(apperr.ErrUsage, 2, "--add requires <tok_dir> <meta_tsv>")
		}
		batches = append(batches, batch{tokDir: args[i+1], metaTSV: args[i+2]})
		i += 3
	}
	if len(batches) == 0 || i != len(args)-1 {
		return nil, "", apperr.New(apperr.ErrUsage, 2, "missing --add batches or output path")
	}
	return batches, args[i], nil
}
