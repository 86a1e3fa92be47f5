// Command tokenize streams every ".txt" file under a corpus directory
// into a normalized, newline-delimited token file, and writes the
// metadata TSV the buildindex stage consumes.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/inkindex/ruindex/corpus"
	"github.com/inkindex/ruindex/internal/apperr"
	"github.com/inkindex/ruindex/internal/applog"
	"github.com/inkindex/ruindex/internal/config"
	"github.com/inkindex/ruindex/internal/metrics"
	"github.com/inkindex/ruindex/tokenize"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: tokenize [--config ruidx.yaml] [--metrics-addr :PORT] <in_corpus_dir> <out_tok_dir> <meta_out_tsv>\n")
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
	log := applog.WithStage("tokenize")

	metricsAddr, args := extractFlag(args, "--metrics-addr")
	if metricsAddr == "" && cfg.Metrics.Enabled {
		metricsAddr = fmt.Sprintf(":%d", cfg.Metrics.Port)
	}

	if len(args) != 3 {
		usage()
		return 2
	}
	inDir, outDir, metaPath := args[0], args[1], args[2]

	var m *metrics.Metrics
	if metricsAddr != "" {
		m = metrics.New()
		shutdown := metrics.StartServer(mustPort(metricsAddr))
		defer shutdown(context.Background())
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Error("cannot create output dir", "dir", outDir, "error", err)
		return apperr.ExitCode(apperr.New(apperr.ErrIO, 1, err.Error()))
	}

	metaFile, err := os.Create(metaPath)
	if err != nil {
		log.Error("cannot create metadata tsv", "path", metaPath, "error", err)
		return apperr.ExitCode(apperr.New(apperr.ErrIO, 1, err.Error()))
	}
	defer metaFile.Close()
	metaOut := bufio.NewWriter(metaFile)
	defer metaOut.Flush()

	if _, err := metaOut.WriteString("doc_id\tpage_id\ttitle\tsource_name\n"); err != nil {
		log.Error("cannot write metadata header", "error", err)
		return apperr.ExitCode(apperr.New(apperr.ErrIO, 1, err.Error()))
	}

	t0 := time.Now()
	var docID uint32
	var totalTokens, totalBytes uint64

	for path, rel := range corpus.WalkDocuments(inDir) {
		docID++
		outPath := filepath.Join(outDir, strconv.FormatUint(uint64(docID), 10)+".tok")

		outFile, err := os.Create(outPath)
		if err != nil {
			log.Warn("cannot open token output", "path", outPath, "error", err)
			docID--
			continue
		}

		stats, err := tokenize.File(path, outFile, cfg.Tokenize.Stem)
		outFile.Close()
		if err != nil {
			log.Warn("tokenize failed", "path", path, "error", err)
			docID--
			os.Remove(outPath)
			continue
		}

		title := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
		fmt.Fprintf(metaOut, "%d\t%d\t%s\t%s\n", docID, docID, title, "other")

		totalTokens += stats.TokensOut
		totalBytes += stats.BytesIn

		if m != nil {
			m.DocsTokenizedTotal.Inc()
			m.TokensEmittedTotal.Add(float64(stats.TokensOut))
		}

		if docID%1000 == 0 {
			log.Info("progress", "docs", docID, "tokens", totalTokens, "bytes", totalBytes)
		}
	}

	elapsed := time.Since(t0)
	log.Info("done", "docs", docID, "tokens", totalTokens, "bytes", totalBytes, "elapsed", elapsed)
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
