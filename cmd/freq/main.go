// Command freq counts term frequencies across a directory of token
// files and writes both the per-term counts and the sorted-descending
// rank/frequency table used to check a corpus's Zipf-law behavior.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/inkindex/ruindex/corpus"
	"github.com/inkindex/ruindex/freq"
	"github.com/inkindex/ruindex/internal/apperr"
	"github.com/inkindex/ruindex/internal/applog"
	"github.com/inkindex/ruindex/internal/config"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: freq [--config ruidx.yaml] [--mode=uax29] <tok_dir> <terms_out_tsv> <zipf_out_tsv>\n")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("freq", flag.ContinueOnError)
	mode := fs.String("mode", "default", "tokenization mode for counting: default or uax29")
	configPath := fs.String("config", "", "optional YAML config file")
	if err := fs.Parse(args); err != nil {
		usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	applog.Setup(cfg.Logging.Level, cfg.Logging.Format)
	log := applog.WithStage("freq")
	rest := fs.Args()
	if len(rest) != 3 {
		usage()
		return 2
	}
	tokDir, termsPath, zipfPath := rest[0], rest[1], rest[2]

	files, err := corpus.WalkTokFiles(tokDir)
	if err != nil {
		log.Error("cannot list token files", "dir", tokDir, "error", err)
		return apperr.ExitCode(apperr.New(apperr.ErrIO, 1, err.Error()))
	}
	if len(files) == 0 {
		log.Error("no .tok files found", "dir", tokDir)
		return apperr.ExitCode(apperr.New(apperr.ErrUsage, 2, "empty token directory"))
	}

	r := freq.NewResult()
	for _, tf := range files {
		var addErr error
		switch *mode {
		case "uax29":
			addErr = r.AddFileUAX29(tf.Path)
		default:
			addErr = r.AddFile(tf.Path)
		}
		if addErr != nil {
			log.Warn("skipping file", "path", tf.Path, "error", addErr)
		}
	}

	if err := r.SaveTermsTSV(termsPath); err != nil {
		log.Error("cannot write terms tsv", "error", err)
		return apperr.ExitCode(apperr.New(apperr.ErrIO, 1, err.Error()))
	}
	if err := freq.SaveZipfTSV(zipfPath, r.SortedCountsDesc()); err != nil {
		log.Error("cannot write zipf tsv", "error", err)
		return apperr.ExitCode(apperr.New(apperr.ErrIO, 1, err.Error()))
	}

	log.Info("done", "docs", len(files), "total_tokens", r.TotalTokens(), "distinct_terms", r.DistinctTerms())
	return 0
}
