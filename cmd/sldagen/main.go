// Command sldagen loads a corpus and writes sLDA training data without
// starting the HTTP server.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/loomstack/termdex/internal/config"
	"github.com/loomstack/termdex/internal/corpus"
	"github.com/loomstack/termdex/internal/db"
	dbRedis "github.com/loomstack/termdex/internal/db/redis"
	"github.com/loomstack/termdex/internal/domain/document"
	"github.com/loomstack/termdex/internal/domain/labelmap"
	logpkg "github.com/loomstack/termdex/internal/logger"
	"github.com/loomstack/termdex/internal/metrics"
	"github.com/loomstack/termdex/internal/repository/docstore"
	labelrepo "github.com/loomstack/termdex/internal/repository/labelmap"
	"github.com/loomstack/termdex/internal/tokenizer"
	"github.com/loomstack/termdex/internal/usecase/analyze"
	exportuc "github.com/loomstack/termdex/internal/usecase/export"
	"github.com/loomstack/termdex/internal/version"
)

func main() {
	outDir := flag.String("out", "", "output directory (default: export.output_dir from config)")
	fresh := flag.Bool("fresh", false, "drop the shared label table before exporting")
	flag.Parse()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if *outDir != "" {
		cfg.Export.OutputDir = *outDir
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting sLDA export",
		zap.String("version", version.Version),
		zap.String("corpus_kind", cfg.Corpus.Kind),
		zap.String("corpus_path", cfg.Corpus.Path),
		zap.String("output_dir", cfg.Export.OutputDir),
	)

	ctx := context.Background()

	var store db.Store
	if len(cfg.Database.Addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
	}

	metrics.RegisterCorpusMetrics()

	c, err := corpus.Open(corpus.Kind(cfg.Corpus.Kind), cfg.Corpus.Path, cfg.Corpus.LabelsPath)
	if err != nil {
		logger.Fatal("Failed to open corpus", zap.Error(err))
	}

	vocab := tokenizer.NewVocabulary()
	tok := tokenizer.NewWordTokenizer(vocab).WithMinLength(cfg.Tokenizer.MinWordLength)
	docs := docstore.New()

	stats, err := analyze.New(tok, docs, logger, cfg.Corpus.Kind).Load(ctx, c)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}

	var mapping document.LabelMapping
	if store != nil {
		repo := labelrepo.New(store, cfg.Storage.KeyPrefix)

		existed, err := repo.Initialized(ctx)
		if err != nil {
			logger.Fatal("Failed to check label table", zap.Error(err))
		}
		if *fresh {
			if err := repo.Reset(ctx); err != nil {
				logger.Fatal("Failed to reset label table", zap.Error(err))
			}
			logger.Info("Label table reset", zap.Bool("existed", existed))
		} else if existed {
			// Integers assigned by earlier runs stay authoritative.
			logger.Info("Reusing existing label table")
		}

		mapping = repo.Bound(ctx)
	} else {
		mapping = labelmap.New()
	}

	if err := os.MkdirAll(cfg.Export.OutputDir, 0o750); err != nil {
		logger.Fatal("Failed to create output directory", zap.Error(err))
	}

	termsPath := filepath.Join(cfg.Export.OutputDir, exportuc.TermFile)
	labelsPath := filepath.Join(cfg.Export.OutputDir, exportuc.LabelFile)

	terms, err := os.Create(termsPath)
	if err != nil {
		logger.Fatal("Failed to create term file", zap.Error(err))
	}
	defer func() { _ = terms.Close() }()

	labels, err := os.Create(labelsPath)
	if err != nil {
		logger.Fatal("Failed to create label file", zap.Error(err))
	}
	defer func() { _ = labels.Close() }()

	n, err := exportuc.New(docs, mapping).Run(terms, labels)
	if err != nil {
		logger.Fatal("Export failed", zap.Error(err))
	}

	logger.Info("Export complete",
		zap.Int("documents", n),
		zap.Int("tokens", stats.Tokens),
		zap.Int("vocabulary", vocab.Len()),
		zap.String("terms_path", termsPath),
		zap.String("labels_path", labelsPath),
	)
}
