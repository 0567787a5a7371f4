package main

import (
	"flag"
	"log"
	"os"

	"github.com/wavesense/n2k/catalogue"
	"github.com/wavesense/n2k/gen"
	"go.uber.org/zap"
)

const defaultManifestPath = "manifest.json"

func main() {
	catalogueLog := flag.String("catalogue", "", "path to the PGN catalogue JSON file")
	manifestPath := flag.String("manifest", "", "path to the manifest JSON file (overrides N2K_MANIFEST_PATH)")
	outPath := flag.String("out", "", "path to write the generated Go source to")
	pkgName := flag.String("package", "pgns", "package name for the generated source")
	flag.Parse()

	if catalogueLog == nil || *catalogueLog == "" {
		log.Fatal("# missing catalogue path\n")
	}
	if outPath == nil || *outPath == "" {
		log.Fatal("# missing out path\n")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	manifest, err := loadManifest(*manifestPath, logger)
	if err != nil {
		logger.Fatal("load manifest", zap.Error(err))
	}

	doc, err := catalogue.Load(os.DirFS("."), *catalogueLog)
	if err != nil {
		logger.Fatal("load catalogue", zap.Error(err))
	}

	result, err := gen.Generate(doc, manifest, *pkgName, logger)
	if err != nil {
		logger.Fatal("generate", zap.Error(err))
	}
	for _, w := range result.Warnings {
		logger.Warn("skipped PGN", zap.Uint32("pgn", w.PGN), zap.String("reason", w.Message))
	}

	if err := os.WriteFile(*outPath, result.Source, 0o644); err != nil {
		logger.Fatal("write output", zap.Error(err))
	}
}

// loadManifest resolves the manifest path: an explicit -manifest flag wins,
// otherwise N2K_MANIFEST_PATH is consulted, otherwise the default path is
// used. An override that points at a missing file falls back to the default
// rather than failing the build ("Manifest discovery").
func loadManifest(flagPath string, logger *zap.Logger) (catalogue.Manifest, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv("N2K_MANIFEST_PATH")
	}
	if path == "" {
		path = defaultManifestPath
	}

	m, err := catalogue.LoadManifest(os.DirFS("."), path)
	if err != nil && path != defaultManifestPath {
		logger.Warn("manifest override unreadable, falling back to default", zap.String("path", path), zap.Error(err))
		return catalogue.LoadManifest(os.DirFS("."), defaultManifestPath)
	}
	return m, err
}
