// File: main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cgrCore/internal/chem"
	"cgrCore/internal/config"
	"cgrCore/internal/tmpl"
)

func main() {
	configPath := flag.String("config", "", "path to the HCL configuration file")
	exportPath := flag.String("export-templates", "", "write the configured templates as one JSON library to this file and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	if *exportPath != "" {
		f, err := os.Create(*exportPath)
		if err != nil {
			log.Fatal(err)
		}
		if err := exportTemplates(f, cfg.Templates...); err != nil {
			f.Close()
			log.Fatal(err)
		}
		if err := f.Close(); err != nil {
			log.Fatal(err)
		}
		logger.Info("Templates exported", "path", *exportPath, "sources", len(cfg.Templates))
		return
	}

	srv, err := newServer(cfg, logger)
	if err != nil {
		logger.Error("Server setup failed", "error", err)
		os.Exit(1)
	}
	mux := srv.routes()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("Server listening", "addr", cfg.Listen, "cgr_type", cfg.CGRType)
	log.Fatal(http.ListenAndServe(cfg.Listen, mux))
}

// exportTemplates reads template files of any supported format and writes
// them, in order, as a single JSON library.
func exportTemplates(w io.Writer, paths ...string) error {
	var all []*chem.Reaction
	for _, p := range paths {
		rxs, err := tmpl.Load(p)
		if err != nil {
			return fmt.Errorf("load templates %s: %w", p, err)
		}
		all = append(all, rxs...)
	}
	return tmpl.Encode(w, all)
}
