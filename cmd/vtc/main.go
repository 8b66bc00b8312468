package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"
	"github.com/xyproto/env/v2"

	"github.com/Tomxuetao/vtc/internal/codegen"
	"github.com/Tomxuetao/vtc/internal/collections"
	"github.com/Tomxuetao/vtc/internal/log"
	"github.com/Tomxuetao/vtc/internal/parser/template"
	"github.com/Tomxuetao/vtc/internal/transform"
	"github.com/Tomxuetao/vtc/internal/version"
)

// Config is the optional compiler configuration file (JSONC)
type Config struct {
	// ScopeID is the style-scoping token appended to emitted elements
	ScopeID string `json:"scopeId"`
	// Include is a list of template globs compiled in addition to the
	// command-line arguments
	Include []string `json:"include"`
}

func main() {
	configPath := flag.String("config", "vtc.config.json", "path to the compiler config file")
	scopeID := flag.String("scope-id", "", "style scope identifier (overrides the config file)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetFullVersion())
		return
	}

	log.SetLevel(log.ParseLevel(env.Str("VTC_LOG", "info")))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Error("Failed to read config %s: %v", *configPath, err)
		os.Exit(1)
	}
	if *scopeID != "" {
		cfg.ScopeID = *scopeID
	}

	patterns := append(flag.Args(), cfg.Include...)
	if len(patterns) == 0 {
		fmt.Fprintln(os.Stderr, "usage: vtc [flags] <template glob>...")
		os.Exit(2)
	}

	files, err := expandGlobs(patterns)
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		log.Warn("No templates matched %v", patterns)
		return
	}

	failed := false
	for _, path := range files {
		if err := compileFile(path, cfg.ScopeID); err != nil {
			log.Error("%s: %v", path, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// loadConfig reads the JSONC config file; a missing file is not an error
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(jsonc.ToJSON(raw), cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func expandGlobs(patterns []string) ([]string, error) {
	var files []string
	seen := collections.NewSet[string]()
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen.Has(m) {
				seen.Add(m)
				files = append(files, m)
			}
		}
	}
	return files, nil
}

func compileFile(path, scopeID string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	children, err := template.Parse(string(source))
	if err != nil {
		return err
	}

	result, err := transform.Compile(children, scopeID)
	if err != nil {
		return err
	}

	log.Info("%s: %d cache slots, %d static chunks", path, len(result.Cached), len(result.Chunks))
	for i, chunk := range result.Chunks {
		log.Debug("%s: chunk %d covers %d siblings (%d bytes)", path, i, chunk.NodeCount, len(chunk.Content))
		fmt.Printf("%s\t%d\t%s\n", path, chunk.NodeCount, codegen.QuoteStatic(chunk.Content))
	}
	return nil
}
