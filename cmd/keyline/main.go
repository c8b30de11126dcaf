package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/framefuse/keyline/internal/analyzer"
	"github.com/framefuse/keyline/internal/config"
	"github.com/framefuse/keyline/internal/preview"
	"github.com/framefuse/keyline/internal/scenario"
	"github.com/framefuse/keyline/internal/system"
)

var buildVersion = "dev"

func main() {
	// Default working directories for scenario discovery and output.
	dirs := []string{"input/scenarios", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	scenarioPtr := flag.String("scenario", "", "Path to a scenario YAML (default: newest file in input/scenarios/)")
	outputPtr := flag.String("output", "", "Output directory for graph PNGs (default: generated under output/)")
	widthPtr := flag.Int("width", 960, "Graph width in pixels")
	heightPtr := flag.Int("height", 480, "Graph height in pixels")
	ssPtr := flag.Int("supersample", 2, "Supersampling factor (1 disables)")
	workersPtr := flag.Int("workers", 0, "Parallel render workers (0 = auto)")
	sharePtr := flag.String("share-base", "", "Base URL for QR share stamps (empty disables)")
	lintPtr := flag.String("lint", "all", "Scenario checks to run before rendering: all, blocked, range, easing, none")
	statsPtr := flag.Bool("stats", false, "Print memory and CPU stats after the run")
	versionPtr := flag.Bool("version", false, "Print version and exit")

	flag.Parse()

	if *versionPtr {
		fmt.Printf("keyline %s\n", buildVersion)
		return
	}

	scenarioPath := *scenarioPtr
	if scenarioPath == "" {
		latest, err := scenario.FindLatest("input/scenarios")
		if err != nil {
			log.Fatalf("[-] Error: %v. Put a scenario YAML in input/scenarios/", err)
		}
		scenarioPath = latest
		fmt.Printf("[*] Using scenario: %s\n", scenarioPath)
	}

	sc, err := scenario.Read(scenarioPath)
	if err != nil {
		log.Fatalf("[-] Failed to read scenario: %v", err)
	}
	if len(sc.Items) == 0 {
		log.Fatalf("[-] Error: scenario has no items")
	}

	if *lintPtr != "none" {
		checker, err := analyzer.NewChecker(*lintPtr)
		if err != nil {
			log.Fatalf("[-] Error: %v", err)
		}
		issues, err := checker.Check(sc)
		if err != nil {
			log.Fatalf("[-] Scenario check failed: %v", err)
		}
		for _, issue := range issues {
			log.Printf("[!] %s", issue)
		}
	}

	outputDir := *outputPtr
	if outputDir == "" {
		baseName := filepath.Base(scenarioPath)
		nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
		cleanName := strings.ReplaceAll(nameOnly, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		outputDir = filepath.Join("output", fmt.Sprintf("%s_%s", cleanName, timestamp))
	}

	workers := *workersPtr
	if workers == 0 {
		workers = system.RecommendedWorkers()
	}

	cfg := &config.Config{
		ScenarioPath: scenarioPath,
		OutputDir:    outputDir,
		Width:        *widthPtr,
		Height:       *heightPtr,
		SuperSample:  *ssPtr,
		Workers:      workers,
		ShareBase:    *sharePtr,
		StampQR:      *sharePtr != "",
		ShowStats:    *statsPtr,
		BuildVersion: buildVersion,
	}

	project := preview.NewProject(cfg, sc)
	if err := project.Run(context.Background()); err != nil {
		log.Fatalf("[-] Preview run failed: %v", err)
	}

	fmt.Printf("[+++] Done! Graphs written to: %s\n", cfg.OutputDir)
}
