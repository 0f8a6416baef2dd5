package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sekolahku/pelajar-gateway/internal/config"
	"github.com/sekolahku/pelajar-gateway/internal/logger"
	"github.com/sekolahku/pelajar-gateway/internal/schoolapi"
	"github.com/sekolahku/pelajar-gateway/internal/service"
	"github.com/sekolahku/pelajar-gateway/internal/session"
	"golang.org/x/term"
)

func main() {
	var (
		filePath string
		baseURL  string
		token    string
		dryRun   bool
	)
	flag.StringVar(&filePath, "file", "", "Path to the .xlsx or .csv file to import")
	flag.StringVar(&baseURL, "base-url", "", "School API base URL (default from SCHOOL_API_BASE_URL)")
	flag.StringVar(&token, "token", "", "School API bearer token (default from SCHOOL_API_TOKEN)")
	flag.BoolVar(&dryRun, "dry-run", false, "Parse and validate only, do not submit")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	if baseURL == "" {
		baseURL = cfg.UpstreamBaseURL
	}
	if token == "" {
		token = cfg.SchoolAPIToken
	}

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if filePath == "" {
		fmt.Println("Error: -file is required")
		flag.Usage()
		os.Exit(1)
	}

	// Token prompt for interactive use.
	if token == "" && !dryRun {
		fmt.Print("School API token: ")
		byteToken, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			fmt.Println("\nError reading token")
			os.Exit(1)
		}
		fmt.Println()
		token = strings.TrimSpace(string(byteToken))
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// ─── Initialize Service ────────────────────────────────────────────
	apiClient, err := schoolapi.NewClient(baseURL, cfg.UpstreamTimeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid school API configuration")
	}

	store := session.NewStore(time.Hour)
	importService := service.NewImportService(store, apiClient, log)

	// ─── Parse and Validate ────────────────────────────────────────────
	fmt.Println("=== Student Import ===")

	sess, err := importService.CreateSession(ctx, token)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create import session")
	}
	if sess.Reference == nil {
		fmt.Printf("Warning: reference data unavailable (%s), reference checks skipped\n", sess.RefError)
	}

	sess, err = importService.LoadFile(sess.ID, filepath.Base(filePath), data)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse file")
	}

	valid := sess.ValidCount()
	fmt.Printf("Parsed %d rows: %d valid, %d invalid\n", len(sess.Rows), valid, len(sess.Rows)-valid)
	for _, row := range sess.Rows {
		if !row.IsValid {
			fmt.Printf("  Row %d: %s\n", row.RowNumber, strings.Join(row.Errors, "; "))
		}
	}

	if dryRun {
		fmt.Println("Dry run, nothing submitted")
		return
	}

	// ─── Submit ────────────────────────────────────────────────────────
	fmt.Printf("Submitting %d rows...\n", valid)

	result, err := importService.Submit(ctx, sess.ID, token)
	if err != nil {
		log.Fatal().Err(err).Msg("Submission failed")
	}

	fmt.Printf("Done: success=%t total=%d succeeded=%d failed=%d skipped=%d\n",
		result.Success, result.TotalRows, result.SuccessCount, result.FailedCount, result.SkippedCount)
	for _, rowErr := range result.Errors {
		fmt.Printf("  Row %d: %s\n", rowErr.Row, rowErr.Message)
	}

	if !result.Success {
		os.Exit(1)
	}
}
