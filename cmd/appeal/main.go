// Command appeal generates an appeal letter from three local PDFs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/BerylCAtieno/claim-appeal-api/internal/config"
	"github.com/BerylCAtieno/claim-appeal-api/internal/models"
	"github.com/BerylCAtieno/claim-appeal-api/internal/services"
	"github.com/BerylCAtieno/claim-appeal-api/internal/storage"
	"github.com/BerylCAtieno/claim-appeal-api/internal/utils"
)

type options struct {
	eob     string
	medical string
	denial  string
	apiKey  string
	out     string
	verbose bool
}

func main() {
	opts := parseFlags()

	if err := run(opts); err != nil {
		color.Red("Error: %s", userMessage(err))
		os.Exit(1)
	}
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.eob, "eob", "", "Path to the Explanation of Benefits PDF")
	flag.StringVar(&opts.medical, "medical", "", "Path to the medical records PDF")
	flag.StringVar(&opts.denial, "denial", "", "Path to the denial letter PDF")
	flag.StringVar(&opts.apiKey, "api-key", os.Getenv("OPENAI_API_KEY"), "OpenAI API key")
	flag.StringVar(&opts.out, "out", storage.LetterFilename, "Where to write the letter")
	flag.BoolVar(&opts.verbose, "v", false, "Log to stderr")
	flag.Parse()

	return opts
}

func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := utils.NopLogger()
	if opts.verbose {
		logger = utils.NewLoggerTo(os.Stderr, cfg.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := services.NewLocalService(cfg, logger)
	if err != nil {
		return err
	}

	req, err := buildRequest(opts)
	if err != nil {
		return err
	}

	spinner := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString("Generating appeal letter...")),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				spinner.Add(1)
			}
		}
	}()

	resp, err := svc.GenerateAppeal(ctx, req)
	close(done)
	spinner.Finish()
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.out, []byte(resp.Letter), 0644); err != nil {
		return fmt.Errorf("write letter: %w", err)
	}

	color.Green("Appeal letter generated with %s", resp.Model)
	fmt.Printf("Patient: %s\nSaved to: %s\n", resp.Patient.Name, opts.out)
	return nil
}

// buildRequest reads the PDFs named on the command line. An empty path leaves
// its document out so the service reports the missing upload.
func buildRequest(opts options) (*models.GenerateRequest, error) {
	req := &models.GenerateRequest{
		APIKey:    opts.apiKey,
		Documents: make(map[models.DocumentKind]*models.UploadedDocument),
	}
	paths := map[models.DocumentKind]string{
		models.KindEOB:            opts.eob,
		models.KindMedicalRecords: opts.medical,
		models.KindDenialLetter:   opts.denial,
	}
	for kind, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", kind.Label(), err)
		}
		req.Documents[kind] = &models.UploadedDocument{Kind: kind, Filename: filepath.Base(path), Data: data}
	}
	return req, nil
}

// userMessage prefers the user-facing message of an AppError.
func userMessage(err error) string {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
