package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BerylCAtieno/claim-appeal-api/internal/appeal"
	"github.com/BerylCAtieno/claim-appeal-api/internal/config"
	"github.com/BerylCAtieno/claim-appeal-api/internal/extractor"
	"github.com/BerylCAtieno/claim-appeal-api/internal/llm"
	"github.com/BerylCAtieno/claim-appeal-api/internal/models"
	"github.com/BerylCAtieno/claim-appeal-api/internal/parser"
	"github.com/BerylCAtieno/claim-appeal-api/internal/repository"
	"github.com/BerylCAtieno/claim-appeal-api/internal/storage"
	"github.com/BerylCAtieno/claim-appeal-api/internal/utils"
)

// User-facing failures of the generation flow.
var (
	ErrMissingUploads = utils.NewBadRequestError("Please upload all three documents: the EOB, the medical records and the denial letter.")
	ErrMissingAPIKey  = utils.NewBadRequestError("Please enter your OpenAI API key to generate an appeal.")
	ErrAgentInit      = utils.NewBadGatewayError("Failed to initialize the AI agent. Check your API key and try again.")
	ErrGeneration     = utils.NewBadGatewayError("Error generating the appeal letter. Please try again.")
	ErrUsageLog       = utils.NewBadGatewayError("The appeal letter was generated but its usage could not be recorded.")
)

// syntheticCost is reported to the usage log; no pricing is tracked.
const syntheticCost = "$0.00"

type AppealService interface {
	ExtractDocument(ctx context.Context, doc *models.UploadedDocument) (*models.ExtractionResponse, error)
	GenerateAppeal(ctx context.Context, req *models.GenerateRequest) (*models.AppealResponse, error)
	GetAppeal(ctx context.Context, id string) (*models.Appeal, error)
	ListAppeals(ctx context.Context, limit int) ([]models.Appeal, error)
	GetDocument(ctx context.Context, id string, kind models.DocumentKind) ([]byte, error)
}

// Dependencies are the collaborators of the appeal service. Storage may be
// nil, which disables archiving.
type Dependencies struct {
	Repo    repository.Repository
	Storage storage.Storage
	Parser  parser.FieldParser
	Agents  llm.AgentFactory
	Usage   llm.UsageLogger
}

type Options struct {
	UsageQuery        string
	GenerationTimeout time.Duration
	UsageLogStrict    bool
}

type appealService struct {
	deps   Dependencies
	opts   Options
	logger *utils.Logger
}

func NewService(deps Dependencies, opts Options, logger *utils.Logger) AppealService {
	return &appealService{
		deps:   deps,
		opts:   opts,
		logger: logger,
	}
}

// NewServiceFromConfig wires the production collaborators.
func NewServiceFromConfig(ctx context.Context, repo repository.Repository, cfg *config.Config, logger *utils.Logger) (AppealService, error) {
	deps, err := dependenciesFromConfig(repo, cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.S3Enabled() {
		deps.Storage, err = storage.NewS3Storage(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
	}

	return NewService(deps, optionsFromConfig(cfg), logger), nil
}

// NewLocalService runs the same flow with appeals held in memory and no
// archive, for one-off generation outside the server.
func NewLocalService(cfg *config.Config, logger *utils.Logger) (AppealService, error) {
	deps, err := dependenciesFromConfig(repository.NewMemoryRepository(), cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewService(deps, optionsFromConfig(cfg), logger), nil
}

func dependenciesFromConfig(repo repository.Repository, cfg *config.Config, logger *utils.Logger) (Dependencies, error) {
	fieldParser, err := parser.NewRegexParser(cfg.Parser)
	if err != nil {
		return Dependencies{}, fmt.Errorf("failed to build field parser: %w", err)
	}

	selector := llm.NewRouterSelector(cfg.RouterURL, cfg.RouterQuery, cfg.DefaultModel, logger)
	agents := llm.NewAgentFactory(selector, llm.FactoryConfig{
		BaseURL:     cfg.LLMBaseURL,
		Temperature: cfg.LLMTemperature,
	}, logger)

	return Dependencies{
		Repo:   repo,
		Parser: fieldParser,
		Agents: agents,
		Usage:  llm.NewUsageLogger(cfg.RouterURL, logger),
	}, nil
}

func optionsFromConfig(cfg *config.Config) Options {
	return Options{
		UsageQuery:        cfg.RouterQuery,
		GenerationTimeout: cfg.GenerationTimeout,
		UsageLogStrict:    cfg.UsageLogStrict,
	}
}

func (s *appealService) ExtractDocument(ctx context.Context, doc *models.UploadedDocument) (*models.ExtractionResponse, error) {
	if doc == nil || len(doc.Data) == 0 {
		return nil, utils.NewBadRequestError("No file provided")
	}
	if !doc.Kind.Valid() {
		return nil, utils.NewBadRequestError(fmt.Sprintf("Unknown document kind '%s'", doc.Kind))
	}

	text, err := s.extract(doc)
	if err != nil {
		return nil, err
	}

	resp := &models.ExtractionResponse{
		Kind:     doc.Kind,
		Filename: doc.Filename,
		Text:     text,
	}
	if doc.Kind == models.KindMedicalRecords {
		patient := s.deps.Parser.Parse(text)
		resp.Patient = &patient
	}

	return resp, nil
}

func (s *appealService) GenerateAppeal(ctx context.Context, req *models.GenerateRequest) (*models.AppealResponse, error) {
	for _, kind := range models.DocumentKinds {
		if doc := req.Documents[kind]; doc == nil || len(doc.Data) == 0 {
			return nil, ErrMissingUploads
		}
	}

	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	agent, err := s.deps.Agents.NewAgent(ctx, apiKey)
	if err != nil {
		s.logger.Error("Failed to initialize agent", "error", err)
		return nil, ErrAgentInit.WithCause(err)
	}

	texts := make(map[models.DocumentKind]string, len(models.DocumentKinds))
	for _, kind := range models.DocumentKinds {
		text, err := s.extract(req.Documents[kind])
		if err != nil {
			return nil, err
		}
		texts[kind] = text
	}

	patient := s.deps.Parser.Parse(texts[models.KindMedicalRecords])
	prompt := appeal.BuildPrompt(
		texts[models.KindEOB],
		texts[models.KindMedicalRecords],
		texts[models.KindDenialLetter],
		patient.Name,
	)

	genCtx := ctx
	if s.opts.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.opts.GenerationTimeout)
		defer cancel()
	}

	s.logger.Info("Starting appeal generation", "model", agent.Model(), "prompt_length", len(prompt))
	start := time.Now()
	letter, err := agent.Run(genCtx, prompt)
	if err != nil {
		s.logger.Error("Failed to generate appeal", "error", err, "model", agent.Model())
		return nil, ErrGeneration.WithCause(err)
	}
	latency := time.Since(start)

	record := models.UsageRecord{
		Query:   s.opts.UsageQuery,
		Model:   agent.Model(),
		Latency: latency.Seconds(),
		Cost:    syntheticCost,
	}
	if err := s.deps.Usage.Log(ctx, record); err != nil {
		if s.opts.UsageLogStrict {
			s.logger.Error("Failed to record usage", "error", err)
			return nil, ErrUsageLog.WithCause(err)
		}
		s.logger.Warn("Failed to record usage", "error", err)
	}

	now := time.Now().UTC()
	result := &models.Appeal{
		ID:          utils.GenerateID(),
		PatientName: patient.Name,
		Model:       agent.Model(),
		Letter:      letter,
		LatencyMS:   latency.Milliseconds(),
		CreatedAt:   now,
	}

	archived := s.archive(ctx, result, req.Documents)

	if err := s.deps.Repo.Create(ctx, result); err != nil {
		s.logger.Error("Failed to save appeal", "error", err, "id", result.ID)
		for _, key := range archived {
			_ = s.deps.Storage.Delete(ctx, key)
		}
		return nil, utils.NewInternalError("Failed to save the generated appeal")
	}

	s.logger.Info("Appeal generated successfully",
		"id", result.ID,
		"model", result.Model,
		"latency_ms", result.LatencyMS,
		"letter_length", len(letter))

	return &models.AppealResponse{
		ID:        result.ID,
		Model:     result.Model,
		Patient:   patient,
		Previews:  texts,
		Letter:    letter,
		CreatedAt: now,
		Message:   "Appeal letter generated. Use /appeals/{id}/download to download it.",
	}, nil
}

func (s *appealService) GetAppeal(ctx context.Context, id string) (*models.Appeal, error) {
	result, err := s.deps.Repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get appeal", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve appeal")
	}
	if result == nil {
		return nil, utils.NewNotFoundError("Appeal not found")
	}

	return result, nil
}

func (s *appealService) ListAppeals(ctx context.Context, limit int) ([]models.Appeal, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	appeals, err := s.deps.Repo.ListRecent(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list appeals", "error", err)
		return nil, utils.NewInternalError("Failed to list appeals")
	}
	return appeals, nil
}

// GetDocument returns an archived source PDF.
func (s *appealService) GetDocument(ctx context.Context, id string, kind models.DocumentKind) ([]byte, error) {
	if s.deps.Storage == nil {
		return nil, utils.NewNotFoundError("Document archive is not enabled")
	}

	result, err := s.GetAppeal(ctx, id)
	if err != nil {
		return nil, err
	}

	var key *string
	switch kind {
	case models.KindEOB:
		key = result.EOBKey
	case models.KindMedicalRecords:
		key = result.MedicalKey
	case models.KindDenialLetter:
		key = result.DenialKey
	default:
		return nil, utils.NewBadRequestError(fmt.Sprintf("Unknown document kind '%s'", kind))
	}
	if key == nil {
		return nil, utils.NewNotFoundError("Document was not archived")
	}

	data, err := s.deps.Storage.Download(ctx, *key)
	if err != nil {
		s.logger.Error("Failed to download document", "error", err, "key", *key)
		return nil, utils.NewInternalError("Failed to retrieve document")
	}
	return data, nil
}

func (s *appealService) extract(doc *models.UploadedDocument) (string, error) {
	text, err := extractor.ExtractPDF(doc.Data)
	if err != nil {
		s.logger.Warn("Failed to extract text", "error", err, "kind", doc.Kind, "filename", doc.Filename)
		return "", utils.NewBadRequestError(fmt.Sprintf("Could not read the %s. Please upload a valid PDF.", doc.Kind.Label())).WithCause(err)
	}
	return text, nil
}

// archive stores the source documents and the letter, recording their keys on
// result. Failures are logged and leave the key unset. Returns stored keys.
func (s *appealService) archive(ctx context.Context, result *models.Appeal, docs map[models.DocumentKind]*models.UploadedDocument) []string {
	if s.deps.Storage == nil {
		return nil
	}

	var stored []string
	put := func(key string, data []byte, contentType string) *string {
		if err := s.deps.Storage.Upload(ctx, key, data, contentType); err != nil {
			s.logger.Warn("Failed to archive object", "error", err, "key", key)
			return nil
		}
		stored = append(stored, key)
		return &key
	}

	result.EOBKey = put(storage.DocumentKey(result.ID, models.KindEOB), docs[models.KindEOB].Data, "application/pdf")
	result.MedicalKey = put(storage.DocumentKey(result.ID, models.KindMedicalRecords), docs[models.KindMedicalRecords].Data, "application/pdf")
	result.DenialKey = put(storage.DocumentKey(result.ID, models.KindDenialLetter), docs[models.KindDenialLetter].Data, "application/pdf")
	result.LetterKey = put(storage.LetterKey(result.ID), []byte(result.Letter), "text/plain; charset=utf-8")

	return stored
}
