package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/rfpworks/rfpserver/internal/extract"
	"github.com/rfpworks/rfpserver/internal/model"
	"github.com/rfpworks/rfpserver/internal/pkg/storage"
	"github.com/rfpworks/rfpserver/internal/repository"
	"github.com/rfpworks/rfpserver/internal/rfp"
)

// PipelineService drives the intake and generation pipeline:
// upload -> extract -> structured parse, then answer batch -> compile.
// Parse failures are fatal to the run; per-unit answer failures are not.
type PipelineService struct {
	rfpRepo    *repository.RFPRepository
	store      storage.Store
	extractor  *extract.Extractor
	parser     *rfp.Parser
	answerSvc  *AnswerService
	compileSvc *CompileService
}

func NewPipelineService(rfpRepo *repository.RFPRepository, store storage.Store, extractor *extract.Extractor, parser *rfp.Parser, answerSvc *AnswerService, compileSvc *CompileService) *PipelineService {
	return &PipelineService{
		rfpRepo:    rfpRepo,
		store:      store,
		extractor:  extractor,
		parser:     parser,
		answerSvc:  answerSvc,
		compileSvc: compileSvc,
	}
}

// ProcessUpload ingests one RFP document: extract text, parse structure,
// persist the file and the ledger row with the structured snapshot.
func (s *PipelineService) ProcessUpload(ctx context.Context, companyID, uploadedBy uuid.UUID, raw *extract.RawDocument) (*model.RFP, *rfp.StructuredRFP, error) {
	text, err := s.extractor.Extract(raw)
	if err != nil {
		return nil, nil, err
	}

	structured, err := s.parser.Parse(ctx, text)
	if err != nil {
		return nil, nil, err
	}

	key := storage.ObjectKey("rfps", companyID, raw.Filename)
	location, err := s.store.Put(ctx, key, extract.MediaTypeFor(raw.MediaType, raw.Filename), bytes.NewReader(raw.Data), int64(len(raw.Data)))
	if err != nil {
		return nil, nil, fmt.Errorf("store rfp file: %w", err)
	}

	snapshot, err := toJSONMap(structured)
	if err != nil {
		return nil, nil, fmt.Errorf("encode structured snapshot: %w", err)
	}

	record := &model.RFP{
		CompanyID:      companyID,
		Filename:       raw.Filename,
		ContentType:    extract.MediaTypeFor(raw.MediaType, raw.Filename),
		Status:         model.RFPStatusPending,
		UploadedBy:     uploadedBy,
		FileKey:        key,
		FileLocation:   location,
		StructuredData: snapshot,
	}
	if err := s.rfpRepo.Create(ctx, record); err != nil {
		return nil, nil, fmt.Errorf("create rfp record: %w", err)
	}

	log.Printf("[Pipeline] RFP %s parsed: %d sections, %d questions, %d requirements",
		record.ID, len(structured.Sections), len(structured.Questions), len(structured.Requirements))
	return record, structured, nil
}

// GenerateProposal answers every unit of a parsed RFP and compiles the
// final artifact. The RFP must have been processed by ProcessUpload.
func (s *PipelineService) GenerateProposal(ctx context.Context, rfpID uuid.UUID) (*model.ProposalArtifact, *ProposalDraft, error) {
	record, err := s.rfpRepo.FindByID(ctx, rfpID)
	if err != nil {
		return nil, nil, fmt.Errorf("load rfp: %w", err)
	}
	if record.StructuredData == nil {
		return nil, nil, fmt.Errorf("rfp %s has no structured data; was it processed?", rfpID)
	}

	structured, err := fromJSONMap(record.StructuredData)
	if err != nil {
		return nil, nil, fmt.Errorf("decode structured snapshot: %w", err)
	}

	draft, err := s.answerSvc.AnswerBatch(ctx, record.CompanyID, record.ID, structured)
	if err != nil {
		return nil, nil, err
	}
	if draft.FailedUnits > 0 {
		log.Printf("[Pipeline] RFP %s: %d units failed and carry sentinel answers", rfpID, draft.FailedUnits)
	}

	artifact, err := s.compileSvc.Compile(ctx, record.CompanyID, draft)
	if err != nil {
		return nil, nil, err
	}
	return artifact, draft, nil
}

func toJSONMap(structured *rfp.StructuredRFP) (model.JSONMap, error) {
	data, err := json.Marshal(structured)
	if err != nil {
		return nil, err
	}
	var m model.JSONMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func fromJSONMap(m model.JSONMap) (*rfp.StructuredRFP, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var structured rfp.StructuredRFP
	if err := json.Unmarshal(data, &structured); err != nil {
		return nil, err
	}
	return &structured, nil
}
