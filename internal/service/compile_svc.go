package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"baliance.com/gooxml/document"
	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	einotool "github.com/rfpworks/rfpserver/internal/eino/tool"
	"github.com/rfpworks/rfpserver/internal/extract"
	"github.com/rfpworks/rfpserver/internal/model"
	"github.com/rfpworks/rfpserver/internal/pkg/storage"
	"github.com/rfpworks/rfpserver/internal/repository"
)

const narrativePrompt = `You are an expert proposal writer. Compile the following question responses into a cohesive, professional proposal document that addresses the original RFP requirements.

Format the proposal with appropriate sections, an executive summary, introduction, and conclusion. Ensure the document flows well and presents a compelling case for why our company should be selected.

The final proposal should be in Markdown format with appropriate headings, bullet points, and formatting.

rfp_data: %s`

const refinePrompt = `You are an expert proposal editor. Revise the proposal text below according to the instruction. Keep the Markdown structure and return ONLY the revised proposal text.

Instruction: %s

Proposal:
%s`

// CompileService folds a finished ProposalDraft into one narrative
// document, renders DOCX and (best effort) PDF artifacts, uploads them
// under fresh keys and records the artifact against the RFP.
type CompileService struct {
	llm          einotool.Generator
	store        storage.Store
	artifactRepo *repository.ArtifactRepository
	rfpRepo      *repository.RFPRepository
}

func NewCompileService(llm einotool.Generator, store storage.Store, artifactRepo *repository.ArtifactRepository, rfpRepo *repository.RFPRepository) *CompileService {
	return &CompileService{llm: llm, store: store, artifactRepo: artifactRepo, rfpRepo: rfpRepo}
}

// Compile runs the narrative pass and persists the artifacts. Storage or
// DOCX failures are fatal; PDF conversion failure only drops the PDF
// location. On success the RFP is marked finished.
func (s *CompileService) Compile(ctx context.Context, companyID uuid.UUID, draft *ProposalDraft) (*model.ProposalArtifact, error) {
	draftJSON, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}

	markdown, err := s.llm.Generate(ctx, fmt.Sprintf(narrativePrompt, string(draftJSON)))
	if err != nil {
		return nil, fmt.Errorf("narrative generation: %w", err)
	}

	title := draft.Metadata.Title
	if title == "" {
		title = "RFP Response"
	}
	doc := BuildDocument(title, markdown)

	docxBytes, err := RenderDocx(doc)
	if err != nil {
		return nil, fmt.Errorf("render docx: %w", err)
	}

	docxKey := storage.ObjectKey("proposals", companyID, "proposal.docx")
	docxLocation, err := s.store.Put(ctx, docxKey, extract.MediaTypeDocx, bytes.NewReader(docxBytes), int64(len(docxBytes)))
	if err != nil {
		return nil, fmt.Errorf("upload docx: %w", err)
	}

	artifact := &model.ProposalArtifact{
		RFPID:        draft.RFPID,
		CompanyID:    companyID,
		DocxKey:      docxKey,
		DocxLocation: docxLocation,
		GeneratedAt:  time.Now().UTC(),
	}

	// PDF derivation is platform dependent and allowed to fail; the
	// artifact simply ships without a PDF location.
	if pdfBytes, err := RenderPDF(doc); err != nil {
		log.Printf("[Compiler] PDF conversion failed, continuing without PDF: %v", err)
	} else {
		pdfKey := storage.ObjectKey("proposals", companyID, "proposal.pdf")
		pdfLocation, err := s.store.Put(ctx, pdfKey, "application/pdf", bytes.NewReader(pdfBytes), int64(len(pdfBytes)))
		if err != nil {
			return nil, fmt.Errorf("upload pdf: %w", err)
		}
		artifact.PdfKey = pdfKey
		artifact.PdfLocation = pdfLocation
	}

	if err := s.artifactRepo.Create(ctx, artifact); err != nil {
		return nil, fmt.Errorf("record artifact: %w", err)
	}
	if err := s.rfpRepo.UpdateStatus(ctx, draft.RFPID, model.RFPStatusFinished); err != nil {
		return nil, fmt.Errorf("mark rfp finished: %w", err)
	}

	return artifact, nil
}

// Refine rewrites proposal text per an editor instruction.
func (s *CompileService) Refine(ctx context.Context, proposal, instruction string) (string, error) {
	revised, err := s.llm.Generate(ctx, fmt.Sprintf(refinePrompt, instruction, proposal))
	if err != nil {
		return "", fmt.Errorf("refine proposal: %w", err)
	}
	return revised, nil
}

// RenderDocx renders the document structure into Word Open XML bytes.
func RenderDocx(doc *ProposalDocument) ([]byte, error) {
	d := document.New()

	titlePara := d.AddParagraph()
	titlePara.SetStyle("Title")
	titlePara.AddRun().AddText(doc.Title)

	datePara := d.AddParagraph()
	datePara.AddRun().AddText("Generated on: " + time.Now().Format("2006-01-02"))

	writeBlocks := func(blocks []DocBlock) {
		for _, b := range blocks {
			if len(b.Bullets) > 0 {
				for _, item := range b.Bullets {
					p := d.AddParagraph()
					p.SetStyle("ListParagraph")
					p.AddRun().AddText("• " + item)
				}
				continue
			}
			d.AddParagraph().AddRun().AddText(b.Text)
		}
	}

	writeBlocks(doc.FrontMatter)
	for _, sec := range doc.Sections {
		h := d.AddParagraph()
		h.SetStyle("Heading2")
		h.AddRun().AddText(sec.Heading)
		writeBlocks(sec.Blocks)
	}

	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderPDF renders the document structure into PDF bytes.
func RenderPDF(doc *ProposalDocument) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, doc.Title, "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, "Generated on: "+time.Now().Format("2006-01-02"), "", "L", false)
	pdf.Ln(4)

	writeBlocks := func(blocks []DocBlock) {
		pdf.SetFont("Helvetica", "", 11)
		for _, b := range blocks {
			if len(b.Bullets) > 0 {
				for _, item := range b.Bullets {
					pdf.MultiCell(0, 6, "• "+item, "", "L", false)
				}
				pdf.Ln(2)
				continue
			}
			pdf.MultiCell(0, 6, b.Text, "", "L", false)
			pdf.Ln(2)
		}
	}

	writeBlocks(doc.FrontMatter)
	for _, sec := range doc.Sections {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.MultiCell(0, 8, sec.Heading, "", "L", false)
		pdf.Ln(1)
		writeBlocks(sec.Blocks)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
