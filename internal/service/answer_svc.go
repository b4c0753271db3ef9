package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	einobase "github.com/cloudwego/eino/components/tool"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/rfpworks/rfpserver/internal/eino/agent"
	"github.com/rfpworks/rfpserver/internal/eino/llm"
	einotool "github.com/rfpworks/rfpserver/internal/eino/tool"
	"github.com/rfpworks/rfpserver/internal/rfp"
)

type UnitKind string

const (
	UnitKindSection     UnitKind = "section"
	UnitKindQuestion    UnitKind = "question"
	UnitKindRequirement UnitKind = "requirement"
)

// SectionAnswer is one answered section. Answers are never patched in
// place; regeneration produces a whole new draft.
type SectionAnswer struct {
	rfp.Section
	Answer   string `json:"answer"`
	ToolUsed string `json:"tool_used"`
	Failed   bool   `json:"failed,omitempty"`
}

type QuestionAnswer struct {
	rfp.Question
	Answer   string `json:"answer"`
	ToolUsed string `json:"tool_used"`
	Failed   bool   `json:"failed,omitempty"`
}

type RequirementAnswer struct {
	rfp.Requirement
	Satisfied bool   `json:"satisfied"`
	Evidence  string `json:"evidence"`
	ToolUsed  string `json:"tool_used"`
	Failed    bool   `json:"failed,omitempty"`
}

// ProposalDraft accumulates every per-unit answer for one pipeline run,
// in the original StructuredRFP order. FailedUnits counts units that got
// the sentinel answer so callers can observe partial failures.
type ProposalDraft struct {
	RFPID        uuid.UUID           `json:"rfp_id"`
	Metadata     rfp.Metadata        `json:"metadata"`
	Sections     []SectionAnswer     `json:"sections"`
	Questions    []QuestionAnswer    `json:"questions"`
	Requirements []RequirementAnswer `json:"requirements"`
	FailedUnits  int                 `json:"failed_units"`
}

// EvidenceSatisfied derives the requirement-satisfaction boolean from
// free-text evidence. Deliberately crude keyword containment; isolated
// here so a stricter classifier can replace it without touching the
// agent loop.
func EvidenceSatisfied(evidence string) bool {
	lower := strings.ToLower(evidence)
	return strings.Contains(lower, "yes") || strings.Contains(lower, "satisfied")
}

const agentSystemPrompt = "You are a proposal specialist answering an RFP on behalf of the company. " +
	"You have access to a company documentation search tool. ALWAYS search the company documentation first; " +
	"only fall back to general reasoning if the documentation has nothing relevant."

// unitRunner answers one query, reporting which tool the agent used.
type unitRunner interface {
	Run(ctx context.Context, query string) (answer string, toolUsed string, err error)
}

type runnerFactory func(ctx context.Context, companyID uuid.UUID) (unitRunner, error)

// AnswerService runs the per-unit answer agent over a StructuredRFP.
// Units are independent: each gets its own timeout, and a failing unit
// yields a sentinel answer instead of aborting the batch.
type AnswerService struct {
	builder     *agent.Builder
	provider    *llm.ProviderConfig
	retriever   einotool.Retriever
	generator   einotool.Generator
	topK        int
	concurrency int
	unitTimeout time.Duration
	limiter     *rate.Limiter

	newRunner runnerFactory
}

type AnswerConfig struct {
	Provider    *llm.ProviderConfig
	TopK        int
	Concurrency int
	UnitTimeout time.Duration
	RPS         float64
}

func NewAnswerService(builder *agent.Builder, retriever einotool.Retriever, generator einotool.Generator, cfg AnswerConfig) *AnswerService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	if cfg.UnitTimeout <= 0 {
		cfg.UnitTimeout = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}

	s := &AnswerService{
		builder:     builder,
		provider:    cfg.Provider,
		retriever:   retriever,
		generator:   generator,
		topK:        cfg.TopK,
		concurrency: cfg.Concurrency,
		unitTimeout: cfg.UnitTimeout,
		limiter:     rate.NewLimiter(limit, 1),
	}
	s.newRunner = s.buildReactRunner
	return s
}

// AnswerBatch answers every section, question and requirement of the
// structured RFP for one company. Results come back in the structure's
// original order regardless of completion order. Word limits and response
// formats are passed to the model as instructions, not enforced here.
func (s *AnswerService) AnswerBatch(ctx context.Context, companyID uuid.UUID, rfpID uuid.UUID, structured *rfp.StructuredRFP) (*ProposalDraft, error) {
	if companyID == uuid.Nil {
		return nil, fmt.Errorf("company id is required")
	}

	runner, err := s.newRunner(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("build answer agent: %w", err)
	}

	draft := &ProposalDraft{
		RFPID:        rfpID,
		Metadata:     structured.Metadata,
		Sections:     make([]SectionAnswer, len(structured.Sections)),
		Questions:    make([]QuestionAnswer, len(structured.Questions)),
		Requirements: make([]RequirementAnswer, len(structured.Requirements)),
	}

	type workItem struct {
		kind  UnitKind
		index int
		query string
	}

	var items []workItem
	for i, sec := range structured.Sections {
		items = append(items, workItem{UnitKindSection, i, sectionQuery(sec)})
	}
	for i, q := range structured.Questions {
		items = append(items, workItem{UnitKindQuestion, i, questionQuery(q)})
	}
	for i, req := range structured.Requirements {
		items = append(items, workItem{UnitKindRequirement, i, requirementQuery(req)})
	}

	var (
		wg       sync.WaitGroup
		sem      = make(chan struct{}, s.concurrency)
		mu       sync.Mutex
		failures int
	)

	for _, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(item workItem) {
			defer wg.Done()
			defer func() { <-sem }()

			answer, toolUsed, failed := s.runUnit(ctx, runner, item.query)
			if failed {
				mu.Lock()
				failures++
				mu.Unlock()
			}

			switch item.kind {
			case UnitKindSection:
				sec := structured.Sections[item.index]
				draft.Sections[item.index] = SectionAnswer{Section: sec, Answer: answer, ToolUsed: toolUsed, Failed: failed}
			case UnitKindQuestion:
				q := structured.Questions[item.index]
				draft.Questions[item.index] = QuestionAnswer{Question: q, Answer: answer, ToolUsed: toolUsed, Failed: failed}
			case UnitKindRequirement:
				req := structured.Requirements[item.index]
				draft.Requirements[item.index] = RequirementAnswer{
					Requirement: req,
					Satisfied:   !failed && EvidenceSatisfied(answer),
					Evidence:    answer,
					ToolUsed:    toolUsed,
					Failed:      failed,
				}
			}
		}(item)
	}
	wg.Wait()

	draft.FailedUnits = failures
	return draft, nil
}

// runUnit answers one unit under the per-unit timeout. Errors and
// timeouts become a sentinel answer; the batch always continues.
func (s *AnswerService) runUnit(ctx context.Context, runner unitRunner, query string) (answer, toolUsed string, failed bool) {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Sprintf("Error occurred: %v", err), "none", true
	}

	unitCtx, cancel := context.WithTimeout(ctx, s.unitTimeout)
	defer cancel()

	answer, toolUsed, err := runner.Run(unitCtx, query)
	if err != nil {
		log.Printf("[Answer Agent] unit failed: %v", err)
		return fmt.Sprintf("Error occurred: %v", err), "none", true
	}
	if toolUsed == "" {
		toolUsed = "none"
	}
	return answer, toolUsed, false
}

func sectionQuery(sec rfp.Section) string {
	return fmt.Sprintf("Answer this RFP section based on our docs: %s - %s", sec.Title, sec.Content)
}

func questionQuery(q rfp.Question) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Answer this RFP question based on our docs: %s", q.Text)
	if q.ResponseFormat != "" {
		fmt.Fprintf(&sb, "\nRespond in this format: %s.", q.ResponseFormat)
	}
	if q.WordLimit != nil {
		fmt.Fprintf(&sb, "\nKeep the answer under %d words.", *q.WordLimit)
	}
	return sb.String()
}

func requirementQuery(req rfp.Requirement) string {
	return fmt.Sprintf("Does the company satisfy this requirement: %s?", req.Text)
}

// buildReactRunner builds a fresh ReAct agent bound to one company's
// knowledge tool. Per-unit tool usage is recorded through a wrapper so
// the draft can report which tool grounded each answer.
func (s *AnswerService) buildReactRunner(ctx context.Context, companyID uuid.UUID) (unitRunner, error) {
	return &reactRunner{svc: s, companyID: companyID}, nil
}

type reactRunner struct {
	svc       *AnswerService
	companyID uuid.UUID
}

func (r *reactRunner) Run(ctx context.Context, query string) (string, string, error) {
	rec := &toolRecorder{}
	tools := []einobase.BaseTool{
		&recordedTool{inner: einotool.NewCompanyDocsTool(r.svc.retriever, r.companyID, r.svc.topK), rec: rec},
		&recordedTool{inner: einotool.NewFallbackTool(r.svc.generator), rec: rec},
	}

	reactAgent, err := r.svc.builder.BuildReactAgent(ctx, &agent.AgentConfig{
		Name:        "rfp-answer",
		Description: "Answers RFP units from company documentation",
		Provider:    r.svc.provider,
		Tools:       tools,
	})
	if err != nil {
		return "", "", fmt.Errorf("build react agent: %w", err)
	}

	messages := []*einoschema.Message{
		einoschema.SystemMessage(agentSystemPrompt),
		einoschema.UserMessage(query),
	}

	resp, err := reactAgent.Generate(ctx, messages)
	if err != nil {
		return "", "", fmt.Errorf("react agent generate: %w", err)
	}
	return resp.Content, rec.Last(), nil
}
