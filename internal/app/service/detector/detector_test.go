package detector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAnalyzer struct {
	enabled bool
	reply   string
	err     error
}

func (s *stubAnalyzer) Enabled() bool { return s.enabled }

func (s *stubAnalyzer) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return s.reply, s.err
}

func newTestService(a Analyzer) *Service {
	return New(a, zap.NewNop().Sugar())
}

func TestDetectDisabledReturnsFallback(t *testing.T) {
	s := newTestService(&stubAnalyzer{enabled: false})

	got := s.Detect(context.Background(), "some statement")
	require.Len(t, got, 2)
	assert.Equal(t, "Amazon Prime", got[0].Name)
	assert.Equal(t, 14.99, got[0].Amount)
	assert.Equal(t, "Microsoft 365", got[1].Name)
	assert.Equal(t, 6.99, got[1].Amount)
}

func TestDetectBackendErrorReturnsFallback(t *testing.T) {
	s := newTestService(&stubAnalyzer{enabled: true, err: errors.New("timeout")})

	got := s.Detect(context.Background(), "some statement")
	assert.Equal(t, FallbackCandidates(), got)
}

func TestDetectParsesReplyWithSurroundingProse(t *testing.T) {
	reply := `Here are the detected subscriptions:
[
  {"name": "Netflix", "company": "Netflix Inc", "amount": 15.99, "billing_cycle": "monthly", "category": "streaming", "confidence": 0.92}
]
Let me know if you need anything else.`
	s := newTestService(&stubAnalyzer{enabled: true, reply: reply})

	got := s.Detect(context.Background(), "statement")
	require.Len(t, got, 1)
	assert.Equal(t, "Netflix", got[0].Name)
	assert.Equal(t, 15.99, got[0].Amount)
	assert.Equal(t, 0.92, got[0].Confidence)
}

func TestDetectNonJSONReplyReturnsFallback(t *testing.T) {
	s := newTestService(&stubAnalyzer{enabled: true, reply: "I could not find any subscriptions."})

	got := s.Detect(context.Background(), "statement")
	assert.Equal(t, FallbackCandidates(), got)
}

func TestDetectMalformedArrayReturnsFallback(t *testing.T) {
	s := newTestService(&stubAnalyzer{enabled: true, reply: `[{"name": "broken"`})

	got := s.Detect(context.Background(), "statement")
	// no closing bracket means no array match at all
	assert.Equal(t, FallbackCandidates(), got)
}

func TestValidateRepairsUnknownEnums(t *testing.T) {
	c, ok := validateCandidate(map[string]any{
		"name":          "Mystery Box",
		"company":       "Acme",
		"amount":        4.99,
		"billing_cycle": "fortnightly",
		"category":      "snacks",
		"confidence":    1.7,
	})
	require.True(t, ok)
	assert.Equal(t, "Mystery Box", c.Name)
	assert.Equal(t, "Acme", c.Company)
	assert.Equal(t, 4.99, c.Amount)
	assert.Equal(t, "monthly", c.BillingCycle)
	assert.Equal(t, "other", c.Category)
	assert.Equal(t, 0.8, c.Confidence)
}

func TestValidateRejectsBadAmount(t *testing.T) {
	base := map[string]any{
		"name":          "X",
		"company":       "Y",
		"billing_cycle": "monthly",
		"category":      "other",
		"confidence":    0.5,
	}

	for name, amount := range map[string]any{
		"zero":       0.0,
		"negative":   -3.5,
		"nonNumeric": "free",
	} {
		t.Run(name, func(t *testing.T) {
			raw := map[string]any{"amount": amount}
			for k, v := range base {
				raw[k] = v
			}
			_, ok := validateCandidate(raw)
			assert.False(t, ok)
		})
	}
}

func TestValidateRejectsMissingField(t *testing.T) {
	_, ok := validateCandidate(map[string]any{
		"name":     "X",
		"company":  "Y",
		"amount":   1.0,
		"category": "other",
		// billing_cycle and confidence absent
	})
	assert.False(t, ok)
}

func TestDetectDropsOnlyInvalidCandidates(t *testing.T) {
	reply := `[
  {"name": "Good", "company": "A", "amount": 9.99, "billing_cycle": "yearly", "category": "software", "confidence": 0.9},
  {"name": "Bad", "company": "B", "amount": -1, "billing_cycle": "monthly", "category": "other", "confidence": 0.9},
  {"name": "Repaired", "company": "C", "amount": 3.5, "billing_cycle": "daily", "category": "nonsense", "confidence": -2}
]`
	s := newTestService(&stubAnalyzer{enabled: true, reply: reply})

	got := s.Detect(context.Background(), "statement")
	require.Len(t, got, 2)
	assert.Equal(t, "Good", got[0].Name)
	assert.Equal(t, "yearly", got[0].BillingCycle)
	assert.Equal(t, "Repaired", got[1].Name)
	assert.Equal(t, "monthly", got[1].BillingCycle)
	assert.Equal(t, "other", got[1].Category)
	assert.Equal(t, 0.8, got[1].Confidence)
}

func TestDetectEmptyArrayIsEmptyNotFallback(t *testing.T) {
	s := newTestService(&stubAnalyzer{enabled: true, reply: "[]"})

	got := s.Detect(context.Background(), "statement")
	assert.Empty(t, got)
}
