// Package debtmatch decides whether bank transactions are payments toward tracked debts.
package debtmatch

import (
	"log/slog"
	"math"
	"regexp"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/finance-tracker/debts/internal/domain/entity"
)

const (
	// MaxConfidence is the score given to exact, pattern and account matches.
	MaxConfidence = 100

	// containmentBase is the lowest score a fuzzy containment match can get.
	containmentBase = 80
	// partialCeiling caps fuzzy scores that are neither equal nor containing.
	partialCeiling = 79
	// tokenOverlapWeight scales the share of shared words into a score.
	tokenOverlapWeight = 75
)

// Result is the verdict of evaluating one rule against one transaction.
// Confidence is the raw score even when IsMatch is false.
type Result struct {
	IsMatch      bool
	Confidence   int
	MatchedField entity.RuleField
	MatchedValue string
}

// Evaluator applies matching rules to transactions.
// Compiled patterns are cached by source, including the ones that fail to compile.
type Evaluator struct {
	patterns sync.Map // map[string]*regexp.Regexp, nil for invalid sources
}

// NewEvaluator creates a new Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate scores a transaction against a rule.
// A transaction without a value for the rule's field never matches.
func (e *Evaluator) Evaluate(tx *entity.Transaction, rule *entity.MatchingRule) Result {
	if tx == nil || rule == nil {
		return Result{}
	}

	value, ok := tx.FieldValue(rule.Field)
	if !ok {
		return Result{MatchedField: rule.Field}
	}

	var confidence int
	switch rule.Type {
	case entity.RuleTypeExact:
		confidence = exactScore(value, rule.Value)
	case entity.RuleTypeFuzzy:
		confidence = FuzzyScore(value, rule.Value)
	case entity.RuleTypePattern:
		confidence = e.patternScore(value, rule.Value)
	case entity.RuleTypeAccount:
		if rule.Field != entity.RuleFieldAccountNumber {
			return Result{MatchedField: rule.Field}
		}
		confidence = accountScore(value, rule.Value)
	default:
		slog.Warn("Skipping rule with unknown type",
			"rule_id", rule.ID,
			"rule_type", rule.Type,
		)
		return Result{MatchedField: rule.Field}
	}

	confidence = entity.ClampConfidence(confidence)
	isMatch := confidence > 0 && confidence >= rule.ConfidenceThreshold
	if rule.Type != entity.RuleTypeFuzzy {
		isMatch = confidence == MaxConfidence
	}

	return Result{
		IsMatch:      isMatch,
		Confidence:   confidence,
		MatchedField: rule.Field,
		MatchedValue: value,
	}
}

func exactScore(value, ruleValue string) int {
	if strings.TrimSpace(ruleValue) == "" {
		return 0
	}
	if strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(ruleValue)) {
		return MaxConfidence
	}
	return 0
}

func accountScore(value, ruleValue string) int {
	want := compactAccount(ruleValue)
	if want == "" {
		return 0
	}
	if strings.EqualFold(compactAccount(value), want) {
		return MaxConfidence
	}
	return 0
}

// compactAccount drops the spaces and dashes banks use to group account digits.
func compactAccount(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '\t' {
			return -1
		}
		return r
	}, s)
}

func (e *Evaluator) patternScore(value, source string) int {
	re := e.compile(source)
	if re == nil {
		return 0
	}
	if re.MatchString(value) {
		return MaxConfidence
	}
	return 0
}

// compile returns the cached case-insensitive regexp for source, or nil when
// the source is empty or invalid. Invalid sources are logged on first sight only.
func (e *Evaluator) compile(source string) *regexp.Regexp {
	if cached, ok := e.patterns.Load(source); ok {
		return cached.(*regexp.Regexp)
	}

	var re *regexp.Regexp
	var compileErr error
	if strings.TrimSpace(source) != "" {
		re, compileErr = regexp.Compile("(?i)" + source)
	}

	if _, loaded := e.patterns.LoadOrStore(source, re); !loaded && compileErr != nil {
		slog.Warn("Pattern rule will never match: invalid regex",
			"pattern", source,
			"error", compileErr,
		)
	}
	return re
}

// FuzzyScore returns a similarity score in [0, 100] between a transaction value
// and a rule value. Equal strings score 100. A string containing the other scores
// between 80 and 89 depending on how much of it the contained part covers. Anything
// else scores at most 79 from edit distance or shared words, whichever is higher.
func FuzzyScore(value, ruleValue string) int {
	a := normalize(value)
	b := normalize(ruleValue)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return MaxConfidence
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		short, long := len([]rune(b)), len([]rune(a))
		if short > long {
			short, long = long, short
		}
		return containmentBase + (10*short)/long
	}

	ratio := editRatio(a, b)
	overlap := tokenOverlap(a, b)

	score := int(math.Round(ratio * 100))
	if o := int(math.Round(overlap * tokenOverlapWeight)); o > score {
		score = o
	}
	if score > partialCeiling {
		score = partialCeiling
	}
	if score < 0 {
		score = 0
	}
	return score
}

// normalize lower-cases, trims and collapses internal whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func editRatio(a, b string) float64 {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

// tokenOverlap is the share of distinct words the two strings have in common,
// measured against the string with more distinct words.
func tokenOverlap(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			shared++
		}
	}

	denom := len(ta)
	if len(tb) > denom {
		denom = len(tb)
	}
	return float64(shared) / float64(denom)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}
