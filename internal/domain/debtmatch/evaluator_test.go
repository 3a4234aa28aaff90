package debtmatch

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/debts/internal/domain/entity"
)

var testDate = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

func strPtr(s string) *string {
	return &s
}

func newTestTransaction(amount int64, merchant string) *entity.Transaction {
	tx := entity.NewTransaction(uuid.New(), "acc-1", decimal.NewFromInt(amount), "CARD PAYMENT", testDate)
	if merchant != "" {
		tx.MerchantName = strPtr(merchant)
	}
	return tx
}

func newTestRule(ruleType entity.RuleType, field entity.RuleField, value string, threshold int) *entity.MatchingRule {
	return entity.NewMatchingRule(uuid.New(), ruleType, field, value, threshold)
}

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		ruleValue string
		want      int
	}{
		{"identical after normalization", "  ACME   Bank ", "acme bank", 100},
		{"rule value contained in field", "ACME BANK LTD", "Acme Bank", 86},
		{"field contained in rule value", "Acme", "Acme Bank", 84},
		{"same words reordered", "bank acme", "acme bank", 75},
		{"one typo is capped below containment", "acme bamk", "acme bank", 79},
		{"edit distance only", "acne bank plc", "acme bank", 62},
		{"unrelated", "tesco stores", "acme bank", 8},
		{"empty field", "", "acme bank", 0},
		{"blank rule value", "acme bank", "   ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FuzzyScore(tt.value, tt.ruleValue)
			if got != tt.want {
				t.Errorf("FuzzyScore(%q, %q) = %d, want %d", tt.value, tt.ruleValue, got, tt.want)
			}
		})
	}
}

func TestFuzzyScore_ContainmentNeverReachesAutoConfirm(t *testing.T) {
	got := FuzzyScore("acme bank x", "acme bank")
	if got < 80 || got >= 90 {
		t.Errorf("containment score = %d, want in [80, 89]", got)
	}
}

func TestEvaluator_Exact(t *testing.T) {
	e := NewEvaluator()

	tests := []struct {
		name      string
		merchant  string
		ruleValue string
		wantMatch bool
		wantConf  int
	}{
		{"same case", "Acme Bank", "Acme Bank", true, 100},
		{"different case and padding", "  ACME BANK ", "acme bank", true, 100},
		{"different text", "Acme Bank Ltd", "Acme Bank", false, 0},
		{"missing field", "", "Acme Bank", false, 0},
		{"empty rule value", "Acme Bank", "", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := newTestTransaction(-5000, tt.merchant)
			rule := newTestRule(entity.RuleTypeExact, entity.RuleFieldMerchantName, tt.ruleValue, 85)

			got := e.Evaluate(tx, rule)
			if got.IsMatch != tt.wantMatch || got.Confidence != tt.wantConf {
				t.Errorf("Evaluate() = {match: %v, conf: %d}, want {match: %v, conf: %d}",
					got.IsMatch, got.Confidence, tt.wantMatch, tt.wantConf)
			}
			if got.IsMatch && got.MatchedField != entity.RuleFieldMerchantName {
				t.Errorf("MatchedField = %s, want merchant_name", got.MatchedField)
			}
		})
	}
}

func TestEvaluator_Fuzzy(t *testing.T) {
	e := NewEvaluator()

	tests := []struct {
		name      string
		merchant  string
		threshold int
		wantMatch bool
		wantConf  int
	}{
		{"containment clears threshold 85", "ACME BANK LTD", 85, true, 86},
		{"containment below threshold 90", "ACME BANK LTD", 90, false, 86},
		{"exact text", "acme bank", 85, true, 100},
		{"reordered words below threshold", "bank acme", 85, false, 75},
		{"reordered words with low threshold", "bank acme", 70, true, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := newTestTransaction(-5000, tt.merchant)
			rule := newTestRule(entity.RuleTypeFuzzy, entity.RuleFieldMerchantName, "Acme Bank", tt.threshold)

			got := e.Evaluate(tx, rule)
			if got.IsMatch != tt.wantMatch {
				t.Errorf("IsMatch = %v, want %v", got.IsMatch, tt.wantMatch)
			}
			if got.Confidence != tt.wantConf {
				t.Errorf("Confidence = %d, want raw score %d", got.Confidence, tt.wantConf)
			}
		})
	}
}

func TestEvaluator_Pattern(t *testing.T) {
	e := NewEvaluator()

	tests := []struct {
		name      string
		pattern   string
		desc      string
		wantMatch bool
	}{
		{"anchored match", `^DD ACME\s+\d+`, "DD ACME 12345", true},
		{"case insensitive", `acme loan`, "Payment ACME LOAN ref", true},
		{"no match", `^acme`, "Payment to ACME", false},
		{"invalid regex never matches", `acme(`, "acme(", false},
		{"empty pattern never matches", ``, "anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := newTestTransaction(-5000, "")
			tx.Description = tt.desc
			rule := newTestRule(entity.RuleTypePattern, entity.RuleFieldDescription, tt.pattern, 85)

			got := e.Evaluate(tx, rule)
			if got.IsMatch != tt.wantMatch {
				t.Errorf("IsMatch = %v, want %v", got.IsMatch, tt.wantMatch)
			}
			if got.IsMatch && got.Confidence != MaxConfidence {
				t.Errorf("Confidence = %d, want %d", got.Confidence, MaxConfidence)
			}
		})
	}
}

func TestEvaluator_InvalidPatternIsCached(t *testing.T) {
	e := NewEvaluator()
	tx := newTestTransaction(-100, "")
	rule := newTestRule(entity.RuleTypePattern, entity.RuleFieldDescription, `[unclosed`, 85)

	for i := 0; i < 3; i++ {
		if got := e.Evaluate(tx, rule); got.IsMatch {
			t.Fatalf("invalid pattern matched on evaluation %d", i)
		}
	}

	cached, ok := e.patterns.Load(`[unclosed`)
	if !ok {
		t.Fatal("invalid pattern was not cached")
	}
	if cached.(*regexp.Regexp) != nil {
		t.Error("invalid pattern cached as a compiled regexp")
	}
}

func TestEvaluator_Account(t *testing.T) {
	e := NewEvaluator()

	tests := []struct {
		name      string
		account   *string
		field     entity.RuleField
		ruleValue string
		wantMatch bool
	}{
		{"same number", strPtr("12345678"), entity.RuleFieldAccountNumber, "12345678", true},
		{"grouped digits", strPtr("1234 5678"), entity.RuleFieldAccountNumber, "12-34-5678", true},
		{"different number", strPtr("12345679"), entity.RuleFieldAccountNumber, "12345678", false},
		{"no account number", nil, entity.RuleFieldAccountNumber, "12345678", false},
		{"account rule on wrong field", strPtr("12345678"), entity.RuleFieldDescription, "CARD PAYMENT", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := newTestTransaction(-5000, "")
			tx.AccountNumber = tt.account
			rule := newTestRule(entity.RuleTypeAccount, tt.field, tt.ruleValue, 85)

			got := e.Evaluate(tx, rule)
			if got.IsMatch != tt.wantMatch {
				t.Errorf("IsMatch = %v, want %v", got.IsMatch, tt.wantMatch)
			}
			if got.IsMatch && got.Confidence != MaxConfidence {
				t.Errorf("Confidence = %d, want %d", got.Confidence, MaxConfidence)
			}
		})
	}
}

func TestEvaluator_ConfidenceAlwaysInRange(t *testing.T) {
	e := NewEvaluator()
	merchants := []string{"", "a", "Acme Bank", "ACME BANK LTD", "zzzzzzzzzzzzzzzzzzzzzz", "bank"}
	types := []entity.RuleType{entity.RuleTypeExact, entity.RuleTypeFuzzy, entity.RuleTypePattern}

	for _, m := range merchants {
		for _, rt := range types {
			got := e.Evaluate(newTestTransaction(-1, m), newTestRule(rt, entity.RuleFieldMerchantName, "acme bank", 0))
			if got.Confidence < 0 || got.Confidence > 100 {
				t.Errorf("Evaluate(%q, %s) confidence = %d, out of range", m, rt, got.Confidence)
			}
		}
	}
}
