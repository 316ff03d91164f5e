package pipeline

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// UGXPerUSD is a fixed illustrative exchange rate used to derive
	// amount_usd when the model omits it. This is a documented
	// approximation, not a live-rate lookup.
	UGXPerUSD = 3600

	maxCategoryLen    = 50
	maxDescriptionLen = 100
	maxSummaryLen     = 300

	defaultCurrency    = "UGX"
	defaultCategory    = "Miscellaneous"
	defaultDescription = "Financial Transaction"
)

// SanitizeTransaction coerces a loosely typed model payload into a
// fully populated Transaction. It never fails: missing or mistyped
// fields get defined defaults, amounts are clamped non-negative, and
// string fields are truncated to their display bounds. The result may
// still fail the strict contract (e.g. a zero amount); callers that
// need the strict guarantee validate afterwards.
func SanitizeTransaction(raw map[string]any, now time.Time) Transaction {
	amount := math.Max(0, round2(coerceFloat(raw["amount_ugx"])))

	usd, ok := coerceFloatOK(raw["amount_usd"])
	if !ok {
		usd = amount / UGXPerUSD
	}

	txType := strings.ToUpper(strings.TrimSpace(coerceString(raw["type"])))
	if txType == "" {
		txType = "Unknown"
	}

	category := strings.TrimSpace(coerceString(raw["category"]))
	if category == "" {
		category = defaultCategory
	}
	description := strings.TrimSpace(coerceString(raw["description"]))
	if description == "" {
		description = defaultDescription
	}

	currency := strings.TrimSpace(coerceString(raw["currency"]))
	if currency == "" {
		currency = defaultCurrency
	}

	date := coerceString(raw["date"])
	if _, err := time.Parse("2006-01-02", date); err != nil {
		date = now.UTC().Format("2006-01-02")
	}

	return Transaction{
		Type:        txType,
		AmountUGX:   amount,
		AmountUSD:   round2(usd),
		Currency:    currency,
		Category:    truncateField(category, maxCategoryLen),
		Description: truncateField(description, maxDescriptionLen),
		Date:        date,
		Source:      coerceString(raw["source"]),
	}
}

// ValidateTransaction is the strict counterpart: the amount must be a
// positive number and the type must belong to the closed set, otherwise
// a *ValidationError is returned. The remaining fields are defaulted
// the same way the permissive path defaults them.
func ValidateTransaction(raw map[string]any, now time.Time) (Transaction, error) {
	amount, ok := coerceFloatOK(raw["amount_ugx"])
	if !ok || amount <= 0 {
		return Transaction{}, &ValidationError{Field: "amount_ugx", Reason: "amount must be a positive number"}
	}

	tx := SanitizeTransaction(raw, now)
	tx.AmountUGX = round2(amount)
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// SanitizeAnalysis enforces the contract-analysis output contract in
// place: score clamped to [0,100], risk levels defaulted to medium,
// executive summary bounded to its display length.
func SanitizeAnalysis(a *ContractAnalysis) {
	a.FinancialSafetyScore = math.Min(100, math.Max(0, a.FinancialSafetyScore))

	a.LegalRiskLevel = strings.ToLower(strings.TrimSpace(a.LegalRiskLevel))
	if !riskLevels[a.LegalRiskLevel] {
		a.LegalRiskLevel = "medium"
	}
	a.FinancialRiskLevel = strings.ToLower(strings.TrimSpace(a.FinancialRiskLevel))
	if !riskLevels[a.FinancialRiskLevel] {
		a.FinancialRiskLevel = "medium"
	}

	a.RiskCategory = strings.ToUpper(strings.TrimSpace(a.RiskCategory))
	if !riskCategories[a.RiskCategory] {
		a.RiskCategory = "MEDIUM_RISK"
	}

	a.ExecutiveSummary = truncateField(a.ExecutiveSummary, maxSummaryLen)

	if a.KeyRisks == nil {
		a.KeyRisks = []string{}
	}
	if a.MitigationSteps == nil {
		a.MitigationSteps = []string{}
	}
	if a.Recommendations == nil {
		a.Recommendations = []string{}
	}
	if a.KeyFinancialTerms == nil {
		a.KeyFinancialTerms = map[string]any{}
	}
}

func coerceString(v any) string {
	s, _ := v.(string)
	return s
}

func coerceFloat(v any) float64 {
	f, _ := coerceFloatOK(v)
	return f
}

func coerceFloatOK(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(val), ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// truncateField cuts s to at most max bytes without splitting a UTF-8
// sequence at the boundary.
func truncateField(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
