package pipeline

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// fallbackFloor is the minimum amount synthesized when no usable number
// appears in the text.
const fallbackFloor = 1000

// amountPattern matches the first numeric token, optionally carrying a
// thousands (k) or millions (m) suffix. Decimals are supported so
// "2.5M" scales to 2,500,000.
var amountPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([kKmM])?\b`)

// Keyword sets checked in fixed priority order (tithing > loan >
// income > default expense) so overlapping keywords resolve
// deterministically.
var (
	tithingKeywords = []string{"tithe", "offering", "church", "donation"}
	loanKeywords    = []string{"loan", "borrowed", "credit", "advance"}
	incomeKeywords  = []string{"salary", "earned", "received", "income", "profit"}

	foodKeywords      = []string{"food", "groceries", "lunch", "dinner", "eat", "cafe", "restaurant"}
	transportKeywords = []string{"transport", "boda", "taxi", "fuel", "bus"}
)

// FallbackTransaction synthesizes a transaction from raw text with no
// network call. It is a deterministic, best-effort approximation used
// when the remote path fails, and its output is tagged with
// SourceFallback so callers can tell it apart from model output.
func FallbackTransaction(text string, now time.Time) Transaction {
	amount := extractAmount(text)
	if amount < fallbackFloor {
		amount = fallbackFloor
	}

	lower := strings.ToLower(text)
	txType := classifyType(lower)
	category := classifyCategory(lower)

	description := strings.TrimSpace(text)
	if description == "" {
		description = "Manual Transaction Entry"
	}

	return Transaction{
		Type:        txType,
		AmountUGX:   amount,
		AmountUSD:   round2(amount / UGXPerUSD),
		Currency:    defaultCurrency,
		Category:    category,
		Description: truncateField(description, maxDescriptionLen),
		Date:        now.UTC().Format("2006-01-02"),
		Source:      SourceFallback,
	}
}

// extractAmount finds the first numeric token and applies its k/m
// multiplier. Returns 0 when the text has no number.
func extractAmount(text string) float64 {
	m := amountPattern.FindStringSubmatch(strings.ReplaceAll(text, ",", ""))
	if m == nil {
		return 0
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	switch strings.ToLower(m[2]) {
	case "k":
		value *= 1_000
	case "m":
		value *= 1_000_000
	}
	return value
}

func classifyType(lower string) string {
	switch {
	case containsAny(lower, tithingKeywords):
		return TypeTithing
	case containsAny(lower, loanKeywords):
		return TypeLoan
	case containsAny(lower, incomeKeywords):
		return TypeIncome
	default:
		return TypeExpense
	}
}

func classifyCategory(lower string) string {
	switch {
	case containsAny(lower, foodKeywords):
		return "Food"
	case containsAny(lower, transportKeywords):
		return "Transport"
	case strings.Contains(lower, "salary"):
		return "Salary"
	default:
		return "Other"
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
