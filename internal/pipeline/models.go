package pipeline

// Transaction type classifications.
const (
	TypeIncome     = "INCOME"
	TypeExpense    = "EXPENSE"
	TypeTransfer   = "TRANSFER"
	TypeLoan       = "LOAN"
	TypeInvestment = "INVESTMENT"
	TypeSaving     = "SAVING"
	TypeTithing    = "TITHING"
)

// TransactionTypes is the closed set of valid classifications.
var TransactionTypes = []string{
	TypeIncome, TypeExpense, TypeTransfer, TypeLoan,
	TypeInvestment, TypeSaving, TypeTithing,
}

// SourceFallback marks records synthesized by the rule-based fallback
// rather than the model.
const SourceFallback = "FALLBACK_PARSER"

// Transaction is one normalized transaction produced by the model or
// the fallback generator. It lives for a single request and is never
// persisted.
type Transaction struct {
	Type        string  `json:"type"`
	AmountUGX   float64 `json:"amount_ugx"`
	AmountUSD   float64 `json:"amount_usd"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Source      string  `json:"source,omitempty"`
}

// Validate enforces the strict output contract: a positive amount and a
// classification from the closed set.
func (t Transaction) Validate() error {
	if t.AmountUGX <= 0 {
		return &ValidationError{Field: "amount_ugx", Reason: "amount must be a positive number"}
	}
	for _, valid := range TransactionTypes {
		if t.Type == valid {
			return nil
		}
	}
	return &ValidationError{Field: "type", Reason: "unknown transaction type " + t.Type}
}

// Contract risk categories for executive decision-making.
var riskCategories = map[string]bool{
	"LOW_RISK":      true,
	"MEDIUM_RISK":   true,
	"HIGH_RISK":     true,
	"CRITICAL_RISK": true,
}

// Per-dimension risk levels.
var riskLevels = map[string]bool{
	"low":      true,
	"medium":   true,
	"high":     true,
	"critical": true,
}

// ContractAnalysis is the structured risk assessment for one contract.
type ContractAnalysis struct {
	FinancialSafetyScore float64        `json:"financial_safety_score"`
	LegalRiskLevel       string         `json:"legal_risk_level"`
	FinancialRiskLevel   string         `json:"financial_risk_level"`
	KeyRisks             []string       `json:"key_risks"`
	MitigationSteps      []string       `json:"mitigation_steps"`
	Recommendations      []string       `json:"recommendations"`
	KeyFinancialTerms    map[string]any `json:"key_financial_terms"`
	RiskCategory         string         `json:"risk_category"`
	ExecutiveSummary     string         `json:"executive_summary"`
}

// ContractSummary is the executive summary for one contract.
type ContractSummary struct {
	Title             string   `json:"title"`
	Parties           []string `json:"parties"`
	KeyTerms          []string `json:"key_terms"`
	Duration          string   `json:"duration"`
	FinancialTerms    string   `json:"financial_terms"`
	TerminationClause string   `json:"termination_clause"`
	MainObligations   []string `json:"main_obligations"`
	CriticalDates     []string `json:"critical_dates"`
}
