package pipeline

import (
	"fmt"

	"github.com/ican-capital/treasury-ai/internal/llm"
)

// transactionSystemInstruction fixes the parsing persona and output
// contract for the transaction endpoint.
const transactionSystemInstruction = `You are a precision data analyst specializing in financial transaction processing for Uganda's economic context.

CORE MISSION: Transform ambiguous human language into concrete, structured financial data with mathematical precision.

GUIDELINES:

1. AMOUNT EXTRACTION (priority #1):
   - Extract all numerical values, including abbreviated forms.
   - Convert: k/K = 1,000 | M = 1,000,000 | B = 1,000,000,000.
   - Examples: "50k" = 50000, "2.5M" = 2500000, "800" = 800.
   - If multiple amounts appear, choose the PRIMARY transaction amount.
   - Never return 0 or negative amounts.

2. TYPE CLASSIFICATION (priority #2):
   - INCOME: salary, business revenue, gifts received, profits, sales.
   - EXPENSE: purchases, bills, food, transport, services, shopping.
   - TRANSFER: money moved between own accounts or sent to family.
   - LOAN: money borrowed, credit, advance payments, loans taken.
   - INVESTMENT: shares, unit trusts, land or business investments.
   - SAVING: deposits into savings, SACCO contributions.
   - TITHING: church offerings, religious donations, spiritual giving.

3. CATEGORY INFERENCE (Uganda context):
   - Use local terminology: "boda" (motorcycle transport), "posho" (food staple).
   - Common categories: Transport, Food, Utilities, Salary, Business, Church.
   - Be specific but concise: "Grocery Shopping" rather than just "Food".

4. DESCRIPTION CLEANING:
   - Produce professional, clean descriptions.
   - Remove redundant words, slang, and unclear terms; keep essential context.

5. DEFAULTS:
   - Default currency is UGX (Uganda Shilling).
   - Date format is YYYY-MM-DD; use today when the text gives none.

RESPONSE FORMAT: Return ONLY the structured JSON object matching the schema. No additional text or explanations.`

// guardianSystemInstruction fixes the contract-vetting persona.
const guardianSystemInstruction = `You are an institutional-grade financial contract analyst specializing in Ugandan contract law, commercial law, and financial regulations.

MISSION: Vet contracts for hidden liabilities, legal exposure, and financial risk, with zero tolerance for vague conclusions.

REQUIREMENTS:
- Quantify financial exposure wherever the contract allows it.
- Flag liability caps, indemnities, termination traps, and payment-term risks explicitly.
- Provide executive-ready mitigation steps, specific and actionable.
- Assess compliance with Ugandan legal requirements where relevant.

RESPONSE FORMAT: Return ONLY a valid JSON object matching the requested schema. No markdown, no commentary.`

// transactionSchema is the machine-checkable response-schema hint for
// transaction parsing.
func transactionSchema() *llm.Schema {
	return &llm.Schema{
		Type:        llm.TypeObject,
		Description: "A single financial transaction parsed from natural language.",
		Properties: map[string]*llm.Schema{
			"amount_ugx": {
				Type:        llm.TypeNumber,
				Description: "The exact numerical value of the transaction in UGX. Must be a positive number.",
			},
			"amount_usd": {
				Type:        llm.TypeNumber,
				Description: "Approximate USD equivalent of the amount.",
			},
			"type": {
				Type:        llm.TypeString,
				Enum:        TransactionTypes,
				Description: "The financial classification based on the nature of the transaction.",
			},
			"category": {
				Type:        llm.TypeString,
				Description: "The inferred sub-category (e.g. 'Groceries', 'Salary', 'Rent').",
			},
			"description": {
				Type:        llm.TypeString,
				Description: "A concise, clean description of the transaction as it should appear in the log.",
			},
			"currency": {
				Type:        llm.TypeString,
				Description: "ISO currency code, default UGX.",
			},
			"date": {
				Type:        llm.TypeString,
				Description: "Transaction date in YYYY-MM-DD format.",
			},
		},
		Required: []string{"amount_ugx", "type", "category", "description"},
	}
}

// vettingSchema is the response-schema hint for contract vetting.
func vettingSchema() *llm.Schema {
	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"financial_safety_score": {
				Type:        llm.TypeNumber,
				Description: "Overall financial safety score: 0 (high risk) to 100 (safe).",
			},
			"legal_risk_level": {
				Type: llm.TypeString,
				Enum: []string{"low", "medium", "high", "critical"},
			},
			"financial_risk_level": {
				Type: llm.TypeString,
				Enum: []string{"low", "medium", "high", "critical"},
			},
			"key_risks": {
				Type:        llm.TypeArray,
				Items:       &llm.Schema{Type: llm.TypeString},
				Description: "Most severe liability exposures and legal risks identified.",
			},
			"mitigation_steps": {
				Type:        llm.TypeArray,
				Items:       &llm.Schema{Type: llm.TypeString},
				Description: "Specific actionable steps to reduce risk.",
			},
			"recommendations": {
				Type:  llm.TypeArray,
				Items: &llm.Schema{Type: llm.TypeString},
			},
			"key_financial_terms": {
				Type:        llm.TypeObject,
				Description: "Contract value, payment terms, liability caps and termination clauses.",
				Properties: map[string]*llm.Schema{
					"total_value_ugx": {Type: llm.TypeNumber},
					"payment_terms":   {Type: llm.TypeString},
					"liability_cap":   {Type: llm.TypeString},
				},
			},
			"risk_category": {
				Type: llm.TypeString,
				Enum: []string{"LOW_RISK", "MEDIUM_RISK", "HIGH_RISK", "CRITICAL_RISK"},
			},
			"executive_summary": {
				Type:        llm.TypeString,
				Description: "Concise executive summary, at most 300 characters.",
			},
		},
		Required: []string{
			"financial_safety_score", "legal_risk_level", "financial_risk_level",
			"key_risks", "mitigation_steps", "risk_category", "executive_summary",
		},
	}
}

func buildTransactionPrompt(text string) string {
	return fmt.Sprintf("Parse this financial transaction: '%s'", text)
}

// contractExcerptLen bounds how much contract text goes to the model.
const contractExcerptLen = 5000

func buildVetPrompt(question, contractText string) string {
	prompt := "CONTRACT VETTING REQUEST:\n\nUSER QUESTION: " + question + "\n"
	if contractText != "" {
		prompt += "\nCONTRACT/DOCUMENT EXCERPT:\n" + truncateField(contractText, contractExcerptLen) + "\n"
	}
	prompt += `
Analyze this contract and return ONLY a JSON object with:
{
  "financial_safety_score": number (0-100),
  "legal_risk_level": "low|medium|high|critical",
  "financial_risk_level": "low|medium|high|critical",
  "key_risks": ["string"],
  "mitigation_steps": ["string"],
  "recommendations": ["string"],
  "key_financial_terms": {"total_value_ugx": number, "payment_terms": "string", "liability_cap": "string"},
  "risk_category": "LOW_RISK|MEDIUM_RISK|HIGH_RISK|CRITICAL_RISK",
  "executive_summary": "string (max 300 chars)"
}`
	return prompt
}

func buildSummaryPrompt(contractText string) string {
	return `Provide a concise executive summary of this contract in JSON format:
{
  "title": "string",
  "parties": ["string"],
  "key_terms": ["string"],
  "duration": "string",
  "financial_terms": "string",
  "termination_clause": "string",
  "main_obligations": ["string"],
  "critical_dates": ["string"]
}

Contract:
` + truncateField(contractText, contractExcerptLen)
}
