// Package bundle loads and parses pre-computed stock data bundles.
//
// A bundle is a JSON document produced by the offline data pipeline for a
// single ticker. It packs everything the advisor needs about one stock:
// narrative sections (business profile, earnings call summary, MD&A) and
// structured financials used for deterministic scoring.
package bundle

import "fmt"

// Bundle is one stock's analysis document.
type Bundle struct {
	Ticker              string              `json:"ticker"`
	CompanyName         string              `json:"company_name"`
	BusinessProfile     string              `json:"business_profile"`
	EarningsCallSummary string              `json:"earnings_call_summary"`
	SECMDA              string              `json:"sec_mda"`
	Financials          FinancialStatements `json:"financial_statements"`
	Ratios              Ratios              `json:"ratios"`
	Technicals          Technicals          `json:"technicals"`
	Prices              []PricePoint        `json:"prices"`

	// Raw is the full bundle document as fetched from storage. Prompts embed
	// this verbatim so the model sees exactly what the pipeline produced.
	Raw string `json:"-"`
}

// FinancialStatements holds the latest reported figures plus the prior-year
// comparables needed for growth calculations.
type FinancialStatements struct {
	Revenue          float64 `json:"revenue"`
	RevenuePriorYear float64 `json:"revenue_prior_year"`
	NetIncome        float64 `json:"net_income"`
	OperatingMargin  float64 `json:"operating_margin"`
	EPS              float64 `json:"eps"`
	EPSPriorYear     float64 `json:"eps_prior_year"`
}

// Ratios holds valuation and balance-sheet ratios.
type Ratios struct {
	PERatio      float64 `json:"pe_ratio"`
	PriceToSales float64 `json:"price_to_sales"`
	DebtToEquity float64 `json:"debt_to_equity"`
	CurrentRatio float64 `json:"current_ratio"`
}

// Technicals holds momentum and trend indicators computed by the pipeline.
type Technicals struct {
	RSI14       float64 `json:"rsi_14"`
	SMA50       float64 `json:"sma_50"`
	SMA200      float64 `json:"sma_200"`
	LatestClose float64 `json:"latest_close"`
}

// PricePoint is one day of closing price history.
type PricePoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// RevenueGrowthYoY returns year-over-year revenue growth as a fraction,
// or 0 when the prior-year figure is missing.
func (b *Bundle) RevenueGrowthYoY() float64 {
	if b.Financials.RevenuePriorYear == 0 {
		return 0
	}
	return (b.Financials.Revenue - b.Financials.RevenuePriorYear) / b.Financials.RevenuePriorYear
}

// Label returns a human-readable identifier for prompts and logs.
func (b *Bundle) Label() string {
	if b.CompanyName == "" {
		return b.Ticker
	}
	return fmt.Sprintf("%s (%s)", b.CompanyName, b.Ticker)
}
