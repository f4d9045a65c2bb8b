// Package domain contains the shared types and contracts of the analytics
// engine. It is infrastructure-free: no database, HTTP or logging imports.
package domain

// AssetClass is the coarse instrument classification used for the
// asset-allocation breakdown in portfolio summaries.
type AssetClass string

const (
	AssetClassEquity AssetClass = "Equity"
	AssetClassETF    AssetClass = "ETF"
)

// Instrument is immutable reference data for a tradable security.
// The ticker is the canonical uppercase symbol and the unique key.
type Instrument struct {
	Ticker      string     `json:"ticker"`
	CompanyName string     `json:"companyName"`
	Exchange    string     `json:"exchange"`
	Sector      string     `json:"sector"`
	AssetClass  AssetClass `json:"assetClass"`
}

// HoldingInput is a user-supplied position: a ticker plus a share count.
// Zero shares is a valid pending position; negative shares is rejected
// during validation. AvgCost is the optional per-share cost basis.
type HoldingInput struct {
	Ticker  string   `json:"ticker"`
	Shares  int64    `json:"shares"`
	AvgCost *float64 `json:"avgCost,omitempty"`
}

// Quote is a point-in-time snapshot of market data for one instrument,
// as returned by the market data gateway.
type Quote struct {
	Ticker           string  `msgpack:"ticker" json:"ticker"`
	Price            float64 `msgpack:"price" json:"price"`
	PriorClose       float64 `msgpack:"prior_close" json:"priorClose"`
	Volume           int64   `msgpack:"volume" json:"volume"`
	MarketCap        float64 `msgpack:"market_cap" json:"marketCap"`
	PERatio          float64 `msgpack:"pe_ratio" json:"peRatio"`
	DividendYield    float64 `msgpack:"dividend_yield" json:"dividendYield"`
	FiftyTwoWeekHigh float64 `msgpack:"fifty_two_week_high" json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  float64 `msgpack:"fifty_two_week_low" json:"fiftyTwoWeekLow"`
}

// Granularity selects the period length of a return series.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityMonthly Granularity = "monthly"
)

// PeriodsPerYear returns the annualization factor for the granularity
// (252 trading days, 12 months).
func (g Granularity) PeriodsPerYear() float64 {
	if g == GranularityDaily {
		return 252
	}
	return 12
}
