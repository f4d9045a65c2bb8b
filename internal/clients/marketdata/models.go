package marketdata

// quotesResponse is the wire format of the upstream batched quote endpoint.
type quotesResponse struct {
	Quotes []quotePayload `json:"quotes"`
}

// quotePayload is one quote as the upstream returns it. Missing fundamental
// fields decode to zero and are treated as absent downstream.
type quotePayload struct {
	Symbol           string  `json:"symbol"`
	RegularPrice     float64 `json:"regularMarketPrice"`
	PreviousClose    float64 `json:"regularMarketPreviousClose"`
	Volume           int64   `json:"regularMarketVolume"`
	MarketCap        float64 `json:"marketCap"`
	TrailingPE       float64 `json:"trailingPE"`
	DividendYield    float64 `json:"dividendYield"`
	FiftyTwoWeekHigh float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  float64 `json:"fiftyTwoWeekLow"`
}

// returnsResponse is the wire format of the upstream return series endpoint.
type returnsResponse struct {
	Symbol  string    `json:"symbol"`
	Returns []float64 `json:"returns"`
}
