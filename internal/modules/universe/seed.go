package universe

import "github.com/aristath/folio/internal/domain"

// SeedInstruments returns the bootstrap instrument list used when the
// directory database is empty on first start. Refreshes replace it wholesale.
func SeedInstruments() []domain.Instrument {
	return []domain.Instrument{
		{Ticker: "AAPL", CompanyName: "Apple Inc.", Exchange: "NASDAQ", Sector: "Information Technology", AssetClass: domain.AssetClassEquity},
		{Ticker: "MSFT", CompanyName: "Microsoft Corporation", Exchange: "NASDAQ", Sector: "Information Technology", AssetClass: domain.AssetClassEquity},
		{Ticker: "NVDA", CompanyName: "NVIDIA Corporation", Exchange: "NASDAQ", Sector: "Information Technology", AssetClass: domain.AssetClassEquity},
		{Ticker: "ORCL", CompanyName: "Oracle Corporation", Exchange: "NYSE", Sector: "Information Technology", AssetClass: domain.AssetClassEquity},
		{Ticker: "CRM", CompanyName: "Salesforce, Inc.", Exchange: "NYSE", Sector: "Information Technology", AssetClass: domain.AssetClassEquity},
		{Ticker: "GOOGL", CompanyName: "Alphabet Inc.", Exchange: "NASDAQ", Sector: "Communication Services", AssetClass: domain.AssetClassEquity},
		{Ticker: "META", CompanyName: "Meta Platforms, Inc.", Exchange: "NASDAQ", Sector: "Communication Services", AssetClass: domain.AssetClassEquity},
		{Ticker: "NFLX", CompanyName: "Netflix, Inc.", Exchange: "NASDAQ", Sector: "Communication Services", AssetClass: domain.AssetClassEquity},
		{Ticker: "AMZN", CompanyName: "Amazon.com, Inc.", Exchange: "NASDAQ", Sector: "Consumer Discretionary", AssetClass: domain.AssetClassEquity},
		{Ticker: "TSLA", CompanyName: "Tesla, Inc.", Exchange: "NASDAQ", Sector: "Consumer Discretionary", AssetClass: domain.AssetClassEquity},
		{Ticker: "HD", CompanyName: "The Home Depot, Inc.", Exchange: "NYSE", Sector: "Consumer Discretionary", AssetClass: domain.AssetClassEquity},
		{Ticker: "JPM", CompanyName: "JPMorgan Chase & Co.", Exchange: "NYSE", Sector: "Financials", AssetClass: domain.AssetClassEquity},
		{Ticker: "BAC", CompanyName: "Bank of America Corporation", Exchange: "NYSE", Sector: "Financials", AssetClass: domain.AssetClassEquity},
		{Ticker: "V", CompanyName: "Visa Inc.", Exchange: "NYSE", Sector: "Financials", AssetClass: domain.AssetClassEquity},
		{Ticker: "JNJ", CompanyName: "Johnson & Johnson", Exchange: "NYSE", Sector: "Health Care", AssetClass: domain.AssetClassEquity},
		{Ticker: "UNH", CompanyName: "UnitedHealth Group Incorporated", Exchange: "NYSE", Sector: "Health Care", AssetClass: domain.AssetClassEquity},
		{Ticker: "PFE", CompanyName: "Pfizer Inc.", Exchange: "NYSE", Sector: "Health Care", AssetClass: domain.AssetClassEquity},
		{Ticker: "CAT", CompanyName: "Caterpillar Inc.", Exchange: "NYSE", Sector: "Industrials", AssetClass: domain.AssetClassEquity},
		{Ticker: "BA", CompanyName: "The Boeing Company", Exchange: "NYSE", Sector: "Industrials", AssetClass: domain.AssetClassEquity},
		{Ticker: "PG", CompanyName: "The Procter & Gamble Company", Exchange: "NYSE", Sector: "Consumer Staples", AssetClass: domain.AssetClassEquity},
		{Ticker: "KO", CompanyName: "The Coca-Cola Company", Exchange: "NYSE", Sector: "Consumer Staples", AssetClass: domain.AssetClassEquity},
		{Ticker: "XOM", CompanyName: "Exxon Mobil Corporation", Exchange: "NYSE", Sector: "Energy", AssetClass: domain.AssetClassEquity},
		{Ticker: "CVX", CompanyName: "Chevron Corporation", Exchange: "NYSE", Sector: "Energy", AssetClass: domain.AssetClassEquity},
		{Ticker: "NEE", CompanyName: "NextEra Energy, Inc.", Exchange: "NYSE", Sector: "Utilities", AssetClass: domain.AssetClassEquity},
		{Ticker: "AMT", CompanyName: "American Tower Corporation", Exchange: "NYSE", Sector: "Real Estate", AssetClass: domain.AssetClassEquity},
		{Ticker: "LIN", CompanyName: "Linde plc", Exchange: "NASDAQ", Sector: "Materials", AssetClass: domain.AssetClassEquity},
		{Ticker: "SPY", CompanyName: "SPDR S&P 500 ETF Trust", Exchange: "NYSEARCA", Sector: "", AssetClass: domain.AssetClassETF},
		{Ticker: "QQQ", CompanyName: "Invesco QQQ Trust", Exchange: "NASDAQ", Sector: "", AssetClass: domain.AssetClassETF},
	}
}
