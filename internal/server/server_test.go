package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/analysis"
	"github.com/aristath/folio/internal/modules/recommendations"
	"github.com/aristath/folio/internal/modules/resolver"
	"github.com/aristath/folio/internal/modules/risk"
	"github.com/aristath/folio/internal/modules/sectors"
	"github.com/aristath/folio/internal/modules/universe"
	"github.com/aristath/folio/internal/modules/valuation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMarket serves a fixed quote table and return series.
type stubMarket struct {
	quotes  map[string]domain.Quote
	returns []float64
}

func (s *stubMarket) GetQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	if quote, ok := s.quotes[ticker]; ok {
		return &quote, nil
	}
	return nil, &domain.NotFoundError{Ticker: ticker}
}

func (s *stubMarket) GetQuotes(ctx context.Context, tickers []string) (map[string]domain.Quote, error) {
	result := map[string]domain.Quote{}
	for _, ticker := range tickers {
		if quote, ok := s.quotes[ticker]; ok {
			result[ticker] = quote
		}
	}
	return result, nil
}

func (s *stubMarket) GetReturnSeries(ctx context.Context, ticker string, granularity domain.Granularity, lookback int) ([]float64, error) {
	if len(s.returns) == 0 {
		return nil, &domain.NotFoundError{Ticker: ticker}
	}
	return s.returns, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	log := zerolog.Nop()
	directory := universe.NewStaticDirectory([]domain.Instrument{
		{Ticker: "AAPL", CompanyName: "Apple Inc.", Exchange: "NASDAQ", Sector: "Information Technology", AssetClass: domain.AssetClassEquity},
		{Ticker: "MSFT", CompanyName: "Microsoft Corporation", Exchange: "NASDAQ", Sector: "Information Technology", AssetClass: domain.AssetClassEquity},
		{Ticker: "SPY", CompanyName: "SPDR S&P 500 ETF Trust", Exchange: "NYSEARCA", AssetClass: domain.AssetClassETF},
	}, log)

	policies, err := config.NewPolicyStore("", log)
	require.NoError(t, err)

	market := &stubMarket{
		quotes: map[string]domain.Quote{
			"AAPL": {Ticker: "AAPL", Price: 175.25, PriorClose: 173.00},
			"MSFT": {Ticker: "MSFT", Price: 312.75, PriorClose: 310.00},
		},
		returns: []float64{0.02, -0.01, 0.03, 0.01},
	}

	analysisService := analysis.NewService(
		valuation.NewService(market, log),
		risk.NewEngine(0, domain.GranularityMonthly, log),
		sectors.NewAnalyzer(log),
		recommendations.NewSynthesizer(log),
		market,
		directory,
		policies,
		log,
	)

	return New(Config{
		Log:       log,
		Port:      0,
		Directory: directory,
		Policies:  policies,
		Analysis:  analysisService,
		Resolver:  resolver.New(directory, log),
	})
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"ok"`)
}

func TestBenchmarkEndpoint(t *testing.T) {
	server := newTestServer(t)

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/benchmark", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	// Largest default weight comes first
	body := recorder.Body.String()
	assert.Contains(t, body, "Information Technology")
	assert.Less(t, strings.Index(body, "Information Technology"), strings.Index(body, "Financials"))
}

func TestResolveEndpoint(t *testing.T) {
	server := newTestServer(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/tickers/resolve", strings.NewReader(`{"input":" aapl "}`))
	server.Router().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"valid":true`)
	assert.Contains(t, recorder.Body.String(), "Apple Inc.")
}

func TestInstrumentsEndpoint(t *testing.T) {
	server := newTestServer(t)

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/instruments", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"count":3`)
}

func TestAnalysisEndpoint(t *testing.T) {
	server := newTestServer(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/analysis",
		strings.NewReader(`{"holdings":[{"ticker":"AAPL","shares":150},{"ticker":"MSFT","shares":100}]}`))
	server.Router().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	assert.Contains(t, body, `"totalValue":57562.5`)
	assert.Contains(t, body, `"reportId"`)
	assert.Contains(t, body, `"sectorExposure"`)
}

func TestAnalysisEndpointEmptyPortfolio(t *testing.T) {
	server := newTestServer(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/analysis", strings.NewReader(`{"holdings":[]}`))
	server.Router().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "no holdings")
}

func TestAnalysisEndpointBadBody(t *testing.T) {
	server := newTestServer(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/analysis", strings.NewReader(`{not json`))
	server.Router().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
