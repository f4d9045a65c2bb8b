package analysis

import (
	"time"

	"github.com/aristath/folio/internal/modules/recommendations"
	"github.com/aristath/folio/internal/modules/risk"
	"github.com/aristath/folio/internal/modules/sectors"
	"github.com/aristath/folio/internal/modules/valuation"
)

// AssetBreakdown is one slice of the asset-allocation chart in the summary.
type AssetBreakdown struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Allocation float64 `json:"allocation"` // % of portfolio value
	Color      string  `json:"color"`
}

// Summary is the headline section of a portfolio report. Return figures are
// null when no holding carries a cost basis.
type Summary struct {
	TotalValue              float64          `json:"totalValue"`
	DailyChange             float64          `json:"dailyChange"`
	DailyChangePercentage   float64          `json:"dailyChangePercentage"`
	OverallReturn           *float64         `json:"overallReturn"`
	OverallReturnPercentage *float64         `json:"overallReturnPercentage"`
	RiskScore               float64          `json:"riskScore"`
	DiversificationScore    float64          `json:"diversificationScore"`
	Assets                  []AssetBreakdown `json:"assets"`
}

// PortfolioAnalysis is the full report returned by one analysis request.
type PortfolioAnalysis struct {
	ReportID        string                           `json:"reportId"`
	GeneratedAt     time.Time                        `json:"generatedAt"`
	Summary         Summary                          `json:"summary"`
	Holdings        []valuation.Position             `json:"holdings"`
	RiskAnalysis    risk.Analysis                    `json:"riskAnalysis"`
	SectorExposure  []sectors.Entry                  `json:"sectorExposure"`
	Recommendations []recommendations.Recommendation `json:"recommendations"`
	Warnings        []valuation.Warning              `json:"warnings,omitempty"`
}
