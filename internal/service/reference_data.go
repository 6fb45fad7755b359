package service

// Static sector reference data used when live sector aggregates are not
// available.

var sectorPeAvg = map[string]float64{
	"Technology":             30,
	"Financial Services":     15,
	"Healthcare":             25,
	"Consumer Cyclical":      22,
	"Communication Services": 28,
	"Industrials":            20,
	"Energy":                 12,
	"Utilities":              18,
	"Materials":              21,
	"Real Estate":            17,
}

var sectorEtfMap = map[string]string{
	"Technology":             "XLK",
	"Financial Services":     "XLF",
	"Healthcare":             "XLV",
	"Consumer Cyclical":      "XLY",
	"Communication Services": "XLC",
	"Industrials":            "XLI",
	"Energy":                 "XLE",
	"Utilities":              "XLU",
	"Materials":              "XLB",
	"Real Estate":            "XLRE",
}

// sectorTickersMap names the large-cap peers whose live P/Es form the
// sector valuation baseline. The static averages above are the fallback
// when none of the peer quotes resolve.
var sectorTickersMap = map[string][]string{
	"Technology":             {"AAPL", "MSFT", "GOOGL", "NVDA", "AMD", "INTC", "CSCO", "ORCL", "ADBE", "CRM"},
	"Healthcare":             {"JNJ", "PFE", "MRK", "ABBV", "TMO", "AMGN", "GILD", "BMY", "LLY", "REGN"},
	"Financial Services":     {"JPM", "BAC", "C", "WFC", "GS", "MS", "PNC", "BK", "USB", "AXP"},
	"Consumer Cyclical":      {"AMZN", "TSLA", "HD", "MCD", "NKE", "SBUX", "LOW", "TJX", "BKNG", "GM"},
	"Communication Services": {"GOOGL", "META", "NFLX", "DIS", "CMCSA", "T", "VZ", "CHTR", "TMUS", "EA"},
	"Industrials":            {"UNP", "UPS", "BA", "CAT", "DE", "LMT", "HON", "MMM", "GE", "CSX"},
	"Energy":                 {"XOM", "CVX", "COP", "SLB", "EOG", "PSX", "VLO", "MPC", "OXY", "KMI"},
	"Utilities":              {"NEE", "DUK", "SO", "D", "EXC", "AEP", "PEG", "SRE", "EIX", "ED"},
	"Materials":              {"LIN", "SHW", "NEM", "APD", "ECL", "FCX", "DD", "DDOG", "IFF", "VMC"},
	"Real Estate":            {"PLD", "AMT", "CCI", "EQIX", "PSA", "SPG", "DLR", "AVB", "O", "VTR"},
}

const (
	defaultSectorPe  = 25.0
	defaultSectorEtf = "SPY"
)

func sectorEtf(sector string) string {
	if etf, ok := sectorEtfMap[sector]; ok {
		return etf
	}
	return defaultSectorEtf
}

func sectorPe(sector string) float64 {
	if pe, ok := sectorPeAvg[sector]; ok {
		return pe
	}
	return defaultSectorPe
}

func sectorTickers(sector string) []string {
	return sectorTickersMap[sector]
}
