package marketdata

import "strings"

// SymbolInfo maps an internal symbol to its display name and the
// exchange-suffixed symbol used by the Yahoo chart endpoint.
type SymbolInfo struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	YahooSymbol string `json:"-"`
}

// symbolTable lists the instruments shown on the website. Indices use
// Yahoo's caret notation; NSE equities carry the .NS suffix.
var symbolTable = map[string]SymbolInfo{
	"NIFTY":      {Symbol: "NIFTY", Name: "Nifty 50", YahooSymbol: "^NSEI"},
	"SENSEX":     {Symbol: "SENSEX", Name: "BSE Sensex", YahooSymbol: "^BSESN"},
	"BANKNIFTY":  {Symbol: "BANKNIFTY", Name: "Nifty Bank", YahooSymbol: "^NSEBANK"},
	"RELIANCE":   {Symbol: "RELIANCE", Name: "Reliance Industries", YahooSymbol: "RELIANCE.NS"},
	"TCS":        {Symbol: "TCS", Name: "Tata Consultancy Services", YahooSymbol: "TCS.NS"},
	"HDFCBANK":   {Symbol: "HDFCBANK", Name: "HDFC Bank", YahooSymbol: "HDFCBANK.NS"},
	"ICICIBANK":  {Symbol: "ICICIBANK", Name: "ICICI Bank", YahooSymbol: "ICICIBANK.NS"},
	"INFY":       {Symbol: "INFY", Name: "Infosys", YahooSymbol: "INFY.NS"},
	"SBIN":       {Symbol: "SBIN", Name: "State Bank of India", YahooSymbol: "SBIN.NS"},
	"BHARTIARTL": {Symbol: "BHARTIARTL", Name: "Bharti Airtel", YahooSymbol: "BHARTIARTL.NS"},
	"ITC":        {Symbol: "ITC", Name: "ITC", YahooSymbol: "ITC.NS"},
	"LT":         {Symbol: "LT", Name: "Larsen & Toubro", YahooSymbol: "LT.NS"},
	"HINDUNILVR": {Symbol: "HINDUNILVR", Name: "Hindustan Unilever", YahooSymbol: "HINDUNILVR.NS"},
	"BAJFINANCE": {Symbol: "BAJFINANCE", Name: "Bajaj Finance", YahooSymbol: "BAJFINANCE.NS"},
	"MARUTI":     {Symbol: "MARUTI", Name: "Maruti Suzuki", YahooSymbol: "MARUTI.NS"},
	"TATAMOTORS": {Symbol: "TATAMOTORS", Name: "Tata Motors", YahooSymbol: "TATAMOTORS.NS"},
	"TATASTEEL":  {Symbol: "TATASTEEL", Name: "Tata Steel", YahooSymbol: "TATASTEEL.NS"},
	"WIPRO":      {Symbol: "WIPRO", Name: "Wipro", YahooSymbol: "WIPRO.NS"},
	"AXISBANK":   {Symbol: "AXISBANK", Name: "Axis Bank", YahooSymbol: "AXISBANK.NS"},
	"KOTAKBANK":  {Symbol: "KOTAKBANK", Name: "Kotak Mahindra Bank", YahooSymbol: "KOTAKBANK.NS"},
	"ASIANPAINT": {Symbol: "ASIANPAINT", Name: "Asian Paints", YahooSymbol: "ASIANPAINT.NS"},
	"ADANIENT":   {Symbol: "ADANIENT", Name: "Adani Enterprises", YahooSymbol: "ADANIENT.NS"},
}

// liveBasket is the fixed set of symbols served by /api/market/live.
var liveBasket = []string{
	"NIFTY", "SENSEX", "BANKNIFTY",
	"RELIANCE", "TCS", "HDFCBANK", "ICICIBANK", "INFY",
	"SBIN", "BHARTIARTL", "ITC", "LT",
}

// ResolveYahooSymbol maps an internal symbol to its Yahoo symbol.
// Unknown symbols get the default NSE suffix appended.
func ResolveYahooSymbol(symbol string) string {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	if info, ok := symbolTable[key]; ok {
		return info.YahooSymbol
	}
	return key + ".NS"
}

// DisplayName returns the display name for a known symbol, or the
// symbol itself.
func DisplayName(symbol string) string {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	if info, ok := symbolTable[key]; ok {
		return info.Name
	}
	return key
}

// SearchSymbolTable does a case-insensitive substring match over the
// static symbol table. Used as the search fallback when Alpha Vantage
// is unavailable.
func SearchSymbolTable(query string) []SymbolInfo {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	matches := make([]SymbolInfo, 0)
	for _, info := range symbolTable {
		if strings.Contains(info.Symbol, q) || strings.Contains(strings.ToUpper(info.Name), q) {
			matches = append(matches, info)
		}
	}
	return matches
}
