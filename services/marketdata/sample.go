package marketdata

import (
	"strings"
	"time"
)

// sampleQuotes is the hand-authored snapshot served when every live
// source fails. The website must never render an empty market widget,
// so the values are kept plausible rather than zeroed.
var sampleQuotes = []Quote{
	{Symbol: "NIFTY", Name: "Nifty 50", Price: 24850.30, Change: 112.45, ChangePercent: 0.45, Open: 24750.00, High: 24890.10, Low: 24721.55, PrevClose: 24737.85},
	{Symbol: "SENSEX", Name: "BSE Sensex", Price: 81420.65, Change: 318.20, ChangePercent: 0.39, Open: 81150.00, High: 81510.40, Low: 81044.25, PrevClose: 81102.45},
	{Symbol: "BANKNIFTY", Name: "Nifty Bank", Price: 51230.80, Change: -145.60, ChangePercent: -0.28, Open: 51400.00, High: 51480.25, Low: 51150.90, PrevClose: 51376.40},
	{Symbol: "RELIANCE", Name: "Reliance Industries", Price: 2945.50, Change: 24.35, ChangePercent: 0.83, Open: 2925.00, High: 2954.90, Low: 2918.20, PrevClose: 2921.15},
	{Symbol: "TCS", Name: "Tata Consultancy Services", Price: 4112.75, Change: -18.40, ChangePercent: -0.45, Open: 4135.00, High: 4141.60, Low: 4098.30, PrevClose: 4131.15},
	{Symbol: "HDFCBANK", Name: "HDFC Bank", Price: 1689.20, Change: 12.85, ChangePercent: 0.77, Open: 1678.00, High: 1694.45, Low: 1672.10, PrevClose: 1676.35},
	{Symbol: "ICICIBANK", Name: "ICICI Bank", Price: 1245.60, Change: 8.90, ChangePercent: 0.72, Open: 1238.00, High: 1249.75, Low: 1233.40, PrevClose: 1236.70},
	{Symbol: "INFY", Name: "Infosys", Price: 1852.40, Change: -9.65, ChangePercent: -0.52, Open: 1864.00, High: 1869.20, Low: 1846.85, PrevClose: 1862.05},
	{Symbol: "SBIN", Name: "State Bank of India", Price: 842.15, Change: 6.40, ChangePercent: 0.77, Open: 837.00, High: 845.50, Low: 834.25, PrevClose: 835.75},
	{Symbol: "BHARTIARTL", Name: "Bharti Airtel", Price: 1618.90, Change: 15.20, ChangePercent: 0.95, Open: 1605.00, High: 1624.35, Low: 1601.80, PrevClose: 1603.70},
	{Symbol: "ITC", Name: "ITC", Price: 486.25, Change: -2.15, ChangePercent: -0.44, Open: 489.00, High: 490.10, Low: 484.60, PrevClose: 488.40},
	{Symbol: "LT", Name: "Larsen & Toubro", Price: 3654.80, Change: 28.95, ChangePercent: 0.80, Open: 3630.00, High: 3668.40, Low: 3621.55, PrevClose: 3625.85},
	{Symbol: "HINDUNILVR", Name: "Hindustan Unilever", Price: 2398.35, Change: 4.70, ChangePercent: 0.20, Open: 2395.00, High: 2408.90, Low: 2388.15, PrevClose: 2393.65},
	{Symbol: "BAJFINANCE", Name: "Bajaj Finance", Price: 7124.50, Change: -56.30, ChangePercent: -0.78, Open: 7190.00, High: 7210.25, Low: 7098.40, PrevClose: 7180.80},
	{Symbol: "MARUTI", Name: "Maruti Suzuki", Price: 12480.95, Change: 94.15, ChangePercent: 0.76, Open: 12400.00, High: 12515.60, Low: 12371.20, PrevClose: 12386.80},
	{Symbol: "TATAMOTORS", Name: "Tata Motors", Price: 985.40, Change: 11.25, ChangePercent: 1.15, Open: 976.00, High: 989.70, Low: 972.85, PrevClose: 974.15},
	{Symbol: "TATASTEEL", Name: "Tata Steel", Price: 152.85, Change: -1.10, ChangePercent: -0.71, Open: 154.20, High: 154.65, Low: 152.30, PrevClose: 153.95},
	{Symbol: "WIPRO", Name: "Wipro", Price: 548.60, Change: 3.85, ChangePercent: 0.71, Open: 545.00, High: 550.90, Low: 543.25, PrevClose: 544.75},
	{Symbol: "AXISBANK", Name: "Axis Bank", Price: 1164.30, Change: 9.45, ChangePercent: 0.82, Open: 1156.00, High: 1168.85, Low: 1152.70, PrevClose: 1154.85},
	{Symbol: "KOTAKBANK", Name: "Kotak Mahindra Bank", Price: 1795.75, Change: -12.60, ChangePercent: -0.70, Open: 1810.00, High: 1814.40, Low: 1790.10, PrevClose: 1808.35},
	{Symbol: "ASIANPAINT", Name: "Asian Paints", Price: 2312.20, Change: 7.30, ChangePercent: 0.32, Open: 2306.00, High: 2320.85, Low: 2299.45, PrevClose: 2304.90},
	{Symbol: "ADANIENT", Name: "Adani Enterprises", Price: 2468.55, Change: 32.80, ChangePercent: 1.35, Open: 2440.00, High: 2478.15, Low: 2432.60, PrevClose: 2435.75},
}

// SampleQuotes returns a copy of the static snapshot, all entries
// tagged as sample data.
func SampleQuotes() []Quote {
	out := make([]Quote, len(sampleQuotes))
	copy(out, sampleQuotes)
	ts := time.Now().Format(time.RFC3339)
	for i := range out {
		out[i].Source = SampleDataSource
		out[i].Timestamp = ts
	}
	return out
}

// SampleQuote returns the static snapshot entry for one symbol. For a
// symbol outside the snapshot a shape-valid quote is still returned so
// the UI never sees an empty state.
func SampleQuote(symbol string) Quote {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	for _, q := range sampleQuotes {
		if q.Symbol == key {
			q.Source = SampleDataSource
			q.Timestamp = time.Now().Format(time.RFC3339)
			return q
		}
	}
	return Quote{
		Symbol:    key,
		Name:      DisplayName(key),
		Source:    SampleDataSource,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// SampleIntraday synthesizes a flat 5-minute series around the sample
// price so the chart widget has something to draw.
func SampleIntraday(symbol string) []Candle {
	base := SampleQuote(symbol)
	price := base.Price
	if price == 0 {
		price = 100
	}

	start := time.Now().Truncate(time.Hour).Add(-3 * time.Hour)
	candles := make([]Candle, 0, 36)
	for i := 0; i < 36; i++ {
		ts := start.Add(time.Duration(i) * 5 * time.Minute)
		// Small deterministic wobble so the line is not perfectly flat.
		wobble := price * float64((i%7)-3) / 2000
		candles = append(candles, Candle{
			Time:   ts.Format("2006-01-02 15:04:05"),
			Open:   price + wobble,
			High:   price + wobble + price/1000,
			Low:    price + wobble - price/1000,
			Close:  price + wobble/2,
			Volume: 10000 + int64(i)*250,
		})
	}
	return candles
}
