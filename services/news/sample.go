package news

import "time"

// sampleArticles is the bundled static dataset served when every live
// news source fails.
var sampleArticles = []Article{
	{
		Title:      "Sensex ends above 81,000 as banking stocks lead the rally",
		Summary:    "Benchmark indices closed higher for the third straight session, with HDFC Bank and ICICI Bank among the top gainers.",
		URL:        "https://www.moneycontrol.com/news/business/markets/",
		SourceName: "Nivesh Pathshala Desk",
		Category:   CategoryMarkets,
	},
	{
		Title:      "Swadesh Agro IPO subscribed 3.8 times on day two, GMP steady",
		Summary:    "Retail portion saw strong demand while QIB bids picked up in the afternoon session.",
		URL:        "https://www.moneycontrol.com/news/business/ipo/",
		SourceName: "Nivesh Pathshala Desk",
		Category:   CategoryIPO,
	},
	{
		Title:      "RBI holds repo rate, keeps stance unchanged ahead of inflation print",
		Summary:    "The monetary policy committee voted to keep the repo rate steady, citing sticky food inflation.",
		URL:        "https://www.moneycontrol.com/news/business/economy/",
		SourceName: "Nivesh Pathshala Desk",
		Category:   CategoryEconomy,
	},
	{
		Title:      "Gold slips from record high as dollar firms ahead of Fed minutes",
		Summary:    "MCX gold futures eased after a five-session winning streak.",
		URL:        "https://www.moneycontrol.com/news/business/commodities/",
		SourceName: "Nivesh Pathshala Desk",
		Category:   CategoryCommodities,
	},
	{
		Title:      "Quarterly results preview: IT majors expected to post muted earnings",
		Summary:    "Analysts expect single-digit revenue growth with margin pressure from wage hikes.",
		URL:        "https://www.moneycontrol.com/news/business/earnings/",
		SourceName: "Nivesh Pathshala Desk",
		Category:   CategoryCorporate,
	},
	{
		Title:      "Wall Street closes mixed as investors weigh rate-cut odds",
		Summary:    "The Dow edged lower while the Nasdaq gained on strength in chip makers.",
		URL:        "https://www.moneycontrol.com/news/world/",
		SourceName: "Nivesh Pathshala Desk",
		Category:   CategoryGlobal,
	},
}

// SampleArticles returns a copy of the static dataset stamped with the
// current time.
func SampleArticles() []Article {
	out := make([]Article, len(sampleArticles))
	copy(out, sampleArticles)
	ts := time.Now().Format(time.RFC3339)
	for i := range out {
		out[i].PublishedAt = ts
	}
	return out
}

// sampleCalendar is the bundled static economic calendar.
var sampleCalendar = []CalendarEvent{
	{Event: "CPI Inflation YoY", Country: "IN", Time: "2025-09-12 17:30", Impact: "high", Estimate: 4.1, Previous: 4.3, Unit: "%"},
	{Event: "RBI Interest Rate Decision", Country: "IN", Time: "2025-10-01 10:00", Impact: "high", Estimate: 6.5, Previous: 6.5, Unit: "%"},
	{Event: "Manufacturing PMI", Country: "IN", Time: "2025-09-01 10:30", Impact: "medium", Estimate: 57.8, Previous: 58.1, Unit: ""},
	{Event: "Fed Interest Rate Decision", Country: "US", Time: "2025-09-17 23:30", Impact: "high", Estimate: 4.25, Previous: 4.5, Unit: "%"},
	{Event: "Trade Balance", Country: "IN", Time: "2025-09-15 16:00", Impact: "low", Estimate: -22.5, Previous: -23.1, Unit: "B USD"},
}

// SampleCalendar returns a copy of the static calendar.
func SampleCalendar() []CalendarEvent {
	out := make([]CalendarEvent, len(sampleCalendar))
	copy(out, sampleCalendar)
	return out
}
