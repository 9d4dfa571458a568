package ipo

// sampleIPOs is the bundled static dataset served when every live
// source and the last-known cache are exhausted.
var sampleIPOs = []IPO{
	{
		ID:          "swadesh-agro",
		Name:        "Swadesh Agro Industries",
		Symbol:      "SWADESH",
		Exchange:    "NSE",
		Status:      StatusOngoing,
		PriceBand:   PriceBand{Min: 108, Max: 114},
		LotSize:     130,
		OpenDate:    "2025-08-25",
		CloseDate:   "2025-08-28",
		ListingDate: "2025-09-02",
		GMP:         18,
		Subscription: Subscription{
			QIB:    2.4,
			HNI:    5.1,
			Retail: 3.8,
		},
	},
	{
		ID:          "urja-green-energy",
		Name:        "Urja Green Energy",
		Symbol:      "URJAGREEN",
		Exchange:    "BSE",
		Status:      StatusUpcoming,
		PriceBand:   PriceBand{Min: 72, Max: 76},
		LotSize:     190,
		OpenDate:    "2025-09-08",
		CloseDate:   "2025-09-11",
		ListingDate: "2025-09-16",
	},
	{
		ID:          "bharat-logistics",
		Name:        "Bharat Logistics Park",
		Symbol:      "BHARATLOG",
		Exchange:    "NSE",
		Status:      StatusListed,
		PriceBand:   PriceBand{Min: 220, Max: 232},
		LotSize:     64,
		OpenDate:    "2025-07-14",
		CloseDate:   "2025-07-17",
		ListingDate: "2025-07-22",
		GMP:         41,
		Subscription: Subscription{
			QIB:    11.6,
			HNI:    22.3,
			Retail: 7.9,
		},
	},
}

// SampleIPOs returns a sorted copy of the static dataset.
func SampleIPOs() []IPO {
	out := make([]IPO, len(sampleIPOs))
	copy(out, sampleIPOs)
	SortIPOs(out)
	return out
}
