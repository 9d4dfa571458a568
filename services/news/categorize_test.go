package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Swadesh Agro IPO subscribed 3.8 times on day two", CategoryIPO},
		{"GMP signals strong listing for Urja Green", CategoryIPO},
		{"RBI holds repo rate steady at 6.5%", CategoryEconomy},
		{"CPI inflation eases to 4.1% in July", CategoryEconomy},
		{"Gold hits record high as crude slips", CategoryCommodities},
		{"MCX silver futures rally on safe-haven demand", CategoryCommodities},
		{"Fed minutes lift Wall Street ahead of jobs data", CategoryGlobal},
		{"Nasdaq rebounds as chip stocks recover", CategoryGlobal},
		{"TCS Q1 results beat estimates, dividend declared", CategoryCorporate},
		{"Infosys announces merger of subsidiaries", CategoryCorporate},
		{"Sensex climbs 300 points in early trade", CategoryMarkets},
		{"", CategoryMarkets},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.title))
		})
	}
}

func TestCategorizeFirstTopicWins(t *testing.T) {
	// A title hitting both the IPO and corporate keyword lists lands on
	// IPO because it is checked first.
	assert.Equal(t, CategoryIPO, Categorize("IPO allotment and quarterly results due this week"))
}

func TestCategoriesOrder(t *testing.T) {
	assert.Equal(t, []string{
		CategoryMarkets,
		CategoryIPO,
		CategoryEconomy,
		CategoryCorporate,
		CategoryCommodities,
		CategoryGlobal,
	}, Categories())
}
