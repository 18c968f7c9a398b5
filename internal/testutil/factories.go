package testutil

import (
	"dsm-settlement/internal/model"
)

// CreateTestSchedule creates a full 96-block schedule with the same MW in every block
func CreateTestSchedule(siteID string, date model.Date, mw float64) model.ScheduleSeries {
	blocks := make([]model.ScheduleBlock, model.BlocksPerDay)
	for i := range blocks {
		blocks[i] = model.ScheduleBlock{BlockNo: i + 1, ScheduledMW: mw}
	}
	return model.ScheduleSeries{SiteID: siteID, Date: date, Blocks: blocks}
}

// CreateTestGeneration creates a full 96-block generation series with the same MW in every block
func CreateTestGeneration(siteID string, date model.Date, mw float64) model.GenerationSeries {
	blocks := make([]model.GenerationBlock, model.BlocksPerDay)
	for i := range blocks {
		blocks[i] = model.GenerationBlock{BlockNo: i + 1, ActualMW: mw}
	}
	return model.GenerationSeries{SiteID: siteID, Date: date, Blocks: blocks}
}

// CreateTestGenerationWith creates a generation series and overrides selected blocks
func CreateTestGenerationWith(siteID string, date model.Date, mw float64, overrides map[int]float64) model.GenerationSeries {
	g := CreateTestGeneration(siteID, date, mw)
	for i := range g.Blocks {
		if v, ok := overrides[g.Blocks[i].BlockNo]; ok {
			g.Blocks[i].ActualMW = v
		}
	}
	return g
}

// CreateTestDAMPrices creates a market curve with only DAM prices set
func CreateTestDAMPrices(date model.Date, price float64) model.MarketPriceSeries {
	blocks := make([]model.MarketPriceBlock, model.BlocksPerDay)
	for i := range blocks {
		blocks[i] = model.MarketPriceBlock{BlockNo: i + 1, DAMPrice: model.Price(price)}
	}
	return model.MarketPriceSeries{Date: date, Blocks: blocks}
}

// CreateTestSite creates a site with the given capacity
func CreateTestSite(id string, capacityMW float64) model.Site {
	return model.Site{ID: id, Name: "Test " + id, CapacityMW: capacityMW, Region: "South", State: "KA"}
}
