package dto

type MostSoldItem struct {
	Name      string `json:"name"`
	TotalSold int    `json:"totalSold"`
}

type AnalyticsSummary struct {
	TotalOrders       int          `json:"totalOrders"`
	TotalRevenue      float64      `json:"totalRevenue"`
	AverageOrderValue float64      `json:"averageOrderValue"`
	MostSoldItem      MostSoldItem `json:"mostSoldItem"`
	PeakHour          string       `json:"peakHour"`
	TotalItemsSold    int          `json:"totalItemsSold"`
}
