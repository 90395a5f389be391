package dto

type PublicOverviewOutput struct {
	TotalMunicipals   int
	TotalPopulation   int64
	AverageWQI        float64
	AverageEfficiency float64
	Message           string
}

type OverviewOutput struct {
	TotalMunicipals   int
	TotalPopulation   int64
	AverageWQI        float64
	AverageEfficiency float64
	TotalAnomalies    int
	TotalCriticalHubs int
	LastUpdated       string
	RequestedBy       string
}

type YearTrendOutput struct {
	Year          int
	AvgWQI        float64
	AvgEfficiency float64
}

type StateTrendsOutput struct {
	Years       []YearTrendOutput
	RequestedBy string
}

type ConnectedHubOutput struct {
	ID   string
	Name string
}

type DashboardOutput struct {
	MunicipalInfo map[string]any
	ConnectedHubs []ConnectedHubOutput
	Message       string
}
