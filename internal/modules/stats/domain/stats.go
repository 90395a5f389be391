package domain

// PublicOverview is the unauthenticated state-level headline; the backend
// serves it to the landing page before login.
type PublicOverview struct {
	TotalMunicipals   int
	TotalPopulation   int64
	AverageWQI        float64
	AverageEfficiency float64
	Message           string
}

// Overview extends the public headline with anomaly and risk counters
// that the backend only serves to authenticated users.
type Overview struct {
	TotalMunicipals   int
	TotalPopulation   int64
	AverageWQI        float64
	AverageEfficiency float64
	TotalAnomalies    int
	TotalCriticalHubs int
	LastUpdated       string
	RequestedBy       string
}

// YearTrend is one state-wide year aggregate across quality and
// distribution records.
type YearTrend struct {
	Year          int
	AvgWQI        float64
	AvgEfficiency float64
}

type StateTrends struct {
	Years       []YearTrend
	RequestedBy string
}

// Dashboard is the per-MC landing payload: the corporation's master row
// plus its connected hubs.
type Dashboard struct {
	MunicipalInfo map[string]any
	ConnectedHubs []ConnectedHub
	Message       string
}

type ConnectedHub struct {
	ID   string
	Name string
}
