package domain

import (
	"fmt"

	apperrors "aquaview/internal/platform/errors"
)

// Hub is a monitored supply point; reference data fetched once per screen
// load and never mutated by this client.
type Hub struct {
	ID   string
	Name string
}

// QualityRecord is one stored WQI observation.
type QualityRecord struct {
	HubID         string
	WQI           float64
	AnomalyStatus string
	CreatedAt     string
}

// HubTrend aggregates a single hub's observations.
type HubTrend struct {
	TotalRecords int
	AverageWQI   float64
	AnomalyCount int
	Records      []QualityRecord
}

type TrendSummary struct {
	MCCode    string
	HubFilter string
	Hubs      map[string]HubTrend
}

// YearStat is one hub-year aggregate. YearlyDelta is nil for the first
// observed year, matching the backend's "N/A".
type YearStat struct {
	AverageWQI   float64
	MaxWQI       float64
	MinWQI       float64
	TotalRecords int
	AnomalyCount int
	Trend        string
	YearlyDelta  *float64
}

type YearlyTrend struct {
	MCCode    string
	HubFilter string
	Hubs      map[string]map[string]YearStat
}

type AnomalySummary struct {
	MCCode    string
	HubFilter string
	Total     int
	Records   []QualityRecord
	Message   string
}

type RecordSet struct {
	MCCode    string
	HubFilter string
	Total     int
	Records   []map[string]any
}

// PredictionInput mirrors the backend schema: min/max per measured
// parameter. The validate bounds mirror the backend caps, so readings the
// server would clamp or reject fail here before any request is issued.
type PredictionInput struct {
	MCCode            string  `json:"MC_Code" validate:"required"`
	HubID             string  `json:"Hub_ID" validate:"required"`
	TemperatureMin    float64 `json:"Temperature_Min" validate:"gte=0,lte=50"`
	TemperatureMax    float64 `json:"Temperature_Max" validate:"gte=0,lte=50"`
	PHMin             float64 `json:"pH_Min" validate:"gte=0,lte=14"`
	PHMax             float64 `json:"pH_Max" validate:"gte=0,lte=14"`
	ConductivityMin   float64 `json:"Conductivity_Min" validate:"gte=0,lte=100000"`
	ConductivityMax   float64 `json:"Conductivity_Max" validate:"gte=0,lte=100000"`
	BODMin            float64 `json:"BOD_Min" validate:"gte=0,lte=50"`
	BODMax            float64 `json:"BOD_Max" validate:"gte=0,lte=50"`
	FaecalColiformMin float64 `json:"Faecal_Coliform_Min" validate:"gte=0,lte=2000"`
	FaecalColiformMax float64 `json:"Faecal_Coliform_Max" validate:"gte=0,lte=2000"`
	TotalColiformMin  float64 `json:"Total_Coliform_Min" validate:"gte=0,lte=2000"`
	TotalColiformMax  float64 `json:"Total_Coliform_Max" validate:"gte=0,lte=2000"`
	NitrateNMin       float64 `json:"Nitrate_N_Min" validate:"gte=0,lte=50"`
	NitrateNMax       float64 `json:"Nitrate_N_Max" validate:"gte=0,lte=50"`
}

// ValidatePairs enforces Min ≤ Max per parameter, which tag-based
// validation cannot express across fields.
func (p PredictionInput) ValidatePairs() error {
	pairs := []struct {
		name     string
		min, max float64
	}{
		{"Temperature", p.TemperatureMin, p.TemperatureMax},
		{"pH", p.PHMin, p.PHMax},
		{"Conductivity", p.ConductivityMin, p.ConductivityMax},
		{"BOD", p.BODMin, p.BODMax},
		{"Faecal Coliform", p.FaecalColiformMin, p.FaecalColiformMax},
		{"Total Coliform", p.TotalColiformMin, p.TotalColiformMax},
		{"Nitrate-N", p.NitrateNMin, p.NitrateNMax},
	}
	for _, pair := range pairs {
		if pair.min > pair.max {
			return fmt.Errorf("%w: %s min exceeds max", apperrors.ErrInvalidInput, pair.name)
		}
	}
	return nil
}

// Prediction is the backend's hybrid WQI verdict for one hub.
type Prediction struct {
	HubID             string
	FinalWQI          float64
	Category          string
	AnomalyStatus     string
	Interpretation    string
	RecommendedAction string
	Summary           string
}
