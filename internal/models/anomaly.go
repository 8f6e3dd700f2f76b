package models

// AnomalyResult is an enriched trip flagged by the anomaly scorer.
type AnomalyResult struct {
	Trip
	AnomalyScore   float64  `json:"anomalyScore"`
	AnomalyReasons []string `json:"anomalyReasons"`
	RecordIndex    int      `json:"recordIndex"`
}

// AnomalyTypeCounts groups flagged trips by the kind of signal that fired.
// Classification is by substring match on the reason text.
type AnomalyTypeCounts struct {
	Speed      int `json:"speed"`
	Distance   int `json:"distance"`
	Duration   int `json:"duration"`
	Geographic int `json:"geographic"`
}

// AnomalySummary aggregates a detection pass.
type AnomalySummary struct {
	TotalAnomalies   int               `json:"totalAnomalies"`
	TotalTrips       int               `json:"totalTrips"`
	AnomalyRate      float64           `json:"anomalyRate"` // percent
	AnomalyTypes     AnomalyTypeCounts `json:"anomalyTypes"`
	MostCommonReason string            `json:"mostCommonReason"`
	AvgScore         float64           `json:"avgScore"`
	Threshold        float64           `json:"threshold"`
}
