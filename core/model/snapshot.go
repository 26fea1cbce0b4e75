package model

import "time"

// KPI is a single dashboard indicator with its trend against the prior
// reporting period.
type KPI struct {
	Value         float64 `json:"value"`
	Unit          string  `json:"unit"`
	ChangePercent float64 `json:"changePercent"`
	Trend         string  `json:"trend"`
}

// KPISet holds the four named indicators of the analytics view.
type KPISet struct {
	AvgFreightCost KPI `json:"avgFreightCost"`
	MatchAccuracy  KPI `json:"matchAccuracy"`
	ProcessingTime KPI `json:"processingTime"`
	AIRoi          KPI `json:"aiRoi"`
}

// VolumeTrend is one week of load volume with its trailing moving average.
type VolumeTrend struct {
	Week          string  `json:"week"`
	TotalLoads    int     `json:"totalLoads"`
	MovingAverage float64 `json:"movingAverage"`
}

// LaneBreakdown compares a lane's current volume against the prior period.
type LaneBreakdown struct {
	Lane          string  `json:"lane"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	Current       int     `json:"current"`
	Previous      int     `json:"previous"`
	ChangePercent float64 `json:"changePercent"`
}

// SystemPerformance summarizes operational health counters.
type SystemPerformance struct {
	UptimePercent float64 `json:"uptime"`
	AvgResponseMs float64 `json:"avgResponseMs"`
	ErrorRate     float64 `json:"errorRate"`
}

// ForecastAccuracy reports standard error metrics over (actual, predicted)
// volume pairs with a qualitative rating band.
type ForecastAccuracy struct {
	MAE    float64 `json:"mae"`
	MAPE   float64 `json:"mape"`
	RMSE   float64 `json:"rmse"`
	Rating string  `json:"rating"`
}

// AnalyticsSnapshot is the full analytics read model served to the
// presentation layer. Field names are part of the boundary contract.
type AnalyticsSnapshot struct {
	KPIs              KPISet            `json:"kpis"`
	VolumeTrends      []VolumeTrend     `json:"volumeTrends"`
	LaneBreakdown     []LaneBreakdown   `json:"laneBreakdown"`
	SystemPerformance SystemPerformance `json:"systemPerformance"`
	ForecastAccuracy  ForecastAccuracy  `json:"forecastAccuracy"`
	Insights          []InsightAnomaly  `json:"insights"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// DashboardStats carries the headline counters of the dashboard view.
type DashboardStats struct {
	ActiveShipments int     `json:"activeShipments"`
	TotalLoads      int     `json:"totalLoads"`
	AvailableTrucks int     `json:"availableTrucks"`
	MatchAccuracy   float64 `json:"matchAccuracy"`
}

// Utilization reports fleet usage as percentages.
type Utilization struct {
	FleetPercent    float64 `json:"fleetPercent"`
	CapacityPercent float64 `json:"capacityPercent"`
}

// ActivityEntry is one row of the dashboard's recent-activity feed.
type ActivityEntry struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SystemStatus reports the health of one subsystem.
type SystemStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// AlertSummary counts anomalies and lists the most severe ones.
type AlertSummary struct {
	Count     int              `json:"count"`
	TopAlerts []InsightAnomaly `json:"topAlerts"`
}

// DashboardSnapshot is the operational read model served to the
// presentation layer. Field names are part of the boundary contract.
type DashboardSnapshot struct {
	Stats          DashboardStats  `json:"stats"`
	Utilization    Utilization     `json:"utilization"`
	LaneHighlights []LaneBreakdown `json:"laneHighlights"`
	RecentActivity []ActivityEntry `json:"recentActivity"`
	SystemStatus   []SystemStatus  `json:"systemStatus"`
	Alerts         AlertSummary    `json:"alerts"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// WeekVolume is one externally supplied week of total load volume.
type WeekVolume struct {
	Week       string `json:"week"`
	TotalLoads int    `json:"totalLoads"`
}

// ForecastPair is an externally supplied (actual, predicted) volume pair
// used for forecast accuracy metrics.
type ForecastPair struct {
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
}

// OperationalCounters are externally measured inputs to the snapshots.
// The engine aggregates them but never computes them.
type OperationalCounters struct {
	ActiveShipments     int     `json:"activeShipments"`
	TotalLoads          int     `json:"totalLoads"`
	AvailableTrucks     int     `json:"availableTrucks"`
	FleetUtilization    float64 `json:"fleetUtilization"`
	CapacityUtilization float64 `json:"capacityUtilization"`
	UptimePercent       float64 `json:"uptimePercent"`
	AvgResponseMs       float64 `json:"avgResponseMs"`
	ErrorRate           float64 `json:"errorRate"`
	AvgFreightCost      float64 `json:"avgFreightCost"`
	PrevFreightCost     float64 `json:"prevFreightCost"`
	ProcessingTimeSec   float64 `json:"processingTimeSec"`
	PrevProcessingSec   float64 `json:"prevProcessingSec"`
	AIRoiPercent        float64 `json:"aiRoiPercent"`
	PrevAIRoiPercent    float64 `json:"prevAiRoiPercent"`
	PrevMatchAccuracy   float64 `json:"prevMatchAccuracy"`
}
