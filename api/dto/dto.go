// Package dto defines the JSON payloads accepted and produced by the HTTP
// API, together with the conversions into domain records. Incoming records
// that cannot be converted are reported as skipped, never rejected as a
// batch.
package dto

import (
	"fmt"
	"time"

	"github.com/loadpulse/loadpulse/core/model"
)

const dateLayout = "2006-01-02"

// Load is the wire form of a shipment.
type Load struct {
	ID                  string `json:"id"`
	Origin              string `json:"origin"`
	Destination         string `json:"destination"`
	Equipment           string `json:"equipment"`
	Weight              int    `json:"weight"`
	PickupDate          string `json:"pickupDate"`
	Priority            string `json:"priority"`
	SpecialRequirements string `json:"specialRequirements,omitempty"`
}

// Truck is the wire form of an available vehicle.
type Truck struct {
	ID            string `json:"id"`
	Location      string `json:"location"`
	Equipment     string `json:"equipment"`
	AvailableFrom string `json:"availableFrom"`
	Class         string `json:"class,omitempty"`
	Capacity      int    `json:"capacity,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// LaneVolumes is the wire form of one lane's per-period volume history,
// oldest first.
type LaneVolumes struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Volumes     []int  `json:"volumes"`
}

// ParseDate accepts the dashboard's date-only form first and falls back to
// RFC 3339 timestamps.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparsable date %q", s)
	}
	return t, nil
}

// ToModel converts the wire load into a domain load. A missing priority
// defaults to Standard; field validation itself belongs to the engine.
func (l Load) ToModel() (model.Load, error) {
	pickup, err := ParseDate(l.PickupDate)
	if err != nil {
		return model.Load{}, err
	}
	prio := model.Priority(l.Priority)
	if l.Priority == "" {
		prio = model.PriorityStandard
	}
	return model.Load{
		ID:           l.ID,
		Origin:       l.Origin,
		Destination:  l.Destination,
		Equipment:    model.EquipmentKind(l.Equipment),
		WeightLbs:    l.Weight,
		PickupDate:   pickup,
		Priority:     prio,
		Requirements: l.SpecialRequirements,
	}, nil
}

// ToModel converts the wire truck into a domain vehicle. A missing class
// defaults to Truck.
func (t Truck) ToModel() (model.Vehicle, error) {
	avail, err := ParseDate(t.AvailableFrom)
	if err != nil {
		return model.Vehicle{}, err
	}
	class := model.VehicleClass(t.Class)
	if t.Class == "" {
		class = model.ClassTruck
	}
	return model.Vehicle{
		ID:            t.ID,
		Location:      t.Location,
		Equipment:     model.EquipmentKind(t.Equipment),
		AvailableFrom: avail,
		Class:         class,
		CapacityLbs:   t.Capacity,
		Notes:         t.Notes,
	}, nil
}

// ToModel converts the wire lane history into the domain series.
func (l LaneVolumes) ToModel() model.LaneVolumeSeries {
	return model.LaneVolumeSeries{
		Origin:      l.Origin,
		Destination: l.Destination,
		Volumes:     l.Volumes,
	}
}

// ConvertLoads converts a batch of wire loads. Records with unparsable
// dates are returned as skipped and excluded from the batch.
func ConvertLoads(in []Load) ([]model.Load, []model.SkippedRecord) {
	loads := make([]model.Load, 0, len(in))
	var skipped []model.SkippedRecord
	for _, p := range in {
		l, err := p.ToModel()
		if err != nil {
			skipped = append(skipped, model.SkippedRecord{ID: p.ID, Kind: "load", Reason: err.Error()})
			continue
		}
		loads = append(loads, l)
	}
	return loads, skipped
}

// ConvertTrucks converts a batch of wire trucks, mirroring ConvertLoads.
func ConvertTrucks(in []Truck) ([]model.Vehicle, []model.SkippedRecord) {
	vehicles := make([]model.Vehicle, 0, len(in))
	var skipped []model.SkippedRecord
	for _, p := range in {
		v, err := p.ToModel()
		if err != nil {
			skipped = append(skipped, model.SkippedRecord{ID: p.ID, Kind: "vehicle", Reason: err.Error()})
			continue
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, skipped
}

// ConvertLanes converts a batch of wire lane histories.
func ConvertLanes(in []LaneVolumes) []model.LaneVolumeSeries {
	series := make([]model.LaneVolumeSeries, 0, len(in))
	for _, p := range in {
		series = append(series, p.ToModel())
	}
	return series
}
