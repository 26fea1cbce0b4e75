package model

import (
	"testing"
	"time"
)

func validVehicle() Vehicle {
	return Vehicle{
		ID:            "T1",
		Location:      "Fort Worth, TX",
		Equipment:     EquipmentReefer,
		AvailableFrom: date("2025-11-05"),
		Class:         ClassTruck,
		CapacityLbs:   45000,
	}
}

func TestVehicleValidate(t *testing.T) {
	if err := validVehicle().Validate(); err != nil {
		t.Fatalf("valid vehicle rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Vehicle)
	}{
		{"missing id", func(v *Vehicle) { v.ID = "" }},
		{"bad equipment", func(v *Vehicle) { v.Equipment = "Sidecar" }},
		{"bad class", func(v *Vehicle) { v.Class = "Submarine" }},
		{"zero available-from", func(v *Vehicle) { v.AvailableFrom = time.Time{} }},
		{"negative capacity", func(v *Vehicle) { v.CapacityLbs = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := validVehicle()
			tc.mutate(&v)
			if err := v.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestVehicleUnknownCapacity(t *testing.T) {
	v := validVehicle()
	v.CapacityLbs = 0
	if err := v.Validate(); err != nil {
		t.Fatalf("unknown capacity should be allowed: %v", err)
	}
	if v.HasCapacity() {
		t.Error("zero capacity should report unknown")
	}
}

func TestLaneVolumeSeries(t *testing.T) {
	s := LaneVolumeSeries{Origin: "Chicago, IL", Destination: "Denver, CO", Volumes: []int{90, 100, 160}}
	if s.Lane() != "Chicago, IL - Denver, CO" {
		t.Errorf("unexpected lane key %q", s.Lane())
	}
	if s.Current() != 160 || s.Previous() != 100 {
		t.Errorf("unexpected current/previous: %d/%d", s.Current(), s.Previous())
	}

	empty := LaneVolumeSeries{}
	if empty.Current() != 0 || empty.Previous() != 0 {
		t.Error("empty series should report zero volumes")
	}
}
