package model

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func validLoad() Load {
	return Load{
		ID:         "L1",
		Origin:     "Dallas, TX",
		Destination: "Atlanta, GA",
		Equipment:  EquipmentReefer,
		WeightLbs:  42000,
		PickupDate: date("2025-11-05"),
		Priority:   PriorityStandard,
	}
}

func TestLoadValidate(t *testing.T) {
	if err := validLoad().Validate(); err != nil {
		t.Fatalf("valid load rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Load)
	}{
		{"missing id", func(l *Load) { l.ID = "" }},
		{"bad equipment", func(l *Load) { l.Equipment = "Hovercraft" }},
		{"zero weight", func(l *Load) { l.WeightLbs = 0 }},
		{"negative weight", func(l *Load) { l.WeightLbs = -5 }},
		{"zero pickup date", func(l *Load) { l.PickupDate = time.Time{} }},
		{"bad priority", func(l *Load) { l.Priority = "ASAP" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := validLoad()
			tc.mutate(&l)
			if err := l.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestEquipmentKindClosedSet(t *testing.T) {
	kinds := []EquipmentKind{
		EquipmentReefer, EquipmentFlatbed, EquipmentDryVan, EquipmentTanker,
		EquipmentContainer, EquipmentBulk, EquipmentPalletized,
	}
	for _, k := range kinds {
		if !k.Valid() {
			t.Errorf("%s should be valid", k)
		}
	}
	if EquipmentKind("Lowboy").Valid() {
		t.Error("unknown kind accepted")
	}
}
