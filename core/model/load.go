package model

import (
	"fmt"
	"time"
)

// EquipmentKind identifies the trailer or container type required to move a
// load. The set is closed: any other value is a validation error.
type EquipmentKind string

const (
	EquipmentReefer     EquipmentKind = "Reefer"
	EquipmentFlatbed    EquipmentKind = "Flatbed"
	EquipmentDryVan     EquipmentKind = "Dry Van"
	EquipmentTanker     EquipmentKind = "Tanker"
	EquipmentContainer  EquipmentKind = "Container"
	EquipmentBulk       EquipmentKind = "Bulk"
	EquipmentPalletized EquipmentKind = "Palletized"
)

// Valid reports whether the equipment kind is one of the closed set.
func (e EquipmentKind) Valid() bool {
	switch e {
	case EquipmentReefer, EquipmentFlatbed, EquipmentDryVan, EquipmentTanker,
		EquipmentContainer, EquipmentBulk, EquipmentPalletized:
		return true
	}
	return false
}

// Priority ranks how urgently a load must be covered. Standard is the
// default when no priority is supplied.
type Priority string

const (
	PriorityStandard Priority = "Standard"
	PriorityExpress  Priority = "Express"
	PriorityUrgent   Priority = "Urgent"
)

// Valid reports whether the priority is one of the closed set.
func (p Priority) Valid() bool {
	switch p {
	case PriorityStandard, PriorityExpress, PriorityUrgent:
		return true
	}
	return false
}

// Load represents a shipment waiting to be paired with a vehicle.
type Load struct {
	ID           string
	Origin       string
	Destination  string
	Equipment    EquipmentKind
	WeightLbs    int
	PickupDate   time.Time
	Priority     Priority
	Requirements string
}

// Validate checks that the load is well formed. A zero Priority is
// normalized to Standard by callers before validation.
func (l Load) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("load id is required")
	}
	if !l.Equipment.Valid() {
		return fmt.Errorf("unknown equipment kind %q", l.Equipment)
	}
	if l.WeightLbs <= 0 {
		return fmt.Errorf("weight must be positive, got %d", l.WeightLbs)
	}
	if l.PickupDate.IsZero() {
		return fmt.Errorf("pickup date is required")
	}
	if !l.Priority.Valid() {
		return fmt.Errorf("unknown priority %q", l.Priority)
	}
	return nil
}
