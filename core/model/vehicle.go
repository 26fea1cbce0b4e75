package model

import (
	"fmt"
	"time"
)

// VehicleClass identifies the transport mode of a vehicle.
type VehicleClass string

const (
	ClassTruck VehicleClass = "Truck"
	ClassPlane VehicleClass = "Plane"
	ClassShip  VehicleClass = "Ship"
)

// Valid reports whether the class is one of the closed set.
func (c VehicleClass) Valid() bool {
	switch c {
	case ClassTruck, ClassPlane, ClassShip:
		return true
	}
	return false
}

// Vehicle represents an available carrier asset that can cover a load.
type Vehicle struct {
	ID            string
	Location      string
	Equipment     EquipmentKind
	AvailableFrom time.Time
	Class         VehicleClass

	// CapacityLbs is the maximum load weight the vehicle can carry.
	// Zero means the capacity is unknown.
	CapacityLbs int

	Notes string
}

// Validate checks that the vehicle is well formed. In particular a known
// capacity must be positive.
func (v Vehicle) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("vehicle id is required")
	}
	if !v.Equipment.Valid() {
		return fmt.Errorf("unknown equipment kind %q", v.Equipment)
	}
	if !v.Class.Valid() {
		return fmt.Errorf("unknown vehicle class %q", v.Class)
	}
	if v.AvailableFrom.IsZero() {
		return fmt.Errorf("available-from date is required")
	}
	if v.CapacityLbs < 0 {
		return fmt.Errorf("capacity must be positive, got %d", v.CapacityLbs)
	}
	return nil
}

// HasCapacity reports whether the vehicle's capacity is known.
func (v Vehicle) HasCapacity() bool { return v.CapacityLbs > 0 }
