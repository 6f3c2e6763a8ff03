package domain

import "time"

// DeviceStatus is the operating state of a device.
type DeviceStatus string

const (
	DeviceActive DeviceStatus = "active"
	DeviceIdle   DeviceStatus = "idle"
	DeviceFault  DeviceStatus = "fault"
)

// Device is a tracked physical asset.
type Device struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Status       DeviceStatus `json:"status"`
	BootTime     time.Time    `json:"bootTime"`
	Ratio        *float64     `json:"ratio"`
	RuntimeHours float64      `json:"runtime"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// MaintenanceType classifies a maintenance record.
type MaintenanceType string

const (
	MaintenanceRoutine    MaintenanceType = "routine"
	MaintenanceRepair     MaintenanceType = "repair"
	MaintenanceInspection MaintenanceType = "inspection"
)

// MaintenanceRecord logs work done on a device.
type MaintenanceRecord struct {
	ID              int64           `json:"id"`
	DeviceID        int64           `json:"deviceId"`
	UserID          int64           `json:"userId"`
	Type            MaintenanceType `json:"type"`
	Description     string          `json:"description"`
	MaintenanceTime time.Time       `json:"maintenanceTime"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// MaintenanceStats counts maintenance records by type.
type MaintenanceStats struct {
	TotalMaintenance      int64 `json:"totalMaintenance"`
	RoutineMaintenance    int64 `json:"routineMaintenance"`
	RepairMaintenance     int64 `json:"repairMaintenance"`
	InspectionMaintenance int64 `json:"inspectionMaintenance"`
}
