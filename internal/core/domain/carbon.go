package domain

import (
	"encoding/json"
	"time"
)

// CarbonRecord is one fuel-consumption entry owned by an identity.
type CarbonRecord struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	FuelName    string    `json:"fuelName"`
	Consumption float64   `json:"consumption"`
	Electricity *float64  `json:"electricity"`
	Coefficient float64   `json:"coefficient"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Emission is consumption multiplied by the emission coefficient.
func (r CarbonRecord) Emission() float64 {
	return r.Consumption * r.Coefficient
}

// MarshalJSON writes the stored fields plus the derived emission.
func (r CarbonRecord) MarshalJSON() ([]byte, error) {
	type stored CarbonRecord
	return json.Marshal(struct {
		stored
		Emission float64 `json:"emission"`
	}{stored(r), r.Emission()})
}

// CarbonStats aggregates every stored record.
type CarbonStats struct {
	TotalRecords     int64   `json:"totalRecords"`
	TotalConsumption float64 `json:"totalConsumption"`
	TotalElectricity float64 `json:"totalElectricity"`
	TotalEmission    float64 `json:"totalEmission"`
}
