package postgres

import (
	"time"

	"github.com/greenops/carbon-management/internal/core/domain"
)

// Roles are stored as short codes.
var (
	roleCodes = map[domain.Role]string{
		domain.RoleUser:     "1",
		domain.RoleAdmin:    "2",
		domain.RoleReviewer: "3",
	}
	codeRoles = map[string]domain.Role{
		"1": domain.RoleUser,
		"2": domain.RoleAdmin,
		"3": domain.RoleReviewer,
	}
)

func roleCode(r domain.Role) string {
	if code, ok := roleCodes[r]; ok {
		return code
	}
	return roleCodes[domain.RoleUser]
}

func roleFromCode(code string) domain.Role {
	if r, ok := codeRoles[code]; ok {
		return r
	}
	return domain.RoleUser
}

type userModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string    `gorm:"column:name;size:255;not null"`
	Password   string    `gorm:"column:password;size:255;not null"`
	Role       string    `gorm:"column:role;size:8;not null;default:1"`
	Mail       string    `gorm:"column:mail;size:255;not null;uniqueIndex"`
	CreateTime time.Time `gorm:"column:create_time;not null"`
}

func (userModel) TableName() string { return "users" }

func (m userModel) toDomain() domain.Identity {
	return domain.Identity{
		ID:           m.ID,
		DisplayName:  m.Name,
		PasswordHash: m.Password,
		Role:         roleFromCode(m.Role),
		Email:        m.Mail,
		CreatedAt:    m.CreateTime.UTC(),
	}
}

func userModelFromDomain(id *domain.Identity) userModel {
	return userModel{
		ID:         id.ID,
		Name:       id.DisplayName,
		Password:   id.PasswordHash,
		Role:       roleCode(id.Role),
		Mail:       id.Email,
		CreateTime: id.CreatedAt,
	}
}

type carbonModel struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      int64     `gorm:"column:user_id;not null;index"`
	FuelName    string    `gorm:"column:fuel_name;size:255;not null"`
	Consumption float64   `gorm:"column:consumption;not null"`
	Electricity *float64  `gorm:"column:electricity"`
	Coefficient float64   `gorm:"column:coefficient;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;index"`
}

func (carbonModel) TableName() string { return "carbon" }

func (m carbonModel) toDomain() domain.CarbonRecord {
	return domain.CarbonRecord{
		ID:          m.ID,
		UserID:      m.UserID,
		FuelName:    m.FuelName,
		Consumption: m.Consumption,
		Electricity: m.Electricity,
		Coefficient: m.Coefficient,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type deviceModel struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string    `gorm:"column:name;size:255;not null"`
	Status       string    `gorm:"column:status;size:16;not null;default:idle"`
	BootTime     time.Time `gorm:"column:boot_time"`
	Ratio        *float64  `gorm:"column:ratio"`
	RuntimeHours float64   `gorm:"column:runtime;not null;default:0"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (deviceModel) TableName() string { return "devices" }

func (m deviceModel) toDomain() domain.Device {
	return domain.Device{
		ID:           m.ID,
		Name:         m.Name,
		Status:       domain.DeviceStatus(m.Status),
		BootTime:     m.BootTime.UTC(),
		Ratio:        m.Ratio,
		RuntimeHours: m.RuntimeHours,
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

type maintenanceModel struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	DeviceID        int64     `gorm:"column:device_id;not null;index"`
	UserID          int64     `gorm:"column:user_id;not null"`
	Type            string    `gorm:"column:type;size:16;not null;index"`
	Description     string    `gorm:"column:description;type:text"`
	MaintenanceTime time.Time `gorm:"column:maintenance_time;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;not null"`
}

func (maintenanceModel) TableName() string { return "maintenance_records" }

func (m maintenanceModel) toDomain() domain.MaintenanceRecord {
	return domain.MaintenanceRecord{
		ID:              m.ID,
		DeviceID:        m.DeviceID,
		UserID:          m.UserID,
		Type:            domain.MaintenanceType(m.Type),
		Description:     m.Description,
		MaintenanceTime: m.MaintenanceTime.UTC(),
		CreatedAt:       m.CreatedAt.UTC(),
	}
}
