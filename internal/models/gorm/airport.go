package gorm

import "time"

// Airport is an OpenFlights airport written into the shared locations table.
// Only the columns the seed import fills are mapped.
type Airport struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string    `gorm:"column:name;not null"`
	City         *string   `gorm:"column:city"`
	Country      *string   `gorm:"column:country"`
	LocationType string    `gorm:"column:location_type;not null;default:airport"`
	AirportCode  string    `gorm:"column:airport_code;uniqueIndex"`
	Latitude     float64   `gorm:"column:latitude;not null"`
	Longitude    float64   `gorm:"column:longitude;not null"`
	Timezone     *string   `gorm:"column:timezone"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Airport) TableName() string {
	return "locations"
}
