package models

import "time"

// Area is a physical location such as a room or a library.
type Area struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;uniqueIndex:uq_areas_name"`
	Description string `gorm:"type:text"`
	Location    string `gorm:"size:200"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Equipment []Equipment `gorm:"foreignKey:AreaID;constraint:OnDelete:CASCADE"`
	Personnel []Personnel `gorm:"foreignKey:AreaID;constraint:OnDelete:CASCADE"`
}

func (Area) TableName() string { return "areas" }
