package datastore

import "time"

// LocationRow is a persisted camera site.
type LocationRow struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;uniqueIndex;not null"`
	Latitude  float64
	Longitude float64
	Elevation float64
}

func (LocationRow) TableName() string { return "locations" }

// SpeciesRow is a persisted taxon.
type SpeciesRow struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"size:255;uniqueIndex;not null"`
	ScientificName string `gorm:"size:255"`
}

func (SpeciesRow) TableName() string { return "species" }

// ImageRow is a persisted image. DateTaken is stored in UTC; ZoneName and ZoneOffset
// rebuild the original wall clock on load.
type ImageRow struct {
	ID           uint             `gorm:"primaryKey"`
	Path         string           `gorm:"size:1024"`
	DateTaken    time.Time        `gorm:"index;not null"`
	ZoneName     string           `gorm:"size:64"`
	ZoneOffset   int              // seconds east of UTC
	LocationID   *uint            `gorm:"index"`
	Observations []ObservationRow `gorm:"foreignKey:ImageID;constraint:OnDelete:CASCADE"`
}

func (ImageRow) TableName() string { return "images" }

// ObservationRow is one species tag on an image. Position keeps the tag order.
type ObservationRow struct {
	ID        uint `gorm:"primaryKey"`
	ImageID   uint `gorm:"index;not null"`
	SpeciesID uint `gorm:"index;not null"`
	Count     int
	Position  int
}

func (ObservationRow) TableName() string { return "observations" }
