package model

import (
	"time"

	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Level{},
	&Layer{},
	&Entity{},
}

// Level is one stored scene. Version mirrors core.Scene.Version.
type Level struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	Version   uint64    `json:"version"`
	EPSG      int       `json:"epsg"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"index:idx_level_updated_at"`
}

func (*Level) TableName() string {
	return "levels"
}

// Layer is a scene layer row. Position keeps the scene order.
type Layer struct {
	ID       uint   `json:"id" gorm:"primarykey;autoIncrement;"`
	LevelID  string `json:"levelId" gorm:"size:64;index:idx_layer_level_id"`
	Level    Level  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:LevelID;"`
	Position int    `json:"position"`
	Name     string `json:"name" gorm:"size:127"`
	Color    string `json:"color" gorm:"size:32;index:idx_layer_color"`
	Visible  bool   `json:"visible"`
	Locked   bool   `json:"locked"`
}

func (*Layer) TableName() string {
	return "layers"
}

// Entity is a scene entity row. Geometry holds the JSON payload decoded by
// core.DecodeGeometry; Footprint is its WKT rendering and the Min/Max
// columns its box, both derived on write for spatial queries.
type Entity struct {
	ID          uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	LevelID     string         `json:"levelId" gorm:"size:64;index:idx_entity_level_id"`
	Level       Level          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:LevelID;"`
	EntityID    string         `json:"entityId" gorm:"size:64;index:idx_entity_entity_id"`
	Position    int            `json:"position"`
	Type        string         `json:"type" gorm:"size:32"`
	Layer       string         `json:"layer" gorm:"size:127;index:idx_entity_layer"`
	Color       string         `json:"color" gorm:"size:32"`
	Visible     bool           `json:"visible"`
	Measurement bool           `json:"measurement"`
	Geometry    datatypes.JSON `json:"geometry"`
	Footprint   string         `json:"footprint" gorm:"type:text"`
	MinX        float64        `json:"minX"`
	MinY        float64        `json:"minY"`
	MaxX        float64        `json:"maxX"`
	MaxY        float64        `json:"maxY"`
}

func (*Entity) TableName() string {
	return "entities"
}
