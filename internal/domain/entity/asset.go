package entity

import "time"

// Categorías de activos conocidas. La columna es texto libre; estas constantes
// cubren las que usa el seed.
const (
	AssetCategoryWeapon     = "weapon"
	AssetCategoryVehicle    = "vehicle"
	AssetCategoryAmmunition = "ammunition"
	AssetCategoryEquipment  = "equipment"
)

// Asset representa un tipo de activo rastreable (categoría + unidad de medida).
type Asset struct {
	ID            string
	Name          string
	Category      string
	UnitOfMeasure string
	CreatedAt     time.Time
}
