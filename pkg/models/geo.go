package models

// Coordinates представляет географические координаты
type Coordinates struct {
	Lat float64 `json:"lat"` // Широта
	Lon float64 `json:"lon"` // Долгота
}
