package models

// Статусы поезда
const (
	StatusRunning   = "RUNNING"
	StatusStopped   = "STOPPED"
	StatusEmergency = "EMERGENCY"
	StatusDelayed   = "DELAYED"
)

// TrainSnapshot представляет снимок состояния поезда на момент запроса
type TrainSnapshot struct {
	ID        string   `json:"id"`                   // Идентификатор поезда (уникален в пределах запроса)
	Name      string   `json:"name,omitempty"`       // Отображаемое имя
	Speed     float64  `json:"speed"`                // Скорость, км/ч (отрицательная означает движение назад)
	Progress  float64  `json:"progress"`             // Доля пройденного пути 0..1
	Priority  *int     `json:"priority,omitempty"`   // Приоритет (>= 1, больше = важнее)
	Status    string   `json:"status,omitempty"`     // RUNNING, STOPPED, EMERGENCY, DELAYED
	Lat       float64  `json:"lat"`                  // Широта
	Lon       float64  `json:"lon"`                  // Долгота
	StartTime float64  `json:"startTime,omitempty"`  // Время отправления, мс
	Now       *float64 `json:"now,omitempty"`        // Текущее время, мс
	PrevSpeed *float64 `json:"prev_speed,omitempty"` // Скорость из предыдущего снимка, км/ч
	PrevAccel *float64 `json:"prev_accel,omitempty"` // Ускорение из предыдущего снимка, км/ч за секунду
}

// PriorityOrDefault возвращает приоритет или 1, если он не задан
func (t TrainSnapshot) PriorityOrDefault() int {
	if t.Priority == nil {
		return 1
	}
	return *t.Priority
}

// StatusOrDefault возвращает статус или RUNNING, если он не задан
func (t TrainSnapshot) StatusOrDefault() string {
	if t.Status == "" {
		return StatusRunning
	}
	return t.Status
}

// Position возвращает координаты поезда
func (t TrainSnapshot) Position() Coordinates {
	return Coordinates{Lat: t.Lat, Lon: t.Lon}
}

// TrainParameters содержит 20 нормализованных показателей поезда (p1..p20).
// Имена JSON полей являются контрактом и не должны меняться.
type TrainParameters struct {
	SpeedNorm        float64 `json:"p1"`  // Скорость / 200 км/ч, 0..1
	Acceleration     float64 `json:"p2"`  // Ускорение / 50, -1..1
	Jerk             float64 `json:"p3"`  // Рывок / 20, -1..1
	KineticEnergy    float64 `json:"p4"`  // (v м/с / 40)^2, 0..1
	Progress         float64 `json:"p5"`  // Доля пройденного пути, 0..1
	Remaining        float64 `json:"p6"`  // 1 - p5
	StoppingDistance float64 `json:"p7"`  // Тормозной путь / 2000 м, 0..1
	PriorityNorm     float64 `json:"p8"`  // Приоритет / 3, 0..1
	ElapsedTime      float64 `json:"p9"`  // Время в пути / 3600 с, 0..1
	StatusRisk       float64 `json:"p10"` // Риск по статусу, 0..1
	TrainSpacing     float64 `json:"p11"` // Не вычисляется (NotComputed)
	SpeedVariance    float64 `json:"p12"` // |v - v_prev| / 200, 0..1
	Efficiency       float64 `json:"p13"` // v / (приоритет * 100), 0..1
	Smoothness       float64 `json:"p14"` // 1 - |p3|
	Momentum         float64 `json:"p15"` // v м/с / 50, 0..1
	TripPhase        float64 `json:"p16"` // Совпадает с p5
	ReversalRisk     float64 `json:"p17"` // |v| / 50 при v < 0
	StationProximity float64 `json:"p18"` // Не вычисляется (NotComputed)
	PositionDrift    float64 `json:"p19"` // Дробная часть |lat| + |lon|
	GlobalComposite  float64 `json:"p20"` // (p1 + p5 + p8) / 3
}
