package models

// Действия арбитража
const (
	ActionNoAction = "NO_ACTION"
	ActionStopBoth = "STOP_BOTH"
	ActionStopOne  = "STOP_ONE"
	ActionStop     = "STOP"
	ActionNormal   = "NORMAL"
)

// Decision представляет результат арбитража между двумя поездами
type Decision struct {
	Action      string  `json:"action"`                  // NO_ACTION, STOP_BOTH, STOP_ONE
	StopTrain   string  `json:"stop_train,omitempty"`    // Поезд, который должен остановиться
	LetPass     string  `json:"let_pass,omitempty"`      // Поезд, который проходит
	StopTrainID string  `json:"stop_train_id,omitempty"` // Дублирует stop_train для старых клиентов
	LetPassID   string  `json:"let_pass_id,omitempty"`   // Дублирует let_pass для старых клиентов
	Reason      string  `json:"reason,omitempty"`        // Человекочитаемая причина
	DistanceM   float64 `json:"distance_m,omitempty"`    // Расстояние между поездами, м
	Error       string  `json:"error,omitempty"`
}

// ProximityAlert представляет результат попарной проверки сближения
type ProximityAlert struct {
	Action         string   `json:"action"` // STOP или NORMAL
	Reason         string   `json:"reason"`
	AffectedTrains []string `json:"affected_trains"`
	DistanceM      float64  `json:"distance_m,omitempty"`
}
