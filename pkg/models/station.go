package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Значения по умолчанию для параметров станции
const (
	DefaultStationLengthM      = 400.0
	DefaultPlatformLengthM     = 250.0
	DefaultNumPlatforms        = 2
	DefaultAvgTrainLengthM     = 200.0
	DefaultArrivalRatePerHr    = 4.0
	DefaultAvgDwellS           = 150.0
	DefaultAvgApproachSpeedKmh = 80.0
	DefaultAdhesionMu          = 0.35
	DefaultReactionTimeS       = 1.5
	DefaultSafetyBufferS       = 30.0
	DefaultCVInterarrival      = 1.0
	DefaultMarginFactor        = 1.0
)

// Station представляет станцию сети. Все числовые поля опциональны.
type Station struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name,omitempty"`
	Lat                 *float64 `json:"lat,omitempty"`
	Lon                 *float64 `json:"lon,omitempty"`
	StationLengthM      *float64 `json:"station_length_m,omitempty"`
	PlatformLengthM     *float64 `json:"platform_length_m,omitempty"`
	NumPlatforms        *int     `json:"num_platforms,omitempty"`
	AvgTrainLengthM     *float64 `json:"avg_train_length_m,omitempty"`
	ArrivalRatePerHr    *float64 `json:"arrival_rate_per_hr,omitempty"`
	AvgDwellS           *float64 `json:"avg_dwell_s,omitempty"`
	AvgApproachSpeedKmh *float64 `json:"avg_approach_speed_kmh,omitempty"`
	AdhesionMu          *float64 `json:"adhesion_mu,omitempty"`
	ReactionTimeS       *float64 `json:"reaction_time_s,omitempty"`
	SafetyBufferS       *float64 `json:"safety_buffer_s,omitempty"`
	CVInterarrival      *float64 `json:"cv_interarrival,omitempty"`
	MarginFactor        *float64 `json:"margin_factor,omitempty"`
}

// HasCoordinates сообщает, заданы ли обе координаты станции
func (s Station) HasCoordinates() bool {
	return s.Lat != nil && s.Lon != nil
}

// Coordinates возвращает координаты станции (нули, если они не заданы)
func (s Station) Coordinates() Coordinates {
	var c Coordinates
	if s.Lat != nil {
		c.Lat = *s.Lat
	}
	if s.Lon != nil {
		c.Lon = *s.Lon
	}
	return c
}

// StationInput - параметры станции с подставленными значениями по умолчанию
type StationInput struct {
	StationLengthM      float64
	PlatformLengthM     float64
	NumPlatforms        int
	AvgTrainLengthM     float64
	ArrivalRatePerHr    float64
	AvgDwellS           float64
	AvgApproachSpeedKmh float64
	AdhesionMu          float64
	ReactionTimeS       float64
	SafetyBufferS       float64
	CVInterarrival      float64
	MarginFactor        float64
}

// Input подставляет значения по умолчанию для отсутствующих полей
func (s Station) Input() StationInput {
	in := StationInput{
		StationLengthM:      orDefault(s.StationLengthM, DefaultStationLengthM),
		PlatformLengthM:     orDefault(s.PlatformLengthM, DefaultPlatformLengthM),
		NumPlatforms:        DefaultNumPlatforms,
		AvgTrainLengthM:     orDefault(s.AvgTrainLengthM, DefaultAvgTrainLengthM),
		ArrivalRatePerHr:    orDefault(s.ArrivalRatePerHr, DefaultArrivalRatePerHr),
		AvgDwellS:           orDefault(s.AvgDwellS, DefaultAvgDwellS),
		AvgApproachSpeedKmh: orDefault(s.AvgApproachSpeedKmh, DefaultAvgApproachSpeedKmh),
		AdhesionMu:          orDefault(s.AdhesionMu, DefaultAdhesionMu),
		ReactionTimeS:       orDefault(s.ReactionTimeS, DefaultReactionTimeS),
		SafetyBufferS:       orDefault(s.SafetyBufferS, DefaultSafetyBufferS),
		CVInterarrival:      orDefault(s.CVInterarrival, DefaultCVInterarrival),
		MarginFactor:        orDefault(s.MarginFactor, DefaultMarginFactor),
	}
	if s.NumPlatforms != nil {
		in.NumPlatforms = *s.NumPlatforms
	}
	return in
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// StationList - упорядоченный список станций. В JSON принимает как массив
// станций, так и объект {"ID": {...}} с сохранением порядка ключей.
type StationList []Station

// UnmarshalJSON реализует json.Unmarshaler
func (l *StationList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if data[0] == '[' {
		var stations []Station
		if err := json.Unmarshal(data, &stations); err != nil {
			return err
		}
		*l = stations
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("stations: expected array or object, got %v", tok)
	}

	var stations []Station
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("stations: unexpected key %v", keyTok)
		}

		var st Station
		if err := dec.Decode(&st); err != nil {
			return fmt.Errorf("stations: station %q: %w", key, err)
		}
		if st.ID == "" {
			st.ID = key
		}
		stations = append(stations, st)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*l = stations
	return nil
}

// Index строит отображение ID -> станция
func (l StationList) Index() map[string]Station {
	idx := make(map[string]Station, len(l))
	for _, s := range l {
		if _, exists := idx[s.ID]; !exists {
			idx[s.ID] = s
		}
	}
	return idx
}

// Rate - интенсивность (поездов в час), которая может быть неограниченной.
// Неограниченное значение сериализуется в JSON как строка "unbounded".
type Rate float64

// Unbounded возвращает неограниченное значение
func Unbounded() Rate {
	return Rate(math.Inf(1))
}

// IsUnbounded сообщает, является ли значение неограниченным
func (r Rate) IsUnbounded() bool {
	return math.IsInf(float64(r), 1)
}

// MarshalJSON реализует json.Marshaler
func (r Rate) MarshalJSON() ([]byte, error) {
	if r.IsUnbounded() {
		return []byte(`"unbounded"`), nil
	}
	return json.Marshal(float64(r))
}

// UnmarshalJSON реализует json.Unmarshaler
func (r *Rate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte(`"unbounded"`)) {
		*r = Unbounded()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Rate(v)
	return nil
}

// StationParameters содержит производные показатели станции
type StationParameters struct {
	StationLengthM             float64 `json:"station_length_m"`
	PlatformLengthM            float64 `json:"platform_length_m"`
	NumPlatforms               int     `json:"num_platforms"`
	AvgTrainLengthM            float64 `json:"avg_train_length_m"`
	ArrivalRatePerHr           float64 `json:"arrival_rate_per_hr"`
	AvgDwellS                  float64 `json:"avg_dwell_s"`
	AvgApproachSpeedKmh        float64 `json:"avg_approach_speed_kmh"`
	AdhesionMu                 float64 `json:"adhesion_mu"`
	ReactionTimeS              float64 `json:"reaction_time_s"`
	SafetyBufferS              float64 `json:"safety_buffer_s"`
	MaxSimultaneousTrains      int     `json:"max_simultaneous_trains"`
	PlatformUtilizationSingle  float64 `json:"platform_utilization_single"`
	PlatformUtilizationOverall float64 `json:"platform_utilization_overall"`
	BrakingDistanceM           float64 `json:"braking_distance_m"`
	ReactionDistanceM          float64 `json:"reaction_distance_m"`
	TotalStoppingDistanceM     float64 `json:"total_stopping_distance_m"`
	CapacityPerPlatform        Rate    `json:"capacity_per_platform_trains_per_hr"`
	StationCapacity            Rate    `json:"station_capacity_trains_per_hr"`
	MinClearanceTimeS          float64 `json:"min_clearance_time_s"`
	ConflictRiskIndex          float64 `json:"conflict_risk_index"`
}
