package models

// Environment - непрозрачный набор атрибутов окружения (имя -> значение),
// получаемый от внешнего генератора для станции или участка пути
type Environment map[string]any
