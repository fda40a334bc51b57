package model

// Settings настройки расписания репетитора
type Settings struct {
	DefaultSessionDuration int    `json:"defaultSessionDuration"` // в минутах
	DefaultSessionTime     string `json:"defaultSessionTime"`     // "HH:MM"
	WorkingHoursStart      string `json:"workingHoursStart"`      // "HH:MM"
	WorkingHoursEnd        string `json:"workingHoursEnd"`        // "HH:MM"
	ClosenessThreshold     int    `json:"closenessThreshold"`     // в минутах
}

// DefaultSettings возвращает настройки по умолчанию
func DefaultSettings() Settings {
	return Settings{
		DefaultSessionDuration: 60,
		DefaultSessionTime:     "16:00",
		WorkingHoursStart:      "08:00",
		WorkingHoursEnd:        "22:00",
		ClosenessThreshold:     30,
	}
}
