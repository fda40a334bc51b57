package handlers

// Ограничения ввода
const (
	StudentNameMaxLength = 100

	// Длительность занятия (в минутах)
	MinSessionDuration = 15  // 15 минут
	MaxSessionDuration = 480 // 8 часов
)
