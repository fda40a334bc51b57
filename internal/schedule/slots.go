package schedule

import "github.com/omarhammouda0/session-smart-buddy/internal/model"

const defaultSlotStep = 30

// SlotSuggestion возможное время начала в рабочих часах
type SlotSuggestion struct {
	StartTime string
	Severity  Severity
	Conflicts int
}

// FreeSlots перебирает начала занятий внутри рабочих часов с шагом step
// и классифицирует каждое детектором. Рабочие часы ограничивают только
// предлагаемые варианты и не влияют на проверку конфликтов.
func (d *Detector) FreeSlots(roster []*model.Student, date string, duration int, settings model.Settings, step int) []SlotSuggestion {
	if !IsValidDate(date) {
		return nil
	}
	if duration <= 0 {
		duration = d.opts.DefaultDuration
	}
	if step <= 0 {
		step = defaultSlotStep
	}

	start := ClockMinutes(settings.WorkingHoursStart)
	end := ClockMinutes(settings.WorkingHoursEnd)

	var slots []SlotSuggestion
	for t := start; t+duration <= end; t += step {
		startTime := FormatClock(t)
		result := d.CheckConflict(roster, Candidate{
			Date:      date,
			StartTime: startTime,
			Duration:  duration,
		})
		slots = append(slots, SlotSuggestion{
			StartTime: startTime,
			Severity:  result.Severity,
			Conflicts: len(result.Conflicts),
		})
	}

	return slots
}

// Available оставляет только варианты без пересечений
func Available(slots []SlotSuggestion) []SlotSuggestion {
	var free []SlotSuggestion
	for _, slot := range slots {
		if slot.Severity < SeverityError {
			free = append(free, slot)
		}
	}
	return free
}
