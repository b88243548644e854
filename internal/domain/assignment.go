package domain

import (
	"time"
)

// AssignmentStatus описывает жизненный цикл аффектации. Статусами управляет
// внешняя система; ядро только читает их при фильтрации конфликтов.
type AssignmentStatus string

const (
	AssignmentStatusScheduled AssignmentStatus = "scheduled"
	AssignmentStatusActive    AssignmentStatus = "active"
	AssignmentStatusCompleted AssignmentStatus = "completed"
	AssignmentStatusCancelled AssignmentStatus = "cancelled"
)

// Assignment — закрепление трака за точкой на интервал дат.
// Нулевая EndDate означает однодневную аффектацию, равную StartDate.
// StartTime/EndTime — строки "HH:MM" (допускается "HH:MM:SS"), пустая строка —
// время не задано.
type Assignment struct {
	ID         string
	TruckID    string
	LocationID string
	StartDate  time.Time
	EndDate    time.Time
	StartTime  string
	EndTime    string
	Status     AssignmentStatus
}

// EffectiveEnd возвращает дату окончания интервала с учётом однодневных записей.
func (a Assignment) EffectiveEnd() time.Time {
	if a.EndDate.IsZero() {
		return a.StartDate
	}
	return a.EndDate
}

// SingleDay сообщает, занимает ли аффектация ровно один календарный день.
func (a Assignment) SingleDay() bool {
	return DateOnly(a.StartDate).Equal(DateOnly(a.EffectiveEnd()))
}

// AssignmentDraft — кандидат на создание или редактирование аффектации.
// При редактировании ID заполнен, чтобы запись не конфликтовала сама с собой.
type AssignmentDraft struct {
	ID          string
	TruckID     string
	LocationID  string
	FranchiseID string
	StartDate   time.Time
	EndDate     time.Time
	StartTime   string
	EndTime     string
}

// EffectiveEnd возвращает дату окончания интервала кандидата.
func (d AssignmentDraft) EffectiveEnd() time.Time {
	if d.EndDate.IsZero() {
		return d.StartDate
	}
	return d.EndDate
}

// SingleDay сообщает, занимает ли кандидат ровно один календарный день.
func (d AssignmentDraft) SingleDay() bool {
	return DateOnly(d.StartDate).Equal(DateOnly(d.EffectiveEnd()))
}

// DateOnly нормализует момент к календарной дате в UTC. Все сравнения
// интервалов в ядре идут по датам, а не по меткам времени.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// parseClock разбирает время дня "HH:MM" или "HH:MM:SS" в минуты от полуночи.
func parseClock(value string) (int, error) {
	parsed, err := time.Parse("15:04:05", value)
	if err != nil {
		parsed, err = time.Parse("15:04", value)
	}
	if err != nil {
		return 0, ErrTimeFormatInvalid
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// clockRangesOverlap проверяет пересечение диапазонов времени в минутах.
// Границы исключаются: смена, начинающаяся ровно в конце другой, не конфликт.
func clockRangesOverlap(startA, endA, startB, endB int) bool {
	return startA < endB && startB < endA
}

// datesOverlap — симметричная проверка пересечения интервалов дат с
// включительными границами: трак не может быть в двух местах в один день.
func datesOverlap(startA, endA, startB, endB time.Time) bool {
	return !DateOnly(startA).After(DateOnly(endB)) && !DateOnly(startB).After(DateOnly(endA))
}
