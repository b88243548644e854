package domain

import "time"

// PlannerInput — снапшоты, против которых проверяется кандидат.
// Truck и Authorizations опциональны: связанные проверки выполняются,
// только когда вызывающая сторона предоставила данные.
type PlannerInput struct {
	// Existing — аффектации, видимые текущему актору.
	Existing []Assignment
	// Truck — запись трака кандидата, если доступна; траки в ремонте и
	// списанные отклоняются.
	Truck *Truck
	// Authorizations — разрешения франшизы кандидата на точки.
	Authorizations []LocationAuthorization
	// CheckAuthorization включает проверку разрешений: пустой список
	// разрешений при включённой проверке — это отказ, а не пропуск.
	CheckAuthorization bool
}

// Planner валидирует черновики аффектаций. Часы инжектируются, чтобы
// правило «не в прошлом» было детерминированным в тестах.
type Planner struct {
	now func() time.Time
}

// NewPlanner возвращает планировщик на системных часах.
func NewPlanner() *Planner {
	return &Planner{now: time.Now}
}

// NewPlannerWithClock возвращает планировщик с фиксированными часами.
func NewPlannerWithClock(now func() time.Time) *Planner {
	if now == nil {
		now = time.Now
	}
	return &Planner{now: now}
}

// Validate возвращает полный список нарушений по кандидату, а не первое
// найденное: форма подсвечивает сразу все невалидные поля. Пустой срез
// означает, что кандидат можно отправлять во внешнюю систему.
func (p *Planner) Validate(draft AssignmentDraft, in PlannerInput) []error {
	var errs []error

	today := DateOnly(p.now())

	dateValid := true
	if draft.StartDate.IsZero() {
		errs = append(errs, ErrStartDateRequired)
		dateValid = false
	} else if DateOnly(draft.StartDate).Before(today) {
		errs = append(errs, ErrStartDateInPast)
	}

	if !draft.EndDate.IsZero() && dateValid && DateOnly(draft.EndDate).Before(DateOnly(draft.StartDate)) {
		errs = append(errs, ErrEndDateBeforeStart)
	}

	errs = append(errs, validateClockRange(draft.StartTime, draft.EndTime)...)

	if in.Truck != nil && !in.Truck.Assignable() {
		errs = append(errs, ErrTruckUnavailable)
	}

	if in.CheckAuthorization && !authorizedForLocation(draft, in.Authorizations, today) {
		errs = append(errs, ErrLocationNotAuthorized)
	}

	if dateValid {
		if hit := FindConflict(draft, in.Existing, DimensionTruck, draft.ID); hit != nil {
			errs = append(errs, &ConflictError{Dimension: DimensionTruck, ConflictingID: hit.ID})
		}
		if hit := FindConflict(draft, in.Existing, DimensionLocation, draft.ID); hit != nil {
			errs = append(errs, &ConflictError{Dimension: DimensionLocation, ConflictingID: hit.ID})
		}
	}

	return errs
}

// validateClockRange проверяет поля времени кандидата: оба поля должны
// разбираться, и при заполненных обоих конец строго позже начала.
func validateClockRange(startTime, endTime string) []error {
	var errs []error

	startMin, endMin := -1, -1
	if startTime != "" {
		v, err := parseClock(startTime)
		if err != nil {
			errs = append(errs, err)
		} else {
			startMin = v
		}
	}
	if endTime != "" {
		v, err := parseClock(endTime)
		if err != nil {
			errs = append(errs, err)
		} else {
			endMin = v
		}
	}

	if startMin >= 0 && endMin >= 0 && endMin <= startMin {
		errs = append(errs, ErrEndTimeNotAfterStart)
	}

	return errs
}

// authorizedForLocation ищет действующее на дату начала разрешение франшизы
// на точку кандидата.
func authorizedForLocation(draft AssignmentDraft, auths []LocationAuthorization, today time.Time) bool {
	day := DateOnly(draft.StartDate)
	if draft.StartDate.IsZero() {
		day = today
	}
	for _, auth := range auths {
		if auth.LocationID != draft.LocationID {
			continue
		}
		if draft.FranchiseID != "" && auth.FranchiseID != draft.FranchiseID {
			continue
		}
		if auth.ValidOn(day) {
			return true
		}
	}
	return false
}
