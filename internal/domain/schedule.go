package domain

// Dimension задаёт измерение проверки конфликтов: по траку или по точке.
// Кандидат принимается, только если обе проверки не нашли пересечений.
type Dimension string

const (
	DimensionTruck    Dimension = "truck"
	DimensionLocation Dimension = "location"
)

// FindConflict ищет первую непогашенную аффектацию, пересекающуюся с
// кандидатом в заданном измерении. Отменённые записи и запись с excludeID
// (редактируемая) не участвуют. Возвращает nil, если пересечений нет.
//
// Интервалы дат сравниваются симметрично с включительными границами.
// Время дня — вторичное уточнение только для случая, когда кандидат и
// найденная по датам запись занимают один и тот же единственный день:
// непересекающиеся диапазоны времени в этот день конфликтом не считаются.
// Для многодневных пересечений время игнорируется — решает проверка дат.
func FindConflict(candidate AssignmentDraft, existing []Assignment, dimension Dimension, excludeID string) *Assignment {
	for _, other := range existing {
		if other.Status == AssignmentStatusCancelled {
			continue
		}
		if excludeID != "" && other.ID == excludeID {
			continue
		}

		switch dimension {
		case DimensionTruck:
			if other.TruckID != candidate.TruckID {
				continue
			}
		case DimensionLocation:
			if other.LocationID != candidate.LocationID {
				continue
			}
		default:
			continue
		}

		if !datesOverlap(candidate.StartDate, candidate.EffectiveEnd(), other.StartDate, other.EffectiveEnd()) {
			continue
		}

		if resolvedByClock(candidate, other) {
			continue
		}

		conflict := other
		return &conflict
	}

	return nil
}

// resolvedByClock сообщает, снимается ли конфликт дат расписанием в рамках
// одного дня. Любое отсутствующее или нечитаемое поле времени оставляет
// конфликт в силе.
func resolvedByClock(candidate AssignmentDraft, other Assignment) bool {
	if !candidate.SingleDay() || !other.SingleDay() {
		return false
	}
	if !DateOnly(candidate.StartDate).Equal(DateOnly(other.StartDate)) {
		return false
	}
	if candidate.StartTime == "" || candidate.EndTime == "" || other.StartTime == "" || other.EndTime == "" {
		return false
	}

	candStart, err := parseClock(candidate.StartTime)
	if err != nil {
		return false
	}
	candEnd, err := parseClock(candidate.EndTime)
	if err != nil {
		return false
	}
	otherStart, err := parseClock(other.StartTime)
	if err != nil {
		return false
	}
	otherEnd, err := parseClock(other.EndTime)
	if err != nil {
		return false
	}

	return !clockRangesOverlap(candStart, candEnd, otherStart, otherEnd)
}
