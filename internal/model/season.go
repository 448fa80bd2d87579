package model

import "time"

// Season is the coarse Indian agricultural season bucket used as a model
// feature and as the key into the weather sensitivity tables.
type Season int

const (
	SeasonMonsoon Season = 1
	SeasonWinter  Season = 2
	SeasonSummer  Season = 3
)

// SeasonOf maps a calendar month to its season. Total over all 12 months:
// Jun-Sep is monsoon, Dec-Feb is winter, everything else is summer.
func SeasonOf(month time.Month) Season {
	switch month {
	case time.June, time.July, time.August, time.September:
		return SeasonMonsoon
	case time.December, time.January, time.February:
		return SeasonWinter
	default:
		return SeasonSummer
	}
}

func (s Season) String() string {
	switch s {
	case SeasonMonsoon:
		return "monsoon"
	case SeasonWinter:
		return "winter"
	case SeasonSummer:
		return "summer"
	default:
		return "unknown"
	}
}
