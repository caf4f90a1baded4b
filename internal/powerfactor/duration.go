package powerfactor

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Unit string

const (
	UnitMinutes Unit = "minutes"
	UnitDays    Unit = "days"
	UnitMonths  Unit = "months"
	UnitYears   Unit = "years"
)

const (
	SecondsPerDay = 86400
	DaysPerMonth  = 30
	DaysPerYear   = 365
	MaxLockYears  = 6

	// The contract special-cases the 6-year ceiling to exactly 2190 days.
	// Must stay a literal, not 6*365*86400 computed generically.
	maxLockSeconds = 189216000

	minutesPerMonth = DaysPerMonth * 24 * 60

	// locks shorter than this earn a flat x1.0 multiplier
	activationMonths = 6
	maxTotalMonths   = MaxLockYears * 12
)

// DurationToSeconds converts a user-chosen lock duration into the second count
// the staking contract expects. Returns 0 for non-numeric or non-positive
// values; callers must treat 0 as "no duration", not as a real lock.
// The result feeds a contract call argument and is never used for display.
func (e Edition) DurationToSeconds(value string, unit Unit) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || v <= 0 {
		return 0
	}

	var seconds int64
	switch unit {
	case UnitMinutes:
		if !e.AllowMinutes {
			return 0
		}
		seconds = v * 60
	case UnitDays:
		seconds = v * SecondsPerDay
	case UnitMonths:
		seconds = v * DaysPerMonth * SecondsPerDay
	case UnitYears:
		if v == MaxLockYears {
			seconds = maxLockSeconds
		} else {
			seconds = v * DaysPerYear * SecondsPerDay
		}
	default:
		return 0
	}

	return seconds + int64(e.SafetyBuffer/time.Second)
}

// CalculateUnlockDate returns the calendar date the lock expires, for display
// only. Unlike DurationToSeconds it uses true calendar arithmetic (month
// lengths, leap years); the two codepaths are deliberately separate and must
// not be substituted for each other.
func CalculateUnlockDate(value string, unit Unit, start time.Time) (time.Time, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || v <= 0 {
		return time.Time{}, false
	}

	switch unit {
	case UnitMinutes:
		return start.Add(time.Duration(v) * time.Minute), true
	case UnitDays:
		return start.AddDate(0, 0, int(v)), true
	case UnitMonths:
		return start.AddDate(0, int(v), 0), true
	case UnitYears:
		return start.AddDate(int(v), 0, 0), true
	default:
		return time.Time{}, false
	}
}

type ValidationResult struct {
	IsValid        bool
	ErrorMessage   string
	WarningMessage string
}

// ValidateLockDuration checks a lock duration against the protocol bounds.
// Durations below the activation threshold are accepted with a warning: the
// deposit is valid but earns a flat x1.0 multiplier until the threshold is
// reached.
func (e Edition) ValidateLockDuration(value string, unit Unit) ValidationResult {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || v <= 0 {
		return ValidationResult{ErrorMessage: "lock duration must be a positive whole number"}
	}

	var totalMonths float64
	switch unit {
	case UnitMinutes:
		if !e.AllowMinutes {
			return ValidationResult{ErrorMessage: "minutes unit is not supported by this protocol edition"}
		}
		totalMonths = float64(v) / minutesPerMonth
	case UnitDays:
		totalMonths = float64(v) / DaysPerMonth
	case UnitMonths:
		totalMonths = float64(v)
	case UnitYears:
		totalMonths = float64(v) * 12
	default:
		return ValidationResult{ErrorMessage: fmt.Sprintf("unknown duration unit %q", unit)}
	}

	if totalMonths > maxTotalMonths {
		return ValidationResult{ErrorMessage: fmt.Sprintf("maximum lock period is %d years", MaxLockYears)}
	}

	if totalMonths < activationMonths {
		return ValidationResult{
			IsValid:        true,
			WarningMessage: fmt.Sprintf("power factor activates after %d months; this lock earns a flat x1.0 multiplier", activationMonths),
		}
	}

	return ValidationResult{IsValid: true}
}
