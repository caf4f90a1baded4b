package powerfactor

import (
	"errors"
	"time"
)

// Edition pins the power-factor constants of a deployed protocol version.
// The two shipped editions observed on-chain differ in the maximum multiplier,
// the presence of a submission-latency buffer and the availability of the
// minutes unit for test deployments. The authoritative edition is selected by
// config, never merged.
type Edition struct {
	// MaxPowerFactor is the highest multiplier the contract grants
	MaxPowerFactor float64
	// SafetyBuffer is added to every converted duration to absorb block time
	// and submission latency against the contract's strict minimum check
	SafetyBuffer time.Duration
	// AllowMinutes enables the minutes unit, used on test deployments only
	AllowMinutes bool
}

var (
	EditionV1 = Edition{MaxPowerFactor: 9.7}
	EditionV2 = Edition{MaxPowerFactor: 10.7, SafetyBuffer: 300 * time.Second, AllowMinutes: true}
)

var ErrUnknownEdition = errors.New("unknown protocol edition")

func EditionByName(name string) (Edition, error) {
	switch name {
	case "v1":
		return EditionV1, nil
	case "v2":
		return EditionV2, nil
	default:
		return Edition{}, ErrUnknownEdition
	}
}
