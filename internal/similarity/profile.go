package similarity

import "fmt"

// Profile names a preset similarity threshold. Stricter profiles require
// frames to be more alike before one is discarded as a duplicate, so strict
// retains the most frames.
type Profile string

const (
	ProfileStrict  Profile = "strict"
	ProfileDefault Profile = "default"
	ProfileLoose   Profile = "loose"
)

// SSIM thresholds per profile. Two frames are considered duplicates when
// their score reaches the threshold.
const (
	thresholdStrict  = 0.98
	thresholdDefault = 0.95
	thresholdLoose   = 0.90
)

// Threshold returns the SSIM score at or above which a frame pair counts as
// duplicate under this profile.
func (p Profile) Threshold() float64 {
	switch p {
	case ProfileStrict:
		return thresholdStrict
	case ProfileLoose:
		return thresholdLoose
	default:
		return thresholdDefault
	}
}

// ParseProfile validates a profile name from configuration.
func ParseProfile(s string) (Profile, error) {
	switch Profile(s) {
	case ProfileStrict, ProfileDefault, ProfileLoose:
		return Profile(s), nil
	}
	return "", fmt.Errorf("unknown similarity profile %q (must be strict, default or loose)", s)
}
