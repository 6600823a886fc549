package service

import "regexp"

var (
	// Numbered series with optional M prefix and d/i suffix: 320d, M5, 118i
	bmwSeriesPattern = regexp.MustCompile(`^(M)?\d+[diDI]?$`)
	// X and Z lines: X3, z4
	bmwLinePattern = regexp.MustCompile(`(?i)^[XZ]\d$`)
)

// ValidateBMWModel reports whether model looks like a BMW model name
func ValidateBMWModel(model string) bool {
	return bmwSeriesPattern.MatchString(model) || bmwLinePattern.MatchString(model)
}
