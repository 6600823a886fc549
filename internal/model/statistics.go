package model

import "time"

// Statistics are aggregate figures over the whole response collection
type Statistics struct {
	TotalRespondents int `json:"totalRespondents"`

	// Counts
	Adolescents                  int `json:"adolescents"` // age < 18
	Unlicensed                   int `json:"unlicensed"`  // hasLicense == No
	FirstTimers                  int `json:"firstTimers"` // 18-25 and first car
	Targetables                  int `json:"targetables"` // age >= 18 and licensed
	TargetablesWithFuelEmissions int `json:"targetablesWithFuelEmissions"`
	TargetablesWithFwdOrIdk      int `json:"targetablesWithFwdOrIdk"`
	TotalCarsInFamily            int `json:"totalCarsInFamily"`

	// Percentages of total respondents
	PercentageAdolescents float64 `json:"percentageAdolescents"`
	PercentageUnlicensed  float64 `json:"percentageUnlicensed"`
	PercentageFirstTimers float64 `json:"percentageFirstTimers"`
	PercentageTargetables float64 `json:"percentageTargetables"`

	// Percentages of targetables
	PercentageFuelEmissionsCare      float64 `json:"percentageFuelEmissionsCare"`
	PercentageFwdOrUnknownDrivetrain float64 `json:"percentageFwdOrUnknownDrivetrain"`

	AverageCarsInFamily float64 `json:"averageCarsInFamily"`

	ComputedAt time.Time `json:"computedAt"`
}
