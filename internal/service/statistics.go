package service

import (
	"carsurvey/internal/model"
	"carsurvey/internal/repository"
	"context"
	"fmt"
	"time"
)

// ComputeStatistics aggregates the whole response collection.
// Percentages with an empty denominator are reported as 0.
func ComputeStatistics(responses []*model.Response) *model.Statistics {
	stats := &model.Statistics{
		TotalRespondents: len(responses),
		ComputedAt:       time.Now().UTC(),
	}

	for _, r := range responses {
		a := answersOf(r)
		if isUnderAge(a) {
			stats.Adolescents++
		}
		if r.HasLicense == model.No {
			stats.Unlicensed++
		}
		if isFirstTimer(a) {
			stats.FirstTimers++
		}
		if isAdult(a) && r.HasLicense == model.Yes {
			stats.Targetables++
			if r.FuelConcern == model.Yes {
				stats.TargetablesWithFuelEmissions++
			}
			if r.Drivetrain == model.DrivetrainFWD || r.Drivetrain == model.DrivetrainUnknown {
				stats.TargetablesWithFwdOrIdk++
			}
		}
		stats.TotalCarsInFamily += r.CarCount
	}

	total := stats.TotalRespondents
	stats.PercentageAdolescents = percent(stats.Adolescents, total)
	stats.PercentageUnlicensed = percent(stats.Unlicensed, total)
	stats.PercentageFirstTimers = percent(stats.FirstTimers, total)
	stats.PercentageTargetables = percent(stats.Targetables, total)
	stats.PercentageFuelEmissionsCare = percent(stats.TargetablesWithFuelEmissions, stats.Targetables)
	stats.PercentageFwdOrUnknownDrivetrain = percent(stats.TargetablesWithFwdOrIdk, stats.Targetables)
	if total > 0 {
		stats.AverageCarsInFamily = float64(stats.TotalCarsInFamily) / float64(total)
	}

	return stats
}

func percent(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) / float64(of) * 100
}

func answersOf(r *model.Response) model.Answers {
	return model.Answers{
		Age:         r.Age,
		Gender:      r.Gender,
		HasLicense:  r.HasLicense,
		IsFirstCar:  r.IsFirstCar,
		Drivetrain:  r.Drivetrain,
		FuelConcern: r.FuelConcern,
		CarCount:    r.CarCount,
	}
}

// StatisticsService computes statistics on demand from the response store
type StatisticsService struct {
	responses repository.ResponseRepo
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(responses repository.ResponseRepo) *StatisticsService {
	return &StatisticsService{responses: responses}
}

// Compute loads every stored response and aggregates it
func (s *StatisticsService) Compute(ctx context.Context) (*model.Statistics, error) {
	responses, err := s.responses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	return ComputeStatistics(responses), nil
}

// Responses returns the stored collection in insertion order
func (s *StatisticsService) Responses(ctx context.Context) ([]*model.Response, error) {
	return s.responses.List(ctx)
}
