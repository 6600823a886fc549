package main

import (
	"carsurvey/internal/app"
	"carsurvey/internal/cache"
	"carsurvey/internal/config"
	"carsurvey/internal/model"
	"carsurvey/internal/service"
	"context"
	"fmt"
	"log"
	"time"
)

func str(s string) *string { return &s }

func num(n int) *model.FormValue {
	v := model.FormValue(fmt.Sprint(n))
	return &v
}

// Sample respondents covering every outcome
var respondents = []model.AnswerPatch{
	{Age: num(16), Gender: str("F")},
	{Age: num(34), Gender: str("M"), HasLicense: str("No")},
	{Age: num(21), Gender: str("Other"), HasLicense: str("Yes"), IsFirstCar: str("Yes")},
	{
		Age: num(42), Gender: str("M"), HasLicense: str("Yes"),
		Drivetrain: str("RWD"), FuelConcern: str("No"), CarCount: num(2),
		Cars: []model.CarPatch{
			{Index: 0, Make: str("BMW"), Model: str("320d")},
			{Index: 1, Make: str("Toyota"), Model: str("Corolla")},
		},
	},
	{
		Age: num(23), Gender: str("F"), HasLicense: str("Yes"), IsFirstCar: str("No"),
		Drivetrain: str("FWD"), FuelConcern: str("Yes"), CarCount: num(1),
		Cars: []model.CarPatch{{Index: 0, Make: str("Honda"), Model: str("Civic")}},
	},
	{
		Age: num(57), Gender: str("F"), HasLicense: str("Yes"),
		Drivetrain: str("IDK"), FuelConcern: str("Yes"), CarCount: num(0),
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	// Seeding never needs the shared session cache.
	cfg.SessionBackend = config.BackendMemory

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backends, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open backends: %v", err)
	}
	defer backends.Close(context.Background())

	authSvc := service.NewAuthService(cfg.HostUsername, cfg.HostPassword, cfg.JWTSecret, cfg.SessionTTL)
	statsSvc := service.NewStatisticsService(backends.Responses)
	svc := service.NewQuestionnaireService(backends.Responses, cache.NewMemorySessionCache(cfg.SessionTTL), statsSvc, authSvc)

	for i := range respondents {
		started, err := svc.Start(ctx)
		if err != nil {
			log.Fatalf("Failed to start session: %v", err)
		}
		session, err := svc.Answer(ctx, started.Session.ID, &respondents[i])
		if err != nil {
			log.Fatalf("Failed to answer session: %v", err)
		}
		if !session.State.Terminal() {
			if _, err := svc.Submit(ctx, session.ID); err != nil {
				log.Fatalf("Failed to submit session: %v", err)
			}
		}
	}

	stats, err := statsSvc.Compute(ctx)
	if err != nil {
		log.Fatalf("Failed to compute statistics: %v", err)
	}
	fmt.Printf("Seeded %d responses into %s store (%d total)\n", len(respondents), cfg.StoreBackend, stats.TotalRespondents)
}
