package service

import (
	"carsurvey/internal/model"
)

// Notices shown when the questionnaire ends
const (
	NoticeUnderAge  = "Thank you for your interest, but you are under 18."
	NoticeNoLicense = "Thank you for your interest, but you prefer using other transport"
	NoticeFirstCar  = "We are targeting more experienced clients. Thank you for your interest."
	NoticeCompleted = "Thank you for completing the survey!"
)

// NoticeFor returns the message shown for an outcome
func NoticeFor(o model.Outcome) string {
	switch o {
	case model.OutcomeUnderAge:
		return NoticeUnderAge
	case model.OutcomeNoLicense:
		return NoticeNoLicense
	case model.OutcomeFirstCar:
		return NoticeFirstCar
	case model.OutcomeCompleted:
		return NoticeCompleted
	}
	return ""
}

// Guard predicates

func isUnderAge(a model.Answers) bool {
	return a.Age != nil && *a.Age < 18
}

func isAdult(a model.Answers) bool {
	return a.Age != nil && *a.Age >= 18
}

func isYoungDriver(a model.Answers) bool {
	return a.Age != nil && *a.Age >= 18 && *a.Age <= 25
}

func isFirstTimer(a model.Answers) bool {
	return isYoungDriver(a) && a.IsFirstCar == model.Yes
}

func revealsLicense(a model.Answers) bool {
	return isAdult(a)
}

func revealsFirstCar(a model.Answers) bool {
	return isYoungDriver(a) && a.HasLicense == model.Yes
}

func revealsVehicle(a model.Answers) bool {
	if !isAdult(a) || a.HasLicense != model.Yes {
		return false
	}
	return !isYoungDriver(a) || a.IsFirstCar == model.No
}

func revealsCarDetails(a model.Answers) bool {
	return revealsVehicle(a) && a.CarCount > 0
}

// Disqualification returns the early-exit outcome that applies to a, if any.
// Guards are checked in order: under age, no license, first car.
func Disqualification(a model.Answers) (model.Outcome, bool) {
	switch {
	case isUnderAge(a):
		return model.OutcomeUnderAge, true
	case a.HasLicense == model.No:
		return model.OutcomeNoLicense, true
	case isFirstTimer(a):
		return model.OutcomeFirstCar, true
	}
	return "", false
}

// Resolve returns the step a respondent with these answers is on.
// It never returns StateSubmitted; that is reached only through Submit.
func Resolve(a model.Answers, cars []model.CarEntry) model.SessionState {
	if _, ok := Disqualification(a); ok {
		return model.StateDisqualified
	}
	if a.Age == nil {
		return model.StateAgeGender
	}
	if a.HasLicense == model.Unanswered {
		return model.StateLicense
	}
	if revealsFirstCar(a) && a.IsFirstCar == model.Unanswered {
		return model.StateFirstCar
	}
	if !a.Drivetrain.Valid() || !a.FuelConcern.Valid() || !a.CarCountSet {
		return model.StateVehicle
	}
	if revealsCarDetails(a) {
		if len(cars) < a.CarCount {
			return model.StateCarDetails
		}
		for _, car := range cars[:a.CarCount] {
			if !car.Complete() {
				return model.StateCarDetails
			}
		}
	}
	return model.StateReady
}
