package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// SessionState is a named step of the questionnaire
type SessionState string

const (
	StateAgeGender    SessionState = "age_gender"
	StateLicense      SessionState = "license"
	StateFirstCar     SessionState = "first_car"
	StateVehicle      SessionState = "vehicle" // drivetrain, fuel emissions, car count
	StateCarDetails   SessionState = "car_details"
	StateReady        SessionState = "ready"
	StateSubmitted    SessionState = "submitted"
	StateDisqualified SessionState = "disqualified"
)

// Terminal states accept no further edits
func (s SessionState) Terminal() bool {
	return s == StateSubmitted || s == StateDisqualified
}

// PopularCarMakes are the makes offered for each car entry
var PopularCarMakes = []string{"BMW", "Toyota", "Honda", "Ford", "Chevrolet"}

// IsPopularMake reports whether name is one of PopularCarMakes
func IsPopularMake(name string) bool {
	for _, m := range PopularCarMakes {
		if m == name {
			return true
		}
	}
	return false
}

// Answers are the respondent's in-progress answers
type Answers struct {
	Age         *int       `json:"age"`
	Gender      Gender     `json:"gender"`
	HasLicense  YesNo      `json:"hasLicense"`
	IsFirstCar  YesNo      `json:"isFirstCar"`
	Drivetrain  Drivetrain `json:"drivetrainOption"`
	FuelConcern YesNo      `json:"isWorriedFuelEmissions"`
	CarCount    int        `json:"carNumber"`
	CarCountSet bool       `json:"carNumberSet"`
}

// CarEntry is a transient per-car make/model pair
type CarEntry struct {
	Make       string `json:"make"`
	Model      string `json:"model"`
	ValidModel *bool  `json:"validModel,omitempty"` // only set for BMW
}

// Complete reports whether both make and model are filled in
func (c CarEntry) Complete() bool {
	return c.Make != "" && c.Model != ""
}

// Session is a respondent's questionnaire in progress
type Session struct {
	ID         string       `json:"id"`
	State      SessionState `json:"state"`
	Answers    Answers      `json:"answers"`
	Cars       []CarEntry   `json:"cars"`
	Outcome    Outcome      `json:"outcome,omitempty"`
	Notice     string       `json:"notice,omitempty"`
	ResponseID string       `json:"responseId,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// FormValue is raw field input. It accepts JSON strings or numbers so
// clients can forward form values untouched.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	*v = FormValue(data)
	return nil
}

// CarPatch edits one car entry by index
type CarPatch struct {
	Index int     `json:"index"`
	Make  *string `json:"make,omitempty"`
	Model *string `json:"model,omitempty"`
}

// AnswerPatch is a batch of field edits. Nil fields are left untouched.
type AnswerPatch struct {
	Age         *FormValue `json:"age,omitempty"`
	Gender      *string    `json:"gender,omitempty"`
	HasLicense  *string    `json:"hasLicense,omitempty"`
	IsFirstCar  *string    `json:"isFirstCar,omitempty"`
	Drivetrain  *string    `json:"drivetrainOption,omitempty"`
	FuelConcern *string    `json:"isWorriedFuelEmissions,omitempty"`
	CarCount    *FormValue `json:"carNumber,omitempty"`
	Cars        []CarPatch `json:"cars,omitempty"`
}

// StartSessionResponse is returned when a respondent starts the survey
type StartSessionResponse struct {
	Session *Session `json:"session"`
	Token   string   `json:"token"`
}

// SubmitResult is the outcome of a submission or disqualification
type SubmitResult struct {
	Session    *Session    `json:"session"`
	Response   *Response   `json:"response"`
	Outcome    Outcome     `json:"outcome"`
	Notice     string      `json:"notice"`
	Statistics *Statistics `json:"statistics,omitempty"`
}
