package model

import (
	"strings"
	"time"
)

// Gender is the respondent's self-reported gender
type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "Other"
)

// Valid reports whether g is one of the selectable values
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// YesNo is a radio answer. The empty value means not answered yet.
type YesNo string

const (
	Unanswered YesNo = ""
	Yes        YesNo = "Yes"
	No         YesNo = "No"
)

func (v YesNo) Valid() bool {
	return v == Yes || v == No
}

// Drivetrain is the preferred drivetrain
type Drivetrain string

const (
	DrivetrainUnset   Drivetrain = ""
	DrivetrainFWD     Drivetrain = "FWD"
	DrivetrainRWD     Drivetrain = "RWD"
	DrivetrainUnknown Drivetrain = "IDK" // "I don't know"
)

func (d Drivetrain) Valid() bool {
	return d == DrivetrainFWD || d == DrivetrainRWD || d == DrivetrainUnknown
}

// Outcome records how a response was finalized
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeUnderAge  Outcome = "under_age"
	OutcomeNoLicense Outcome = "no_license"
	OutcomeFirstCar  Outcome = "first_car"
)

// Disqualified is true for every early-exit outcome
func (o Outcome) Disqualified() bool {
	return o == OutcomeUnderAge || o == OutcomeNoLicense || o == OutcomeFirstCar
}

// Response is one respondent's finalized answers. It is never modified after append.
type Response struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	SessionID   string     `json:"sessionId" bson:"sessionId"`
	Age         *int       `json:"age" bson:"age"`
	Gender      Gender     `json:"gender" bson:"gender"`
	HasLicense  YesNo      `json:"hasLicense" bson:"hasLicense"`
	IsFirstCar  YesNo      `json:"isFirstCar" bson:"isFirstCar"`
	Drivetrain  Drivetrain `json:"drivetrainOption" bson:"drivetrainOption"`
	FuelConcern YesNo      `json:"isWorriedFuelEmissions" bson:"isWorriedFuelEmissions"`
	CarCount    int        `json:"carNumber" bson:"carNumber"`
	Make        string     `json:"make" bson:"make"`   // comma-joined, one per car
	Model       string     `json:"model" bson:"model"` // comma-joined, one per car
	Outcome     Outcome    `json:"outcome" bson:"outcome"`
	SubmittedAt time.Time  `json:"submittedAt" bson:"submittedAt"`
}

// Clone returns a deep copy so stored records cannot be changed through aliases
func (r *Response) Clone() *Response {
	c := *r
	if r.Age != nil {
		age := *r.Age
		c.Age = &age
	}
	return &c
}

// NewResponse folds in-progress answers and car entries into a Response record
func NewResponse(sessionID string, a Answers, cars []CarEntry, outcome Outcome) *Response {
	makes := make([]string, len(cars))
	models := make([]string, len(cars))
	for i, car := range cars {
		makes[i] = car.Make
		models[i] = car.Model
	}

	r := &Response{
		SessionID:   sessionID,
		Gender:      a.Gender,
		HasLicense:  a.HasLicense,
		IsFirstCar:  a.IsFirstCar,
		Drivetrain:  a.Drivetrain,
		FuelConcern: a.FuelConcern,
		CarCount:    a.CarCount,
		Make:        strings.Join(makes, ", "),
		Model:       strings.Join(models, ", "),
		Outcome:     outcome,
		SubmittedAt: time.Now().UTC(),
	}
	if a.Age != nil {
		age := *a.Age
		r.Age = &age
	}
	return r
}
