package service

import (
	"carsurvey/internal/cache"
	"carsurvey/internal/model"
	"carsurvey/internal/repository"
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionClosed     = errors.New("session already finished")
	ErrSessionIncomplete = errors.New("survey is not complete")
)

// maxCarEntries caps the per-car detail list a single respondent can open
const maxCarEntries = 20

// QuestionnaireService runs respondent sessions and appends finalized responses
type QuestionnaireService struct {
	responses   repository.ResponseRepo
	sessions    cache.SessionCache
	stats       *StatisticsService
	authSvc     *AuthService
	broadcaster Broadcaster

	// Edits are load-modify-store on the session cache; one at a time.
	mu sync.Mutex
}

// NewQuestionnaireService creates a new questionnaire service
func NewQuestionnaireService(
	responses repository.ResponseRepo,
	sessions cache.SessionCache,
	stats *StatisticsService,
	authSvc *AuthService,
) *QuestionnaireService {
	return &QuestionnaireService{
		responses: responses,
		sessions:  sessions,
		stats:     stats,
		authSvc:   authSvc,
	}
}

// SetBroadcaster sets the broadcaster for dashboard updates
func (s *QuestionnaireService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start opens a new session on the first question
func (s *QuestionnaireService) Start(ctx context.Context) (*model.StartSessionResponse, error) {
	now := time.Now().UTC()
	session := &model.Session{
		ID:        uuid.New().String(),
		State:     model.StateAgeGender,
		Cars:      []model.CarEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	token, err := s.authSvc.GenerateRespondentToken(session.ID)
	if err != nil {
		// Nobody could ever edit this session without a token
		if delErr := s.sessions.Delete(ctx, session.ID); delErr != nil {
			log.Printf("Failed to remove orphaned session %s: %v", session.ID, delErr)
		}
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.StartSessionResponse{
		Session: session,
		Token:   token,
	}, nil
}

// Get returns a session by ID
func (s *QuestionnaireService) Get(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Answer applies field edits and moves the session to its next step.
// If an early-exit guard fires, the partial response is appended and the
// session ends with a notice.
func (s *QuestionnaireService) Answer(ctx context.Context, id string, patch *model.AnswerPatch) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State.Terminal() {
		return nil, ErrSessionClosed
	}

	applyPatch(session, patch)
	session.State = Resolve(session.Answers, session.Cars)
	session.UpdatedAt = time.Now().UTC()

	if session.State == model.StateDisqualified {
		outcome, _ := Disqualification(session.Answers)
		if _, _, err := s.finalize(ctx, session, outcome); err != nil {
			return nil, err
		}
		return session, nil
	}

	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// Submit finalizes the session. A disqualified session is accepted from any
// step; a completed one only once every required answer is in.
// Completed submissions also return fresh statistics.
func (s *QuestionnaireService) Submit(ctx context.Context, id string) (*model.SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State.Terminal() {
		return nil, ErrSessionClosed
	}

	outcome, disqualified := Disqualification(session.Answers)
	if !disqualified {
		if !readyToComplete(session) {
			return nil, ErrSessionIncomplete
		}
		outcome = model.OutcomeCompleted
	}

	resp, stats, err := s.finalize(ctx, session, outcome)
	if err != nil {
		return nil, err
	}

	result := &model.SubmitResult{
		Session:  session,
		Response: resp,
		Outcome:  outcome,
		Notice:   session.Notice,
	}
	if outcome == model.OutcomeCompleted {
		result.Statistics = stats
	}
	return result, nil
}

func (s *QuestionnaireService) finalize(ctx context.Context, session *model.Session, outcome model.Outcome) (*model.Response, *model.Statistics, error) {
	resp := model.NewResponse(session.ID, session.Answers, session.Cars, outcome)
	if err := s.responses.Append(ctx, resp); err != nil {
		return nil, nil, fmt.Errorf("failed to append response: %w", err)
	}

	if outcome.Disqualified() {
		session.State = model.StateDisqualified
	} else {
		session.State = model.StateSubmitted
	}
	session.Outcome = outcome
	session.Notice = NoticeFor(outcome)
	session.ResponseID = resp.ID
	session.UpdatedAt = time.Now().UTC()

	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to save session: %w", err)
	}
	log.Printf("Session %s finished: %s (response %s)", session.ID, outcome, resp.ID)

	stats, err := s.stats.Compute(ctx)
	if err != nil {
		log.Printf("Statistics after response %s failed: %v", resp.ID, err)
		return resp, nil, nil
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToHosts(MsgStatsUpdate, stats)
	}
	return resp, stats, nil
}

// readyToComplete requires every visible question answered, gender included
func readyToComplete(session *model.Session) bool {
	return Resolve(session.Answers, session.Cars) == model.StateReady && session.Answers.Gender.Valid()
}

// applyPatch copies edits into the session. Values outside their allowed
// set and edits to questions not yet revealed are dropped.
func applyPatch(session *model.Session, p *model.AnswerPatch) {
	if p == nil {
		return
	}
	a := &session.Answers

	if p.Age != nil {
		if age, ok := parseFormInt(string(*p.Age)); ok && age >= 0 {
			a.Age = &age
		} else {
			ignored(session, "age", string(*p.Age))
		}
	}

	if p.Gender != nil {
		if g := model.Gender(*p.Gender); g.Valid() {
			a.Gender = g
		} else {
			ignored(session, "gender", *p.Gender)
		}
	}

	if p.HasLicense != nil {
		if v := model.YesNo(*p.HasLicense); revealsLicense(*a) && v.Valid() {
			a.HasLicense = v
		} else {
			ignored(session, "hasLicense", *p.HasLicense)
		}
	}

	if p.IsFirstCar != nil {
		if v := model.YesNo(*p.IsFirstCar); revealsFirstCar(*a) && v.Valid() {
			a.IsFirstCar = v
		} else {
			ignored(session, "isFirstCar", *p.IsFirstCar)
		}
	}

	if p.Drivetrain != nil {
		if v := model.Drivetrain(*p.Drivetrain); revealsVehicle(*a) && v.Valid() {
			a.Drivetrain = v
		} else {
			ignored(session, "drivetrainOption", *p.Drivetrain)
		}
	}

	if p.FuelConcern != nil {
		if v := model.YesNo(*p.FuelConcern); revealsVehicle(*a) && v.Valid() {
			a.FuelConcern = v
		} else {
			ignored(session, "isWorriedFuelEmissions", *p.FuelConcern)
		}
	}

	if p.CarCount != nil {
		if revealsVehicle(*a) {
			setCarCount(session, string(*p.CarCount))
		} else {
			ignored(session, "carNumber", string(*p.CarCount))
		}
	}

	for _, cp := range p.Cars {
		if !revealsCarDetails(*a) || cp.Index < 0 || cp.Index >= len(session.Cars) {
			ignored(session, "cars", strconv.Itoa(cp.Index))
			continue
		}
		applyCarPatch(session, &session.Cars[cp.Index], cp)
	}
}

// setCarCount coerces non-numeric or negative input to 0. A changed count
// resets the per-car entries.
func setCarCount(session *model.Session, raw string) {
	n, ok := parseFormInt(raw)
	if !ok || n < 0 {
		n = 0
	}
	if n > maxCarEntries {
		n = maxCarEntries
	}

	a := &session.Answers
	changed := !a.CarCountSet || a.CarCount != n
	a.CarCount = n
	a.CarCountSet = true
	if changed {
		session.Cars = make([]model.CarEntry, n)
	}
}

func applyCarPatch(session *model.Session, car *model.CarEntry, cp model.CarPatch) {
	if cp.Make != nil {
		if *cp.Make == "" || model.IsPopularMake(*cp.Make) {
			car.Make = *cp.Make
		} else {
			ignored(session, "cars.make", *cp.Make)
		}
	}
	if cp.Model != nil {
		car.Model = strings.TrimSpace(*cp.Model)
	}

	if car.Make == "BMW" {
		valid := ValidateBMWModel(car.Model)
		car.ValidModel = &valid
	} else {
		car.ValidModel = nil
	}
}

func ignored(session *model.Session, field, value string) {
	log.Printf("Session %s: ignoring %s=%q", session.ID, field, value)
}

// parseFormInt reads a leading integer the way browsers read numeric form
// input: surrounding space is dropped and trailing junk after the digits is ignored.
func parseFormInt(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
