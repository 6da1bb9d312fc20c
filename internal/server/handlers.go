package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julianstephens/mealplan/internal/constants"
	apperrors "github.com/julianstephens/mealplan/internal/errors"
	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/models"
	"github.com/julianstephens/mealplan/internal/planner"
)

// generatePlanRequest mirrors the onboarding form submitted by the web UI.
type generatePlanRequest struct {
	Goals struct {
		// WeightManagement is the weekly loss goal in kg, sent as a string
		// by the UI. Plain numbers are accepted too.
		WeightManagement json.RawMessage `json:"weightManagement"`
	} `json:"goals"`
	DietType        string   `json:"dietType"`
	MealPreferences []string `json:"mealPreferences"`
	// MealsPerDay holds the chosen meal slots; only the count is used.
	MealsPerDay []string `json:"mealsPerDay"`
}

type generatePlanResponse struct {
	MealPlan models.MealPlanResult `json:"mealPlan"`
}

type mealsResponse struct {
	Meals []models.Meal `json:"meals"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodyBytes)

	var req generatePlanRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	settings, err := s.store.GetSettings()
	if err != nil {
		logger.Error("Failed to load settings", "error", err)
		writeError(w, http.StatusServiceUnavailable, "settings could not be read")
		return
	}
	models.ApplyDefaultSettings(&settings)

	input, err := req.toInput(settings)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := planner.New(s.store, planner.OptionsFromSettings(settings))
	result, err := p.GeneratePlan(r.Context(), input)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to generate meal plan", "error", err)
		}
		writeError(w, status, apperrors.Describe(err))
		return
	}

	writeJSON(w, http.StatusOK, generatePlanResponse{MealPlan: result})
}

func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request) {
	meals, err := s.store.GetAllMeals()
	if err != nil {
		logger.Error("Failed to fetch meals", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Failed to fetch meals from database")
		return
	}
	if meals == nil {
		meals = []models.Meal{}
	}
	writeJSON(w, http.StatusOK, mealsResponse{Meals: meals})
}

// toInput fills the planning input, taking anything the request omits from
// settings.
func (req generatePlanRequest) toInput(settings models.Settings) (models.UserConstraintInput, error) {
	weight, err := parseWeightGoal(req.Goals.WeightManagement, settings.DefaultWeightLossKg)
	if err != nil {
		return models.UserConstraintInput{}, err
	}

	input := models.UserConstraintInput{
		WeightLossPerWeekKg: weight,
		DietType:            strings.TrimSpace(req.DietType),
		Restrictions:        req.MealPreferences,
		MealsPerDay:         settings.DefaultMealsPerDay,
	}
	if input.DietType == "" {
		input.DietType = settings.DefaultDietType
	}
	if input.Restrictions == nil {
		input.Restrictions = []string{}
	}
	if len(req.MealsPerDay) > 0 {
		input.MealsPerDay = len(req.MealsPerDay)
	}
	return input, nil
}

// parseWeightGoal accepts a JSON string or number. Absent, null and blank
// values fall back to def.
func parseWeightGoal(raw json.RawMessage, def float64) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return def, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			return def, nil
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, fmt.Errorf("goals.weightManagement %q is not a number", text)
		}
		return v, nil
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, errors.New("goals.weightManagement must be a number or numeric string")
	}
	return v, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, planner.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, planner.ErrInfeasibleModel):
		return http.StatusUnprocessableEntity
	case errors.Is(err, planner.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, planner.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}
