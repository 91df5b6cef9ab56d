//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/workoutplanner/internal/calendar"
	"github.com/2beens/workoutplanner/internal/engine"
	"github.com/2beens/workoutplanner/internal/workout"
)

func (s *PlannerTestSuite) TestPlannerFlow() {
	ctx := context.Background()
	t := s.T()

	resp := dispatch(ctx, t, engine.ExercisesAdd, engine.ExercisePayload{Exercise: workout.Exercise{
		ID:    "squat",
		Name:  "Squat",
		Color: "#f00",
		Type:  workout.ProgressionWeightReps,
	}})
	s.Nil(resp.Rejected)
	s.Equal(string(engine.ExercisesAdd), resp.Applied)

	resp = dispatch(ctx, t, engine.PlannerAddItem, engine.AddPlanItemPayload{
		DateISO: "2024-01-01",
		Item:    workout.ExerciseItem{ExerciseID: "squat"},
	})
	s.Nil(resp.Rejected)

	for i, weight := range []float64{100, 110} {
		resp = dispatch(ctx, t, engine.LogsSave, engine.SaveLogPayload{Entry: workout.LogEntry{
			ID:         "log-" + string(rune('a'+i)),
			Day:        calendar.Monday,
			ExerciseID: "squat",
			DateISO:    "2024-01-01",
			Payload:    workout.LogPayload{Sets: workout.Sets{workout.WeightRepsSet{Weight: weight, Reps: 5}}},
		}})
		s.Nil(resp.Rejected)
	}

	status, body := doRequest(ctx, t, http.MethodGet, "/stats/exercises/squat/best", nil)
	s.Require().Equal(http.StatusOK, status)
	var best struct {
		Text string `json:"text"`
	}
	s.Require().NoError(json.Unmarshal(body, &best))
	s.Equal("110 kg", best.Text)

	status, body = doRequest(ctx, t, http.MethodDelete, "/exercises/squat", nil)
	s.Equal(http.StatusConflict, status)
	s.Contains(string(body), "2024-01-01")

	status, _ = doRequest(ctx, t, http.MethodDelete, "/plan/2024-01-01", nil)
	s.Require().Equal(http.StatusOK, status)

	status, _ = doRequest(ctx, t, http.MethodDelete, "/exercises/squat", nil)
	s.Equal(http.StatusOK, status)

	// the saver writes the latest state to postgres in the background
	s.Eventually(func() bool {
		var state string
		err := s.DB.QueryRowContext(ctx, `SELECT state::text FROM planner_snapshot WHERE id = $1`, "suite").Scan(&state)
		if err != nil {
			return false
		}
		return strings.Contains(state, `"exercises"`) && !strings.Contains(state, `"squat"`)
	}, 5*time.Second, 50*time.Millisecond)

	// mutations went through the redis backed limiter
	exists, err := s.redis.Exists(ctx, "rate:planner-mutations").Result()
	s.Require().NoError(err)
	s.Equal(int64(1), exists)
}

func (s *PlannerTestSuite) TestRejectedAction() {
	ctx := context.Background()

	resp := dispatch(ctx, s.T(), engine.ExercisesAdd, engine.ExercisePayload{Exercise: workout.Exercise{
		ID:   "no-name",
		Type: workout.ProgressionWeightReps,
	}})
	s.Require().NotNil(resp.Rejected)
	s.Equal(string(engine.ExercisesSetError), resp.Applied)
}

func (s *PlannerTestSuite) TestUnauthorized() {
	req, err := http.NewRequest(http.MethodGet, serverEndpoint+"/state", nil)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *PlannerTestSuite) TestExportImport() {
	ctx := context.Background()
	t := s.T()

	status, exported := doRequest(ctx, t, http.MethodGet, "/export?format=yaml", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Contains(string(exported), "settings:")

	status, _ = doRequest(ctx, t, http.MethodPost, "/import?format=yaml", exported)
	s.Equal(http.StatusOK, status)

	status, _ = doRequest(ctx, t, http.MethodPost, "/import", []byte(`[1, 2, 3]`))
	s.Equal(http.StatusBadRequest, status)
}
