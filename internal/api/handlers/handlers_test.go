package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"mission-control/internal/api/models"
	"mission-control/internal/budget"
	"mission-control/internal/chat"
	"mission-control/internal/dashboard"
	"mission-control/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCompleter struct {
	chunks []string
	err    error

	gotSystem   string
	gotMessages []chat.Message
}

func (f *fakeCompleter) Stream(ctx context.Context, system string, messages []chat.Message, emit func(string) error) error {
	f.gotSystem = system
	f.gotMessages = messages
	for _, c := range f.chunks {
		if err := emit(c); err != nil {
			return err
		}
	}
	return f.err
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "handlers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func do(t *testing.T, h gin.HandlerFunc, method, route, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	r := gin.New()
	r.Handle(method, route, h)
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorDetail {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Error
}

func TestGetData_FallbackWithoutDatabase(t *testing.T) {
	h := NewDataHandler(dashboard.NewService(nil, nil, nil), "", false)

	w := do(t, h.GetData, http.MethodGet, "/api/data", "/api/data", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, true, raw["_fallback"])
	assert.Equal(t, dashboard.ErrNotConnected, raw["_error"])
	assert.Len(t, raw["team"], 4)
	assert.Len(t, raw["alerts"], 3)
}

func TestGetData_FromDatabase(t *testing.T) {
	s := openStore(t)
	_, err := s.Seed(context.Background())
	require.NoError(t, err)
	h := NewDataHandler(dashboard.NewService(s, nil, nil), "", false)

	w := do(t, h.GetData, http.MethodGet, "/api/data", "/api/data", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var p dashboard.Payload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.False(t, p.Fallback)
	assert.Empty(t, p.Error)
	assert.Equal(t, int64(85000), p.Metrics.BudgetDeficit)
	assert.Len(t, p.Team, len(store.SeedTeam()))
	assert.Len(t, p.Alerts, len(store.SeedAlerts()))
}

func TestDailyBriefing_CronAuth(t *testing.T) {
	svc := dashboard.NewService(nil, nil, nil)

	tests := []struct {
		name    string
		secret  string
		enforce bool
		header  string
		want    int
	}{
		{name: "not enforced", secret: "s3cret", enforce: false, want: http.StatusOK},
		{name: "enforced without secret", enforce: true, want: http.StatusOK},
		{name: "enforced wrong token", secret: "s3cret", enforce: true, header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "enforced missing token", secret: "s3cret", enforce: true, want: http.StatusUnauthorized},
		{name: "enforced good token", secret: "s3cret", enforce: true, header: "Bearer s3cret", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewDataHandler(svc, tt.secret, tt.enforce)
			r := gin.New()
			r.GET("/api/cron/daily-briefing", h.DailyBriefing)
			req := httptest.NewRequest(http.MethodGet, "/api/cron/daily-briefing", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.want, w.Code, w.Body.String())
			if tt.want == http.StatusOK {
				var resp models.BriefingResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.True(t, resp.Success)
				assert.Len(t, resp.Briefing.Priorities, 3)
			} else {
				assert.Equal(t, "UNAUTHORIZED", decodeError(t, w).Code)
			}
		})
	}
}

func TestChat_StreamsChunks(t *testing.T) {
	fc := &fakeCompleter{chunks: []string{"Hello", ", ", "Mark"}}
	h := NewChatHandler(fc, nil)

	body := models.ChatRequest{
		Messages:   []chat.Message{{Role: "user", Content: "status?"}},
		MemberRole: "Executive Director",
	}
	w := do(t, h.Chat, http.MethodPost, "/api/chat", "/api/chat", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello, Mark", w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Equal(t, chat.SystemPrompt("Executive Director"), fc.gotSystem)
	assert.Equal(t, body.Messages, fc.gotMessages)
}

func TestChat_Errors(t *testing.T) {
	msgs := models.ChatRequest{Messages: []chat.Message{{Role: "user", Content: "hi"}}}

	t.Run("not configured", func(t *testing.T) {
		w := do(t, NewChatHandler(nil, nil).Chat, http.MethodPost, "/api/chat", "/api/chat", msgs)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "CHAT_NOT_CONFIGURED", decodeError(t, w).Code)
	})

	t.Run("missing messages", func(t *testing.T) {
		w := do(t, NewChatHandler(&fakeCompleter{}, nil).Chat, http.MethodPost, "/api/chat", "/api/chat", "{}")
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_REQUEST", decodeError(t, w).Code)
	})

	t.Run("no usable messages", func(t *testing.T) {
		fc := &fakeCompleter{err: chat.ErrNoMessages}
		w := do(t, NewChatHandler(fc, nil).Chat, http.MethodPost, "/api/chat", "/api/chat", msgs)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("upstream failure before first chunk", func(t *testing.T) {
		fc := &fakeCompleter{err: errors.New("quota exceeded")}
		w := do(t, NewChatHandler(fc, nil).Chat, http.MethodPost, "/api/chat", "/api/chat", msgs)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		d := decodeError(t, w)
		assert.Equal(t, "CHAT_ERROR", d.Code)
		assert.Contains(t, d.Message, "quota")
	})

	t.Run("upstream failure mid stream keeps partial body", func(t *testing.T) {
		fc := &fakeCompleter{chunks: []string{"partial"}, err: errors.New("reset")}
		w := do(t, NewChatHandler(fc, nil).Chat, http.MethodPost, "/api/chat", "/api/chat", msgs)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "partial", w.Body.String())
	})
}

func TestRecords_NoDatabase(t *testing.T) {
	h := NewRecordsHandler(nil, nil)

	for name, fn := range map[string]gin.HandlerFunc{
		"metrics": h.GetMetrics,
		"team":    h.ListTeam,
		"alerts":  h.ListAlerts,
		"seed":    h.Seed,
	} {
		t.Run(name, func(t *testing.T) {
			w := do(t, fn, http.MethodGet, "/x", "/x", nil)
			require.Equal(t, http.StatusServiceUnavailable, w.Code)
			assert.Equal(t, "DATABASE_NOT_CONNECTED", decodeError(t, w).Code)
		})
	}

	w := do(t, h.SeedStatus, http.MethodGet, "/api/seed", "/api/seed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status models.SeedStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "not connected", status.Status)
}

func TestSeed_Idempotent(t *testing.T) {
	s := openStore(t)
	h := NewRecordsHandler(s, dashboard.NewService(s, nil, nil))

	w := do(t, h.Seed, http.MethodPost, "/api/seed", "/api/seed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var first models.SeedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.True(t, first.Success)
	assert.True(t, first.Inserted.Inserted())

	w = do(t, h.Seed, http.MethodPost, "/api/seed", "/api/seed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var second models.SeedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.False(t, second.Inserted.Inserted())

	w = do(t, h.SeedStatus, http.MethodGet, "/api/seed", "/api/seed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status models.SeedStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "ready", status.Status)
	require.NotNil(t, status.Metrics)
	assert.Len(t, status.TeamMembers, len(store.SeedTeam()))
	assert.Len(t, status.Alerts, len(store.SeedAlerts()))
}

func TestAlerts_CreateAndDelete(t *testing.T) {
	s := openStore(t)
	h := NewRecordsHandler(s, nil)

	w := do(t, h.CreateAlert, http.MethodPost, "/api/alerts", "/api/alerts",
		models.CreateAlertRequest{Title: "Board meeting", Type: "warning"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Alert store.Alert `json:"alert"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.Alert.ID)
	assert.Equal(t, store.AlertType("warning"), created.Alert.Type)

	w = do(t, h.CreateAlert, http.MethodPost, "/api/alerts", "/api/alerts",
		models.CreateAlertRequest{Title: "Bad", Type: "panic"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h.DeleteAlert, http.MethodDelete, "/api/alerts/:id", "/api/alerts/"+strconv.FormatInt(created.Alert.ID, 10), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h.DeleteAlert, http.MethodDelete, "/api/alerts/:id", "/api/alerts/"+strconv.FormatInt(created.Alert.ID, 10), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h.DeleteAlert, http.MethodDelete, "/api/alerts/:id", "/api/alerts/abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeamMember(t *testing.T) {
	s := openStore(t)
	_, err := s.Seed(context.Background())
	require.NoError(t, err)
	h := NewRecordsHandler(s, nil)

	w := do(t, h.GetTeamMember, http.MethodGet, "/api/team/:id", "/api/team/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Member store.TeamMember `json:"member"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, store.SeedTeam()[0].Name, resp.Member.Name)

	w = do(t, h.GetTeamMember, http.MethodGet, "/api/team/:id", "/api/team/999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, w).Code)
}

func TestUpdateMetrics_InvalidatesDashboard(t *testing.T) {
	s := openStore(t)
	_, err := s.Seed(context.Background())
	require.NoError(t, err)
	cache := dashboard.NewCache(time.Minute, 0)
	defer cache.Close()
	svc := dashboard.NewService(s, cache, nil)
	h := NewRecordsHandler(s, svc)

	before := svc.Load(context.Background())
	require.Equal(t, int64(85000), before.Metrics.ProjectedRevenue)

	w := do(t, h.UpdateMetrics, http.MethodPatch, "/api/metrics", "/api/metrics", `{"projected_revenue": 70000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	after := svc.Load(context.Background())
	assert.Equal(t, int64(70000), after.Metrics.ProjectedRevenue)
	assert.Equal(t, int64(85000), after.Metrics.BudgetDeficit)
}

func TestBudget_ListStreams(t *testing.T) {
	h := NewBudgetHandler(budget.NewSnapshotStore(t.TempDir()), nil, nil)

	w := do(t, h.ListStreams, http.MethodGet, "/api/budget/streams", "/api/budget/streams", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.StreamsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, budget.DefaultDeficit, resp.Deficit)
	assert.Equal(t, budget.DefaultStreams(), resp.Streams)
	require.Len(t, resp.Scenarios, 3)
	assert.Equal(t, budget.Conservative, resp.Scenarios[0].Name)
}

func TestBudget_Calculate(t *testing.T) {
	h := NewBudgetHandler(budget.NewSnapshotStore(t.TempDir()), nil, nil)

	tests := []struct {
		name string
		body string
		code int
		want budget.Result
	}{
		{
			name: "defaults",
			body: `{}`,
			code: http.StatusOK,
			want: budget.Result{TotalProjected: 85000, GapCovered: 100, IsDeficitClosed: true},
		},
		{
			name: "conservative",
			body: `{"scenario":"conservative"}`,
			code: http.StatusOK,
			want: budget.Result{TotalProjected: 63750, Gap: 21250, GapCovered: 75},
		},
		{
			name: "override",
			body: `{"scenario":"optimistic","streams":[{"id":"services","value":0}]}`,
			code: http.StatusOK,
			want: budget.Result{TotalProjected: 92000, Gap: -7000, GapCovered: 100, Surplus: 7000, IsDeficitClosed: true},
		},
		{name: "unknown scenario", body: `{"scenario":"wild"}`, code: http.StatusBadRequest},
		{name: "unknown stream", body: `{"streams":[{"id":"lottery","value":1}]}`, code: http.StatusBadRequest},
		{name: "out of range", body: `{"streams":[{"id":"grants","value":50001}]}`, code: http.StatusBadRequest},
		{name: "malformed", body: `{"streams":`, code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h.Calculate, http.MethodPost, "/api/budget/calculate", "/api/budget/calculate", tt.body)
			require.Equal(t, tt.code, w.Code, w.Body.String())
			if tt.code != http.StatusOK {
				return
			}
			var resp models.BudgetResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Calculations)
			assert.Len(t, resp.Breakdown, 4)
		})
	}
}

func TestBudget_SaveAndSnapshot(t *testing.T) {
	snapshots := budget.NewSnapshotStore(t.TempDir())

	t.Run("no snapshot yet", func(t *testing.T) {
		h := NewBudgetHandler(snapshots, nil, nil)
		w := do(t, h.GetSnapshot, http.MethodGet, "/api/budget/snapshot", "/api/budget/snapshot", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("without database", func(t *testing.T) {
		h := NewBudgetHandler(snapshots, nil, nil)
		w := do(t, h.SaveScenario, http.MethodPost, "/api/budget/scenarios", "/api/budget/scenarios",
			`{"scenario":"conservative"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp models.SaveScenarioResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.False(t, resp.Persisted)
		assert.Nil(t, resp.Saved)

		w = do(t, h.ListScenarios, http.MethodGet, "/api/budget/scenarios", "/api/budget/scenarios", nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("with database", func(t *testing.T) {
		s := openStore(t)
		h := NewBudgetHandler(snapshots, s, nil)

		w := do(t, h.SaveScenario, http.MethodPost, "/api/budget/scenarios", "/api/budget/scenarios",
			`{"user_id":"mark","scenario":"optimistic"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp models.SaveScenarioResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Persisted)
		require.NotNil(t, resp.Saved)
		assert.Equal(t, "mark", resp.Saved.UserID)
		assert.Equal(t, "optimistic", resp.Saved.ScenarioType)

		w = do(t, h.ListScenarios, http.MethodGet, "/api/budget/scenarios", "/api/budget/scenarios?user_id=mark", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var list struct {
			Scenarios []store.BudgetScenario `json:"scenarios"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list.Scenarios, 1)

		w = do(t, h.ListScenarios, http.MethodGet, "/api/budget/scenarios", "/api/budget/scenarios", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Empty(t, list.Scenarios)
	})

	t.Run("latest snapshot wins", func(t *testing.T) {
		h := NewBudgetHandler(snapshots, nil, nil)
		w := do(t, h.GetSnapshot, http.MethodGet, "/api/budget/snapshot", "/api/budget/snapshot", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Snapshot budget.Snapshot `json:"snapshot"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, budget.Optimistic, resp.Snapshot.Scenario)
		assert.Equal(t, int64(97750), resp.Snapshot.Calculations.TotalProjected)
	})
}
