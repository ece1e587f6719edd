package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"

	"github.com/wricardo/fleetreach/game/config"
	"github.com/wricardo/fleetreach/game/engine"
	"github.com/wricardo/fleetreach/game/service"
	"github.com/wricardo/fleetreach/transport/websocket"
)

// MockPlannerService implements service.PlannerService for testing
type MockPlannerService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, mapID string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error
	ResetSessionFunc  func(ctx context.Context, sessionID string) (*service.Report, error)

	// Queries
	UpdateQueryFunc func(ctx context.Context, sessionID string, update service.QueryUpdate) (*service.Report, error)
	GetReportFunc   func(ctx context.Context, sessionID string) (*service.Report, error)
	GetCostFunc     func(ctx context.Context, sessionID string, destination int, speed uint32) (*service.CostInfo, error)
	EvaluateFunc    func(ctx context.Context, req service.EvaluateRequest) (*service.Report, error)

	// Maps
	ListMapsFunc func(ctx context.Context) ([]*service.MapInfo, error)
	LoadMapFunc  func(ctx context.Context, mapID string) (*engine.MapConfig, error)
	SaveMapFunc  func(ctx context.Context, mapID string, config *engine.MapConfig) error
}

func testReport(sessionID string) *service.Report {
	return &service.Report{
		SessionID:      sessionID,
		MapID:          "standard",
		State:          engine.PlannerState{Speed: 30, Mode: engine.ModePlanet, Source: 0, Energy: 100},
		Source:         engine.Vec3{X: 8, Y: 8, Z: 8},
		SourceName:     "ミニュアス",
		ReachableCount: 3,
		Rows: []engine.Row{
			{ID: 1, Name: "キュクレウス", Distance: 17, Turns: 1, Energy: 17},
			{ID: 2, Name: "ヒュプノイア", Distance: 11, Turns: 1, Energy: 11},
		},
	}
}

// Session Management
func (m *MockPlannerService) CreateSession(ctx context.Context, mapID string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, mapID)
	}
	return &service.SessionInfo{
		ID:        "test-session",
		MapID:     mapID,
		CreatedAt: time.Now(),
	}, nil
}

func (m *MockPlannerService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:        sessionID,
		MapID:     "standard",
		CreatedAt: time.Now(),
	}, nil
}

func (m *MockPlannerService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockPlannerService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockPlannerService) ResetSession(ctx context.Context, sessionID string) (*service.Report, error) {
	if m.ResetSessionFunc != nil {
		return m.ResetSessionFunc(ctx, sessionID)
	}
	return testReport(sessionID), nil
}

// Queries
func (m *MockPlannerService) UpdateQuery(ctx context.Context, sessionID string, update service.QueryUpdate) (*service.Report, error) {
	if m.UpdateQueryFunc != nil {
		return m.UpdateQueryFunc(ctx, sessionID, update)
	}
	return testReport(sessionID), nil
}

func (m *MockPlannerService) GetReport(ctx context.Context, sessionID string) (*service.Report, error) {
	if m.GetReportFunc != nil {
		return m.GetReportFunc(ctx, sessionID)
	}
	return testReport(sessionID), nil
}

func (m *MockPlannerService) GetCost(ctx context.Context, sessionID string, destination int, speed uint32) (*service.CostInfo, error) {
	if m.GetCostFunc != nil {
		return m.GetCostFunc(ctx, sessionID, destination, speed)
	}
	return &service.CostInfo{SessionID: sessionID, Destination: destination, Speed: speed}, nil
}

func (m *MockPlannerService) Evaluate(ctx context.Context, req service.EvaluateRequest) (*service.Report, error) {
	if m.EvaluateFunc != nil {
		return m.EvaluateFunc(ctx, req)
	}
	return testReport(""), nil
}

// Maps
func (m *MockPlannerService) ListMaps(ctx context.Context) ([]*service.MapInfo, error) {
	if m.ListMapsFunc != nil {
		return m.ListMapsFunc(ctx)
	}
	return []*service.MapInfo{}, nil
}

func (m *MockPlannerService) LoadMap(ctx context.Context, mapID string) (*engine.MapConfig, error) {
	if m.LoadMapFunc != nil {
		return m.LoadMapFunc(ctx, mapID)
	}
	return &engine.MapConfig{
		Name:        mapID,
		Description: "Test map",
	}, nil
}

func (m *MockPlannerService) SaveMap(ctx context.Context, mapID string, config *engine.MapConfig) error {
	if m.SaveMapFunc != nil {
		return m.SaveMapFunc(ctx, mapID, config)
	}
	return nil
}

// Test helpers
func setupTestServer(t *testing.T, mockService *MockPlannerService) (*Server, *websocket.Hub) {
	hub := websocket.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return NewServer(mockService, hub), hub
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func serve(t *testing.T, mockService *MockPlannerService, req *http.Request) *httptest.ResponseRecorder {
	server, _ := setupTestServer(t, mockService)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func uint32Ptr(v uint32) *uint32 { return &v }

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]string
		setupMock      func(*MockPlannerService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default map",
			requestBody: nil,
			setupMock: func(m *MockPlannerService) {
				m.CreateSessionFunc = func(ctx context.Context, mapID string) (*service.SessionInfo, error) {
					if mapID != "" {
						t.Errorf("Expected empty map id, got %s", mapID)
					}
					return &service.SessionInfo{
						ID:             "sess-123",
						MapID:          "standard",
						CreatedAt:      time.Now(),
						LastAccessedAt: time.Now(),
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "sess-123" {
					t.Errorf("Expected session ID sess-123, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with specific map",
			requestBody: map[string]string{"map_id": "triangle"},
			setupMock: func(m *MockPlannerService) {
				m.CreateSessionFunc = func(ctx context.Context, mapID string) (*service.SessionInfo, error) {
					return &service.SessionInfo{ID: "sess-456", MapID: mapID}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.MapID != "triangle" {
					t.Errorf("Expected map id 'triangle', got %s", resp.MapID)
				}
			},
		},
		{
			name:        "Unknown map",
			requestBody: map[string]string{"map_id": "missing"},
			setupMock: func(m *MockPlannerService) {
				m.CreateSessionFunc = func(ctx context.Context, mapID string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: '%s'", service.ErrMapNotFound, mapID)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "Handle service error",
			requestBody: nil,
			setupMock: func(m *MockPlannerService) {
				m.CreateSessionFunc = func(ctx context.Context, mapID string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("Expected error message 'service error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockPlannerService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			w := serve(t, mockService, makeRequest("POST", "/api/sessions", tt.requestBody))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sessions := func() []*service.SessionInfo {
		return []*service.SessionInfo{
			{ID: "sess-1", CreatedAt: base, LastAccessedAt: base.Add(3 * time.Minute)},
			{ID: "sess-2", CreatedAt: base.Add(time.Minute), LastAccessedAt: base.Add(time.Minute)},
			{ID: "sess-3", CreatedAt: base.Add(2 * time.Minute), LastAccessedAt: base.Add(2 * time.Minute)},
		}
	}

	tests := []struct {
		name        string
		query       string
		expectedIDs []string
	}{
		{"Default sort by access desc", "", []string{"sess-1", "sess-3", "sess-2"}},
		{"Sort by creation asc", "?sort=created&order=asc", []string{"sess-1", "sess-2", "sess-3"}},
		{"Sort by creation desc with limit", "?sort=created&limit=2", []string{"sess-3", "sess-2"}},
		{"Invalid limit is ignored", "?limit=abc", []string{"sess-1", "sess-3", "sess-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockPlannerService{
				ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
					return sessions(), nil
				},
			}

			w := serve(t, mockService, makeRequest("GET", "/api/sessions"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}

			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)

			if resp.Count != len(tt.expectedIDs) {
				t.Errorf("Expected count %d, got %d", len(tt.expectedIDs), resp.Count)
			}
			if resp.Total != 3 {
				t.Errorf("Expected total 3, got %d", resp.Total)
			}
			for i, id := range tt.expectedIDs {
				if resp.Sessions[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, resp.Sessions[i].ID)
				}
			}
		})
	}

	t.Run("Handle service error", func(t *testing.T) {
		mockService := &MockPlannerService{
			ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
				return nil, fmt.Errorf("storage error")
			},
		}
		w := serve(t, mockService, makeRequest("GET", "/api/sessions", nil))
		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected status 500, got %d", w.Code)
		}
	})
}

func TestGetSession(t *testing.T) {
	tests := []struct {
		name           string
		sessionID      string
		setupMock      func(*MockPlannerService)
		expectedStatus int
	}{
		{
			name:           "Existing session",
			sessionID:      "sess-123",
			expectedStatus: http.StatusOK,
		},
		{
			name:      "Missing session",
			sessionID: "nope",
			setupMock: func(m *MockPlannerService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: %s", service.ErrSessionNotFound, sessionID)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockPlannerService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			w := serve(t, mockService, makeRequest("GET", "/api/sessions/"+tt.sessionID, nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if w.Code == http.StatusOK {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != tt.sessionID {
					t.Errorf("Expected session %s, got %s", tt.sessionID, resp.ID)
				}
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	t.Run("Delete existing session", func(t *testing.T) {
		var deleted string
		mockService := &MockPlannerService{
			DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
				deleted = sessionID
				return nil
			},
		}

		w := serve(t, mockService, makeRequest("DELETE", "/api/sessions/sess-123", nil))

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if deleted != "sess-123" {
			t.Errorf("Expected sess-123 to be deleted, got %q", deleted)
		}
	})

	t.Run("Delete missing session", func(t *testing.T) {
		mockService := &MockPlannerService{
			DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
				return service.ErrSessionNotFound
			},
		}

		w := serve(t, mockService, makeRequest("DELETE", "/api/sessions/nope", nil))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

// Planner Tests

func TestGetReport(t *testing.T) {
	w := serve(t, &MockPlannerService{}, makeRequest("GET", "/api/sessions/sess-123/report", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp service.Report
	parseResponse(t, w, &resp)
	if resp.SessionID != "sess-123" {
		t.Errorf("Expected session sess-123, got %s", resp.SessionID)
	}
	if len(resp.Rows) != 2 || resp.Rows[0].Name != "キュクレウス" {
		t.Errorf("Unexpected rows: %+v", resp.Rows)
	}
}

func TestGetReportCSV(t *testing.T) {
	t.Run("Exports rows", func(t *testing.T) {
		w := serve(t, &MockPlannerService{}, makeRequest("GET", "/api/sessions/sess-123/report.csv", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("Expected CSV content type, got %s", ct)
		}

		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("Expected header plus 2 rows, got %d lines: %q", len(lines), lines)
		}
		if lines[0] != "id,name,distance,turns,energy" {
			t.Errorf("Unexpected header %q", lines[0])
		}
		if lines[2] != "2,ヒュプノイア,11,1,11" {
			t.Errorf("Unexpected row %q", lines[2])
		}
	})

	t.Run("Missing session", func(t *testing.T) {
		mockService := &MockPlannerService{
			GetReportFunc: func(ctx context.Context, sessionID string) (*service.Report, error) {
				return nil, service.ErrSessionNotFound
			},
		}
		w := serve(t, mockService, makeRequest("GET", "/api/sessions/nope/report.csv", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

func TestUpdateQuery(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(*MockPlannerService)
		expectedStatus int
	}{
		{
			name: "Valid update",
			body: map[string]interface{}{"speed": 16, "source": 31, "energy": 50},
			setupMock: func(m *MockPlannerService) {
				m.UpdateQueryFunc = func(ctx context.Context, sessionID string, update service.QueryUpdate) (*service.Report, error) {
					if update.Speed == nil || *update.Speed != 16 {
						t.Errorf("Expected speed 16, got %v", update.Speed)
					}
					if update.Source == nil || *update.Source != 31 {
						t.Errorf("Expected source 31, got %v", update.Source)
					}
					if update.Energy == nil || *update.Energy != 50 {
						t.Errorf("Expected energy 50, got %v", update.Energy)
					}
					if update.Mode != nil || update.X != nil {
						t.Error("Unset fields should stay nil")
					}
					return testReport(sessionID), nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid body",
			body:           "not an object",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Rejected input",
			body: map[string]interface{}{"speed": 0},
			setupMock: func(m *MockPlannerService) {
				m.UpdateQueryFunc = func(ctx context.Context, sessionID string, update service.QueryUpdate) (*service.Report, error) {
					return nil, fmt.Errorf("%w: speed must be at least 1", service.ErrInvalidQuery)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Missing session",
			body: map[string]interface{}{"energy": 10},
			setupMock: func(m *MockPlannerService) {
				m.UpdateQueryFunc = func(ctx context.Context, sessionID string, update service.QueryUpdate) (*service.Report, error) {
					return nil, service.ErrSessionNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockPlannerService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			w := serve(t, mockService, makeRequest("POST", "/api/sessions/sess-123/query", tt.body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestUpdateQueryBroadcasts(t *testing.T) {
	server, hub := setupTestServer(t, &MockPlannerService{})
	ts := httptest.NewServer(server)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?session=sess-123"
	conn, _, err := gws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount("sess-123") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/sess-123/query", map[string]int{"energy": 50}))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read broadcast: %v", err)
	}

	var message websocket.Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal broadcast: %v", err)
	}
	if message.Event != websocket.EventReportUpdate {
		t.Errorf("Expected event %s, got %s", websocket.EventReportUpdate, message.Event)
	}
	if message.Report == nil || message.Report.ReachableCount != 3 {
		t.Errorf("Unexpected report %+v", message.Report)
	}
}

func TestReset(t *testing.T) {
	t.Run("Reset session", func(t *testing.T) {
		w := serve(t, &MockPlannerService{}, makeRequest("POST", "/api/sessions/sess-123/reset", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var resp struct {
			Message string          `json:"message"`
			Report  *service.Report `json:"report"`
		}
		parseResponse(t, w, &resp)
		if resp.Report == nil || resp.Report.State.Speed != engine.DefaultSpeed {
			t.Errorf("Unexpected report %+v", resp.Report)
		}
	})

	t.Run("Missing session", func(t *testing.T) {
		mockService := &MockPlannerService{
			ResetSessionFunc: func(ctx context.Context, sessionID string) (*service.Report, error) {
				return nil, service.ErrSessionNotFound
			},
		}
		w := serve(t, mockService, makeRequest("POST", "/api/sessions/nope/reset", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

func TestGetCost(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		expectedDst    int
		expectedSpeed  uint32
		serviceErr     error
		expectedStatus int
	}{
		{"Session speed", "/api/sessions/s/cost/9", 9, 0, nil, http.StatusOK},
		{"Explicit speed", "/api/sessions/s/cost/9?speed=10", 9, 10, nil, http.StatusOK},
		{"Zero speed", "/api/sessions/s/cost/9?speed=0", 0, 0, nil, http.StatusBadRequest},
		{"Bad speed", "/api/sessions/s/cost/9?speed=fast", 0, 0, nil, http.StatusBadRequest},
		{"Non-numeric destination", "/api/sessions/s/cost/abc", 0, 0, nil, http.StatusNotFound},
		{"Destination out of range", "/api/sessions/s/cost/99", 99, 0, service.ErrInvalidQuery, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			mockService := &MockPlannerService{
				GetCostFunc: func(ctx context.Context, sessionID string, destination int, speed uint32) (*service.CostInfo, error) {
					called = true
					if destination != tt.expectedDst {
						t.Errorf("Expected destination %d, got %d", tt.expectedDst, destination)
					}
					if speed != tt.expectedSpeed {
						t.Errorf("Expected speed %d, got %d", tt.expectedSpeed, speed)
					}
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &service.CostInfo{Destination: destination, Speed: 10, Reachable: true, Turns: 10, Energy: 88}, nil
				},
			}

			w := serve(t, mockService, makeRequest("GET", tt.path, nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus == http.StatusOK {
				var resp service.CostInfo
				parseResponse(t, w, &resp)
				if !resp.Reachable || resp.Turns != 10 || resp.Energy != 88 {
					t.Errorf("Unexpected cost %+v", resp)
				}
			} else if called && tt.serviceErr == nil {
				t.Error("Service should not be called for a malformed request")
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("Position query", func(t *testing.T) {
		mockService := &MockPlannerService{
			EvaluateFunc: func(ctx context.Context, req service.EvaluateRequest) (*service.Report, error) {
				if req.MapID != "standard" {
					t.Errorf("Expected map standard, got %s", req.MapID)
				}
				if req.Mode == nil || *req.Mode != engine.ModePosition {
					t.Errorf("Expected position mode, got %v", req.Mode)
				}
				if req.X == nil || *req.X != 64 {
					t.Errorf("Expected x 64, got %v", req.X)
				}
				return testReport(""), nil
			},
		}

		body := map[string]interface{}{"map_id": "standard", "mode": "position", "x": 64}
		w := serve(t, mockService, makeRequest("POST", "/api/evaluate", body))

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
	})

	t.Run("Unknown map", func(t *testing.T) {
		mockService := &MockPlannerService{
			EvaluateFunc: func(ctx context.Context, req service.EvaluateRequest) (*service.Report, error) {
				return nil, service.ErrMapNotFound
			},
		}
		w := serve(t, mockService, makeRequest("POST", "/api/evaluate", map[string]string{"map_id": "x"}))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

// Map Tests

func TestListMaps(t *testing.T) {
	mockService := &MockPlannerService{
		ListMapsFunc: func(ctx context.Context) ([]*service.MapInfo, error) {
			return []*service.MapInfo{
				{MapID: "standard", Name: "standard", Locations: 32, Builtin: true},
				{MapID: "triangle", Filename: "triangle.yaml", Name: "Triangle", Locations: 3},
			}, nil
		},
	}

	w := serve(t, mockService, makeRequest("GET", "/api/maps", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp []*service.MapInfo
	parseResponse(t, w, &resp)
	if len(resp) != 2 || !resp[0].Builtin || resp[1].Locations != 3 {
		t.Errorf("Unexpected maps %+v", resp)
	}
}

func TestGetMap(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		expectedID     string
		notFound       bool
		expectedStatus int
	}{
		{"By id", "/api/maps/triangle", "triangle", false, http.StatusOK},
		{"Strips yaml extension", "/api/maps/triangle.yaml", "triangle", false, http.StatusOK},
		{"Strips json extension", "/api/maps/triangle.json", "triangle", false, http.StatusOK},
		{"Missing map", "/api/maps/missing", "missing", true, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockPlannerService{
				LoadMapFunc: func(ctx context.Context, mapID string) (*engine.MapConfig, error) {
					if mapID != tt.expectedID {
						t.Errorf("Expected map id %s, got %s", tt.expectedID, mapID)
					}
					if tt.notFound {
						return nil, fmt.Errorf("%w: %s", service.ErrMapNotFound, mapID)
					}
					return &engine.MapConfig{Name: mapID}, nil
				},
			}

			w := serve(t, mockService, makeRequest("GET", tt.path, nil))
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestCreateMap(t *testing.T) {
	valid := &engine.MapConfig{
		Name: "pair",
		Locations: []engine.Location{
			{Name: "A", Position: engine.Vec3{X: 0, Y: 0, Z: 0}, Neighbors: []int{1}},
			{Name: "B", Position: engine.Vec3{X: 20, Y: 0, Z: 0}, Neighbors: []int{0}},
		},
	}
	dangling := &engine.MapConfig{
		Name: "dangling",
		Locations: []engine.Location{
			{Name: "A", Neighbors: []int{4}},
		},
	}

	tests := []struct {
		name           string
		body           interface{}
		saveErr        error
		expectedStatus int
	}{
		{"Valid map", valid, nil, http.StatusCreated},
		{"Missing name", &engine.MapConfig{}, nil, http.StatusBadRequest},
		{"Dangling neighbor", dangling, nil, http.StatusBadRequest},
		{"Invalid body", "nope", nil, http.StatusBadRequest},
		{"Read-only map", valid, fmt.Errorf("%w: standard", config.ErrReadOnlyMap), http.StatusForbidden},
		{"Storage failure", valid, fmt.Errorf("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var saved string
			mockService := &MockPlannerService{
				SaveMapFunc: func(ctx context.Context, mapID string, cfg *engine.MapConfig) error {
					saved = mapID
					return tt.saveErr
				},
			}

			w := serve(t, mockService, makeRequest("POST", "/api/maps", tt.body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus == http.StatusCreated && saved != "pair" {
				t.Errorf("Expected map 'pair' to be saved, got %q", saved)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	w := serve(t, &MockPlannerService{}, makeRequest("GET", "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy, got %s", resp["status"])
	}
}

func TestWebSocket(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		setupMock      func(*MockPlannerService)
		expectedStatus int
	}{
		{
			name:           "Missing session parameter",
			queryParams:    "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Invalid session",
			queryParams: "?session=invalid",
			setupMock: func(m *MockPlannerService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, service.ErrSessionNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockPlannerService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server, _ := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/ws"+tt.queryParams, nil)

			server.handleWebSocket(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}
