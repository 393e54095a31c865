package host

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lowitz/planview/internal/record"
)

// mockServer creates a test HTTP server for mocking host API responses.
func mockServer(handler http.HandlerFunc) *httptest.Server {
	return httptest.NewServer(handler)
}

func TestNewClient(t *testing.T) {
	client := NewClient("", "test-token")

	if client.baseURL != DefaultBaseURL {
		t.Errorf("unexpected base URL: %s", client.baseURL)
	}
	if client.token != "test-token" {
		t.Errorf("expected token %q, got %q", "test-token", client.token)
	}
}

func TestLoadTasks(t *testing.T) {
	tests := []struct {
		name       string
		filter     ScopeFilter
		response   []taskRecord
		statusCode int
		wantErr    bool
	}{
		{
			name:   "successful request",
			filter: ScopeFilter{},
			response: []taskRecord{
				{ID: "123", Text: "Write report", Path: "work.md", Scheduled: "2024-03-04T09:00:00"},
			},
			statusCode: http.StatusOK,
			wantErr:    false,
		},
		{
			name:       "unauthorized",
			filter:     ScopeFilter{},
			statusCode: http.StatusUnauthorized,
			wantErr:    true,
		},
		{
			name:   "scoped to paths",
			filter: ScopeFilter{Paths: []string{"work/", "home/"}, IncludeCompleted: true},
			response: []taskRecord{
				{ID: "124", Text: "Plan sprint", Path: "work/sprint.md"},
			},
			statusCode: http.StatusOK,
			wantErr:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockServer(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET request, got %s", r.Method)
				}
				if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
					t.Errorf("expected Bearer token, got %q", auth)
				}
				if len(tt.filter.Paths) > 0 {
					if r.URL.Query().Get("paths") != "work/,home/" {
						t.Errorf("unexpected paths query %q", r.URL.Query().Get("paths"))
					}
				}
				if tt.filter.IncludeCompleted {
					if r.URL.Query().Get("completed") != "true" {
						t.Errorf("expected completed=true in query")
					}
				}

				w.WriteHeader(tt.statusCode)
				json.NewEncoder(w).Encode(tt.response)
			})
			defer server.Close()

			client := NewClient(server.URL, "test-token")

			tasks, err := client.LoadTasks(tt.filter)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tasks) != len(tt.response) {
				t.Fatalf("expected %d tasks, got %d", len(tt.response), len(tasks))
			}
			if tasks[0].ID != tt.response[0].ID {
				t.Errorf("expected id %q, got %q", tt.response[0].ID, tasks[0].ID)
			}
		})
	}
}

func TestLoadTasksCleansSchedules(t *testing.T) {
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]taskRecord{
			{ID: "1", Scheduled: "2024-03-04T09:00:00", Due: "2024-03-08"},
			{ID: "2", Scheduled: "2024-03-05"},
		})
	})
	defer server.Close()

	client := NewClient(server.URL, "")
	tasks, err := client.LoadTasks(ScopeFilter{})
	if err != nil {
		t.Fatal(err)
	}

	if tasks[0].Scheduled != "2024-03-04T09:00" {
		t.Errorf("seconds must be trimmed, got %q", tasks[0].Scheduled)
	}
	if tasks[1].Scheduled != "2024-03-05" {
		t.Errorf("bare dates must stay bare, got %q", tasks[1].Scheduled)
	}
	if tasks[0].Due != "2024-03-08" {
		t.Errorf("due = %q, want 2024-03-08", tasks[0].Due)
	}
}

func TestSaveTask(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    bool
	}{
		{"accepted", http.StatusOK, false},
		{"rejected", http.StatusConflict, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got taskRecord
			server := mockServer(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST request, got %s", r.Method)
				}
				if r.URL.Path != "/tasks/abc" {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tt.statusCode)
			})
			defer server.Close()

			client := NewClient(server.URL, "")
			err := client.SaveTask(record.Task{ID: "abc", Text: "Water plants", Scheduled: "2024-03-05", Kind: record.KindTask})

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Scheduled != "2024-03-05" || got.Kind != "task" {
				t.Errorf("wire record = %+v", got)
			}
		})
	}
}

func TestCreateTask(t *testing.T) {
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		var req CreateTaskRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Path != "work.md" || req.Heading != "Sprint" || req.Scheduled != "2024-03-05T10:00" {
			t.Errorf("unexpected request %+v", req)
		}
		json.NewEncoder(w).Encode(taskRecord{ID: "new-1", Text: req.Text, Path: req.Path, Heading: req.Heading, Scheduled: req.Scheduled})
	})
	defer server.Close()

	client := NewClient(server.URL, "")
	created, err := client.CreateTask("work.md", "Sprint", "2024-03-05T10:00")
	if err != nil {
		t.Fatal(err)
	}
	if created.ID != "new-1" || created.Text != "New task" {
		t.Errorf("created = %+v", created)
	}
}

func TestUpdateFileOrder(t *testing.T) {
	tests := []struct {
		name       string
		before     string
		statusCode int
		wantErr    bool
	}{
		{"before a sibling", "Backlog", http.StatusOK, false},
		{"to the end", "", http.StatusOK, false},
		{"rejected", "Backlog", http.StatusConflict, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockServer(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST request, got %s", r.Method)
				}
				if r.URL.Path != "/file-order" {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				var got map[string]string
				json.NewDecoder(r.Body).Decode(&got)
				if got["path"] != "work.md" || got["heading"] != "Sprint" {
					t.Errorf("unexpected body %+v", got)
				}
				if got["before"] != tt.before {
					t.Errorf("before = %q, want %q", got["before"], tt.before)
				}
				w.WriteHeader(tt.statusCode)
			})
			defer server.Close()

			client := NewClient(server.URL, "")
			err := client.UpdateFileOrder("work.md", "Sprint", tt.before)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSettingMissingIsEmpty(t *testing.T) {
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	defer server.Close()

	client := NewClient(server.URL, "")
	value, err := client.Setting("day-start")
	if err != nil {
		t.Fatalf("404 must not be an error: %v", err)
	}
	if value != "" {
		t.Errorf("expected empty value, got %q", value)
	}
}

func TestPing(t *testing.T) {
	tests := []struct {
		name    string
		ready   bool
		status  int
		wantErr bool
	}{
		{"ready", true, http.StatusOK, false},
		{"index building", false, http.StatusOK, true},
		{"server error", false, http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockServer(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/status" {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]bool{"ready": tt.ready})
			})
			defer server.Close()

			client := NewClient(server.URL, "")
			err := client.Ping()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAPIErrorClassification(t *testing.T) {
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer server.Close()

	client := NewClient(server.URL, "bad-token")
	_, err := client.LoadTasks(ScopeFilter{})
	apiErr, ok := IsAPIError(err)
	if !ok {
		t.Fatalf("expected an APIError, got %v", err)
	}
	if !apiErr.IsUnauthorized() {
		t.Errorf("expected unauthorized classification for %d", apiErr.StatusCode)
	}
}
