package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"example.com/signup/internal/domain"
	"example.com/signup/internal/persistence/memory"
)

func newTestMux() *http.ServeMux {
	service := domain.NewService(memory.NewRegistry(), nil, nil)
	handler := NewHandler(service)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func listActivities(t *testing.T, mux *http.ServeMux) map[string]ActivityView {
	t.Helper()
	rr := doRequest(t, mux, http.MethodGet, "/activities")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	var activities map[string]ActivityView
	if err := json.Unmarshal(rr.Body.Bytes(), &activities); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return activities
}

func decodeField(t *testing.T, rr *httptest.ResponseRecorder, field string) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body[field]
}

func contains(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}

func TestListActivitiesReturnsSeedDirectory(t *testing.T) {
	mux := newTestMux()
	activities := listActivities(t, mux)

	if len(activities) != 9 {
		t.Fatalf("expected 9 activities got %d", len(activities))
	}

	chess, ok := activities["Chess Club"]
	if !ok {
		t.Fatal("expected Chess Club in directory")
	}
	if len(chess.Participants) != 2 {
		t.Fatalf("expected 2 Chess Club participants got %d", len(chess.Participants))
	}
	if !contains(chess.Participants, "michael@mergington.edu") {
		t.Fatal("expected michael@mergington.edu in Chess Club roster")
	}
	if chess.Description == "" || chess.Schedule == "" || chess.MaxParticipants <= 0 {
		t.Fatalf("incomplete Chess Club entry: %+v", chess)
	}

	if !contains(activities["Programming Class"].Participants, "emma@mergington.edu") {
		t.Fatal("expected emma@mergington.edu in Programming Class roster")
	}
	if len(activities["Basketball Team"].Participants) != 1 {
		t.Fatalf("expected 1 Basketball Team participant got %d", len(activities["Basketball Team"].Participants))
	}
}

func TestSignupNewParticipant(t *testing.T) {
	mux := newTestMux()

	rr := doRequest(t, mux, http.MethodPost, "/activities/Chess%20Club/signup?email=newstudent@mergington.edu")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	if got := decodeField(t, rr, "message"); got != "Signed up newstudent@mergington.edu for Chess Club" {
		t.Fatalf("unexpected message %q", got)
	}

	activities := listActivities(t, mux)
	if !contains(activities["Chess Club"].Participants, "newstudent@mergington.edu") {
		t.Fatal("expected newstudent@mergington.edu in Chess Club roster")
	}
}

func TestSignupUnknownActivity(t *testing.T) {
	mux := newTestMux()

	rr := doRequest(t, mux, http.MethodPost, "/activities/Nonexistent%20Club/signup?email=student@mergington.edu")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
	if got := decodeField(t, rr, "detail"); got != "Activity not found" {
		t.Fatalf("unexpected detail %q", got)
	}
}

func TestSignupDuplicate(t *testing.T) {
	mux := newTestMux()

	rr := doRequest(t, mux, http.MethodPost, "/activities/Chess%20Club/signup?email=michael@mergington.edu")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	detail := decodeField(t, rr, "detail")
	if detail != "Student is already signed up for this activity" {
		t.Fatalf("unexpected detail %q", detail)
	}

	activities := listActivities(t, mux)
	if len(activities["Chess Club"].Participants) != 2 {
		t.Fatalf("roster changed on rejected signup: %v", activities["Chess Club"].Participants)
	}
}

func TestSignupMissingEmail(t *testing.T) {
	mux := newTestMux()

	rr := doRequest(t, mux, http.MethodPost, "/activities/Chess%20Club/signup")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestSignupSameEmailAcrossActivities(t *testing.T) {
	mux := newTestMux()

	first := doRequest(t, mux, http.MethodPost, "/activities/Chess%20Club/signup?email=versatile@mergington.edu")
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", first.Code)
	}
	second := doRequest(t, mux, http.MethodPost, "/activities/Programming%20Class/signup?email=versatile@mergington.edu")
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", second.Code)
	}

	activities := listActivities(t, mux)
	if !contains(activities["Chess Club"].Participants, "versatile@mergington.edu") {
		t.Fatal("expected versatile@mergington.edu in Chess Club roster")
	}
	if !contains(activities["Programming Class"].Participants, "versatile@mergington.edu") {
		t.Fatal("expected versatile@mergington.edu in Programming Class roster")
	}
}

func TestUnregisterExistingParticipant(t *testing.T) {
	mux := newTestMux()

	rr := doRequest(t, mux, http.MethodDelete, "/activities/Chess%20Club/unregister?email=michael@mergington.edu")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	if got := decodeField(t, rr, "message"); got != "Unregistered michael@mergington.edu from Chess Club" {
		t.Fatalf("unexpected message %q", got)
	}

	activities := listActivities(t, mux)
	if contains(activities["Chess Club"].Participants, "michael@mergington.edu") {
		t.Fatal("expected michael@mergington.edu removed from Chess Club roster")
	}
}

func TestUnregisterUnknownActivity(t *testing.T) {
	mux := newTestMux()

	rr := doRequest(t, mux, http.MethodDelete, "/activities/Nonexistent%20Club/unregister?email=student@mergington.edu")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
	if got := decodeField(t, rr, "detail"); got != "Activity not found" {
		t.Fatalf("unexpected detail %q", got)
	}
}

func TestUnregisterNotRegistered(t *testing.T) {
	mux := newTestMux()

	rr := doRequest(t, mux, http.MethodDelete, "/activities/Chess%20Club/unregister?email=notregistered@mergington.edu")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	detail := decodeField(t, rr, "detail")
	if detail != "Student is not signed up for this activity" {
		t.Fatalf("unexpected detail %q", detail)
	}
}

func TestSignupThenUnregister(t *testing.T) {
	mux := newTestMux()

	if rr := doRequest(t, mux, http.MethodPost, "/activities/Tennis%20Club/signup?email=tempstudent@mergington.edu"); rr.Code != http.StatusOK {
		t.Fatalf("signup failed: %d", rr.Code)
	}
	activities := listActivities(t, mux)
	if !contains(activities["Tennis Club"].Participants, "tempstudent@mergington.edu") {
		t.Fatal("expected tempstudent@mergington.edu in Tennis Club roster")
	}

	if rr := doRequest(t, mux, http.MethodDelete, "/activities/Tennis%20Club/unregister?email=tempstudent@mergington.edu"); rr.Code != http.StatusOK {
		t.Fatalf("unregister failed: %d", rr.Code)
	}
	activities = listActivities(t, mux)
	if contains(activities["Tennis Club"].Participants, "tempstudent@mergington.edu") {
		t.Fatal("expected tempstudent@mergington.edu removed from Tennis Club roster")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestMux()

	if rr := doRequest(t, mux, http.MethodGet, "/activities/Chess%20Club/signup?email=a@mergington.edu"); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}
	if rr := doRequest(t, mux, http.MethodPost, "/activities"); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}
}
