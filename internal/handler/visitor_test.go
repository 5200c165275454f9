package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/gatepass/visitor-management/internal/auth"
	"github.com/gatepass/visitor-management/internal/config"
	"github.com/gatepass/visitor-management/internal/handler"
	"github.com/gatepass/visitor-management/internal/model"
	"github.com/gatepass/visitor-management/internal/queue"
	"github.com/gatepass/visitor-management/internal/router"
	"github.com/gatepass/visitor-management/internal/store"
)

const (
	adminUser = "admin"
	adminPass = "s3cret"
)

// fakeSender records the last pass handed to it instead of talking SMTP.
type fakeSender struct {
	to      string
	pdf     []byte
	number  int
	calls   int
	failure error
}

func (f *fakeSender) SendPass(to string, pdf []byte, visitorNumber int) error {
	f.calls++
	if f.failure != nil {
		return f.failure
	}
	f.to = to
	f.pdf = append([]byte(nil), pdf...)
	f.number = visitorNumber
	return nil
}

type testServer struct {
	e       *echo.Echo
	sender  *fakeSender
	events  chan queue.VisitCompletedEvent
	admins  *store.MemoryAdminStore
	adminID uint64
}

func newTestServer(t *testing.T, strict bool) *testServer {
	t.Helper()

	cfg := config.Config{
		Env:            "test",
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}

	visitors := store.NewMemoryVisitorStore()
	sender := &fakeSender{}
	vh := handler.NewVisitorHandler(visitors, sender, strict)

	events := make(chan queue.VisitCompletedEvent, 8)
	vh.PublishEvent = func(_ context.Context, ev queue.VisitCompletedEvent) error {
		events <- ev
		return nil
	}

	admins := store.NewMemoryAdminStore()
	hash, err := auth.HashPassword(adminPass, cfg.BcryptCost)
	require.NoError(t, err)
	adminID, err := admins.Create(context.Background(), adminUser, hash, model.RoleAdmin)
	require.NoError(t, err)

	ah := handler.NewAuthHandler(cfg, admins, store.NewMemoryTokenStore())

	e := echo.New()
	router.Register(e, cfg, vh, ah, nil)
	return &testServer{e: e, sender: sender, events: events, admins: admins, adminID: adminID}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": adminUser, "password": adminPass,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Access.Token)
	return resp.Access.Token
}

func (ts *testServer) register(t *testing.T) (id uint64, visitorNumber int) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/visitors", "", map[string]any{
		"username":      "Asha",
		"idType":        "aadhar",
		"idNumber":      "123456789012",
		"vehicleType":   "Car",
		"vehicleNumber": "KA01AB1234",
		"inTime":        "09:00",
		"duration":      60,
		"dateOfVisit":   "2024-05-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		ID            uint64 `json:"id"`
		VisitorNumber int    `json:"visitorNumber"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotZero(t, resp.ID)
	require.GreaterOrEqual(t, resp.VisitorNumber, 1000)
	require.LessOrEqual(t, resp.VisitorNumber, 9999)
	return resp.ID, resp.VisitorNumber
}

func (ts *testServer) getVisitor(t *testing.T, id uint64) model.Visitor {
	t.Helper()
	rec := ts.do(t, http.MethodGet, fmt.Sprintf("/api/visitors/%d", id), "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var v model.Visitor
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func (ts *testServer) setStatus(t *testing.T, token string, id uint64, status string) *httptest.ResponseRecorder {
	t.Helper()
	return ts.do(t, http.MethodPut, fmt.Sprintf("/api/visitors/%d/status", id), token, map[string]string{"status": status})
}

func TestRegisterThenFetch(t *testing.T) {
	ts := newTestServer(t, false)

	id, number := ts.register(t)
	v := ts.getVisitor(t, id)
	require.Equal(t, model.StatusPending, v.Status)
	require.Equal(t, number, v.VisitorNumber)
	require.Equal(t, "Asha", v.Username)
	require.Equal(t, "2024-05-01", v.DateOfVisit.String())
}

func TestGetMissingVisitor(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(t, http.MethodGet, "/api/visitors/999", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFullVisitScenario(t *testing.T) {
	ts := newTestServer(t, false)
	token := ts.login(t)

	id, number := ts.register(t)

	rec := ts.setStatus(t, token, id, "Approved")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Approved", ts.getVisitor(t, id).Status)

	rec = ts.setStatus(t, token, id, "Complete")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Complete", ts.getVisitor(t, id).Status)

	// completion publishes the visit.completed event
	select {
	case ev := <-ts.events:
		require.Equal(t, id, ev.VisitorID)
		require.Equal(t, number, ev.VisitorNumber)
		require.Equal(t, "2024-05-01", ev.DateOfVisit)
	case <-time.After(2 * time.Second):
		t.Fatal("no visit.completed event published")
	}

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/api/visitors/%d/pdf", id), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	require.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), fmt.Sprintf("visitor-%d.pdf", number))
	body := rec.Body.Bytes()
	require.True(t, bytes.Contains(body, []byte(fmt.Sprintf("Visitor Number: %d", number))))
	require.True(t, bytes.Contains(body, []byte("Status: Complete")))
}

func TestDownloadPassRequiresComplete(t *testing.T) {
	ts := newTestServer(t, false)
	token := ts.login(t)
	id, _ := ts.register(t)

	for _, status := range []string{"Pending", "Approved", "Rejected"} {
		require.Equal(t, http.StatusOK, ts.setStatus(t, token, id, status).Code)
		rec := ts.do(t, http.MethodGet, fmt.Sprintf("/api/visitors/%d/pdf", id), "", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, "status %s must not yield a pass", status)
	}
}

func TestUpdateStatusIsPermissiveByDefault(t *testing.T) {
	ts := newTestServer(t, false)
	token := ts.login(t)
	id, _ := ts.register(t)

	// transitions the UI would never offer are accepted and stored verbatim
	require.Equal(t, http.StatusOK, ts.setStatus(t, token, id, "Complete").Code)
	require.Equal(t, http.StatusOK, ts.setStatus(t, token, id, "Pending").Code)
	require.Equal(t, "Pending", ts.getVisitor(t, id).Status)

	// updating an absent id still reports success
	require.Equal(t, http.StatusOK, ts.setStatus(t, token, 9999, "Approved").Code)
}

func TestUpdateStatusStrictMode(t *testing.T) {
	ts := newTestServer(t, true)
	token := ts.login(t)
	id, _ := ts.register(t)

	require.Equal(t, http.StatusBadRequest, ts.setStatus(t, token, id, "Complete").Code) // Pending -> Complete skips Approved
	require.Equal(t, http.StatusBadRequest, ts.setStatus(t, token, id, "Archived").Code) // unknown status
	require.Equal(t, http.StatusOK, ts.setStatus(t, token, id, "Approved").Code)
	require.Equal(t, http.StatusOK, ts.setStatus(t, token, id, "Complete").Code)
	require.Equal(t, http.StatusBadRequest, ts.setStatus(t, token, id, "Pending").Code) // Complete is terminal
	require.Equal(t, http.StatusNotFound, ts.setStatus(t, token, 9999, "Approved").Code)
}

func TestStatusEndpointsRequireAdmin(t *testing.T) {
	ts := newTestServer(t, false)
	id, _ := ts.register(t)

	require.Equal(t, http.StatusUnauthorized, ts.setStatus(t, "", id, "Approved").Code)
	require.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/api/visitors", "", nil).Code)
	require.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodDelete, fmt.Sprintf("/api/visitors/%d", id), "", nil).Code)
}

func TestListVisitorsOrdering(t *testing.T) {
	ts := newTestServer(t, false)
	token := ts.login(t)

	dates := []string{"2024-01-15", "2024-06-01", "2024-03-10"}
	for _, d := range dates {
		rec := ts.do(t, http.MethodPost, "/api/visitors", "", map[string]any{
			"username": "v-" + d, "idType": "aadhar", "idNumber": "123456789012",
			"vehicleType": "Car", "vehicleNumber": "KA01AB1234",
			"inTime": "09:00", "duration": 30, "dateOfVisit": d,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := ts.do(t, http.MethodGet, "/api/visitors", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []model.Visitor
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
	require.Len(t, items, 3)
	require.Equal(t, "2024-06-01", items[0].DateOfVisit.String())
	require.Equal(t, "2024-03-10", items[1].DateOfVisit.String())
	require.Equal(t, "2024-01-15", items[2].DateOfVisit.String())
}

func TestDeleteVisitor(t *testing.T) {
	ts := newTestServer(t, false)
	token := ts.login(t)
	id, _ := ts.register(t)

	rec := ts.do(t, http.MethodDelete, fmt.Sprintf("/api/visitors/%d", id), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, fmt.Sprintf("/api/visitors/%d", id), "", nil).Code)

	// deleting a nonexistent id still reports success
	rec = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/visitors/%d", id), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateEmail(t *testing.T) {
	ts := newTestServer(t, false)
	id, _ := ts.register(t)

	rec := ts.do(t, http.MethodPut, fmt.Sprintf("/api/visitors/%d/email", id), "", map[string]string{"email": "asha@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, true, resp["success"])

	require.Equal(t, "asha@example.com", ts.getVisitor(t, id).Email)
}

func TestSendPassByEmail(t *testing.T) {
	ts := newTestServer(t, false)
	token := ts.login(t)
	id, number := ts.register(t)

	// not complete yet: gate applies to the email path too
	rec := ts.do(t, http.MethodPost, fmt.Sprintf("/api/visitors/%d/sendpdf", id), "", map[string]string{"email": "asha@example.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, ts.sender.calls)

	require.Equal(t, http.StatusOK, ts.setStatus(t, token, id, "Approved").Code)
	require.Equal(t, http.StatusOK, ts.setStatus(t, token, id, "Complete").Code)

	rec = ts.do(t, http.MethodPost, fmt.Sprintf("/api/visitors/%d/sendpdf", id), "", map[string]string{"email": "asha@example.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, true, resp["success"])
	require.Equal(t, "asha@example.com", ts.sender.to)
	require.Equal(t, number, ts.sender.number)

	// both call sites must produce byte-identical documents
	dl := ts.do(t, http.MethodGet, fmt.Sprintf("/api/visitors/%d/pdf", id), "", nil)
	require.Equal(t, http.StatusOK, dl.Code)
	require.True(t, bytes.Equal(dl.Body.Bytes(), ts.sender.pdf))
}

func TestSendPassTransportFailure(t *testing.T) {
	ts := newTestServer(t, false)
	token := ts.login(t)
	id, _ := ts.register(t)
	require.Equal(t, http.StatusOK, ts.setStatus(t, token, id, "Complete").Code)

	ts.sender.failure = fmt.Errorf("smtp: connection refused")
	rec := ts.do(t, http.MethodPost, fmt.Sprintf("/api/visitors/%d/sendpdf", id), "", map[string]string{"email": "asha@example.com"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, false, resp["success"])
}

func TestOldVisitorLogin(t *testing.T) {
	ts := newTestServer(t, false)
	id, _ := ts.register(t)

	rec := ts.do(t, http.MethodPost, "/api/oldvisitor/login", "", map[string]string{
		"name": "Asha", "aadhar": "123456789012", "vehicleNumber": "KA01AB1234",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Visitor model.Visitor `json:"visitor"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, id, resp.Visitor.ID)
	require.Equal(t, "Asha", resp.Visitor.Username)

	// a single wrong field fails the identity check
	rec = ts.do(t, http.MethodPost, "/api/oldvisitor/login", "", map[string]string{
		"name": "Asha", "aadhar": "000000000000", "vehicleNumber": "KA01AB1234",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
