package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"campus-events/controllers"
	"campus-events/middleware"
	"campus-events/models"
	"campus-events/routes"
	"campus-events/store"
	"campus-events/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreDown = errors.New("connection refused")

// memStore is an in-memory EventStore, AccountStore and EnrollmentStore
type memStore struct {
	mu            sync.Mutex
	infos         []models.BasicInfo
	registrations []models.Registration
	contacts      []models.Contact
	accounts      []models.Account
	enrollments   []models.Enrollment
	fail          error
}

func (m *memStore) InsertBasicInfo(_ context.Context, info *models.BasicInfo) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return primitive.NilObjectID, m.fail
	}
	info.ID = primitive.NewObjectID()
	info.CreatedAt, info.UpdatedAt = time.Now(), time.Now()
	m.infos = append(m.infos, *info)
	return info.ID, nil
}

func (m *memStore) InsertRegistration(_ context.Context, reg *models.Registration) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return primitive.NilObjectID, m.fail
	}
	reg.ID = primitive.NewObjectID()
	m.registrations = append(m.registrations, *reg)
	return reg.ID, nil
}

func (m *memStore) InsertContact(_ context.Context, contact *models.Contact) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return primitive.NilObjectID, m.fail
	}
	contact.ID = primitive.NewObjectID()
	m.contacts = append(m.contacts, *contact)
	return contact.ID, nil
}

func (m *memStore) ListBasicInfo(_ context.Context, f models.EventFilter) ([]models.BasicInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	out := []models.BasicInfo{}
	for _, info := range m.infos {
		if f.Status != "" && info.Status != f.Status {
			continue
		}
		if f.Stage != "" && info.Stage != f.Stage {
			continue
		}
		if !f.OrganizerID.IsZero() && info.OrganizerID != f.OrganizerID {
			continue
		}
		out = append(out, info)
	}
	return out, nil
}

func (m *memStore) FindBasicInfo(_ context.Context, id primitive.ObjectID) (*models.BasicInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	for _, info := range m.infos {
		if info.ID == id {
			cp := info
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) FindRegistration(_ context.Context, eventID primitive.ObjectID) (*models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, reg := range m.registrations {
		if reg.EventID == eventID {
			cp := reg
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) FindContact(_ context.Context, eventID primitive.ObjectID) (*models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.contacts {
		if c.EventID == eventID {
			cp := c
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status, reason string) (*models.BasicInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	for i := range m.infos {
		if m.infos[i].ID == id {
			m.infos[i].Status = status
			m.infos[i].RejectionReason = reason
			m.infos[i].UpdatedAt = time.Now()
			cp := m.infos[i]
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) AdvanceStage(_ context.Context, id primitive.ObjectID, stage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.infos {
		if m.infos[i].ID == id {
			if models.StageRank(m.infos[i].Stage) < models.StageRank(stage) {
				m.infos[i].Stage = stage
			}
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) Ping(context.Context) error { return m.fail }

func (m *memStore) CreateAccount(_ context.Context, acc *models.Account) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Role == acc.Role && a.Email == acc.Email {
			return primitive.NilObjectID, store.ErrDuplicate
		}
	}
	acc.ID = primitive.NewObjectID()
	m.accounts = append(m.accounts, *acc)
	return acc.ID, nil
}

func (m *memStore) FindAccountByEmail(_ context.Context, role, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Role == role && a.Email == email {
			cp := a
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) FindAccountByID(_ context.Context, role string, id primitive.ObjectID) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Role == role && a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) InsertEnrollment(_ context.Context, e *models.Enrollment) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.enrollments {
		if x.EventID == e.EventID && x.StudentID == e.StudentID {
			return primitive.NilObjectID, store.ErrDuplicate
		}
	}
	e.ID = primitive.NewObjectID()
	m.enrollments = append(m.enrollments, *e)
	return e.ID, nil
}

func (m *memStore) ListEnrollmentsByStudent(_ context.Context, studentID primitive.ObjectID) ([]models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Enrollment{}
	for _, e := range m.enrollments {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) contactCount(eventID primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.contacts {
		if c.EventID == eventID {
			n++
		}
	}
	return n
}

type notification struct {
	To, EventName, Status, Reason string
}

type fakeNotifier struct {
	sent chan notification
	err  error
}

func (f *fakeNotifier) NotifyStatusChange(to, eventName, status, reason string) error {
	f.sent <- notification{To: to, EventName: eventName, Status: status, Reason: reason}
	return f.err
}

type testServer struct {
	store    *memStore
	notifier *fakeNotifier
	tokens   *utils.TokenManager
	uploads  string
	handler  http.Handler
}

func newTestServer(t *testing.T, opts routes.Options) *testServer {
	t.Helper()
	log := zerolog.Nop()
	s := &memStore{}
	n := &fakeNotifier{sent: make(chan notification, 8)}
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	if opts.UploadDir == "" {
		opts.UploadDir = t.TempDir()
	}
	posters := utils.NewPosterStorage(opts.UploadDir, "http://192.168.1.20:8000", 200)

	router := mux.NewRouter()
	routes.RegisterRoutes(router, middleware.NewAuth(tokens), routes.Controllers{
		Events:      controllers.NewEventController(s, &log),
		Review:      controllers.NewReviewController(s, n, &log),
		Upload:      controllers.NewUploadController(posters, 1<<20, &log),
		Enrollments: controllers.NewEnrollmentController(s, s, &log),
		Health:      controllers.NewHealthController(s, &log),
		Accounts: []*controllers.AccountController{
			controllers.NewAccountController(models.RoleOrganizer, s, tokens, &log),
			controllers.NewAccountController(models.RoleStudent, s, tokens, &log),
			controllers.NewAccountController(models.RoleAdmin, s, tokens, &log),
		},
	}, opts)

	return &testServer{store: s, notifier: n, tokens: tokens, uploads: opts.UploadDir, handler: router}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func (ts *testServer) token(t *testing.T, id primitive.ObjectID, role string) string {
	t.Helper()
	tok, err := ts.tokens.GenerateJWT(id.Hex(), role+"@campus.edu", role)
	require.NoError(t, err)
	return tok
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func basicInfoBody() map[string]interface{} {
	return map[string]interface{}{
		"eventName":   "Code Vault",
		"dept":        "CSE",
		"eventType":   "Hackathon",
		"description": "24 hour hackathon",
	}
}

func registrationBody(eventID string) map[string]interface{} {
	return map[string]interface{}{
		"eventId":      eventID,
		"startDate":    "2025-09-19",
		"endDate":      "2025-09-19",
		"startTime":    "09:00",
		"endTime":      "21:00",
		"venue":        "Hall A",
		"participants": "100",
		"isFreeEvent":  true,
	}
}

func contactBody(eventID string) map[string]interface{} {
	return map[string]interface{}{
		"eventId":    eventID,
		"name":       "Priya",
		"phone":      "9999999999",
		"email":      "priya@gmail.com",
		"highlights": []map[string]string{{"text": "Prize ₹50,000"}},
		"schedule":   []map[string]string{{"time": "10:00", "task": "Kickoff"}},
	}
}

// createEvent runs the basic info step and returns the new event id
func createEvent(t *testing.T, ts *testServer) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/addBasicInfo", basicInfoBody(), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["eventId"].(string)
}
