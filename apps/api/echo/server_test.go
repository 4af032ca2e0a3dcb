package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maktab-app/maktab/apps/api/echo/helpers"
	"github.com/maktab-app/maktab/core"
	"github.com/maktab-app/maktab/core/author"
	"github.com/maktab-app/maktab/core/billing"
	"github.com/maktab-app/maktab/core/forum"
	logsvc "github.com/maktab-app/maktab/services/logger"
	quransvc "github.com/maktab-app/maktab/services/quran"
	realtimesvc "github.com/maktab-app/maktab/services/realtime"
	tajweedsvc "github.com/maktab-app/maktab/services/tajweed"
	dummydb "github.com/maktab-app/maktab/storage/database/dummy"
)

type testServer struct {
	server Server

	forum      forum.Forum
	enrollment billing.Enrollment
	teacher    author.Person

	adminToken   string
	teacherToken string
	studentToken string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	conf := &core.Config{
		Env:                "TEST",
		Debug:              true,
		TestMode:           true,
		AppName:            "Maktab",
		SecretKey:          []byte("test-secret"),
		JWTExpirationDelta: time.Hour,
	}
	logger := logsvc.NewNopLogger()

	db, err := dummydb.Open()
	require.NoError(t, err)
	dir := dummydb.NewDirectory(db)
	forumRepo := dummydb.NewForumRepository(db)
	billingRepo := dummydb.NewBillingRepository(db)

	newPerson := func(role author.Role, name, email string) author.Person {
		p := author.Person{Name: name, Email: email}
		require.NoError(t, p.SetPassword("LocalPass123"))
		return dir.AddPerson(role, p)
	}
	admin := newPerson(author.RoleAdmin, "Alia", "alia@test.local")
	teacher := newPerson(author.RoleTeacher, "Bakr", "bakr@test.local")
	student := newPerson(author.RoleStudent, "Daud", "daud@test.local")

	ts := &testServer{
		forum:      forumRepo.AddForum(forum.Forum{Name: "Fiqh"}),
		enrollment: billingRepo.AddEnrollment(billing.Enrollment{StudentID: student.ID}),
		teacher:    teacher,
	}

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)

	resolver := author.NewResolver(dir)
	ts.server = NewServer(ServerDeps{
		Conf:          conf,
		Logger:        logger,
		Directory:     dir,
		ForumSvc:      forum.NewService(forumRepo, resolver, nil, logger),
		BillingSvc:    billing.NewService(billingRepo, nil, logger, nil, conf),
		QuranClient:   quransvc.NewClient(conf, nil),
		TajweedScorer: tajweedsvc.NewScorer(),
		Notifier:      realtimesvc.NewLogNotifier(logger),
		Validate:      validate,
		Translator:    translator,
	})

	token := func(p author.Person, role author.Role) string {
		tok, err := helpers.GenerateToken(helpers.GetPersonClaims(p, role))
		require.NoError(t, err)
		return tok
	}
	ts.adminToken = token(admin, author.RoleAdmin)
	ts.teacherToken = token(teacher, author.RoleTeacher)
	ts.studentToken = token(student, author.RoleStudent)
	return ts
}

func (ts *testServer) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)
	return rec
}

func TestAuthLogin(t *testing.T) {
	ts := newTestServer(t)

	t.Run("ok", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/v1/auth/login", "", echoMap{
			"role": "teacher", "email": "bakr@test.local", "password": "LocalPass123",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["token"])
		assert.Equal(t, "teacher", resp["role"])
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/v1/auth/login", "", echoMap{
			"role": "teacher", "email": "bakr@test.local", "password": "nope",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown role", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/v1/auth/login", "", echoMap{
			"role": "staff", "email": "bakr@test.local", "password": "LocalPass123",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

type echoMap = map[string]interface{}

func TestTopicAPI(t *testing.T) {
	ts := newTestServer(t)

	newTopicBody := func() echoMap {
		return echoMap{
			"forum_id":    ts.forum.ID,
			"author_id":   ts.teacher.ID,
			"author_role": "teacher",
			"title":       "Rules of wudu",
			"content":     "Let's review the essentials.",
		}
	}

	t.Run("list is public", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/v1/topics", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("create requires auth", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/v1/topics", "", newTopicBody())
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	var topicID string
	t.Run("create", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/v1/topics", ts.teacherToken, newTopicBody())
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var topic forum.Topic
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &topic))
		assert.NotEmpty(t, topic.ID)
		topicID = topic.ID
	})

	t.Run("create with invalid payload", func(t *testing.T) {
		body := newTopicBody()
		delete(body, "title")
		rec := ts.request(t, http.MethodPost, "/v1/topics", ts.teacherToken, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "title")
	})

	t.Run("create with dangling forum ref", func(t *testing.T) {
		body := newTopicBody()
		body["forum_id"] = "0e1de9a9-31fd-4b9a-8a44-c52742e1ee7f"
		rec := ts.request(t, http.MethodPost, "/v1/topics", ts.teacherToken, body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "forum not found")
	})

	t.Run("update forbidden for students", func(t *testing.T) {
		rec := ts.request(t, http.MethodPut, "/v1/topics/"+topicID, ts.studentToken, echoMap{"title": "hijacked"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("update", func(t *testing.T) {
		rec := ts.request(t, http.MethodPut, "/v1/topics/"+topicID, ts.teacherToken, echoMap{"title": "Rules of wudu, revised"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "revised")
	})

	t.Run("one-sided author pair", func(t *testing.T) {
		rec := ts.request(t, http.MethodPut, "/v1/topics/"+topicID, ts.teacherToken, echoMap{
			"author_id": ts.teacher.ID,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "author_role")
	})

	t.Run("delete", func(t *testing.T) {
		rec := ts.request(t, http.MethodDelete, "/v1/topics/"+topicID, ts.teacherToken, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = ts.request(t, http.MethodDelete, "/v1/topics/"+topicID, ts.teacherToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPaymentAPI(t *testing.T) {
	ts := newTestServer(t)

	newPaymentBody := func() echoMap {
		return echoMap{
			"enrollment_id": ts.enrollment.ID,
			"amount":        5000,
			"method":        "cash",
		}
	}

	t.Run("list requires auth", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/v1/payments", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("students may not read payments", func(t *testing.T) {
		rec := ts.request(t, http.MethodGet, "/v1/payments", ts.studentToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("create is admin-only", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/v1/payments", ts.teacherToken, newPaymentBody())
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("create and list", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/v1/payments", ts.adminToken, newPaymentBody())
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var pmt billing.Payment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pmt))
		assert.Equal(t, billing.StatusPending, pmt.Status)

		rec = ts.request(t, http.MethodGet, "/v1/payments?enrollmentId="+ts.enrollment.ID, ts.adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), pmt.ID)
	})

	t.Run("create with dangling enrollment ref", func(t *testing.T) {
		body := newPaymentBody()
		body["enrollment_id"] = "0e1de9a9-31fd-4b9a-8a44-c52742e1ee7f"
		rec := ts.request(t, http.MethodPost, "/v1/payments", ts.adminToken, body)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "enrollment not found")
	})
}

func TestForumAPI(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.request(t, http.MethodGet, "/v1/forums", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ts.forum.Name)
}

func TestTajweedAPI(t *testing.T) {
	ts := newTestServer(t)

	body := echoMap{
		"ayah_reference":   "2:255",
		"recording_id":     "b7a9e6a0-9f6a-4a1e-bb49-4f74e2b2a2ce",
		"duration_seconds": 42,
	}

	t.Run("requires auth", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/v1/tajweed/score", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ok", func(t *testing.T) {
		rec := ts.request(t, http.MethodPost, "/v1/tajweed/score", ts.studentToken, body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var score tajweedsvc.Score
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &score))
		assert.GreaterOrEqual(t, score.Overall, 60)
		assert.LessOrEqual(t, score.Overall, 100)
	})

	t.Run("invalid recording id", func(t *testing.T) {
		bad := echoMap{"ayah_reference": "2:255", "recording_id": "nope", "duration_seconds": 42}
		rec := ts.request(t, http.MethodPost, "/v1/tajweed/score", ts.studentToken, bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "recording_id")
	})
}
