package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kuomat/penn-labs/config"
	"github.com/kuomat/penn-labs/internal/api/middleware"
	"github.com/kuomat/penn-labs/internal/dto"
	"github.com/kuomat/penn-labs/internal/service"
	"github.com/kuomat/penn-labs/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	signupResult *dto.UserResponse
	signupErr    error
	loginResult  *dto.LoginResponse
	loginErr     error
	logoutErr    error
	loggedOut    string
}

func (m *mockAuthService) Signup(_ context.Context, _ *dto.SignupRequest) (*dto.UserResponse, error) {
	return m.signupResult, m.signupErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.LoginResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, sessionID string) error {
	m.loggedOut = sessionID
	return m.logoutErr
}

// ── Mock ClubService ──

type mockClubService struct {
	listResult   []dto.ClubResponse
	searchResult []dto.ClubResponse
	searchErr    error
	createResult *dto.ClubResponse
	createErr    error
	favErr       error
	modifyResult *dto.ClubResponse
	modifyErr    error
	modifyReq    *dto.ModifyClubRequest
	deleteErr    error
	joinErr      error
	joinedBy     uint
}

func (m *mockClubService) List(_ context.Context) ([]dto.ClubResponse, error) {
	return m.listResult, nil
}
func (m *mockClubService) Search(_ context.Context, _ string) ([]dto.ClubResponse, error) {
	return m.searchResult, m.searchErr
}
func (m *mockClubService) Create(_ context.Context, _ *dto.CreateClubRequest) (*dto.ClubResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockClubService) Favorite(_ context.Context, _ string) error { return m.favErr }
func (m *mockClubService) Modify(_ context.Context, _ string, req *dto.ModifyClubRequest) (*dto.ClubResponse, error) {
	m.modifyReq = req
	return m.modifyResult, m.modifyErr
}
func (m *mockClubService) Delete(_ context.Context, _ string) error { return m.deleteErr }
func (m *mockClubService) Join(_ context.Context, userID uint, _ string) error {
	m.joinedBy = userID
	return m.joinErr
}

// ── Mock FileService ──

type mockFileService struct {
	created     bool
	uploadErr   error
	gotPath     string
	gotType     string
	gotBody     []byte
	download    *service.FileDownload
	downloadErr error
}

func (m *mockFileService) Upload(_ context.Context, _, p string, content []byte, ct string) (bool, error) {
	m.gotPath, m.gotType, m.gotBody = p, ct, content
	return m.created, m.uploadErr
}
func (m *mockFileService) Download(_ context.Context, _, _ string) (*service.FileDownload, error) {
	return m.download, m.downloadErr
}

// ── Mock CommentService ──

type mockCommentService struct {
	result *dto.CommentResponse
	err    error
	gotID  uint
}

func (m *mockCommentService) Create(_ context.Context, _ uint, _ string, _ *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	return m.result, m.err
}
func (m *mockCommentService) ListByClub(_ context.Context, _ string) ([]dto.CommentResponse, error) {
	return nil, m.err
}
func (m *mockCommentService) Get(_ context.Context, id uint) (*dto.CommentResponse, error) {
	m.gotID = id
	return m.result, m.err
}
func (m *mockCommentService) Update(_ context.Context, id uint, _ *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	m.gotID = id
	return m.result, m.err
}
func (m *mockCommentService) Delete(_ context.Context, id uint) error {
	m.gotID = id
	return m.err
}
func (m *mockCommentService) Reply(_ context.Context, _, parentID uint, _ *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	m.gotID = parentID
	return m.result, m.err
}

// ── Mock UserService ──

type mockUserService struct {
	result *dto.UserResponse
	err    error
}

func (m *mockUserService) GetByUsername(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.result, m.err
}

// ── Mock ExportService ──

type mockExportService struct {
	buf *bytes.Buffer
	err error
}

func (m *mockExportService) ExportClubs(_ context.Context) (*bytes.Buffer, string, error) {
	return m.buf, "clubs_20261015.xlsx", m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{Cookie: config.CookieConfig{Name: "session", SameSite: "Lax"}}
}

// withUser 模拟会话中间件注入的登录态
func withUser(id uint, sessionID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextSessionID, sessionID)
		c.Next()
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func serve(r *gin.Engine, method, target string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Signup_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{signupResult: &dto.UserResponse{Username: "alice"}}, testAuthConfig())
	r := gin.New()
	r.POST("/signup", h.Signup)

	w := serve(r, "POST", "/signup", jsonBody(dto.SignupRequest{Username: "alice", Password: "pw"}))
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestAuthHandler_Signup_Taken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{signupErr: service.ErrUsernameTaken}, testAuthConfig())
	r := gin.New()
	r.POST("/signup", h.Signup)

	w := serve(r, "POST", "/signup", jsonBody(dto.SignupRequest{Username: "alice", Password: "pw"}))
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestAuthHandler_Signup_MissingFields(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())
	r := gin.New()
	r.POST("/signup", h.Signup)

	w := serve(r, "POST", "/signup", jsonBody(map[string]string{"username": "alice"}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_SetsCookie(t *testing.T) {
	mock := &mockAuthService{loginResult: &dto.LoginResponse{Username: "alice", Token: "tok", ExpiresIn: 3600}}
	h := NewAuthHandler(mock, testAuthConfig())
	r := gin.New()
	r.POST("/login", h.Login)

	w := serve(r, "POST", "/login", jsonBody(dto.LoginRequest{Username: "alice", Password: "pw"}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var found *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "session" {
			found = ck
		}
	}
	if found == nil {
		t.Fatal("expected session cookie to be set")
	}
	if found.Value != "tok" || !found.HttpOnly || found.MaxAge != 3600 {
		t.Errorf("unexpected cookie: %+v", found)
	}
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	for _, err := range []error{service.ErrInvalidCredentials, service.ErrAccountLocked} {
		h := NewAuthHandler(&mockAuthService{loginErr: err}, testAuthConfig())
		r := gin.New()
		r.POST("/login", h.Login)

		w := serve(r, "POST", "/login", jsonBody(dto.LoginRequest{Username: "alice", Password: "bad"}))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%v: expected 400, got %d", err, w.Code)
		}
		if msg := parseResponse(w).Message; msg != err.Error() {
			t.Errorf("expected message %q, got %q", err.Error(), msg)
		}
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock, testAuthConfig())
	r := gin.New()
	r.POST("/logout", withUser(1, "sid-1"), h.Logout)

	w := serve(r, "POST", "/logout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.loggedOut != "sid-1" {
		t.Errorf("expected session sid-1 ended, got %q", mock.loggedOut)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected cookie expiry, got %+v", cookies)
	}
}

func TestAuthHandler_Logout_Anonymous(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())
	r := gin.New()
	r.POST("/logout", h.Logout)

	w := serve(r, "POST", "/logout", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ClubHandler Tests
// ═══════════════════════════════════════════════════════════

func clubRouter(mock *mockClubService) *gin.Engine {
	h := NewClubHandler(mock)
	r := gin.New()
	r.GET("/api/clubs", h.ListClubs)
	r.POST("/api/clubs/new", h.CreateClub)
	r.GET("/api/clubs/:name", h.SearchClubs)
	r.DELETE("/api/clubs/:name", h.DeleteClub)
	r.POST("/api/clubs/fav/:name", h.FavoriteClub)
	r.PUT("/api/clubs/mod/:name", h.ModifyClub)
	r.POST("/api/clubs/join/:name", withUser(7, "sid"), h.JoinClub)
	return r
}

func TestClubHandler_Search_NoMatch(t *testing.T) {
	r := clubRouter(&mockClubService{searchErr: service.ErrNoClubMatch})

	w := serve(r, "GET", "/api/clubs/zzz", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if msg := parseResponse(w).Message; msg != "zzz not in database" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestClubHandler_Create(t *testing.T) {
	r := clubRouter(&mockClubService{createResult: &dto.ClubResponse{Name: "Chess"}})
	w := serve(r, "POST", "/api/clubs/new", jsonBody(dto.CreateClubRequest{Name: "Chess"}))
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}

	r = clubRouter(&mockClubService{createErr: service.ErrClubExists})
	w = serve(r, "POST", "/api/clubs/new", jsonBody(dto.CreateClubRequest{Name: "Chess"}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate, got %d", w.Code)
	}

	w = serve(r, "POST", "/api/clubs/new", jsonBody(map[string]string{"code": "c"}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing name, got %d", w.Code)
	}
}

func TestClubHandler_UnknownClub(t *testing.T) {
	mock := &mockClubService{
		favErr:    service.ErrClubNotFound,
		modifyErr: service.ErrClubNotFound,
		deleteErr: service.ErrClubNotFound,
		joinErr:   service.ErrClubNotFound,
	}
	r := clubRouter(mock)

	cases := []struct {
		method, target string
		body           io.Reader
	}{
		{"POST", "/api/clubs/fav/ghost", nil},
		{"PUT", "/api/clubs/mod/ghost", strings.NewReader(`{}`)},
		{"DELETE", "/api/clubs/ghost", nil},
		{"POST", "/api/clubs/join/ghost", nil},
	}
	for _, tc := range cases {
		w := serve(r, tc.method, tc.target, tc.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s %s: expected 400, got %d", tc.method, tc.target, w.Code)
		}
	}
}

func TestClubHandler_Modify_AbsentTagsStayNil(t *testing.T) {
	mock := &mockClubService{modifyResult: &dto.ClubResponse{Name: "Chess"}}
	r := clubRouter(mock)

	w := serve(r, "PUT", "/api/clubs/mod/Chess", strings.NewReader(`{"description":"new"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.modifyReq.Tags != nil {
		t.Error("expected tags to stay nil when absent")
	}
	if mock.modifyReq.Description == nil || *mock.modifyReq.Description != "new" {
		t.Error("expected description to be bound")
	}
}

func TestClubHandler_Join_UsesSessionUser(t *testing.T) {
	mock := &mockClubService{}
	r := clubRouter(mock)

	w := serve(r, "POST", "/api/clubs/join/Chess", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.joinedBy != 7 {
		t.Errorf("expected user 7, got %d", mock.joinedBy)
	}
}

func TestClubHandler_InternalErrorEchoed(t *testing.T) {
	r := clubRouter(&mockClubService{favErr: errors.New("disk on fire")})

	w := serve(r, "POST", "/api/clubs/fav/Chess", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if msg := parseResponse(w).Message; msg != "disk on fire" {
		t.Errorf("expected echoed error, got %q", msg)
	}
}

// ═══════════════════════════════════════════════════════════
// FileHandler Tests
// ═══════════════════════════════════════════════════════════

func fileRouter(mock *mockFileService, limit int64) *gin.Engine {
	h := NewFileHandler(mock)
	r := gin.New()
	r.Use(middleware.BodyLimit(limit))
	r.PUT("/api/clubs/:name/files/*path", h.Upload)
	r.GET("/api/clubs/:name/files/*path", h.Download)
	return r
}

func TestFileHandler_Upload_Created(t *testing.T) {
	mock := &mockFileService{created: true}
	r := fileRouter(mock, 1<<20)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/clubs/Chess/files/docs/a.txt", strings.NewReader("hello"))
	req.Header.Set("Content-Type", "text/plain")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
	if mock.gotPath != "/docs/a.txt" || mock.gotType != "text/plain" || string(mock.gotBody) != "hello" {
		t.Errorf("unexpected upload args: %q %q %q", mock.gotPath, mock.gotType, mock.gotBody)
	}
}

func TestFileHandler_Upload_Overwrite(t *testing.T) {
	r := fileRouter(&mockFileService{created: false}, 1<<20)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PUT", "/api/clubs/Chess/files/a.txt", strings.NewReader("x")))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestFileHandler_Upload_Errors(t *testing.T) {
	cases := map[error]int{
		service.ErrClubNotFound:    http.StatusBadRequest,
		service.ErrEmptyFile:       http.StatusBadRequest,
		service.ErrInvalidFilePath: http.StatusBadRequest,
	}
	for err, code := range cases {
		r := fileRouter(&mockFileService{uploadErr: err}, 1<<20)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("PUT", "/api/clubs/Chess/files/a.txt", strings.NewReader("x")))
		if w.Code != code {
			t.Errorf("%v: expected %d, got %d", err, code, w.Code)
		}
	}
}

func TestFileHandler_Upload_TooLarge(t *testing.T) {
	r := fileRouter(&mockFileService{created: true}, 4)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PUT", "/api/clubs/Chess/files/a.txt", strings.NewReader("0123456789")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

func TestFileHandler_Download(t *testing.T) {
	mock := &mockFileService{download: &service.FileDownload{
		Content:     []byte("hello"),
		ContentType: "text/plain",
		Name:        "docs/a.txt",
	}}
	r := fileRouter(mock, 1<<20)

	w := serve(r, "GET", "/api/clubs/Chess/files/docs/a.txt", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "hello" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/plain" {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment;") || !strings.Contains(cd, "a.txt") {
		t.Errorf("unexpected disposition %q", cd)
	}
}

func TestFileHandler_Download_Missing(t *testing.T) {
	r := fileRouter(&mockFileService{downloadErr: service.ErrFileNotFound}, 1<<20)

	w := serve(r, "GET", "/api/clubs/Chess/files/nope.txt", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CommentHandler Tests
// ═══════════════════════════════════════════════════════════

func commentRouter(mock *mockCommentService) *gin.Engine {
	h := NewCommentHandler(mock)
	r := gin.New()
	r.GET("/api/clubs/comments/:id", h.GetComment)
	r.PUT("/api/clubs/comments/:id", h.UpdateComment)
	r.DELETE("/api/clubs/comments/:id", h.DeleteComment)
	r.POST("/api/clubs/comments/:id/reply", withUser(3, "sid"), h.ReplyComment)
	r.POST("/api/clubs/:name/comments", withUser(3, "sid"), h.CreateComment)
	return r
}

func TestCommentHandler_InvalidID(t *testing.T) {
	r := commentRouter(&mockCommentService{})

	w := serve(r, "GET", "/api/clubs/comments/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCommentHandler_Reply(t *testing.T) {
	parent := uint(5)
	mock := &mockCommentService{result: &dto.CommentResponse{ID: 6, ParentID: &parent}}
	r := commentRouter(mock)

	w := serve(r, "POST", "/api/clubs/comments/5/reply", jsonBody(dto.CreateCommentRequest{Comment: "me too"}))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if mock.gotID != 5 {
		t.Errorf("expected parent 5, got %d", mock.gotID)
	}
}

func TestCommentHandler_NotFound(t *testing.T) {
	r := commentRouter(&mockCommentService{err: service.ErrCommentNotFound})

	for _, method := range []string{"GET", "DELETE"} {
		w := serve(r, method, "/api/clubs/comments/99", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", method, w.Code)
		}
	}
}

func TestCommentHandler_Create_MissingBody(t *testing.T) {
	r := commentRouter(&mockCommentService{})

	w := serve(r, "POST", "/api/clubs/Chess/comments", jsonBody(map[string]string{}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// UserHandler / ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUserHandler_GetUser(t *testing.T) {
	h := NewUserHandler(&mockUserService{err: service.ErrUserNotFound})
	r := gin.New()
	r.GET("/api/users/:username", h.GetUser)

	w := serve(r, "GET", "/api/users/ghost", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	h = NewUserHandler(&mockUserService{result: &dto.UserResponse{Username: "alice", Clubs: []string{"Chess"}}})
	r = gin.New()
	r.GET("/api/users/:username", h.GetUser)

	w = serve(r, "GET", "/api/users/alice", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestExportHandler_ExportClubs(t *testing.T) {
	h := NewExportHandler(&mockExportService{buf: bytes.NewBufferString("xlsx")})
	r := gin.New()
	r.GET("/api/export/clubs", h.ExportClubs)

	w := serve(r, "GET", "/api/export/clubs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "clubs_20261015.xlsx") {
		t.Errorf("unexpected disposition %q", w.Header().Get("Content-Disposition"))
	}
}

func TestExportHandler_Failure(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportGenerateFail})
	r := gin.New()
	r.GET("/api/export/clubs", h.ExportClubs)

	w := serve(r, "GET", "/api/export/clubs", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}
