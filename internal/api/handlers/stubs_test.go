package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/scriberly/scriberly-be/internal/auth"
	"github.com/scriberly/scriberly-be/internal/models"
	"github.com/scriberly/scriberly-be/internal/services"
	"github.com/stretchr/testify/require"
)

type stubArticleService struct {
	created    []models.Article
	createErr  error
	article    models.Article
	getErr     error
	latestPage services.ArticlePage
	latestErr  error
	gotPage    int
	gotPerPage int
}

func (s *stubArticleService) CreateArticle(article models.Article) (models.Article, error) {
	if s.createErr != nil {
		return models.Article{}, s.createErr
	}
	s.created = append(s.created, article)
	article.ID = "a1"
	article.Slug = "generated-slug"
	return article, nil
}

func (s *stubArticleService) GetArticleBySlug(slug string) (models.Article, error) {
	if s.getErr != nil {
		return models.Article{}, s.getErr
	}
	return s.article, nil
}

func (s *stubArticleService) Latest(page, perPage int) (services.ArticlePage, error) {
	s.gotPage, s.gotPerPage = page, perPage
	if s.latestErr != nil {
		return services.ArticlePage{}, s.latestErr
	}
	return s.latestPage, nil
}

func (s *stubArticleService) ImageFilenames() (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

type stubUserService struct {
	user          models.User
	editCalled    bool
	editUsername  string
	editEmail     string
	editPassword  string
	reissueCalled bool
	changedTier   string
}

func (s *stubUserService) GetUserByID(id string) (models.User, error) { return s.user, nil }
func (s *stubUserService) GetUserByEmail(email string) (models.User, error) {
	return s.user, nil
}
func (s *stubUserService) CreateUser(username, email, password string) (models.User, error) {
	return s.user, nil
}
func (s *stubUserService) AuthenticateUser(email, password string) (models.User, error) {
	return s.user, nil
}

func (s *stubUserService) EditProfile(id, username, email, password string) (models.User, error) {
	s.editCalled = true
	s.editUsername, s.editEmail, s.editPassword = username, email, password
	return s.user, nil
}

func (s *stubUserService) ReissueAPIToken(id string) (models.User, error) {
	s.reissueCalled = true
	user := s.user
	user.APIToken = "fresh-token"
	return user, nil
}

func (s *stubUserService) ChangeSubscription(id, tier string) (models.User, error) {
	s.changedTier = tier
	user := s.user
	user.Roles = []string{"ROLE_" + tier}
	return user, nil
}

type stubContentProvider struct {
	text string
	err  error
	got  services.GenerationRequest
}

func (s *stubContentProvider) Generate(ctx context.Context, req services.GenerationRequest) (string, error) {
	s.got = req
	return s.text, s.err
}

type stubFileStore struct {
	uploaded string
	err      error
}

func (s *stubFileStore) Upload(file multipart.File, header *multipart.FileHeader, previous string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.uploaded = header.Filename
	return "stored-image.png", nil
}

func (s *stubFileStore) Remove(name string) error             { return nil }
func (s *stubFileStore) List() ([]services.StoredFile, error) { return nil, nil }

type stubActivityService struct {
	recorded []string
}

func (s *stubActivityService) Record(activityType, message, userID string) error {
	s.recorded = append(s.recorded, activityType)
	return nil
}

func (s *stubActivityService) Recent(limit int) ([]models.Activity, error) {
	return nil, nil
}

func testUser() models.User {
	return models.User{
		ID:       "u1",
		Username: "alice",
		Email:    "alice@example.com",
		Roles:    []string{"ROLE_USER"},
		APIToken: "old-token",
	}
}

// withClaims attaches authenticated-session claims the way the JWT
// middleware does.
func withClaims(r *http.Request) *http.Request {
	claims := &auth.Claims{UserID: "u1", Username: "alice"}
	return r.WithContext(context.WithValue(r.Context(), auth.UserClaimsKey, claims))
}

func formPost(t *testing.T, target string, values url.Values) *http.Request {
	t.Helper()
	r := httptest.NewRequest("POST", target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return withClaims(r)
}

func multipartPost(t *testing.T, target string, fields map[string]string) *http.Request {
	t.Helper()
	var buf strings.Builder
	mw := multipart.NewWriter(&buf)
	for field, value := range fields {
		require.NoError(t, mw.WriteField(field, value))
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest("POST", target, strings.NewReader(buf.String()))
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return withClaims(r)
}

// flashMessage extracts the one-shot notification a handler queued, if any.
func flashMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "flash" && cookie.MaxAge >= 0 {
			message, err := url.QueryUnescape(cookie.Value)
			require.NoError(t, err)
			return message
		}
	}
	return ""
}
