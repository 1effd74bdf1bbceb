package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/fictionhub-backend/config"
	"github.com/ikkim/fictionhub-backend/internal/app/controller"
	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/app/repository"
	"github.com/ikkim/fictionhub-backend/internal/app/service"
	"github.com/ikkim/fictionhub-backend/internal/db"
	"github.com/ikkim/fictionhub-backend/internal/middleware"
	"github.com/ikkim/fictionhub-backend/internal/storage"
	ws "github.com/ikkim/fictionhub-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

type stubPresigner struct{}

func (stubPresigner) PresignCoverUpload(_ context.Context, filename, _ string) (*storage.PresignedUpload, error) {
	return &storage.PresignedUpload{Key: "covers/" + filename, ExpiresAt: time.Now()}, nil
}

func setupRouter(t *testing.T, origins []string) *gin.Engine {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	require.NoError(t, db.SeedReferenceData(testDB))

	users := repository.NewUserRepository(testDB)
	books := repository.NewBookRepository(testDB)
	chapters := repository.NewChapterRepository(testDB)
	taxonomy := repository.NewTaxonomyRepository(testDB)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := ws.NewHub()
	go hub.Run(ctx)

	chapterService := service.NewChapterService(chapters, books)
	controllers := Controllers{
		Auth: controller.NewAuthController(service.NewAuthService(users, testSecret, 15*time.Minute, time.Hour)),
		Book: controller.NewBookController(
			service.NewCatalogService(books, 0),
			service.NewBookService(books, taxonomy, service.NewViewCounter(books, false)),
		),
		Chapter:  controller.NewChapterController(chapterService),
		Comment:  controller.NewCommentController(service.NewCommentService(repository.NewCommentRepository(testDB), chapterService, books, hub)),
		Review:   controller.NewReviewController(service.NewReviewService(repository.NewReviewRepository(testDB), books)),
		Taxonomy: controller.NewTaxonomyController(service.NewTaxonomyService(taxonomy, books)),
		Progress: controller.NewProgressController(service.NewProgressService(repository.NewProgressRepository(testDB), books, chapters)),
		Upload:   controller.NewUploadController(stubPresigner{}),
		Feed:     controller.NewFeedController(chapterService, hub, origins),
	}

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode},
		CORS:   config.CORSConfig{AllowedOrigins: origins},
	}
	return NewRouter(controllers, middleware.NewAuthMiddleware(testSecret), cfg).Setup()
}

func call(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, r *gin.Engine, email string, role model.UserRole) string {
	w := call(r, http.MethodPost, "/api/v1/auth/register", "", model.RegisterInput{
		Email:       email,
		Password:    "password123",
		DisplayName: email,
		Role:        role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Tokens struct {
			AccessToken string `json:"accessToken"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Tokens.AccessToken)
	return resp.Tokens.AccessToken
}

type idOnly struct {
	ID uint `json:"id"`
}

func TestRouter_ReaderJourney(t *testing.T) {
	r := setupRouter(t, nil)
	author := register(t, r, "author@example.com", model.RoleAuthor)
	reader := register(t, r, "reader@example.com", model.RoleUser)

	// 1. 작가가 작품과 챕터 등록
	w := call(r, http.MethodPost, "/api/v1/books", reader, model.BookInput{Title: "Nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(r, http.MethodPost, "/api/v1/books", author, model.BookInput{Title: "Glass Orchard", VerseType: "AU"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var book idOnly
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))

	w = call(r, http.MethodPost, fmt.Sprintf("/api/v1/books/%d/chapters", book.ID), author, model.ChapterInput{
		Title:         "Seeds",
		Content:       "the orchard was made of glass",
		ChapterNumber: 1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var chapter idOnly
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chapter))

	// 2. 독자가 목록 조회, 댓글, 리뷰, 진행도 저장
	w = call(r, http.MethodGet, "/api/v1/books?searchTerm=orchard&verseType=AU", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page model.BookPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].IsFanfic)
	assert.Equal(t, int64(6), page.Items[0].WordCount)

	w = call(r, http.MethodPost, fmt.Sprintf("/api/v1/chapters/%d/comments", chapter.ID), reader, model.CommentInput{Content: "beautiful"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(r, http.MethodPut, fmt.Sprintf("/api/v1/books/%d/reviews", book.ID), reader, model.ReviewInput{
		CharacterAccuracy: 4, ChemistryRelationships: 4, PlotCreativity: 4, CanonIntegration: 4, EmotionalDamage: 4,
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(r, http.MethodPut, fmt.Sprintf("/api/v1/me/progress/%d", book.ID), reader, model.ProgressInput{ChapterID: chapter.ID})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(r, http.MethodGet, fmt.Sprintf("/api/v1/books/%d", book.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail model.BookDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, 3.6, detail.AverageRating)
	assert.Equal(t, int64(1), detail.ReviewCount)

	// 3. 관리자 전용 라우트
	w = call(r, http.MethodDelete, fmt.Sprintf("/api/v1/admin/books/%d", book.ID), author, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_HealthMetricsAndCORS(t *testing.T) {
	r := setupRouter(t, []string{"https://fictionhub.example"})

	w := call(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = call(r, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fictionhub_http_requests_total")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/books", nil)
	req.Header.Set("Origin", "https://fictionhub.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://fictionhub.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/books", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCorsConfig(t *testing.T) {
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.True(t, corsConfig([]string{"https://a.example", "*"}).AllowAllOrigins)

	cfg := corsConfig([]string{"https://a.example"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, []string{"https://a.example"}, cfg.AllowOrigins)
}
