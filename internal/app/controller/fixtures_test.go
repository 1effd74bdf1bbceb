package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/app/repository"
	"github.com/ikkim/fictionhub-backend/internal/app/service"
	"github.com/ikkim/fictionhub-backend/internal/db"
	apperrors "github.com/ikkim/fictionhub-backend/internal/errors"
	"github.com/ikkim/fictionhub-backend/internal/middleware"
	"github.com/ikkim/fictionhub-backend/internal/storage"
	"github.com/ikkim/fictionhub-backend/pkg/util"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-controller-secret"

type fakePresigner struct {
	calls int
}

func (f *fakePresigner) PresignCoverUpload(_ context.Context, filename, contentType string) (*storage.PresignedUpload, error) {
	f.calls++
	if err := storage.ValidateContentType(contentType, storage.CoverContentTypes); err != nil {
		return nil, err
	}
	key := "covers/test-" + filename
	return &storage.PresignedUpload{
		UploadURL: "https://upload.example.com/" + key,
		FileURL:   "https://cdn.example.com/" + key,
		Key:       key,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

type testEnv struct {
	router    *gin.Engine
	users     repository.UserRepository
	books     repository.BookRepository
	chapters  repository.ChapterRepository
	taxonomy  repository.TaxonomyRepository
	auth      service.AuthService
	presigner *fakePresigner
}

type testUser struct {
	ID    uint
	Token string
}

// setupControllerTest 실제 서비스/저장소 + SQLite 로 라우트 구성
func setupControllerTest(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	users := repository.NewUserRepository(testDB)
	books := repository.NewBookRepository(testDB)
	chapters := repository.NewChapterRepository(testDB)
	comments := repository.NewCommentRepository(testDB)
	reviews := repository.NewReviewRepository(testDB)
	taxonomy := repository.NewTaxonomyRepository(testDB)
	progress := repository.NewProgressRepository(testDB)

	authService := service.NewAuthService(users, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
	chapterService := service.NewChapterService(chapters, books)
	presigner := &fakePresigner{}

	authCtl := NewAuthController(authService)
	bookCtl := NewBookController(
		service.NewCatalogService(books, 0),
		service.NewBookService(books, taxonomy, service.NewViewCounter(books, false)),
	)
	chapterCtl := NewChapterController(chapterService)
	commentCtl := NewCommentController(service.NewCommentService(comments, chapterService, books, nil))
	reviewCtl := NewReviewController(service.NewReviewService(reviews, books))
	taxonomyCtl := NewTaxonomyController(service.NewTaxonomyService(taxonomy, books))
	progressCtl := NewProgressController(service.NewProgressService(progress, books, chapters))
	uploadCtl := NewUploadController(presigner)

	mw := middleware.NewAuthMiddleware(testJWTSecret)
	authenticate := mw.Authenticate()
	optionalAuth := mw.OptionalAuthenticate()
	publishers := mw.RequireRole(model.RoleAuthor, model.RoleAdmin)
	adminOnly := mw.RequireRole(model.RoleAdmin)

	r := gin.New()
	r.POST("/auth/register", authCtl.Register)
	r.POST("/auth/login", authCtl.Login)
	r.POST("/auth/logout", authenticate, authCtl.Logout)
	r.GET("/auth/me", authenticate, authCtl.GetMe)
	r.PUT("/auth/me", authenticate, authCtl.UpdateMe)

	r.GET("/books", bookCtl.Browse)
	r.GET("/books/:id", bookCtl.GetBook)
	r.POST("/books", authenticate, publishers, bookCtl.CreateBook)
	r.PUT("/books/:id", authenticate, bookCtl.UpdateBook)
	r.DELETE("/books/:id", authenticate, bookCtl.DeleteBook)
	r.DELETE("/admin/books/:id", authenticate, adminOnly, bookCtl.HardDeleteBook)

	r.GET("/books/:id/chapters", chapterCtl.ListChapters)
	r.POST("/books/:id/chapters", authenticate, chapterCtl.CreateChapter)
	r.GET("/books/:id/arcs", chapterCtl.ListArcs)
	r.POST("/books/:id/arcs", authenticate, chapterCtl.CreateArc)
	r.GET("/chapters/:id", chapterCtl.GetChapter)
	r.PUT("/chapters/:id", authenticate, chapterCtl.UpdateChapter)
	r.DELETE("/chapters/:id", authenticate, chapterCtl.DeleteChapter)

	r.GET("/chapters/:id/comments", optionalAuth, commentCtl.ListComments)
	r.POST("/chapters/:id/comments", authenticate, commentCtl.CreateComment)
	r.PUT("/comments/:id", authenticate, commentCtl.UpdateComment)
	r.DELETE("/comments/:id", authenticate, commentCtl.DeleteComment)
	r.POST("/comments/:id/reactions", authenticate, commentCtl.ReactToComment)

	r.GET("/books/:id/reviews", optionalAuth, reviewCtl.ListReviews)
	r.PUT("/books/:id/reviews", authenticate, reviewCtl.UpsertReview)
	r.DELETE("/reviews/:id", authenticate, reviewCtl.DeleteReview)
	r.POST("/reviews/:id/reactions", authenticate, reviewCtl.ReactToReview)
	r.POST("/reviews/:id/replies", authenticate, reviewCtl.CreateReply)
	r.PUT("/replies/:id", authenticate, reviewCtl.UpdateReply)
	r.DELETE("/replies/:id", authenticate, reviewCtl.DeleteReply)
	r.POST("/replies/:id/reactions", authenticate, reviewCtl.ReactToReply)

	r.GET("/genres", taxonomyCtl.ListGenres)
	r.GET("/tags", taxonomyCtl.ListTags)
	r.GET("/trends", taxonomyCtl.ListTrends)
	r.POST("/admin/genres", authenticate, adminOnly, taxonomyCtl.CreateGenre)
	r.PUT("/admin/genres/:id", authenticate, adminOnly, taxonomyCtl.UpdateGenre)
	r.DELETE("/admin/genres/:id", authenticate, adminOnly, taxonomyCtl.DeleteGenre)
	r.POST("/admin/tags", authenticate, adminOnly, taxonomyCtl.CreateTag)
	r.POST("/admin/trends", authenticate, adminOnly, taxonomyCtl.CreateTrend)
	r.POST("/admin/trends/:id/books/:bookId", authenticate, adminOnly, taxonomyCtl.AddBookToTrend)
	r.DELETE("/admin/trends/:id/books/:bookId", authenticate, adminOnly, taxonomyCtl.RemoveBookFromTrend)

	r.GET("/me/progress", authenticate, progressCtl.ListProgress)
	r.PUT("/me/progress/:bookId", authenticate, progressCtl.SaveProgress)

	r.POST("/upload/cover", authenticate, publishers, uploadCtl.PresignCover)

	return &testEnv{
		router:    r,
		users:     users,
		books:     books,
		chapters:  chapters,
		taxonomy:  taxonomy,
		auth:      authService,
		presigner: presigner,
	}
}

// user 저장소에 직접 사용자를 만들고 액세스 토큰 발급 (admin 포함)
func (e *testEnv) user(t *testing.T, name string, role model.UserRole) testUser {
	u := &model.User{
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "hashed",
		DisplayName:  name,
		Role:         role,
	}
	require.NoError(t, e.users.Create(u))

	tokens, err := util.GenerateTokenPair(u.ID, u.Email, string(role), testJWTSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return testUser{ID: u.ID, Token: tokens.AccessToken}
}

func (e *testEnv) book(t *testing.T, author testUser, title string) *model.Book {
	authorID := author.ID
	book := &model.Book{
		Title:      title,
		AuthorID:   &authorID,
		VerseType:  model.VerseOriginal,
		OriginType: model.OriginPlatformOriginal,
		Status:     model.StatusOngoing,
	}
	require.NoError(t, e.books.Create(book))
	return book
}

func (e *testEnv) chapter(t *testing.T, bookID uint, number int) *model.Chapter {
	chapter := &model.Chapter{
		BookID:        bookID,
		ChapterNumber: number,
		Title:         fmt.Sprintf("Chapter %d", number),
		Content:       "one two three",
		WordCount:     3,
	}
	require.NoError(t, e.chapters.Create(chapter))
	return chapter
}

// do JSON 요청 실행 (token 이 비어있으면 비로그인)
func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var payload *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		payload = bytes.NewBuffer(data)
	} else {
		payload = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var body apperrors.ErrorResponse
	decode(t, w, &body)
	return body.Error
}

func validationFields(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	var body apperrors.ErrorResponse
	decode(t, w, &body)
	return body.Fields
}

func assertStatus(t *testing.T, want int, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, w.Code, w.Body.String())
}
