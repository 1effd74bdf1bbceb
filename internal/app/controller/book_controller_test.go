package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	apperrors "github.com/ikkim/fictionhub-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookController_BrowseFiltersAndPages(t *testing.T) {
	env := setupControllerTest(t)
	author := env.user(t, "author", model.RoleAuthor)

	fantasy, err := env.taxonomy.FindOrCreateGenre("Fantasy")
	require.NoError(t, err)
	romance, err := env.taxonomy.FindOrCreateGenre("Romance")
	require.NoError(t, err)

	for i, genre := range []*model.Genre{fantasy, fantasy, romance} {
		book := env.book(t, author, fmt.Sprintf("Book %d", i))
		book.Genres = []model.Genre{*genre}
		require.NoError(t, env.books.Update(book))
	}

	w := env.do(http.MethodGet, "/books?sortBy=title&isAscending=true&pageSize=1&pageNumber=2", "", nil)
	assertStatus(t, http.StatusOK, w)
	var page model.BookPage
	decode(t, w, &page)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Book 1", page.Items[0].Title)

	w = env.do(http.MethodGet, fmt.Sprintf("/books?genreIds=%d,%d&excludeGenreIds=%d", fantasy.ID, romance.ID, romance.ID), "", nil)
	assertStatus(t, http.StatusOK, w)
	decode(t, w, &page)
	assert.Equal(t, int64(2), page.TotalCount)

	w = env.do(http.MethodGet, fmt.Sprintf("/books?genreIds=%d&genreIds=%d", fantasy.ID, romance.ID), "", nil)
	assertStatus(t, http.StatusOK, w)
	decode(t, w, &page)
	assert.Equal(t, int64(3), page.TotalCount)
}

func TestBookController_BrowseLenientEnums(t *testing.T) {
	env := setupControllerTest(t)
	author := env.user(t, "author", model.RoleAuthor)
	env.book(t, author, "Only")

	w := env.do(http.MethodGet, "/books?verseType=bogus&statuses=nonsense,Ongoing&timeRange=eon&sortBy=unknown", "", nil)
	assertStatus(t, http.StatusOK, w)

	var page model.BookPage
	decode(t, w, &page)
	assert.Equal(t, int64(1), page.TotalCount)
	assert.Equal(t, model.DefaultPageSize, page.PageSize)

	w = env.do(http.MethodGet, "/books?pageNumber=abc", "", nil)
	assertStatus(t, http.StatusBadRequest, w)
}

func TestBookController_CreateRequiresPublisher(t *testing.T) {
	env := setupControllerTest(t)
	reader := env.user(t, "reader", model.RoleUser)
	author := env.user(t, "author", model.RoleAuthor)

	input := model.BookInput{Title: "New Dawn", VerseType: "AU", OriginType: "Translation", SourceURL: "https://example.com/raw"}

	w := env.do(http.MethodPost, "/books", "", input)
	assertStatus(t, http.StatusUnauthorized, w)

	w = env.do(http.MethodPost, "/books", reader.Token, input)
	assertStatus(t, http.StatusForbidden, w)

	w = env.do(http.MethodPost, "/books", author.Token, input)
	assertStatus(t, http.StatusCreated, w)
	var detail model.BookDetail
	decode(t, w, &detail)
	assert.Equal(t, "New Dawn", detail.Title)
	assert.Equal(t, string(model.VerseAU), detail.VerseType)
	assert.Equal(t, "https://example.com/raw", detail.SourceURL)
	assert.NotNil(t, detail.Trends)

	w = env.do(http.MethodPost, "/books", author.Token, map[string]interface{}{"title": ""})
	assertStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "required", validationFields(t, w)["title"])

	w = env.do(http.MethodPost, "/books", author.Token, model.BookInput{Title: "Bad", GenreIDs: []uint{999}})
	assertStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, apperrors.GenreNotFound, errorCode(t, w))
}

func TestBookController_GetBook(t *testing.T) {
	env := setupControllerTest(t)
	author := env.user(t, "author", model.RoleAuthor)
	book := env.book(t, author, "Visible")

	w := env.do(http.MethodGet, fmt.Sprintf("/books/%d", book.ID), "", nil)
	assertStatus(t, http.StatusOK, w)
	var detail model.BookDetail
	decode(t, w, &detail)
	assert.Equal(t, "Visible", detail.Title)
	assert.Equal(t, "author", detail.AuthorName)

	stored, err := env.books.FindByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.TotalViews)

	w = env.do(http.MethodGet, "/books/9999", "", nil)
	assertStatus(t, http.StatusNotFound, w)
	assert.Equal(t, apperrors.BookNotFound, errorCode(t, w))

	w = env.do(http.MethodGet, "/books/abc", "", nil)
	assertStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, apperrors.ValidationInvalidID, errorCode(t, w))
}

func TestBookController_UpdateDeleteOwnership(t *testing.T) {
	env := setupControllerTest(t)
	author := env.user(t, "author", model.RoleAuthor)
	rival := env.user(t, "rival", model.RoleAuthor)
	admin := env.user(t, "admin", model.RoleAdmin)
	book := env.book(t, author, "Contested")
	path := fmt.Sprintf("/books/%d", book.ID)

	w := env.do(http.MethodPut, path, rival.Token, model.BookInput{Title: "Taken"})
	assertStatus(t, http.StatusForbidden, w)
	assert.Equal(t, apperrors.AuthzOwnerOnly, errorCode(t, w))

	w = env.do(http.MethodPut, path, author.Token, model.BookInput{Title: "Renamed"})
	assertStatus(t, http.StatusOK, w)

	w = env.do(http.MethodDelete, "/admin/books/"+fmt.Sprint(book.ID), author.Token, nil)
	assertStatus(t, http.StatusForbidden, w)

	w = env.do(http.MethodDelete, path, author.Token, nil)
	assertStatus(t, http.StatusOK, w)

	w = env.do(http.MethodGet, path, "", nil)
	assertStatus(t, http.StatusNotFound, w)

	w = env.do(http.MethodDelete, "/admin/books/"+fmt.Sprint(book.ID), admin.Token, nil)
	assertStatus(t, http.StatusOK, w)
}
