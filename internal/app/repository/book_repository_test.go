package repository

import (
	"testing"
	"time"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type catalogFixture struct {
	db                       *gorm.DB
	repo                     BookRepository
	fantasy, romance, horror model.Genre
	slowBurn, foundFamily    model.Tag
	alpha, beta, gamma       *model.Book
	delta, epsilon           *model.Book
}

// setupCatalog
//
//	alpha   Fantasy          SlowBurn     Ongoing
//	beta    Romance          SlowBurn     Completed
//	gamma   Fantasy, Horror  FoundFamily  Completed
//	delta   Horror           SlowBurn     Paused
//	epsilon (none)           (none)       Dropped, two years old
func setupCatalog(t *testing.T) *catalogFixture {
	testDB := setupRepoDB(t)
	f := &catalogFixture{db: testDB, repo: NewBookRepository(testDB)}

	f.fantasy = createGenre(t, testDB, "Fantasy")
	f.romance = createGenre(t, testDB, "Romance")
	f.horror = createGenre(t, testDB, "Horror")
	f.slowBurn = createTag(t, testDB, "Slow Burn")
	f.foundFamily = createTag(t, testDB, "Found Family")

	f.alpha = createBook(t, testDB, model.Book{
		Title: "Alpha", Description: "A dragon story", Status: model.StatusOngoing,
		Genres: []model.Genre{f.fantasy}, Tags: []model.Tag{f.slowBurn},
	})
	f.beta = createBook(t, testDB, model.Book{
		Title: "Beta", Status: model.StatusCompleted, VerseType: model.VerseFanfic,
		Genres: []model.Genre{f.romance}, Tags: []model.Tag{f.slowBurn},
	})
	f.gamma = createBook(t, testDB, model.Book{
		Title: "Gamma", Status: model.StatusCompleted, OriginType: model.OriginTranslation,
		Genres: []model.Genre{f.fantasy, f.horror}, Tags: []model.Tag{f.foundFamily},
	})
	f.delta = createBook(t, testDB, model.Book{
		Title: "Delta", Status: model.StatusPaused, AverageRating: 4.5,
		Genres: []model.Genre{f.horror}, Tags: []model.Tag{f.slowBurn},
	})
	f.epsilon = createBook(t, testDB, model.Book{
		Title: "Epsilon", Status: model.StatusDropped,
		CreatedAt: time.Now().AddDate(-2, 0, 0),
	})
	return f
}

func TestBookRepository_Browse_FilterComposition(t *testing.T) {
	f := setupCatalog(t)

	books, total, err := f.repo.Browse(BookFilter{
		GenreIDs:      []uint{f.fantasy.ID, f.romance.ID},
		TagIDs:        []uint{f.slowBurn.ID},
		SortBy:        "title",
		SortAscending: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []uint{f.alpha.ID, f.beta.ID}, bookIDs(books))
}

func TestBookRepository_Browse_Filters(t *testing.T) {
	f := setupCatalog(t)

	fanfic := model.VerseFanfic
	translation := model.OriginTranslation
	minRating := 4.0
	weekAgo := time.Now().AddDate(0, 0, -7)

	tests := []struct {
		name   string
		filter BookFilter
		want   []uint
	}{
		{
			name:   "No filters",
			filter: BookFilter{},
			want:   []uint{f.alpha.ID, f.beta.ID, f.delta.ID, f.epsilon.ID, f.gamma.ID},
		},
		{
			name:   "Verse type",
			filter: BookFilter{VerseType: &fanfic},
			want:   []uint{f.beta.ID},
		},
		{
			name:   "Origin type",
			filter: BookFilter{OriginType: &translation},
			want:   []uint{f.gamma.ID},
		},
		{
			name:   "Statuses match any",
			filter: BookFilter{Statuses: []model.BookStatus{model.StatusCompleted, model.StatusPaused}},
			want:   []uint{f.beta.ID, f.delta.ID, f.gamma.ID},
		},
		{
			name:   "Minimum rating",
			filter: BookFilter{MinRating: &minRating},
			want:   []uint{f.delta.ID},
		},
		{
			name:   "Genre exclude",
			filter: BookFilter{ExcludeGenreIDs: []uint{f.horror.ID}},
			want:   []uint{f.alpha.ID, f.beta.ID, f.epsilon.ID},
		},
		{
			name:   "Tag include and exclude are independent of genres",
			filter: BookFilter{GenreIDs: []uint{f.horror.ID}, ExcludeTagIDs: []uint{f.slowBurn.ID}},
			want:   []uint{f.gamma.ID},
		},
		{
			name:   "Created after",
			filter: BookFilter{CreatedAfter: &weekAgo},
			want:   []uint{f.alpha.ID, f.beta.ID, f.delta.ID, f.gamma.ID},
		},
		{
			name:   "Search description case-insensitive",
			filter: BookFilter{SearchTerm: "DRAGON"},
			want:   []uint{f.alpha.ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.SortBy = "title"
			tt.filter.SortAscending = true

			books, total, err := f.repo.Browse(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, bookIDs(books))
			assert.Equal(t, int64(len(tt.want)), total)
		})
	}
}

func TestBookRepository_Browse_SearchAuthorFallback(t *testing.T) {
	testDB := setupRepoDB(t)
	repo := NewBookRepository(testDB)

	author := createUser(t, testDB, "Quill", model.RoleAuthor)
	linked := createBook(t, testDB, model.Book{Title: "Linked", AuthorID: &author.ID})
	named := createBook(t, testDB, model.Book{Title: "Named", AuthorID: &author.ID, AuthorName: "Pen Name"})
	createBook(t, testDB, model.Book{Title: "100% Love"})
	createBook(t, testDB, model.Book{Title: "1000 Nights"})

	books, _, err := repo.Browse(BookFilter{SearchTerm: "quill"})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, linked.ID, books[0].ID)
	assert.Equal(t, "Quill", books[0].ResolvedAuthorName)

	books, _, err = repo.Browse(BookFilter{SearchTerm: "pen name"})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, named.ID, books[0].ID)
	assert.Equal(t, "Pen Name", books[0].DisplayAuthorName())

	// 와일드카드 문자는 리터럴로 매칭
	books, _, err = repo.Browse(BookFilter{SearchTerm: "100%"})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "100% Love", books[0].Title)
}

func TestBookRepository_Browse_LiveCounts(t *testing.T) {
	f := setupCatalog(t)

	reader1 := createUser(t, f.db, "reader1", model.RoleUser)
	reader2 := createUser(t, f.db, "reader2", model.RoleUser)
	createReview(t, f.db, f.gamma.ID, reader1.ID, 4)
	createReview(t, f.db, f.gamma.ID, reader2.ID, 5)
	createReview(t, f.db, f.beta.ID, reader1.ID, 3)
	deleted := createReview(t, f.db, f.beta.ID, reader2.ID, 3)
	require.NoError(t, f.db.Delete(deleted).Error)

	createChapter(t, f.db, f.alpha.ID, 1)
	createChapter(t, f.db, f.alpha.ID, 2)
	createChapter(t, f.db, f.alpha.ID, 3)

	minReviews := 2
	books, total, err := f.repo.Browse(BookFilter{MinReviewCount: &minReviews})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, books, 1)
	assert.Equal(t, f.gamma.ID, books[0].ID)
	assert.Equal(t, int64(2), books[0].ReviewCount)

	// 0 이하는 필터 없음
	zero := 0
	_, total, err = f.repo.Browse(BookFilter{MinReviewCount: &zero})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	books, _, err = f.repo.Browse(BookFilter{SortBy: "ReviewCount"})
	require.NoError(t, err)
	assert.Equal(t, f.gamma.ID, books[0].ID)
	assert.Equal(t, f.beta.ID, books[1].ID)
	assert.Equal(t, int64(1), books[1].ReviewCount)

	books, _, err = f.repo.Browse(BookFilter{SortBy: "chaptercount"})
	require.NoError(t, err)
	assert.Equal(t, f.alpha.ID, books[0].ID)
	assert.Equal(t, int64(3), books[0].ChapterCount)
	require.Len(t, books[0].Genres, 1)
	assert.Equal(t, "Fantasy", books[0].Genres[0].Name)
}

func TestBookRepository_Browse_Trend(t *testing.T) {
	f := setupCatalog(t)

	trend := model.Trend{Name: "Summer Picks", IsActive: true}
	require.NoError(t, f.db.Create(&trend).Error)
	require.NoError(t, NewTaxonomyRepository(f.db).AddBookToTrend(trend.ID, f.delta.ID))

	books, total, err := f.repo.Browse(BookFilter{TrendID: &trend.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []uint{f.delta.ID}, bookIDs(books))
}

func TestBookRepository_Browse_PaginationCompleteness(t *testing.T) {
	f := setupCatalog(t)
	createBook(t, f.db, model.Book{Title: "Zeta"})
	createBook(t, f.db, model.Book{Title: "Eta"})

	all, total, err := f.repo.Browse(BookFilter{SortBy: "title", SortAscending: true})
	require.NoError(t, err)
	require.Equal(t, int64(7), total)

	for _, size := range []int{1, 2, 3, 7, 10} {
		seen := map[uint]bool{}
		var collected []uint
		for offset := 0; int64(offset) < total; offset += size {
			page, pageTotal, err := f.repo.Browse(BookFilter{
				SortBy: "title", SortAscending: true, Limit: size, Offset: offset,
			})
			require.NoError(t, err)
			assert.Equal(t, total, pageTotal)
			assert.LessOrEqual(t, len(page), size)
			for _, b := range page {
				assert.False(t, seen[b.ID], "duplicate book %d with page size %d", b.ID, size)
				seen[b.ID] = true
				collected = append(collected, b.ID)
			}
		}
		assert.Equal(t, bookIDs(all), collected, "page size %d", size)
	}
}

func TestBookRepository_Browse_SortTieBreak(t *testing.T) {
	testDB := setupRepoDB(t)
	repo := NewBookRepository(testDB)

	first := createBook(t, testDB, model.Book{Title: "Same"})
	second := createBook(t, testDB, model.Book{Title: "Same"})

	books, _, err := repo.Browse(BookFilter{SortBy: "title", SortAscending: true})
	require.NoError(t, err)
	assert.Equal(t, []uint{first.ID, second.ID}, bookIDs(books))

	books, _, err = repo.Browse(BookFilter{SortBy: "title"})
	require.NoError(t, err)
	assert.Equal(t, []uint{second.ID, first.ID}, bookIDs(books))

	books, total, err := repo.Browse(BookFilter{SortBy: "random"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.ElementsMatch(t, []uint{first.ID, second.ID}, bookIDs(books))
}

func TestResolveSortKey(t *testing.T) {
	tests := map[string]string{
		"":              DefaultSortKey,
		"UpdatedAt":     "updatedat",
		"TOTALVIEWS":    "totalviews",
		"averageRating": "averagerating",
		"Random":        RandomSortKey,
		"popularity":    "title",
	}
	for input, want := range tests {
		assert.Equal(t, want, ResolveSortKey(input), "input %q", input)
	}
}

func TestBookRepository_SoftDeleteAndFind(t *testing.T) {
	f := setupCatalog(t)

	found, err := f.repo.FindByID(f.gamma.ID)
	require.NoError(t, err)
	assert.Len(t, found.Genres, 2)
	assert.Equal(t, "Fantasy", found.Genres[0].Name)

	require.NoError(t, f.repo.SoftDelete(f.gamma.ID))

	_, err = f.repo.FindByID(f.gamma.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, total, err := f.repo.Browse(BookFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	unscoped, err := f.repo.FindByIDUnscoped(f.gamma.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gamma", unscoped.Title)
}

func TestBookRepository_Update_ReplacesTaxonomy(t *testing.T) {
	f := setupCatalog(t)

	book, err := f.repo.FindByID(f.alpha.ID)
	require.NoError(t, err)
	book.Title = "Alpha Reborn"
	book.Genres = []model.Genre{f.romance, f.horror}
	book.Tags = nil

	require.NoError(t, f.repo.Update(book))

	updated, err := f.repo.FindByID(f.alpha.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha Reborn", updated.Title)
	require.Len(t, updated.Genres, 2)
	assert.Equal(t, "Horror", updated.Genres[0].Name)
	assert.Equal(t, "Romance", updated.Genres[1].Name)
	assert.Empty(t, updated.Tags)
}

func TestBookRepository_HardDelete(t *testing.T) {
	f := setupCatalog(t)
	reader := createUser(t, f.db, "reader", model.RoleUser)

	chapter := createChapter(t, f.db, f.alpha.ID, 1)
	comment := &model.ChapterComment{ChapterID: chapter.ID, UserID: reader.ID, Content: "first"}
	require.NoError(t, f.db.Create(comment).Error)
	require.NoError(t, f.db.Create(&model.ChapterCommentReaction{CommentID: comment.ID, UserID: reader.ID, Value: model.ReactionLike}).Error)
	review := createReview(t, f.db, f.alpha.ID, reader.ID, 4)
	reply := &model.ReviewReply{ReviewID: review.ID, UserID: reader.ID, Content: "agreed"}
	require.NoError(t, f.db.Create(reply).Error)
	require.NoError(t, f.db.Create(&model.ReviewReplyReaction{ReplyID: reply.ID, UserID: reader.ID, Value: model.ReactionDislike}).Error)
	require.NoError(t, f.db.Create(&model.ReadingProgress{UserID: reader.ID, BookID: f.alpha.ID, ChapterID: chapter.ID}).Error)

	require.NoError(t, f.repo.HardDelete(f.alpha.ID))

	for _, value := range []interface{}{
		&model.Chapter{}, &model.ChapterComment{}, &model.ChapterCommentReaction{},
		&model.ReviewReply{}, &model.ReviewReplyReaction{}, &model.ReadingProgress{},
	} {
		var count int64
		require.NoError(t, f.db.Model(value).Count(&count).Error)
		assert.Zero(t, count)
	}

	var reviews int64
	require.NoError(t, f.db.Unscoped().Model(&model.Review{}).Count(&reviews).Error)
	assert.Zero(t, reviews)

	var links int64
	require.NoError(t, f.db.Table("book_genres").Where("book_id = ?", f.alpha.ID).Count(&links).Error)
	assert.Zero(t, links)

	_, err := f.repo.FindByIDUnscoped(f.alpha.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, f.repo.HardDelete(f.alpha.ID), gorm.ErrRecordNotFound)
}

func TestBookRepository_Views(t *testing.T) {
	f := setupCatalog(t)

	require.NoError(t, f.repo.IncrementViews(f.alpha.ID, 1))
	require.NoError(t, f.repo.AddViews(map[uint]int64{f.alpha.ID: 4, f.beta.ID: 2, f.gamma.ID: 0}))

	alpha, err := f.repo.FindByID(f.alpha.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), alpha.TotalViews)

	beta, err := f.repo.FindByID(f.beta.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), beta.TotalViews)

	books, _, err := f.repo.Browse(BookFilter{SortBy: "totalViews"})
	require.NoError(t, err)
	assert.Equal(t, f.alpha.ID, books[0].ID)
}
