package main

import (
	"fmt"
	"strings"

	"github.com/ikkim/fictionhub-backend/internal/app/model"
	"github.com/ikkim/fictionhub-backend/internal/app/repository"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// bookRow 스프레드시트 한 행
type bookRow struct {
	Line        int
	Title       string
	AuthorName  string
	Description string
	VerseType   string
	OriginType  string
	Status      string
	Genres      []string
	Tags        []string
	SourceURL   string
}

var bookColumns = []string{
	"title", "authorname", "description", "versetype", "origintype", "status", "genres", "tags", "sourceurl",
}

// readBookRows 헤더 이름으로 컬럼 위치를 찾고, 제목 없는 행과 중복 행은 건너뜀
func readBookRows(f *excelize.File, sheet string) ([]bookRow, int, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("sheet %q is empty", sheet)
	}

	index := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(header), " ", ""))
		index[key] = i
	}
	if _, ok := index["title"]; !ok {
		return nil, 0, fmt.Errorf("sheet %q has no Title column", sheet)
	}

	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var (
		result  []bookRow
		skipped int
		seen    = make(map[string]bool)
	)
	for n, row := range rows[1:] {
		title := cell(row, "title")
		if title == "" {
			skipped++
			continue
		}
		key := strings.ToLower(title + "|" + cell(row, "authorname"))
		if seen[key] {
			logger.Debug("Skipping duplicate row", map[string]interface{}{
				"line":  n + 2,
				"title": title,
			})
			skipped++
			continue
		}
		seen[key] = true

		result = append(result, bookRow{
			Line:        n + 2,
			Title:       title,
			AuthorName:  cell(row, "authorname"),
			Description: cell(row, "description"),
			VerseType:   cell(row, "versetype"),
			OriginType:  cell(row, "origintype"),
			Status:      cell(row, "status"),
			Genres:      splitList(cell(row, "genres")),
			Tags:        splitList(cell(row, "tags")),
			SourceURL:   cell(row, "sourceurl"),
		})
	}
	return result, skipped, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type bookImporter struct {
	bookRepo     repository.BookRepository
	taxonomyRepo repository.TaxonomyRepository
	genres       map[string]model.Genre
	tags         map[string]model.Tag
}

func newBookImporter(bookRepo repository.BookRepository, taxonomyRepo repository.TaxonomyRepository) *bookImporter {
	return &bookImporter{
		bookRepo:     bookRepo,
		taxonomyRepo: taxonomyRepo,
		genres:       make(map[string]model.Genre),
		tags:         make(map[string]model.Tag),
	}
}

// Import 행을 작품으로 변환해 배치 저장, 저장한 작품 수 반환
func (imp *bookImporter) Import(rows []bookRow, batchSize int) (int, error) {
	books := make([]model.Book, 0, len(rows))
	for _, row := range rows {
		book, err := imp.toBook(row)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", row.Line, err)
		}
		books = append(books, book)
	}

	if err := imp.bookRepo.BulkCreate(books, batchSize); err != nil {
		return 0, fmt.Errorf("failed to bulk create books: %w", err)
	}
	return len(books), nil
}

func (imp *bookImporter) toBook(row bookRow) (model.Book, error) {
	status, ok := model.ParseBookStatus(row.Status)
	if !ok {
		status = model.StatusOngoing
	}
	verse := model.ParseVerseType(row.VerseType)

	book := model.Book{
		Title:       row.Title,
		AuthorName:  row.AuthorName,
		Description: row.Description,
		VerseType:   verse,
		OriginType:  model.ParseOriginType(row.OriginType),
		Status:      status,
		IsFanfic:    verse != model.VerseOriginal,
		SourceURL:   row.SourceURL,
	}

	for _, name := range row.Genres {
		genre, err := imp.genre(name)
		if err != nil {
			return book, err
		}
		book.Genres = append(book.Genres, genre)
	}
	for _, name := range row.Tags {
		tag, err := imp.tag(name)
		if err != nil {
			return book, err
		}
		book.Tags = append(book.Tags, tag)
	}
	return book, nil
}

func (imp *bookImporter) genre(name string) (model.Genre, error) {
	key := strings.ToLower(name)
	if g, ok := imp.genres[key]; ok {
		return g, nil
	}
	g, err := imp.taxonomyRepo.FindOrCreateGenre(name)
	if err != nil {
		return model.Genre{}, fmt.Errorf("genre %q: %w", name, err)
	}
	imp.genres[key] = *g
	return *g, nil
}

func (imp *bookImporter) tag(name string) (model.Tag, error) {
	key := strings.ToLower(name)
	if t, ok := imp.tags[key]; ok {
		return t, nil
	}
	t, err := imp.taxonomyRepo.FindOrCreateTag(name)
	if err != nil {
		return model.Tag{}, fmt.Errorf("tag %q: %w", name, err)
	}
	imp.tags[key] = *t
	return *t, nil
}
