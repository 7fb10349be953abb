package services

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/scriberly/scriberly-be/internal/models"
)

// ArticlePage is one page of the authoring history, newest first.
type ArticlePage struct {
	Items      []models.Article `json:"items"`
	Page       int              `json:"page"`
	PerPage    int              `json:"perPage"`
	PageCount  int              `json:"pageCount"`
	TotalItems int              `json:"totalItems"`
}

// ArticleServiceProvider defines the interface for article services.
type ArticleServiceProvider interface {
	CreateArticle(article models.Article) (models.Article, error)
	GetArticleBySlug(slug string) (models.Article, error)
	Latest(page, perPage int) (ArticlePage, error)
	ImageFilenames() (map[string]struct{}, error)
}

// ArticleService provides business logic for article management.
type ArticleService struct {
	db *sql.DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *sql.DB) *ArticleService {
	return &ArticleService{db: db}
}

// CreateArticle persists a fully assembled article. The caller is expected
// to have completed every generation step first; this insert is the final,
// all-or-nothing step of article creation. The slug is derived from the
// title and de-duplicated with a numeric suffix.
func (s *ArticleService) CreateArticle(article models.Article) (models.Article, error) {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	if article.Slug == "" {
		slug, err := s.uniqueSlug(slugify(article.Title))
		if err != nil {
			return models.Article{}, err
		}
		article.Slug = slug
	}

	stmt, err := s.db.Prepare(`INSERT INTO articles
		(id, slug, title, description, body, image_filename, author_id, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Article{}, err
	}
	defer stmt.Close()

	var image sql.NullString
	if article.ImageFilename != "" {
		image = sql.NullString{String: article.ImageFilename, Valid: true}
	}
	_, err = stmt.Exec(article.ID, article.Slug, article.Title, article.Description,
		article.Body, image, article.AuthorID, article.PublishedAt)
	if err != nil {
		return models.Article{}, err
	}
	return s.GetArticleBySlug(article.Slug)
}

// GetArticleBySlug retrieves a single article by its slug.
func (s *ArticleService) GetArticleBySlug(slug string) (models.Article, error) {
	row := s.db.QueryRow(`SELECT a.id, a.slug, a.title, a.description, a.body,
			a.image_filename, a.author_id, u.username, a.published_at, a.created_at
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.slug = ?`, slug)

	article, err := scanArticle(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Article{}, fmt.Errorf("article with slug %q: %w", slug, ErrNotFound)
		}
		return models.Article{}, err
	}
	return article, nil
}

// Latest returns one page of articles ordered newest-first. Out-of-range
// page numbers are clamped: below 1 becomes 1, past the end becomes the
// last page. An empty store yields a single empty page.
func (s *ArticleService) Latest(page, perPage int) (ArticlePage, error) {
	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&total); err != nil {
		return ArticlePage{}, err
	}

	pageCount := (total + perPage - 1) / perPage
	if pageCount < 1 {
		pageCount = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}

	rows, err := s.db.Query(`SELECT a.id, a.slug, a.title, a.description, a.body,
			a.image_filename, a.author_id, u.username, a.published_at, a.created_at
		FROM articles a
		JOIN users u ON u.id = a.author_id
		ORDER BY a.published_at DESC
		LIMIT ? OFFSET ?`, perPage, (page-1)*perPage)
	if err != nil {
		return ArticlePage{}, err
	}
	defer rows.Close()

	result := ArticlePage{
		Items:      []models.Article{},
		Page:       page,
		PerPage:    perPage,
		PageCount:  pageCount,
		TotalItems: total,
	}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return ArticlePage{}, err
		}
		result.Items = append(result.Items, article)
	}
	return result, rows.Err()
}

// ImageFilenames returns the set of image references currently held by
// articles, for the upload sweeper.
func (s *ArticleService) ImageFilenames() (map[string]struct{}, error) {
	rows, err := s.db.Query("SELECT image_filename FROM articles WHERE image_filename IS NOT NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		refs[name] = struct{}{}
	}
	return refs, rows.Err()
}

// scanArticle is a helper to scan an article from a row or rows object.
func scanArticle(scanner interface{ Scan(...interface{}) error }) (models.Article, error) {
	var article models.Article
	var image sql.NullString
	err := scanner.Scan(&article.ID, &article.Slug, &article.Title, &article.Description,
		&article.Body, &image, &article.AuthorID, &article.AuthorName,
		&article.PublishedAt, &article.CreatedAt)
	if err != nil {
		return article, err
	}
	article.ImageFilename = image.String
	return article, nil
}

// uniqueSlug appends a numeric suffix until the slug is free.
func (s *ArticleService) uniqueSlug(base string) (string, error) {
	slug := base
	for i := 2; ; i++ {
		var count int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM articles WHERE slug = ?", slug).Scan(&count); err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// slugify turns a title into a URL-stable slug.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = uuid.New().String()
	}
	return slug
}
