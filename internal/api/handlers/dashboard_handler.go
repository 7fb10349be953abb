package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"
	"github.com/scriberly/scriberly-be/internal/flash"
	"github.com/scriberly/scriberly-be/internal/forms"
	"github.com/scriberly/scriberly-be/internal/messages"
	"github.com/scriberly/scriberly-be/internal/models"
	"github.com/scriberly/scriberly-be/internal/services"
)

const (
	historyPageSize = 10
	maxUploadSize   = 10 << 20 // 10 MiB
)

// DashboardHandler handles the article side of the dashboard: homepage,
// article detail, creation and authoring history.
type DashboardHandler struct {
	articles services.ArticleServiceProvider
	users    services.UserServiceProvider
	content  services.ContentProvider
	files    services.FileStoreProvider
	activity services.ActivityServiceProvider
	locale   string
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(articles services.ArticleServiceProvider, users services.UserServiceProvider,
	content services.ContentProvider, files services.FileStoreProvider,
	activity services.ActivityServiceProvider, locale string) *DashboardHandler {
	return &DashboardHandler{
		articles: articles,
		users:    users,
		content:  content,
		files:    files,
		activity: activity,
		locale:   locale,
	}
}

// Homepage renders the dashboard landing view. No side effects beyond
// consuming a pending flash notification.
func (h *DashboardHandler) Homepage(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.users)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load current user")
		respondError(w, r, http.StatusInternalServerError, "Failed to load user")
		return
	}

	recent, err := h.activity.Recent(10)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load recent activity")
		recent = nil
	}

	render.JSON(w, r, map[string]interface{}{
		"username": user.Username,
		"roles":    user.Roles,
		"activity": recent,
		"flash":    flash.Take(w, r),
	})
}

// ArticleDetail renders a single article looked up by slug, read-only.
func (h *DashboardHandler) ArticleDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	article, err := h.articles.GetArticleBySlug(slug)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "Article not found")
			return
		}
		log.Error().Err(err).Str("slug", slug).Msg("Failed to load article")
		respondError(w, r, http.StatusInternalServerError, "Failed to load article")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"article": article,
		"flash":   flash.Take(w, r),
	})
}

// CreateArticleForm renders the empty create-article form view.
func (h *DashboardHandler) CreateArticleForm(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"fields": []string{"title", "plural", "genitive", "keywords", "size_from", "size_to", "theme", "image"},
		"themes": forms.ThemeChoices,
		"flash":  flash.Take(w, r),
	})
}

// CreateArticle binds and validates the submitted draft, stores the
// optional image, generates the body text and persists the article.
// Persistence is the last step: a failed upload or generation leaves no
// partially written article behind.
func (h *DashboardHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	draft, fieldErrs := forms.BindArticleDraft(r)
	if len(fieldErrs) > 0 {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, map[string]interface{}{
			"errors": fieldErrs,
			"values": draft,
		})
		return
	}

	user, err := currentUser(r, h.users)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load current user")
		respondError(w, r, http.StatusInternalServerError, "Failed to load user")
		return
	}

	var imageRef string
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		// A new article has no prior image to replace.
		imageRef, err = h.files.Upload(file, header, "")
		if err != nil {
			if errors.Is(err, services.ErrUnsupportedImage) {
				render.Status(r, http.StatusUnprocessableEntity)
				render.JSON(w, r, map[string]interface{}{
					"errors": []forms.FieldError{{Field: "image", Message: "Unsupported image type"}},
					"values": draft,
				})
				return
			}
			log.Error().Err(err).Msg("Failed to store article image")
			respondError(w, r, http.StatusInternalServerError, "Failed to store image")
			return
		}
	}

	body, err := h.content.Generate(r.Context(), services.GenerationRequest{
		Plural:   draft.Plural,
		Genitive: draft.Genitive,
		Keywords: draft.Keywords,
		SizeFrom: draft.SizeFrom,
		SizeTo:   draft.SizeTo,
		Theme:    draft.Theme,
	})
	if err != nil {
		// The sweeper reclaims the already-uploaded image; nothing was
		// persisted yet.
		log.Error().Err(err).Str("theme", draft.Theme).Msg("Article generation failed")
		respondError(w, r, http.StatusBadGateway, messages.T(h.locale, messages.ArticleGenerationFailed))
		return
	}

	article, err := h.articles.CreateArticle(models.Article{
		Title:         draft.Title,
		Description:   messages.T(h.locale, messages.ArticleDescription, draft.Keywords),
		Body:          body,
		ImageFilename: imageRef,
		AuthorID:      user.ID,
		PublishedAt:   time.Now(),
	})
	if err != nil {
		log.Error().Err(err).Str("title", draft.Title).Msg("Failed to persist article")
		respondError(w, r, http.StatusInternalServerError, "Failed to create article")
		return
	}

	if err := h.activity.Record("article.create", "Published "+article.Title, user.ID); err != nil {
		log.Warn().Err(err).Msg("Failed to record activity")
	}

	flash.Set(w, messages.T(h.locale, messages.ArticleCreated))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, article)
}

// History renders the authoring history, newest first, ten per page. The
// page number comes from the query string and is clamped by the service.
func (h *DashboardHandler) History(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	pagination, err := h.articles.Latest(page, historyPageSize)
	if err != nil {
		log.Error().Err(err).Int("page", page).Msg("Failed to load article history")
		respondError(w, r, http.StatusInternalServerError, "Failed to load history")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"pagination": pagination,
		"flash":      flash.Take(w, r),
	})
}
