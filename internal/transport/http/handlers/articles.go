package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arklim/article-service/internal/core/domain"
	"github.com/arklim/article-service/internal/infra/logger"
	"github.com/arklim/article-service/internal/transport/http/middleware"
	"github.com/arklim/article-service/internal/usecase"
)

const articleIDParam = "article_id"

// ArticleService is the use-case surface the handler drives.
type ArticleService interface {
	CreateArticle(ctx context.Context, callerID int64, input usecase.CreateArticleInput) (usecase.CreateArticleResult, error)
	GetArticle(ctx context.Context, id int64) (usecase.ArticleDetail, error)
	ListArticles(ctx context.Context) ([]usecase.ArticleDetail, error)
	UpdateArticle(ctx context.Context, callerID, id int64, input usecase.UpdateArticleInput) error
	DeleteArticle(ctx context.Context, callerID, id int64) error
}

// MutationRecorder counts mutation outcomes.
type MutationRecorder interface {
	RecordMutation(operation, outcome string)
}

type ArticleHandler struct {
	articles ArticleService
	metrics  MutationRecorder
	log      *zap.Logger
}

func NewArticleHandler(articles ArticleService, metrics MutationRecorder, log *zap.Logger) *ArticleHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ArticleHandler{articles: articles, metrics: metrics, log: log}
}

// RegisterRoutes mounts the public read routes on r and the mutating routes on
// protected, which must already carry authentication.
func (h *ArticleHandler) RegisterRoutes(r, protected *gin.RouterGroup) {
	r.GET("", h.ListArticles)
	r.GET("/:"+articleIDParam, h.GetArticle)

	protected.POST("", h.CreateArticle)
	protected.PUT("/:"+articleIDParam, h.UpdateArticle)
	protected.DELETE("/:"+articleIDParam, h.DeleteArticle)
}

// CreateArticle godoc
// @Summary Create an article
// @Description Creates an article owned by the authenticated caller.
// @Tags Articles
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param request body ArticleCreateRequest true "Article create request"
// @Success 201 {object} DataResponse[ArticleCreated]
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/article [post]
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	callerID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		h.fail(c, "create", domain.Unauthorized(domain.ArticleResource))
		return
	}

	var req ArticleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "create", domain.Invalid(domain.ArticleResource))
		return
	}

	if blank(req.Title) || blank(req.Content) {
		h.fail(c, "create", domain.Invalid(domain.ArticleResource))
		return
	}

	result, err := h.articles.CreateArticle(c.Request.Context(), callerID, usecase.CreateArticleInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.fail(c, "create", err)
		return
	}

	h.record("create", "success")
	c.JSON(http.StatusCreated, success(ArticleCreated{ID: result.ID}))
}

// ListArticles godoc
// @Summary List articles
// @Tags Articles
// @Produce json
// @Success 200 {object} DataResponse[[]ArticlePayload]
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/article [get]
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	details, err := h.articles.ListArticles(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	payload := make([]ArticlePayload, 0, len(details))
	for _, d := range details {
		payload = append(payload, articlePayload(d))
	}
	c.JSON(http.StatusOK, success(payload))
}

// GetArticle godoc
// @Summary Read an article
// @Tags Articles
// @Produce json
// @Param article_id path int true "Article ID"
// @Success 200 {object} DataResponse[ArticlePayload]
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/article/{article_id} [get]
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, ok := articleID(c)
	if !ok {
		h.respondError(c, domain.Invalid(domain.ArticleResource))
		return
	}

	detail, err := h.articles.GetArticle(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(articlePayload(detail)))
}

// UpdateArticle godoc
// @Summary Update an article
// @Description Updates the title and/or content of an article owned by the caller.
// @Tags Articles
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param article_id path int true "Article ID"
// @Param request body ArticleUpdateRequest true "Article update request"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/article/{article_id} [put]
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	callerID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		h.fail(c, "update", domain.Unauthorized(domain.ArticleResource))
		return
	}

	id, ok := articleID(c)
	if !ok {
		h.fail(c, "update", domain.Invalid(domain.ArticleResource))
		return
	}

	var req ArticleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "update", domain.Invalid(domain.ArticleResource))
		return
	}

	input := usecase.UpdateArticleInput{Title: present(req.Title), Content: present(req.Content)}
	if input.Title == nil && input.Content == nil {
		h.fail(c, "update", domain.Invalid(domain.ArticleResource))
		return
	}

	if err := h.articles.UpdateArticle(c.Request.Context(), callerID, id, input); err != nil {
		h.fail(c, "update", err)
		return
	}

	h.record("update", "success")
	c.JSON(http.StatusOK, MessageResponse{Message: successMessage})
}

// DeleteArticle godoc
// @Summary Delete an article
// @Description Deletes an article owned by the caller.
// @Tags Articles
// @Produce json
// @Param Authorization header string true "Bearer access token"
// @Param article_id path int true "Article ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/article/{article_id} [delete]
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	callerID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		h.fail(c, "delete", domain.Unauthorized(domain.ArticleResource))
		return
	}

	id, ok := articleID(c)
	if !ok {
		h.fail(c, "delete", domain.Invalid(domain.ArticleResource))
		return
	}

	if err := h.articles.DeleteArticle(c.Request.Context(), callerID, id); err != nil {
		h.fail(c, "delete", err)
		return
	}

	h.record("delete", "success")
	c.JSON(http.StatusOK, MessageResponse{Message: successMessage})
}

func (h *ArticleHandler) fail(c *gin.Context, operation string, err error) {
	h.record(operation, string(domain.KindOf(err)))
	h.respondError(c, err)
}

func (h *ArticleHandler) respondError(c *gin.Context, err error) {
	if domain.KindOf(err).IsInternal() {
		h.log.Error("article request failed",
			zap.String("request_id", logger.RequestID(c.Request.Context())),
			zap.String("trace_id", middleware.GetTraceID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	RespondWithMappedError(c, err, articleErrorCases, unexpectedStatus, unexpectedMessage)
}

func (h *ArticleHandler) record(operation, outcome string) {
	if h.metrics != nil {
		h.metrics.RecordMutation(operation, outcome)
	}
}

func articleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(articleIDParam), 10, 64)
	return id, err == nil
}

func blank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// present treats blank values as absent.
func present(value *string) *string {
	if value == nil || blank(*value) {
		return nil
	}
	return value
}

func articlePayload(d usecase.ArticleDetail) ArticlePayload {
	return ArticlePayload{
		ID:       d.ID,
		Title:    d.Title,
		Content:  d.Content,
		WriterID: d.WriterID,
	}
}
