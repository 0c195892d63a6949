package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"faq-bot/database"
	appErrors "faq-bot/errors"
)

type AdminHandler struct {
	store  *database.PostgresStore
	logger *zap.Logger
}

type FAQUpsertRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

func NewAdminHandler(store *database.PostgresStore, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		store:  store,
		logger: logger,
	}
}

func (h *AdminHandler) CreateFAQ(c *gin.Context) {
	var req FAQUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Both question and answer are required.")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondWithClientError(c, http.StatusBadRequest, "Question must not be empty.")
		return
	}

	entry, err := h.store.CreateFAQ(c.Request.Context(), req.Question, req.Answer)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Could not create the entry.", h.logger)
		return
	}

	h.logger.Info("FAQ entry created", zap.Int64("faq_id", entry.ID))
	c.JSON(http.StatusCreated, gin.H{"id": entry.ID})
}

func (h *AdminHandler) UpdateFAQ(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Invalid FAQ id.")
		return
	}

	var req FAQUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Both question and answer are required.")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondWithClientError(c, http.StatusBadRequest, "Question must not be empty.")
		return
	}

	err = h.store.UpdateFAQ(c.Request.Context(), id, req.Question, req.Answer)
	if appErrors.IsNotFound(err) {
		respondWithClientError(c, http.StatusNotFound, "Question not found.")
		return
	}
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Could not update the entry.", h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *AdminHandler) DeleteFAQ(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Invalid FAQ id.")
		return
	}

	err = h.store.DeleteFAQ(c.Request.Context(), id)
	if appErrors.IsNotFound(err) {
		respondWithClientError(c, http.StatusNotFound, "Question not found.")
		return
	}
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Could not delete the entry.", h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListUnanswered returns the most recent questions that went to the LLM,
// candidates for promotion into the knowledge base.
func (h *AdminHandler) ListUnanswered(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	entries, err := h.store.RecentUnanswered(c.Request.Context(), limit)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Could not load unanswered questions.", h.logger)
		return
	}

	type item struct {
		ID        int64  `json:"id"`
		UserID    string `json:"user_id"`
		Question  string `json:"question"`
		BestScore *int64 `json:"best_score,omitempty"`
		CreatedAt string `json:"created_at"`
	}
	items := make([]item, len(entries))
	for i, entry := range entries {
		items[i] = item{
			ID:        entry.ID,
			UserID:    entry.UserID,
			Question:  entry.Question,
			CreatedAt: entry.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if entry.BestScore.Valid {
			score := entry.BestScore.Int64
			items[i].BestScore = &score
		}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *AdminHandler) DeleteUnanswered(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Invalid id.")
		return
	}

	err = h.store.DeleteUnanswered(c.Request.Context(), id)
	if appErrors.IsNotFound(err) {
		respondWithClientError(c, http.StatusNotFound, "Entry not found.")
		return
	}
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Could not delete the entry.", h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ClearCache drops every cached LLM answer.
func (h *AdminHandler) ClearCache(c *gin.Context) {
	deleted, err := h.store.ClearCache(c.Request.Context())
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Could not clear the cache.", h.logger)
		return
	}

	h.logger.Info("Response cache cleared", zap.Int64("deleted", deleted))
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
