package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"faq-bot/database"
	appErrors "faq-bot/errors"
	"faq-bot/web/format"
)

type FAQHandler struct {
	store    *database.PostgresStore
	pageSize int
	logger   *zap.Logger
}

type FAQItem struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Popularity int    `json:"popularity"`
}

func NewFAQHandler(store *database.PostgresStore, pageSize int, logger *zap.Logger) *FAQHandler {
	return &FAQHandler{
		store:    store,
		pageSize: pageSize,
		logger:   logger,
	}
}

// List returns one popularity-ordered page of FAQ questions.
func (h *FAQHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	if page < 0 {
		page = 0
	}
	offset := page * h.pageSize

	total, err := h.store.CountFAQs(c.Request.Context())
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Could not load the FAQ list.", h.logger)
		return
	}

	entries, err := h.store.TopFAQs(c.Request.Context(), h.pageSize, offset)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Could not load the FAQ list.", h.logger)
		return
	}

	items := make([]FAQItem, len(entries))
	for i, entry := range entries {
		items[i] = FAQItem{ID: entry.ID, Question: entry.Question, Popularity: entry.Popularity}
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"page":     page,
		"total":    total,
		"has_more": offset+len(items) < total,
	})
}

// Show returns one FAQ answer by id and counts the view as an accepted match.
func (h *FAQHandler) Show(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Invalid FAQ id.")
		return
	}

	entry, err := h.store.GetFAQ(c.Request.Context(), id)
	if appErrors.IsNotFound(err) {
		respondWithClientError(c, http.StatusNotFound, "Question not found.")
		return
	}
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, "Could not load the answer.", h.logger)
		return
	}

	if err := h.store.IncrementPopularity(c.Request.Context(), id); err != nil {
		h.logger.Warn("Failed to increment FAQ popularity", zap.Int64("faq_id", id), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          entry.ID,
		"question":    entry.Question,
		"answer":      entry.Answer,
		"answer_html": format.AnswerToHTML(entry.Answer),
	})
}
