package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"faq-bot/resolver"
	"faq-bot/web/format"
)

type AskHandler struct {
	resolver *resolver.Resolver
	logger   *zap.Logger
}

type AskRequest struct {
	Question string `json:"question" form:"question" binding:"required"`
}

type ClarifyRequest struct {
	// FAQID is the picked candidate; None set to true means "none of these".
	FAQID int64 `json:"faq_id" form:"faq_id"`
	None  bool  `json:"none" form:"none"`
}

type ReplyResponse struct {
	Status     string            `json:"status"`
	Answer     string            `json:"answer,omitempty"`
	AnswerHTML string            `json:"answer_html,omitempty"`
	Candidates []resolver.Option `json:"candidates,omitempty"`
	Threshold  int               `json:"threshold,omitempty"`
}

func NewAskHandler(res *resolver.Resolver, logger *zap.Logger) *AskHandler {
	return &AskHandler{
		resolver: res,
		logger:   logger,
	}
}

// Ask accepts a free-text question and runs it through the resolution
// pipeline. The reply is always a single outcome: an answer, a clarification
// prompt, or a refusal.
func (h *AskHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Please send a question.")
		return
	}

	sessionID := c.MustGet("sessionID").(uuid.UUID)
	reply := h.resolver.Ask(c.Request.Context(), sessionID.String(), req.Question)
	h.respond(c, reply)
}

// Clarify accepts the follow-up to a clarification prompt: either one of the
// offered FAQ ids or "none of these".
func (h *AskHandler) Clarify(c *gin.Context) {
	var req ClarifyRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Please pick one of the options or decline.")
		return
	}

	sessionID := c.MustGet("sessionID").(uuid.UUID)

	var reply resolver.Reply
	if req.None {
		reply = h.resolver.Decline(c.Request.Context(), sessionID.String())
	} else {
		reply = h.resolver.Choose(c.Request.Context(), sessionID.String(), req.FAQID)
	}
	h.respond(c, reply)
}

func (h *AskHandler) respond(c *gin.Context, reply resolver.Reply) {
	resp := ReplyResponse{
		Answer:     reply.Answer,
		Candidates: reply.Candidates,
		Threshold:  reply.Threshold,
	}

	switch reply.Status {
	case resolver.StatusAnswered:
		resp.Status = "answered"
		resp.AnswerHTML = format.AnswerToHTML(reply.Answer)
		c.JSON(http.StatusOK, resp)
	case resolver.StatusNeedsClarification:
		resp.Status = "needs_clarification"
		c.JSON(http.StatusOK, resp)
	case resolver.StatusRejected:
		resp.Status = "rejected"
		c.JSON(http.StatusUnprocessableEntity, resp)
	default: // resolver.StatusFailed
		resp.Status = "failed"
		c.JSON(http.StatusOK, resp)
	}
}
