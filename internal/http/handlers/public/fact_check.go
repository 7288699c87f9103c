package public

import (
	handlershared "github.com/ze-news/internal/http/handlers/shared"
	"github.com/ze-news/internal/http/response"
	"github.com/ze-news/internal/service"

	"github.com/gin-gonic/gin"
)

// SubmitFactCheckRequest 事实核查提交请求
type SubmitFactCheckRequest struct {
	ArticleID      string                              `json:"article_id"`
	Claim          string                              `json:"claim" binding:"required"`
	SourceURL      string                              `json:"source_url"`
	SubmitterName  string                              `json:"submitter_name"`
	SubmitterEmail string                              `json:"submitter_email"`
	Captcha        handlershared.CaptchaPayloadRequest `json:"captcha"`
}

var factCheckSubmitErrorRules = []handlershared.MappedError{
	{Target: service.ErrClaimRequired, Code: response.CodeBadRequest, Key: "error.claim_required"},
	{Target: service.ErrInvalidSourceURL, Code: response.CodeBadRequest, Key: "error.source_url_invalid"},
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrArticleNotFound, Code: response.CodeNotFound, Key: "error.article_not_found"},
}

// SubmitFactCheck 公开提交事实核查申请
func (h *Handler) SubmitFactCheck(c *gin.Context) {
	var req SubmitFactCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if h.CaptchaService != nil {
		if err := h.CaptchaService.Verify(req.Captcha.ToServicePayload()); err != nil {
			handlershared.RespondMapped(c, err, []handlershared.MappedError{
				{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
				{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
			}, response.CodeInternal, "error.captcha_verify_failed")
			return
		}
	}
	item, err := h.FactCheckService.Submit(c.Request.Context(), service.SubmitFactCheckInput{
		ArticleID:      req.ArticleID,
		Claim:          req.Claim,
		SourceURL:      req.SourceURL,
		SubmitterName:  req.SubmitterName,
		SubmitterEmail: req.SubmitterEmail,
	})
	if err != nil {
		respondMapped(c, err, factCheckSubmitErrorRules, "error.fact_check_submit_failed")
		return
	}
	response.Success(c, gin.H{
		"id":         item.ID,
		"status":     item.Status,
		"created_at": item.CreatedAt,
	})
}
