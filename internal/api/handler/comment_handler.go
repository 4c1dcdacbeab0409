package handler

import (
	"errors"
	"strconv"

	"comment-go/internal/api/dto"
	"comment-go/internal/api/response"
	"comment-go/internal/model"
	"comment-go/internal/service"
	"comment-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgAccessDenied  = "拒绝访问"
	msgGenericFailed = "操作失败，请稍后重试"
)

type CommentHandler struct {
	definitionService *service.DefinitionService
	commentService    *service.CommentService
	captchaService    *service.CaptchaService
}

func NewCommentHandler(definitionService *service.DefinitionService, commentService *service.CommentService, captchaService *service.CaptchaService) *CommentHandler {
	return &CommentHandler{
		definitionService: definitionService,
		commentService:    commentService,
		captchaService:    captchaService,
	}
}

// Add 发表评论
// @Summary 发表评论
// @Description 匿名访客需要填写用户名和邮箱；开启审核时评论在通过前不会展示
// @Tags 评论
// @Accept json
// @Produce json
// @Param X-Requested-With header string true "XMLHttpRequest"
// @Param request body dto.CommentAddRequest true "评论内容"
// @Success 200 {object} response.MessagesResponse "提交结果"
// @Failure 403 {object} response.ErrorResponse "拒绝访问"
// @Router /comment/add [post]
func (h *CommentHandler) Add(c *gin.Context) {
	var req dto.CommentAddRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Messages(c, false, "请求参数无效")
		return
	}

	def, err := h.definitionService.Resolve(c.Request.Context(), req.Ref, req.RefID, currentCustomer(c))
	if err != nil {
		handleDefinitionError(c, err)
		return
	}

	sub := &service.Submission{
		Ref:           req.Ref,
		RefID:         req.RefID,
		Title:         req.Title,
		Content:       req.Content,
		Rating:        req.Rating,
		Username:      req.Username,
		Email:         req.Email,
		Locale:        c.GetHeader("Accept-Language"),
		CaptchaID:     req.CaptchaID,
		CaptchaAnswer: req.CaptchaAnswer,
		Channel:       service.ChannelFront,
	}

	comment, err := h.commentService.Create(c.Request.Context(), sub, def)
	if err != nil {
		handleSubmissionError(c, err)
		return
	}

	if comment.Status == model.CommentPending {
		response.Messages(c, true, "评论已提交，审核通过后将会展示")
		return
	}
	response.Messages(c, true, "评论已发布")
}

// Get 评论列表
// @Summary 获取评论列表
// @Description 返回已通过审核的评论、评分汇总和当前访客的评论资格
// @Tags 评论
// @Produce json
// @Param X-Requested-With header string true "XMLHttpRequest"
// @Param ref query string true "实体类型"
// @Param ref_id query int true "实体ID"
// @Param start query int false "起始位置" default(0)
// @Param count query int false "数量" default(10)
// @Success 200 {object} response.Response{data=dto.CommentListData} "获取成功"
// @Failure 403 {object} response.ErrorResponse "拒绝访问"
// @Router /comment/get [get]
func (h *CommentHandler) Get(c *gin.Context) {
	var q dto.CommentListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "请求参数无效")
		return
	}

	info := &dto.DefinitionInfo{}
	def, err := h.definitionService.Resolve(c.Request.Context(), q.Ref, q.RefID, currentCustomer(c))
	if err != nil {
		var defErr *service.DefinitionError
		if !errors.As(err, &defErr) || defErr.Silent {
			handleDefinitionError(c, err)
			return
		}
		info.Message = defErr.Reason
	} else {
		info.CanComment = true
		info.HasRating = def.HasRating
		info.RatingRequired = def.RatingRequired
		info.Verified = def.Verified
	}

	data, err := h.commentService.ListAccepted(c.Request.Context(), q.Ref, q.RefID, q.Start, q.Count)
	if err != nil {
		logger.Error("List comments failed", zap.Error(err))
		response.InternalError(c, msgGenericFailed)
		return
	}
	data.Definition = info

	response.OK(c, "", data)
}

// Abuse 举报评论
// @Summary 举报评论
// @Description 举报次数加一，无论评论是否存在都返回成功
// @Tags 评论
// @Accept json
// @Produce json
// @Param X-Requested-With header string true "XMLHttpRequest"
// @Param request body dto.CommentAbuseRequest true "评论ID"
// @Success 200 {object} response.Response "举报结果"
// @Router /comment/abuse [post]
func (h *CommentHandler) Abuse(c *gin.Context) {
	var req dto.CommentAbuseRequest
	if err := c.ShouldBind(&req); err != nil || req.ID == nil {
		response.Message(c, false, "无效的评论ID")
		return
	}

	if err := h.commentService.ReportAbuse(c.Request.Context(), *req.ID); err != nil {
		logger.Warn("Report comment abuse failed",
			zap.Int64("comment_id", *req.ID),
			zap.Error(err),
		)
	}

	response.Message(c, true, "感谢您的举报，我们会尽快处理")
}

// Delete 删除自己的评论
// @Summary 删除自己的评论
// @Tags 评论
// @Produce json
// @Security BearerAuth
// @Param X-Requested-With header string true "XMLHttpRequest"
// @Param commentId path int true "评论ID"
// @Success 200 {object} response.Response "删除结果"
// @Router /comment/delete/{commentId} [get]
func (h *CommentHandler) Delete(c *gin.Context) {
	customer := currentCustomer(c)
	commentID, err := strconv.ParseInt(c.Param("commentId"), 10, 64)
	if err != nil || customer == nil {
		response.Message(c, false, "无法删除该评论")
		return
	}

	if err := h.commentService.DeleteOwn(c.Request.Context(), commentID, customer.ID); err != nil {
		logger.Warn("Delete own comment failed",
			zap.Int64("comment_id", commentID),
			zap.Int64("customer_id", customer.ID),
			zap.Error(err),
		)
		response.Message(c, false, "无法删除该评论")
		return
	}

	response.Message(c, true, "评论已删除")
}

// Captcha 获取图形验证码
// @Summary 获取图形验证码
// @Tags 评论
// @Produce json
// @Param X-Requested-With header string true "XMLHttpRequest"
// @Success 200 {object} response.Response{data=dto.CaptchaData} "获取成功"
// @Failure 404 {object} response.ErrorResponse "未启用验证码"
// @Router /comment/captcha [get]
func (h *CommentHandler) Captcha(c *gin.Context) {
	if h.captchaService == nil || !h.captchaService.Enabled() {
		response.NotFound(c, "未启用验证码")
		return
	}

	id, image, err := h.captchaService.Generate()
	if err != nil {
		logger.Error("Generate captcha failed", zap.Error(err))
		response.InternalError(c, err.Error())
		return
	}

	response.OK(c, "", dto.CaptchaData{CaptchaID: id, Image: image})
}

// handleDefinitionError 静默拒绝返回 403，明确拒绝把原因展示给用户
func handleDefinitionError(c *gin.Context, err error) {
	var defErr *service.DefinitionError
	if errors.As(err, &defErr) {
		if defErr.Silent {
			logger.Debug("Comment definition denied", zap.String("reason", defErr.Reason))
			response.Forbidden(c, msgAccessDenied)
			return
		}
		response.Messages(c, false, defErr.Reason)
		return
	}
	logger.Error("Resolve comment definition failed", zap.Error(err))
	response.InternalError(c, msgGenericFailed)
}

func handleSubmissionError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		response.Invalid(c, vErr.Field, vErr.Reason)
		return
	}
	var defErr *service.DefinitionError
	if errors.As(err, &defErr) {
		handleDefinitionError(c, err)
		return
	}
	logger.Error("Create comment failed", zap.Error(err))
	response.Messages(c, false, msgGenericFailed)
}
