package handler

import (
	"errors"
	"strconv"

	"comment-go/internal/api/dto"
	"comment-go/internal/api/response"
	"comment-go/internal/model"
	"comment-go/internal/repository"
	"comment-go/internal/service"
	"comment-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentAdminHandler struct {
	commentService  *service.CommentService
	settingService  *service.SettingService
	searchService   *service.SearchService
	exportService   *service.ExportService
	reminderService *service.ReminderService
}

func NewCommentAdminHandler(
	commentService *service.CommentService,
	settingService *service.SettingService,
	searchService *service.SearchService,
	exportService *service.ExportService,
	reminderService *service.ReminderService,
) *CommentAdminHandler {
	return &CommentAdminHandler{
		commentService:  commentService,
		settingService:  settingService,
		searchService:   searchService,
		exportService:   exportService,
		reminderService: reminderService,
	}
}

// List 后台评论列表
// @Summary 后台评论列表
// @Tags 评论管理
// @Produce json
// @Security BearerAuth
// @Param status query int false "审核状态 0待审核 1已通过 2已拒绝"
// @Param ref query string false "实体类型"
// @Param ref_id query int false "实体ID"
// @Param customer_id query int false "客户ID"
// @Param order query string false "排序: created_reverse, created, rating, abuse" default(created_reverse)
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.AdminCommentListData} "获取成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Router /admin/module/comment [get]
func (h *CommentAdminHandler) List(c *gin.Context) {
	filter, ok := bindCommentFilter(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)

	data, err := h.commentService.AdminList(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		handleAdminError(c, err)
		return
	}

	response.OK(c, "获取成功", data)
}

// Get 评论详情
// @Summary 评论详情
// @Tags 评论管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "评论ID"
// @Success 200 {object} response.Response{data=dto.AdminCommentInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "评论不存在"
// @Router /admin/module/comment/{id} [get]
func (h *CommentAdminHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的评论ID")
		return
	}

	comment, err := h.commentService.Get(c.Request.Context(), id)
	if err != nil {
		handleAdminError(c, err)
		return
	}

	response.OK(c, "获取成功", service.ToAdminCommentInfo(comment))
}

// Create 后台创建评论
// @Summary 后台创建评论
// @Tags 评论管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AdminCommentCreateRequest true "评论内容"
// @Success 201 {object} response.Response{data=dto.AdminCommentInfo} "创建成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Router /admin/module/comment [post]
func (h *CommentAdminHandler) Create(c *gin.Context) {
	var req dto.AdminCommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	comment, err := h.commentService.AdminCreate(c.Request.Context(), &req)
	if err != nil {
		handleAdminError(c, err)
		return
	}

	response.Created(c, "创建成功", service.ToAdminCommentInfo(comment))
}

// Update 后台修改评论
// @Summary 后台修改评论
// @Tags 评论管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "评论ID"
// @Param request body dto.AdminCommentUpdateRequest true "评论内容"
// @Success 200 {object} response.Response{data=dto.AdminCommentInfo} "更新成功"
// @Failure 404 {object} response.ErrorResponse "评论不存在"
// @Router /admin/module/comment/{id} [put]
func (h *CommentAdminHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的评论ID")
		return
	}

	var req dto.AdminCommentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	comment, err := h.commentService.AdminUpdate(c.Request.Context(), id, &req)
	if err != nil {
		handleAdminError(c, err)
		return
	}

	response.OK(c, "更新成功", service.ToAdminCommentInfo(comment))
}

// Delete 后台删除评论
// @Summary 后台删除评论
// @Tags 评论管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "评论ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 404 {object} response.ErrorResponse "评论不存在"
// @Router /admin/module/comment/{id} [delete]
func (h *CommentAdminHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "无效的评论ID")
		return
	}

	if _, err := h.commentService.Delete(c.Request.Context(), id); err != nil {
		handleAdminError(c, err)
		return
	}

	response.OK(c, "删除成功", nil)
}

// ChangeStatus 修改审核状态
// @Summary 修改审核状态
// @Description 状态相同时直接返回成功
// @Tags 评论管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StatusChangeRequest true "评论ID和目标状态"
// @Success 200 {object} response.Response{data=dto.StatusChangeResult} "修改成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Failure 404 {object} response.ErrorResponse "评论不存在"
// @Router /admin/module/comment/status [post]
func (h *CommentAdminHandler) ChangeStatus(c *gin.Context) {
	var req dto.StatusChangeRequest
	if err := c.ShouldBind(&req); err != nil || req.ID == nil || req.Status == nil {
		response.BadRequest(c, "缺少评论ID或状态")
		return
	}

	comment, err := h.commentService.SetStatus(c.Request.Context(), *req.ID, model.CommentStatus(*req.Status))
	if err != nil {
		handleAdminError(c, err)
		return
	}

	response.OK(c, "", dto.StatusChangeResult{ID: comment.ID, Status: int(comment.Status)})
}

// Activation 设置实体评论开关
// @Summary 设置实体评论开关
// @Description status 为 1 开启、0 关闭、-1 恢复模块默认
// @Tags 评论管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref path string true "实体类型"
// @Param refId path int true "实体ID"
// @Param request body dto.ActivationRequest true "开关值"
// @Success 200 {object} response.StatusResponse "设置成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Router /admin/module/comment/activation/{ref}/{refId} [post]
func (h *CommentAdminHandler) Activation(c *gin.Context) {
	ref := c.Param("ref")
	refID, err := strconv.ParseInt(c.Param("refId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的实体ID")
		return
	}

	var req dto.ActivationRequest
	if err := c.ShouldBind(&req); err != nil || req.Status == nil {
		response.BadRequest(c, "缺少开关值")
		return
	}

	status, err := h.commentService.SetActivation(c.Request.Context(), ref, refID, *req.Status)
	if err != nil {
		handleAdminError(c, err)
		return
	}

	response.Status(c, true, status)
}

// GetConfiguration 读取模块配置
// @Summary 读取模块配置
// @Tags 评论管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=service.ModuleConfig} "获取成功"
// @Router /admin/module/comment/configuration [get]
func (h *CommentAdminHandler) GetConfiguration(c *gin.Context) {
	cfg, err := h.settingService.Load(c.Request.Context())
	if err != nil {
		handleAdminError(c, err)
		return
	}
	response.OK(c, "获取成功", cfg)
}

// SaveConfiguration 保存模块配置
// @Summary 保存模块配置
// @Tags 评论管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ConfigurationRequest true "模块配置"
// @Success 200 {object} response.Response{data=service.ModuleConfig} "保存成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Router /admin/module/comment/configuration [post]
func (h *CommentAdminHandler) SaveConfiguration(c *gin.Context) {
	var req dto.ConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	refs := req.RefAllowed
	if refs == nil {
		refs = []string{}
	}
	cfg := service.ModuleConfig{
		Activated:             req.Activated,
		Moderate:              req.Moderate,
		RefAllowed:            refs,
		OnlyCustomer:          req.OnlyCustomer,
		OnlyVerified:          req.OnlyVerified,
		RequestCustomerTTL:    req.RequestCustomerTTL,
		NotifyAdminNewComment: req.NotifyAdminNewComment,
	}
	if err := h.settingService.Save(c.Request.Context(), cfg); err != nil {
		handleAdminError(c, err)
		return
	}

	response.OK(c, "保存成功", cfg)
}

// RequestCustomer 邀请已购客户评价
// @Summary 邀请已购客户评价
// @Description 供定时任务调用，无需认证
// @Tags 评论管理
// @Produce json
// @Success 200 {object} response.Response{data=dto.ReminderResult} "执行成功"
// @Router /admin/module/comment/request-customer [post]
func (h *CommentAdminHandler) RequestCustomer(c *gin.Context) {
	sent, err := h.reminderService.RequestCustomerComments(c.Request.Context())
	if err != nil {
		handleAdminError(c, err)
		return
	}
	response.OK(c, "", dto.ReminderResult{Sent: sent})
}

// Search 搜索评论
// @Summary 搜索评论
// @Description 优先使用 Elasticsearch，不可用时降级为数据库模糊查询
// @Tags 评论管理
// @Produce json
// @Security BearerAuth
// @Param q query string false "搜索关键词"
// @Param ref query string false "实体类型"
// @Param ref_id query int false "实体ID"
// @Param status query int false "审核状态 0待审核 1已通过 2已拒绝"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=dto.SearchCommentData} "搜索成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Router /admin/module/comment/search [get]
func (h *CommentAdminHandler) Search(c *gin.Context) {
	var req dto.SearchCommentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}
	if req.Status != nil && !model.CommentStatus(*req.Status).Valid() {
		response.BadRequest(c, service.ErrInvalidStatus.Error())
		return
	}

	data, err := h.searchService.SearchComments(c.Request.Context(), &req)
	if err != nil {
		logger.Error("Search comments failed", zap.Error(err))
		response.InternalError(c, "搜索失败")
		return
	}

	response.OK(c, "搜索成功", data)
}

// SyncSearch 重建搜索索引
// @Summary 重建搜索索引
// @Tags 评论管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.SyncResult} "同步完成"
// @Router /admin/module/comment/search/sync [post]
func (h *CommentAdminHandler) SyncSearch(c *gin.Context) {
	success, failed, err := h.searchService.SyncAll(c.Request.Context())
	if err != nil {
		logger.Error("Sync comments to ES failed", zap.Error(err))
		response.InternalError(c, "同步失败")
		return
	}
	response.OK(c, "同步完成", dto.SyncResult{Success: success, Failed: failed})
}

// Export 导出评论
// @Summary 导出评论
// @Description 按筛选条件导出为 JSON Lines 文件，返回限时下载链接
// @Tags 评论管理
// @Produce json
// @Security BearerAuth
// @Param status query int false "审核状态"
// @Param ref query string false "实体类型"
// @Param ref_id query int false "实体ID"
// @Param customer_id query int false "客户ID"
// @Success 200 {object} response.Response{data=dto.ExportResult} "导出成功"
// @Router /admin/module/comment/export [post]
func (h *CommentAdminHandler) Export(c *gin.Context) {
	filter, ok := bindCommentFilter(c)
	if !ok {
		return
	}

	result, err := h.exportService.Export(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Export comments failed", zap.Error(err))
		response.InternalError(c, "导出失败")
		return
	}

	response.OK(c, "导出成功", result)
}

func bindCommentFilter(c *gin.Context) (repository.CommentFilter, bool) {
	var q dto.AdminCommentListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return repository.CommentFilter{}, false
	}

	filter := repository.CommentFilter{
		Ref:        q.Ref,
		RefID:      q.RefID,
		CustomerID: q.CustomerID,
		Order:      q.Order,
	}
	if q.Status != nil {
		status := model.CommentStatus(*q.Status)
		if !status.Valid() {
			response.BadRequest(c, service.ErrInvalidStatus.Error())
			return repository.CommentFilter{}, false
		}
		filter.Status = &status
	}
	switch filter.Order {
	case repository.OrderCreated, repository.OrderRating, repository.OrderAbuse:
	default:
		filter.Order = repository.OrderCreatedReverse
	}
	return filter, true
}

func handleAdminError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrCommentNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidActivation):
		response.BadRequest(c, err.Error())
	case errors.As(err, &vErr):
		response.BadRequest(c, vErr.Reason)
	default:
		logger.Error("Comment admin operation failed", zap.Error(err))
		response.InternalError(c, msgGenericFailed)
	}
}
