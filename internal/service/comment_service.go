package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"comment-go/internal/api/dto"
	"comment-go/internal/config"
	"comment-go/internal/model"
	"comment-go/internal/repository"
	"comment-go/pkg/logger"
	"comment-go/pkg/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CommentStore 评论持久化
type CommentStore interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id int64) (*model.Comment, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	UpdateStatus(ctx context.Context, id int64, status model.CommentStatus) error
	Delete(ctx context.Context, id int64) (bool, error)
	IncrementAbuse(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter repository.CommentFilter, skip, limit int) ([]model.Comment, int64, error)
	RatingSummary(ctx context.Context, ref string, refID int64) (int64, float64, error)
}

// Submission 前台或后台提交的原始字段
type Submission struct {
	Ref           string
	RefID         int64
	Title         string
	Content       string
	Rating        *int
	Username      string
	Email         string
	Locale        string
	CaptchaID     string
	CaptchaAnswer string
	Channel       Channel
}

type CommentService struct {
	comments         CommentStore
	meta             MetaDataStore
	hooks            *HookChain
	validate         *validator.Validate
	titleMaxLength   int
	contentMaxLength int
}

func NewCommentService(comments CommentStore, meta MetaDataStore, hooks *HookChain, cfg *config.CommentConfig) *CommentService {
	s := &CommentService{
		comments:         comments,
		meta:             meta,
		hooks:            hooks,
		validate:         validator.New(),
		titleMaxLength:   255,
		contentMaxLength: 5000,
	}
	if cfg != nil {
		if cfg.TitleMaxLength > 0 {
			s.titleMaxLength = cfg.TitleMaxLength
		}
		if cfg.ContentMaxLength > 0 {
			s.contentMaxLength = cfg.ContentMaxLength
		}
	}
	return s
}

// Create 前台发表评论：校验 -> 绑定身份 -> 人机验证 -> 计算初始状态 -> 保存
func (s *CommentService) Create(ctx context.Context, sub *Submission, def *Definition) (*model.Comment, error) {
	if def == nil {
		return nil, silentDenial("missing definition")
	}

	if err := s.validateSubmission(sub, def); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		Ref:      def.Ref,
		RefID:    def.RefID,
		Username: strings.TrimSpace(sub.Username),
		Email:    strings.TrimSpace(sub.Email),
		Locale:   sub.Locale,
		Title:    utils.StripHTML(sub.Title),
		Content:  utils.StripHTML(sub.Content),
		Verified: def.Verified,
	}
	if def.HasRating {
		comment.Rating = sub.Rating
	}
	if def.Customer != nil {
		customerID := def.Customer.ID
		comment.CustomerID = &customerID
	}

	before := newEvent(EventCommentCreate, sub.Channel, comment)
	before.Submission = sub
	before.Definition = def
	if err := s.hooks.Dispatch(ctx, before); err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return nil, vErr
		}
		logger.Warn("Comment create hook rejected submission", zap.Error(err))
		return nil, invalidField("submission", "提交未通过校验")
	}

	if def.Config.Moderate {
		comment.Status = model.CommentPending
	} else {
		comment.Status = model.CommentAccepted
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	logger.Info("Comment created",
		zap.Int64("comment_id", comment.ID),
		zap.String("ref", comment.Ref),
		zap.Int64("ref_id", comment.RefID),
		zap.String("status", comment.Status.String()),
	)

	after := newEvent(EventCommentCreated, sub.Channel, comment)
	after.Definition = def
	s.emit(ctx, after)

	return comment, nil
}

// validateSubmission 按顺序校验，返回第一个失败的字段
func (s *CommentService) validateSubmission(sub *Submission, def *Definition) error {
	if err := s.validate.Var(utils.StripHTML(sub.Title), "required,max="+strconv.Itoa(s.titleMaxLength)); err != nil {
		return invalidField("title", validationReason(err, "标题不能为空"))
	}
	if err := s.validate.Var(utils.StripHTML(sub.Content), "required,max="+strconv.Itoa(s.contentMaxLength)); err != nil {
		return invalidField("content", validationReason(err, "内容不能为空"))
	}
	if strings.TrimSpace(sub.Ref) == "" || sub.Ref != def.Ref {
		return invalidField("ref", "无效的评论对象")
	}
	if sub.RefID < 0 || sub.RefID != def.RefID {
		return invalidField("ref_id", "无效的评论对象ID")
	}

	if def.Customer == nil {
		if err := s.validate.Var(strings.TrimSpace(sub.Username), "required,min=2"); err != nil {
			return invalidField("username", "请填写至少2个字符的用户名")
		}
		if err := s.validate.Var(strings.TrimSpace(sub.Email), "required,email"); err != nil {
			return invalidField("email", "请填写有效的邮箱地址")
		}
	}

	if sub.Rating != nil {
		if err := s.validate.Var(*sub.Rating, "gte=0,lte=5"); err != nil {
			return invalidField("rating", "评分必须在0到5之间")
		}
	}
	if def.RatingRequired && sub.Rating == nil {
		return invalidField("rating", "请填写评分")
	}

	return nil
}

func validationReason(err error, required string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "max" {
		return "长度不能超过" + verrs[0].Param() + "个字符"
	}
	return required
}

// ListAccepted 前台评论列表，只返回已通过的评论
func (s *CommentService) ListAccepted(ctx context.Context, ref string, refID int64, start, count int) (*dto.CommentListData, error) {
	if start < 0 {
		start = 0
	}
	if count < 1 || count > 100 {
		count = 10
	}

	accepted := model.CommentAccepted
	filter := repository.CommentFilter{
		Status: &accepted,
		Ref:    ref,
		RefID:  &refID,
		Order:  repository.OrderCreatedReverse,
	}
	comments, total, err := s.comments.List(ctx, filter, start, count)
	if err != nil {
		return nil, err
	}

	ratingCount, average, err := s.comments.RatingSummary(ctx, ref, refID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CommentInfo, 0, len(comments))
	for i := range comments {
		items = append(items, toCommentInfo(&comments[i]))
	}

	return &dto.CommentListData{
		Comments: items,
		Total:    total,
		Start:    start,
		Count:    count,
		Rating:   dto.RatingSummary{Count: ratingCount, Average: average},
	}, nil
}

// SetStatus 管理员修改审核状态；状态相同时不写库也不发事件
func (s *CommentService) SetStatus(ctx context.Context, id int64, status model.CommentStatus) (*model.Comment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	comment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if comment.Status == status {
		return comment, nil
	}

	previous := comment.Status
	if err := s.comments.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	comment.Status = status

	logger.Info("Comment status changed",
		zap.Int64("comment_id", id),
		zap.String("from", previous.String()),
		zap.String("to", status.String()),
	)

	ev := newEvent(EventCommentStatusChanged, ChannelAdmin, comment)
	ev.PreviousStatus = &previous
	s.emit(ctx, ev)

	return comment, nil
}

// Delete 管理员删除评论
func (s *CommentService) Delete(ctx context.Context, id int64) (*model.Comment, error) {
	comment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return comment, s.remove(ctx, comment, ChannelAdmin)
}

// DeleteOwn 客户删除自己的评论。不存在与不属于本人返回同一个错误
func (s *CommentService) DeleteOwn(ctx context.Context, id, customerID int64) error {
	comment, err := s.get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			return ErrCommentNoPermission
		}
		return err
	}
	if !comment.IsOwnedBy(customerID) {
		return ErrCommentNoPermission
	}
	return s.remove(ctx, comment, ChannelFront)
}

func (s *CommentService) remove(ctx context.Context, comment *model.Comment, channel Channel) error {
	deleted, err := s.comments.Delete(ctx, comment.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCommentNotFound
	}

	logger.Info("Comment deleted", zap.Int64("comment_id", comment.ID))
	s.emit(ctx, newEvent(EventCommentDeleted, channel, comment))
	return nil
}

// ReportAbuse 举报次数加一，不改变审核状态
func (s *CommentService) ReportAbuse(ctx context.Context, id int64) error {
	updated, err := s.comments.IncrementAbuse(ctx, id)
	if err != nil {
		return err
	}
	if !updated {
		return ErrCommentNotFound
	}

	// 事件带上评论的真实 ref 和状态，读取失败时计数已生效，只是不再通知
	comment, err := s.get(ctx, id)
	if err != nil {
		logger.Warn("Load comment after abuse report failed",
			zap.Int64("comment_id", id),
			zap.Error(err),
		)
		return nil
	}
	s.emit(ctx, newEvent(EventCommentAbuse, ChannelFront, comment))
	return nil
}

// SetActivation 设置实体级评论开关：0/1 写入，-1 删除记录恢复默认
func (s *CommentService) SetActivation(ctx context.Context, ref string, refID int64, value int) (int, error) {
	if strings.TrimSpace(ref) == "" || refID < 0 {
		return model.ActivationUnset, invalidField("ref", "无效的评论对象")
	}

	switch value {
	case model.ActivationDisabled, model.ActivationEnabled:
		if err := s.meta.SetVal(ctx, model.MetaKeyCommentActivated, ref, refID, strconv.Itoa(value)); err != nil {
			return model.ActivationUnset, err
		}
	case model.ActivationUnset:
		if _, err := s.meta.DeleteVal(ctx, model.MetaKeyCommentActivated, ref, refID); err != nil {
			return model.ActivationUnset, err
		}
	default:
		return model.ActivationUnset, ErrInvalidActivation
	}

	return s.GetActivation(ctx, ref, refID)
}

// GetActivation 读取实体级评论开关，未设置返回 -1
func (s *CommentService) GetActivation(ctx context.Context, ref string, refID int64) (int, error) {
	return loadActivation(ctx, s.meta, ref, refID)
}

// Get 获取单条评论
func (s *CommentService) Get(ctx context.Context, id int64) (*model.Comment, error) {
	return s.get(ctx, id)
}

// AdminList 后台评论列表
func (s *CommentService) AdminList(ctx context.Context, filter repository.CommentFilter, page, pageSize int) (*dto.AdminCommentListData, error) {
	skip := (page - 1) * pageSize
	comments, total, err := s.comments.List(ctx, filter, skip, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]dto.AdminCommentInfo, 0, len(comments))
	for i := range comments {
		items = append(items, ToAdminCommentInfo(&comments[i]))
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)

	return &dto.AdminCommentListData{
		Comments:   items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// AdminCreate 后台直接创建评论，不走资格判定和人机验证
func (s *CommentService) AdminCreate(ctx context.Context, req *dto.AdminCommentCreateRequest) (*model.Comment, error) {
	comment := &model.Comment{
		Ref:        strings.TrimSpace(req.Ref),
		RefID:      req.RefID,
		CustomerID: req.CustomerID,
		Username:   strings.TrimSpace(req.Username),
		Email:      strings.TrimSpace(req.Email),
		Locale:     req.Locale,
		Title:      utils.StripHTML(req.Title),
		Content:    utils.StripHTML(req.Content),
		Rating:     req.Rating,
		Status:     model.CommentStatus(req.Status),
		Verified:   req.Verified,
	}
	if comment.Ref == "" {
		return nil, invalidField("ref", "无效的评论对象")
	}
	if comment.RefID < 0 {
		return nil, invalidField("ref_id", "无效的评论对象ID")
	}
	if err := s.validateAdminFields(comment); err != nil {
		return nil, err
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	logger.Info("Comment created by admin", zap.Int64("comment_id", comment.ID))
	s.emit(ctx, newEvent(EventCommentCreated, ChannelAdmin, comment))

	return comment, nil
}

// AdminUpdate 后台修改评论
func (s *CommentService) AdminUpdate(ctx context.Context, id int64, req *dto.AdminCommentUpdateRequest) (*model.Comment, error) {
	comment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := comment.Status

	comment.CustomerID = req.CustomerID
	comment.Username = strings.TrimSpace(req.Username)
	comment.Email = strings.TrimSpace(req.Email)
	comment.Locale = req.Locale
	comment.Title = utils.StripHTML(req.Title)
	comment.Content = utils.StripHTML(req.Content)
	comment.Rating = req.Rating
	comment.Status = model.CommentStatus(req.Status)
	comment.Verified = req.Verified

	if err := s.validateAdminFields(comment); err != nil {
		return nil, err
	}

	if err := s.comments.Update(ctx, comment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	s.emit(ctx, newEvent(EventCommentUpdated, ChannelAdmin, comment))
	if previous != comment.Status {
		ev := newEvent(EventCommentStatusChanged, ChannelAdmin, comment)
		ev.PreviousStatus = &previous
		s.emit(ctx, ev)
	}

	return comment, nil
}

func (s *CommentService) validateAdminFields(c *model.Comment) error {
	if c.Title == "" {
		return invalidField("title", "标题不能为空")
	}
	if c.Content == "" {
		return invalidField("content", "内容不能为空")
	}
	if c.CustomerID == nil {
		if err := s.validate.Var(c.Username, "required,min=2"); err != nil {
			return invalidField("username", "请填写至少2个字符的用户名")
		}
		if err := s.validate.Var(c.Email, "required,email"); err != nil {
			return invalidField("email", "请填写有效的邮箱地址")
		}
	}
	if c.Rating != nil && (*c.Rating < 0 || *c.Rating > 5) {
		return invalidField("rating", "评分必须在0到5之间")
	}
	if !c.Status.Valid() {
		return invalidField("status", ErrInvalidStatus.Error())
	}
	return nil
}

func (s *CommentService) get(ctx context.Context, id int64) (*model.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// emit 状态变更之后的通知是尽力而为的，失败只记日志
func (s *CommentService) emit(ctx context.Context, ev *Event) {
	if err := s.hooks.DispatchAll(ctx, ev); err != nil {
		logger.Warn("Comment event hook failed",
			zap.String("event", string(ev.Kind)),
			zap.Int64("comment_id", ev.Comment.ID),
			zap.Error(err),
		)
	}
}

func toCommentInfo(c *model.Comment) dto.CommentInfo {
	return dto.CommentInfo{
		ID:         c.ID,
		Ref:        c.Ref,
		RefID:      c.RefID,
		CustomerID: c.CustomerID,
		Username:   c.Username,
		Title:      c.Title,
		Content:    c.Content,
		Rating:     c.Rating,
		Verified:   c.Verified,
		CreatedAt:  c.CreatedAt,
	}
}

// ToAdminCommentInfo 转换为后台视图
func ToAdminCommentInfo(c *model.Comment) dto.AdminCommentInfo {
	return dto.AdminCommentInfo{
		ID:         c.ID,
		Ref:        c.Ref,
		RefID:      c.RefID,
		CustomerID: c.CustomerID,
		Username:   c.Username,
		Email:      c.Email,
		Locale:     c.Locale,
		Title:      c.Title,
		Content:    c.Content,
		Rating:     c.Rating,
		Status:     int(c.Status),
		Verified:   c.Verified,
		Abuse:      c.Abuse,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
