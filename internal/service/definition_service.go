package service

import (
	"context"
	"strconv"

	"comment-go/internal/model"
)

// Customer 当前登录的客户
type Customer struct {
	ID int64
}

// Definition 某个访客能否、以何种约束在某个实体上评论。按请求生成，不持久化。
type Definition struct {
	Ref            string
	RefID          int64
	Customer       *Customer
	Config         ModuleConfig
	Verified       bool
	HasRating      bool
	RatingRequired bool
}

// DefinitionProvider 由了解某类实体的一方实现，补充 Verified / HasRating，
// 也可以返回 *DefinitionError 拒绝评论
type DefinitionProvider interface {
	Ref() string
	Define(ctx context.Context, def *Definition) error
}

// MetaDataStore 通用元数据存储
type MetaDataStore interface {
	GetVal(ctx context.Context, metaKey, elementKey string, elementID int64) (string, bool, error)
	SetVal(ctx context.Context, metaKey, elementKey string, elementID int64, value string) error
	DeleteVal(ctx context.Context, metaKey, elementKey string, elementID int64) (int64, error)
}

// RatingPolicy 判断某个 ref 类型是否强制评分
type RatingPolicy func(ref string) bool

type DefinitionService struct {
	settings     SettingsLoader
	meta         MetaDataStore
	providers    map[string]DefinitionProvider
	ratingPolicy RatingPolicy
}

func NewDefinitionService(settings SettingsLoader, meta MetaDataStore, ratingPolicy RatingPolicy, providers ...DefinitionProvider) *DefinitionService {
	s := &DefinitionService{
		settings:     settings,
		meta:         meta,
		providers:    make(map[string]DefinitionProvider),
		ratingPolicy: ratingPolicy,
	}
	for _, p := range providers {
		s.Register(p)
	}
	return s
}

// Register 注册（或替换）某个 ref 类型的提供者
func (s *DefinitionService) Register(p DefinitionProvider) {
	s.providers[p.Ref()] = p
}

// Resolve 计算访客在 (ref, refID) 上的评论资格
func (s *DefinitionService) Resolve(ctx context.Context, ref string, refID int64, customer *Customer) (*Definition, error) {
	if ref == "" || refID < 0 {
		return nil, silentDenial("invalid reference %q/%d", ref, refID)
	}

	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	if !cfg.IsRefAllowed(ref) {
		return nil, silentDenial("ref %q not allowed", ref)
	}

	activation, err := loadActivation(ctx, s.meta, ref, refID)
	if err != nil {
		return nil, err
	}
	if !isActivated(activation, cfg.Activated) {
		return nil, silentDenial("comments disabled on %s/%d", ref, refID)
	}

	provider, ok := s.providers[ref]
	if !ok {
		return nil, silentDenial("no definition provider for ref %q", ref)
	}

	def := &Definition{
		Ref:      ref,
		RefID:    refID,
		Customer: customer,
		Config:   cfg,
	}
	if err := provider.Define(ctx, def); err != nil {
		return nil, err
	}

	if cfg.OnlyCustomer && def.Customer == nil {
		return nil, explicitDenial("只有登录的客户才能发表评论")
	}
	if cfg.OnlyVerified && !def.Verified {
		return nil, explicitDenial("只有购买过该商品的客户才能发表评价")
	}

	def.RatingRequired = def.HasRating && s.ratingPolicy != nil && s.ratingPolicy(ref)

	return def, nil
}

// loadActivation 读取实体级评论开关，未设置时返回 -1
func loadActivation(ctx context.Context, meta MetaDataStore, ref string, refID int64) (int, error) {
	raw, found, err := meta.GetVal(ctx, model.MetaKeyCommentActivated, ref, refID)
	if err != nil {
		return model.ActivationUnset, err
	}
	if !found {
		return model.ActivationUnset, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return model.ActivationUnset, nil
	}
	return v, nil
}

func isActivated(flag int, defaultActivated bool) bool {
	switch flag {
	case model.ActivationEnabled:
		return true
	case model.ActivationDisabled:
		return false
	default:
		return defaultActivated
	}
}

// PurchaseChecker 判断客户是否购买过商品
type PurchaseChecker interface {
	HasPurchased(ctx context.Context, customerID, productID int64) (bool, error)
}

// ProductDefinitionProvider 商品评价：支持评分，购买过即为已验证
type ProductDefinitionProvider struct {
	purchases PurchaseChecker
}

func NewProductDefinitionProvider(purchases PurchaseChecker) *ProductDefinitionProvider {
	return &ProductDefinitionProvider{purchases: purchases}
}

func (p *ProductDefinitionProvider) Ref() string { return "product" }

func (p *ProductDefinitionProvider) Define(ctx context.Context, def *Definition) error {
	def.HasRating = true
	if def.Customer == nil {
		return nil
	}
	bought, err := p.purchases.HasPurchased(ctx, def.Customer.ID, def.RefID)
	if err != nil {
		return err
	}
	def.Verified = bought
	return nil
}

// ContentDefinitionProvider 内容页评论：不评分，也没有购买验证
type ContentDefinitionProvider struct{}

func (ContentDefinitionProvider) Ref() string { return "content" }

func (ContentDefinitionProvider) Define(ctx context.Context, def *Definition) error {
	def.HasRating = false
	def.Verified = false
	return nil
}
