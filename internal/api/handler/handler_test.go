package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"comment-go/internal/api/dto"
	"comment-go/internal/api/handler"
	"comment-go/internal/api/middleware"
	"comment-go/internal/api/router"
	"comment-go/internal/config"
	"comment-go/internal/model"
	"comment-go/internal/repository"
	"comment-go/internal/service"
	"comment-go/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- 内存版存储 ---

type memComments struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*model.Comment
}

func newMemComments() *memComments {
	return &memComments{rows: make(map[int64]*model.Comment)}
}

func (m *memComments) Create(ctx context.Context, c *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	row := *c
	m.rows[c.ID] = &row
	return nil
}

func (m *memComments) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memComments) GetByIDs(ctx context.Context, ids []int64) ([]model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := m.rows[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memComments) Update(ctx context.Context, c *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	row := *c
	m.rows[c.ID] = &row
	return nil
}

func (m *memComments) UpdateStatus(ctx context.Context, id int64, status model.CommentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Status = status
	return nil
}

func (m *memComments) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

func (m *memComments) IncrementAbuse(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return false, nil
	}
	c.Abuse++
	return true, nil
}

func (m *memComments) List(ctx context.Context, f repository.CommentFilter, skip, limit int) ([]model.Comment, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Comment, 0)
	for _, c := range m.rows {
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		if f.Ref != "" && c.Ref != f.Ref {
			continue
		}
		if f.RefID != nil && c.RefID != *f.RefID {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := int64(len(out))
	if skip >= len(out) {
		return []model.Comment{}, total, nil
	}
	end := skip + limit
	if end > len(out) {
		end = len(out)
	}
	return out[skip:end], total, nil
}

func (m *memComments) RatingSummary(ctx context.Context, ref string, refID int64) (int64, float64, error) {
	return 0, 0, nil
}

func (m *memComments) get(id int64) *model.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id]
}

type memMeta struct {
	values map[string]string
}

func metaKey(key, element string, id int64) string {
	b, _ := json.Marshal([]interface{}{key, element, id})
	return string(b)
}

func (m *memMeta) GetVal(ctx context.Context, key, element string, id int64) (string, bool, error) {
	v, ok := m.values[metaKey(key, element, id)]
	return v, ok, nil
}

func (m *memMeta) SetVal(ctx context.Context, key, element string, id int64, value string) error {
	m.values[metaKey(key, element, id)] = value
	return nil
}

func (m *memMeta) DeleteVal(ctx context.Context, key, element string, id int64) (int64, error) {
	k := metaKey(key, element, id)
	if _, ok := m.values[k]; !ok {
		return 0, nil
	}
	delete(m.values, k)
	return 1, nil
}

type memSettings struct {
	values map[string]string
}

func (m *memSettings) GetMany(ctx context.Context, names []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, n := range names {
		if v, ok := m.values[n]; ok {
			out[n] = v
		}
	}
	return out, nil
}

func (m *memSettings) WriteMany(ctx context.Context, values map[string]string) error {
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

type memPurchases struct {
	due      []model.Purchase
	reminded map[int64]time.Time
}

func (m *memPurchases) HasPurchased(ctx context.Context, customerID, productID int64) (bool, error) {
	return false, nil
}

func (m *memPurchases) ListDueForReminder(ctx context.Context, ref string, before time.Time, limit int) ([]model.Purchase, error) {
	out := make([]model.Purchase, 0)
	for _, p := range m.due {
		if _, done := m.reminded[p.ID]; !done && !p.OrderedAt.After(before) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPurchases) MarkReminded(ctx context.Context, id int64, at time.Time) error {
	m.reminded[id] = at
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, topic, key string, value []byte) error { return nil }

type nopObjectStore struct{}

func (nopObjectStore) Upload(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) error {
	return nil
}

func (nopObjectStore) PresignedURL(ctx context.Context, bucket, objectName string, expiry time.Duration) (string, error) {
	return "https://files.example.com/" + objectName, nil
}

// --- 测试环境 ---

type testEnv struct {
	engine    *gin.Engine
	comments  *memComments
	settings  *service.SettingService
	purchases *memPurchases
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Set(&config.Config{
		App: config.AppConfig{Name: "comment-go"},
		JWT: config.JWTConfig{Secret: "test-secret", ExpireHours: 1},
	})

	comments := newMemComments()
	meta := &memMeta{values: make(map[string]string)}
	settings := service.NewSettingService(&memSettings{values: make(map[string]string)}, nil, time.Minute)
	purchases := &memPurchases{reminded: make(map[int64]time.Time)}

	definitions := service.NewDefinitionService(settings, meta, nil,
		service.NewProductDefinitionProvider(purchases),
		service.ContentDefinitionProvider{},
	)
	commentService := service.NewCommentService(comments, meta, service.NewHookChain(), nil)
	captcha := service.NewCaptchaService(&config.CaptchaConfig{Enabled: false}, nil)

	commentHandler := handler.NewCommentHandler(definitions, commentService, captcha)
	adminHandler := handler.NewCommentAdminHandler(
		commentService,
		settings,
		service.NewSearchService(comments, nil),
		service.NewExportService(comments, nopObjectStore{}, "exports", time.Hour),
		service.NewReminderService(settings, purchases, nopPublisher{}, "review-reminders", 0),
	)

	r := gin.New()
	limiter := middleware.NewIPRateLimiter(&config.RateLimitConfig{RequestsPerMinute: 6000, Burst: 100})
	router.Setup(r, commentHandler, adminHandler, limiter)

	return &testEnv{engine: r, comments: comments, settings: settings, purchases: purchases}
}

func (e *testEnv) saveConfig(t *testing.T, mutate func(*service.ModuleConfig)) {
	t.Helper()
	cfg := service.DefaultModuleConfig()
	mutate(&cfg)
	require.NoError(t, e.settings.Save(context.Background(), cfg))
}

func (e *testEnv) seed(t *testing.T, c model.Comment) int64 {
	t.Helper()
	require.NoError(t, e.comments.Create(context.Background(), &c))
	return c.ID
}

type requestOpts struct {
	token string
	xhr   bool
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, opts requestOpts) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.xhr {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, customerID int64, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken(customerID, role)
	require.NoError(t, err)
	return tok
}

type envelope struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Field    string          `json:"field"`
	Messages []string        `json:"messages"`
	Status   int             `json:"status"`
	Data     json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

var front = requestOpts{xhr: true}

func anonymousComment(ref string, refID int64) map[string]interface{} {
	return map[string]interface{}{
		"ref":      ref,
		"ref_id":   refID,
		"title":    "Great",
		"content":  "Works as expected",
		"username": "visitor",
		"email":    "visitor@example.com",
	}
}

// --- 前台 ---

func TestAdd_AnonymousModerated(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/comment/add", anonymousComment("content", 7), front)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.True(t, body.Success)
	assert.Equal(t, []string{"评论已提交，审核通过后将会展示"}, body.Messages)

	stored := env.comments.get(1)
	require.NotNil(t, stored)
	assert.Equal(t, model.CommentPending, stored.Status)
	assert.Nil(t, stored.CustomerID)
}

func TestAdd_PublishedWithoutModeration(t *testing.T) {
	env := newTestEnv(t)
	env.saveConfig(t, func(c *service.ModuleConfig) { c.Moderate = false })

	w := env.do(t, http.MethodPost, "/comment/add", anonymousComment("content", 7), front)
	body := decode(t, w)
	assert.True(t, body.Success)
	assert.Equal(t, []string{"评论已发布"}, body.Messages)
	assert.Equal(t, model.CommentAccepted, env.comments.get(1).Status)
}

func TestAdd_RequiresXMLHttpRequest(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/comment/add", anonymousComment("content", 7), requestOpts{})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Nil(t, env.comments.get(1))
}

func TestAdd_SilentDenialIsForbidden(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/comment/add", anonymousComment("video", 7), front)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "拒绝访问", decode(t, w).Message)
}

func TestAdd_ExplicitDenialShowsReason(t *testing.T) {
	env := newTestEnv(t)
	env.saveConfig(t, func(c *service.ModuleConfig) { c.OnlyCustomer = true })

	w := env.do(t, http.MethodPost, "/comment/add", anonymousComment("content", 7), front)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, []string{"只有登录的客户才能发表评论"}, body.Messages)
}

func TestAdd_FieldError(t *testing.T) {
	env := newTestEnv(t)
	req := anonymousComment("content", 7)
	delete(req, "username")

	body := decode(t, env.do(t, http.MethodPost, "/comment/add", req, front))
	assert.False(t, body.Success)
	assert.Equal(t, "username", body.Field)
	assert.Len(t, body.Messages, 1)
	assert.Nil(t, env.comments.get(1))
}

func TestAdd_CustomerSkipsIdentityFields(t *testing.T) {
	env := newTestEnv(t)
	req := anonymousComment("content", 7)
	delete(req, "username")
	delete(req, "email")

	body := decode(t, env.do(t, http.MethodPost, "/comment/add", req,
		requestOpts{xhr: true, token: token(t, 42, utils.RoleCustomer)}))
	require.True(t, body.Success, body.Messages)

	stored := env.comments.get(1)
	require.NotNil(t, stored.CustomerID)
	assert.Equal(t, int64(42), *stored.CustomerID)
}

func TestGet_ListsAcceptedOnly(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, model.Comment{Ref: "content", RefID: 7, Title: "a", Content: "a", Status: model.CommentAccepted})
	env.seed(t, model.Comment{Ref: "content", RefID: 7, Title: "b", Content: "b", Status: model.CommentPending})
	env.seed(t, model.Comment{Ref: "content", RefID: 8, Title: "c", Content: "c", Status: model.CommentAccepted})

	w := env.do(t, http.MethodGet, "/comment/get?ref=content&ref_id=7", nil, front)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Comments []struct {
			Title string `json:"title"`
		} `json:"comments"`
		Total      int64 `json:"total"`
		Definition struct {
			CanComment bool `json:"can_comment"`
			HasRating  bool `json:"has_rating"`
		} `json:"definition"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	require.Len(t, data.Comments, 1)
	assert.Equal(t, "a", data.Comments[0].Title)
	assert.Equal(t, int64(1), data.Total)
	assert.True(t, data.Definition.CanComment)
	assert.False(t, data.Definition.HasRating)
}

func TestGet_DisabledEntityIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	admin := requestOpts{token: token(t, 1, utils.RoleAdmin)}

	w := env.do(t, http.MethodPost, "/admin/module/comment/activation/content/7", map[string]int{"status": 0}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.True(t, body.Success)
	assert.Equal(t, 0, body.Status)

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/comment/get?ref=content&ref_id=7", nil, front).Code)

	w = env.do(t, http.MethodPost, "/admin/module/comment/activation/content/7", map[string]int{"status": -1}, admin)
	assert.Equal(t, -1, decode(t, w).Status)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/comment/get?ref=content&ref_id=7", nil, front).Code)
}

func TestAbuse_AlwaysThanks(t *testing.T) {
	env := newTestEnv(t)
	id := env.seed(t, model.Comment{Ref: "content", RefID: 7, Title: "a", Content: "a"})

	for _, target := range []int64{id, 9999} {
		body := decode(t, env.do(t, http.MethodPost, "/comment/abuse", map[string]int64{"id": target}, front))
		assert.True(t, body.Success)
		assert.Equal(t, "感谢您的举报，我们会尽快处理", body.Message)
	}
	assert.Equal(t, 1, env.comments.get(id).Abuse)
}

func TestAbuse_AnyParsedIDThanks(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []int64{0, -5} {
		body := decode(t, env.do(t, http.MethodPost, "/comment/abuse", map[string]int64{"id": target}, front))
		assert.True(t, body.Success, "id %d", target)
	}

	for _, payload := range []interface{}{map[string]string{}, map[string]string{"id": "abc"}} {
		body := decode(t, env.do(t, http.MethodPost, "/comment/abuse", payload, front))
		assert.False(t, body.Success)
		assert.Equal(t, "无效的评论ID", body.Message)
	}
}

func TestDelete_OnlyOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := int64(42)
	id := env.seed(t, model.Comment{Ref: "content", RefID: 7, Title: "a", Content: "a", CustomerID: &owner})

	path := "/comment/delete/1"
	body := decode(t, env.do(t, http.MethodGet, path, nil, requestOpts{xhr: true, token: token(t, 7, utils.RoleCustomer)}))
	assert.False(t, body.Success)
	assert.Equal(t, "无法删除该评论", body.Message)
	assert.NotNil(t, env.comments.get(id))

	body = decode(t, env.do(t, http.MethodGet, "/comment/delete/404", nil, requestOpts{xhr: true, token: token(t, 42, utils.RoleCustomer)}))
	assert.False(t, body.Success)
	assert.Equal(t, "无法删除该评论", body.Message)

	body = decode(t, env.do(t, http.MethodGet, path, nil, requestOpts{xhr: true, token: token(t, 42, utils.RoleCustomer)}))
	assert.True(t, body.Success)
	assert.Nil(t, env.comments.get(id))
}

func TestDelete_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/comment/delete/1", nil, front).Code)
}

func TestCaptcha_Disabled(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/comment/captcha", nil, front).Code)
}

// --- 后台 ---

func TestAdmin_RequiresAdminRole(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/admin/module/comment", nil, requestOpts{}).Code)
	assert.Equal(t, http.StatusForbidden,
		env.do(t, http.MethodGet, "/admin/module/comment", nil, requestOpts{token: token(t, 1, utils.RoleCustomer)}).Code)
}

func TestAdmin_ChangeStatus(t *testing.T) {
	env := newTestEnv(t)
	admin := requestOpts{token: token(t, 1, utils.RoleAdmin)}
	id := env.seed(t, model.Comment{Ref: "content", RefID: 7, Title: "a", Content: "a"})

	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodPost, "/admin/module/comment/status", map[string]int64{"id": id, "status": 1}, admin)
		require.Equal(t, http.StatusOK, w.Code)
		var result struct {
			ID     int64 `json:"id"`
			Status int   `json:"status"`
		}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &result))
		assert.Equal(t, id, result.ID)
		assert.Equal(t, 1, result.Status)
	}
	assert.Equal(t, model.CommentAccepted, env.comments.get(id).Status)

	w := env.do(t, http.MethodPost, "/admin/module/comment/status", map[string]int64{"id": id, "status": 9}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/admin/module/comment/status", map[string]int64{"id": 404, "status": 1}, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/admin/module/comment/status", map[string]int64{"id": id}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_ListFiltersByStatus(t *testing.T) {
	env := newTestEnv(t)
	admin := requestOpts{token: token(t, 1, utils.RoleAdmin)}
	env.seed(t, model.Comment{Ref: "content", RefID: 7, Title: "a", Content: "a", Status: model.CommentAccepted})
	env.seed(t, model.Comment{Ref: "content", RefID: 7, Title: "b", Content: "b"})

	w := env.do(t, http.MethodGet, "/admin/module/comment?status=0", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, int64(1), data.Total)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/admin/module/comment?status=5", nil, admin).Code)
}

func TestAdmin_SearchFiltersByStatus(t *testing.T) {
	env := newTestEnv(t)
	admin := requestOpts{token: token(t, 1, utils.RoleAdmin)}
	pending := env.seed(t, model.Comment{Ref: "content", RefID: 7, Title: "a", Content: "a", Status: model.CommentPending})
	env.seed(t, model.Comment{Ref: "content", RefID: 7, Title: "b", Content: "b", Status: model.CommentAccepted})

	w := env.do(t, http.MethodGet, "/admin/module/comment/search?status=0", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var data dto.SearchCommentData
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	require.Len(t, data.Comments, 1)
	assert.Equal(t, pending, data.Comments[0].ID)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/admin/module/comment/search?status=7", nil, admin).Code)
}

func TestAdmin_ConfigurationRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	admin := requestOpts{token: token(t, 1, utils.RoleAdmin)}

	w := env.do(t, http.MethodPost, "/admin/module/comment/configuration", map[string]interface{}{
		"activated":            true,
		"moderate":             false,
		"ref_allowed":          []string{"content"},
		"request_customer_ttl": 30,
	}, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/admin/module/comment/configuration", nil, admin)
	var cfg service.ModuleConfig
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &cfg))
	assert.False(t, cfg.Moderate)
	assert.Equal(t, []string{"content"}, cfg.RefAllowed)
	assert.Equal(t, 30, cfg.RequestCustomerTTL)

	w = env.do(t, http.MethodPost, "/admin/module/comment/configuration", map[string]interface{}{"request_customer_ttl": -1}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_RequestCustomerIsPublic(t *testing.T) {
	env := newTestEnv(t)
	env.purchases.due = []model.Purchase{
		{ID: 1, CustomerID: 5, ProductID: 9, OrderedAt: time.Now().AddDate(0, 0, -30)},
		{ID: 2, CustomerID: 6, ProductID: 9, OrderedAt: time.Now()},
	}

	w := env.do(t, http.MethodPost, "/admin/module/comment/request-customer", nil, requestOpts{})
	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		Sent int `json:"sent"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &result))
	assert.Equal(t, 1, result.Sent)
	assert.Contains(t, env.purchases.reminded, int64(1))
}
