package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minhngo/birdnest-backend/config"
	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/repository"
	"github.com/minhngo/birdnest-backend/internal/app/service"
	"github.com/minhngo/birdnest-backend/internal/db"
	"github.com/minhngo/birdnest-backend/internal/middleware"
	"github.com/minhngo/birdnest-backend/pkg/events"
	"github.com/minhngo/birdnest-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubCheckoutRepository thay Redis trong test, lưu phiên checkout trong bộ nhớ
type stubCheckoutRepository struct {
	mu     sync.Mutex
	drafts map[string]*repository.CheckoutDraft
}

func newStubCheckoutRepository() *stubCheckoutRepository {
	return &stubCheckoutRepository{drafts: make(map[string]*repository.CheckoutDraft)}
}

func (s *stubCheckoutRepository) SaveDraft(_ context.Context, draft *repository.CheckoutDraft, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.Token] = draft
	return nil
}

func (s *stubCheckoutRepository) GetDraft(_ context.Context, token string) (*repository.CheckoutDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[token]
	if !ok {
		return nil, repository.ErrDraftNotFound
	}
	return draft, nil
}

func (s *stubCheckoutRepository) DeleteDraft(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, token)
	return nil
}

type orderControllerFixture struct {
	router     *gin.Engine
	db         *gorm.DB
	user       *model.User
	userToken  string
	adminToken string
	product    *model.Product
}

func setupOrderControllerTest(t *testing.T) *orderControllerFixture {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{
		Email:        "an@example.com",
		PasswordHash: "hashedpassword",
		Name:         "Nguyễn Văn An",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	admin := &model.User{
		Email:        "admin@example.com",
		PasswordHash: "hashedpassword",
		Name:         "Quản trị viên",
		Role:         model.RoleAdmin,
	}
	require.NoError(t, testDB.Create(admin).Error)

	product := &model.Product{
		Name:          "Yến sào tinh chế 100g",
		Slug:          "yen-sao-tinh-che-100g",
		Price:         200000,
		StockQuantity: 10,
		IsActive:      true,
	}
	require.NoError(t, testDB.Create(product).Error)

	userTokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role), "test-secret", 15*time.Minute, time.Hour)
	require.NoError(t, err)
	adminTokens, err := util.GenerateTokenPair(admin.ID, admin.Email, string(admin.Role), "test-secret", 15*time.Minute, time.Hour)
	require.NoError(t, err)

	settingSvc := service.NewSettingService(repository.NewSettingRepository(testDB))
	notificationSvc := service.NewNotificationService(repository.NewNotificationRepository(testDB), nil)
	producer := events.NewProducer(&config.KafkaConfig{})

	orderService := service.NewOrderService(
		repository.NewOrderRepository(testDB),
		repository.NewProductRepository(testDB),
		repository.NewCartRepository(testDB),
		newStubCheckoutRepository(),
		settingSvc,
		notificationSvc,
		producer,
		testDB,
	)

	ctrl := NewOrderController(orderService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()
	orders := router.Group("/orders")
	{
		orders.POST("", authMiddleware.Authenticate(), ctrl.CreateOrder)
		orders.GET("", authMiddleware.Authenticate(), ctrl.GetMyOrders)
		orders.POST("/guest", authMiddleware.OptionalAuthenticate(), ctrl.CreateGuestOrder)
		orders.POST("/guest/search", ctrl.SearchGuestOrders)
		orders.GET("/:id", authMiddleware.Authenticate(), ctrl.GetOrder)
	}
	admin_ := router.Group("/admin")
	admin_.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole("admin"))
	{
		admin_.GET("/dashboard", ctrl.GetDashboardStats)
		admin_.GET("/orders", ctrl.ListOrders)
		admin_.PUT("/orders/:id/status", ctrl.UpdateOrderStatus)
	}

	return &orderControllerFixture{
		router:     router,
		db:         testDB,
		user:       user,
		userToken:  userTokens.AccessToken,
		adminToken: adminTokens.AccessToken,
		product:    product,
	}
}

func (f *orderControllerFixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *orderControllerFixture) orderBody(quantity int, deliveryFee float64) CreateOrderBody {
	return CreateOrderBody{
		Info: CheckoutInfoRequest{
			FullName:     "Nguyễn Văn An",
			Phone:        "0912345678",
			Email:        "an@example.com",
			ProvinceCode: "01",
			DistrictCode: "001",
			WardCode:     "00001",
			Address:      "12 Phố Phúc Xá",
		},
		Items: []CheckoutItemRequest{
			{ProductID: f.product.ID, Quantity: quantity},
		},
		DeliveryFee:   deliveryFee,
		PaymentMethod: "cod",
	}
}

func TestOrderController_CreateOrder(t *testing.T) {
	f := setupOrderControllerTest(t)

	w := f.do("POST", "/orders", f.userToken, f.orderBody(2, 30000))

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Đặt hàng thành công", response["message"])

	order := response["order"].(map[string]interface{})
	assert.Equal(t, float64(430000), order["total"])
	assert.Equal(t, "PENDING", order["status"])
	assert.Equal(t, "COD", order["payment_method"])
}

func TestOrderController_CreateOrder_Unauthorized(t *testing.T) {
	f := setupOrderControllerTest(t)

	w := f.do("POST", "/orders", "", f.orderBody(1, 30000))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderController_CreateOrder_Errors(t *testing.T) {
	f := setupOrderControllerTest(t)

	t.Run("Invalid payment method", func(t *testing.T) {
		body := f.orderBody(1, 30000)
		body.PaymentMethod = "paypal"
		w := f.do("POST", "/orders", f.userToken, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "PAYMENT_METHOD_INVALID")
		assert.Contains(t, w.Body.String(), "Phương thức thanh toán không hợp lệ")
	})

	t.Run("Invalid phone", func(t *testing.T) {
		body := f.orderBody(1, 30000)
		body.Info.Phone = "12345"
		w := f.do("POST", "/orders", f.userToken, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "phone")
	})

	t.Run("Unknown product", func(t *testing.T) {
		body := f.orderBody(1, 30000)
		body.Items[0].ProductID = 9999
		w := f.do("POST", "/orders", f.userToken, body)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Insufficient stock", func(t *testing.T) {
		body := f.orderBody(100, 0)
		w := f.do("POST", "/orders", f.userToken, body)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Delivery fee mismatch", func(t *testing.T) {
		// 1 x 200000 dưới ngưỡng miễn phí nên phí phải là 30000
		body := f.orderBody(1, 0)
		w := f.do("POST", "/orders", f.userToken, body)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "ORDER_TOTAL_MISMATCH")
		assert.Contains(t, w.Body.String(), "Tổng tiền đơn hàng không khớp")
	})

	t.Run("Missing items", func(t *testing.T) {
		body := f.orderBody(1, 30000)
		body.Items = nil
		w := f.do("POST", "/orders", f.userToken, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderController_CreateGuestOrder(t *testing.T) {
	f := setupOrderControllerTest(t)

	w := f.do("POST", "/orders/guest", "", f.orderBody(1, 30000))

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	order := response["order"].(map[string]interface{})
	assert.Nil(t, order["user_id"])
	assert.Equal(t, "Nguyễn Văn An", order["guest_name"])
}

func TestOrderController_GetMyOrders(t *testing.T) {
	f := setupOrderControllerTest(t)

	w := f.do("POST", "/orders", f.userToken, f.orderBody(1, 30000))
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do("GET", "/orders", f.userToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	orders := response["orders"].([]interface{})
	assert.Len(t, orders, 1)
}

func TestOrderController_GetOrder(t *testing.T) {
	f := setupOrderControllerTest(t)

	w := f.do("POST", "/orders", f.userToken, f.orderBody(1, 30000))
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	orderID := created["order"].(map[string]interface{})["id"].(float64)

	t.Run("Owner can view", func(t *testing.T) {
		w := f.do("GET", fmt.Sprintf("/orders/%.0f", orderID), f.userToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Admin can view", func(t *testing.T) {
		w := f.do("GET", fmt.Sprintf("/orders/%.0f", orderID), f.adminToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Not found", func(t *testing.T) {
		w := f.do("GET", "/orders/9999", f.userToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		w := f.do("GET", "/orders/abc", f.userToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderController_SearchGuestOrders(t *testing.T) {
	f := setupOrderControllerTest(t)

	w := f.do("POST", "/orders/guest", "", f.orderBody(1, 30000))
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("By phone", func(t *testing.T) {
		w := f.do("POST", "/orders/guest/search", "", GuestOrderSearchRequest{Query: "0912345678"})
		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response["orders"].([]interface{}), 1)
	})

	t.Run("No match", func(t *testing.T) {
		w := f.do("POST", "/orders/guest/search", "", GuestOrderSearchRequest{Query: "0900000000"})
		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Empty(t, response["orders"])
	})

	t.Run("Missing query", func(t *testing.T) {
		w := f.do("POST", "/orders/guest/search", "", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderController_AdminEndpoints(t *testing.T) {
	f := setupOrderControllerTest(t)

	w := f.do("POST", "/orders", f.userToken, f.orderBody(1, 30000))
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	orderID := created["order"].(map[string]interface{})["id"].(float64)

	t.Run("Regular user forbidden", func(t *testing.T) {
		w := f.do("GET", "/admin/orders", f.userToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("List orders", func(t *testing.T) {
		w := f.do("GET", "/admin/orders?status=pending", f.adminToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, float64(1), response["total"])
	})

	t.Run("List orders invalid status", func(t *testing.T) {
		w := f.do("GET", "/admin/orders?status=UNKNOWN", f.adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Update order status", func(t *testing.T) {
		w := f.do("PUT", fmt.Sprintf("/admin/orders/%.0f/status", orderID), f.adminToken,
			UpdateOrderStatusRequest{Status: "paid"})
		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		order := response["order"].(map[string]interface{})
		assert.Equal(t, "PAID", order["status"])
		assert.NotNil(t, order["paid_at"])
	})

	t.Run("Invalid transition", func(t *testing.T) {
		w := f.do("PUT", fmt.Sprintf("/admin/orders/%.0f/status", orderID), f.adminToken,
			UpdateOrderStatusRequest{Status: "PENDING"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Dashboard stats", func(t *testing.T) {
		w := f.do("GET", "/admin/dashboard", f.adminToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		stats := response["stats"].(map[string]interface{})
		assert.Equal(t, float64(1), stats["total_orders"])
		assert.Equal(t, float64(1), stats["paid_orders"])
	})
}
