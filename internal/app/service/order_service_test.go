package service

import (
	"context"
	"testing"
	"time"

	"github.com/minhngo/birdnest-backend/config"
	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/repository"
	"github.com/minhngo/birdnest-backend/internal/db"
	"github.com/minhngo/birdnest-backend/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderServiceFixture struct {
	orderService OrderService
	checkoutRepo *memoryCheckoutRepository
	db           *gorm.DB
	user         *model.User
	product      *model.Product
}

func setupOrderServiceTest(t *testing.T) *orderServiceFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	checkoutRepo := newMemoryCheckoutRepository()
	settingSvc := NewSettingService(repository.NewSettingRepository(testDB))
	notificationSvc := NewNotificationService(repository.NewNotificationRepository(testDB), nil)
	producer := events.NewProducer(&config.KafkaConfig{})

	orderService := NewOrderService(
		orderRepo,
		productRepo,
		cartRepo,
		checkoutRepo,
		settingSvc,
		notificationSvc,
		producer,
		testDB,
	)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Nguyễn Văn An",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:          "Yến sào tinh chế 100g",
		Slug:          "yen-sao-tinh-che-100g",
		Price:         200000,
		StockQuantity: 10,
		IsActive:      true,
	}
	testDB.Create(product)

	return &orderServiceFixture{
		orderService: orderService,
		checkoutRepo: checkoutRepo,
		db:           testDB,
		user:         user,
		product:      product,
	}
}

func (f *orderServiceFixture) orderRequest(quantity int, deliveryFee float64) CreateOrderRequest {
	return CreateOrderRequest{
		Info:          validCheckoutInfo(),
		Items:         []CheckoutItem{{ProductID: f.product.ID, Quantity: quantity}},
		DeliveryFee:   deliveryFee,
		PaymentMethod: "cod",
	}
}

func TestOrderService_CreateOrder_Success(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	order, err := f.orderService.CreateOrder(ctx, &f.user.ID, f.orderRequest(2, 30000))
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, float64(400000), order.Subtotal)
	assert.Equal(t, float64(30000), order.DeliveryFee)
	assert.Equal(t, float64(430000), order.Total)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentMethodCOD, order.PaymentMethod)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, float64(200000), order.OrderItems[0].Price)
	assert.Contains(t, order.ShippingAddress, "Nguyễn Văn An")
	assert.Contains(t, order.ShippingAddress, "Thành phố Hà Nội")

	// Stock decremented, sold count incremented
	var product model.Product
	require.NoError(t, f.db.First(&product, f.product.ID).Error)
	assert.Equal(t, 8, product.StockQuantity)
	assert.Equal(t, 2, product.SoldCount)
}

func TestOrderService_CreateOrder_FreeShipping(t *testing.T) {
	f := setupOrderServiceTest(t)

	// 3 x 200.000 = 600.000 vượt ngưỡng miễn phí vận chuyển
	order, err := f.orderService.CreateOrder(context.Background(), &f.user.ID, f.orderRequest(3, 0))
	require.NoError(t, err)
	assert.Equal(t, float64(0), order.DeliveryFee)
	assert.Equal(t, float64(600000), order.Total)
}

func TestOrderService_CreateOrder_Guest(t *testing.T) {
	f := setupOrderServiceTest(t)

	order, err := f.orderService.CreateOrder(context.Background(), nil, f.orderRequest(1, 30000))
	require.NoError(t, err)

	assert.Nil(t, order.UserID)
	assert.Equal(t, "Nguyễn Văn An", order.GuestName)
	assert.Equal(t, "an@example.com", order.GuestEmail)
	assert.Equal(t, "0912345678", order.GuestPhone)
}

func TestOrderService_CreateOrder_ClearsCart(t *testing.T) {
	f := setupOrderServiceTest(t)

	cartItem := &model.CartItem{UserID: f.user.ID, ProductID: f.product.ID, Quantity: 2}
	require.NoError(t, f.db.Create(cartItem).Error)

	_, err := f.orderService.CreateOrder(context.Background(), &f.user.ID, f.orderRequest(2, 30000))
	require.NoError(t, err)

	var count int64
	f.db.Model(&model.CartItem{}).Where("user_id = ?", f.user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestOrderService_CreateOrder_ConsumesCheckoutDraft(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	draft := &repository.CheckoutDraft{Token: "draft-token"}
	require.NoError(t, f.checkoutRepo.SaveDraft(ctx, draft, time.Minute))

	req := f.orderRequest(1, 30000)
	req.CheckoutToken = draft.Token
	_, err := f.orderService.CreateOrder(ctx, &f.user.ID, req)
	require.NoError(t, err)

	_, err = f.checkoutRepo.GetDraft(ctx, draft.Token)
	assert.ErrorIs(t, err, repository.ErrDraftNotFound)
}

func TestOrderService_CreateOrder_EmptyItems(t *testing.T) {
	f := setupOrderServiceTest(t)

	req := f.orderRequest(1, 30000)
	req.Items = nil
	_, err := f.orderService.CreateOrder(context.Background(), &f.user.ID, req)
	assert.ErrorIs(t, err, ErrCheckoutEmptyCart)
}

func TestOrderService_CreateOrder_InvalidInfo(t *testing.T) {
	f := setupOrderServiceTest(t)

	req := f.orderRequest(1, 30000)
	req.Info.Phone = "12345"
	_, err := f.orderService.CreateOrder(context.Background(), &f.user.ID, req)

	var vErr *CheckoutValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "phone")
}

func TestOrderService_CreateOrder_InvalidPaymentMethod(t *testing.T) {
	f := setupOrderServiceTest(t)

	req := f.orderRequest(1, 30000)
	req.PaymentMethod = "paypal"
	_, err := f.orderService.CreateOrder(context.Background(), &f.user.ID, req)
	assert.ErrorIs(t, err, ErrPaymentMethodInvalid)
}

func TestOrderService_CreateOrder_ProductNotFound(t *testing.T) {
	f := setupOrderServiceTest(t)

	req := f.orderRequest(1, 30000)
	req.Items = []CheckoutItem{{ProductID: 9999, Quantity: 1}}
	_, err := f.orderService.CreateOrder(context.Background(), &f.user.ID, req)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestOrderService_CreateOrder_InsufficientStock(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.orderService.CreateOrder(context.Background(), &f.user.ID, f.orderRequest(100, 30000))
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Stock untouched after rollback
	var product model.Product
	require.NoError(t, f.db.First(&product, f.product.ID).Error)
	assert.Equal(t, 10, product.StockQuantity)
}

func TestOrderService_CreateOrder_DeliveryFeeMismatch(t *testing.T) {
	f := setupOrderServiceTest(t)

	// Client gửi phí 0 trong khi đơn dưới ngưỡng miễn phí
	_, err := f.orderService.CreateOrder(context.Background(), &f.user.ID, f.orderRequest(1, 0))
	assert.ErrorIs(t, err, ErrOrderTotalMismatch)

	// Stock untouched after rollback
	var product model.Product
	require.NoError(t, f.db.First(&product, f.product.ID).Error)
	assert.Equal(t, 10, product.StockQuantity)
}

func TestOrderService_CreateOrder_Idempotency(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	req := f.orderRequest(2, 30000)
	req.RequestID = "req-abc-123"

	first, err := f.orderService.CreateOrder(ctx, &f.user.ID, req)
	require.NoError(t, err)

	// Gửi lại cùng request_id: trả về đơn cũ, không trừ kho lần nữa
	second, err := f.orderService.CreateOrder(ctx, &f.user.ID, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var product model.Product
	require.NoError(t, f.db.First(&product, f.product.ID).Error)
	assert.Equal(t, 8, product.StockQuantity)

	var count int64
	f.db.Model(&model.Order{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestOrderService_GetUserOrders(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	_, err := f.orderService.CreateOrder(ctx, &f.user.ID, f.orderRequest(1, 30000))
	require.NoError(t, err)
	_, err = f.orderService.CreateOrder(ctx, &f.user.ID, f.orderRequest(2, 30000))
	require.NoError(t, err)

	orders, err := f.orderService.GetUserOrders(f.user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = f.orderService.GetUserOrders(9999)
	require.NoError(t, err)
	assert.Len(t, orders, 0)
}

func TestOrderService_GetOrderByID_Ownership(t *testing.T) {
	f := setupOrderServiceTest(t)

	order, err := f.orderService.CreateOrder(context.Background(), &f.user.ID, f.orderRequest(1, 30000))
	require.NoError(t, err)

	// Owner can read
	found, err := f.orderService.GetOrderByID(order.ID, &f.user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	// Another user cannot
	otherID := f.user.ID + 1
	_, err = f.orderService.GetOrderByID(order.ID, &otherID, false)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// Admin can
	_, err = f.orderService.GetOrderByID(order.ID, nil, true)
	assert.NoError(t, err)

	// Unknown order
	_, err = f.orderService.GetOrderByID(9999, &f.user.ID, false)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_GetOrderByID_GuestOrderHiddenFromUsers(t *testing.T) {
	f := setupOrderServiceTest(t)

	order, err := f.orderService.CreateOrder(context.Background(), nil, f.orderRequest(1, 30000))
	require.NoError(t, err)

	_, err = f.orderService.GetOrderByID(order.ID, &f.user.ID, false)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = f.orderService.GetOrderByID(order.ID, nil, true)
	assert.NoError(t, err)
}

func TestOrderService_ListOrders(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	first, err := f.orderService.CreateOrder(ctx, &f.user.ID, f.orderRequest(1, 30000))
	require.NoError(t, err)
	_, err = f.orderService.CreateOrder(ctx, nil, f.orderRequest(1, 30000))
	require.NoError(t, err)

	_, err = f.orderService.UpdateOrderStatus(ctx, first.ID, model.OrderStatusPaid)
	require.NoError(t, err)

	orders, total, err := f.orderService.ListOrders("", 1, 20)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, int64(2), total)

	orders, total, err = f.orderService.ListOrders("PAID", 1, 20)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, int64(1), total)

	_, _, err = f.orderService.ListOrders("UNKNOWN", 1, 20)
	assert.ErrorIs(t, err, ErrOrderInvalidStatus)
}

func TestOrderService_UpdateOrderStatus_Transitions(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	order, err := f.orderService.CreateOrder(ctx, &f.user.ID, f.orderRequest(1, 30000))
	require.NoError(t, err)

	// PENDING → PAID ghi lại thời điểm thanh toán
	updated, err := f.orderService.UpdateOrderStatus(ctx, order.ID, model.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, updated.Status)
	require.NotNil(t, updated.PaidAt)

	// PAID → PENDING là đi lùi, không cho phép
	_, err = f.orderService.UpdateOrderStatus(ctx, order.ID, model.OrderStatusPending)
	assert.ErrorIs(t, err, ErrOrderInvalidStatus)

	// PAID → SHIPPED → DELIVERED
	_, err = f.orderService.UpdateOrderStatus(ctx, order.ID, model.OrderStatusShipped)
	require.NoError(t, err)
	_, err = f.orderService.UpdateOrderStatus(ctx, order.ID, model.OrderStatusDelivered)
	require.NoError(t, err)

	// DELIVERED là trạng thái cuối
	_, err = f.orderService.UpdateOrderStatus(ctx, order.ID, model.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrOrderInvalidStatus)
}

func TestOrderService_UpdateOrderStatus_SameStatusIsNoop(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	order, err := f.orderService.CreateOrder(ctx, &f.user.ID, f.orderRequest(1, 30000))
	require.NoError(t, err)

	updated, err := f.orderService.UpdateOrderStatus(ctx, order.ID, model.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, updated.Status)
}

func TestOrderService_UpdateOrderStatus_InvalidInput(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	_, err := f.orderService.UpdateOrderStatus(ctx, 9999, model.OrderStatusPaid)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	order, err := f.orderService.CreateOrder(ctx, &f.user.ID, f.orderRequest(1, 30000))
	require.NoError(t, err)

	_, err = f.orderService.UpdateOrderStatus(ctx, order.ID, model.OrderStatus("UNKNOWN"))
	assert.ErrorIs(t, err, ErrOrderInvalidStatus)
}

func TestOrderService_UpdateOrderStatus_CancelRestocks(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	order, err := f.orderService.CreateOrder(ctx, &f.user.ID, f.orderRequest(3, 30000))
	require.NoError(t, err)

	var product model.Product
	require.NoError(t, f.db.First(&product, f.product.ID).Error)
	require.Equal(t, 7, product.StockQuantity)

	_, err = f.orderService.UpdateOrderStatus(ctx, order.ID, model.OrderStatusCancelled)
	require.NoError(t, err)

	require.NoError(t, f.db.First(&product, f.product.ID).Error)
	assert.Equal(t, 10, product.StockQuantity)

	// CANCELLED là trạng thái cuối: không thể huỷ lần hai để trả kho lần nữa
	_, err = f.orderService.UpdateOrderStatus(ctx, order.ID, model.OrderStatusCancelled)
	require.NoError(t, err) // cùng trạng thái là no-op

	require.NoError(t, f.db.First(&product, f.product.ID).Error)
	assert.Equal(t, 10, product.StockQuantity)
}

func TestOrderService_SearchGuestOrders(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	_, err := f.orderService.CreateOrder(ctx, nil, f.orderRequest(1, 30000))
	require.NoError(t, err)
	_, err = f.orderService.CreateOrder(ctx, &f.user.ID, f.orderRequest(1, 30000))
	require.NoError(t, err)

	// By guest email
	orders, err := f.orderService.SearchGuestOrders("an@example.com")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	// By guest phone
	orders, err = f.orderService.SearchGuestOrders("0912345678")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	// Blank query returns nothing
	orders, err = f.orderService.SearchGuestOrders("   ")
	require.NoError(t, err)
	assert.Len(t, orders, 0)

	// No match
	orders, err = f.orderService.SearchGuestOrders("khong@co.vn")
	require.NoError(t, err)
	assert.Len(t, orders, 0)
}

func TestOrderService_CancelExpiredOrders(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	// Đơn chuyển khoản quá hạn
	bankReq := f.orderRequest(2, 30000)
	bankReq.PaymentMethod = "bank"
	expired, err := f.orderService.CreateOrder(ctx, &f.user.ID, bankReq)
	require.NoError(t, err)

	// Đơn COD quá hạn: không bị huỷ vì thanh toán khi nhận hàng
	codOrder, err := f.orderService.CreateOrder(ctx, &f.user.ID, f.orderRequest(1, 30000))
	require.NoError(t, err)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, f.db.Model(&model.Order{}).
		Where("id IN ?", []uint{expired.ID, codOrder.ID}).
		Update("created_at", old).Error)

	cancelled, err := f.orderService.CancelExpiredOrders(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)

	var reloaded model.Order
	require.NoError(t, f.db.First(&reloaded, expired.ID).Error)
	assert.Equal(t, model.OrderStatusCancelled, reloaded.Status)

	require.NoError(t, f.db.First(&reloaded, codOrder.ID).Error)
	assert.Equal(t, model.OrderStatusPending, reloaded.Status)

	// Hàng của đơn bị huỷ được trả về kho
	var product model.Product
	require.NoError(t, f.db.First(&product, f.product.ID).Error)
	assert.Equal(t, 9, product.StockQuantity)
}

func TestOrderService_GetDashboardStats(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	order, err := f.orderService.CreateOrder(ctx, &f.user.ID, f.orderRequest(2, 30000))
	require.NoError(t, err)
	_, err = f.orderService.UpdateOrderStatus(ctx, order.ID, model.OrderStatusPaid)
	require.NoError(t, err)

	stats, err := f.orderService.GetDashboardStats()
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats["total_orders"])
	assert.Equal(t, int64(1), stats["paid_orders"])
	assert.Equal(t, float64(430000), stats["total_revenue"])
	assert.Equal(t, int64(1), stats["total_products"])
	assert.Equal(t, int64(1), stats["total_users"])
}
