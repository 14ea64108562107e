package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minhngo/birdnest-backend/internal/app/model"
	"github.com/minhngo/birdnest-backend/internal/app/repository"
	"github.com/minhngo/birdnest-backend/internal/app/service"
	"github.com/minhngo/birdnest-backend/internal/db"
	"github.com/minhngo/birdnest-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutControllerFixture struct {
	router  *gin.Engine
	product *model.Product
}

func setupCheckoutControllerTest(t *testing.T) *checkoutControllerFixture {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	product := &model.Product{
		Name:          "Yến sào tinh chế 100g",
		Slug:          "yen-sao-tinh-che-100g",
		Price:         200000,
		StockQuantity: 10,
		IsActive:      true,
	}
	require.NoError(t, testDB.Create(product).Error)

	checkoutService := service.NewCheckoutService(
		newStubCheckoutRepository(),
		repository.NewProductRepository(testDB),
		repository.NewAddressRepository(testDB),
		service.NewSettingService(repository.NewSettingRepository(testDB)),
		30*time.Minute,
	)

	ctrl := NewCheckoutController(checkoutService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()
	checkout := router.Group("/checkout")
	{
		checkout.POST("", authMiddleware.OptionalAuthenticate(), ctrl.CreateCheckout)
		checkout.GET("/:token", ctrl.GetCheckout)
	}

	return &checkoutControllerFixture{router: router, product: product}
}

func (f *checkoutControllerFixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *checkoutControllerFixture) checkoutBody(quantity int) CreateCheckoutRequest {
	return CreateCheckoutRequest{
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
	}
}

func TestCheckoutController_CreateCheckout(t *testing.T) {
	f := setupCheckoutControllerTest(t)

	w := f.do("POST", "/checkout", f.checkoutBody(2))

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotEmpty(t, response["token"])
	assert.Equal(t, float64(400000), response["subtotal"])
	assert.Equal(t, float64(30000), response["delivery_fee"])
	assert.Equal(t, float64(430000), response["total"])
}

func TestCheckoutController_CreateCheckout_EmptyCart(t *testing.T) {
	f := setupCheckoutControllerTest(t)

	body := f.checkoutBody(1)
	body.Items = nil
	w := f.do("POST", "/checkout", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CHECKOUT_EMPTY_CART")
	assert.Contains(t, w.Body.String(), "Giỏ hàng trống")
}

func TestCheckoutController_CreateCheckout_InvalidBody(t *testing.T) {
	f := setupCheckoutControllerTest(t)

	w := f.do("POST", "/checkout", map[string]interface{}{"items": "khong-phai-mang"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CHECKOUT_INVALID_INFO")
}

func TestCheckoutController_GetCheckout(t *testing.T) {
	f := setupCheckoutControllerTest(t)

	w := f.do("POST", "/checkout", f.checkoutBody(1))
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	token := created["token"].(string)

	w = f.do("GET", "/checkout/"+token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	checkout := response["checkout"].(map[string]interface{})
	items := checkout["items"].([]interface{})
	require.Len(t, items, 1)
}

func TestCheckoutController_GetCheckout_NotFound(t *testing.T) {
	f := setupCheckoutControllerTest(t)

	w := f.do("GET", "/checkout/phien-khong-ton-tai", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CHECKOUT_DRAFT_NOT_FOUND")
	assert.Contains(t, w.Body.String(), "Phiên đặt hàng không tồn tại hoặc đã hết hạn")
}
