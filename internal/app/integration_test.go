package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dchukwu/shoplane-backend/internal/app/controller"
	"github.com/dchukwu/shoplane-backend/internal/app/model"
	"github.com/dchukwu/shoplane-backend/internal/app/repository"
	"github.com/dchukwu/shoplane-backend/internal/app/service"
	"github.com/dchukwu/shoplane-backend/internal/db"
	"github.com/dchukwu/shoplane-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type TestServer struct {
	Router      *gin.Engine
	DB          *gorm.DB
	AuthService service.AuthService
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)

	authService := service.NewAuthService(userRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	cartService := service.NewCartService(cartRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, testDB)

	authController := controller.NewAuthController(authService)
	categoryController := controller.NewCategoryController(categoryService)
	productController := controller.NewProductController(productService)
	reviewController := controller.NewReviewController(reviewService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)

	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.Authenticate(), authController.GetMe)
	}

	categories := router.Group("/api/v1/categories")
	{
		categories.GET("", categoryController.ListCategories)
		categories.POST("", authMiddleware.Authenticate(), authMiddleware.RequireRole("admin"), categoryController.CreateCategory)
	}

	products := router.Group("/api/v1/products")
	{
		products.GET("", productController.GetAllProducts)
		products.GET("/:id", productController.GetProductByID)
		products.POST("", authMiddleware.Authenticate(), authMiddleware.RequireRole("admin"), productController.CreateProduct)
		products.GET("/:id/reviews", reviewController.ListProductReviews)
		products.POST("/:id/reviews", authMiddleware.Authenticate(), reviewController.CreateReview)
	}

	reviews := router.Group("/api/v1/reviews")
	reviews.Use(authMiddleware.Authenticate())
	{
		reviews.PUT("/:id", reviewController.UpdateReview)
		reviews.DELETE("/:id", reviewController.DeleteReview)
	}

	carts := router.Group("/api/v1/carts")
	{
		carts.POST("", cartController.CreateCart)
		carts.GET("/:id", cartController.GetCart)
		carts.POST("/:id/items", cartController.AddItem)
	}

	orders := router.Group("/api/v1/orders")
	orders.Use(authMiddleware.Authenticate())
	{
		orders.POST("/checkout", orderController.Checkout)
		orders.GET("", orderController.GetOrders)
		orders.GET("/:id", orderController.GetOrderByID)
		orders.GET("/:id/items", orderController.GetOrderItems)
	}

	return &TestServer{
		Router:      router,
		DB:          testDB,
		AuthService: authService,
	}
}

func (ts *TestServer) request(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func (ts *TestServer) registerUser(t *testing.T, email string) string {
	t.Helper()
	_, tokens, err := ts.AuthService.Register(email, "user", "password123")
	require.NoError(t, err)
	return tokens.AccessToken
}

func (ts *TestServer) registerAdmin(t *testing.T, email string) string {
	t.Helper()
	user, _, err := ts.AuthService.Register(email, "admin", "password123")
	require.NoError(t, err)
	require.NoError(t, ts.DB.Model(&model.User{}).Where("id = ?", user.ID).Update("role", model.RoleAdmin).Error)

	// Re-login so the token carries the admin role
	_, tokens, err := ts.AuthService.Login(email, "password123")
	require.NoError(t, err)
	return tokens.AccessToken
}

func TestIntegration_CatalogPermissions(t *testing.T) {
	ts := setupIntegrationTest(t)

	userToken := ts.registerUser(t, "user@example.com")
	adminToken := ts.registerAdmin(t, "admin@example.com")

	payload := controller.CreateProductRequest{Name: "Bluetooth Speaker", OldPrice: 120, Discount: true}

	// Anonymous and regular users cannot write the catalog
	w := ts.request(t, "POST", "/api/v1/products", "", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.request(t, "POST", "/api/v1/products", userToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admins can
	w = ts.request(t, "POST", "/api/v1/products", adminToken, payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	// The derived price reflects the discount
	assert.Contains(t, w.Body.String(), `"price":84`)
	assert.Contains(t, w.Body.String(), `"slug":"bluetooth-speaker"`)

	// Anyone can read
	w = ts.request(t, "GET", "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bluetooth Speaker")
}

func TestIntegration_ReviewAuthorRule(t *testing.T) {
	ts := setupIntegrationTest(t)

	authorToken := ts.registerUser(t, "author@example.com")
	_, otherTokens, err := ts.AuthService.Register("other@example.com", "other", "password123")
	require.NoError(t, err)

	product := model.Product{Name: "Coffee Grinder", OldPrice: 45}
	require.NoError(t, ts.DB.Create(&product).Error)

	// Anonymous users cannot post reviews
	w := ts.request(t, "POST", fmt.Sprintf("/api/v1/products/%s/reviews", product.ID), "", controller.ReviewRequest{Content: "nice"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.request(t, "POST", fmt.Sprintf("/api/v1/products/%s/reviews", product.ID), authorToken, controller.ReviewRequest{Content: "Grinds evenly."})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Review struct {
			ID uint `json:"id"`
		} `json:"review"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Only the author may edit
	w = ts.request(t, "PUT", fmt.Sprintf("/api/v1/reviews/%d", created.Review.ID), otherTokens.AccessToken, controller.ReviewRequest{Content: "hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.request(t, "PUT", fmt.Sprintf("/api/v1/reviews/%d", created.Review.ID), authorToken, controller.ReviewRequest{Content: "Still grinding well."})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIntegration_CartToOrderFlow(t *testing.T) {
	ts := setupIntegrationTest(t)

	token := ts.registerUser(t, "shopper@example.com")

	product := model.Product{Name: "Water Bottle", OldPrice: 20, Discount: true}
	require.NoError(t, ts.DB.Create(&product).Error)

	// Open an anonymous cart
	w := ts.request(t, "POST", "/api/v1/carts", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var cartResp struct {
		Cart struct {
			ID string `json:"id"`
		} `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cartResp))

	// Fill it
	w = ts.request(t, "POST", fmt.Sprintf("/api/v1/carts/%s/items", cartResp.Cart.ID), "", controller.AddCartItemRequest{
		ProductID: product.ID.String(),
		Quantity:  3,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Checkout requires a login
	w = ts.request(t, "POST", "/api/v1/orders/checkout", "", controller.CheckoutRequest{CartID: cartResp.Cart.ID})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.request(t, "POST", "/api/v1/orders/checkout", token, controller.CheckoutRequest{
		CartID:          cartResp.Cart.ID,
		ShippingAddress: "4 Broad Street, Lagos",
		PaymentMethod:   "card",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"PENDING"`)
	assert.Contains(t, w.Body.String(), `"unit_price":14`)

	var orderResp struct {
		Order struct {
			ID string `json:"id"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orderResp))

	// The order's item lines are listed on their own endpoint
	w = ts.request(t, "GET", fmt.Sprintf("/api/v1/orders/%s/items", orderResp.Order.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
	assert.Contains(t, w.Body.String(), `"quantity":3`)

	// Another user cannot read them
	otherToken := ts.registerUser(t, "stranger@example.com")
	w = ts.request(t, "GET", fmt.Sprintf("/api/v1/orders/%s/items", orderResp.Order.ID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The cart was consumed by the checkout
	w = ts.request(t, "GET", "/api/v1/carts/"+cartResp.Cart.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// A second checkout of the same cart cannot produce another order
	w = ts.request(t, "POST", "/api/v1/orders/checkout", token, controller.CheckoutRequest{CartID: cartResp.Cart.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.request(t, "GET", "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	// The stranger has no orders of their own
	w = ts.request(t, "GET", "/api/v1/orders", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)

	// Admins see every order without any extra parameter
	adminToken := ts.registerAdmin(t, "ops@example.com")
	w = ts.request(t, "GET", "/api/v1/orders", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}
