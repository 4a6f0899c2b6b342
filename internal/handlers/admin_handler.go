package handlers

import (
	"errors"
	"net/http"

	"lpg_assistant/internal/services"
	"lpg_assistant/pkg/phone"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler serves the JSON API the dashboard consumes.
type AdminHandler struct {
	customerService services.CustomerService
	orderService    services.OrderService
	pricingService  services.PricingService
	summaryService  services.CallSummaryService
	adminService    services.AdminService
}

func NewAdminHandler(
	customerService services.CustomerService,
	orderService services.OrderService,
	pricingService services.PricingService,
	summaryService services.CallSummaryService,
	adminService services.AdminService,
) *AdminHandler {
	return &AdminHandler{
		customerService: customerService,
		orderService:    orderService,
		pricingService:  pricingService,
		summaryService:  summaryService,
		adminService:    adminService,
	}
}

func (h *AdminHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Customers

func (h *AdminHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customerService.GetAllCustomers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load customers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (h *AdminHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customerService.GetCustomerByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load customer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

type UpdateCustomerRequest struct {
	Name    string   `json:"name"`
	Phone   string   `json:"phone"`
	Address string   `json:"address"`
	Email   *string  `json:"email"`
	GpsLat  *float64 `json:"gps_lat"`
	GpsLon  *float64 `json:"gps_lon"`
}

func (h *AdminHandler) UpdateCustomer(c *gin.Context) {
	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	customer, err := h.customerService.GetCustomerByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load customer"})
		return
	}

	if req.Name != "" {
		customer.Name = req.Name
	}
	if req.Phone != "" {
		customer.Phone = phone.Normalize(req.Phone)
	}
	if req.Address != "" {
		customer.Address = req.Address
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.GpsLat != nil {
		customer.GpsLat = req.GpsLat
	}
	if req.GpsLon != nil {
		customer.GpsLon = req.GpsLon
	}

	if err := h.customerService.UpdateCustomer(customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// Orders

func (h *AdminHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *AdminHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrderByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// Call summaries

func (h *AdminHandler) ListCallSummaries(c *gin.Context) {
	summaries, err := h.summaryService.GetAllSummaries()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load call summaries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"call_summaries": summaries})
}

// Pricing

func (h *AdminHandler) GetPricing(c *gin.Context) {
	prices, err := h.pricingService.GetPrices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load prices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prices": prices})
}

type UpdatePricingRequest struct {
	Prices map[string]float64 `json:"prices" binding:"required"`
}

func (h *AdminHandler) UpdatePricing(c *gin.Context) {
	var req UpdatePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	allowed := map[string]bool{}
	for _, size := range services.SeedableCylinderSizes() {
		allowed[size] = true
	}

	for size, price := range req.Prices {
		if !allowed[size] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown cylinder size: " + size})
			return
		}
		if price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be positive for size " + size})
			return
		}
	}

	for size, price := range req.Prices {
		if err := h.pricingService.UpdatePrice(size, price); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update prices"})
			return
		}
	}

	prices, err := h.pricingService.GetPrices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load prices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prices": prices})
}

// Admin users

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	user, err := h.adminService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type CreateAdminUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Role     string `json:"role"`
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) CreateAdminUser(c *gin.Context) {
	var req CreateAdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	user, err := h.adminService.CreateAdmin(req.Name, req.Email, req.Role, req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create admin user"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}
