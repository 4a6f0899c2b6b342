package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lpg_assistant/internal/models"
	"lpg_assistant/internal/repository"
	"lpg_assistant/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupVapiTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(&models.Customer{}, &models.Order{}, &models.CallSummary{}, &models.CylinderPrice{})
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	pricingService := services.NewPricingService(repository.NewPricingRepository(db), nil, 0)
	require.NoError(t, pricingService.SeedDefaults())

	customerService := services.NewCustomerService(repository.NewCustomerRepository(db))
	orderService := services.NewOrderService(repository.NewOrderRepository(db), pricingService)
	summaryService := services.NewCallSummaryService(repository.NewCallSummaryRepository(db), customerService)

	handler := NewVapiHandler(customerService, orderService, summaryService)

	router := gin.New()
	router.POST("/summary", handler.HandleSummary)
	router.POST("/tools", handler.HandleTools)
	return router, db
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func toolPayload(t *testing.T, name string, args map[string]interface{}) string {
	t.Helper()

	body, err := json.Marshal(gin.H{
		"message": gin.H{
			"toolCallList": []gin.H{
				{"id": "tc-1", "name": name, "arguments": args},
			},
		},
	})
	require.NoError(t, err)
	return string(body)
}

func toolResult(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	require.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Results []struct {
			ToolCallID string `json:"toolCallId"`
			Result     string `json:"result"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Results, 1)
	assert.Equal(t, "tc-1", response.Results[0].ToolCallID)
	return response.Results[0].Result
}

func createTestCustomer(t *testing.T, db *gorm.DB, name, phone string) *models.Customer {
	t.Helper()

	customer := &models.Customer{Name: name, Phone: phone, Address: "Nairobi"}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func TestToolsEndpointRejectsPayloadWithoutToolCalls(t *testing.T) {
	router, _ := setupVapiTest(t)

	w := postJSON(router, "/tools", `{"message": {"type": "status-update"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No tool calls in payload")
}

func TestToolsEndpointUnknownToolStillSucceeds(t *testing.T) {
	router, _ := setupVapiTest(t)

	w := postJSON(router, "/tools", toolPayload(t, "cancel_order", map[string]interface{}{}))
	assert.Equal(t, "Unknown tool: cancel_order", toolResult(t, w))
}

func TestCreateCustomerValidatesFieldsInOrder(t *testing.T) {
	router, _ := setupVapiTest(t)

	w := postJSON(router, "/tools", toolPayload(t, "create_customer", map[string]interface{}{}))
	assert.Contains(t, toolResult(t, w), "provide your name")

	w = postJSON(router, "/tools", toolPayload(t, "create_customer", map[string]interface{}{
		"name": "Jane Wanjiku",
	}))
	assert.Contains(t, toolResult(t, w), "provide your phone number")

	w = postJSON(router, "/tools", toolPayload(t, "create_customer", map[string]interface{}{
		"name":  "Jane Wanjiku",
		"phone": "0712345678",
	}))
	assert.Contains(t, toolResult(t, w), "provide your delivery address")
}

func TestCreateCustomerIsIdempotent(t *testing.T) {
	router, db := setupVapiTest(t)

	args := map[string]interface{}{
		"name":    "Jane Wanjiku",
		"phone":   "0712345678",
		"address": "123 Moi Avenue, Nairobi",
	}

	w := postJSON(router, "/tools", toolPayload(t, "create_customer", args))
	assert.Contains(t, toolResult(t, w), "has been created successfully, Jane Wanjiku")

	var saved models.Customer
	require.NoError(t, db.First(&saved, "phone = ?", "+254712345678").Error)

	// Same caller again, phone in a different raw format.
	args["phone"] = "254712345678"
	args["name"] = "Someone Else"
	w = postJSON(router, "/tools", toolPayload(t, "create_customer", args))
	assert.Contains(t, toolResult(t, w), "found your existing account, Jane Wanjiku")

	var count int64
	db.Model(&models.Customer{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// The stored record is unchanged from the first call.
	var unchanged models.Customer
	require.NoError(t, db.First(&unchanged, "phone = ?", "+254712345678").Error)
	assert.Equal(t, saved.Name, unchanged.Name)
	assert.Equal(t, saved.ID, unchanged.ID)
}

func TestPlaceOrderComputesTotalAndNormalizesSize(t *testing.T) {
	router, db := setupVapiTest(t)
	createTestCustomer(t, db, "Jane Wanjiku", "+254712345678")

	w := postJSON(router, "/tools", toolPayload(t, "place_order", map[string]interface{}{
		"phone":         "0712345678",
		"cylinder_size": "13KG",
		"quantity":      3,
	}))

	result := toolResult(t, w)
	assert.Contains(t, result, "Order placed!")
	assert.Contains(t, result, "3 x 13kg")
	assert.Contains(t, result, "KES 7500")
	assert.Contains(t, result, "tomorrow")

	var order models.Order
	require.NoError(t, db.First(&order).Error)
	assert.Equal(t, "13kg", order.CylinderSize)
	assert.Equal(t, 3, order.Quantity)
	assert.Equal(t, float64(2500), order.PriceKES)
	assert.Equal(t, float64(7500), order.TotalAmountKES)
	assert.Equal(t, string(models.OrderPending), order.Status)
}

func TestPlaceOrderRejectsTooLargeQuantity(t *testing.T) {
	router, db := setupVapiTest(t)
	createTestCustomer(t, db, "Jane Wanjiku", "+254712345678")

	w := postJSON(router, "/tools", toolPayload(t, "place_order", map[string]interface{}{
		"phone":         "0712345678",
		"cylinder_size": "6kg",
		"quantity":      11,
	}))
	assert.Contains(t, toolResult(t, w), "contact our sales team")

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPlaceOrderRejectsNonPositiveQuantity(t *testing.T) {
	router, db := setupVapiTest(t)
	createTestCustomer(t, db, "Jane Wanjiku", "+254712345678")

	for _, quantity := range []interface{}{0, -1, "not a number"} {
		w := postJSON(router, "/tools", toolPayload(t, "place_order", map[string]interface{}{
			"phone":         "0712345678",
			"cylinder_size": "6kg",
			"quantity":      quantity,
		}))
		assert.Contains(t, toolResult(t, w), "at least one cylinder")
	}

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPlaceOrderRejectsUnknownSize(t *testing.T) {
	router, _ := setupVapiTest(t)

	w := postJSON(router, "/tools", toolPayload(t, "place_order", map[string]interface{}{
		"phone":         "0712345678",
		"cylinder_size": "50kg",
		"quantity":      1,
	}))
	assert.Contains(t, toolResult(t, w), "6kg and 13kg cylinders only")
}

func TestPlaceOrderRequiresExistingAccount(t *testing.T) {
	router, db := setupVapiTest(t)

	w := postJSON(router, "/tools", toolPayload(t, "place_order", map[string]interface{}{
		"phone":         "0712345678",
		"cylinder_size": "6kg",
		"quantity":      2,
	}))
	assert.Contains(t, toolResult(t, w), "create an account first")

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPlaceOrderAcceptsStringEncodedArguments(t *testing.T) {
	router, db := setupVapiTest(t)
	createTestCustomer(t, db, "Jane Wanjiku", "+254712345678")

	body := `{
		"message": {
			"toolCalls": [
				{
					"id": "tc-1",
					"function": {
						"name": "place_order",
						"arguments": "{\"phone\": \"0712345678\", \"cylinder_size\": \"6kg\", \"quantity\": \"2\", \"delivery_date\": \"2025-06-10\"}"
					}
				}
			]
		}
	}`

	w := postJSON(router, "/tools", body)
	result := toolResult(t, w)
	assert.Contains(t, result, "2 x 6kg")
	assert.Contains(t, result, "2025-06-10")
	assert.Contains(t, result, "KES 2400")
}

func TestGetOrderStatusWithoutAccount(t *testing.T) {
	router, _ := setupVapiTest(t)

	w := postJSON(router, "/tools", toolPayload(t, "get_order_status", map[string]interface{}{
		"phone": "0712345678",
	}))
	assert.Contains(t, toolResult(t, w), "Would you like to create one?")
}

func TestGetOrderStatusWithoutOrders(t *testing.T) {
	router, db := setupVapiTest(t)
	createTestCustomer(t, db, "Jane Wanjiku", "+254712345678")

	w := postJSON(router, "/tools", toolPayload(t, "get_order_status", map[string]interface{}{
		"phone": "0712345678",
	}))
	assert.Contains(t, toolResult(t, w), "Would you like to place one now?")
}

func TestGetOrderStatusReportsLatestOrder(t *testing.T) {
	router, db := setupVapiTest(t)
	customer := createTestCustomer(t, db, "Jane Wanjiku", "+254712345678")

	older := &models.Order{
		CustomerID: customer.ID, CylinderSize: "6kg", Quantity: 1,
		PriceKES: 1200, TotalAmountKES: 1200, Status: string(models.OrderDelivered),
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	newer := &models.Order{
		CustomerID: customer.ID, CylinderSize: "13kg", Quantity: 2,
		PriceKES: 2500, TotalAmountKES: 5000, Status: string(models.OrderOutForDelivery),
		CreatedAt: time.Now().Add(-1 * time.Hour),
	}
	require.NoError(t, db.Create(older).Error)
	require.NoError(t, db.Create(newer).Error)

	w := postJSON(router, "/tools", toolPayload(t, "get_order_status", map[string]interface{}{
		"phone": "0712345678",
	}))

	result := toolResult(t, w)
	assert.Contains(t, result, newer.ID[:8])
	assert.Contains(t, result, "2 x 13kg")
	assert.Contains(t, result, "KES 5000")
	assert.Contains(t, result, "is out for delivery")
	assert.Contains(t, result, "soon")
}

func TestSummaryEndpointPersistsCall(t *testing.T) {
	router, db := setupVapiTest(t)

	w := postJSON(router, "/summary", `{
		"message": {
			"call": {"id": "call-100", "customer": {"number": "0712345678"}},
			"startTime": 1700000000000,
			"endTime": 1700000030000,
			"endedReason": "customer-ended-call",
			"messages": [{"role": "user", "message": "hello"}]
		}
	}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "success")

	var saved models.CallSummary
	require.NoError(t, db.First(&saved, "call_id = ?", "call-100").Error)
	assert.Equal(t, "+254712345678", saved.PhoneNumber)
}

func TestSummaryEndpointSkipsEventWithoutCallID(t *testing.T) {
	router, db := setupVapiTest(t)

	w := postJSON(router, "/summary", `{"message": {"endedReason": "pipeline-error"}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "success")

	var count int64
	db.Model(&models.CallSummary{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSummaryEndpointOverwritesRepeatedCallID(t *testing.T) {
	router, db := setupVapiTest(t)

	payload := `{
		"message": {
			"call": {"id": "call-200"},
			"endedReason": "%s",
			"messages": [{"role": "user", "message": "%s"}]
		}
	}`

	w := postJSON(router, "/summary", fmt.Sprintf(payload, "pipeline-error", "first"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(router, "/summary", fmt.Sprintf(payload, "customer-ended-call", "a longer transcript on resubmission"))
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.CallSummary{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var saved models.CallSummary
	require.NoError(t, db.First(&saved, "call_id = ?", "call-200").Error)
	assert.Equal(t, "customer-ended-call", saved.EndedReason)
	assert.Contains(t, saved.Transcript, "a longer transcript on resubmission")
}

func TestVerifyWebhookSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/tools", VerifyWebhookSecret("s3cret"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := postJSON(router, "/tools", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/tools", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Vapi-Secret", "s3cret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
