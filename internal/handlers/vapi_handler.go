package handlers

import (
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"lpg_assistant/internal/models"
	"lpg_assistant/internal/services"
	"lpg_assistant/pkg/phone"
	"lpg_assistant/pkg/vapi"

	"github.com/gin-gonic/gin"
)

// VapiHandler serves the two webhook endpoints the voice platform calls:
// call-summary ingestion and conversational tool dispatch. Tool results are
// plain sentences the assistant speaks back to the caller, so validation
// failures return guidance text with HTTP 200 rather than an error status.
type VapiHandler struct {
	customerService services.CustomerService
	orderService    services.OrderService
	summaryService  services.CallSummaryService
}

func NewVapiHandler(
	customerService services.CustomerService,
	orderService services.OrderService,
	summaryService services.CallSummaryService,
) *VapiHandler {
	return &VapiHandler{
		customerService: customerService,
		orderService:    orderService,
		summaryService:  summaryService,
	}
}

func (h *VapiHandler) HandleSummary(c *gin.Context) {
	var env vapi.ServerMessage
	if err := c.ShouldBindJSON(&env); err != nil {
		log.Printf("Failed to parse call summary payload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid payload"})
		return
	}

	msg := &env.Message
	if msg.CallIDValue() == "" {
		// Nothing to key the row on; acknowledge and move on.
		log.Println("Call summary event without a call id, skipping persistence")
		c.JSON(http.StatusOK, gin.H{"status": "success"})
		return
	}

	if _, err := h.summaryService.RecordSummary(msg); err != nil {
		log.Printf("Failed to record call summary %s: %v", msg.CallIDValue(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *VapiHandler) HandleTools(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic while handling tool call: %v", r)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
	}()

	var env vapi.ServerMessage
	if err := c.ShouldBindJSON(&env); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No tool calls in payload"})
		return
	}

	toolCalls := env.Message.NormalizedToolCalls()
	if len(toolCalls) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No tool calls in payload"})
		return
	}

	// Only the first tool call is processed per invocation.
	call := toolCalls[0]
	result := h.dispatchTool(call)

	c.JSON(http.StatusOK, gin.H{
		"results": []gin.H{
			{"toolCallId": call.ID, "result": result},
		},
	})
}

func (h *VapiHandler) dispatchTool(call vapi.ToolCall) string {
	switch call.Name {
	case "create_customer":
		return h.createCustomer(call.Args)
	case "place_order":
		return h.placeOrder(call.Args)
	case "get_order_status":
		return h.getOrderStatus(call.Args)
	default:
		log.Printf("Error: unknown tool %q", call.Name)
		return fmt.Sprintf("Unknown tool: %s", call.Name)
	}
}

func (h *VapiHandler) createCustomer(args map[string]interface{}) string {
	name := strings.TrimSpace(argString(args, "name"))
	normalized := phone.Normalize(argString(args, "phone"))
	address := strings.TrimSpace(argString(args, "address"))

	if name == "" {
		return "Please provide your name so I can set up your account."
	}
	if normalized == "" {
		return "Please provide your phone number so I can set up your account."
	}
	if address == "" {
		return "Please provide your delivery address so I can set up your account."
	}

	customer := &models.Customer{
		Name:    name,
		Phone:   normalized,
		Address: address,
	}
	if email := strings.TrimSpace(argString(args, "email")); email != "" {
		customer.Email = &email
	}

	saved, created, err := h.customerService.RegisterCustomer(customer)
	if err != nil {
		log.Printf("create_customer failed for %s: %v", normalized, err)
		return fmt.Sprintf("I'm sorry, there was an issue creating your account: %v. Please try again.", err)
	}

	if !created {
		return fmt.Sprintf("Great! I found your existing account, %s. You're all set to place orders.", saved.Name)
	}
	return fmt.Sprintf("Perfect! Your account has been created successfully, %s. You can now place orders for LPG cylinders.", saved.Name)
}

func (h *VapiHandler) placeOrder(args map[string]interface{}) string {
	rawPhone := strings.TrimSpace(argString(args, "phone"))
	if rawPhone == "" {
		return "Please provide your phone number so I can look up your account."
	}
	normalized := phone.Normalize(rawPhone)

	size := strings.ToLower(strings.TrimSpace(argString(args, "cylinder_size")))
	if size != "6kg" && size != "13kg" {
		return "We currently offer 6kg and 13kg cylinders only. Which size would you like?"
	}

	quantity, ok := argInt(args, "quantity")
	if !ok || quantity <= 0 {
		return "Please order at least one cylinder."
	}
	if quantity > 10 {
		return "For orders of more than 10 cylinders, please contact our sales team directly."
	}

	customer, err := h.customerService.GetCustomerByPhone(normalized)
	if err != nil {
		log.Printf("place_order lookup failed for %s: %v", normalized, err)
		return fmt.Sprintf("I'm sorry, there was an issue placing your order: %v. Please try again.", err)
	}
	if customer == nil {
		return "I couldn't find an account for that phone number. Please create an account first, then place your order."
	}

	deliveryDate := strings.TrimSpace(argString(args, "delivery_date"))
	notes := strings.TrimSpace(argString(args, "notes"))

	order, err := h.orderService.PlaceOrder(customer.ID, size, quantity, deliveryDate, notes)
	if err != nil {
		log.Printf("place_order failed for %s: %v", normalized, err)
		return fmt.Sprintf("I'm sorry, there was an issue placing your order: %v. Please try again.", err)
	}

	deliveryText := deliveryDate
	if deliveryText == "" {
		deliveryText = "tomorrow"
	}

	return fmt.Sprintf("Order placed! Your order %s for %d x %s cylinder(s) will be delivered %s. The total is KES %.0f.",
		shortOrderID(order.ID), order.Quantity, order.CylinderSize, deliveryText, order.TotalAmountKES)
}

func (h *VapiHandler) getOrderStatus(args map[string]interface{}) string {
	rawPhone := strings.TrimSpace(argString(args, "phone"))
	if rawPhone == "" {
		return "Please provide your phone number so I can look up your orders."
	}

	customer, err := h.customerService.GetCustomerByPhone(phone.Normalize(rawPhone))
	if err != nil {
		log.Printf("get_order_status lookup failed: %v", err)
		return fmt.Sprintf("I'm sorry, there was an issue checking your order: %v. Please try again.", err)
	}
	if customer == nil {
		return "I couldn't find an account for that phone number. Would you like to create one?"
	}

	order, err := h.orderService.GetLatestOrderForCustomer(customer.ID)
	if err != nil {
		log.Printf("get_order_status failed for customer %s: %v", customer.ID, err)
		return fmt.Sprintf("I'm sorry, there was an issue checking your order: %v. Please try again.", err)
	}
	if order == nil {
		return "You don't have any orders yet. Would you like to place one now?"
	}

	deliveryText := order.DeliveryDate
	if deliveryText == "" {
		deliveryText = "soon"
	}

	return fmt.Sprintf("Your order %s for %d x %s cylinder(s) totalling KES %.0f %s. Expected delivery: %s.",
		shortOrderID(order.ID), order.Quantity, order.CylinderSize, order.TotalAmountKES,
		statusPhrase(order.Status), deliveryText)
}

func statusPhrase(status string) string {
	switch status {
	case string(models.OrderPending):
		return "is pending confirmation"
	case string(models.OrderConfirmed):
		return "has been confirmed"
	case string(models.OrderOutForDelivery):
		return "is out for delivery"
	case string(models.OrderDelivered):
		return "has been delivered"
	case string(models.OrderCancelled):
		return "was cancelled"
	default:
		return "is being processed"
	}
}

// shortOrderID returns the 8-character fragment callers hear on the phone.
func shortOrderID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func argString(args map[string]interface{}, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func argInt(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
