package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"vigil/internal/services/monitor"
	"vigil/internal/utils/response"
	"vigil/internal/validation"
)

type TransactionHandler struct {
	monitor *monitor.Service
}

func NewTransactionHandler(monitorSvc *monitor.Service) *TransactionHandler {
	return &TransactionHandler{monitor: monitorSvc}
}

type processTransactionRequest struct {
	TransactionID    string  `json:"transaction_id"`
	UserID           string  `json:"user_id"`
	Amount           float64 `json:"amount"`
	MerchantID       string  `json:"merchant_id"`
	MerchantCategory string  `json:"merchant_category"`
	PaymentMethod    string  `json:"payment_method"`
	Timestamp        string  `json:"timestamp"`
	Location         string  `json:"location"`
	IsInternational  bool    `json:"is_international"`
	MerchantCountry  string  `json:"merchant_country"`
}

// ProcessTransaction handles POST /api/transactions.
func (h *TransactionHandler) ProcessTransaction(c *fiber.Ctx) error {
	var req processTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validation.ValidateTransaction(validation.TransactionInput{
		UserID:           req.UserID,
		Amount:           req.Amount,
		MerchantID:       req.MerchantID,
		MerchantCategory: req.MerchantCategory,
		PaymentMethod:    req.PaymentMethod,
		Timestamp:        req.Timestamp,
	}); err != nil {
		return response.BadRequest(c, err.Error())
	}

	in := monitor.ProcessInput{
		TransactionID:    req.TransactionID,
		UserID:           req.UserID,
		Amount:           req.Amount,
		MerchantID:       req.MerchantID,
		MerchantCategory: req.MerchantCategory,
		PaymentMethod:    req.PaymentMethod,
		Location:         req.Location,
		IsInternational:  req.IsInternational,
		MerchantCountry:  req.MerchantCountry,
	}
	if req.Timestamp != "" {
		ts, _ := validation.ParseTimestamp(req.Timestamp)
		in.Timestamp = &ts
	}

	result, err := h.monitor.Process(c.Context(), in)
	if err != nil {
		log.Printf("error processing transaction: %v", err)
		return response.ServerError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetTransactions handles GET /api/transactions.
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	var start, end *time.Time
	if raw := c.Query("start_date"); raw != "" {
		t, err := validation.ParseTimestamp(raw)
		if err != nil {
			return response.BadRequest(c, "start_date must be an ISO 8601 date-time")
		}
		start = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := validation.ParseTimestamp(raw)
		if err != nil {
			return response.BadRequest(c, "end_date must be an ISO 8601 date-time")
		}
		end = &t
	}

	txns, err := h.monitor.ListTransactions(c.Context(), c.Query("user_id"), start, end)
	if err != nil {
		log.Printf("error retrieving transactions: %v", err)
		return response.ServerError(c)
	}

	return c.JSON(fiber.Map{
		"count":        len(txns),
		"transactions": txns,
	})
}

// GetTransaction handles GET /api/transactions/:id.
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	txn, err := h.monitor.GetTransaction(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, monitor.ErrTransactionNotFound) {
			return response.NotFound(c, "Transaction not found")
		}
		log.Printf("error retrieving transaction %s: %v", c.Params("id"), err)
		return response.ServerError(c)
	}
	return c.JSON(txn)
}

// GetUserStats handles GET /api/users/:id/stats.
func (h *TransactionHandler) GetUserStats(c *fiber.Ctx) error {
	stats, err := h.monitor.UserStatistics(c.Context(), c.Params("id"))
	if err != nil {
		log.Printf("error getting stats for user %s: %v", c.Params("id"), err)
		return response.ServerError(c)
	}
	return c.JSON(stats)
}
