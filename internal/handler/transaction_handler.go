package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/service"
)

type TransactionHandler struct {
	ledger service.LedgerService
}

func NewTransactionHandler(ledger service.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req service.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	// The authenticated staff user is the seller of record.
	if userID, err := uuid.Parse(getUserID(c)); err == nil && req.UserID == uuid.Nil {
		req.UserID = userID
	}

	transactionID, err := h.ledger.CreateTransaction(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message":        "Transaction created successfully",
		"transaction_id": transactionID,
	})
}

func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	transactionID, err := parseUUID(c.Params("transactionId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	if err := h.ledger.DeleteTransaction(transactionID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction deleted successfully"})
}

func (h *TransactionHandler) PayUdhar(c *fiber.Ctx) error {
	var req service.PayUdharRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if userID, err := uuid.Parse(getUserID(c)); err == nil && req.UserID == uuid.Nil {
		req.UserID = userID
	}

	transactionID, err := h.ledger.PayUdhar(&req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"message":        "Udhar paid successfully",
		"transaction_id": transactionID,
	})
}

func (h *TransactionHandler) GetTransactionsForBuyer(c *fiber.Ctx) error {
	buyerID, err := parseUUID(c.Params("buyerId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid buyer ID"})
	}

	transactions, err := h.ledger.ListTransactionsForBuyer(buyerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"transactions": transactions})
}

func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	transactions, err := h.ledger.ListTransactions()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"transactions": transactions})
}

func (h *TransactionHandler) GetTransactionItems(c *fiber.Ctx) error {
	transactionID, err := parseUUID(c.Params("transactionId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	products, accessories, err := h.ledger.GetTransactionItems(transactionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"products": products, "accessories": accessories})
}

type updateLineRequest struct {
	Quantity int `json:"quantity"`
}

func (h *TransactionHandler) UpdateProductLine(c *fiber.Ctx) error {
	return h.updateLine(c, service.LineProduct)
}

func (h *TransactionHandler) UpdateAccessoryLine(c *fiber.Ctx) error {
	return h.updateLine(c, service.LineAccessory)
}

func (h *TransactionHandler) updateLine(c *fiber.Ctx, kind service.LineKind) error {
	lineID, err := parseUUID(c.Params("lineId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid line item ID"})
	}

	var req updateLineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.ledger.UpdateLineItemQuantity(kind, lineID, req.Quantity, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Line item updated"})
}

type updatePaidRequest struct {
	PaidAmount decimal.Decimal `json:"paid_amount"`
}

func (h *TransactionHandler) UpdatePaidAmount(c *fiber.Ctx) error {
	transactionID, err := parseUUID(c.Params("transactionId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	var req updatePaidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.ledger.UpdatePaidAmount(transactionID, req.PaidAmount, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Paid amount updated"})
}
