package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/repository"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/service"
)

// AdminHandler serves the back-office overview and the drift reconciler.
type AdminHandler struct {
	transactionRepo repository.TransactionRepository
	reconciler      service.Reconciler
}

func NewAdminHandler(transactionRepo repository.TransactionRepository, reconciler service.Reconciler) *AdminHandler {
	return &AdminHandler{transactionRepo: transactionRepo, reconciler: reconciler}
}

func (h *AdminHandler) GetShopStats(c *fiber.Ctx) error {
	stats, err := h.transactionRepo.GetShopStats()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

func (h *AdminHandler) GetSalesSummary(c *fiber.Ctx) error {
	rangeParam := c.Query("range", "7d")
	now := time.Now()
	var startDate time.Time

	switch rangeParam {
	case "7d":
		startDate = now.AddDate(0, 0, -7)
	case "1m":
		startDate = now.AddDate(0, -1, 0)
	case "3m":
		startDate = now.AddDate(0, -3, 0)
	case "12m":
		startDate = now.AddDate(0, -12, 0)
	default:
		startDate = now.AddDate(0, 0, -7)
	}

	summary, err := h.transactionRepo.GetSalesSummary(startDate, now)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

func (h *AdminHandler) Reconcile(c *fiber.Ctx) error {
	udharDrifts, err := h.reconciler.ReconcileUdhar()
	if err != nil {
		return respondError(c, err)
	}
	stockDrifts, err := h.reconciler.ReconcileStock()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"udhar_drift": udharDrifts,
		"stock_drift": stockDrifts,
		"clean":       len(udharDrifts) == 0 && len(stockDrifts) == 0,
	})
}
