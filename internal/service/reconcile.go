package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
)

// UdharDrift reports a buyer whose stored balance disagrees with the sum
// of (total - paid) over their live transactions.
type UdharDrift struct {
	BuyerID  uuid.UUID       `json:"buyer_id"`
	Name     string          `json:"name"`
	Stored   decimal.Decimal `json:"stored"`
	Computed decimal.Decimal `json:"computed"`
}

// StockDrift reports a catalog item whose available count went negative.
type StockDrift struct {
	Kind      LineKind  `json:"kind"`
	ItemID    uuid.UUID `json:"item_id"`
	Name      string    `json:"name"`
	Available int       `json:"available"`
}

// Reconciler recomputes the mutable aggregates (outstanding_udhar,
// available) from transaction history and flags drift. The ledger engine
// keeps these incrementally; the reconciler is the oracle that catches
// any divergence.
type Reconciler interface {
	ReconcileUdhar() ([]UdharDrift, error)
	ReconcileStock() ([]StockDrift, error)
}

type reconciler struct {
	db *gorm.DB
}

func NewReconciler(db *gorm.DB) Reconciler {
	return &reconciler{db}
}

func (r *reconciler) ReconcileUdhar() ([]UdharDrift, error) {
	var buyers []model.Buyer
	if err := r.db.Find(&buyers).Error; err != nil {
		return nil, err
	}

	var drifts []UdharDrift
	for _, buyer := range buyers {
		var transactions []model.Transaction
		if err := r.db.Find(&transactions, "buyer_id = ?", buyer.ID).Error; err != nil {
			return nil, err
		}
		computed := decimal.Zero
		for _, tx := range transactions {
			computed = computed.Add(tx.TotalAmount.Sub(tx.PaidAmount))
		}
		if !computed.Equal(buyer.OutstandingUdhar) {
			drifts = append(drifts, UdharDrift{
				BuyerID:  buyer.ID,
				Name:     buyer.Name,
				Stored:   buyer.OutstandingUdhar,
				Computed: computed,
			})
		}
	}
	return drifts, nil
}

func (r *reconciler) ReconcileStock() ([]StockDrift, error) {
	var drifts []StockDrift

	var products []model.Product
	if err := r.db.Find(&products, "available < 0").Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		drifts = append(drifts, StockDrift{Kind: LineProduct, ItemID: p.ID, Name: p.Name, Available: p.Available})
	}

	var accessories []model.Accessory
	if err := r.db.Find(&accessories, "available < 0").Error; err != nil {
		return nil, err
	}
	for _, a := range accessories {
		drifts = append(drifts, StockDrift{Kind: LineAccessory, ItemID: a.ID, Name: a.Name, Available: a.Available})
	}

	return drifts, nil
}
