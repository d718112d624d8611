package models

import "github.com/shopspring/decimal"

// Purchase order statuses
const (
	PurchaseOrderDraft     = "draft"
	PurchaseOrderPending   = "pending"
	PurchaseOrderApproved  = "approved"
	PurchaseOrderDelivered = "delivered"
	PurchaseOrderCancelled = "cancelled"
)

// PurchaseOrder is a vendor order placed for a project
type PurchaseOrder struct {
	ID          int64           `json:"id"`
	Project     int64           `json:"project"`
	Vendor      int64           `json:"vendor"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

func (p PurchaseOrder) GetID() int64 { return p.ID }

// AwaitsApproval reports whether the order still needs sign-off
func (p PurchaseOrder) AwaitsApproval() bool {
	return p.Status == PurchaseOrderDraft || p.Status == PurchaseOrderPending
}

// Vendor is a supplier known to the API
type Vendor struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	IsApproved bool   `json:"is_approved"`
}

func (v Vendor) GetID() int64 { return v.ID }
