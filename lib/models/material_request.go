package models

import "github.com/shopspring/decimal"

// Material request urgency levels
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Material request statuses
const (
	MaterialRequestPending  = "pending"
	MaterialRequestApproved = "approved"
	MaterialRequestRejected = "rejected"
)

// MaterialRequest asks for site materials. RequestID is generated on the
// device and superseded by the server id once created.
type MaterialRequest struct {
	ID                  int64            `json:"id"`
	RequestID           string           `json:"request_id"`
	Project             int64            `json:"project"`
	Task                *int64           `json:"task,omitempty"`
	RequestedBy         int64            `json:"requested_by"`
	MaterialDescription string           `json:"material_description"`
	Quantity            float64          `json:"quantity"`
	Unit                string           `json:"unit"`
	EstimatedCost       *decimal.Decimal `json:"estimated_cost,omitempty"`
	Urgency             string           `json:"urgency"`
	RequiredDate        Date             `json:"required_date"`
	Status              string           `json:"status"`
	ApprovedBy          *int64           `json:"approved_by,omitempty"`
	Notes               string           `json:"notes,omitempty"`
}

func (m MaterialRequest) GetID() int64 { return m.ID }

// MaterialRequestForm carries raw form input; numeric fields arrive as text
type MaterialRequestForm struct {
	Project             int64  `json:"project"`
	Task                *int64 `json:"task,omitempty"`
	MaterialDescription string `json:"material_description"`
	Quantity            string `json:"quantity"`
	Unit                string `json:"unit"`
	EstimatedCost       string `json:"estimated_cost,omitempty"`
	Urgency             string `json:"urgency,omitempty"`
	RequiredDate        string `json:"required_date,omitempty"`
	Notes               string `json:"notes,omitempty"`
}

// CreateMaterialRequestPayload is what gets POSTed after coercion
type CreateMaterialRequestPayload struct {
	RequestID           string           `json:"request_id"`
	Project             int64            `json:"project"`
	Task                *int64           `json:"task,omitempty"`
	RequestedBy         int64            `json:"requested_by"`
	MaterialDescription string           `json:"material_description"`
	Quantity            float64          `json:"quantity"`
	Unit                string           `json:"unit"`
	EstimatedCost       *decimal.Decimal `json:"estimated_cost,omitempty"`
	Urgency             string           `json:"urgency"`
	RequiredDate        *Date            `json:"required_date,omitempty"`
	Status              string           `json:"status"`
	Notes               string           `json:"notes,omitempty"`
}

// ApproveMaterialRequestPayload is the PATCH body of the approve action
type ApproveMaterialRequestPayload struct {
	Status     string `json:"status"`
	ApprovedBy int64  `json:"approved_by"`
}
