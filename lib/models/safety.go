package models

// Inspection statuses
const (
	InspectionPassed  = "passed"
	InspectionFailed  = "failed"
	InspectionPending = "pending"
)

// Inspection is a site quality or safety inspection
type Inspection struct {
	ID             int64  `json:"id"`
	Project        int64  `json:"project"`
	InspectionType string `json:"inspection_type,omitempty"`
	Status         string `json:"status"`
	InspectionDate Date   `json:"inspection_date"`
	Inspector      *int64 `json:"inspector,omitempty"`
}

func (i Inspection) GetID() int64 { return i.ID }

// Incident is a recorded safety incident
type Incident struct {
	ID           int64  `json:"id"`
	Project      int64  `json:"project"`
	Severity     string `json:"severity"`
	Description  string `json:"description,omitempty"`
	IncidentDate Date   `json:"incident_date"`
}

func (i Incident) GetID() int64 { return i.ID }
