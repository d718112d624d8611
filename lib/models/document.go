package models

import "fmt"

// Document types
const (
	DocumentTypeBlueprint    = "blueprint"
	DocumentTypeSafetyReport = "safety_report"
	DocumentTypeContract     = "contract"
	DocumentTypePermit       = "permit"
)

// DocumentTypes lists accepted document types
var DocumentTypes = []string{DocumentTypeBlueprint, DocumentTypeSafetyReport, DocumentTypeContract, DocumentTypePermit}

// Document is a project file record
type Document struct {
	ID           int64  `json:"id"`
	Project      int64  `json:"project"`
	Task         *int64 `json:"task,omitempty"`
	DocumentType string `json:"document_type"`
	Title        string `json:"title"`
	Filename     string `json:"filename"`
	FilePath     string `json:"file_path"`
	Version      string `json:"version"`
	UploadedBy   int64  `json:"uploaded_by"`
	UploadedAt   string `json:"uploaded_at,omitempty"`
}

func (d Document) GetID() int64 { return d.ID }

// PickedFile is what the device file picker hands back
type PickedFile struct {
	Name string `json:"name"`
	URI  string `json:"uri,omitempty"`
}

// CreateDocumentRequest is the upload form payload
type CreateDocumentRequest struct {
	Project      int64       `json:"project"`
	Task         *int64      `json:"task,omitempty"`
	DocumentType string      `json:"document_type"`
	Title        string      `json:"title,omitempty"`
	Filename     string      `json:"filename,omitempty"`
	FilePath     string      `json:"file_path,omitempty"`
	Version      string      `json:"version,omitempty"`
	UploadedBy   int64       `json:"uploaded_by"`
	File         *PickedFile `json:"file,omitempty"`
}

// DefaultDocumentPath is the storage convention used when the picker gives no path
func DefaultDocumentPath(documentType, filename string) string {
	return fmt.Sprintf("/documents/%s/%s", documentType, filename)
}

// DocumentUploadURL is returned to the client before it PUTs the file
type DocumentUploadURL struct {
	FilePath  string `json:"file_path"`
	UploadURL string `json:"upload_url"`
	ExpiresIn int    `json:"expires_in"`
}

// DocumentDownloadURL is a time-limited link to a stored document
type DocumentDownloadURL struct {
	DocumentID  int64  `json:"document_id"`
	FilePath    string `json:"file_path"`
	DownloadURL string `json:"download_url"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}
