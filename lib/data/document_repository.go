package data

import (
	"context"
	"fmt"

	"sitedash/lib/constants"
	"sitedash/lib/models"

	"github.com/sirupsen/logrus"
)

// DocumentRepository writes document records to the construction API
type DocumentRepository interface {
	CreateDocument(ctx context.Context, request *models.CreateDocumentRequest) (*models.Document, error)
}

// DocumentDao implements DocumentRepository over the REST API
type DocumentDao struct {
	API    RESTWriter
	Logger *logrus.Logger
}

// NewDocumentDao creates a new instance of DocumentDao
func NewDocumentDao(api RESTWriter, logger *logrus.Logger) DocumentRepository {
	return &DocumentDao{
		API:    api,
		Logger: logger,
	}
}

func (dao *DocumentDao) CreateDocument(ctx context.Context, request *models.CreateDocumentRequest) (*models.Document, error) {
	var document models.Document
	if err := dao.API.Post(ctx, constants.PathDocuments, request, &document); err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"operation":     "CreateDocument",
			"project_id":    request.Project,
			"document_type": request.DocumentType,
			"error":         err.Error(),
		}).Error("Failed to create document")
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	dao.Logger.WithFields(logrus.Fields{
		"operation":   "CreateDocument",
		"document_id": document.ID,
		"file_path":   document.FilePath,
	}).Info("Successfully created document")

	return &document, nil
}
