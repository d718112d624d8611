package screens

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sitedash/lib/clients"
	"sitedash/lib/constants"
	"sitedash/lib/data"
	"sitedash/lib/models"
	"sitedash/lib/viewmodel"

	"github.com/sirupsen/logrus"
)

const (
	defaultDocumentVersion = "1.0"
	uploadURLExpiry        = 15 * time.Minute
	downloadURLExpiry      = time.Hour
)

// DocumentsScreen lists documents, optionally for one project
type DocumentsScreen struct {
	screen
	projectID int64
	user      models.User
	repo      data.DocumentRepository
	storage   clients.S3ClientInterface

	documents viewmodel.Collection[models.Document]
	submit    *viewmodel.Reconciler[models.Document]
}

// NewDocumentsScreen creates the documents screen. projectID 0 lists all documents.
func NewDocumentsScreen(fetcher *viewmodel.Fetcher, repo data.DocumentRepository, storage clients.S3ClientInterface, user models.User, projectID int64, logger *logrus.Logger) *DocumentsScreen {
	s := &DocumentsScreen{
		projectID: projectID,
		user:      user,
		repo:      repo,
		storage:   storage,
		submit:    viewmodel.NewReconciler[models.Document]("document", logger),
	}
	s.init("documents", fetcher, logger)
	return s
}

func (s *DocumentsScreen) Load(ctx context.Context) error {
	resource := viewmodel.Resource{Name: constants.ResourceDocuments, Path: constants.PathDocuments}
	if s.projectID > 0 {
		resource = resource.Filtered("project", s.projectID)
	}

	return s.load(ctx, []viewmodel.Resource{resource}, func(batch *viewmodel.Batch) {
		s.documents.Set(viewmodel.Items[models.Document](batch, constants.ResourceDocuments))
	})
}

func (s *DocumentsScreen) View() (models.DocumentsView, error) {
	meta, err := s.viewMeta()
	if err != nil {
		return models.DocumentsView{}, err
	}

	documents := s.documents.Items()
	return models.DocumentsView{
		ViewMeta:    meta,
		Documents:   documents,
		CountByType: viewmodel.CountByDocumentType(documents),
	}, nil
}

// CreateDocument fills the picker defaults, stamps the uploader and submits
// the record. The server's record is prepended to the list.
func (s *DocumentsScreen) CreateDocument(ctx context.Context, request models.CreateDocumentRequest) (*models.Document, error) {
	if request.Project == 0 {
		request.Project = s.projectID
	}
	applyDocumentDefaults(&request)
	request.UploadedBy = s.user.ID
	if err := validateDocument(&request); err != nil {
		return nil, err
	}

	var created models.Document
	err := s.write(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.submit.Create(ctx, &s.documents, func(ctx context.Context) (models.Document, error) {
			document, err := s.repo.CreateDocument(ctx, &request)
			if err != nil {
				return models.Document{}, err
			}
			return *document, nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UploadURL presigns a PUT for the storage key derived from type and filename
func (s *DocumentsScreen) UploadURL(ctx context.Context, documentType, filename string) (*models.DocumentUploadURL, error) {
	validation := viewmodel.NewValidationError()
	if !contains(models.DocumentTypes, documentType) {
		validation.Add("document_type", choiceMessage(documentType))
	}
	if isBlank(filename) {
		validation.Add("filename", requiredMessage)
	}
	if err := validation.OrNil(); err != nil {
		return nil, err
	}

	filePath := models.DefaultDocumentPath(documentType, filename)
	var uploadURL string
	err := s.write(ctx, func(ctx context.Context) error {
		var err error
		uploadURL, err = s.storage.GenerateUploadURL(ctx, strings.TrimPrefix(filePath, "/"), uploadURLExpiry)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload for %s: %w", filePath, err)
	}

	return &models.DocumentUploadURL{
		FilePath:  filePath,
		UploadURL: uploadURL,
		ExpiresIn: int(uploadURLExpiry.Seconds()),
	}, nil
}

// DownloadURL presigns a GET for a loaded document. Paths that already carry
// a scheme were never uploaded to the bucket and are returned as they are.
func (s *DocumentsScreen) DownloadURL(ctx context.Context, documentID int64) (*models.DocumentDownloadURL, error) {
	if _, err := s.viewMeta(); err != nil {
		return nil, err
	}
	document, found := s.documents.Find(documentID)
	if !found {
		return nil, fmt.Errorf("document %d: %w", documentID, viewmodel.ErrNotFound)
	}
	if isBlank(document.FilePath) {
		return nil, fmt.Errorf("document %d has no file: %w", documentID, viewmodel.ErrNotFound)
	}

	link := &models.DocumentDownloadURL{DocumentID: documentID, FilePath: document.FilePath}
	if strings.Contains(document.FilePath, "://") {
		link.DownloadURL = document.FilePath
		return link, nil
	}

	err := s.write(ctx, func(ctx context.Context) error {
		var err error
		link.DownloadURL, err = s.storage.GenerateDownloadURL(ctx, strings.TrimPrefix(document.FilePath, "/"), downloadURLExpiry)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to presign download for %s: %w", document.FilePath, err)
	}
	link.ExpiresIn = int(downloadURLExpiry.Seconds())
	return link, nil
}

// applyDocumentDefaults seeds filename and title from the picked file and
// derives file_path when the picker gave none
func applyDocumentDefaults(request *models.CreateDocumentRequest) {
	if file := request.File; file != nil {
		if isBlank(request.Filename) {
			request.Filename = file.Name
		}
		if isBlank(request.FilePath) {
			request.FilePath = file.URI
		}
	}
	if isBlank(request.Title) {
		request.Title = request.Filename
	}
	if isBlank(request.FilePath) && !isBlank(request.Filename) {
		request.FilePath = models.DefaultDocumentPath(request.DocumentType, request.Filename)
	}
	if isBlank(request.Version) {
		request.Version = defaultDocumentVersion
	}
	request.File = nil
}

func validateDocument(request *models.CreateDocumentRequest) error {
	validation := viewmodel.NewValidationError()
	if request.Project <= 0 {
		validation.Add("project", requiredMessage)
	}
	if !contains(models.DocumentTypes, request.DocumentType) {
		validation.Add("document_type", choiceMessage(request.DocumentType))
	}
	if isBlank(request.Filename) {
		validation.Add("filename", requiredMessage)
	}
	return validation.OrNil()
}
