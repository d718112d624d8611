package screens

import (
	"context"
	"time"

	"sitedash/lib/models"
)

type MockExpenseRepository struct {
	created  *models.Expense
	err      error
	requests []models.CreateExpenseRequest
}

func (m *MockExpenseRepository) CreateExpense(ctx context.Context, request *models.CreateExpenseRequest) (*models.Expense, error) {
	m.requests = append(m.requests, *request)
	if m.err != nil {
		return nil, m.err
	}
	return m.created, nil
}

type MockDocumentRepository struct {
	requests []models.CreateDocumentRequest
	err      error
}

func (m *MockDocumentRepository) CreateDocument(ctx context.Context, request *models.CreateDocumentRequest) (*models.Document, error) {
	m.requests = append(m.requests, *request)
	if m.err != nil {
		return nil, m.err
	}
	return &models.Document{
		ID:           int64(100 + len(m.requests)),
		Project:      request.Project,
		DocumentType: request.DocumentType,
		Title:        request.Title,
		Filename:     request.Filename,
		FilePath:     request.FilePath,
		Version:      request.Version,
		UploadedBy:   request.UploadedBy,
	}, nil
}

type MockMaterialRequestRepository struct {
	payloads  []models.CreateMaterialRequestPayload
	approvals [][2]int64
	err       error
}

func (m *MockMaterialRequestRepository) CreateMaterialRequest(ctx context.Context, payload *models.CreateMaterialRequestPayload) (*models.MaterialRequest, error) {
	m.payloads = append(m.payloads, *payload)
	if m.err != nil {
		return nil, m.err
	}
	return &models.MaterialRequest{
		ID:                  42,
		RequestID:           payload.RequestID,
		Project:             payload.Project,
		RequestedBy:         payload.RequestedBy,
		MaterialDescription: payload.MaterialDescription,
		Quantity:            payload.Quantity,
		Unit:                payload.Unit,
		Urgency:             payload.Urgency,
		Status:              payload.Status,
	}, nil
}

func (m *MockMaterialRequestRepository) ApproveMaterialRequest(ctx context.Context, requestID, approvedBy int64) (*models.MaterialRequest, error) {
	m.approvals = append(m.approvals, [2]int64{requestID, approvedBy})
	if m.err != nil {
		return nil, m.err
	}
	return &models.MaterialRequest{ID: requestID, Status: models.MaterialRequestApproved, ApprovedBy: &approvedBy}, nil
}

type MockUserRepository struct {
	calls []string
	err   error
}

func (m *MockUserRepository) GetCurrentUser(ctx context.Context) (*models.User, error) {
	m.calls = append(m.calls, "GetCurrentUser")
	return &models.User{ID: 1, Role: models.RoleAdmin}, m.err
}

func (m *MockUserRepository) CreateUser(ctx context.Context, request *models.CreateUserRequest) (*models.User, error) {
	m.calls = append(m.calls, "CreateUser")
	if m.err != nil {
		return nil, m.err
	}
	return &models.User{ID: 30, Username: request.Username, Email: request.Email, Role: request.Role, IsActive: request.IsActive}, nil
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, userID int64, request *models.UpdateUserRequest) (*models.User, error) {
	m.calls = append(m.calls, "UpdateUser")
	if m.err != nil {
		return nil, m.err
	}
	return &models.User{ID: userID, Email: request.Email, Role: request.Role, IsActive: request.IsActive}, nil
}

func (m *MockUserRepository) SetUserActive(ctx context.Context, userID int64, active bool) (*models.User, error) {
	m.calls = append(m.calls, "SetUserActive")
	if m.err != nil {
		return nil, m.err
	}
	return &models.User{ID: userID, Role: models.RoleWorker, IsActive: active}, nil
}

type MockStorage struct {
	keys []string
	err  error
}

func (m *MockStorage) GenerateUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	m.keys = append(m.keys, key)
	if m.err != nil {
		return "", m.err
	}
	return "https://bucket.s3.amazonaws.com/" + key + "?X-Amz-Signature=sig", nil
}

func (m *MockStorage) GenerateDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://bucket.s3.amazonaws.com/" + key, nil
}
