package data

import (
	"context"
	"fmt"

	"sitedash/lib/constants"
	"sitedash/lib/models"

	"github.com/sirupsen/logrus"
)

// MaterialRequestRepository writes material requests to the construction API
type MaterialRequestRepository interface {
	CreateMaterialRequest(ctx context.Context, payload *models.CreateMaterialRequestPayload) (*models.MaterialRequest, error)
	ApproveMaterialRequest(ctx context.Context, requestID, approvedBy int64) (*models.MaterialRequest, error)
}

// MaterialRequestDao implements MaterialRequestRepository over the REST API
type MaterialRequestDao struct {
	API    RESTWriter
	Logger *logrus.Logger
}

// NewMaterialRequestDao creates a new instance of MaterialRequestDao
func NewMaterialRequestDao(api RESTWriter, logger *logrus.Logger) MaterialRequestRepository {
	return &MaterialRequestDao{
		API:    api,
		Logger: logger,
	}
}

func (dao *MaterialRequestDao) CreateMaterialRequest(ctx context.Context, payload *models.CreateMaterialRequestPayload) (*models.MaterialRequest, error) {
	var request models.MaterialRequest
	if err := dao.API.Post(ctx, constants.PathMaterialRequests, payload, &request); err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"operation":  "CreateMaterialRequest",
			"request_id": payload.RequestID,
			"project_id": payload.Project,
			"error":      err.Error(),
		}).Error("Failed to create material request")
		return nil, fmt.Errorf("failed to create material request: %w", err)
	}

	dao.Logger.WithFields(logrus.Fields{
		"operation":           "CreateMaterialRequest",
		"request_id":          payload.RequestID,
		"material_request_id": request.ID,
	}).Info("Successfully created material request")

	return &request, nil
}

// ApproveMaterialRequest PATCHes status=approved and stamps the approver
func (dao *MaterialRequestDao) ApproveMaterialRequest(ctx context.Context, requestID, approvedBy int64) (*models.MaterialRequest, error) {
	payload := &models.ApproveMaterialRequestPayload{
		Status:     models.MaterialRequestApproved,
		ApprovedBy: approvedBy,
	}

	var request models.MaterialRequest
	if err := dao.API.Patch(ctx, DetailPath(constants.PathMaterialRequests, requestID), payload, &request); err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"operation":           "ApproveMaterialRequest",
			"material_request_id": requestID,
			"approved_by":         approvedBy,
			"error":               err.Error(),
		}).Error("Failed to approve material request")
		return nil, fmt.Errorf("failed to approve material request: %w", err)
	}

	dao.Logger.WithFields(logrus.Fields{
		"operation":           "ApproveMaterialRequest",
		"material_request_id": requestID,
		"approved_by":         approvedBy,
	}).Info("Successfully approved material request")

	return &request, nil
}
