package screens

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"sitedash/lib/constants"
	"sitedash/lib/data"
	"sitedash/lib/models"
	"sitedash/lib/viewmodel"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// NewRequestID builds the device-side reference MR<YYYYMMDD><000-999>
func NewRequestID(now time.Time, suffix int) string {
	return fmt.Sprintf("MR%s%03d", now.Format("20060102"), suffix%1000)
}

// MaterialRequestsScreen lists material requests and handles submit/approve
type MaterialRequestsScreen struct {
	screen
	requestedBy int64
	user        models.User
	repo        data.MaterialRequestRepository
	suffix      func() int

	requests viewmodel.Collection[models.MaterialRequest]
	submit   *viewmodel.Reconciler[models.MaterialRequest]
	approve  *viewmodel.Reconciler[models.MaterialRequest]
}

// NewMaterialRequestsScreen creates the screen acting as user. requestedBy
// narrows the list to one requester; 0 lists every request.
func NewMaterialRequestsScreen(fetcher *viewmodel.Fetcher, repo data.MaterialRequestRepository, user models.User, requestedBy int64, logger *logrus.Logger) *MaterialRequestsScreen {
	s := &MaterialRequestsScreen{
		requestedBy: requestedBy,
		user:        user,
		repo:        repo,
		suffix:      func() int { return rand.Intn(1000) },
		submit:      viewmodel.NewReconciler[models.MaterialRequest]("material_request", logger),
		approve:     viewmodel.NewReconciler[models.MaterialRequest]("material_request_approval", logger),
	}
	s.init("material_requests", fetcher, logger)
	return s
}

func (s *MaterialRequestsScreen) Load(ctx context.Context) error {
	resource := viewmodel.Resource{Name: constants.ResourceMaterialRequests, Path: constants.PathMaterialRequests}
	if s.requestedBy > 0 {
		resource = resource.Filtered("requested_by", s.requestedBy)
	}

	return s.load(ctx, []viewmodel.Resource{resource}, func(batch *viewmodel.Batch) {
		s.requests.Set(viewmodel.Items[models.MaterialRequest](batch, constants.ResourceMaterialRequests))
	})
}

func (s *MaterialRequestsScreen) View() (models.MaterialRequestsView, error) {
	meta, err := s.viewMeta()
	if err != nil {
		return models.MaterialRequestsView{}, err
	}

	requests := s.requests.Items()
	return models.MaterialRequestsView{
		ViewMeta:           meta,
		Requests:           requests,
		Pending:            viewmodel.CountMaterialRequests(requests, models.MaterialRequestPending),
		Approved:           viewmodel.CountMaterialRequests(requests, models.MaterialRequestApproved),
		Rejected:           viewmodel.CountMaterialRequests(requests, models.MaterialRequestRejected),
		HighUrgencyPending: viewmodel.HighUrgencyPending(requests),
		Overdue:            viewmodel.OverdueMaterialRequests(requests, s.now()),
	}, nil
}

// Payload coerces a form into the create payload: numeric text becomes
// numbers, a request_id is generated and the acting user becomes requester.
func (s *MaterialRequestsScreen) Payload(form models.MaterialRequestForm) (*models.CreateMaterialRequestPayload, error) {
	validation := viewmodel.NewValidationError()

	payload := &models.CreateMaterialRequestPayload{
		RequestID:           NewRequestID(s.now(), s.suffix()),
		Project:             form.Project,
		Task:                form.Task,
		RequestedBy:         s.user.ID,
		MaterialDescription: strings.TrimSpace(form.MaterialDescription),
		Unit:                strings.TrimSpace(form.Unit),
		Urgency:             form.Urgency,
		Status:              models.MaterialRequestPending,
		Notes:               form.Notes,
	}

	if payload.Project <= 0 {
		validation.Add("project", requiredMessage)
	}
	if payload.MaterialDescription == "" {
		validation.Add("material_description", requiredMessage)
	}
	if payload.Unit == "" {
		validation.Add("unit", requiredMessage)
	}

	if quantity := strings.TrimSpace(form.Quantity); quantity == "" {
		validation.Add("quantity", requiredMessage)
	} else if parsed, err := strconv.ParseFloat(quantity, 64); err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		validation.Add("quantity", numberMessage)
	} else if parsed <= 0 {
		validation.Add("quantity", "Ensure this value is greater than 0.")
	} else {
		payload.Quantity = parsed
	}

	if cost := strings.TrimSpace(form.EstimatedCost); cost != "" {
		parsed, err := decimal.NewFromString(cost)
		if err != nil || parsed.IsNegative() {
			validation.Add("estimated_cost", numberMessage)
		} else {
			payload.EstimatedCost = &parsed
		}
	}

	if payload.Urgency == "" {
		payload.Urgency = models.UrgencyMedium
	}
	if !contains([]string{models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh}, payload.Urgency) {
		validation.Add("urgency", choiceMessage(payload.Urgency))
	}

	if raw := strings.TrimSpace(form.RequiredDate); raw != "" {
		required, err := models.ParseDate(raw)
		if err != nil {
			validation.Add("required_date", dateMessage)
		} else {
			payload.RequiredDate = &required
		}
	}

	if err := validation.OrNil(); err != nil {
		return nil, err
	}
	return payload, nil
}

// Submit validates and creates a material request. The server's record,
// carrying the server id, is prepended to the list.
func (s *MaterialRequestsScreen) Submit(ctx context.Context, form models.MaterialRequestForm) (*models.MaterialRequest, error) {
	payload, err := s.Payload(form)
	if err != nil {
		return nil, err
	}

	var created models.MaterialRequest
	err = s.write(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.submit.Create(ctx, &s.requests, func(ctx context.Context) (models.MaterialRequest, error) {
			request, err := s.repo.CreateMaterialRequest(ctx, payload)
			if err != nil {
				return models.MaterialRequest{}, err
			}
			return *request, nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Approve moves a pending request to approved, stamping the acting user as
// approver. Requests in any other state are refused without calling the API.
func (s *MaterialRequestsScreen) Approve(ctx context.Context, requestID int64) (*models.MaterialRequest, error) {
	current, found := s.requests.Find(requestID)
	if !found {
		return nil, fmt.Errorf("material request %d: %w", requestID, viewmodel.ErrNotFound)
	}
	if current.Status != models.MaterialRequestPending {
		return nil, fmt.Errorf("material request %d is %s: %w", requestID, current.Status, viewmodel.ErrInvalidTransition)
	}

	var approved models.MaterialRequest
	err := s.write(ctx, func(ctx context.Context) error {
		var err error
		approved, err = s.approve.Update(ctx, &s.requests, func(ctx context.Context) (models.MaterialRequest, error) {
			request, err := s.repo.ApproveMaterialRequest(ctx, requestID, s.user.ID)
			if err != nil {
				return models.MaterialRequest{}, err
			}
			return *request, nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &approved, nil
}
