package data

import (
	"context"
	"fmt"

	"sitedash/lib/constants"
	"sitedash/lib/models"

	"github.com/sirupsen/logrus"
)

// UserRepository reads and writes user accounts on the construction API
type UserRepository interface {
	GetCurrentUser(ctx context.Context) (*models.User, error)
	CreateUser(ctx context.Context, request *models.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, userID int64, request *models.UpdateUserRequest) (*models.User, error)
	SetUserActive(ctx context.Context, userID int64, active bool) (*models.User, error)
}

// UserDao implements UserRepository over the REST API
type UserDao struct {
	API    RESTWriter
	Logger *logrus.Logger
}

// NewUserDao creates a new instance of UserDao
func NewUserDao(api RESTWriter, logger *logrus.Logger) UserRepository {
	return &UserDao{
		API:    api,
		Logger: logger,
	}
}

// GetCurrentUser resolves the caller's account from the bearer token
func (dao *UserDao) GetCurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := dao.API.Get(ctx, constants.PathUsers+"me/", nil, &user); err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return &user, nil
}

func (dao *UserDao) CreateUser(ctx context.Context, request *models.CreateUserRequest) (*models.User, error) {
	var user models.User
	if err := dao.API.Post(ctx, constants.PathUsers, request, &user); err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"operation": "CreateUser",
			"username":  request.Username,
			"role":      request.Role,
			"error":     err.Error(),
		}).Error("Failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	dao.Logger.WithFields(logrus.Fields{
		"operation": "CreateUser",
		"user_id":   user.ID,
		"role":      user.Role,
	}).Info("Successfully created user")

	return &user, nil
}

func (dao *UserDao) UpdateUser(ctx context.Context, userID int64, request *models.UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := dao.API.Put(ctx, DetailPath(constants.PathUsers, userID), request, &user); err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"operation": "UpdateUser",
			"user_id":   userID,
			"error":     err.Error(),
		}).Error("Failed to update user")
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	dao.Logger.WithFields(logrus.Fields{
		"operation": "UpdateUser",
		"user_id":   userID,
	}).Info("Successfully updated user")

	return &user, nil
}

// SetUserActive PATCHes only the is_active flag
func (dao *UserDao) SetUserActive(ctx context.Context, userID int64, active bool) (*models.User, error) {
	var user models.User
	if err := dao.API.Patch(ctx, DetailPath(constants.PathUsers, userID), &models.SetActiveRequest{IsActive: active}, &user); err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"operation": "SetUserActive",
			"user_id":   userID,
			"is_active": active,
			"error":     err.Error(),
		}).Error("Failed to change user status")
		return nil, fmt.Errorf("failed to change user status: %w", err)
	}

	dao.Logger.WithFields(logrus.Fields{
		"operation": "SetUserActive",
		"user_id":   userID,
		"is_active": active,
	}).Info("Successfully changed user status")

	return &user, nil
}
