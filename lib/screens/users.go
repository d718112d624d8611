package screens

import (
	"context"
	"net/mail"

	"sitedash/lib/constants"
	"sitedash/lib/data"
	"sitedash/lib/models"
	"sitedash/lib/viewmodel"

	"github.com/sirupsen/logrus"
)

// UsersScreen manages user accounts
type UsersScreen struct {
	screen
	repo data.UserRepository

	users  viewmodel.Collection[models.User]
	create *viewmodel.Reconciler[models.User]
	edit   *viewmodel.Reconciler[models.User]
}

// NewUsersScreen creates the user management screen
func NewUsersScreen(fetcher *viewmodel.Fetcher, repo data.UserRepository, logger *logrus.Logger) *UsersScreen {
	s := &UsersScreen{
		repo:   repo,
		create: viewmodel.NewReconciler[models.User]("user", logger),
		edit:   viewmodel.NewReconciler[models.User]("user_edit", logger),
	}
	s.init("users", fetcher, logger)
	return s
}

func (s *UsersScreen) Load(ctx context.Context) error {
	resources := []viewmodel.Resource{{Name: constants.ResourceUsers, Path: constants.PathUsers}}
	return s.load(ctx, resources, func(batch *viewmodel.Batch) {
		s.users.Set(viewmodel.Items[models.User](batch, constants.ResourceUsers))
	})
}

func (s *UsersScreen) View() (models.UsersView, error) {
	meta, err := s.viewMeta()
	if err != nil {
		return models.UsersView{}, err
	}

	users := s.users.Items()
	return models.UsersView{
		ViewMeta:    meta,
		Users:       users,
		RoleCounts:  viewmodel.RoleCounts(users),
		ActiveUsers: viewmodel.ActiveUsers(users),
	}, nil
}

// CreateUser validates and creates an account; the result is prepended
func (s *UsersScreen) CreateUser(ctx context.Context, request models.CreateUserRequest) (*models.User, error) {
	validation := viewmodel.NewValidationError()
	if isBlank(request.Username) {
		validation.Add("username", requiredMessage)
	}
	validateAccount(validation, request.Email, request.Role)
	if err := validation.OrNil(); err != nil {
		return nil, err
	}

	return s.run(ctx, s.create.Create, func(ctx context.Context) (*models.User, error) {
		return s.repo.CreateUser(ctx, &request)
	})
}

// UpdateUser replaces an account's editable fields in place
func (s *UsersScreen) UpdateUser(ctx context.Context, userID int64, request models.UpdateUserRequest) (*models.User, error) {
	validation := viewmodel.NewValidationError()
	validateAccount(validation, request.Email, request.Role)
	if err := validation.OrNil(); err != nil {
		return nil, err
	}

	return s.run(ctx, s.edit.Update, func(ctx context.Context) (*models.User, error) {
		return s.repo.UpdateUser(ctx, userID, &request)
	})
}

// SetActive activates or deactivates an account
func (s *UsersScreen) SetActive(ctx context.Context, userID int64, active bool) (*models.User, error) {
	return s.run(ctx, s.edit.Update, func(ctx context.Context) (*models.User, error) {
		return s.repo.SetUserActive(ctx, userID, active)
	})
}

type userMutation func(context.Context, *viewmodel.Collection[models.User], func(context.Context) (models.User, error)) (models.User, error)

func (s *UsersScreen) run(ctx context.Context, mutate userMutation, call func(context.Context) (*models.User, error)) (*models.User, error) {
	var result models.User
	err := s.write(ctx, func(ctx context.Context) error {
		var err error
		result, err = mutate(ctx, &s.users, func(ctx context.Context) (models.User, error) {
			user, err := call(ctx)
			if err != nil {
				return models.User{}, err
			}
			return *user, nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func validateAccount(validation *viewmodel.ValidationError, email, role string) {
	if isBlank(email) {
		validation.Add("email", requiredMessage)
	} else if _, err := mail.ParseAddress(email); err != nil {
		validation.Add("email", "Enter a valid email address.")
	}
	if !models.IsValidRole(role) {
		validation.Add("role", choiceMessage(role))
	}
}
