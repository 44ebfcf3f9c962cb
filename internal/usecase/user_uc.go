package usecase

import (
	"context"

	"github.com/google/uuid"

	"buildbid/internal/domain"
	"buildbid/internal/domain/model"
	"buildbid/internal/domain/ports/repository"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

type RegisterInput struct {
	Role     model.UserRole
	FullName string
	Email    string
	Phone    string
	Location string
	Category string // contractors only
}

type UpdateProfileInput struct {
	FullName    string
	Phone       string
	Location    string
	Category    string
	Bio         string
	DeviceToken string
}

type UserUseCase interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id, actingUserID string, in UpdateProfileInput) (*model.User, error)
	ListContractors(ctx context.Context, category string) ([]*model.User, error)
}

type userUC struct {
	users repository.UserRepository
}

func NewUserUseCase(users repository.UserRepository) *userUC {
	return &userUC{users: users}
}

func (u *userUC) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	user, err := model.NewUser(uuid.NewString(), in.Role, in.FullName, in.Email)
	if err != nil {
		return nil, err
	}
	user.Phone = in.Phone
	user.Location = in.Location
	if in.Role == model.UserRoleContractor {
		user.Category = in.Category
	}
	if err := u.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userUC) Get(ctx context.Context, id string) (*model.User, error) {
	return u.users.FindByID(ctx, repository.NoTX, id)
}

func (u *userUC) UpdateProfile(ctx context.Context, id, actingUserID string, in UpdateProfileInput) (*model.User, error) {
	if id != actingUserID {
		return nil, domain.ErrForbidden
	}
	user, err := u.users.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if in.FullName != "" {
		user.FullName = in.FullName
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.Location != "" {
		user.Location = in.Location
	}
	if in.Category != "" && user.Role == model.UserRoleContractor {
		user.Category = in.Category
	}
	if in.Bio != "" {
		user.Bio = in.Bio
	}
	if in.DeviceToken != "" {
		user.DeviceToken = in.DeviceToken
	}
	if err := u.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *userUC) ListContractors(ctx context.Context, category string) ([]*model.User, error) {
	return u.users.ListContractors(ctx, category)
}
