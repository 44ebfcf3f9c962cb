package repository

import (
	"context"

	"buildbid/internal/domain/model"
)

// UserRepository is the port for user/contractor profiles.
type UserRepository interface {
	Save(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	ListContractors(ctx context.Context, category string) ([]*model.User, error)

	// UpdateRating writes the recomputed review aggregate onto the profile.
	UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error
	UpdateCompletedProjects(ctx context.Context, id string, count int) error
	SetDeviceToken(ctx context.Context, id, token string) error
}
