package interfaces

import (
	"context"

	"easyloan/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepositoryInterface interface {
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
}
