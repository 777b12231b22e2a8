package users

import (
	"context"

	"easyloan/internal/pkg/consts"
	mongodb "easyloan/internal/pkg/db/mongo"
	"easyloan/internal/pkg/logger"
	"easyloan/internal/pkg/store/models"
	"easyloan/internal/pkg/store/repository"
	"easyloan/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// UserRepository is a read-only view used to populate applicant names in listings.
type UserRepository struct {
	repo interfaces.DocumentStore[models.User]
}

func NewUserRepository(client *mongodb.MongoClient) *UserRepository {
	collection := client.Database.Collection(consts.UserCollection)
	return &UserRepository{repo: repository.NewMongoRepository[models.User](collection)}
}

func NewUserRepositoryWithInterface(repo interfaces.DocumentStore[models.User]) *UserRepository {
	return &UserRepository{repo: repo}
}

func (ur *UserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	result := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	projection := options.Find().SetProjection(bson.M{"name": 1, "email": 1, "role": 1})
	users, err := ur.repo.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, projection)
	if err != nil {
		logger.CtxError(ctx, "Error fetching users", err, zap.Int("count", len(ids)))
		return nil, err
	}
	for _, user := range users {
		result[user.ID] = user
	}
	return result, nil
}
