package services

import (
	"context"
	"html"
	"time"

	"workhub-project/backend/errs"
	"workhub-project/backend/logging"
	"workhub-project/backend/models"
	"workhub-project/backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	UsersCollection *mongo.Collection
}

func NewAuthService(usersCollection *mongo.Collection) *AuthService {
	return &AuthService{UsersCollection: usersCollection}
}

// RegisterUser stores a new active user with a bcrypt-hashed password.
func (s *AuthService) RegisterUser(ctx context.Context, user models.User) (models.User, error) {
	if user.Username == "" || user.Password == "" {
		return models.User{}, errs.BadRequest("username and password are required")
	}
	if len(user.Password) < 8 {
		return models.User{}, errs.BadRequest("password must be at least 8 characters long")
	}

	var existing models.User
	if err := s.UsersCollection.FindOne(ctx, bson.M{"username": user.Username}).Decode(&existing); err == nil {
		return models.User{}, errs.Conflict("user with username already exists")
	}

	user.Username = html.EscapeString(user.Username)
	user.Name = html.EscapeString(user.Name)
	user.LastName = html.EscapeString(user.LastName)
	user.Email = html.EscapeString(user.Email)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, errs.Internal("failed to hash password", err)
	}
	user.Password = string(hashedPassword)
	user.IsActive = true
	user.CreatedAt = time.Now()

	result, err := s.UsersCollection.InsertOne(ctx, user)
	if err != nil {
		return models.User{}, errs.Internal("failed to save user", err)
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	user.Password = ""
	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: Registered user %s", user.Username)
	return user, nil
}

// LoginUser checks the credentials and returns the user plus a signed token.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (models.User, string, error) {
	var user models.User
	err := s.UsersCollection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		return models.User{}, "", errs.NotFound("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, "", errs.Unauthorized("invalid password")
	}

	if !user.IsActive {
		return models.User{}, "", errs.Unauthorized("user not active")
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Username)
	if err != nil {
		return models.User{}, "", errs.Internal("failed to generate token", err)
	}

	user.Password = ""
	return user, token, nil
}
