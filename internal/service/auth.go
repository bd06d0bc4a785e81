package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/macroledger/backend/internal/models"
	"github.com/macroledger/backend/internal/nutrition"
	"github.com/macroledger/backend/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrEmailTaken         = errors.New("email already registered")
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

var _ IAuthService = (*AuthService)(nil)

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

// Register creates the user together with their profile and initial target
// set, so a dashboard is meaningful from the first request.
func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (string, error) {
	metrics := MetricsFromInput(req.Profile)
	targets, _, err := nutrition.ComputeTargets(metrics)
	if err != nil {
		return "", err
	}

	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return "", ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			// A concurrent register can slip past the lookup above; the
			// unique index on email is the authority.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}
		profile := models.UserProfile{
			ID:            uuid.New(),
			UserID:        user.ID,
			WeightKg:      req.Profile.WeightKg,
			HeightCm:      req.Profile.HeightCm,
			Age:           req.Profile.Age,
			Sex:           req.Profile.Sex,
			ActivityLevel: req.Profile.ActivityLevel,
			Goal:          req.Profile.Goal,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		targetSet := models.TargetSet{
			ID:           uuid.New(),
			UserID:       user.ID,
			Protein:      targets.Protein,
			Carbs:        targets.Carbs,
			Fats:         targets.Fats,
			Calories:     targets.Calories,
			CalculatedAt: targets.CalculatedAt,
		}
		return tx.Create(&targetSet).Error
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return "", ErrEmailTaken
		}
		return "", &nutrition.StorageError{Op: "register user", Err: err}
	}

	return s.generateToken(user.ID)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.generateToken(user.ID)
}

func (s *AuthService) generateToken(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userIDStr, ok := claims["user_id"].(string)
		if !ok {
			return nil, ErrInvalidToken
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return nil, ErrInvalidToken
		}

		return &types.TokenClaims{UserID: userID}, nil
	}

	return nil, ErrInvalidToken
}

// MetricsFromInput converts an API profile payload into formula input.
func MetricsFromInput(in types.ProfileInput) nutrition.ProfileMetrics {
	return nutrition.ProfileMetrics{
		WeightKg:      in.WeightKg,
		HeightCm:      in.HeightCm,
		Age:           in.Age,
		Sex:           nutrition.Sex(in.Sex),
		ActivityLevel: nutrition.ActivityLevel(in.ActivityLevel),
		Goal:          nutrition.Goal(in.Goal),
	}
}
