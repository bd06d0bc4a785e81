package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/macroledger/backend/config"
	"github.com/macroledger/backend/internal/models"
	"github.com/macroledger/backend/internal/nutrition"
	"gorm.io/gorm"
)

// exportURLExpiry is how long a generated download link stays valid.
const exportURLExpiry = 24 * time.Hour

// ExportService writes a user's full meal history to S3 and hands back a
// presigned download URL.
type ExportService struct {
	db       *gorm.DB
	s3Config *config.S3Config
}

var _ IExportService = (*ExportService)(nil)

func NewExportService(db *gorm.DB, s3Config *config.S3Config) *ExportService {
	return &ExportService{
		db:       db,
		s3Config: s3Config,
	}
}

// mealExport is one meal entry in the export document.
type mealExport struct {
	ID          uuid.UUID `json:"id"`
	Date        string    `json:"date"`
	MealType    string    `json:"meal_type"`
	Description string    `json:"description,omitempty"`
	Protein     float64   `json:"protein"`
	Carbs       float64   `json:"carbs"`
	Fats        float64   `json:"fats"`
	Calories    float64   `json:"calories"`
	Source      string    `json:"source"`
	Ingredients []string  `json:"ingredients,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExportMealHistory uploads the caller's meal history as JSON and returns a
// presigned URL for it.
func (s *ExportService) ExportMealHistory(ctx context.Context, userID uuid.UUID) (string, error) {
	var entries []models.MealEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC, created_at ASC").
		Find(&entries).Error; err != nil {
		return "", &nutrition.StorageError{Op: "list meal history", Err: err}
	}

	export := struct {
		UserID      uuid.UUID    `json:"user_id"`
		GeneratedAt time.Time    `json:"generated_at"`
		Meals       []mealExport `json:"meals"`
	}{
		UserID:      userID,
		GeneratedAt: time.Now().UTC(),
		Meals:       make([]mealExport, 0, len(entries)),
	}
	for _, e := range entries {
		export.Meals = append(export.Meals, mealExport{
			ID:          e.ID,
			Date:        e.Date,
			MealType:    e.MealType,
			Description: e.Description,
			Protein:     e.Protein,
			Carbs:       e.Carbs,
			Fats:        e.Fats,
			Calories:    e.Calories,
			Source:      e.Source,
			Ingredients: DecodeIngredients(e.Ingredients),
			CreatedAt:   e.CreatedAt,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal export: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json", userID, uuid.New())
	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload export: %w", err)
	}
	log.Printf("[ExportService] uploaded meal history for user %s to %s", userID, key)

	url, err := s.s3Config.GeneratePresignedURL(ctx, key, exportURLExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign export URL: %w", err)
	}
	return url, nil
}
