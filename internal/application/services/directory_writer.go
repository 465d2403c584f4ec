package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
	"github.com/apetrei/foodscore/backend/internal/domain/repositories"
	apperrors "github.com/apetrei/foodscore/backend/pkg/errors"
)

// InsertOutcome is the result class of one directory insert attempt.
type InsertOutcome string

const (
	InsertOutcomeInserted  InsertOutcome = "inserted"
	InsertOutcomeDuplicate InsertOutcome = "duplicate"
	InsertOutcomeRejected  InsertOutcome = "rejected"
)

// Rejection reasons recorded on InsertResult.
const (
	RejectReasonAIRejected         = "ai_rejected"
	RejectReasonInvalidCandidate   = "invalid_candidate"
	RejectReasonMissingTranslation = "missing_translation"
)

// InsertResult describes what happened to one classifier verdict on
// its way into the directory. Record is set for inserted and duplicate
// outcomes; Reason is set for rejections.
type InsertResult struct {
	Outcome InsertOutcome
	Record  *entities.IngredientRecord
	Reason  string
}

// DirectoryWriter turns accepted classifier verdicts into directory
// records. It revalidates names against the blacklist and dedupes
// against existing records before writing, so a run never creates the
// same ingredient twice.
type DirectoryWriter struct {
	repo      repositories.IngredientRepository
	blacklist *Blacklist
	logger    zerolog.Logger
}

func NewDirectoryWriter(repo repositories.IngredientRepository, blacklist *Blacklist, logger zerolog.Logger) *DirectoryWriter {
	return &DirectoryWriter{
		repo:      repo,
		blacklist: blacklist,
		logger:    logger.With().Str("service", "directory_writer").Logger(),
	}
}

// Insert applies a verdict for the given candidate. createdBy tags the
// record with the run identity that produced it.
func (w *DirectoryWriter) Insert(ctx context.Context, candidate string, verdict *entities.Verdict, createdBy string) (*InsertResult, error) {
	if verdict == nil || !verdict.IsIngredient {
		reason := RejectReasonAIRejected
		if verdict != nil && verdict.Reason != "" {
			w.logger.Debug().
				Str("candidate", candidate).
				Str("reason", verdict.Reason).
				Msg("classifier rejected candidate")
		}
		return &InsertResult{Outcome: InsertOutcomeRejected, Reason: reason}, nil
	}

	name := strings.ToLower(strings.TrimSpace(verdict.Name))
	roName := strings.ToLower(strings.TrimSpace(verdict.RoName))
	if name == "" || roName == "" {
		return &InsertResult{Outcome: InsertOutcomeRejected, Reason: RejectReasonMissingTranslation}, nil
	}

	// The classifier occasionally "identifies" terms the blacklist
	// exists to keep out. Both names get a final check.
	if w.blacklist.Rejects(name) || w.blacklist.Rejects(roName) {
		w.logger.Debug().
			Str("name", name).
			Str("ro_name", roName).
			Msg("verdict names failed blacklist recheck")
		return &InsertResult{Outcome: InsertOutcomeRejected, Reason: RejectReasonInvalidCandidate}, nil
	}

	for _, key := range []string{name, roName} {
		existing, err := w.repo.GetByName(ctx, key)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to check for existing ingredient", err)
		}
		if existing != nil {
			return &InsertResult{Outcome: InsertOutcomeDuplicate, Record: existing}, nil
		}
	}

	record := &entities.IngredientRecord{
		ID:            uuid.NewString(),
		Name:          name,
		RoName:        roName,
		Description:   strings.TrimSpace(verdict.Description),
		RoDescription: strings.TrimSpace(verdict.RoDescription),
		Visible:       true,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if verdict.NovaScore >= 1 && verdict.NovaScore <= 4 {
		record.NovaScore = verdict.NovaScore
	}
	if entities.ValidRiskLevel(string(verdict.RiskLevel)) {
		record.RiskLevel = verdict.RiskLevel
	}

	if err := w.repo.Create(ctx, record); err != nil {
		return nil, apperrors.NewInternalError("failed to insert ingredient", err)
	}

	w.logger.Info().
		Str("ingredient_id", record.ID).
		Str("name", record.Name).
		Str("ro_name", record.RoName).
		Int("nova_score", record.NovaScore).
		Msg("inserted ingredient into directory")

	return &InsertResult{Outcome: InsertOutcomeInserted, Record: record}, nil
}
