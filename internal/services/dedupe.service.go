package services

import (
	"context"

	"mygamelist/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// DedupeService removes catalog rows that share an external catalog id.
type DedupeService struct {
	games       repositories.GameRepository
	transaction *TransactionService
	log         logger.Logger
}

func NewDedupeService(
	games repositories.GameRepository,
	transaction *TransactionService,
) *DedupeService {
	return &DedupeService{
		games:       games,
		transaction: transaction,
		log:         logger.New("DedupeService"),
	}
}

// RemoveDuplicates keeps the oldest game per id_game_bd and returns how many
// rows were deleted. The sweep commits or rolls back as a whole.
func (s *DedupeService) RemoveDuplicates(ctx context.Context) (int64, error) {
	log := s.log.Function("RemoveDuplicates")

	var deleted int64
	err := s.transaction.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		count, err := s.games.RemoveDuplicates(txCtx)
		if err != nil {
			return err
		}
		deleted = count
		return nil
	})
	if err != nil {
		log.Er("duplicate sweep failed", err)
		return 0, err
	}

	log.Info("Duplicate sweep finished", "deleted", deleted)
	return deleted, nil
}
