package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/forzalabs/connectfour-backend/internal/entity"
)

// archiveKey is the redis list holding finished game records, newest first.
const archiveKey = "archive:games"

type ArchiveRepository interface {
	SaveResult(ctx context.Context, record *entity.GameRecord) error
	Recent(ctx context.Context, limit int64) ([]*entity.GameRecord, error)
}

type dbArchive struct {
	client *redis.Client
}

func NewArchiveRepository(client *redis.Client) ArchiveRepository {
	return &dbArchive{
		client: client,
	}
}

func (that *dbArchive) SaveResult(ctx context.Context, record *entity.GameRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal game record: %w", err)
	}

	if err = that.client.LPush(ctx, archiveKey, recordJSON).Err(); err != nil {
		return fmt.Errorf("failed to push game record: %w", err)
	}

	return nil
}

// Recent returns up to limit of the most recently finished games.
func (that *dbArchive) Recent(ctx context.Context, limit int64) ([]*entity.GameRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := that.client.LRange(ctx, archiveKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read game records: %w", err)
	}

	records := make([]*entity.GameRecord, 0, len(rows))
	for _, row := range rows {
		var record entity.GameRecord
		if err = json.Unmarshal([]byte(row), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game record: %w", err)
		}

		records = append(records, &record)
	}

	return records, nil
}
