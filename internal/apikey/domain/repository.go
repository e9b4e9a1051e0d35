package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	// Insert persists a new record. The unique constraints on user_id and
	// key are the authority for duplicate detection: a violation comes back
	// as ErrDuplicateOwner or ErrDuplicateKey even when a pre-check raced.
	Insert(ctx context.Context, record *KeyRecord) error
	FindByUser(ctx context.Context, userID snowflake.ID) (*KeyRecord, error)
	FindByKey(ctx context.Context, key string) (*KeyRecord, error)
	DeleteByUser(ctx context.Context, userID snowflake.ID) error
}
