package domain

import "context"

type Repository interface {
	Insert(ctx context.Context, policy *ExpirationPolicy) error
	Update(ctx context.Context, policy *ExpirationPolicy) error
	// Delete removes the policy and every key record referencing it.
	Delete(ctx context.Context, policy *ExpirationPolicy) error
	List(ctx context.Context) ([]ExpirationPolicy, error)
	FindByID(ctx context.Context, id int64) (*ExpirationPolicy, error)
	FindByName(ctx context.Context, name string) (*ExpirationPolicy, error)
	FindByTypeID(ctx context.Context, typeID string) (*ExpirationPolicy, error)
	// First returns the oldest policy, the provisioning default.
	First(ctx context.Context) (*ExpirationPolicy, error)
}
