package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

// Repositories groups the collection-bound repositories. The same instances
// serve transactional calls because the driver picks the session up from the
// context.
type Repositories struct {
	users     *UserRepository
	sweets    *SweetRepository
	purchases *PurchaseRepository
}

func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		users:     NewUserRepository(db),
		sweets:    NewSweetRepository(db),
		purchases: NewPurchaseRepository(db),
	}
}

func (r *Repositories) Users() ports.UserRepository         { return r.users }
func (r *Repositories) Sweets() ports.SweetRepository       { return r.sweets }
func (r *Repositories) Purchases() ports.PurchaseRepository { return r.purchases }

// TxManager runs callbacks in multi-document transactions. MongoDB only
// supports these on replica sets and sharded clusters.
type TxManager struct {
	client *mongo.Client
	repos  *Repositories
}

func NewTxManager(client *mongo.Client, repos *Repositories) *TxManager {
	return &TxManager{client: client, repos: repos}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	sess, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	opts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, m.repos)
	}, opts)
	return err
}
