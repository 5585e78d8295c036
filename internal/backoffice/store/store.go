// Package store defines the data access interfaces. Concrete drivers
// (sqlite today) implement Store; services depend only on these interfaces
// so tests can run against an in-memory database.
package store

import (
	"context"
	"errors"

	"github.com/crewdesk/crewdesk/internal/backoffice/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface, exposing one sub-repository per
// aggregate. Uniqueness (usernames, emails, one membership per user+org,
// invite fingerprints) is enforced by the schema, so two racing requests
// resolve to exactly one winner and an ErrAlreadyExists loser.
type Store interface {
	Users() Users
	Organizations() Organizations
	Memberships() Memberships
	Invites() Invites
	Depots() Depots
	Crews() Crews
	Employees() Employees
	Vehicles() Vehicles
	Bookings() Bookings

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST Commit or Rollback the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Preferred over Tx for multi-step
	// operations that must be atomic (registration, invite acceptance).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying database handle.
	Close() error

	// Ping verifies the database connection is alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store with Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetByID(ctx context.Context, id string) (domain.User, error)

	// GetByUsername serves username logins and availability checks.
	GetByUsername(ctx context.Context, username string) (domain.User, error)

	// GetByEmail serves email logins and invite-acceptance lookups.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	Create(ctx context.Context, u domain.User) error

	// SetBillingCustomerID persists the external billing reference after
	// first-use customer creation. The write only lands when no reference is
	// stored yet; ErrAlreadyExists signals a concurrent writer won and the
	// caller should re-read.
	SetBillingCustomerID(ctx context.Context, userID, customerID string) error
}

type Organizations interface {
	GetByID(ctx context.Context, id string) (domain.Organization, error)
	Create(ctx context.Context, o domain.Organization) error

	// UpdateSubscription reconciles plan and status from the billing bridge.
	UpdateSubscription(ctx context.Context, orgID, plan, status string) error
}

type Memberships interface {
	// Get returns the membership for the (user, organization) pair.
	Get(ctx context.Context, userID, orgID string) (domain.Membership, error)

	// Create inserts a membership; ErrAlreadyExists when the pair exists.
	Create(ctx context.Context, m domain.Membership) error

	// ListByUser returns all of a user's memberships, for self-service views.
	ListByUser(ctx context.Context, userID string) ([]domain.Membership, error)

	// ListMembers returns memberships joined with user identity.
	ListMembers(ctx context.Context, orgID string) ([]domain.OrgMember, error)
}

type Invites interface {
	Create(ctx context.Context, inv domain.Invite) error

	// GetByFingerprint looks an invite up by token fingerprint. Expiry is a
	// service-level concern: expired rows are still returned until swept.
	GetByFingerprint(ctx context.Context, fingerprint string) (domain.Invite, error)

	GetByID(ctx context.Context, id string) (domain.Invite, error)

	// Delete consumes an invite. ErrNotFound when the row is already gone,
	// which is how a racing second accept observes its loss.
	Delete(ctx context.Context, id string) error

	ListByOrg(ctx context.Context, orgID string) ([]domain.Invite, error)

	// DeleteExpired is housekeeping.
	DeleteExpired(ctx context.Context) error
}

// Depots, Crews, Employees, Vehicles and Bookings are organization-scoped:
// every read and write carries the orgID, so a cross-tenant id guess is
// indistinguishable from a missing row.

type Depots interface {
	Create(ctx context.Context, d domain.Depot) error
	Get(ctx context.Context, orgID, id string) (domain.Depot, error)
	List(ctx context.Context, orgID string) ([]domain.Depot, error)
	Update(ctx context.Context, d domain.Depot) error
	Delete(ctx context.Context, orgID, id string) error
}

type Crews interface {
	Create(ctx context.Context, c domain.Crew) error
	Get(ctx context.Context, orgID, id string) (domain.Crew, error)
	List(ctx context.Context, orgID string) ([]domain.Crew, error)
	Update(ctx context.Context, c domain.Crew) error
	Delete(ctx context.Context, orgID, id string) error
}

type Employees interface {
	Create(ctx context.Context, e domain.Employee) error
	Get(ctx context.Context, orgID, id string) (domain.Employee, error)
	List(ctx context.Context, orgID string) ([]domain.Employee, error)
	Update(ctx context.Context, e domain.Employee) error
	Delete(ctx context.Context, orgID, id string) error
}

type Vehicles interface {
	Create(ctx context.Context, v domain.Vehicle) error
	Get(ctx context.Context, orgID, id string) (domain.Vehicle, error)
	List(ctx context.Context, orgID string) ([]domain.Vehicle, error)
	Update(ctx context.Context, v domain.Vehicle) error
	Delete(ctx context.Context, orgID, id string) error
}

type Bookings interface {
	Create(ctx context.Context, b domain.Booking) error
	Get(ctx context.Context, orgID, id string) (domain.Booking, error)
	List(ctx context.Context, orgID string) ([]domain.Booking, error)
	Update(ctx context.Context, b domain.Booking) error
	Delete(ctx context.Context, orgID, id string) error
}
