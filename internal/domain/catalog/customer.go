package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/syncbridge/backend/internal/domain/shared"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Customer represents a customer mirrored from the remote catalog system
// or created locally. RemoteID correlates the record with its remote
// counterpart; it is immutable once set and zero for local-only customers.
type Customer struct {
	shared.BaseEntity
	RemoteID   int64
	Name       string
	Email      string
	Phone      string
	LastSyncAt *time.Time
}

// NewCustomer creates a new locally-originated customer. LastSyncAt stays
// nil until the reconciler first merges the record from the remote source.
func NewCustomer(name, email, phone string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      strings.ToLower(email),
		Phone:      phone,
	}, nil
}

// NewSyncedCustomer creates a customer from a remote record during sync.
func NewSyncedCustomer(remoteID int64, name, email, phone string, syncedAt time.Time) (*Customer, error) {
	if remoteID <= 0 {
		return nil, shared.NewDomainError("INVALID_REMOTE_ID", "Remote ID must be positive")
	}
	c, err := NewCustomer(name, email, phone)
	if err != nil {
		return nil, err
	}
	c.RemoteID = remoteID
	c.LastSyncAt = &syncedAt
	return c, nil
}

// Update updates the customer's mutable fields. RemoteID and LastSyncAt
// are never touched by direct updates.
func (c *Customer) Update(name, email, phone string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	c.Name = name
	c.Email = strings.ToLower(email)
	c.Phone = phone
	c.Touch()
	return nil
}

// MarkSynced records a successful merge from the remote source.
// Only the reconciler calls this.
func (c *Customer) MarkSynced(at time.Time) {
	c.LastSyncAt = &at
	c.Touch()
}

// IsSynced returns true if the customer has ever been merged from remote
func (c *Customer) IsSynced() bool {
	return c.LastSyncAt != nil
}

func validateCustomerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}
