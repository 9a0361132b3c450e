package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	t.Run("creates customer with valid inputs", func(t *testing.T) {
		customer, err := NewCustomer("Ana", "Ana@Example.com", "123")
		require.NoError(t, err)
		require.NotNil(t, customer)

		assert.Equal(t, "Ana", customer.Name)
		assert.Equal(t, "ana@example.com", customer.Email)
		assert.Equal(t, "123", customer.Phone)
		assert.Zero(t, customer.RemoteID)
		assert.Nil(t, customer.LastSyncAt)
		assert.NotEmpty(t, customer.ID)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCustomer("", "ana@example.com", "")
		require.Error(t, err)
	})

	t.Run("fails with malformed email", func(t *testing.T) {
		_, err := NewCustomer("Ana", "not-an-email", "")
		require.Error(t, err)
	})
}

func TestNewSyncedCustomer(t *testing.T) {
	now := time.Now()

	t.Run("carries the remote identity", func(t *testing.T) {
		customer, err := NewSyncedCustomer(42, "Ana", "ana@example.com", "123", now)
		require.NoError(t, err)

		assert.Equal(t, int64(42), customer.RemoteID)
		require.NotNil(t, customer.LastSyncAt)
		assert.True(t, customer.LastSyncAt.Equal(now))
		assert.True(t, customer.IsSynced())
	})

	t.Run("rejects non-positive remote ID", func(t *testing.T) {
		_, err := NewSyncedCustomer(0, "Ana", "ana@example.com", "", now)
		require.Error(t, err)
	})
}

func TestCustomer_Update(t *testing.T) {
	customer, err := NewSyncedCustomer(42, "Ana", "ana@example.com", "123", time.Now())
	require.NoError(t, err)

	t.Run("updates mutable fields only", func(t *testing.T) {
		require.NoError(t, customer.Update("Ana Maria", "New@Example.com", "456"))

		assert.Equal(t, "Ana Maria", customer.Name)
		assert.Equal(t, "new@example.com", customer.Email)
		assert.Equal(t, "456", customer.Phone)
		assert.Equal(t, int64(42), customer.RemoteID)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		assert.Error(t, customer.Update("Ana", "broken", ""))
	})
}
