package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	entry := &Entry{
		TenantID:  nil,
		UserID:    "user-9",
		Action:    ActionCreateSubscriptionPlan,
		Details:   map[string]interface{}{"plan_id": "plan-1", "name": "Pro"},
		CreatedAt: time.Now().UTC(),
	}

	id, err := store.Append(context.Background(), entry)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	found, err := store.Find(context.Background(), Filter{Action: ActionCreateSubscriptionPlan})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Nil(t, found[0].TenantID)
	require.Equal(t, "user-9", found[0].UserID)
	require.Equal(t, ActionCreateSubscriptionPlan, found[0].Action)
	require.Equal(t, "plan-1", found[0].Details["plan_id"])
	require.Equal(t, "Pro", found[0].Details["name"])
}

func TestMemoryStoreEntriesImmutable(t *testing.T) {
	store := NewMemoryStore()
	tenantID := "tenant-1"

	_, err := store.Append(context.Background(), &Entry{
		TenantID: &tenantID,
		UserID:   "user-1",
		Action:   ActionCreateTenant,
		Details:  map[string]interface{}{"school_name": "Riverside Academy"},
	})
	require.NoError(t, err)

	found, err := store.Find(context.Background(), Filter{TenantID: tenantID})
	require.NoError(t, err)
	require.Len(t, found, 1)

	// Mutating the returned entry must not change the stored log.
	found[0].Details["school_name"] = "tampered"
	*found[0].TenantID = "tampered"

	again, err := store.Find(context.Background(), Filter{Action: ActionCreateTenant})
	require.NoError(t, err)
	require.Len(t, again, 1)
	require.Equal(t, "Riverside Academy", again[0].Details["school_name"])
	require.Equal(t, "tenant-1", *again[0].TenantID)
}

func TestMemoryStoreFilters(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()

	tenantID := "tenant-1"
	entries := []*Entry{
		{TenantID: &tenantID, UserID: "user-1", Action: ActionCreateTenant, CreatedAt: now.Add(-2 * time.Hour)},
		{UserID: "user-1", Action: ActionCreateSubscriptionPlan, CreatedAt: now.Add(-time.Hour)},
		{UserID: "user-2", Action: ActionCreateSubscriptionPlan, CreatedAt: now},
	}
	for _, e := range entries {
		_, err := store.Append(context.Background(), e)
		require.NoError(t, err)
	}

	byAction, err := store.Find(context.Background(), Filter{Action: ActionCreateSubscriptionPlan})
	require.NoError(t, err)
	require.Len(t, byAction, 2)

	byUser, err := store.Find(context.Background(), Filter{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, byUser, 2)

	since := now.Add(-30 * time.Minute)
	recent, err := store.Find(context.Background(), Filter{Since: &since})
	require.NoError(t, err)
	require.Len(t, recent, 1)

	limited, err := store.Find(context.Background(), Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestMemoryStoreValidation(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Append(context.Background(), &Entry{Action: ActionCreateTenant})
	require.ErrorIs(t, err, ErrMissingUserID)

	_, err = store.Append(context.Background(), &Entry{UserID: "user-1"})
	require.ErrorIs(t, err, ErrMissingAction)
}
