package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/argussec/argus/internal/models"
)

func TestAuditServiceLogAndList(t *testing.T) {
	db := openServiceTestDB(t)

	svc, err := NewAuditService(db)
	require.NoError(t, err)

	ctx := context.Background()
	userID := "operator-1"

	require.NoError(t, svc.Log(ctx, AuditEntry{
		UserID:   &userID,
		Username: "operator",
		Action:   "role.create",
		Resource: "role-1",
		Result:   "success",
		Metadata: map[string]any{"name": "Analyst"},
	}))
	require.NoError(t, svc.Log(ctx, AuditEntry{
		Username: "intruder",
		Action:   "auth.login",
		Result:   "failure",
	}))

	// Action and result are mandatory.
	require.Error(t, svc.Log(ctx, AuditEntry{Result: "success"}))
	require.Error(t, svc.Log(ctx, AuditEntry{Action: "x"}))

	logs, total, err := svc.List(ctx, AuditListOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, logs, 2)

	logs, total, err = svc.List(ctx, AuditListOptions{Filters: AuditFilters{Result: "failure"}})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "auth.login", logs[0].Action)

	logs, _, err = svc.List(ctx, AuditListOptions{Filters: AuditFilters{UserID: userID}})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.JSONEq(t, `{"name":"Analyst"}`, string(logs[0].Metadata))
}

func TestAuditServiceCleanup(t *testing.T) {
	db := openServiceTestDB(t)

	svc, err := NewAuditService(db)
	require.NoError(t, err)

	ctx := context.Background()

	old := models.AuditLog{Action: "auth.login", Result: "success"}
	require.NoError(t, db.Create(&old).Error)
	cutoff := time.Now().AddDate(0, 0, -40)
	require.NoError(t, db.Model(&models.AuditLog{}).Where("id = ?", old.ID).Update("created_at", cutoff).Error)

	require.NoError(t, svc.Log(ctx, AuditEntry{Action: "auth.login", Result: "success"}))

	_, err = svc.CleanupOlderThan(ctx, 0)
	require.Error(t, err)

	removed, err := svc.CleanupOlderThan(ctx, 30)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	_, total, err := svc.List(ctx, AuditListOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}
