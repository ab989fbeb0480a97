package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/model"
	"github.com/Sithmi-Shehara/Traffic-and-Accident-Detection-System/internal/repository"
)

func TestNotificationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewNotificationService(repository.NewNotificationRepository(env.db))

	// creating an appeal fans one notification out to each active admin
	_, err := env.svc.Create(ctx, env.citizen, validInput("ABC12345"), RequestContext{})
	require.NoError(t, err)

	page, err := svc.ListOwn(ctx, env.admin, false, 20, 0)
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	assert.EqualValues(t, 1, page.Total)
	assert.EqualValues(t, 1, page.Unread)
	assert.Equal(t, model.NotificationStatusUnread, page.Notifications[0].Status)

	target := page.Notifications[0].ID

	// only the recipient can mark it read
	err = svc.MarkRead(ctx, env.admin2, target)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.MarkRead(ctx, env.admin, target))

	page, err = svc.ListOwn(ctx, env.admin, false, 20, 0)
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, model.NotificationStatusRead, page.Notifications[0].Status)
	assert.NotNil(t, page.Notifications[0].ReadAt)
	assert.Zero(t, page.Unread)

	// unread filter hides it now
	page, err = svc.ListOwn(ctx, env.admin, true, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Notifications)

	// marking read is idempotent
	require.NoError(t, svc.MarkRead(ctx, env.admin, target))
}

func TestMarkAllNotificationsRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewNotificationService(repository.NewNotificationRepository(env.db))

	for _, id := range []string{"ABC11111", "ABC22222", "ABC33333"} {
		_, err := env.svc.Create(ctx, env.citizen, validInput(id), RequestContext{})
		require.NoError(t, err)
	}

	updated, err := svc.MarkAllRead(ctx, env.admin)
	require.NoError(t, err)
	assert.EqualValues(t, 3, updated)

	page, err := svc.ListOwn(ctx, env.admin, true, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Notifications)

	// the other admin's copies are untouched
	page, err = svc.ListOwn(ctx, env.admin2, true, 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Unread)
}
