package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/briareus/pkg/domain/interfaces"
	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/domain/types"
)

func runNotificationRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("GetByUser returns newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, title := range []string{"first", "second", "third"} {
			_, err := repo.Notification().Create(ctx, &model.Notification{
				UserID: "u-bob",
				Type:   types.NotificationTypeCaseClosed,
				Title:  title,
			})
			gt.NoError(t, err).Required()
			time.Sleep(time.Millisecond)
		}
		_, err := repo.Notification().Create(ctx, &model.Notification{
			UserID: "u-alice",
			Type:   types.NotificationTypeCaseClosed,
			Title:  "other",
		})
		gt.NoError(t, err).Required()

		notifications, err := repo.Notification().GetByUser(ctx, "u-bob")
		gt.NoError(t, err).Required()
		gt.Number(t, len(notifications)).Equal(3)
		gt.Value(t, notifications[0].Title).Equal("third")
		gt.Value(t, notifications[2].Title).Equal("first")
	})

	t.Run("Update flips the read flag but keeps CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Notification().Create(ctx, &model.Notification{
			UserID: "u-bob",
			Type:   types.NotificationTypeCaseReopened,
			Title:  "reopened",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.Read).Equal(false)

		fetched, err := repo.Notification().Get(ctx, created.ID)
		gt.NoError(t, err).Required()

		fetched.Read = true
		updated, err := repo.Notification().Update(ctx, fetched)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Read).Equal(true)
		gt.Value(t, updated.CreatedAt.Equal(fetched.CreatedAt)).Equal(true)
	})

	t.Run("Get of a missing notification fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Notification().Get(ctx, model.NewNotificationID())
		gt.Value(t, err).NotNil()
	})
}

func TestNotificationRepository_Memory(t *testing.T) {
	runNotificationRepositoryTest(t, newMemory)
}

func TestNotificationRepository_Firestore(t *testing.T) {
	runNotificationRepositoryTest(t, newFirestore)
}
