package users

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/medmart-backend/internal/notifications"
	"github.com/angelmondragon/medmart-backend/pkg/db/dbtest"
	"github.com/angelmondragon/medmart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/medmart-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	emails []notifications.Email
}

func (r *recordingNotifier) Notify(_ context.Context, emails ...notifications.Email) {
	r.emails = append(r.emails, emails...)
}

func newTestService(t *testing.T) (Service, *Repository, *recordingNotifier) {
	t.Helper()
	repo := NewRepository(dbtest.Open(t))
	notifier := &recordingNotifier{}
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Notifier: notifier,
		SiteName: "MedMart",
		Now:      func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc, repo, notifier
}

func TestUpsertFirstLoginCreatesBuyerAndWelcomes(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	res, err := svc.Upsert(ctx, UpsertUserInput{Email: "a@x.com", Name: "Alice"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, enums.UserRoleBuyer, res.User.Role)
	require.Len(t, notifier.emails, 1)
	assert.Equal(t, "Welcome to MedMart!", notifier.emails[0].Subject)
	assert.Equal(t, "a@x.com", notifier.emails[0].To)
}

func TestUpsertRepeatLoginIsIdempotent(t *testing.T) {
	svc, repo, notifier := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertUserInput{Email: "a@x.com", Name: "Alice"})
	require.NoError(t, err)

	res, err := svc.Upsert(ctx, UpsertUserInput{Email: "a@x.com", Name: "Someone Else"})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, "Alice", res.User.Name)
	assert.Len(t, notifier.emails, 1)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUpsertRoleRequestOnlyChangesStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertUserInput{Email: "a@x.com", Name: "Alice"})
	require.NoError(t, err)

	res, err := svc.Upsert(ctx, UpsertUserInput{Email: "a@x.com", Name: "Changed", Status: enums.UserStatusRequested})
	require.NoError(t, err)
	assert.Equal(t, enums.UserStatusRequested, res.User.Status)
	assert.Equal(t, "Alice", res.User.Name)
	assert.Equal(t, enums.UserRoleBuyer, res.User.Role)
}

func TestUpsertValidatesInput(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Upsert(context.Background(), UpsertUserInput{Email: "  "})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Upsert(context.Background(), UpsertUserInput{Email: "a@x.com", Status: "Bogus"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateRoleClearsStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertUserInput{Email: "s@x.com", Status: enums.UserStatusRequested})
	require.NoError(t, err)

	updated, err := svc.UpdateRole(ctx, "s@x.com", enums.UserRoleSeller)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleSeller, updated.Role)
	assert.Equal(t, enums.UserStatusNone, updated.Status)

	role, err := svc.Resolve(ctx, "s@x.com")
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleSeller, role)
}

func TestUpdateRoleErrors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateRole(ctx, "ghost@x.com", enums.UserRoleAdmin)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.UpdateRole(ctx, "ghost@x.com", "Overlord")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestResolveUnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Resolve(context.Background(), "nobody@x.com")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListAndGet(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, email := range []string{"a@x.com", "b@x.com"} {
		_, err := svc.Upsert(ctx, UpsertUserInput{Email: email})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	user, err := svc.Get(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", user.Email)

	_, err = svc.Get(ctx, "c@x.com")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
