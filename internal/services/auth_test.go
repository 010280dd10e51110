package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturpetrov/clinicore/internal/common"
	"github.com/arturpetrov/clinicore/internal/models"
	"github.com/arturpetrov/clinicore/internal/storage"
)

var testMeta = RequestMeta{IP: "127.0.0.1", UserAgent: "test-agent"}

func TestAuthenticate_DefaultAdminOnFreshStore(t *testing.T) {
	db, repos, crypto := newTestStore(t)
	svc := newTestAuth(t, db, repos, crypto)
	ctx := context.Background()

	id, err := svc.Authenticate(ctx, storage.DefaultAdminUsername, storage.DefaultAdminPassword, testMeta)
	require.NoError(t, err)

	assert.Equal(t, storage.DefaultAdminUsername, id.Username)
	assert.Equal(t, models.RoleAdmin, id.Role)
	assert.NotEmpty(t, id.Token)
	assert.Equal(t, 1, countAudit(t, db, models.AuditLogin))

	// Last-login timestamp was stamped in the same scope.
	op, err := repos.Operators(db).GetByUsername(ctx, storage.DefaultAdminUsername)
	require.NoError(t, err)
	assert.NotNil(t, op.LastLoginAt)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	db, repos, crypto := newTestStore(t)
	svc := newTestAuth(t, db, repos, crypto)

	id, err := svc.Authenticate(context.Background(), storage.DefaultAdminUsername, "nope", testMeta)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Nil(t, id)
	assert.Zero(t, countAudit(t, db, ""))
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	db, repos, crypto := newTestStore(t)
	svc := newTestAuth(t, db, repos, crypto)

	_, err := svc.Authenticate(context.Background(), "ghost", "whatever", testMeta)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Zero(t, countAudit(t, db, ""))
}

func TestAuthenticate_DeactivatedAccount(t *testing.T) {
	db, repos, crypto := newTestStore(t)
	svc := newTestAuth(t, db, repos, crypto)
	ctx := context.Background()

	op, err := svc.CreateOperator(ctx, models.CreateOperatorParams{
		Username: "dr.jones",
		Password: "s3cret-pw",
		Role:     models.RoleDoctor,
	}, "", testMeta)
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(ctx, op.ID, "", testMeta))

	_, err = svc.Authenticate(ctx, "dr.jones", "s3cret-pw", testMeta)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Zero(t, countAudit(t, db, models.AuditLogin))
}

func TestVerifySession_RoundTrip(t *testing.T) {
	db, repos, crypto := newTestStore(t)
	svc := newTestAuth(t, db, repos, crypto)
	ctx := context.Background()

	id, err := svc.Authenticate(ctx, storage.DefaultAdminUsername, storage.DefaultAdminPassword, testMeta)
	require.NoError(t, err)

	claims, err := svc.VerifySession(id.Token)
	require.NoError(t, err)
	assert.Equal(t, id.OperatorID, claims.OperatorID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestVerifySession_Garbage(t *testing.T) {
	db, repos, crypto := newTestStore(t)
	svc := newTestAuth(t, db, repos, crypto)

	_, err := svc.VerifySession("not.a.token")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestCreateOperator_DuplicateUsername(t *testing.T) {
	db, repos, crypto := newTestStore(t)
	svc := newTestAuth(t, db, repos, crypto)
	ctx := context.Background()

	params := models.CreateOperatorParams{Username: "frontdesk", Password: "pw123456", Role: models.RoleSecretary}
	_, err := svc.CreateOperator(ctx, params, "", testMeta)
	require.NoError(t, err)

	_, err = svc.CreateOperator(ctx, params, "", testMeta)
	assert.ErrorIs(t, err, common.ErrDuplicate)
	// The rejected create left no audit event behind.
	assert.Equal(t, 1, countAudit(t, db, models.AuditOperatorCreate))
}

func TestCreateOperator_InvalidRole(t *testing.T) {
	db, repos, crypto := newTestStore(t)
	svc := newTestAuth(t, db, repos, crypto)

	_, err := svc.CreateOperator(context.Background(), models.CreateOperatorParams{
		Username: "x", Password: "pw", Role: "janitor",
	}, "", testMeta)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestChangePassword(t *testing.T) {
	db, repos, crypto := newTestStore(t)
	svc := newTestAuth(t, db, repos, crypto)
	ctx := context.Background()

	id, err := svc.Authenticate(ctx, storage.DefaultAdminUsername, storage.DefaultAdminPassword, testMeta)
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, id.OperatorID, "wrong-current", "newpass123", testMeta)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	require.NoError(t, svc.ChangePassword(ctx, id.OperatorID, storage.DefaultAdminPassword, "newpass123", testMeta))

	_, err = svc.Authenticate(ctx, storage.DefaultAdminUsername, storage.DefaultAdminPassword, testMeta)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = svc.Authenticate(ctx, storage.DefaultAdminUsername, "newpass123", testMeta)
	assert.NoError(t, err)
	assert.Equal(t, 1, countAudit(t, db, models.AuditPasswordChange))
}

func TestSetRole(t *testing.T) {
	db, repos, crypto := newTestStore(t)
	svc := newTestAuth(t, db, repos, crypto)
	ctx := context.Background()

	op, err := svc.CreateOperator(ctx, models.CreateOperatorParams{
		Username: "nurse", Password: "pw123456", Role: models.RoleSecretary,
	}, "", testMeta)
	require.NoError(t, err)

	require.NoError(t, svc.SetRole(ctx, op.ID, models.RoleDoctor, "", testMeta))

	got, err := repos.Operators(db).GetByID(ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleDoctor, got.Role)
	assert.Equal(t, 1, countAudit(t, db, models.AuditRoleChange))

	assert.ErrorIs(t, svc.SetRole(ctx, op.ID, "intern", "", testMeta), common.ErrValidation)
}
