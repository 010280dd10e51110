// Package services contains the business logic composing the crypto service,
// the repositories, and the transactional unit of work. Every mutation that
// carries an audit side effect folds the audit insert into the same unit of
// work as the primary change, so both commit or both roll back.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arturpetrov/clinicore/internal/auth"
	"github.com/arturpetrov/clinicore/internal/common"
	"github.com/arturpetrov/clinicore/internal/cryptox"
	"github.com/arturpetrov/clinicore/internal/dbx"
	"github.com/arturpetrov/clinicore/internal/models"
	"github.com/arturpetrov/clinicore/internal/storage"
)

// RequestMeta carries caller context recorded on audit events.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// Identity is returned on successful authentication: the operator with a
// minted session token.
type Identity struct {
	OperatorID string
	Username   string
	Role       models.Role
	Token      string
}

// AuthService handles operator authentication, session tokens, and account
// lifecycle mutations.
type AuthService struct {
	db         *sql.DB
	repos      storage.RepositoryManager
	crypto     *cryptox.Service
	jwtSecret  []byte
	sessionTTL time.Duration

	// dummyHash is verified against on the unknown-user path so the two
	// failure causes take comparable time.
	dummyHash string
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *sql.DB, repos storage.RepositoryManager, crypto *cryptox.Service, jwtSecret []byte, sessionTTL time.Duration) (*AuthService, error) {
	dummy, err := crypto.HashPassword("timing-level-dummy")
	if err != nil {
		return nil, err
	}
	return &AuthService{
		db:         db,
		repos:      repos,
		crypto:     crypto,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
		dummyHash:  dummy,
	}, nil
}

// Authenticate verifies the operator's credentials. On success it updates
// the last-login timestamp and appends a login audit event inside the same
// unit of work, then mints a session token. On unknown username, wrong
// password, or a deactivated account it returns common.ErrUnauthorized and
// records nothing; the failure causes are deliberately indistinguishable so
// callers cannot enumerate usernames.
func (s *AuthService) Authenticate(ctx context.Context, username, password string, meta RequestMeta) (*Identity, error) {
	op, err := s.repos.Operators(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.crypto.VerifyPassword(password, s.dummyHash)
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}

	if !s.crypto.VerifyPassword(password, op.PasswordHash) || !op.Active {
		return nil, common.ErrUnauthorized
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Operators(tx).TouchLastLogin(ctx, op.ID); err != nil {
			return err
		}
		return s.repos.Audit(tx).Append(ctx, &models.AuditEvent{
			OperatorID: &op.ID,
			Action:     models.AuditLogin,
			Details:    fmt.Sprintf("operator %s logged in", op.Username),
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
		})
	})
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(op.ID, op.Role, s.jwtSecret, s.sessionTTL)
	if err != nil {
		return nil, err
	}
	return &Identity{OperatorID: op.ID, Username: op.Username, Role: op.Role, Token: token}, nil
}

// VerifySession validates a session token and returns its claims.
func (s *AuthService) VerifySession(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

// CreateOperator provisions a new account. The password is hashed before
// anything touches storage; the create and its audit event share one scope.
func (s *AuthService) CreateOperator(ctx context.Context, params models.CreateOperatorParams, actorID string, meta RequestMeta) (*models.OperatorAccount, error) {
	if params.Username == "" {
		return nil, fmt.Errorf("%w: username must not be empty", common.ErrValidation)
	}
	if !params.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrValidation, params.Role)
	}
	hash, err := s.crypto.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	op := &models.OperatorAccount{
		ID:           uuid.NewString(),
		Username:     params.Username,
		PasswordHash: hash,
		Role:         params.Role,
		Active:       true,
	}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Operators(tx).Create(ctx, op); err != nil {
			return err
		}
		return s.repos.Audit(tx).Append(ctx, &models.AuditEvent{
			OperatorID: actorRef(actorID),
			Action:     models.AuditOperatorCreate,
			Details:    fmt.Sprintf("created operator %s (%s)", op.Username, op.Role),
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
		})
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, operatorID, current, replacement string, meta RequestMeta) error {
	op, err := s.repos.Operators(s.db).GetByID(ctx, operatorID)
	if err != nil {
		return err
	}
	if !s.crypto.VerifyPassword(current, op.PasswordHash) {
		return common.ErrUnauthorized
	}
	hash, err := s.crypto.HashPassword(replacement)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Operators(tx).UpdatePasswordHash(ctx, op.ID, hash); err != nil {
			return err
		}
		return s.repos.Audit(tx).Append(ctx, &models.AuditEvent{
			OperatorID: &op.ID,
			Action:     models.AuditPasswordChange,
			Details:    fmt.Sprintf("operator %s changed password", op.Username),
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
		})
	})
}

// SetRole changes an operator's role.
func (s *AuthService) SetRole(ctx context.Context, operatorID string, role models.Role, actorID string, meta RequestMeta) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Operators(tx).UpdateRole(ctx, operatorID, role); err != nil {
			return err
		}
		return s.repos.Audit(tx).Append(ctx, &models.AuditEvent{
			OperatorID: actorRef(actorID),
			Action:     models.AuditRoleChange,
			Details:    fmt.Sprintf("operator %s role set to %s", operatorID, role),
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
		})
	})
}

// Deactivate disables an account without deleting it; the audit trail keeps
// referencing it.
func (s *AuthService) Deactivate(ctx context.Context, operatorID, actorID string, meta RequestMeta) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Operators(tx).SetActive(ctx, operatorID, false); err != nil {
			return err
		}
		return s.repos.Audit(tx).Append(ctx, &models.AuditEvent{
			OperatorID: actorRef(actorID),
			Action:     models.AuditOperatorDeactivate,
			Details:    fmt.Sprintf("operator %s deactivated", operatorID),
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
		})
	})
}

// actorRef turns an optional actor id into the nullable reference stored on
// audit events.
func actorRef(actorID string) *string {
	if actorID == "" {
		return nil
	}
	return &actorID
}
