package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/metrics"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/users"
)

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenService
	paging      Paging
	metrics     *metrics.Metrics
	logger      logging.Logger
}

type UserServiceOption func(*UserService)

func WithUserPaging(p Paging) UserServiceOption {
	return func(s *UserService) { s.paging = p }
}

func WithUserMetrics(m *metrics.Metrics) UserServiceOption {
	return func(s *UserService) { s.metrics = m }
}

func WithUserLogger(l logging.Logger) UserServiceOption {
	return func(s *UserService) { s.logger = l.With("module", "user_service") }
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher, tokens *auth.TokenService, opts ...UserServiceOption) *UserService {
	s := &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		paging:      DefaultPaging,
		logger:      logging.Nop{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Login checks the password of the user whose username or email equals
// login and issues an access token whose subject is the user's email.
// Unknown login and wrong password both yield common.ErrUnauthenticated
// after one bcrypt comparison.
func (s *UserService) Login(ctx context.Context, login, password string, now time.Time) (string, error) {
	var user *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).GetByLogin(ctx, login)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil
			}
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return "", classify(err)
	}

	hash := s.hasher.DummyHash()
	if user != nil {
		hash = user.PasswordHash
	}
	if !s.hasher.Verify(password, hash) || user == nil {
		s.metrics.Login(false)
		s.logger.Info(ctx, "login rejected")
		return "", common.ErrUnauthenticated
	}

	token, err := s.issue(user.Email, now)
	if err != nil {
		return "", err
	}
	s.metrics.Login(true)
	s.logger.Info(ctx, "login succeeded", "user_id", user.ID)
	return token, nil
}

// Refresh issues a new token with a fresh expiry for the holder of a still
// valid token. The presented token stays valid until its own expiry.
func (s *UserService) Refresh(ctx context.Context, token string, now time.Time) (string, error) {
	user, err := s.Authenticate(ctx, token, now)
	if err != nil {
		return "", err
	}
	return s.issue(user.Email, now)
}

// TokenTTL is the lifetime of every token the service issues.
func (s *UserService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

func (s *UserService) issue(subject string, now time.Time) (string, error) {
	token, err := s.tokens.Issue(subject, now)
	if err != nil {
		return "", classify(err)
	}
	s.metrics.TokenIssued()
	return token, nil
}

// Authenticate resolves a bearer token to the user it names. A missing,
// invalid or expired token and a subject matching no user all yield
// common.ErrUnauthenticated; only store failures are reported otherwise.
func (s *UserService) Authenticate(ctx context.Context, token string, now time.Time) (*models.User, error) {
	if token == "" {
		s.metrics.AuthFailure()
		return nil, common.ErrUnauthenticated
	}

	subject, err := s.tokens.Validate(token, now)
	if err != nil {
		s.metrics.AuthFailure()
		s.logger.Debug(ctx, "token rejected", "reason", err.Error())
		return nil, common.ErrUnauthenticated
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).GetByEmail(ctx, subject)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.metrics.AuthFailure()
			return nil, common.ErrUnauthenticated
		}
		return nil, classify(err)
	}
	return user, nil
}

func (s *UserService) CreateUser(ctx context.Context, username, email, password string) (*models.User, error) {
	if err := validateUser(username, email, password); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, classify(err)
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		if err := checkUnique(ctx, repo, username, email, 0); err != nil {
			return err
		}
		var err error
		created, err = repo.Create(ctx, &models.User{Username: username, Email: email, PasswordHash: hash})
		return err
	})
	if err != nil {
		s.countConflict(err)
		return nil, classify(err)
	}

	s.logger.Info(ctx, "user created", "user_id", created.ID)
	return created, nil
}

func (s *UserService) ListUsers(ctx context.Context, page models.Page) ([]*models.User, error) {
	page, err := s.paging.Page(page)
	if err != nil {
		return nil, err
	}

	var result []*models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		result, err = s.repomanager.Users(tx).List(ctx, page)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return result, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return user, nil
}

// UpdateUser replaces the caller's username, email and password. The
// uniqueness check ignores the caller's own row.
func (s *UserService) UpdateUser(ctx context.Context, caller *models.User, username, email, password string) (*models.User, error) {
	if err := validateUser(username, email, password); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, classify(err)
	}

	var updated *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		if err := checkUnique(ctx, repo, username, email, caller.ID); err != nil {
			return err
		}
		var err error
		updated, err = repo.Update(ctx, &models.User{
			ID:           caller.ID,
			Username:     username,
			Email:        email,
			PasswordHash: hash,
		})
		return err
	})
	if err != nil {
		s.countConflict(err)
		return nil, classify(err)
	}
	return updated, nil
}

// DeleteUser removes the caller together with all of their tasks.
func (s *UserService) DeleteUser(ctx context.Context, caller *models.User) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Users(tx).Delete(ctx, caller.ID)
	})
	if err != nil {
		return classify(err)
	}
	s.logger.Info(ctx, "user deleted", "user_id", caller.ID)
	return nil
}

func (s *UserService) countConflict(err error) {
	var ce *common.ConflictError
	if errors.As(err, &ce) {
		s.metrics.Conflict(ce.Field)
	}
}

// checkUnique reports a ConflictError when another user already holds
// username or email. Username is checked first. excludeID is the id of the
// user being updated, or 0.
func checkUnique(ctx context.Context, repo users.Repository, username, email string, excludeID int64) error {
	holders, err := repo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return err
	}
	for _, u := range holders {
		if u.ID != excludeID && u.Username == username {
			return &common.ConflictError{Field: common.FieldUsername}
		}
	}
	for _, u := range holders {
		if u.ID != excludeID && u.Email == email {
			return &common.ConflictError{Field: common.FieldEmail}
		}
	}
	return nil
}
