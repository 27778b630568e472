package employee

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

type memRepo struct {
	mu     sync.Mutex
	nextID uint64
	items  []*Employee
}

func (r *memRepo) Create(_ context.Context, e *Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.Email == e.Email {
			return ErrEmailDuplicate
		}
		if it.Code == e.Code {
			return ErrCodeDuplicate
		}
	}
	r.nextID++
	e.ID = r.nextID
	r.items = append(r.items, e)
	return nil
}

func (r *memRepo) find(match func(*Employee) bool) (*Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if match(it) {
			return it, nil
		}
	}
	return nil, ErrEmployeeNotFound
}

func (r *memRepo) FindByID(_ context.Context, id uint64) (*Employee, error) {
	return r.find(func(e *Employee) bool { return e.ID == id })
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*Employee, error) {
	return r.find(func(e *Employee) bool { return e.Email == email })
}

func (r *memRepo) FindByCode(_ context.Context, code string) (*Employee, error) {
	return r.find(func(e *Employee) bool { return e.Code == code })
}

func (r *memRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

func newTestService() (Service, *memRepo) {
	repo := &memRepo{}
	return NewServiceWithCost(repo, bcrypt.MinCost), repo
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	e, err := svc.Register(ctx, "E001", "alice@example.com", "passw0rd", "Alice", "")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), e.ID)
	assert.Equal(t, RoleStaff, e.Role)
	assert.True(t, e.Active)
	assert.NotEqual(t, "passw0rd", e.PasswordHash)

	_, err = svc.Register(ctx, "E002", "alice@example.com", "passw0rd", "Alice2", RoleStaff)
	assert.ErrorIs(t, err, ErrEmailDuplicate)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name     string
		code     string
		email    string
		password string
		role     Role
		wantCode int
	}{
		{"bad code", "e1", "a@example.com", "passw0rd", RoleStaff, apperrors.ErrCodeInvalidParams},
		{"bad email", "E001", "not-an-email", "passw0rd", RoleStaff, apperrors.ErrCodeInvalidParams},
		{"short password", "E001", "a@example.com", "pw1", RoleStaff, apperrors.ErrCodeWeakPassword},
		{"no digit", "E001", "a@example.com", "password", RoleStaff, apperrors.ErrCodeWeakPassword},
		{"bad role", "E001", "a@example.com", "passw0rd", "root", apperrors.ErrCodeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.code, tt.email, tt.password, "Alice", tt.role)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.GetAppError(err).Code)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "E001", "alice@example.com", "passw0rd", "Alice", RoleAdmin)
	require.NoError(t, err)

	e, err := svc.Authenticate(ctx, "alice@example.com", "passw0rd")
	require.NoError(t, err)
	assert.True(t, e.IsAdmin())

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrongpass1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "passw0rd")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword, "未注册邮箱与密码错误返回相同错误")

	repo.items[0].Deactivate()
	_, err = svc.Authenticate(ctx, "alice@example.com", "passw0rd")
	assert.ErrorIs(t, err, ErrInactive)
}
