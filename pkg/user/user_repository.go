package user

import (
	"context"
	"errors"
	"sync"

	"mealbridge/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type (
	// UserRepository is the read side of the account collaborator that
	// donations need: donor display fields and contact e-mail.
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		GetUsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.User, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUserNotFound
	}
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.User, error) {
	result := make(map[uuid.UUID]*entities.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var users []*entities.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]entities.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: make(map[uuid.UUID]entities.User)}
}

func (r *InMemoryUserRepository) CreateUser(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *InMemoryUserRepository) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[key]; ok {
		return &u, nil
	}
	return nil, ErrUserNotFound
}

func (r *InMemoryUserRepository) GetUsersByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[uuid.UUID]*entities.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			result[id] = &u
		}
	}
	return result, nil
}
