package service

import (
	"context"
	"sync"
)

type userService struct {
	mu     sync.RWMutex
	userID string
}

// NewUserService constructs an empty [UserService]. The active user is set
// after unlock and cleared on lock.
func NewUserService() UserService {
	return &userService{}
}

func (u *userService) GetUserId(_ context.Context) (string, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	if u.userID == "" {
		return "", ErrNoActiveUser
	}
	return u.userID, nil
}

func (u *userService) SetActiveUser(userID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.userID = userID
}

func (u *userService) ClearActiveUser() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.userID = ""
}
