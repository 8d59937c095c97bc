package auth

import (
	"context"
	"fmt"
	"slices"

	"ppms/internal/models"
)

// Require returns the session user when its role is one of roles. With no
// roles any logged-in user passes.
func (g *Gate) Require(ctx context.Context, roles ...models.Role) (*models.User, error) {
	user, err := g.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	if len(roles) > 0 && !slices.Contains(roles, user.Role) {
		return nil, fmt.Errorf("%w: %s session cannot use this command", ErrForbidden, user.Role)
	}
	return user, nil
}

// HomeFor names the landing command for a role, the way the original
// router redirected admins and employees to different dashboards.
func HomeFor(role models.Role) string {
	if role == models.RoleAdmin {
		return "dashboard"
	}
	return "history"
}
