package auth

import (
	"github.com/iliyamo/qna-service/internal/model"
	"github.com/iliyamo/qna-service/internal/repository"
)

// Guards are side-effect-free authorization checks used inside
// business operations.  They read the live principal, never a cached
// snapshot, and a returned ErrForbidden is fatal to the operation:
// callers must invoke guards before any mutation.

// RequireRole fails with ErrForbidden unless the principal holds the
// given role.
func RequireRole(p Principal, role model.Role) error {
	if !p.HasRole(role) {
		return repository.ErrForbidden
	}
	return nil
}

// RequireUser fails with ErrForbidden unless the principal is a plain
// USER (admins are excluded on purpose: an admin answers questions,
// it does not post them).
func RequireUser(p Principal) error {
	if !p.IsUser() {
		return repository.ErrForbidden
	}
	return nil
}

// RequireSelf fails with ErrForbidden unless the principal is the
// identity it claims to act for.
func RequireSelf(p Principal, userID uint64) error {
	if p.UserID != userID {
		return repository.ErrForbidden
	}
	return nil
}

// RequireOwnerOrRole fails with ErrForbidden unless the principal
// owns the resource or holds the escape-hatch role (ADMIN for every
// caller in this codebase).
func RequireOwnerOrRole(p Principal, ownerID uint64, role model.Role) error {
	if p.UserID == ownerID || p.HasRole(role) {
		return nil
	}
	return repository.ErrForbidden
}
