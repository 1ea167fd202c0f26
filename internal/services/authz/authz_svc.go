// Package authz decides whether a user may act on a protected resource.
//
// A role grants "view_<resource>" and "edit_<resource>" permissions. Reading
// needs either of them, every other action needs the edit permission.
package authz

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"auctionhouse/internal/repository"
)

type Intent string

const (
	IntentRead  Intent = "read"
	IntentWrite Intent = "write"
)

type Resource string

const (
	ResourceAuction    Resource = "auction"
	ResourceBid        Resource = "bid"
	ResourceUser       Resource = "user"
	ResourceRole       Resource = "role"
	ResourcePermission Resource = "permission"
)

// Resources lists every protected resource.
var Resources = []Resource{ResourceAuction, ResourceBid, ResourceUser, ResourceRole, ResourcePermission}

func (r Resource) Valid() bool {
	for _, known := range Resources {
		if r == known {
			return true
		}
	}
	return false
}

func (r Resource) ViewPermission() string { return "view_" + string(r) }

func (r Resource) EditPermission() string { return "edit_" + string(r) }

const (
	ReasonNoRole            = "User has no role assigned"
	ReasonRoleNotFound      = "Role not found"
	ReasonUnknownResource   = "Unknown resource"
	ReasonMissingPermission = "Insufficient permissions"
	ReasonUserNotFound      = "User not found"
)

type Decision struct {
	Allowed bool
	Reason  string
}

// IntentFromMethod treats safe HTTP methods as reads.
func IntentFromMethod(method string) Intent {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return IntentRead
	default:
		return IntentWrite
	}
}

// Decide applies the permission rule to a set of granted permission names.
func Decide(intent Intent, resource Resource, granted []string) Decision {
	if !resource.Valid() {
		return Decision{Reason: ReasonUnknownResource}
	}
	hasView, hasEdit := false, false
	for _, name := range granted {
		switch name {
		case resource.ViewPermission():
			hasView = true
		case resource.EditPermission():
			hasEdit = true
		}
	}
	if hasEdit || (intent == IntentRead && hasView) {
		return Decision{Allowed: true}
	}
	return Decision{Reason: ReasonMissingPermission}
}

type DecisionRecorder interface {
	RecordAuthzDecision(resource, intent string, allowed bool)
}

type IAuthzService interface {
	// Authorize re-reads the user's role on every call, so role changes take
	// effect on the next request. Errors are lookup failures only.
	Authorize(ctx context.Context, userID string, intent Intent, resource Resource) (Decision, error)
}

type authzService struct {
	users    repository.UserRepository
	roles    repository.RoleRepository
	recorder DecisionRecorder
}

var _ IAuthzService = (*authzService)(nil)

func NewAuthzService(users repository.UserRepository, roles repository.RoleRepository, recorder DecisionRecorder) IAuthzService {
	return &authzService{users: users, roles: roles, recorder: recorder}
}

func (s *authzService) Authorize(ctx context.Context, userID string, intent Intent, resource Resource) (Decision, error) {
	d, err := s.decide(ctx, userID, intent, resource)
	if err != nil {
		return Decision{}, err
	}
	if s.recorder != nil {
		s.recorder.RecordAuthzDecision(string(resource), string(intent), d.Allowed)
	}
	if !d.Allowed {
		zap.L().Debug("authz_denied",
			zap.String("user_id", userID),
			zap.String("resource", string(resource)),
			zap.String("intent", string(intent)),
			zap.String("reason", d.Reason),
		)
	}
	return d, nil
}

func (s *authzService) decide(ctx context.Context, userID string, intent Intent, resource Resource) (Decision, error) {
	if !resource.Valid() {
		return Decision{Reason: ReasonUnknownResource}, nil
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Decision{}, err
	}
	if user == nil {
		return Decision{Reason: ReasonUserNotFound}, nil
	}
	if user.RoleID == nil {
		return Decision{Reason: ReasonNoRole}, nil
	}
	role, err := s.roles.FindByID(ctx, *user.RoleID)
	if err != nil {
		return Decision{}, err
	}
	if role == nil {
		return Decision{Reason: ReasonRoleNotFound}, nil
	}
	return Decide(intent, resource, role.PermissionNames()), nil
}
