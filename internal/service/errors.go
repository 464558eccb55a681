package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/splitroom/internal/auth"
	"github.com/mmynk/splitroom/internal/calculator"
	"github.com/mmynk/splitroom/internal/middleware"
	"github.com/mmynk/splitroom/internal/storage"
)

var (
	errNotMember = errors.New("resource belongs to another household")
	errNotOwner  = errors.New("resource belongs to another user")
	errNotAdmin  = errors.New("administrator only")
)

// toConnectError maps storage and calculator errors onto Connect codes.
// Errors that already carry a code pass through unchanged.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, calculator.ErrInvalidRecord),
		errors.Is(err, calculator.ErrUnknownMember),
		errors.Is(err, calculator.ErrDuplicateMember):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

func permissionDenied(err error) error {
	return connect.NewError(connect.CodePermissionDenied, err)
}

// identity is the authenticated caller.
type identity struct {
	UserID  string
	Email   string
	GroupID string
}

// callerFrom reads the identity set by the auth interceptor.
func callerFrom(ctx context.Context) (identity, error) {
	id := identity{
		UserID:  middleware.GetUserID(ctx),
		Email:   middleware.GetEmail(ctx),
		GroupID: middleware.GetGroupID(ctx),
	}
	if id.UserID == "" {
		return identity{}, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return id, nil
}
