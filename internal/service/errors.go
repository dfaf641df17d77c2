package service

import (
	"github.com/etymograph/moderation/internal/auth"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func requireIdentity(caller *auth.Identity) error {
	if caller == nil || caller.UserID == "" {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	return nil
}

// requireAdmin is the guard for queue operations. It distinguishes a missing
// identity from one without the admin claim.
func requireAdmin(caller *auth.Identity) error {
	if err := requireIdentity(caller); err != nil {
		return err
	}
	if !caller.Admin {
		return status.Error(codes.PermissionDenied, "admin access required")
	}
	return nil
}

func invalidArgument(format string, args ...interface{}) error {
	return status.Errorf(codes.InvalidArgument, format, args...)
}

// internalError logs the underlying cause and returns a client-safe error.
func (s *Service) internalError(msg string, err error, fields ...zap.Field) error {
	s.log.Error(msg, append(fields, zap.Error(err))...)
	return status.Error(codes.Internal, msg)
}
