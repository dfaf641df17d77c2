package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var codeNames = map[codes.Code]string{
	codes.Unauthenticated:    "unauthenticated",
	codes.PermissionDenied:   "permission-denied",
	codes.InvalidArgument:    "invalid-argument",
	codes.NotFound:           "not-found",
	codes.FailedPrecondition: "failed-precondition",
	codes.Internal:           "internal",
}

var codeStatus = map[codes.Code]int{
	codes.Unauthenticated:    http.StatusUnauthorized,
	codes.PermissionDenied:   http.StatusForbidden,
	codes.InvalidArgument:    http.StatusBadRequest,
	codes.NotFound:           http.StatusNotFound,
	codes.FailedPrecondition: http.StatusConflict,
	codes.Internal:           http.StatusInternalServerError,
}

// writeError renders a service error as {"error", "code"}. Errors that are
// not status errors are reported as internal without their message.
func writeError(c *gin.Context, err error) {
	st, ok := status.FromError(err)
	if !ok {
		st = status.New(codes.Internal, "internal error")
	}

	httpStatus, known := codeStatus[st.Code()]
	if !known {
		st = status.New(codes.Internal, "internal error")
		httpStatus = http.StatusInternalServerError
	}

	c.JSON(httpStatus, gin.H{
		"error": st.Message(),
		"code":  codeNames[st.Code()],
	})
}
