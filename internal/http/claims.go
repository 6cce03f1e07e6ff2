package http

import (
	"context"
	"net/http"
)

// requestInfo is filled by inner middleware and read back by RequestLogger
// once the handler chain has returned.
type requestInfo struct {
	subject string
}

const requestInfoKey = contextKey("request_info")

func withRequestInfo(r *http.Request) (*http.Request, *requestInfo) {
	info := &requestInfo{}
	return r.WithContext(context.WithValue(r.Context(), requestInfoKey, info)), info
}

// setSubject records the authenticated subject for the request log.
func setSubject(ctx context.Context, subject string) {
	if info, ok := ctx.Value(requestInfoKey).(*requestInfo); ok {
		info.subject = subject
	}
}
