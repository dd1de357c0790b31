// Package auth provides the token validation contract used by the SSE
// bearer gatekeeper and a JWT implementation of it.
//
// The core abstraction is TokenValidator — callers that gate access to a
// stream depend on the interface, not on JWT specifics:
//
//	svc, _ := auth.NewService(&auth.Config{Secret: "..."})
//	sse.Attach(router, "/events", hub,
//	    sse.WithGatekeeper(sse.BearerGatekeeper(svc.AsValidator())))
package auth
