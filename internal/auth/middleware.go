package auth

import (
	"strings"

	"github.com/pfotenwerk/backoffice/internal/policy"
	"github.com/valyala/fasthttp"
)

const actorKey = "auth.actor"

// Middleware verifies the bearer token and stores the actor on the request.
// Requests without a valid token are rejected before the handler runs.
func Middleware(tokens *TokenManager) func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			header := string(ctx.Request.Header.Peek("Authorization"))
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(ctx, "missing bearer token")
				return
			}

			actor, err := tokens.Verify(token)
			if err != nil {
				unauthorized(ctx, "invalid or expired token")
				return
			}

			ctx.SetUserValue(actorKey, actor)
			next(ctx)
		}
	}
}

// ActorFrom returns the actor stored by Middleware. The bool is false on
// routes that skipped authentication.
func ActorFrom(ctx *fasthttp.RequestCtx) (policy.Actor, bool) {
	actor, ok := ctx.UserValue(actorKey).(policy.Actor)
	return actor, ok
}

// WithActor stores an actor on the request. Test helper.
func WithActor(ctx *fasthttp.RequestCtx, actor policy.Actor) {
	ctx.SetUserValue(actorKey, actor)
}

func unauthorized(ctx *fasthttp.RequestCtx, message string) {
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	ctx.SetContentType("application/json")
	ctx.SetBodyString(`{"message":"` + message + `"}`)
}
