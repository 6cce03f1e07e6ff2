package view

import (
	"context"

	"github.com/rogerio-castellano/shelf-locator/internal/repo"
	"github.com/rogerio-castellano/shelf-locator/internal/resolver"
)

// ResolverLookup answers map lookups in process, so a page load is throttled
// once for the visitor's IP instead of again as a loopback API call.
type ResolverLookup struct {
	r *resolver.Resolver
}

func NewResolverLookup(r *resolver.Resolver) *ResolverLookup {
	return &ResolverLookup{r: r}
}

func (l *ResolverLookup) ByPos(ctx context.Context, pos string) (resolver.Result, error) {
	return l.r.Resolve(ctx, repo.FieldPos, pos)
}

func (l *ResolverLookup) ByCode(ctx context.Context, code string) (resolver.Result, error) {
	return l.r.Resolve(ctx, repo.FieldCode, code)
}
