package classpath

import (
	"context"

	"go.trai.ch/jmodel/internal/core/domain"
)

type resolvingKey struct{}

type initializingKey struct{}

type containerKey struct {
	project string
	path    domain.Path
}

// withResolving returns a context marking project as being resolved by the caller.
func withResolving(ctx context.Context, project string) context.Context {
	prev, _ := ctx.Value(resolvingKey{}).(map[string]struct{})
	next := make(map[string]struct{}, len(prev)+1)
	for p := range prev {
		next[p] = struct{}{}
	}
	next[project] = struct{}{}
	return context.WithValue(ctx, resolvingKey{}, next)
}

func isResolving(ctx context.Context, project string) bool {
	set, _ := ctx.Value(resolvingKey{}).(map[string]struct{})
	_, ok := set[project]
	return ok
}

// withInitializing returns a context marking a container as being initialized by the caller.
func withInitializing(ctx context.Context, key containerKey) context.Context {
	prev, _ := ctx.Value(initializingKey{}).(map[containerKey]struct{})
	next := make(map[containerKey]struct{}, len(prev)+1)
	for k := range prev {
		next[k] = struct{}{}
	}
	next[key] = struct{}{}
	return context.WithValue(ctx, initializingKey{}, next)
}

func isInitializing(ctx context.Context, key containerKey) bool {
	set, _ := ctx.Value(initializingKey{}).(map[containerKey]struct{})
	_, ok := set[key]
	return ok
}
