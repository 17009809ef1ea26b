// Package middleware provides composable wrappers around a TreeStore.
package middleware

import "github.com/jobatlas/jobatlas/pkg/ports"

// Middleware allows wrapping a TreeStore to add behavior.
type Middleware func(ports.TreeStore) ports.TreeStore

// Chain applies middlewares so the first one listed sees calls first.
func Chain(store ports.TreeStore, middlewares ...Middleware) ports.TreeStore {
	for i := len(middlewares) - 1; i >= 0; i-- {
		store = middlewares[i](store)
	}
	return store
}
