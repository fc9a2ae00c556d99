package ports

import "go.trai.ch/mockcode/internal/core/domain"

// InvocationHasher computes the content address of a staged invocation.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type InvocationHasher interface {
	// ComputeIdentity hashes the label and every file under root the policy includes.
	ComputeIdentity(label, root string, policy domain.FilterPolicy) (domain.Identity, error)
}
