package track

// provider.go defines the collaborator contract every department implements
// to plug its own records into the protocol core.

import "context"

// DataProvider supplies application records to the envelope handler.
//
// Implementations signal "no matching application" by returning an error
// created with NewNotFoundError (optionally wrapped) - never a nil response -
// so absence is always distinguished from success. Any other error is
// treated as an internal provider failure and mapped to a 500.
//
// The lookup receives the request context and may perform asynchronous I/O
// (database, remote backend); the handler awaits it without blocking other
// in-flight requests. Connection pooling and other resource discipline is
// the provider's own concern.
type DataProvider interface {
	GetApplicationStatus(ctx context.Context, applicationID string, serviceID string, departmentName string, language string) (*StatusResponse, error)
}

// DataProviderFunc adapts a function to the DataProvider interface.
type DataProviderFunc func(ctx context.Context, applicationID string, serviceID string, departmentName string, language string) (*StatusResponse, error)

func (f DataProviderFunc) GetApplicationStatus(ctx context.Context, applicationID string, serviceID string, departmentName string, language string) (*StatusResponse, error) {
	return f(ctx, applicationID, serviceID, departmentName, language)
}
