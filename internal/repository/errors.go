package repository

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	colUsers     = "users"
	colStores    = "stores"
	colEmployees = "employees"
	colProducts  = "products"
	colInventory = "inventory"
	colMovements = "movements"
	colSettings  = "settings"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// IsIndexMissing reports whether err is Firestore rejecting a query for lack of a
// composite index.
func IsIndexMissing(err error) bool {
	return status.Code(err) == codes.FailedPrecondition
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
