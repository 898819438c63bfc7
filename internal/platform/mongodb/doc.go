// Package mongodb implements the store interfaces on top of MongoDB.
//
// Both stores carry a base filter (non-secret tours, active users) that is
// merged over client-derived query filters, so reserved visibility rules
// cannot be overridden from the outside.
package mongodb
