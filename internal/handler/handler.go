// Package handler is the first layer after the router.
//
// It binds and validates request envelopes using the
// validation package and hands them to the GraphQL engine,
// and it serves the system endpoints (health, playground).
package handler
