// Package testutil contains helpers used across tests to reduce boilerplate
// when constructing forms and payloads and when asserting on requests sent
// to a pub/sub service. They are not intended for production usage.
package testutil
