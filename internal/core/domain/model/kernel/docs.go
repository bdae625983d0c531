// Package kernel contains the shared value objects of the dispatch domain:
// entity identifiers and network addresses. These types are immutable, carry
// their own validation, and have no dependencies on other domain packages.
package kernel
