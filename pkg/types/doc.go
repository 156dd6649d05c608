// Package types defines the resource entity, the query and view types, the
// key-value storage contract, configuration, and the standard error values
// shared by every Shelf package.
package types
