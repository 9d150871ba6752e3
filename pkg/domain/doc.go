// Package domain defines the sanctuary's residents, housing units, error kinds and
// rule evaluation primitives. It is pure: nothing here imports infrastructure or
// internal packages.
package domain
