// Package textutil provides small text helpers shared across packages:
// filesystem-safe name sanitization and token normalization.
package textutil
