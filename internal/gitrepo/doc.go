// Package gitrepo contains helpers for reasoning about Git repositories that
// gitcheat transfers.
//
// It validates repository locators, derives the transient clone name from a
// source locator, and inventories the references of a bare clone with go-git.
package gitrepo
