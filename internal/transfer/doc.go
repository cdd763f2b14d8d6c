// Package transfer moves a repository's history to a new remote, rewriting
// commit authorship and optionally commit messages along the way.
package transfer
