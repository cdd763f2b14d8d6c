// Package rewrite models the history rewrite applied to a transferred
// repository: the identity written into every commit, the ordered message
// substitutions, and the git-filter-repo commit callback that applies them.
package rewrite
