// Package filterrepo locates the git-filter-repo executable and, when it is
// missing, tries an ordered list of installation strategies.
package filterrepo
