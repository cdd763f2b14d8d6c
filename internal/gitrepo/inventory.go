package gitrepo

import (
	"fmt"
	"sort"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
)

const (
	repositoryOpenErrorTemplateConstant     = "unable to open repository %s: %w"
	referenceListingErrorTemplateConstant   = "unable to list references in %s: %w"
	referenceIterationErrorTemplateConstant = "unable to read references in %s: %w"
)

// ReferenceInventory lists the branches and tags held by a repository.
type ReferenceInventory struct {
	Branches []string
	Tags     []string
	Other    []string
}

// ReferenceCount returns the number of references in the inventory.
func (inventory ReferenceInventory) ReferenceCount() int {
	return len(inventory.Branches) + len(inventory.Tags) + len(inventory.Other)
}

// ReferenceInspector reads reference inventories from repositories on disk.
type ReferenceInspector struct{}

// NewReferenceInspector constructs a ReferenceInspector.
func NewReferenceInspector() *ReferenceInspector {
	return &ReferenceInspector{}
}

// Inspect opens the repository at repositoryPath (bare or not) and classifies
// its references. Symbolic references such as HEAD are skipped.
func (inspector *ReferenceInspector) Inspect(repositoryPath string) (ReferenceInventory, error) {
	repository, openError := git.PlainOpen(repositoryPath)
	if openError != nil {
		return ReferenceInventory{}, fmt.Errorf(repositoryOpenErrorTemplateConstant, repositoryPath, openError)
	}

	referenceIterator, listingError := repository.References()
	if listingError != nil {
		return ReferenceInventory{}, fmt.Errorf(referenceListingErrorTemplateConstant, repositoryPath, listingError)
	}
	defer referenceIterator.Close()

	references := make([]*plumbing.Reference, 0)
	iterationError := referenceIterator.ForEach(func(reference *plumbing.Reference) error {
		references = append(references, reference)
		return nil
	})
	if iterationError != nil {
		return ReferenceInventory{}, fmt.Errorf(referenceIterationErrorTemplateConstant, repositoryPath, iterationError)
	}

	return ClassifyReferences(references), nil
}

// ClassifyReferences sorts references into branches, tags, and everything else.
func ClassifyReferences(references []*plumbing.Reference) ReferenceInventory {
	inventory := ReferenceInventory{}
	for _, reference := range references {
		if reference == nil || reference.Type() != plumbing.HashReference {
			continue
		}
		referenceName := reference.Name()
		switch {
		case referenceName.IsBranch():
			inventory.Branches = append(inventory.Branches, referenceName.Short())
		case referenceName.IsTag():
			inventory.Tags = append(inventory.Tags, referenceName.Short())
		default:
			inventory.Other = append(inventory.Other, referenceName.String())
		}
	}
	sort.Strings(inventory.Branches)
	sort.Strings(inventory.Tags)
	sort.Strings(inventory.Other)
	return inventory
}
