package gitrepo_test

import (
	"testing"
	"time"

	git "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/temirov/gitcheat/internal/gitrepo"
)

const testCommitHashConstant = "0123456789abcdef0123456789abcdef01234567"

func TestClassifyReferences(testInstance *testing.T) {
	commitHash := plumbing.NewHash(testCommitHashConstant)
	references := []*plumbing.Reference{
		plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("main")),
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("main"), commitHash),
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("feature/login"), commitHash),
		plumbing.NewHashReference(plumbing.NewTagReferenceName("v1.0.0"), commitHash),
		plumbing.NewHashReference(plumbing.ReferenceName("refs/pull/7/head"), commitHash),
		nil,
	}

	inventory := gitrepo.ClassifyReferences(references)
	require.Equal(testInstance, []string{"feature/login", "main"}, inventory.Branches)
	require.Equal(testInstance, []string{"v1.0.0"}, inventory.Tags)
	require.Equal(testInstance, []string{"refs/pull/7/head"}, inventory.Other)
	require.Equal(testInstance, 4, inventory.ReferenceCount())
}

func TestReferenceInspectorRejectsNonRepository(testInstance *testing.T) {
	inspector := gitrepo.NewReferenceInspector()
	_, inspectError := inspector.Inspect(testInstance.TempDir())
	require.Error(testInstance, inspectError)
}

func TestReferenceInspectorInspectsBareRepository(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	repository, initError := git.PlainInit(repositoryPath, true)
	require.NoError(testInstance, initError)

	signature := &object.Signature{Name: "Bob", Email: "bob@example.com", When: time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)}

	treeObject := repository.Storer.NewEncodedObject()
	require.NoError(testInstance, (&object.Tree{}).Encode(treeObject))
	treeHash, treeError := repository.Storer.SetEncodedObject(treeObject)
	require.NoError(testInstance, treeError)

	commitObject := repository.Storer.NewEncodedObject()
	commit := &object.Commit{Author: *signature, Committer: *signature, Message: "Initial commit\n", TreeHash: treeHash}
	require.NoError(testInstance, commit.Encode(commitObject))
	commitHash, commitError := repository.Storer.SetEncodedObject(commitObject)
	require.NoError(testInstance, commitError)

	for _, branchName := range []string{"main", "dev"} {
		require.NoError(testInstance, repository.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName(branchName), commitHash)))
	}
	_, tagError := repository.CreateTag("v1", commitHash, &git.CreateTagOptions{Tagger: signature, Message: "Release v1"})
	require.NoError(testInstance, tagError)

	inventory, inspectError := gitrepo.NewReferenceInspector().Inspect(repositoryPath)
	require.NoError(testInstance, inspectError)
	require.Equal(testInstance, []string{"dev", "main"}, inventory.Branches)
	require.Equal(testInstance, []string{"v1"}, inventory.Tags)
	require.Empty(testInstance, inventory.Other)
	require.Equal(testInstance, 3, inventory.ReferenceCount())
}
