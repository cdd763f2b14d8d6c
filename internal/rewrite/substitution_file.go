package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	substitutionFileReadErrorTemplate  = "unable to read substitution file %s: %w"
	substitutionFileParseErrorTemplate = "unable to parse substitution file %s: %w"
)

type substitutionDocument struct {
	Replacements SubstitutionSet `yaml:"replacements"`
}

// LoadSubstitutionFile reads an ordered substitution list from a YAML file.
// The file is either a top-level sequence of {old, new} mappings or a mapping
// with a "replacements" key holding that sequence. An empty file yields an
// empty set.
func LoadSubstitutionFile(filePath string) (SubstitutionSet, error) {
	content, readError := os.ReadFile(filePath)
	if readError != nil {
		return nil, fmt.Errorf(substitutionFileReadErrorTemplate, filePath, readError)
	}

	substitutions, parseError := ParseSubstitutions(content)
	if parseError != nil {
		return nil, fmt.Errorf(substitutionFileParseErrorTemplate, filePath, parseError)
	}
	return substitutions, nil
}

// ParseSubstitutions decodes YAML substitution content.
func ParseSubstitutions(content []byte) (SubstitutionSet, error) {
	var rootNode yaml.Node
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	if decodeError := decoder.Decode(&rootNode); decodeError != nil {
		if errors.Is(decodeError, io.EOF) {
			return SubstitutionSet{}, nil
		}
		return nil, decodeError
	}

	var substitutions SubstitutionSet
	if len(rootNode.Content) > 0 && rootNode.Content[0].Kind == yaml.MappingNode {
		var document substitutionDocument
		if decodeError := rootNode.Decode(&document); decodeError != nil {
			return nil, decodeError
		}
		substitutions = document.Replacements
	} else if decodeError := rootNode.Decode(&substitutions); decodeError != nil {
		return nil, decodeError
	}

	if validationError := substitutions.Validate(); validationError != nil {
		return nil, validationError
	}
	if substitutions == nil {
		substitutions = SubstitutionSet{}
	}
	return substitutions, nil
}
