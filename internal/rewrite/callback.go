package rewrite

import (
	"strings"

	"github.com/valyala/fasttemplate"
)

const (
	callbackTemplateStartTagConstant = "<<"
	callbackTemplateEndTagConstant   = ">>"
	callbackAuthorNameTagConstant    = "author_name"
	callbackAuthorEmailTagConstant   = "author_email"
	callbackMessageBlockTagConstant  = "message_block"
	callbackLineSeparatorConstant    = "\n"
	pythonQuoteConstant              = "'"
)

const identityCallbackTemplate = `commit.author_name = commit.committer_name = <<author_name>>.encode('utf-8')
commit.author_email = commit.committer_email = <<author_email>>.encode('utf-8')
<<message_block>>`

const messageDecodeStatement = "message = commit.message.decode('utf-8', errors='replace')"

const messageReplaceTemplate = "message = message.replace(<<old>>, <<new>>)"

const messageEncodeStatement = "commit.message = message.encode('utf-8')"

var pythonStringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\x00", `\x00`,
	"\x0b", `\x0b`,
	"\x0c", `\x0c`,
	"\x1c", `\x1c`,
	"\x1d", `\x1d`,
	"\x1e", `\x1e`,
	"\u0085", `\x85`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// CallbackRenderer renders the Python body handed to git-filter-repo's
// --commit-callback option.
type CallbackRenderer struct {
	identityTemplate *fasttemplate.Template
	replaceTemplate  *fasttemplate.Template
}

// NewCallbackRenderer parses the callback templates.
func NewCallbackRenderer() *CallbackRenderer {
	return &CallbackRenderer{
		identityTemplate: fasttemplate.New(identityCallbackTemplate, callbackTemplateStartTagConstant, callbackTemplateEndTagConstant),
		replaceTemplate:  fasttemplate.New(messageReplaceTemplate, callbackTemplateStartTagConstant, callbackTemplateEndTagConstant),
	}
}

// Render produces a callback that overwrites author and committer identity on
// every commit and, when substitutions are present, rewrites the message.
func (renderer *CallbackRenderer) Render(identity Identity, substitutions SubstitutionSet) string {
	return renderer.identityTemplate.ExecuteString(map[string]any{
		callbackAuthorNameTagConstant:   PythonStringLiteral(identity.Name),
		callbackAuthorEmailTagConstant:  PythonStringLiteral(identity.Email),
		callbackMessageBlockTagConstant: renderer.renderMessageBlock(substitutions),
	})
}

func (renderer *CallbackRenderer) renderMessageBlock(substitutions SubstitutionSet) string {
	if substitutions.Empty() {
		return ""
	}

	statements := make([]string, 0, len(substitutions)+2)
	statements = append(statements, messageDecodeStatement)
	for _, substitution := range substitutions {
		statements = append(statements, renderer.replaceTemplate.ExecuteString(map[string]any{
			"old": PythonStringLiteral(substitution.Old),
			"new": PythonStringLiteral(substitution.New),
		}))
	}
	statements = append(statements, messageEncodeStatement)
	return strings.Join(statements, callbackLineSeparatorConstant) + callbackLineSeparatorConstant
}

// PythonStringLiteral quotes value as a single-quoted Python string literal.
func PythonStringLiteral(value string) string {
	return pythonQuoteConstant + pythonStringEscaper.Replace(value) + pythonQuoteConstant
}
