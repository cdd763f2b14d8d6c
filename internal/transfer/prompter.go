package transfer

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// IOPrompter asks questions on a writer and reads answers from a reader.
type IOPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOPrompter constructs a prompter from the provided reader and writer.
func NewIOPrompter(input io.Reader, output io.Writer) *IOPrompter {
	return &IOPrompter{reader: bufio.NewReader(input), writer: output}
}

// Ask writes the prompt and returns the trimmed response line.
func (prompter *IOPrompter) Ask(prompt string) (string, error) {
	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, prompt); writeError != nil {
			return "", writeError
		}
	}

	response, readError := prompter.reader.ReadString('\n')
	if readError != nil && !errors.Is(readError, io.EOF) {
		return "", readError
	}
	if errors.Is(readError, io.EOF) && len(response) == 0 {
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(response), nil
}

// Confirm interprets affirmative responses (y/yes). End of input counts as no.
func (prompter *IOPrompter) Confirm(prompt string) (bool, error) {
	response, askError := prompter.Ask(prompt)
	if askError != nil {
		if errors.Is(askError, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, askError
	}

	switch strings.ToLower(response) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Say writes a line of output.
func (prompter *IOPrompter) Say(message string) error {
	if prompter.writer == nil {
		return nil
	}
	_, writeError := io.WriteString(prompter.writer, message+"\n")
	return writeError
}
