package util

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PromptYN asks a yes/no question on w and reads the answer from r. An empty
// answer or a read error returns def.
func PromptYN(r io.Reader, w io.Writer, prompt string, def bool) bool {
	reader := bufio.NewReader(r)

	if def {
		fmt.Fprintf(w, "%s (Y/n): ", prompt)
	} else {
		fmt.Fprintf(w, "%s (y/N): ", prompt)
	}

	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return def
	}

	response = strings.TrimSpace(response)

	if response == "" {
		return def
	}

	return strings.ToLower(response) == "y"
}
