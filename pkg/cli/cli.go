package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// Prompter asks questions on the terminal. Prompts are rendered on stderr so stdout
// stays clean for status lines.
type Prompter struct{}

func (Prompter) Confirm(question string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     question,
		IsConfirm: true,
		Stdout:    os.Stderr,
	}

	_, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Choose lets the user pick one of options and returns its index.
func (Prompter) Choose(label string, options []string) (int, error) {
	if len(options) == 1 {
		return 0, nil
	}

	searcher := func(input string, idx int) bool {
		return strings.Contains(strings.ToLower(options[idx]), strings.ToLower(input))
	}

	size := len(options)
	if size >= 10 {
		size = 10
	}

	selector := promptui.Select{
		Label:        label,
		Items:        options,
		Searcher:     searcher,
		HideSelected: true,
		Size:         size,
		Templates: &promptui.SelectTemplates{
			Active:   fmt.Sprintf("%s {{ . | cyan }}", promptui.IconSelect),
			Inactive: "  {{ . }}",
			Selected: "{{ . }}",
		},
	}
	selector.Stdout = os.Stderr

	index, _, err := selector.Run()
	if err != nil {
		return -1, err
	}
	return index, nil
}

func (Prompter) Ask(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:  label,
		Stdout: os.Stderr,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("empty input")
			}
			return nil
		},
	}
	return prompt.Run()
}
