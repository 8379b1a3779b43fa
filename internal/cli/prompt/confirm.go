// Package prompt provides interactive terminal prompts for CLI commands.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

// IsAborted reports whether err means the user aborted the prompt.
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, ErrAborted)
}

// Runner runs a prompt and returns the entered text. *promptui.Prompt
// satisfies it; tests substitute their own.
type Runner interface {
	Run() (string, error)
}

// NewConfirm builds the yes/no prompt used by Confirm.
var NewConfirm = func(label string, defaultYes bool) Runner {
	defaultStr, defaultValue := "y/N", ""
	if defaultYes {
		defaultStr, defaultValue = "Y/n", "y"
	}
	return &promptui.Prompt{
		Label:     fmt.Sprintf("%s [%s]", label, defaultStr),
		IsConfirm: true,
		Default:   defaultValue,
	}
}

// Confirm prompts the user for yes/no confirmation.
// Returns ErrAborted if the user presses Ctrl+C.
func Confirm(label string, defaultYes bool) (bool, error) {
	result, err := NewConfirm(label, defaultYes).Run()
	return interpretConfirm(result, err, defaultYes)
}

func interpretConfirm(result string, err error, defaultYes bool) (bool, error) {
	switch {
	case err == nil:
	case IsAborted(err):
		return false, ErrAborted
	case errors.Is(err, promptui.ErrAbort):
		// promptui reports a "n" answer as ErrAbort
		return false, nil
	default:
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(result)) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ConfirmWithForce returns true immediately if force is true,
// otherwise prompts for confirmation.
func ConfirmWithForce(label string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	return Confirm(label, false)
}
