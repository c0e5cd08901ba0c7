package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// getText asks one question and reads a single trimmed line.
func (a *App) getText(prompt string) (string, error) {
	a.reader.SetPrompt(prompt + ": ")
	defer a.reader.SetPrompt(a.prompt())

	line, err := a.reader.Readline()
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// getPassword reads a password from the terminal without echo.
func (a *App) getPassword(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt+": ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// getMultiline reads lines until an empty one; used for note content.
func (a *App) getMultiline(prompt string) (string, error) {
	fmt.Fprintln(a.out, prompt+" (finish with an empty line):")
	a.reader.SetPrompt("| ")
	defer a.reader.SetPrompt(a.prompt())

	var lines []string
	for {
		line, err := a.reader.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// confirm asks a yes/no question before a destructive action.
// Anything but an explicit yes declines.
func (a *App) confirm(question string) bool {
	answer, err := a.getText(question + " [y/N]")
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// parseOnOff turns an on/off argument into a bool.
func parseOnOff(arg string) (bool, error) {
	switch strings.ToLower(arg) {
	case "on", "true", "public", "yes":
		return true, nil
	case "off", "false", "private", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", arg)
	}
}
