package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EnvEditor prepares an external editor command using $EDITOR (fallback: "vi").
// It does NOT run the editor itself; callers hand the returned *exec.Cmd to
// tea.ExecProcess so Bubble Tea releases the terminal while it runs.
type EnvEditor struct{}

// NewEnvEditor creates an EnvEditor.
func NewEnvEditor() *EnvEditor {
	return &EnvEditor{}
}

const instructionComment = `<!--
skyline: write your post below.

- SAVE and EXIT to publish (e.g., :wq in vi).
- Emptying the file or making NO CHANGES will cancel.
- Posts are limited to 300 characters.
%s-->

`

// Cmd writes content and an instruction header to a temp file and returns
// the editor command for it. replyingTo is shown in the header when set.
func (e *EnvEditor) Cmd(content, replyingTo string) (*exec.Cmd, string, error) {
	parts := strings.Fields(os.Getenv("EDITOR"))
	if len(parts) == 0 {
		parts = []string{"vi"}
	}

	tmpFile, err := os.CreateTemp("", "skyline-*.md")
	if err != nil {
		return nil, "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer tmpFile.Close()

	extra := ""
	if replyingTo != "" {
		extra = "- Replying to " + replyingTo + "\n"
	}
	if _, err := tmpFile.WriteString(fmt.Sprintf(instructionComment, extra) + content); err != nil {
		os.Remove(tmpPath)
		return nil, "", fmt.Errorf("writing to temp file: %w", err)
	}

	args := append(parts[1:], tmpPath)
	return exec.Command(parts[0], args...), tmpPath, nil
}

// ReadContent reads the temp file, strips the instruction header, trims
// whitespace and removes the file.
func (e *EnvEditor) ReadContent(path string) (string, error) {
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading temp file: %w", err)
	}

	content := string(data)
	if idx := strings.Index(content, "-->"); idx != -1 {
		content = content[idx+3:]
	}
	return strings.TrimSpace(content), nil
}
