package app

import "os/exec"

// Composer prepares an external editor session for writing a post.
type Composer interface {
	// Cmd returns the editor command and the temp file it edits.
	// replyingTo names the post author when composing a reply.
	Cmd(content, replyingTo string) (*exec.Cmd, string, error)

	// ReadContent returns the edited text and removes the temp file.
	ReadContent(path string) (string, error)
}
