package video

import (
	"fmt"
	"os/exec"
)

// Player launches an external player to show the picture at a timestamp.
type Player struct {
	// Binary is the player executable. Defaults to "mpv".
	Binary string
}

// Args returns the player arguments for starting path at seconds.
func (p Player) Args(path string, seconds float64) []string {
	return []string{fmt.Sprintf("--start=%.3f", seconds), "--pause", path}
}

// Preview blocks until the player exits.
func (p Player) Preview(path string, seconds float64) error {
	bin := p.Binary
	if bin == "" {
		bin = "mpv"
	}

	cmd := exec.Command(bin, p.Args(path, seconds)...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run %s: %w", bin, err)
	}
	return nil
}

// Available reports whether the command can be found on PATH.
func Available(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
