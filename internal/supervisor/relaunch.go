package supervisor

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/warpdl/autoattend/common"
)

// ProcessRelauncher re-executes the current binary with the original
// arguments. On Unix the process image is replaced in place (the PID is
// kept); elsewhere a new process is spawned and the caller exits.
type ProcessRelauncher struct {
	// Args are the original invocation arguments, argv[0] included.
	Args []string
	// Executable defaults to os.Executable().
	Executable string
}

// NewProcessRelauncher creates a relauncher for args.
func NewProcessRelauncher(args []string) *ProcessRelauncher {
	return &ProcessRelauncher{Args: append([]string(nil), args...)}
}

// Relaunch starts the new process with $AUTOATTEND_RESTART_COUNT set to restarts.
func (p *ProcessRelauncher) Relaunch(restarts int) error {
	exe := p.Executable
	if exe == "" {
		var err error
		exe, err = os.Executable()
		if err != nil {
			return fmt.Errorf("resolve executable: %w", err)
		}
	}
	args := p.Args
	if len(args) == 0 {
		args = []string{exe}
	}
	return relaunch(exe, args, restartEnv(os.Environ(), restarts))
}

// restartEnv returns env with the restart counter variable set to n.
func restartEnv(env []string, n int) []string {
	prefix := common.RestartCountEnv + "="
	out := make([]string, 0, len(env)+1)
	for _, kv := range env {
		if !strings.HasPrefix(kv, prefix) {
			out = append(out, kv)
		}
	}
	return append(out, prefix+strconv.Itoa(n))
}

var _ Relauncher = (*ProcessRelauncher)(nil)
