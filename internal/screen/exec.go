package screen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/warpdl/autoattend/internal/config"
)

// ErrNoCommand is returned when a driver command template is empty.
var ErrNoCommand = errors.New("screen: driver command not configured")

// CommandRunner runs name with args and returns its standard output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return out, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, err
}

// ExecDriver implements Driver by running helper commands built from
// templates. Each template is an argv whose elements may contain {url},
// {app}, {image}, {confidence}, {x} and {y}.
//
// The BringToFront command must exit non-zero when no window matches. The
// Locate command prints "x y w h" on a hit and exits with status 1 on a miss;
// any other failure is an error.
type ExecDriver struct {
	cmds config.Drivers
	run  CommandRunner
}

// NewExecDriver creates a driver for the given command templates.
func NewExecDriver(cmds config.Drivers) *ExecDriver {
	return &ExecDriver{cmds: cmds, run: runCommand}
}

// WithRunner replaces the process runner (used by tests).
func (d *ExecDriver) WithRunner(run CommandRunner) *ExecDriver {
	d.run = run
	return d
}

func (d *ExecDriver) OpenURL(ctx context.Context, url string) error {
	_, err := d.exec(ctx, d.cmds.OpenURL, map[string]string{"url": url})
	return err
}

func (d *ExecDriver) BringToFront(ctx context.Context, app string) error {
	_, err := d.exec(ctx, d.cmds.BringToFront, map[string]string{"app": app})
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, app)
	}
	return err
}

func (d *ExecDriver) Locate(ctx context.Context, image string, confidence float64) (Region, bool, error) {
	out, err := d.exec(ctx, d.cmds.Locate, map[string]string{
		"image":      image,
		"confidence": strconv.FormatFloat(confidence, 'f', -1, 64),
	})
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return Region{}, false, nil
		}
		return Region{}, false, err
	}
	r, err := parseRegion(out)
	if err != nil {
		return Region{}, false, err
	}
	return r, true, nil
}

func (d *ExecDriver) Click(ctx context.Context, r Region) error {
	x, y := r.Center()
	_, err := d.exec(ctx, d.cmds.Click, map[string]string{
		"x": strconv.Itoa(x),
		"y": strconv.Itoa(y),
	})
	return err
}

func (d *ExecDriver) exec(ctx context.Context, tmpl []string, vars map[string]string) ([]byte, error) {
	argv := expand(tmpl, vars)
	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrNoCommand
	}
	return d.run(ctx, argv[0], argv[1:]...)
}

// expand substitutes every placeholder in a single pass, so a value that
// itself looks like a placeholder is passed through verbatim.
func expand(tmpl []string, vars map[string]string) []string {
	pairs := make([]string, 0, 2*len(vars))
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	r := strings.NewReplacer(pairs...)
	argv := make([]string, len(tmpl))
	for i, a := range tmpl {
		argv[i] = r.Replace(a)
	}
	return argv
}

func parseRegion(out []byte) (Region, error) {
	fields := strings.Fields(string(out))
	if len(fields) != 4 {
		return Region{}, fmt.Errorf("screen: unexpected locate output %q", strings.TrimSpace(string(out)))
	}
	var n [4]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return Region{}, fmt.Errorf("screen: unexpected locate output %q", strings.TrimSpace(string(out)))
		}
		n[i] = v
	}
	return Region{X: n[0], Y: n[1], W: n[2], H: n[3]}, nil
}

var _ Driver = (*ExecDriver)(nil)
