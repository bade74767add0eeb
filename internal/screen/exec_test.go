package screen

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"strconv"
	"testing"

	"github.com/warpdl/autoattend/internal/config"
)

type call struct {
	name string
	args []string
}

func exitError(t *testing.T, code int) error {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	err := exec.Command("sh", "-c", "exit "+strconv.Itoa(code)).Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected exit error, got %v", err)
	}
	return err
}

func newRecordingDriver(out []byte, err error) (*ExecDriver, *[]call) {
	var calls []call
	d := NewExecDriver(config.Default().Drivers).WithRunner(func(_ context.Context, name string, args ...string) ([]byte, error) {
		calls = append(calls, call{name, args})
		return out, err
	})
	return d, &calls
}

func TestExecDriver_Templates(t *testing.T) {
	d, calls := newRecordingDriver([]byte("1 2 3 4\n"), nil)
	ctx := context.Background()

	if err := d.OpenURL(ctx, "https://meet/a"); err != nil {
		t.Fatal(err)
	}
	if err := d.BringToFront(ctx, "Microsoft Teams"); err != nil {
		t.Fatal(err)
	}
	r, ok, err := d.Locate(ctx, "/assets/join.png", 0.8)
	if err != nil || !ok {
		t.Fatalf("Locate: ok=%v err=%v", ok, err)
	}
	if r != (Region{1, 2, 3, 4}) {
		t.Fatalf("unexpected region %+v", r)
	}
	if err := d.Click(ctx, Region{X: 100, Y: 50, W: 20, H: 10}); err != nil {
		t.Fatal(err)
	}

	want := []call{
		{"xdg-open", []string{"https://meet/a"}},
		{"wmctrl", []string{"-a", "Microsoft Teams"}},
		{"autoattend-locate", []string{"/assets/join.png", "0.8"}},
		{"xdotool", []string{"mousemove", "110", "55", "click", "1"}},
	}
	if !reflect.DeepEqual(*calls, want) {
		t.Fatalf("unexpected calls:\n got %v\nwant %v", *calls, want)
	}
}

func TestExpand_ValuesAreNotReexpanded(t *testing.T) {
	vars := map[string]string{"app": "{image}", "image": "join.png", "url": "https://meet/{app}?x={x}"}
	for i := 0; i < 20; i++ {
		got := expand([]string{"helper", "{app}:{image}", "{url}", "{y}"}, vars)
		want := []string{"helper", "{image}:join.png", "https://meet/{app}?x={x}", "{y}"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expand = %q, want %q", got, want)
		}
	}
}

func TestExecDriver_LocateMiss(t *testing.T) {
	d, _ := newRecordingDriver(nil, exitError(t, 1))
	_, ok, err := d.Locate(context.Background(), "x.png", 0.7)
	if err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestExecDriver_LocateFailure(t *testing.T) {
	d, _ := newRecordingDriver(nil, exitError(t, 2))
	if _, _, err := d.Locate(context.Background(), "x.png", 0.7); err == nil {
		t.Fatal("expected error for exit status 2")
	}

	d, _ = newRecordingDriver([]byte("garbage"), nil)
	if _, _, err := d.Locate(context.Background(), "x.png", 0.7); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestExecDriver_WindowNotFound(t *testing.T) {
	d, _ := newRecordingDriver(nil, exitError(t, 1))
	if err := d.BringToFront(context.Background(), "Teams"); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}
}

func TestExecDriver_NoCommand(t *testing.T) {
	d := NewExecDriver(config.Drivers{})
	if err := d.OpenURL(context.Background(), "x"); !errors.Is(err, ErrNoCommand) {
		t.Fatalf("expected ErrNoCommand, got %v", err)
	}
}
