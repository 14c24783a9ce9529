package cli

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/pfannkuchen/pkg/cache"
	"github.com/matzehuels/pfannkuchen/pkg/config"
	"github.com/matzehuels/pfannkuchen/pkg/runs"
)

// newTestCLI points every XDG directory into a temp dir and captures the
// styled output.
func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer, string) {
	t.Helper()
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))

	var styled bytes.Buffer
	old := stdout
	stdout = &styled
	t.Cleanup(func() { stdout = old })

	var logs bytes.Buffer
	return New(&logs, LogInfo), &styled, base
}

// execute runs the root command and returns what it wrote to its own
// output stream.
func execute(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRun(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"run", "7", "-q"}, "228\nPfannkuchen(7) = 16\n"},
		{[]string{"run", "8", "-q", "--chunks", "3", "-w", "2"}, "1616\nPfannkuchen(8) = 22\n"},
		{[]string{"run", "1", "-q"}, "0\nPfannkuchen(1) = 0\n"},
		{[]string{"run", "0", "-q"}, "0\nPfannkuchen(0) = 0\n"},
		{[]string{"run", "13", "-q"}, "-1\nPfannkuchen(13) = -1\n"},
		{[]string{"run", "-q", "--", "-1"}, "-1\nPfannkuchen(-1) = -1\n"},
		{[]string{"run", "-q", "--", "-7"}, "-1\nPfannkuchen(-7) = -1\n"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			c, _, _ := newTestCLI(t)
			got, err := execute(t, c, tt.args...)
			if err != nil {
				t.Fatalf("execute() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunStats(t *testing.T) {
	c, styled, _ := newTestCLI(t)

	if _, err := execute(t, c, "run", "6"); err != nil {
		t.Fatalf("execute() error: %v", err)
	}
	if !strings.Contains(styled.String(), iconFresh) {
		t.Errorf("first run should be fresh: %q", styled.String())
	}

	styled.Reset()
	if _, err := execute(t, c, "run", "6"); err != nil {
		t.Fatalf("execute() error: %v", err)
	}
	if !strings.Contains(styled.String(), iconCached) {
		t.Errorf("second run should be cached: %q", styled.String())
	}

	styled.Reset()
	if _, err := execute(t, c, "run", "6", "--no-cache"); err != nil {
		t.Fatalf("execute() error: %v", err)
	}
	if !strings.Contains(styled.String(), iconFresh) {
		t.Errorf("--no-cache run should be fresh: %q", styled.String())
	}
}

func TestRunInvalidArgs(t *testing.T) {
	c, _, _ := newTestCLI(t)

	if _, err := execute(t, c, "run", "seven"); err == nil {
		t.Error("run seven should fail")
	}
	if _, err := execute(t, c, "run", "7", "--chunks", "-2"); err == nil {
		t.Error("negative --chunks should fail")
	}
	if _, err := execute(t, c, "run"); err == nil {
		t.Error("run without n should fail")
	}
	if _, err := execute(t, c, "run", "-1"); err == nil {
		t.Error("negative n without -- should be rejected as a flag")
	}
}

func TestRunUsesConfig(t *testing.T) {
	c, _, base := newTestCLI(t)

	path := filepath.Join(base, "custom.toml")
	body := "[compute]\nchunks = 4\n\n[history]\nbackend = \"none\"\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, c, "--config", path, "run", "5", "-q"); err != nil {
		t.Fatalf("execute() error: %v", err)
	}
	if c.Config.Compute.Chunks != 4 {
		t.Errorf("chunks = %d, want 4 from config", c.Config.Compute.Chunks)
	}
	if c.Config.History.Backend != config.HistoryNone {
		t.Errorf("history backend = %q", c.Config.History.Backend)
	}
}

// An unreachable Redis is pinged at most DefaultRetry.Attempts times before
// the command gives up.
func TestRedisConnectAttempts(t *testing.T) {
	c, _, base := newTestCLI(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	var accepted atomic.Int32
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			accepted.Add(1)
			conn.Close()
		}
	}()

	path := filepath.Join(base, "redis.toml")
	body := fmt.Sprintf("[cache]\nbackend = \"redis\"\nredis_url = \"redis://%s/0?max_retries=-1\"\n\n[history]\nbackend = \"none\"\n", ln.Addr())
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, c, "--config", path, "run", "5", "-q"); err == nil {
		t.Fatal("run against an unreachable redis should fail")
	}
	got := int(accepted.Load())
	if got < 1 || got > cache.DefaultRetry.Attempts {
		t.Errorf("redis connection attempts = %d, want 1..%d", got, cache.DefaultRetry.Attempts)
	}
}

func TestInvalidConfig(t *testing.T) {
	c, _, base := newTestCLI(t)
	path := filepath.Join(base, "bad.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"tape\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, c, "--config", path, "run", "5"); err == nil {
		t.Error("unknown cache backend should fail")
	}
}

func TestHistory(t *testing.T) {
	c, styled, base := newTestCLI(t)

	if _, err := execute(t, c, "history"); err != nil {
		t.Fatalf("history error: %v", err)
	}
	if !strings.Contains(styled.String(), "No runs recorded") {
		t.Errorf("empty history output = %q", styled.String())
	}

	if _, err := execute(t, c, "run", "7", "-q"); err != nil {
		t.Fatal(err)
	}

	styled.Reset()
	if _, err := execute(t, c, "history"); err != nil {
		t.Fatalf("history error: %v", err)
	}
	if !strings.Contains(styled.String(), "228") {
		t.Errorf("history should list the run: %q", styled.String())
	}

	store, err := runs.NewFileStore(filepath.Join(base, "data", "pfannkuchen", "runs"))
	if err != nil {
		t.Fatal(err)
	}
	list, err := store.List(context.Background(), 1)
	if err != nil || len(list) != 1 {
		t.Fatalf("List() = %v, %v", list, err)
	}

	styled.Reset()
	if _, err := execute(t, c, "history", "show", list[0].ID); err != nil {
		t.Fatalf("history show error: %v", err)
	}
	if !strings.Contains(styled.String(), list[0].ID) {
		t.Errorf("history show output = %q", styled.String())
	}

	if _, err := execute(t, c, "history", "show", runs.New(1).ID); err == nil {
		t.Error("history show of unknown id should fail")
	}
}

func TestTrace(t *testing.T) {
	c, _, _ := newTestCLI(t)

	got, err := execute(t, c, "trace", "4", "23")
	if err != nil {
		t.Fatalf("trace error: %v", err)
	}
	want := "        3 1 0 2\n" +
		"flip 4  2 0 1 3\n" +
		"flip 3  1 0 2 3\n" +
		"flip 2  0 1 2 3\n" +
		"3 flips\n"
	if got != want {
		t.Errorf("trace output =\n%s\nwant\n%s", got, want)
	}

	got, err = execute(t, c, "trace", "4", "0")
	if err != nil {
		t.Fatalf("trace error: %v", err)
	}
	if got != "        0 1 2 3\n0 flips\n" {
		t.Errorf("identity trace = %q", got)
	}
}

func TestTraceFormats(t *testing.T) {
	c, styled, base := newTestCLI(t)

	got, err := execute(t, c, "trace", "4", "23", "--format", "dot")
	if err != nil {
		t.Fatalf("trace error: %v", err)
	}
	if !strings.HasPrefix(got, "digraph trace {") {
		t.Errorf("dot output = %q", got)
	}

	out := filepath.Join(base, "trace.json")
	if _, err := execute(t, c, "trace", "4", "23", "-f", "json", "-o", out); err != nil {
		t.Fatalf("trace error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"sizes"`) {
		t.Errorf("json file = %s", data)
	}
	if !strings.Contains(styled.String(), out) {
		t.Errorf("should print written path: %q", styled.String())
	}
}

func TestTraceInvalid(t *testing.T) {
	c, _, _ := newTestCLI(t)
	for _, args := range [][]string{
		{"trace", "4", "24"},
		{"trace", "13", "0"},
		{"trace", "4", "1", "-f", "gif"},
		{"trace", "x", "1"},
	} {
		if _, err := execute(t, c, args...); err == nil {
			t.Errorf("%v should fail", args)
		}
	}
}

func TestBench(t *testing.T) {
	c, styled, _ := newTestCLI(t)

	if _, err := execute(t, c, "bench", "5", "6", "--repeat", "2"); err != nil {
		t.Fatalf("bench error: %v", err)
	}
	out := styled.String()
	for _, want := range []string{"max flips", "checksum", "11", "49"} {
		if !strings.Contains(out, want) {
			t.Errorf("bench table missing %q:\n%s", want, out)
		}
	}

	styled.Reset()
	if _, err := execute(t, c, "history"); err != nil {
		t.Fatalf("history error: %v", err)
	}
	if !strings.Contains(styled.String(), "No runs recorded") {
		t.Errorf("bench runs should not be recorded: %q", styled.String())
	}
}

func TestBenchInvalid(t *testing.T) {
	c, _, _ := newTestCLI(t)
	for _, args := range [][]string{
		{"bench", "9", "8"},
		{"bench", "5", "13"},
		{"bench", "5", "6", "--repeat", "0"},
	} {
		if _, err := execute(t, c, args...); err == nil {
			t.Errorf("%v should fail", args)
		}
	}
}

func TestParseBenchRange(t *testing.T) {
	tests := []struct {
		args     []string
		from, to int
	}{
		{nil, 7, 10},
		{[]string{"5"}, 5, 10},
		{[]string{"11"}, 11, 11},
		{[]string{"3", "4"}, 3, 4},
	}
	for _, tt := range tests {
		from, to, err := parseBenchRange(tt.args)
		if err != nil {
			t.Fatalf("parseBenchRange(%v) error: %v", tt.args, err)
		}
		if from != tt.from || to != tt.to {
			t.Errorf("parseBenchRange(%v) = %d, %d; want %d, %d", tt.args, from, to, tt.from, tt.to)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	c, styled, base := newTestCLI(t)

	got, err := execute(t, c, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(base, "cache", "pfannkuchen") + "\n"; got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}

	if _, err := execute(t, c, "run", "6", "-q"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, c, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(styled.String(), "Cleared 1 cached entries") {
		t.Errorf("cache clear output = %q", styled.String())
	}

	fc, err := cache.NewFileCache(filepath.Join(base, "cache", "pfannkuchen"))
	if err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := fc.Get(context.Background(), cache.NewDefaultKeyer().ResultKey(6)); hit {
		t.Error("entry should be gone after clear")
	}
}

func TestConfigCommands(t *testing.T) {
	c, styled, base := newTestCLI(t)
	want := filepath.Join(base, "config", "pfannkuchen", "config.toml")

	got, err := execute(t, c, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if got != want+"\n" {
		t.Errorf("config path = %q, want %q", got, want)
	}

	got, err = execute(t, c, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "[compute]") || !strings.Contains(got, "chunks = 150") {
		t.Errorf("config show = %s", got)
	}

	if _, err := execute(t, c, "config", "init"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("config init did not write %s: %v", want, err)
	}

	styled.Reset()
	if _, err := execute(t, c, "config", "init"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(styled.String(), "already exists") {
		t.Errorf("second init output = %q", styled.String())
	}
}

func TestCompletion(t *testing.T) {
	c, _, _ := newTestCLI(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		got, err := execute(t, c, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s error: %v", shell, err)
		}
		if !strings.Contains(got, "pfannkuchen") {
			t.Errorf("completion %s output missing program name", shell)
		}
	}
	if _, err := execute(t, c, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}
