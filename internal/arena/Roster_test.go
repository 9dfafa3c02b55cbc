package arena

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Mshel/mineopoly/internal/game"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRosterRegistersBuiltinAndScripts(t *testing.T) {
	dir := t.TempDir()
	lazy := writeScript(t, dir, "lazy.lua", `function getTurnAction(state) return "NONE" end`)

	roster, err := NewRoster([]string{lazy}, quietLogger)
	if err != nil {
		t.Fatal(err)
	}
	names := roster.Names()
	if len(names) != 2 || names[0] != game.StrategyName || names[1] != "lazy" {
		t.Fatalf("names %v", names)
	}

	first, err := roster.New("lazy")
	if err != nil {
		t.Fatal(err)
	}
	second, err := roster.New("lazy")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("each call should build a fresh strategy")
	}
	closeStrategy(first)
	closeStrategy(second)

	if _, err := roster.New("missing"); err == nil {
		t.Fatal("expected an error for an unknown strategy")
	}
}

func TestRosterRejectsBrokenScripts(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"syntax.lua":  `function getTurnAction(state`,
		"nohook.lua":  `x = 1`,
		"missing.lua": "",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if body != "" {
				path = writeScript(t, dir, name, body)
			}
			if _, err := NewRoster([]string{path}, quietLogger); err == nil {
				t.Fatalf("%s should be rejected", name)
			}
		})
	}
}

func TestRosterMatchPlaysScriptAgainstBuiltin(t *testing.T) {
	dir := t.TempDir()
	lazy := writeScript(t, dir, "lazy.lua", `function getTurnAction(state) return "NONE" end`)
	roster, err := NewRoster([]string{lazy}, quietLogger)
	if err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.TurnLimit = 60
	m, err := roster.NewMatch(cfg, game.StrategyName, "lazy", WithLogger(quietLogger))
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if m.Red().Name != game.StrategyName || m.Blue().Name != "lazy" {
		t.Fatalf("red %q blue %q", m.Red().Name, m.Blue().Name)
	}
}
