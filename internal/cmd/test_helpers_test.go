package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

const testDictionary = "■cat {名} : 猫◆pet\n" +
	"■cat {動-1} : むち打つ\n" +
	"■dog : 犬\n" +
	"not a record\n"

// withTestSettings points --config and --database at a temporary directory
// holding a UTF-8 config. It returns that directory.
func withTestSettings(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfgYAML := "load:\n  encoding: utf-8\nlog:\n  level: error\n"
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	withColorMode(t, "never")
	disableColors()

	oldConfig, oldDatabase := configFlag, databaseFlag
	configFlag = cfgPath
	databaseFlag = filepath.Join(dir, "eijiro.db")
	t.Cleanup(func() {
		configFlag = oldConfig
		databaseFlag = oldDatabase
	})
	return dir
}

// seedDatabase loads testDictionary into the test database.
func seedDatabase(t *testing.T, dir string) {
	t.Helper()
	input := filepath.Join(dir, "eiji.txt")
	if err := os.WriteFile(input, []byte(testDictionary), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	var err error
	captureStdout(t, func() {
		err = runLoad(loadCmd, []string{input})
	})
	if err != nil {
		t.Fatalf("runLoad() error = %v", err)
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() failed: %v", err)
	}
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()
	_ = w.Close()
	os.Stdout = old
	out := <-outC
	_ = r.Close()
	return out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
