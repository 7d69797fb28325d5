package servercli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hdt3213/rdb/encoder"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestRDB(t *testing.T) string {
	buf := bytes.NewBuffer(nil)
	enc := encoder.NewEncoder(buf)
	require.NoError(t, enc.WriteHeader())
	require.NoError(t, enc.WriteAux("redis-ver", "7.2.0"))
	require.NoError(t, enc.WriteDBHeader(0, 3, 2))
	require.NoError(t, enc.WriteStringObject("foo", []byte("bar")))
	require.NoError(t, enc.WriteStringObject("greeting", []byte("hello world"),
		encoder.WithTTL(uint64(time.Now().Add(time.Hour).UnixMilli()))))
	require.NoError(t, enc.WriteStringObject("stale", []byte("x"), encoder.WithTTL(1000)))
	require.NoError(t, enc.WriteEnd())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dump.rdb"), buf.Bytes(), 0644))
	return dir
}

// resetFlags restores defaults left over from a previous Execute
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Setenv("CONFIG", "")
	resetFlags(rootCmd)
	out := bytes.NewBuffer(nil)
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGetCommand(t *testing.T) {
	d := writeTestRDB(t)
	out, err := run(t, "", "get", "foo", "--dir", d, "--dbfilename", "dump.rdb")
	require.NoError(t, err)
	assert.Equal(t, "bar\n", out)

	out, err = run(t, "", "get", "stale", "--dir", d, "--dbfilename", "dump.rdb")
	require.NoError(t, err)
	assert.Equal(t, "(nil)\n", out)
}

func TestKeysCommand(t *testing.T) {
	d := writeTestRDB(t)
	out, err := run(t, "", "keys", "--dir", d, "--dbfilename", "dump.rdb")
	require.NoError(t, err)
	assert.Equal(t, "foo\ngreeting\n", out)

	out, err = run(t, "", "keys", "g*", "--dir", d, "--dbfilename", "dump.rdb")
	require.NoError(t, err)
	assert.Equal(t, "greeting\n", out)
}

func TestDumpCommand(t *testing.T) {
	d := writeTestRDB(t)
	out, err := run(t, "", "dump", "--dir", d, "--dbfilename", "dump.rdb")
	require.NoError(t, err)
	assert.Equal(t, "\"foo\"\t\"bar\"\n\"greeting\"\t\"hello world\"\n", out)

	out, err = run(t, "", "dump", "--all", "--json", "--dir", d, "--dbfilename", "dump.rdb")
	require.NoError(t, err)
	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "foo", entries[0]["key"])
	assert.Equal(t, "bar", entries[0]["value"])
	assert.NotContains(t, entries[0], "expiration")
	assert.Equal(t, "stale", entries[2]["key"])
	assert.Contains(t, entries[2], "expiration")
}

func TestInfoCommand(t *testing.T) {
	d := writeTestRDB(t)
	out, err := run(t, "", "info", "--dir", d, "--dbfilename", "dump.rdb")
	require.NoError(t, err)
	assert.Contains(t, out, "aux_redis-ver:7.2.0\n")
	assert.Contains(t, out, "db0:keys=3,expires=2\n")
	assert.Contains(t, out, "live_keys:2\n")
}

func TestShellCommand(t *testing.T) {
	d := writeTestRDB(t)
	stdin := "GET foo\n" +
		"get 'greeting'\n" +
		"TTL foo\n" +
		"KEYS \"f*\"\n" +
		"DBSIZE\n" +
		"GET 'unterminated\n" +
		"SET foo baz\n" +
		"QUIT\n" +
		"GET foo\n"
	out, err := run(t, stdin, "shell", "--dir", d, "--dbfilename", "dump.rdb")
	require.NoError(t, err)
	assert.Contains(t, out, "> bar\n")
	assert.Contains(t, out, "> hello world\n")
	assert.Contains(t, out, "> -1\n")
	assert.Contains(t, out, "> foo\n")
	assert.Contains(t, out, "> 2\n")
	assert.Contains(t, out, "(error) parse:")
	assert.Contains(t, out, "(error) unknown command 'set'")
	assert.Equal(t, 1, strings.Count(out, "bar\n"), "commands after quit must not run")
}

func TestMissingFile(t *testing.T) {
	_, err := run(t, "", "get", "foo", "--dir", t.TempDir())
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	d := writeTestRDB(t)
	conf := filepath.Join(t.TempDir(), "rdbkv.conf")
	require.NoError(t, os.WriteFile(conf, []byte("dir "+d+"\ndbfilename dump.rdb\nshow-expired yes\n"), 0644))
	out, err := run(t, "", "dump", "--config", conf)
	require.NoError(t, err)
	assert.Contains(t, out, "\"stale\"")
}
