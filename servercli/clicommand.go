package servercli

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/hdt3213/rdbkv/config"
	"github.com/hdt3213/rdbkv/database"
	"github.com/hdt3213/rdbkv/lib/rdb/model"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
)

var (
	dumpJSON bool
	dumpAll  bool
)

var dumpCommand = &cobra.Command{
	Use:   "dump",
	Short: "Print every key and value in the rdb file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := loadSnapshot()
		if err != nil {
			return err
		}
		includeExpired := dumpAll || config.Properties.ShowExpired
		return writeDump(cmd.OutOrStdout(), snapshot, includeExpired, dumpJSON)
	},
}

func writeDump(out io.Writer, snapshot *database.Snapshot, includeExpired, asJSON bool) error {
	entries := make([]*model.Entry, 0)
	snapshot.ForEach(includeExpired, func(entry *model.Entry) bool {
		entries = append(entries, entry)
		return true
	})
	if asJSON {
		b, err := sonic.ConfigStd.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	}
	for _, entry := range entries {
		if _, err := fmt.Fprintf(out, "%s\t%s\n", strconv.Quote(entry.Key), strconv.Quote(entry.Value)); err != nil {
			return err
		}
	}
	return nil
}

var getCommand = &cobra.Command{
	Use:   "get [key]",
	Short: "Print the value of a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := loadSnapshot()
		if err != nil {
			return err
		}
		return execGet(cmd.OutOrStdout(), snapshot, args[0])
	},
}

var keysCommand = &cobra.Command{
	Use:   "keys [pattern]",
	Short: "List keys matching a glob pattern, all keys by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := loadSnapshot()
		if err != nil {
			return err
		}
		pattern := "*"
		if len(args) == 1 {
			pattern = args[0]
		}
		return execKeys(cmd.OutOrStdout(), snapshot, pattern)
	},
}

var ttlCommand = &cobra.Command{
	Use:   "ttl [key]",
	Short: "Print remaining time to live of a key in milliseconds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := loadSnapshot()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), snapshot.TTL(args[0]))
		return err
	},
}

var infoCommand = &cobra.Command{
	Use:   "info",
	Short: "Print rdb version, metadata and database sizes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := loadSnapshot()
		if err != nil {
			return err
		}
		return execInfo(cmd.OutOrStdout(), snapshot)
	},
}

var shellCommand = &cobra.Command{
	Use:   "shell",
	Short: "Query the rdb file interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := loadSnapshot()
		if err != nil {
			return err
		}
		return runShell(cmd.InOrStdin(), cmd.OutOrStdout(), snapshot)
	},
}

func execGet(out io.Writer, snapshot *database.Snapshot, key string) error {
	value, ok := snapshot.Get(key)
	if !ok {
		_, err := fmt.Fprintln(out, "(nil)")
		return err
	}
	_, err := fmt.Fprintln(out, value)
	return err
}

func execKeys(out io.Writer, snapshot *database.Snapshot, pattern string) error {
	for _, key := range snapshot.Keys(pattern) {
		if _, err := fmt.Fprintln(out, key); err != nil {
			return err
		}
	}
	return nil
}

func execInfo(out io.Writer, snapshot *database.Snapshot) error {
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "rdb_version:%d\n", snapshot.Version())
	aux := snapshot.Aux()
	auxKeys := make([]string, 0, len(aux))
	for k := range aux {
		auxKeys = append(auxKeys, k)
	}
	sort.Strings(auxKeys)
	for _, k := range auxKeys {
		fmt.Fprintf(w, "aux_%s:%s\n", k, aux[k])
	}
	for _, size := range snapshot.DBSizes() {
		fmt.Fprintf(w, "db%d:keys=%d,expires=%d\n", size.GetDBIndex(), size.KeyCount, size.TTLCount)
	}
	fmt.Fprintf(w, "live_keys:%d\n", snapshot.Len())
	return w.Flush()
}

const shellHelp = `commands:
  GET key
  KEYS [pattern]
  TTL key
  DBSIZE
  INFO
  QUIT`

// runShell reads one command per line until QUIT or end of input
func runShell(in io.Reader, out io.Writer, snapshot *database.Snapshot) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "Type commands. 'help' for information or 'quit' to exit.")
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		args, err := shellquote.Split(line)
		if err != nil {
			fmt.Fprintln(out, "(error) parse:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		name := strings.ToLower(args[0])
		if name == "quit" || name == "exit" {
			return nil
		}
		if err := execShellCommand(out, snapshot, name, args[1:]); err != nil {
			fmt.Fprintln(out, "(error)", err)
		}
	}
}

func execShellCommand(out io.Writer, snapshot *database.Snapshot, name string, args []string) error {
	switch name {
	case "get":
		if len(args) != 1 {
			return fmt.Errorf("wrong number of arguments for 'get' command")
		}
		return execGet(out, snapshot, args[0])
	case "keys":
		if len(args) > 1 {
			return fmt.Errorf("wrong number of arguments for 'keys' command")
		}
		pattern := "*"
		if len(args) == 1 {
			pattern = args[0]
		}
		return execKeys(out, snapshot, pattern)
	case "ttl":
		if len(args) != 1 {
			return fmt.Errorf("wrong number of arguments for 'ttl' command")
		}
		_, err := fmt.Fprintln(out, snapshot.TTL(args[0]))
		return err
	case "dbsize":
		_, err := fmt.Fprintln(out, snapshot.Len())
		return err
	case "info":
		return execInfo(out, snapshot)
	case "help":
		_, err := fmt.Fprintln(out, shellHelp)
		return err
	}
	return fmt.Errorf("unknown command '%s'", name)
}

func init() {
	dumpCommand.Flags().BoolVar(&dumpJSON, "json", false, "print entries as a json array")
	dumpCommand.Flags().BoolVar(&dumpAll, "all", false, "include expired keys")
	AddCommand(dumpCommand)
	AddCommand(getCommand)
	AddCommand(keysCommand)
	AddCommand(ttlCommand)
	AddCommand(infoCommand)
	AddCommand(shellCommand)
}
