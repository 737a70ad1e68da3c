package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/salmonumbrella/codetree/internal/output"
	"github.com/salmonumbrella/codetree/internal/state"
	"github.com/salmonumbrella/codetree/internal/viewer"
)

var stateAll bool

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect saved viewer state",
	Long: `codetree remembers the active file and the collapsed folders of every
file or directory input it has shown. This state lives in a JSON file next
to the config (state_file overrides the location).

Input read from stdin has no saved state.`,
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show saved state for the input",
	Example: `  codetree state show --dir .
  codetree state show --all -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		var keys []string
		if stateAll {
			keys = store.Keys()
		} else {
			src, err := resolveInput(cmd)
			if err != nil {
				return err
			}
			if src.Key() == "" {
				return fmt.Errorf("stdin input has no saved state")
			}
			keys = []string{src.Key()}
		}

		entries := make([]stateEntry, 0, len(keys))
		for _, key := range keys {
			var saved viewer.SavedState
			found, err := store.Get(key, &saved)
			if err != nil {
				return err
			}
			if !found {
				continue
			}
			entries = append(entries, stateEntry{Key: key, Active: saved.Active, Collapsed: saved.Collapsed})
		}
		return printResult(cmd.Context(), stateList(entries))
	},
}

var stateClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget saved state",
	Long: `Forget the saved state of the input, or of every input with --all.

Use the --yes flag to skip the confirmation prompt.`,
	Example: `  codetree state clear --dir .
  codetree state clear --all --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		target := "all saved state"
		key := ""
		if !stateAll {
			src, err := resolveInput(cmd)
			if err != nil {
				return err
			}
			if key = src.Key(); key == "" {
				return fmt.Errorf("stdin input has no saved state")
			}
			target = "saved state for " + src.Label()
		}

		if !output.YesFromContext(cmd.Context()) {
			errOut := cmd.ErrOrStderr()
			fmt.Fprintf(errOut, "Clear %s?\n", target)
			fmt.Fprint(errOut, "Type 'yes' to confirm: ")
			reader := bufio.NewReader(stdinFromContext(cmd.Context()))
			confirm, _ := reader.ReadString('\n')
			if strings.TrimSpace(confirm) != "yes" {
				fmt.Fprintln(errOut, "Aborted.")
				return nil
			}
		}

		if stateAll {
			err = store.Clear()
		} else {
			err = store.Delete(key)
		}
		if err != nil {
			return err
		}

		if structuredOutputRequested() {
			result := map[string]string{"status": "cleared"}
			if key != "" {
				result["key"] = key
			}
			return printResult(cmd.Context(), result)
		}
		if !output.QuietFromContext(cmd.Context()) {
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", target)
		}
		return nil
	},
}

func init() {
	stateCmd.PersistentFlags().BoolVar(&stateAll, "all", false, "Apply to every saved input")
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateClearCmd)
	rootCmd.AddCommand(stateCmd)
}

type stateEntry struct {
	Key       string   `json:"key"`
	Active    string   `json:"active,omitempty"`
	Collapsed []string `json:"collapsed,omitempty"`
}

type stateList []stateEntry

func (l stateList) Text(w io.Writer) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, "No saved state")
		return err
	}
	for _, e := range l {
		fmt.Fprintln(w, e.Key)
		if e.Active != "" {
			fmt.Fprintf(w, "  active: %s\n", e.Active)
		}
		if len(e.Collapsed) > 0 {
			fmt.Fprintf(w, "  collapsed: %s\n", strings.Join(e.Collapsed, ", "))
		}
	}
	return nil
}

func (l stateList) Table() output.Table {
	t := output.Table{Headers: []string{"KEY", "ACTIVE", "COLLAPSED"}}
	for _, e := range l {
		t.Append(e.Key, e.Active, strings.Join(e.Collapsed, ","))
	}
	return t
}

func openStore() (*state.Store, error) {
	path, err := currentConfig().StatePath()
	if err != nil {
		return nil, err
	}
	store, err := openStateStore(path)
	if err != nil {
		return nil, err
	}
	if err := store.Corrupt(); err != nil {
		logger.Warn("ignoring unreadable state; it is replaced on the next save", zap.Error(err))
	}
	return store, nil
}

// restoreState applies the saved state of src to s. Failures only log:
// a broken state file never stops a command from showing its input.
func restoreState(src inputSource, s *viewer.Session) {
	key := src.Key()
	if key == "" {
		return
	}
	store, err := openStore()
	if err != nil {
		logger.Warn("opening state", zap.Error(err))
		return
	}
	var saved viewer.SavedState
	found, err := store.Get(key, &saved)
	if err != nil {
		logger.Warn("reading state", zap.String("key", key), zap.Error(err))
		return
	}
	if found {
		s.Restore(saved)
		logger.Debug("restored state", zap.String("key", key), zap.String("active", s.Active))
	}
}

// saveState records the state of s under src.
func saveState(src inputSource, s *viewer.Session) {
	key := src.Key()
	if key == "" {
		return
	}
	store, err := openStore()
	if err != nil {
		logger.Warn("opening state", zap.Error(err))
		return
	}
	if err := store.Set(key, s.State()); err != nil {
		logger.Warn("saving state", zap.String("key", key), zap.Error(err))
	}
}
