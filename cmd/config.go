// config.go implements the config command: get, set and list
// configuration values across global and local scopes.

package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jpl-au/devise/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get and set configuration",
	Long: `Read and write devise configuration. Reads use the local config
(.devise/config.yaml) when present, otherwise the global one
(~/.devise/config.yaml). Writes go to the global config unless --local
is given.

  devise config                              # list all values
  devise config workspace.max_tabs           # get one value
  devise config workspace.max_tabs 30        # set (global)
  devise config author.name "Ada" --local    # set in this workspace`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		local, _ := cmd.Flags().GetBool("local")

		// List all
		if len(args) == 0 {
			cfg, err := config.Load()
			if err != nil {
				return PrintJSONError(err)
			}
			all := cfg.All()
			if JSON() {
				return PrintJSON(all)
			}
			keys := make([]string, 0, len(all))
			for k := range all {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(Out(), "%s=%s\n", k, all[k])
			}
			return nil
		}

		key := args[0]
		if !config.IsValidKey(key) {
			return PrintJSONError(fmt.Errorf("%w: %s (valid: %v)", config.ErrUnknownKey, key, config.ValidKeys()))
		}

		// Get one
		if len(args) == 1 {
			cfg, err := config.Load()
			if err != nil {
				return PrintJSONError(err)
			}
			v, err := cfg.Get(key)
			if err != nil {
				return PrintJSONError(err)
			}
			if JSON() {
				return PrintJSON(map[string]string{key: v})
			}
			fmt.Fprintln(Out(), v)
			return nil
		}

		// Set
		scope := config.ScopeGlobal
		if local {
			scope = config.ScopeLocal
		}
		cfg, err := config.LoadScope(scope)
		if err != nil {
			return PrintJSONError(err)
		}
		if err := cfg.Set(key, args[1]); err != nil {
			return PrintJSONError(err)
		}
		if err := cfg.Validate(); err != nil {
			return PrintJSONError(err)
		}
		if err := cfg.Save(); err != nil {
			return PrintJSONError(err)
		}
		if JSON() {
			return PrintJSON(map[string]string{key: args[1]})
		}
		fmt.Fprintf(Out(), "%s=%s\n", key, args[1])
		return nil
	},
}

func init() {
	configCmd.Flags().Bool("local", false, "Write to the workspace config instead of the global one")
	rootCmd.AddCommand(configCmd)
}
