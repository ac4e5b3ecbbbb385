// Package context implements context management subcommands for filegatectl.
package context

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/filegate/cmd/filegatectl/cmdutil"
	"github.com/marmos91/filegate/internal/cli/credentials"
)

// Cmd is the context subcommand.
var Cmd = &cobra.Command{
	Use:   "context",
	Short: "Manage server contexts",
	Long: `Manage the saved filegate servers created by 'filegatectl login'.

Subcommands:
  list     List all configured contexts
  use      Switch to a different context
  current  Show current context
  delete   Delete a context`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(useCmd)
	Cmd.AddCommand(currentCmd)
	Cmd.AddCommand(deleteCmd)
}

// Entry is one context as displayed. The API key is never printed.
type Entry struct {
	Name      string `json:"name" yaml:"name"`
	ServerURL string `json:"server_url" yaml:"server_url"`
	Header    string `json:"auth_header,omitempty" yaml:"auth_header,omitempty"`
	HasAPIKey bool   `json:"has_api_key" yaml:"has_api_key"`
	Current   bool   `json:"current" yaml:"current"`
}

// EntryList renders contexts as a table.
type EntryList []Entry

func (l EntryList) Headers() []string {
	return []string{"", "Name", "Server", "API Key"}
}

func (l EntryList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		marker := ""
		if e.Current {
			marker = "*"
		}
		key := "no"
		if e.HasAPIKey {
			key = "yes"
		}
		rows = append(rows, []string{marker, e.Name, e.ServerURL, key})
	}
	return rows
}

func entry(name, current string, ctx *credentials.Context) Entry {
	return Entry{
		Name:      name,
		ServerURL: ctx.ServerURL,
		Header:    ctx.AuthHeader,
		HasAPIKey: ctx.APIKey != "",
		Current:   name == current,
	}
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all configured contexts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := credentials.NewStore()
		if err != nil {
			return err
		}
		current, _, _ := store.Current()

		entries := EntryList{}
		for _, name := range store.List() {
			ctx, err := store.Get(name)
			if err != nil {
				return err
			}
			entries = append(entries, entry(name, current, ctx))
		}
		return cmdutil.PrintOutput(os.Stdout, entries, len(entries) == 0,
			"No contexts configured. Run 'filegatectl login' first.", entries)
	},
}

var useCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Switch to a different context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := credentials.NewStore()
		if err != nil {
			return err
		}
		if err := store.Use(args[0]); err != nil {
			return err
		}
		cmdutil.PrintSuccess(fmt.Sprintf("Switched to context %q", args[0]))
		return nil
	},
}

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show current context",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := credentials.NewStore()
		if err != nil {
			return err
		}
		name, ctx, err := store.Current()
		if err != nil {
			return err
		}
		list := EntryList{entry(name, name, ctx)}
		return cmdutil.PrintOutput(os.Stdout, list[0], false, "", list)
	},
}

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := credentials.NewStore()
		if err != nil {
			return err
		}
		if _, err := store.Get(args[0]); err != nil {
			return err
		}
		return cmdutil.RunDeleteWithConfirmation("context", args[0], deleteForce, func() error {
			if err := store.Delete(args[0]); err != nil {
				return err
			}
			cmdutil.PrintSuccess(fmt.Sprintf("Context %q deleted", args[0]))
			return nil
		})
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation")
}
