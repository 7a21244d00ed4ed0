// cmd/tools/buzzctl/activities.go
package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"buzz-workers/pkg/registry"
)

func newActivitiesCmd(opts *rootOptions) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Inspect and maintain the activity registry",
	}
	cmd.PersistentFlags().StringVar(&path, "registry", registry.DefaultPath, "path to the activity registry")

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return err
			}
			if opts.jsonOutput() {
				return opts.writeJSON(cmd.OutOrStdout(), reg.Activities)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TASK TYPE\tSTATUS\tTIMEOUT\tRETRIES\tWORKFLOWS")
			for _, a := range reg.Activities {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%v\n", a.TaskType, a.ImplementationStatus, a.Timeout, a.Retries, a.Workflows)
			}
			return w.Flush()
		},
	}

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate the registry file",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <id> <field> <value>",
		Short: "Update one field of an activity (status, version, displayName, description, timeout, retries)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return err
			}
			if err := reg.Update(args[0], args[1], args[2]); err != nil {
				return err
			}
			if err := reg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", args[0], args[1], args[2])
			return nil
		},
	}

	cmd.AddCommand(list, validate, set)
	return cmd
}
