package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tendant/content-model/pkg/contentmodel"
	"github.com/tendant/content-model/pkg/contentmodel/config"
	"github.com/tendant/content-model/pkg/contentmodel/declare"
)

// NewSyncCommand creates the sync command
func NewSyncCommand() *cobra.Command {
	var dir string
	var dryRun bool
	var deleteOrphans bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize content type definitions into the store",
		Long: `Load every definition file under the definitions directory, validate it
against the registered field types and insert or replace the stored
descriptors. With --delete-orphans, stored types that are no longer
declared are removed afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			extra := []config.Option{config.WithDryRun(dryRun), config.WithDeleteOrphans(deleteOrphans)}
			if dir != "" {
				extra = append(extra, config.WithDefinitionsDir(dir))
			}
			s, err := newSession(ctx, cmd, extra...)
			if err != nil {
				return err
			}
			defer s.close()

			defs, err := declare.LoadDir(s.engine.DefinitionsDir)
			if err != nil {
				return err
			}
			s.logger.DebugContext(ctx, "Definitions loaded", "count", len(defs), "dir", s.engine.DefinitionsDir)

			result, err := s.service.Build(ctx, declare.Declarers(defs)...)
			if err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			var deleted []string
			if s.engine.DeleteOrphans {
				deleted, err = s.service.DeleteOrphans(ctx)
				if err != nil {
					return fmt.Errorf("deleting orphans failed: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, struct {
					*contentmodel.BuildResult
					Deleted []string `json:"deleted"`
				}{result, deleted})
			}

			prefix := ""
			if result.DryRun {
				prefix = "(dry run) "
			}
			fmt.Fprintf(out, "%sInserted:  %s\n", prefix, joinIDs(result.Inserted))
			fmt.Fprintf(out, "%sUpdated:   %s\n", prefix, joinIDs(result.Updated))
			fmt.Fprintf(out, "%sUnchanged: %s\n", prefix, joinIDs(result.Unchanged))
			if s.engine.DeleteOrphans {
				fmt.Fprintf(out, "%sDeleted:   %s\n", prefix, joinIDs(deleted))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "definitions directory (default: $DEFINITIONS_DIR)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing them")
	cmd.Flags().BoolVar(&deleteOrphans, "delete-orphans", false, "remove stored types that are no longer declared")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored content types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := newSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.close()

			types, err := s.service.ListContentTypes(ctx)
			if err != nil {
				return fmt.Errorf("failed to list content types: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if types == nil {
					types = []*contentmodel.ContentType{}
				}
				return writeJSON(out, types)
			}

			if len(types) == 0 {
				fmt.Fprintln(out, "No content types found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tGROUP\tREGIONS\tLAST MODIFIED")
			for _, t := range types {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					t.ID, t.Title, t.Group, len(t.Regions), t.LastModified.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <content-type-id>",
		Short: "Print a stored content type descriptor as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := newSession(ctx, cmd)
			if err != nil {
				return err
			}
			defer s.close()

			t, err := s.service.GetContentType(ctx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), t)
		},
	}

	return cmd
}

// NewNewCommand creates the new command
func NewNewCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "new <content-type-id>",
		Short: "Print an empty instance of a content type as JSON",
		Long: `Create an empty, correctly shaped content instance from the stored
descriptor and print it. Fields whose type is not registered are left out
unless --strict is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var extra []config.Option
			if cmd.Flags().Changed("strict") {
				extra = append(extra, config.WithStrictFields(strict))
			}
			s, err := newSession(ctx, cmd, extra...)
			if err != nil {
				return err
			}
			defer s.close()

			instance, err := s.service.Create(ctx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), instance)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail on unregistered field types")

	return cmd
}

// NewFieldTypesCommand creates the fieldtypes command
func NewFieldTypesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "fieldtypes",
		Short: "List registered field types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer s.close()

			registrations := s.service.Registry().Registrations()
			out := cmd.OutOrStdout()
			if asJSON {
				type entry struct {
					Identifier string `json:"identifier"`
					Shorthand  string `json:"shorthand,omitempty"`
				}
				entries := make([]entry, 0, len(registrations))
				for _, r := range registrations {
					entries = append(entries, entry{Identifier: r.Identifier, Shorthand: r.Shorthand})
				}
				return writeJSON(out, entries)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "IDENTIFIER\tSHORTHAND")
			for _, r := range registrations {
				fmt.Fprintf(w, "%s\t%s\n", r.Identifier, r.Shorthand)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinIDs(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}
