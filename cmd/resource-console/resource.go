package main

import (
	"strconv"

	"github.com/agentuity/resource-console/resource"
	"github.com/agentuity/resource-console/view"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newResourceCommand(s *streams, kind resource.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:     kind.Name,
		Aliases: []string{kind.Envelope},
		Short:   "Work with " + kind.Envelope,
	}
	cmd.AddCommand(
		listCommand(s, kind),
		getCommand(s, kind),
		createCommand(s, kind),
		updateCommand(s, kind),
		deleteCommand(s, kind),
	)
	if kind == resource.Todos {
		cmd.AddCommand(toggleCommand(s, kind))
	}
	return cmd
}

func parseID(arg string) (int, error) {
	id, err := resource.ParseID(arg)
	if err != nil {
		return 0, errors.WithHint(err, "ids are positive whole numbers")
	}
	return id, nil
}

func listCommand(s *streams, kind resource.Kind) *cobra.Command {
	var where, output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + kind.Envelope,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			return openAndWrite(cmd, s, kind.Route(), output, sessionOptions{where: where})
		},
	}
	cmd.Flags().StringVarP(&where, "where", "w", "", "keep rows matching an expression, e.g. 'price > 10'")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	return cmd
}

func getCommand(s *streams, kind resource.Kind) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one " + kind.Name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return openAndWrite(cmd, s, kind.ItemPath(id), output, sessionOptions{})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	return cmd
}

// openAndWrite prints the page at path. A page that failed to load still
// renders its fallback in table output.
func openAndWrite(cmd *cobra.Command, s *streams, path, output string, opts sessionOptions) error {
	sess, err := newSession(cmd.Context(), cmd, s, opts)
	if err != nil {
		return err
	}
	defer sess.Close()
	page, err := sess.app.Open(cmd.Context(), path)
	if err != nil {
		if output == outputTable {
			page.Render(s.out)
			return errors.Mark(err, view.ErrReported)
		}
		return err
	}
	return write(s.out, page, output)
}

func fieldArgs(fields map[string]string) []string {
	out := make([]string, 0, len(fields))
	for k, v := range fields {
		out = append(out, k+"="+v)
	}
	return out
}

func createCommand(s *streams, kind resource.Kind) *cobra.Command {
	var fields map[string]string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + kind.Name + "; prompts for fields when none are given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := newSession(cmd.Context(), cmd, s, sessionOptions{})
			if err != nil {
				return err
			}
			defer sess.Close()
			ctx := cmd.Context()
			if _, err := sess.app.Open(ctx, kind.Route()); err != nil {
				return err
			}
			if err := sess.app.Do(ctx, "create", fieldArgs(fields)); err != nil {
				return err
			}
			sess.app.Render(s.out)
			return nil
		},
	}
	cmd.Flags().StringToStringVarP(&fields, "field", "f", nil, "field value as name=value, repeatable")
	return cmd
}

func updateCommand(s *streams, kind resource.Kind) *cobra.Command {
	var (
		fields    map[string]string
		assumeYes bool
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a " + kind.Name + "; prompts for fields when none are given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sess, err := newSession(cmd.Context(), cmd, s, sessionOptions{assumeYes: assumeYes})
			if err != nil {
				return err
			}
			defer sess.Close()
			ctx := cmd.Context()
			if _, err := sess.app.Open(ctx, kind.Route()+"/edit/"+strconv.Itoa(id)); err != nil {
				return err
			}
			if len(fields) > 0 {
				err = sess.app.Do(ctx, "set", fieldArgs(fields))
			} else {
				err = sess.app.Do(ctx, "edit", nil)
			}
			if err != nil {
				return err
			}
			if err := sess.app.Do(ctx, "save", nil); err != nil {
				return err
			}
			sess.app.Render(s.out)
			return nil
		},
	}
	cmd.Flags().StringToStringVarP(&fields, "field", "f", nil, "field value as name=value, repeatable")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to confirmations")
	return cmd
}

func deleteCommand(s *streams, kind resource.Kind) *cobra.Command {
	var assumeYes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + kind.Name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runItemAction(cmd, s, kind, id, "delete", assumeYes)
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to confirmations")
	return cmd
}

func toggleCommand(s *streams, kind resource.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a " + kind.Name + " between done and open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runItemAction(cmd, s, kind, id, "toggle", true)
		},
	}
}

func runItemAction(cmd *cobra.Command, s *streams, kind resource.Kind, id int, action string, assumeYes bool) error {
	sess, err := newSession(cmd.Context(), cmd, s, sessionOptions{assumeYes: assumeYes})
	if err != nil {
		return err
	}
	defer sess.Close()
	ctx := cmd.Context()
	if _, err := sess.app.Open(ctx, kind.ItemPath(id)); err != nil {
		return err
	}
	if err := sess.app.Do(ctx, action, nil); err != nil {
		return err
	}
	sess.app.Render(s.out)
	return nil
}

func newOpenCommand(s *streams) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "open <path>",
		Short: "Render one page, e.g. /todos/3",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			return openAndWrite(cmd, s, args[0], output, sessionOptions{})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	return cmd
}
