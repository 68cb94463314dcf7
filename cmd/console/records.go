package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"precinct/contracts/records"
	"precinct/internal/console/form"
	"precinct/internal/console/view"
)

var errRecordNotFound = errors.New("record not found")

func newListCmd(a *app) *cobra.Command {
	var (
		query  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records, optionally filtered by ID prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctl := view.New(a.api, nil, view.WithLogger(a.log))
			load := ctl.Mount
			if cmd.Flags().Changed("query") {
				load = func(ctx context.Context) error { return ctl.SetQuery(ctx, &query) }
			}
			if err := load(cmd.Context()); err != nil {
				return err
			}
			recs := ctl.Snapshot().Records
			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(records.ListResponse{Data: recs})
			}
			return printRecords(a.out, recs)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "ID prefix to match")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw list as JSON")
	return cmd
}

func printRecords(w io.Writer, recs []records.Record) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "No records found.")
		return err
	}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			r.ID,
			form.Display(r.Name),
			form.Display(string(r.Sex)),
			form.Display(r.NationalID),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Name", "Sex", "National ID").
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

type recordFlags struct {
	name       string
	sex        string
	nationalID string
}

func (f *recordFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Name of the person")
	cmd.Flags().StringVar(&f.sex, "sex", string(records.SexMale), "Male or Female")
	cmd.Flags().StringVar(&f.nationalID, "national-id", "", "National ID")
}

// apply overwrites the fields whose flags were given on the command line.
func (f *recordFlags) apply(cmd *cobra.Command, st form.State) (form.State, error) {
	if cmd.Flags().Changed("name") {
		st.Name = f.name
	}
	if cmd.Flags().Changed("sex") {
		sex, err := parseSex(f.sex)
		if err != nil {
			return st, err
		}
		st.Sex = sex
	}
	if cmd.Flags().Changed("national-id") {
		st.NationalID = f.nationalID
	}
	return st, nil
}

func parseSex(v string) (records.Sex, error) {
	for _, s := range []records.Sex{records.SexMale, records.SexFemale} {
		if strings.EqualFold(v, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("sex must be %s or %s", records.SexMale, records.SexFemale)
}

func newAddCmd(a *app) *cobra.Command {
	var (
		flags recordFlags
		id    string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var created string
			newID := func() string {
				created = id
				if created == "" {
					created = form.NewID()
				}
				return created
			}
			ctl := view.New(a.api, nil, view.WithLogger(a.log), view.WithIDGenerator(newID))
			ctl.OpenAdd()
			st, err := flags.apply(cmd, ctl.Snapshot().Form)
			if err != nil {
				return err
			}
			if err := ctl.Submit(cmd.Context(), st); err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "Created record %s\n", created)
			return err
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&id, "id", "", "Record ID (generated when empty)")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var flags recordFlags
	cmd := &cobra.Command{
		Use:   "edit <c_id>",
		Short: "Update fields of an existing record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl := view.New(a.api, nil, view.WithLogger(a.log))
			rec, err := findRecord(cmd.Context(), ctl, args[0])
			if err != nil {
				return err
			}
			ctl.OpenEdit(rec)
			st, err := flags.apply(cmd, ctl.Snapshot().Form)
			if err != nil {
				return err
			}
			if err := ctl.Submit(cmd.Context(), st); err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "Updated record %s\n", rec.ID)
			return err
		},
	}
	flags.bind(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <c_id>",
		Short: "Delete a record after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ask := stdinConfirmer(a.in, a.out)
			confirmed := false
			confirm := view.ConfirmFunc(func(ctx context.Context, prompt string) bool {
				confirmed = yes || ask(ctx, prompt)
				return confirmed
			})
			ctl := view.New(a.api, nil, view.WithLogger(a.log), view.WithConfirmer(confirm))
			rec, err := findRecord(cmd.Context(), ctl, args[0])
			if err != nil {
				return err
			}
			if err := ctl.Delete(cmd.Context(), rec); err != nil {
				return err
			}
			if !confirmed {
				_, err = fmt.Fprintln(a.out, "Cancelled")
				return err
			}
			_, err = fmt.Fprintf(a.out, "Deleted record %s\n", rec.ID)
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// findRecord loads records by ID prefix and returns the exact match.
func findRecord(ctx context.Context, ctl *view.Controller, id string) (records.Record, error) {
	if err := ctl.SetQuery(ctx, &id); err != nil {
		return records.Record{}, err
	}
	for _, r := range ctl.Snapshot().Records {
		if r.ID == id {
			return r, nil
		}
	}
	return records.Record{}, fmt.Errorf("%w: %s", errRecordNotFound, id)
}

func stdinConfirmer(in io.Reader, out io.Writer) view.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(_ context.Context, prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}
