// Package contacts provides commands editing the contact book without a server.
package contacts

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/oaiiae/contactbook/datastores"
	"github.com/oaiiae/contactbook/validation"
)

// Command returns the contacts command. open is called after flags are parsed.
// Failing sub-commands print their error without the usage.
func Command(open func(cmd *cobra.Command) datastores.ContactsStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "List and edit contacts",
	}
	cmd.AddCommand(
		listCommand(open),
		addCommand(open),
		updateCommand(open),
		deleteCommand(open),
	)
	for _, sub := range cmd.Commands() {
		sub.SilenceUsage = true
	}
	return cmd
}

func listCommand(open func(*cobra.Command) datastores.ContactsStore) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cs, err := open(cmd).LoadAll(cmd.Context())
			if datastores.IsUnreadable(err) {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "No contact saved")
				return err
			}
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), cs)
		},
	}
}

func writeTable(w io.Writer, cs []datastores.Contact) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Index", "Full name", "Phone number", "Email", "ID"})

	data := make([][]string, 0, len(cs))
	for i, c := range cs {
		id := ""
		if !c.ID.IsZero() {
			id = c.ID.String()
		}
		data = append(data, []string{strconv.Itoa(i), c.FullName, c.PhoneNumber, c.Email, id})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// contactFlags binds the contact fields to flags of cmd.
func contactFlags(cmd *cobra.Command) *validation.Input {
	in := new(validation.Input)
	cmd.Flags().StringVarP(&in.FullName, "full-name", "n", "", "full name of the contact")
	cmd.Flags().StringVarP(&in.PhoneNumber, "phone-number", "t", "", "Indonesian mobile number")
	cmd.Flags().StringVarP(&in.Email, "email", "e", "", "email address")
	return in
}

func validContact(in *validation.Input) (datastores.Contact, error) {
	trimmed := in.Trim()
	if err := validation.Validate(trimmed); err != nil {
		return datastores.Contact{}, err
	}
	return datastores.Contact{
		FullName:    trimmed.FullName,
		PhoneNumber: trimmed.PhoneNumber,
		Email:       trimmed.Email,
	}, nil
}

func addCommand(open func(*cobra.Command) datastores.ContactsStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a contact",
		Args:  cobra.NoArgs,
	}
	in := contactFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		c, err := validContact(in)
		if err != nil {
			return err
		}
		cs, err := datastores.Add(cmd.Context(), open(cmd), c)
		if err != nil {
			return fmt.Errorf("error saving contact: %w", err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "added contact %d (%s)\n", len(cs)-1, cs[len(cs)-1].ID)
		return err
	}
	return cmd
}

func updateCommand(open func(*cobra.Command) datastores.ContactsStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update INDEX|ID",
		Short: "Replace a contact",
		Args:  cobra.ExactArgs(1),
	}
	in := contactFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, err := validContact(in)
		if err != nil {
			return err
		}
		if _, err = datastores.Update(cmd.Context(), open(cmd), args[0], c); err != nil {
			return fmt.Errorf("error updating contact: %w", err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "updated contact %s\n", args[0])
		return err
	}
	return cmd
}

func deleteCommand(open func(*cobra.Command) datastores.ContactsStore) *cobra.Command {
	return &cobra.Command{
		Use:   "delete INDEX|ID",
		Short: "Remove a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := datastores.Delete(cmd.Context(), open(cmd), args[0]); err != nil {
				return fmt.Errorf("error deleting contact: %w", err)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted contact %s\n", args[0])
			return err
		},
	}
}
