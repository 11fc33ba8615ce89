package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jellykids/jellykids-cli/internal/auth"
)

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Browse the signed-in user's libraries",
	}

	cmd.AddCommand(
		newLibraryCollectionsCmd(),
		newLibraryListCmd(),
	)

	return cmd
}

func newLibraryCollectionsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "collections",
		Short: "List top-level collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			resp, err := client.UserCollections(cmd.Context())
			if err != nil {
				return libraryError(err)
			}

			dw := NewDataWriter(colorOutput, format)
			tb := NewTableBuilder("NAME", "TYPE", "ID")
			for _, item := range resp.Items {
				tb.AddRow(item.Name, item.CollectionType, item.ID)
			}
			return tb.Write(dw)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "table", "Output format (table or json)")
	return cmd
}

func newLibraryListCmd() *cobra.Command {
	var format string
	var showURLs bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List movies and series",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			resp, err := client.UserLibrary(cmd.Context())
			if err != nil {
				return libraryError(err)
			}

			dw := NewDataWriter(colorOutput, format)
			if showURLs {
				tb := NewTableBuilder("NAME", "TYPE", "STREAM URL")
				for _, item := range resp.Items {
					stream, err := client.VideoStreamURL(cmd.Context(), item.ID)
					if err != nil {
						return libraryError(err)
					}
					tb.AddRow(item.Name, item.Type, stream)
				}
				return tb.Write(dw)
			}

			tb := NewTableBuilder("NAME", "TYPE", "WATCHED", "ID")
			for _, item := range resp.Items {
				watched := ""
				if item.UserData.Played {
					watched = "✓"
				}
				tb.AddRow(item.Name, item.Type, watched, item.ID)
			}
			if err := tb.Write(dw); err != nil {
				return err
			}

			if format != "json" {
				fmt.Printf("%d items\n", resp.TotalRecordCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "table", "Output format (table or json)")
	cmd.Flags().BoolVar(&showURLs, "urls", false, "Show direct stream URLs")
	return cmd
}

// libraryError rewrites the shared error taxonomy into actionable messages
func libraryError(err error) error {
	switch {
	case errors.Is(err, auth.ErrNoHost):
		return fmt.Errorf("no server bound, run %s first", color.CyanString("jellykids server connect"))
	case errors.Is(err, auth.ErrInvalidCredentials):
		return fmt.Errorf("not signed in, run %s or %s",
			color.CyanString("jellykids auth login"),
			color.CyanString("jellykids auth quickconnect"))
	}
	return err
}
