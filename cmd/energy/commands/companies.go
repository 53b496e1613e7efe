package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LNshuti/energy/internal/reference"
)

// companiesCmd represents the companies command
var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List selectable companies and their tickers",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := reference.Default()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "COMPANY\tTICKER")
		for _, c := range dir.Companies() {
			fmt.Fprintf(w, "%s\t%s\n", c.Name, c.Ticker)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\n%d companies\n", dir.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(companiesCmd)
}
