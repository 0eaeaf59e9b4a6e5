package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xavierca1/ligue-crm/internal/importer"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Bulk-load customers or orders from CSV",
}

var importCustomersCmd = &cobra.Command{
	Use:   "customers <file.csv|->",
	Short: "Import customers (columns: name, email, phone, segment)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args[0], func(im *importer.Importer, r io.Reader) (importer.Result, error) {
			return im.ImportCustomers(cmd.Context(), r)
		})
	},
}

var importOrdersCmd = &cobra.Command{
	Use:   "orders <file.csv|->",
	Short: "Import orders (columns: customer_id or customer_email, amount, status, created_at)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args[0], func(im *importer.Importer, r io.Reader) (importer.Result, error) {
			return im.ImportOrders(cmd.Context(), r)
		})
	},
}

func init() {
	importCmd.PersistentFlags().Bool("migrate", false, "apply the schema before importing")
	importCmd.AddCommand(importCustomersCmd)
	importCmd.AddCommand(importOrdersCmd)
}

func runImport(cmd *cobra.Command, path string, run func(*importer.Importer, io.Reader) (importer.Result, error)) error {
	migrate, _ := cmd.Flags().GetBool("migrate")

	_, db, err := bootstrap(cmd.Context(), migrate)
	if err != nil {
		return err
	}
	defer db.Close()

	in := io.Reader(os.Stdin)
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	customers := database.NewCustomerRepository(db)
	orders := database.NewOrderRepository(db)
	im := importer.New(
		usecase.NewCreateCustomerUseCase(customers),
		usecase.NewCreateOrderUseCase(orders, customers),
		customers,
	)

	res, err := run(im, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows, %d failed\n", res.Imported, res.Failed)
	return nil
}
