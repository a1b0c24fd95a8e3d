package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/reelcast/internal/model"
	"github.com/alfredjeanlab/reelcast/internal/ui"
	"github.com/spf13/cobra"
)

var productCmd = &cobra.Command{
	Use:     "product",
	Short:   "Manage the product inventory",
	GroupID: "studio",
}

var productListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List products, optionally matching a name",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := studioClient.ListProducts(context.Background(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(products)
		}
		printProducts(cmd.OutOrStdout(), products)
		return nil
	},
}

var productAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		draft := productDraftFromFlags(cmd)
		draft.Name = args[0]

		resp, err := studioClient.AddProduct(context.Background(), draft)
		if err != nil {
			return err
		}
		printWarning(resp.Warning)
		if jsonOutput {
			return printJSON(resp.Product)
		}
		fmt.Printf("added %s (%s)\n", resp.Product.Name, ui.RenderAccent(resp.Product.ID))
		return nil
	},
}

var productRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a product",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		warning, err := studioClient.RemoveProduct(context.Background(), args[0])
		if err != nil {
			return err
		}
		printWarning(warning)
		if !jsonOutput {
			fmt.Printf("removed %s\n", args[0])
		}
		return nil
	},
}

// addProductFlags registers the product text flags shared with generate.
func addProductFlags(cmd *cobra.Command) {
	cmd.Flags().String("description", "", "product details")
	cmd.Flags().String("price", "", "price in THB")
	cmd.Flags().String("style", "", "video style (e.g. fun, premium)")
}

func productDraftFromFlags(cmd *cobra.Command) model.ProductDraft {
	description, _ := cmd.Flags().GetString("description")
	price, _ := cmd.Flags().GetString("price")
	style, _ := cmd.Flags().GetString("style")
	return model.ProductDraft{Description: description, Price: price, Style: style}
}

func init() {
	addProductFlags(productAddCmd)

	productCmd.AddCommand(productListCmd)
	productCmd.AddCommand(productAddCmd)
	productCmd.AddCommand(productRemoveCmd)
}
