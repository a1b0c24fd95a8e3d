package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alfredjeanlab/reelcast/internal/client"
	"github.com/alfredjeanlab/reelcast/internal/ui"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <image>...",
	Short: "Draft a video script from product photos",
	Long: `Upload one or more product photos with the product text and draft a video
script. Exactly one call is made to the generation API; on failure nothing is
kept and the API's message is shown as-is.

  reel generate --name "Vitamin C Serum" --description "Brightening serum" \
      --price 390 --style fun front.jpg back.jpg`,
	GroupID: "studio",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.GenerateRequest{Product: productDraftFromFlags(cmd)}
		req.Product.Name, _ = cmd.Flags().GetString("name")
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}
			req.Images = append(req.Images, client.Image{Name: filepath.Base(path), Data: data})
		}

		fmt.Fprintln(os.Stderr, ui.RenderMuted(fmt.Sprintf("generating script from %d image(s)...", len(req.Images))))
		resp, err := studioClient.Generate(cmd.Context(), req)
		if err != nil {
			return err
		}
		printWarning(resp.Warning)
		if jsonOutput {
			return printJSON(resp)
		}
		fmt.Println(resp.Result.Content)
		if resp.Embed.URL != "" {
			fmt.Println()
			fmt.Println(ui.RenderMuted("flow: " + resp.Embed.URL))
		}
		return nil
	},
}

var generateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the latest generated script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cur, err := studioClient.CurrentGeneration(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cur)
		}
		html, _ := cmd.Flags().GetBool("html")
		if html {
			fmt.Print(cur.HTML)
			return nil
		}
		fmt.Println(cur.Result.Content)
		return nil
	},
}

var generateExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Save the latest script as a text file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, text, err := studioClient.ExportScript(context.Background())
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("dir")
		path := filepath.Join(dir, filepath.Base(name))
		if err := os.WriteFile(path, text, 0o644); err != nil {
			return fmt.Errorf("writing script: %w", err)
		}
		fmt.Printf("saved %s\n", ui.RenderAccent(path))
		return nil
	},
}

func init() {
	generateCmd.Flags().String("name", "", "product name")
	addProductFlags(generateCmd)

	generateShowCmd.Flags().Bool("html", false, "print the rendered HTML preview")
	generateExportCmd.Flags().String("dir", ".", "directory to write the script to")

	generateCmd.AddCommand(generateShowCmd)
	generateCmd.AddCommand(generateExportCmd)
}
