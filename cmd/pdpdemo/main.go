// Command pdpdemo drives a product detail page from the command line. Each
// argument of the run subcommand is one page event, and every command the
// page receives is printed as it arrives.
//
//	pdpdemo run --product 1 color=Red size=Large + add shipping
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath string
	envFile    string
	productID  int64
	settle     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "pdpdemo",
	Short: "Drive a product detail page from the command line",
	Long: `pdpdemo loads a product catalog and runs a scripted session against
the page logic, using in-memory bag and shipping services.

Settings come from a YAML file, a .env file and PDP_* environment variables.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run [event...]",
	Short: "Run a scripted page session",
	Long: `Sends each argument to the page as an event, in order.

Events:
  ready                 ask for the current view state
  color=<name>          select a colour
  size=<name>           select a size
  +  /  -               increase / decrease the amount
  amount=<n>            set the amount
  add                   tap add to bag
  shipping              request shipping info
  more-info             tap more info
  gallery               tap the carousel image
  recommended=<id>      tap a recommended product
  wait=<duration>       pause before the next event`,
	RunE: runSession,
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the products and SKUs in the catalog",
	Args:  cobra.NoArgs,
	RunE:  listCatalog,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "pdp.yaml", "Config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Env file with PDP_* overrides")

	runCmd.Flags().Int64VarP(&productID, "product", "p", 1, "Product to show")
	runCmd.Flags().DurationVar(&settle, "settle", 0, "How long to wait for pending work after the last event (default: reset delay plus latencies)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
