package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/viant/spectra-search/index/flat"
	"github.com/viant/spectra-search/index/loader"
	"github.com/viant/spectra-search/index/vptree"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <indexfile>",
	Short: "Print index metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := loader.Load(args[0], loader.WithAccelerate(loader.ModeOff), loader.WithLogger(logger()))
		if err != nil {
			return err
		}
		defer func() {
			if closer, ok := idx.(io.Closer); ok {
				_ = closer.Close()
			}
		}()
		backend := "usearch"
		switch idx.(type) {
		case *flat.Index:
			backend = "flat"
		case *vptree.Index:
			backend = "vptree"
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "file\t%s\n", args[0])
		fmt.Fprintf(w, "backend\t%s\n", backend)
		fmt.Fprintf(w, "vectors\t%d\n", idx.Len())
		fmt.Fprintf(w, "dimension\t%d\n", idx.Dimension())
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
