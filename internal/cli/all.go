package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// AllOptions holds flags for the all command.
type AllOptions struct {
	LoadOptions
	Fetch    bool
	Workbook string
	NoLoad   bool
}

// AllResult collects the output of every step that ran.
type AllResult struct {
	Fetch      *FetchResult      `json:"fetch,omitempty"`
	Warehouses *WarehousesResult `json:"warehouses"`
	Notes      *NotesResult      `json:"notes"`
	Synth      *SynthResult      `json:"synth"`
	Load       *LoadResult       `json:"load,omitempty"`
}

func (r *AllResult) String() string {
	var parts []string
	if r.Fetch != nil {
		parts = append(parts, r.Fetch.String())
	}
	parts = append(parts, r.Warehouses.String(), r.Notes.String(), r.Synth.String())
	if r.Load != nil {
		parts = append(parts, r.Load.String())
	}
	return strings.Join(parts, "\n")
}

// NewAllCommand creates the all command.
func NewAllCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AllOptions{}

	cmd := &cobra.Command{
		Use:   "all",
		Short: "Run every step in order",
		Long: `Run gen-warehouses, gen-notes, synth and load in order. With --fetch
the book catalog is fetched first; otherwise books.csv must already exist
in the data directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			if err := rootOpts.prepare(cmd); err != nil {
				return fail(f, ErrCodeConfig, "load config", err)
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			res := &AllResult{}
			var err error
			if opts.Fetch {
				if res.Fetch, err = fetchBooks(ctx, rootOpts); err != nil {
					return report(f, err)
				}
				f.VerboseLog("%s", res.Fetch)
			}
			if res.Warehouses, err = genWarehouses(rootOpts); err != nil {
				return report(f, err)
			}
			f.VerboseLog("%s", res.Warehouses)
			if res.Notes, err = genNotes(rootOpts); err != nil {
				return report(f, err)
			}
			f.VerboseLog("%s", res.Notes)
			if res.Synth, err = synthesize(rootOpts, opts.Workbook); err != nil {
				return report(f, err)
			}
			f.VerboseLog("%s", res.Synth)
			if opts.NoLoad {
				return f.Success(res)
			}
			if res.Load, err = loadDataset(ctx, rootOpts, opts.target(rootOpts)); err != nil {
				return report(f, err)
			}
			return f.SuccessWithRunID(res.Load.RunID, res)
		},
	}

	cmd.Flags().BoolVar(&opts.Fetch, "fetch", false, "fetch books.csv from the API first")
	cmd.Flags().StringVar(&opts.Workbook, "xlsx", "", "also write all four tables to this workbook")
	cmd.Flags().BoolVar(&opts.NoLoad, "no-load", false, "stop after synth")
	opts.addFlags(cmd)
	return cmd
}

