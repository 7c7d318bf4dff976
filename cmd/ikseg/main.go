// Command ikseg segments Chinese and mixed-script text, from the command
// line or as an HTTP service.
package main

import (
	"github.com/alecthomas/kong"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// CLI defines the command-line interface for ikseg.
type CLI struct {
	Globals

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP segmentation service"`
	Segment SegmentCmd `cmd:"" help:"Segment a file or standard input"`
	Dict    DictGroup  `cmd:"" help:"Dictionary operations"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// DictGroup contains dictionary operations.
type DictGroup struct {
	Lookup DictLookupCmd `cmd:"" help:"Report whether words are in the dictionary"`
	Fetch  DictFetchCmd  `cmd:"" help:"Fetch and print a remote word list"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("ikseg"),
		kong.Description("Dictionary-driven Chinese and mixed-script segmenter"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
