package main

import (
	"fmt"

	"github.com/tdex-network/pubport/internal/config"
	"github.com/tdex-network/pubport/pkg/descriptor"
	"github.com/tdex-network/pubport/pkg/hdkey"
	"github.com/urfave/cli/v2"
)

var addresses = cli.Command{
	Name:      "addresses",
	Usage:     "derive addresses of the account found in a wallet export",
	ArgsUsage: "[FILE|-]",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "count",
			Usage: "the number of addresses to derive, defaults to ADDRESS_COUNT",
		},
		&cli.IntFlag{
			Name:  "from",
			Usage: "the index of the first address",
		},
		&cli.BoolFlag{
			Name:  "change",
			Usage: "derive from the internal chain",
		},
	},
	Action: addressesAction,
}

type addressesOutput struct {
	Descriptor string   `json:"descriptor"`
	From       int      `json:"from"`
	Addresses  []string `json:"addresses"`
}

func addressesAction(ctx *cli.Context) error {
	count := config.GetInt(config.AddressCountKey)
	if ctx.IsSet("count") {
		count = ctx.Int("count")
	}
	from := ctx.Int("from")
	if count <= 0 || count > config.MaxAddressCount || from < 0 {
		return &invalidUsageError{ctx, "addresses"}
	}
	if uint64(from)+uint64(count) > uint64(hdkey.HardenedKeyStart) {
		return fmt.Errorf(
			"addresses must have unhardened indexes, below %d", hdkey.HardenedKeyStart,
		)
	}

	raw, err := readInput(ctx)
	if err != nil {
		return err
	}
	format, err := newResolver().Resolve(raw)
	if err != nil {
		return err
	}

	resolved := format.Accounts()[0]
	chain, desc := descriptor.ExternalChain, resolved.Pair.External
	if ctx.Bool("change") {
		chain, desc = descriptor.InternalChain, resolved.Pair.Internal
	}

	addrs, err := descriptor.Addresses(
		resolved.Account, chain, uint32(from), uint32(count),
	)
	if err != nil {
		return err
	}

	out := addressesOutput{
		Descriptor: desc,
		From:       from,
		Addresses:  make([]string, 0, len(addrs)),
	}
	for _, addr := range addrs {
		out.Addresses = append(out.Addresses, addr.EncodeAddress())
	}

	if config.GetString(config.OutputKey) == config.OutputJSON {
		return printJSON(ctx.App.Writer, out)
	}
	for i, addr := range out.Addresses {
		fmt.Fprintf(ctx.App.Writer, "%d\t%s\n", from+i, addr)
	}
	return nil
}
