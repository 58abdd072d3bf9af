package main

import (
	"fmt"
	"strings"

	"github.com/tdex-network/pubport/pkg/descriptor"
	"github.com/urfave/cli/v2"
)

var checksum = cli.Command{
	Name:      "checksum",
	Usage:     "verify the checksum of a descriptor or append one if missing",
	ArgsUsage: "DESCRIPTOR",
	Action:    checksumAction,
}

func checksumAction(ctx *cli.Context) error {
	desc := strings.TrimSpace(ctx.Args().First())
	if desc == "" {
		return &invalidUsageError{ctx, "checksum"}
	}

	body, err := descriptor.VerifyChecksum(desc)
	if err != nil {
		return err
	}
	withChecksum, err := descriptor.WithChecksum(body)
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.App.Writer, withChecksum)
	return nil
}
