package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tdex-network/pubport/internal/config"
	"github.com/tdex-network/pubport/pkg/pubport"
	"github.com/urfave/cli/v2"
)

var resolve = cli.Command{
	Name:      "resolve",
	Usage:     "detect the format of a wallet export and print its descriptors",
	ArgsUsage: "[FILE|-]",
	Action:    resolveAction,
}

type accountOutput struct {
	ScriptType  string `json:"script_type"`
	Network     string `json:"network"`
	Fingerprint string `json:"fingerprint"`
	Path        string `json:"path"`
	External    string `json:"external"`
	Internal    string `json:"internal"`
	Multipath   string `json:"multipath"`
}

type resolveOutput struct {
	Format   string          `json:"format"`
	Accounts []accountOutput `json:"accounts"`
	Warnings []string        `json:"warnings"`
}

func resolveAction(ctx *cli.Context) error {
	raw, err := readInput(ctx)
	if err != nil {
		return err
	}

	format, err := newResolver().Resolve(raw)
	if err != nil {
		return err
	}

	out := resolveOutput{
		Format:   format.Kind().String(),
		Warnings: format.Warnings(),
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	for _, resolved := range format.Accounts() {
		out.Accounts = append(out.Accounts, newAccountOutput(resolved))
	}

	if config.GetString(config.OutputKey) == config.OutputJSON {
		return printJSON(ctx.App.Writer, out)
	}
	printResolveText(ctx.App.Writer, out)
	return nil
}

func newAccountOutput(resolved pubport.Resolved) accountOutput {
	account := resolved.Account
	fingerprint := "00000000"
	if fp, ok := account.MasterFingerprint(); ok {
		fingerprint = fp.String()
	}
	path := ""
	if account.Origin != nil {
		path = account.Path().Absolute()
	}
	return accountOutput{
		ScriptType:  account.ScriptType.String(),
		Network:     account.Network().String(),
		Fingerprint: fingerprint,
		Path:        path,
		External:    resolved.Pair.External,
		Internal:    resolved.Pair.Internal,
		Multipath:   account.Multipath(),
	}
}

func printResolveText(w io.Writer, out resolveOutput) {
	fmt.Fprintf(w, "format: %s\n", out.Format)
	for i, account := range out.Accounts {
		fmt.Fprintln(w)
		if len(out.Accounts) > 1 {
			fmt.Fprintf(w, "account #%d\n", i)
		}
		fmt.Fprintf(w, "script type: %s\n", account.ScriptType)
		fmt.Fprintf(w, "network: %s\n", account.Network)
		fmt.Fprintf(w, "fingerprint: %s\n", account.Fingerprint)
		if account.Path != "" {
			fmt.Fprintf(w, "path: %s\n", account.Path)
		}
		fmt.Fprintf(w, "external: %s\n", account.External)
		fmt.Fprintf(w, "internal: %s\n", account.Internal)
	}
	if len(out.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "warnings:\n  %s\n", strings.Join(out.Warnings, "\n  "))
	}
}

func printJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("unable to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
