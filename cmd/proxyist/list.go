package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"proxyist/proxypool/model"
)

func newListCmd(c *cli) *cobra.Command {
	var country, protocol, format, out string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch the proxy list, optionally filtered",
		Long:  `Fetches the full proxy list once. --country and --protocol can be combined; --out additionally writes a pipe-delimited export.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var protocolFilter model.Protocol
			if protocol != "" {
				p, err := model.ParseProtocol(protocol)
				if err != nil {
					return err
				}
				protocolFilter = p
			}
			if format != "json" && format != "table" {
				return fmt.Errorf("unknown format %q, expected json or table", format)
			}

			m, err := c.newManager()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var proxies []*model.ProxyRecord
			switch {
			case country != "":
				proxies, err = m.GetByCountryCode(ctx, country)
			case protocolFilter != "":
				proxies, err = m.GetByProtocol(ctx, protocolFilter)
			default:
				proxies, err = m.Get(ctx)
			}
			if err != nil {
				return err
			}
			if country != "" && protocolFilter != "" {
				proxies = keepProtocol(proxies, protocolFilter)
			}

			if out != "" {
				if err := c.newExporter(out).Save(proxies); err != nil {
					return err
				}
			}

			if format == "table" {
				return printTable(cmd.OutOrStdout(), proxies)
			}
			return printJSON(cmd.OutOrStdout(), proxies)
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "only proxies with this country code, e.g. US")
	cmd.Flags().StringVar(&protocol, "protocol", "", "only proxies with this protocol (http|https)")
	cmd.Flags().StringVar(&format, "format", "json", "output format (json|table)")
	cmd.Flags().StringVar(&out, "out", "", "also export the result to this file")
	return cmd
}

func keepProtocol(proxies []*model.ProxyRecord, protocol model.Protocol) []*model.ProxyRecord {
	out := make([]*model.ProxyRecord, 0, len(proxies))
	for _, p := range proxies {
		if p.Protocol == protocol {
			out = append(out, p)
		}
	}
	return out
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(w io.Writer, proxies []*model.ProxyRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "URL\tCODE\tCOUNTRY\tLAST UPDATE")
	for _, p := range proxies {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.URL, p.CountryCode, p.Country, p.LastUpdate)
	}
	return tw.Flush()
}
