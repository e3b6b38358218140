package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"proxyist/proxypool/model"
)

func newRandomCmd(c *cli) *cobra.Command {
	var country, protocol string
	var cached bool
	var count int

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Pick a random proxy",
		Long: `Picks one random proxy from a fresh fetch, optionally within a country or protocol.
With --cached, draws --count proxies from the in-memory cache without repeats; the cache is refilled by a single fetch when it runs dry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if country != "" && protocol != "" {
				return fmt.Errorf("use either --country or --protocol, not both")
			}
			if cached && (country != "" || protocol != "") {
				return fmt.Errorf("--cached cannot be combined with filters")
			}
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}

			m, err := c.newManager()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			if cached {
				for i := 0; i < count; i++ {
					p, err := m.RandomFromCache(ctx)
					if err != nil {
						return err
					}
					printProxy(cmd, p)
				}
				return nil
			}

			var p *model.ProxyRecord
			switch {
			case country != "":
				p, err = m.RandomByCountryCode(ctx, country)
			case protocol != "":
				var proto model.Protocol
				if proto, err = model.ParseProtocol(protocol); err != nil {
					return err
				}
				p, err = m.RandomByProtocol(ctx, proto)
			default:
				p, err = m.Random(ctx)
			}
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Fprintln(w, "no proxy available")
				return nil
			}
			return printJSON(w, p)
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "pick within this country code")
	cmd.Flags().StringVar(&protocol, "protocol", "", "pick within this protocol (http|https)")
	cmd.Flags().BoolVar(&cached, "cached", false, "draw from the in-memory cache")
	cmd.Flags().IntVar(&count, "count", 1, "number of cached draws")
	return cmd
}

func printProxy(cmd *cobra.Command, p *model.ProxyRecord) {
	if p == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "no proxy available")
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), p.URL)
}
