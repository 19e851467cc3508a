package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netgsm-go/netgsm/pkg/netgsm"
	"github.com/netgsm-go/netgsm/pkg/query"
)

// paramFlags are shared by every command that builds a URL.
type paramFlags struct {
	params     []string
	paramsJSON string
}

func (p *paramFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&p.params, "param", "p", nil, "query parameter key=value or key[prop]=value (repeatable)")
	cmd.Flags().StringVar(&p.paramsJSON, "params-json", "", "query parameters as a JSON object; -p values override")
}

func (p *paramFlags) build() (query.Params, error) {
	fromJSON, err := parseParamsJSON(p.paramsJSON)
	if err != nil {
		return nil, err
	}
	fromFlags, err := parseParamFlags(p.params)
	if err != nil {
		return nil, err
	}
	return fromJSON.Merge(fromFlags), nil
}

func newRequestCmd(c *cli, verb string, withBody bool) *cobra.Command {
	var (
		pf   paramFlags
		data string
	)
	method := strings.ToUpper(verb)

	cmd := &cobra.Command{
		Use:   verb + " <endpoint>",
		Short: fmt.Sprintf("Send a %s request and print the response body", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.ensureClient(cmd); err != nil {
				return err
			}
			params, err := pf.build()
			if err != nil {
				return err
			}

			var body any
			if withBody {
				raw, err := readBody(data, cmd.InOrStdin())
				if err != nil {
					return err
				}
				// A nil RawMessage in an interface would still send "null".
				if raw != nil {
					body = raw
				}
			}

			resp, err := c.client.Request(cmd.Context(), method, args[0], body, params)
			var statusErr *netgsm.StatusError
			if err != nil && !errors.As(err, &statusErr) {
				return err
			}

			c.logger.Info().
				Str("method", method).
				Str("endpoint", args[0]).
				Int("status", resp.StatusCode).
				Msg("response")
			if _, werr := cmd.OutOrStdout().Write(append(resp.Body, '\n')); werr != nil {
				return werr
			}
			if statusErr != nil {
				return fmt.Errorf("%s %s: %s", method, args[0], http.StatusText(statusErr.StatusCode))
			}
			return nil
		},
	}

	pf.register(cmd)
	if withBody {
		cmd.Flags().StringVarP(&data, "data", "d", "", "JSON body, @file, or @- for stdin")
	}
	return cmd
}

func newURLCmd(c *cli) *cobra.Command {
	var pf paramFlags

	cmd := &cobra.Command{
		Use:   "url <endpoint>",
		Short: "Print the canonical request URL without sending anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.ensureClient(cmd); err != nil {
				return err
			}
			params, err := pf.build()
			if err != nil {
				return err
			}
			u, err := c.client.URL(args[0], params)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), u)
			return err
		},
	}

	pf.register(cmd)
	return cmd
}
