package cli

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tcmc-hq/tcmc-client/pkg/httpclient"
	"github.com/tidwall/gjson"
)

type requestFlags struct {
	params      []string
	headers     []string
	data        string
	contentType string
	query       string
	include     bool
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.params, "param", "p", nil, "Query parameter key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, "Extra header key=value (repeatable)")
	cmd.Flags().StringVar(&f.contentType, "content-type", "", "Content-Type override for this call")
}

func (f *requestFlags) descriptor(path string) (httpclient.Descriptor, error) {
	params, err := parseParams(f.params)
	if err != nil {
		return httpclient.Descriptor{}, err
	}
	headers, err := parsePairs(f.headers)
	if err != nil {
		return httpclient.Descriptor{}, err
	}
	data, err := parseData(f.data)
	if err != nil {
		return httpclient.Descriptor{}, err
	}
	return httpclient.Descriptor{
		URL:         path,
		Params:      params,
		Data:        data,
		HeadersType: f.contentType,
		Headers:     headers,
	}, nil
}

func newRequestCmd(st *state, verb string) *cobra.Command {
	f := &requestFlags{}
	method := strings.ToUpper(verb)

	cmd := &cobra.Command{
		Use:   verb + " <path>",
		Short: fmt.Sprintf("Issue a %s request and print the response body", method),
		Long: fmt.Sprintf(`Issue a %s request against the admin API.

Examples:
  tcmcctl %s /tcmc/knowledge/node/search -p name=人参
  tcmcctl %s /tcmc/knowledge/node/list --query 'data.#.name'`, method, verb, verb),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := f.descriptor(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if f.include {
				resp, err := st.dispatcher.PostOriginal(ctx, desc)
				if err != nil {
					return err
				}
				printEnvelope(out, resp)
				return writeBody(out, resp.Payload(), f.query)
			}

			var body httpclient.Body
			switch method {
			case http.MethodGet:
				body, err = st.dispatcher.Get(ctx, desc)
			case http.MethodPost:
				body, err = st.dispatcher.Post(ctx, desc)
			case http.MethodPut:
				body, err = st.dispatcher.Put(ctx, desc)
			case http.MethodDelete:
				body, err = st.dispatcher.Delete(ctx, desc)
			}
			if err != nil {
				return err
			}
			return writeBody(out, body, f.query)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&f.query, "query", "", "gjson path to extract from a JSON response")
	if method != http.MethodGet {
		cmd.Flags().StringVarP(&f.data, "data", "d", "", "Request body (JSON or text, @file to read a file)")
	}
	if method == http.MethodPost {
		cmd.Flags().BoolVarP(&f.include, "include", "i", false, "Print status and headers before the body")
	}
	return cmd
}

func writeBody(w io.Writer, body httpclient.Body, query string) error {
	if query == "" {
		_, err := fmt.Fprintln(w, body.String())
		return err
	}
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("--query needs a JSON response")
	}
	res := gjson.GetBytes(body, query)
	if !res.Exists() {
		return fmt.Errorf("query %q matched nothing", query)
	}
	if res.Type == gjson.String {
		_, err := fmt.Fprintln(w, res.String())
		return err
	}
	_, err := fmt.Fprintln(w, res.Raw)
	return err
}

func printEnvelope(w io.Writer, resp *httpclient.Response) {
	status := color.New(color.FgGreen, color.Bold)
	if resp.StatusCode >= 300 {
		status = color.New(color.FgYellow, color.Bold)
	}
	status.Fprintln(w, resp.Status)

	keys := make([]string, 0, len(resp.Header))
	for k := range resp.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	cyan := color.New(color.FgCyan).SprintFunc()
	for _, k := range keys {
		for _, v := range resp.Header[k] {
			fmt.Fprintf(w, "%s: %s\n", cyan(k), v)
		}
	}
	fmt.Fprintln(w)
}
