package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gaborage/httpkit/formdata"
	httpkit "github.com/gaborage/httpkit/http"
)

// Output formats of the request command
const (
	OutputBody = "body"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// RequestOptions holds options for the request command
type RequestOptions struct {
	Headers         []string
	Query           []string
	Data            string
	Form            []string
	Token           string
	Retries         int
	RetryDelay      time.Duration
	Timeout         time.Duration
	Insecure        bool
	NoRedirect      bool
	NoErrorHandling bool
	Output          string
	NoColor         bool
	Schema          string
}

// NewRequestCommand creates the request command
func NewRequestCommand(global *GlobalOptions) *cobra.Command {
	opts := &RequestOptions{}

	cmd := &cobra.Command{
		Use:   "request <method> <url>",
		Short: "Send a single HTTP request",
		Long: `Send a single HTTP request using the configured client defaults.

Relative URLs are resolved against client.baseurl. Failed attempts are
retried with a fixed delay; 4xx and 5xx responses are failures unless
--no-error-handling is set.`,
		Example: `  # Fetch a page of users
  httpkit request GET https://api.example.com/users -q page=2

  # Post JSON with a bearer token and two retries
  httpkit request POST users -d '{"name":"x"}' --token $TOKEN --retries 2

  # Upload a file
  httpkit request POST upload -F name=x -F photo=@./me.jpg`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, global, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Headers, "header", "H", nil, "Header as 'Name: value' (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.Query, "query", "q", nil, "Query parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "Raw JSON body")
	cmd.Flags().StringArrayVarP(&opts.Form, "form", "F", nil, "Multipart field as name=value or name=@path (repeatable)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "Bearer token")
	cmd.Flags().IntVar(&opts.Retries, "retries", 0, "Additional attempts after the first failure")
	cmd.Flags().DurationVar(&opts.RetryDelay, "retry-delay", httpkit.DefaultRetryDelay, "Pause between attempts")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", httpkit.DefaultTimeout, "Per-attempt timeout")
	cmd.Flags().BoolVarP(&opts.Insecure, "insecure", "k", false, "Skip TLS certificate verification")
	cmd.Flags().BoolVar(&opts.NoRedirect, "no-redirect", false, "Do not follow redirects")
	cmd.Flags().BoolVar(&opts.NoErrorHandling, "no-error-handling", false, "Return 4xx/5xx responses instead of failing")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", OutputBody, "Output format: body, json or yaml")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "Disable colored status output")
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "JSON Schema file the response body must satisfy")

	return cmd
}

func runRequest(cmd *cobra.Command, global *GlobalOptions, opts *RequestOptions, method, rawURL string) error {
	if opts.NoColor {
		color.NoColor = true
	}
	switch opts.Output {
	case OutputBody, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unknown output format %q", opts.Output)
	}

	cfg, log, err := global.loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	b := httpkit.NewFactory(&cfg.Client, nil, log).New()
	if err := applyRequestFlags(cmd, b, opts); err != nil {
		return err
	}

	resp, err := b.Send(cmd.Context(), method, rawURL)
	if err != nil {
		printFailure(cmd.ErrOrStderr(), err)
		return err
	}

	printStatus(cmd.ErrOrStderr(), resp)
	if err := writeBody(cmd.OutOrStdout(), resp, opts.Output); err != nil {
		return err
	}

	if opts.Schema != "" {
		schema, err := os.ReadFile(opts.Schema)
		if err != nil {
			return fmt.Errorf("failed to read schema: %w", err)
		}
		return resp.ValidateSchema(string(schema))
	}
	return nil
}

// applyRequestFlags overrides configured defaults with explicitly set flags.
func applyRequestFlags(cmd *cobra.Command, b *httpkit.Builder, opts *RequestOptions) error {
	flags := cmd.Flags()

	for _, h := range opts.Headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid header %q, expected 'Name: value'", h)
		}
		b.WithHeader(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	if len(opts.Query) > 0 {
		query, err := parsePairs(opts.Query, "query parameter")
		if err != nil {
			return err
		}
		b.WithQuery(query)
	}

	if opts.Data != "" && len(opts.Form) > 0 {
		return errors.New("--data and --form are mutually exclusive")
	}
	if opts.Data != "" {
		b.WithRawBody(opts.Data)
	}
	if len(opts.Form) > 0 {
		fields, err := parseFormFlags(opts.Form)
		if err != nil {
			return err
		}
		b.WithMultipartBody(fields)
	}

	if opts.Token != "" {
		b.WithToken(opts.Token)
	}
	if flags.Changed("retries") {
		b.WithRetries(opts.Retries)
	}
	if flags.Changed("retry-delay") {
		b.WithRetryDelay(opts.RetryDelay)
	}
	if flags.Changed("timeout") {
		b.WithTimeout(opts.Timeout)
	}
	if opts.Insecure {
		b.WithoutTLSVerification()
	}
	if opts.NoRedirect {
		b.WithoutRedirecting()
	}
	if opts.NoErrorHandling {
		b.WithoutErrorHandling()
	}
	return nil
}

func parsePairs(pairs []string, what string) (url.Values, error) {
	values := make(url.Values)
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid %s %q, expected key=value", what, pair)
		}
		values.Add(key, value)
	}
	return values, nil
}

// parseFormFlags turns name=value and name=@path flags into multipart fields.
// Bracketed names nest like an HTML form: -F user[name]=x.
func parseFormFlags(flags []string) ([]formdata.Field, error) {
	form := formdata.NewForm()
	for _, flag := range flags {
		name, value, ok := strings.Cut(flag, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid form field %q, expected name=value or name=@path", flag)
		}
		if path, isFile := strings.CutPrefix(value, "@"); isFile {
			form.AddFile(name, formdata.FileFromPath(path, filepath.Base(path)))
			continue
		}
		form.AddValue(name, value)
	}
	return form.Fields(), nil
}

func statusColor(status int) *color.Color {
	switch {
	case status >= 500:
		return color.New(color.FgRed, color.Bold)
	case status >= 400:
		return color.New(color.FgRed)
	case status >= 300:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func printStatus(w io.Writer, resp *httpkit.Response) {
	stats := resp.Stats()
	status := statusColor(resp.StatusCode()).Sprintf("%d %s", resp.StatusCode(), http.StatusText(resp.StatusCode()))
	fmt.Fprintf(w, "%s (attempts: %d, %s)\n", status, stats.Attempts, stats.ElapsedTime.Round(time.Millisecond))
}

func printFailure(w io.Writer, err error) {
	red := color.New(color.FgRed).SprintFunc()

	var domainErr *httpkit.DomainError
	if errors.As(err, &domainErr) {
		fmt.Fprintf(w, "%s %s\n", red(fmt.Sprintf("%d %s", domainErr.StatusCode(), http.StatusText(domainErr.StatusCode()))), domainErr.Message())
		if len(domainErr.Body()) > 0 {
			fmt.Fprintf(w, "%s\n", domainErr.Body())
		}
		return
	}
	fmt.Fprintf(w, "%s %v\n", red("request failed:"), err)
}

func writeBody(w io.Writer, resp *httpkit.Response, format string) error {
	body := resp.Body()
	if len(body) == 0 {
		return nil
	}

	switch format {
	case OutputJSON:
		var out bytes.Buffer
		if err := json.Indent(&out, body, "", "  "); err != nil {
			return fmt.Errorf("response is not JSON: %w", err)
		}
		out.WriteByte('\n')
		_, err := out.WriteTo(w)
		return err
	case OutputYAML:
		var doc any
		if err := resp.Decode(&doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		if _, err := w.Write(body); err != nil {
			return err
		}
		if !bytes.HasSuffix(body, []byte("\n")) {
			_, err := io.WriteString(w, "\n")
			return err
		}
		return nil
	}
}
