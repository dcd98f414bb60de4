package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/declient/packages/client"
	"github.com/abdul-hamid-achik/declient/packages/contract"
	"github.com/abdul-hamid-achik/declient/packages/history"
	"github.com/abdul-hamid-achik/declient/packages/transport"
)

var (
	callParams      []string
	callHistoryPath string
	callExtract     string
	callVerbose     bool
)

var callCmd = &cobra.Command{
	Use:   "call <manifest> <operation>",
	Short: "Invoke one operation of a contract",
	Long: `Invoke one call operation declared in a contract manifest.

Arguments are passed by parameter name with --param; parameters left unset
are treated as absent, which fails the call for required bindings and omits
the pair for optional ones.

Examples:
  declient call api.yaml getUser --param id=42 --param auth="Bearer x"
  declient call api.yaml createUser --param payload='{"name":"ada"}'
  declient call api.yaml getUser --param id=42 --extract user.name
  declient call api.yaml getUser --param id=42 --history calls.db`,
	Args: cobra.ExactArgs(2),
	RunE: callCommand,
}

func init() {
	callCmd.Flags().StringArrayVarP(&callParams, "param", "p", nil, "argument as name=value, repeatable")
	callCmd.Flags().StringVar(&callHistoryPath, "history", "", "record the call into this SQLite database")
	callCmd.Flags().StringVar(&callExtract, "extract", "", "print only this gjson path of the response body")
	callCmd.Flags().BoolVarP(&callVerbose, "verbose", "v", false, "print response headers")
}

func callCommand(cmd *cobra.Command, args []string) error {
	manifestPath, operation := args[0], args[1]

	c, err := contract.LoadFile(manifestPath)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStderr(), "%v\n", err)
		os.Exit(ExitContractError)
	}
	validated, errs := contract.Validate(c)
	if len(errs) > 0 {
		fmt.Fprintf(cmd.OutOrStderr(), "invalid contract %s:\n", manifestPath)
		for _, e := range errs {
			fmt.Fprintf(cmd.OutOrStderr(), "  %v\n", e)
		}
		os.Exit(ExitContractError)
	}

	op, ok := validated.Operation(operation)
	if !ok {
		return fmt.Errorf("unknown operation %q in %s", operation, manifestPath)
	}

	values, err := parseParams(callParams)
	if err != nil {
		return err
	}
	callArgs := make([]any, len(op.Params))
	for i, p := range op.Params {
		if v, ok := values[p.Arg]; ok {
			callArgs[i] = v
		}
	}

	opts := []client.Option{}
	if callHistoryPath != "" {
		store, err := history.Open(callHistoryPath)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, client.WithHistory(store))
	}

	runtime := client.New(validated, opts...)
	defer runtime.Close()

	resp, err := runtime.Call(context.Background(), operation, callArgs...)
	if err != nil {
		if errors.Is(err, transport.ErrCancelled) {
			return fmt.Errorf("call cancelled: %w", err)
		}
		return err
	}

	printResponse(cmd, resp)
	if resp.IsError() {
		os.Exit(ExitCallError)
	}
	return nil
}

func parseParams(params []string) (map[string]string, error) {
	values := make(map[string]string, len(params))
	for _, p := range params {
		name, value, found := strings.Cut(p, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid --param %q, expected name=value", p)
		}
		values[name] = value
	}
	return values, nil
}

func printResponse(cmd *cobra.Command, resp *transport.Response) {
	statusColor := color.New(color.FgGreen)
	if resp.IsError() {
		statusColor = color.New(color.FgRed)
	}
	statusColor.Fprintf(cmd.OutOrStdout(), "%d\n", resp.Status)

	if callVerbose {
		for name, values := range resp.Headers {
			for _, v := range values {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, v)
			}
		}
	}

	body, present := resp.Body()
	if !present {
		return
	}
	if callExtract != "" {
		fmt.Fprintln(cmd.OutOrStdout(), resp.JSON(callExtract).String())
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), body)
}
