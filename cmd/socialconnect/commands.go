package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-socialconnect/adapters/gocommand"
	socialcommand "github.com/goliatone/go-socialconnect/command"
	"github.com/goliatone/go-socialconnect/core"
	socialquery "github.com/goliatone/go-socialconnect/query"
	"github.com/urfave/cli/v2"
)

var cmdLogin = &cli.Command{
	Name:  "login",
	Usage: "sign in through the browser and store the access token",
	Action: func(cctx *cli.Context) error {
		s, err := openSession(cctx, true)
		if err != nil {
			return err
		}
		defer s.Close()
		ctx := cctx.Context

		var profile []core.Record
		err = s.await(ctx, func() error {
			return gocommand.Dispatch(ctx, socialcommand.AuthenticateMessage{})
		}, func(event core.Event) (bool, error) {
			switch event.Kind {
			case core.EventOperationCompleted:
				if event.Operation == core.OperationAuthorization && event.Success {
					profile = event.Records
				}
			case core.EventError:
				if event.Operation == core.OperationAuthorization && event.Err != nil {
					return true, event.Err
				}
			case core.EventAuthenticateCompleted:
				if !event.Success {
					return true, fmt.Errorf("sign-in failed or was denied")
				}
				return true, nil
			}
			return false, nil
		})
		if err != nil {
			return err
		}
		if err := gocommand.Dispatch(ctx, socialcommand.StoreCredentialsMessage{}); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Signed in.")
		return printRecords(profile)
	},
}

var cmdCall = &cli.Command{
	Name:      "call",
	Usage:     "call a catalog operation with the stored token",
	ArgsUsage: "<operation> [name=value ...]",
	Action: func(cctx *cli.Context) error {
		if cctx.Args().Len() < 1 {
			return fmt.Errorf("operation name is required")
		}
		operation := cctx.Args().First()
		params, err := parseParams(cctx.Args().Tail())
		if err != nil {
			return err
		}

		s, err := openSession(cctx, false)
		if err != nil {
			return err
		}
		defer s.Close()
		ctx := cctx.Context

		restored, err := s.restore(ctx)
		if err != nil {
			return err
		}
		if !restored {
			return fmt.Errorf("no stored credentials, run login first")
		}

		var records []core.Record
		err = s.await(ctx, func() error {
			return gocommand.Dispatch(ctx, socialcommand.InvokeMessage{Operation: operation, Params: params})
		}, func(event core.Event) (bool, error) {
			if event.Operation != operation {
				return false, nil
			}
			switch event.Kind {
			case core.EventError:
				if event.Err != nil {
					return true, event.Err
				}
			case core.EventOperationCompleted:
				records = event.Records
				if !event.Success {
					return true, fmt.Errorf("%s failed", operation)
				}
				return true, nil
			}
			return false, nil
		})
		if err != nil {
			return err
		}
		return printRecords(records)
	},
}

var cmdStatus = &cli.Command{
	Name:  "status",
	Usage: "restore stored credentials and print the client status",
	Action: func(cctx *cli.Context) error {
		s, err := openSession(cctx, false)
		if err != nil {
			return err
		}
		defer s.Close()
		ctx := cctx.Context

		if _, err := s.restore(ctx); err != nil {
			return err
		}
		s.client.Flush()
		status, err := gocommand.Query[socialquery.GetStatusMessage, socialquery.StatusView](ctx, socialquery.GetStatusMessage{})
		if err != nil {
			return err
		}
		return printJSON(status)
	},
}

var cmdOperations = &cli.Command{
	Name:  "operations",
	Usage: "list the catalog operations of the provider",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "method",
			Usage: "only list operations using this HTTP method",
		},
	},
	Action: func(cctx *cli.Context) error {
		s, err := openSession(cctx, false)
		if err != nil {
			return err
		}
		defer s.Close()

		ops, err := gocommand.Query[socialquery.ListOperationsMessage, []socialquery.OperationView](
			cctx.Context,
			socialquery.ListOperationsMessage{Method: cctx.String("method")},
		)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tMETHOD\tPATH\tREQUIRED\tOPTIONAL")
		for _, op := range ops {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				op.Name, op.Method, op.URLTemplate,
				strings.Join(op.Required, ","), strings.Join(op.Optional, ","))
		}
		return w.Flush()
	},
}

var cmdLogout = &cli.Command{
	Name:  "logout",
	Usage: "remove the stored access token",
	Action: func(cctx *cli.Context) error {
		s, err := openSession(cctx, false)
		if err != nil {
			return err
		}
		defer s.Close()
		ctx := cctx.Context

		if err := gocommand.Dispatch(ctx, socialcommand.RemoveCredentialsMessage{}); err != nil {
			return err
		}
		if err := gocommand.Dispatch(ctx, socialcommand.DeauthenticateMessage{}); err != nil {
			return err
		}
		s.client.Flush()
		fmt.Fprintln(os.Stderr, "Signed out.")
		return nil
	},
}

// parseParams reads name=value pairs. Values may contain '='.
func parseParams(args []string) (core.Params, error) {
	params := core.Params{}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected name=value", arg)
		}
		params[name] = value
	}
	return params, nil
}

func printRecords(records []core.Record) error {
	if records == nil {
		records = []core.Record{}
	}
	return printJSON(records)
}

func printJSON(value any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
