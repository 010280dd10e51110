// clinicorectl is a small operator-administration tool for a clinicore
// store: it provisions accounts, changes roles, deactivates operators, and
// prints recent audit events. It opens the same database the daemon uses, so
// run it while the daemon is stopped.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/arturpetrov/clinicore/internal/app"
	"github.com/arturpetrov/clinicore/internal/config"
	"github.com/arturpetrov/clinicore/internal/flagx"
	"github.com/arturpetrov/clinicore/internal/models"
	"github.com/arturpetrov/clinicore/internal/services"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: clinicorectl <command> [flags]

commands:
  create-operator -u <username> -r <role>   provision an account (prompts for password)
  set-role        -id <operator> -r <role>  change an operator's role
  deactivate      -id <operator>            disable an account
  audit           [-n <limit>] [-op <id>]   print recent audit events
`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	command := os.Args[1]
	// LoadConfig parses os.Args for the global flags (-d, -c, ...); shift
	// out the subcommand so it is not mistaken for a value.
	os.Args = append(os.Args[:1], os.Args[2:]...)

	ctx := context.Background()
	cfg := config.LoadConfig()

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	meta := services.RequestMeta{UserAgent: "clinicorectl"}

	switch command {
	case "create-operator":
		err = createOperator(ctx, a, meta)
	case "set-role":
		err = setRole(ctx, a, meta)
	case "deactivate":
		err = deactivate(ctx, a, meta)
	case "audit":
		err = printAudit(ctx, a)
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", command, err)
		os.Exit(1)
	}
}

func createOperator(ctx context.Context, a *app.App, meta services.RequestMeta) error {
	fs := flag.NewFlagSet("create-operator", flag.ExitOnError)
	username := fs.String("u", "", "username")
	role := fs.String("r", string(models.RoleSecretary), "role (admin, doctor, secretary, accountant)")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-u", "-r"}))

	password, err := promptPassword()
	if err != nil {
		return err
	}

	op, err := a.Auth.CreateOperator(ctx, models.CreateOperatorParams{
		Username: *username,
		Password: password,
		Role:     models.Role(*role),
	}, "", meta)
	if err != nil {
		return err
	}
	fmt.Printf("created operator %s (%s) id=%s\n", op.Username, op.Role, op.ID)
	return nil
}

func setRole(ctx context.Context, a *app.App, meta services.RequestMeta) error {
	fs := flag.NewFlagSet("set-role", flag.ExitOnError)
	id := fs.String("id", "", "operator id")
	role := fs.String("r", "", "new role")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-id", "-r"}))

	if err := a.Auth.SetRole(ctx, *id, models.Role(*role), "", meta); err != nil {
		return err
	}
	fmt.Printf("operator %s role set to %s\n", *id, *role)
	return nil
}

func deactivate(ctx context.Context, a *app.App, meta services.RequestMeta) error {
	fs := flag.NewFlagSet("deactivate", flag.ExitOnError)
	id := fs.String("id", "", "operator id")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-id"}))

	if err := a.Auth.Deactivate(ctx, *id, "", meta); err != nil {
		return err
	}
	fmt.Printf("operator %s deactivated\n", *id)
	return nil
}

func printAudit(ctx context.Context, a *app.App) error {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	limit := fs.Int("n", 20, "max events")
	operator := fs.String("op", "", "filter by operator id")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-n", "-op"}))

	events, err := a.Audit.ListRecent(ctx, models.AuditFilter{OperatorID: *operator}, *limit)
	if err != nil {
		return err
	}
	for _, e := range events {
		actor := "-"
		if e.OperatorID != nil {
			actor = *e.OperatorID
		}
		fmt.Printf("%s  %-24s  %-36s  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Action, actor, e.Details)
	}
	return nil
}

// promptPassword reads the password twice without echo and checks the two
// entries match.
func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	fmt.Fprint(os.Stderr, "repeat: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
