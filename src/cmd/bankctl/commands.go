package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/api-sage/bankist/src/internal/adapter/http/models"
	"github.com/api-sage/bankist/src/internal/session"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

var commands = []subcommands.Command{
	&loginCmd{},
	&viewCmd{},
	&movementsCmd{},
	&transferCmd{},
	&loanCmd{},
	&closeCmd{},
	&timerCmd{},
	&watchCmd{},
	&logoutCmd{},
}

var stdout io.Writer = os.Stdout

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}

type loginCmd struct {
	username string
	pin      string
}

func (*loginCmd) Name() string { return "login" }
func (*loginCmd) Synopsis() string { return "log in and print a session token" }
func (*loginCmd) Usage() string {
	return `bankctl login -u <username> -pin <pin>

  Prints the session token on the first line. Export it as BANKIST_TOKEN
  for the other commands.
`
}

func (p *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.username, "u", "", "Username, the owner's initials.")
	f.StringVar(&p.pin, "pin", "", "Numeric pin.")
}

func (p *loginCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c := newClientFromFlags()
	resp, err := call[models.LoginResponse](ctx, c, http.MethodPost, "/login",
		models.LoginRequest{Username: p.username, Pin: models.PinInput(p.pin)}, nil)
	if err != nil {
		return fail(err)
	}

	fmt.Fprintln(stdout, resp.Token)
	fmt.Fprintf(stdout, "%s. As of %s. Logout in %s.\n", resp.Welcome, resp.Date, resp.Timer)
	printAccount(stdout, resp.Account)
	return subcommands.ExitSuccess
}

type viewCmd struct{}

func (*viewCmd) Name() string { return "view" }
func (*viewCmd) Synopsis() string { return "show balance, summary and movements" }
func (*viewCmd) Usage() string { return "bankctl view\n" }
func (*viewCmd) SetFlags(*flag.FlagSet) {}

func (*viewCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	view, err := authed[models.AccountView](ctx, newClientFromFlags(), http.MethodGet, "/account", nil)
	if err != nil {
		return fail(err)
	}
	printAccount(stdout, view)
	return subcommands.ExitSuccess
}

type movementsCmd struct {
	toggle bool
}

func (*movementsCmd) Name() string     { return "movements" }
func (*movementsCmd) Synopsis() string { return "list movements in the session's display order" }
func (*movementsCmd) Usage() string {
	return `bankctl movements [-sort]

  Rows are newest first. -sort flips the session between recorded order and
  ascending amounts before listing.
`
}

func (p *movementsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.toggle, "sort", false, "Toggle the sort order first.")
}

func (p *movementsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	method, path := http.MethodGet, "/movements"
	if p.toggle {
		method, path = http.MethodPost, "/movements/sort"
	}

	resp, err := authed[models.MovementsResponse](ctx, newClientFromFlags(), method, path, nil)
	if err != nil {
		return fail(err)
	}
	if p.toggle {
		fmt.Fprintf(stdout, "sorted: %t\n", resp.Sorted)
	}
	printMovements(stdout, resp.Movements)
	return subcommands.ExitSuccess
}

type transferCmd struct {
	to     string
	amount string
}

func (*transferCmd) Name() string { return "transfer" }
func (*transferCmd) Synopsis() string { return "send money to another account" }
func (*transferCmd) Usage() string { return "bankctl transfer -to <username> -amount <amount>\n" }

func (p *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.to, "to", "", "Recipient username.")
	f.StringVar(&p.amount, "amount", "", "Amount to send.")
}

func (p *transferCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := decimal.NewFromString(strings.TrimSpace(p.amount))
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q: %w", p.amount, err))
	}

	resp, err := authed[models.TransferResponse](ctx, newClientFromFlags(), http.MethodPost, "/transfer",
		models.TransferRequest{To: p.to, Amount: amount})
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "sent %s to %s. Logout in %s.\n", resp.Amount.Formatted, resp.To, resp.Timer)
	printAccount(stdout, resp.Account)
	return subcommands.ExitSuccess
}

type loanCmd struct {
	amount string
}

func (*loanCmd) Name() string { return "loan" }
func (*loanCmd) Synopsis() string { return "request a loan" }
func (*loanCmd) Usage() string { return "bankctl loan -amount <amount>\n" }

func (p *loanCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.amount, "amount", "", "Loan amount, rounded half up to a whole number.")
}

func (p *loanCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := decimal.NewFromString(strings.TrimSpace(p.amount))
	if err != nil {
		return fail(fmt.Errorf("invalid amount %q: %w", p.amount, err))
	}

	resp, err := authed[models.LoanResponse](ctx, newClientFromFlags(), http.MethodPost, "/loan", models.LoanRequest{Amount: amount})
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "loan of %s %s, credited at %s\n", resp.Amount, resp.Status, resp.CreditAt.Local().Format("15:04:05"))
	return subcommands.ExitSuccess
}

type closeCmd struct {
	username string
	pin      string
}

func (*closeCmd) Name() string { return "close" }
func (*closeCmd) Synopsis() string { return "close the logged in account" }
func (*closeCmd) Usage() string { return "bankctl close -u <username> -pin <pin>\n" }

func (p *closeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.username, "u", "", "Confirm username.")
	f.StringVar(&p.pin, "pin", "", "Confirm pin.")
}

func (p *closeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	resp, err := authed[models.CloseAccountResponse](ctx, newClientFromFlags(), http.MethodPost, "/close-account",
		models.CloseAccountRequest{Username: p.username, Pin: models.PinInput(p.pin)})
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(stdout, resp.Message)
	return subcommands.ExitSuccess
}

type timerCmd struct{}

func (*timerCmd) Name() string { return "timer" }
func (*timerCmd) Synopsis() string { return "show time left before automatic logout" }
func (*timerCmd) Usage() string { return "bankctl timer\n" }
func (*timerCmd) SetFlags(*flag.FlagSet) {}

func (*timerCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	resp, err := authed[models.TimerResponse](ctx, newClientFromFlags(), http.MethodGet, "/session/timer", nil)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(stdout, "%s (%s)\n", resp.Remaining, resp.State)
	return subcommands.ExitSuccess
}

type watchCmd struct{}

func (*watchCmd) Name() string { return "watch" }
func (*watchCmd) Synopsis() string { return "follow the logout timer until the session ends" }
func (*watchCmd) Usage() string { return "bankctl watch\n" }
func (*watchCmd) SetFlags(*flag.FlagSet) {}

func (*watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	err := newClientFromFlags().watch(ctx, func(e session.Event) {
		switch e.Type {
		case session.EventLoggedOut:
			fmt.Fprintf(stdout, "\rlogged out (%s)\n", e.Reason)
		case session.EventRefresh:
			fmt.Fprintf(stdout, "\raccount updated, %s left\n", e.Remaining)
		default:
			fmt.Fprintf(stdout, "\r%s", e.Remaining)
		}
	})
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type logoutCmd struct{}

func (*logoutCmd) Name() string { return "logout" }
func (*logoutCmd) Synopsis() string { return "end the session" }
func (*logoutCmd) Usage() string { return "bankctl logout\n" }
func (*logoutCmd) SetFlags(*flag.FlagSet) {}

func (*logoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	resp, err := authed[models.LogoutResponse](ctx, newClientFromFlags(), http.MethodPost, "/logout", nil)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(stdout, resp.Message)
	return subcommands.ExitSuccess
}

type accountsCmd struct {
	id  string
	key string
}

func (*accountsCmd) Name() string { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list every account in the directory" }
func (*accountsCmd) Usage() string {
	return "bankctl accounts [-id <channel id>] [-key <channel key>]\n"
}

func (p *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", envOr("CHANNEL_ID", "BankistOps"), "Operator channel id.")
	f.StringVar(&p.key, "key", os.Getenv("CHANNEL_KEY"), "Operator channel key.")
}

func (p *accountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	resp, err := call[models.DirectoryResponse](ctx, newClientFromFlags(), http.MethodGet, "/admin/accounts", nil, func(r *http.Request) {
		r.SetBasicAuth(p.id, p.key)
	})
	if err != nil {
		return fail(err)
	}

	fmt.Fprintf(stdout, "%d accounts, %d active sessions\n", resp.Count, resp.ActiveSessions)
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tOWNER\tLOCALE\tMOVEMENTS\tBALANCE")
	for _, a := range resp.Accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", a.Username, a.Owner, a.Locale, a.Movements, a.Balance.Formatted)
	}
	tw.Flush()
	return subcommands.ExitSuccess
}

func printAccount(w io.Writer, view models.AccountView) {
	fmt.Fprintf(w, "%s (%s) balance %s\n", view.Owner, view.Username, view.Balance.Formatted)
	fmt.Fprintf(w, "in %s  out %s  interest %s\n", view.Summary.In.Formatted, view.Summary.Out.Formatted, view.Summary.Interest.Formatted)
	printMovements(w, view.Movements)
}

func printMovements(w io.Writer, rows []models.MovementRow) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintf(tw, "%d %s\t%s\t%s\n", row.Index, strings.ToUpper(row.Type), row.FormattedDate, row.Amount.Formatted)
	}
	tw.Flush()
}
