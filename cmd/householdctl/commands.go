package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"household/internal/core"
	"household/internal/memory"
	"household/internal/ports"
	"household/internal/services"
)

// storeOpener opens the record store and returns its cleanup.
type storeOpener func(ctx context.Context) (ports.Store, func() error, error)

type app struct {
	out     io.Writer
	open    storeOpener
	now     func() time.Time
	asJSON  bool
	dueSoon int
	stale   int

	store   ports.Store
	cleanup func() error
}

func newRootCmd(out io.Writer, open storeOpener) *cobra.Command {
	a := &app{out: out, open: open, now: time.Now}

	root := &cobra.Command{
		Use:          "householdctl",
		Short:        "Query household bills, subscriptions and password metadata",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			store, cleanup, err := a.open(cmd.Context())
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			a.store, a.cleanup = store, cleanup
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.cleanup != nil {
				return a.cleanup()
			}
			return nil
		},
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print JSON instead of a table")
	root.PersistentFlags().IntVar(&a.dueSoon, "due-soon-days", 7, "days ahead counted as due soon")
	root.PersistentFlags().IntVar(&a.stale, "stale-days", 90, "days after which a password is stale")

	root.AddCommand(
		a.billsCmd(),
		a.subscriptionsCmd(),
		a.passwordsCmd(),
		a.summaryCmd(),
		a.importCmd(),
	)
	return root
}

func (a *app) household() *services.HouseholdService {
	return services.NewHouseholdService(a.store, nil)
}

func (a *app) thresholds() services.Thresholds {
	return services.Thresholds{DueSoonDays: a.dueSoon, StalePasswordDays: a.stale}
}

func (a *app) billsCmd() *cobra.Command {
	var category, search, sortKey, from, to string
	var unpaid bool

	cmd := &cobra.Command{
		Use:   "bills",
		Short: "List bills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := services.BillQuery{Search: search, Unpaid: unpaid}
			var err error
			if q.Category, err = core.ParseBillCategoryFilter(category); err != nil {
				return err
			}
			if q.Sort, err = services.ParseBillSortKey(sortKey); err != nil {
				return err
			}
			if q.From, err = optionalDate(from); err != nil {
				return err
			}
			if q.To, err = optionalDate(to); err != nil {
				return err
			}

			bills, err := a.household().ListBills(cmd.Context(), q)
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(bills)
			}
			total, err := services.TotalDue(bills)
			if err != nil {
				return err
			}

			now := a.now()
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCATEGORY\tAMOUNT\tDUE\tBUCKET\tPAID")
			for _, b := range bills {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					b.Name, b.Category, b.Amount, b.DueDate, services.BucketFor(b.DueDate, now), yesNo(b.Paid))
			}
			fmt.Fprintf(tw, "\t\t%s\t\t\t\n", total)
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "bill category, or all")
	cmd.Flags().StringVarP(&search, "query", "q", "", "case-insensitive name search")
	cmd.Flags().StringVar(&sortKey, "sort", "", "due, name or amount")
	cmd.Flags().StringVar(&from, "from", "", "first due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&unpaid, "unpaid", false, "only unpaid bills")
	return cmd
}

func (a *app) subscriptionsCmd() *cobra.Command {
	var sortKey string

	cmd := &cobra.Command{
		Use:   "subscriptions",
		Short: "List subscriptions with their annual cost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := services.ParseSubscriptionSortKey(sortKey)
			if err != nil {
				return err
			}
			subs, err := a.household().ListSubscriptions(cmd.Context(), key)
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(subs)
			}

			now := a.now()
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCYCLE\tCOST\tANNUAL\tNEXT\tSOON")
			for _, s := range subs {
				annual, err := services.AnnualizedCost(s)
				if err != nil {
					return err
				}
				next, err := services.NextRenewal(s, now)
				if err != nil {
					return err
				}
				soon, err := services.UpcomingSoon(s, now, a.dueSoon)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", s.Name, s.Cycle, s.Cost, annual, next, yesNo(soon))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&sortKey, "sort", "", "name, cost or next_billing")
	return cmd
}

func (a *app) passwordsCmd() *cobra.Command {
	var category, search string

	cmd := &cobra.Command{
		Use:   "passwords",
		Short: "List password entries (metadata only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := core.ParsePasswordCategoryFilter(category)
			if err != nil {
				return err
			}
			entries, err := a.household().ListPasswords(cmd.Context(), cat, search)
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(entries)
			}

			now := a.now()
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TITLE\tUSERNAME\tCATEGORY\tSTRENGTH\tUPDATED\tSTALE")
			for _, p := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					p.Title, p.Username, p.Category, p.Strength, p.LastUpdated,
					yesNo(services.IsStale(p.LastUpdated, now, a.stale)))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "password category, or all")
	cmd.Flags().StringVarP(&search, "query", "q", "", "case-insensitive title or username search")
	return cmd
}

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := services.NewDashboardService(a.store, a.thresholds())
			if err != nil {
				return err
			}
			d, err := svc.Build(cmd.Context())
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(d)
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Bills\t%d (%d unpaid, %d recurring)\n", d.Bills.Count, d.Bills.UnpaidCount, d.Bills.RecurringCount)
			fmt.Fprintf(tw, "Total\t%s\n", d.Bills.Total)
			fmt.Fprintf(tw, "Outstanding\t%s\n", d.Bills.Outstanding)
			fmt.Fprintf(tw, "Overdue\t%s\n", d.Bills.Overdue)
			fmt.Fprintf(tw, "Due this week\t%s\n", d.Bills.DueThisWeek)
			fmt.Fprintf(tw, "Due next week\t%s\n", d.Bills.DueNextWeek)
			for _, c := range d.BillsByCategory {
				fmt.Fprintf(tw, "  %s\t%s\n", c.Name, c.Amount)
			}
			fmt.Fprintf(tw, "Subscriptions\t%d (%s/month, %s/year, %d renewing soon)\n",
				d.Subscriptions.Count, d.Subscriptions.MonthlyCost, d.Subscriptions.AnnualCost, d.Subscriptions.RenewingSoon)
			fmt.Fprintf(tw, "Passwords\t%d (%d stale, %d weak)\n", d.Passwords.Count, d.Passwords.Stale, d.Passwords.Weak)
			fmt.Fprintf(tw, "Tasks\t%d (%d pending)\n", d.Tasks.Total, d.Tasks.Pending)
			fmt.Fprintf(tw, "Vehicles\t%d\n", d.Vehicles)
			return tw.Flush()
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <seed.json>",
		Short: "Add the records of a seed file to the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := memory.LoadSeedFile(args[0])
			if err != nil {
				return err
			}
			n, err := seed.Import(cmd.Context(), a.store)
			if err != nil {
				return fmt.Errorf("imported %d records before failing: %w", n, err)
			}
			fmt.Fprintf(a.out, "imported %d records\n", n)
			return nil
		},
	}
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func optionalDate(s string) (*core.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, s)
	}
	return &d, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
