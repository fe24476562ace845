package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/A-Mayank/Order-FollowUp-System/internal/apiclient"
	"github.com/A-Mayank/Order-FollowUp-System/internal/config"
	"github.com/A-Mayank/Order-FollowUp-System/internal/dashboard"
)

var dashboardPassword string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Run the interactive admin dashboard in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return runDashboard(cfg)
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardPassword, "password", "", "admin password (defaults to FOLLOWUP_ADMIN_PASSWORD)")
}

func runDashboard(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	password := dashboardPassword
	if password == "" {
		password = cfg.Admin.Password
	}
	if password == "" {
		return fmt.Errorf("admin password is not set")
	}

	api := apiclient.New(cfg.Dashboard.APIBaseURL)
	if err := api.SignIn(ctx, password); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		stdin := bufio.NewScanner(os.Stdin)
		for stdin.Scan() {
			lines <- stdin.Text()
		}
	}()

	view := dashboard.NewView(api)
	view.Confirm = func(prompt string) bool {
		fmt.Printf("%s [y/N] ", prompt)
		line, ok := <-lines
		if !ok {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(line), "y")
	}

	view.Start(ctx, cfg.Dashboard.PollInterval)
	defer view.Stop()
	render(view)

	fmt.Println(`commands: paid <order> | process <order> | ship <order> [tracking carrier] | out <order> | deliver <order> | cancel <order> | resolve <alert> | sync | refresh | quit`)

	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "quit" {
				return nil
			}
			if err := runCommand(ctx, view, line); err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			render(view)
		}
	}
}

func runCommand(ctx context.Context, view *dashboard.View, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "sync":
		msg, err := view.SyncMessages(ctx)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	case "refresh":
		view.Refresh(ctx)
		return nil
	}

	if len(fields) < 2 {
		return fmt.Errorf("usage: %s <id>", fields[0])
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("bad id %q", fields[1])
	}

	switch fields[0] {
	case "paid":
		return view.MarkPaid(ctx, id)
	case "process":
		return view.MarkInProcess(ctx, id)
	case "ship":
		var tracking, carrier string
		if len(fields) > 2 {
			tracking = fields[2]
		}
		if len(fields) > 3 {
			carrier = fields[3]
		}
		return view.MarkShipped(ctx, id, tracking, carrier)
	case "out":
		return view.MarkOutForDelivery(ctx, id)
	case "deliver":
		return view.MarkDelivered(ctx, id)
	case "cancel":
		return view.CancelOrder(ctx, id)
	case "resolve":
		return view.ResolveAlert(ctx, id)
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func render(view *dashboard.View) {
	orders := view.Orders()
	fmt.Println("\n== Orders ==")
	if orders.Err != nil {
		fmt.Printf("  (load failed: %v)\n", orders.Err)
	}
	for _, o := range orders.Orders {
		badge := o.Status.Badge()
		payment := o.PaymentStatus.Badge()
		fmt.Printf("  #%d %s (%s) %s | %s / payment %s [%s]\n",
			o.ID, o.UserName, o.WhatsAppNumber, o.ProductName, badge.Label, payment.Label, o.Sentiment)
	}

	alerts := view.Alerts()
	fmt.Println("== Alerts ==")
	if alerts.Err != nil {
		fmt.Printf("  (load failed: %v)\n", alerts.Err)
	}
	for _, a := range alerts.Alerts {
		state := "open"
		if a.Resolved {
			state = "resolved"
		}
		fmt.Printf("  #%d order %d %s (%s): %s\n", a.ID, a.OrderID, a.Reason, state, a.Description)
	}

	msgs := view.Messages()
	fmt.Println("== Messages ==")
	if msgs.Err != nil {
		fmt.Printf("  (load failed: %v)\n", msgs.Err)
	}
	for _, m := range msgs.Messages {
		direction := "->"
		if m.IsIncoming {
			direction = "<-"
		}
		fmt.Printf("  %s order %d [%s] %s\n", direction, m.OrderID, m.Type, m.Content)
	}
}
