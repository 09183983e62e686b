package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"poboard/internal/browse"
	"poboard/internal/domain"
	apperrors "poboard/internal/errors"
	"poboard/internal/infrastructure/logger"
)

const dateLayout = "2006-01-02"

func main() {
	var (
		server     = flag.String("server", "http://localhost:8080", "order backend base URL")
		status     = flag.String("status", "all", "status filter: all|pending|completed|delayed|rejected")
		search     = flag.String("search", "", "free-text search over order number, company, client")
		from       = flag.String("from", "", "from date (YYYY-MM-DD)")
		to         = flag.String("to", "", "to date (YYYY-MM-DD)")
		page       = flag.Int("page", 1, "page number")
		limit      = flag.Int("limit", 10, "orders per page")
		watch      = flag.Duration("watch", 0, "re-fetch and redraw at this interval (e.g. 5s)")
		counts     = flag.Bool("counts", false, "print the dashboard status counts")
		bin        = flag.Bool("bin", false, "list the recycle bin")
		softDelete = flag.Uint("soft-delete", 0, "move the given order id to the recycle bin")
		restore    = flag.String("restore", "", "comma-separated recycle-bin ids to restore")
		purge      = flag.String("purge", "", "comma-separated recycle-bin ids to delete permanently")
		logLevel   = flag.String("log-level", "warn", "log level")
	)
	flag.Parse()

	zapLogger, err := logger.New(*logLevel)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	client := browse.NewClient(*server)
	ctx := context.Background()

	switch {
	case *counts:
		err = printCounts(ctx, client)
	case *bin:
		err = printRecycleBin(ctx, client, zapLogger)
	case *softDelete != 0:
		err = runSoftDelete(ctx, client, zapLogger, *softDelete, *limit)
	case *restore != "":
		err = runBinMutation(ctx, client, zapLogger, *restore, true)
	case *purge != "":
		err = runBinMutation(ctx, client, zapLogger, *purge, false)
	default:
		err = runList(client, zapLogger, listOptions{
			status: *status,
			search: *search,
			from:   *from,
			to:     *to,
			page:   *page,
			limit:  *limit,
			watch:  *watch,
		})
	}

	if err != nil {
		if ve, ok := apperrors.IsValidationError(err); ok {
			for _, d := range ve.Details {
				fmt.Fprintf(os.Stderr, "%s: %s\n", d.Field, d.Message)
			}
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

type listOptions struct {
	status string
	search string
	from   string
	to     string
	page   int
	limit  int
	watch  time.Duration
}

// runList drives the fetch coordinator: criteria in, one rendered table per
// settled result. With -watch it keeps re-fetching until interrupted.
func runList(client *browse.Client, zapLogger *zap.Logger, opts listOptions) error {
	statusFilter, err := domain.ParseStatusFilter(opts.status)
	if err != nil {
		return apperrors.NewValidationError("invalid flags", apperrors.ValidationDetail{
			Field: "status", Message: err.Error(),
		})
	}

	fromDate, toDate, err := parseDates(opts.from, opts.to)
	if err != nil {
		return err
	}

	// Short debounce: a one-shot CLI has no keystrokes to coalesce.
	coord := browse.NewCoordinator(client, zapLogger, opts.limit, 10*time.Millisecond)
	defer coord.Close()

	states := make(chan browse.State, 16)
	coord.Subscribe(func(s browse.State) {
		states <- s
	})

	if fromDate != nil || toDate != nil {
		if err := coord.SetDateRange(fromDate, toDate); err != nil {
			return err
		}
	}
	if err := coord.SetStatusFilter(statusFilter); err != nil {
		return err
	}
	if opts.search != "" {
		coord.SetSearchQuery(opts.search)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var tick <-chan time.Time
	if opts.watch > 0 {
		ticker := time.NewTicker(opts.watch)
		defer ticker.Stop()
		tick = ticker.C
	}

	paged := opts.page > 1
	deadline := time.After(30 * time.Second)

	for {
		select {
		case s := <-states:
			switch s.Phase {
			case browse.PhaseFailed:
				return s.Err
			case browse.PhaseSucceeded:
				if searchPending(coord, opts.search) {
					continue
				}
				// Jump to the requested page once the first settled result
				// reports the page bounds.
				if paged {
					paged = false
					if coord.ChangePage(opts.page) {
						continue
					}
					fmt.Fprintf(os.Stderr, "page %d is out of range (1-%d)\n", opts.page, s.Pagination.TotalPages)
				}
				renderOrders(s.Orders, s.Pagination)
				if opts.watch == 0 {
					return nil
				}
			}
		case <-tick:
			coord.TriggerRefresh()
		case <-quit:
			return nil
		case <-deadline:
			if opts.watch == 0 {
				return fmt.Errorf("timed out waiting for the order list")
			}
		}
	}
}

// searchPending reports whether the debounced search text has not settled
// into the coordinator criteria yet; results before that are superseded.
func searchPending(coord *browse.Coordinator, search string) bool {
	return search != "" && coord.Criteria().Search != search
}

func printCounts(ctx context.Context, client *browse.Client) error {
	counts, err := client.StatusCounts(ctx)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("TOTAL", "PENDING", "COMPLETED", "DELAYED", "REJECTED")
	table.Append([]string{
		strconv.Itoa(counts.Total),
		strconv.Itoa(counts.Pending),
		strconv.Itoa(counts.Completed),
		strconv.Itoa(counts.Delayed),
		strconv.Itoa(counts.Rejected),
	})
	return table.Render()
}

func printRecycleBin(ctx context.Context, client *browse.Client, zapLogger *zap.Logger) error {
	rb := browse.NewRecycleBin(client, zapLogger)
	if err := rb.Load(ctx); err != nil {
		return err
	}

	orders := rb.Orders()
	if len(orders) == 0 {
		fmt.Println("recycle bin is empty")
		return nil
	}
	renderOrders(orders, domain.Pagination{
		CurrentPage: 1,
		TotalPages:  1,
		TotalOrders: len(orders),
		Limit:       len(orders),
	})
	return nil
}

func runSoftDelete(ctx context.Context, client *browse.Client, zapLogger *zap.Logger, id uint, limit int) error {
	coord := browse.NewCoordinator(client, zapLogger, limit, browse.DefaultDebounce)
	defer coord.Close()

	if err := coord.SoftDelete(ctx, id); err != nil {
		return err
	}
	fmt.Printf("order %d moved to the recycle bin\n", id)
	return nil
}

func runBinMutation(ctx context.Context, client *browse.Client, zapLogger *zap.Logger, rawIDs string, restore bool) error {
	ids, err := parseIDs(rawIDs)
	if err != nil {
		return err
	}

	rb := browse.NewRecycleBin(client, zapLogger)
	if err := rb.Load(ctx); err != nil {
		return err
	}

	for _, id := range ids {
		rb.Toggle(id)
	}
	if got := rb.Selected(); len(got) != len(ids) {
		return apperrors.NewValidationError("invalid ids", apperrors.ValidationDetail{
			Field:   "ids",
			Message: "one or more ids are not in the recycle bin",
		})
	}

	if restore {
		if err := rb.RestoreSelected(ctx); err != nil {
			return err
		}
		fmt.Printf("restored %d order(s)\n", len(ids))
		return nil
	}

	if err := rb.DeleteSelected(ctx); err != nil {
		return err
	}
	fmt.Printf("permanently deleted %d order(s)\n", len(ids))
	return nil
}

func renderOrders(orders []domain.Order, pagination domain.Pagination) {
	if len(orders) == 0 {
		fmt.Println("no orders found")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "ORDER #", "COMPANY", "CLIENT", "STATUS", "TOTAL", "DATE", "BY")
	for _, o := range orders {
		table.Append([]string{
			strconv.FormatUint(uint64(o.ID), 10),
			o.OrderNumber,
			o.CompanyName,
			o.ClientName,
			string(o.Status),
			o.Total().StringFixed(2),
			o.EffectiveDate().Format(dateLayout),
			o.GeneratedBy.Username,
		})
	}
	if err := table.Render(); err != nil {
		log.Printf("rendering table: %v", err)
	}

	fmt.Printf("page %d of %d (%d orders)\n", pagination.CurrentPage, pagination.TotalPages, pagination.TotalOrders)
}

func parseDates(fromRaw, toRaw string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if fromRaw != "" {
		t, err := time.Parse(dateLayout, fromRaw)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid flags", apperrors.ValidationDetail{
				Field: "from", Message: "from must be a date in YYYY-MM-DD format",
			})
		}
		from = &t
	}
	if toRaw != "" {
		t, err := time.Parse(dateLayout, toRaw)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid flags", apperrors.ValidationDetail{
				Field: "to", Message: "to must be a date in YYYY-MM-DD format",
			})
		}
		to = &t
	}
	return from, to, nil
}

func parseIDs(raw string) ([]uint, error) {
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil || n == 0 {
			return nil, apperrors.NewValidationError("invalid ids", apperrors.ValidationDetail{
				Field: "ids", Message: "ids must be positive integers separated by commas",
			})
		}
		ids = append(ids, uint(n))
	}
	if len(ids) == 0 {
		return nil, apperrors.NewValidationError("invalid ids", apperrors.ValidationDetail{
			Field: "ids", Message: "at least one id is required",
		})
	}
	return ids, nil
}
